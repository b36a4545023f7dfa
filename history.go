package polywrap

import (
	"fmt"
	"strings"

	"github.com/polywrap/client-go/api"
)

// UnlimitedDepth disables sub-history elision in BuildCleanHistory.
const UnlimitedDepth = -1

// ElisionMarker labels sub-trees elided by BuildCleanHistory's depth limit, so truncation is
// visible rather than silent.
const ElisionMarker = "..."

// HistoryEntry is one node of a cleaned history tree: a label describing an attempt, and the
// attempt's cleaned sub-resolution if it performed one. Sub is nil for leaves.
type HistoryEntry struct {
	Label string
	Sub   []HistoryEntry
}

// BuildCleanHistory projects raw history into a compact tree for logs and debugging. maxDepth
// bounds how many nested sub-history levels are expanded; deeper sub-trees collapse to a single
// ElisionMarker child. Pass UnlimitedDepth to expand everything. The input is never mutated.
func BuildCleanHistory(history []api.UriResolutionStep, maxDepth int) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(history))
	for _, step := range history {
		entry := HistoryEntry{Label: stepLabel(step)}
		if len(step.SubHistory) > 0 {
			if maxDepth == 0 {
				entry.Sub = []HistoryEntry{{Label: ElisionMarker}}
			} else {
				entry.Sub = BuildCleanHistory(step.SubHistory, maxDepth-1)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// RenderCleanHistory returns entries as indented lines, one node per line.
func RenderCleanHistory(entries []HistoryEntry) string {
	var sb strings.Builder
	renderEntries(&sb, entries, 0)
	return sb.String()
}

func renderEntries(sb *strings.Builder, entries []HistoryEntry, indent int) {
	for _, e := range entries {
		sb.WriteString(strings.Repeat("  ", indent))
		sb.WriteString(e.Label)
		sb.WriteByte('\n')
		renderEntries(sb, e.Sub, indent+1)
	}
}

// ResolutionPathFromHistory derives the URIs that made progress from a recorded history: the
// source of every step whose outcome moved resolution forward. Useful when only a history
// snapshot is available, e.g. a sub-tree detached from its context.
func ResolutionPathFromHistory(history []api.UriResolutionStep) []api.Uri {
	var path []api.Uri
	for _, step := range history {
		if step.Err != nil {
			path = append(path, step.SourceUri)
			continue
		}
		if step.Result.Kind() != api.KindUri || step.Result.Uri() != step.SourceUri {
			path = append(path, step.SourceUri)
		}
	}
	return path
}

func stepLabel(step api.UriResolutionStep) string {
	if step.Err != nil {
		return fmt.Sprintf("%s: %s => error (%s)", step.Description, step.SourceUri.String(), step.Err)
	}
	if step.Result.Kind() == api.KindUri && step.Result.Uri() == step.SourceUri {
		return fmt.Sprintf("%s: %s => uri (no change)", step.Description, step.SourceUri.String())
	}
	return fmt.Sprintf("%s: %s => %s", step.Description, step.SourceUri.String(), step.Result)
}
