// Command wrapres resolves a wrap URI against a redirect map and prints the outcome together
// with the resolution history. It exists for debugging resolver configurations without a full
// client.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	polywrap "github.com/polywrap/client-go"
	"github.com/polywrap/client-go/api"
	"github.com/polywrap/client-go/resolvers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wrapres",
		Short:         "Resolve wrap URIs and inspect resolution history",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newResolveCmd())
	return root
}

func newResolveCmd() *cobra.Command {
	var (
		redirectsPath string
		maxDepth      int
		historyDepth  int
		verbose       bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Resolve a wrap URI to its terminal outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := api.ParseUri(args[0])
			if err != nil {
				return err
			}

			config := polywrap.NewClientConfig().WithMaxResolutionDepth(maxDepth)
			if redirectsPath != "" {
				config, err = withRedirectsFile(config, redirectsPath)
				if err != nil {
					return err
				}
			}

			resolver := config.BuildResolver()
			if verbose {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
				resolver = resolvers.NewTracingResolver(resolver, logger)
			}

			resolutionContext := polywrap.NewUriResolutionContext()
			result, resolveErr := resolver.TryResolveUri(cmd.Context(), uri, nil, resolutionContext)

			out := cmd.OutOrStdout()
			if resolveErr != nil {
				fmt.Fprintf(out, "error: %s\n", resolveErr)
			} else {
				fmt.Fprintf(out, "result: %s\n", result)
			}
			fmt.Fprintln(out, "history:")
			fmt.Fprint(out, polywrap.RenderCleanHistory(polywrap.BuildCleanHistory(resolutionContext.GetHistory(), historyDepth)))
			return resolveErr
		},
	}
	cmd.Flags().StringVarP(&redirectsPath, "redirects", "r", "", "JSON file mapping source URIs to redirect targets")
	cmd.Flags().IntVar(&maxDepth, "max-depth", polywrap.DefaultMaxResolutionDepth, "maximum redirects to follow")
	cmd.Flags().IntVar(&historyDepth, "history-depth", polywrap.UnlimitedDepth, "sub-history levels to print, -1 for all")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every resolution attempt to stderr")
	return cmd
}

// withRedirectsFile loads a {"wrap://from": "wrap://to"} JSON object into config.
func withRedirectsFile(config *polywrap.ClientConfig, path string) (*polywrap.ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var redirects map[string]string
	if err := json.Unmarshal(data, &redirects); err != nil {
		return nil, fmt.Errorf("malformed redirects file %s: %w", path, err)
	}
	for from, to := range redirects {
		fromUri, err := api.ParseUri(from)
		if err != nil {
			return nil, fmt.Errorf("redirects file %s: %w", path, err)
		}
		toUri, err := api.ParseUri(to)
		if err != nil {
			return nil, fmt.Errorf("redirects file %s: %w", path, err)
		}
		config = config.WithRedirect(fromUri, toUri)
	}
	return config, nil
}
