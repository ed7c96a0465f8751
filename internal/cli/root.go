// Package cli implements the fetchjson command line.
package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "fetchjson",
		Short:   "Send JSON requests and print the normalized response",
		Version: version,
		Long: `fetchjson sends an HTTP request, encoding parameters into the query
string or a JSON body, and prints the parsed JSON response. Responses
that are not JSON or not successful are printed with their status.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("config", "", "YAML or JSON file with base options")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.PersistentFlags().Bool("log", false, "Print request and response events to stderr")

	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	} {
		root.AddCommand(newMethodCmd(method))
	}
	root.AddCommand(newRequestCmd())

	return root
}

// Execute runs the command line with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("param", "p", []string{}, "Query parameter as key=value (can be used multiple times)")
	cmd.Flags().StringP("data", "d", "", "JSON request body")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include as 'Name: value' (can be used multiple times)")
	cmd.Flags().Bool("strict", false, "Fail on a status outside 200-299")
	cmd.Flags().StringP("query", "q", "", "Print only the value at this gjson path")
	cmd.Flags().String("schema", "", "Validate the JSON response against this JSON Schema file")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Request timeout")
}
