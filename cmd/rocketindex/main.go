// Command rocketindex indexes a multi-language source tree with
// tree-sitter extractors and a SQLite-backed disk index, then serves goto
// definition, references, call-graph traversal, and an LSP backend over
// it: a cobra root command, persistent --format/--quiet flags, and one
// subcommand per operation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagRoot   string
	flagFormat string
	flagQuiet  bool
)

// Exit codes per the external interface contract: 0 success, 1 "not
// found" (a valid query came back empty), 2 error.
const (
	exitOK       = 0
	exitNotFound = 1
	exitError    = 2
)

// notFoundErr causes main to exit 1 instead of 2 without printing
// "Error: ..." noise for an expected empty result.
type notFoundErr struct{ msg string }

func (e notFoundErr) Error() string { return e.msg }

func newNotFound(format string, args ...any) error {
	return notFoundErr{msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var nf notFoundErr
		if asNotFound(err, &nf) {
			if !flagQuiet {
				fmt.Fprintln(os.Stderr, nf.msg)
			}
			os.Exit(exitNotFound)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitError)
	}
}

func asNotFound(err error, target *notFoundErr) bool {
	if nf, ok := err.(notFoundErr); ok {
		*target = nf
		return true
	}
	return false
}

var rootCmd = &cobra.Command{
	Use:           "rocketindex",
	Short:         "Multi-language source indexing and navigation",
	Long:          "rocketindex parses source with tree-sitter, maintains a SQLite disk index and an in-memory live index, and answers definition/reference/traversal queries over both a CLI and an LSP backend.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "workspace root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress non-essential output")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(defCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(spiderCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(callersCmd)
	rootCmd.AddCommand(subclassesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(extractTypesCmd)
	rootCmd.AddCommand(typeInfoCmd)
	rootCmd.AddCommand(blameCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(lspCmd)
}

var validFormats = []string{"json", "text"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be json or text", format)
}
