// Command linklaws is the CLI surface for the statutory cross-reference
// linker: a batch driver (run), an interactive resolver REPL (repl), and a
// debug HTTP server (serve), all sharing the same resolver/splicer/index
// packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linklaws",
		Short: "Resolve and splice statutory cross-references into Japanese law XML",
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newReplCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}
