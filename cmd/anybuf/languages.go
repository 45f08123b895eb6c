package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"anybuf-dev/anybuf/pkg/codegen"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported output languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LANGUAGE\tALIASES")
		for _, lang := range codegen.Languages() {
			aliases := strings.Join(codegen.Aliases(lang), ", ")
			if aliases == "" {
				aliases = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\n", lang, aliases)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func joinLanguages() string {
	return strings.Join(codegen.Languages(), ", ")
}
