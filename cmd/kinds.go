package cmd

import (
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the supported action kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(output.Kinds())
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
