package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newStylesCmd(opts *rootOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List the available headshot styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(opts.cfg)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME"}
			if verbose {
				headers = append(headers, "PROMPT")
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
				Headers(headers...)
			for _, s := range cat.All() {
				row := []string{s.ID, s.Name}
				if verbose {
					row = append(row, s.Prompt)
				}
				t.Row(row...)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print each style's prompt")
	return cmd
}
