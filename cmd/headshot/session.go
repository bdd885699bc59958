package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/tui"
)

func newSessionCmd(root *rootOptions) *cobra.Command {
	var image, out string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open the interactive headshot studio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if out != "" {
				cfg.Output = out
			}

			a, err := newApp(cmd.Context(), cfg, image)
			if err != nil {
				return err
			}
			defer a.Close()

			m := tui.New(a.session, a.loader, cfg.HTTPTimeout)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if image != "" {
				upload := m.UploadCmd(image)
				go func() { p.Send(upload()) }()
			}
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("terminal UI error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&image, "image", "i", "", "selfie to stage on start")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory or gs:// prefix (overrides HEADSHOT_OUTPUT)")
	return cmd
}
