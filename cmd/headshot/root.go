package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/config"
)

// rootOptions は全サブコマンド共通のフラグです。
type rootOptions struct {
	envFiles   []string
	stylesFile string
	logLevel   string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "headshot",
		Short:        "Turn a casual selfie into a professional headshot",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env, .env.local)")
	cmd.PersistentFlags().StringVar(&opts.stylesFile, "styles", "", "YAML style catalog (overrides HEADSHOT_STYLES_FILE)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides HEADSHOT_LOG_LEVEL)")

	cmd.AddCommand(
		newStylesCmd(opts),
		newGenerateCmd(opts),
		newSessionCmd(opts),
	)
	return cmd
}

// load は設定を読み込み、フラグで上書きしてロガーを設定します。
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if o.stylesFile != "" {
		cfg.StylesFile = o.stylesFile
	}
	if o.logLevel != "" {
		level, err := config.ParseLevel(o.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	o.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return nil
}
