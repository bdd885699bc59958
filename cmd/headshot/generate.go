package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/config"
)

type generateOptions struct {
	image       string
	style       string
	prompt      string
	out         string
	aspectRatio string
	model       string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one headshot from a selfie and save it as ai-headshot.jpeg",
		Example: `  headshot generate --image selfie.png
  headshot generate --image https://example.com/me.jpg --style tech-office --prompt "add glasses"
  headshot generate --image gs://bucket/in/me.heic --out gs://bucket/out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, root.cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.image, "image", "i", "", "selfie to transform: local path, https:// URL or gs:// URI")
	f.StringVarP(&opts.style, "style", "s", "", "style id (default: the first style)")
	f.StringVarP(&opts.prompt, "prompt", "p", "", "extra instructions appended to the style prompt")
	f.StringVarP(&opts.out, "out", "o", "", "output directory or gs:// prefix (overrides HEADSHOT_OUTPUT)")
	f.StringVar(&opts.aspectRatio, "aspect-ratio", "", "aspect ratio such as 3:4 (overrides HEADSHOT_ASPECT_RATIO)")
	f.StringVar(&opts.model, "model", "", "model name (overrides HEADSHOT_MODEL)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, cfg config.Config, opts *generateOptions) error {
	if opts.out != "" {
		cfg.Output = opts.out
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.aspectRatio != "" {
		if !config.ValidAspectRatios[opts.aspectRatio] {
			return fmt.Errorf("unsupported aspect ratio %q", opts.aspectRatio)
		}
		cfg.AspectRatio = opts.aspectRatio
	}

	a, err := newApp(ctx, cfg, opts.image)
	if err != nil {
		return err
	}
	defer a.Close()

	file, err := a.loader.Load(ctx, opts.image)
	if err != nil {
		return err
	}
	if err := a.session.UploadImage(ctx, file); err != nil {
		return err
	}
	if opts.style != "" {
		if err := a.session.SelectStyle(opts.style); err != nil {
			return err
		}
	}
	if err := a.session.EditPrompt(opts.prompt); err != nil {
		return err
	}

	genCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	defer cancel()
	if _, err := a.session.Generate(genCtx); err != nil {
		st := a.session.Snapshot()
		if st.Error != nil {
			return errors.New(st.Error.Message)
		}
		return err
	}

	target, err := a.session.Download(ctx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "完了しました", "style", a.session.Snapshot().StyleID)
	fmt.Fprintln(cmd.OutOrStdout(), target)
	return nil
}
