package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/adapters"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/catalog"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/config"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/export"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/preview"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/remote"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/session"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/source"
)

// app はコマンドが使う依存関係一式です。
type app struct {
	session  *session.Session
	loader   *source.Loader
	previews *preview.TempDirStore
	storage  remoteio.IOFactory
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.StylesFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.StylesFile)
}

// newApp は設定から依存関係を組み立てます。refs に gs:// が含まれる場合や
// 認証情報ファイルが指定されている場合だけ GCS クライアントを作ります。
func newApp(ctx context.Context, cfg config.Config, refs ...string) (*app, error) {
	if err := cfg.ValidateGeneration(); err != nil {
		return nil, err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	reader, writer := remote.LocalIO()
	if needsGCS(cfg, refs...) {
		a.storage, err = remote.NewFactory(ctx, remote.Config{CredentialsFile: cfg.CredentialsFile})
		if err != nil {
			return nil, err
		}
		if reader, err = a.storage.InputReader(); err != nil {
			return nil, err
		}
		if writer, err = a.storage.OutputWriter(); err != nil {
			return nil, err
		}
	}
	a.loader = source.NewLoader(httpkit.New(cfg.HTTPTimeout), reader)

	exporter, err := export.NewExporter(cfg.Output,
		export.WithQuality(cfg.JPEGQuality),
		export.WithOutputWriter(writer),
	)
	if err != nil {
		return nil, err
	}

	model, err := adapters.NewGenaiModel(ctx, adapters.GenaiConfig{
		APIKey:   cfg.APIKey,
		VertexAI: cfg.VertexAI,
		Project:  cfg.Project,
		Location: cfg.Location,
	})
	if err != nil {
		return nil, err
	}
	gen, err := adapters.NewGeminiHeadshotAdapter(adapters.NewGeminiImageCore(), model, cfg.Model, cfg.AspectRatio)
	if err != nil {
		return nil, err
	}

	a.previews, err = preview.NewTempDirStore("")
	if err != nil {
		return nil, err
	}

	a.session, err = session.New(cat, gen,
		session.WithPreviewStore(a.previews),
		session.WithExporter(exporter),
		session.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "依存関係を初期化しました",
		"model", cfg.Model, "vertex_ai", cfg.VertexAI, "styles", cat.Len(), "output", cfg.Output)
	ok = true
	return a, nil
}

func needsGCS(cfg config.Config, refs ...string) bool {
	if cfg.CredentialsFile != "" || remoteio.IsGCSURI(cfg.Output) {
		return true
	}
	for _, r := range refs {
		if remoteio.IsGCSURI(r) {
			return true
		}
	}
	return false
}

// Close はセッションのプレビューと一時ディレクトリ、GCS クライアントを解放します。
func (a *app) Close() error {
	var errs []error
	if a.session != nil {
		errs = append(errs, a.session.Close())
	}
	if a.previews != nil {
		errs = append(errs, a.previews.Close())
	}
	if a.storage != nil {
		errs = append(errs, a.storage.Close())
	}
	return errors.Join(errs...)
}
