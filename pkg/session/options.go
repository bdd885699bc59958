package session

import (
	"context"
	"log/slog"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
)

// Generator はヘッドショットを一枚生成するクライアントです。
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// Encoder は画像ファイルを base64 にします。
type Encoder interface {
	Encode(ctx context.Context, file domain.ImageFile) (string, error)
}

// PreviewStore はアップロード画像のプレビューハンドルを管理します。
type PreviewStore interface {
	Create(ctx context.Context, file domain.ImageFile) (string, error)
	Release(ref string) error
}

// Exporter は生成結果をローカルに書き出します。
type Exporter interface {
	Export(ctx context.Context, result domain.GenerationResult) (string, error)
}

// Option は Session の依存関係を差し替えます。
type Option func(*Session)

// WithEncoder は画像のエンコーダーを指定します。
func WithEncoder(e Encoder) Option {
	return func(s *Session) { s.encoder = e }
}

// WithPreviewStore はプレビューの保存先を指定します。指定しない場合プレビューは作りません。
func WithPreviewStore(p PreviewStore) Option {
	return func(s *Session) { s.previews = p }
}

// WithExporter は Download で使う書き出し先を指定します。
func WithExporter(e Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

// WithLogger はロガーを指定します。
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
