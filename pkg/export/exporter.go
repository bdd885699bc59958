package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/imgutil"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// DefaultFilename は書き出すファイルの固定名です。
const DefaultFilename = "ai-headshot.jpeg"

// DefaultQuality は JPEG への再エンコード時の品質です。
const DefaultQuality = 90

// Exporter は生成結果を JPEG としてローカルディレクトリか gs:// プレフィックスに書き出します。
type Exporter struct {
	dest    string
	quality int
	writer  remoteio.OutputWriter
}

// Option は Exporter の設定を変更します。
type Option func(*Exporter)

// WithQuality は再エンコード時の品質を指定します。
func WithQuality(q int) Option {
	return func(e *Exporter) {
		if q > 0 && q <= 100 {
			e.quality = q
		}
	}
}

// WithOutputWriter は書き込みに使うライターを指定します。gs:// に書き出す場合は必須です。
func WithOutputWriter(w remoteio.OutputWriter) Option {
	return func(e *Exporter) { e.writer = w }
}

// NewExporter は dest を書き出し先とする Exporter を作成します。dest が空ならカレントディレクトリです。
func NewExporter(dest string, opts ...Option) (*Exporter, error) {
	if dest == "" {
		dest = "."
	}
	e := &Exporter{dest: dest, quality: DefaultQuality}
	for _, opt := range opts {
		opt(e)
	}
	if e.writer == nil {
		if remoteio.IsGCSURI(dest) {
			return nil, fmt.Errorf("writer is required for %s", dest)
		}
		e.writer = remoteio.NewUniversalIOWriter(nil, nil)
	}
	return e, nil
}

// Target は書き出し先のパスまたは URI を返します。
func (e *Exporter) Target() string {
	if remoteio.IsGCSURI(e.dest) {
		return strings.TrimSuffix(e.dest, "/") + "/" + DefaultFilename
	}
	return filepath.Join(e.dest, DefaultFilename)
}

// Export は result をデコードして JPEG に揃え、書き出した先を返します。
func (e *Exporter) Export(ctx context.Context, result domain.GenerationResult) (string, error) {
	data, err := imgutil.Decode(result.ImageBase64)
	if err != nil {
		return "", err
	}

	jpg, err := imgutil.ConvertToJPEG(data, e.quality)
	if err != nil {
		return "", domain.NewEncodingError(fmt.Errorf("convert %s to jpeg: %w", imgutil.DetectMIME(data), err))
	}

	target := e.Target()
	if err := e.writer.Write(ctx, target, bytes.NewReader(jpg), imgutil.JPEGMimeType); err != nil {
		return "", fmt.Errorf("export to %s: %w", target, err)
	}

	slog.InfoContext(ctx, "ヘッドショットを書き出しました", "target", target, "bytes", len(jpg))
	return target, nil
}
