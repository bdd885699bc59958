package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/imgutil"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Fetcher は URL から画像データを取得するためのインターフェースです。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Loader はローカルパス、http(s) URL、gs:// URI のいずれかから画像を読み込みます。
type Loader struct {
	fetcher Fetcher
	reader  remoteio.InputReader
}

// NewLoader は Loader を作成します。fetcher や reader が nil の場合、対応するスキームは使えません。
func NewLoader(fetcher Fetcher, reader remoteio.InputReader) *Loader {
	return &Loader{fetcher: fetcher, reader: reader}
}

// Load は ref を ImageFile に変換します。
// ローカルファイルは遅延読み込み、リモートの画像はここで取得してメモリに保持します。
func (l *Loader) Load(ctx context.Context, ref string) (domain.ImageFile, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, domain.NewValidationError("no image was given")
	case remoteio.IsGCSURI(ref):
		return l.loadGCS(ctx, ref)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.loadURL(ctx, ref)
	default:
		f, err := NewLocalFile(ref)
		if err != nil {
			return nil, domain.NewEncodingError(err)
		}
		return f, nil
	}
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (domain.ImageFile, error) {
	if l.fetcher == nil {
		return nil, domain.NewValidationError("downloading images over HTTP is not configured")
	}
	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		return nil, domain.NewValidationError(fmt.Sprintf("安全ではないURLが指定されました: %v", err))
	}

	slog.InfoContext(ctx, "画像をダウンロードします", "url", rawURL)
	data, err := l.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, domain.NewEncodingError(err)
	}

	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	return newRemoteFile(name, data), nil
}

func (l *Loader) loadGCS(ctx context.Context, uri string) (domain.ImageFile, error) {
	if l.reader == nil {
		return nil, domain.NewValidationError("reading from gs:// is not configured")
	}

	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, domain.NewEncodingError(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.NewEncodingError(err)
	}
	return newRemoteFile(path.Base(uri), data), nil
}

// newRemoteFile は内容から MIME タイプを判定し、判定できなければ名前の拡張子を使います。
func newRemoteFile(name string, data []byte) *MemoryFile {
	mimeType := imgutil.DetectMIME(data)
	if !strings.HasPrefix(mimeType, "image/") {
		if byName := MimeTypeFromName(name); byName != "" {
			mimeType = byName
		}
	}
	return NewMemoryFile(name, mimeType, data)
}
