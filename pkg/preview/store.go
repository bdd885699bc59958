package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
)

// ErrUnknownRef は発行していないハンドルを解放しようとした場合のエラーです。
var ErrUnknownRef = errors.New("unknown preview handle")

var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// TempDirStore はアップロード画像のプレビュー用コピーを一時ディレクトリに置きます。
// ハンドルはコピーしたファイルのパスです。
type TempDirStore struct {
	dir string

	mu   sync.Mutex
	refs map[string]struct{}
}

// NewTempDirStore は専用の一時ディレクトリを作成します。parent が空なら OS 既定の場所を使います。
func NewTempDirStore(parent string) (*TempDirStore, error) {
	dir, err := os.MkdirTemp(parent, "headshot-preview-")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &TempDirStore{dir: dir, refs: make(map[string]struct{})}, nil
}

// Dir はプレビューを置くディレクトリを返します。
func (s *TempDirStore) Dir() string { return s.dir }

// Create は file の内容を一時ファイルにコピーし、そのパスをハンドルとして返します。
func (s *TempDirStore) Create(ctx context.Context, file domain.ImageFile) (string, error) {
	rc, err := file.Open(ctx)
	if err != nil {
		return "", domain.NewEncodingError(err)
	}
	defer rc.Close()

	ext := extByMime[strings.ToLower(file.MimeType())]
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(file.Name()))
	}
	ref := filepath.Join(s.dir, uuid.NewString()+ext)

	out, err := os.OpenFile(ref, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create preview: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		_ = os.Remove(ref)
		return "", domain.NewEncodingError(err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(ref)
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	s.mu.Lock()
	s.refs[ref] = struct{}{}
	s.mu.Unlock()

	slog.DebugContext(ctx, "プレビューを作成しました", "ref", ref, "source", file.Name())
	return ref, nil
}

// Release はハンドルを解放してファイルを削除します。
func (s *TempDirStore) Release(ref string) error {
	s.mu.Lock()
	_, ok := s.refs[ref]
	delete(s.refs, ref)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRef, ref)
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

// Live は解放されていないハンドルの数を返します。
func (s *TempDirStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refs)
}

// Close は残っているハンドルをすべて解放し、ディレクトリを削除します。
func (s *TempDirStore) Close() error {
	s.mu.Lock()
	s.refs = make(map[string]struct{})
	s.mu.Unlock()
	return os.RemoveAll(s.dir)
}
