package source

import (
	"bytes"
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/imgutil"
)

// mime パッケージの既定テーブルに無い、またはOSによって揺れる拡張子
var extMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// MimeTypeFromName は拡張子から MIME タイプを推定します。判定できなければ空文字を返します。
func MimeTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := extMimeTypes[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if mt, _, err := mime.ParseMediaType(m); err == nil {
			return mt
		}
	}
	return ""
}

// LocalFile はローカルディスク上の画像ファイルです。内容は Open のたびに読み直されます。
type LocalFile struct {
	path     string
	mimeType string
}

// NewLocalFile は path のファイルを ImageFile として扱います。
// 拡張子から MIME タイプが判定できない場合は先頭の数百バイトから推定します。
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}

	mimeType := MimeTypeFromName(path)
	if mimeType == "" {
		mimeType, err = sniffFile(path)
		if err != nil {
			return nil, err
		}
	}
	return &LocalFile{path: path, mimeType: mimeType}, nil
}

func sniffFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return imgutil.DetectMIME(head[:n]), nil
}

func (f *LocalFile) Name() string     { return filepath.Base(f.path) }
func (f *LocalFile) MimeType() string { return f.mimeType }
func (f *LocalFile) Path() string     { return f.path }

// Open はファイルを開きます。ctx は既にキャンセルされていればエラーを返すためだけに使います。
func (f *LocalFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

// MemoryFile はメモリ上に保持した画像です。
type MemoryFile struct {
	name     string
	mimeType string
	data     []byte
}

// NewMemoryFile は data を ImageFile として扱います。mimeType が空なら内容から推定します。
func NewMemoryFile(name, mimeType string, data []byte) *MemoryFile {
	if mimeType == "" {
		mimeType = imgutil.DetectMIME(data)
	}
	return &MemoryFile{name: name, mimeType: mimeType, data: data}
}

func (f *MemoryFile) Name() string     { return f.name }
func (f *MemoryFile) MimeType() string { return f.mimeType }

func (f *MemoryFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
