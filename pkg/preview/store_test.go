package preview

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	name, mime string
	data       []byte
	openErr    error
}

func (f *memFile) Name() string     { return f.name }
func (f *memFile) MimeType() string { return f.mime }
func (f *memFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func newStore(t *testing.T) *TempDirStore {
	t.Helper()
	s, err := NewTempDirStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTempDirStore_CreateRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ref, err := s.Create(ctx, &memFile{name: "me.png", mime: "image/png", data: []byte("png-bytes")})
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(ref))
	assert.Equal(t, ".png", filepath.Ext(ref))
	assert.Equal(t, 1, s.Live())

	got, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	require.NoError(t, s.Release(ref))
	assert.Equal(t, 0, s.Live())
	_, err = os.Stat(ref)
	assert.True(t, os.IsNotExist(err), "解放したらファイルも消えるのだ")

	err = s.Release(ref)
	assert.ErrorIs(t, err, ErrUnknownRef, "二重解放は検出するのだ")
}

func TestTempDirStore_UniqueRefs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	f := &memFile{name: "me.jpg", mime: "image/jpeg", data: []byte("x")}

	a, err := s.Create(ctx, f)
	require.NoError(t, err)
	b, err := s.Create(ctx, f)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Live())
}

func TestTempDirStore_CreateError(t *testing.T) {
	s := newStore(t)

	_, err := s.Create(context.Background(), &memFile{name: "x.png", openErr: errors.New("permission denied")})
	assert.ErrorIs(t, err, domain.ErrEncoding)
	assert.Equal(t, 0, s.Live())
}

func TestTempDirStore_Close(t *testing.T) {
	s, err := NewTempDirStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Create(context.Background(), &memFile{name: "a.heic", mime: "image/heic", data: []byte("x")})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	_, err = os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, s.Live())
}
