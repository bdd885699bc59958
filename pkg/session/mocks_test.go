package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
)

// --- Mocks ---

// mockGenerator は Generator のテスト用モックなのだ。
type mockGenerator struct {
	mu           sync.Mutex
	calls        int
	requests     []domain.GenerationRequest
	generateFunc func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &domain.GenerationResult{ImageBase64: "aGVhZHNob3Q=", MimeType: "image/png"}, nil
}

func (m *mockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// blockingGenerator は release が閉じられるまで戻らないのだ。
func blockingGenerator(started chan<- struct{}, release <-chan struct{}) *mockGenerator {
	return &mockGenerator{
		generateFunc: func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
			started <- struct{}{}
			<-release
			return &domain.GenerationResult{ImageBase64: "bGF0ZQ==", MimeType: "image/png"}, nil
		},
	}
}

// mockPreviews は発行したハンドルを数えるのだ。
type mockPreviews struct {
	mu        sync.Mutex
	seq       int
	live      map[string]bool
	released  []string
	createErr error
}

func newMockPreviews() *mockPreviews {
	return &mockPreviews{live: make(map[string]bool)}
}

func (m *mockPreviews) Create(ctx context.Context, file domain.ImageFile) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ref := fmt.Sprintf("preview-%d", m.seq)
	m.live[ref] = true
	return ref, nil
}

func (m *mockPreviews) Release(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.live[ref] {
		return errors.New("unknown ref")
	}
	delete(m.live, ref)
	m.released = append(m.released, ref)
	return nil
}

func (m *mockPreviews) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

type mockExporter struct {
	exported []domain.GenerationResult
	err      error
}

func (m *mockExporter) Export(ctx context.Context, result domain.GenerationResult) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.exported = append(m.exported, result)
	return "out/ai-headshot.jpeg", nil
}

type mockEncoder struct {
	encodeFunc func(ctx context.Context, file domain.ImageFile) (string, error)
}

func (m *mockEncoder) Encode(ctx context.Context, file domain.ImageFile) (string, error) {
	return m.encodeFunc(ctx, file)
}

// memFile はメモリ上の画像ファイルなのだ。
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

func photo() *memFile {
	return &memFile{name: "photo.png", mime: "image/png", data: []byte("selfie")}
}
