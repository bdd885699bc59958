package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/catalog"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/imgutil"
)

// ErrSuperseded は生成中にアップロードやリセットが行われ、結果が破棄された場合に Generate が返すエラーです。
var ErrSuperseded = errors.New("the generation was superseded by a newer action")

// Session はヘッドショット作成の一連の操作を管理する状態機械です。
// すべてのメソッドは複数の goroutine から呼び出せますが、生成の通信は常に一つだけです。
type Session struct {
	catalog   *catalog.Catalog
	generator Generator
	encoder   Encoder
	previews  PreviewStore
	exporter  Exporter
	logger    *slog.Logger

	mu       sync.Mutex
	phase    Phase
	image    *domain.UploadedImage
	styleID  string
	addendum string
	result   *domain.GenerationResult
	errState *domain.ErrorState
	epoch    uint64 // アップロードとリセットのたびに進み、古い生成結果を見分ける
	inFlight bool   // 通信中の生成があるか。破棄予定の呼び出しも含む
}

// New は依存関係を注入して Session を初期化します。
func New(cat *catalog.Catalog, gen Generator, opts ...Option) (*Session, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}

	s := &Session{
		catalog:   cat,
		generator: gen,
		encoder:   imgutil.Encoder{},
		logger:    slog.Default(),
		phase:     PhaseEmpty,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.encoder == nil {
		return nil, fmt.Errorf("encoder is required")
	}
	return s, nil
}

// Catalog はスタイル一覧を返します。
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Snapshot は現在の状態のコピーを返します。
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Phase:          s.phase,
		StyleID:        s.styleID,
		PromptAddendum: s.addendum,
	}
	if s.image != nil {
		st.Image = &ImageInfo{
			Name:       s.image.File.Name(),
			MimeType:   s.image.MimeType,
			PreviewRef: s.image.PreviewRef,
		}
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	if s.errState != nil {
		e := *s.errState
		st.Error = &e
	}
	return st
}

// UploadImage は画像をステージし、先頭のスタイルを選択して Staged に遷移します。
// どの状態からでも呼び出せます。生成中であれば、その結果は破棄されます。
func (s *Session) UploadImage(ctx context.Context, file domain.ImageFile) error {
	if file == nil {
		return domain.NewValidationError("no image was given")
	}

	var ref string
	if s.previews != nil {
		r, err := s.previews.Create(ctx, file)
		if err != nil {
			return err
		}
		ref = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseGenerating {
		s.logger.InfoContext(ctx, "生成中の結果は破棄します", "reason", "upload")
	}
	s.epoch++
	s.releasePreviewLocked()

	s.image = &domain.UploadedImage{
		File:       file,
		MimeType:   file.MimeType(),
		PreviewRef: ref,
	}
	s.styleID = ""
	if first, ok := s.catalog.First(); ok {
		s.styleID = first.ID
	}
	s.result = nil
	s.errState = nil
	s.phase = PhaseStaged

	s.logger.InfoContext(ctx, "画像をアップロードしました",
		"name", file.Name(), "mime_type", file.MimeType(), "style", s.styleID)
	return nil
}

// SelectStyle はスタイルを選択します。Staged, Ready, Failed の時だけ有効で、状態は変わりません。
func (s *Session) SelectStyle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.editable() {
		return fmt.Errorf("%w: cannot select a style while %s", domain.ErrInvalidPhase, s.phase)
	}
	style, err := s.catalog.Lookup(id)
	if err != nil {
		return err
	}
	s.styleID = style.ID
	return nil
}

// EditPrompt は追加の指示文を更新します。Staged, Ready, Failed の時だけ有効で、状態は変わりません。
func (s *Session) EditPrompt(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.editable() {
		return fmt.Errorf("%w: cannot edit the prompt while %s", domain.ErrInvalidPhase, s.phase)
	}
	s.addendum = text
	return nil
}

// Generate はステージされた画像と選択中のスタイルからヘッドショットを一枚生成します。
// 成功すれば Ready、失敗すれば Failed に遷移し、失敗の内容はエラーとしても返します。
func (s *Session) Generate(ctx context.Context) (*domain.GenerationResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}

	if s.image == nil || s.styleID == "" {
		err := domain.NewValidationError(domain.MsgMissingInput)
		s.setErrorLocked(err)
		if s.image != nil {
			s.phase = PhaseFailed
		}
		s.mu.Unlock()
		return nil, err
	}

	style, err := s.catalog.Lookup(s.styleID)
	if err != nil {
		s.setErrorLocked(err)
		s.phase = PhaseFailed
		s.mu.Unlock()
		return nil, err
	}

	file := s.image.File
	mimeType := s.image.MimeType
	prompt := domain.ComposePrompt(style.Prompt, s.addendum)

	s.result = nil
	s.errState = nil
	s.phase = PhaseGenerating
	s.inFlight = true
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "ヘッドショットの生成を開始します", "style", style.ID, "mime_type", mimeType)
	res, err := s.run(ctx, file, mimeType, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if s.epoch != epoch {
		s.logger.InfoContext(ctx, "古い生成結果を破棄しました", "error", err)
		return nil, ErrSuperseded
	}

	if err != nil {
		s.setErrorLocked(err)
		s.phase = PhaseFailed
		s.logger.WarnContext(ctx, "ヘッドショットの生成に失敗しました",
			"kind", s.errState.Kind, "error", err)
		return nil, err
	}

	s.result = res
	s.phase = PhaseReady
	s.logger.InfoContext(ctx, "ヘッドショットの生成が完了しました", "mime_type", res.MimeType)

	out := *res
	return &out, nil
}

// run はエンコードと生成を行います。協調先のパニックは分類不能なエラーとして返します。
func (s *Session) run(ctx context.Context, file domain.ImageFile, mimeType, prompt string) (res *domain.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "生成中にパニックが発生しました", "panic", r)
			res, err = nil, fmt.Errorf("panic during generation: %v", r)
		}
	}()

	encoded, err := s.encoder.Encode(ctx, file)
	if err != nil {
		return nil, err
	}

	res, err = s.generator.Generate(ctx, domain.GenerationRequest{
		ImageBase64: encoded,
		MimeType:    mimeType,
		Prompt:      prompt,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.ImageBase64 == "" {
		return nil, domain.NewRemoteError(domain.ErrNoImage, "no image was produced", nil)
	}
	return res, nil
}

// Reset はすべてを破棄して Empty に戻ります。生成中であれば、その結果は破棄されます。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.releasePreviewLocked()
	s.image = nil
	s.styleID = ""
	s.addendum = ""
	s.result = nil
	s.errState = nil
	s.phase = PhaseEmpty
}

// Download は生成結果を書き出し、書き出し先を返します。Ready の時だけ有効で、状態は変わりません。
func (s *Session) Download(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.phase != PhaseReady || s.result == nil {
		s.mu.Unlock()
		return "", domain.ErrNoResult
	}
	res := *s.result
	s.mu.Unlock()

	if s.exporter == nil {
		return "", fmt.Errorf("exporter is required")
	}
	return s.exporter.Export(ctx, res)
}

// Close はプレビューを解放します。生成中であれば、その結果は破棄されます。
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	return s.releasePreviewLocked()
}

func (s *Session) setErrorLocked(err error) {
	st := domain.NewErrorState(err)
	s.errState = &st
	s.result = nil
}

func (s *Session) releasePreviewLocked() error {
	if s.image == nil || s.image.PreviewRef == "" || s.previews == nil {
		return nil
	}
	ref := s.image.PreviewRef
	s.image.PreviewRef = ""
	if err := s.previews.Release(ref); err != nil {
		s.logger.Warn("プレビューの解放に失敗しました", "ref", ref, "error", err)
		return err
	}
	return nil
}
