package adapters

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/imgutil"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// DefaultModel は既定の画像生成モデルです。
const DefaultModel = "gemini-2.5-flash-image"

// SupportedMimeTypes は生成サービスが入力として受け付ける画像形式です。
var SupportedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// HeadshotGenerator はヘッドショットを一枚生成するインターフェースです。
type HeadshotGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// GeminiHeadshotAdapter はドメインのリクエストを Gemini API の形式に変換して実行するアダプター層です。
// 一回の呼び出しにつき通信は一回で、リトライは行いません。
type GeminiHeadshotAdapter struct {
	imgCore     ImageGeneratorCore // 共通ロジック保持（コンポジション）
	aiClient    ImageModel         // 通信クライアント
	model       string             // 使用するモデル名
	aspectRatio string             // 空なら指定しない
}

// NewGeminiHeadshotAdapter は依存関係を注入して初期化します。
func NewGeminiHeadshotAdapter(core ImageGeneratorCore, aiClient ImageModel, modelName, aspectRatio string) (*GeminiHeadshotAdapter, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageGeneratorCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ImageModel) is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiHeadshotAdapter{
		imgCore:     core,
		aiClient:    aiClient,
		model:       modelName,
		aspectRatio: aspectRatio,
	}, nil
}

// Generate は画像一枚とテキスト指示一つを送信し、返ってきた最初の画像を返します。
func (a *GeminiHeadshotAdapter) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	data, mimeType, prompt, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	// 画像パーツとテキストパーツを一つずつ
	parts := []*genai.Part{
		a.imgCore.ToPart(data, mimeType),
		{Text: prompt},
	}

	opts := gemini.GenerateOptions{
		AspectRatio: a.aspectRatio,
	}

	slog.InfoContext(ctx, "Geminiにヘッドショット生成をリクエストします",
		"model", a.model, "mime_type", mimeType, "image_bytes", len(data), "prompt_len", len(prompt))

	resp, err := a.aiClient.GenerateWithParts(ctx, a.model, parts, opts)
	if err != nil {
		return nil, classifyRemoteError(err)
	}

	out, err := a.imgCore.ParseToResponse(resp)
	if err != nil {
		slog.WarnContext(ctx, "レスポンスに画像が含まれていませんでした", "error", err)
		return nil, err
	}

	mimeOut := out.MimeType
	if mimeOut == "" {
		mimeOut = imgutil.DetectMIME(out.Data)
	}

	slog.InfoContext(ctx, "ヘッドショットを受信しました", "mime_type", mimeOut, "bytes", len(out.Data))
	return &domain.GenerationResult{
		ImageBase64: base64.StdEncoding.EncodeToString(out.Data),
		MimeType:    mimeOut,
	}, nil
}

// validateRequest は入力制約を確認し、デコード済みの画像と正規化した MIME タイプ・プロンプトを返します。
func validateRequest(req domain.GenerationRequest) ([]byte, string, string, error) {
	if strings.TrimSpace(req.ImageBase64) == "" {
		return nil, "", "", domain.NewValidationError("the image payload is empty")
	}
	data, err := base64.StdEncoding.DecodeString(imgutil.StripDataURI(req.ImageBase64))
	if err != nil || len(data) == 0 {
		return nil, "", "", domain.NewValidationError("the image payload is not valid base64")
	}

	mimeType := strings.ToLower(strings.TrimSpace(req.MimeType))
	if !SupportedMimeTypes[mimeType] {
		return nil, "", "", domain.NewValidationError(fmt.Sprintf("unsupported image type %q", req.MimeType))
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, "", "", domain.NewValidationError("the prompt is empty")
	}
	return data, mimeType, prompt, nil
}
