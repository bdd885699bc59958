package adapters

import (
	"fmt"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGeneratorCore はリクエストパーツの組み立てとレスポンス解析を抽象化するインターフェースです。
type ImageGeneratorCore interface {
	ToPart(data []byte, mimeType string) *genai.Part
	ParseToResponse(resp *gemini.Response) (*ImageOutput, error)
}

// ImageOutput はレスポンスから取り出した画像です。
type ImageOutput struct {
	Data     []byte
	MimeType string
}

// GeminiImageCore は Gemini のパーツ変換とレスポンス解析を担うコンポーネントです。
type GeminiImageCore struct{}

// NewGeminiImageCore は GeminiImageCore のインスタンスを生成します。
func NewGeminiImageCore() *GeminiImageCore {
	return &GeminiImageCore{}
}

// ToPart はバイト列を genai.Part (InlineData) に変換します。
// MIME タイプは申告されたものをそのまま使います。
func (c *GeminiImageCore) ToPart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}

// ParseToResponse は Gemini のレスポンスを解析し、最初のインライン画像を取り出します。
// 画像が含まれない場合は domain.ErrNoImage を返します。
func (c *GeminiImageCore) ParseToResponse(resp *gemini.Response) (*ImageOutput, error) {
	if resp == nil || resp.RawResponse == nil {
		return nil, domain.NewRemoteError(domain.ErrNoImage, "the image service returned an empty response", nil)
	}
	raw := resp.RawResponse

	if len(raw.Candidates) == 0 {
		// プロンプト自体がブロックされた場合は候補が空になる
		if raw.PromptFeedback != nil && raw.PromptFeedback.BlockReason != "" {
			return nil, domain.NewRemoteError(domain.ErrNoImage,
				fmt.Sprintf("the request was blocked by the image service (%s)", raw.PromptFeedback.BlockReason), nil)
		}
		return nil, domain.NewRemoteError(domain.ErrNoImage, "the image service returned no candidates", nil)
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := raw.Candidates[0]

	var texts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, domain.NewRemoteError(domain.ErrNoImage,
			fmt.Sprintf("no image was produced (finish reason: %s)", candidate.FinishReason), nil)
	}

	// 画像の代わりにテキストで断られるケース
	if len(texts) > 0 {
		return nil, domain.NewRemoteError(domain.ErrNoImage,
			"no image was produced: "+strings.Join(texts, " "), nil)
	}

	return nil, domain.NewRemoteError(domain.ErrNoImage, "no image was produced by the image service", nil)
}
