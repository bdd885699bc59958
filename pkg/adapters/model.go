package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageModel は画像生成モデルとの通信を抽象化するインターフェースです。
// go-gemini-client の GenerativeModel もこのメソッドを満たします。
type ImageModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// GenaiConfig は GenaiModel の接続設定です。
type GenaiConfig struct {
	APIKey   string
	VertexAI bool
	Project  string
	Location string
}

// GenaiModel は google.golang.org/genai を直接使う ImageModel の実装です。
type GenaiModel struct {
	client *genai.Client
}

// NewGenaiModel は設定に従って genai クライアントを初期化します。
func NewGenaiModel(ctx context.Context, cfg GenaiConfig) (*GenaiModel, error) {
	cc := &genai.ClientConfig{}
	if cfg.VertexAI {
		if cfg.Project == "" {
			return nil, fmt.Errorf("project is required for the Vertex AI backend")
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for the Gemini API backend")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return &GenaiModel{client: client}, nil
}

// GenerateWithParts は parts を一つのユーザーターンとして送信し、画像出力を要求します。
func (m *GenaiModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{
			string(genai.ModalityImage),
			string(genai.ModalityText),
		},
	}
	if opts.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}

	resp, err := m.client.Models.GenerateContent(ctx, model, []*genai.Content{{Role: "user", Parts: parts}}, config)
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}
