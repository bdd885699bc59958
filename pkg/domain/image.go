package domain

import (
	"context"
	"io"
)

// ImageFile はユーザーが指定した画像ファイルです。
// 内容は Open を呼んだ時点で初めて読み込まれます。
type ImageFile interface {
	// Name は表示用のファイル名を返します。
	Name() string
	// MimeType は申告された MIME タイプを返します。内容の検証は行いません。
	MimeType() string
	// Open はファイル内容を読み出すリーダーを返します。
	Open(ctx context.Context) (io.ReadCloser, error)
}

// UploadedImage はセッションにステージされた画像です。
type UploadedImage struct {
	File       ImageFile
	MimeType   string
	PreviewRef string // プレビュー用ハンドル。差し替え時とリセット時に解放される
}

// GenerationRequest は一回の生成呼び出しに渡すペイロードです。永続化はされません。
type GenerationRequest struct {
	ImageBase64 string
	MimeType    string
	Prompt      string
}

// GenerationResult は生成された画像です。ImageBase64 には data URI の接頭辞を含みません。
type GenerationResult struct {
	ImageBase64 string
	MimeType    string
}
