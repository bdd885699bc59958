package imgutil

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
)

// Encoder は ImageFile の内容を base64 テキストに変換します。
type Encoder struct{}

// Encode はファイル全体を読み込み、data URI 接頭辞なしの標準 base64 を返します。
// 読み込みに失敗した場合は domain.ErrEncoding を返します。
func (Encoder) Encode(ctx context.Context, file domain.ImageFile) (string, error) {
	if file == nil {
		return "", domain.NewEncodingError(fmt.Errorf("no file"))
	}
	rc, err := file.Open(ctx)
	if err != nil {
		return "", domain.NewEncodingError(err)
	}
	defer rc.Close()

	return EncodeReader(rc)
}

// EncodeReader は r の内容をすべて読み込んで base64 にします。
func EncodeReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewEncodingError(err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode は base64 テキストを元のバイト列に戻します。
// "data:image/png;base64," のような接頭辞が付いていれば取り除きます。
func Decode(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(StripDataURI(s))
	if err != nil {
		return nil, domain.NewEncodingError(err)
	}
	return data, nil
}

// StripDataURI は data URI の接頭辞を取り除きます。接頭辞がなければそのまま返します。
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}
