package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// JPEGMimeType は書き出し時の MIME タイプです。
const JPEGMimeType = "image/jpeg"

// DetectMIME はデータの先頭から MIME タイプを判定します。パラメータ部分は取り除きます。
func DetectMIME(data []byte) string {
	mimeType := http.DetectContentType(data)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType
}

// ConvertToJPEG は画像データ（PNG, GIF 等）を JPEG に変換します。
// 入力がすでに JPEG の場合は再エンコードせずにそのまま返します。
func ConvertToJPEG(data []byte, quality int) ([]byte, error) {
	if DetectMIME(data) == JPEGMimeType {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
