package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用のダミー画像（64x64のグラデーション）を作成するヘルパー
// 単色だと JPEG の品質差がサイズに出ないため模様を入れている
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), uint8((x * y) % 256), 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	require.NoError(t, err, "failed to encode dummy image")
	return buf.Bytes()
}

func TestConvertToJPEG(t *testing.T) {
	t.Run("PNG画像をJPEGに変換できること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png")

		got, err := ConvertToJPEG(pngData, 75)
		require.NoError(t, err)
		require.NotEmpty(t, got)

		_, format, err := image.Decode(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("JPEGはそのまま返すこと", func(t *testing.T) {
		jpegData := createDummyImageData(t, "jpeg")

		got, err := ConvertToJPEG(jpegData, 10)
		require.NoError(t, err)
		assert.Equal(t, jpegData, got)
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		_, err := ConvertToJPEG([]byte("this is not an image"), 75)
		assert.Error(t, err)
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyImageData(t, "png")

		highQuality, err := ConvertToJPEG(input, 100)
		require.NoError(t, err)
		lowQuality, err := ConvertToJPEG(input, 10)
		require.NoError(t, err)

		assert.Less(t, len(lowQuality), len(highQuality))
	})
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/png", DetectMIME(createDummyImageData(t, "png")))
	assert.Equal(t, "image/jpeg", DetectMIME(createDummyImageData(t, "jpeg")))
	assert.Equal(t, "text/plain", DetectMIME([]byte("hello")))
}
