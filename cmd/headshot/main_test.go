package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStylesCmd(t *testing.T) {
	t.Run("組み込みのスタイルを一覧するのだ", func(t *testing.T) {
		out, err := execute(t, "styles")
		require.NoError(t, err)
		for _, id := range []string{"corporate-grey", "tech-office", "outdoor-natural", "black-white"} {
			assert.Contains(t, out, id)
		}
	})

	t.Run("YAML のカタログで差し替えられるのだ", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "styles.yaml")
		require.NoError(t, os.WriteFile(p, []byte(`styles:
  - id: studio-blue
    name: Studio Blue
    prompt: A headshot against a deep blue studio backdrop.
`), 0o600))

		out, err := execute(t, "styles", "--styles", p, "-v")
		require.NoError(t, err)
		assert.Contains(t, out, "studio-blue")
		assert.Contains(t, out, "deep blue studio backdrop")
		assert.NotContains(t, out, "corporate-grey")
	})

	t.Run("存在しないカタログはエラー", func(t *testing.T) {
		_, err := execute(t, "styles", "--styles", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestGenerateCmd_Validation(t *testing.T) {
	t.Run("--image は必須なのだ", func(t *testing.T) {
		_, err := execute(t, "generate")
		assert.Error(t, err)
	})

	t.Run("未対応のアスペクト比は通信前に拒否するのだ", func(t *testing.T) {
		_, err := execute(t, "generate", "--image", "me.png", "--aspect-ratio", "7:3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aspect ratio")
	})

	t.Run("認証情報がなければ通信前に失敗するのだ", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("API_KEY", "")
		t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
		_, err := execute(t, "generate", "--image", "me.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "styles", "--log-level", "loud")
	assert.Error(t, err)
}

func TestNeedsGCS(t *testing.T) {
	assert.False(t, needsGCS(config.Config{Output: "."}, "me.png", "https://example.com/me.png"))
	assert.True(t, needsGCS(config.Config{Output: "gs://bucket/out"}))
	assert.True(t, needsGCS(config.Config{Output: "."}, "gs://bucket/me.png"))
	assert.True(t, needsGCS(config.Config{CredentialsFile: "sa.json"}))
}
