package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookup_Defaults(t *testing.T) {
	c, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, c.Model)
	assert.Equal(t, DefaultLocation, c.Location)
	assert.Equal(t, DefaultOutput, c.Output)
	assert.Equal(t, DefaultHTTPTimeout, c.HTTPTimeout)
	assert.Equal(t, DefaultJPEGQuality, c.JPEGQuality)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.False(t, c.VertexAI)
	assert.Empty(t, c.APIKey)
}

func TestFromLookup_Values(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{
		"GEMINI_API_KEY":            "key-1",
		"API_KEY":                   "ignored",
		"HEADSHOT_MODEL":            "gemini-3-pro-image-preview",
		"HEADSHOT_ASPECT_RATIO":     "3:4",
		"GOOGLE_GENAI_USE_VERTEXAI": "true",
		"GOOGLE_CLOUD_PROJECT":      "my-project",
		"HEADSHOT_STYLES_FILE":      "styles.yaml",
		"HEADSHOT_OUTPUT":           "gs://bucket/out",
		"HEADSHOT_HTTP_TIMEOUT":     "45s",
		"HEADSHOT_JPEG_QUALITY":     "75",
		"HEADSHOT_LOG_LEVEL":        "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "key-1", c.APIKey)
	assert.Equal(t, "gemini-3-pro-image-preview", c.Model)
	assert.Equal(t, "3:4", c.AspectRatio)
	assert.True(t, c.VertexAI)
	assert.Equal(t, "my-project", c.Project)
	assert.Equal(t, "styles.yaml", c.StylesFile)
	assert.Equal(t, "gs://bucket/out", c.Output)
	assert.Equal(t, 45*time.Second, c.HTTPTimeout)
	assert.Equal(t, 75, c.JPEGQuality)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
}

func TestFromLookup_APIKeyFallback(t *testing.T) {
	c, err := FromLookup(lookupFrom(map[string]string{"API_KEY": "legacy"}))
	require.NoError(t, err)
	assert.Equal(t, "legacy", c.APIKey)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"タイムアウト":   {"HEADSHOT_HTTP_TIMEOUT": "soon"},
		"負のタイムアウト": {"HEADSHOT_HTTP_TIMEOUT": "-1s"},
		"品質が範囲外":   {"HEADSHOT_JPEG_QUALITY": "101"},
		"品質が数値でない": {"HEADSHOT_JPEG_QUALITY": "high"},
		"真偽値":      {"GOOGLE_GENAI_USE_VERTEXAI": "maybe"},
		"ログレベル":    {"HEADSHOT_LOG_LEVEL": "loud"},
		"アスペクト比":   {"HEADSHOT_ASPECT_RATIO": "7:3"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}

func TestConfig_ValidateGeneration(t *testing.T) {
	assert.Error(t, Config{}.ValidateGeneration())
	assert.NoError(t, Config{APIKey: "k"}.ValidateGeneration())
	assert.Error(t, Config{VertexAI: true}.ValidateGeneration())
	assert.NoError(t, Config{VertexAI: true, Project: "p"}.ValidateGeneration())
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(base, []byte("HEADSHOT_ASPECT_RATIO=1:1\nHEADSHOT_JPEG_QUALITY=60\n"), 0o600))
	require.NoError(t, os.WriteFile(local, []byte("HEADSHOT_JPEG_QUALITY=70\n"), 0o600))

	t.Setenv("HEADSHOT_ASPECT_RATIO", "")
	t.Setenv("HEADSHOT_JPEG_QUALITY", "")
	t.Setenv("HEADSHOT_OUTPUT", "/tmp/headshots")

	c, err := Load(base, local, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "1:1", c.AspectRatio)
	assert.Equal(t, 70, c.JPEGQuality, "後のファイルが優先なのだ")
	assert.Equal(t, "/tmp/headshots", c.Output, "環境変数がファイルより優先なのだ")
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("HEADSHOT_MODEL=from-file\n"), 0o600))
	t.Setenv("HEADSHOT_MODEL", "from-env")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Model)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
