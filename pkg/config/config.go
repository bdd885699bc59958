package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFiles は既定で読み込む env ファイルです。後のファイルが優先されます。
var DefaultFiles = []string{".env", ".env.local"}

const (
	DefaultModel       = "gemini-2.5-flash-image"
	DefaultLocation    = "us-central1"
	DefaultOutput      = "."
	DefaultHTTPTimeout = 120 * time.Second
	DefaultJPEGQuality = 90
)

// ValidAspectRatios は生成モデルが受け付けるアスペクト比です。
var ValidAspectRatios = map[string]bool{
	"1:1":  true,
	"2:3":  true,
	"3:2":  true,
	"3:4":  true,
	"4:3":  true,
	"4:5":  true,
	"5:4":  true,
	"9:16": true,
	"16:9": true,
	"21:9": true,
}

// Config はアプリケーション全体の設定です。
type Config struct {
	APIKey          string
	Model           string
	AspectRatio     string
	VertexAI        bool
	Project         string
	Location        string
	StylesFile      string
	Output          string
	HTTPTimeout     time.Duration
	JPEGQuality     int
	CredentialsFile string
	LogLevel        slog.Level
}

// Load は env ファイルと環境変数から設定を読み込みます。
// 存在しないファイルは無視し、環境変数はファイルの値より優先されます。
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = DefaultFiles
	}

	fromFiles := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", f, err)
		}
		maps.Copy(fromFiles, m)
	}

	return FromLookup(func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fromFiles[key]
	})
}

// FromLookup は lookup が返す値から設定を組み立てます。
func FromLookup(lookup func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		APIKey:          get("GEMINI_API_KEY", get("API_KEY", "")),
		Model:           get("HEADSHOT_MODEL", DefaultModel),
		AspectRatio:     get("HEADSHOT_ASPECT_RATIO", ""),
		Project:         get("GOOGLE_CLOUD_PROJECT", ""),
		Location:        get("GOOGLE_CLOUD_LOCATION", DefaultLocation),
		StylesFile:      get("HEADSHOT_STYLES_FILE", ""),
		Output:          get("HEADSHOT_OUTPUT", DefaultOutput),
		CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		HTTPTimeout:     DefaultHTTPTimeout,
		JPEGQuality:     DefaultJPEGQuality,
	}

	var errs []error

	if c.AspectRatio != "" && !ValidAspectRatios[c.AspectRatio] {
		errs = append(errs, fmt.Errorf("HEADSHOT_ASPECT_RATIO: unsupported aspect ratio %q", c.AspectRatio))
	}

	if v := get("GOOGLE_GENAI_USE_VERTEXAI", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GOOGLE_GENAI_USE_VERTEXAI: %w", err))
		}
		c.VertexAI = b
	}

	if v := get("HEADSHOT_HTTP_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("HEADSHOT_HTTP_TIMEOUT: invalid duration %q", v))
		} else {
			c.HTTPTimeout = d
		}
	}

	if v := get("HEADSHOT_JPEG_QUALITY", ""); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			errs = append(errs, fmt.Errorf("HEADSHOT_JPEG_QUALITY: must be between 1 and 100, got %q", v))
		} else {
			c.JPEGQuality = q
		}
	}

	level, err := ParseLevel(get("HEADSHOT_LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}
	c.LogLevel = level

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ValidateGeneration は生成サービスに接続するために必要な値が揃っているか確認します。
func (c Config) ValidateGeneration() error {
	if c.VertexAI {
		if c.Project == "" {
			return errors.New("GOOGLE_CLOUD_PROJECT is required when GOOGLE_GENAI_USE_VERTEXAI is set")
		}
		return nil
	}
	if c.APIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	return nil
}

// ParseLevel は debug, info, warn, error のいずれかを slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("HEADSHOT_LOG_LEVEL: %w", err)
	}
	return level, nil
}
