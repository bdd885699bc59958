package domain

import "strings"

// StylePreset はヘッドショットの画風プリセットです。
type StylePreset struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Prompt       string `yaml:"prompt"`        // 生成プロンプトの本体になる断片
	ThumbnailURL string `yaml:"thumbnail_url"` // 選択画面用のサムネイル
}

// ComposePrompt はスタイルのプロンプト断片とユーザーの追記を連結し、前後の空白を取り除きます。
func ComposePrompt(fragment, addendum string) string {
	return strings.TrimSpace(fragment + " " + addendum)
}
