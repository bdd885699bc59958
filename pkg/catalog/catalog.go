package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Catalog は順序付きで読み取り専用のスタイル一覧です。
type Catalog struct {
	styles []domain.StylePreset
	index  map[string]int
}

// file は YAML カタログファイルの構造です。
type file struct {
	Styles []domain.StylePreset `yaml:"styles"`
}

// New はスタイル一覧を検証して Catalog を生成します。
// ID の空・重複、プロンプトの空はエラーになります。
func New(styles []domain.StylePreset) (*Catalog, error) {
	c := &Catalog{
		styles: make([]domain.StylePreset, 0, len(styles)),
		index:  make(map[string]int, len(styles)),
	}
	for i, s := range styles {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return nil, fmt.Errorf("style #%d: id is required", i)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("style %q: duplicate id", s.ID)
		}
		if strings.TrimSpace(s.Prompt) == "" {
			return nil, fmt.Errorf("style %q: prompt is required", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		c.index[s.ID] = len(c.styles)
		c.styles = append(c.styles, s)
	}
	return c, nil
}

// Load は YAML からカタログを読み込みます。
func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("スタイルカタログの解析に失敗しました: %w", err)
	}
	return New(f.Styles)
}

// LoadFile はファイルパスからカタログを読み込みます。
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("スタイルカタログを開けませんでした: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// All は全スタイルを定義順で返します。返り値を変更してもカタログには影響しません。
func (c *Catalog) All() []domain.StylePreset {
	out := make([]domain.StylePreset, len(c.styles))
	copy(out, c.styles)
	return out
}

// Len はスタイル数を返します。
func (c *Catalog) Len() int {
	return len(c.styles)
}

// Lookup は ID に一致するスタイルを返します。見つからない場合は domain.ErrStyleNotFound です。
func (c *Catalog) Lookup(id string) (domain.StylePreset, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.StylePreset{}, fmt.Errorf("%w: %q", domain.ErrStyleNotFound, id)
	}
	return c.styles[i], nil
}

// First は先頭のスタイルを返します。アップロード直後の既定選択に使います。
func (c *Catalog) First() (domain.StylePreset, bool) {
	if len(c.styles) == 0 {
		return domain.StylePreset{}, false
	}
	return c.styles[0], true
}
