package catalog

import "github.com/megaserg2008/ai-headshot-photographer/pkg/domain"

var defaultStyles = []domain.StylePreset{
	{
		ID:           "corporate-grey",
		Name:         "Corporate Grey",
		Prompt:       "A professional corporate headshot of a person against a solid, light grey backdrop. The lighting is bright and even, creating a clean and sharp look. The person looks confident and approachable.",
		ThumbnailURL: "https://picsum.photos/seed/corporate/200/200",
	},
	{
		ID:           "tech-office",
		Name:         "Modern Tech Office",
		Prompt:       "A professional headshot of a person in a modern tech office environment. The background is slightly blurred, showing glimpses of glass walls and minimalist furniture. The lighting is natural, as if from a large window.",
		ThumbnailURL: "https://picsum.photos/seed/tech/200/200",
	},
	{
		ID:           "outdoor-natural",
		Name:         "Outdoor Natural",
		Prompt:       "A professional headshot taken outdoors with soft, natural light. The background is a pleasant, out-of-focus mix of green foliage, creating a warm and friendly feel.",
		ThumbnailURL: "https://picsum.photos/seed/outdoor/200/200",
	},
	{
		ID:           "black-white",
		Name:         "Classic Black & White",
		Prompt:       "A timeless, classic black and white professional headshot. The lighting is high-contrast and dramatic, emphasizing facial features against a plain dark background.",
		ThumbnailURL: "https://picsum.photos/seed/bw/200/200",
	},
}

// Default は組み込みのスタイルカタログを返します。
func Default() *Catalog {
	c, err := New(defaultStyles)
	if err != nil {
		// 組み込み定義の誤りはビルド時点のバグ
		panic(err)
	}
	return c
}
