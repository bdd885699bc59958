package session

import (
	"fmt"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
)

// Phase はセッションの状態です。
type Phase int

const (
	PhaseEmpty      Phase = iota // 画像なし
	PhaseStaged                  // 画像あり、スタイル選択可
	PhaseGenerating              // 生成中
	PhaseReady                   // 結果あり
	PhaseFailed                  // エラーあり、画像は残っている
)

var phaseNames = [...]string{
	PhaseEmpty:      "Empty",
	PhaseStaged:     "Staged",
	PhaseGenerating: "Generating",
	PhaseReady:      "Ready",
	PhaseFailed:     "Failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// editable は SelectStyle と EditPrompt を受け付ける状態かどうかです。
func (p Phase) editable() bool {
	return p == PhaseStaged || p == PhaseReady || p == PhaseFailed
}

// ImageInfo はステージされた画像の表示用情報です。
type ImageInfo struct {
	Name       string
	MimeType   string
	PreviewRef string
}

// State は描画用のスナップショットです。Session の内部状態とは共有しません。
type State struct {
	Phase          Phase
	Image          *ImageInfo
	StyleID        string
	PromptAddendum string
	Result         *domain.GenerationResult
	Error          *domain.ErrorState
}

// HasImage は画像がステージされているかどうかを返します。
func (s State) HasImage() bool { return s.Image != nil }
