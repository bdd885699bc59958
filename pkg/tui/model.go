package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/megaserg2008/ai-headshot-photographer/pkg/domain"
	"github.com/megaserg2008/ai-headshot-photographer/pkg/session"
)

// Loader は入力された参照から画像ファイルを作ります。
type Loader interface {
	Load(ctx context.Context, ref string) (domain.ImageFile, error)
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeImagePath
	modePrompt
)

// 非同期処理の完了通知
type (
	uploadedMsg   struct{ err error }
	generatedMsg  struct{ err error }
	downloadedMsg struct {
		target string
		err    error
	}
)

// Model は対話セッションの bubbletea モデルです。
type Model struct {
	sess    *session.Session
	loader  Loader
	styles  []domain.StylePreset
	timeout time.Duration

	mode    inputMode
	input   textinput.Model
	spinner spinner.Model
	notice  string
	lastErr string
	width   int
}

// New は Model を作成します。timeout は生成一回あたりの上限で、0 なら無制限です。
func New(sess *session.Session, loader Loader, timeout time.Duration) Model {
	ti := textinput.New()
	ti.CharLimit = 1024

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = busyStyle

	return Model{
		sess:    sess,
		loader:  loader,
		styles:  sess.Catalog().All(),
		timeout: timeout,
		input:   ti,
		spinner: s,
	}
}

// UploadCmd は起動時に画像を読み込む場合などに使います。
func (m Model) UploadCmd(ref string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		file, err := m.loader.Load(ctx, ref)
		if err == nil {
			err = m.sess.UploadImage(ctx, file)
		}
		return uploadedMsg{err: err}
	}
}

func (m Model) generateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		_, err := m.sess.Generate(ctx)
		return generatedMsg{err: err}
	}
}

func (m Model) downloadCmd() tea.Cmd {
	return func() tea.Msg {
		target, err := m.sess.Download(context.Background())
		return downloadedMsg{target: target, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case uploadedMsg:
		m.notice, m.lastErr = "", ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil

	case generatedMsg:
		m.notice, m.lastErr = "", ""
		// 失敗の内容はセッションの ErrorState として表示される
		if errors.Is(msg.err, domain.ErrBusy) {
			m.lastErr = msg.err.Error()
		}
		return m, nil

	case downloadedMsg:
		m.notice, m.lastErr = "", ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		} else {
			m.notice = "saved to " + msg.target
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "u":
		m.mode = modeImagePath
		m.input.Placeholder = "path, https:// URL or gs:// URI"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "p":
		m.mode = modePrompt
		m.input.Placeholder = "extra instructions, e.g. add glasses"
		m.input.SetValue(m.sess.Snapshot().PromptAddendum)
		m.input.Focus()
		return m, textinput.Blink
	case "up", "k":
		m.moveStyle(-1)
	case "down", "j":
		m.moveStyle(1)
	case "g", "enter":
		m.notice = ""
		return m, m.generateCmd()
	case "d":
		return m, m.downloadCmd()
	case "r":
		m.sess.Reset()
		m.notice = ""
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		if mode == modeImagePath {
			return m, m.UploadCmd(value)
		}
		if err := m.sess.EditPrompt(value); err != nil {
			m.lastErr = err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// moveStyle は選択中のスタイルを delta だけ移動します。
func (m *Model) moveStyle(delta int) {
	if len(m.styles) == 0 {
		return
	}
	i := m.styleIndex(m.sess.Snapshot().StyleID)
	if i < 0 {
		i = 0
	}
	i = (i + delta + len(m.styles)) % len(m.styles)
	if err := m.sess.SelectStyle(m.styles[i].ID); err != nil {
		m.lastErr = err.Error()
	}
}

func (m Model) styleIndex(id string) int {
	for i, s := range m.styles {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) View() string {
	st := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("AI Headshot Photographer"))
	b.WriteString("\n")

	// 画像
	if st.Image == nil {
		b.WriteString(labelStyle.Render("image   ") + textStyle.Render("none, press u to upload a selfie"))
	} else {
		line := fmt.Sprintf("%s (%s)", st.Image.Name, st.Image.MimeType)
		b.WriteString(labelStyle.Render("image   ") + textStyle.Render(line))
		if st.Image.PreviewRef != "" {
			b.WriteString("\n" + labelStyle.Render("preview ") + textStyle.Render(st.Image.PreviewRef))
		}
	}
	b.WriteString("\n\n")

	// スタイル一覧
	var rows []string
	for _, s := range m.styles {
		if s.ID == st.StyleID {
			rows = append(rows, selectedStyle.Render("● "+s.Name))
		} else {
			rows = append(rows, textStyle.Render("○ "+s.Name))
		}
	}
	b.WriteString(panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if m.mode != modeBrowse {
		label := "prompt  "
		if m.mode == modeImagePath {
			label = "upload  "
		}
		b.WriteString(labelStyle.Render(label) + m.input.View())
	} else {
		addendum := st.PromptAddendum
		if strings.TrimSpace(addendum) == "" {
			addendum = "(none)"
		}
		b.WriteString(labelStyle.Render("prompt  ") + textStyle.Render(addendum))
	}
	b.WriteString("\n\n")

	b.WriteString(m.statusLine(st))

	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}
	if m.lastErr != "" {
		b.WriteString("\n" + errStyle.Render(m.lastErr))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("u upload • ↑/↓ style • p prompt • g generate • d download • r reset • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine(st session.State) string {
	switch st.Phase {
	case session.PhaseGenerating:
		return m.spinner.View() + busyStyle.Render(" generating your headshot...")
	case session.PhaseReady:
		return okStyle.Render(fmt.Sprintf("ready (%s), press d to download", st.Result.MimeType))
	case session.PhaseFailed:
		return errStyle.Render("failed: " + st.Error.Message)
	case session.PhaseEmpty:
		if st.Error != nil {
			return errStyle.Render(st.Error.Message)
		}
		return labelStyle.Render("waiting for an image")
	default:
		return labelStyle.Render("ready to generate")
	}
}
