package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calance/sales-edge/internal/preview"
)

// SlideSource is what the viewer pages through.
type SlideSource interface {
	Preview() preview.Document
	NextSlide() int
	PrevSlide() int
	SelectSlide(i int) int
}

// SlideViewer is a full-screen deck viewer. Left/right page, home/end jump,
// q or esc closes.
type SlideViewer struct {
	src   SlideSource
	width int
}

func NewSlideViewer(src SlideSource) SlideViewer {
	return SlideViewer{src: src, width: DefaultWidth}
}

func (v SlideViewer) Init() tea.Cmd { return nil }

func (v SlideViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		case "right", "l", " ", "n":
			v.src.NextSlide()
		case "left", "h", "p":
			v.src.PrevSlide()
		case "home", "g":
			v.src.SelectSlide(0)
		case "end", "G":
			v.src.SelectSlide(v.src.Preview().SlideCount - 1)
		}
	}
	return v, nil
}

func (v SlideViewer) View() string {
	return RenderDocument(v.src.Preview(), v.width) + "\n" +
		HelpStyle.Render("  ←/→: navigate • home/end: first/last • q: close") + "\n"
}

// RunSlideViewer opens the viewer in the alternate screen.
func RunSlideViewer(src SlideSource) error {
	_, err := tea.NewProgram(NewSlideViewer(src), tea.WithAltScreen()).Run()
	return err
}
