// Package console is the terminal side of human review: a browser preview
// of the rendered banner plus one prompt per feature.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/bannerkit/internal/review"
)

// Asker reads one answer for the given prompt title.
type Asker func(ctx context.Context, title string) (string, error)

var linkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)

// TerminalChannel implements review.ReviewChannel on a terminal.
type TerminalChannel struct {
	out     io.Writer
	preview *PreviewServer
	ask     Asker
}

var _ review.ReviewChannel = (*TerminalChannel)(nil)

func NewTerminalChannel(in io.Reader, out io.Writer, preview *PreviewServer, accessible bool) *TerminalChannel {
	return &TerminalChannel{
		out:     out,
		preview: preview,
		ask:     HuhAsker(in, out, accessible),
	}
}

// WithAsker replaces the prompt implementation.
func (t *TerminalChannel) WithAsker(ask Asker) *TerminalChannel {
	t.ask = ask
	return t
}

func (t *TerminalChannel) Present(ctx context.Context, imagePath string) error {
	if t.preview == nil {
		fmt.Fprintf(t.out, "Review %s\n", imagePath)
		return nil
	}
	url, err := t.preview.Show(ctx, imagePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Preview of %s: %s\n", imagePath, linkStyle.Render(url))
	return nil
}

// CollectRemark returns the trimmed answer; blank means no remark.
func (t *TerminalChannel) CollectRemark(ctx context.Context, feature string) (string, error) {
	answer, err := t.ask(ctx, review.Prompt(feature))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (t *TerminalChannel) Dismiss() error {
	if t.preview == nil {
		return nil
	}
	return t.preview.Close()
}

// HuhAsker prompts with a single-field huh form.
func HuhAsker(in io.Reader, out io.Writer, accessible bool) Asker {
	return func(ctx context.Context, title string) (string, error) {
		var answer string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title(title).Value(&answer),
			),
		).WithAccessible(accessible).WithInput(in).WithOutput(out)
		if err := form.RunWithContext(ctx); err != nil {
			return "", fmt.Errorf("prompt aborted: %w", err)
		}
		return answer, nil
	}
}
