package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal width used for rendering.
const DefaultWordWrap = 120

// RenderTerminal styles Markdown for a terminal, picking a light or dark theme
// from the environment.
func RenderTerminal(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(DefaultWordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
