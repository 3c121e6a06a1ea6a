package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the tree command.
var (
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Tree renders the loaded configuration tree.
type Tree struct {
	Color bool `default:"true" help:"Colorize the rendered tree." negatable:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, err := settingsFrom(ctx).load()
	if err != nil {
		return err
	}

	rendered := reader.String()
	if t.Color {
		rendered = colorize(rendered, reader.Separator())
	}

	fmt.Println(rendered)

	return nil
}

// colorize styles each line of a rendered tree: branch glyphs dim,
// section names bold, keys and values in their own colors.
func colorize(rendered, sep string) string {
	lines := strings.Split(rendered, "\n")

	for i, line := range lines {
		// The name starts after the last box-drawing glyph.
		start := 0
		if idx := strings.LastIndex(line, "─"); idx >= 0 {
			start = idx + len("─")
		}

		prefix, text := line[:start], line[start:]

		var styled string

		switch key, val, isKey := strings.Cut(text, " = "); {
		case isKey:
			styled = keyStyle.Render(key) + " = " + valueStyle.Render(val)

		case strings.HasSuffix(text, sep):
			styled = sectionStyle.Render(text)

		default:
			styled = text
		}

		lines[i] = branchStyle.Render(prefix) + styled
	}

	return strings.Join(lines, "\n")
}
