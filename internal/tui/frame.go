package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/h0rv/nanoui/internal/screen"
)

// busyFrames animate progress screens. The device advances them once per
// tick, so the spinner is driven by Screen.Frame rather than its own timer.
var busyFrames = spinner.Dot.Frames

// RenderScreen draws s as the device display, width columns wide
// (excluding the bezel).
func RenderScreen(s screen.Screen, width int) string {
	var lines []string
	lines = append(lines, TitleStyle.Render(fit(s.Title, width)))

	switch s.Kind {
	case screen.KindMenu:
		for i, item := range s.Lines {
			if i == s.Selected {
				lines = append(lines, SelectedItemStyle.Render(fit("> "+item, width)))
			} else {
				lines = append(lines, NormalItemStyle.Render(fit("  "+item, width)))
			}
		}
	case screen.KindProgress:
		glyph := strings.TrimSpace(busyFrames[s.Frame%len(busyFrames)])
		body := wrapLines(s.Lines, width-2)
		for i, l := range body {
			if i == 0 {
				l = glyph + " " + l
			} else {
				l = "  " + l
			}
			lines = append(lines, NormalItemStyle.Render(l))
		}
	default:
		for _, l := range wrapLines(s.Lines, width) {
			lines = append(lines, NormalItemStyle.Render(l))
		}
		if s.Kind == screen.KindPaged && s.Pages > 0 {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("%d/%d", s.Page+1, s.Pages)))
		}
	}

	if s.Status != "" {
		lines = append(lines, "")
		for _, l := range wrapLines([]string{s.Status}, width) {
			lines = append(lines, StatusStyle.Render(l))
		}
	}
	if s.Hint != "" {
		lines = append(lines, dimStyle.Render(fit(s.Hint, width)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return DeviceStyle.Width(width + 2).Render(body)
}

// wrapLines word-wraps each line to width and hard-wraps words that are
// still too long, such as addresses.
func wrapLines(in []string, width int) []string {
	var out []string
	for _, l := range in {
		wrapped := wrap.String(wordwrap.String(l, width), width)
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

// fit truncates s to width with an ellipsis.
func fit(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "…")
}
