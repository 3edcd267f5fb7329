package tmux

import (
	"fmt"
	"strings"
)

const panePreviewDefaultLines = 40

// PanePreview captures the last lines of a pane for display.
func PanePreview(socketPath, pane string, limit int) ([]string, error) {
	target := strings.TrimSpace(pane)
	if target == "" {
		return nil, fmt.Errorf("pane target required")
	}
	if limit <= 0 {
		limit = panePreviewDefaultLines
	}
	args := append(baseArgs(socketPath), "capture-pane", "-p", "-S", fmt.Sprintf("-%d", limit), "-t", target)
	output, err := runExecCommand("tmux", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("capture-pane %s: %w", target, err)
	}
	lines := splitPreviewLines(string(output))
	if len(lines) == 0 {
		return []string{"(pane is empty)"}, nil
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

func splitPreviewLines(text string) []string {
	normalised := strings.ReplaceAll(text, "\r\n", "\n")
	normalised = strings.ReplaceAll(normalised, "\r", "\n")
	normalised = strings.TrimRight(normalised, "\n")
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	raw := strings.Split(normalised, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return lines
}
