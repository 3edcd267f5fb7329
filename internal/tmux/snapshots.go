package tmux

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const (
	windowLineFormat = "#{window_id}\t#{session_name}\t#{window_index}\t#{window_name}\t#{window_active}"
	paneLineFormat   = "#{pane_id}\t#{session_name}\t#{window_index}\t#{pane_index}\t#{pane_left}\t#{pane_top}\t#{pane_width}\t#{pane_height}\t#{pane_active}\t#{?pane_active&&window_active&&session_attached,1,0}\t#{pane_current_command}\t#{pane_title}"
)

// FetchLayout reads every session, window and pane from the server. Pane
// geometry comes from list-panes; when the control-mode query fails the
// panes are read with a direct tmux invocation instead.
func FetchLayout(socketPath string) (Layout, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return Layout{}, err
	}

	sessions, err := client.ListSessions()
	if err != nil {
		return Layout{}, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		if fallback, err := fetchSessionsFallback(socketPath); err == nil {
			sessions = fallback
		}
	}
	windowLines, err := client.ListWindowsFormat("", "", windowLineFormat)
	if err != nil {
		return Layout{}, fmt.Errorf("list windows: %w", err)
	}
	paneLines, err := client.ListPanesFormat("", "", paneLineFormat)
	if err != nil {
		paneLines, err = fetchPaneLinesExec(socketPath)
		if err != nil {
			return Layout{}, fmt.Errorf("list panes: %w", err)
		}
	}

	layout := Layout{CurrentSession: currentSessionName(client)}
	realClients := realAttachedClients(client)
	for _, s := range sessions {
		clients := realClients[s.Name]
		layout.Sessions = append(layout.Sessions, Session{
			Name:     s.Name,
			Label:    defaultLabelForSession(s),
			Attached: len(clients) > 0,
			Clients:  clients,
			Current:  s.Name == layout.CurrentSession,
			Windows:  s.Windows,
		})
	}
	layout.Windows = parseWindowLines(windowLines)
	layout.Panes = parsePaneLines(paneLines)
	for _, p := range layout.Panes {
		if p.Current {
			layout.CurrentPane = p.ID
			break
		}
	}
	return layout, nil
}

// fetchSessionsFallback is used only when the control-mode ListSessions call
// returns no sessions, which happens while the server is still starting.
func fetchSessionsFallback(socketPath string) ([]*gotmux.Session, error) {
	format := "#{session_name}\t#{session_windows}\t#{session_attached}"
	args := append(baseArgs(socketPath), "list-sessions", "-F", format)
	output, err := runExecCommand("tmux", args...).Output()
	if err != nil {
		return nil, err
	}
	var sessions []*gotmux.Session
	for _, line := range splitLines(string(output)) {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		windows, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		attached, _ := strconv.Atoi(strings.TrimSpace(parts[2]))
		sessions = append(sessions, &gotmux.Session{
			Name:     strings.TrimSpace(parts[0]),
			Windows:  windows,
			Attached: attached,
		})
	}
	return sessions, nil
}

func fetchPaneLinesExec(socketPath string) ([]string, error) {
	args := append(baseArgs(socketPath), "list-panes", "-a", "-F", paneLineFormat)
	output, err := runExecCommand("tmux", args...).Output()
	if err != nil {
		return nil, err
	}
	return splitLines(string(output)), nil
}

func defaultLabelForSession(s *gotmux.Session) string {
	label := fmt.Sprintf("%s: %d window", s.Name, s.Windows)
	if s.Windows != 1 {
		label += "s"
	}
	if s.Attached > 0 {
		label += " (attached)"
	}
	return label
}

// realAttachedClients maps session names to the non-control-mode clients
// attached to them. gotmuxcc's own connection is excluded.
func realAttachedClients(client tmuxClient) map[string][]string {
	clients, err := client.ListClients()
	if err != nil {
		return nil
	}
	result := make(map[string][]string)
	for _, c := range clients {
		if c == nil || c.ControlMode || c.Session == "" {
			continue
		}
		result[c.Session] = append(result[c.Session], c.Name)
	}
	return result
}

func currentSessionName(client tmuxClient) string {
	if pane := strings.TrimSpace(os.Getenv("TMUX_PANE")); pane != "" {
		if name, err := client.DisplayMessage(pane, "#{session_name}"); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	if clients, err := client.ListClients(); err == nil {
		for _, c := range clients {
			if c != nil && !c.ControlMode && c.Session != "" {
				return c.Session
			}
		}
	}
	return ""
}

func parseWindowLines(lines []string) []Window {
	out := make([]Window, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 5)
		if len(parts) < 5 {
			continue
		}
		session := strings.TrimSpace(parts[1])
		index, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || session == "" {
			continue
		}
		out = append(out, Window{
			ID:         fmt.Sprintf("%s:%d", session, index),
			InternalID: strings.TrimSpace(parts[0]),
			Session:    session,
			Index:      index,
			Name:       strings.TrimSpace(parts[3]),
			Active:     strings.TrimSpace(parts[4]) == "1",
		})
	}
	return out
}

func parsePaneLines(lines []string) []Pane {
	out := make([]Pane, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 12)
		if len(parts) < 11 {
			continue
		}
		ints := make([]int, 6)
		valid := true
		for i, raw := range parts[2:8] {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				valid = false
				break
			}
			ints[i] = n
		}
		session := strings.TrimSpace(parts[1])
		if !valid || session == "" {
			continue
		}
		p := Pane{
			PaneID:    strings.TrimSpace(parts[0]),
			Session:   session,
			WindowIdx: ints[0],
			Index:     ints[1],
			Left:      ints[2],
			Top:       ints[3],
			Width:     ints[4],
			Height:    ints[5],
			Active:    strings.TrimSpace(parts[8]) == "1",
			Current:   strings.TrimSpace(parts[9]) == "1",
			Command:   strings.TrimSpace(parts[10]),
		}
		if len(parts) > 11 {
			p.Title = strings.TrimSpace(parts[11])
		}
		p.ID = fmt.Sprintf("%s:%d.%d", p.Session, p.WindowIdx, p.Index)
		out = append(out, p)
	}
	return out
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
