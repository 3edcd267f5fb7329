package tmux

import (
	"os"
	"strings"
)

// CurrentClientID attempts to detect the client that launched the popup so
// SwitchClient commands can target the visible tmux client instead of the
// control-mode connection.
func CurrentClientID(socketPath string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	if target := strings.TrimSpace(os.Getenv("TMUX_PANE")); target != "" {
		if name, err := client.DisplayMessage(target, "#{client_name}"); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	clients, err := client.ListClients()
	if err != nil {
		return ""
	}
	for _, c := range clients {
		if c != nil && !c.ControlMode && c.Name != "" {
			return c.Name
		}
	}
	return ""
}
