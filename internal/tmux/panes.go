package tmux

import (
	"fmt"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// SelectPane makes target (session:window.pane) the visible pane of the
// client that opened the popup.
func SelectPane(socketPath, clientID, target string) error {
	session, rest, ok := strings.Cut(strings.TrimSpace(target), ":")
	if !ok || session == "" {
		return fmt.Errorf("invalid pane target %q", target)
	}
	windowIdx, _, ok := strings.Cut(rest, ".")
	if !ok || windowIdx == "" {
		return fmt.Errorf("invalid pane target %q", target)
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	opts := &gotmux.SwitchClientOptions{TargetSession: session}
	if isValidClientName(clientID) {
		opts.TargetClient = clientID
	}
	if err := client.SwitchClient(opts); err != nil {
		return fmt.Errorf("switch client to %s: %w", session, err)
	}
	if err := client.SelectWindow(session + ":" + windowIdx); err != nil {
		return fmt.Errorf("select window %s:%s: %w", session, windowIdx, err)
	}
	return client.SelectPane(target)
}

func isValidClientName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.ContainsAny(name, " \t\n")
}
