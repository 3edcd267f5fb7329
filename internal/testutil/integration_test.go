package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const paneTerm = "xterm-256color"

func TestDemoSceneNavigation(t *testing.T) {
	bin := BuildBinary(t)
	s := StartServer(t)
	session := "demo"
	pane := session + ":0.0"
	scriptDir := t.TempDir()
	exitFile := filepath.Join(scriptDir, "exit-code")
	scriptPath := filepath.Join(scriptDir, "run.sh")
	if err := os.WriteFile(scriptPath, []byte(launcherScript(bin, filepath.Join(scriptDir, "popup-nav.log"), exitFile)), 0o755); err != nil {
		t.Fatalf("failed to write launcher script: %v", err)
	}
	if err := s.Command("new-session", "-d", "-x", "80", "-y", "24", "-e", "TERM="+paneTerm, "-s", session, scriptPath).Run(); err != nil {
		t.Fatalf("failed to launch binary: %v", err)
	}
	if err := s.Command("has-session", "-t", session).Run(); err != nil {
		t.Skipf("skipping: unable to create tmux session: %v", err)
	}

	wait := func(timeout time.Duration, want string) {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.WaitForText(ctx, pane, exitFile, want)
	}
	// first render includes process start-up
	wait(10*time.Second, "Files")
	s.SendKeys(pane, "Tab")
	wait(3*time.Second, "Edit > Undo")
	s.SendKeys(pane, "Down", "Down", "Enter")
	wait(3*time.Second, "Edit > Preferences > Theme")

	s.SendKeys(pane, "q")
	_ = s.Command("kill-session", "-t", session).Run()
}

func TestLauncherScriptQuotesPaths(t *testing.T) {
	script := launcherScript("/tmp/a b/popup-nav", "/tmp/it's/log", "/tmp/exit")
	for _, want := range []string{
		"export TERM='" + paneTerm + "'\n",
		"'/tmp/a b/popup-nav' -source demo",
		`-log-file '/tmp/it'\''s/log'`,
		`> '/tmp/exit'`,
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("expected %q in script:\n%s", want, script)
		}
	}
	if strings.Contains(script, "$POPUP_") {
		t.Fatalf("script must not depend on the server environment:\n%s", script)
	}
}

// launcherScript runs bin in the demo scene and records its exit code. Paths
// are written into the script because panes inherit the environment of the
// tmux server, not of the client that created them.
func launcherScript(bin, logPath, exitPath string) string {
	return "#!/bin/sh\n" +
		"export TERM=" + shellQuote(paneTerm) + "\n" +
		shellQuote(bin) + " -source demo -width 80 -height 24 -log-file " + shellQuote(logPath) + " > /dev/null 2>&1\n" +
		"printf '%s' $? > " + shellQuote(exitPath) + "\n" +
		"sleep 300\n"
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
