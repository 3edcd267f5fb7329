package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// DefaultSession is the session StartServer creates.
const DefaultSession = "popup-nav-test"

// Server is a throwaway tmux server bound to its own socket.
type Server struct {
	t      *testing.T
	Socket string
	LogDir string
}

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartServer boots a tmux server with DefaultSession. The server is killed
// and its logs checked for crashes when the test finishes.
func StartServer(t *testing.T) *Server {
	t.Helper()
	RequireTmux(t)
	dir, err := os.MkdirTemp("/tmp", "popup-nav-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	s := &Server{t: t, Socket: filepath.Join(dir, "tmux-test.sock"), LogDir: dir}
	t.Cleanup(func() {
		s.kill()
		s.checkLogs()
		_ = os.RemoveAll(dir)
	})
	if err := s.Command("-f", "/dev/null", "-vv", "new-session", "-d", "-s", DefaultSession, "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	if out, err := s.Command("display-message", "-p", "#{pid}").Output(); err == nil {
		t.Logf("started tmux test server pid=%s socket=%s", strings.TrimSpace(string(out)), s.Socket)
	}
	return s
}

// Command builds a tmux invocation against the server, isolated from any
// tmux the test itself runs under.
func (s *Server) Command(args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, args...)...)
	env := make([]string, 0, len(os.Environ())+2)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "TMUX=") {
			env = append(env, entry)
		}
	}
	cmd.Env = append(env, "TMUX=", "TMUX_TMPDIR="+filepath.Dir(s.Socket))
	return cmd
}

// Capture returns the rendered contents of target.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.Command("capture-pane", "-e", "-p", "-t", target).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrPaneUnavailable
		}
		return "", fmt.Errorf("capture-pane failed: %w", err)
	}
	return string(out), nil
}

// SendKeys types keys into target.
func (s *Server) SendKeys(target string, keys ...string) {
	s.t.Helper()
	args := append([]string{"send-keys", "-t", target}, keys...)
	if err := s.Command(args...).Run(); err != nil {
		s.t.Fatalf("send-keys %v failed: %v", keys, err)
	}
}

// WaitForPanes polls until window has at least want panes.
func (s *Server) WaitForPanes(window string, want int) {
	s.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		out, err := s.Command("list-panes", "-t", window, "-F", "#{pane_id}").Output()
		if err == nil && len(strings.Fields(string(out))) >= want {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	s.t.Fatalf("window %q did not reach %d panes in time", window, want)
}

func (s *Server) kill() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := gotmux.NewTmuxWithOptions(s.Socket, gotmux.WithContext(ctx))
	if err == nil {
		err = client.KillServer()
		client.Close()
	}
	if err != nil {
		s.t.Logf("control-mode kill failed for socket %s: %v; falling back to kill-server", s.Socket, err)
		_ = s.Command("kill-server").Run()
	}
}

// checkLogs fails the test when a server log reports an unexpected exit.
func (s *Server) checkLogs() {
	files, err := filepath.Glob(filepath.Join(s.LogDir, "tmux-server-*.log"))
	if err != nil || len(files) == 0 {
		return
	}
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			s.t.Errorf("failed to read tmux server log %s: %v", path, err)
			continue
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			s.t.Errorf("tmux server reported unexpected exit; see %s", path)
		}
	}
}
