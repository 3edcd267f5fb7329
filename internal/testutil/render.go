package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// BuildBinary compiles the popup-nav command into a temporary directory.
func BuildBinary(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "popup-nav")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = RepoRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(dir, ".gocache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("skipping: unable to build binary: %v\n%s", err, out)
	}
	return bin
}

// WaitForText polls target until its contents, with styling stripped, include
// want. A non-zero exit code written to exitPath by the launcher script fails
// the test early.
func (s *Server) WaitForText(ctx context.Context, target, exitPath, want string) string {
	s.t.Helper()
	var last string
	for {
		select {
		case <-ctx.Done():
			s.t.Fatalf("timeout waiting for %q in pane %s: %v\nlast capture:\n%s", want, target, ctx.Err(), last)
		case <-time.After(50 * time.Millisecond):
		}
		if code := readExitCode(exitPath); code != "" && code != "0" {
			s.t.Fatalf("popup-nav exited early with code %s\nlast capture:\n%s", code, last)
		}
		out, err := s.Capture(target)
		if errors.Is(err, ErrPaneUnavailable) {
			continue
		}
		if err != nil {
			s.t.Fatalf("capture-pane error: %v", err)
		}
		last = out
		if strings.Contains(ansi.Strip(out), want) {
			return out
		}
	}
}

func readExitCode(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// RepoRoot walks up from the working directory to the module root.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
