package tmux

import (
	"errors"
	"os/user"
	"path/filepath"
	"reflect"
	"testing"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	prevClient := cachedClient
	prevSocket := cachedSocket
	cachedClient = nil
	cachedSocket = ""
	newTmux = fn
	t.Cleanup(func() {
		newTmux = prev
		cachedClient = prevClient
		cachedSocket = prevSocket
	})
}

type stubCommander struct {
	output []byte
	err    error
	runs   int
}

func (s *stubCommander) Run() error {
	s.runs++
	return s.err
}

func (s *stubCommander) Output() ([]byte, error) {
	return s.output, s.err
}

func withStubCommander(t *testing.T, fn func(name string, args ...string) commander) {
	t.Helper()
	prev := runExecCommand
	runExecCommand = fn
	t.Cleanup(func() { runExecCommand = prev })
}

type fakeClient struct {
	sessions    []*gotmux.Session
	sessionsErr error
	clients     []*gotmux.Client
	clientsErr  error

	windowLines []string
	windowsErr  error
	paneLines   []string
	panesErr    error

	displayMessageFn func(target, format string) (string, error)

	switchErr       error
	lastSwitchOpts  *gotmux.SwitchClientOptions
	selectWindows   []string
	selectWindowErr error
	selectPanes     []string
	selectPaneErr   error
	closed          int
}

func (f *fakeClient) ListSessions() ([]*gotmux.Session, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}
	return f.sessions, nil
}

func (f *fakeClient) ListClients() ([]*gotmux.Client, error) {
	if f.clientsErr != nil {
		return nil, f.clientsErr
	}
	return f.clients, nil
}

func (f *fakeClient) ListWindowsFormat(target, filter, format string) ([]string, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	return f.windowLines, nil
}

func (f *fakeClient) ListPanesFormat(target, filter, format string) ([]string, error) {
	if f.panesErr != nil {
		return nil, f.panesErr
	}
	return f.paneLines, nil
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	if f.displayMessageFn != nil {
		return f.displayMessageFn(target, format)
	}
	return "", nil
}

func (f *fakeClient) SwitchClient(opts *gotmux.SwitchClientOptions) error {
	if opts != nil {
		cp := *opts
		f.lastSwitchOpts = &cp
	}
	return f.switchErr
}

func (f *fakeClient) SelectWindow(target string) error {
	f.selectWindows = append(f.selectWindows, target)
	return f.selectWindowErr
}

func (f *fakeClient) SelectPane(target string) error {
	f.selectPanes = append(f.selectPanes, target)
	return f.selectPaneErr
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func TestBaseArgs(t *testing.T) {
	t.Run("empty socket", func(t *testing.T) {
		if args := baseArgs(""); len(args) != 0 {
			t.Fatalf("expected empty args, got %v", args)
		}
	})
	t.Run("with socket", func(t *testing.T) {
		args := baseArgs("/tmp/socket")
		if len(args) != 2 || args[0] != "-S" || args[1] != "/tmp/socket" {
			t.Fatalf("unexpected args %v", args)
		}
	})
}

func TestDefaultLabelForSession(t *testing.T) {
	session := &gotmux.Session{Name: "dev", Windows: 1, Attached: 0}
	if got := defaultLabelForSession(session); got != "dev: 1 window" {
		t.Fatalf("unexpected label %q", got)
	}
	session.Windows = 3
	session.Attached = 1
	if got := defaultLabelForSession(session); got != "dev: 3 windows (attached)" {
		t.Fatalf("unexpected label for plural %q", got)
	}
}

func TestResolveSocketPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := ResolveSocketPath("/tmp/flag")
		if err != nil || got != "/tmp/flag" {
			t.Fatalf("expected /tmp/flag, got %q (%v)", got, err)
		}
	})
	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("POPUP_NAV_SOCKET", "/tmp/env")
		got, err := ResolveSocketPath("")
		if err != nil || got != "/tmp/env" {
			t.Fatalf("expected /tmp/env, got %q (%v)", got, err)
		}
	})
	t.Run("tmux env fallback", func(t *testing.T) {
		t.Setenv("POPUP_NAV_SOCKET", "")
		t.Setenv("TMUX", "/tmp/socket,123,0")
		got, err := ResolveSocketPath("")
		if err != nil || got != "/tmp/socket" {
			t.Fatalf("expected /tmp/socket, got %q (%v)", got, err)
		}
	})
	t.Run("default path", func(t *testing.T) {
		t.Setenv("POPUP_NAV_SOCKET", "")
		t.Setenv("TMUX", "")
		t.Setenv("TMUX_TMPDIR", "/tmp")
		u, _ := user.Current()
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join("/tmp", "tmux-"+u.Uid, "default")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestFetchLayout(t *testing.T) {
	fake := &fakeClient{
		sessions: []*gotmux.Session{
			{Name: "dev", Windows: 2, Attached: 2},
			{Name: "ops", Windows: 1},
		},
		clients: []*gotmux.Client{
			{Name: "/dev/pts/1", Session: "dev"},
			{Name: "client-ctl", Session: "ops", ControlMode: true},
		},
		windowLines: []string{
			"@1\tdev\t0\teditor\t1",
			"@2\tdev\t1\tshell\t0",
			"@3\tops\t0\tlogs\t1",
			"garbage",
		},
		paneLines: []string{
			"%0\tdev\t0\t0\t0\t0\t80\t24\t1\t1\tvim\tmain.go",
			"%1\tdev\t0\t1\t81\t0\t40\t24\t0\t0\tzsh\t",
			"%2\tops\t0\t0\t0\t0\t120\t40\t1\t0\ttail\tlogs",
			"%3\tbad\tx\t0\t0\t0\t1\t1\t0\t0\tsh\t",
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "")

	layout, err := FetchLayout("sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layout.CurrentSession != "dev" {
		t.Fatalf("expected current session dev, got %q", layout.CurrentSession)
	}
	if len(layout.Sessions) != 2 || !layout.Sessions[0].Attached || layout.Sessions[1].Attached {
		t.Fatalf("unexpected sessions %#v", layout.Sessions)
	}
	if len(layout.Windows) != 3 || layout.Windows[1].ID != "dev:1" || !layout.Windows[0].Active {
		t.Fatalf("unexpected windows %#v", layout.Windows)
	}
	if len(layout.Panes) != 3 {
		t.Fatalf("expected malformed pane line skipped, got %#v", layout.Panes)
	}
	want := Pane{
		ID: "dev:0.1", PaneID: "%1", Session: "dev", WindowIdx: 0, Index: 1,
		Command: "zsh", Left: 81, Top: 0, Width: 40, Height: 24,
	}
	if !reflect.DeepEqual(layout.Panes[1], want) {
		t.Fatalf("expected %#v, got %#v", want, layout.Panes[1])
	}
	if layout.CurrentPane != "dev:0.0" {
		t.Fatalf("expected current pane dev:0.0, got %q", layout.CurrentPane)
	}
}

func TestFetchLayoutFallsBackToExecForPanes(t *testing.T) {
	fake := &fakeClient{
		sessions: []*gotmux.Session{{Name: "dev", Windows: 1}},
		panesErr: errors.New("control mode busy"),
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	var gotArgs []string
	withStubCommander(t, func(name string, args ...string) commander {
		gotArgs = args
		return &stubCommander{output: []byte("%0\tdev\t0\t0\t0\t0\t10\t5\t1\t0\tsh\tt\n")}
	})

	layout, err := FetchLayout("sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout.Panes) != 1 || layout.Panes[0].Width != 10 {
		t.Fatalf("unexpected panes %#v", layout.Panes)
	}
	if len(gotArgs) < 4 || gotArgs[0] != "-S" || gotArgs[2] != "list-panes" {
		t.Fatalf("unexpected exec args %v", gotArgs)
	}
}

func TestFetchLayoutPropagatesError(t *testing.T) {
	fake := &fakeClient{sessionsErr: errors.New("boom")}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if _, err := FetchLayout("sock"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchSessionsFallback(t *testing.T) {
	withStubCommander(t, func(name string, args ...string) commander {
		return &stubCommander{output: []byte("dev\t2\t1\nbroken\n")}
	})
	sessions, err := fetchSessionsFallback("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Name != "dev" || sessions[0].Windows != 2 || sessions[0].Attached != 1 {
		t.Fatalf("unexpected sessions %#v", sessions)
	}
}

func TestSelectPane(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })

	if err := SelectPane("sock", "/dev/pts/3", "dev:1.2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastSwitchOpts == nil || fake.lastSwitchOpts.TargetSession != "dev" || fake.lastSwitchOpts.TargetClient != "/dev/pts/3" {
		t.Fatalf("unexpected switch options %#v", fake.lastSwitchOpts)
	}
	if !reflect.DeepEqual(fake.selectWindows, []string{"dev:1"}) {
		t.Fatalf("unexpected window selection %v", fake.selectWindows)
	}
	if !reflect.DeepEqual(fake.selectPanes, []string{"dev:1.2"}) {
		t.Fatalf("unexpected pane selection %v", fake.selectPanes)
	}
}

func TestSelectPaneValidatesTarget(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	for _, target := range []string{"", "dev", "dev:1", ":1.0"} {
		if err := SelectPane("sock", "", target); err == nil {
			t.Fatalf("expected error for %q", target)
		}
	}
	if fake.lastSwitchOpts != nil {
		t.Fatalf("expected no switch for invalid targets")
	}
}

func TestSelectPaneSkipsInvalidClientID(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if err := SelectPane("sock", "bad client", "dev:0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastSwitchOpts.TargetClient != "" {
		t.Fatalf("expected client id dropped, got %q", fake.lastSwitchOpts.TargetClient)
	}
}

func TestCurrentClientID(t *testing.T) {
	fake := &fakeClient{
		clients: []*gotmux.Client{
			{Name: "ctl", Session: "dev", ControlMode: true},
			{Name: "/dev/pts/4", Session: "dev"},
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "")
	if got := CurrentClientID("sock"); got != "/dev/pts/4" {
		t.Fatalf("expected /dev/pts/4, got %q", got)
	}

	t.Setenv("TMUX_PANE", "%1")
	fake.displayMessageFn = func(target, format string) (string, error) {
		if target != "%1" {
			t.Fatalf("unexpected target %q", target)
		}
		return "/dev/pts/9\n", nil
	}
	if got := CurrentClientID("sock"); got != "/dev/pts/9" {
		t.Fatalf("expected /dev/pts/9, got %q", got)
	}
}

func TestShutdownClosesClient(t *testing.T) {
	fake := &fakeClient{}
	prevClient := cachedClient
	prevSocket := cachedSocket
	cachedClient = fake
	cachedSocket = "/tmp/test"
	t.Cleanup(func() {
		cachedClient = prevClient
		cachedSocket = prevSocket
	})

	Shutdown()
	if cachedClient != nil || cachedSocket != "" {
		t.Fatalf("expected cache cleared after Shutdown")
	}
	if fake.closed != 1 {
		t.Fatalf("expected client closed once, got %d", fake.closed)
	}
}
