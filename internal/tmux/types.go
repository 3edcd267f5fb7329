package tmux

import (
	"os/exec"
	"sync"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// Session is one tmux session in a Layout.
type Session struct {
	Name     string
	Label    string
	Attached bool
	Clients  []string
	Current  bool
	Windows  int
}

// Window is one tmux window. ID is the session:index target.
type Window struct {
	ID         string
	InternalID string
	Session    string
	Index      int
	Name       string
	Active     bool
}

// Pane is one tmux pane with its cell geometry inside the window.
type Pane struct {
	ID        string
	PaneID    string
	Session   string
	WindowIdx int
	Index     int
	Title     string
	Command   string
	Left      int
	Top       int
	Width     int
	Height    int
	Active    bool
	Current   bool
}

// Window target of the pane.
func (p Pane) Window() string {
	return p.Session + ":" + itoa(p.WindowIdx)
}

// Layout is a snapshot of every session, window and pane on a server.
type Layout struct {
	Sessions       []Session
	Windows        []Window
	Panes          []Pane
	CurrentSession string
	CurrentPane    string
}

var (
	clientMu     sync.Mutex
	cachedClient tmuxClient
	cachedSocket string

	newTmux = func(socketPath string) (tmuxClient, error) {
		clientMu.Lock()
		defer clientMu.Unlock()
		if cachedClient != nil && cachedSocket == socketPath {
			return cachedClient, nil
		}
		if cachedClient != nil {
			_ = cachedClient.Close()
			cachedClient = nil
		}
		var (
			client tmuxClient
			err    error
		)
		if socketPath != "" {
			client, err = gotmux.NewTmux(socketPath)
		} else {
			client, err = gotmux.DefaultTmux()
		}
		if err != nil {
			return nil, err
		}
		cachedClient = client
		cachedSocket = socketPath
		return client, nil
	}

	runExecCommand = func(name string, args ...string) commander {
		return realCommander{cmd: exec.Command(name, args...)}
	}
)

type tmuxClient interface {
	ListSessions() ([]*gotmux.Session, error)
	ListClients() ([]*gotmux.Client, error)
	ListWindowsFormat(target, filter, format string) ([]string, error)
	ListPanesFormat(target, filter, format string) ([]string, error)
	DisplayMessage(target, format string) (string, error)
	SwitchClient(*gotmux.SwitchClientOptions) error
	SelectWindow(target string) error
	SelectPane(target string) error
	Close() error
}

type commander interface {
	Run() error
	Output() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error {
	return r.cmd.Run()
}

func (r realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}

// Shutdown closes the cached control-mode connection.
func Shutdown() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if cachedClient != nil {
		_ = cachedClient.Close()
	}
	cachedClient = nil
	cachedSocket = ""
}
