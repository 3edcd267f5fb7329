package tmux

import (
	"strconv"
	"strings"
)

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
