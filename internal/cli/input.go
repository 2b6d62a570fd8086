package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// readLine reads one line with a label; ok is false once stdin is closed.
func (a *App) readLine(label string) (string, bool) {
	fmt.Print(label)
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// prompt reads one line with a label, returning the trimmed input.
func (a *App) prompt(label string) string {
	s, _ := a.readLine(label)
	return s
}

// promptDefault reads one line, falling back to def on empty input.
func (a *App) promptDefault(label, def string) string {
	s := a.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if s == "" {
		return def
	}
	return s
}

func parseID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
