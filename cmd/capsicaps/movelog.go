package main

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var turnPrefix = regexp.MustCompile(`^J\d+:\s*`)

// commandOf extracts the command from one move-log line. History lines
// ("J3: G@P11+90") lose their turn prefix; events, errors, comments and
// blank lines yield "".
func commandOf(line string) string {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "[") {
		return ""
	}
	return strings.TrimSpace(turnPrefix.ReplaceAllString(s, ""))
}

// readMoveLog returns the commands of a move log in order.
func readMoveLog(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if cmd := commandOf(sc.Text()); cmd != "" {
			out = append(out, cmd)
		}
	}
	return out, sc.Err()
}
