package tui

import "regexp"

var ansiRegex = regexp.MustCompile("[][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

// StripAnsi removes ANSI escape codes from a string.
func StripAnsi(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}
