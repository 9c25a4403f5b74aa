package replcmd

import "fmt"

// SyntaxError wraps a participle parse failure with the raw input line, so
// the REPL can print a one-line diagnostic instead of a bare Go error.
type SyntaxError struct {
	Input   string
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (input: %q)", e.Message, e.Input)
}
