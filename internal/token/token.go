// Package token splits a raw input line into shell tokens. It performs no
// interpretation beyond whitespace splitting: quoting, escaping, glob and
// variable expansion are out of scope and left to whatever feeds lines into
// the shell.
package token

import "strings"

// Pipe and Amp are the only tokens the shell treats specially, and only
// when they appear as an entire token — "a|b" is one word, not three.
const (
	Pipe = "|"
	Amp  = "&"
)

// Tokenize splits line on runs of whitespace. Empty input yields a nil
// slice, which callers treat as "re-prompt, no side effects".
func Tokenize(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
