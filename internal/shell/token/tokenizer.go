// Package token splits command lines into tokens with shell-like quoting.
//
// Whitespace separates tokens. A token introduced by a single or double
// quote runs to the matching closing quote of the same kind, taken
// verbatim with the delimiters stripped; whitespace inside quotes does
// not separate. There is no escaping, and quote characters inside a bare
// word are not special. An unterminated quote yields the remainder of the
// line as a final token rather than an error.
package token

import (
	"iter"
	"slices"
	"unicode"
)

type state int

const (
	inWhitespace state = iota
	inWord
	inSingleQuote
	inDoubleQuote
)

// Tokens returns a lazy sequence of the tokens in line. The sequence is
// finite and restartable: each range over it scans the line again from
// the start. The scanner walks decoded runes, never byte offsets.
func Tokens(line string) iter.Seq[string] {
	return func(yield func(string) bool) {
		runes := []rune(line)
		pos := 0

		for {
			tok, ok, next := scan(runes, pos)
			if !ok {
				return
			}

			pos = next

			if !yield(tok) {
				return
			}
		}
	}
}

// Split returns all tokens of line at once.
func Split(line string) []string {
	return slices.Collect(Tokens(line))
}

// scan emits the next token starting at pos, reporting whether one was
// found and the position to resume from.
func scan(runes []rune, pos int) (string, bool, int) {
	current := inWhitespace
	start := pos

	for {
		if pos >= len(runes) {
			// Inside a word or an unterminated quote the remainder is the
			// final token; otherwise the sequence ends here.
			if current == inWhitespace || start == pos {
				return "", false, pos
			}

			return string(runes[start:pos]), true, pos
		}

		char := runes[pos]

		switch current {
		case inWhitespace:
			switch {
			case unicode.IsSpace(char):
				pos++
			case char == '\'':
				current = inSingleQuote
				pos++
				start = pos
			case char == '"':
				current = inDoubleQuote
				pos++
				start = pos
			default:
				current = inWord
				start = pos
			}

		case inWord:
			if unicode.IsSpace(char) {
				return string(runes[start:pos]), true, pos
			}

			pos++

		case inSingleQuote:
			if char == '\'' {
				return string(runes[start:pos]), true, pos + 1
			}

			pos++

		case inDoubleQuote:
			if char == '"' {
				return string(runes[start:pos]), true, pos + 1
			}

			pos++
		}
	}
}
