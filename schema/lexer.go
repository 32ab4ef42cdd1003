package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenNumber
	tokenString
	tokenSymbol
)

type token struct {
	kind tokenKind
	text string
	// folded is the caseless form of text.
	folded string
	pos    int
	end    int
}

func (t *token) is(kind tokenKind) bool { return t != nil && t.kind == kind }

func (t *token) symbol(s string) bool { return t.is(tokenSymbol) && t.text == s }

// keyword reports whether t is an identifier equal to word, ignoring case.
// word must already be folded.
func (t *token) keyword(word string) bool {
	return t.is(tokenIdent) && t.folded == word
}

// fold returns the caseless form of s. A Caser keeps state, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

type tokens []token

// at returns the i-th token or nil past the end.
func (ts tokens) at(i int) *token {
	if i < 0 || i >= len(ts) {
		return nil
	}
	return &ts[i]
}

func (ts tokens) indexOf(fn func(t *token) bool) int {
	for i := range ts {
		if fn(&ts[i]) {
			return i
		}
	}
	return -1
}

// lex splits one clause into identifiers, numbers, quoted strings and
// single character symbols. Token positions are byte offsets into text.
func lex(text string) tokens {
	var out tokens
	caser := cases.Fold()
	peek := func(i int) rune {
		if i >= len(text) {
			return utf8.RuneError
		}
		r, _ := utf8.DecodeRuneInString(text[i:])
		return r
	}
	isIdent := func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		start := i
		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case r == '_' || unicode.IsLetter(r):
			for i < len(text) && isIdent(peek(i)) {
				_, n := utf8.DecodeRuneInString(text[i:])
				i += n
			}
			out = append(out, token{kind: tokenIdent, text: text[start:i], folded: caser.String(text[start:i]), pos: start, end: i})
		case unicode.IsDigit(r) || (r == '-' && unicode.IsDigit(peek(i+1))):
			i++
			for i < len(text) && (unicode.IsDigit(peek(i)) || text[i] == '.') {
				i++
			}
			out = append(out, token{kind: tokenNumber, text: text[start:i], folded: text[start:i], pos: start, end: i})
		case r == '"' || r == '`' || r == '\'':
			i++
			var sb strings.Builder
			for i < len(text) {
				if rune(text[i]) == r {
					if i+1 < len(text) && rune(text[i+1]) == r {
						sb.WriteRune(r)
						i += 2
						continue
					}
					i++
					break
				}
				sb.WriteByte(text[i])
				i++
			}
			kind := tokenIdent
			if r == '\'' {
				kind = tokenString
			}
			out = append(out, token{kind: kind, text: sb.String(), folded: caser.String(sb.String()), pos: start, end: i})
		default:
			i += size
			out = append(out, token{kind: tokenSymbol, text: text[start:i], folded: text[start:i], pos: start, end: i})
		}
	}
	return out
}
