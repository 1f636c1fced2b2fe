// Package lexer splits SQL text into raw leaf segments.
//
// Unlike a token lexer feeding a hand-written parser, every byte of the input
// ends up in exactly one segment: whitespace, newlines and comments are kept so
// that the grammar engine can decide where gaps are allowed and so that the raw
// text of the resulting tree round-trips to the source.
package lexer

import (
	"unicode"

	"github.com/leapstack-labs/sqlmatch/pkg/segment"
	"github.com/leapstack-labs/sqlmatch/pkg/token"
)

// Config holds dialect-specific lexing switches.
type Config struct {
	// BackQuotes lexes `name` as a quoted identifier (MySQL, BigQuery, Spark).
	BackQuotes bool
	// HashComments treats # as the start of an inline comment.
	HashComments bool
}

// Lexer tokenizes SQL input into raw segments.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination

	start    int            // offset of the segment being scanned
	startPos token.Position // position of the segment being scanned
	cur      token.Position // position of input[start]

	cfg Config
}

// New creates a new Lexer for the given input.
func New(input string, cfg Config) *Lexer {
	l := &Lexer{
		input: input,
		cfg:   cfg,
		cur:   token.Position{Line: 1, Column: 1, Offset: 0},
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// emit closes the segment started at l.start.
func (l *Lexer) emit(typ token.Type) *segment.Segment {
	raw := l.input[l.start:l.pos]
	seg := segment.NewRaw(typ, raw, l.cur)
	l.cur = l.cur.Advance(raw)
	return seg
}

// Next returns the next raw segment, or nil at end of input.
func (l *Lexer) Next() *segment.Segment {
	if l.atEOF() {
		return nil
	}
	l.start = l.pos

	switch {
	case l.ch == '\n':
		l.readChar()
		return l.emit(token.Newline)
	case l.ch == '\r' && l.peekChar() == '\n':
		l.readChar()
		l.readChar()
		return l.emit(token.Newline)
	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
		for l.ch == ' ' || l.ch == '\t' || (l.ch == '\r' && l.peekChar() != '\n') {
			l.readChar()
		}
		return l.emit(token.Whitespace)
	case l.ch == '-' && l.peekChar() == '-', l.cfg.HashComments && l.ch == '#':
		for l.ch != '\n' && !l.atEOF() {
			l.readChar()
		}
		return l.emit(token.InlineComment)
	case l.ch == '/' && l.peekChar() == '*':
		l.readBlockComment()
		return l.emit(token.BlockComment)
	case l.ch == '\'':
		l.readQuoted('\'')
		return l.emit(token.QuotedLiteral)
	case l.ch == '"':
		l.readQuoted('"')
		return l.emit(token.DoubleQuote)
	case l.ch == '`' && l.cfg.BackQuotes:
		l.readQuoted('`')
		return l.emit(token.BackQuote)
	case isLetter(l.ch) || l.ch == '_':
		l.readIdentifier()
		return l.emit(token.Word)
	case isDigit(l.ch), l.ch == '.' && isDigit(l.peekChar()):
		l.readNumber()
		return l.emit(token.NumericLiteral)
	}

	typ := l.readSymbol()
	return l.emit(typ)
}

// readSymbol consumes one punctuation or operator token.
func (l *Lexer) readSymbol() token.Type {
	ch := l.ch
	next := l.peekChar()
	l.readChar()

	switch ch {
	case ',':
		return token.Comma
	case '.':
		return token.Dot
	case ';':
		return token.Semicolon
	case '(':
		return token.StartBracket
	case ')':
		return token.EndBracket
	case '*':
		return token.Star
	case '=':
		return token.Operator
	case '<':
		if next == '=' || next == '>' {
			l.readChar()
		}
		return token.Operator
	case '>':
		if next == '=' {
			l.readChar()
		}
		return token.Operator
	case '!':
		if next == '=' {
			l.readChar()
			return token.Operator
		}
		return token.Unlexable
	case '|':
		if next == '|' {
			l.readChar()
		}
		return token.Symbol
	case ':':
		if next == ':' {
			l.readChar()
		}
		return token.Symbol
	case '-':
		if next == '>' {
			l.readChar()
		}
		return token.Symbol
	case '+', '/', '%', '[', ']', '{', '}', '?', '@', '$', '&', '^', '~', '#':
		return token.Symbol
	}
	return token.Unlexable
}

// readBlockComment consumes a /* ... */ comment, unterminated ones run to EOF.
func (l *Lexer) readBlockComment() {
	l.readChar() // skip '/'
	l.readChar() // skip '*'
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// readQuoted consumes a quoted token including both quotes.
// A doubled quote inside the token is an escaped quote.
func (l *Lexer) readQuoted(quote byte) {
	l.readChar() // skip opening quote
	for !l.atEOF() {
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return
		}
		l.readChar()
	}
}

// readIdentifier reads an unquoted identifier or keyword.
func (l *Lexer) readIdentifier() {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() {
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent part (e.g., 1e10, 1E-5)
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch >= 0x80
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Lex returns every raw segment of the input in order.
func Lex(input string, cfg Config) []*segment.Segment {
	l := New(input, cfg)
	var segs []*segment.Segment
	for seg := l.Next(); seg != nil; seg = l.Next() {
		segs = append(segs, seg)
	}
	return segs
}
