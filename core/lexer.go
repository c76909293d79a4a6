package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, operators
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

var tokenTypeNames = [...]string{
	TokenEOF:         "EOF",
	TokenComment:     "Comment",
	TokenKeyword:     "Keyword",
	TokenInteger:     "Integer",
	TokenReal:        "Real",
	TokenString:      "String",
	TokenHexString:   "HexString",
	TokenName:        "Name",
	TokenArrayStart:  "ArrayStart",
	TokenArrayEnd:    "ArrayEnd",
	TokenDictStart:   "DictStart",
	TokenDictEnd:     "DictEnd",
	TokenIndirectRef: "R",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64 // Offset of the first byte in the lexer's buffer
}

// Lexer performs lexical analysis of an in-memory byte range. The lexer never
// copies its input; Value slices of string and name tokens are fresh buffers,
// the rest point into the input.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer over data starting at offset 0
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// NewLexerAt creates a lexer over data starting at the given offset
func NewLexerAt(data []byte, offset int64) *Lexer {
	l := &Lexer{data: data}
	l.Seek(offset)
	return l
}

// Pos returns the offset of the next unread byte
func (l *Lexer) Pos() int64 {
	return int64(l.pos)
}

// Seek moves the cursor, clamping to the buffer bounds
func (l *Lexer) Seek(offset int64) {
	switch {
	case offset < 0:
		l.pos = 0
	case offset > int64(len(l.data)):
		l.pos = len(l.data)
	default:
		l.pos = int(offset)
	}
}

// Len returns the size of the underlying buffer
func (l *Lexer) Len() int64 {
	return int64(len(l.data))
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	b, ok := l.peek()
	if !ok {
		return &Token{Type: TokenEOF, Pos: int64(l.pos)}, nil
	}

	if b == '%' {
		return l.readComment(), nil
	}

	start := int64(l.pos)
	switch b {
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: l.data[start:l.pos], Pos: start}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: l.data[start:l.pos], Pos: start}, nil
	case '{', '}':
		// PostScript calculator braces; passed through as keywords.
		l.pos++
		return &Token{Type: TokenKeyword, Value: l.data[start:l.pos], Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: l.data[start:l.pos], Pos: start}, nil
		}
		l.pos++
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}

	if isRegular(b) {
		return l.readKeyword(), nil
	}

	l.pos++
	return nil, fmt.Errorf("unexpected character '%c' at position %d", b, start)
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.data) {
		return 0, false
	}
	return l.data[l.pos], true
}

// peekAt returns the byte n positions ahead, or 0 past the end
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.data) {
		return 0
	}
	return l.data[l.pos+n]
}

// skipWhitespace skips all whitespace characters
// PDF whitespace: space (0x20), tab (0x09), LF (0x0A), CR (0x0D), FF (0x0C), null (0x00)
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

// readComment reads a comment (% to end of line)
func (l *Lexer) readComment() *Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	tok := &Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: int64(start)}
	l.skipEOL()
	return tok
}

// skipEOL consumes a single LF, CR or CRLF
func (l *Lexer) skipEOL() {
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// readString reads a literal string (hello)
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer

	l.pos++ // (
	depth := 1
	for depth > 0 {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated string starting at position %d", start)
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(next)
			case '\r':
				// Line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := next - '0'
				for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
					val = val*8 + (l.data[l.pos] - '0')
					l.pos++
				}
				buf.WriteByte(val)
			default:
				// Unknown escape - keep the character
				buf.WriteByte(next)
			}
		default:
			buf.WriteByte(b)
		}
	}

	return &Token{Type: TokenString, Value: buf.Bytes(), Pos: int64(start)}, nil
}

// readHexString reads a hexadecimal string <48656C6C6F>; the token value
// holds the hex digits with whitespace removed
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer

	l.pos++ // <
	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated hex string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit '%c' at position %d", b, l.pos-1)
		}
		buf.WriteByte(b)
	}

	return &Token{Type: TokenHexString, Value: buf.Bytes(), Pos: int64(start)}, nil
}

// readName reads a name object /Type
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer

	l.pos++ // /
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++

		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf.WriteByte(hexValue(l.data[l.pos])*16 + hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}

	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: int64(start)}, nil
}

// readNumber reads an integer or real number
func (l *Lexer) readNumber() *Token {
	start := l.pos
	hasDecimal := false

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '.' {
			if hasDecimal {
				break
			}
			hasDecimal = true
		} else if !isDigit(b) && !(l.pos == start && (b == '-' || b == '+')) {
			break
		}
		l.pos++
	}

	tokenType := TokenInteger
	if hasDecimal {
		tokenType = TokenReal
	}
	return &Token{Type: tokenType, Value: l.data[start:l.pos], Pos: int64(start)}
}

// readKeyword reads a keyword (true, false, null, R, obj, operators, ...)
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}

	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: int64(start)}
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: int64(start)}
}

// SkipStreamEOL consumes the end-of-line marker that must follow the stream
// keyword. Lenient producers sometimes emit spaces first.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && l.data[l.pos] == ' ' {
		l.pos++
	}
	l.skipEOL()
}

// ReadBytes returns the next n bytes without copying them
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || l.pos+n > len(l.data) {
		avail := len(l.data) - l.pos
		return nil, fmt.Errorf("unexpected EOF: expected %d bytes, %d available", n, avail)
	}
	data := l.data[l.pos : l.pos+n]
	l.pos += n
	return data, nil
}

// ReadUntil returns the bytes up to the next occurrence of marker and leaves
// the cursor at the marker. It reports false if the marker does not occur.
func (l *Lexer) ReadUntil(marker []byte) ([]byte, bool) {
	idx := bytes.Index(l.data[l.pos:], marker)
	if idx < 0 {
		return nil, false
	}
	data := l.data[l.pos : l.pos+idx]
	l.pos += idx
	return data, true
}

// ReadInlineImage returns the payload that follows an ID operator. The data
// ends at the first EI keyword that is preceded by whitespace and followed by
// whitespace or the end of the buffer; the cursor is left on the E of EI.
func (l *Lexer) ReadInlineImage() ([]byte, bool) {
	// A single whitespace byte separates ID from the data.
	if l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
	start := l.pos
	for i := start; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		if i > start && !isWhitespace(l.data[i-1]) {
			continue
		}
		if i+2 < len(l.data) && !isWhitespace(l.data[i+2]) && !isDelimiter(l.data[i+2]) {
			continue
		}
		end := i
		if end > start && isWhitespace(l.data[end-1]) {
			end--
		}
		l.pos = i
		return l.data[start:end], true
	}
	l.pos = len(l.data)
	return l.data[start:], false
}

// Helper functions

func isWhitespace(b byte) bool {
	// PDF whitespace: space, tab, LF, CR, FF, null
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

// isRegular reports whether b can be part of a keyword
func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
