package core

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// This allows the parser to resolve indirect stream lengths when needed.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from an in-memory buffer using a Lexer for
// tokenization. It supports all PDF object types including indirect
// objects and streams.
type Parser struct {
	lexer        *Lexer
	currentToken *Token // Current token being processed
	peekToken    *Token // Next token (lookahead)
	resolver     ReferenceResolver
	arena        *Arena
	logger       *slog.Logger
}

// NewParser creates a new PDF parser over data, starting at offset 0.
func NewParser(data []byte) *Parser {
	return NewParserAt(data, 0)
}

// NewParserAt creates a new PDF parser over data, starting at offset.
// It loads the first two tokens for lookahead.
func NewParserAt(data []byte, offset int64) *Parser {
	p := &Parser{
		lexer:  NewLexerAt(data, offset),
		logger: discardLogger,
	}
	p.reload()
	return p
}

// SetReferenceResolver sets the reference resolver for the parser.
// This is needed to resolve indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// SetArena makes the parser account parsed values in a.
func (p *Parser) SetArena(a *Arena) {
	p.arena = a
}

// SetLogger sets the logger used to report recoverable problems.
func (p *Parser) SetLogger(logger *slog.Logger) {
	p.logger = orDiscard(logger)
}

// reload discards the lookahead and refills it from the lexer position.
func (p *Parser) reload() {
	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()
}

// nextToken advances the parser to the next token by shifting the lookahead.
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken

	// Binary data follows "stream" and "ID"; the code handling those
	// keywords reads it straight from the lexer.
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword {
		switch string(p.currentToken.Value) {
		case "stream", "ID":
			p.peekToken = nil
			return
		}
	}

	for {
		token, err := p.lexer.NextToken()
		if err != nil {
			p.logger.Debug("skipping malformed token", "err", err)
			continue
		}
		p.peekToken = token
		return
	}
}

// skipComments skips over any consecutive comment tokens.
func (p *Parser) skipComments() {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// current returns the current token, skipping comments. It never returns nil.
func (p *Parser) current() *Token {
	p.skipComments()
	if p.currentToken == nil {
		return &Token{Type: TokenEOF, Pos: p.lexer.Pos()}
	}
	return p.currentToken
}

// isKeyword reports whether the current token is the keyword kw.
func (p *Parser) isKeyword(kw string) bool {
	tok := p.current()
	return tok.Type == TokenKeyword && string(tok.Value) == kw
}

// Pos returns the offset of the current token.
func (p *Parser) Pos() int64 {
	return p.current().Pos
}

// ParseObject parses and returns the next PDF object from the input.
// It handles all PDF object types: null, boolean, integer, real, string,
// name, array, dictionary, and indirect references. A bare keyword is
// returned as a Keyword value. At the end of input io.EOF is returned.
func (p *Parser) ParseObject() (Object, error) {
	tok := p.current()

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		keyword := string(tok.Value)
		p.nextToken()
		switch keyword {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return Keyword(keyword), nil
		}

	case TokenInteger:
		// Could be integer, real, or start of indirect reference
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q at position %d", tok.Value, tok.Pos)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		s := String(tok.Value)
		p.arena.Track(s)
		p.nextToken()
		return s, nil

	case TokenHexString:
		digits := tok.Value
		if len(digits)%2 != 0 {
			digits = append(digits, '0') // Pad if odd length
		}
		buf := make([]byte, len(digits)/2)
		if _, err := hex.Decode(buf, digits); err != nil {
			return nil, fmt.Errorf("invalid hex string at position %d: %w", tok.Pos, err)
		}
		s := HexString(buf)
		p.arena.Track(s)
		p.nextToken()
		return s, nil

	case TokenName:
		n := Name(tok.Value)
		p.arena.Track(n)
		p.nextToken()
		return n, nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		p.nextToken()
		return nil, fmt.Errorf("unexpected token %v at position %d", tok.Type, tok.Pos)
	}
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R" pattern.
func (p *Parser) parseNumber() (Object, error) {
	tok := p.current()
	firstInt, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		p.nextToken()
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
		}
		return Real(f), nil
	}

	if firstInt >= 0 && p.peekToken != nil && p.peekToken.Type == TokenInteger {
		secondInt, err := strconv.ParseInt(string(p.peekToken.Value), 10, 64)
		if err == nil && secondInt >= 0 {
			// Peeking at the third token needs the second one shifted in.
			// If it is not an R we return the first integer and leave the
			// parser positioned on the second.
			p.nextToken()
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				p.nextToken()
				p.nextToken()
				return IndirectRef{
					Number:     int(firstInt),
					Generation: int(secondInt),
				}, nil
			}
			return Int(firstInt), nil
		}
	}

	p.nextToken()
	return Int(firstInt), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	start := p.current().Pos
	p.nextToken()

	arr := Array{}
	for {
		tok := p.current()
		if tok.Type == TokenArrayEnd {
			p.nextToken()
			break
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in array starting at position %d", start)
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}

	p.arena.Track(arr)
	return arr, nil
}

// parseDict parses a PDF dictionary "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	start := p.current().Pos
	p.nextToken()

	dict := make(Dict)
	for {
		tok := p.current()
		if tok.Type == TokenDictEnd {
			p.nextToken()
			break
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in dictionary starting at position %d", start)
		}

		if tok.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key, got %v at position %d", tok.Type, tok.Pos)
		}
		key := string(tok.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}

		// Repeated keys: last write wins.
		dict[key] = value
	}

	p.arena.Track(dict)
	return dict, nil
}

// ParseValue parses the next object and, if it is a dictionary followed by
// the stream keyword, absorbs the stream payload into a *Stream.
func (p *Parser) ParseValue() (Object, error) {
	obj, err := p.ParseObject()
	if err != nil {
		return nil, err
	}

	if dict, ok := obj.(Dict); ok && p.isKeyword("stream") {
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		return stream, nil
	}
	return obj, nil
}

var endstreamKeyword = []byte("endstream")

// parseStream parses a stream object after the "stream" keyword.
// It reads the binary data according to the /Length entry in the
// dictionary and falls back to scanning for endstream when the length is
// missing or wrong.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	// Since we stopped loading peekToken when we saw 'stream', the lexer
	// is positioned right after the keyword.
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()

	var data []byte
	if length, ok := p.streamLength(dict); ok {
		if d, err := p.lexer.ReadBytes(length); err == nil {
			p.reload()
			if p.isKeyword("endstream") {
				data = d
			}
		}
		if data == nil {
			p.logger.Debug("stream length does not match data, scanning for endstream",
				"length", length, "pos", start)
		}
	}

	if data == nil {
		p.lexer.Seek(start)
		d, found := p.lexer.ReadUntil(endstreamKeyword)
		if !found {
			return nil, fmt.Errorf("stream starting at position %d has no endstream", start)
		}
		data = trimTrailingEOL(d)
		p.reload()
	}

	p.nextToken() // endstream

	stream := NewStream(dict, data)
	p.arena.Track(stream)
	return stream, nil
}

// streamLength returns the /Length of a stream dictionary, resolving an
// indirect length through the parser's resolver.
func (p *Parser) streamLength(dict Dict) (int, bool) {
	lengthObj := dict.Get("Length")
	if ref, ok := lengthObj.(IndirectRef); ok {
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(ref)
		if err != nil {
			p.logger.Debug("cannot resolve stream length", "ref", ref.String(), "err", err)
			return 0, false
		}
		lengthObj = resolved
	}

	length, ok := lengthObj.(Int)
	if !ok || length < 0 {
		return 0, false
	}
	return int(length), true
}

func trimTrailingEOL(b []byte) []byte {
	if bytes.HasSuffix(b, []byte("\r\n")) {
		return b[:len(b)-2]
	}
	if bytes.HasSuffix(b, []byte("\n")) || bytes.HasSuffix(b, []byte("\r")) {
		return b[:len(b)-1]
	}
	return b
}
