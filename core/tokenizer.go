package core

import (
	"log/slog"
)

// ItemKind identifies what a Tokenizer produced.
type ItemKind int

const (
	// ItemKeyword is a bare keyword: an operator in a content stream or a
	// structural keyword such as obj, endobj, trailer or R.
	ItemKeyword ItemKind = iota
	// ItemValue is a fully parsed value.
	ItemValue
	// ItemImageData carries the payload of an inline image (between ID
	// and EI). The bytes are not interpreted.
	ItemImageData
)

func (k ItemKind) String() string {
	switch k {
	case ItemKeyword:
		return "Keyword"
	case ItemValue:
		return "Value"
	case ItemImageData:
		return "ImageData"
	}
	return "Unknown"
}

// Item is one unit produced by a Tokenizer.
type Item struct {
	Kind    ItemKind
	Keyword string
	Value   Object
	Data    []byte
	Pos     int64
}

// Tokenizer turns a byte range into a sequence of keywords, values and
// inline image payloads. It is used on indirect object bodies as well as on
// decoded content streams. A Tokenizer supports one item of pushback and
// cannot be rewound; create a new one to start over.
type Tokenizer struct {
	parser    *Parser
	pushed    *Item
	imageData bool
	empty     bool
}

// NewTokenizer creates a tokenizer over the whole of data.
func NewTokenizer(data []byte) *Tokenizer {
	return NewTokenizerAt(data, 0)
}

// NewTokenizerAt creates a tokenizer over data starting at offset.
func NewTokenizerAt(data []byte, offset int64) *Tokenizer {
	p := NewParserAt(data, offset)
	return &Tokenizer{
		parser: p,
		empty:  p.current().Type == TokenEOF,
	}
}

// Empty reports whether the tokenizer was created over input that holds
// no tokens at all. Callers check it before reading.
func (t *Tokenizer) Empty() bool {
	return t.empty
}

// SetReferenceResolver is used to resolve indirect stream lengths.
func (t *Tokenizer) SetReferenceResolver(resolver ReferenceResolver) {
	t.parser.SetReferenceResolver(resolver)
}

// SetArena makes the tokenizer account parsed values in a.
func (t *Tokenizer) SetArena(a *Arena) {
	t.parser.SetArena(a)
}

// SetLogger sets the logger used to report skipped input.
func (t *Tokenizer) SetLogger(logger *slog.Logger) {
	t.parser.SetLogger(logger)
}

// PutBack stores item so that the next ReadToken returns it. Only one item
// can be held; calling PutBack twice without a ReadToken in between is a
// programming error and panics.
func (t *Tokenizer) PutBack(item Item) {
	if t.pushed != nil {
		panic("core: Tokenizer.PutBack called with an item already pending")
	}
	t.pushed = &item
}

// ReadToken returns the next item, or false at the end of input.
func (t *Tokenizer) ReadToken() (Item, bool) {
	if t.pushed != nil {
		item := *t.pushed
		t.pushed = nil
		return item, true
	}

	p := t.parser
	if t.imageData {
		t.imageData = false
		pos := p.lexer.Pos()
		data, ok := p.lexer.ReadInlineImage()
		if !ok {
			p.logger.Debug("inline image not terminated by EI", "pos", pos)
		}
		p.reload()
		return Item{Kind: ItemImageData, Data: data, Pos: pos}, true
	}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return Item{}, false

		case TokenKeyword:
			kw := string(tok.Value)
			switch kw {
			case "true", "false", "null":
				// values, handled below
			case "ID":
				// The lexer sits right after ID; the payload is read on
				// the next call.
				t.imageData = true
				return Item{Kind: ItemKeyword, Keyword: kw, Pos: tok.Pos}, true
			case "stream":
				// A stream keyword that did not follow a dictionary.
				p.reload()
				return Item{Kind: ItemKeyword, Keyword: kw, Pos: tok.Pos}, true
			default:
				p.nextToken()
				return Item{Kind: ItemKeyword, Keyword: kw, Pos: tok.Pos}, true
			}

		case TokenIndirectRef, TokenArrayEnd, TokenDictEnd:
			p.nextToken()
			return Item{Kind: ItemKeyword, Keyword: string(tok.Value), Pos: tok.Pos}, true
		}

		obj, err := p.ParseValue()
		if err != nil {
			p.logger.Debug("skipping unparsable value", "pos", tok.Pos, "err", err)
			if p.current().Pos == tok.Pos && p.current().Type == tok.Type {
				p.nextToken()
			}
			continue
		}
		return Item{Kind: ItemValue, Value: obj, Pos: tok.Pos}, true
	}
}

// Pos returns the offset of the next unread item. After PutBack it still
// reports the position past the pushed-back item.
func (t *Tokenizer) Pos() int64 {
	if t.imageData {
		return t.parser.lexer.Pos()
	}
	return t.parser.Pos()
}
