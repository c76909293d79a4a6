package contentstream

import (
	"log/slog"
	"strings"

	"github.com/tsawler/pdfnative/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands

	// ImageData holds the payload of an inline image. An inline image is
	// reported as one BI operation whose single operand is the image
	// dictionary.
	ImageData []byte
}

// String formats the operation in content stream syntax.
func (op Operation) String() string {
	var sb strings.Builder
	for _, o := range op.Operands {
		sb.WriteString(o.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(op.Operator)
	return sb.String()
}

// Parser groups the items of a core.Tokenizer into operations.
type Parser struct {
	tz       *core.Tokenizer
	operands []core.Object
	logger   *slog.Logger
}

// NewParser creates a parser reading from tz, typically obtained from
// reader.Document.TokenizerOfPage.
func NewParser(tz *core.Tokenizer) *Parser {
	return &Parser{
		tz:     tz,
		logger: slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for skipped input.
func (p *Parser) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Parse parses the content stream and returns all operations in order.
func Parse(tz *core.Tokenizer) []Operation {
	return NewParser(tz).Parse()
}

// ParseBytes parses a decoded content stream.
func ParseBytes(data []byte) []Operation {
	return Parse(core.NewTokenizer(data))
}

// Parse returns the remaining operations in order.
func (p *Parser) Parse() []Operation {
	var ops []Operation
	for {
		op, ok := p.Next()
		if !ok {
			return ops
		}
		ops = append(ops, op)
	}
}

// Next returns the next operation, or false at the end of the stream.
// Operands left over at the end are dropped.
func (p *Parser) Next() (Operation, bool) {
	for {
		item, ok := p.tz.ReadToken()
		if !ok {
			if len(p.operands) > 0 {
				p.logger.Debug("operands without operator", "count", len(p.operands))
				p.operands = nil
			}
			return Operation{}, false
		}

		switch item.Kind {
		case core.ItemValue:
			p.operands = append(p.operands, item.Value)
			continue
		case core.ItemImageData:
			p.logger.Debug("image data outside inline image", "pos", item.Pos)
			continue
		}

		switch item.Keyword {
		case "]", ">>":
			p.logger.Debug("stray delimiter", "keyword", item.Keyword, "pos", item.Pos)
			continue
		case "BI":
			p.operands = nil
			return p.inlineImage(), true
		}

		op := Operation{Operator: item.Keyword, Operands: p.operands}
		p.operands = nil
		return op, true
	}
}

// inlineImage reads the key/value pairs, data and EI keyword that follow BI.
func (p *Parser) inlineImage() Operation {
	dict := core.Dict{}
	var pending []core.Object
	op := Operation{Operator: "BI"}

	for {
		item, ok := p.tz.ReadToken()
		if !ok {
			p.logger.Debug("inline image not terminated")
			break
		}
		if item.Kind == core.ItemValue {
			pending = append(pending, item.Value)
			continue
		}
		if item.Kind == core.ItemImageData {
			op.ImageData = item.Data
			if end, ok := p.tz.ReadToken(); ok && (end.Kind != core.ItemKeyword || end.Keyword != "EI") {
				p.tz.PutBack(end)
			}
			break
		}
		if item.Keyword != "ID" {
			p.logger.Debug("unexpected keyword in inline image", "keyword", item.Keyword, "pos", item.Pos)
			p.tz.PutBack(item)
			break
		}
	}

	for i := 0; i+1 < len(pending); i += 2 {
		if key, ok := pending[i].(core.Name); ok {
			dict[string(key)] = pending[i+1]
		}
	}
	op.Operands = []core.Object{dict}
	return op
}
