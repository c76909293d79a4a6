package core

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

var (
	// ErrNoStartXRef is returned when no startxref offset can be found
	// near the end of the file.
	ErrNoStartXRef = errors.New("startxref not found")
	// ErrNotXRef is returned when an xref section does not start with the
	// xref keyword.
	ErrNotXRef = errors.New("xref keyword not found")
	// ErrNotTrailer is returned when an xref section is not followed by a
	// trailer dictionary.
	ErrNotTrailer = errors.New("trailer not found")
	// ErrMissingRoot is returned when the newest trailer has no /Root
	// reference.
	ErrMissingRoot = errors.New("trailer has no /Root reference")
)

// MaxObjectID is the largest object number accepted from an xref section.
// It matches the implementation limit of 8,388,607 indirect objects.
const MaxObjectID = 1<<23 - 1

// XRefEntry represents a single cross-reference table entry
type XRefEntry struct {
	Offset     int64 // Byte offset in file (for in-use objects) or next free object number (for free objects)
	Generation int   // Generation number
	Free       bool  // true if the entry was marked f
	Known      bool  // false until an xref section registers the id
}

// XRefTable maps object numbers to byte offsets. It is a dense slice
// indexed by object number that only ever grows.
type XRefTable struct {
	entries []XRefEntry
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{}
}

// Len returns the number of slots, which is one more than the largest
// registered object number.
func (x *XRefTable) Len() int {
	return len(x.entries)
}

// Get retrieves the entry for an object number. It reports false for ids
// outside the table and for slots no section registered.
func (x *XRefTable) Get(id int) (XRefEntry, bool) {
	if id < 0 || id >= len(x.entries) {
		return XRefEntry{}, false
	}
	e := x.entries[id]
	return e, e.Known
}

// AddCrossSectionInfo records the location of object id. The table grows to
// at least id+1 slots. Sections are read newest first, so an id that is
// already known keeps its offset. Generation and the free flag are stored
// but not checked when objects are fetched.
func (x *XRefTable) AddCrossSectionInfo(id, generation int, offset int64, free bool) bool {
	if id < 0 || id > MaxObjectID {
		return false
	}
	if id >= len(x.entries) {
		x.entries = append(x.entries, make([]XRefEntry, id+1-len(x.entries))...)
	}
	if x.entries[id].Known {
		return true
	}
	x.entries[id] = XRefEntry{
		Offset:     offset,
		Generation: generation,
		Free:       free,
		Known:      true,
	}
	return true
}

// prevLine returns the line that ends before end, skipping end-of-line
// bytes, together with the offset where it starts.
func prevLine(data []byte, end int) ([]byte, int) {
	for end > 0 && (data[end-1] == '\n' || data[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && data[start-1] != '\n' && data[start-1] != '\r' {
		start--
	}
	return data[start:end], start
}

// FindStartXRef locates the offset of the newest xref section. It walks
// backwards over the last lines of the file expecting %%EOF, the offset and
// the startxref keyword. Deviations are reported and tolerated as long as an
// offset can be read; as a last resort the last startxref keyword in the
// file is used.
func FindStartXRef(data []byte, logger *slog.Logger) (int64, error) {
	logger = orDiscard(logger)

	line, end := prevLine(data, len(data))
	for len(bytes.TrimSpace(line)) == 0 && end > 0 {
		line, end = prevLine(data, end)
	}

	if bytes.HasPrefix(bytes.TrimSpace(line), []byte("%%EOF")) {
		line, end = prevLine(data, end)
	} else {
		logger.Warn("file does not end with %%EOF")
	}

	offset, err := strconv.ParseInt(string(bytes.TrimSpace(line)), 10, 64)
	if err == nil {
		line, _ = prevLine(data, end)
		if string(bytes.TrimSpace(line)) != "startxref" {
			logger.Warn("startxref keyword missing before xref offset", "offset", offset)
		}
		return offset, nil
	}

	idx := bytes.LastIndex(data, []byte("startxref"))
	if idx < 0 {
		return 0, ErrNoStartXRef
	}
	tok, lexErr := NewLexerAt(data, int64(idx+len("startxref"))).NextToken()
	if lexErr != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("%w: keyword at %d is not followed by an offset", ErrNoStartXRef, idx)
	}
	offset, err = strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoStartXRef, err)
	}
	logger.Warn("malformed file trailer, using last startxref keyword", "offset", offset)
	return offset, nil
}

// nextToken returns the next non-comment token. Lexical errors are
// reported as nil.
func nextToken(lex *Lexer) *Token {
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil
		}
		if tok.Type != TokenComment {
			return tok
		}
	}
}

func tokenInt(tok *Token) (int64, bool) {
	if tok == nil || tok.Type != TokenInteger {
		return 0, false
	}
	v, err := strconv.ParseInt(string(tok.Value), 10, 64)
	return v, err == nil
}

// ReadCrossReferenceSection parses the classic xref section at start and
// registers its entries in table. It returns the offset of the first token
// after the section, which normally is the trailer keyword. A malformed
// entry ends the section early; the entries read so far are kept.
func ReadCrossReferenceSection(data []byte, start int64, table *XRefTable, logger *slog.Logger) (int64, error) {
	logger = orDiscard(logger)
	if start < 0 || start >= int64(len(data)) {
		return start, fmt.Errorf("%w: offset %d outside file", ErrNotXRef, start)
	}

	lex := NewLexerAt(data, start)
	tok := nextToken(lex)
	if tok == nil || tok.Type != TokenKeyword || string(tok.Value) != "xref" {
		return start, fmt.Errorf("%w at offset %d", ErrNotXRef, start)
	}

	for {
		pos := lex.Pos()
		tok = nextToken(lex)
		first, ok := tokenInt(tok)
		if !ok {
			return tokenPos(tok, pos), nil
		}

		pos = lex.Pos()
		tok = nextToken(lex)
		count, ok := tokenInt(tok)
		if !ok {
			logger.Warn("xref subsection header without count", "id", first, "pos", pos)
			return tokenPos(tok, pos), nil
		}
		if first < 0 || count < 0 || first+count > MaxObjectID+1 {
			logger.Warn("xref subsection out of range", "id", first, "count", count)
			return tokenPos(tok, pos), nil
		}

		for i := int64(0); i < count; i++ {
			entryPos := lex.Pos()
			offTok, genTok, flagTok := nextToken(lex), nextToken(lex), nextToken(lex)
			offset, ok1 := tokenInt(offTok)
			gen, ok2 := tokenInt(genTok)
			if !ok1 || !ok2 || flagTok == nil || flagTok.Type != TokenKeyword ||
				(string(flagTok.Value) != "n" && string(flagTok.Value) != "f") {
				pos := tokenPos(offTok, entryPos)
				logger.Warn("malformed xref entry", "id", first+i, "pos", pos)
				return pos, nil
			}
			table.AddCrossSectionInfo(int(first+i), int(gen), offset, flagTok.Value[0] == 'f')
		}
	}
}

func tokenPos(tok *Token, fallback int64) int64 {
	if tok == nil {
		return fallback
	}
	return tok.Pos
}

// Trailer is one trailer dictionary read while following the xref chain.
type Trailer struct {
	Dict    Dict
	Offset  int64 // where the trailer keyword was found
	Prev    int64 // offset of the previous xref section
	HasPrev bool
	Root    IndirectRef // only set on the newest trailer
	HasRoot bool
}

// ReadTrailer parses the trailer keyword and dictionary at start. When
// storeCatalog is set the /Root reference is captured; a missing or direct
// /Root returns the trailer together with ErrMissingRoot. If the keyword is
// not at start, the next trailer keyword in the file is used.
func ReadTrailer(data []byte, start int64, storeCatalog bool, logger *slog.Logger) (*Trailer, error) {
	logger = orDiscard(logger)
	if start < 0 || start > int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d outside file", ErrNotTrailer, start)
	}

	tz := NewTokenizerAt(data, start)
	item, ok := tz.ReadToken()
	if !ok || item.Kind != ItemKeyword || item.Keyword != "trailer" {
		idx := bytes.Index(data[start:], []byte("trailer"))
		if idx < 0 {
			return nil, fmt.Errorf("%w at offset %d", ErrNotTrailer, start)
		}
		logger.Warn("trailer keyword not where expected", "expected", start, "found", start+int64(idx))
		tz = NewTokenizerAt(data, start+int64(idx))
		item, _ = tz.ReadToken()
	}
	trailerPos := item.Pos

	item, ok = tz.ReadToken()
	dict, isDict := item.Value.(Dict)
	if !ok || item.Kind != ItemValue || !isDict {
		return nil, fmt.Errorf("%w: no dictionary after trailer keyword at %d", ErrNotTrailer, trailerPos)
	}

	tr := &Trailer{Dict: dict, Offset: trailerPos}
	if prev, ok := dict.GetInt("Prev"); ok && prev >= 0 {
		tr.Prev = int64(prev)
		tr.HasPrev = true
	}

	if storeCatalog {
		ref, ok := dict.GetIndirectRef("Root")
		if !ok {
			return tr, ErrMissingRoot
		}
		tr.Root = ref
		tr.HasRoot = true
	}
	return tr, nil
}

// XRefChain is the result of following every xref section of a file.
type XRefChain struct {
	Trailers []*Trailer // newest first
	Root     IndirectRef
	HasRoot  bool
}

// ReadXRefChain locates the newest xref section from the end of data and
// follows the /Prev links, registering every entry in table. Only the first
// trailer contributes the root catalog reference. Reading stops at the first
// section that cannot be parsed, at a repeated offset, or after maxSections
// sections when maxSections is positive. The returned error is only non-nil
// if not even the first section could be located.
func ReadXRefChain(data []byte, table *XRefTable, maxSections int, logger *slog.Logger) (*XRefChain, error) {
	logger = orDiscard(logger)
	chain := &XRefChain{}

	offset, err := FindStartXRef(data, logger)
	if err != nil {
		return chain, err
	}

	seen := make(map[int64]bool)
	for first := true; ; first = false {
		if seen[offset] {
			logger.Warn("xref chain loops", "offset", offset)
			break
		}
		if maxSections > 0 && len(seen) >= maxSections {
			logger.Warn("too many xref sections", "limit", maxSections)
			break
		}
		seen[offset] = true

		cursor, err := ReadCrossReferenceSection(data, offset, table, logger)
		if err != nil {
			logger.Warn("cannot read xref section", "offset", offset, "err", err)
			break
		}

		tr, err := ReadTrailer(data, cursor, first, logger)
		if tr == nil {
			logger.Warn("cannot read trailer", "offset", cursor, "err", err)
			break
		}
		if err != nil {
			logger.Warn("invalid trailer", "offset", tr.Offset, "err", err)
		}
		chain.Trailers = append(chain.Trailers, tr)
		if first && tr.HasRoot {
			chain.Root = tr.Root
			chain.HasRoot = true
		}

		if !tr.HasPrev {
			break
		}
		offset = tr.Prev
	}

	return chain, nil
}
