package reader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"unsafe"

	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"

	"github.com/tsawler/pdfnative/core"
	"github.com/tsawler/pdfnative/pages"
)

var (
	// ErrObjectOutOfRange is returned for object numbers outside the
	// cross-reference table.
	ErrObjectOutOfRange = errors.New("object number out of range")
	// ErrObjectNotFound is returned for free entries and numbers that no
	// xref section registered.
	ErrObjectNotFound = errors.New("object not in cross-reference table")
	// ErrReferenceCycle is reported when a chain of references leads back
	// to an object that is still being resolved.
	ErrReferenceCycle = errors.New("reference cycle")
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// slot caches one entry of the object table.
type slot struct {
	parsed    core.Object
	err       error
	fetched   bool
	parsing   bool
	resolved  core.Object
	done      bool
	resolving bool
}

// Document is a loaded PDF file. Objects are parsed on first access and
// cached, so a Document must not be used from several goroutines without
// external locking.
type Document struct {
	data     []byte
	arena    *core.Arena
	table    *core.XRefTable
	slots    []slot
	trailers []*core.Trailer
	catalog  core.Dict
	pages    []*pages.Page
	version  PDFVersion
	opts     Options
	logger   *slog.Logger

	parses int // objects read from data
}

// Ensure Document implements pages.ObjectResolver
var _ pages.ObjectResolver = (*Document)(nil)

// Open reads the file at path and loads it. Only reading the file can fail;
// see Load.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Load(data, opts...), nil
}

// Load indexes data, which the Document keeps and must not be modified
// afterwards. Structural problems are logged and never fail the load: a
// file without a usable catalog or page tree yields a Document with zero
// pages.
func Load(data []byte, opts ...Option) *Document {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Document{
		data:   data,
		arena:  core.NewArena(),
		table:  core.NewXRefTable(),
		opts:   o,
		logger: logger,
	}
	d.version = d.parseHeader()

	chain, err := core.ReadXRefChain(data, d.table, o.MaxXRefSections, logger)
	if err != nil {
		logger.Warn("no cross-reference data", "err", err)
	}
	d.trailers = chain.Trailers
	d.slots = make([]slot, d.table.Len())

	if !chain.HasRoot {
		logger.Warn("document has no catalog", "err", core.ErrMissingRoot)
		return d
	}
	catalog, ok := d.ResolveReference(chain.Root).(core.Dict)
	if !ok {
		logger.Warn("catalog is not a dictionary", "ref", chain.Root.String())
		return d
	}
	if typ, ok := catalog.GetName("Type"); ok && typ != "Catalog" {
		logger.Warn("catalog has wrong type", "type", string(typ))
		return d
	}
	d.catalog = catalog

	root := catalog.Get("Pages")
	if root == nil {
		logger.Warn("catalog has no page tree")
		return d
	}
	d.pages = pages.FillPages(root, d,
		pages.WithMaxDepth(o.MaxPageDepth),
		pages.WithLogger(logger))
	return d
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// parseHeader parses the PDF header (%PDF-x.y) within the first kilobyte.
func (d *Document) parseHeader() PDFVersion {
	head := d.data[:min(len(d.data), 1024)]
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		d.logger.Warn("missing PDF header")
		return PDFVersion{}
	}

	m := versionPattern.FindSubmatch(head[idx+5:])
	if m == nil {
		d.logger.Warn("invalid PDF version", "offset", idx)
		return PDFVersion{}
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}
}

// Version returns the version from the file header; zero if it is missing.
func (d *Document) Version() PDFVersion {
	return d.version
}

// Len returns the size of the object table.
func (d *Document) Len() int {
	return len(d.slots)
}

// Object returns the parsed object id. The body is read on the first call
// and the same value is returned afterwards. It reports false if the object
// does not exist or cannot be parsed.
func (d *Document) Object(id int) (core.Object, bool) {
	obj, err := d.Fetch(id)
	return obj, err == nil
}

// Fetch is like Object but returns the reason for a failed lookup. Failures
// are cached along with successes.
func (d *Document) Fetch(id int) (core.Object, error) {
	if id < 0 || id >= len(d.slots) {
		d.logger.Warn("object lookup failed", "id", id, "err", ErrObjectOutOfRange)
		return nil, fmt.Errorf("%w: %d", ErrObjectOutOfRange, id)
	}
	s := &d.slots[id]
	if s.fetched {
		return s.parsed, s.err
	}
	if s.parsing {
		return nil, fmt.Errorf("%w: object %d is being parsed", ErrReferenceCycle, id)
	}

	s.parsing = true
	obj, err := d.readObject(id)
	s.parsing = false

	if err != nil {
		d.logger.Warn("cannot read object", "id", id, "err", err)
	}
	s.parsed, s.err, s.fetched = obj, err, true
	return obj, err
}

// readObject parses the indirect object at the offset recorded for id. A
// header naming another object is logged and the body is used anyway.
func (d *Document) readObject(id int) (core.Object, error) {
	entry, ok := d.table.Get(id)
	if !ok || entry.Free {
		return nil, fmt.Errorf("%w: %d", ErrObjectNotFound, id)
	}
	if entry.Offset < 0 || entry.Offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("object %d: offset %d outside file", id, entry.Offset)
	}
	d.parses++

	tz := d.newTokenizer(d.data, entry.Offset)

	num, ok := tz.ReadToken()
	if !ok {
		return nil, fmt.Errorf("object %d: no data at offset %d", id, entry.Offset)
	}
	if n, isInt := num.Value.(core.Int); !isInt || int(n) != id {
		d.logger.Warn("object number mismatch", "id", id, "offset", entry.Offset, "found", itemString(num))
	}
	gen, _ := tz.ReadToken()
	if g, isInt := gen.Value.(core.Int); !isInt || int(g) != entry.Generation {
		d.logger.Debug("generation mismatch", "id", id, "want", entry.Generation, "found", itemString(gen))
	}
	kw, _ := tz.ReadToken()
	if kw.Kind != core.ItemKeyword || kw.Keyword != "obj" {
		d.logger.Warn("obj keyword missing", "id", id, "found", itemString(kw))
	}

	body, ok := tz.ReadToken()
	if !ok {
		return nil, fmt.Errorf("object %d: missing body", id)
	}
	if body.Kind != core.ItemValue {
		d.logger.Warn("object has no value", "id", id, "found", itemString(body))
		return core.Null{}, nil
	}

	if end, ok := tz.ReadToken(); !ok || end.Keyword != "endobj" {
		d.logger.Debug("object not terminated by endobj", "id", id)
	}
	return body.Value, nil
}

func itemString(item core.Item) string {
	switch item.Kind {
	case core.ItemKeyword:
		return item.Keyword
	case core.ItemValue:
		if item.Value != nil {
			return item.Value.String()
		}
	}
	return item.Kind.String()
}

// ResolveReference returns obj unchanged unless it is an indirect
// reference, in which case the referenced object is returned, following
// chains of references. Unresolvable references, cycles and chains longer
// than the configured depth yield core.Null. Results are cached.
func (d *Document) ResolveReference(obj core.Object) core.Object {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj
	}
	return d.resolve(ref, 0)
}

func (d *Document) resolve(ref core.IndirectRef, depth int) core.Object {
	id := ref.Number
	if id < 0 || id >= len(d.slots) {
		d.logger.Warn("cannot resolve reference", "ref", ref.String(), "err", ErrObjectOutOfRange)
		return core.Null{}
	}
	s := &d.slots[id]
	if s.done {
		return s.resolved
	}
	if s.resolving || s.parsing {
		d.logger.Warn("cannot resolve reference", "ref", ref.String(), "err", ErrReferenceCycle)
		return core.Null{}
	}
	if depth >= d.opts.MaxResolveDepth {
		d.logger.Warn("reference chain too long", "ref", ref.String(), "limit", d.opts.MaxResolveDepth)
		return core.Null{}
	}

	s.resolving = true
	var result core.Object = core.Null{}
	if obj, err := d.Fetch(id); err == nil {
		if next, ok := obj.(core.IndirectRef); ok {
			result = d.resolve(next, depth+1)
		} else {
			result = obj
		}
	}
	s.resolving = false

	s.resolved, s.done = result, true
	return result
}

// lengthResolver resolves indirect /Length values while a stream is parsed.
type lengthResolver struct {
	d *Document
}

func (r lengthResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if ref.Number >= 0 && ref.Number < len(r.d.slots) && r.d.slots[ref.Number].parsing {
		return nil, fmt.Errorf("%w: %s", ErrReferenceCycle, ref)
	}
	obj := r.d.ResolveReference(ref)
	if _, ok := obj.(core.Null); ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
	}
	return obj, nil
}

func (d *Document) newTokenizer(data []byte, offset int64) *core.Tokenizer {
	tz := core.NewTokenizerAt(data, offset)
	tz.SetReferenceResolver(lengthResolver{d})
	tz.SetArena(d.arena)
	tz.SetLogger(d.logger)
	return tz
}

// Trailer returns the newest trailer dictionary, or nil if none was read.
func (d *Document) Trailer() core.Dict {
	if len(d.trailers) == 0 {
		return nil
	}
	return d.trailers[0].Dict
}

// Catalog returns the document catalog.
func (d *Document) Catalog() (core.Dict, bool) {
	return d.catalog, d.catalog != nil
}

// Info returns the document information dictionary.
func (d *Document) Info() (core.Dict, bool) {
	info, ok := d.ResolveReference(d.Trailer().Get("Info")).(core.Dict)
	return info, ok
}

// InfoText returns a text entry of the information dictionary, such as
// Title or Author, decoded to UTF-8.
func (d *Document) InfoText(key string) (string, bool) {
	info, ok := d.Info()
	if !ok {
		return "", false
	}
	return core.DecodeTextString(d.ResolveReference(info.Get(key)))
}

// Language returns the natural language declared by the catalog's /Lang
// entry, or language.Und.
func (d *Document) Language() language.Tag {
	s, ok := core.DecodeTextString(d.ResolveReference(d.catalog.Get("Lang")))
	if !ok || s == "" {
		return language.Und
	}
	tag, err := language.Parse(s)
	if err != nil {
		d.logger.Debug("invalid document language", "lang", s, "err", err)
		return language.Und
	}
	return tag
}

// Pages returns the number of pages.
func (d *Document) Pages() int {
	return len(d.pages)
}

// Page returns page i, counting from zero.
func (d *Document) Page(i int) (*pages.Page, bool) {
	if i < 0 || i >= len(d.pages) {
		return nil, false
	}
	return d.pages[i], true
}

// PageResources returns the resource dictionary of page i. It is empty if
// the page does not exist or defines no resources.
func (d *Document) PageResources(i int) core.Dict {
	page, ok := d.Page(i)
	if !ok {
		return core.Dict{}
	}
	return page.Resources()
}

// MediaBox returns the media box of page i, or the zero rectangle.
func (d *Document) MediaBox(i int) rect.Rect {
	page, ok := d.Page(i)
	if !ok {
		return rect.Rect{}
	}
	box, _ := page.MediaBox()
	return box
}

// FilterStream decodes s in place using the configured filters. Indirect
// /Filter and /DecodeParms entries are resolved without touching the stream
// dictionary. A reference that leads nowhere leaves the stream unfiltered.
func (d *Document) FilterStream(s *core.Stream) bool {
	if s.IsStreamFiltered() {
		return true
	}
	filter, ok := d.resolveFilterEntry(s.Dict.Get("Filter"))
	if !ok {
		d.logger.Warn("cannot resolve stream filter", "filter", s.Dict.Get("Filter").String())
		return false
	}
	params, ok := d.resolveFilterEntry(s.Dict.Get("DecodeParms"))
	if !ok {
		d.logger.Warn("cannot resolve stream decode parameters", "params", s.Dict.Get("DecodeParms").String())
		return false
	}

	set := d.opts.Filters
	if set == nil {
		set = core.DefaultFilters
	}
	return s.FilterStreamUsing(set, filter, params, d.arena, d.logger)
}

// resolveFilterEntry resolves a /Filter or /DecodeParms value, including
// references held in its array form. It reports false for a reference to a
// missing object.
func (d *Document) resolveFilterEntry(obj core.Object) (core.Object, bool) {
	obj, ok := d.resolveKnown(obj)
	if !ok {
		return nil, false
	}
	arr, isArray := obj.(core.Array)
	if !isArray {
		return obj, true
	}
	out := make(core.Array, len(arr))
	for i, elem := range arr {
		if out[i], ok = d.resolveKnown(elem); !ok {
			return nil, false
		}
	}
	return out, true
}

// resolveKnown resolves obj and reports false when obj is a reference that
// resolves to null.
func (d *Document) resolveKnown(obj core.Object) (core.Object, bool) {
	if _, isRef := obj.(core.IndirectRef); !isRef {
		return obj, true
	}
	v := d.ResolveReference(obj)
	_, isNull := v.(core.Null)
	return v, !isNull
}

// TokenizerOfPage returns a tokenizer over the content of page i. Multiple
// content streams are decoded and joined with a newline. A missing page
// gives an empty tokenizer.
func (d *Document) TokenizerOfPage(i int) *core.Tokenizer {
	page, ok := d.Page(i)
	if !ok {
		d.logger.Warn("page out of range", "page", i, "pages", len(d.pages))
		return d.TokenizerOfBuffer(nil)
	}

	streams := page.Contents()
	if len(streams) == 1 {
		return d.TokenizerOfStream(streams[0])
	}
	var buf bytes.Buffer
	for j, s := range streams {
		if j > 0 {
			buf.WriteByte('\n')
		}
		d.FilterStream(s)
		buf.Write(s.Data())
	}
	return d.TokenizerOfBuffer(d.arena.Copy(buf.Bytes()))
}

// TokenizerOfStream decodes the stream obj resolves to and returns a
// tokenizer over its data. Anything other than a stream gives an empty
// tokenizer.
func (d *Document) TokenizerOfStream(obj core.Object) *core.Tokenizer {
	s, ok := d.ResolveReference(obj).(*core.Stream)
	if !ok {
		d.logger.Debug("not a stream", "type", fmt.Sprintf("%T", obj))
		return d.TokenizerOfBuffer(nil)
	}
	d.FilterStream(s)
	return d.TokenizerOfBuffer(s.Data())
}

// TokenizerOfBuffer returns a tokenizer over b.
func (d *Document) TokenizerOfBuffer(b []byte) *core.Tokenizer {
	return d.newTokenizer(b, 0)
}

// CreateReal returns a real value accounted in the document's arena.
func (d *Document) CreateReal(v float64) core.Real {
	r := core.Real(v)
	d.arena.Track(r)
	return r
}

// CreateInteger returns an integer value accounted in the document's arena.
func (d *Document) CreateInteger(v int64) core.Int {
	i := core.Int(v)
	d.arena.Track(i)
	return i
}

// CreateString returns a string value accounted in the document's arena.
func (d *Document) CreateString(v string) core.String {
	s := core.String(v)
	d.arena.Track(s)
	return s
}

// BytesUsed estimates the memory held by the document: arena chunks and
// tracked values, the file buffer, the object table and the page list.
func (d *Document) BytesUsed() int64 {
	return d.arena.Footprint() +
		int64(len(d.data)) +
		int64(len(d.slots))*int64(unsafe.Sizeof(slot{})) +
		int64(len(d.pages))*int64(unsafe.Sizeof(uintptr(0)))
}
