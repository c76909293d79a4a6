package pages

import (
	"log/slog"
	"math"

	"seehuhn.de/go/geom/rect"

	"github.com/tsawler/pdfnative/core"
)

// ObjectResolver resolves indirect references. Values that are not
// references are returned unchanged; unresolvable references yield
// core.Null.
type ObjectResolver interface {
	ResolveReference(obj core.Object) core.Object
}

// DefaultMaxDepth is the page tree nesting accepted by FillPages.
const DefaultMaxDepth = 64

// maxParentChain bounds the walk up /Parent links.
const maxParentChain = 64

type options struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures FillPages.
type Option func(*options)

// WithMaxDepth limits how deep FillPages descends.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithLogger sets the logger for malformed page tree reports.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type walker struct {
	resolver ObjectResolver
	options
	visited map[int]bool
	pages   []*Page
}

// FillPages flattens the page tree below root into a list of pages in
// document order. A node without a /Kids array is itself a page. Kids that
// are not intermediate nodes are taken as pages; the others are walked
// depth-first. Nodes reached twice through the same object number are
// skipped, as are kids that are not dictionaries.
func FillPages(root core.Object, resolver ObjectResolver, opts ...Option) []*Page {
	w := &walker{
		resolver: resolver,
		options: options{
			maxDepth: DefaultMaxDepth,
			logger:   slog.New(slog.DiscardHandler),
		},
		visited: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(&w.options)
	}

	if root == nil {
		return nil
	}
	node, ref, ok := w.enter(root)
	if !ok {
		return nil
	}
	w.fill(node, ref, nil, 0)
	return w.pages
}

// enter resolves obj and marks it visited. It reports false for revisited
// objects and for values that are not dictionaries.
func (w *walker) enter(obj core.Object) (core.Dict, core.IndirectRef, bool) {
	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if w.visited[ref.Number] {
			w.logger.Warn("page tree cycle", "id", ref.Number)
			return nil, ref, false
		}
		w.visited[ref.Number] = true
	}

	dict, ok := w.resolver.ResolveReference(obj).(core.Dict)
	if !ok {
		w.logger.Warn("page tree node is not a dictionary", "ref", obj.String())
		return nil, ref, false
	}
	return dict, ref, true
}

func (w *walker) fill(node core.Dict, ref core.IndirectRef, parent core.Dict, depth int) {
	kids, ok := w.resolver.ResolveReference(node.Get("Kids")).(core.Array)
	if !ok {
		w.pages = append(w.pages, newPage(node, ref, parent, w.resolver))
		return
	}
	if depth >= w.maxDepth {
		w.logger.Warn("page tree too deep", "limit", w.maxDepth)
		return
	}

	for _, kid := range kids {
		kidDict, kidRef, ok := w.enter(kid)
		if !ok {
			continue
		}
		if !isIntermediate(kidDict) {
			w.pages = append(w.pages, newPage(kidDict, kidRef, node, w.resolver))
			continue
		}
		w.fill(kidDict, kidRef, node, depth+1)
	}
}

// isIntermediate reports whether dict is a page tree node rather than a page.
func isIntermediate(dict core.Dict) bool {
	if typ, ok := dict.GetName("Type"); ok {
		return typ == "Pages"
	}
	_, hasKids := dict.GetArray("Kids")
	return hasKids
}

// Page is a leaf of the page tree.
type Page struct {
	// Dict is the page dictionary.
	Dict core.Dict
	// Ref is the page's object reference; zero for a direct page.
	Ref core.IndirectRef

	parent   core.Dict // node the page was found under, used without /Parent
	resolver ObjectResolver
}

func newPage(dict core.Dict, ref core.IndirectRef, parent core.Dict, resolver ObjectResolver) *Page {
	return &Page{
		Dict:     dict,
		Ref:      ref,
		parent:   parent,
		resolver: resolver,
	}
}

// Inherited returns the resolved value of key from the page or the nearest
// ancestor defining it, following /Parent links. It returns nil if no node
// in the chain has the key.
func (p *Page) Inherited(key string) core.Object {
	node := p.Dict
	seen := make(map[int]bool)

	for i := 0; node != nil && i < maxParentChain; i++ {
		if v, ok := node[key]; ok {
			return p.resolver.ResolveReference(v)
		}

		parentObj, ok := node["Parent"]
		if !ok {
			if i == 0 && p.parent != nil {
				node = p.parent
				continue
			}
			return nil
		}
		if ref, ok := parentObj.(core.IndirectRef); ok {
			if seen[ref.Number] {
				return nil
			}
			seen[ref.Number] = true
		}
		node, _ = p.resolver.ResolveReference(parentObj).(core.Dict)
	}
	return nil
}

// MediaBox returns the page boundaries. It reports false when neither the
// page nor its ancestors define a usable /MediaBox.
func (p *Page) MediaBox() (rect.Rect, bool) {
	return p.box("MediaBox")
}

// CropBox returns the visible region, defaulting to the media box.
func (p *Page) CropBox() (rect.Rect, bool) {
	if box, ok := p.box("CropBox"); ok {
		return box, true
	}
	return p.MediaBox()
}

func (p *Page) box(key string) (rect.Rect, bool) {
	arr, ok := p.Inherited(key).(core.Array)
	if !ok || len(arr) != 4 {
		return rect.Rect{}, false
	}

	var v [4]float64
	for i, elem := range arr {
		x, ok := core.AsNumber(p.resolver.ResolveReference(elem))
		if !ok {
			return rect.Rect{}, false
		}
		v[i] = x
	}
	return rect.Rect{
		LLx: math.Min(v[0], v[2]),
		LLy: math.Min(v[1], v[3]),
		URx: math.Max(v[0], v[2]),
		URy: math.Max(v[1], v[3]),
	}, true
}

// Resources returns the page resources dictionary, or an empty dictionary
// if none is defined.
func (p *Page) Resources() core.Dict {
	if res, ok := p.Inherited("Resources").(core.Dict); ok {
		return res
	}
	return core.Dict{}
}

// Rotate returns the page rotation in degrees, normalized to 0, 90, 180 or 270.
func (p *Page) Rotate() int {
	rotate, ok := p.Inherited("Rotate").(core.Int)
	if !ok {
		return 0
	}
	r := int(rotate) % 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}

// Contents returns the page content streams in order. Entries that do not
// resolve to a stream are left out.
func (p *Page) Contents() []*core.Stream {
	switch v := p.resolver.ResolveReference(p.Dict.Get("Contents")).(type) {
	case *core.Stream:
		return []*core.Stream{v}
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for _, elem := range v {
			if s, ok := p.resolver.ResolveReference(elem).(*core.Stream); ok {
				streams = append(streams, s)
			}
		}
		return streams
	}
	return nil
}

// Width returns the width of the media box.
func (p *Page) Width() float64 {
	box, _ := p.MediaBox()
	return box.Dx()
}

// Height returns the height of the media box.
func (p *Page) Height() float64 {
	box, _ := p.MediaBox()
	return box.Dy()
}
