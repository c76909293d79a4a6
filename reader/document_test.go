package reader

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"

	"github.com/tsawler/pdfnative/core"
)

// pdfBuilder assembles a PDF file and computes its xref offsets
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func newPDF(version string) *pdfBuilder {
	b := &pdfBuilder{offsets: make(map[int]int)}
	fmt.Fprintf(&b.buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)
	return b
}

// add writes object id with the given body
func (b *pdfBuilder) add(id int, body string) *pdfBuilder {
	return b.addAs(id, id, body)
}

// addAs registers id but writes header as the object number
func (b *pdfBuilder) addAs(id, header int, body string) *pdfBuilder {
	b.offsets[id] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", header, body)
	return b
}

// stream writes a stream object with an exact /Length
func (b *pdfBuilder) stream(id int, dict string, data []byte) *pdfBuilder {
	body := fmt.Sprintf("<< /Length %d %s >>\nstream\n%s\nendstream", len(data), dict, data)
	return b.add(id, body)
}

// bytes finishes the file with a single xref section and trailer
func (b *pdfBuilder) bytes(trailer string) []byte {
	size := 1
	for id := range b.offsets {
		size = max(size, id+1)
	}

	xref := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for id := 1; id < size; id++ {
		if off, ok := b.offsets[id]; ok {
			fmt.Fprintf(&b.buf, "%010d 00000 n \n", off)
		} else {
			b.buf.WriteString("0000000000 00000 f \n")
		}
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d %s >>\nstartxref\n%d\n%%%%EOF\n", size, trailer, xref)
	return b.buf.Bytes()
}

func deflate(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}
	return buf.Bytes()
}

// keywords returns the operators produced by a tokenizer
func keywords(tz *core.Tokenizer) []string {
	var out []string
	for {
		item, ok := tz.ReadToken()
		if !ok {
			return out
		}
		if item.Kind == core.ItemKeyword {
			out = append(out, item.Keyword)
		}
	}
}

func ref(n int) core.IndirectRef {
	return core.IndirectRef{Number: n}
}

// twoPagePDF has an inherited MediaBox and Resources
func twoPagePDF() []byte {
	return newPDF("1.7").
		add(1, "<< /Type /Catalog /Pages 2 0 R /Lang (en-GB) >>").
		add(2, "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] /Resources << /Font << /F1 9 0 R >> >> >>").
		add(3, "<< /Type /Page /Parent 2 0 R /Contents 5 0 R >>").
		add(4, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] /Resources << >> >>").
		stream(5, "", []byte("BT /F1 12 Tf (Hi) Tj ET")).
		add(6, "<< /Title <FEFF00480069> /Author (Ann) >>").
		bytes("/Root 1 0 R /Info 6 0 R")
}

// TestLoad tests loading a small document
func TestLoad(t *testing.T) {
	doc := Load(twoPagePDF())

	if doc.Version() != (PDFVersion{Major: 1, Minor: 7}) {
		t.Errorf("Version() = %v, want 1.7", doc.Version())
	}
	if doc.Pages() != 2 {
		t.Fatalf("Pages() = %d, want 2", doc.Pages())
	}
	if doc.Len() != 7 {
		t.Errorf("Len() = %d, want 7", doc.Len())
	}
	if _, ok := doc.Catalog(); !ok {
		t.Error("expected a catalog")
	}
	if size, _ := doc.Trailer().GetInt("Size"); size != 7 {
		t.Errorf("trailer /Size = %d, want 7", size)
	}

	if got := doc.MediaBox(0); got != (rect.Rect{URx: 612, URy: 792}) {
		t.Errorf("MediaBox(0) = %v, want inherited 612x792", got)
	}
	if got := doc.MediaBox(1); got != (rect.Rect{URx: 200, URy: 100}) {
		t.Errorf("MediaBox(1) = %v, want 200x100", got)
	}
	if got := doc.MediaBox(2); !got.IsZero() {
		t.Errorf("MediaBox(2) = %v, want zero rectangle", got)
	}

	if _, ok := doc.PageResources(0).GetDict("Font"); !ok {
		t.Error("page 0 should inherit the font resources")
	}
	if res := doc.PageResources(1); len(res) != 0 {
		t.Errorf("page 1 resources = %v, want its own empty dictionary", res)
	}
	if res := doc.PageResources(-1); res == nil || len(res) != 0 {
		t.Errorf("PageResources(-1) = %v, want empty dictionary", res)
	}
}

// TestPageOrder tests that nested page tree nodes keep document order
func TestPageOrder(t *testing.T) {
	data := newPDF("1.4").
		add(1, "<< /Type /Catalog /Pages 2 0 R >>").
		add(2, "<< /Type /Pages /Kids [3 0 R 4 0 R 7 0 R] >>").
		add(3, "<< /Type /Page /Parent 2 0 R >>").
		add(4, "<< /Type /Pages /Parent 2 0 R /Kids [5 0 R 6 0 R] >>").
		add(5, "<< /Type /Page /Parent 4 0 R >>").
		add(6, "<< /Type /Page /Parent 4 0 R >>").
		add(7, "<< /Type /Page /Parent 2 0 R >>").
		bytes("/Root 1 0 R")

	doc := Load(data)
	var got []int
	for i := 0; i < doc.Pages(); i++ {
		page, _ := doc.Page(i)
		got = append(got, page.Ref.Number)
	}
	if diff := cmp.Diff([]int{3, 5, 6, 7}, got); diff != "" {
		t.Errorf("page order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.Page(4); ok {
		t.Error("Page(4) should not exist")
	}
}

// TestObjectIsParsedOnce tests that lookups are cached
func TestObjectIsParsedOnce(t *testing.T) {
	doc := Load(twoPagePDF())
	before := doc.parses

	first, ok := doc.Object(6)
	if !ok {
		t.Fatal("Object(6) failed")
	}
	second, _ := doc.Object(6)
	if doc.parses != before+1 {
		t.Errorf("object parsed %d times, want 1", doc.parses-before)
	}
	if fmt.Sprintf("%p", first) != fmt.Sprintf("%p", second) {
		t.Error("Object should return the cached dictionary")
	}
}

// TestResolveReferenceIdentity tests that resolution returns the same value
func TestResolveReferenceIdentity(t *testing.T) {
	doc := Load(twoPagePDF())

	s1, ok := doc.ResolveReference(ref(5)).(*core.Stream)
	if !ok {
		t.Fatal("object 5 should be a stream")
	}
	parses := doc.parses
	s2 := doc.ResolveReference(ref(5)).(*core.Stream)
	if s1 != s2 {
		t.Error("ResolveReference returned a different stream")
	}
	if doc.parses != parses {
		t.Error("second resolution parsed the object again")
	}

	if got := doc.ResolveReference(core.Int(7)); got != core.Int(7) {
		t.Errorf("non-references must be returned unchanged, got %v", got)
	}
}

// TestResolveChain tests references that point at references
func TestResolveChain(t *testing.T) {
	data := newPDF("1.4").
		add(1, "2 0 R").
		add(2, "3 0 R").
		add(3, "42").
		bytes("")

	doc := Load(data)
	if got := doc.ResolveReference(ref(1)); got != core.Int(42) {
		t.Errorf("ResolveReference(1) = %v, want 42", got)
	}
	if obj, _ := doc.Object(1); obj != ref(2) {
		t.Errorf("Object(1) = %v; Object must not resolve", obj)
	}

	short := Load(data, WithMaxResolveDepth(2))
	if got := short.ResolveReference(ref(1)); got != (core.Null{}) {
		t.Errorf("depth-limited resolution = %v, want null", got)
	}
}

// TestResolveCycle tests that reference cycles resolve to null
func TestResolveCycle(t *testing.T) {
	data := newPDF("1.4").
		add(1, "2 0 R").
		add(2, "1 0 R").
		add(3, "3 0 R").
		bytes("")

	var logs bytes.Buffer
	doc := Load(data, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	for _, id := range []int{1, 2, 3} {
		if got := doc.ResolveReference(ref(id)); got != (core.Null{}) {
			t.Errorf("ResolveReference(%d) = %v, want null", id, got)
		}
	}
	parses := doc.parses
	doc.ResolveReference(ref(1))
	if doc.parses != parses {
		t.Error("cycle result should be cached")
	}
	if !strings.Contains(logs.String(), ErrReferenceCycle.Error()) {
		t.Errorf("cycle was not logged:\n%s", logs.String())
	}
}

// TestObjectLookupFailures tests ids outside the table and free entries
func TestObjectLookupFailures(t *testing.T) {
	doc := Load(twoPagePDF())

	for _, id := range []int{-1, 7, 1 << 30} {
		if _, ok := doc.Object(id); ok {
			t.Errorf("Object(%d) should fail", id)
		}
		if _, err := doc.Fetch(id); !errors.Is(err, ErrObjectOutOfRange) {
			t.Errorf("Fetch(%d) error = %v, want ErrObjectOutOfRange", id, err)
		}
	}
	if _, err := doc.Fetch(0); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Fetch(0) error = %v, want ErrObjectNotFound", err)
	}
	if got := doc.ResolveReference(ref(100)); got != (core.Null{}) {
		t.Errorf("out of range reference = %v, want null", got)
	}
}

// TestObjectHeaderMismatch tests that a broken object header is tolerated
func TestObjectHeaderMismatch(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		headerN int
	}{
		{"wrong number", "", "", 9},
		{"wrong generation", "1 0 obj", "1 7 obj", 1},
		{"missing obj keyword", "1 0 obj", "1 0 xxx", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := newPDF("1.4").
				addAs(1, tt.headerN, "(body)").
				bytes("")
			if tt.from != "" {
				data = bytes.Replace(data, []byte(tt.from), []byte(tt.to), 1)
			}

			obj, ok := Load(data).Object(1)
			if !ok || obj != core.String("body") {
				t.Errorf("Object(1) = %v, %v; want the body despite the header", obj, ok)
			}
		})
	}
}

// TestFreeEntryNotFetched tests that an entry marked free is never parsed
func TestFreeEntryNotFetched(t *testing.T) {
	b := newPDF("1.4").add(1, "(one)").add(2, "(two)")
	data := b.bytes("")
	inUse := fmt.Sprintf("%010d 00000 n", b.offsets[2])
	data = bytes.Replace(data, []byte(inUse), []byte(inUse[:len(inUse)-1]+"f"), 1)

	doc := Load(data)
	if _, err := doc.Fetch(2); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Fetch(2) error = %v, want ErrObjectNotFound", err)
	}
	if got := doc.ResolveReference(ref(2)); got != (core.Null{}) {
		t.Errorf("reference to a free entry = %v, want null", got)
	}
	if obj, ok := doc.Object(1); !ok || obj != core.String("one") {
		t.Errorf("Object(1) = %v, %v", obj, ok)
	}
}

// TestGracefulDegradation tests files that load with zero pages
func TestGracefulDegradation(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not a pdf at all")},
		{"root is not a dictionary", newPDF("1.4").add(1, "5").bytes("/Root 1 0 R")},
		{"root is direct", newPDF("1.4").add(1, "<< >>").bytes("/Root << /Type /Catalog >>")},
		{"missing root", newPDF("1.4").add(1, "<< >>").bytes("")},
		{"wrong catalog type", newPDF("1.4").add(1, "<< /Type /Page /Pages 2 0 R >>").add(2, "<< /Type /Page >>").bytes("/Root 1 0 R")},
		{"no page tree", newPDF("1.4").add(1, "<< /Type /Catalog >>").bytes("/Root 1 0 R")},
		{"page tree is not a dictionary", newPDF("1.4").add(1, "<< /Type /Catalog /Pages 2 0 R >>").add(2, "[1 2]").bytes("/Root 1 0 R")},
		{"dangling root", newPDF("1.4").add(1, "<< >>").bytes("/Root 8 0 R")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Load(tt.data)
			if doc.Pages() != 0 {
				t.Errorf("Pages() = %d, want 0", doc.Pages())
			}
			if tz := doc.TokenizerOfPage(0); !tz.Empty() {
				t.Error("missing page should give an empty tokenizer")
			}
		})
	}
}

// TestPageTreeCycle tests a /Kids entry pointing back at the root
func TestPageTreeCycle(t *testing.T) {
	data := newPDF("1.4").
		add(1, "<< /Type /Catalog /Pages 2 0 R >>").
		add(2, "<< /Type /Pages /Kids [3 0 R 2 0 R] >>").
		add(3, "<< /Type /Page /Parent 2 0 R >>").
		bytes("/Root 1 0 R")

	if n := Load(data).Pages(); n != 1 {
		t.Errorf("Pages() = %d, want 1", n)
	}
}

// TestTokenizerOfPage tests tokenizing single and multiple content streams
func TestTokenizerOfPage(t *testing.T) {
	doc := Load(twoPagePDF())
	want := []string{"BT", "Tf", "Tj", "ET"}
	if diff := cmp.Diff(want, keywords(doc.TokenizerOfPage(0))); diff != "" {
		t.Errorf("page 0 operators (-want +got):\n%s", diff)
	}
	if !doc.TokenizerOfPage(1).Empty() {
		t.Error("page without contents should give an empty tokenizer")
	}

	data := newPDF("1.4").
		add(1, "<< /Type /Catalog /Pages 2 0 R >>").
		add(2, "<< /Type /Pages /Kids [3 0 R] >>").
		add(3, "<< /Type /Page /Parent 2 0 R /Contents [4 0 R 5 0 R] >>").
		stream(4, "", []byte("q 1 0 0 1 0 0 cm")).
		stream(5, "/Filter /FlateDecode", deflate(t, "Q")).
		bytes("/Root 1 0 R")

	doc = Load(data)
	want = []string{"q", "cm", "Q"}
	if diff := cmp.Diff(want, keywords(doc.TokenizerOfPage(0))); diff != "" {
		t.Errorf("joined operators (-want +got):\n%s", diff)
	}
}

// TestTokenizerOfStream tests decoding a Flate stream
func TestTokenizerOfStream(t *testing.T) {
	content := "0 0 m 10 10 l S"
	data := newPDF("1.5").
		stream(1, "/Filter /FlateDecode", deflate(t, content)).
		stream(2, "/Filter 3 0 R", deflate(t, content)).
		add(3, "/FlateDecode").
		bytes("")

	doc := Load(data)
	for _, id := range []int{1, 2} {
		s := doc.ResolveReference(ref(id)).(*core.Stream)
		if s.IsStreamFiltered() {
			t.Fatalf("stream %d filtered before use", id)
		}
		got := keywords(doc.TokenizerOfStream(ref(id)))
		if diff := cmp.Diff([]string{"m", "l", "S"}, got); diff != "" {
			t.Errorf("stream %d operators (-want +got):\n%s", id, diff)
		}
		if !s.IsStreamFiltered() || string(s.Data()) != content {
			t.Errorf("stream %d data = %q", id, s.Data())
		}
	}

	if !doc.TokenizerOfStream(core.Int(1)).Empty() {
		t.Error("a non-stream should give an empty tokenizer")
	}
	if doc.TokenizerOfBuffer([]byte("q Q")).Empty() {
		t.Error("buffer tokenizer should not be empty")
	}
}

// TestStreamLength tests indirect and unusable /Length values
func TestStreamLength(t *testing.T) {
	data := newPDF("1.4").
		add(1, "<< /Length 2 0 R >>\nstream\nindirect\nendstream").
		add(2, "8").
		add(3, "<< /Length 3 0 R >>\nstream\nself\nendstream").
		add(4, "<< /Length 99 0 R >>\nstream\ndangling\nendstream").
		add(5, "<< /Length 1000 >>\nstream\ntoo long\nendstream").
		bytes("")

	doc := Load(data)
	want := map[int]string{1: "indirect", 3: "self", 4: "dangling", 5: "too long"}
	for id, data := range want {
		s, ok := doc.ResolveReference(ref(id)).(*core.Stream)
		if !ok {
			t.Errorf("object %d is not a stream", id)
			continue
		}
		if string(s.Data()) != data {
			t.Errorf("object %d data = %q, want %q", id, s.Data(), data)
		}
	}
}

// TestFilterOrder tests that filter arrays are applied last to first
func TestFilterOrder(t *testing.T) {
	var order []string
	record := func(name string) core.FilterFunc {
		return func(data []byte, _ core.Dict) ([]byte, error) {
			order = append(order, name)
			return append(append([]byte{}, data...), name...), nil
		}
	}
	data := newPDF("1.4").
		stream(1, "/Filter [/A /B]", []byte("x")).
		bytes("")

	doc := Load(data, WithFilters(core.FilterSet{"A": record("A"), "B": record("B")}))
	s := doc.ResolveReference(ref(1)).(*core.Stream)
	if !doc.FilterStream(s) {
		t.Fatal("FilterStream failed")
	}
	if diff := cmp.Diff([]string{"B", "A"}, order); diff != "" {
		t.Errorf("filter order (-want +got):\n%s", diff)
	}
	if string(s.Data()) != "xBA" {
		t.Errorf("data = %q, want xBA", s.Data())
	}
}

// TestFilterStreamIndirectFilter tests that resolving /Filter leaves the stream dictionary alone
func TestFilterStreamIndirectFilter(t *testing.T) {
	data := newPDF("1.5").
		stream(1, "/Filter 3 0 R", deflate(t, "q Q")).
		stream(2, "/Filter [4 0 R]", deflate(t, "q Q")).
		add(3, "/FlateDecode").
		add(4, "/FlateDecode").
		bytes("")
	doc := Load(data)

	for id, want := range map[int]core.Object{1: ref(3), 2: core.Array{ref(4)}} {
		s := doc.ResolveReference(ref(id)).(*core.Stream)
		if !doc.FilterStream(s) {
			t.Fatalf("FilterStream(%d) failed", id)
		}
		if string(s.Data()) != "q Q" {
			t.Errorf("stream %d data = %q, want q Q", id, s.Data())
		}
		if diff := cmp.Diff(want, s.Dict["Filter"]); diff != "" {
			t.Errorf("stream %d /Filter changed (-want +got):\n%s", id, diff)
		}
	}
}

// TestFilterStreamDanglingFilter tests a /Filter reference to a missing object
func TestFilterStreamDanglingFilter(t *testing.T) {
	payload := []byte("x\x9c\x01garbage")
	tests := []struct {
		name string
		dict string
	}{
		{"filter", "/Filter 99 0 R"},
		{"filter array", "/Filter [/FlateDecode 99 0 R]"},
		{"decode parms", "/Filter /FlateDecode /DecodeParms 99 0 R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Load(newPDF("1.5").stream(1, tt.dict, payload).bytes(""))
			s := doc.ResolveReference(ref(1)).(*core.Stream)

			if doc.FilterStream(s) {
				t.Error("FilterStream should fail")
			}
			if s.IsStreamFiltered() {
				t.Error("stream should stay unfiltered")
			}
			if !bytes.Equal(s.Data(), payload) {
				t.Errorf("data = %q, want the raw payload", s.Data())
			}
			if _, isNull := s.Dict["Filter"].(core.Null); isNull {
				t.Error("/Filter was overwritten with null")
			}
		})
	}
}

// TestInfoAndLanguage tests the metadata accessors
func TestInfoAndLanguage(t *testing.T) {
	doc := Load(twoPagePDF())

	if title, ok := doc.InfoText("Title"); !ok || title != "Hi" {
		t.Errorf("Title = %q, %v; want Hi", title, ok)
	}
	if author, _ := doc.InfoText("Author"); author != "Ann" {
		t.Errorf("Author = %q, want Ann", author)
	}
	if _, ok := doc.InfoText("Subject"); ok {
		t.Error("Subject should be missing")
	}
	if doc.Language().String() != "en-GB" {
		t.Errorf("Language() = %v, want en-GB", doc.Language())
	}

	bare := Load(newPDF("1.4").add(1, "<< /Type /Catalog /Lang (???) >>").bytes("/Root 1 0 R"))
	if _, ok := bare.Info(); ok {
		t.Error("document without /Info should report false")
	}
	if bare.Language() != language.Und {
		t.Errorf("invalid /Lang gave %v", bare.Language())
	}
}

// TestVersion tests header parsing
func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		data string
		want PDFVersion
	}{
		{"standard", "%PDF-1.4\n", PDFVersion{1, 4}},
		{"pdf 2", "%PDF-2.0\r\n", PDFVersion{2, 0}},
		{"leading junk", "junk\n%PDF-1.3\n", PDFVersion{1, 3}},
		{"missing", "hello", PDFVersion{}},
		{"no version", "%PDF-x\n", PDFVersion{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Load([]byte(tt.data)).Version(); got != tt.want {
				t.Errorf("Version() = %v, want %v", got, tt.want)
			}
		})
	}
	if s := (PDFVersion{1, 7}).String(); s != "1.7" {
		t.Errorf("String() = %q", s)
	}
}

// TestCreateValues tests the value constructors and memory accounting
func TestCreateValues(t *testing.T) {
	data := twoPagePDF()
	doc := Load(data)

	if doc.CreateReal(1.5) != core.Real(1.5) {
		t.Error("CreateReal")
	}
	if doc.CreateInteger(-3) != core.Int(-3) {
		t.Error("CreateInteger")
	}
	if doc.CreateString("abc") != core.String("abc") {
		t.Error("CreateString")
	}
	if used := doc.BytesUsed(); used <= int64(len(data)) {
		t.Errorf("BytesUsed() = %d, want more than the file size %d", used, len(data))
	}
}

// TestBytesUsedGrows tests that parsed and created values are accounted
func TestBytesUsedGrows(t *testing.T) {
	doc := Load(twoPagePDF())

	before := doc.BytesUsed()
	if _, ok := doc.Object(6); !ok {
		t.Fatal("Object(6) failed")
	}
	afterParse := doc.BytesUsed()
	if afterParse <= before {
		t.Errorf("BytesUsed() = %d after parsing the info dictionary, want more than %d", afterParse, before)
	}

	for i := 0; i < 1000; i++ {
		doc.CreateInteger(int64(i))
		doc.CreateReal(float64(i))
	}
	doc.CreateString("a string value")
	if got := doc.BytesUsed(); got <= afterParse {
		t.Errorf("BytesUsed() = %d after creating values, want more than %d", got, afterParse)
	}
}

// TestOpen tests reading from disk
func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, twoPagePDF(), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.Pages() != 2 {
		t.Errorf("Pages() = %d, want 2", doc.Pages())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v", err)
	}
}
