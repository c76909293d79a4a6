package core

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeTextString converts a PDF text string to UTF-8. Strings starting
// with a UTF-16 byte order mark are decoded as UTF-16, strings with a UTF-8
// mark have it stripped, and everything else is read as PDFDocEncoding.
func DecodeTextString(obj Object) (string, bool) {
	s, ok := AsString(obj)
	if !ok {
		return "", false
	}
	b := []byte(s)

	switch {
	case len(b) >= 2 && (b[0] == 0xFE && b[1] == 0xFF || b[0] == 0xFF && b[1] == 0xFE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return s, true
		}
		return string(out), true
	case bytes.HasPrefix(b, utf8BOM):
		return string(b[len(utf8BOM):]), true
	}
	return pdfDocDecode(b), true
}

// pdfDocDecode maps PDFDocEncoding bytes to runes. Codes outside
// pdfDocDiffs match ISO 8859-1; undefined codes are kept as their Latin-1
// counterparts.
func pdfDocDecode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r, ok := pdfDocDiffs[c]; ok {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

// pdfDocDiffs lists the PDFDocEncoding codes that differ from ISO 8859-1.
var pdfDocDiffs = map[byte]rune{
	0x18: '˘', // breve
	0x19: 'ˇ', // caron
	0x1A: 'ˆ', // circumflex
	0x1B: '˙', // dotaccent
	0x1C: '˝', // hungarumlaut
	0x1D: '˛', // ogonek
	0x1E: '˚', // ring
	0x1F: '˜', // tilde
	0x80: '•', // bullet
	0x81: '†', // dagger
	0x82: '‡', // daggerdbl
	0x83: '…', // ellipsis
	0x84: '—', // emdash
	0x85: '–', // endash
	0x86: 'ƒ', // florin
	0x87: '⁄', // fraction
	0x88: '‹', // guilsinglleft
	0x89: '›', // guilsinglright
	0x8A: '−', // minus
	0x8B: '‰', // perthousand
	0x8C: '„', // quotedblbase
	0x8D: '“', // quotedblleft
	0x8E: '”', // quotedblright
	0x8F: '‘', // quoteleft
	0x90: '’', // quoteright
	0x91: '‚', // quotesinglbase
	0x92: '™', // trademark
	0x93: 'ﬁ', // fi
	0x94: 'ﬂ', // fl
	0x95: 'Ł', // Lslash
	0x96: 'Œ', // OE
	0x97: 'Š', // Scaron
	0x98: 'Ÿ', // Ydieresis
	0x99: 'Ž', // Zcaron
	0x9A: 'ı', // dotlessi
	0x9B: 'ł', // lslash
	0x9C: 'œ', // oe
	0x9D: 'š', // scaron
	0x9E: 'ž', // zcaron
	0xA0: '€', // Euro
}
