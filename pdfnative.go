// Package pdfnative reads PDF files into an in-memory object model.
//
// Basic usage:
//
//	doc, err := pdfnative.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	for i := 0; i < doc.Pages(); i++ {
//	    fmt.Println(doc.MediaBox(i))
//	}
//
// Objects are parsed lazily and cached by the returned document. Malformed
// files load with whatever could be recovered; problems are reported to
// the logger set with reader.WithLogger.
//
// For lower-level access see the core, reader, pages and contentstream
// packages.
package pdfnative

import (
	"github.com/tsawler/pdfnative/contentstream"
	"github.com/tsawler/pdfnative/reader"
)

// Open reads and loads the PDF file at path.
func Open(path string, opts ...reader.Option) (*reader.Document, error) {
	return reader.Open(path, opts...)
}

// Load loads a PDF file held in memory. It never fails; see reader.Load.
func Load(data []byte, opts ...reader.Option) *reader.Document {
	return reader.Load(data, opts...)
}

// Operations returns the content stream operations of page i, counting
// from zero. A missing page has no operations.
func Operations(doc *reader.Document, i int) []contentstream.Operation {
	p := contentstream.NewParser(doc.TokenizerOfPage(i))
	return p.Parse()
}
