// Package pages flattens the PDF page tree and gives access to the
// inheritable attributes of each page.
//
// # Page Tree
//
// [FillPages] walks the tree below the catalog's /Pages entry depth-first
// and returns the leaves in document order:
//
//	list := pages.FillPages(catalog.Get("Pages"), doc)
//	box, ok := list[0].MediaBox()
//
// Every node reached through an object number is visited once, so a tree
// whose /Kids point back at an ancestor still terminates.
//
// # Inheritance
//
// MediaBox, CropBox, Resources and Rotate may be defined on any ancestor of
// a page. [Page.Inherited] follows /Parent links until a node defines the
// attribute. Missing attributes yield defaults rather than errors.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup so that the walker
// does not depend on the reader package.
package pages
