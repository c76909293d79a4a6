// Package reader loads PDF documents and resolves their objects.
//
// # Loading
//
// [Load] indexes an in-memory file and [Open] reads one from disk:
//
//	doc, err := reader.Open("document.pdf", reader.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Pages(), doc.Version())
//
// Loading never fails on malformed content. Missing cross-reference data,
// a broken catalog or an unusable page tree are logged and leave a
// [Document] with fewer objects or zero pages.
//
// # Objects
//
// Objects are parsed when first requested and cached afterwards:
//
//   - Object(id) - the parsed object, or false
//   - Fetch(id) - the same with the reason for a failure
//   - ResolveReference(obj) - follow references to their target
//
// Reference cycles and chains longer than MaxResolveDepth resolve to
// core.Null.
//
// # Pages
//
// Pages are flattened at load time. MediaBox and PageResources follow the
// page tree's inheritance rules, and TokenizerOfPage returns a
// [core.Tokenizer] over the decoded content streams.
//
// # Options
//
// Limits and the logger are set with functional options or read from a
// YAML file with [LoadOptionsFile]:
//
//	max_resolve_depth: 32
//	max_page_depth: 64
//	max_xref_sections: 512
//	log_level: debug
package reader
