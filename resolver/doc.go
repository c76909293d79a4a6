// Package resolver expands indirect references inside PDF objects.
//
// A reader.Document resolves one reference at a time. This package walks
// dictionaries, arrays and stream dictionaries and returns a copy in which
// every nested reference is replaced by its target:
//
//	r := resolver.NewResolver(doc)
//	expanded, err := r.ResolveDeep(obj)
//
// # Cycle Detection
//
// A reference that is reached again while it is still being expanded is a
// cycle and fails with [ErrCycle]. Page objects always form cycles through
// /Parent; [WithKeepCycles] leaves such references in place instead. The
// nesting depth is bounded by [WithMaxDepth].
package resolver
