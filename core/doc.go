// Package core provides low-level PDF parsing primitives and object types.
//
// # Object Types
//
// Every parsed value satisfies the [Object] interface:
//
//   - [Null], [Bool], [Int] and [Real]
//   - [String] and [HexString], both holding raw string bytes
//   - [Name] and [Keyword]
//   - [Array] and [Dict]
//   - [IndirectRef], a reference to an indirect object
//
// A [Stream] is a dictionary with an attached payload. The payload starts out
// as the bytes found in the file; [Stream.FilterStream] replaces it with the
// output of its filter chain. Only FlateDecode is implemented.
//
// # Parsing
//
// The [Lexer] splits an in-memory buffer into tokens. The [Parser] builds
// values from them, absorbing stream payloads that follow a dictionary.
// The [Tokenizer] wraps a Parser and yields keywords, values and inline
// image data with one item of pushback; it is used for object bodies and
// content streams alike.
//
// # Cross-Reference Tables
//
// [ReadXRefChain] finds the last startxref offset and follows the chain of
// xref sections and trailers, recording object offsets in an [XRefTable].
// Sections are read newest first, so the newest offset for an object wins.
//
// # Memory
//
// Values parsed for one document are accounted in an [Arena], which also
// owns decoded stream buffers.
package core
