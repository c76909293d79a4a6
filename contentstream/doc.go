// Package contentstream groups the items of a page content stream into
// operations.
//
// PDF content streams consist of operands followed by an operator:
//
//	tz := doc.TokenizerOfPage(0)
//	for _, op := range contentstream.Parse(tz) {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//
// Tokens come from a [core.Tokenizer], so the operand syntax (numbers,
// strings, names, arrays and dictionaries) is the same as in object bodies.
// Interpreting the operators is left to the caller.
//
// # Inline Images
//
// The BI ... ID data EI sequence is returned as a single operation with
// Operator "BI", the image dictionary as its only operand and the raw
// bytes in ImageData.
package contentstream
