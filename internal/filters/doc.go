// Package filters implements the stream decoders used by the core package.
//
// Only FlateDecode (zlib/deflate) is provided:
//
//	decoded, err := filters.FlateDecode(data, params)
//
// FlateDecode honours the Predictor entry of the decode parameters:
//   - 1: No prediction (default)
//   - 2: TIFF Predictor 2
//   - 10-15: PNG predictors (None, Sub, Up, Average, Paeth)
//
// Parameters are passed as plain Go values:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	    "Colors":    3,
//	}
package filters
