package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Params represents decode parameters from PDF stream dictionaries.
// Common parameters include Predictor, Columns, Colors, and BitsPerComponent.
type Params map[string]interface{}

// FlateDecode decompresses zlib/deflate data and undoes the predictor named
// in params, if any. A truncated zlib stream yields whatever was inflated
// before the data ran out.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	decompressed, err := inflate(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	predictor := getIntParam(params, "Predictor", 1)
	if predictor == 1 {
		return decompressed, nil
	}

	out, err := unpredict(decompressed, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, zr)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && buf.Len() > 0 {
			return buf.Bytes(), nil
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// unpredict reverses predictor 2 (TIFF) or 10-15 (PNG).
func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)
	if bpc != 8 {
		return nil, fmt.Errorf("only 8 bits per component are supported, got %d", bpc)
	}
	if columns < 1 || colors < 1 {
		return nil, fmt.Errorf("invalid row geometry: %d columns, %d colors", columns, colors)
	}

	switch {
	case predictor == 2:
		return undoTIFF(data, columns*colors, colors)
	case predictor >= 10 && predictor <= 15:
		return undoPNG(data, columns*colors, colors)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// undoTIFF reverses TIFF Predictor 2: each sample is stored as the
// difference to the sample one pixel to the left.
func undoTIFF(data []byte, rowSize, bpp int) ([]byte, error) {
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(out); row += rowSize {
		line := out[row : row+rowSize]
		for i := bpp; i < rowSize; i++ {
			line[i] += line[i-bpp]
		}
	}
	return out, nil
}

// undoPNG reverses PNG prediction. Every row is prefixed with a tag byte
// selecting the algorithm for that row; the tags are dropped from the output.
func undoPNG(data []byte, rowSize, bpp int) ([]byte, error) {
	stride := rowSize + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*rowSize)
	prev := make([]byte, rowSize)

	for r := 0; r < rows; r++ {
		tag := data[r*stride]
		in := data[r*stride+1 : (r+1)*stride]
		cur := out[r*rowSize : (r+1)*rowSize]

		for i := range in {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			switch tag {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG predictor %d in row %d", tag, r)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth implements the PNG Paeth predictor.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

// getIntParam extracts an integer parameter from Params, returning defaultValue
// if the parameter is missing or cannot be converted to an integer.
func getIntParam(params Params, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
