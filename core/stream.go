package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/pdfnative/internal/filters"
)

// ErrUnsupportedFilter is reported for filter names without a decoder. The
// stream keeps its bytes so that a specialised decoder (for example an
// image codec) can pick them up.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// FilterFunc decodes data for one filter. params is the matching entry of
// /DecodeParms, or nil.
type FilterFunc func(data []byte, params Dict) ([]byte, error)

// FilterSet maps filter names to decoders.
type FilterSet map[string]FilterFunc

// DefaultFilters holds the decoders used by FilterStream. Only Flate is
// implemented.
var DefaultFilters = FilterSet{
	"FlateDecode": flateDecode,
	"Fl":          flateDecode,
}

func flateDecode(data []byte, params Dict) ([]byte, error) {
	return filters.FlateDecode(data, dictToParams(params))
}

// FilterStream runs the payload through its /Filter chain using
// DefaultFilters. See FilterStreamWith.
func (s *Stream) FilterStream(a *Arena, logger *slog.Logger) bool {
	return s.FilterStreamWith(DefaultFilters, a, logger)
}

// FilterStreamWith decodes the payload in place. A single filter name is
// applied directly; a filter array is applied from its last element to its
// first. Decoding stops at the first filter that fails, leaving the output
// of the last successful step as the payload. Decoded buffers are allocated
// in a.
//
// It returns true once every filter has been applied; calling it again
// after that is a no-op. A failure is reported to logger and never
// propagates further.
func (s *Stream) FilterStreamWith(set FilterSet, a *Arena, logger *slog.Logger) bool {
	return s.FilterStreamUsing(set, s.Dict.Get("Filter"), s.Dict.Get("DecodeParms"), a, logger)
}

// FilterStreamUsing is FilterStreamWith with the /Filter and /DecodeParms
// values given by the caller, typically after indirect references in them
// were resolved. The stream dictionary is not modified. A filter value that
// is still a reference is an error.
func (s *Stream) FilterStreamUsing(set FilterSet, filter, params Object, a *Arena, logger *slog.Logger) bool {
	if s.state == StreamFiltered {
		return true
	}
	logger = orDiscard(logger)

	names, decodeParams, err := filterChain(filter, params)
	if err != nil {
		logger.Warn("invalid stream filter", "err", err)
		return false
	}

	// names is in application order; s.applied counts completed steps so a
	// repeated call resumes rather than decoding twice.
	for s.applied < len(names) {
		name := names[s.applied]
		decode, ok := set[name]
		if !ok {
			logger.Debug("stream filter not applied", "filter", name, "err", ErrUnsupportedFilter)
			return false
		}
		out, err := decode(s.data, decodeParams[s.applied])
		if err != nil {
			logger.Warn("stream filter failed", "filter", name, "err", err)
			return false
		}
		s.data = a.Copy(out)
		s.applied++
	}

	s.state = StreamFiltered
	return true
}

// FilterNames returns the filters named by the stream dictionary in the
// order they are applied.
func (s *Stream) FilterNames() []string {
	names, _, _ := filterChain(s.Dict.Get("Filter"), s.Dict.Get("DecodeParms"))
	return names
}

// filterChain returns the filter names and their decode parameters in
// application order.
func filterChain(filterObj, paramsObj Object) ([]string, []Dict, error) {
	switch f := filterObj.(type) {
	case nil, Null:
		return nil, nil, nil

	case Name:
		return []string{string(f)}, []Dict{paramsObjToDict(paramsObj)}, nil

	case Array:
		names := make([]string, 0, len(f))
		params := make([]Dict, 0, len(f))
		for i := len(f) - 1; i >= 0; i-- {
			name, ok := f[i].(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %T", i, f[i])
			}
			names = append(names, string(name))

			var p Dict
			if paramsArray, ok := paramsObj.(Array); ok {
				p = paramsObjToDict(paramsArray.Get(i))
			} else {
				p = paramsObjToDict(paramsObj)
			}
			params = append(params, p)
		}
		return names, params, nil
	}

	return nil, nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

// paramsObjToDict converts a DecodeParms object to a Dict.
// Returns nil if the object is nil, Null, or not a Dict.
func paramsObjToDict(obj Object) Dict {
	dict, _ := obj.(Dict)
	return dict
}

// dictToParams converts a Dict to filters.Params, translating PDF object
// types to Go primitive types (Int->int, Real->float64, Bool->bool, etc.).
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params)
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
