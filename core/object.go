package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a parsed PDF value
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the variant of a PDF value
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjHexString
	ObjName
	ObjKeyword
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

// String returns the string representation of the object type
func (t ObjectType) String() string {
	switch t {
	case ObjNull:
		return "Null"
	case ObjBool:
		return "Bool"
	case ObjInt:
		return "Int"
	case ObjReal:
		return "Real"
	case ObjString:
		return "String"
	case ObjHexString:
		return "HexString"
	case ObjName:
		return "Name"
	case ObjKeyword:
		return "Keyword"
	case ObjArray:
		return "Array"
	case ObjDict:
		return "Dict"
	case ObjStream:
		return "Stream"
	case ObjIndirect:
		return "IndirectRef"
	default:
		return "Unknown"
	}
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a literal PDF string. The value holds the raw bytes after
// escape processing.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// HexString represents a PDF string written in hexadecimal form. The value
// holds the decoded bytes.
type HexString string

func (s HexString) Type() ObjectType { return ObjHexString }
func (s HexString) String() string   { return string(s) }

// Name represents a PDF name
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Keyword represents a bare keyword that appears as a value, for example an
// operator kept as an operand by a lenient producer.
type Keyword string

func (k Keyword) Type() ObjectType { return ObjKeyword }
func (k Keyword) String() string   { return string(k) }

// AsString returns the bytes of a literal or hexadecimal string.
func AsString(obj Object) (string, bool) {
	switch v := obj.(type) {
	case String:
		return string(v), true
	case HexString:
		return string(v), true
	}
	return "", false
}

// AsNumber returns the value of an Int or Real as a float64.
func AsNumber(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	var parts []string
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := a.Get(index).(Int)
	return i, ok
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// Dict represents a PDF dictionary. Keys are names without the leading
// slash. When a key repeats in the source the last value wins.
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	keys := d.Keys()
	sort.Strings(keys)
	var parts []string
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("/%s %s", key, d[key].String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d[key].(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d[key].(Array)
	return arr, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Keys returns all keys in the dictionary
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}

// StreamState records whether a stream payload still holds the bytes found
// in the file or the output of its filter chain.
type StreamState int

const (
	StreamUnfiltered StreamState = iota
	StreamFiltered
)

// Stream is a dictionary with an attached payload. Only dictionaries carry
// streams, so the dictionary is embedded as the stream's value.
type Stream struct {
	Dict    Dict
	data    []byte
	state   StreamState
	applied int // filters applied so far
}

// NewStream attaches an unfiltered payload to dict.
func NewStream(dict Dict, data []byte) *Stream {
	return &Stream{Dict: dict, data: data}
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.data))
}

// Data returns the current payload: the raw bytes before FilterStream
// succeeds, the decoded bytes after.
func (s *Stream) Data() []byte {
	return s.data
}

// IsStreamFiltered reports whether the payload has been run through its
// filter chain.
func (s *Stream) IsStreamFiltered() bool {
	return s.state == StreamFiltered
}

// WithDict returns a stream that carries dict and shares the payload and
// filter state of s.
func (s *Stream) WithDict(dict Dict) *Stream {
	c := *s
	c.Dict = dict
	return &c
}

// IndirectRef represents an indirect object reference
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}
