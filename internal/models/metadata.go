package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MetaKind enumerates the value kinds allowed in metadata bags.
type MetaKind int

const (
	MetaString MetaKind = iota
	MetaNumber
	MetaBool
	MetaMap
)

// MetaValue is a tagged union of the permitted metadata value kinds. It
// marshals to (and from) plain JSON, so stored documents look like ordinary
// open metadata objects while staying typed in code.
type MetaValue struct {
	Kind MetaKind
	Str  string
	Num  float64
	Bool bool
	Map  Metadata
}

// Metadata is an open key-value bag (user- or application-controlled).
type Metadata map[string]MetaValue

func MetaStr(s string) MetaValue   { return MetaValue{Kind: MetaString, Str: s} }
func MetaNum(n float64) MetaValue  { return MetaValue{Kind: MetaNumber, Num: n} }
func MetaFlag(b bool) MetaValue    { return MetaValue{Kind: MetaBool, Bool: b} }
func MetaNested(m Metadata) MetaValue {
	return MetaValue{Kind: MetaMap, Map: m}
}

func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case MetaString:
		return json.Marshal(v.Str)
	case MetaNumber:
		return json.Marshal(v.Num)
	case MetaBool:
		return json.Marshal(v.Bool)
	case MetaMap:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	}
	return nil, fmt.Errorf("unknown metadata kind %d", v.Kind)
}

func (v *MetaValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty metadata value")
	}
	switch trimmed[0] {
	case '"':
		v.Kind = MetaString
		return json.Unmarshal(data, &v.Str)
	case 't', 'f':
		v.Kind = MetaBool
		return json.Unmarshal(data, &v.Bool)
	case '{':
		v.Kind = MetaMap
		return json.Unmarshal(data, &v.Map)
	case '[', 'n':
		return fmt.Errorf("metadata values must be a string, number, bool or map")
	default:
		v.Kind = MetaNumber
		return json.Unmarshal(data, &v.Num)
	}
}
