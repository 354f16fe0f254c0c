package genera

import (
	"fmt"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTextList:
		return "sequence-of-text"
	case KindNumberList:
		return "sequence-of-number"
	case KindInstance:
		return "instance"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.data.(float64), 'g', -1, 64)
	case KindText:
		return v.data.(string)
	case KindTextList:
		return "[" + strings.Join(v.data.([]string), ", ") + "]"
	case KindNumberList:
		items := v.data.([]float64)
		parts := make([]string, len(items))
		for i, n := range items {
			parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindInstance:
		return fmt.Sprintf("<%s instance>", v.data.(*Instance).Class.Name)
	case KindRef:
		return fmt.Sprintf("<%s ref>", v.data.(*RefObject).Class.Name)
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

func (v Value) Equal(other Value) bool {
	return v.equal(other, nil)
}

func (v Value) equal(other Value, seen map[instancePair]bool) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.data.(float64) == other.data.(float64)
	case KindText:
		return v.data.(string) == other.data.(string)
	case KindTextList:
		a, b := v.data.([]string), other.data.([]string)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case KindNumberList:
		a, b := v.data.([]float64), other.data.([]float64)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case KindInstance:
		a, b := v.data.(*Instance), other.data.(*Instance)
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		return a.equal(b, seen)
	case KindRef:
		return v.data.(*RefObject).Same(other.data.(*RefObject))
	default:
		return v.data == other.data
	}
}

// copied returns a value that shares no mutable backing storage with v.
// Instances and refs keep their identity; list payloads are cloned.
func (v Value) copied() Value {
	switch v.kind {
	case KindTextList:
		items := v.data.([]string)
		return NewTextList(append([]string(nil), items...))
	case KindNumberList:
		items := v.data.([]float64)
		return NewNumberList(append([]float64(nil), items...))
	default:
		return v
	}
}
