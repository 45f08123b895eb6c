package ast

import "math"

// TypeKind enumerates the shapes a Type node can take.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeBool
	TypeStr
	TypeArray
	TypeTuple
	TypeMap
	TypeEnum
	TypeStruct
)

var scalarNames = map[TypeKind]string{
	TypeU8:   "u8",
	TypeU16:  "u16",
	TypeU32:  "u32",
	TypeU64:  "u64",
	TypeI8:   "i8",
	TypeI16:  "i16",
	TypeI32:  "i32",
	TypeI64:  "i64",
	TypeF32:  "f32",
	TypeF64:  "f64",
	TypeBool: "bool",
	TypeStr:  "str",
}

var scalarKinds = func() map[string]TypeKind {
	m := make(map[string]TypeKind, len(scalarNames))
	for k, name := range scalarNames {
		m[name] = k
	}
	return m
}()

// ScalarKind maps a scalar keyword such as "u32" to its kind.
func ScalarKind(name string) (TypeKind, bool) {
	k, ok := scalarKinds[name]
	return k, ok
}

// String returns the schema spelling for scalars and a descriptive name
// for composite kinds.
func (k TypeKind) String() string {
	if name, ok := scalarNames[k]; ok {
		return name
	}
	switch k {
	case TypeArray:
		return "array"
	case TypeTuple:
		return "tuple"
	case TypeMap:
		return "map"
	case TypeEnum:
		return "enum"
	case TypeStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// IsScalar reports whether k is one of the built-in scalar kinds.
func (k TypeKind) IsScalar() bool {
	_, ok := scalarNames[k]
	return ok
}

// IsInteger reports whether k can back an enum.
func (k TypeKind) IsInteger() bool {
	return k >= TypeU8 && k <= TypeI64
}

// IntRange returns the inclusive bounds of an integer kind. Values are
// stored as int64, so u64 is bounded by math.MaxInt64.
func (k TypeKind) IntRange() (min, max int64) {
	switch k {
	case TypeU8:
		return 0, math.MaxUint8
	case TypeU16:
		return 0, math.MaxUint16
	case TypeU32:
		return 0, math.MaxUint32
	case TypeU64:
		return 0, math.MaxInt64
	case TypeI8:
		return math.MinInt8, math.MaxInt8
	case TypeI16:
		return math.MinInt16, math.MaxInt16
	case TypeI32:
		return math.MinInt32, math.MaxInt32
	case TypeI64:
		return math.MinInt64, math.MaxInt64
	default:
		return 0, 0
	}
}
