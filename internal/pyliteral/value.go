// Package pyliteral parses and formats the subset of Python literal
// expressions accepted by ast.literal_eval: strings, bytes, numbers
// (including complex), tuples, lists, dicts, sets, booleans, and None.
// Binary addition and subtraction of numbers is folded during parsing,
// matching literal_eval; the formatter cannot emit those operators.
//
// This grammar is what the .npy header dictionary is written in.
package pyliteral

import "math"

// Type identifies the variant held by a Value.
type Type uint8

// Value variants.
const (
	TypeNone Type = iota
	TypeBool
	TypeInteger
	TypeFloat
	TypeComplex
	TypeString
	TypeBytes
	TypeTuple
	TypeList
	TypeDict
	TypeSet
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeComplex:
		return "complex"
	case TypeString:
		return "str"
	case TypeBytes:
		return "bytes"
	case TypeTuple:
		return "tuple"
	case TypeList:
		return "list"
	case TypeDict:
		return "dict"
	case TypeSet:
		return "set"
	default:
		return "unknown"
	}
}

// Value is a node in a parsed literal expression tree. Values are
// constructed by the parser or the exported constructors and are not
// mutated afterwards; container values own their children.
type Value struct {
	typ Type

	boolVal  bool
	intVal   int64
	realVal  float64 // float value, or real part of a complex
	imagVal  float64
	strVal   string
	bytesVal []byte

	items []*Value   // tuple, list, set
	pairs []DictItem // dict, in source order, keys not required unique
}

// DictItem is one key/value entry of a dict literal.
type DictItem struct {
	Key   *Value
	Value *Value
}

// None is the Python None literal.
func None() *Value {
	return &Value{typ: TypeNone}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Integer creates a 64-bit signed integer value.
func Integer(v int64) *Value {
	return &Value{typ: TypeInteger, intVal: v}
}

// Float creates a floating-point value.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, realVal: v}
}

// Complex creates a complex value from its real and imaginary parts.
func Complex(real, imag float64) *Value {
	return &Value{typ: TypeComplex, realVal: real, imagVal: imag}
}

// String creates a string value.
func String(v string) *Value {
	return &Value{typ: TypeString, strVal: v}
}

// Bytes creates a bytes value.
func Bytes(v []byte) *Value {
	return &Value{typ: TypeBytes, bytesVal: v}
}

// Tuple creates a tuple from the given elements.
func Tuple(items ...*Value) *Value {
	return &Value{typ: TypeTuple, items: items}
}

// List creates a list from the given elements.
func List(items ...*Value) *Value {
	return &Value{typ: TypeList, items: items}
}

// Set creates a set from the given elements. Order is preserved and
// elements are not deduplicated.
func Set(items ...*Value) *Value {
	return &Value{typ: TypeSet, items: items}
}

// Dict creates a dict from the given entries. Order is preserved and
// keys are not required to be unique.
func Dict(pairs ...DictItem) *Value {
	return &Value{typ: TypeDict, pairs: pairs}
}

// Type returns the variant of the value.
func (v *Value) Type() Type {
	return v.typ
}

// Str returns the string payload. The second result is false if the
// value is not a string.
func (v *Value) Str() (string, bool) {
	return v.strVal, v.typ == TypeString
}

// BytesVal returns the bytes payload. The second result is false if the
// value is not a bytes literal.
func (v *Value) BytesVal() ([]byte, bool) {
	return v.bytesVal, v.typ == TypeBytes
}

// Int64 returns the integer payload. The second result is false if the
// value is not an integer.
func (v *Value) Int64() (int64, bool) {
	return v.intVal, v.typ == TypeInteger
}

// Float64 returns the float payload. The second result is false if the
// value is not a float.
func (v *Value) Float64() (float64, bool) {
	return v.realVal, v.typ == TypeFloat
}

// Complex128 returns the complex payload. The second result is false if
// the value is not complex.
func (v *Value) Complex128() (complex128, bool) {
	return complex(v.realVal, v.imagVal), v.typ == TypeComplex
}

// BoolVal returns the boolean payload. The second result is false if
// the value is not a boolean.
func (v *Value) BoolVal() (bool, bool) {
	return v.boolVal, v.typ == TypeBool
}

// Items returns the elements of a tuple, list, or set, or nil for other
// variants. The returned slice must not be modified.
func (v *Value) Items() []*Value {
	return v.items
}

// Pairs returns the entries of a dict, or nil for other variants. The
// returned slice must not be modified.
func (v *Value) Pairs() []DictItem {
	return v.pairs
}

// Equal reports structural equality. Floats compare bitwise-exact
// except that NaN equals NaN, so round-trip comparisons behave sanely.
func (v *Value) Equal(other *Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNone:
		return true
	case TypeBool:
		return v.boolVal == other.boolVal
	case TypeInteger:
		return v.intVal == other.intVal
	case TypeFloat:
		return floatEq(v.realVal, other.realVal)
	case TypeComplex:
		return floatEq(v.realVal, other.realVal) && floatEq(v.imagVal, other.imagVal)
	case TypeString:
		return v.strVal == other.strVal
	case TypeBytes:
		if len(v.bytesVal) != len(other.bytesVal) {
			return false
		}
		for i := range v.bytesVal {
			if v.bytesVal[i] != other.bytesVal[i] {
				return false
			}
		}
		return true
	case TypeTuple, TypeList, TypeSet:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case TypeDict:
		if len(v.pairs) != len(other.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(other.pairs[i].Key) ||
				!v.pairs[i].Value.Equal(other.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func floatEq(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// isNumber reports whether the value is an integer, float, or complex.
func (v *Value) isNumber() bool {
	switch v.typ {
	case TypeInteger, TypeFloat, TypeComplex:
		return true
	default:
		return false
	}
}

// addNumbers adds two numeric values, promoting int to float to complex
// as needed. The second result is false if either operand is not a
// number.
func addNumbers(lhs, rhs *Value) (*Value, bool) {
	if !lhs.isNumber() || !rhs.isNumber() {
		return nil, false
	}
	switch {
	case lhs.typ == TypeComplex || rhs.typ == TypeComplex:
		lr, li := lhs.asComplexParts()
		rr, ri := rhs.asComplexParts()
		return Complex(lr+rr, li+ri), true
	case lhs.typ == TypeFloat || rhs.typ == TypeFloat:
		return Float(lhs.asFloat() + rhs.asFloat()), true
	default:
		return Integer(lhs.intVal + rhs.intVal), true
	}
}

// subNumbers subtracts rhs from lhs with the same promotion rules as
// addNumbers. Subtracting a complex value negates both of its parts.
func subNumbers(lhs, rhs *Value) (*Value, bool) {
	if !lhs.isNumber() || !rhs.isNumber() {
		return nil, false
	}
	switch {
	case lhs.typ == TypeComplex || rhs.typ == TypeComplex:
		lr, li := lhs.asComplexParts()
		rr, ri := rhs.asComplexParts()
		return Complex(lr-rr, li-ri), true
	case lhs.typ == TypeFloat || rhs.typ == TypeFloat:
		return Float(lhs.asFloat() - rhs.asFloat()), true
	default:
		return Integer(lhs.intVal - rhs.intVal), true
	}
}

func (v *Value) asFloat() float64 {
	if v.typ == TypeInteger {
		return float64(v.intVal)
	}
	return v.realVal
}

func (v *Value) asComplexParts() (real, imag float64) {
	switch v.typ {
	case TypeInteger:
		return float64(v.intVal), 0
	case TypeFloat:
		return v.realVal, 0
	default:
		return v.realVal, v.imagVal
	}
}
