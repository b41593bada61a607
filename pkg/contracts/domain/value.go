package domain

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies which field of a Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "null"
	}
}

// Value is a single table cell: a string, an integer, a float or null.
// The zero Value is null.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int wraps i.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float wraps f.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsBlank reports whether v is null or a whitespace-only string.
func (v Value) IsBlank() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	}
	return false
}

// Number returns the numeric content of v. Strings are not parsed; the
// normalizer is responsible for turning text into numbers.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// Text renders v as display text. Null renders as "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	return ""
}

// KeyText is the form used for group-key equality: NFC normalized and
// trimmed.
func (v Value) KeyText() string {
	return norm.NFC.String(strings.TrimSpace(v.Text()))
}

// Interface returns v as a plain Go value for spreadsheet writers.
// Null becomes nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	}
	return nil
}

// Equal reports whether a and b are the same key value.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

// Compare orders two values for grouping. Blank values (null or
// whitespace) sort first and equal each other, numbers come next in
// numeric order, and remaining text sorts by KeyText. Ranking by kind
// keeps the order total when a column mixes numbers and text.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankBlank:
		return 0
	case rankNumber:
		x, _ := a.Number()
		y, _ := b.Number()
		return compareFloat(x, y)
	}
	return strings.Compare(a.KeyText(), b.KeyText())
}

const (
	rankBlank = iota
	rankNumber
	rankText
)

func rank(v Value) int {
	if _, ok := v.Number(); ok {
		return rankNumber
	}
	if v.KeyText() == "" {
		return rankBlank
	}
	return rankText
}

func compareFloat(x, y float64) int {
	switch {
	case math.IsNaN(x) && math.IsNaN(y):
		return 0
	case math.IsNaN(x):
		return -1
	case math.IsNaN(y):
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
