package pyliteral

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptySet is returned when formatting an empty set: Python has no
// literal form for it ({} is the empty dict).
var ErrEmptySet = errors.New("cannot format empty set: no literal form exists")

// Format renders the value as an ASCII-only literal that Parse accepts
// back. Floats and complex parts use scientific notation so they are
// unambiguously non-integers; non-ASCII code points are escaped with
// the narrowest of \xHH, \uHHHH, or \UHHHHHHHH.
func Format(v *Value) (string, error) {
	var b strings.Builder
	if err := formatTo(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatTo(b *strings.Builder, v *Value) error {
	switch v.typ {
	case TypeNone:
		b.WriteString("None")
	case TypeBool:
		if v.boolVal {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case TypeInteger:
		b.WriteString(strconv.FormatInt(v.intVal, 10))
	case TypeFloat:
		b.WriteString(strconv.FormatFloat(v.realVal, 'e', -1, 64))
	case TypeComplex:
		b.WriteString(strconv.FormatFloat(v.realVal, 'e', -1, 64))
		if v.imagVal >= 0 && !strings.HasPrefix(strconv.FormatFloat(v.imagVal, 'e', -1, 64), "-") {
			b.WriteByte('+')
		}
		b.WriteString(strconv.FormatFloat(v.imagVal, 'e', -1, 64))
		b.WriteByte('j')
	case TypeString:
		formatString(b, v.strVal)
	case TypeBytes:
		formatBytes(b, v.bytesVal)
	case TypeTuple:
		b.WriteByte('(')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatTo(b, item); err != nil {
				return err
			}
		}
		if len(v.items) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case TypeList:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatTo(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case TypeSet:
		if len(v.items) == 0 {
			return ErrEmptySet
		}
		b.WriteByte('{')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatTo(b, item); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case TypeDict:
		b.WriteByte('{')
		for i, pair := range v.pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := formatTo(b, pair.Key); err != nil {
				return err
			}
			b.WriteString(": ")
			if err := formatTo(b, pair.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("cannot format value of unknown type %d", v.typ)
	}
	return nil
}

func formatString(b *strings.Builder, s string) {
	b.WriteByte('\'')
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\'':
			b.WriteString(`\'`)
		case r < 0x80:
			b.WriteByte(byte(r))
		case r <= 0xFF:
			fmt.Fprintf(b, `\x%02x`, r)
		case r <= 0xFFFF:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\U%08x`, r)
		}
	}
	b.WriteByte('\'')
}

func formatBytes(b *strings.Builder, data []byte) {
	b.WriteString("b'")
	for _, c := range data {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\'':
			b.WriteString(`\'`)
		case c < 0x80:
			b.WriteByte(c)
		default:
			fmt.Fprintf(b, `\x%02x`, c)
		}
	}
	b.WriteByte('\'')
}
