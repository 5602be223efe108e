package pyliteral

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError reports a failure to parse a literal expression, with the
// byte offset of the offending input.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// Parse parses a single literal expression. Leading and trailing
// whitespace is ignored; any other trailing input is an error.
func Parse(input string) (*Value, error) {
	p := &parser{input: input}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("unexpected trailing input")
	}
	return v, nil
}

// parser is a hand-written recursive-descent parser over the input
// bytes. Position is a byte offset into input.
type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: p.pos}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peek returns the next byte without consuming it, or 0 at EOF.
func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// hasKeyword reports whether the keyword appears at the current
// position, not followed by an identifier character.
func (p *parser) hasKeyword(kw string) bool {
	if !strings.HasPrefix(p.input[p.pos:], kw) {
		return false
	}
	rest := p.input[p.pos+len(kw):]
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

func (p *parser) parseExpr() (*Value, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end of input, expected expression")
	}
	switch c := p.input[p.pos]; {
	case c == '\'' || c == '"':
		s, err := p.parseQuoted(false)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case (c == 'b' || c == 'B') && p.pos+1 < len(p.input) &&
		(p.input[p.pos+1] == '\'' || p.input[p.pos+1] == '"'):
		p.pos++
		s, err := p.parseQuoted(true)
		if err != nil {
			return nil, err
		}
		return Bytes([]byte(s)), nil
	case c == 'T' && p.hasKeyword("True"):
		p.pos += len("True")
		return Bool(true), nil
	case c == 'F' && p.hasKeyword("False"):
		p.pos += len("False")
		return Bool(false), nil
	case c == 'N' && p.hasKeyword("None"):
		p.pos += len("None")
		return None(), nil
	case c == '(':
		return p.parseParen()
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseBrace()
	case c == '+' || c == '-' || c == '.' || c >= '0' && c <= '9':
		return p.parseNumberExpr()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

// parseQuoted parses a short or triple-quoted string body, starting at
// the opening quote. When isBytes is true, unicode escapes are not
// recognized and escape values above 0xFF are rejected.
func (p *parser) parseQuoted(isBytes bool) (string, error) {
	quote := p.input[p.pos]
	p.pos++
	long := false
	if strings.HasPrefix(p.input[p.pos:], string(quote)+string(quote)) {
		long = true
		p.pos += 2
	}
	var out strings.Builder
	for {
		if p.pos >= len(p.input) {
			return "", p.errorf("unterminated string literal")
		}
		c := p.input[p.pos]
		switch {
		case c == quote:
			if !long {
				p.pos++
				return out.String(), nil
			}
			if strings.HasPrefix(p.input[p.pos:], strings.Repeat(string(quote), 3)) {
				p.pos += 3
				return out.String(), nil
			}
			out.WriteByte(c)
			p.pos++
		case c == '\n' && !long:
			return "", p.errorf("newline in short string literal")
		case c == '\\':
			p.pos++
			if err := p.writeEscape(&out, isBytes); err != nil {
				return "", err
			}
		default:
			if isBytes && c >= 0x80 {
				return "", p.errorf("non-ASCII byte %#02x in bytes literal", c)
			}
			out.WriteByte(c)
			p.pos++
		}
	}
}

// writeEscape decodes one escape sequence following a consumed
// backslash. Unrecognized escapes pass through with the backslash kept.
func (p *parser) writeEscape(out *strings.Builder, isBytes bool) error {
	if p.pos >= len(p.input) {
		return p.errorf("trailing backslash in string literal")
	}
	c := p.input[p.pos]
	switch c {
	case '\n':
		// Line continuation is dropped.
		p.pos++
		return nil
	case '\r':
		p.pos++
		if p.peek() == '\n' {
			p.pos++
		}
		return nil
	case '\\', '\'', '"':
		out.WriteByte(c)
		p.pos++
		return nil
	case 'a':
		out.WriteByte(0x07)
		p.pos++
		return nil
	case 'b':
		out.WriteByte(0x08)
		p.pos++
		return nil
	case 'f':
		out.WriteByte(0x0C)
		p.pos++
		return nil
	case 'n':
		out.WriteByte('\n')
		p.pos++
		return nil
	case 'r':
		out.WriteByte('\r')
		p.pos++
		return nil
	case 't':
		out.WriteByte('\t')
		p.pos++
		return nil
	case 'v':
		out.WriteByte(0x0B)
		p.pos++
		return nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := 0
		n := 0
		for n < 3 && p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '7' {
			val = val*8 + int(p.input[p.pos]-'0')
			p.pos++
			n++
		}
		return p.writeCodePoint(out, val, isBytes, "octal")
	case 'x':
		p.pos++
		val, err := p.hexDigits(2)
		if err != nil {
			return err
		}
		return p.writeCodePoint(out, val, isBytes, "hex")
	case 'u', 'U':
		if isBytes {
			// Not an escape in bytes literals; the backslash stays.
			out.WriteByte('\\')
			out.WriteByte(c)
			p.pos++
			return nil
		}
		digits := 4
		if c == 'U' {
			digits = 8
		}
		p.pos++
		val, err := p.hexDigits(digits)
		if err != nil {
			return err
		}
		return p.writeCodePoint(out, val, false, "unicode")
	default:
		// Unrecognized escape passes through literally.
		out.WriteByte('\\')
		out.WriteByte(c)
		p.pos++
		return nil
	}
}

func (p *parser) hexDigits(n int) (int, error) {
	if p.pos+n > len(p.input) {
		return 0, p.errorf("truncated escape sequence")
	}
	val, err := strconv.ParseUint(p.input[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorf("malformed escape sequence %q", p.input[p.pos:p.pos+n])
	}
	p.pos += n
	return int(val), nil
}

func (p *parser) writeCodePoint(out *strings.Builder, val int, isBytes bool, kind string) error {
	if isBytes {
		if val > 0xFF {
			return p.errorf("%s escape %#x out of range for bytes", kind, val)
		}
		out.WriteByte(byte(val))
		return nil
	}
	if val > utf8.MaxRune || val >= 0xD800 && val <= 0xDFFF {
		return p.errorf("%s escape %#x is not a valid code point", kind, val)
	}
	out.WriteRune(rune(val))
	return nil
}

// parseNumberExpr folds a chain of sign-prefixed numbers into a single
// numeric value: each term is added to (or, under an odd number of
// minus signs, subtracted from) a running total starting at integer 0.
// This mirrors how literal_eval accepts expressions like 1+2j or -3.
func (p *parser) parseNumberExpr() (*Value, error) {
	result := Integer(0)
	for {
		p.skipSpace()
		neg := false
		for p.peek() == '+' || p.peek() == '-' {
			if p.input[p.pos] == '-' {
				neg = !neg
			}
			p.pos++
			p.skipSpace()
		}
		num, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if neg {
			result, _ = subNumbers(result, num)
		} else {
			result, _ = addNumbers(result, num)
		}
		p.skipSpace()
		if p.peek() != '+' && p.peek() != '-' {
			return result, nil
		}
	}
}

// parseNumber parses one integer, float, or imaginary literal.
func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	if p.pos+1 < len(p.input) && p.input[p.pos] == '0' {
		switch p.input[p.pos+1] {
		case 'x', 'X':
			return p.parseRadixInteger(16, isHexDigit)
		case 'o', 'O':
			return p.parseRadixInteger(8, func(c byte) bool { return c >= '0' && c <= '7' })
		case 'b', 'B':
			return p.parseRadixInteger(2, func(c byte) bool { return c == '0' || c == '1' })
		}
	}

	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c >= '0' && c <= '9' || c == '_':
			p.pos++
		case c == '.':
			if isFloat {
				return nil, p.errorf("malformed number")
			}
			isFloat = true
			p.pos++
		case c == 'e' || c == 'E':
			isFloat = true
			p.pos++
			if p.peek() == '+' || p.peek() == '-' {
				p.pos++
			}
			for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '_') {
				p.pos++
			}
			return p.finishNumber(start, true)
		default:
			return p.finishNumber(start, isFloat)
		}
	}
	return p.finishNumber(start, isFloat)
}

func (p *parser) finishNumber(start int, isFloat bool) (*Value, error) {
	text := p.input[start:p.pos]
	if text == "" || text == "." {
		return nil, p.errorf("expected number")
	}
	imag := false
	if p.peek() == 'j' || p.peek() == 'J' {
		imag = true
		p.pos++
	}
	text = strings.ReplaceAll(text, "_", "")
	if isFloat || imag {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf("malformed number %q", text)
		}
		if imag {
			return Complex(0, f), nil
		}
		return Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer %q out of range or malformed", text)
	}
	return Integer(n), nil
}

func (p *parser) parseRadixInteger(base int, valid func(byte) bool) (*Value, error) {
	p.pos += 2 // radix prefix
	start := p.pos
	for p.pos < len(p.input) && (valid(p.input[p.pos]) || p.input[p.pos] == '_') {
		p.pos++
	}
	digits := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	if digits == "" {
		return nil, p.errorf("missing digits after radix prefix")
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return nil, p.errorf("integer %q out of range or malformed", digits)
	}
	return Integer(n), nil
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// parseParen parses (), a parenthesized expression, or a tuple. A
// single element without a trailing comma is the inner expression, not
// a one-element tuple.
func (p *parser) parseParen() (*Value, error) {
	p.pos++ // '('
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return Tuple(), nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	switch p.peek() {
	case ')':
		p.pos++
		return first, nil
	case ',':
		items := []*Value{first}
		for p.peek() == ',' {
			p.pos++
			p.skipSpace()
			if p.peek() == ')' {
				break
			}
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			p.skipSpace()
		}
		if p.peek() != ')' {
			return nil, p.errorf("expected ',' or ')' in tuple")
		}
		p.pos++
		return Tuple(items...), nil
	default:
		return nil, p.errorf("expected ',' or ')' in tuple")
	}
}

func (p *parser) parseList() (*Value, error) {
	p.pos++ // '['
	var items []*Value
	p.skipSpace()
	for p.peek() != ']' {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		} else if p.peek() != ']' {
			return nil, p.errorf("expected ',' or ']' in list")
		}
	}
	p.pos++
	return List(items...), nil
}

// parseBrace parses a dict or a set. {} is always the empty dict; there
// is no literal form for an empty set.
func (p *parser) parseBrace() (*Value, error) {
	p.pos++ // '{'
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return Dict(), nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ':' {
		p.pos++
		return p.parseDictRest(first)
	}
	items := []*Value{first}
	for p.peek() == ',' {
		p.pos++
		p.skipSpace()
		if p.peek() == '}' {
			break
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
	}
	if p.peek() != '}' {
		return nil, p.errorf("expected ',' or '}' in set")
	}
	p.pos++
	return Set(items...), nil
}

// parseDictRest parses the remainder of a dict after the first key and
// its ':' have been consumed.
func (p *parser) parseDictRest(firstKey *Value) (*Value, error) {
	firstVal, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	pairs := []DictItem{{Key: firstKey, Value: firstVal}}
	p.skipSpace()
	for p.peek() == ',' {
		p.pos++
		p.skipSpace()
		if p.peek() == '}' {
			break
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after dict key")
		}
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, DictItem{Key: key, Value: value})
		p.skipSpace()
	}
	if p.peek() != '}' {
		return nil, p.errorf("expected ',' or '}' in dict")
	}
	p.pos++
	return Dict(pairs...), nil
}
