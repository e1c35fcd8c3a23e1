package thanosql

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// literal is a value classified into one of the shapes the engine can
// render as a SQL literal. The set of implementations is closed so that
// render is an exhaustive switch.
type literal interface {
	appendTo(b *strings.Builder)
}

type (
	nullLiteral   struct{}
	boolLiteral   bool
	intLiteral    int64
	uintLiteral   uint64
	stringLiteral string
	jsonLiteral   string // compact JSON text, embedded as a string literal
	arrayLiteral  []literal
	rawLiteral    string // leaf with no explicit rule, degraded to its default string form
)

type floatLiteral struct {
	value float64
	bits  int
}

func (nullLiteral) appendTo(b *strings.Builder) {
	b.WriteString("NULL")
}

func (l boolLiteral) appendTo(b *strings.Builder) {
	b.WriteString(strconv.FormatBool(bool(l)))
}

func (l intLiteral) appendTo(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(l), 10))
}

func (l uintLiteral) appendTo(b *strings.Builder) {
	b.WriteString(strconv.FormatUint(uint64(l), 10))
}

func (l floatLiteral) appendTo(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(l.value, 'g', -1, l.bits))
}

func (l stringLiteral) appendTo(b *strings.Builder) {
	appendQuoted(b, string(l))
}

func (l jsonLiteral) appendTo(b *strings.Builder) {
	appendQuoted(b, string(l))
}

func (l rawLiteral) appendTo(b *strings.Builder) {
	b.WriteString(string(l))
}

func (l arrayLiteral) appendTo(b *strings.Builder) {
	// The engine accepts two array notations, '{}' and ARRAY[...].
	// An empty top-level array uses the '{}' form; everything else,
	// including empty arrays nested inside a non-empty one, uses the
	// ARRAY[...] form with nested brackets.
	if len(l) == 0 {
		b.WriteString("'{}'")
		return
	}
	b.WriteString("ARRAY")
	l.appendElements(b)
}

func (l arrayLiteral) appendElements(b *strings.Builder) {
	b.WriteByte('[')
	for i, el := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		if nested, ok := el.(arrayLiteral); ok {
			nested.appendElements(b)
		} else {
			el.appendTo(b)
		}
	}
	b.WriteByte(']')
}

// appendQuoted writes s as a SQL string literal: C-style escaped single
// quotes are normalized first, then every single quote is doubled.
// Double quotes are ordinary characters in SQL strings and stay as-is.
func appendQuoted(b *strings.Builder, s string) {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `'`, `''`)
	b.WriteByte('\'')
	b.WriteString(s)
	b.WriteByte('\'')
}

// SerializeValue renders v as a SQL literal.
//
// nil renders as the bare NULL. Booleans and numbers render in their
// default string form, unquoted. Strings are single-quoted with single
// quotes doubled. Maps are JSON-serialized and embedded as string
// literals. Slices render as ARRAY[...] constructors, recursively, with
// a top-level empty slice rendered as '{}'. Any other type degrades to
// its default string form rather than failing the render.
func SerializeValue(v any) string {
	var b strings.Builder
	toLiteral(v).appendTo(&b)
	return b.String()
}

func toLiteral(v any) literal {
	switch v := v.(type) {
	case nil:
		return nullLiteral{}
	case bool:
		return boolLiteral(v)
	case int:
		return intLiteral(v)
	case int8:
		return intLiteral(v)
	case int16:
		return intLiteral(v)
	case int32:
		return intLiteral(v)
	case int64:
		return intLiteral(v)
	case uint:
		return uintLiteral(v)
	case uint8:
		return uintLiteral(v)
	case uint16:
		return uintLiteral(v)
	case uint32:
		return uintLiteral(v)
	case uint64:
		return uintLiteral(v)
	case float32:
		return floatLiteral{value: float64(v), bits: 32}
	case float64:
		return floatLiteral{value: v, bits: 64}
	case string:
		return stringLiteral(v)
	case json.Number:
		return rawLiteral(v)
	case time.Time:
		return stringLiteral(v.Format(time.RFC3339Nano))
	case []byte:
		return stringLiteral(string(v))
	case []any:
		els := make(arrayLiteral, 0, len(v))
		for _, el := range v {
			els = append(els, toLiteral(el))
		}
		return els
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		els := make(arrayLiteral, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			els = append(els, toLiteral(rv.Index(i).Interface()))
		}
		return els
	case reflect.Map:
		data, err := json.Marshal(v)
		if err != nil {
			break
		}
		return jsonLiteral(data)
	case reflect.Pointer:
		if rv.IsNil() {
			return nullLiteral{}
		}
		return toLiteral(rv.Elem().Interface())
	}

	return rawLiteral(fmt.Sprint(v))
}
