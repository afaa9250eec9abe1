package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Member is a single key/value pair of an object, in source order.
type Member struct {
	Key   string
	Value *Value
}

// Value is one node of a parsed JSON document.
type Value struct {
	Kind    Kind
	Str     string   // KindString: the value; KindNumber: the source literal
	Bool    bool     // KindBool only
	Items   []*Value // KindArray only
	Members []Member // KindObject only
}

// Null returns the null value.
func Null() *Value { return &Value{Kind: KindNull} }

// BoolValue wraps a boolean leaf.
func BoolValue(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// Number wraps a numeric leaf, keeping the source literal as-is.
func Number(literal string) *Value { return &Value{Kind: KindNumber, Str: literal} }

// String wraps a string leaf.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// Array builds an array node.
func Array(items ...*Value) *Value { return &Value{Kind: KindArray, Items: items} }

// Object builds an object node from ordered members.
func Object(members ...Member) *Value { return &Value{Kind: KindObject, Members: members} }

// Parse decodes a JSON document into a Value tree. Object member order and
// number literals are preserved.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	v, err := parseValue(dec, tok, 0)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON document: trailing data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder, tok json.Token, depth int) (*Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &Value{Kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("invalid JSON document: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid JSON document: object key %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("invalid JSON document: %w", err)
				}
				val, err := parseValue(dec, valTok, depth+1)
				if err != nil {
					return nil, err
				}
				obj.Members = append(obj.Members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, fmt.Errorf("invalid JSON document: %w", err)
			}
			return obj, nil
		case '[':
			arr := &Value{Kind: KindArray}
			for dec.More() {
				itemTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("invalid JSON document: %w", err)
				}
				item, err := parseValue(dec, itemTok, depth+1)
				if err != nil {
					return nil, err
				}
				arr.Items = append(arr.Items, item)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, fmt.Errorf("invalid JSON document: %w", err)
			}
			return arr, nil
		}
		return nil, fmt.Errorf("invalid JSON document: unexpected delimiter %v", t)
	case string:
		return String(t), nil
	case json.Number:
		return Number(string(t)), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("invalid JSON document: unexpected token %v", tok)
}

// Encode renders the document with 2-space indentation and a trailing
// newline.
func (v *Value) Encode() []byte {
	var buf bytes.Buffer
	v.encodeTo(&buf, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// EncodeCompact renders the document without any whitespace.
func (v *Value) EncodeCompact() []byte {
	var buf bytes.Buffer
	v.encodeCompactTo(&buf)
	return buf.Bytes()
}

func (v *Value) encodeTo(buf *bytes.Buffer, indent int) {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.Str)
	case KindString:
		writeQuoted(buf, v.Str)
	case KindArray:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, item := range v.Items {
			writeIndent(buf, indent+1)
			item.encodeTo(buf, indent+1)
			if i < len(v.Items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, indent)
		buf.WriteByte(']')
	case KindObject:
		if len(v.Members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i, m := range v.Members {
			writeIndent(buf, indent+1)
			writeQuoted(buf, m.Key)
			buf.WriteString(": ")
			m.Value.encodeTo(buf, indent+1)
			if i < len(v.Members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, indent)
		buf.WriteByte('}')
	}
}

func (v *Value) encodeCompactTo(buf *bytes.Buffer) {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.Str)
	case KindString:
		writeQuoted(buf, v.Str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encodeCompactTo(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeQuoted(buf, m.Key)
			buf.WriteByte(':')
			m.Value.encodeCompactTo(buf)
		}
		buf.WriteByte('}')
	}
}

func writeIndent(buf *bytes.Buffer, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteString("  ")
	}
}

// writeQuoted writes a JSON string without HTML escaping, so values like
// URLs stay readable in the output file.
func writeQuoted(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encode cannot fail for a plain string; it appends a newline.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}

// Equal reports whether two documents are structurally and value-equal.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber, KindString:
		return a.Str == b.Str
	case KindArray:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Key != b.Members[i].Key {
				return false
			}
			if !Equal(a.Members[i].Value, b.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
