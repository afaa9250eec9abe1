package document

import "errors"

// MaxDepth bounds recursion during parsing and transformation. JSON trees
// are acyclic, so the limit only guards against adversarially nested input.
const MaxDepth = 1000

// ErrTooDeep is returned when a document exceeds MaxDepth nesting levels.
var ErrTooDeep = errors.New("document nesting too deep")

// Transform returns an isomorphic copy of the document with every string
// leaf replaced by fn(leaf). Non-string leaves, object keys and array order
// are untouched. The first leaf error aborts the walk and is returned
// unwrapped, so callers can match it with errors.Is.
func (v *Value) Transform(fn func(string) (string, error)) (*Value, error) {
	return v.transform(fn, 0)
}

func (v *Value) transform(fn func(string) (string, error), depth int) (*Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch v.Kind {
	case KindString:
		out, err := fn(v.Str)
		if err != nil {
			return nil, err
		}
		return String(out), nil
	case KindArray:
		arr := &Value{Kind: KindArray, Items: make([]*Value, len(v.Items))}
		for i, item := range v.Items {
			out, err := item.transform(fn, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Items[i] = out
		}
		return arr, nil
	case KindObject:
		obj := &Value{Kind: KindObject, Members: make([]Member, len(v.Members))}
		for i, m := range v.Members {
			out, err := m.Value.transform(fn, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Members[i] = Member{Key: m.Key, Value: out}
		}
		return obj, nil
	default:
		// Scalar leaves are immutable; sharing the node keeps the copy cheap.
		return v, nil
	}
}
