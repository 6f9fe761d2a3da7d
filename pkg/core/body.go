package core

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Field is a single key/value entry of a request body.
type Field struct {
	Key   string
	Value any
}

// Body is a JSON object whose keys serialize in insertion order.
// Optional parameters are appended with SetIf so omitted values never
// appear in the output, not even as null.
type Body struct {
	fields []Field
}

// NewBody creates an empty body.
func NewBody() *Body {
	return &Body{}
}

// Set appends a field, or replaces the value of an existing key in place.
func (b *Body) Set(key string, value any) *Body {
	for i := range b.fields {
		if b.fields[i].Key == key {
			b.fields[i].Value = value
			return b
		}
	}
	b.fields = append(b.fields, Field{Key: key, Value: value})
	return b
}

// SetIf appends the field only when cond is true.
func (b *Body) SetIf(cond bool, key string, value any) *Body {
	if cond {
		b.Set(key, value)
	}
	return b
}

// SetOptional appends the field only when value is non-nil.
func (b *Body) SetOptional(key string, value *string) *Body {
	if value != nil {
		b.Set(key, *value)
	}
	return b
}

// Get returns the value stored under key.
func (b *Body) Get(key string) (any, bool) {
	for _, f := range b.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in serialization order.
func (b *Body) Keys() []string {
	keys := make([]string, len(b.fields))
	for i, f := range b.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (b *Body) Len() int {
	return len(b.fields)
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (b *Body) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := sonic.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
