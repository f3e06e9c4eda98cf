package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind enumera las formas posibles de un valor JSON dentro de las propiedades de un evento.
type ValueKind uint8

const (
	NullValue ValueKind = iota
	BoolValue
	NumberValue
	StringValue
	ArrayValue
	ObjectValue
)

// Value es una unión cerrada de valores JSON. El valor cero es null.
// Los números se guardan como json.Number para no perder precisión.
type Value struct {
	kind ValueKind
	b    bool
	n    json.Number
	s    string
	arr  []Value
	obj  Properties
}

func Null() Value                   { return Value{} }
func Bool(b bool) Value             { return Value{kind: BoolValue, b: b} }
func Number(n json.Number) Value    { return Value{kind: NumberValue, n: n} }
func Int(i int64) Value             { return Number(json.Number(strconv.FormatInt(i, 10))) }
func String(s string) Value         { return Value{kind: StringValue, s: s} }
func Array(items ...Value) Value    { return Value{kind: ArrayValue, arr: items} }
func Object(props Properties) Value { return Value{kind: ObjectValue, obj: props} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsBool() (bool, bool)          { return v.b, v.kind == BoolValue }
func (v Value) AsNumber() (json.Number, bool) { return v.n, v.kind == NumberValue }
func (v Value) AsString() (string, bool)      { return v.s, v.kind == StringValue }
func (v Value) AsArray() ([]Value, bool)      { return v.arr, v.kind == ArrayValue }
func (v Value) AsObject() (Properties, bool)  { return v.obj, v.kind == ObjectValue }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case NullValue:
		return []byte("null"), nil
	case BoolValue:
		return []byte(strconv.FormatBool(v.b)), nil
	case NumberValue:
		if v.n == "" {
			return []byte("0"), nil
		}
		return []byte(v.n), nil
	case StringValue:
		return json.Marshal(v.s)
	case ArrayValue:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			raw, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case ObjectValue:
		return v.obj.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Property es un par clave/valor de las propiedades de un evento de uso.
type Property struct {
	Key   string
	Value Value
}

// Properties conserva el orden de las claves tal como llegaron.
type Properties []Property

// Get devuelve el valor de key, si existe.
func (p Properties) Get(key string) (Value, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return Value{}, false
}

func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, prop := range p {
		keys = append(keys, prop.Key)
	}
	return keys
}

// Clone copia la estructura completa; los traductores nunca comparten la del llamador.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for i, prop := range p {
		out[i] = Property{Key: prop.Key, Value: prop.Value.clone()}
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case ArrayValue:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.clone()
		}
		return Array(items...)
	case ObjectValue:
		return Object(v.obj.Clone())
	default:
		return v
	}
}

// MarshalJSON escribe las claves en orden. Sin propiedades se escribe {}.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		raw, err := prop.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON acepta un objeto o null. Una clave repetida conserva su primera posición
// y el último valor.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch tok {
	case nil:
		*p = nil
		return nil
	case json.Delim('{'):
		props, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*p = props
		return nil
	default:
		return fmt.Errorf("properties must be a JSON object")
	}
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			props, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Object(props), nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return Value{}, err
			}
			return Array(items...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeObject lee pares hasta el '}' de cierre; el '{' ya fue consumido.
func decodeObject(dec *json.Decoder) (Properties, error) {
	props := Properties{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			props[i].Value = val
			continue
		}
		index[key] = len(props)
		props = append(props, Property{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return props, nil
}
