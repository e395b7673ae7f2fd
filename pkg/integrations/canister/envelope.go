package canister

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/matzehuels/canister/pkg/errors"
)

// Shape tells whether an envelope's data holds a list or a single object.
type Shape int

const (
	ShapeList Shape = iota
	ShapeObject
)

func (s Shape) String() string {
	if s == ShapeObject {
		return "object"
	}
	return "list"
}

// Envelope is the outer object wrapping every API response.
//
// Error, Count and Refs are nil when the response omitted them. Data keeps
// the shape the API sent; callers ask for the shape they expect with
// [Envelope.List] or [Envelope.Object].
type Envelope struct {
	Status string
	Date   string
	Error  *string
	Count  *int
	Refs   map[string]string

	shape  Shape
	list   []Raw
	object Raw
}

// DecodeEnvelope parses a response body.
//
// The body must be a JSON object with string "status" and "date" keys.
// A missing "data" key decodes as an empty list. Numbers are kept as literals
// so that integer fields and opaque hashes survive without float rounding.
func DecodeEnvelope(body []byte) (Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Envelope{}, errors.Wrap(errors.ErrCodeDecode, err, "response is not valid JSON")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Envelope{}, errors.Decode("response must be a JSON object, got %s", jsonType(v))
	}
	return DecodeRaw(m)
}

// DecodeRaw applies the envelope rules to an already decoded JSON object.
func DecodeRaw(m map[string]any) (Envelope, error) {
	f := newFields(Raw(m), "envelope")

	env := Envelope{
		Status: f.required("status"),
		Date:   f.required("date"),
		Error:  f.optStr("error"),
		Refs:   f.dict("refs"),
	}
	if _, _, ok := f.lookup([]string{"count"}); ok {
		n := int(f.integer("count"))
		env.Count = &n
	}
	if f.err != nil {
		return Envelope{}, f.err
	}

	switch data := m["data"].(type) {
	case nil:
		env.shape = ShapeList
	case map[string]any:
		env.shape = ShapeObject
		env.object = Raw(data)
	case []any:
		env.shape = ShapeList
		env.list = make([]Raw, 0, len(data))
		for i, item := range data {
			obj, ok := item.(map[string]any)
			if !ok {
				return Envelope{}, errors.Decode("envelope data[%d]: expected object, got %s", i, jsonType(item))
			}
			env.list = append(env.list, Raw(obj))
		}
	default:
		return Envelope{}, errors.Decode("envelope data: expected object or array of objects, got %s", jsonType(data))
	}
	return env, nil
}

// Shape reports the shape of the data the API sent.
func (e Envelope) Shape() Shape { return e.shape }

// Len returns the number of data objects (0 or 1 for object data).
func (e Envelope) Len() int {
	if e.shape == ShapeObject {
		return 1
	}
	return len(e.list)
}

// List returns list data. Object data is a DECODE error.
func (e Envelope) List() ([]Raw, error) {
	if e.shape != ShapeList {
		return nil, errors.Decode("expected list data, got %s", e.shape)
	}
	return e.list, nil
}

// Object returns object data. An empty list is NOT_FOUND; a non-empty list
// is a DECODE error.
func (e Envelope) Object() (Raw, error) {
	if e.shape == ShapeObject {
		return e.object, nil
	}
	if len(e.list) == 0 {
		return nil, errors.NotFound("response contained no data%s", e.errorSuffix())
	}
	return nil, errors.Decode("expected object data, got list of %d", len(e.list))
}

func (e Envelope) errorSuffix() string {
	if e.Error != nil && *e.Error != "" {
		return ": " + *e.Error
	}
	return ""
}
