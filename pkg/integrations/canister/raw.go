package canister

import (
	"strconv"
	"strings"

	"github.com/matzehuels/canister/pkg/errors"
)

// Raw is one undecoded JSON object from the API, as produced by
// [DecodeEnvelope]. Only the normalizers read it; everything else works on
// the typed records.
type Raw map[string]any

// number is satisfied by json.Number from both encoding/json and go-json.
type number interface {
	Int64() (int64, error)
	String() string
}

// fields reads typed values out of a Raw using ordered key synonyms: the
// first key that is present with a non-null value wins. The first type
// mismatch is recorded in err and later reads become no-ops, so a normalizer
// can read every field and check err once.
type fields struct {
	raw    Raw
	entity string
	err    error
}

func newFields(raw Raw, entity string) *fields {
	return &fields{raw: raw, entity: entity}
}

func (f *fields) lookup(keys []string) (string, any, bool) {
	if f.err != nil {
		return "", nil, false
	}
	for _, k := range keys {
		if v, ok := f.raw[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func (f *fields) mismatch(key, want string, got any) {
	if f.err == nil {
		f.err = errors.Decode("%s field %q: expected %s, got %s", f.entity, key, want, jsonType(got))
	}
}

// missing records a required-field failure naming every accepted key.
func (f *fields) missing(keys ...string) {
	if f.err == nil {
		f.err = errors.Decode("%s is missing required field %s", f.entity, quoteAll(keys))
	}
}

// optStr returns nil when no key is present.
func (f *fields) optStr(keys ...string) *string {
	k, v, ok := f.lookup(keys)
	if !ok {
		return nil
	}
	s, isStr := v.(string)
	if !isStr {
		f.mismatch(k, "string", v)
		return nil
	}
	return &s
}

func (f *fields) str(keys ...string) string {
	if s := f.optStr(keys...); s != nil {
		return *s
	}
	return ""
}

// required reads a string that must be present.
func (f *fields) required(keys ...string) string {
	s := f.optStr(keys...)
	if s == nil {
		f.missing(keys...)
		return ""
	}
	return *s
}

func (f *fields) integer(keys ...string) int64 {
	k, v, ok := f.lookup(keys)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case number:
		i, err := n.Int64()
		if err != nil {
			f.mismatch(k, "integer", v)
		}
		return i
	case float64:
		if n != float64(int64(n)) {
			f.mismatch(k, "integer", v)
		}
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	f.mismatch(k, "integer", v)
	return 0
}

// flag reads a boolean. Legacy payloads encode flags as 0/1.
func (f *fields) flag(keys ...string) bool {
	k, v, ok := f.lookup(keys)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case number:
		switch b.String() {
		case "0":
			return false
		case "1":
			return true
		}
	case float64:
		if b == 0 || b == 1 {
			return b == 1
		}
	}
	f.mismatch(k, "boolean", v)
	return false
}

// opaque reads a value that may be a string or a number and keeps its
// textual form without interpreting it.
func (f *fields) opaque(keys ...string) string {
	k, v, ok := f.lookup(keys)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	f.mismatch(k, "string or number", v)
	return ""
}

// list reads an ordered string sequence. A comma-separated string is
// accepted as well and split into trimmed, non-empty items.
func (f *fields) list(keys ...string) []string {
	k, v, ok := f.lookup(keys)
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case string:
		var out []string
		for _, s := range strings.Split(items, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, isStr := item.(string)
			if !isStr {
				f.mismatch(k, "array of strings", v)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	f.mismatch(k, "array of strings", v)
	return nil
}

func (f *fields) object(keys ...string) (Raw, bool) {
	k, v, ok := f.lookup(keys)
	if !ok {
		return nil, false
	}
	m, isObj := v.(map[string]any)
	if !isObj {
		f.mismatch(k, "object", v)
		return nil, false
	}
	return Raw(m), true
}

// dict reads an object whose values are all strings.
func (f *fields) dict(keys ...string) map[string]string {
	k, v, ok := f.lookup(keys)
	if !ok {
		return nil
	}
	m, isObj := v.(map[string]any)
	if !isObj {
		f.mismatch(k, "object", v)
		return nil
	}
	out := make(map[string]string, len(m))
	for name, val := range m {
		s, isStr := val.(string)
		if !isStr {
			f.mismatch(k+"."+name, "string", val)
			return nil
		}
		out[name] = s
	}
	return out
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case number, float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any, Raw:
		return "object"
	}
	return "unknown"
}

func quoteAll(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	return strings.Join(quoted, " or ")
}
