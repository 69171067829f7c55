package http

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is an ordered set of request parameters. Keys are unique and keep
// the position of their first insertion. Values are strings, booleans,
// integers or floats.
//
// The zero value is not usable; create Params with NewParams or ParamsOf.
type Params struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{om: orderedmap.New[string, any]()}
}

// ParamsOf builds a parameter set from alternating keys and values.
//
// Example:
//
//	params, err := http.ParamsOf("q", "ambient", "limit", 10)
func ParamsOf(kv ...any) (*Params, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of key/value arguments", ErrInvalidArgument)
	}

	p := NewParams()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: parameter key %v is not a string", ErrInvalidArgument, kv[i])
		}
		if err := p.Set(key, kv[i+1]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MustParams is like ParamsOf but panics on invalid input. It is intended for
// literals in tests and examples.
func MustParams(kv ...any) *Params {
	p, err := ParamsOf(kv...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseParams decodes a URL-encoded string produced by Encode. Values are
// returned as strings in their original order.
func ParseParams(encoded string) (*Params, error) {
	p := NewParams()
	if encoded == "" {
		return p, nil
	}

	for _, pair := range strings.Split(encoded, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: bad parameter key %q: %v", ErrInvalidArgument, rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("%w: bad parameter value %q: %v", ErrInvalidArgument, rawValue, err)
		}
		p.om.Set(key, value)
	}
	return p, nil
}

// ParamsFromStruct encodes a struct tagged with `schema:"name"` into a
// parameter set. Keys are sorted since struct encoding has no inherent order.
// Multi-valued fields are joined with commas.
func ParamsFromStruct(v any) (*Params, error) {
	dst := make(map[string][]string)
	if err := schema.NewEncoder().Encode(v, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	keys := make([]string, 0, len(dst))
	for k := range dst {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewParams()
	for _, k := range keys {
		p.om.Set(k, strings.Join(dst[k], ","))
	}
	return p, nil
}

// Set stores value under key. An existing key keeps its position.
func (p *Params) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: empty parameter key", ErrInvalidArgument)
	}
	if !isScalar(value) {
		return fmt.Errorf("%w: parameter %q has unsupported type %T", ErrInvalidArgument, key, value)
	}
	p.om.Set(key, value)
	return nil
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return p.om.Get(key)
}

// Delete removes key and reports whether it was present.
func (p *Params) Delete(key string) bool {
	_, present := p.om.Delete(key)
	return present
}

// Len returns the number of parameters. A nil *Params has length zero.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return p.om.Len()
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	keys := make([]string, 0, p.Len())
	p.Each(func(k string, _ any) {
		keys = append(keys, k)
	})
	return keys
}

// Each calls fn for every parameter in insertion order.
func (p *Params) Each(fn func(key string, value any)) {
	if p == nil {
		return
	}
	for pair := p.om.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (p *Params) Clone() *Params {
	c := NewParams()
	p.Each(func(k string, v any) {
		c.om.Set(k, v)
	})
	return c
}

// Merge returns a copy of p with other layered on top. Values from other win;
// keys not yet in p are appended in other's order.
func (p *Params) Merge(other *Params) *Params {
	merged := p.Clone()
	other.Each(func(k string, v any) {
		merged.om.Set(k, v)
	})
	return merged
}

// Map returns the parameters as a plain map. Order is lost.
func (p *Params) Map() map[string]any {
	m := make(map[string]any, p.Len())
	p.Each(func(k string, v any) {
		m[k] = v
	})
	return m
}

// StringMap returns the parameters with every value rendered as it is encoded.
func (p *Params) StringMap() map[string]string {
	m := make(map[string]string, p.Len())
	p.Each(func(k string, v any) {
		m[k] = formatValue(v)
	})
	return m
}

// Encode renders the parameters as a URL-encoded string in insertion order.
func (p *Params) Encode() string {
	var buf strings.Builder
	p.Each(func(k string, v any) {
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(k))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(formatValue(v)))
	})
	return buf.String()
}

// MarshalJSON encodes the parameters as a JSON object in insertion order.
func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return p.om.MarshalJSON()
}

// String implements fmt.Stringer.
func (p *Params) String() string {
	return p.Encode()
}

func isScalar(value any) bool {
	if value == nil {
		return true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func formatValue(value any) string {
	if value == nil {
		return ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
