package nexacro

// Parameters represents an ordered set of Nexacro request parameters.
// Keys are unique; setting an existing key replaces its value but keeps its original position.
type Parameters struct {
	keys   []string
	values map[string]string
}

// NewParameters creates a new empty parameter set
func NewParameters() *Parameters {
	return &Parameters{
		values: make(map[string]string),
	}
}

// ParametersOf builds a parameter set out of alternating key-value pairs.
// A trailing key without a value is assigned the empty string.
func ParametersOf(pairs ...string) *Parameters {
	params := NewParameters()
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		params.Set(pairs[i], value)
	}
	return params
}

// Set assigns a value to a key
func (params *Parameters) Set(key, value string) {
	if params.values == nil {
		params.values = make(map[string]string)
	}
	if _, ok := params.values[key]; !ok {
		params.keys = append(params.keys, key)
	}
	params.values[key] = value
}

// Get returns the value assigned to a key and whether it is present
func (params *Parameters) Get(key string) (string, bool) {
	if params == nil {
		return "", false
	}
	value, ok := params.values[key]
	return value, ok
}

// Len returns the amount of parameters
func (params *Parameters) Len() int {
	if params == nil {
		return 0
	}
	return len(params.keys)
}

// Keys returns a copy of all keys in insertion order
func (params *Parameters) Keys() []string {
	if params == nil {
		return nil
	}
	keys := make([]string, len(params.keys))
	copy(keys, params.keys)
	return keys
}

// Each calls fn for every parameter in insertion order
func (params *Parameters) Each(fn func(key, value string)) {
	if params == nil {
		return
	}
	for _, key := range params.keys {
		fn(key, params.values[key])
	}
}

// Merge sets every parameter of other on params, overwriting existing keys.
// A nil other is a no-op.
func (params *Parameters) Merge(other *Parameters) {
	other.Each(params.Set)
}

// Map returns the parameters as a plain map, losing their order
func (params *Parameters) Map() map[string]string {
	res := make(map[string]string, params.Len())
	params.Each(func(key, value string) {
		res[key] = value
	})
	return res
}
