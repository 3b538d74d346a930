package query

import "sync"

/*
DynamicProperties is a side-table of extra parameter values, keyed by
operation and placeholder name. The baseline operations never read it; it
exists for overrides that want to merge runtime values into their Params.
All methods are safe for concurrent use. Values stored here are shared, so a
mutable value (a slice or map) must not be changed after Set.
*/
type DynamicProperties struct {
	mu     sync.RWMutex
	values map[Kind]map[string]any
}

// NewDynamicProperties returns an empty side-table.
func NewDynamicProperties() *DynamicProperties {
	return &DynamicProperties{values: make(map[Kind]map[string]any)}
}

// Set stores a value for one placeholder of one operation.
func (props *DynamicProperties) Set(kind Kind, placeholder string, value any) {
	props.mu.Lock()
	defer props.mu.Unlock()

	if props.values[kind] == nil {
		props.values[kind] = make(map[string]any)
	}

	props.values[kind][placeholder] = value
}

// Get returns the value stored for a placeholder of an operation.
func (props *DynamicProperties) Get(kind Kind, placeholder string) (any, bool) {
	props.mu.RLock()
	defer props.mu.RUnlock()

	value, ok := props.values[kind][placeholder]
	return value, ok
}

// Delete removes a single placeholder value.
func (props *DynamicProperties) Delete(kind Kind, placeholder string) {
	props.mu.Lock()
	defer props.mu.Unlock()

	delete(props.values[kind], placeholder)
	if len(props.values[kind]) == 0 {
		delete(props.values, kind)
	}
}

// Snapshot copies the values stored for an operation.
func (props *DynamicProperties) Snapshot(kind Kind) map[string]any {
	props.mu.RLock()
	defer props.mu.RUnlock()

	out := make(map[string]any, len(props.values[kind]))
	for k, v := range props.values[kind] {
		out[k] = v
	}

	return out
}

// MergeInto copies the operation's values into params, overwriting existing
// keys, and returns params.
func (props *DynamicProperties) MergeInto(kind Kind, params Params) Params {
	if params == nil {
		params = Params{}
	}

	for k, v := range props.Snapshot(kind) {
		params[k] = v
	}

	return params
}
