package summary

// orderedMap is a map that preserves the order of insertion.
type orderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{values: make(map[K]V)}
}

// Get retrieves a value by key.
func (om *orderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := om.values[key]
	return v, ok
}

// Set adds or updates a key-value pair.
func (om *orderedMap[K, V]) Set(key K, value V) {
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// Len returns the number of keys.
func (om *orderedMap[K, V]) Len() int { return len(om.keys) }

// Range iterates in insertion order until f returns false.
func (om *orderedMap[K, V]) Range(f func(key K, value V) bool) {
	for _, k := range om.keys {
		if !f(k, om.values[k]) {
			break
		}
	}
}
