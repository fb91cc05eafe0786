package tree

// Per-node custom storage for caller-attached analysis results.
//
// Keys beginning with constants.ReservedKeyPrefix ("epochtree.") are
// reserved for internal bookkeeping such as display caches; user-defined
// analysis-result keys must not use that prefix. The store is an explicit
// associative container, independent of selection state, and does not
// survive a rebuild.

// Put stores a custom value under key, replacing any previous value.
func (n *Node) Put(key string, value interface{}) {
	if n.custom == nil {
		n.custom = make(map[string]interface{})
	}
	n.custom[key] = value
}

// Get retrieves the custom value for key.
func (n *Node) Get(key string) (interface{}, bool) {
	if n.custom == nil {
		return nil, false
	}
	v, ok := n.custom[key]
	return v, ok
}

// Has reports whether a custom value exists for key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Remove deletes the custom value for key, if any.
func (n *Node) Remove(key string) {
	delete(n.custom, key)
}

// Keys returns the stored custom keys in unspecified order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.custom))
	for k := range n.custom {
		keys = append(keys, k)
	}
	return keys
}
