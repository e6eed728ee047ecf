package cleanup

// orderedGroups groups values under keys while remembering the order in which
// keys were first seen, so grouped output never depends on map iteration.
type orderedGroups[K comparable, V any] struct {
	keys   []K
	groups map[K][]V
}

func newOrderedGroups[K comparable, V any]() *orderedGroups[K, V] {
	return &orderedGroups[K, V]{groups: make(map[K][]V)}
}

func (g *orderedGroups[K, V]) add(key K, value V) {
	if _, ok := g.groups[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.groups[key] = append(g.groups[key], value)
}

func (g *orderedGroups[K, V]) get(key K) []V {
	return g.groups[key]
}

// each visits groups in first-seen key order.
func (g *orderedGroups[K, V]) each(fn func(key K, values []V)) {
	for _, k := range g.keys {
		fn(k, g.groups[k])
	}
}
