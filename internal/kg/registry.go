package kg

type entityKey struct {
	name string
	typ  string
}

// Registry deduplicates (name, type) pairs into nodes with dense ids
// starting at 0. Ids are assigned on first sighting and never change.
type Registry struct {
	ids   map[entityKey]int
	nodes []Node
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[entityKey]int)}
}

// Resolve returns the id for (name, typ), creating the node if needed.
// category is recorded only when the node is created; on a hit it is ignored,
// so the first registration wins. Callers must pass non-empty, trimmed name
// and typ.
func (r *Registry) Resolve(name, typ, category string) int {
	key := entityKey{name: name, typ: typ}
	if id, ok := r.ids[key]; ok {
		return id
	}
	id := len(r.nodes)
	r.ids[key] = id
	r.nodes = append(r.nodes, Node{ID: id, Name: name, Type: typ, Category: category})
	return id
}

func (r *Registry) Len() int {
	return len(r.nodes)
}

// Nodes returns a copy of the node collection in id order.
func (r *Registry) Nodes() []Node {
	out := make([]Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}
