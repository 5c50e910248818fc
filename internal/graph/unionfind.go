package graph

// UnionFind is a disjoint-set forest over the indices 0..n-1, with path
// halving and union by size.
type UnionFind struct {
	parent []int
	size   []int
	count  int
}

// NewUnionFind creates n singleton components
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		size:   make([]int, n),
		count:  n,
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the representative of i's component
func (uf *UnionFind) Find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

// Union merges the components of a and b. Returns true if they were separate.
func (uf *UnionFind) Union(a, b int) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	uf.count--
	return true
}

// Count returns the number of components
func (uf *UnionFind) Count() int {
	return uf.count
}

// ComponentSizes returns the size of every component
func (uf *UnionFind) ComponentSizes() []int {
	var sizes []int
	for i := range uf.parent {
		if uf.Find(i) == i {
			sizes = append(sizes, uf.size[i])
		}
	}
	return sizes
}
