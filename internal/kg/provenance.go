package kg

import "strings"

// orderedSet keeps first-insertion order and drops repeats.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet) values() []string {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

type provenanceEntry struct {
	titles orderedSet
	dois   orderedSet
}

// Provenance accumulates distinct titles and DOIs per node id. It is kept
// apart from the node records until Apply.
type Provenance struct {
	entries map[int]*provenanceEntry
}

func NewProvenance() *Provenance {
	return &Provenance{entries: make(map[int]*provenanceEntry)}
}

// Attach adds title and doi to node id. Each value is trimmed and skipped
// when empty or already present for that node.
func (p *Provenance) Attach(id int, title, doi string) {
	title = strings.TrimSpace(title)
	doi = strings.TrimSpace(doi)
	if title == "" && doi == "" {
		return
	}
	e, ok := p.entries[id]
	if !ok {
		e = &provenanceEntry{}
		p.entries[id] = e
	}
	if title != "" {
		e.titles.add(title)
	}
	if doi != "" {
		e.dois.add(doi)
	}
}

// Apply copies the accumulated sequences onto nodes, indexed by id. Empty
// sequences stay nil so they are omitted from JSON.
func (p *Provenance) Apply(nodes []Node) {
	for id, e := range p.entries {
		if id < 0 || id >= len(nodes) {
			continue
		}
		nodes[id].Titles = e.titles.values()
		nodes[id].DOIs = e.dois.values()
	}
}
