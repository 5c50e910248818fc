package kg

// State is everything one conversion run accumulates. It is not safe for
// concurrent use; each run owns its own.
type State struct {
	Rules      *RuleSet
	Registry   *Registry
	Edges      []Edge
	Provenance *Provenance

	rows int
}

func NewState(rules *RuleSet) *State {
	if rules == nil {
		rules = &RuleSet{}
	}
	return &State{
		Rules:      rules,
		Registry:   NewRegistry(),
		Edges:      []Edge{},
		Provenance: NewProvenance(),
	}
}

func (s *State) link(source, target int, relation string) {
	s.Edges = append(s.Edges, Edge{Source: source, Target: target, Relation: relation})
}

// rowProvenance is the title/DOI pair a row carries.
type rowProvenance struct {
	title string
	doi   string
}

func (s *State) provenanceOf(row Row) rowProvenance {
	var rp rowProvenance
	if c := s.Rules.Provenance.Title; c != "" {
		rp.title = row.Value(c)
	}
	if c := s.Rules.Provenance.DOI; c != "" {
		rp.doi = row.Value(c)
	}
	return rp
}

func (rp rowProvenance) empty() bool {
	return rp.title == "" && rp.doi == ""
}

// ApplyCategoryRules creates category nodes and category->item edges for
// every category rule the row satisfies, stamping the category on newly
// registered item nodes. Provenance goes to the item node only.
func ApplyCategoryRules(s *State, row Row) *State {
	prov := s.provenanceOf(row)
	for _, rule := range s.Rules.CategoryRules {
		categoryName := row.Value(rule.CategoryColumn)
		itemName := row.Value(rule.ItemColumn)
		if categoryName == "" || itemName == "" {
			continue
		}
		categoryID := s.Registry.Resolve(categoryName, rule.CategoryType, "")
		itemID := s.Registry.Resolve(itemName, rule.ItemColumn, categoryName)
		s.link(categoryID, itemID, rule.Relation)
		if !prov.empty() {
			s.Provenance.Attach(itemID, prov.title, prov.doi)
		}
	}
	return s
}

// ApplyRelationRules emits one edge per relation rule the row satisfies.
// Rules are independent: a missing column only skips its own rule.
// Provenance goes to both endpoints.
func ApplyRelationRules(s *State, row Row) *State {
	prov := s.provenanceOf(row)
	for _, rule := range s.Rules.RelationRules {
		sourceName := row.Value(rule.SourceColumn)
		targetName := row.Value(rule.TargetColumn)
		if sourceName == "" || targetName == "" {
			continue
		}
		sourceID := s.Registry.Resolve(sourceName, rule.SourceColumn, "")
		targetID := s.Registry.Resolve(targetName, rule.TargetColumn, "")
		s.link(sourceID, targetID, rule.Relation)
		if !prov.empty() {
			s.Provenance.Attach(sourceID, prov.title, prov.doi)
			s.Provenance.Attach(targetID, prov.title, prov.doi)
		}
	}
	return s
}

// Build runs every row through the category rules, then every row through
// the relation rules. Items therefore pick up their category even when a
// relation column mentions them in an earlier row.
func Build[R Row](rows []R, rules *RuleSet) *Result {
	s := NewState(rules)
	for _, row := range rows {
		ApplyCategoryRules(s, row)
	}
	for _, row := range rows {
		ApplyRelationRules(s, row)
	}
	s.rows += len(rows)
	return s.Assemble()
}
