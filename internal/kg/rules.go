package kg

import "strings"

// ColumnPair is an ordered (source column, target column) pair as it appears
// in configuration. For category rules Source is the category column and
// Target the item column.
type ColumnPair struct {
	Source string
	Target string
}

// CategoryRule links a category column to an item column.
type CategoryRule struct {
	CategoryColumn string
	ItemColumn     string
	CategoryType   string // type given to category nodes, e.g. "Feedstock Category"
	Relation       string
}

// RelationRule links two item columns.
type RelationRule struct {
	SourceColumn string
	TargetColumn string
	Relation     string
}

// ProvenanceColumns names the columns holding literature provenance. An
// empty name disables that field.
type ProvenanceColumns struct {
	Title string
	DOI   string
}

// RuleSet is the compiled, ordered rule configuration for a run.
type RuleSet struct {
	CategoryRules []CategoryRule
	RelationRules []RelationRule
	Provenance    ProvenanceColumns

	// Hierarchical lists the item types covered by the category index, in
	// category rule order without repeats.
	Hierarchical []string
}

// NewRuleSet compiles column pairs into a RuleSet. Labels and category types
// are derived here once rather than per row.
func NewRuleSet(categoryPairs, relationPairs []ColumnPair, prov ProvenanceColumns) *RuleSet {
	rs := &RuleSet{
		CategoryRules: make([]CategoryRule, 0, len(categoryPairs)),
		RelationRules: make([]RelationRule, 0, len(relationPairs)),
		Provenance:    prov,
	}

	seen := make(map[string]bool)
	for _, p := range categoryPairs {
		rs.CategoryRules = append(rs.CategoryRules, CategoryRule{
			CategoryColumn: p.Source,
			ItemColumn:     p.Target,
			CategoryType:   CategoryType(p.Target),
			Relation:       RelationLabel(p.Source, p.Target),
		})
		if !seen[p.Target] {
			seen[p.Target] = true
			rs.Hierarchical = append(rs.Hierarchical, p.Target)
		}
	}
	for _, p := range relationPairs {
		rs.RelationRules = append(rs.RelationRules, RelationRule{
			SourceColumn: p.Source,
			TargetColumn: p.Target,
			Relation:     RelationLabel(p.Source, p.Target),
		})
	}
	return rs
}

// RelationLabel returns the edge label for a column pair.
func RelationLabel(source, target string) string {
	return source + "->" + target
}

// CategoryType derives the category node type from an item column: its first
// whitespace-delimited token followed by " Category". "Feedstock" gives
// "Feedstock Category"; "Product yield" gives "Product Category".
func CategoryType(itemColumn string) string {
	fields := strings.Fields(itemColumn)
	if len(fields) == 0 {
		return itemColumn + " Category"
	}
	return fields[0] + " Category"
}
