package analysis

import (
	"sort"

	"github.com/antimonylang/antimony-ls/internal/token"
)

// PositionIndex answers position- and name-based queries over one
// semantic model. It is built once per model and is immutable afterwards;
// all lookups are pure reads and safe for concurrent use.
type PositionIndex struct {
	model       *SemanticModel
	occurrences []Occurrence
	annotations map[string][]AnnotationStatement
}

// NewPositionIndex builds the index for a model.
func NewPositionIndex(model *SemanticModel) *PositionIndex {
	occurrences := make([]Occurrence, len(model.Occurrences))
	copy(occurrences, model.Occurrences)
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Range.Start.Before(occurrences[j].Range.Start)
	})

	annotations := make(map[string][]AnnotationStatement)
	for _, stmt := range model.Annotations {
		annotations[stmt.SubjectName] = append(annotations[stmt.SubjectName], stmt)
	}

	return &PositionIndex{
		model:       model,
		occurrences: occurrences,
		annotations: annotations,
	}
}

// Model returns the semantic model the index was built from.
func (ix *PositionIndex) Model() *SemanticModel {
	return ix.model
}

// SymbolAt returns the occurrence whose half-open range contains pos.
// Occurrence ranges never overlap, so the match is unique; when two
// ranges abut at pos, the occurrence starting at pos wins. The second
// return value is false when pos is outside every occurrence.
func (ix *PositionIndex) SymbolAt(pos token.Position) (Occurrence, bool) {
	// Rightmost occurrence starting at or before pos. With half-open
	// non-overlapping ranges, this is the only possible container.
	i := sort.Search(len(ix.occurrences), func(i int) bool {
		return pos.Before(ix.occurrences[i].Range.Start)
	})
	if i == 0 {
		return Occurrence{}, false
	}
	occ := ix.occurrences[i-1]
	if !occ.Range.Contains(pos) {
		return Occurrence{}, false
	}
	return occ, true
}

// AnnotationsFor returns every annotation statement whose subject is
// name, in document order.
func (ix *PositionIndex) AnnotationsFor(name string) []AnnotationStatement {
	return ix.annotations[name]
}

// LatestAnnotationFor returns the last annotation statement for name in
// document order. Repeated annotations represent refinement, so the most
// recent one is authoritative and is the jump-to-annotation target.
func (ix *PositionIndex) LatestAnnotationFor(name string) (AnnotationStatement, bool) {
	stmts := ix.annotations[name]
	if len(stmts) == 0 {
		return AnnotationStatement{}, false
	}
	return stmts[len(stmts)-1], true
}
