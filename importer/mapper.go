// Package importer implements the import pipeline: column-to-field mapping,
// row transformation and chunked batch submission.
package importer

import (
	"sort"

	"catalog-import-service/models"
)

// SeedConfidenceThreshold gates which suggested mappings are auto-applied.
// Lower-confidence suggestions are surfaced to the user but left unmapped.
const SeedConfidenceThreshold = 0.6

// Mapper holds the user-adjustable mapping from spreadsheet column index to a
// target field key. The map is keyed by column index, so re-setting a column
// replaces its target; nothing stops two columns from naming the same field
// (last write wins at transform time).
type Mapper struct {
	catalog []models.TargetFieldSpec
	mapping map[int]string
}

// NewMapper returns an empty mapper over the given field catalog.
func NewMapper(catalog []models.TargetFieldSpec) *Mapper {
	return &Mapper{
		catalog: catalog,
		mapping: make(map[int]string),
	}
}

// Seed pre-populates the mapping from high-confidence suggestions.
func (m *Mapper) Seed(suggestions []models.SuggestedMapping) {
	for _, s := range suggestions {
		if s.Confidence > SeedConfidenceThreshold {
			m.mapping[s.ExcelColumnIndex] = s.ProductField
		}
	}
}

// Set maps a column to a field key. Unknown field keys are ignored.
func (m *Mapper) Set(columnIndex int, fieldKey string) {
	if models.FieldByKey(m.catalog, fieldKey) == nil {
		return
	}
	m.mapping[columnIndex] = fieldKey
}

// Remove clears the mapping for a column.
func (m *Mapper) Remove(columnIndex int) {
	delete(m.mapping, columnIndex)
}

// Mapping returns a copy of the current column → field map.
func (m *Mapper) Mapping() map[int]string {
	out := make(map[int]string, len(m.mapping))
	for k, v := range m.mapping {
		out[k] = v
	}
	return out
}

// Validate reports whether every required catalog field is mapped by some
// column. The returned slice holds the labels of the missing fields so the
// caller can tell the user exactly what to fix; progression to preview or
// import must be blocked until it is empty.
func (m *Mapper) Validate() ([]string, bool) {
	mapped := make(map[string]bool, len(m.mapping))
	for _, key := range m.mapping {
		mapped[key] = true
	}

	var missing []string
	for _, field := range m.catalog {
		if field.Required && !mapped[field.Key] {
			missing = append(missing, field.Label)
		}
	}
	return missing, len(missing) == 0
}

// DuplicateTargets lists field keys claimed by more than one column so the
// host UI can warn; the mapper itself allows the collision.
func (m *Mapper) DuplicateTargets() []string {
	counts := make(map[string]int)
	for _, key := range m.mapping {
		counts[key]++
	}
	var dups []string
	for key, n := range counts {
		if n > 1 {
			dups = append(dups, key)
		}
	}
	sort.Strings(dups)
	return dups
}
