package errtree

import "sort"

// Provenance contains source information for catalog entries.
type Provenance struct {
	Entries []EntryProvenance
}

// EntryProvenance describes where a template came from.
type EntryProvenance struct {
	Key        string // Normalized key (e.g., "size.arg.range")
	SourceKey  string // Key as written in the source (e.g., "env:MSG_SIZE__ARG__RANGE")
	SourceName string // Source identifier (e.g., "file:errors.yaml")
}

// GetProvenance returns provenance metadata for a loaded catalog, ordered by key.
// Catalogs built with NewMessages or DefaultMessages have none.
func GetProvenance(m *Messages) (*Provenance, bool) {
	if m == nil || len(m.provenance) == 0 {
		return nil, false
	}

	prov := &Provenance{Entries: make([]EntryProvenance, 0, len(m.provenance))}
	for _, e := range m.provenance {
		prov.Entries = append(prov.Entries, e)
	}
	sort.Slice(prov.Entries, func(i, j int) bool {
		return prov.Entries[i].Key < prov.Entries[j].Key
	})
	return prov, true
}

// SourceOf returns the provenance of a single key.
func (m *Messages) SourceOf(key string) (EntryProvenance, bool) {
	e, ok := m.provenance[key]
	return e, ok
}
