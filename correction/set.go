package correction

import (
	"fmt"
	"sort"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// CorrectionSet is a compiled document: corrections and compound
// corrections keyed by name. Deeply immutable after construction, so
// concurrent evaluation needs no synchronisation.
type CorrectionSet struct {
	schemaVersion int
	description   string
	corrections   map[string]*Correction
	compound      map[string]*CompoundCorrection
}

// NewSet compiles a loaded document, validating every node eagerly.
func NewSet(doc *schema.CorrectionSet) (*CorrectionSet, error) {
	set := &CorrectionSet{
		schemaVersion: doc.SchemaVersion,
		description:   doc.Description,
		corrections:   make(map[string]*Correction, len(doc.Corrections)),
		compound:      make(map[string]*CompoundCorrection, len(doc.CompoundCorrections)),
	}
	for i := range doc.Corrections {
		corr, err := newCorrection(&doc.Corrections[i])
		if err != nil {
			return nil, err
		}
		if _, dup := set.corrections[corr.Name()]; dup {
			return nil, fmt.Errorf("%w: correction %q", ErrDuplicateName, corr.Name())
		}
		set.corrections[corr.Name()] = corr
	}
	for i := range doc.CompoundCorrections {
		comp, err := newCompoundCorrection(&doc.CompoundCorrections[i], set)
		if err != nil {
			return nil, err
		}
		if _, dup := set.compound[comp.Name()]; dup {
			return nil, fmt.Errorf("%w: compound correction %q", ErrDuplicateName, comp.Name())
		}
		set.compound[comp.Name()] = comp
	}
	return set, nil
}

// FromFile loads and compiles a document from a file, transparently
// decompressing gzip content.
func FromFile(path string) (*CorrectionSet, error) {
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSet(doc)
}

// FromString loads and compiles a document from in-memory text.
func FromString(text string) (*CorrectionSet, error) {
	doc, err := schema.Load([]byte(text))
	if err != nil {
		return nil, err
	}
	return NewSet(doc)
}

// SchemaVersion returns the document's schema version.
func (s *CorrectionSet) SchemaVersion() int { return s.schemaVersion }

// Description returns the document description.
func (s *CorrectionSet) Description() string { return s.description }

// Len returns the number of corrections.
func (s *CorrectionSet) Len() int { return len(s.corrections) }

// Get returns the named correction.
func (s *CorrectionSet) Get(name string) (*Correction, error) {
	corr, ok := s.corrections[name]
	if !ok {
		return nil, fmt.Errorf("%w: correction %q", ErrKeyNotFound, name)
	}
	return corr, nil
}

// GetCompound returns the named compound correction.
func (s *CorrectionSet) GetCompound(name string) (*CompoundCorrection, error) {
	comp, ok := s.compound[name]
	if !ok {
		return nil, fmt.Errorf("%w: compound correction %q", ErrKeyNotFound, name)
	}
	return comp, nil
}

// Compound returns the compound corrections keyed by name. The map is
// shared and must not be modified.
func (s *CorrectionSet) Compound() map[string]*CompoundCorrection {
	return s.compound
}

// Names returns the correction names sorted lexically. Iteration order
// of the set itself is unspecified.
func (s *CorrectionSet) Names() []string {
	names := make([]string, 0, len(s.corrections))
	for name := range s.corrections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompoundNames returns the compound correction names sorted lexically.
func (s *CorrectionSet) CompoundNames() []string {
	names := make([]string, 0, len(s.compound))
	for name := range s.compound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
