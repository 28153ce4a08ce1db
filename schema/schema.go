// Package schema models the correction-set JSON document format
// (schema_version 2) and loads it from files or in-memory text.
// It covers only the document shape; structural validation against the
// evaluation semantics happens when the document is compiled by the
// correction package.
package schema

// SupportedVersion is the document schema version this evaluator is
// built for.
const SupportedVersion = 2

// CorrectionSet is the top-level document.
type CorrectionSet struct {
	SchemaVersion       int                  `json:"schema_version"`
	Description         string               `json:"description,omitempty"`
	Corrections         []Correction         `json:"corrections"`
	CompoundCorrections []CompoundCorrection `json:"compound_corrections,omitempty"`
}

// Variable declares one typed input or output.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"` // "string", "int" or "real"
}

// Correction is one named correction: a typed header plus a content
// tree.
type Correction struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Version         int32      `json:"version"`
	Inputs          []Variable `json:"inputs"`
	Output          Variable   `json:"output"`
	GenericFormulas []Formula  `json:"generic_formulas,omitempty"`
	Data            Content    `json:"data"`
}

// CompoundCorrection is a staged pipeline over named corrections of the
// same set.
type CompoundCorrection struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Inputs       []Variable `json:"inputs"`
	Output       Variable   `json:"output"`
	InputsUpdate []string   `json:"inputs_update"`
	InputOp      string     `json:"input_op"`  // "+", "*" or "/"
	OutputOp     string     `json:"output_op"` // "+", "*", "/" or "last"
	Stack        []string   `json:"stack"`
}

// Formula is an arithmetic expression node.
type Formula struct {
	NodeType   string    `json:"nodetype"`
	Parser     string    `json:"parser"`
	Expression string    `json:"expression"`
	Variables  []string  `json:"variables"`
	Parameters []float64 `json:"parameters,omitempty"`
}

// FormulaRef references a generic formula of the enclosing correction
// by index, binding its parameters.
type FormulaRef struct {
	NodeType   string    `json:"nodetype"`
	Index      int       `json:"index"`
	Parameters []float64 `json:"parameters"`
}

// Transform rewrites one input via a rule sub-evaluation, then
// evaluates content on the rewritten tuple.
type Transform struct {
	NodeType string  `json:"nodetype"`
	Input    string  `json:"input"`
	Rule     Content `json:"rule"`
	Content  Content `json:"content"`
}

// HashPRNG draws a pseudo-random value deterministically seeded by the
// named inputs.
type HashPRNG struct {
	NodeType     string   `json:"nodetype"`
	Inputs       []string `json:"inputs"`
	Distribution string   `json:"distribution"` // "stdflat", "stdnormal" or "normal"
}

// Binning is a one-dimensional histogram lookup.
type Binning struct {
	NodeType string    `json:"nodetype"`
	Input    string    `json:"input"`
	Edges    Axis      `json:"edges"`
	Content  []Content `json:"content"`
	Flow     Flow      `json:"flow"`
}

// MultiBinning is an N-dimensional rectilinear histogram lookup with
// row-major content (last axis fastest).
type MultiBinning struct {
	NodeType string    `json:"nodetype"`
	Inputs   []string  `json:"inputs"`
	Edges    []Axis    `json:"edges"`
	Content  []Content `json:"content"`
	Flow     Flow      `json:"flow"`
}

// Category dispatches on a string or integer input.
type Category struct {
	NodeType string         `json:"nodetype"`
	Input    string         `json:"input"`
	Content  []CategoryItem `json:"content"`
	Default  *Content       `json:"default,omitempty"`
}

// UniformBins describes n equal-width bins covering [low, high).
type UniformBins struct {
	N    uint32  `json:"n"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}
