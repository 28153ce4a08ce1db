package correction

import (
	"errors"
	"strings"
	"testing"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

func TestLiteralCorrection(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "description": "test payload",
	  "corrections": [{
	    "name": "unity",
	    "description": "always one",
	    "version": 3,
	    "inputs": [],
	    "output": {"name": "w", "type": "real"},
	    "data": 1.0
	  }]
	}`
	set := buildSet(t, doc)
	if set.SchemaVersion() != 2 {
		t.Errorf("SchemaVersion = %d, want 2", set.SchemaVersion())
	}
	if set.Description() != "test payload" {
		t.Errorf("Description = %q", set.Description())
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
	corr, err := set.Get("unity")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if corr.Version() != 3 {
		t.Errorf("Version = %d, want 3", corr.Version())
	}
	if corr.Output().Type() != VarReal {
		t.Errorf("output type = %v, want real", corr.Output().Type())
	}
	got, err := corr.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if got != 1.0 {
		t.Errorf("got %v, want 1.0", got)
	}
	if _, err := set.Get("nope"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrKeyNotFound", err)
	}
}

const typedDoc = `{
  "schema_version": 2,
  "corrections": [{
    "name": "typed",
    "version": 1,
    "inputs": [
      {"name": "tag", "type": "string"},
      {"name": "run", "type": "int"},
      {"name": "pt", "type": "real"}
    ],
    "output": {"name": "w", "type": "real"},
    "data": 2.5
  }]
}`

func TestEvaluateTypeChecks(t *testing.T) {
	corr := buildCorr(t, typedDoc, "typed")

	if got, err := corr.Evaluate([]Value{"a", 1, 2.0}); err != nil || got != 2.5 {
		t.Fatalf("valid tuple = (%v, %v), want (2.5, nil)", got, err)
	}

	tests := []struct {
		name   string
		values []Value
		want   error
	}{
		{"toofew", []Value{"a", 1}, ErrArityMismatch},
		{"toomany", []Value{"a", 1, 2.0, 3.0}, ErrArityMismatch},
		{"stringforint", []Value{"a", "b", 2.0}, ErrTypeMismatch},
		{"intforreal", []Value{"a", 1, 2}, ErrTypeMismatch},
		{"realforint", []Value{"a", 1.0, 2.0}, ErrTypeMismatch},
		{"intforstring", []Value{7, 1, 2.0}, ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := corr.Evaluate(tt.values); !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%v) error = %v, want %v", tt.values, err, tt.want)
			}
		})
	}
}

func TestGenericFormulaSharing(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "shared",
	    "version": 1,
	    "inputs": [
	      {"name": "flag", "type": "string"},
	      {"name": "x", "type": "real"}
	    ],
	    "output": {"name": "w", "type": "real"},
	    "generic_formulas": [{
	      "nodetype": "formula",
	      "parser": "TFormula",
	      "expression": "[0]*x + [1]",
	      "variables": ["x"]
	    }],
	    "data": {
	      "nodetype": "category",
	      "input": "flag",
	      "content": [
	        {"key": "steep", "value": {"nodetype": "formularef", "index": 0, "parameters": [10.0, 0.0]}},
	        {"key": "flat", "value": {"nodetype": "formularef", "index": 0, "parameters": [0.0, 5.0]}}
	      ]
	    }
	  }]
	}`
	corr := buildCorr(t, doc, "shared")
	if got, _ := corr.Evaluate([]Value{"steep", 2.0}); got != 20.0 {
		t.Errorf("steep(2) = %v, want 20.0", got)
	}
	if got, _ := corr.Evaluate([]Value{"flat", 2.0}); got != 5.0 {
		t.Errorf("flat(2) = %v, want 5.0", got)
	}
}

func TestFormulaRefValidation(t *testing.T) {
	base := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "bad", "version": 1,
	    "inputs": [{"name": "x", "type": "real"}],
	    "output": {"name": "w", "type": "real"},
	    "generic_formulas": [{
	      "nodetype": "formula", "parser": "TFormula",
	      "expression": "[0]*x + [1]", "variables": ["x"]
	    }],
	    "data": DATA
	  }]
	}`
	tests := []struct {
		name string
		data string
		want error
	}{
		{"badindex", `{"nodetype": "formularef", "index": 2, "parameters": [1.0, 2.0]}`, ErrBadReference},
		{"shortparams", `{"nodetype": "formularef", "index": 0, "parameters": [1.0]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.ReplaceAll(base, "DATA", tt.data)
			_, err := FromString(doc)
			if err == nil {
				t.Fatal("FromString succeeded, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFormulaStringVariableRejected(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "bad", "version": 1,
	    "inputs": [{"name": "tag", "type": "string"}],
	    "output": {"name": "w", "type": "real"},
	    "data": {
	      "nodetype": "formula", "parser": "TFormula",
	      "expression": "x", "variables": ["tag"]
	    }
	  }]
	}`
	if _, err := FromString(doc); !errors.Is(err, ErrTypeDisallowed) {
		t.Errorf("FromString error = %v, want ErrTypeDisallowed", err)
	}
}

func TestNumexprRejected(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "bad", "version": 1,
	    "inputs": [{"name": "x", "type": "real"}],
	    "output": {"name": "w", "type": "real"},
	    "data": {
	      "nodetype": "formula", "parser": "numexpr",
	      "expression": "x", "variables": ["x"]
	    }
	  }]
	}`
	if _, err := FromString(doc); !errors.Is(err, ErrUnknownParser) {
		t.Errorf("FromString error = %v, want ErrUnknownParser", err)
	}
}

func TestDuplicateCorrectionNames(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [
	    {"name": "a", "version": 1, "inputs": [], "output": {"name": "w", "type": "real"}, "data": 1.0},
	    {"name": "a", "version": 2, "inputs": [], "output": {"name": "w", "type": "real"}, "data": 2.0}
	  ]
	}`
	if _, err := FromString(doc); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("FromString error = %v, want ErrDuplicateName", err)
	}
}

func TestOutputMustBeReal(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "bad", "version": 1, "inputs": [],
	    "output": {"name": "w", "type": "int"},
	    "data": 1.0
	  }]
	}`
	if _, err := FromString(doc); !errors.Is(err, ErrTypeDisallowed) {
		t.Errorf("FromString error = %v, want ErrTypeDisallowed", err)
	}
}

// Reloading a marshalled document yields the same outputs.
func TestBehaviouralRoundTrip(t *testing.T) {
	docs := []string{binningClampDoc, transformDoc, typedDoc}
	for _, text := range docs {
		parsed, err := schema.Load([]byte(text))
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		out, err := parsed.Marshal()
		if err != nil {
			t.Fatalf("Marshal error: %v", err)
		}
		orig, err := NewSet(parsed)
		if err != nil {
			t.Fatalf("NewSet error: %v", err)
		}
		reloaded, err := FromString(string(out))
		if err != nil {
			t.Fatalf("reload error: %v", err)
		}
		for _, name := range orig.Names() {
			a, _ := orig.Get(name)
			b, err := reloaded.Get(name)
			if err != nil {
				t.Fatalf("reloaded set lost %q: %v", name, err)
			}
			tuples := sampleTuples(a.Inputs())
			for _, tuple := range tuples {
				av, aerr := a.Evaluate(tuple)
				bv, berr := b.Evaluate(tuple)
				if (aerr == nil) != (berr == nil) {
					t.Fatalf("%q at %v: error mismatch %v vs %v", name, tuple, aerr, berr)
				}
				if aerr == nil && av != bv {
					t.Errorf("%q at %v: %v != %v", name, tuple, av, bv)
				}
			}
		}
	}
}

// sampleTuples builds a few typed input tuples for a variable list.
func sampleTuples(inputs []Variable) [][]Value {
	samples := [][]Value{make([]Value, len(inputs)), make([]Value, len(inputs))}
	for i, v := range inputs {
		switch v.Type() {
		case VarString:
			samples[0][i] = "a"
			samples[1][i] = "b"
		case VarInt:
			samples[0][i] = 1
			samples[1][i] = 42
		default:
			samples[0][i] = 0.5
			samples[1][i] = 2.75
		}
	}
	return samples
}

func TestSummary(t *testing.T) {
	corr := buildCorr(t, transformDoc, "shift")
	s := corr.Summary()
	if s.NodeCounts["transform"] != 1 {
		t.Errorf("transform count = %d, want 1", s.NodeCounts["transform"])
	}
	if s.NodeCounts["formula"] != 1 {
		t.Errorf("formula count = %d, want 1", s.NodeCounts["formula"])
	}
	if s.NodeCounts["category"] != 1 {
		t.Errorf("category count = %d, want 1", s.NodeCounts["category"])
	}
	n := s.Inputs["n"]
	if n == nil || !n.HasTransform {
		t.Errorf("input n stats = %+v, want HasTransform", n)
	}
	if n != nil && len(n.Values) != 2 {
		t.Errorf("input n values = %v, want 2 category keys", n.Values)
	}
}

