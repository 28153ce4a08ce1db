package correction

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// The S6 scenario: stage A yields 1.1, stage B sees pt scaled by 1.1.
// A is a constant; B is a formula so the scaled pt is observable.
func compoundDoc(inputOp, outputOp string) string {
	return `{
	  "schema_version": 2,
	  "corrections": [
	    {
	      "name": "A",
	      "version": 1,
	      "inputs": [
	        {"name": "pt", "type": "real"},
	        {"name": "eta", "type": "real"}
	      ],
	      "output": {"name": "sf", "type": "real"},
	      "data": 1.1
	    },
	    {
	      "name": "B",
	      "version": 1,
	      "inputs": [{"name": "pt", "type": "real"}],
	      "output": {"name": "sf", "type": "real"},
	      "data": {
	        "nodetype": "formula",
	        "parser": "TFormula",
	        "expression": "x/100",
	        "variables": ["pt"]
	      }
	    }
	  ],
	  "compound_corrections": [{
	    "name": "total",
	    "inputs": [
	      {"name": "pt", "type": "real"},
	      {"name": "eta", "type": "real"}
	    ],
	    "output": {"name": "sf", "type": "real"},
	    "inputs_update": ["pt"],
	    "input_op": "` + inputOp + `",
	    "output_op": "` + outputOp + `",
	    "stack": ["A", "B"]
	  }]
	}`
}

func TestCompoundMultiply(t *testing.T) {
	set := buildSet(t, compoundDoc("*", "*"))
	comp, err := set.GetCompound("total")
	if err != nil {
		t.Fatalf("GetCompound error: %v", err)
	}
	values := []Value{50.0, 1.2}
	got, err := comp.Evaluate(values)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	// A = 1.1, then pt -> 55, B = 55/100, result = 1.1 * 0.55
	want := 1.1 * (1.1 * 50.0 / 100)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
	if values[0] != 50.0 || values[1] != 1.2 {
		t.Errorf("caller tuple modified: %v", values)
	}
}

func TestCompoundLastOutput(t *testing.T) {
	set := buildSet(t, compoundDoc("*", "last"))
	comp, err := set.GetCompound("total")
	if err != nil {
		t.Fatalf("GetCompound error: %v", err)
	}
	got, err := comp.Evaluate([]Value{50.0, 1.2})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	want := 1.1 * 50.0 / 100 // only the final stage's value
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompoundAddInputOp(t *testing.T) {
	set := buildSet(t, compoundDoc("+", "+"))
	comp, err := set.GetCompound("total")
	if err != nil {
		t.Fatalf("GetCompound error: %v", err)
	}
	got, err := comp.Evaluate([]Value{50.0, 1.2})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	// A = 1.1, pt -> 51.1, B = 0.511, out = 1.1 + 0.511
	want := 1.1 + (50.0+1.1)/100
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCompoundLoadErrors(t *testing.T) {
	base := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "A",
	    "version": 1,
	    "inputs": [{"name": "pt", "type": "real"}],
	    "output": {"name": "sf", "type": "real"},
	    "data": 1.0
	  }],
	  "compound_corrections": [%s]
	}`
	tests := []struct {
		name string
		comp string
		want error
	}{
		{
			"unresolved",
			`{"name": "c", "inputs": [{"name": "pt", "type": "real"}],
			  "output": {"name": "sf", "type": "real"},
			  "inputs_update": [], "input_op": "*", "output_op": "*", "stack": ["missing"]}`,
			ErrUnresolvedConstituent,
		},
		{
			"missinginput",
			`{"name": "c", "inputs": [{"name": "eta", "type": "real"}],
			  "output": {"name": "sf", "type": "real"},
			  "inputs_update": [], "input_op": "*", "output_op": "*", "stack": ["A"]}`,
			ErrUnknownVariable,
		},
		{
			"intupdate",
			`{"name": "c", "inputs": [{"name": "pt", "type": "real"}, {"name": "run", "type": "int"}],
			  "output": {"name": "sf", "type": "real"},
			  "inputs_update": ["run"], "input_op": "*", "output_op": "*", "stack": ["A"]}`,
			ErrTypeDisallowed,
		},
		{
			"lastinput",
			`{"name": "c", "inputs": [{"name": "pt", "type": "real"}],
			  "output": {"name": "sf", "type": "real"},
			  "inputs_update": [], "input_op": "last", "output_op": "*", "stack": ["A"]}`,
			nil, // any load failure; checked below
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromString(fmt.Sprintf(base, tt.comp))
			if err == nil {
				t.Fatal("FromString succeeded, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompoundTypeMismatchAcrossStage(t *testing.T) {
	doc := `{
	  "schema_version": 2,
	  "corrections": [{
	    "name": "A",
	    "version": 1,
	    "inputs": [{"name": "run", "type": "int"}],
	    "output": {"name": "sf", "type": "real"},
	    "data": 1.0
	  }],
	  "compound_corrections": [{
	    "name": "c",
	    "inputs": [{"name": "run", "type": "real"}],
	    "output": {"name": "sf", "type": "real"},
	    "inputs_update": [],
	    "input_op": "*",
	    "output_op": "*",
	    "stack": ["A"]
	  }]
	}`
	if _, err := FromString(doc); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("FromString error = %v, want ErrTypeMismatch", err)
	}
}
