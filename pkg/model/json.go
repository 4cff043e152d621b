package model

import (
	"encoding/json"
	"fmt"
)

// jsonProblem is the serialized form of a Problem. Constraints reference
// variables by handle, which is stable because handles are dense indices
// in insertion order.
type jsonProblem struct {
	Name  string     `json:"name"`
	Vars  []string   `json:"vars"`
	Conss []jsonCons `json:"conss"`
}

type jsonCons struct {
	Name string `json:"name"`
	Vars []int  `json:"vars"`
}

// MarshalProblem encodes a problem as JSON for caching and transport.
func MarshalProblem(p *Problem) ([]byte, error) {
	out := jsonProblem{
		Name:  p.name,
		Vars:  p.varNames,
		Conss: make([]jsonCons, len(p.consNames)),
	}
	for h, name := range p.consNames {
		out.Conss[h] = jsonCons{Name: name, Vars: p.consVars[h]}
	}
	return json.Marshal(out)
}

// UnmarshalProblem decodes a problem produced by [MarshalProblem]. The
// result is rebuilt through the regular constructors, so all structural
// invariants are re-checked.
func UnmarshalProblem(data []byte) (*Problem, error) {
	var in jsonProblem
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode problem: %w", err)
	}

	p := New(in.Name)
	for _, name := range in.Vars {
		if _, err := p.AddVariable(name); err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
	}
	for _, cons := range in.Conss {
		if _, err := p.AddConstraint(cons.Name, cons.Vars); err != nil {
			return nil, fmt.Errorf("constraint %q: %w", cons.Name, err)
		}
	}
	return p, nil
}
