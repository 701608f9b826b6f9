package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// contractCUE is the descriptor-set contract: the shape every registered
// table must satisfy. The property source on the other side of the host
// boundary is versioned against exactly this.
const contractCUE = `
#Type: "int" | "string" | "bool" | "enum" | "duration" | "timestamp"

#Property: {
	name: =~"^[a-z][a-z0-9_]*$"
	type: #Type
	if type == "enum" {
		enum_set: =~"^[a-z][a-z0-9_]*$"
	}
}

#Table: {
	kind:       "server" | "channel" | "client"
	version:    int & >=1
	properties: [...#Property] & [_, ...]
}
`

// ContractError describes one contract violation in a descriptor table.
type ContractError struct {
	Kind     string `json:"kind"`
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
}

func (e ContractError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s.%s: %s", e.Kind, e.Property, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ValidateContract checks every registered table against the CUE contract
// plus the cross-property rules CUE does not express (name uniqueness,
// non-nil fetch strategies). Returns all violations found, not fail-fast.
func ValidateContract() []ContractError {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(contractCUE)
	if err := schemaVal.Err(); err != nil {
		// The contract is a compile-time constant; failing to parse it is
		// a programming error, not a data error.
		panic(fmt.Sprintf("schema: contract does not compile: %v", err))
	}
	tableDef := schemaVal.LookupPath(cue.ParsePath("#Table"))

	var errs []ContractError
	for _, table := range Tables() {
		errs = append(errs, validateTable(ctx, tableDef, table)...)
	}
	return errs
}

func validateTable(ctx *cue.Context, tableDef cue.Value, table Table) []ContractError {
	var errs []ContractError
	kind := table.Kind.String()

	data := ctx.Encode(tableContract(table))
	unified := tableDef.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, ContractError{Kind: kind, Message: e.Error()})
		}
	}

	// Uniqueness and fetch wiring are Go-side rules.
	seen := make(map[string]bool, len(table.Descriptors))
	for _, d := range table.Descriptors {
		if seen[d.Name] {
			errs = append(errs, ContractError{Kind: kind, Property: d.Name, Message: "duplicate property name"})
		}
		seen[d.Name] = true
		if d.Fetch == nil {
			errs = append(errs, ContractError{Kind: kind, Property: d.Name, Message: "missing fetch strategy"})
		}
	}
	return errs
}

// tableContract projects a table into the plain data shape the CUE contract
// constrains.
func tableContract(table Table) map[string]any {
	properties := make([]map[string]any, len(table.Descriptors))
	for i, d := range table.Descriptors {
		p := map[string]any{
			"name": d.Name,
			"type": d.Type.String(),
		}
		if d.EnumSet != "" {
			p["enum_set"] = d.EnumSet
		}
		properties[i] = p
	}
	return map[string]any{
		"kind":       table.Kind.String(),
		"version":    table.Version,
		"properties": properties,
	}
}
