package planner

import (
	"sync"

	_ "embed"

	"github.com/mohammad-safakhou/scout/provider/schema"
)

//go:embed plan_schema.json
var planSchemaJSON string

var (
	compileOnce sync.Once
	planTarget  schema.Target
	compileErr  error
)

// PlanTarget returns the compiled structured-output target for execution
// plans. The embedded schema is compiled once and reused.
func PlanTarget() (schema.Target, error) {
	compileOnce.Do(func() {
		planTarget, compileErr = schema.CompileTarget("ExecutionPlan", planSchemaJSON)
	})
	return planTarget, compileErr
}

// ValidatePlanJSON checks a raw planner response against the plan schema.
func ValidatePlanJSON(raw string) error {
	target, err := PlanTarget()
	if err != nil {
		return err
	}
	var doc interface{}
	return schema.DecodeAndValidate(raw, target, &doc)
}
