package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Target describes a structured output shape requested from a language model.
// Raw is the JSON Schema text embedded into the prompt; Compiled is the same
// schema compiled for post-hoc validation of the model's response.
type Target struct {
	Name     string
	Raw      string
	Compiled *jsonschema.Schema
}

// CompileTarget compiles a JSON Schema document into a Target.
func CompileTarget(name, raw string) (Target, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name+".json", strings.NewReader(raw)); err != nil {
		return Target{}, fmt.Errorf("failed to add %s schema resource: %w", name, err)
	}
	compiled, err := compiler.Compile(name + ".json")
	if err != nil {
		return Target{}, fmt.Errorf("failed to compile %s schema: %w", name, err)
	}
	return Target{Name: name, Raw: raw, Compiled: compiled}, nil
}

// StripCodeFences removes surrounding markdown code fences from a model
// response, with or without a language tag. Models routinely wrap JSON in
// fences despite being told not to, so this runs before every parse attempt.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

const errExcerptLimit = 200

// DecodeAndValidate parses a raw model response as JSON, validates it against
// the target's compiled schema, and unmarshals it into out. Failures carry the
// target name and a truncated excerpt of the offending text.
func DecodeAndValidate(raw string, target Target, out interface{}) error {
	var generic interface{}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return fmt.Errorf("failed to parse response as %s: %w\nResponse: %s", target.Name, err, excerpt(raw))
	}
	if target.Compiled != nil {
		if err := target.Compiled.Validate(generic); err != nil {
			return fmt.Errorf("response does not match %s schema: %w\nResponse: %s", target.Name, err, excerpt(raw))
		}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode response into %s: %w\nResponse: %s", target.Name, err, excerpt(raw))
	}
	return nil
}

func excerpt(s string) string {
	if len(s) > errExcerptLimit {
		return s[:errExcerptLimit] + "..."
	}
	return s
}
