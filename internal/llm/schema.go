package llm

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The structuring engine accepts an attempt only when the salvaged text is a
// JSON array of objects. Field-level cleanup is the normalizer's job, so the
// schema stays deliberately permissive: a stray string or number in the array
// fails the attempt, a malformed field inside an object does not.
const candidateArraySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": { "type": "object" }
}`

var arraySchema = jsonschema.MustCompileString("menu_candidates.json", candidateArraySchema)

// ValidateCandidateArray checks raw against the candidate array schema.
func ValidateCandidateArray(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return arraySchema.Validate(doc)
}
