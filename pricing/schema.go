package pricing

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of a catalog document: an object whose
// values are Entry objects.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(map[string]Entry{})
	s.Title = "enc pricing catalog"
	s.Description = `Model limits and per-token rates keyed by "<provider>/<model>".`
	return json.MarshalIndent(s, "", "  ")
}
