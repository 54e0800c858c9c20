package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// blobSchema is the shape every persisted or imported collection must have.
const blobSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "email", "salary"],
    "properties": {
      "id": {"type": "string"},
      "email": {"type": "string"},
      "salary": {"type": "number"},
      "gender": {"enum": ["Male", "Female", "Other"]}
    }
  }
}`

var schema = mustSchema(blobSchema)

func mustSchema(raw string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(fmt.Sprintf("employee: invalid blob schema: %v", err))
	}
	return rs
}

// Decode validates data against the blob schema and parses it. Any failure
// wraps ErrCorrupt.
func Decode(ctx context.Context, data []byte) ([]Employee, error) {
	keyErrs, err := schema.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.PropertyPath+": "+ke.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, strings.Join(msgs, "; "))
	}
	var out []Employee
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if out == nil {
		out = []Employee{}
	}
	return out, nil
}

// Encode serializes the collection. A nil slice encodes as [].
func Encode(list []Employee) ([]byte, error) {
	if list == nil {
		list = []Employee{}
	}
	return json.Marshal(list)
}
