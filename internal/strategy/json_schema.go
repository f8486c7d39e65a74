package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// ToJSONSchema reflects the JSON schema of v. Non-zero top-level fields of v are published as
// property defaults, so passing a populated default config documents its defaults.
func ToJSONSchema[T any](v T) (string, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(v)

	if err := applyDefaults(schema, v); err != nil {
		return "", err
	}

	out, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode schema", err)
	}

	return string(out), nil
}

func applyDefaults(schema *jsonschema.Schema, v any) error {
	if schema.Properties == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode schema defaults", err)
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		// not an object, nothing to default
		return nil //nolint:nilerr
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		value, ok := values[pair.Key]
		if !ok || isZeroJSON(value) {
			continue
		}

		pair.Value.Default = value
	}

	return nil
}

func isZeroJSON(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
