package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/folio/internal/admin"
	"github.com/garnizeh/folio/pkg/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// loadSchemas compiles the payload schema of every kind.
func loadSchemas() (map[models.Kind]*jsonschema.Schema, error) {
	out := make(map[models.Kind]*jsonschema.Schema, len(models.Kinds))
	for _, k := range models.Kinds {
		b, err := schemaFS.ReadFile("schemas/" + string(k) + ".json")
		if err != nil {
			return nil, fmt.Errorf("load schema %s: %w", k, err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", k, err)
		}
		out[k] = rs
	}
	return out, nil
}

// checkShape validates payload against the kind's schema. Property types are
// checked here; field contracts such as required values and rating bounds are
// left to the model validators.
func checkShape(ctx context.Context, rs *jsonschema.Schema, kind models.Kind, payload []byte) error {
	verrs, err := rs.ValidateBytes(ctx, payload)
	if err != nil {
		return &admin.Error{Code: admin.CodeValidationFailed, Message: "malformed payload: " + err.Error(), Cause: err}
	}
	if len(verrs) == 0 {
		return nil
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, models.FieldError{Field: fieldName(v.PropertyPath), Message: v.Message})
	}
	return &admin.Error{
		Code:    admin.CodeValidationFailed,
		Message: fmt.Sprintf("payload does not match the %s shape", kind),
		Fields:  fields,
	}
}

// fieldName turns a JSON pointer such as /descriptionDetails/bullets/0 into
// descriptionDetails.bullets.0.
func fieldName(pointer string) string {
	return strings.ReplaceAll(strings.Trim(pointer, "/"), "/", ".")
}
