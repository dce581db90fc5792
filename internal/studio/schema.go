package studio

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/result.schema.json
var resultSchemaJSON []byte

var resultSchema = mustCompileSchema(resultSchemaJSON)

func mustCompileSchema(data []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("compile result schema: %v", err))
	}
	return schema
}

// ValidateResult checks raw against the result schema and decodes it.
func ValidateResult(raw []byte) (Result, error) {
	var result Result

	res, err := resultSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return result, fmt.Errorf("validation error: %w", err)
	}
	if !res.Valid() {
		errs := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			errs[i] = desc.String()
		}
		return result, fmt.Errorf("result validation failed: %s", strings.Join(errs, "; "))
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}
