package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var schemaJSON []byte

var resumeSchema *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("resume schema: %v", err))
	}
	resumeSchema = s
}

var ErrInvalidContent = errors.New("resume content does not match schema")

// SchemaError lists every violation, keyed by JSON path.
type SchemaError struct {
	Violations map[string]string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for field, msg := range e.Violations {
		parts = append(parts, field+": "+msg)
	}
	return ErrInvalidContent.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrInvalidContent }

// ValidateJSON checks raw against the embedded résumé schema. Unknown
// properties are allowed so older drafts keep loading.
func ValidateJSON(raw []byte) error {
	if len(raw) == 0 {
		return &SchemaError{Violations: map[string]string{"(root)": "content is empty"}}
	}
	res, err := resumeSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Violations: map[string]string{"(root)": err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	v := make(map[string]string, len(res.Errors()))
	for _, e := range res.Errors() {
		v[e.Field()] = e.Description()
	}
	return &SchemaError{Violations: v}
}
