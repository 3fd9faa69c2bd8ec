// validation/syntax.go
package validation

import (
	"errors"
	"strings"

	"github.com/sentra-iam/sentra/model"
)

const syntaxDocLink = "https://docs.sentra.dev/policies/syntax"

// SyntaxValidator parses policy text and reports structural errors. It
// never aborts on a bad policy; diagnostics are returned as data.
type SyntaxValidator struct{}

func NewSyntaxValidator() *SyntaxValidator {
	return &SyntaxValidator{}
}

// Validate parses the content and returns the parsed policies along with
// any syntax errors. A failed parse yields a nil policy slice and at
// least one error.
func (v *SyntaxValidator) Validate(content string) ([]*Policy, []model.ValidationError) {
	if strings.TrimSpace(content) == "" {
		return nil, []model.ValidationError{{
			Kind:         model.SyntaxError,
			Message:      "policy content cannot be empty",
			SuggestedFix: "Provide at least one permit or forbid statement",
			DocLink:      syntaxDocLink,
		}}
	}

	policies, err := ParsePolicySet(content)
	if err != nil {
		return nil, []model.ValidationError{toSyntaxError(err)}
	}
	return policies, nil
}

// IsValid reports whether the content parses cleanly.
func (v *SyntaxValidator) IsValid(content string) bool {
	_, errs := v.Validate(content)
	return len(errs) == 0
}

func toSyntaxError(err error) model.ValidationError {
	ve := model.ValidationError{
		Kind:    model.SyntaxError,
		Message: err.Error(),
		DocLink: syntaxDocLink,
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		ve.Message = parseErr.Message
		ve.Location = &model.PolicyLocation{Line: parseErr.Line, Column: parseErr.Column}
	}
	return ve
}
