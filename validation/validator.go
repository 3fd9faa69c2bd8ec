// validation/validator.go
package validation

import (
	"context"
	"fmt"
	"time"

	sentra_errors "github.com/sentra-iam/sentra/errors"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
)

// Validator runs the full validation pipeline for one policy document:
// syntax, then schema-driven semantics (skipped when syntax failed),
// then HRN checks, and finally aggregation into a single result.
type Validator struct {
	registry *schema.Registry
	syntax   *SyntaxValidator
	semantic *SemanticValidator
	hrn      *HrnValidator
}

// NewValidator creates a validator backed by the given schema registry.
func NewValidator(registry *schema.Registry) *Validator {
	return &Validator{
		registry: registry,
		syntax:   NewSyntaxValidator(),
		semantic: NewSemanticValidator(),
		hrn:      NewHrnValidator(),
	}
}

// Validate runs all stages over the content. Validator diagnostics are
// accumulated into the result; only an unusable schema aborts the call.
func (v *Validator) Validate(ctx context.Context, content string, opts *model.ValidationOptions) (model.PolicyValidationResult, model.ValidationMetrics, error) {
	var metrics model.ValidationMetrics
	start := time.Now()

	snapshot, err := v.registry.Load(opts.SchemaName())
	if err != nil {
		return model.PolicyValidationResult{}, metrics,
			fmt.Errorf("%w: %v", sentra_errors.ErrConfigurationError, err)
	}

	syntaxStart := time.Now()
	policies, syntaxErrs := v.syntax.Validate(content)
	metrics.SyntaxDurationMs = uint64(time.Since(syntaxStart).Milliseconds())

	var semanticErrs []model.ValidationError
	var warnings []model.ValidationWarning
	semanticStart := time.Now()
	if len(syntaxErrs) == 0 {
		semanticErrs, warnings = v.semantic.Validate(policies, snapshot)
	} else {
		warnings = append(warnings, model.ValidationWarning{
			Message:  "Semantic validation skipped due to syntax errors",
			Severity: model.WarningMedium,
		})
	}
	metrics.SemanticDurationMs = uint64(time.Since(semanticStart).Milliseconds())

	hrnStart := time.Now()
	hrnErrs := v.hrn.Validate(content)
	metrics.HrnDurationMs = uint64(time.Since(hrnStart).Milliseconds())

	if !opts.WarningsEnabled() {
		warnings = nil
	}

	info := snapshot.Info()
	result := Aggregate(syntaxErrs, semanticErrs, hrnErrs, warnings, &model.SchemaInfo{
		SchemaID:        info.SchemaID,
		Version:         info.Version,
		EntityTypeCount: info.EntityTypeCount,
		ActionCount:     info.ActionCount,
	})

	metrics.TotalDurationMs = uint64(time.Since(start).Milliseconds())
	return result, metrics, nil
}

// Parse exposes the syntax stage for callers that need the parsed form.
func (v *Validator) Parse(content string) ([]*Policy, []model.ValidationError) {
	return v.syntax.Validate(content)
}

// SemanticDiagnostics runs only the semantic stage against the default
// schema. Content that fails to parse yields no diagnostics.
func (v *Validator) SemanticDiagnostics(ctx context.Context, content string) ([]model.ValidationError, error) {
	snapshot, err := v.registry.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentra_errors.ErrConfigurationError, err)
	}
	policies, syntaxErrs := v.syntax.Validate(content)
	if len(syntaxErrs) > 0 {
		return nil, nil
	}
	errs, _ := v.semantic.Validate(policies, snapshot)
	return errs, nil
}

// Aggregate merges the three validators' outputs into one result and
// derives validity from the error lists. It is a pure merge; nothing
// runs after it on the validation path.
func Aggregate(syntaxErrs, semanticErrs, hrnErrs []model.ValidationError, warnings []model.ValidationWarning, info *model.SchemaInfo) model.PolicyValidationResult {
	result := model.PolicyValidationResult{
		SyntaxErrors:   emptyIfNil(syntaxErrs),
		SemanticErrors: emptyIfNil(semanticErrs),
		HrnErrors:      emptyIfNil(hrnErrs),
		Warnings:       warnings,
		SchemaInfo:     info,
	}
	if result.Warnings == nil {
		result.Warnings = []model.ValidationWarning{}
	}
	result.Finalize()
	return result
}

func emptyIfNil(errs []model.ValidationError) []model.ValidationError {
	if errs == nil {
		return []model.ValidationError{}
	}
	return errs
}
