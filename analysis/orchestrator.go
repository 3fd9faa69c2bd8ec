// analysis/orchestrator.go
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sentra-iam/sentra/config"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/validation"
)

// Orchestrator runs the full conflict analysis pipeline: direct
// conflict detection, permission overlap analysis, and the optional
// redundancy and reachability passes, with per-step metrics and
// post-run performance threshold checks.
type Orchestrator struct {
	conflicts     ConflictDetector
	overlaps      OverlapAnalyzer
	redundancies  RedundancyDetector
	unreachable   UnreachabilityDetector
	suggester     ResolutionSuggester
	metrics       MetricsCollector
	configService ConfigProvider
}

func NewOrchestrator(
	conflicts ConflictDetector,
	overlaps OverlapAnalyzer,
	redundancies RedundancyDetector,
	unreachable UnreachabilityDetector,
	suggester ResolutionSuggester,
	metrics MetricsCollector,
	configService ConfigProvider,
) *Orchestrator {
	return &Orchestrator{
		conflicts:     conflicts,
		overlaps:      overlaps,
		redundancies:  redundancies,
		unreachable:   unreachable,
		suggester:     suggester,
		metrics:       metrics,
		configService: configService,
	}
}

// NewDefaultOrchestrator wires the built-in detector implementations
// around a shared policy validator.
func NewDefaultOrchestrator(validator *validation.Validator) *Orchestrator {
	return NewOrchestrator(
		NewContradictionDetector(validator),
		NewPatternOverlapAnalyzer(),
		NewSimilarityRedundancyDetector(),
		NewOrderBasedUnreachabilityDetector(),
		NewCannedResolutionSuggester(),
		NewInMemoryMetricsCollector(),
		NewViperConfigProvider(),
	)
}

// Execute runs a conflict analysis over the given policies. Options may
// be nil, in which case the configured defaults apply. The returned
// metrics cover the completed run even when a threshold error is
// reported.
func (o *Orchestrator) Execute(ctx context.Context, policies []model.PolicyForAnalysis, opts *model.AnalysisOptions) (model.ConflictAnalysis, model.ConflictAnalysisMetrics, error) {
	operationID := uuid.New().String()

	if len(policies) == 0 {
		return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
			fmt.Errorf("%w: At least one policy is required for conflict analysis", sentra_errors.ErrValidationFailed)
	}
	maxPolicies := o.configService.MaxPolicies()
	if len(policies) > maxPolicies {
		return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
			fmt.Errorf("%w: Too many policies for analysis (maximum %d)", sentra_errors.ErrTooManyPolicies, maxPolicies)
	}

	if opts == nil {
		defaults := o.configService.DefaultOptions()
		opts = &defaults
	}

	logger.Info(fmt.Sprintf("Starting conflict analysis %s over %d policies", operationID, len(policies)))
	o.metrics.StartAnalysis(operationID)
	started := time.Now()

	analysis := model.ConflictAnalysis{
		Conflicts:           []model.PolicyConflict{},
		Redundancies:        []model.PolicyRedundancy{},
		UnreachablePolicies: []model.UnreachablePolicy{},
	}

	stepStart := time.Now()
	direct, err := o.conflicts.DetectDirectConflicts(ctx, policies)
	o.metrics.RecordStep(operationID, "direct_conflicts", uint64(time.Since(stepStart).Milliseconds()))
	if err != nil {
		o.metrics.FinishAnalysis(operationID)
		return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
			fmt.Errorf("%w: direct conflict detection: %v", sentra_errors.ErrAnalysisFailed, err)
	}
	analysis.Conflicts = append(analysis.Conflicts, direct...)

	stepStart = time.Now()
	overlapping, err := o.overlaps.AnalyzePermissionOverlaps(ctx, policies)
	o.metrics.RecordStep(operationID, "permission_overlaps", uint64(time.Since(stepStart).Milliseconds()))
	if err != nil {
		o.metrics.FinishAnalysis(operationID)
		return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
			fmt.Errorf("%w: permission overlap analysis: %v", sentra_errors.ErrAnalysisFailed, err)
	}
	analysis.Conflicts = append(analysis.Conflicts, overlapping...)

	if opts.RedundanciesEnabled() {
		stepStart = time.Now()
		redundancies, err := o.redundancies.DetectRedundancies(ctx, policies, opts.Threshold(o.configService.RedundancyThreshold()))
		o.metrics.RecordStep(operationID, "redundancy_analysis", uint64(time.Since(stepStart).Milliseconds()))
		if err != nil {
			o.metrics.FinishAnalysis(operationID)
			return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
				fmt.Errorf("%w: redundancy analysis: %v", sentra_errors.ErrAnalysisFailed, err)
		}
		analysis.Redundancies = redundancies
	}

	if opts.UnreachableEnabled() {
		stepStart = time.Now()
		unreachable, err := o.unreachable.DetectUnreachablePolicies(ctx, policies)
		o.metrics.RecordStep(operationID, "reachability_analysis", uint64(time.Since(stepStart).Milliseconds()))
		if err != nil {
			o.metrics.FinishAnalysis(operationID)
			return model.ConflictAnalysis{}, model.ConflictAnalysisMetrics{},
				fmt.Errorf("%w: reachability analysis: %v", sentra_errors.ErrAnalysisFailed, err)
		}
		analysis.UnreachablePolicies = unreachable
	}

	if opts.ExplanationsEnabled() {
		o.backfillExplanations(&analysis)
	}

	n := uint64(len(policies))
	combinations := n*(n-1)/2 + n*n
	o.metrics.RecordCombinations(operationID, combinations)

	analysis.Summary = summarize(len(policies), &analysis)

	metrics := o.metrics.FinishAnalysis(operationID)
	metrics.TotalDurationMs = uint64(time.Since(started).Milliseconds())

	if metrics.TotalDurationMs > o.configService.PerformanceThresholds().WarningTimeMs {
		logger.Warn(fmt.Sprintf("Conflict analysis %s took %dms", operationID, metrics.TotalDurationMs))
	}
	if err := o.checkThresholds(metrics); err != nil {
		return analysis, metrics, err
	}

	logger.Info(fmt.Sprintf("Conflict analysis %s complete: %d conflicts, %d redundancies, %d unreachable",
		operationID, len(analysis.Conflicts), len(analysis.Redundancies), len(analysis.UnreachablePolicies)))
	return analysis, metrics, nil
}

// backfillExplanations fills empty resolution and explanation fields
// from the suggester. Detector-provided text is never overwritten.
func (o *Orchestrator) backfillExplanations(analysis *model.ConflictAnalysis) {
	for i := range analysis.Conflicts {
		if analysis.Conflicts[i].SuggestedResolution == "" {
			analysis.Conflicts[i].SuggestedResolution = o.suggester.SuggestConflictResolution(&analysis.Conflicts[i])
		}
	}
	for i := range analysis.Redundancies {
		if analysis.Redundancies[i].Explanation == "" {
			analysis.Redundancies[i].Explanation = o.suggester.ExplainRedundancy(&analysis.Redundancies[i])
		}
	}
	for i := range analysis.UnreachablePolicies {
		if analysis.UnreachablePolicies[i].Explanation == "" {
			analysis.UnreachablePolicies[i].Explanation = o.suggester.ExplainUnreachability(&analysis.UnreachablePolicies[i])
		}
	}
}

func summarize(totalPolicies int, analysis *model.ConflictAnalysis) model.ConflictSummary {
	summary := model.ConflictSummary{
		TotalPolicies:     totalPolicies,
		TotalConflicts:    len(analysis.Conflicts),
		TotalRedundancies: len(analysis.Redundancies),
		TotalUnreachable:  len(analysis.UnreachablePolicies),
	}
	if totalPolicies > 0 {
		issues := float64(summary.TotalConflicts + summary.TotalRedundancies + summary.TotalUnreachable)
		score := issues / float64(totalPolicies)
		if score > 1.0 {
			score = 1.0
		}
		summary.ConflictScore = score
	}
	return summary
}

func (o *Orchestrator) checkThresholds(metrics model.ConflictAnalysisMetrics) error {
	thresholds := o.configService.PerformanceThresholds()
	if metrics.TotalDurationMs > thresholds.MaxAnalysisTimeMs {
		return fmt.Errorf("%w: Conflict analysis exceeded maximum time threshold: %dms > %dms",
			sentra_errors.ErrThresholdExceeded, metrics.TotalDurationMs, thresholds.MaxAnalysisTimeMs)
	}
	if thresholds.MaxMemoryBytes != nil && metrics.MemoryUsageBytes != nil && *metrics.MemoryUsageBytes > *thresholds.MaxMemoryBytes {
		return fmt.Errorf("%w: Conflict analysis exceeded maximum memory threshold: %d bytes > %d bytes",
			sentra_errors.ErrThresholdExceeded, *metrics.MemoryUsageBytes, *thresholds.MaxMemoryBytes)
	}
	if metrics.CombinationsAnalyzed > thresholds.MaxCombinations {
		return fmt.Errorf("%w: Conflict analysis exceeded maximum combinations threshold: %d > %d",
			sentra_errors.ErrThresholdExceeded, metrics.CombinationsAnalyzed, thresholds.MaxCombinations)
	}
	return nil
}

// ViperConfigProvider reads engine tuning values from the application
// configuration.
type ViperConfigProvider struct{}

func NewViperConfigProvider() *ViperConfigProvider {
	return &ViperConfigProvider{}
}

func (p *ViperConfigProvider) DefaultOptions() model.AnalysisOptions {
	return model.AnalysisOptions{}
}

func (p *ViperConfigProvider) AnalysisTimeoutMs() uint64 {
	return config.GetUint64("analysis.maxAnalysisTimeMs")
}

func (p *ViperConfigProvider) PerformanceThresholds() model.PerformanceThresholds {
	thresholds := model.DefaultPerformanceThresholds()
	if v := config.GetUint64("analysis.maxAnalysisTimeMs"); v > 0 {
		thresholds.MaxAnalysisTimeMs = v
	}
	if v := config.GetUint64("analysis.warningTimeMs"); v > 0 {
		thresholds.WarningTimeMs = v
	}
	if v := config.GetUint64("analysis.maxCombinations"); v > 0 {
		thresholds.MaxCombinations = v
	}
	return thresholds
}

func (p *ViperConfigProvider) RedundancyThreshold() float64 {
	if v := config.GetFloat64("analysis.redundancyThreshold"); v > 0 {
		return v
	}
	return 0.8
}

func (p *ViperConfigProvider) MaxPolicies() int {
	if v := config.GetInt("analysis.maxPolicies"); v > 0 {
		return v
	}
	return 1000
}
