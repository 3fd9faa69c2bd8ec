// analysis/metrics.go
package analysis

import (
	"sync"

	"github.com/sentra-iam/sentra/model"
)

// InMemoryMetricsCollector keeps one metrics record per in-flight
// operation id. Finishing an operation removes and returns its record.
type InMemoryMetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*model.ConflictAnalysisMetrics
}

func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		metrics: make(map[string]*model.ConflictAnalysisMetrics),
	}
}

// StartAnalysis opens a fresh metrics record for the operation.
func (c *InMemoryMetricsCollector) StartAnalysis(operationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[operationID] = &model.ConflictAnalysisMetrics{}
}

// RecordStep stores a step duration. Unknown step names are ignored.
func (c *InMemoryMetricsCollector) RecordStep(operationID, step string, durationMs uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.metrics[operationID]
	if !ok {
		return
	}
	switch step {
	case "direct_conflicts":
		record.ConflictDetectionMs = durationMs
	case "redundancy_analysis":
		record.RedundancyAnalysisMs = durationMs
	case "reachability_analysis":
		record.ReachabilityAnalysisMs = durationMs
	}
}

// RecordCombinations stores the combination count for the operation.
func (c *InMemoryMetricsCollector) RecordCombinations(operationID string, count uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if record, ok := c.metrics[operationID]; ok {
		record.CombinationsAnalyzed = count
	}
}

// FinishAnalysis closes the operation and returns its record. An unknown
// operation id yields a zero record.
func (c *InMemoryMetricsCollector) FinishAnalysis(operationID string) model.ConflictAnalysisMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.metrics[operationID]
	if !ok {
		return model.ConflictAnalysisMetrics{}
	}
	delete(c.metrics, operationID)
	return *record
}
