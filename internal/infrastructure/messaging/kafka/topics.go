// Package kafka publishes analysis lifecycle events.
package kafka

// Topic names.  Topics are pre-created by deployment tooling; the producer
// never auto-creates them.
const (
	// TopicAnalysisCompleted carries one event per finished contract
	// analysis, consumed by downstream reporting pipelines.
	TopicAnalysisCompleted = "contract.analysis.completed"
)

// AnalysisCompletedEvent is the payload published to TopicAnalysisCompleted.
type AnalysisCompletedEvent struct {
	AnalysisID     string `json:"analysis_id"`
	Classification string `json:"classification"`
	RiskScore      int    `json:"risk_score"`
	Strength       string `json:"strength"`
	TextLength     int    `json:"text_length"`
	AnalyzedAt     string `json:"analyzed_at"`
}
