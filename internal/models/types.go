package models

// EvaluatorInfo describes one evaluator known to the Root Signals platform.
// Trimmed down version of the platform's Evaluator model.
type EvaluatorInfo struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	CreatedAt              string `json:"created_at"`
	Intent                 string `json:"intent,omitempty"`
	RequiresContexts       bool   `json:"requires_contexts"`
	RequiresExpectedOutput bool   `json:"requires_expected_output"`
}

// EvaluatorsList is the envelope returned by the list_evaluators tool.
type EvaluatorsList struct {
	Evaluators []EvaluatorInfo `json:"evaluators"`
}

// EvaluationResult is the score produced by one evaluator execution.
// Produced fresh per call, never stored.
type EvaluationResult struct {
	EvaluatorName  string  `json:"evaluator_name"`
	Score          float64 `json:"score"`
	Justification  string  `json:"justification,omitempty"`
	ExecutionLogID string  `json:"execution_log_id,omitempty"`
	Cost           float64 `json:"cost,omitempty"`
}

// JudgeInfo describes one judge known to the Root Signals platform.
type JudgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedAt   string `json:"created_at"`
	Description string `json:"description,omitempty"`
}

// JudgesList is the envelope returned by the list_judges tool.
type JudgesList struct {
	Judges []JudgeInfo `json:"judges"`
}

// JudgeEvaluatorResult is one evaluator's score within a judge run.
type JudgeEvaluatorResult struct {
	EvaluatorName string  `json:"evaluator_name"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// JudgeResult is the outcome of a judge execution.
type JudgeResult struct {
	EvaluatorResults []JudgeEvaluatorResult `json:"evaluator_results"`
}
