package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParameters marks a tool call whose arguments are missing or
// malformed. The wrapped message names the offending field.
var ErrInvalidParameters = errors.New("invalid parameters")

// EvaluationRequest runs an evaluator by its opaque ID.
type EvaluationRequest struct {
	EvaluatorID string `json:"evaluator_id" jsonschema:"The ID of the evaluator to use"`
	Request     string `json:"request" jsonschema:"The user query to evaluate"`
	Response    string `json:"response" jsonschema:"The AI assistant's response to evaluate"`
}

func (r EvaluationRequest) Validate() error {
	if strings.TrimSpace(r.EvaluatorID) == "" {
		return fmt.Errorf("%w: evaluator_id cannot be empty", ErrInvalidParameters)
	}
	return validateRequestResponse(r.Request, r.Response)
}

// EvaluationByNameRequest runs an evaluator referenced by its exact name as
// returned by list_evaluators, including spaces and special characters.
type EvaluationByNameRequest struct {
	EvaluatorName string `json:"evaluator_name" jsonschema:"The EXACT name of the evaluator as returned by the list_evaluators tool"`
	Request       string `json:"request" jsonschema:"The user query to evaluate"`
	Response      string `json:"response" jsonschema:"The AI assistant's response to evaluate"`
}

func (r EvaluationByNameRequest) Validate() error {
	if strings.TrimSpace(r.EvaluatorName) == "" {
		return fmt.Errorf("%w: evaluator_name cannot be empty", ErrInvalidParameters)
	}
	return validateRequestResponse(r.Request, r.Response)
}

// RAGEvaluationRequest runs a context-requiring evaluator by ID.
type RAGEvaluationRequest struct {
	EvaluatorID string   `json:"evaluator_id" jsonschema:"The ID of the evaluator to use"`
	Request     string   `json:"request" jsonschema:"The user query to evaluate"`
	Response    string   `json:"response" jsonschema:"The AI assistant's response to evaluate"`
	Contexts    []string `json:"contexts" jsonschema:"List of required context strings for evaluation"`
}

func (r RAGEvaluationRequest) Validate() error {
	if strings.TrimSpace(r.EvaluatorID) == "" {
		return fmt.Errorf("%w: evaluator_id cannot be empty", ErrInvalidParameters)
	}
	if err := validateRequestResponse(r.Request, r.Response); err != nil {
		return err
	}
	return validateContexts(r.Contexts)
}

// RAGEvaluationByNameRequest runs a context-requiring evaluator by name.
type RAGEvaluationByNameRequest struct {
	EvaluatorName string   `json:"evaluator_name" jsonschema:"The EXACT name of the evaluator as returned by the list_evaluators tool"`
	Request       string   `json:"request" jsonschema:"The user query to evaluate"`
	Response      string   `json:"response" jsonschema:"The AI assistant's response to evaluate"`
	Contexts      []string `json:"contexts" jsonschema:"List of required context strings for evaluation"`
}

func (r RAGEvaluationByNameRequest) Validate() error {
	if strings.TrimSpace(r.EvaluatorName) == "" {
		return fmt.Errorf("%w: evaluator_name cannot be empty", ErrInvalidParameters)
	}
	if err := validateRequestResponse(r.Request, r.Response); err != nil {
		return err
	}
	return validateContexts(r.Contexts)
}

// CodingPolicyRequest scores code against policy documents using the
// pre-configured coding policy evaluator.
type CodingPolicyRequest struct {
	PolicyDocuments []string `json:"policy_documents" jsonschema:"The policy documents which describe the coding policy, such as cursor rules file contents"`
	Code            string   `json:"code" jsonschema:"The code to evaluate"`
	Request         string   `json:"request,omitempty" jsonschema:"Optional override for the evaluation request text"`
}

func (r CodingPolicyRequest) Validate() error {
	if len(r.PolicyDocuments) == 0 {
		return fmt.Errorf("%w: policy_documents cannot be empty", ErrInvalidParameters)
	}
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidParameters)
	}
	return nil
}

// RunJudgeRequest executes a judge by its opaque ID.
type RunJudgeRequest struct {
	JudgeID   string `json:"judge_id" jsonschema:"The ID of the judge to use"`
	JudgeName string `json:"judge_name,omitempty" jsonschema:"The name of the judge, only used for logging"`
	Request   string `json:"request" jsonschema:"The user query to evaluate"`
	Response  string `json:"response" jsonschema:"The AI assistant's response to evaluate"`
}

func (r RunJudgeRequest) Validate() error {
	if strings.TrimSpace(r.JudgeID) == "" {
		return fmt.Errorf("%w: judge_id cannot be empty", ErrInvalidParameters)
	}
	return validateRequestResponse(r.Request, r.Response)
}

func validateRequestResponse(request, response string) error {
	if strings.TrimSpace(request) == "" {
		return fmt.Errorf("%w: request cannot be empty", ErrInvalidParameters)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("%w: response cannot be empty", ErrInvalidParameters)
	}
	return nil
}

func validateContexts(contexts []string) error {
	if len(contexts) == 0 {
		return fmt.Errorf("%w: contexts cannot be empty", ErrInvalidParameters)
	}
	return nil
}
