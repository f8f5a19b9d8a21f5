package models

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluationRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         EvaluationRequest
		expectField string
	}{
		{
			name: "valid",
			req:  EvaluationRequest{EvaluatorID: "eval-1", Request: "Q", Response: "A"},
		},
		{
			name:        "missing evaluator id",
			req:         EvaluationRequest{Request: "Q", Response: "A"},
			expectField: "evaluator_id",
		},
		{
			name:        "whitespace request",
			req:         EvaluationRequest{EvaluatorID: "eval-1", Request: "   ", Response: "A"},
			expectField: "request",
		},
		{
			name:        "empty response",
			req:         EvaluationRequest{EvaluatorID: "eval-1", Request: "Q"},
			expectField: "response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.expectField) {
				t.Errorf("error should name field %q: %v", tt.expectField, err)
			}
		})
	}
}

func TestRAGEvaluationRequest_Validate(t *testing.T) {
	valid := RAGEvaluationRequest{EvaluatorID: "eval-1", Request: "Q", Response: "A", Contexts: []string{"doc"}}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	empty := RAGEvaluationRequest{EvaluatorID: "eval-1", Request: "Q", Response: "A"}
	err := empty.Validate()
	if !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	if !strings.Contains(err.Error(), "contexts") {
		t.Errorf("error should name the contexts field: %v", err)
	}
}

func TestCodingPolicyRequest_Validate(t *testing.T) {
	valid := CodingPolicyRequest{PolicyDocuments: []string{"policy"}, Code: "package main"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noDocs := CodingPolicyRequest{Code: "package main"}
	if err := noDocs.Validate(); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}

	noCode := CodingPolicyRequest{PolicyDocuments: []string{"policy"}}
	if err := noCode.Validate(); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestRunJudgeRequest_Validate(t *testing.T) {
	valid := RunJudgeRequest{JudgeID: "judge-1", Request: "Q", Response: "A"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noID := RunJudgeRequest{Request: "Q", Response: "A"}
	if err := noID.Validate(); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}
