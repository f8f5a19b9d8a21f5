package rootapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient("test-key", baseURL, 5*time.Second, "test", testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "https://api.example.com", time.Second, "test", testLogger()); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestClient_ListEvaluators_Pagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "Api-Key test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}

		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{
				"next": "http://ignored-host/v1/evaluators?page=2",
				"results": [
					{"id": "eval-1", "name": "Clarity", "created_at": "2024-01-01T00:00:00Z",
					 "objective": {"intent": "clarity of writing"},
					 "requires_contexts": false, "requires_expected_output": false}
				]
			}`)
		case "2":
			fmt.Fprint(w, `{
				"next": null,
				"results": [
					{"id": "eval-2", "name": "Faithfulness", "created_at": "2024-01-02T00:00:00Z",
					 "requires_contexts": true, "requires_expected_output": false}
				]
			}`)
		default:
			t.Errorf("unexpected page: %q", r.URL.RawQuery)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	evaluators, err := client.ListEvaluators(context.Background(), 40)
	if err != nil {
		t.Fatalf("ListEvaluators: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected 2 page fetches, got %d", requests)
	}
	if len(evaluators) != 2 {
		t.Fatalf("expected 2 evaluators, got %d", len(evaluators))
	}
	if evaluators[0].Intent != "clarity of writing" {
		t.Errorf("intent not extracted from objective: %+v", evaluators[0])
	}
	if !evaluators[1].RequiresContexts {
		t.Errorf("requires_contexts lost: %+v", evaluators[1])
	}
}

func TestClient_ListEvaluators_MaxCountStopsPagination(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, `{
			"next": "/v1/evaluators?page=%d",
			"results": [
				{"id": "eval-%d", "name": "Evaluator %d", "created_at": "2024-01-01T00:00:00Z"}
			]
		}`, requests+1, requests, requests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	evaluators, err := client.ListEvaluators(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListEvaluators: %v", err)
	}
	if len(evaluators) != 2 {
		t.Errorf("expected 2 evaluators, got %d", len(evaluators))
	}
	if requests != 2 {
		t.Errorf("expected pagination to stop at the limit, got %d fetches", requests)
	}
}

func TestClient_ListEvaluators_MissingResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected": true}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.ListEvaluators(context.Background(), 40)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestClient_RunEvaluator(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "bare result",
			body:     `{"evaluator_name": "Clarity", "score": 0.9, "justification": "clear"}`,
			expected: "Clarity",
		},
		{
			name:     "result envelope",
			body:     `{"result": {"evaluator_name": "Clarity", "score": 0.9, "justification": "clear"}}`,
			expected: "Clarity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/evaluators/execute/eval-1/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}

				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Fatalf("decode payload: %v", err)
				}
				if payload["request"] != "Q" || payload["response"] != "A" {
					t.Errorf("unexpected payload: %v", payload)
				}
				if _, ok := payload["contexts"]; ok {
					t.Error("contexts should be omitted when empty")
				}

				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			result, err := client.RunEvaluator(context.Background(), "eval-1", ExecutionParams{
				Request:  "Q",
				Response: "A",
			})
			if err != nil {
				t.Fatalf("RunEvaluator: %v", err)
			}
			if result.EvaluatorName != tt.expected || result.Score != 0.9 {
				t.Errorf("unexpected result: %+v", result)
			}
		})
	}
}

func TestClient_RunEvaluator_ServerErrorNoRetry(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"detail": "evaluator exploded"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.RunEvaluator(context.Background(), "eval-1", ExecutionParams{Request: "Q", Response: "A"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "evaluator exploded" {
		t.Errorf("detail not extracted: %q", apiErr.Detail)
	}
	if requests != 1 {
		t.Errorf("expected exactly one outbound call, got %d", requests)
	}
}

func TestClient_RunEvaluator_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing score", body: `{"evaluator_name": "Clarity"}`},
		{name: "missing evaluator_name", body: `{"score": 0.5}`},
		{name: "score is not a number", body: `{"evaluator_name": "Clarity", "score": "high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.RunEvaluator(context.Background(), "eval-1", ExecutionParams{Request: "Q", Response: "A"})
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestClient_ConnectionError(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	_, err := client.RunEvaluator(context.Background(), "eval-1", ExecutionParams{Request: "Q", Response: "A"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("expected status 0 for connection errors, got %d", apiErr.StatusCode)
	}
}

func TestClient_RunJudge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/judges/judge-1/execute/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"evaluator_results": [{"evaluator_name": "Clarity", "score": 0.7, "justification": "fine"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.RunJudge(context.Background(), "judge-1", ExecutionParams{Request: "Q", Response: "A"})
	if err != nil {
		t.Fatalf("RunJudge: %v", err)
	}
	if len(result.EvaluatorResults) != 1 || result.EvaluatorResults[0].Score != 0.7 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestClient_ListJudges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"next": null, "results": [{"id": "judge-1", "name": "Helpfulness", "created_at": "2024-01-01T00:00:00Z"}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	judges, err := client.ListJudges(context.Background(), 30)
	if err != nil {
		t.Fatalf("ListJudges: %v", err)
	}
	if len(judges) != 1 || judges[0].ID != "judge-1" {
		t.Errorf("unexpected judges: %+v", judges)
	}
}
