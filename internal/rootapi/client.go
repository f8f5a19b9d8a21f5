package rootapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rootsignals/root-mcp-server/internal/models"
	"github.com/rs/zerolog"
)

// ExecutionParams is the payload shared by evaluator and judge executions.
// Contexts and ExpectedOutput are sent only when present.
type ExecutionParams struct {
	Request        string   `json:"request"`
	Response       string   `json:"response"`
	Contexts       []string `json:"contexts,omitempty"`
	ExpectedOutput string   `json:"expected_output,omitempty"`
}

// Client is a minimal HTTP client for the Root Signals API. It performs
// exactly one request per operation: no retries, no caching.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(apiKey string, baseURL string, timeout time.Duration, version string, logger *zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Root Signals API key is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("Root Signals API URL is required")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  fmt.Sprintf("root-signals-mcp/%s", version),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// ListEvaluators fetches up to maxCount evaluators, following cursor
// pagination until the limit is reached or no next page remains.
func (c *Client) ListEvaluators(ctx context.Context, maxCount int) ([]models.EvaluatorInfo, error) {
	evaluators := make([]models.EvaluatorInfo, 0, maxCount)
	nextPath := "/v1/evaluators"

	for nextPath != "" && len(evaluators) < maxCount {
		raw, err := c.do(ctx, http.MethodGet, nextPath, nil)
		if err != nil {
			return nil, err
		}

		page, err := parseEvaluatorPage(raw)
		if err != nil {
			return nil, err
		}

		evaluators = append(evaluators, page.evaluators...)
		c.logger.Debug().
			Int("page_size", len(page.evaluators)).
			Int("total", len(evaluators)).
			Msg("Fetched evaluator page")

		if len(page.evaluators) == 0 {
			break
		}
		nextPath = relativePath(page.next)
	}

	if len(evaluators) > maxCount {
		evaluators = evaluators[:maxCount]
	}

	return evaluators, nil
}

// RunEvaluator executes the evaluator with the given ID. One outbound call,
// remote failures are terminal for the invocation.
func (c *Client) RunEvaluator(ctx context.Context, evaluatorID string, params ExecutionParams) (*models.EvaluationResult, error) {
	path := fmt.Sprintf("/v1/evaluators/execute/%s/", evaluatorID)

	raw, err := c.do(ctx, http.MethodPost, path, params)
	if err != nil {
		return nil, err
	}

	return parseEvaluationResult(raw)
}

// ListJudges fetches up to maxCount judges.
func (c *Client) ListJudges(ctx context.Context, maxCount int) ([]models.JudgeInfo, error) {
	judges := make([]models.JudgeInfo, 0, maxCount)
	nextPath := "/v1/judges"

	for nextPath != "" && len(judges) < maxCount {
		raw, err := c.do(ctx, http.MethodGet, nextPath, nil)
		if err != nil {
			return nil, err
		}

		var page struct {
			Next    string             `json:"next"`
			Results []models.JudgeInfo `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("could not parse judges response: %v", err)}
		}
		if page.Results == nil {
			return nil, &ValidationError{Message: "could not find 'results' field in judges response"}
		}

		judges = append(judges, page.Results...)
		if len(page.Results) == 0 {
			break
		}
		nextPath = relativePath(page.Next)
	}

	if len(judges) > maxCount {
		judges = judges[:maxCount]
	}

	return judges, nil
}

// RunJudge executes the judge with the given ID.
func (c *Client) RunJudge(ctx context.Context, judgeID string, params ExecutionParams) (*models.JudgeResult, error) {
	path := fmt.Sprintf("/v1/judges/%s/execute/", judgeID)

	raw, err := c.do(ctx, http.MethodPost, path, params)
	if err != nil {
		return nil, err
	}

	data := unwrapResult(raw)

	var result models.JudgeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("could not parse judge result: %v", err)}
	}
	if result.EvaluatorResults == nil {
		return nil, &ValidationError{Message: "missing required field in judge response: 'evaluator_results'"}
	}

	return &result, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to encode request payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("method", method).Str("url", reqURL).Msg("Calling Root Signals API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Detail: fmt.Sprintf("connection error: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("unable to read response body: %v", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data, resp.StatusCode)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("{}"), nil
	}

	return data, nil
}

// errorDetail extracts the "detail" field the API uses for error messages,
// falling back to the raw body.
func errorDetail(body []byte, statusCode int) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

type evaluatorPage struct {
	next       string
	evaluators []models.EvaluatorInfo
}

func parseEvaluatorPage(raw json.RawMessage) (*evaluatorPage, error) {
	var page struct {
		Next    string            `json:"next"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("could not parse evaluators response: %v", err)}
	}
	if page.Results == nil {
		return nil, &ValidationError{Message: "could not find 'results' field in evaluators response"}
	}

	evaluators := make([]models.EvaluatorInfo, 0, len(page.Results))
	for i, item := range page.Results {
		info, err := parseEvaluator(item)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("evaluator at index %d: %v", i, err)}
		}
		evaluators = append(evaluators, *info)
	}

	return &evaluatorPage{next: page.Next, evaluators: evaluators}, nil
}

func parseEvaluator(raw json.RawMessage) (*models.EvaluatorInfo, error) {
	var payload struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
		Objective *struct {
			Intent string `json:"intent"`
		} `json:"objective"`
		RequiresContexts       bool `json:"requires_contexts"`
		RequiresExpectedOutput bool `json:"requires_expected_output"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("missing required field: 'id'")
	}
	if payload.Name == "" {
		return nil, fmt.Errorf("missing required field: 'name'")
	}

	info := &models.EvaluatorInfo{
		ID:                     payload.ID,
		Name:                   payload.Name,
		CreatedAt:              payload.CreatedAt,
		RequiresContexts:       payload.RequiresContexts,
		RequiresExpectedOutput: payload.RequiresExpectedOutput,
	}
	if payload.Objective != nil {
		info.Intent = payload.Objective.Intent
	}

	return info, nil
}

func parseEvaluationResult(raw json.RawMessage) (*models.EvaluationResult, error) {
	data := unwrapResult(raw)

	var payload struct {
		EvaluatorName  *string  `json:"evaluator_name"`
		Score          *float64 `json:"score"`
		Justification  string   `json:"justification"`
		ExecutionLogID string   `json:"execution_log_id"`
		Cost           float64  `json:"cost"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("could not parse evaluation result: %v", err)}
	}
	if payload.EvaluatorName == nil {
		return nil, &ValidationError{Message: "missing required field in evaluation response: 'evaluator_name'"}
	}
	if payload.Score == nil {
		return nil, &ValidationError{Message: "missing required field in evaluation response: 'score'"}
	}

	return &models.EvaluationResult{
		EvaluatorName:  *payload.EvaluatorName,
		Score:          *payload.Score,
		Justification:  payload.Justification,
		ExecutionLogID: payload.ExecutionLogID,
		Cost:           payload.Cost,
	}, nil
}

// unwrapResult unwraps the optional {"result": {...}} envelope some execute
// endpoints return.
func unwrapResult(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Result) > 0 && string(envelope.Result) != "null" {
		return envelope.Result
	}
	return raw
}

// relativePath strips the scheme and host from an absolute pagination URL so
// the next request goes through the configured base URL.
func relativePath(next string) string {
	if next == "" {
		return ""
	}
	if !strings.HasPrefix(next, "http") {
		return next
	}
	parsed, err := url.Parse(next)
	if err != nil {
		return ""
	}
	path := parsed.Path
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return path
}
