// Package mcpadapter exposes the evaluator and judge services as MCP tools.
// A static name-to-handler table, built once at startup, is the single
// source of truth for the tool surface on every transport.
package mcpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rootsignals/root-mcp-server/internal/evaluator"
	"github.com/rootsignals/root-mcp-server/internal/judge"
	"github.com/rootsignals/root-mcp-server/internal/models"
	"github.com/rs/zerolog"
)

// ErrUnknownTool marks a tool call whose name matches no registered tool.
// It is raised before any network call is attempted.
var ErrUnknownTool = errors.New("unknown tool")

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

type Dispatcher struct {
	evaluators *evaluator.Service
	judges     *judge.Service
	logger     *zerolog.Logger

	tools    []*mcp.Tool
	handlers map[string]toolHandler
}

func NewDispatcher(evaluators *evaluator.Service, judges *judge.Service, logger *zerolog.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		evaluators: evaluators,
		judges:     judges,
		logger:     logger,
		handlers:   make(map[string]toolHandler),
	}

	if err := errors.Join(
		addTool(d, "list_evaluators",
			"List all available evaluators from Root Signals",
			d.handleListEvaluators),
		addTool(d, "run_evaluation",
			"Run a standard evaluation using a Root Signals evaluator by ID",
			d.handleRunEvaluation),
		addTool(d, "run_evaluation_by_name",
			"Run a standard evaluation using a Root Signals evaluator by name",
			d.handleRunEvaluationByName),
		addTool(d, "run_rag_evaluation",
			"Run a RAG evaluation with contexts using a Root Signals evaluator by ID",
			d.handleRunRAGEvaluation),
		addTool(d, "run_rag_evaluation_by_name",
			"Run a RAG evaluation with contexts using a Root Signals evaluator by name",
			d.handleRunRAGEvaluationByName),
		addTool(d, "run_coding_policy_adherence",
			"Evaluate code against repository coding policy documents using a dedicated Root Signals evaluator",
			d.handleCodingPolicyAdherence),
		addTool(d, "list_judges",
			"List all available judges from Root Signals",
			d.handleListJudges),
		addTool(d, "run_judge",
			"Run a Root Signals judge by ID",
			d.handleRunJudge),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// addTool generates the input schema for the request type and wires the
// typed handler into the dispatch table.
func addTool[T any](d *Dispatcher, name string, description string, handle func(context.Context, T) (any, error)) error {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return fmt.Errorf("unable to build input schema for %s: %w", name, err)
	}

	d.tools = append(d.tools, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	})
	d.handlers[name] = func(ctx context.Context, args json.RawMessage) (any, error) {
		req, err := decode[T](args)
		if err != nil {
			return nil, err
		}
		return handle(ctx, req)
	}

	return nil
}

// Register adds every tool in the table to the MCP server. Both transports
// share one dispatcher.
func (d *Dispatcher) Register(server *mcp.Server) {
	for _, tool := range d.tools {
		name := tool.Name
		server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Dispatch(ctx, name, req.Params.Arguments)
		})
	}
}

// Tools returns the advertised tool descriptors.
func (d *Dispatcher) Tools() []*mcp.Tool {
	return d.tools
}

// Dispatch validates the arguments and routes the call. Tool failures come
// back as tool-error results, never as protocol errors.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	d.logger.Debug().Str("tool", name).Msg("Tool call")

	handler, ok := d.handlers[name]
	if !ok {
		d.logger.Warn().Str("tool", name).Msg("Unknown tool")
		return errorResult(fmt.Errorf("%w: %s", ErrUnknownTool, name)), nil
	}

	result, err := handler(ctx, args)
	if err != nil {
		d.logger.Error().Err(err).Str("tool", name).Msg("Tool call failed")
		return errorResult(err), nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("unable to encode result for %s: %w", name, err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil
}

type listEvaluatorsArgs struct{}

type listJudgesArgs struct{}

func (d *Dispatcher) handleListEvaluators(_ context.Context, _ listEvaluatorsArgs) (any, error) {
	return d.evaluators.ListEvaluators(), nil
}

func (d *Dispatcher) handleRunEvaluation(ctx context.Context, req models.EvaluationRequest) (any, error) {
	return d.evaluators.RunEvaluation(ctx, req)
}

func (d *Dispatcher) handleRunEvaluationByName(ctx context.Context, req models.EvaluationByNameRequest) (any, error) {
	return d.evaluators.RunEvaluationByName(ctx, req)
}

func (d *Dispatcher) handleRunRAGEvaluation(ctx context.Context, req models.RAGEvaluationRequest) (any, error) {
	return d.evaluators.RunRAGEvaluation(ctx, req)
}

func (d *Dispatcher) handleRunRAGEvaluationByName(ctx context.Context, req models.RAGEvaluationByNameRequest) (any, error) {
	return d.evaluators.RunRAGEvaluationByName(ctx, req)
}

func (d *Dispatcher) handleCodingPolicyAdherence(ctx context.Context, req models.CodingPolicyRequest) (any, error) {
	return d.evaluators.RunCodingPolicyAdherence(ctx, req)
}

func (d *Dispatcher) handleListJudges(ctx context.Context, _ listJudgesArgs) (any, error) {
	return d.judges.ListJudges(ctx)
}

func (d *Dispatcher) handleRunJudge(ctx context.Context, req models.RunJudgeRequest) (any, error) {
	return d.judges.RunJudge(ctx, req)
}

// decode unmarshals tool arguments strictly: unknown fields are rejected and
// the request's own validation runs before any outbound call.
func decode[T any](args json.RawMessage) (T, error) {
	var req T
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %v", models.ErrInvalidParameters, err)
	}

	if v, ok := any(req).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return req, err
		}
	}

	return req, nil
}

// errorResult wraps a tool failure as an {"error": ...} text payload so the
// calling client sees it as a tool-error result.
func errorResult(err error) *mcp.CallToolResult {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
		IsError: true,
	}
}
