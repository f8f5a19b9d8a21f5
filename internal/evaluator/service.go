// Package evaluator adapts validated tool requests into Root Signals API
// calls and reshapes the results. Each invocation performs exactly one
// outbound call: no retries, no caching, no partial results.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rootsignals/root-mcp-server/internal/config"
	"github.com/rootsignals/root-mcp-server/internal/models"
	"github.com/rootsignals/root-mcp-server/internal/rootapi"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// API is the slice of the Root Signals client this service needs.
// This allows mocking in tests without making real API calls.
type API interface {
	RunEvaluator(ctx context.Context, evaluatorID string, params rootapi.ExecutionParams) (*models.EvaluationResult, error)
}

// Resolver answers name lookups against the startup catalog snapshot.
type Resolver interface {
	Resolve(name string) (string, error)
	List() []models.EvaluatorInfo
}

// ErrEvaluationFailed marks a remote evaluation that could not complete:
// network error, non-2xx status, or malformed payload. Terminal for the
// invocation, never retried.
var ErrEvaluationFailed = errors.New("evaluation failed")

type Service struct {
	client  API
	catalog Resolver
	policy  config.CodingPolicy
	logger  *zerolog.Logger
}

func NewService(client API, catalog Resolver, policy config.CodingPolicy, logger *zerolog.Logger) *Service {
	return &Service{
		client:  client,
		catalog: catalog,
		policy:  policy,
		logger:  logger,
	}
}

// ListEvaluators returns the catalog snapshot. No outbound call.
func (s *Service) ListEvaluators() models.EvaluatorsList {
	return models.EvaluatorsList{Evaluators: s.catalog.List()}
}

func (s *Service) RunEvaluation(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	return s.execute(ctx, req.EvaluatorID, rootapi.ExecutionParams{
		Request:  req.Request,
		Response: req.Response,
	})
}

// RunEvaluationByName resolves the evaluator name against the catalog and
// then runs the same by-id path. UnknownEvaluatorName propagates unchanged.
func (s *Service) RunEvaluationByName(ctx context.Context, req models.EvaluationByNameRequest) (*models.EvaluationResult, error) {
	evaluatorID, err := s.catalog.Resolve(req.EvaluatorName)
	if err != nil {
		return nil, err
	}

	return s.execute(ctx, evaluatorID, rootapi.ExecutionParams{
		Request:  req.Request,
		Response: req.Response,
	})
}

func (s *Service) RunRAGEvaluation(ctx context.Context, req models.RAGEvaluationRequest) (*models.EvaluationResult, error) {
	return s.execute(ctx, req.EvaluatorID, rootapi.ExecutionParams{
		Request:  req.Request,
		Response: req.Response,
		Contexts: req.Contexts,
	})
}

func (s *Service) RunRAGEvaluationByName(ctx context.Context, req models.RAGEvaluationByNameRequest) (*models.EvaluationResult, error) {
	evaluatorID, err := s.catalog.Resolve(req.EvaluatorName)
	if err != nil {
		return nil, err
	}

	return s.execute(ctx, evaluatorID, rootapi.ExecutionParams{
		Request:  req.Request,
		Response: req.Response,
		Contexts: req.Contexts,
	})
}

// RunCodingPolicyAdherence scores code against policy documents using the
// configured evaluator. Policy documents travel as contexts, the code as the
// response under evaluation.
func (s *Service) RunCodingPolicyAdherence(ctx context.Context, req models.CodingPolicyRequest) (*models.EvaluationResult, error) {
	request := s.policy.EvaluatorRequest
	if req.Request != "" {
		request = req.Request
	}

	return s.execute(ctx, s.policy.EvaluatorID, rootapi.ExecutionParams{
		Request:  request,
		Response: req.Code,
		Contexts: req.PolicyDocuments,
	})
}

func (s *Service) execute(ctx context.Context, evaluatorID string, params rootapi.ExecutionParams) (*models.EvaluationResult, error) {
	s.logger.Debug().Str("evaluator_id", evaluatorID).Msg("Running evaluation")

	result, err := s.client.RunEvaluator(ctx, evaluatorID, params)
	if err != nil {
		s.logger.Error().Err(err).Str("evaluator_id", evaluatorID).Msg("Evaluation failed")
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	s.logger.Info().
		Str("evaluator_id", evaluatorID).
		Str("evaluator_name", result.EvaluatorName).
		Float64("score", result.Score).
		Msg("Evaluation complete")

	return result, nil
}
