// Package judge passes judge list and execution calls through to the Root
// Signals API. Judges are not cached; the catalog-once contract applies to
// evaluators only.
package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/rootsignals/root-mcp-server/internal/models"
	"github.com/rootsignals/root-mcp-server/internal/rootapi"
	"github.com/rs/zerolog"
)

// API is the slice of the Root Signals client this service needs.
type API interface {
	ListJudges(ctx context.Context, maxCount int) ([]models.JudgeInfo, error)
	RunJudge(ctx context.Context, judgeID string, params rootapi.ExecutionParams) (*models.JudgeResult, error)
}

var ErrJudgeExecutionFailed = errors.New("judge execution failed")

type Service struct {
	client    API
	maxJudges int
	logger    *zerolog.Logger
}

func NewService(client API, maxJudges int, logger *zerolog.Logger) *Service {
	return &Service{
		client:    client,
		maxJudges: maxJudges,
		logger:    logger,
	}
}

// ListJudges fetches the available judges from the API on every call.
func (s *Service) ListJudges(ctx context.Context) (models.JudgesList, error) {
	judges, err := s.client.ListJudges(ctx, s.maxJudges)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch judges")
		return models.JudgesList{}, fmt.Errorf("cannot fetch judges: %w", err)
	}

	s.logger.Info().Int("count", len(judges)).Msg("Fetched judges")
	return models.JudgesList{Judges: judges}, nil
}

func (s *Service) RunJudge(ctx context.Context, req models.RunJudgeRequest) (*models.JudgeResult, error) {
	s.logger.Debug().Str("judge_id", req.JudgeID).Str("judge_name", req.JudgeName).Msg("Running judge")

	result, err := s.client.RunJudge(ctx, req.JudgeID, rootapi.ExecutionParams{
		Request:  req.Request,
		Response: req.Response,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("judge_id", req.JudgeID).Msg("Judge execution failed")
		return nil, fmt.Errorf("%w: %v", ErrJudgeExecutionFailed, err)
	}

	s.logger.Info().
		Str("judge_id", req.JudgeID).
		Int("evaluator_results", len(result.EvaluatorResults)).
		Msg("Judge execution complete")

	return result, nil
}
