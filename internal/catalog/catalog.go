// Package catalog holds the process-wide snapshot of evaluators known to the
// Root Signals platform. The snapshot is fetched exactly once at startup and
// is immutable afterwards, so concurrent reads need no locking.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rootsignals/root-mcp-server/internal/models"
	"github.com/rs/zerolog"
)

// Lister fetches evaluator descriptors from the remote API.
type Lister interface {
	ListEvaluators(ctx context.Context, maxCount int) ([]models.EvaluatorInfo, error)
}

var (
	// ErrUnavailable means the evaluator list could not be fetched at
	// startup. Fatal: the server cannot advertise tools without it.
	ErrUnavailable = errors.New("evaluator catalog unavailable")

	// ErrUnknownEvaluatorName means no evaluator with the exact given name
	// exists in the snapshot. No fuzzy matching.
	ErrUnknownEvaluatorName = errors.New("unknown evaluator name")
)

type Catalog struct {
	client        Lister
	maxEvaluators int
	logger        *zerolog.Logger

	evaluators []models.EvaluatorInfo
	byName     map[string]string
}

func New(client Lister, maxEvaluators int, logger *zerolog.Logger) *Catalog {
	return &Catalog{
		client:        client,
		maxEvaluators: maxEvaluators,
		logger:        logger,
	}
}

// Initialize fetches the evaluator list once. It must complete before the
// server starts accepting tool calls; the snapshot is never refreshed.
func (c *Catalog) Initialize(ctx context.Context) error {
	evaluators, err := c.client.ListEvaluators(ctx, c.maxEvaluators)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(evaluators) == 0 {
		return fmt.Errorf("%w: remote returned no evaluators", ErrUnavailable)
	}

	byName := make(map[string]string, len(evaluators))
	for _, evaluator := range evaluators {
		// First occurrence wins on duplicate names.
		if _, ok := byName[evaluator.Name]; !ok {
			byName[evaluator.Name] = evaluator.ID
		}
	}

	c.evaluators = evaluators
	c.byName = byName

	c.logger.Info().Int("count", len(evaluators)).Msg("Evaluator catalog initialized")
	return nil
}

// Resolve maps an evaluator name to its ID. Case-sensitive exact match only.
func (c *Catalog) Resolve(name string) (string, error) {
	id, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvaluatorName, name)
	}
	return id, nil
}

// List returns the in-memory snapshot verbatim, without re-fetching.
func (c *Catalog) List() []models.EvaluatorInfo {
	return c.evaluators
}
