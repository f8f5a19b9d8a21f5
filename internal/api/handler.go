package api

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rootsignals/root-mcp-server/internal/catalog"
	"github.com/rs/zerolog"
)

type Handler struct {
	catalog *catalog.Catalog
	version string
	env     string
	logger  *zerolog.Logger
}

func NewHandler(cat *catalog.Catalog, version string, env string, logger *zerolog.Logger) *Handler {
	return &Handler{
		catalog: cat,
		version: version,
		env:     env,
		logger:  logger,
	}
}

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Env        string `json:"env"`
	Evaluators int    `json:"evaluators"`
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Env:        h.env,
		Evaluators: len(h.catalog.List()),
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
