package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rootsignals/root-mcp-server/internal/api"
	"github.com/rootsignals/root-mcp-server/internal/api/middleware"
	"github.com/rootsignals/root-mcp-server/internal/setup"
	"github.com/rootsignals/root-mcp-server/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg := setup.LoadConfig()

	// Structured JSON logging for network deployments
	log.Logger = logger.New(cfg.LogLevel)
	rootLogger := log.Logger

	// Wire dependencies; blocks until the evaluator catalog is fetched
	deps, err := setup.Wire(ctx, cfg, &rootLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	// Create MCP Server
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "Root Signals Evaluators",
			Version: setup.Version,
		}, nil,
	)
	deps.Dispatcher.Register(server)

	getServer := func(*http.Request) *mcp.Server { return server }
	sseHandler := mcp.NewSSEHandler(getServer, nil)
	streamableHandler := mcp.NewStreamableHTTPHandler(getServer, nil)

	// REST surface
	handler := api.NewHandler(deps.Catalog, setup.Version, cfg.Env, &rootLogger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	mux := http.NewServeMux()
	mux.Handle("/sse", sseHandler)
	mux.Handle("/sse/", sseHandler)
	mux.Handle("/mcp", streamableHandler)
	mux.Handle("/api/v1/", container)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info().
		Str("address", addr).
		Str("api_url", cfg.APIURL).
		Int("evaluators", len(deps.Catalog.List())).
		Msg("Starting Root Signals MCP server with SSE transport")

	httpServer := &http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(mux),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
