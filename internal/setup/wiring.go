package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rootsignals/root-mcp-server/internal/catalog"
	"github.com/rootsignals/root-mcp-server/internal/config"
	"github.com/rootsignals/root-mcp-server/internal/evaluator"
	"github.com/rootsignals/root-mcp-server/internal/judge"
	"github.com/rootsignals/root-mcp-server/internal/mcpadapter"
	"github.com/rootsignals/root-mcp-server/internal/rootapi"
	"github.com/rs/zerolog"
)

// Version identifies this server build in the API User-Agent and on the
// health endpoint.
const Version = "1.1.0"

type Config struct {
	APIKey        string
	APIURL        string
	APITimeout    time.Duration
	MaxEvaluators int
	MaxJudges     int
	Host          string
	Port          int
	LogLevel      string
	Debug         bool
	Env           string
}

type Dependencies struct {
	Client     *rootapi.Client
	Catalog    *catalog.Catalog
	Evaluators *evaluator.Service
	Judges     *judge.Service
	Dispatcher *mcpadapter.Dispatcher
	Logger     *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		APIKey:        getEnv("ROOT_SIGNALS_API_KEY", ""),
		APIURL:        getEnv("ROOT_SIGNALS_API_URL", "https://api.app.rootsignals.ai"),
		APITimeout:    time.Duration(getEnvFloat("ROOT_SIGNALS_API_TIMEOUT", 30) * float64(time.Second)),
		MaxEvaluators: getEnvInt("MAX_EVALUATORS", 40),
		MaxJudges:     getEnvInt("MAX_JUDGES", 30),
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnvInt("PORT", 9090),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Debug:         getEnvBool("DEBUG", false),
		Env:           getEnv("ENV", "development"),
	}
}

// Wire builds the dependency graph and initializes the evaluator catalog.
// Catalog initialization blocks until it completes or fails; a failure is
// fatal to process startup.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	client, err := rootapi.NewClient(cfg.APIKey, cfg.APIURL, cfg.APITimeout, Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Root Signals client: %w", err)
	}

	cat := catalog.New(client, cfg.MaxEvaluators, logger)
	if err := cat.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize evaluator catalog: %w", err)
	}

	policy, err := config.LoadCodingPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load coding policy config: %w", err)
	}

	evaluators := evaluator.NewService(client, cat, *policy, logger)
	judges := judge.NewService(client, cfg.MaxJudges, logger)

	dispatcher, err := mcpadapter.NewDispatcher(evaluators, judges, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool dispatcher: %w", err)
	}

	return &Dependencies{
		Client:     client,
		Catalog:    cat,
		Evaluators: evaluators,
		Judges:     judges,
		Dispatcher: dispatcher,
		Logger:     logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
