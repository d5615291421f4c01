package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kapilnchauhan77/marketing-consultant-agent/agent"
	"github.com/kapilnchauhan77/marketing-consultant-agent/config"
	"github.com/kapilnchauhan77/marketing-consultant-agent/graph"
	"github.com/kapilnchauhan77/marketing-consultant-agent/internal/store"
	"github.com/kapilnchauhan77/marketing-consultant-agent/provider"
	"github.com/kapilnchauhan77/marketing-consultant-agent/session"
	"github.com/kapilnchauhan77/marketing-consultant-agent/session/inmemory"
	redis_session "github.com/kapilnchauhan77/marketing-consultant-agent/session/redis"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/trends"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_search"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/website"
)

// BuildGraph wires the conversation graph from configuration: LLM provider,
// research tool registry, turn controller and session store. The CLI chat
// loop reuses this to run the same graph in-process.
func BuildGraph(cfg *config.Config) (*graph.Graph, error) {
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	fetcher, err := web_fetch.NewWebFetcher(
		web_fetch.FetcherType(cfg.Research.Fetcher),
		cfg.Research.HTTPTimeout,
		cfg.Research.RetryAttempts,
		cfg.Research.RetryBackoff,
	)
	if err != nil {
		return nil, fmt.Errorf("web fetcher: %w", err)
	}

	toolset := []tools.Tool{
		website.New(fetcher),
		trends.New(cfg.Research.TrendsBaseURL, cfg.Research.TrendsAPIKey, cfg.Research.HTTPTimeout),
	}
	if cfg.Research.SearchAPIKey != "" {
		searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Research.SearchProvider), cfg.Research.SearchAPIKey)
		if err != nil {
			return nil, fmt.Errorf("web searcher: %w", err)
		}
		toolset = append(toolset, web_search.NewSearchTool(searcher, cfg.Research.MaxResults))
	}

	registry := tools.NewRegistry(toolset...)
	ag := agent.New(llm, registry.Specs())
	st := buildSessionStore(cfg.Storage)
	return graph.New(ag, registry, st, cfg.Storage.SessionTTL), nil
}

func buildSessionStore(cfg config.StorageConfig) session.Store {
	switch cfg.SessionStore {
	case "redis":
		return redis_session.NewRedisSessionStore(
			fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			cfg.Redis.Pass,
			cfg.Redis.DB,
			cfg.SessionTTL,
		)
	default:
		return inmemory.NewInMemorySessionStore()
	}
}

// Run starts the HTTP API.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g, err := BuildGraph(cfg)
	if err != nil {
		return err
	}

	// Plan archive is optional; without Postgres the terminal plan only
	// lives in the turn response.
	var st *store.Store
	if dsn := cfg.Storage.Postgres.DSN(); dsn != "" {
		if err := Migrate("file://migrations", dsn, "up", 0); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate: %w", err)
		}
		st, err = store.NewWithDSN(context.Background(), dsn)
		if err != nil {
			return fmt.Errorf("plan store: %w", err)
		}
	}

	var secret []byte
	if cfg.Server.JWTSecret != "" {
		secret = []byte(cfg.Server.JWTSecret)
	}
	if secret != nil && st == nil {
		baseLogger.Printf("jwt secret set but postgres is not configured; auth disabled, API left open")
	}
	registerAPI(e, g, st, secret, cfg.General.DefaultTimeout)

	return e.Start(cfg.Server.Address)
}

// registerAPI mounts the /api surface. Auth is enabled only when both a JWT
// secret and the user store exist; guarding the thread routes without a
// token-issuing path would lock every caller out.
func registerAPI(e *echo.Echo, runner Runner, st *store.Store, secret []byte, timeout time.Duration) {
	api := e.Group("/api")

	authEnabled := secret != nil && st != nil
	if authEnabled {
		auth := &AuthHandler{Store: st, Secret: secret}
		auth.Register(api.Group("/auth"))
	}

	threads := &ThreadsHandler{Graph: runner, Plans: st, Timeout: timeout}
	threadsGroup := api.Group("/threads")
	if authEnabled {
		threadsGroup.Use(withAuth(secret))
	}
	threads.Register(threadsGroup)
}
