package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/eventvote/internal/auth"
	"github.com/abrezinsky/eventvote/internal/cache"
	"github.com/abrezinsky/eventvote/internal/config"
	"github.com/abrezinsky/eventvote/internal/handlers"
	"github.com/abrezinsky/eventvote/internal/logger"
	"github.com/abrezinsky/eventvote/internal/metrics"
	"github.com/abrezinsky/eventvote/internal/repository"
	"github.com/abrezinsky/eventvote/internal/services"
	"github.com/abrezinsky/eventvote/internal/websocket"
)

const (
	shutdownTimeout = 10 * time.Second

	sessionPurgeInterval = 10 * time.Minute
)

// App holds all application dependencies
type App struct {
	cfg      *config.Config
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *websocket.Hub
	redis    io.Closer
	baseURL  string

	// cancel stops the background goroutines started by New
	cancel context.CancelFunc
}

// New creates and initializes a new application instance
func New(ctx context.Context, cfg *config.Config, log logger.Logger, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		repo:    repo,
		baseURL: resolveBaseURL(cfg.BaseURL, cfg.Addr, realNetworkProvider{}),
	}

	var leaderboards services.LeaderboardCache = cache.Noop{}
	if cfg.RedisEnabled() {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = rdb
		leaderboards = cache.NewLeaderboard(rdb, cfg.ResultsCacheTTL)
		log.Info("Leaderboard cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.ResultsCacheTTL)
	}

	m := metrics.NewManager(metrics.WithMetricsEnabled(cfg.MetricsEnabled))

	// Initialize services
	votingService := services.NewVotingService(log, repo, leaderboards)
	resultsService := services.NewResultsService(log, repo, leaderboards, cfg.LeaderboardLimit)
	eventService := services.NewEventService(log, repo, leaderboards, a.baseURL)
	votingService.SetMetrics(m)
	resultsService.SetMetrics(m)

	// Initialize WebSocket hub with DI
	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.hub = websocket.New(log, eventService)
	a.hub.SetGauge(m)
	a.hub.Start(runCtx)
	votingService.SetBroadcaster(a.hub)
	go a.hub.StartWindowWatcher(runCtx, cfg.WindowWatchInterval)
	if adminAuth != nil {
		go adminAuth.StartPurger(runCtx, sessionPurgeInterval, func(removed int) {
			log.Debug("Purged expired admin sessions", "count", removed)
		})
	}

	var exporter handlers.MetricsExporter
	if cfg.MetricsEnabled {
		exporter = m
	}
	a.handlers = handlers.New(votingService, resultsService, eventService, adminAuth, a.hub, exporter, log)

	return a, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL returns the public URL encoded in ballot QR codes
func (a *App) BaseURL() string {
	return a.baseURL
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close redis client", "error", err)
		}
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts the server down gracefully
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.log.Info("Server starting", "addr", ln.Addr().String(), "base_url", a.baseURL)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// resolveBaseURL keeps a configured public URL unless it points at localhost,
// which is useless inside a QR code; then the LAN address is used instead
func resolveBaseURL(configured, addr string, provider networkProvider) string {
	configured = strings.TrimRight(configured, "/")
	if configured != "" && !strings.Contains(configured, "localhost") {
		return configured
	}

	ip := getPreferredIP(provider)
	if ip == "localhost" && configured != "" {
		return configured
	}

	port := ""
	if _, p, err := net.SplitHostPort(addr); err == nil && p != "" && p != "80" {
		port = ":" + p
	}
	return fmt.Sprintf("http://%s%s", ip, port)
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
