package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abrezinsky/eventvote/internal/app"
	"github.com/abrezinsky/eventvote/internal/auth"
	"github.com/abrezinsky/eventvote/internal/config"
	"github.com/abrezinsky/eventvote/internal/logger"
)

var (
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (overrides EVENTVOTE_CONFIG)")
	port := flag.Int("port", 0, "HTTP server port (overrides addr)")
	dbPath := flag.String("db", "", "SQLite database path (overrides db_path)")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `EventVote - live ballots and leaderboards for judged events

Usage:
  eventvote [options]

Options:
  -config str    YAML config file
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "eventvote.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Every option can also be set with an EVENTVOTE_ environment variable,
e.g. EVENTVOTE_DB_PATH, EVENTVOTE_REDIS_ADDR, EVENTVOTE_BASE_URL.
Flags win over the environment, which wins over the config file.

Examples:
  eventvote                              # Run on :8080 with eventvote.db
  eventvote -port 9000 -db /data/fair.db
  EVENTVOTE_REDIS_ADDR=localhost:6379 eventvote

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("eventvote %s\n", version)
		os.Exit(0)
	}

	if *configPath != "" {
		os.Setenv("EVENTVOTE_CONFIG", *configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if *port > 0 {
		cfg.Addr = fmt.Sprintf(":%d", *port)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *adminPw != "" {
		cfg.AdminPassword = *adminPw
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	appLog := logger.NewWithOptions(os.Stdout, logger.ParseLevel(cfg.LogLevel), logger.ParseFormat(cfg.LogFormat))
	if cfg.HTTPLog {
		appLog.EnableHTTPLogging()
	}

	// Setup admin authentication
	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
		appLog.Info("Admin password", "password", password)
	}
	adminAuth := auth.New(password)

	a, err := app.New(ctx, cfg, appLog, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}

	if !*noKeyboard {
		printKeyboardHelp(os.Stdout)
		go listenForKeyboard(appLog, stop)
	}

	err = a.Run(ctx)
	a.Close()
	if err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
