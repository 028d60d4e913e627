package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/api"
	"github.com/jon4hz/familytravel/internal/cache"
	"github.com/jon4hz/familytravel/internal/config"
	"github.com/jon4hz/familytravel/internal/scheduler"
	"github.com/jon4hz/familytravel/internal/session"
	"github.com/jon4hz/familytravel/internal/tracker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const flushCacheJobID = "flush_country_cache"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the family travel tracker",
	Long:  `Start the web server that lets household members record the countries they visited.`,
	Example: `familytravel serve --config config.yml
familytravel serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	users, err := db.GetAllUsers(ctx)
	if err != nil {
		log.Fatalf("failed to load users: %v", err)
	}

	lookupCache := cache.NewLookupCache(cfg.Cache)
	resolver := tracker.NewResolver(db, lookupCache)
	t := tracker.New(db, resolver, session.NewRoster(users))

	var state session.State
	switch cfg.Session.Mode {
	case config.SessionModeCookie:
		state = session.NewCookieState(cfg.DefaultUserID)
	default:
		state = session.NewGlobalState(cfg.DefaultUserID)
	}

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if cfg.Cache.FlushSchedule != "" {
		if err := sched.AddSingletonJob(
			flushCacheJobID,
			"Flush country cache",
			"Drops all cached country lookups",
			cfg.Cache.FlushSchedule,
			lookupCache.ClearAll,
		); err != nil {
			log.Fatalf("failed to schedule cache flush: %v", err)
		}
	}

	server, err := api.New(cfg, db, t, state, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})

	log.Info("familytravel started successfully", "listen", cfg.Listen, "database", cfg.Database.Driver, "session", cfg.Session.Mode)
	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return
	}
	log.Info("shut down gracefully")
}
