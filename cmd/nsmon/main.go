package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/rhiyo/nsmon/internal/api"
	"github.com/rhiyo/nsmon/internal/checker"
	"github.com/rhiyo/nsmon/internal/config"
	"github.com/rhiyo/nsmon/internal/monitor"
	"github.com/rhiyo/nsmon/internal/storage"
	"github.com/rhiyo/nsmon/internal/tracker"
)

func main() {
	configPath := flag.String("config", "nsmon.yaml", "path to config file")
	daemon := flag.Bool("daemon", false, "run continuously with the HTTP API instead of a single check cycle")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	runner := &checker.Runner{Retries: cfg.Retries}

	if *daemon {
		runDaemon(cfg, runner)
		return
	}

	runOnce(cfg, runner)
}

// runOnce executes a single check cycle, the mode a cron entry invokes. The
// tracker credential is only needed when an outage has to be reported, so a
// healthy run works without one.
func runOnce(cfg *config.Config, runner *checker.Runner) {
	var runs *storage.RunRepo
	if cfg.Database != "" {
		db, err := storage.InitDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer closeDB(db)
		runs = storage.NewRunRepo(db)
	}

	checks := checker.BuildChecks(cfg.Servers)
	outcome := runner.Run(checks)
	report := checker.FormatReport(outcome.Results)

	if runs != nil {
		if _, err := runs.Create(outcome.AnyFailed, report, outcome.Results); err != nil {
			log.Printf("failed to record run: %v", err)
		}
	}

	if !outcome.AnyFailed {
		color.Green("All checks completed. All services OK.")
		return
	}

	color.Red("Outage detected - creating GitHub issue")

	token, err := config.LoadToken()
	if err != nil {
		log.Fatalf("cannot report outage: %v", err)
	}

	client := newTrackerClient(cfg, token)
	if err := tracker.Reconcile(client, report); err != nil {
		log.Fatalf("failed to report outage: %v", err)
	}
}

func runDaemon(cfg *config.Config, runner *checker.Runner) {
	token, err := config.LoadToken()
	if err != nil {
		log.Fatalf("failed to load tracker token: %v", err)
	}

	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = "nsmon.db"
	}
	db, err := storage.InitDB(dbPath)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer closeDB(db)

	runs := storage.NewRunRepo(db)
	service := monitor.New(cfg, runner, runs, newTrackerClient(cfg, token))

	scheduler := monitor.NewScheduler(service, time.Duration(cfg.IntervalSeconds)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	server := &api.Server{
		Runs:    runs,
		Monitor: service,
	}
	r := api.SetupRouter(server)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server started on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
			log.Fatal(err)
		}
	}()

	<-sigChan
	log.Println("Shutting down...")
	scheduler.Stop()
	log.Println("Server stopped")
}

func newTrackerClient(cfg *config.Config, token string) *tracker.Client {
	client := tracker.NewClient(cfg.Tracker.Owner, cfg.Tracker.Repo, token)
	if cfg.Tracker.APIBaseURL != "" {
		client.BaseURL = cfg.Tracker.APIBaseURL
	}
	return client
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("failed to close db: %v", err)
	}
}
