package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/kpidesk/internal/cli"
	"github.com/alexanderramin/kpidesk/internal/config"
	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/identity"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/alexanderramin/kpidesk/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultEnvFiles)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	// Open database
	database, err := db.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	uow := db.NewSQLUnitOfWork(database)
	recordRepo := repository.NewSQLRecordRepo(database)
	checklistRepo := repository.NewSQLChecklistRepo(database, uow)
	commentRepo := repository.NewSQLCommentRepo(database)

	clock := clockwork.NewRealClock()

	// Identity: a shared Redis profile store when configured, with the
	// environment profile as fallback.
	static := identity.NewStaticProvider(cfg.Profile())
	var ident identity.Provider = static
	var profiles cli.ProfileSaver
	if cfg.RedisURL != "" {
		rp, err := identity.NewRedisProvider(cfg.RedisURL, cfg.UserID, static)
		if err != nil {
			return fmt.Errorf("connecting to identity store: %w", err)
		}
		defer rp.Close()
		ident, profiles = rp, rp
	}

	observers := []service.UseCaseObserver{service.NewLogUseCaseObserver(logger)}
	var gatherer prometheus.Gatherer
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		metrics, err := service.NewMetricsUseCaseObserver(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		observers = append(observers, metrics)
		gatherer = reg
	}

	// Wire services
	records := service.NewRecordService(recordRepo, clock)
	checklists := service.NewChecklistService(checklistRepo)
	comments := service.NewCommentService(commentRepo, clock)
	editor := service.NewEditorService(records, checklists, comments, service.EditorConfig{
		Identity: ident,
		Clock:    clock,
		Logger:   logger,
		Debounce: cfg.Debounce(),
	}, service.NewMultiUseCaseObserver(observers...))

	app := &cli.App{
		Records:           records,
		Checklists:        checklists,
		Comments:          comments,
		Editor:            editor,
		Identity:          ident,
		Profiles:          profiles,
		ConfiguredProfile: cfg.Profile(),
		Clock:             clock,
		Metrics:           gatherer,
	}

	// Execute root command
	return cli.NewRootCmd(app).Execute()
}

// newLogger writes to stderr: JSON when stderr is not a terminal or when
// asked for explicitly, text otherwise.
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.LogrusLevel())

	jsonOut := cfg.LogFormat == "json"
	if cfg.LogFormat == "auto" {
		fd := os.Stderr.Fd()
		jsonOut = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	}
	if jsonOut {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
