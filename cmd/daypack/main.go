package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrivera/daypack/internal/cli"
	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/observability"
	"github.com/mrivera/daypack/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath := os.Getenv("DAYPACK_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".daypack", "daypack.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer observability.Observer = observability.NoopObserver{}
	if envEnabled("DAYPACK_LOG_RUNS") {
		observer = observability.NewLogObserver(os.Stderr)
	}

	app := cli.NewApp(
		repository.NewSQLiteTaskRepo(database),
		repository.NewSQLiteMilestoneRepo(database),
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteHabitRepo(database),
		repository.NewSQLiteLearningRepo(database),
		db.NewSQLiteUnitOfWork(database),
		observer,
	)

	return cli.NewRootCmd(app).Execute()
}

func envEnabled(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
