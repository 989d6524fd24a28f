// Package commands is the command line of the tracker.
package commands

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/iabalyuk/dailytracker/config"
	"github.com/iabalyuk/dailytracker/session"
	"github.com/iabalyuk/dailytracker/storage"
)

// staleSessionAge is how long an untouched dialog survives a restart
const staleSessionAge = 24 * time.Hour

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dailytracker",
		Short:         "Daily parameter tracker: rate your mood, energy and more every day.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().String("db", "", "path to the SQLite database (env DB_PATH)")
	cmd.PersistentFlags().Bool("debug", false, "enable trace logging")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addRun(topLevel)
	addExport(topLevel)
	addReminders(topLevel)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}

func openStorage(cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Using database %s", cfg.DBPath)
	return store, nil
}

// openSessions returns a disk store with stale dialogs pruned, or a memory
// store when no session directory is configured
func openSessions(cfg *config.Config) session.Store {
	if cfg.SessionDir == "" {
		log.Println("SESSION_DIR empty, keeping dialog sessions in memory")
		return session.NewMemoryStore()
	}
	store := session.NewDiskStore(cfg.SessionDir)
	if n := store.Prune(staleSessionAge); n > 0 {
		log.Printf("Pruned %d stale sessions from %s", n, cfg.SessionDir)
	}
	return store
}
