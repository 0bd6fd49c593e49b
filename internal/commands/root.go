package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/config"
	"github.com/balkashynov/studio/internal/db"
	"github.com/balkashynov/studio/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs. The store is opened lazily so that
// help and version never touch the database.
type app struct {
	cfgFile string
	dbPath  string
	now     func() time.Time

	cfg    *config.Config
	store  *db.Store
	userID uint
}

// open loads the configuration, opens the store and makes sure a default
// user exists.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}

	store, err := db.Open(db.Options{
		Path:     cfg.Database.Path,
		LogLevel: cfg.LogLevel(),
		Clock:    a.now,
	})
	if err != nil {
		return err
	}

	userID, err := ensureUser(store, cfg.User.Name)
	if err != nil {
		store.Close()
		return err
	}

	a.cfg, a.store, a.userID = cfg, store, userID
	return nil
}

func ensureUser(store *db.Store, name string) (uint, error) {
	id, ok, err := store.FirstActiveUserID()
	if err != nil || ok {
		return id, err
	}
	user, err := models.NewUser(name)
	if err != nil {
		return 0, err
	}
	if err := store.CreateUser(user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// withStore wraps a command function to open the store first
func (a *app) withStore(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

// parseID parses a numeric task or tag id argument.
func parseID(entity, arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, models.Validation(entity, "invalid %s ID '%s'", entity, arg)
	}
	return uint(id), nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studio",
		Short: "A CLI task manager with tags and due dates",
		Long: `studio keeps your tasks in a local SQLite database.
Tag them, give them a priority and a due date, and see what is due today.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.studio/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file, overrides database.path")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newDoneCmd(a))
	rootCmd.AddCommand(newUndoneCmd(a))
	rootCmd.AddCommand(newArchiveCmd(a))
	rootCmd.AddCommand(newUnarchiveCmd(a))
	rootCmd.AddCommand(newTagCmd(a))
	rootCmd.AddCommand(newUserCmd(a))
	rootCmd.AddCommand(newBoardCmd(a))
	rootCmd.AddCommand(newHelpCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	a := &app{now: time.Now}
	defer a.close()
	return newRootCmd(a).Execute()
}
