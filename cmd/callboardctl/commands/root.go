package commands

import (
	"fmt"
	"os"

	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/database"
	"github.com/localnerve/callboard/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Global flags
	envFile string
	migrate bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "callboardctl",
	Short: "Administer a callboard database",
	Long: `callboardctl works directly on the callboard database configured by the
DB_* environment variables (or an .env file).

Commands:
  rubric   - list, add, delete and seed rubrics
  ad       - hide or show ads
  comment  - hide or show comments
  user     - delete users with everything they posted`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "f", "", "path to an .env file")
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "run schema migrations before the command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// env is what every command works with
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.Logger
}

func (e *env) close() {
	_ = database.Close(e.db)
	_ = e.log.Sync()
}

// open loads configuration and connects to the database
func open() (*env, error) {
	if envFile != "" {
		os.Setenv("ENV_FILE", envFile)
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, true)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return &env{cfg: cfg, db: db, log: log}, nil
}

// withEnv wraps a command body that needs the database
func withEnv(run func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := open()
		if err != nil {
			return err
		}
		defer e.close()
		return run(cmd, e, args)
	}
}
