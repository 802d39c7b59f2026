// Command readlogctl runs maintenance tasks against a Readlog data
// directory: Goodreads export and import for one user, and search index
// rebuilds. Stop the server first; both hold the same database and index.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readlog/readlog-server/internal/config"
	"github.com/readlog/readlog-server/internal/di"
	"github.com/readlog/readlog-server/internal/di/providers"
	"github.com/readlog/readlog-server/internal/logger"
	"github.com/readlog/readlog-server/internal/service"
)

var (
	dataPath string
	envFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:           "readlogctl",
		Short:         "Readlog maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write a user's library as a Goodreads CSV",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Load a Goodreads CSV into a user's library",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	reindexCmd = &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the library search index from the database",
		Args:  cobra.NoArgs,
		RunE:  runReindex,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data-path", "", "Readlog data directory (default: DATA_PATH or ~/Readlog)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	exportCmd.Flags().String("user", "", "Username whose library is exported")
	exportCmd.Flags().StringP("out", "o", "-", "Output file, - for stdout")
	_ = exportCmd.MarkFlagRequired("user")

	importCmd.Flags().String("user", "", "Username receiving the imported rows")
	_ = importCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(exportCmd, importCmd, reindexCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// configArgs turns the persistent flags into config.Load arguments.
func configArgs() []string {
	args := []string{"-env-file", envFile}
	if dataPath != "" {
		args = append(args, "-data-path", dataPath)
	}
	if logLevel != "" {
		args = append(args, "-log-level", logLevel)
	}
	return args
}

// openContainer loads config and builds a container that logs to stderr,
// leaving stdout free for CSV output.
func openContainer() (*do.RootScope, error) {
	cfg, err := config.Load(configArgs())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logger.ParseLevel(cfg.Logger.Level)
	if logLevel == "" {
		level = slog.LevelWarn
	}
	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Level:       level,
		Environment: cfg.App.Environment,
	})

	return di.NewContainerWith(cfg, log), nil
}

// withUser opens the container, resolves username and calls fn.
func withUser(ctx context.Context, username string, fn func(injector do.Injector, userID string) error) error {
	injector, err := openContainer()
	if err != nil {
		return err
	}
	defer func() {
		if err := injector.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, "Shutdown:", err)
		}
	}()

	st, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	user, err := st.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find user %q: %w", username, err)
	}
	return fn(injector, user.ID)
}

func runExport(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("user")
	out, _ := cmd.Flags().GetString("out")

	return withUser(cmd.Context(), username, func(injector do.Injector, userID string) error {
		interchange, err := do.Invoke[*service.InterchangeService](injector)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		summary, err := interchange.Export(cmd.Context(), userID, w)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d books and %d to-read entries\n", summary.Books, summary.TBR)
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("user")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	return withUser(cmd.Context(), username, func(injector do.Injector, userID string) error {
		interchange, err := do.Invoke[*service.InterchangeService](injector)
		if err != nil {
			return err
		}

		result, err := interchange.Import(cmd.Context(), userID, f)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		errOut := cmd.ErrOrStderr()
		for _, msg := range result.Errors {
			fmt.Fprintln(errOut, "  skipped:", msg)
		}
		fmt.Fprintf(errOut, "Imported %d rows, %d skipped\n", result.Imported, len(result.Errors))
		return nil
	})
}

func runReindex(cmd *cobra.Command, _ []string) error {
	injector, err := openContainer()
	if err != nil {
		return err
	}
	defer func() {
		if err := injector.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, "Shutdown:", err)
		}
	}()

	searchService, err := do.Invoke[*service.SearchService](injector)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	if err := searchService.Reindex(cmd.Context()); err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	count, err := searchService.DocumentCount()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %d documents\n", count)
	return nil
}
