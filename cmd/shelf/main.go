package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shelf/internal/app"
	"shelf/internal/config"
	"shelf/internal/library"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a ShelfApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Restore", "Export").
func newApp(operation string) (*app.ShelfApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewShelfApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Personal book-collection manager",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:  %s\n", cfg.HostID)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Archive:  %s\n", cfg.Archive.Type)
		fmt.Printf("Database: %s\n", cfg.Database.Type)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := promptPassphrase("Passphrase for private key: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.SetupKeys(pass); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Println("Encryption keys generated.")
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore SOURCE",
	Short: "Restore a sheet backup into the library",
	Long: `Restore merges a previously exported sheet backup into the library.
SOURCE is either a path to a backup file or the name of a stored archive.
Books already in the collection (matched by normalized code) are skipped;
publishers, groups, stores, and people are matched case-insensitively and
created only when missing. Press Ctrl-C to cancel; completed work is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		// Ctrl-C requests cooperative cancellation; the run stops at
		// its next checkpoint and keeps everything already committed.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			for range sigCh {
				a.Cancel()
			}
		}()

		outcome, err := a.Restore(args[0], func() (string, error) {
			return promptPassphrase("Archive passphrase: ")
		})
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		if outcome.State == library.RestoreFailed {
			return fmt.Errorf("restore failed: %w", outcome.Err)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export [NAME]",
	Short: "Export the library as a sheet backup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		stored, err := a.Export(name, encrypt)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported archive %s\n", stored)
		return nil
	},
}

// archives command
var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List stored sheet backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListArchives")
		if err != nil {
			return err
		}
		defer a.Close()

		archives, err := a.ListArchives()
		if err != nil {
			return err
		}

		if len(archives) == 0 {
			fmt.Println("No archives stored.")
			return nil
		}

		for _, ar := range archives {
			fmt.Printf("%-40s  %10d  %s\n",
				ar.Name, ar.Size, ar.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View restore operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.CreatedAt).String()
			}
			fmt.Printf("#%d  %-12s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.CreatedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetStats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.GetStats()
		if err != nil {
			return err
		}

		fmt.Printf("Books:      %d (%d read)\n", stats.Books, stats.Read)
		fmt.Printf("Groups:     %d\n", stats.Groups)
		fmt.Printf("Publishers: %d\n", stats.Publishers)
		fmt.Printf("Stores:     %d\n", stats.Stores)
		fmt.Printf("People:     %d\n", stats.People)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("encrypt", "e", false, "Encrypt the archive with the configured public key")
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(statsCmd)
}
