// Package cli provides the Cobra-based CLI for pharmacy-cli.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/ledger"
	"github.com/darfe-e/greenFarmacy/store"
)

var (
	rootCmd = &cobra.Command{
		Use:           "pharmacy-cli",
		Short:         "Pharmacy inventory and returns ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject the manager
			if manager != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			slog.SetDefault(slog.New(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}),
			))

			st, err := store.NewStore(
				viper.GetString("store"),
				viper.GetString("store-file"),
			)
			if err != nil {
				return err
			}
			snap, err := st.Load(context.Background())
			if err != nil {
				return err
			}
			m := ledger.NewManager(ledger.WithLogger(slog.Default()))
			if err := m.Restore(snap); err != nil {
				return fmt.Errorf("restore ledger: %w", err)
			}
			manager, snapshotStore = m, st
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if snapshotStore == nil || manager == nil {
				return nil
			}
			return snapshotStore.Save(context.Background(), manager.Snapshot())
		},
	}

	manager       *ledger.Manager
	snapshotStore domain.SnapshotStore

	// input is shared by the shell and confirmation prompts so neither
	// loses lines buffered by the other.
	input *bufio.Reader
)

func init() {
	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := stdin()
			for {
				fmt.Print("pharmacy> ")
				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				rootCmd.SetArgs(strings.Fields(line))
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				rootCmd.SetArgs(nil)
				resetFlags(rootCmd)
			}
		},
	}
	rootCmd.AddCommand(shellCmd)

	rootCmd.PersistentFlags().String("store", "memory", "store backend: memory|file")
	rootCmd.PersistentFlags().String("store-file", "data/pharmacy.json", "file store path (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store-file", rootCmd.PersistentFlags().Lookup("store-file"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("PHARMACY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func Execute() error {
	return rootCmd.Execute()
}

// resetFlags restores the local flags of c and its subcommands to their
// defaults, so one shell line does not inherit values from the previous one.
func resetFlags(c *cobra.Command) {
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func logLevel() slog.Level {
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// logMutation reports a successful change together with its duration.
func logMutation(msg string, start time.Time, attrs ...any) {
	attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
	slog.Info(msg, attrs...)
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.NewInvalidArgumentError("quantity", "must be an integer", s)
	}
	return q, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, domain.NewInvalidArgumentError(field, "must be a decimal number", s)
	}
	return d, nil
}

// parseDate accepts YYYY-MM-DD; an empty string is the zero date.
func parseDate(s string) (domain.SafeDate, error) {
	if strings.TrimSpace(s) == "" {
		return domain.SafeDate{}, nil
	}
	return domain.ParseSafeDate(s)
}

func stdin() *bufio.Reader {
	if input == nil {
		input = bufio.NewReader(os.Stdin)
	}
	return input
}

func confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	resp, err := stdin().ReadString('\n')
	if err != nil && resp == "" {
		return false
	}
	resp = strings.TrimSpace(resp)
	return resp == "y" || resp == "Y"
}
