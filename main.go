package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/insightdelivered/statement-splitter/internal/api"
	"github.com/insightdelivered/statement-splitter/internal/config"
	"github.com/insightdelivered/statement-splitter/internal/logger"
	"github.com/insightdelivered/statement-splitter/internal/models"
	"github.com/insightdelivered/statement-splitter/internal/parser"
)

var (
	version = "dev"
	cfgFile string
	cfg     *config.Config

	rootCmd = &cobra.Command{
		Use:   "statement-splitter",
		Short: "Split bank statements into income and outgoing spreadsheets",
		Long: `statement-splitter reads HSBC and Chase statements (PDF, pasted text
or CSV rows), classifies every transaction, and writes the income and
outgoing sides to separate CSV files or one xlsx workbook.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./statement-splitter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(banksCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

func convertCmd() *cobra.Command {
	var bankFlag string

	cmd := &cobra.Command{
		Use:   "convert [flags] FILE...",
		Short: "Convert statements into income and outgoing files",
		Long: `Convert one or more statements. PDF files are read directly; .txt files
hold text copied out of a statement; .csv files hold date, details and
amount rows. Files are converted in parallel.

Output is <PERIOD>INCOME.csv and <PERIOD>OUTGOING.csv (or <PERIOD>.xlsx),
where PERIOD is the month of the first transaction date, e.g. JAN23.`,
		Example: `  statement-splitter convert statement.pdf
  statement-splitter convert --bank hsbc --out exports jan.pdf feb.pdf
  statement-splitter convert --bank chase --format xlsx chase.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bank models.BankType
			if bankFlag != "" {
				b, err := parser.ParseBank(bankFlag)
				if err != nil {
					return err
				}
				bank = b
			}
			if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			opts := convertOptions{
				bank:   bank,
				outDir: cfg.Export.Dir,
				format: cfg.Export.Format,
			}
			if len(args) > 1 {
				opts.progress = cmd.ErrOrStderr()
			}
			results, err := convertFiles(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s: %s %s, %d income, %d outgoing\n", r.input, r.bank, r.period, r.income, r.outgoing)
				for _, path := range r.outputs {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bankFlag, "bank", "", "bank: hsbc or chase (auto-detected if omitted)")
	cmd.Flags().String("out", ".", "output directory")
	cmd.Flags().String("format", config.ExportCSV, "output format (csv, xlsx)")
	_ = viper.BindPFlag("export.dir", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("export.format", cmd.Flags().Lookup("format"))
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			app := api.NewApp(api.NewHandler(log, version), cfg.Server.BodyLimitMB)

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
				errCh <- app.Listen(cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
					return err
				}
				if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func banksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported banks",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range parser.SupportedBanks() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", strings.ToLower(name), name)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "statement-splitter %s\n", version)
		},
	}
}
