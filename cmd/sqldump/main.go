// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqldump/internal/catalog"
	mysqlcatalog "sqldump/internal/catalog/mysql"
	"sqldump/internal/config"
	"sqldump/internal/dsn"
	"sqldump/internal/dump"
	"sqldump/internal/sink"
)

type dumpFlags struct {
	dsn          string
	output       string
	configPath   string
	compress     string
	includeTbl   []string
	excludeTbl   []string
	includeViews []string
	where        string
	noData       bool
	databases    bool
	routines     bool
	events       bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqldump",
		Short: "MySQL-compatible logical dump tool",
	}

	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(optionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dumpCmd() *cobra.Command {
	flags := &dumpFlags{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump a database to SQL text",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDump(flags)
		},
	}

	bindCommonFlags(cmd, flags)
	return cmd
}

func optionsCmd() *cobra.Command {
	flags := &dumpFlags{}
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the resolved option set without connecting to a database",
		RunE: func(_ *cobra.Command, _ []string) error {
			opts, err := resolveOptions(flags)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("resolved options: %+v", opts))
			return nil
		},
	}

	bindCommonFlags(cmd, flags)
	return cmd
}

func bindCommonFlags(cmd *cobra.Command, flags *dumpFlags) {
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Connection string: <dialect>:k=v;k=v;... (required for dump)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "TOML option file")
	cmd.Flags().StringVar(&flags.compress, "compress", "", "Sink compression: none or gzip")
	cmd.Flags().StringSliceVar(&flags.includeTbl, "include-tables", nil, "Tables to include (literal or /regex/)")
	cmd.Flags().StringSliceVar(&flags.excludeTbl, "exclude-tables", nil, "Tables to exclude (literal or /regex/)")
	cmd.Flags().StringSliceVar(&flags.includeViews, "include-views", nil, "Views to include (defaults to include-tables)")
	cmd.Flags().StringVar(&flags.where, "where", "", "Global WHERE clause applied to every row select")
	cmd.Flags().BoolVar(&flags.noData, "no-data", false, "Skip all row data")
	cmd.Flags().BoolVar(&flags.databases, "databases", false, "Emit CREATE DATABASE / USE wrapper")
	cmd.Flags().BoolVar(&flags.routines, "routines", false, "Include stored procedures")
	cmd.Flags().BoolVar(&flags.events, "events", false, "Include scheduled events")
}

func resolveOptions(flags *dumpFlags) (dump.Options, error) {
	opts := dump.DefaultOptions()
	if flags.configPath != "" {
		raw, err := os.ReadFile(flags.configPath)
		if err != nil {
			return opts, fmt.Errorf("reading config: %w", err)
		}
		opts, err = config.Load(raw)
		if err != nil {
			return opts, err
		}
	}

	if len(flags.includeTbl) > 0 {
		opts.IncludeTables = flags.includeTbl
	}
	if len(flags.excludeTbl) > 0 {
		opts.ExcludeTables = flags.excludeTbl
	}
	if len(flags.includeViews) > 0 {
		opts.IncludeViews = flags.includeViews
	}
	if flags.where != "" {
		opts.Where = flags.where
	}
	if flags.compress != "" {
		opts.Compress = sink.Compression(flags.compress)
	}
	if flags.noData {
		opts.NoData = true
	}
	if flags.databases {
		opts.Databases = true
	}
	if flags.routines {
		opts.Routines = true
	}
	if flags.events {
		opts.Events = true
	}

	if err := opts.Resolve(); err != nil {
		return opts, err
	}
	return opts, nil
}

func runDump(flags *dumpFlags) error {
	if flags.dsn == "" {
		return fmt.Errorf("--dsn is required")
	}

	opts, err := resolveOptions(flags)
	if err != nil {
		return err
	}

	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	printInfo(fmt.Sprintf("dumping %s -> %s", redactDSN(flags.dsn), outputLabel(flags.output)))

	return dump.Run(context.Background(), dump.Config{
		DSN:        flags.dsn,
		Output:     flags.output,
		Options:    opts,
		Logger:     log,
		NewAdapter: newAdapter,
	})
}

// newAdapter resolves a parsed connection string's dialect to a concrete
// catalog.Adapter. Only MySQL ships an implementation in this repository;
// the other dialects dsn.Parse recognizes surface a clear ConfigError here
// instead of silently falling back to anything.
func newAdapter(dialect dsn.Dialect) (catalog.Adapter, error) {
	switch dialect {
	case dsn.MySQL:
		return mysqlcatalog.New(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func outputLabel(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// redactDSN hides a password attribute before the connection string ever
// reaches a log line or stderr, per §10.3.
func redactDSN(raw string) string {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return raw
	}
	dialect, rest := raw[:idx], raw[idx+1:]

	parts := strings.Split(rest, ";")
	for i, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			parts[i] = kv[0] + "=***"
		}
	}
	return dialect + ":" + strings.Join(parts, ";")
}

func printInfo(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
}
