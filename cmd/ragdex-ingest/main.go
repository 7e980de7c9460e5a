package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/version"
)

// app is the state shared by subcommands once the root pre-run has loaded it.
type app struct {
	env        string
	configPath string
	dotenvPath string

	cfg      config.Config
	logger   *zap.Logger
	teardown func()
	store    *dbRedis.Store
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:               "ragdex-ingest",
		Short:             "Load CMS-1500 claims into the ragdex search index",
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}

	root.PersistentFlags().StringVar(&a.env, "env", "", "config environment (default: $ENV or local)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "explicit YAML config path")
	root.PersistentFlags().StringVar(&a.dotenvPath, "dotenv", ".env", "dotenv file loaded before the config")

	root.AddCommand(runCmd(a))
	root.AddCommand(indexCmd(a))
	root.AddCommand(showCmd(a))
	root.AddCommand(deleteCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		a.close()
		os.Exit(1)
	}
}

// setup loads .env, the YAML config and the logger, then connects to the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(a.dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", a.dotenvPath, err)
	}

	if a.env == "" {
		a.env = config.GetEnv()
	}
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(a.env)
	}
	if err != nil {
		return err
	}

	a.logger, a.teardown, err = logpkg.Setup(a.env, logpkg.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:      a.cfg.Database.Addrs,
		Username:   a.cfg.Database.Username,
		Password:   a.cfg.Database.Password,
		DB:         a.cfg.Database.DB,
		ClientName: "ragdex-ingest",
	})
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	timeout := time.Duration(a.cfg.Database.ReadinessTimeout) * time.Second
	if err := a.store.WaitForReady(cmd.Context(), timeout); err != nil {
		return err
	}

	a.logger.Debug("ragdex-ingest ready",
		zap.String("version", version.Version),
		zap.String("env", a.env),
		zap.Strings("db_addrs", a.cfg.Database.Addrs),
	)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.teardown != nil {
		a.teardown()
		a.teardown = nil
	}
}

func (a *app) keyspace() domain.Keyspace {
	return domain.Keyspace{Prefix: a.cfg.Index.KeyPrefix, Name: a.cfg.Index.Name}
}
