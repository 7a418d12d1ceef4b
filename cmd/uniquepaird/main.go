// Command uniquepaird runs the Uniquepair service: the leaf of the
// dependency graph, backing Follow's and Like's relationship storage with a
// single generic (domain, first_elem, second_elem) table.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/rodrigoalveslima/BuzzBlog/internal/config"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/uniquepair"
	"github.com/spf13/cobra"
)

func main() {
	var serverFlags config.ServerFlags
	var pgFlags config.PostgresPoolFlags

	cmd := &cobra.Command{
		Use:   "uniquepaird",
		Short: "Runs the Uniquepair microservice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serverFlags, pgFlags)
		},
	}
	config.RegisterServerFlags(cmd.Flags(), &serverFlags)
	config.RegisterPostgresPoolFlags(cmd.Flags(), &pgFlags)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(serverFlags config.ServerFlags, pgFlags config.PostgresPoolFlags) error {
	backend, err := config.LoadBackend(serverFlags.BackendFilepath)
	if err != nil {
		return err
	}
	dbEndpoint, err := backend.DatabaseEndpoint(uniquepair.ServiceName)
	if err != nil {
		return err
	}
	host, port, err := config.SplitHostPort(dbEndpoint)
	if err != nil {
		return err
	}

	logs, err := logging.NewSet(serverFlags.Logging, uniquepair.ServiceName)
	if err != nil {
		return err
	}
	defer logs.Sync()

	dsn := config.PostgresDSN(pgFlags.User, pgFlags.Password, host, port, uniquepair.ServiceName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if pgFlags.MaxSize > 0 {
		db.SetMaxOpenConns(pgFlags.MaxSize)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dbPool := pool.NewDBPool(ctx, db, dbEndpoint, pool.Options{
		MinSize:        pgFlags.MinSize,
		MaxSize:        pgFlags.MaxSize,
		AllowEphemeral: pgFlags.AllowEphemeral,
	}, logging.NewPoolObserver(logs.Logger(logging.CategoryQueryConn), uniquepair.ServiceName, uniquepair.ServiceName))
	if err := dbPool.Prewarm(); err != nil {
		return fmt.Errorf("prewarming database pool: %w", err)
	}
	defer dbPool.Close()

	svc := uniquepair.NewService(dbPool, logs.Logger(logging.CategoryQueryLog))

	srv := rpcserver.New(rpcserver.Options{
		Host:                  serverFlags.Host,
		Port:                  serverFlags.Port,
		ConcurrentClientLimit: serverFlags.Threads,
		AcceptBacklog:         serverFlags.AcceptBacklog,
		Logger:                logs.Logger(logging.CategoryStartup),
	})
	svc.Register(srv)

	logs.Logger(logging.CategoryStartup).Info("uniquepaird starting")
	return srv.Serve(ctx)
}
