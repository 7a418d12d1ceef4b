// Command postd runs the Post service: post storage plus the fan-out to
// Account (authorship), Like (like counts), and Trending (hashtag
// bookkeeping on creation).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/rodrigoalveslima/BuzzBlog/internal/account"
	"github.com/rodrigoalveslima/BuzzBlog/internal/config"
	"github.com/rodrigoalveslima/BuzzBlog/internal/like"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/post"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/trending"
	"github.com/spf13/cobra"
)

func main() {
	var serverFlags config.ServerFlags
	var msFlags config.MicroservicePoolFlags
	var pgFlags config.PostgresPoolFlags

	cmd := &cobra.Command{
		Use:   "postd",
		Short: "Runs the Post microservice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serverFlags, msFlags, pgFlags)
		},
	}
	config.RegisterServerFlags(cmd.Flags(), &serverFlags)
	config.RegisterMicroservicePoolFlags(cmd.Flags(), &msFlags)
	config.RegisterPostgresPoolFlags(cmd.Flags(), &pgFlags)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(serverFlags config.ServerFlags, msFlags config.MicroservicePoolFlags, pgFlags config.PostgresPoolFlags) error {
	backend, err := config.LoadBackend(serverFlags.BackendFilepath)
	if err != nil {
		return err
	}
	dbEndpoint, err := backend.DatabaseEndpoint(post.ServiceName)
	if err != nil {
		return err
	}
	host, port, err := config.SplitHostPort(dbEndpoint)
	if err != nil {
		return err
	}
	accountEndpoints, err := backend.Endpoints(account.ServiceName)
	if err != nil {
		return err
	}
	likeEndpoints, err := backend.Endpoints(like.ServiceName)
	if err != nil {
		return err
	}
	trendingEndpoints, err := backend.Endpoints(trending.ServiceName)
	if err != nil {
		return err
	}

	logs, err := logging.NewSet(serverFlags.Logging, post.ServiceName)
	if err != nil {
		return err
	}
	defer logs.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dsn := config.PostgresDSN(pgFlags.User, pgFlags.Password, host, port, post.ServiceName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if pgFlags.MaxSize > 0 {
		db.SetMaxOpenConns(pgFlags.MaxSize)
	}

	dbPool := pool.NewDBPool(ctx, db, dbEndpoint, pool.Options{
		MinSize:        pgFlags.MinSize,
		MaxSize:        pgFlags.MaxSize,
		AllowEphemeral: pgFlags.AllowEphemeral,
	}, logging.NewPoolObserver(logs.Logger(logging.CategoryQueryConn), post.ServiceName, post.ServiceName))
	if err := dbPool.Prewarm(); err != nil {
		return fmt.Errorf("prewarming database pool: %w", err)
	}
	defer dbPool.Close()

	msOpts := pool.Options{MinSize: msFlags.MinSize, MaxSize: msFlags.MaxSize, AllowEphemeral: msFlags.AllowEphemeral}

	accountPeer := rpcclient.NewPeer(post.ServiceName, account.ServiceName, accountEndpoints, msOpts,
		account.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	likePeer := rpcclient.NewPeer(post.ServiceName, like.ServiceName, likeEndpoints, msOpts,
		like.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	trendingPeer := rpcclient.NewPeer(post.ServiceName, trending.ServiceName, trendingEndpoints, msOpts,
		rpcproto.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	for _, p := range []*rpcclient.Peer{accountPeer, likePeer, trendingPeer} {
		if err := p.Prewarm(); err != nil {
			return fmt.Errorf("prewarming peer pool: %w", err)
		}
		defer p.Close()
	}

	svc := post.NewService(dbPool, accountPeer, likePeer, trending.NewClient(trendingPeer), logs.Logger(logging.CategoryQueryLog))

	srv := rpcserver.New(rpcserver.Options{
		Host:                  serverFlags.Host,
		Port:                  serverFlags.Port,
		ConcurrentClientLimit: serverFlags.Threads,
		AcceptBacklog:         serverFlags.AcceptBacklog,
		Logger:                logs.Logger(logging.CategoryStartup),
	})
	svc.Register(srv)

	logs.Logger(logging.CategoryStartup).Info("postd starting")
	return srv.Serve(ctx)
}
