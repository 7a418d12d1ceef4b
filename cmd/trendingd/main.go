// Command trendingd runs the Trending service: hashtag bookkeeping backed
// by Redis, gated through Wordfilter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rodrigoalveslima/BuzzBlog/internal/config"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/trending"
	"github.com/rodrigoalveslima/BuzzBlog/internal/wordfilter"
	"github.com/spf13/cobra"
)

func main() {
	var serverFlags config.ServerFlags
	var msFlags config.MicroservicePoolFlags
	var redisFlags config.RedisPoolFlags

	cmd := &cobra.Command{
		Use:   "trendingd",
		Short: "Runs the Trending microservice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serverFlags, msFlags, redisFlags)
		},
	}
	config.RegisterServerFlags(cmd.Flags(), &serverFlags)
	config.RegisterMicroservicePoolFlags(cmd.Flags(), &msFlags)
	config.RegisterRedisPoolFlags(cmd.Flags(), &redisFlags)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(serverFlags config.ServerFlags, msFlags config.MicroservicePoolFlags, redisFlags config.RedisPoolFlags) error {
	backend, err := config.LoadBackend(serverFlags.BackendFilepath)
	if err != nil {
		return err
	}
	redisEndpoint, err := backend.RedisEndpoint(trending.ServiceName)
	if err != nil {
		return err
	}
	wordfilterEndpoints, err := backend.Endpoints(wordfilter.ServiceName)
	if err != nil {
		return err
	}

	logs, err := logging.NewSet(serverFlags.Logging, trending.ServiceName)
	if err != nil {
		return err
	}
	defer logs.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisPool := trending.NewRedisPool(redisEndpoint, redisFlags.PoolSize)
	defer redisPool.Close()

	wordfilterPeer := rpcclient.NewPeer(trending.ServiceName, wordfilter.ServiceName, wordfilterEndpoints,
		pool.Options{MinSize: msFlags.MinSize, MaxSize: msFlags.MaxSize, AllowEphemeral: msFlags.AllowEphemeral},
		rpcproto.NewExceptionRegistry(),
		logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	if err := wordfilterPeer.Prewarm(); err != nil {
		return fmt.Errorf("prewarming wordfilter peer pool: %w", err)
	}
	defer wordfilterPeer.Close()

	svc := trending.NewService(redisPool, wordfilter.NewClient(wordfilterPeer), logs.Logger(logging.CategoryRedis))

	srv := rpcserver.New(rpcserver.Options{
		Host:                  serverFlags.Host,
		Port:                  serverFlags.Port,
		ConcurrentClientLimit: serverFlags.Threads,
		AcceptBacklog:         serverFlags.AcceptBacklog,
		Logger:                logs.Logger(logging.CategoryStartup),
	})
	svc.Register(srv)

	logs.Logger(logging.CategoryStartup).Info("trendingd starting")
	return srv.Serve(ctx)
}
