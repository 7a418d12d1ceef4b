// Command liked runs the Like service: a thin RPC-delegating layer over
// Uniquepair's generic pair storage, with no database of its own.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rodrigoalveslima/BuzzBlog/internal/account"
	"github.com/rodrigoalveslima/BuzzBlog/internal/config"
	"github.com/rodrigoalveslima/BuzzBlog/internal/like"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/post"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/uniquepair"
	"github.com/spf13/cobra"
)

func main() {
	var serverFlags config.ServerFlags
	var msFlags config.MicroservicePoolFlags

	cmd := &cobra.Command{
		Use:   "liked",
		Short: "Runs the Like microservice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serverFlags, msFlags)
		},
	}
	config.RegisterServerFlags(cmd.Flags(), &serverFlags)
	config.RegisterMicroservicePoolFlags(cmd.Flags(), &msFlags)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(serverFlags config.ServerFlags, msFlags config.MicroservicePoolFlags) error {
	backend, err := config.LoadBackend(serverFlags.BackendFilepath)
	if err != nil {
		return err
	}
	uniquepairEndpoints, err := backend.Endpoints(uniquepair.ServiceName)
	if err != nil {
		return err
	}
	accountEndpoints, err := backend.Endpoints(account.ServiceName)
	if err != nil {
		return err
	}
	postEndpoints, err := backend.Endpoints(post.ServiceName)
	if err != nil {
		return err
	}

	logs, err := logging.NewSet(serverFlags.Logging, like.ServiceName)
	if err != nil {
		return err
	}
	defer logs.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	msOpts := pool.Options{MinSize: msFlags.MinSize, MaxSize: msFlags.MaxSize, AllowEphemeral: msFlags.AllowEphemeral}

	uniquepairPeer := rpcclient.NewPeer(like.ServiceName, uniquepair.ServiceName, uniquepairEndpoints, msOpts,
		uniquepair.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	accountPeer := rpcclient.NewPeer(like.ServiceName, account.ServiceName, accountEndpoints, msOpts,
		account.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	postPeer := rpcclient.NewPeer(like.ServiceName, post.ServiceName, postEndpoints, msOpts,
		post.NewExceptionRegistry(), logs.Logger(logging.CategoryRPCConn), logs.Logger(logging.CategoryRPCCall))
	for _, p := range []*rpcclient.Peer{uniquepairPeer, accountPeer, postPeer} {
		if err := p.Prewarm(); err != nil {
			return fmt.Errorf("prewarming peer pool: %w", err)
		}
		defer p.Close()
	}

	svc := like.NewService(uniquepair.NewClient(uniquepairPeer), accountPeer, postPeer)

	srv := rpcserver.New(rpcserver.Options{
		Host:                  serverFlags.Host,
		Port:                  serverFlags.Port,
		ConcurrentClientLimit: serverFlags.Threads,
		AcceptBacklog:         serverFlags.AcceptBacklog,
		Logger:                logs.Logger(logging.CategoryStartup),
	})
	svc.Register(srv)

	logs.Logger(logging.CategoryStartup).Info("liked starting")
	return srv.Serve(ctx)
}
