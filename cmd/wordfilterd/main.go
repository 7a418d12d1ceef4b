// Command wordfilterd runs the Wordfilter service: a stateless, in-memory
// invalid-word list consulted by Trending before a hashtag is counted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"context"

	"github.com/rodrigoalveslima/BuzzBlog/internal/config"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/wordfilter"
	"github.com/spf13/cobra"
)

func main() {
	var serverFlags config.ServerFlags
	var nInvalidWords int

	cmd := &cobra.Command{
		Use:   "wordfilterd",
		Short: "Runs the Wordfilter microservice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(serverFlags, nInvalidWords)
		},
	}
	config.RegisterServerFlags(cmd.Flags(), &serverFlags)
	cmd.Flags().IntVar(&nInvalidWords, "n_invalid_words", 0, "size of the seeded invalid word list (0 disables filtering)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(serverFlags config.ServerFlags, nInvalidWords int) error {
	logs, err := logging.NewSet(serverFlags.Logging, wordfilter.ServiceName)
	if err != nil {
		return err
	}
	defer logs.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := wordfilter.NewService(nInvalidWords)

	srv := rpcserver.New(rpcserver.Options{
		Host:                  serverFlags.Host,
		Port:                  serverFlags.Port,
		ConcurrentClientLimit: serverFlags.Threads,
		AcceptBacklog:         serverFlags.AcceptBacklog,
		Logger:                logs.Logger(logging.CategoryStartup),
	})
	svc.Register(srv)

	logs.Logger(logging.CategoryStartup).Info("wordfilterd starting")
	return srv.Serve(ctx)
}
