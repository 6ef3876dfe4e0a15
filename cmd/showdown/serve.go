package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/internal/api"
	"github.com/cjdiaz98/showdown/internal/global"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/rs/zerolog/log"
)

func runServe(ctx context.Context, dex *engine.Dex, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", global.Opt.ListenAddr, "address to listen on")
	timeout := flags.Duration("timeout", 30*time.Second, "upper bound on one request")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	bot, err := newBot(dex, "")
	if err != nil {
		return err
	}

	botConfig, err := global.Opt.BotConfig()
	if err != nil {
		return err
	}
	s := searcher.NewSearcher(dex,
		searcher.WithResolver(engine.NewResolver(dex, engine.WithRollPolicy(botConfig.Rolls))),
		searcher.WithPruning(botConfig.Pruning),
		searcher.WithBudget(botConfig.Budget),
	)

	server := api.NewServer(bot, s, dex,
		api.WithTimeout(*timeout),
		api.WithLogger(log.Logger.With().Str("location", "api").Logger()),
	)

	if err := server.Serve(ctx, *addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
