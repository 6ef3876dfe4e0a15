package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/internal/global"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/rs/zerolog/log"
)

const usage = `usage: showdown [-config path] <command> [flags]

commands:
  decide   pick an action for a battle state read from a file or stdin
  serve    run the http decision endpoint
  watch    watch two bots play a random battle in the terminal
`

var errUsage = errors.New("bad usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "showdown:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := flag.NewFlagSet("showdown", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage) }
	configPath := flags.String("config", global.DefaultConfigLocation(), "path to config.json")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return errUsage
	}

	command, rest := flags.Arg(0), flags.Args()[1:]

	// the terminal ui owns the screen, so watch only logs to the file
	var console io.Writer = os.Stderr
	if command == "watch" {
		console = nil
	}
	if err := global.GlobalInit(*configPath, console); err != nil {
		return err
	}

	dex, err := engine.DefaultDex()
	if err != nil {
		return fmt.Errorf("loading dex: %w", err)
	}

	switch command {
	case "decide":
		return runDecide(ctx, dex, rest, stdin, stdout)
	case "serve":
		return runServe(ctx, dex, rest)
	case "watch":
		return runWatch(ctx, dex, rest)
	}

	flags.Usage()
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

// newBot builds the configured bot, with the bot name overridden when name is not empty
func newBot(dex *engine.Dex, name string) (searcher.Bot, error) {
	botConfig, err := global.Opt.BotConfig()
	if err != nil {
		return nil, err
	}
	if name != "" {
		botConfig.Name = name
	}

	bot, err := searcher.NewBot(botConfig, dex)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("bot", bot.Name()).Int("maxDepth", botConfig.MaxDepth).Str("rolls", botConfig.Rolls.String()).Msg("bot ready")
	return bot, nil
}
