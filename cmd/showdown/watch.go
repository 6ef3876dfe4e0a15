package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/internal/global"
	"github.com/cjdiaz98/showdown/internal/tui"
	"github.com/cjdiaz98/showdown/searcher"
	"github.com/rs/zerolog/log"
)

func runWatch(ctx context.Context, dex *engine.Dex, args []string) error {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	seed := flags.Uint64("seed", 0, "seed for the teams and the sampled outcomes, 0 picks one at random")
	teamSize := flags.Int("team-size", 3, "pokemon per side")
	opponentName := flags.String("opponent", searcher.BOT_HEURISTIC, "bot playing the opponent")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	if *teamSize < 1 || *teamSize > len(dex.SpeciesIDs()) {
		return fmt.Errorf("%w: team size must be between 1 and %d", errUsage, len(dex.SpeciesIDs()))
	}

	if *seed != 0 {
		global.ForceRng(rand.NewPCG(*seed, *seed))
	}
	rng := global.ShowdownRand

	userTeam := engine.RandomTeam(dex, rng, *teamSize)
	opponentTeam := engine.RandomTeam(dex, rng, *teamSize)
	state := engine.NewState(
		engine.NewSide(userTeam[0], userTeam[1:]...),
		engine.NewSide(opponentTeam[0], opponentTeam[1:]...),
	)

	user, err := newBot(dex, "")
	if err != nil {
		return err
	}
	opponent, err := newBot(dex, *opponentName)
	if err != nil {
		return err
	}

	botConfig, err := global.Opt.BotConfig()
	if err != nil {
		return err
	}
	match := searcher.NewMatch(state, engine.NewResolver(dex, engine.WithRollPolicy(botConfig.Rolls)), user, opponent, rng)

	log.Info().Str("user", user.Name()).Str("opponent", opponent.Name()).Int("teamSize", *teamSize).Msg("watching match")

	program := tea.NewProgram(tui.NewWatchModel(ctx, match), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
