package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cjdiaz98/showdown/engine"
	"github.com/cjdiaz98/showdown/internal/tui"
	"github.com/cjdiaz98/showdown/searcher"
)

func runDecide(ctx context.Context, dex *engine.Dex, args []string, stdin io.Reader, stdout io.Writer) error {
	flags := flag.NewFlagSet("decide", flag.ContinueOnError)
	input := flags.String("state", "-", "json file holding a battle state or a request with hypotheses, - for stdin")
	botName := flags.String("bot", "", "bot to use instead of the configured one")
	pretty := flags.Bool("pretty", false, "print the payoff matrix as a table instead of json")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	req, err := readRequest(*input, stdin)
	if err != nil {
		return err
	}
	for h, state := range req.Hypotheses {
		if err := state.Validate(); err != nil {
			return fmt.Errorf("hypothesis %d: %w", h, err)
		}
		if err := dex.CheckState(state); err != nil {
			return fmt.Errorf("hypothesis %d: %w", h, err)
		}
	}

	bot, err := newBot(dex, *botName)
	if err != nil {
		return err
	}

	decision, err := bot.Choose(ctx, req)
	if err != nil {
		return err
	}

	if *pretty {
		fmt.Fprintf(stdout, "%s chose %s (floor %.1f, depth %d/%d)\n",
			decision.Bot, decision.Action.DisplayName(), decision.Floor, decision.Report.Depth, decision.Report.RequestedDepth)
		fmt.Fprintln(stdout, tui.RenderMatrix(decision.Matrix, decision.Action))
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(decision)
}

// readRequest accepts either {"hypotheses": [...]} or a bare battle state
func readRequest(path string, stdin io.Reader) (searcher.Request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return searcher.Request{}, fmt.Errorf("reading state: %w", err)
	}

	req := searcher.Request{}
	if err := json.Unmarshal(data, &req); err == nil && len(req.Hypotheses) > 0 {
		return req, nil
	}

	state := &engine.BattleState{}
	if err := json.Unmarshal(data, state); err != nil {
		return searcher.Request{}, fmt.Errorf("parsing state: %w", err)
	}
	return searcher.Request{Hypotheses: []*engine.BattleState{state}}, nil
}
