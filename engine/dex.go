package engine

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"

	"github.com/cjdiaz98/showdown/gamedata"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type BaseStats struct {
	Hp       int `json:"hp"`
	Attack   int `json:"atk"`
	Def      int `json:"def"`
	SpAttack int `json:"spa"`
	SpDef    int `json:"spd"`
	Speed    int `json:"spe"`
}

type Species struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Types     []string  `json:"types"`
	BaseStats BaseStats `json:"baseStats"`
	Abilities []string  `json:"abilities"`
}

// Dex is the read-only registry of moves and species. It is safe to share between search workers.
type Dex struct {
	moves   map[string]*Move
	species map[string]*Species
}

const (
	MOVES_FILE   = "moves.json"
	SPECIES_FILE = "species.json"
)

// LoadDex reads MOVES_FILE and SPECIES_FILE from files concurrently
func LoadDex(files fs.FS) (*Dex, error) {
	dex := &Dex{}
	var group errgroup.Group

	group.Go(func() error {
		moves := make([]*Move, 0)
		if err := readJSON(files, MOVES_FILE, &moves); err != nil {
			return err
		}

		dex.moves = make(map[string]*Move, len(moves))
		for _, move := range moves {
			if move.ID == "" {
				return fmt.Errorf("%s: move without id", MOVES_FILE)
			}
			dex.moves[move.ID] = move
		}

		internalLogger.WithName("load_dex").Info("Loaded moves", "count", len(dex.moves))
		return nil
	})
	group.Go(func() error {
		species := make([]*Species, 0)
		if err := readJSON(files, SPECIES_FILE, &species); err != nil {
			return err
		}

		dex.species = make(map[string]*Species, len(species))
		for _, s := range species {
			if s.ID == "" {
				return fmt.Errorf("%s: species without id", SPECIES_FILE)
			}
			dex.species[s.ID] = s
		}

		internalLogger.WithName("load_dex").Info("Loaded species", "count", len(dex.species))
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return dex, nil
}

// DefaultDex loads the tables shipped with the module
func DefaultDex() (*Dex, error) {
	return LoadDex(gamedata.FS)
}

func readJSON(files fs.FS, name string, v any) error {
	fileBytes, err := fs.ReadFile(files, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := json.Unmarshal(fileBytes, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}

	return nil
}

// Move looks a move up by id. Struggle is always known.
func (d *Dex) Move(id string) (*Move, error) {
	if id == STRUGGLE.ID {
		return &STRUGGLE, nil
	}

	move, ok := d.moves[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMove, id)
	}
	return move, nil
}

func (d *Dex) Species(id string) (*Species, error) {
	species, ok := d.species[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return species, nil
}

// MoveIDs lists every move in the table, sorted
func (d *Dex) MoveIDs() []string {
	ids := lo.Keys(d.moves)
	slices.Sort(ids)
	return ids
}

// SpeciesIDs lists every species in the table, sorted
func (d *Dex) SpeciesIDs() []string {
	ids := lo.Keys(d.species)
	slices.Sort(ids)
	return ids
}

// Damage resolves the move by id and returns every distinct damage amount it can do
func (d *Dex) Damage(attacker, defender *Pokemon, moveID string, cond Conditions) ([]int, error) {
	move, err := d.Move(moveID)
	if err != nil {
		return nil, err
	}

	return CalculateDamage(attacker, defender, move, cond, false), nil
}

// CheckPokemon reports a species or moves on a pokemon that the dex does not know
func (d *Dex) CheckPokemon(p *Pokemon) error {
	if _, err := d.Species(p.Species); err != nil {
		return fmt.Errorf("pokemon %s: %w", p.Name, err)
	}
	for _, slot := range p.Moves {
		if slot.IsNil() {
			continue
		}
		if _, err := d.Move(slot.ID); err != nil {
			return fmt.Errorf("pokemon %s: %w", p.Name, err)
		}
	}
	return nil
}

// CheckState reports any reference data the state needs that the dex does not have
func (d *Dex) CheckState(state *BattleState) error {
	for _, id := range []SideID{USER, OPPONENT} {
		for _, p := range state.Side(id).Roster() {
			if err := d.CheckPokemon(p); err != nil {
				return fmt.Errorf("%s side: %w", id, err)
			}
		}
	}
	return nil
}
