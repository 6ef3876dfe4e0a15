package engine

import "fmt"

// Instruction is a single reversible edit of a BattleState.
// Every instruction holds the delta or the old value it needs so Reverse is a constant time undo.
// Instructions only touch the active pokemon of a side, so they must be reversed in the opposite order they were applied.
type Instruction interface {
	Apply(*BattleState)
	Reverse(*BattleState)
}

// DamageInstruction lowers hp. Amount must not exceed the hp at the time it is applied.
type DamageInstruction struct {
	Side   SideID
	Amount int
}

func (i DamageInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.Hp -= i.Amount }
func (i DamageInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.Hp += i.Amount }
func (i DamageInstruction) String() string         { return fmt.Sprintf("damage %s %d", i.Side, i.Amount) }

// HealInstruction raises hp. Amount must not exceed the missing hp at the time it is applied.
type HealInstruction struct {
	Side   SideID
	Amount int
}

func (i HealInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.Hp += i.Amount }
func (i HealInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.Hp -= i.Amount }
func (i HealInstruction) String() string         { return fmt.Sprintf("heal %s %d", i.Side, i.Amount) }

// SwitchInstruction swaps the active pokemon with the reserve member In
type SwitchInstruction struct {
	Side SideID
	Out  string
	In   string
}

func (i SwitchInstruction) Apply(s *BattleState) {
	swapActive(s.Side(i.Side), i.In)
}

func (i SwitchInstruction) Reverse(s *BattleState) {
	swapActive(s.Side(i.Side), i.Out)
}

func (i SwitchInstruction) String() string {
	return fmt.Sprintf("switch %s %s -> %s", i.Side, i.Out, i.In)
}

func swapActive(side *Side, in string) {
	out := side.Active
	side.Active = side.Reserve[in]
	delete(side.Reserve, in)
	side.Reserve[out.Name] = out
}

// BoostInstruction adds Amount stages. Amount is already clamped so the stage stays in range.
type BoostInstruction struct {
	Side   SideID
	Stat   Stat
	Amount int
}

func (i BoostInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.Boosts[i.Stat] += i.Amount }
func (i BoostInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.Boosts[i.Stat] -= i.Amount }
func (i BoostInstruction) String() string {
	return fmt.Sprintf("boost %s %s %+d", i.Side, i.Stat, i.Amount)
}

type StatusInstruction struct {
	Side SideID
	Old  Status
	New  Status
}

func (i StatusInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.Status = i.New }
func (i StatusInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.Status = i.Old }
func (i StatusInstruction) String() string {
	return fmt.Sprintf("status %s %q -> %q", i.Side, i.Old, i.New)
}

// VolatileInstruction adds or removes a volatile. It is only created when it changes the set.
type VolatileInstruction struct {
	Side     SideID
	Volatile Volatile
	Add      bool
}

func (i VolatileInstruction) Apply(s *BattleState)   { setVolatile(s, i.Side, i.Volatile, i.Add) }
func (i VolatileInstruction) Reverse(s *BattleState) { setVolatile(s, i.Side, i.Volatile, !i.Add) }
func (i VolatileInstruction) String() string {
	if i.Add {
		return fmt.Sprintf("volatile %s +%s", i.Side, i.Volatile)
	}
	return fmt.Sprintf("volatile %s -%s", i.Side, i.Volatile)
}

func setVolatile(s *BattleState, side SideID, v Volatile, add bool) {
	active := s.Side(side).Active
	if add {
		active.Volatiles = active.Volatiles.With(v)
	} else {
		active.Volatiles = active.Volatiles.Without(v)
	}
}

type SideConditionInstruction struct {
	Side      SideID
	Condition SideCondition
	Amount    int
}

func (i SideConditionInstruction) Apply(s *BattleState) {
	s.Side(i.Side).Conditions[i.Condition] += i.Amount
}

func (i SideConditionInstruction) Reverse(s *BattleState) {
	s.Side(i.Side).Conditions[i.Condition] -= i.Amount
}

func (i SideConditionInstruction) String() string {
	return fmt.Sprintf("side %s %s %+d", i.Side, i.Condition, i.Amount)
}

type WeatherInstruction struct {
	Old Weather
	New Weather
}

func (i WeatherInstruction) Apply(s *BattleState)   { s.Weather = i.New }
func (i WeatherInstruction) Reverse(s *BattleState) { s.Weather = i.Old }
func (i WeatherInstruction) String() string {
	return fmt.Sprintf("weather %q/%d -> %q/%d", i.Old.Kind, i.Old.Turns, i.New.Kind, i.New.Turns)
}

type TerrainInstruction struct {
	Old Terrain
	New Terrain
}

func (i TerrainInstruction) Apply(s *BattleState)   { s.Terrain = i.New }
func (i TerrainInstruction) Reverse(s *BattleState) { s.Terrain = i.Old }
func (i TerrainInstruction) String() string {
	return fmt.Sprintf("terrain %q/%d -> %q/%d", i.Old.Kind, i.Old.Turns, i.New.Kind, i.New.Turns)
}

type TrickRoomInstruction struct {
	Old int
	New int
}

func (i TrickRoomInstruction) Apply(s *BattleState)   { s.TrickRoom = i.New }
func (i TrickRoomInstruction) Reverse(s *BattleState) { s.TrickRoom = i.Old }
func (i TrickRoomInstruction) String() string {
	return fmt.Sprintf("trickroom %d -> %d", i.Old, i.New)
}

// PPInstruction takes Amount pp from a move slot
type PPInstruction struct {
	Side   SideID
	Slot   int
	Amount int
}

func (i PPInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.Moves[i.Slot].PP -= i.Amount }
func (i PPInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.Moves[i.Slot].PP += i.Amount }
func (i PPInstruction) String() string {
	return fmt.Sprintf("pp %s slot %d -%d", i.Side, i.Slot, i.Amount)
}

type SleepTurnsInstruction struct {
	Side SideID
	Old  int
	New  int
}

func (i SleepTurnsInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.SleepTurns = i.New }
func (i SleepTurnsInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.SleepTurns = i.Old }
func (i SleepTurnsInstruction) String() string {
	return fmt.Sprintf("sleepturns %s %d -> %d", i.Side, i.Old, i.New)
}

type ToxicCountInstruction struct {
	Side SideID
	Old  int
	New  int
}

func (i ToxicCountInstruction) Apply(s *BattleState)   { s.Side(i.Side).Active.ToxicCount = i.New }
func (i ToxicCountInstruction) Reverse(s *BattleState) { s.Side(i.Side).Active.ToxicCount = i.Old }
func (i ToxicCountInstruction) String() string {
	return fmt.Sprintf("toxiccount %s %d -> %d", i.Side, i.Old, i.New)
}

// GimmickInstruction spends a one time resource for the whole side. Tera also changes the active pokemon's type.
// It is only created when the side has not used the gimmick yet.
type GimmickInstruction struct {
	Side    SideID
	Gimmick Gimmick
}

func (i GimmickInstruction) Apply(s *BattleState) {
	side := s.Side(i.Side)
	side.GimmicksUsed = side.GimmicksUsed.With(i.Gimmick)
	if i.Gimmick == GIMMICK_TERA {
		side.Active.Terastallized = true
	}
}

func (i GimmickInstruction) Reverse(s *BattleState) {
	side := s.Side(i.Side)
	side.GimmicksUsed = side.GimmicksUsed.Without(i.Gimmick)
	if i.Gimmick == GIMMICK_TERA {
		side.Active.Terastallized = false
	}
}

func (i GimmickInstruction) String() string {
	return fmt.Sprintf("gimmick %s %s", i.Side, i.Gimmick)
}

type WishInstruction struct {
	Side SideID
	Old  Wish
	New  Wish
}

func (i WishInstruction) Apply(s *BattleState)   { s.Side(i.Side).Wish = i.New }
func (i WishInstruction) Reverse(s *BattleState) { s.Side(i.Side).Wish = i.Old }
func (i WishInstruction) String() string {
	return fmt.Sprintf("wish %s %+v -> %+v", i.Side, i.Old, i.New)
}

type FutureSightInstruction struct {
	Side SideID
	Old  FutureSight
	New  FutureSight
}

func (i FutureSightInstruction) Apply(s *BattleState)   { s.Side(i.Side).FutureSight = i.New }
func (i FutureSightInstruction) Reverse(s *BattleState) { s.Side(i.Side).FutureSight = i.Old }
func (i FutureSightInstruction) String() string {
	return fmt.Sprintf("futuresight %s %+v -> %+v", i.Side, i.Old, i.New)
}
