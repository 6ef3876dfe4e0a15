package engine

// StateMutator edits one BattleState in place so search can walk into a branch and back out without copying
type StateMutator struct {
	State *BattleState
}

func NewStateMutator(state *BattleState) *StateMutator {
	return &StateMutator{State: state}
}

// Apply runs the instructions in order
func (m *StateMutator) Apply(instructions []Instruction) {
	for _, instruction := range instructions {
		instruction.Apply(m.State)
	}
}

// Reverse undoes instructions previously passed to Apply, last one first
func (m *StateMutator) Reverse(instructions []Instruction) {
	for i := len(instructions) - 1; i >= 0; i-- {
		instructions[i].Reverse(m.State)
	}
}

// ApplyOne is Apply for a single instruction
func (m *StateMutator) ApplyOne(instruction Instruction) {
	instruction.Apply(m.State)
}

func (m *StateMutator) ReverseOne(instruction Instruction) {
	instruction.Reverse(m.State)
}
