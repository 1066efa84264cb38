package emu

import "github.com/sarchlab/armsim/insts"

// BranchUnit evaluates branch conditions against the current snapshot.
type BranchUnit struct {
	current *State
}

// NewBranchUnit creates a BranchUnit reading the given snapshot.
func NewBranchUnit(current *State) *BranchUnit {
	return &BranchUnit{current: current}
}

// CheckCondition evaluates a condition code against the N and Z flags.
// Condition codes outside the supported set are never taken.
func (b *BranchUnit) CheckCondition(cond insts.Cond) bool {
	n := b.current.FlagN
	z := b.current.FlagZ

	switch cond {
	case insts.CondEQ:
		return z
	case insts.CondNE:
		return !z
	case insts.CondGE:
		return !n
	case insts.CondLT:
		return n
	case insts.CondGT:
		return !z && !n
	case insts.CondLE:
		return z || n
	default:
		return false
	}
}
