package emu

import "github.com/sarchlab/armsim/insts"

// PCAction tells the cycle driver how to update the program counter after
// an instruction executes.
type PCAction uint8

// PC update directives.
const (
	// PCAdvance moves to the next sequential instruction (PC + 4).
	PCAdvance PCAction = iota
	// PCRelative adds a byte offset to the current PC.
	PCRelative
	// PCAbsolute jumps to an absolute address.
	PCAbsolute
	// PCHalt stops the simulation; the PC is left unchanged.
	PCHalt
)

// PCDirective is the executor's verdict on the next PC.
type PCDirective struct {
	Action PCAction
	Offset int64  // byte offset for PCRelative
	Target uint64 // absolute address for PCAbsolute
}

// Advance returns the ordinary PC + 4 directive.
func Advance() PCDirective { return PCDirective{Action: PCAdvance} }

// Relative returns a PC-relative branch directive.
func Relative(offset int64) PCDirective {
	return PCDirective{Action: PCRelative, Offset: offset}
}

// Absolute returns an absolute jump directive.
func Absolute(target uint64) PCDirective {
	return PCDirective{Action: PCAbsolute, Target: target}
}

// Halt returns the halt directive.
func Halt() PCDirective { return PCDirective{Action: PCHalt} }

// Executor applies the effect of a decoded instruction to the next-state
// snapshot and simulated memory, and reports the PC update.
type Executor struct {
	current  *State
	next     *State
	alu      *ALU
	branches *BranchUnit
	lsu      *LoadStoreUnit
}

// NewExecutor creates an Executor operating on the given snapshot pair
// and memory.
func NewExecutor(current, next *State, memory *Memory) *Executor {
	return &Executor{
		current:  current,
		next:     next,
		alu:      NewALU(current, next),
		branches: NewBranchUnit(current),
		lsu:      NewLoadStoreUnit(current, next, memory),
	}
}

// immValue applies the optional LSL #12 to an arithmetic immediate.
// Shift values other than 1 mean no shift.
func immValue(inst insts.Instruction) uint64 {
	if inst.Shift == 1 {
		return uint64(inst.Imm) << 12
	}
	return uint64(inst.Imm)
}

// Execute dispatches a valid decoded instruction. The caller filters
// invalid records; arithmetic wraps, so there are no recoverable failures.
func (e *Executor) Execute(inst insts.Instruction) PCDirective {
	switch inst.Op {
	case insts.OpHLT:
		return Halt()

	case insts.OpADDSImm:
		e.alu.AddImm(inst.Rd, inst.Rn, immValue(inst), true)
	case insts.OpSUBSImm:
		e.alu.SubImm(inst.Rd, inst.Rn, immValue(inst), true)
	case insts.OpCMPImm:
		e.alu.SubImm(inst.Rd, inst.Rn, immValue(inst), true)
	case insts.OpADDS:
		e.alu.AddReg(inst.Rd, inst.Rn, inst.Rm, true)
	case insts.OpSUBS:
		e.alu.SubReg(inst.Rd, inst.Rn, inst.Rm, true)
	case insts.OpCMP:
		e.alu.SubReg(inst.Rd, inst.Rn, inst.Rm, true)
	case insts.OpANDS:
		e.alu.Ands(inst.Rd, inst.Rn, inst.Rm)

	case insts.OpADDImm:
		e.alu.AddImm(inst.Rd, inst.Rn, immValue(inst), false)
	case insts.OpSUBImm:
		e.alu.SubImm(inst.Rd, inst.Rn, immValue(inst), false)
	case insts.OpADD:
		e.alu.AddReg(inst.Rd, inst.Rn, inst.Rm, false)
	case insts.OpSUB:
		e.alu.SubReg(inst.Rd, inst.Rn, inst.Rm, false)
	case insts.OpMUL:
		e.alu.Mul(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpEOR:
		e.alu.Eor(inst.Rd, inst.Rn, inst.Rm)
	case insts.OpORR:
		e.alu.Orr(inst.Rd, inst.Rn, inst.Rm)

	case insts.OpUBFM:
		if inst.IsLSL() {
			e.alu.Lsl(inst.Rd, inst.Rn, inst.ShiftAmount())
		} else {
			e.alu.Lsr(inst.Rd, inst.Rn, inst.ShiftAmount())
		}
	case insts.OpMOVZ:
		e.alu.MovZ(inst.Rd, uint64(inst.Imm), inst.Shift)

	case insts.OpB:
		return Relative(inst.Imm)
	case insts.OpBR:
		return Absolute(e.current.ReadReg(inst.Rn))
	case insts.OpBCond:
		if e.branches.CheckCondition(inst.Cond) {
			return Relative(inst.Imm)
		}
	case insts.OpCBZ:
		if e.current.ReadReg(inst.Rt) == 0 {
			return Relative(inst.Imm)
		}
	case insts.OpCBNZ:
		if e.current.ReadReg(inst.Rt) != 0 {
			return Relative(inst.Imm)
		}

	case insts.OpLDUR:
		e.lsu.LDUR(inst.Rt, inst.Rn, inst.Imm)
	case insts.OpLDURB:
		e.lsu.LDURB(inst.Rt, inst.Rn, inst.Imm)
	case insts.OpLDURH:
		e.lsu.LDURH(inst.Rt, inst.Rn, inst.Imm)
	case insts.OpSTUR:
		e.lsu.STUR(inst.Rt, inst.Rn, inst.Imm)
	case insts.OpSTURB:
		e.lsu.STURB(inst.Rt, inst.Rn, inst.Imm)
	case insts.OpSTURH:
		e.lsu.STURH(inst.Rt, inst.Rn, inst.Imm)
	}

	return Advance()
}
