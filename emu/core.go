package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/armsim/insts"
)

// Core is the cycle driver. It owns the two architectural snapshots, the
// run bit, and the fetch-decode-execute sequence. Current is read-only
// during a cycle; Next is the sole write target. Core values must not be
// copied once created.
type Core struct {
	// Current is the observed snapshot.
	Current State

	// Next is the snapshot written during a cycle and promoted at its end.
	Next State

	// RunBit is cleared when an HLT instruction executes.
	RunBit bool

	memory  *Memory
	decoder *insts.Decoder
	exec    *Executor
	diag    io.Writer
	cycles  uint64
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithDiagnostics routes unknown-instruction reports to w instead of stderr.
func WithDiagnostics(w io.Writer) CoreOption {
	return func(c *Core) {
		c.diag = w
	}
}

// NewCore creates a Core over the given memory with all registers, flags
// and the PC zeroed and the run bit set.
func NewCore(memory *Memory, opts ...CoreOption) *Core {
	c := &Core{
		RunBit:  true,
		memory:  memory,
		decoder: insts.NewDecoder(),
		diag:    os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = NewExecutor(&c.Current, &c.Next, memory)
	return c
}

// Memory returns the simulated memory.
func (c *Core) Memory() *Memory {
	return c.memory
}

// Cycles returns the number of cycles stepped since creation or reset.
func (c *Core) Cycles() uint64 {
	return c.cycles
}

// SetPC sets the program counter of the observed snapshot.
func (c *Core) SetPC(pc uint64) {
	c.Current.PC = pc
}

// ProcessInstruction advances the simulation by one instruction: fetch the
// word at the current PC, decode it, execute, and apply the PC directive.
// The caller must have initialized Next to equal Current. Register 31 is
// forced back to zero before returning.
func (c *Core) ProcessInstruction() {
	raw := c.memory.Read32(c.Current.PC)
	inst := c.decoder.Decode(raw)

	if !inst.Valid {
		fmt.Fprintf(c.diag, "unknown instruction 0x%08X at PC 0x%X\n", raw, c.Current.PC)
		c.Next.PC = c.Current.PC + 4
		c.Next.Regs[31] = 0
		return
	}

	directive := c.exec.Execute(inst)
	switch directive.Action {
	case PCAdvance:
		c.Next.PC = c.Current.PC + 4
	case PCRelative:
		c.Next.PC = c.Current.PC + uint64(directive.Offset)
	case PCAbsolute:
		c.Next.PC = directive.Target
	case PCHalt:
		// PC stays where it is; the shell observes the cleared run bit.
		c.RunBit = false
	}

	c.Next.Regs[31] = 0
}

// Step runs one full cycle: seed Next from Current, process one
// instruction, then promote Next to Current.
func (c *Core) Step() {
	c.Next = c.Current
	c.ProcessInstruction()
	c.Current = c.Next
	c.cycles++
}

// Run steps until the run bit clears or limit cycles have executed.
// A limit of 0 means no limit. It returns the number of cycles run.
func (c *Core) Run(limit uint64) uint64 {
	var n uint64
	for c.RunBit {
		if limit > 0 && n >= limit {
			break
		}
		c.Step()
		n++
	}
	return n
}

// Reset zeroes both snapshots, sets the run bit, and clears the cycle
// counter. Memory contents are left alone.
func (c *Core) Reset() {
	c.Current = State{}
	c.Next = State{}
	c.RunBit = true
	c.cycles = 0
}
