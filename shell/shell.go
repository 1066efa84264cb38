// Package shell provides the interactive front-ends of the simulator:
// a line-oriented command shell and a TUI debugger.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/armsim/config"
	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/insts"
)

// Shell is the line-oriented simulator shell. Commands mirror the
// traditional simulator shell set: go, run, step, rdump, mdump, input,
// pc, dis, help, quit.
type Shell struct {
	core    *emu.Core
	cfg     *config.Config
	decoder *insts.Decoder
	in      io.Reader
	out     io.Writer
}

// New creates a Shell over the given core, reading commands from in and
// writing results to out.
func New(core *emu.Core, cfg *config.Config, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		core:    core,
		cfg:     cfg,
		decoder: insts.NewDecoder(),
		in:      in,
		out:     out,
	}
}

// Run reads and executes commands until quit or EOF.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "ARMSIM> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if !s.Execute(scanner.Text()) {
			return nil
		}
	}
}

// Execute runs a single command line. It returns false when the shell
// should exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch strings.ToLower(fields[0]) {
	case "g", "go":
		n := s.core.Run(s.cfg.Execution.MaxCycles)
		if s.core.RunBit {
			fmt.Fprintf(s.out, "stopped after %d cycles (cycle limit)\n", n)
		} else {
			fmt.Fprintf(s.out, "simulator halted after %d cycles\n", n)
		}
	case "r", "run":
		n, ok := s.parseCount(fields, 1)
		if !ok {
			return true
		}
		ran := s.core.Run(n)
		fmt.Fprintf(s.out, "ran %d cycles\n", ran)
	case "s", "step":
		if s.core.RunBit {
			s.core.Step()
		} else {
			fmt.Fprintln(s.out, "simulator is halted")
		}
	case "rdump":
		s.DumpRegisters()
	case "mdump":
		s.cmdMdump(fields)
	case "input":
		s.cmdInput(fields)
	case "pc":
		s.cmdPC(fields)
	case "d", "dis":
		s.cmdDis(fields)
	case "h", "help", "?":
		s.printHelp()
	case "q", "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", fields[0])
	}
	return true
}

// DumpRegisters prints the PC, flags and all general-purpose registers.
func (s *Shell) DumpRegisters() {
	st := &s.core.Current
	fmt.Fprintf(s.out, "PC   = 0x%016X\n", st.PC)
	fmt.Fprintf(s.out, "N=%d Z=%d RUN=%d\n", boolBit(st.FlagN), boolBit(st.FlagZ), boolBit(s.core.RunBit))
	for i := 0; i < 32; i++ {
		fmt.Fprintf(s.out, "X%-2d  = 0x%016X\n", i, st.Regs[i])
	}
}

// DumpMemory prints the words in [lo, hi] one per line.
func (s *Shell) DumpMemory(lo, hi uint64) {
	for addr := lo &^ 0x3; addr <= hi; addr += 4 {
		fmt.Fprintf(s.out, "0x%08X: 0x%08X\n", addr, s.core.Memory().Read32(addr))
	}
}

// Disassemble prints count decoded instructions starting at addr.
func (s *Shell) Disassemble(addr uint64, count int) {
	for i := 0; i < count; i++ {
		word := s.core.Memory().Read32(addr)
		inst := s.decoder.Decode(word)
		marker := "  "
		if addr == s.core.Current.PC {
			marker = "=>"
		}
		fmt.Fprintf(s.out, "%s 0x%08X: %08X  %s\n", marker, addr, word, inst)
		addr += 4
	}
}

func (s *Shell) cmdMdump(fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(s.out, "usage: mdump <lo> <hi>")
		return
	}
	lo, err1 := config.ParseAddress(fields[1])
	hi, err2 := config.ParseAddress(fields[2])
	if err1 != nil || err2 != nil || hi < lo {
		fmt.Fprintln(s.out, "usage: mdump <lo> <hi>")
		return
	}
	s.DumpMemory(lo, hi)
}

func (s *Shell) cmdInput(fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(s.out, "usage: input <reg> <value>")
		return
	}
	reg, err := parseRegister(fields[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	value, err := config.ParseAddress(fields[2])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if reg == 31 {
		fmt.Fprintln(s.out, "register 31 is the zero register")
		return
	}
	s.core.Current.Regs[reg] = value
}

func (s *Shell) cmdPC(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintf(s.out, "PC = 0x%X\n", s.core.Current.PC)
		return
	}
	pc, err := config.ParseAddress(fields[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.core.SetPC(pc)
}

func (s *Shell) cmdDis(fields []string) {
	addr := s.core.Current.PC
	count := s.cfg.Display.DisasmContext
	if len(fields) >= 2 {
		parsed, err := config.ParseAddress(fields[1])
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		addr = parsed
	}
	if len(fields) == 3 {
		parsed, err := strconv.Atoi(fields[2])
		if err != nil || parsed < 1 {
			fmt.Fprintln(s.out, "usage: dis [addr] [count]")
			return
		}
		count = parsed
	}
	s.Disassemble(addr, count)
}

func (s *Shell) parseCount(fields []string, def uint64) (uint64, bool) {
	if len(fields) < 2 {
		return def, true
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil || n == 0 {
		fmt.Fprintf(s.out, "usage: %s <cycles>\n", fields[0])
		return 0, false
	}
	return n, true
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `commands:
  go                 run until HLT or the cycle limit
  run <n>            run n cycles
  step               run one cycle
  rdump              dump PC, flags and registers
  mdump <lo> <hi>    dump memory words
  input <reg> <val>  set a register
  pc [val]           show or set the PC
  dis [addr] [n]     disassemble
  quit               leave the shell
`)
}

func parseRegister(s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "xzr" {
		return 31, nil
	}
	s = strings.TrimPrefix(s, "x")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 31 {
		return 0, fmt.Errorf("bad register %q", s)
	}
	return uint8(n), nil
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
