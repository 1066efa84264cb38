package shell

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sarchlab/armsim/config"
	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/insts"
)

// TUI is the full-screen debugger front-end: register, disassembly,
// memory and output panes over the same core the line shell drives.
type TUI struct {
	core    *emu.Core
	cfg     *config.Config
	decoder *insts.Decoder

	app          *tview.Application
	registerView *tview.TextView
	disasmView   *tview.TextView
	memoryView   *tview.TextView
	outputView   *tview.TextView
	commandInput *tview.InputField

	memoryAddress uint64
}

// NewTUI creates the debugger TUI over the given core.
func NewTUI(core *emu.Core, cfg *config.Config) *TUI {
	t := &TUI{
		core:          core,
		cfg:           cfg,
		decoder:       insts.NewDecoder(),
		app:           tview.NewApplication(),
		memoryAddress: cfg.BaseAddress(),
	}

	t.initViews()
	t.buildLayout()
	t.refresh()

	return t
}

func (t *TUI) initViews() {
	t.registerView = tview.NewTextView().SetDynamicColors(true)
	t.registerView.SetBorder(true).SetTitle(" Registers ")

	t.disasmView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.disasmView.SetBorder(true).SetTitle(" Disassembly ")

	t.memoryView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.memoryView.SetBorder(true).SetTitle(" Memory ")

	t.outputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.outputView.SetBorder(true).SetTitle(" Output ")

	t.commandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.commandInput.SetBorder(true).SetTitle(" Command (F10 step, F5 run, Ctrl-C quit) ")
	t.commandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.disasmView, 0, 2, false).
		AddItem(t.memoryView, 0, 1, false)

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.registerView, 0, 2, false).
		AddItem(t.outputView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, false).
		AddItem(t.commandInput, 3, 0, true)

	t.app.SetRoot(layout, true)
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.step()
			return nil
		case tcell.KeyF5:
			t.run()
			return nil
		}
		return event
	})
}

// Run starts the TUI event loop and blocks until the user quits.
func (t *TUI) Run() error {
	return t.app.Run()
}

func (t *TUI) step() {
	if !t.core.RunBit {
		t.logf("simulator is halted")
		return
	}
	t.core.Step()
	t.refresh()
}

func (t *TUI) run() {
	if !t.core.RunBit {
		t.logf("simulator is halted")
		return
	}
	n := t.core.Run(t.cfg.Execution.MaxCycles)
	if t.core.RunBit {
		t.logf("stopped after %d cycles (cycle limit)", n)
	} else {
		t.logf("halted after %d cycles", n)
	}
	t.refresh()
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := strings.TrimSpace(t.commandInput.GetText())
	t.commandInput.SetText("")
	if line == "" {
		return
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "s", "step":
		t.step()
	case "g", "go", "run":
		t.run()
	case "m", "mem":
		if len(fields) == 2 {
			addr, err := config.ParseAddress(fields[1])
			if err != nil {
				t.logf("%v", err)
				return
			}
			t.memoryAddress = addr
			t.refresh()
		}
	case "q", "quit":
		t.app.Stop()
	default:
		t.logf("unknown command %q (step, run, mem <addr>, quit)", fields[0])
	}
}

func (t *TUI) logf(format string, args ...interface{}) {
	fmt.Fprintf(t.outputView, format+"\n", args...)
}

func (t *TUI) refresh() {
	t.renderRegisters()
	t.renderDisassembly()
	t.renderMemory()
}

func (t *TUI) renderRegisters() {
	st := &t.core.Current
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]PC[-]  0x%016X\n", st.PC)
	fmt.Fprintf(&b, "[yellow]N[-]=%d [yellow]Z[-]=%d [yellow]RUN[-]=%d\n\n",
		boolBit(st.FlagN), boolBit(st.FlagZ), boolBit(t.core.RunBit))
	for i := 0; i < 32; i++ {
		fmt.Fprintf(&b, "X%-2d 0x%016X\n", i, st.Regs[i])
	}
	t.registerView.SetText(b.String())
}

func (t *TUI) renderDisassembly() {
	pc := t.core.Current.PC
	context := uint64(t.cfg.Display.DisasmContext)
	start := pc - 4*(context/2)
	if start > pc {
		start = 0
	}

	var b strings.Builder
	for addr := start; addr < start+4*context; addr += 4 {
		word := t.core.Memory().Read32(addr)
		inst := t.decoder.Decode(word)
		if addr == pc {
			fmt.Fprintf(&b, "[green]=> 0x%08X: %08X  %s[-]\n", addr, word, inst)
		} else {
			fmt.Fprintf(&b, "   0x%08X: %08X  %s\n", addr, word, inst)
		}
	}
	t.disasmView.SetText(b.String())
}

func (t *TUI) renderMemory() {
	perLine := t.cfg.Display.WordsPerLine
	var b strings.Builder
	addr := t.memoryAddress &^ 0x3
	for line := 0; line < 16; line++ {
		fmt.Fprintf(&b, "0x%08X:", addr)
		for i := 0; i < perLine; i++ {
			fmt.Fprintf(&b, " %08X", t.core.Memory().Read32(addr))
			addr += 4
		}
		fmt.Fprintln(&b)
	}
	t.memoryView.SetText(b.String())
}
