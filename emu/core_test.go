package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armsim/emu"
)

var _ = Describe("Core", func() {
	var (
		memory *emu.Memory
		diag   *bytes.Buffer
		core   *emu.Core
	)

	BeforeEach(func() {
		memory = emu.NewMemory()
		diag = &bytes.Buffer{}
		core = emu.NewCore(memory, emu.WithDiagnostics(diag))
	})

	loadProgram := func(pc uint64, words ...uint32) {
		memory.LoadWords(pc, words)
		core.SetPC(pc)
	}

	Describe("arithmetic and flags", func() {
		It("should run the MOVZ/MOVZ/SUBS sequence", func() {
			loadProgram(0x1000,
				0xD28000A1, // movz x1, #5
				0xD2800062, // movz x2, #3
				0xEB020020, // subs x0, x1, x2
			)

			core.Run(3)

			Expect(core.Current.Regs[0]).To(Equal(uint64(2)))
			Expect(core.Current.Regs[1]).To(Equal(uint64(5)))
			Expect(core.Current.Regs[2]).To(Equal(uint64(3)))
			Expect(core.Current.FlagZ).To(BeFalse())
			Expect(core.Current.FlagN).To(BeFalse())
			Expect(core.Current.PC).To(Equal(uint64(0x100C)))
		})
	})

	Describe("conditional branching", func() {
		It("should skip over the not-taken path", func() {
			loadProgram(0x1000,
				0xD28000E1, // movz x1, #7
				0xEB01003F, // subs xzr, x1, x1 (cmp x1, x1)
				0x54000040, // b.eq #0x8
				0xD29BD5A0, // movz x0, #0xdead (skipped)
				0xD2800020, // movz x0, #1
			)

			core.Run(4)

			Expect(core.Current.Regs[0]).To(Equal(uint64(1)))
			Expect(core.Current.FlagZ).To(BeTrue())
			Expect(core.Current.PC).To(Equal(uint64(0x1014)))
		})
	})

	Describe("memory round-trip", func() {
		It("should store and reload a doubleword", func() {
			loadProgram(0x1000,
				0xF8000022, // stur x2, [x1]
				0xF8400023, // ldur x3, [x1]
			)
			core.Current.Regs[1] = 0x100
			core.Current.Regs[2] = 0x1122_3344_5566_7788

			core.Run(2)

			Expect(core.Current.Regs[3]).To(Equal(uint64(0x1122_3344_5566_7788)))
			Expect(memory.Read32(0x100)).To(Equal(uint32(0x5566_7788)))
			Expect(memory.Read32(0x104)).To(Equal(uint32(0x1122_3344)))
		})
	})

	Describe("byte lane selection", func() {
		It("should store and reload a byte at lane 3", func() {
			loadProgram(0x1000,
				0x38003022, // sturb w2, [x1, #3]
				0x38403023, // ldurb w3, [x1, #3]
			)
			core.Current.Regs[1] = 0x200
			core.Current.Regs[2] = 0xAB

			core.Run(2)

			Expect(core.Current.Regs[3]).To(Equal(uint64(0xAB)))
			Expect(memory.Read32(0x200)).To(Equal(uint32(0xAB00_0000)))
		})
	})

	Describe("HLT", func() {
		It("should clear the run bit and leave state unchanged", func() {
			loadProgram(0x1000, 0xD4400000)

			n := core.Run(10)

			Expect(n).To(Equal(uint64(1)))
			Expect(core.RunBit).To(BeFalse())
			Expect(core.Current.PC).To(Equal(uint64(0x1000)))
			Expect(core.Current.Regs).To(Equal([32]uint64{}))
			Expect(core.Current.FlagZ).To(BeFalse())
			Expect(core.Current.FlagN).To(BeFalse())
		})

		It("should not step once halted", func() {
			loadProgram(0x1000, 0xD4400000)
			core.Run(0)

			Expect(core.Run(5)).To(Equal(uint64(0)))
		})
	})

	Describe("unknown instructions", func() {
		It("should log and advance the PC by 4", func() {
			loadProgram(0x1000,
				0x0000_0000, // undefined
				0xD28000A1,  // movz x1, #5
			)

			core.Run(2)

			Expect(diag.String()).To(ContainSubstring("unknown instruction"))
			Expect(diag.String()).To(ContainSubstring("0x1000"))
			Expect(core.Current.Regs[1]).To(Equal(uint64(5)))
			Expect(core.Current.PC).To(Equal(uint64(0x1008)))
			Expect(core.RunBit).To(BeTrue())
		})
	})

	Describe("the zero register", func() {
		It("should erase writes to register 31 at end of cycle", func() {
			loadProgram(0x1000,
				0x9100143F, // add xzr, x1, #5
			)
			core.Current.Regs[1] = 100

			core.Step()

			Expect(core.Current.Regs[31]).To(Equal(uint64(0)))
		})

		It("should hold register 31 at zero after every cycle", func() {
			loadProgram(0x1000,
				0xD28000A1, // movz x1, #5
				0xEB01003F, // cmp x1, x1
				0x9100143F, // add xzr, x1, #5
				0xD4400000, // hlt
			)

			for core.RunBit {
				core.Step()
				Expect(core.Current.Regs[31]).To(Equal(uint64(0)))
			}
		})
	})

	Describe("branch to register", func() {
		It("should jump to the absolute address", func() {
			loadProgram(0x1000,
				0xD61F0060, // br x3
			)
			memory.LoadWords(0x2000, []uint32{0xD2800020}) // movz x0, #1
			core.Current.Regs[3] = 0x2000

			core.Run(2)

			Expect(core.Current.Regs[0]).To(Equal(uint64(1)))
			Expect(core.Current.PC).To(Equal(uint64(0x2004)))
		})
	})

	Describe("backward branches", func() {
		It("should loop with CBNZ until the counter reaches zero", func() {
			// movz x1, #3; subs x1, x1, #1; cbnz x1, #-4; hlt
			loadProgram(0x1000,
				0xD2800061, // movz x1, #3
				0xF1000421, // subs x1, x1, #1
				0x35FFFFE1, // cbnz x1, #-4
				0xD4400000, // hlt
			)

			core.Run(0)

			Expect(core.RunBit).To(BeFalse())
			Expect(core.Current.Regs[1]).To(Equal(uint64(0)))
			Expect(core.Current.PC).To(Equal(uint64(0x100C)))
		})
	})

	Describe("Reset", func() {
		It("should zero the snapshots and restart the cycle counter", func() {
			loadProgram(0x1000, 0xD28000A1, 0xD4400000)
			core.Run(0)

			core.Reset()

			Expect(core.Current).To(Equal(emu.State{}))
			Expect(core.RunBit).To(BeTrue())
			Expect(core.Cycles()).To(Equal(uint64(0)))
			// Memory survives a reset.
			Expect(memory.Read32(0x1000)).To(Equal(uint32(0xD28000A1)))
		})
	})
})
