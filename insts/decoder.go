// Package insts provides ARMv8 instruction definitions and decoding.
package insts

// Decoder decodes 32-bit ARMv8 machine words into instructions.
// Decoding is a pure function of the word: branch targets are never
// computed here, only offsets, so a decoded record is usable at any PC.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// pattern is one row of the decode table: a word matches when
// word & mask == bits. Rows are mutually exclusive on legal input except
// for the CMP aliases: the CMP rows carry the Rd bits in their masks, but a
// CMP word still matches its SUBS row too, so the CMP rows are listed
// before the SUBS rows and win as the first match.
type pattern struct {
	mask    uint32
	bits    uint32
	op      Op
	extract func(word uint32, inst *Instruction)
}

var decodeTable = []pattern{
	{0xFFFF_FC00, 0xD440_0000, OpHLT, nil},

	{0xFF80_001F, 0xF100_001F, OpCMPImm, extractImmArith},
	{0xFF80_0000, 0xB100_0000, OpADDSImm, extractImmArith},
	{0xFF80_0000, 0xF100_0000, OpSUBSImm, extractImmArith},
	{0xFF80_0000, 0x9100_0000, OpADDImm, extractImmArith},
	{0xFF80_0000, 0xD100_0000, OpSUBImm, extractImmArith},

	{0xFFE0_001F, 0xEB00_001F, OpCMP, extractThreeReg},
	{0xFFE0_0000, 0xAB00_0000, OpADDS, extractThreeReg},
	{0xFFE0_0000, 0xEB00_0000, OpSUBS, extractThreeReg},
	{0xFFE0_0000, 0x8B00_0000, OpADD, extractThreeReg},
	{0xFFE0_0000, 0xCB00_0000, OpSUB, extractThreeReg},
	{0xFFE0_FC00, 0x9B00_7C00, OpMUL, extractThreeReg},
	{0xFFE0_0000, 0xEA00_0000, OpANDS, extractThreeReg},
	{0xFFE0_0000, 0xCA00_0000, OpEOR, extractThreeReg},
	{0xFFE0_0000, 0xAA00_0000, OpORR, extractThreeReg},

	{0xFFC0_0000, 0xD340_0000, OpUBFM, extractBitfield},
	{0xFF80_0000, 0xD280_0000, OpMOVZ, extractMoveWide},

	{0xFC00_0000, 0x1400_0000, OpB, extractBranch},
	{0xFFFF_FC1F, 0xD61F_0000, OpBR, extractBranchReg},
	{0xFF00_0010, 0x5400_0000, OpBCond, extractBranchCond},
	{0x7F00_0000, 0x3400_0000, OpCBZ, extractCompareBranch},
	{0x7F00_0000, 0x3500_0000, OpCBNZ, extractCompareBranch},

	{0xFFC0_0000, 0xF840_0000, OpLDUR, extractLoadStore},
	{0xFFC0_0000, 0x3840_0000, OpLDURB, extractLoadStore},
	{0xFFC0_0000, 0x7840_0000, OpLDURH, extractLoadStore},
	{0xFFC0_0000, 0xF800_0000, OpSTUR, extractLoadStore},
	{0xFFC0_0000, 0x3800_0000, OpSTURB, extractLoadStore},
	{0xFFC0_0000, 0x7800_0000, OpSTURH, extractLoadStore},
}

// Decode decodes a 32-bit instruction word. The first matching table row
// wins; a word that matches no row yields a record with Valid == false.
func (d *Decoder) Decode(word uint32) Instruction {
	for _, p := range decodeTable {
		if word&p.mask != p.bits {
			continue
		}
		inst := Instruction{Op: p.op, Valid: true}
		if p.extract != nil {
			p.extract(word, &inst)
		}
		return inst
	}
	return Instruction{Op: OpInvalid}
}

// signExtend interprets the low width bits of value as a two's-complement
// quantity and widens it to 64 bits: shift into the high end of the
// container, then arithmetic shift back down.
func signExtend(value uint32, width uint) int64 {
	shift := 64 - width
	return int64(uint64(value)<<shift) >> shift
}

func rd(word uint32) uint8 { return uint8(word & 0x1F) }
func rn(word uint32) uint8 { return uint8((word >> 5) & 0x1F) }
func rm(word uint32) uint8 { return uint8((word >> 16) & 0x1F) }

// extractImmArith handles ADD/SUB/ADDS/SUBS/CMP immediate:
// Rd=[4:0], Rn=[9:5], imm12=[21:10] unsigned, shift=[23:22].
func extractImmArith(word uint32, inst *Instruction) {
	inst.Rd = rd(word)
	inst.Rn = rn(word)
	inst.Imm = int64((word >> 10) & 0xFFF)
	inst.Shift = uint8((word >> 22) & 0x3)
}

// extractThreeReg handles the register arithmetic and logical forms:
// Rd=[4:0], Rn=[9:5], Rm=[20:16].
func extractThreeReg(word uint32, inst *Instruction) {
	inst.Rd = rd(word)
	inst.Rn = rn(word)
	inst.Rm = rm(word)
}

// extractBitfield handles the UBFM form shared by LSL and LSR:
// Rd=[4:0], Rn=[9:5], immr=[21:16], imms=[15:10].
func extractBitfield(word uint32, inst *Instruction) {
	inst.Rd = rd(word)
	inst.Rn = rn(word)
	inst.Immr = uint8((word >> 16) & 0x3F)
	inst.Imms = uint8((word >> 10) & 0x3F)
}

// extractMoveWide handles MOVZ: Rd=[4:0], imm16=[20:5], hw=[22:21].
func extractMoveWide(word uint32, inst *Instruction) {
	inst.Rd = rd(word)
	inst.Imm = int64((word >> 5) & 0xFFFF)
	inst.Shift = uint8((word>>21)&0x3) * 16
}

// extractBranch handles B: imm26=[25:0], sign-extended then scaled to bytes.
func extractBranch(word uint32, inst *Instruction) {
	inst.Imm = signExtend(word&0x3FF_FFFF, 26) << 2
}

// extractBranchReg handles BR: Rn=[9:5].
func extractBranchReg(word uint32, inst *Instruction) {
	inst.Rn = rn(word)
}

// extractBranchCond handles B.cond: imm19=[23:5], cond=[3:0].
func extractBranchCond(word uint32, inst *Instruction) {
	inst.Imm = signExtend((word>>5)&0x7_FFFF, 19) << 2
	inst.Cond = Cond(word & 0xF)
}

// extractCompareBranch handles CBZ/CBNZ: Rt=[4:0], imm19=[23:5].
func extractCompareBranch(word uint32, inst *Instruction) {
	inst.Rt = rd(word)
	inst.Imm = signExtend((word>>5)&0x7_FFFF, 19) << 2
}

// extractLoadStore handles the unscaled load/store forms:
// Rt=[4:0], Rn=[9:5], imm9=[20:12] signed.
func extractLoadStore(word uint32, inst *Instruction) {
	inst.Rt = rd(word)
	inst.Rn = rn(word)
	inst.Imm = signExtend((word>>12)&0x1FF, 9)
}
