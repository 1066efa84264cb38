package insts

import "fmt"

// condNames maps condition codes to their mnemonic suffixes.
var condNames = map[Cond]string{
	CondEQ: "eq",
	CondNE: "ne",
	CondGE: "ge",
	CondLT: "lt",
	CondGT: "gt",
	CondLE: "le",
}

// String returns the mnemonic suffix for a condition code.
func (c Cond) String() string {
	if name, ok := condNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cond%d", uint8(c))
}

func regName(r uint8) string {
	if r == 31 {
		return "xzr"
	}
	return fmt.Sprintf("x%d", r)
}

// String renders the decoded instruction in assembly-like form for
// diagnostics, the shell and the TUI.
func (i Instruction) String() string {
	if !i.Valid {
		return ".word (undefined)"
	}

	switch i.Op {
	case OpHLT:
		return "hlt #0"
	case OpADDSImm:
		return i.immArithString("adds")
	case OpSUBSImm:
		return i.immArithString("subs")
	case OpCMPImm:
		if i.Shift == 1 {
			return fmt.Sprintf("cmp %s, #%d, lsl #12", regName(i.Rn), i.Imm)
		}
		return fmt.Sprintf("cmp %s, #%d", regName(i.Rn), i.Imm)
	case OpADDImm:
		return i.immArithString("add")
	case OpSUBImm:
		return i.immArithString("sub")
	case OpADDS:
		return i.threeRegString("adds")
	case OpSUBS:
		return i.threeRegString("subs")
	case OpCMP:
		return fmt.Sprintf("cmp %s, %s", regName(i.Rn), regName(i.Rm))
	case OpADD:
		return i.threeRegString("add")
	case OpSUB:
		return i.threeRegString("sub")
	case OpMUL:
		return i.threeRegString("mul")
	case OpANDS:
		return i.threeRegString("ands")
	case OpEOR:
		return i.threeRegString("eor")
	case OpORR:
		return i.threeRegString("orr")
	case OpUBFM:
		mnemonic := "lsr"
		if i.IsLSL() {
			mnemonic = "lsl"
		}
		return fmt.Sprintf("%s %s, %s, #%d", mnemonic, regName(i.Rd), regName(i.Rn), i.ShiftAmount())
	case OpMOVZ:
		if i.Shift != 0 {
			return fmt.Sprintf("movz %s, #0x%x, lsl #%d", regName(i.Rd), i.Imm, i.Shift)
		}
		return fmt.Sprintf("movz %s, #0x%x", regName(i.Rd), i.Imm)
	case OpB:
		return fmt.Sprintf("b %s", offsetString(i.Imm))
	case OpBR:
		return fmt.Sprintf("br %s", regName(i.Rn))
	case OpBCond:
		return fmt.Sprintf("b.%s %s", i.Cond, offsetString(i.Imm))
	case OpCBZ:
		return fmt.Sprintf("cbz %s, %s", regName(i.Rt), offsetString(i.Imm))
	case OpCBNZ:
		return fmt.Sprintf("cbnz %s, %s", regName(i.Rt), offsetString(i.Imm))
	case OpLDUR:
		return i.loadStoreString("ldur")
	case OpLDURB:
		return i.loadStoreString("ldurb")
	case OpLDURH:
		return i.loadStoreString("ldurh")
	case OpSTUR:
		return i.loadStoreString("stur")
	case OpSTURB:
		return i.loadStoreString("sturb")
	case OpSTURH:
		return i.loadStoreString("sturh")
	}
	return ".word (undefined)"
}

func (i Instruction) immArithString(mnemonic string) string {
	if i.Shift == 1 {
		return fmt.Sprintf("%s %s, %s, #%d, lsl #12",
			mnemonic, regName(i.Rd), regName(i.Rn), i.Imm)
	}
	return fmt.Sprintf("%s %s, %s, #%d", mnemonic, regName(i.Rd), regName(i.Rn), i.Imm)
}

func (i Instruction) threeRegString(mnemonic string) string {
	return fmt.Sprintf("%s %s, %s, %s",
		mnemonic, regName(i.Rd), regName(i.Rn), regName(i.Rm))
}

func (i Instruction) loadStoreString(mnemonic string) string {
	if i.Imm != 0 {
		return fmt.Sprintf("%s %s, [%s, #%d]",
			mnemonic, regName(i.Rt), regName(i.Rn), i.Imm)
	}
	return fmt.Sprintf("%s %s, [%s]", mnemonic, regName(i.Rt), regName(i.Rn))
}

func offsetString(offset int64) string {
	if offset < 0 {
		return fmt.Sprintf("#-0x%x", -offset)
	}
	return fmt.Sprintf("#0x%x", offset)
}
