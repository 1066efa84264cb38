package emu

// ALU implements the arithmetic and logic operations of the subset.
// It reads the current snapshot and writes the next one; all arithmetic
// wraps in 64-bit two's complement.
type ALU struct {
	current *State
	next    *State
}

// NewALU creates an ALU operating on the given snapshot pair.
func NewALU(current, next *State) *ALU {
	return &ALU{current: current, next: next}
}

// setFlags updates Z and N from a result interpreted as signed.
// C and V are not modeled.
func (a *ALU) setFlags(result int64) {
	a.next.FlagZ = result == 0
	a.next.FlagN = result < 0
}

// AddImm performs Xd = Xn + imm, optionally setting flags.
func (a *ALU) AddImm(rd, rn uint8, imm uint64, setFlags bool) {
	result := a.current.ReadReg(rn) + imm
	a.next.WriteReg(rd, result)
	if setFlags {
		a.setFlags(int64(result))
	}
}

// SubImm performs Xd = Xn - imm, optionally setting flags. CMP immediate
// is this operation with Rd = XZR.
func (a *ALU) SubImm(rd, rn uint8, imm uint64, setFlags bool) {
	result := a.current.ReadReg(rn) - imm
	a.next.WriteReg(rd, result)
	if setFlags {
		a.setFlags(int64(result))
	}
}

// AddReg performs Xd = Xn + Xm, optionally setting flags.
func (a *ALU) AddReg(rd, rn, rm uint8, setFlags bool) {
	result := a.current.ReadReg(rn) + a.current.ReadReg(rm)
	a.next.WriteReg(rd, result)
	if setFlags {
		a.setFlags(int64(result))
	}
}

// SubReg performs Xd = Xn - Xm, optionally setting flags. CMP is this
// operation with Rd = XZR.
func (a *ALU) SubReg(rd, rn, rm uint8, setFlags bool) {
	result := a.current.ReadReg(rn) - a.current.ReadReg(rm)
	a.next.WriteReg(rd, result)
	if setFlags {
		a.setFlags(int64(result))
	}
}

// Mul performs Xd = Xn * Xm. No flags.
func (a *ALU) Mul(rd, rn, rm uint8) {
	a.next.WriteReg(rd, a.current.ReadReg(rn)*a.current.ReadReg(rm))
}

// Ands performs Xd = Xn & Xm and sets flags.
func (a *ALU) Ands(rd, rn, rm uint8) {
	result := a.current.ReadReg(rn) & a.current.ReadReg(rm)
	a.next.WriteReg(rd, result)
	a.setFlags(int64(result))
}

// Eor performs Xd = Xn ^ Xm. No flags.
func (a *ALU) Eor(rd, rn, rm uint8) {
	a.next.WriteReg(rd, a.current.ReadReg(rn)^a.current.ReadReg(rm))
}

// Orr performs Xd = Xn | Xm. No flags.
func (a *ALU) Orr(rd, rn, rm uint8) {
	a.next.WriteReg(rd, a.current.ReadReg(rn)|a.current.ReadReg(rm))
}

// MovZ writes imm16 << shift to Xd, zeroing the other bits.
func (a *ALU) MovZ(rd uint8, imm16 uint64, shift uint8) {
	a.next.WriteReg(rd, imm16<<shift)
}

// Lsl performs Xd = Xn << amount for amount in [0, 63]. No flags.
func (a *ALU) Lsl(rd, rn, amount uint8) {
	a.next.WriteReg(rd, a.current.ReadReg(rn)<<(amount&0x3F))
}

// Lsr performs the unsigned shift Xd = Xn >> amount for amount in [0, 63].
// No flags.
func (a *ALU) Lsr(rd, rn, amount uint8) {
	a.next.WriteReg(rd, a.current.ReadReg(rn)>>(amount&0x3F))
}
