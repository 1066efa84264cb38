package emu

// LoadStoreUnit implements the unscaled loads and stores over the 32-bit
// word memory interface. Sub-word accesses are synthesized by masking and
// read-modify-write of the containing word; the backing address is always
// rounded down to a 4-byte boundary by the memory layer.
type LoadStoreUnit struct {
	current *State
	next    *State
	memory  *Memory
}

// NewLoadStoreUnit creates a LoadStoreUnit operating on the given snapshot
// pair and memory.
func NewLoadStoreUnit(current, next *State, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{current: current, next: next, memory: memory}
}

// address computes the effective address Xn + imm9.
func (lsu *LoadStoreUnit) address(rn uint8, offset int64) uint64 {
	return lsu.current.ReadReg(rn) + uint64(offset)
}

// LDUR performs a 64-bit little-endian load from Xn + offset, synthesized
// as two word reads: the low word, then the high word at +4.
func (lsu *LoadStoreUnit) LDUR(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	low := uint64(lsu.memory.Read32(addr))
	high := uint64(lsu.memory.Read32(addr + 4))
	lsu.next.WriteReg(rt, high<<32|low)
}

// LDURB performs a zero-extended byte load: the byte lane is selected by
// the address's low two bits within the containing word.
func (lsu *LoadStoreUnit) LDURB(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	word := lsu.memory.Read32(addr)
	lane := (addr & 0x3) * 8
	lsu.next.WriteReg(rt, uint64((word>>lane)&0xFF))
}

// LDURH performs a zero-extended 16-bit load from a 2-byte-aligned address;
// the halfword sits at byte offset 0 or 2 within the containing word.
func (lsu *LoadStoreUnit) LDURH(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	word := lsu.memory.Read32(addr)
	lane := (addr & 0x3) * 8
	lsu.next.WriteReg(rt, uint64((word>>lane)&0xFFFF))
}

// STUR performs a 64-bit little-endian store as two word writes.
func (lsu *LoadStoreUnit) STUR(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	value := lsu.current.ReadReg(rt)
	lsu.memory.Write32(addr, uint32(value))
	lsu.memory.Write32(addr+4, uint32(value>>32))
}

// STURB splices the low 8 bits of Xt into the byte lane selected by the
// address, via read-modify-write of the containing word.
func (lsu *LoadStoreUnit) STURB(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	lane := (addr & 0x3) * 8
	word := lsu.memory.Read32(addr)
	word &^= 0xFF << lane
	word |= uint32(lsu.current.ReadReg(rt)&0xFF) << lane
	lsu.memory.Write32(addr, word)
}

// STURH splices the low 16 bits of Xt into the halfword lane selected by
// the address, via read-modify-write of the containing word.
func (lsu *LoadStoreUnit) STURH(rt, rn uint8, offset int64) {
	addr := lsu.address(rn, offset)
	lane := (addr & 0x3) * 8
	word := lsu.memory.Read32(addr)
	word &^= 0xFFFF << lane
	word |= uint32(lsu.current.ReadReg(rt)&0xFFFF) << lane
	lsu.memory.Write32(addr, word)
}
