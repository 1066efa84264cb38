package emu

import "encoding/binary"

const (
	pageShift = 12
	pageSize  = 1 << pageShift
	pageMask  = pageSize - 1
)

// Memory is a sparse byte-addressed memory exposed through 32-bit aligned
// word access. Pages are allocated on first write; reads from never-written
// addresses return 0. The low two bits of every address are ignored, per
// the shell convention the simulator core was written against.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty sparse memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64][]byte)}
}

// Read32 reads the little-endian 32-bit word containing addr.
func (m *Memory) Read32(addr uint64) uint32 {
	addr &^= 0x3
	page, ok := m.pages[addr>>pageShift]
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(page[addr&pageMask:])
}

// Write32 writes the little-endian 32-bit word containing addr.
func (m *Memory) Write32(addr uint64, value uint32) {
	addr &^= 0x3
	pageNum := addr >> pageShift
	page, ok := m.pages[pageNum]
	if !ok {
		page = make([]byte, pageSize)
		m.pages[pageNum] = page
	}
	binary.LittleEndian.PutUint32(page[addr&pageMask:], value)
}

// LoadWords writes consecutive 32-bit words starting at base. Used by the
// shell to place a program image.
func (m *Memory) LoadWords(base uint64, words []uint32) {
	for i, w := range words {
		m.Write32(base+uint64(i)*4, w)
	}
}
