package stabilizer

import "github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"

// stabilityBuffer keeps the last N confident parses, oldest first
type stabilityBuffer struct {
	capacity int
	entries  []receipt.ParsedReceipt
}

func newStabilityBuffer(capacity int) *stabilityBuffer {
	return &stabilityBuffer{
		capacity: capacity,
		entries:  make([]receipt.ParsedReceipt, 0, capacity),
	}
}

func (b *stabilityBuffer) push(r receipt.ParsedReceipt) {
	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, r)
}

func (b *stabilityBuffer) latest() (receipt.ParsedReceipt, bool) {
	if len(b.entries) == 0 {
		return receipt.ParsedReceipt{}, false
	}
	return b.entries[len(b.entries)-1], true
}

func (b *stabilityBuffer) size() int {
	return len(b.entries)
}

func (b *stabilityBuffer) clear() {
	b.entries = b.entries[:0]
}
