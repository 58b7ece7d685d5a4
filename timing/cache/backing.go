package cache

import (
	"github.com/LOuLOu-THEKing/ApexCore-RISC-V-CPU/core"
)

// DataStoreBacking adapts the functional data store as the next level of
// the timing model's hierarchy. Writebacks re-store words the data store
// already holds, so the adapter never changes functional state.
type DataStoreBacking struct {
	store *core.DataStore
}

// NewDataStoreBacking creates a backing adapter over the data store.
func NewDataStoreBacking(store *core.DataStore) *DataStoreBacking {
	return &DataStoreBacking{store: store}
}

// ReadBlock fetches a block from the data store, little-endian.
func (b *DataStoreBacking) ReadBlock(addr uint32, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		a := addr + uint32(i)
		word := b.store.Read(a &^ 3)
		data[i] = byte(word >> ((a & 3) * 8))
	}
	return data
}

// WriteBlock stores a block back word by word. Each word write commits
// through the store's synchronous write port.
func (b *DataStoreBacking) WriteBlock(addr uint32, data []byte) {
	for i := 0; i+4 <= len(data); i += 4 {
		word := uint32(data[i]) |
			uint32(data[i+1])<<8 |
			uint32(data[i+2])<<16 |
			uint32(data[i+3])<<24
		b.store.Write(addr+uint32(i), word, true)
		b.store.Tick()
	}
}
