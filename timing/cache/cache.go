// Package cache models the ApexCore L1 data cache for the timing
// estimate, using Akita cache directory components for tag and
// replacement state. It is advisory only: functional results always come
// from the data store, never from this model.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in bytes (cache line size).
	BlockSize int
	// HitLatency in cycles.
	HitLatency uint64
	// MissLatency in cycles (includes the memory access).
	MissLatency uint64
}

// DefaultL1DConfig returns the data-cache configuration for the default
// core build: 4KB, 2-way, 16-byte lines, single-cycle hits.
func DefaultL1DConfig() Config {
	return Config{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   20,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Evicted is true if a valid block was evicted.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted).
	EvictedAddr uint32
}

// BackingStore is the next level in the memory hierarchy.
type BackingStore interface {
	// ReadBlock fetches a block-sized byte slice from the backing store.
	ReadBlock(addr uint32, size int) []byte
	// WriteBlock stores a block back to the backing store.
	WriteBlock(addr uint32, data []byte)
}

// Statistics holds cache performance counters.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// Cache is an L1 data cache model over a 32-bit address space.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl

	// Data storage, indexed by setID*associativity + wayID.
	dataStore [][]byte

	backing BackingStore
	stats   Statistics
}

// New creates a cache with the given configuration and backing store.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the cache performance counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears the cache performance counters.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint64 {
	return uint64(addr) / uint64(c.config.BlockSize) * uint64(c.config.BlockSize)
}

// Read models a data read at addr.
func (c *Cache) Read(addr uint32) AccessResult {
	c.stats.Reads++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false)
}

// Write models a data write at addr. Write-allocate: on a miss the block
// is fetched first, then marked dirty.
func (c *Cache) Write(addr uint32) AccessResult {
	c.stats.Writes++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		block.IsDirty = true
		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true)
}

// handleMiss fetches the missing block, evicting and writing back a
// victim when necessary.
func (c *Cache) handleMiss(addr uint32, isWrite bool) AccessResult {
	result := AccessResult{
		Hit:     false,
		Latency: c.config.MissLatency,
	}

	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)

		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.WriteBlock(uint32(victim.Tag), victimData)
		}
	}

	if c.backing != nil {
		copy(victimData, c.backing.ReadBlock(uint32(blockAddr), c.config.BlockSize))
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite

	c.directory.Visit(victim)

	return result
}

// Flush writes back all dirty blocks and invalidates the cache.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.backing.WriteBlock(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback and clears stats.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
