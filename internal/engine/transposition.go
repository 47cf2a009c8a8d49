package engine

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key   uint64 // Full 64-bit key for verification
	Score int32  // Score (bounded by flag), side to move's perspective
	Depth int8   // Remaining search depth when stored
	Flag  TTFlag // Type of bound
	Age   uint8  // Generation for replacement
}

// TranspositionTable is a hash table for storing search results, keyed by
// board.Board.Key. It belongs to a single searcher and is not safe for
// concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(16)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize

	// Round down to power of 2 for fast modulo
	numEntries = roundDownToPowerOf2(numEntries)

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
// Returns the entry and true if found, otherwise returns empty entry and false.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	tt.probes++

	entry := tt.entries[key&tt.mask]
	if entry.Key == key && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a search result in the transposition table.
//
// An entry from the current search is only replaced by one searched at
// least as deep; entries from earlier searches are always replaced.
func (tt *TranspositionTable) Store(key uint64, depth int, score int, flag TTFlag) {
	entry := &tt.entries[key&tt.mask]

	if entry.Age != tt.age || depth >= int(entry.Depth) {
		entry.Key = key
		entry.Score = int32(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

// Lookup returns the usable score for a node searched to depth with the
// window (alpha, beta). An entry is trusted only if it was searched at
// least as deep and its bound decides the window.
func (tt *TranspositionTable) Lookup(key uint64, depth, alpha, beta int) (int, bool) {
	entry, ok := tt.Probe(key)
	if !ok || int(entry.Depth) < depth {
		return 0, false
	}

	score := int(entry.Score)
	switch entry.Flag {
	case TTExact:
		return min(max(score, alpha), beta), true
	case TTLowerBound:
		if score >= beta {
			return beta, true
		}
	case TTUpperBound:
		if score <= alpha {
			return alpha, true
		}
	}
	return 0, false
}

// NewSearch increments the age counter for a new search.
// This helps with replacement decisions. Hit statistics restart.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
	tt.hits = 0
	tt.probes = 0
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	// Sample first 1000 entries
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the share of probes since NewSearch that found their
// key, as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}
