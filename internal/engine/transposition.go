package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/hailam/chesscore/internal/board"
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key       uint64  // Zobrist hash the entry was stored under
	Signature uint64  // Independent position signature, 0 when unverified
	Score     float64 // Static grade, White's point of view
}

// ttStore is the storage behind a TranspositionTable.
type ttStore interface {
	get(key uint64) (TTEntry, bool)
	set(key uint64, e TTEntry)
	len() int
	clear()
	close()
}

// TranspositionTable memoizes position grades by hash.
// Single-threaded: it belongs to one Engine.
type TranspositionTable struct {
	store  ttStore
	verify bool

	hits       uint64
	probes     uint64
	collisions uint64
}

// NewTranspositionTable creates a table. A capacity of zero gives an
// unbounded map; a positive capacity bounds the table to that many entries
// with ristretto's admission and eviction policy.
func NewTranspositionTable(capacity int64, verify bool) (*TranspositionTable, error) {
	tt := &TranspositionTable{verify: verify}
	if capacity <= 0 {
		tt.store = mapStore{}
		return tt, nil
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, TTEntry]{
		NumCounters:        capacity * 10,
		MaxCost:            capacity,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("transposition table: %w", err)
	}
	tt.store = &ristrettoStore{cache: cache}
	return tt, nil
}

// Probe looks up a position. sig is the position's Signature; it is ignored
// when the table does not verify hits.
func (tt *TranspositionTable) Probe(hash, sig uint64) (float64, bool) {
	tt.probes++

	entry, ok := tt.store.get(hash)
	if !ok || entry.Key != hash {
		return 0, false
	}
	if tt.verify && entry.Signature != sig {
		tt.collisions++
		return 0, false
	}

	tt.hits++
	return entry.Score, true
}

// Store saves a grade, replacing any entry under the same hash.
func (tt *TranspositionTable) Store(hash, sig uint64, score float64) {
	if !tt.verify {
		sig = 0
	}
	tt.store.set(hash, TTEntry{Key: hash, Signature: sig, Score: score})
}

// Verifies reports whether hits are checked against a signature.
func (tt *TranspositionTable) Verifies() bool {
	return tt.verify
}

// Clear empties the table and resets its statistics.
func (tt *TranspositionTable) Clear() {
	tt.store.clear()
	tt.hits = 0
	tt.probes = 0
	tt.collisions = 0
}

// Close releases the table's background resources.
func (tt *TranspositionTable) Close() {
	tt.store.close()
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

func (tt *TranspositionTable) Hits() uint64       { return tt.hits }
func (tt *TranspositionTable) Probes() uint64     { return tt.probes }
func (tt *TranspositionTable) Collisions() uint64 { return tt.collisions }

// Len returns the number of stored entries.
func (tt *TranspositionTable) Len() int {
	return tt.store.len()
}

type mapStore map[uint64]TTEntry

func (m mapStore) get(key uint64) (TTEntry, bool) {
	e, ok := m[key]
	return e, ok
}

func (m mapStore) set(key uint64, e TTEntry) { m[key] = e }
func (m mapStore) len() int                  { return len(m) }
func (m mapStore) clear()                    { clear(m) }
func (m mapStore) close()                    {}

type ristrettoStore struct {
	cache *ristretto.Cache[uint64, TTEntry]
}

func (r *ristrettoStore) get(key uint64) (TTEntry, bool) {
	return r.cache.Get(key)
}

// set is asynchronous: the entry becomes visible once ristretto drains its
// write buffer.
func (r *ristrettoStore) set(key uint64, e TTEntry) {
	r.cache.Set(key, e, 1)
}

func (r *ristrettoStore) len() int {
	m := r.cache.Metrics
	return int(m.KeysAdded() - m.KeysEvicted())
}

func (r *ristrettoStore) clear() { r.cache.Clear() }
func (r *ristrettoStore) close() { r.cache.Close() }

// wait blocks until buffered writes are applied.
func (r *ristrettoStore) wait() { r.cache.Wait() }

// Signature hashes the full placement, side to move, castling rights and
// en-passant square of pos with xxhash. It is independent of the Zobrist
// keys, so two positions that share a Zobrist hash are still told apart.
func Signature(pos *board.Position) uint64 {
	var buf [2*6*8 + 3]byte
	n := 0
	for c := range pos.Pieces {
		for pt := range pos.Pieces[c] {
			binary.LittleEndian.PutUint64(buf[n:], uint64(pos.Pieces[c][pt]))
			n += 8
		}
	}
	buf[n] = byte(pos.SideToMove)
	buf[n+1] = byte(pos.CastlingRights)
	buf[n+2] = byte(pos.EnPassant)
	return xxhash.Sum64(buf[:])
}
