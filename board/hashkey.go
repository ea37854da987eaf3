package board

import "math/rand"

// HashKey is a 64-bit Zobrist-style key.
type HashKey uint64

// MaxPossibleActions bounds the position index of a grid (including the
// underlying 19x19 coordinate space Killall-Go is addressed over).
const MaxPossibleActions = 400

// seed is fixed so that every process that calls Init computes identical
// keys, per spec.md §4.1: "Initialised once at program start from a fixed
// seed (seed 0)".
const seed = 0

// keyTables holds the process-wide hash-key tables. They are populated once
// by Init and never mutated afterwards, so concurrent readers need no lock.
type keyTables struct {
	turn   HashKey
	player [][3]HashKey // [position][player], player indexed 0=None,1=P1,2=P2
	move   [][][3]HashKey
}

var tables *keyTables

// Init computes the turn/player/move hash-key tables deterministically from
// the fixed seed. It must be called once before any HashKey lookup; it is
// idempotent (calling it again simply recomputes the same values).
func Init() {
	r := rand.New(rand.NewSource(seed))

	t := &keyTables{
		turn:   HashKey(rand64(r)),
		player: make([][3]HashKey, MaxPossibleActions),
		move:   make([][][3]HashKey, 2*MaxPossibleActions),
	}
	for pos := 0; pos < MaxPossibleActions; pos++ {
		for p := 0; p < 3; p++ {
			t.player[pos][p] = HashKey(rand64(r))
		}
	}
	for mv := 0; mv < 2*MaxPossibleActions; mv++ {
		t.move[mv] = make([][3]HashKey, MaxPossibleActions)
		for pos := 0; pos < MaxPossibleActions; pos++ {
			for p := 0; p < 3; p++ {
				t.move[mv][pos][p] = HashKey(rand64(r))
			}
		}
	}
	tables = t
}

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func playerIndex(p Player) int {
	switch p {
	case Player1:
		return 1
	case Player2:
		return 2
	default:
		return 0
	}
}

// TurnHashKey returns the single key XOR'd to flip side-to-move.
func TurnHashKey() HashKey {
	ensureInit()
	return tables.turn
}

// PlayerHashKey returns player_hash_key[position][player].
func PlayerHashKey(position int, p Player) HashKey {
	ensureInit()
	return tables.player[position][playerIndex(p)]
}

// MoveHashKey returns move_hash_key[move_number][position][player], used for
// GHI-aware sequence keys (spec.md §4.1, §4.5).
func MoveHashKey(moveNumber, position int, p Player) HashKey {
	ensureInit()
	return tables.move[moveNumber][position][playerIndex(p)]
}

func ensureInit() {
	if tables == nil {
		Init()
	}
}
