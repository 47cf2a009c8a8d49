package board

import (
	"math/rand"
	"testing"
)

type snapshot struct {
	notation      string
	hash          uint64
	capturedWhite int
	capturedBlack int
}

func takeSnapshot(b *Board) snapshot {
	return snapshot{b.Notation(), b.Hash, b.CapturedWhite, b.CapturedBlack}
}

// checkConsistent compares the incremental hash and run-length cache of b
// against a board rebuilt from scratch.
func checkConsistent(t *testing.T, b *Board, context string) {
	t.Helper()

	if b.Hash != b.ComputeHash() {
		t.Fatalf("%s: incremental hash %016x != computed %016x", context, b.Hash, b.ComputeHash())
	}
	fresh, err := ParseNotation(b.Notation())
	if err != nil {
		t.Fatalf("%s: board notation does not parse: %v", context, err)
	}
	if fresh.Hash != b.Hash {
		t.Fatalf("%s: rebuilt hash %016x != %016x", context, fresh.Hash, b.Hash)
	}
	if fresh.CapturedWhite != b.CapturedWhite || fresh.CapturedBlack != b.CapturedBlack {
		t.Fatalf("%s: captures %d/%d, marble counts imply %d/%d", context,
			b.CapturedWhite, b.CapturedBlack, fresh.CapturedWhite, fresh.CapturedBlack)
	}
	for _, p := range AllPositions() {
		for _, d := range Directions {
			if got, want := b.RunLength(p, d), fresh.RunLength(p, d); got != want {
				t.Fatalf("%s: run length at %s towards %s = %d, want %d", context, p, d, got, want)
			}
		}
	}
}

func TestMakeUnmakeRestoresBoard(t *testing.T) {
	for _, n := range []string{StartNotation, captureNotation, fiveDownNotation} {
		b, err := ParseNotation(n)
		if err != nil {
			t.Fatalf("ParseNotation failed: %v", err)
		}
		before := takeSnapshot(b)

		for _, m := range GenerateMoves(b) {
			b.MakeMove(m)
			checkConsistent(t, b, "after "+m.String())
			if b.Turn == before.turn() {
				t.Fatalf("turn not flipped after %s", m)
			}
			b.UnmakeMove(m)

			if after := takeSnapshot(b); after != before {
				t.Fatalf("%s: unmake gave %+v, want %+v", m.Describe(), after, before)
			}
			checkConsistent(t, b, "after undoing "+m.String())
		}
	}
}

func (s snapshot) turn() Color {
	if s.notation[0] == 'W' {
		return White
	}
	return Black
}

func TestRandomGamesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for game := 0; game < 10; game++ {
		b := NewBoard()
		var history []Move
		var snaps []snapshot

		for ply := 0; ply < 150 && !b.IsGameOver(); ply++ {
			moves := GenerateMoves(b)
			if len(moves) == 0 {
				break
			}
			// Mix in the best-ordered move so captures show up.
			m := moves[rng.Intn(len(moves))]
			if rng.Intn(2) == 0 {
				m = moves[len(moves)-1]
			}
			snaps = append(snaps, takeSnapshot(b))
			history = append(history, m)
			b.MakeMove(m)
			checkConsistent(t, b, "game move "+m.String())
		}

		for i := len(history) - 1; i >= 0; i-- {
			b.UnmakeMove(history[i])
			if got := takeSnapshot(b); got != snaps[i] {
				t.Fatalf("game %d: undo of ply %d (%s) gave %+v, want %+v",
					game, i, history[i].Describe(), got, snaps[i])
			}
		}
		checkConsistent(t, b, "fully unwound game")
		if b.Notation() != StartNotation {
			t.Fatalf("game %d: unwinding did not reach the start position", game)
		}
	}
}

func TestCaptureAndUndo(t *testing.T) {
	b, err := ParseNotation(captureNotation)
	if err != nil {
		t.Fatalf("ParseNotation failed: %v", err)
	}

	m, err := ParseMove("C3,B2", b)
	if err != nil {
		t.Fatalf("ParseMove failed: %v", err)
	}
	if !m.Captures || m.Pulled != 1 || m.Pushed != 1 {
		t.Fatalf("C3,B2 = %s, want a 2-on-1 capture", m.Describe())
	}

	b.MakeMove(m)
	if b.CapturedWhite != 1 {
		t.Errorf("CapturedWhite = %d, want 1", b.CapturedWhite)
	}
	if got := b.PieceCount(White); got != PiecesPerSide-1 {
		t.Errorf("white marbles = %d, want %d", got, PiecesPerSide-1)
	}
	if c := b.At(Pos{0, 0}); c != Black {
		t.Errorf("A1 = %s after capture, want black", c)
	}
	checkConsistent(t, b, "after capture")

	b.UnmakeMove(m)
	if b.CapturedWhite != 0 {
		t.Errorf("CapturedWhite = %d after undo, want 0", b.CapturedWhite)
	}
	if got := b.PieceCount(White); got != PiecesPerSide {
		t.Errorf("white marbles = %d after undo, want %d", got, PiecesPerSide)
	}
	if b.Notation() != captureNotation {
		t.Errorf("Notation() = %s after undo, want %s", b.Notation(), captureNotation)
	}
}

func TestSixthCaptureWins(t *testing.T) {
	b, err := ParseNotation(fiveDownNotation)
	if err != nil {
		t.Fatalf("ParseNotation failed: %v", err)
	}
	if b.IsGameOver() {
		t.Fatal("game over with five captures")
	}

	m, err := ParseMove("E2,F3", b)
	if err != nil {
		t.Fatalf("ParseMove failed: %v", err)
	}
	b.MakeMove(m)

	winner, over := b.Winner()
	if !over || winner != Black {
		t.Errorf("Winner() = %s, %t, want black, true", winner, over)
	}

	b.UnmakeMove(m)
	if b.IsGameOver() {
		t.Error("game still over after undoing the winning capture")
	}
	if b.CapturedWhite != 5 {
		t.Errorf("CapturedWhite = %d after undo, want 5", b.CapturedWhite)
	}
}

func TestTranspositionsHashEqual(t *testing.T) {
	play := func(moves ...string) *Board {
		b := NewBoard()
		for _, s := range moves {
			m, err := ParseMove(s, b)
			if err != nil {
				t.Fatalf("ParseMove(%q) failed: %v", s, err)
			}
			b.MakeMove(m)
		}
		return b
	}

	a := play("A1,B2", "I5,H5", "A2,B3", "I9,H8")
	b := play("A2,B3", "I9,H8", "A1,B2", "I5,H5")
	if a.Hash != b.Hash {
		t.Errorf("transposed hashes differ: %016x vs %016x", a.Hash, b.Hash)
	}
	if a.Key() != b.Key() {
		t.Errorf("transposed keys differ: %016x vs %016x", a.Key(), b.Key())
	}

	c := play("A1,B2", "I5,H5", "A2,B3")
	if c.Key() == a.Key() {
		t.Error("different positions share a key")
	}
}

func TestKeyIncludesSideToMove(t *testing.T) {
	black, _ := ParseNotation(StartNotation)
	white, _ := ParseNotation("W" + StartNotation[1:])
	if black.Hash != white.Hash {
		t.Error("Hash depends on the side to move")
	}
	if black.Key() == white.Key() {
		t.Error("Key ignores the side to move")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Copy()
	m := GenerateMoves(c)[0]
	c.MakeMove(m)
	if b.Notation() != StartNotation {
		t.Error("moving on a copy changed the original")
	}
	if c.Hash == b.Hash {
		t.Error("copy hash unchanged after a move")
	}
}
