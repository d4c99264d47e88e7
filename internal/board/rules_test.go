package board

import "testing"

// empty returns a board with no pieces but correct tile parity.
func empty() *Board {
	b := &Board{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			b.tiles[r][c] = Tile{Row: r, Col: c, White: (r+c)%2 == 0}
		}
	}
	return b
}

func put(b *Board, t *testing.T, pos string, kind Kind, white bool) *Piece {
	t.Helper()
	p := &Piece{Kind: kind, White: white, Position: sq(t, pos)}
	b.place(p)
	return p
}

func legal(b *Board, t *testing.T, move string) bool {
	t.Helper()
	return IsLegal(b, mv(t, move))
}

func TestPawnMoves(t *testing.T) {
	b := New()

	if !legal(b, t, "E2E3") {
		t.Fatalf("single step forward should be legal")
	}
	if !legal(b, t, "E2E4") {
		t.Fatalf("double step from the start rank should be legal")
	}
	if legal(b, t, "E2E5") {
		t.Fatalf("triple step is never legal")
	}
	if legal(b, t, "E2D3") {
		t.Fatalf("diagonal without a capture should be illegal")
	}
	if legal(b, t, "E2D2") {
		t.Fatalf("sideways pawn move should be illegal")
	}
	if legal(b, t, "E2E1") {
		t.Fatalf("white pawn cannot move backwards")
	}

	// Black pawns advance toward rank 1.
	if !legal(b, t, "E7E5") {
		t.Fatalf("black double step should be legal")
	}
	if legal(b, t, "E7E8") {
		t.Fatalf("black pawn cannot move backwards")
	}
}

func TestPawnCaptureAndBlocks(t *testing.T) {
	b := empty()
	put(b, t, "E4", Pawn, true)
	put(b, t, "D5", Pawn, false)
	put(b, t, "E5", Pawn, false)

	if !legal(b, t, "E4D5") {
		t.Fatalf("diagonal capture should be legal")
	}
	if legal(b, t, "E4E5") {
		t.Fatalf("forward move onto an occupied square should be illegal")
	}
	if legal(b, t, "E4F5") {
		t.Fatalf("diagonal onto an empty square should be illegal")
	}

	// Double step is blocked by any piece on the path.
	b2 := empty()
	put(b2, t, "E2", Pawn, true)
	put(b2, t, "E3", Knight, false)
	if legal(b2, t, "E2E4") {
		t.Fatalf("double step through a blocker should be illegal")
	}

	// A pawn that has already moved loses the double step.
	b3 := empty()
	moved := put(b3, t, "E3", Pawn, true)
	moved.Moved = true
	if legal(b3, t, "E3E5") {
		t.Fatalf("double step after the first move should be illegal")
	}
}

func TestRookMoves(t *testing.T) {
	b := empty()
	put(b, t, "D4", Rook, true)
	put(b, t, "D7", Pawn, false)
	put(b, t, "G4", Pawn, true)

	if !legal(b, t, "D4D7") {
		t.Fatalf("rook capture along a file should be legal")
	}
	if legal(b, t, "D4D8") {
		t.Fatalf("rook cannot jump over the D7 pawn")
	}
	if !legal(b, t, "D4F4") {
		t.Fatalf("rook slide along a rank should be legal")
	}
	if legal(b, t, "D4G4") {
		t.Fatalf("rook cannot land on a friendly piece")
	}
	if legal(b, t, "D4E5") {
		t.Fatalf("rook cannot move diagonally")
	}
}

func TestBishopMoves(t *testing.T) {
	b := empty()
	put(b, t, "C1", Bishop, true)
	put(b, t, "E3", Pawn, false)

	if !legal(b, t, "C1E3") {
		t.Fatalf("bishop capture along a diagonal should be legal")
	}
	if legal(b, t, "C1F4") {
		t.Fatalf("bishop cannot jump over the E3 pawn")
	}
	if legal(b, t, "C1C4") {
		t.Fatalf("bishop cannot move along a file")
	}
}

func TestQueenMoves(t *testing.T) {
	b := empty()
	put(b, t, "D4", Queen, true)

	if !legal(b, t, "D4D8") {
		t.Fatalf("queen file slide should be legal")
	}
	if !legal(b, t, "D4H8") {
		t.Fatalf("queen diagonal slide should be legal")
	}
	if legal(b, t, "D4E6") {
		t.Fatalf("queen cannot move like a knight")
	}
}

func TestKnightMoves(t *testing.T) {
	b := New()

	if !legal(b, t, "B1C3") {
		t.Fatalf("knight jump from the start position should be legal")
	}
	if !legal(b, t, "B1A3") {
		t.Fatalf("knight jump should be legal")
	}
	if legal(b, t, "B1B3") {
		t.Fatalf("straight knight move should be illegal")
	}
	if legal(b, t, "B1D2") {
		t.Fatalf("knight cannot land on a friendly pawn")
	}

	// Knights are never blocked.
	b2 := empty()
	put(b2, t, "D4", Knight, true)
	put(b2, t, "D5", Pawn, false)
	put(b2, t, "E5", Pawn, false)
	put(b2, t, "E4", Pawn, false)
	if !legal(b2, t, "D4E6") {
		t.Fatalf("knight should jump over surrounding pieces")
	}
}

func TestKingMoves(t *testing.T) {
	b := empty()
	put(b, t, "E4", King, true)
	put(b, t, "E5", Pawn, false)

	if !legal(b, t, "E4D4") {
		t.Fatalf("single step should be legal")
	}
	if !legal(b, t, "E4E5") {
		t.Fatalf("single step capture should be legal")
	}
	if !legal(b, t, "E4D5") {
		t.Fatalf("single diagonal step should be legal")
	}
	if legal(b, t, "E4E6") {
		t.Fatalf("two-square king move should be illegal")
	}

	// The castling pattern stays rejected even with a clear path.
	b2 := empty()
	put(b2, t, "E1", King, true)
	put(b2, t, "H1", Rook, true)
	if legal(b2, t, "E1G1") {
		t.Fatalf("castling pattern should be rejected")
	}
}

func TestIsLegalTotality(t *testing.T) {
	b := New()

	if IsLegal(nil, mv(t, "E2E4")) {
		t.Fatalf("nil board is never legal")
	}
	if IsLegal(b, Move{From: Square{Row: -1, Col: 0}, To: Square{Row: 0, Col: 0}}) {
		t.Fatalf("off-board origin is never legal")
	}
	if IsLegal(b, Move{From: Square{Row: 3, Col: 3}, To: Square{Row: 3, Col: 3}}) {
		t.Fatalf("no-op move is never legal")
	}
	if legal(b, t, "E4E5") {
		t.Fatalf("empty origin is never legal")
	}
	if legal(b, t, "D1E1") {
		t.Fatalf("landing on a friendly piece is never legal")
	}
}
