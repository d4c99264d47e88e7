package board

import "testing"

func sq(t *testing.T, s string) Square {
	t.Helper()
	out, ok := ParseSquare(s)
	if !ok {
		t.Fatalf("ParseSquare(%q) failed", s)
	}
	return out
}

func mv(t *testing.T, s string) Move {
	t.Helper()
	out, ok := ParseMove(s)
	if !ok {
		t.Fatalf("ParseMove(%q) failed", s)
	}
	return out
}

func TestNewStandardLayout(t *testing.T) {
	b := New()

	for c := 0; c < 8; c++ {
		wp := b.PieceAt(Square{Row: 1, Col: c})
		if wp == nil || wp.Kind != Pawn || !wp.White {
			t.Fatalf("rank 2 col %d: want white pawn, got %+v", c, wp)
		}
		bp := b.PieceAt(Square{Row: 6, Col: c})
		if bp == nil || bp.Kind != Pawn || bp.White {
			t.Fatalf("rank 7 col %d: want black pawn, got %+v", c, bp)
		}
		if got := b.PieceAt(Square{Row: 0, Col: c}); got == nil || got.Kind != backRank[c] || !got.White {
			t.Fatalf("rank 1 col %d: want white %s, got %+v", c, backRank[c], got)
		}
		if got := b.PieceAt(Square{Row: 7, Col: c}); got == nil || got.Kind != backRank[c] || got.White {
			t.Fatalf("rank 8 col %d: want black %s, got %+v", c, backRank[c], got)
		}
	}

	for r := 2; r < 6; r++ {
		for c := 0; c < 8; c++ {
			if b.PieceAt(Square{Row: r, Col: c}) != nil {
				t.Fatalf("square %s should be empty", Square{Row: r, Col: c})
			}
		}
	}

	if b.PieceAt(sq(t, "E1")).Kind != King {
		t.Fatalf("E1 should hold the white king")
	}
	if b.PieceAt(sq(t, "D8")).Kind != Queen {
		t.Fatalf("D8 should hold the black queen")
	}
}

func TestTileColors(t *testing.T) {
	b := New()
	if !b.TileAt(Square{Row: 0, Col: 0}).White {
		t.Fatalf("A1 parity should be white")
	}
	if b.TileAt(Square{Row: 0, Col: 1}).White {
		t.Fatalf("B1 parity should not be white")
	}
	if !b.TileAt(Square{Row: 1, Col: 1}).White {
		t.Fatalf("B2 parity should be white")
	}
}

func TestApplyMovesPiece(t *testing.T) {
	b := New()
	b.Apply(mv(t, "E2E4"))

	if b.PieceAt(sq(t, "E2")) != nil {
		t.Fatalf("origin should be empty after the move")
	}
	p := b.PieceAt(sq(t, "E4"))
	if p == nil || p.Kind != Pawn || !p.White {
		t.Fatalf("E4: want the moved white pawn, got %+v", p)
	}
	if !p.Moved {
		t.Fatalf("moved flag should be set")
	}
	if p.Position != sq(t, "E4") {
		t.Fatalf("piece position not updated: %v", p.Position)
	}
}

func TestApplyCaptureAppendsInOrder(t *testing.T) {
	b := New()
	// Walk a white pawn up and let it take twice.
	b.Apply(mv(t, "E2E4"))
	b.Apply(mv(t, "E4E5"))
	b.Apply(mv(t, "E5E6"))
	b.Apply(mv(t, "E6D7")) // takes the D7 pawn
	b.Apply(mv(t, "D7C8")) // takes the C8 bishop

	captured := b.CapturedBlack()
	if len(captured) != 2 {
		t.Fatalf("want 2 captured black pieces, got %d", len(captured))
	}
	if captured[0].Kind != Pawn || captured[1].Kind != Bishop {
		t.Fatalf("capture order wrong: %s then %s", captured[0].Kind, captured[1].Kind)
	}
	for _, p := range captured {
		if !p.Captured {
			t.Fatalf("captured flag not set on %s", p.Kind)
		}
	}
	if len(b.CapturedWhite()) != 0 {
		t.Fatalf("no white piece was taken")
	}
}

func TestSquareRoundTrip(t *testing.T) {
	for _, s := range []string{"A1", "H8", "E2", "D5"} {
		got := sq(t, s).String()
		if got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
	if _, ok := ParseSquare("I1"); ok {
		t.Fatalf("I1 is off the board")
	}
	if _, ok := ParseSquare("A9"); ok {
		t.Fatalf("A9 is off the board")
	}
	if _, ok := ParseMove("E2"); ok {
		t.Fatalf("short move text should not parse")
	}
	if _, ok := ParseMove("E2E9"); ok {
		t.Fatalf("off-board destination should not parse")
	}
	low, ok := ParseMove("e2e4")
	if !ok || low != mv(t, "E2E4") {
		t.Fatalf("lowercase move text should parse to the same move")
	}
}

func TestSymbols(t *testing.T) {
	wk := &Piece{Kind: King, White: true}
	bq := &Piece{Kind: Queen, White: false}
	if wk.Symbol() != "♔" {
		t.Fatalf("white king symbol: %q", wk.Symbol())
	}
	if bq.Symbol() != "♛" {
		t.Fatalf("black queen symbol: %q", bq.Symbol())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := New()
	b.Apply(mv(t, "E2E4"))
	b.Apply(mv(t, "D7D5"))
	b.Apply(mv(t, "E4D5")) // pawn takes pawn

	snap := b.Snapshot()
	if snap == nil {
		t.Fatalf("nil snapshot")
	}
	if len(snap.CapturedBlackPieces) != 1 || snap.CapturedBlackPieces[0].Type != "Pawn" {
		t.Fatalf("snapshot captured list: %+v", snap.CapturedBlackPieces)
	}

	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			a := b.PieceAt(Square{Row: r, Col: c})
			z := restored.PieceAt(Square{Row: r, Col: c})
			if (a == nil) != (z == nil) {
				t.Fatalf("square %s occupancy differs", Square{Row: r, Col: c})
			}
			if a != nil && (a.Kind != z.Kind || a.White != z.White || a.Moved != z.Moved) {
				t.Fatalf("square %s piece differs: %+v vs %+v", Square{Row: r, Col: c}, a, z)
			}
		}
	}
	if len(restored.CapturedBlack()) != 1 {
		t.Fatalf("captured list lost in round trip")
	}
}
