package board

// Tile is one square of the board. Its checkerboard color is fixed at
// construction from (row+col) parity.
type Tile struct {
	Row   int
	Col   int
	White bool
	Piece *Piece
}

// Board is the 8x8 tile grid plus the two captured-piece lists. The lists are
// append-only; insertion order is capture order. Board itself is not
// goroutine safe — a game session guards it with its own lock.
type Board struct {
	tiles         [8][8]Tile
	capturedWhite []*Piece
	capturedBlack []*Piece
}

// backRank is the conventional back-rank ordering, file A through H.
var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns a board in the standard starting layout: White on ranks 1-2,
// Black on ranks 7-8.
func New() *Board {
	b := &Board{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			b.tiles[r][c] = Tile{Row: r, Col: c, White: (r+c)%2 == 0}
		}
	}
	for c := 0; c < 8; c++ {
		b.place(&Piece{Kind: backRank[c], White: true, Position: Square{Row: 0, Col: c}})
		b.place(&Piece{Kind: Pawn, White: true, Position: Square{Row: 1, Col: c}})
		b.place(&Piece{Kind: Pawn, White: false, Position: Square{Row: 6, Col: c}})
		b.place(&Piece{Kind: backRank[c], White: false, Position: Square{Row: 7, Col: c}})
	}
	return b
}

func (b *Board) place(p *Piece) {
	b.tiles[p.Position.Row][p.Position.Col].Piece = p
}

// PieceAt returns the piece on the given square, or nil. Off-board squares
// hold no piece.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.tiles[sq.Row][sq.Col].Piece
}

// TileAt returns the tile at the given square by value.
func (b *Board) TileAt(sq Square) Tile {
	return b.tiles[sq.Row][sq.Col]
}

// CapturedWhite returns a copy of the captured white pieces in capture order.
func (b *Board) CapturedWhite() []*Piece {
	return append([]*Piece(nil), b.capturedWhite...)
}

// CapturedBlack returns a copy of the captured black pieces in capture order.
func (b *Board) CapturedBlack() []*Piece {
	return append([]*Piece(nil), b.capturedBlack...)
}

// Apply mutates the board for an already-validated move: the destination
// occupant, if any, is flagged captured and appended to its color's captured
// list; the moving piece takes the destination and its moved flag is set.
// Callers must validate with IsLegal first.
func (b *Board) Apply(mv Move) {
	moving := b.PieceAt(mv.From)
	if moving == nil {
		return
	}
	if target := b.PieceAt(mv.To); target != nil {
		target.Captured = true
		if target.White {
			b.capturedWhite = append(b.capturedWhite, target)
		} else {
			b.capturedBlack = append(b.capturedBlack, target)
		}
	}
	b.tiles[mv.To.Row][mv.To.Col].Piece = moving
	b.tiles[mv.From.Row][mv.From.Col].Piece = nil
	moving.Position = mv.To
	moving.Moved = true
}
