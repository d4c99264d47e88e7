package board

// moveRule decides whether a geometrically described move is legal for one
// piece kind. The caller has already rejected no-op moves and same-color
// targets; rules only check geometry and path obstruction.
type moveRule func(b *Board, mv Move, p *Piece, target *Piece) bool

// rules maps each kind to its movement predicate. The rule set is fixed and
// small, so a lookup table beats dynamic dispatch.
var rules = map[Kind]moveRule{
	Pawn:   pawnRule,
	Rook:   rookRule,
	Knight: knightRule,
	Bishop: bishopRule,
	Queen:  queenRule,
	King:   kingRule,
}

// IsLegal is a total predicate: it returns false for anything not explicitly
// permitted and never panics. It does not mutate the board.
func IsLegal(b *Board, mv Move) bool {
	if b == nil || !mv.From.Valid() || !mv.To.Valid() || mv.From == mv.To {
		return false
	}
	p := b.PieceAt(mv.From)
	if p == nil {
		return false
	}
	target := b.PieceAt(mv.To)
	if target != nil && target.White == p.White {
		return false
	}
	rule, ok := rules[p.Kind]
	if !ok {
		return false
	}
	return rule(b, mv, p, target)
}

func pawnRule(b *Board, mv Move, p *Piece, target *Piece) bool {
	dir := 1
	if !p.White {
		dir = -1
	}
	colDiff := abs(mv.To.Col - mv.From.Col)
	rowDelta := mv.To.Row - mv.From.Row

	// Diagonal single-square advance is a capture only.
	if colDiff == 1 && rowDelta == dir {
		return target != nil || enPassantAllowed(b, mv)
	}
	if colDiff != 0 || target != nil {
		return false
	}
	if rowDelta == dir {
		return true
	}
	// Two squares only from the starting position, with a clear path.
	if rowDelta == 2*dir && !p.Moved {
		return b.PieceAt(Square{Row: mv.From.Row + dir, Col: mv.From.Col}) == nil
	}
	return false
}

func rookRule(b *Board, mv Move, _ *Piece, _ *Piece) bool {
	if mv.From.Row != mv.To.Row && mv.From.Col != mv.To.Col {
		return false
	}
	return pathClear(b, mv)
}

func bishopRule(b *Board, mv Move, _ *Piece, _ *Piece) bool {
	if abs(mv.To.Row-mv.From.Row) != abs(mv.To.Col-mv.From.Col) {
		return false
	}
	return pathClear(b, mv)
}

func queenRule(b *Board, mv Move, p *Piece, target *Piece) bool {
	return rookRule(b, mv, p, target) || bishopRule(b, mv, p, target)
}

func knightRule(_ *Board, mv Move, _ *Piece, _ *Piece) bool {
	rowDiff := abs(mv.To.Row - mv.From.Row)
	colDiff := abs(mv.To.Col - mv.From.Col)
	// Knights jump; intervening pieces never block them.
	return (rowDiff == 1 && colDiff == 2) || (rowDiff == 2 && colDiff == 1)
}

func kingRule(b *Board, mv Move, p *Piece, _ *Piece) bool {
	if abs(mv.To.Row-mv.From.Row) <= 1 && abs(mv.To.Col-mv.From.Col) <= 1 {
		return true
	}
	return castlingAllowed(b, mv, p)
}

// pathClear checks every square strictly between origin and destination along
// a straight or diagonal line.
func pathClear(b *Board, mv Move) bool {
	rowStep := sign(mv.To.Row - mv.From.Row)
	colStep := sign(mv.To.Col - mv.From.Col)
	sq := Square{Row: mv.From.Row + rowStep, Col: mv.From.Col + colStep}
	for sq != mv.To {
		if b.PieceAt(sq) != nil {
			return false
		}
		sq.Row += rowStep
		sq.Col += colStep
	}
	return true
}

// enPassantAllowed is a hook for en passant captures. The rule is not part of
// the supported move set; the hook always answers no.
func enPassantAllowed(_ *Board, _ Move) bool {
	return false
}

// castlingAllowed is a hook for castling. The rule is not part of the
// supported move set; the hook always answers no.
func castlingAllowed(_ *Board, _ Move, _ *Piece) bool {
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
