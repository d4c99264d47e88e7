package board

import "strings"

// Kind identifies a chess piece type. The set is closed; movement rules are
// looked up by kind in rules.go.
type Kind string

const (
	Pawn   Kind = "Pawn"
	Rook   Kind = "Rook"
	Knight Kind = "Knight"
	Bishop Kind = "Bishop"
	Queen  Kind = "Queen"
	King   Kind = "King"
)

// Piece is a chess piece. A piece is owned by exactly one tile until it is
// captured, after which it lives only in the board's captured list.
type Piece struct {
	Kind     Kind
	White    bool
	Position Square
	Captured bool
	Moved    bool
}

var whiteSymbols = map[Kind]string{
	Pawn: "♙", Rook: "♖", Knight: "♘", Bishop: "♗", Queen: "♕", King: "♔",
}

var blackSymbols = map[Kind]string{
	Pawn: "♟", Rook: "♜", Knight: "♞", Bishop: "♝", Queen: "♛", King: "♚",
}

// Symbol returns the unicode figurine for the piece.
func (p *Piece) Symbol() string {
	if p.White {
		return whiteSymbols[p.Kind]
	}
	return blackSymbols[p.Kind]
}

// ParseKind maps a wire type name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.TrimSpace(s)) {
	case Pawn, Rook, Knight, Bishop, Queen, King:
		return Kind(strings.TrimSpace(s)), true
	}
	return "", false
}

// Square addresses one board tile. Row 0 is rank 1, Col 0 is file A.
type Square struct {
	Row int
	Col int
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// String renders the square in file/rank text form, e.g. "E2".
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return string(rune('A'+s.Col)) + string(rune('1'+s.Row))
}

// ParseSquare parses file/rank text form ("E2", case-insensitive).
func ParseSquare(s string) (Square, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Square{}, false
	}
	sq := Square{Row: int(s[1] - '1'), Col: int(s[0] - 'A')}
	if !sq.Valid() {
		return Square{}, false
	}
	return sq, true
}

// Move is one half-move: origin and destination, prior to legality checking.
type Move struct {
	From Square
	To   Square
}

// ParseMove parses the four-character wire form, e.g. "E2E4".
func ParseMove(s string) (Move, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return Move{}, false
	}
	from, ok := ParseSquare(s[:2])
	if !ok {
		return Move{}, false
	}
	to, ok := ParseSquare(s[2:])
	if !ok {
		return Move{}, false
	}
	return Move{From: from, To: to}, true
}
