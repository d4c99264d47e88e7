package board

import (
	"fmt"

	"github.com/park285/chess-live-server/pkg/wsproto"
)

// Snapshot converts the board into its transmissible form. The result shares
// nothing with the live board, so it can be marshaled outside any lock.
func (b *Board) Snapshot() *wsproto.Board {
	dto := &wsproto.Board{
		CapturedWhitePieces: make([]wsproto.Piece, 0, len(b.capturedWhite)),
		CapturedBlackPieces: make([]wsproto.Piece, 0, len(b.capturedBlack)),
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			t := b.tiles[r][c]
			dto.Tiles[r][c] = wsproto.Tile{Row: r, Col: c, IsWhite: t.White}
			if t.Piece != nil {
				p := pieceDTO(t.Piece)
				dto.Tiles[r][c].CurrentPiece = &p
			}
		}
	}
	for _, p := range b.capturedWhite {
		dto.CapturedWhitePieces = append(dto.CapturedWhitePieces, pieceDTO(p))
	}
	for _, p := range b.capturedBlack {
		dto.CapturedBlackPieces = append(dto.CapturedBlackPieces, pieceDTO(p))
	}
	return dto
}

// FromSnapshot rebuilds a board from its transmissible form. It is the
// inverse of Snapshot for any reachable board state.
func FromSnapshot(dto *wsproto.Board) (*Board, error) {
	if dto == nil {
		return nil, fmt.Errorf("nil board snapshot")
	}
	b := &Board{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			b.tiles[r][c] = Tile{Row: r, Col: c, White: (r+c)%2 == 0}
			cur := dto.Tiles[r][c].CurrentPiece
			if cur == nil {
				continue
			}
			p, err := pieceFromDTO(*cur)
			if err != nil {
				return nil, fmt.Errorf("tile %d,%d: %w", r, c, err)
			}
			if p.Position != (Square{Row: r, Col: c}) {
				return nil, fmt.Errorf("tile %d,%d: piece position %s does not match tile", r, c, p.Position)
			}
			b.tiles[r][c].Piece = p
		}
	}
	for i, dp := range dto.CapturedWhitePieces {
		p, err := pieceFromDTO(dp)
		if err != nil {
			return nil, fmt.Errorf("captured white %d: %w", i, err)
		}
		b.capturedWhite = append(b.capturedWhite, p)
	}
	for i, dp := range dto.CapturedBlackPieces {
		p, err := pieceFromDTO(dp)
		if err != nil {
			return nil, fmt.Errorf("captured black %d: %w", i, err)
		}
		b.capturedBlack = append(b.capturedBlack, p)
	}
	return b, nil
}

func pieceDTO(p *Piece) wsproto.Piece {
	return wsproto.Piece{
		Position:      p.Position.String(),
		IsWhite:       p.White,
		Type:          string(p.Kind),
		UnicodeSymbol: p.Symbol(),
		IsCaptured:    p.Captured,
		Moved:         p.Moved,
	}
}

func pieceFromDTO(dp wsproto.Piece) (*Piece, error) {
	kind, ok := ParseKind(dp.Type)
	if !ok {
		return nil, fmt.Errorf("unknown piece type %q", dp.Type)
	}
	sq, ok := ParseSquare(dp.Position)
	if !ok {
		return nil, fmt.Errorf("invalid piece position %q", dp.Position)
	}
	return &Piece{
		Kind:     kind,
		White:    dp.IsWhite,
		Position: sq,
		Captured: dp.IsCaptured,
		Moved:    dp.Moved,
	}, nil
}
