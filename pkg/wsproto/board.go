package wsproto

// Piece is the transmissible form of a chess piece.
type Piece struct {
	Position      string `json:"position"`
	IsWhite       bool   `json:"isWhite"`
	Type          string `json:"type"`
	UnicodeSymbol string `json:"unicodeSymbol"`
	IsCaptured    bool   `json:"isCaptured"`
	Moved         bool   `json:"moved"`
}

// Tile is one square of the snapshot grid.
type Tile struct {
	Row          int    `json:"row"`
	Col          int    `json:"col"`
	IsWhite      bool   `json:"isWhite"`
	CurrentPiece *Piece `json:"currentPiece,omitempty"`
}

// Board is the full transmissible board state: the 8x8 tile grid plus both
// captured-piece lists in capture order.
type Board struct {
	Tiles               [8][8]Tile `json:"tiles"`
	CapturedWhitePieces []Piece    `json:"capturedWhitePieces"`
	CapturedBlackPieces []Piece    `json:"capturedBlackPieces"`
}
