package wsproto

import "github.com/google/uuid"

// CreateGamePayload asks the server to open a game against an opponent.
type CreateGamePayload struct {
	OpponentID uuid.UUID `json:"opponentId"`
}

// GameInvitationPayload is pushed to the invited player.
type GameInvitationPayload struct {
	GameID    uuid.UUID `json:"gameId"`
	InviterID uuid.UUID `json:"inviterId"`
}

// JoinGamePayload binds the sender as the black player of a game.
type JoinGamePayload struct {
	GameID uuid.UUID `json:"gameId"`
}

// StartGamePayload is sent to both players once the second one joined.
type StartGamePayload struct {
	GameID        uuid.UUID `json:"gameId"`
	StartingBoard *Board    `json:"startingBoard"`
}

// MakeMovePayload carries a half-move in four-character text form, e.g. "E2E4".
type MakeMovePayload struct {
	GameID uuid.UUID `json:"gameId"`
	Move   string    `json:"move"`
}

// ResyncGamePayload asks for a fresh snapshot of the named game.
type ResyncGamePayload struct {
	GameID uuid.UUID `json:"gameId"`
}

// GameTurnPayload broadcasts the post-move state to both players.
type GameTurnPayload struct {
	GameID          uuid.UUID `json:"gameId"`
	CurrentPlayerID uuid.UUID `json:"currentPlayerId"`
	CurrentBoard    *Board    `json:"currentBoard"`
}

// SpectatorJoinPayload subscribes the sender to a game's board updates.
type SpectatorJoinPayload struct {
	GameID uuid.UUID `json:"gameId"`
}

// SpectatorLeavePayload unsubscribes the sender.
type SpectatorLeavePayload struct {
	GameID uuid.UUID `json:"gameId"`
}

// SpectatorUpdatePayload pushes a board snapshot to spectators.
type SpectatorUpdatePayload struct {
	GameID uuid.UUID `json:"gameId"`
	Board  *Board    `json:"board"`
}

// ErrorPayload reports a rejected or malformed request to the sender.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Player describes one side of a game for display purposes.
type Player struct {
	Name    string `json:"name"`
	IsWhite bool   `json:"isWhite"`
	Rating  int    `json:"rating"`
}
