package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/chess-live-server/internal/game"
	"github.com/park285/chess-live-server/internal/invite"
	"github.com/park285/chess-live-server/internal/obslog"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

// Dispatch routes one inbound envelope to its handler. It is total: unknown
// types are logged and ignored, malformed payloads and rejected operations
// come back to the sender as ERROR envelopes, and no inbound frame can take
// the hub down.
func (h *Hub) Dispatch(msgType string, payload json.RawMessage, senderID uuid.UUID) {
	switch msgType {
	case wsproto.TypeCreateGame:
		h.handleCreateGame(payload, senderID)
	case wsproto.TypeJoinGame:
		h.handleJoinGame(payload, senderID)
	case wsproto.TypeMakeMove:
		h.handleMakeMove(payload, senderID)
	case wsproto.TypeResyncGame:
		h.handleResyncGame(payload, senderID)
	case wsproto.TypeSpectatorJoin:
		h.handleSpectatorJoin(payload, senderID)
	case wsproto.TypeSpectatorLeave:
		h.handleSpectatorLeave(payload, senderID)
	case wsproto.TypeFetchFriendRequest:
		h.handleFetchFriendRequests(senderID)
	default:
		obslog.L().Warn("dispatch_unknown_type",
			zap.String("type", msgType),
			zap.String("user_id", senderID.String()),
		)
	}
}

// handleCreateGame opens a session with the sender on the white seat and
// invites the opponent. The sender always gets GAME_CREATED; the invitation
// is dropped with a log when the opponent is offline.
func (h *Hub) handleCreateGame(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.CreateGamePayload
	if !decode(payload, &req) || req.OpponentID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeCreateGame})
		return
	}

	white := h.lookupPlayer(senderID)
	s := game.NewSession(uuid.New(), white)

	h.smu.Lock()
	h.sessions[s.ID] = s
	h.smu.Unlock()

	obslog.L().Info("game_created",
		zap.String("game_id", s.ID.String()),
		zap.String("white_id", senderID.String()),
		zap.String("invitee_id", req.OpponentID.String()),
	)

	h.sendTo(senderID, wsproto.NewMessage(wsproto.TypeGameCreated, nil))
	h.sendTo(req.OpponentID, wsproto.NewMessage(wsproto.TypeGameInvitation, wsproto.GameInvitationPayload{
		GameID:    s.ID,
		InviterID: senderID,
	}))

	if h.invites != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := h.invites.Save(ctx, invite.Invite{
			GameID:    s.ID,
			InviterID: senderID,
			InviteeID: req.OpponentID,
			CreatedAt: time.Now(),
		})
		cancel()
		if err != nil {
			obslog.L().Warn("invite_save_error",
				zap.String("game_id", s.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// handleJoinGame seats the sender as black and starts the game for both
// players with the opening board.
func (h *Hub) handleJoinGame(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.JoinGamePayload
	if !decode(payload, &req) || req.GameID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeJoinGame})
		return
	}

	s := h.session(req.GameID)
	if s == nil {
		h.sendError(senderID, "error.no_such_game", "no such game",
			map[string]any{"GameID": req.GameID})
		return
	}

	black := h.lookupPlayer(senderID)
	if err := s.Join(black); err != nil {
		h.sendError(senderID, "error.already_joined", "game already has two players",
			map[string]any{"GameID": req.GameID})
		return
	}

	obslog.L().Info("game_joined",
		zap.String("game_id", s.ID.String()),
		zap.String("black_id", senderID.String()),
	)

	if h.invites != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = h.invites.Remove(ctx, s.ID)
		cancel()
	}

	start := wsproto.NewMessage(wsproto.TypeStartGame, wsproto.StartGamePayload{
		GameID:        s.ID,
		StartingBoard: s.Snapshot(),
	})
	white, _ := s.Players()
	h.sendTo(white.ID, start)
	h.sendTo(senderID, start)
}

// handleMakeMove applies a half-move. An accepted move fans GAME_TURN out to
// both players and SPECTATOR_UPDATE to every spectator; every rejection comes
// back to the sender as a specific ERROR.
func (h *Hub) handleMakeMove(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.MakeMovePayload
	if !decode(payload, &req) || req.GameID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeMakeMove})
		return
	}

	s := h.session(req.GameID)
	if s == nil {
		h.sendError(senderID, "error.no_such_game", "no such game",
			map[string]any{"GameID": req.GameID})
		return
	}

	outcome, err := s.TryMove(senderID, req.Move)
	if err != nil {
		h.sendError(senderID, "error.not_in_game", "not a player of this game",
			map[string]any{"GameID": req.GameID})
		return
	}
	switch outcome {
	case game.MoveWrongTurn:
		h.sendError(senderID, "error.wrong_turn", "not your turn",
			map[string]any{"GameID": req.GameID})
		return
	case game.MoveBadNotation:
		h.sendError(senderID, "error.bad_notation", "unreadable move",
			map[string]any{"Move": req.Move})
		return
	case game.MoveIllegal:
		h.sendError(senderID, "error.illegal_move", "illegal move",
			map[string]any{"Move": req.Move, "GameID": req.GameID})
		return
	}

	obslog.L().Info("move_accepted",
		zap.String("game_id", s.ID.String()),
		zap.String("user_id", senderID.String()),
		zap.String("move", req.Move),
	)
	h.broadcastTurn(s)
}

// handleResyncGame replays the current state to the sender alone, typically
// after a reconnect.
func (h *Hub) handleResyncGame(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.ResyncGamePayload
	if !decode(payload, &req) || req.GameID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeResyncGame})
		return
	}

	s := h.session(req.GameID)
	if s == nil {
		h.sendError(senderID, "error.no_such_game", "no such game",
			map[string]any{"GameID": req.GameID})
		return
	}

	h.sendTo(senderID, wsproto.NewMessage(wsproto.TypeGameTurn, wsproto.GameTurnPayload{
		GameID:          s.ID,
		CurrentPlayerID: s.CurrentPlayerID(),
		CurrentBoard:    s.Snapshot(),
	}))
}

// handleSpectatorJoin subscribes the sender and pushes an immediate snapshot
// so the spectator does not wait for the next move.
func (h *Hub) handleSpectatorJoin(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.SpectatorJoinPayload
	if !decode(payload, &req) || req.GameID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeSpectatorJoin})
		return
	}

	s := h.session(req.GameID)
	if s == nil {
		h.sendError(senderID, "error.no_such_game", "no such game",
			map[string]any{"GameID": req.GameID})
		return
	}

	s.AddSpectator(senderID)
	h.sendTo(senderID, wsproto.NewMessage(wsproto.TypeSpectatorUpdate, wsproto.SpectatorUpdatePayload{
		GameID: s.ID,
		Board:  s.Snapshot(),
	}))
}

func (h *Hub) handleSpectatorLeave(payload json.RawMessage, senderID uuid.UUID) {
	var req wsproto.SpectatorLeavePayload
	if !decode(payload, &req) || req.GameID == uuid.Nil {
		h.sendError(senderID, "error.bad_payload", "malformed payload",
			map[string]any{"Type": wsproto.TypeSpectatorLeave})
		return
	}
	if s := h.session(req.GameID); s != nil {
		s.RemoveSpectator(senderID)
	}
}

// handleFetchFriendRequests replays pending invitations to the sender, one
// GAME_INVITATION per invite still alive in the store.
func (h *Hub) handleFetchFriendRequests(senderID uuid.UUID) {
	if h.invites == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	pending, err := h.invites.PendingByUser(ctx, senderID)
	cancel()
	if err != nil {
		obslog.L().Warn("invite_fetch_error",
			zap.String("user_id", senderID.String()),
			zap.Error(err),
		)
		return
	}
	for _, inv := range pending {
		h.sendTo(senderID, wsproto.NewMessage(wsproto.TypeGameInvitation, wsproto.GameInvitationPayload{
			GameID:    inv.GameID,
			InviterID: inv.InviterID,
		}))
	}
}

// broadcastTurn fans the post-move state out to both players and all
// spectators.
func (h *Hub) broadcastTurn(s *game.Session) {
	snap := s.Snapshot()
	turn := wsproto.NewMessage(wsproto.TypeGameTurn, wsproto.GameTurnPayload{
		GameID:          s.ID,
		CurrentPlayerID: s.CurrentPlayerID(),
		CurrentBoard:    snap,
	})
	white, black := s.Players()
	h.sendTo(white.ID, turn)
	if black != nil {
		h.sendTo(black.ID, turn)
	}

	if specs := s.Spectators(); len(specs) > 0 {
		upd := wsproto.NewMessage(wsproto.TypeSpectatorUpdate, wsproto.SpectatorUpdatePayload{
			GameID: s.ID,
			Board:  snap,
		})
		for _, id := range specs {
			h.sendTo(id, upd)
		}
	}
}
