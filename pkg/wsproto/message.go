package wsproto

import "encoding/json"

// Message type tags. Values are wire-stable; clients dispatch on them.
const (
	// game related messages
	TypeResyncGame     = "RESYNC_GAME"
	TypeCreateGame     = "CREATE_GAME"
	TypeGameCreated    = "GAME_CREATED"
	TypeGameInvitation = "GAME_INVITATION"
	TypeJoinGame       = "JOIN_GAME"
	TypeStartGame      = "START_GAME"
	TypeMakeMove       = "MAKE_MOVE"
	TypeGameTurn       = "GAME_TURN"
	// spectator related messages
	TypeSpectatorJoin   = "SPECTATOR_JOIN"
	TypeSpectatorLeave  = "SPECTATOR_LEAVE"
	TypeSpectatorUpdate = "SPECTATOR_UPDATE"
	// friend related messages
	TypeFetchFriendRequest = "FETCH_FRIEND_REQUEST"
	TypeError              = "ERROR"
)

// Message is the envelope carried by every websocket frame. The type tag
// selects the payload schema and the server-side dispatch handler.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload and wraps it in an envelope. A payload that
// cannot be marshaled yields an envelope with an empty payload; callers only
// pass the payload structs below, which always marshal.
func NewMessage(msgType string, payload any) Message {
	if payload == nil {
		return Message{Type: msgType}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: msgType}
	}
	return Message{Type: msgType, Payload: raw}
}
