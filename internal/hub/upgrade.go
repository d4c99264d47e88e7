package hub

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/park285/chess-live-server/internal/obslog"
)

// HandleUpgrade upgrades GET /ws?userId=<uuid> to a websocket connection and
// registers the client. Identity checks happen before the upgrade so a bad
// request costs a plain 400, not a socket.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		http.Error(w, "NO_USERID", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "INVALID_USERID", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_error",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	c := newClient(userID, conn, h, h.opts.SendQueueSize)
	h.register(c)
	c.start()
}
