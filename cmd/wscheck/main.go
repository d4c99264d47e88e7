package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/park285/chess-live-server/internal/wsclient"
	"github.com/park285/chess-live-server/pkg/wsproto"
)

// wscheck is a connectivity probe: it pings the health endpoint, opens a
// websocket as a throwaway user and prints everything the server pushes for a
// short window. Optionally it opens a game against OPPONENT_ID.
func main() {
	baseWS := os.Getenv("SERVER_WS_URL")
	if baseWS == "" {
		baseWS = "ws://localhost:8080/ws"
	}
	healthURL := os.Getenv("HEALTH_URL")
	if healthURL == "" {
		healthURL = "http://localhost:8081/healthz"
	}

	userID := uuid.New()
	if v := os.Getenv("USER_ID"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			log.Fatalf("USER_ID is not a uuid: %v", err)
		}
		userID = parsed
	}

	checkHealth(healthURL)

	ws := wsclient.New(fmt.Sprintf("%s?userId=%s", baseWS, userID), 5)
	ws.OnStateChange(func(state wsclient.State) {
		log.Printf("WS state: %s", state)
	})
	ws.OnMessage(func(msg *wsproto.Message) {
		fmt.Printf("WS msg type=%s payload=%s\n", msg.Type, string(msg.Payload))
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Connect(cctx); err != nil {
		log.Fatalf("WS connect error: %v", err)
	}

	if v := os.Getenv("OPPONENT_ID"); v != "" {
		opponent, err := uuid.Parse(v)
		if err != nil {
			log.Fatalf("OPPONENT_ID is not a uuid: %v", err)
		}
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = ws.Send(sctx, wsproto.NewMessage(wsproto.TypeCreateGame, wsproto.CreateGamePayload{
			OpponentID: opponent,
		}))
		scancel()
		if err != nil {
			log.Printf("CREATE_GAME send error: %v", err)
		}
	}

	// Observe for a short window
	t := time.NewTimer(10 * time.Second)
	<-t.C

	_ = ws.Close(context.Background())
}

func checkHealth(url string) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	client := &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	if err := client.Do(req, resp); err != nil {
		log.Printf("health check error: %v", err)
		return
	}
	log.Printf("health %s: %d %s", url, resp.StatusCode(), string(resp.Body()))
}
