package websocket

import (
	"context"
	"encoding/json"

	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsError is the frame sent back when an inbound message cannot be
// processed.
type wsError struct {
	Error string `json:"error"`
}

// ServeWs runs one chat connection. Inbound frames are ChatRequest JSON;
// each produces a ChatResponse frame on the same session.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID string, chatService service.IChatService) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	client := &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		handle: func(sessionID string, payload []byte) []byte {
			var req dto.ChatRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				out, _ := json.Marshal(wsError{Error: "invalid message format"})
				return out
			}
			req.SessionID = sessionID

			res, err := chatService.Chat(context.Background(), &req)
			if err != nil {
				out, _ := json.Marshal(wsError{Error: err.Error()})
				return out
			}
			out, _ := json.Marshal(res)
			return out
		},
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
