package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	domainChat "github.com/zapdesk/zapdesk/domains/chat"
)

type client struct{}

type BroadcastMessage struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result"`
}

var (
	Clients    = make(map[*websocket.Conn]client)
	Register   = make(chan *websocket.Conn)
	Broadcast  = make(chan BroadcastMessage, 64)
	Unregister = make(chan *websocket.Conn)
)

func handleRegister(conn *websocket.Conn) {
	Clients[conn] = client{}
	logrus.Debug("[WS] Connection registered")
}

func handleUnregister(conn *websocket.Conn) {
	delete(Clients, conn)
	logrus.Debug("[WS] Connection unregistered")
}

func broadcastToAll(message BroadcastMessage) {
	marshalMessage, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}

	for conn := range Clients {
		if err := conn.WriteMessage(websocket.TextMessage, marshalMessage); err != nil {
			logrus.Errorf("[WS] Write error: %v", err)
			closeConnection(conn)
		}
	}
}

func closeConnection(conn *websocket.Conn) {
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = conn.Close()
	delete(Clients, conn)
}

// RunHub serializes all client registration and broadcast fan-out on one
// goroutine, so the Clients map is never touched concurrently.
func RunHub() {
	for {
		select {
		case conn := <-Register:
			handleRegister(conn)

		case conn := <-Unregister:
			handleUnregister(conn)

		case message := <-Broadcast:
			broadcastToAll(message)
		}
	}
}

// Publish is the Broadcaster the inbox store is wired with. The non-blocking
// send keeps reconciliation from ever stalling on slow console clients.
func Publish(code string, payload any) {
	msg := BroadcastMessage{Code: code, Result: payload}
	select {
	case Broadcast <- msg:
	default:
		logrus.Warn("[WS] Broadcast queue full, dropping update")
	}
}

func RegisterRoutes(app fiber.Router, chatService domainChat.IChatUsecase) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		defer func() {
			Unregister <- conn
			_ = conn.Close()
		}()

		Register <- conn

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Println("read error:", err)
				}
				return
			}

			if messageType == websocket.TextMessage {
				var messageData BroadcastMessage
				if err := json.Unmarshal(message, &messageData); err != nil {
					logrus.Println("unmarshal error:", err)
					return
				}

				// Console clients can ask for a full inbox snapshot, e.g.
				// right after reconnecting.
				if messageData.Code == "FETCH_CHATS" {
					chats, _ := chatService.ListChats(context.Background(), domainChat.ListChatsRequest{})
					Broadcast <- BroadcastMessage{
						Code:   "CHAT_LIST",
						Result: chats,
					}
				}
			} else {
				logrus.Println("unsupported message type:", messageType)
			}
		}
	}))
}
