package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message types of the invocation protocol.
const (
	TypeInvoke       = "invoke"
	TypeInvokeResult = "invokeResult"
	TypeInvokeFailed = "invokeFailed"
	TypeServerError  = "serverError"
)

// Message is one websocket frame. A client that omits messageId gets a
// generated one echoed back.
type Message struct {
	Type      string         `json:"type"`
	MessageID any            `json:"messageId,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

type safeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *safeConn) send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	conn := &safeConn{Conn: ws}
	defer conn.Close()

	session := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"session": session, "remote": r.RemoteAddr})
	log.Info("websocket client connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			log.Info("websocket client disconnected")
			return
		}
		reply := s.handleMessage(r, data)
		if err := conn.send(reply); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}

func (s *Server) handleMessage(r *http.Request, data []byte) Message {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{Type: TypeServerError, Params: map[string]any{"error": "malformed message: " + err.Error()}}
	}
	if msg.MessageID == nil {
		msg.MessageID = uuid.NewString()
	}
	if msg.Type != TypeInvoke {
		return Message{Type: TypeServerError, MessageID: msg.MessageID,
			Params: map[string]any{"error": fmt.Sprintf("unknown message type %q", msg.Type)}}
	}
	if msg.Params == nil {
		msg.Params = map[string]any{}
	}

	result, _ := s.Perform(r.Context(), msg.Params)
	if !result.OK {
		return Message{Type: TypeInvokeFailed, MessageID: msg.MessageID, Params: map[string]any{
			"error":       result.Error,
			"description": result.Description,
		}}
	}
	return Message{Type: TypeInvokeResult, MessageID: msg.MessageID, Params: map[string]any{
		"result": result.Result,
	}}
}
