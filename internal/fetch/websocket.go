package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
)

// Subprotocol is the GraphQL over WebSocket protocol spoken by the backend.
const Subprotocol = "graphql-ws"

const (
	msgConnectionInit      = "connection_init"
	msgConnectionAck       = "connection_ack"
	msgConnectionError     = "connection_error"
	msgConnectionTerminate = "connection_terminate"
	msgKeepAlive           = "ka"
	msgStart               = "start"
	msgStop                = "stop"
	msgData                = "data"
	msgError               = "error"
	msgComplete            = "complete"
)

// Message is a graphql-ws protocol frame.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WebSocketSource runs the thing query as a single graphql-ws operation per
// fetch.
type WebSocketSource struct {
	url    string
	dialer *websocket.Dialer
	limit  int
}

var _ pkgfetch.Source = (*WebSocketSource)(nil)

// NewWebSocketSource constructs a websocket source for url.
func NewWebSocketSource(url string, handshakeTimeout time.Duration, limit int) (*WebSocketSource, error) {
	if url == "" {
		return nil, errors.New("fetch: websocket url is required")
	}
	return &WebSocketSource{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			Subprotocols:     []string{Subprotocol},
		},
		limit: limit,
	}, nil
}

// FetchRaw returns the thing payload for id.
func (s *WebSocketSource) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: dial %s: %w", s.url, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	thing, err := s.exchange(conn, id)
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return nil, ctxErr
	}
	return thing, err
}

func (s *WebSocketSource) exchange(conn *websocket.Conn, id string) ([]byte, error) {
	if err := conn.WriteJSON(Message{Type: msgConnectionInit, Payload: json.RawMessage(`{}`)}); err != nil {
		return nil, fmt.Errorf("fetch: websocket init: %w", err)
	}
	if err := awaitAck(conn); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(pkgfetch.NewRequest(id, s.limit))
	if err != nil {
		return nil, fmt.Errorf("fetch: encode request: %w", err)
	}
	opID := uuid.NewString()
	if err := conn.WriteJSON(Message{ID: opID, Type: msgStart, Payload: payload}); err != nil {
		return nil, fmt.Errorf("fetch: websocket start: %w", err)
	}
	defer func() {
		_ = conn.WriteJSON(Message{ID: opID, Type: msgStop})
		_ = conn.WriteJSON(Message{Type: msgConnectionTerminate})
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, fmt.Errorf("fetch: websocket read: %w", err)
		}
		if msg.ID != "" && msg.ID != opID {
			continue
		}
		switch msg.Type {
		case msgData:
			return pkgfetch.DecodeResponse(msg.Payload)
		case msgError:
			return nil, operationError(msg.Payload)
		case msgComplete:
			return nil, pkgfetch.ErrNotFound
		}
	}
}

func awaitAck(conn *websocket.Conn) error {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("fetch: websocket handshake: %w", err)
		}
		switch msg.Type {
		case msgConnectionAck:
			return nil
		case msgConnectionError:
			return fmt.Errorf("fetch: websocket connection rejected: %s", string(msg.Payload))
		case msgKeepAlive:
		}
	}
}

// operationError decodes an "error" payload, which is either a single error
// object or a list of them.
func operationError(payload json.RawMessage) error {
	var list pkgfetch.GraphQLErrors
	if err := json.Unmarshal(payload, &list); err == nil && len(list) > 0 {
		return list
	}
	var single pkgfetch.GraphQLError
	if err := json.Unmarshal(payload, &single); err == nil && single.Message != "" {
		return pkgfetch.GraphQLErrors{single}
	}
	return fmt.Errorf("fetch: websocket operation failed: %s", string(payload))
}
