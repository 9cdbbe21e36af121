package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/testsupport"
)

// wsServer speaks the server side of graphql-ws. respond returns the frame
// sent for the start message.
func wsServer(t *testing.T, respond func(start Message) Message) string {
	t.Helper()
	upgrader := websocket.Upgrader{Subprotocols: []string{Subprotocol}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		assert.Equal(t, Subprotocol, conn.Subprotocol())

		var init Message
		if err := conn.ReadJSON(&init); err != nil {
			return
		}
		assert.Equal(t, msgConnectionInit, init.Type)
		_ = conn.WriteJSON(Message{Type: msgKeepAlive})
		_ = conn.WriteJSON(Message{Type: msgConnectionAck})

		var start Message
		if err := conn.ReadJSON(&start); err != nil {
			return
		}
		assert.Equal(t, msgStart, start.Type)
		assert.NotEmpty(t, start.ID)

		_ = conn.WriteJSON(Message{ID: "other-operation", Type: msgData, Payload: json.RawMessage(`{}`)})
		_ = conn.WriteJSON(respond(start))

		// Drain stop and terminate frames until the client hangs up.
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketSourceFetchesThing(t *testing.T) {
	envelope := testsupport.Envelope(t, testsupport.RelationR1)
	url := wsServer(t, func(start Message) Message {
		var req pkgfetch.Request
		_ = json.Unmarshal(start.Payload, &req)
		if req.Variables["id"] != "/relation/r1" {
			return Message{ID: start.ID, Type: msgComplete}
		}
		return Message{ID: start.ID, Type: msgData, Payload: envelope}
	})

	src, err := NewWebSocketSource(url, time.Second, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	raw, err := src.FetchRaw(ctx, "/relation/r1")
	require.NoError(t, err)
	assert.JSONEq(t, string(testsupport.MustThing(t, testsupport.RelationR1)), string(raw))
}

func TestWebSocketSourceCompleteWithoutDataIsNotFound(t *testing.T) {
	url := wsServer(t, func(start Message) Message {
		return Message{ID: start.ID, Type: msgComplete}
	})
	src, err := NewWebSocketSource(url, time.Second, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = src.FetchRaw(ctx, "/missing")
	assert.ErrorIs(t, err, pkgfetch.ErrNotFound)
}

func TestWebSocketSourceOperationError(t *testing.T) {
	url := wsServer(t, func(start Message) Message {
		return Message{ID: start.ID, Type: msgError, Payload: json.RawMessage(`{"message":"boom"}`)}
	})
	src, err := NewWebSocketSource(url, time.Second, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = src.FetchRaw(ctx, "/x")
	var gqlErrs pkgfetch.GraphQLErrors
	require.ErrorAs(t, err, &gqlErrs)
	assert.Equal(t, "boom", gqlErrs[0].Message)
}

func TestOperationErrorAcceptsLists(t *testing.T) {
	err := operationError(json.RawMessage(`[{"message":"a"},{"message":"b"}]`))
	assert.EqualError(t, err, "fetch: graphql: a; b")

	err = operationError(json.RawMessage(`"weird"`))
	assert.Contains(t, err.Error(), "websocket operation failed")
}
