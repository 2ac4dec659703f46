package websocket

import (
	"io"
	"log/slog"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgen/internal/dataprocessing"
)

// mockConnection satisfies Connection without a network peer.
type mockConnection struct{}

func (mockConnection) WriteMessage(int, []byte) error        { return nil }
func (mockConnection) ReadMessage() (int, []byte, error)     { return 0, nil, io.EOF }
func (mockConnection) Close() error                          { return nil }
func (mockConnection) SetReadDeadline(time.Time) error       { return nil }
func (mockConnection) SetWriteDeadline(time.Time) error      { return nil }
func (mockConnection) SetReadLimit(int64)                    {}
func (mockConnection) SetPongHandler(func(string) error)     {}
func (mockConnection) RemoteAddr() string                    { return "127.0.0.1:9999" }

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func registerClient(t *testing.T, hub *Hub, batchID string) *Client {
	t.Helper()
	client := NewClientWithConnection(hub, mockConnection{}, batchID,
		slog.New(slog.NewJSONHandler(io.Discard, nil)))
	hub.Register(client)

	// The hub greets every new client; consume that first message.
	select {
	case payload := <-client.send:
		var msg envelope
		require.NoError(t, json.Unmarshal(payload, &msg))
		require.Equal(t, TypeConnection, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("no connection greeting received")
	}
	return client
}

func receive(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case payload := <-c.send:
		var msg envelope
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return envelope{}
	}
}

func TestHub_RegisterAndCount(t *testing.T) {
	hub := testHub(t)

	registerClient(t, hub, "")
	registerClient(t, hub, "batch-1")

	assert.Equal(t, 2, hub.GetClientCount())
}

func TestHub_PublishProgress_RoutesByBatch(t *testing.T) {
	hub := testHub(t)

	subscribed := registerClient(t, hub, "batch-1")
	other := registerClient(t, hub, "batch-2")
	wildcard := registerClient(t, hub, "")

	hub.PublishProgress(dataprocessing.ProgressEvent{
		BatchID: "batch-1",
		Stage:   "load",
		Message: "loading sales_jan.csv",
		Level:   LevelInfo,
	})

	msg := receive(t, subscribed)
	assert.Equal(t, TypeProgress, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, "batch-1", msg.Data.BatchID)
	assert.Equal(t, "load", msg.Data.Stage)

	all := receive(t, wildcard)
	assert.Equal(t, "batch-1", all.Data.BatchID)

	select {
	case payload := <-other.send:
		t.Fatalf("client subscribed to another batch received %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_PublishProgress_ErrorLevel(t *testing.T) {
	hub := testHub(t)
	client := registerClient(t, hub, "batch-1")

	hub.PublishProgress(dataprocessing.ProgressEvent{
		BatchID: "batch-1",
		Stage:   "load",
		Message: "unreadable file",
		Level:   LevelError,
	})

	msg := receive(t, client)
	assert.Equal(t, TypeError, msg.Type)
}

func TestHub_Unregister(t *testing.T) {
	hub := testHub(t)
	client := registerClient(t, hub, "")

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// The hub closes the send channel on unregister.
	_, open := <-client.send
	assert.False(t, open)
}
