package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"petmatch/internal/pkg/logger"
	"petmatch/pkg/auth"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	written   chan []byte
	closeRead chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	frames []int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		written:   make(chan []byte, 16),
		closeRead: make(chan struct{}),
	}
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closeRead
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	f.frames = append(f.frames, messageType)
	f.mu.Unlock()
	if messageType == websocket.TextMessage {
		f.written <- data
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closeRead) })
	return nil
}

func (f *fakeConn) frameTypes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.frames...)
}

type notifierProvider struct {
	notifier *auth.Notifier
	session  *auth.Session
}

func (p *notifierProvider) GetSession(ctx context.Context, sessionID string) (*auth.Session, error) {
	if p.session == nil {
		return nil, auth.ErrNoSession
	}
	return p.session, nil
}

func (p *notifierProvider) OnAuthStateChange(sessionID string, listener auth.Listener) *auth.Subscription {
	return p.notifier.Subscribe(sessionID, listener)
}

func (p *notifierProvider) SignOut(ctx context.Context, sessionID string) error {
	return p.notifier.Publish(auth.Event{Type: auth.EventSignedOut, SessionID: sessionID})
}

func readMessage(t *testing.T, conn *fakeConn) SessionMessage {
	t.Helper()
	select {
	case raw := <-conn.written:
		var msg SessionMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message written")
		return SessionMessage{}
	}
}

func TestServeSessionStreamsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := auth.NewEventBus(watermill.NopLogger{})
	notifier := auth.NewNotifier(pubSub, "", logger.NewNopLogger())
	require.NoError(t, notifier.Run(ctx))

	provider := &notifierProvider{
		notifier: notifier,
		session:  &auth.Session{AccessToken: "tok", User: auth.User{Email: "ada@example.com"}},
	}
	conn := newFakeConn()

	finished := make(chan struct{})
	go func() {
		ServeSession(ctx, provider, conn, "sid", logger.NewNopLogger())
		close(finished)
	}()

	first := readMessage(t, conn)
	assert.Equal(t, "INITIAL_SESSION", first.Type)
	assert.True(t, first.Authenticated)
	assert.Equal(t, "ada@example.com", first.Email)
	assert.Equal(t, 1, notifier.ListenerCount("sid"))

	require.NoError(t, provider.SignOut(ctx, "sid"))
	signedOut := readMessage(t, conn)
	assert.Equal(t, "SIGNED_OUT", signedOut.Type)
	assert.False(t, signedOut.Authenticated)

	conn.Close()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeSession did not return")
	}
	assert.Equal(t, 0, notifier.ListenerCount("sid"))
}

func TestServeSessionWithoutSession(t *testing.T) {
	pubSub := auth.NewEventBus(watermill.NopLogger{})
	notifier := auth.NewNotifier(pubSub, "", logger.NewNopLogger())
	provider := &notifierProvider{notifier: notifier}
	conn := newFakeConn()

	go ServeSession(context.Background(), provider, conn, "sid", logger.NewNopLogger())

	msg := readMessage(t, conn)
	assert.Equal(t, "INITIAL_SESSION", msg.Type)
	assert.False(t, msg.Authenticated)
	conn.Close()
}

func TestServeSessionReturnsAfterWriterStops(t *testing.T) {
	notifier := auth.NewNotifier(auth.NewEventBus(watermill.NopLogger{}), "", logger.NewNopLogger())
	provider := &notifierProvider{notifier: notifier}
	conn := newFakeConn()

	finished := make(chan struct{})
	go func() {
		ServeSession(context.Background(), provider, conn, "sid", logger.NewNopLogger())
		close(finished)
	}()

	readMessage(t, conn)
	conn.Close()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeSession did not return")
	}
	frames := conn.frameTypes()
	require.NotEmpty(t, frames)
	assert.Equal(t, websocket.CloseMessage, frames[len(frames)-1])
}
