package websocket

import (
	"context"

	"petmatch/internal/pkg/logger"
	"petmatch/pkg/auth"
)

// ServeSession mounts a Gate for the connection, streams every auth-state
// change to the page and unmounts when the peer goes away.
func ServeSession(ctx context.Context, provider auth.Provider, conn Conn, sessionID string, log logger.ILogger) {
	client := newClient(conn, sessionID, log)

	gate := auth.NewGate(provider, sessionID, func(event auth.Event) {
		client.push(messageFor(string(event.Type), event.Session))
	})
	if err := gate.Mount(ctx); err != nil {
		log.Error("WebSocket", "Failed to mount session gate", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		conn.Close()
		return
	}
	defer gate.Unmount()

	client.push(messageFor(initialSession, gate.Session()))

	written := make(chan struct{})
	go func() {
		defer close(written)
		client.writePump()
	}()
	client.readPump()

	// the connection is released once this returns
	<-written
}
