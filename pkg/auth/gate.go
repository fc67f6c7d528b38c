package auth

import (
	"context"
	"errors"
	"sync"
)

// Gate holds the session of one browser session id for the lifetime of a
// view (a websocket connection, for instance).
//
// Mount subscribes before it reads, so a change that lands between the two is
// never lost; the initial read only applies while no change has been seen.
type Gate struct {
	provider  Provider
	sessionID string
	onChange  Listener

	mu      sync.Mutex
	current *Session
	changed bool
	sub     *Subscription
}

func NewGate(provider Provider, sessionID string, onChange Listener) *Gate {
	return &Gate{
		provider:  provider,
		sessionID: sessionID,
		onChange:  onChange,
	}
}

func (g *Gate) Mount(ctx context.Context) error {
	sub := g.provider.OnAuthStateChange(g.sessionID, g.handle)

	session, err := g.provider.GetSession(ctx, g.sessionID)
	if err != nil && !errors.Is(err, ErrNoSession) {
		sub.Unsubscribe()
		return err
	}

	g.mu.Lock()
	g.sub = sub
	if !g.changed {
		g.current = session
	}
	g.mu.Unlock()
	return nil
}

func (g *Gate) handle(event Event) {
	g.mu.Lock()
	g.current = event.Session
	g.changed = true
	g.mu.Unlock()

	if g.onChange != nil {
		g.onChange(event)
	}
}

func (g *Gate) Session() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

func (g *Gate) Authenticated() bool {
	return g.Session() != nil
}

// Unmount releases the subscription. Safe to call more than once.
func (g *Gate) Unmount() {
	g.mu.Lock()
	sub := g.sub
	g.sub = nil
	g.mu.Unlock()
	sub.Unsubscribe()
}
