package match

import "sync"

// Ticket identifies one request generation on a Board.
type Ticket uint64

// View is a copy of everything the results panel shows.
type View struct {
	Query        string
	Loading      bool
	Result       string
	Error        string
	Alert        string
	ModelsText   string
	StoreLoading bool
	StoreStatus  string
}

// Board is the display state of one session.
//
// Searches and data store pings each carry a generation counter. Completions
// holding an older ticket are dropped, so a slow request can never overwrite
// the outcome of a newer one.
type Board struct {
	mu     sync.Mutex
	search Ticket
	ping   Ticket
	view   View
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// TakeAlert returns the pending alert and clears it.
func (b *Board) TakeAlert() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	alert := b.view.Alert
	b.view.Alert = ""
	return alert
}

// BeginSearch clears the previous outcome and enters loading.
func (b *Board) BeginSearch(query string) Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search++
	b.view.Query = query
	b.view.Error = ""
	b.view.Result = ""
	b.view.Alert = ""
	b.view.Loading = true
	return b.search
}

// RejectSearch fails a search before it starts. Any in-flight search is
// invalidated so its late completion cannot replace this error.
func (b *Board) RejectSearch(query, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.search++
	b.view.Query = query
	b.view.Error = message
	b.view.Result = ""
	b.view.Loading = false
}

func (b *Board) Succeed(t Ticket, result string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t != b.search {
		return false
	}
	b.view.Result = result
	b.view.Error = ""
	return true
}

func (b *Board) Fail(t Ticket, message, alert string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t != b.search {
		return false
	}
	b.view.Error = message
	b.view.Alert = alert
	b.view.Result = ""
	return true
}

// Settle leaves loading if t is still the newest search.
func (b *Board) Settle(t Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t == b.search {
		b.view.Loading = false
	}
}

func (b *Board) SetModels(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.ModelsText = text
	b.view.Error = ""
}

// SetError shows message in place of the current result or error.
func (b *Board) SetError(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Error = message
	b.view.Result = ""
}

func (b *Board) BeginPing() Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ping++
	b.view.StoreStatus = ""
	b.view.StoreLoading = true
	return b.ping
}

// SettlePing records the ping outcome and leaves loading if t is still current.
func (b *Board) SettlePing(t Ticket, status string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t != b.ping {
		return false
	}
	b.view.StoreStatus = status
	b.view.StoreLoading = false
	return true
}
