package reminder

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/posentinel/sentinel/internal/store"
)

// DueMsg is a tea.Msg sent when the reminder gate opens.
type DueMsg struct {
	// Date is today's date in DateFormat at the moment the gate opened.
	Date string
}

// defaultPollInterval is how often the gate is re-evaluated.
const defaultPollInterval = time.Minute

// stateTimeout bounds each last-sent lookup against the store.
const stateTimeout = 5 * time.Second

// Poller re-evaluates the reminder gate on a fixed cadence and emits a
// DueMsg the first time it opens each day. Re-running the check is
// idempotent: once a DueMsg for a date has been emitted (or a send for
// that date confirmed), the same date never fires again.
type Poller struct {
	store    store.Store
	window   Window
	interval time.Duration
	resultCh chan DueMsg
	stopCh   chan struct{}
	now      func() time.Time

	mu        gosync.Mutex
	running   bool
	firedDate string
}

// NewPoller creates a poller that reads the last-sent date from s.
// interval <= 0 falls back to once per minute.
func NewPoller(s store.Store, window Window, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		store:    s,
		window:   window,
		interval: interval,
		resultCh: make(chan DueMsg, 1),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the polling goroutine and returns a subscription
// command that delivers DueMsg values to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return p.waitForDue()
	}
	p.running = true
	p.mu.Unlock()

	go p.run()

	return p.waitForDue()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// WaitForNextDue returns a tea.Cmd that waits for the next gate
// opening. Call it after processing a DueMsg to keep listening.
func (p *Poller) WaitForNextDue() tea.Cmd {
	return p.waitForDue()
}

// MarkFired suppresses further DueMsg emissions for date without
// waiting for the store write to land.
func (p *Poller) MarkFired(date string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.firedDate = date
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Evaluate once immediately so a dashboard opened mid-morning
	// does not wait a full interval.
	p.check()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.check()
		}
	}
}

func (p *Poller) check() {
	now := p.now()
	today := now.Format(DateFormat)

	p.mu.Lock()
	alreadyFired := p.firedDate == today
	p.mu.Unlock()
	if alreadyFired {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stateTimeout)
	lastSent, err := p.store.GetLastReminder(ctx)
	cancel()
	if err != nil {
		// Treat an unreadable state as "nothing sent"; worst case is
		// an extra prompt, and a human still confirms the send.
		lastSent = ""
	}

	if !IsDue(now, lastSent, p.window) {
		return
	}

	p.mu.Lock()
	p.firedDate = today
	p.mu.Unlock()

	select {
	case p.resultCh <- DueMsg{Date: today}:
	default:
		// A prompt is already queued; drop rather than block.
	}
}

func (p *Poller) waitForDue() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}
