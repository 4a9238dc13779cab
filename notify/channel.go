package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"

	"github.com/gabyel-dev/CafeRealitea/api"
)

var log = logging.MustGetLogger("log")

// State of the notification channel. Exactly one delivery path is live at
// any instant: the socket (Connected) or the poller (Polling).
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
	Polling
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Polling:
		return "polling"
	default:
		return "disconnected"
	}
}

// PendingLister is the slice of the backend client the polling fallback
// needs.
type PendingLister interface {
	PendingOrders(ctx context.Context) ([]api.PendingOrder, error)
}

type Config struct {
	// URL of the WebSocket endpoint.
	URL string
	// UserID registers this terminal for personal notifications.
	UserID int
	// Dialer overrides the WebSocket dialer; nil means DialWebSocket.
	Dialer Dialer

	ReconnectAttempts int           // dial attempts per outage before falling back
	ReconnectDelay    time.Duration // fixed delay between attempts
	PollInterval      time.Duration // fallback polling period
}

func (c *Config) withDefaults() {
	if c.Dialer == nil {
		c.Dialer = DialWebSocket
	}
	if c.ReconnectAttempts <= 0 {
		c.ReconnectAttempts = 3
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
}

// Channel keeps this terminal fed with order-lifecycle events. It tries the
// WebSocket first, retries a bounded number of times on failure, then
// degrades to polling the pending-orders endpoint until Close. It never
// returns errors to its consumer; every failure ends in polling or a log
// line.
type Channel struct {
	cfg    Config
	orders PendingLister
	sink   Sink

	state   atomic.Int32
	pending atomic.Int64

	mu   sync.Mutex
	conn Conn

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel(cfg Config, orders PendingLister, sink Sink) *Channel {
	cfg.withDefaults()
	return &Channel{
		cfg:    cfg,
		orders: orders,
		sink:   sink,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (c *Channel) State() State {
	return State(c.state.Load())
}

func (c *Channel) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Channel) Start() {
	go c.run()
}

// Close tears the channel down: the socket is closed, the polling timer is
// stopped, and once Close returns no further sink calls can happen.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()
		<-c.done
		c.setState(Disconnected)
	})
}

func (c *Channel) run() {
	defer close(c.done)

	attempts := 0
	for {
		select {
		case <-c.quit:
			return
		default:
		}

		c.setState(Connecting)
		conn, err := c.dial()
		if err != nil {
			attempts++
			log.Warningf("Notification socket connect failed (attempt %d/%d): %v",
				attempts, c.cfg.ReconnectAttempts, err)
			if attempts >= c.cfg.ReconnectAttempts {
				c.poll()
				return
			}
			if !c.sleep(c.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		attempts = 0
		select {
		case <-c.quit:
			// Close won the race with the dial.
			_ = conn.Close()
			return
		default:
		}
		c.setState(Connected)
		log.Infof("Notification socket connected")
		c.register(conn)

		if !c.readLoop(conn) {
			return
		}
		// Read loop broke on an error; go around and redial.
	}
}

func (c *Channel) dial() (Conn, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-c.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	conn, err := c.cfg.Dialer(ctx, c.cfg.URL)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return conn, nil
}

func (c *Channel) register(conn Conn) {
	if c.cfg.UserID == 0 {
		return
	}
	if err := conn.WriteJSON(registerFrame{Event: "register_user", UserID: c.cfg.UserID}); err != nil {
		log.Warningf("Could not register user on notification socket: %v", err)
	}
}

// readLoop consumes events until the connection breaks. Returns false when
// the channel is shutting down.
func (c *Channel) readLoop(conn Conn) bool {
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		event, err := conn.ReadEvent()
		if err != nil {
			select {
			case <-c.quit:
				return false
			default:
				log.Warningf("Notification socket read failed: %v", err)
				return true
			}
		}
		select {
		case <-c.quit:
			return false
		default:
		}
		c.dispatch(event)
	}
}

func (c *Channel) dispatch(e Event) {
	switch e.Type {
	case EventNewPendingOrder:
		n := c.pending.Add(1)
		c.sink.PendingCount(int(n))
	case EventOrderConfirmed, EventOrderCancelled:
		if n := c.pending.Load(); n > 0 {
			c.sink.PendingCount(int(c.pending.Add(-1)))
		}
	case EventNotification:
		// Generic broadcast, toast only.
	default:
		log.Debugf("Ignoring unknown notification event %q", e.Type)
		return
	}
	c.sink.Toast(e)
}

// poll is the fallback delivery path: every interval, list pending orders
// and toast a summary when there are any. Runs until Close.
func (c *Channel) poll() {
	c.setState(Polling)
	log.Infof("Notification socket gave up after %d attempts, falling back to polling every %s",
		c.cfg.ReconnectAttempts, c.cfg.PollInterval)

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	c.pollOnce()
	for {
		select {
		case <-c.quit:
			return
		case <-ticker.C:
			c.pollOnce()
		}
	}
}

func (c *Channel) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PollInterval)
	defer cancel()

	orders, err := c.orders.PendingOrders(ctx)
	if err != nil {
		log.Debugf("Pending orders poll failed: %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	select {
	case <-c.quit:
		return
	default:
	}
	c.pending.Store(int64(len(orders)))
	c.sink.PendingCount(len(orders))
	c.sink.Toast(Event{
		Type:    EventNotification,
		Message: fmt.Sprintf("You have %d pending order(s) waiting for review", len(orders)),
	})
}

// sleep waits for the reconnect delay, bailing out early on Close. Returns
// false when the channel is shutting down.
func (c *Channel) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.quit:
		return false
	case <-timer.C:
		return true
	}
}
