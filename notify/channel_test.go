package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabyel-dev/CafeRealitea/api"
)

type recordSink struct {
	mu     sync.Mutex
	toasts []Event
	counts []int
}

func (r *recordSink) Toast(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, e)
}

func (r *recordSink) PendingCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, n)
}

func (r *recordSink) toastCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}

func (r *recordSink) lastCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.counts) == 0 {
		return 0
	}
	return r.counts[len(r.counts)-1]
}

func (r *recordSink) snapshot() ([]Event, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	toasts := make([]Event, len(r.toasts))
	copy(toasts, r.toasts)
	counts := make([]int, len(r.counts))
	copy(counts, r.counts)
	return toasts, counts
}

type fakeConn struct {
	events    chan Event
	writes    chan any
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		events: make(chan Event, 16),
		writes: make(chan any, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadEvent() (Event, error) {
	select {
	case e := <-f.events:
		return e, nil
	case <-f.closed:
		return Event{}, errors.New("connection closed")
	}
}

func (f *fakeConn) WriteJSON(v any) error {
	f.writes <- v
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

type fakeLister struct {
	mu     sync.Mutex
	orders []api.PendingOrder
	calls  atomic.Int64
}

func (f *fakeLister) PendingOrders(context.Context) ([]api.PendingOrder, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, nil
}

func testConfig(dialer Dialer) Config {
	return Config{
		URL:               "ws://backend/socket",
		UserID:            7,
		Dialer:            dialer,
		ReconnectAttempts: 3,
		ReconnectDelay:    5 * time.Millisecond,
		PollInterval:      20 * time.Millisecond,
	}
}

func TestChannelDeliversEvents(t *testing.T) {
	conn := newFakeConn()
	sink := &recordSink{}
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		return conn, nil
	}), &fakeLister{}, sink)

	ch.Start()
	defer ch.Close()

	// Registration goes out first.
	select {
	case frame := <-conn.writes:
		assert.Equal(t, registerFrame{Event: "register_user", UserID: 7}, frame)
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for register_user frame")
	}

	conn.events <- Event{Type: EventNewPendingOrder, Message: "New pending order #12"}
	conn.events <- Event{Type: EventNewPendingOrder, Message: "New pending order #13"}
	conn.events <- Event{Type: EventOrderConfirmed, Message: "Order #12 confirmed"}
	conn.events <- Event{Type: EventNotification, Message: "Shift change at 6pm"}

	require.Eventually(t, func() bool { return sink.toastCount() == 4 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, Connected, ch.State())
	_, counts := sink.snapshot()
	assert.Equal(t, []int{1, 2, 1}, counts)
}

func TestChannelFallsBackToPollingAfterBoundedRetries(t *testing.T) {
	var dials atomic.Int64
	lister := &fakeLister{orders: []api.PendingOrder{{ID: 1}, {ID: 2}}}
	sink := &recordSink{}
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		dials.Add(1)
		return nil, errors.New("connect_error")
	}), lister, sink)

	ch.Start()
	defer ch.Close()

	require.Eventually(t, func() bool { return ch.State() == Polling },
		time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return sink.toastCount() >= 1 },
		time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, sink.lastCount())
	toasts, _ := sink.snapshot()
	assert.Contains(t, toasts[0].Message, "2 pending order")

	// The socket is never retried once polling took over.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(3), dials.Load())
}

func TestChannelPollsQuietlyWhenNothingPending(t *testing.T) {
	lister := &fakeLister{}
	sink := &recordSink{}
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		return nil, errors.New("connect_error")
	}), lister, sink)

	ch.Start()
	defer ch.Close()

	require.Eventually(t, func() bool { return lister.calls.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	assert.Zero(t, sink.toastCount())
}

func TestChannelReconnectsWithinCap(t *testing.T) {
	var dials atomic.Int64
	conn := newFakeConn()
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		if dials.Add(1) == 1 {
			return nil, errors.New("connect_error")
		}
		return conn, nil
	}), &fakeLister{}, &recordSink{})

	ch.Start()
	defer ch.Close()

	require.Eventually(t, func() bool { return ch.State() == Connected },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(2), dials.Load())
}

func TestCloseStopsDeliveryAndTimers(t *testing.T) {
	conn := newFakeConn()
	sink := &recordSink{}
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		return conn, nil
	}), &fakeLister{}, sink)

	ch.Start()
	require.Eventually(t, func() bool { return ch.State() == Connected },
		time.Second, 5*time.Millisecond)

	ch.Close()
	assert.Equal(t, Disconnected, ch.State())

	// Events queued after teardown never reach the sink.
	select {
	case conn.events <- Event{Type: EventNotification, Message: "late"}:
	default:
	}
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, sink.toastCount())

	// Close is idempotent.
	ch.Close()
}

func TestCloseStopsPolling(t *testing.T) {
	lister := &fakeLister{orders: []api.PendingOrder{{ID: 1}}}
	ch := NewChannel(testConfig(func(context.Context, string) (Conn, error) {
		return nil, errors.New("connect_error")
	}), lister, &recordSink{})

	ch.Start()
	require.Eventually(t, func() bool { return ch.State() == Polling },
		time.Second, 5*time.Millisecond)

	ch.Close()
	settled := lister.calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, lister.calls.Load())
}
