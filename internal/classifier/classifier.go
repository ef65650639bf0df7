// Package classifier serializes caller requests onto the single classifier
// engine. The engine is stateful and processes one request at a time, so
// admission is a single-flight gate with a FIFO queue behind it; message
// boundaries in the engine's unframed output are recovered by token-count
// accounting.
package classifier

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"nertag/internal/common/fsutil"
	"nertag/internal/config"
	"nertag/internal/engine"
	"nertag/pkg/types"
)

// Engine is the subprocess surface the classifier drives. Satisfied by
// *engine.Engine; tests substitute an in-memory fake.
type Engine interface {
	Start() error
	Write(text string) error
	Subscribe(h func(line string))
	Stop() error
	Pid() int
}

// waiter is one queued request. Its ready channel is closed exactly once:
// either when its turn arrives or when the classifier shuts down.
type waiter struct {
	token uuid.UUID
	ready chan struct{}
}

// inflight is the currently admitted request.
type inflight struct {
	id   uuid.UUID
	dec  frameDecoder
	done chan types.Result
}

// Classifier is the public entry point: Classify serializes access to the
// engine and returns per-sentence entity groups.
type Classifier struct {
	eng Engine
	log zerolog.Logger

	mu      sync.Mutex
	busy    bool
	waiters []*waiter
	cur     *inflight
	closed  bool
	total   uint64

	closedCh chan struct{}
	start    time.Time
}

// New validates the configuration, spawns the engine and returns a ready
// classifier. Missing jar or classifier files fail here, before any process
// is spawned; spawn failures are fatal and not retried.
func New(cfg config.Config, log zerolog.Logger) (*Classifier, error) {
	cfg.ApplyDefaults()
	install, err := fsutil.ExpandHome(cfg.InstallPath)
	if err != nil {
		return nil, err
	}
	cfg.InstallPath = install
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := newWithEngine(engine.NewFromConfig(cfg, log), log)
	if err := c.eng.Start(); err != nil {
		return nil, err
	}
	return c, nil
}

func newWithEngine(eng Engine, log zerolog.Logger) *Classifier {
	c := &Classifier{
		eng:      eng,
		log:      log,
		closedCh: make(chan struct{}),
		start:    time.Now(),
	}
	eng.Subscribe(c.handleLine)
	return c
}

// Classify submits text to the engine and blocks until its full response has
// been accounted for. Requests are admitted strictly in arrival order; while
// one is in flight, later callers queue. There is no completion timeout: if
// the engine's output never balances the submitted token count, the request
// and everything queued behind it stall (a documented liveness property of
// the counting protocol). Cancellation via ctx is honored only while still
// waiting in the queue; once admitted, a request runs to completion.
func (c *Classifier) Classify(ctx context.Context, text string) (types.Result, error) {
	text = strings.TrimSpace(text)
	n := countTokens(text)
	if n == 0 {
		// Nothing the engine would account for; a write would desynchronize
		// the stream, so answer without consulting it.
		return types.Result{}, nil
	}
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}

	in := &inflight{id: uuid.New(), dec: newCountingDecoder(n), done: make(chan types.Result, 1)}
	c.mu.Lock()
	c.cur = in
	c.mu.Unlock()
	inflightGauge.Inc()
	c.log.Debug().Str("request_id", in.id.String()).Int("tokens", n).Msg("request admitted")

	timer := prometheus.NewTimer(requestDuration)
	if err := c.eng.Write(text + "\n"); err != nil {
		c.mu.Lock()
		c.cur = nil
		c.mu.Unlock()
		inflightGauge.Dec()
		c.release()
		return nil, err
	}

	select {
	case res := <-in.done:
		timer.ObserveDuration()
		inflightGauge.Dec()
		requestsTotal.Inc()
		c.log.Debug().Str("request_id", in.id.String()).Int("sentences", len(res)).Msg("request complete")
		c.release()
		return res, nil
	case <-c.closedCh:
		inflightGauge.Dec()
		return nil, shutdownError{}
	}
}

// acquire claims the single admission slot, queueing FIFO behind the
// in-flight request when busy.
func (c *Classifier) acquire(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return shutdownError{}
	}
	if !c.busy {
		c.busy = true
		c.mu.Unlock()
		return nil
	}
	w := &waiter{token: uuid.New(), ready: make(chan struct{})}
	c.waiters = append(c.waiters, w)
	queueDepth.Inc()
	c.mu.Unlock()

	select {
	case <-w.ready:
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return shutdownError{}
		}
		return nil
	case <-ctx.Done():
		c.mu.Lock()
		for i, q := range c.waiters {
			if q.token == w.token {
				c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
				c.mu.Unlock()
				queueDepth.Dec()
				return ctx.Err()
			}
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return ctx.Err()
		}
		// Already woken: this waiter owns the slot but its caller is gone,
		// so hand the slot to the next in line.
		c.release()
		return ctx.Err()
	}
}

// release hands the admission slot to the next queued waiter, or returns to
// idle when the queue is empty.
func (c *Classifier) release() {
	c.mu.Lock()
	if len(c.waiters) > 0 {
		w := c.waiters[0]
		c.waiters = c.waiters[1:]
		c.mu.Unlock()
		queueDepth.Dec()
		close(w.ready)
		return
	}
	c.busy = false
	c.mu.Unlock()
}

// handleLine consumes one engine output line. Called from the engine's reader
// goroutine, one line at a time, so completion can trigger in the middle of a
// burst; lines arriving with no request in flight are dropped loudly rather
// than attributed to a finished request.
func (c *Classifier) handleLine(line string) {
	c.mu.Lock()
	in := c.cur
	c.mu.Unlock()
	if in == nil {
		droppedLines.Inc()
		c.log.Warn().Str("line", truncate(line, 120)).Msg("engine output with no request in flight; dropping")
		return
	}
	outputLines.Inc()
	if in.dec.consume(line) {
		c.mu.Lock()
		c.cur = nil
		c.total++
		c.mu.Unlock()
		in.done <- in.dec.result()
	}
}

// Status returns a read-only projection of classifier state.
func (c *Classifier) Status() types.StatusResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := "idle"
	if c.busy {
		state = "busy"
	}
	return types.StatusResponse{
		State:         state,
		QueueDepth:    len(c.waiters),
		RequestsTotal: c.total,
		EnginePID:     c.eng.Pid(),
		UptimeSeconds: int64(time.Since(c.start).Seconds()),
	}
}

// Ready reports whether the classifier accepts requests.
func (c *Classifier) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Close shuts the classifier down: queued waiters are woken with a shutdown
// error, an in-flight Classify unblocks, and the engine process is stopped.
// Idempotent.
func (c *Classifier) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	// Any line straggling in after shutdown counts as dropped instead of
	// feeding the abandoned request's decoder.
	c.cur = nil
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	close(c.closedCh)
	for _, w := range waiters {
		queueDepth.Dec()
		close(w.ready)
	}
	return c.eng.Stop()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
