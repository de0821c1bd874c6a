// Package wsclient maintains one logical connection to the game server: a
// fully observable lifecycle, an outbound queue that never drops a
// client-authored write, and automatic reconnection with linear backoff.
//
// A Conn is an actor: a single goroutine owns all connection state and
// processes typed messages from an inbox, so lifecycle, queue, and timers
// have exactly one writer.
package wsclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hiroyats05/CartasContraHumanidade/internal/metrics"
	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
)

// Options tune a Conn. Zero values fall back to the defaults below.
type Options struct {
	Dial         Dialer
	BackoffBase  time.Duration // first reconnect delay; grows linearly per attempt
	BackoffMax   time.Duration // backoff ceiling
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

func (o *Options) withDefaults() {
	if o.Dial == nil {
		o.Dial = Dial
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = time.Second
	}
	if o.BackoffMax <= 0 {
		o.BackoffMax = 30 * time.Second
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
}

type connMsg interface{ isConnMsg() }

type connectReq struct{}

type sendReq struct{ payload []byte }

type closeReq struct{}

type retryTick struct{}

// dialDone and the read pump messages carry the generation of the physical
// connection they belong to; results from superseded connections are ignored.
type dialDone struct {
	gen int
	t   Transport
	err error
}

type inboundFrame struct {
	gen  int
	data []byte
}

type readerStopped struct {
	gen int
	err error
}

func (connectReq) isConnMsg() {}

func (sendReq) isConnMsg() {}

func (closeReq) isConnMsg() {}

func (retryTick) isConnMsg() {}

func (dialDone) isConnMsg() {}

func (inboundFrame) isConnMsg() {}

func (readerStopped) isConnMsg() {}

// Conn is one logical connection to a server endpoint. All methods are safe
// from any goroutine; they post into the actor loop.
type Conn struct {
	url  string
	opts Options
	log  *zap.Logger
	met  *metrics.Metrics

	inbox  chan connMsg
	events chan Event
	done   chan struct{}

	closeOnce sync.Once

	// owned by the loop goroutine
	state           Status
	transport       Transport
	gen             int
	queue           [][]byte
	attempts        int
	retryTimer      *time.Timer
	shouldReconnect bool
}

func New(url string, opts Options, log *zap.Logger, met *metrics.Metrics) *Conn {
	opts.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	c := &Conn{
		url:             url,
		opts:            opts,
		log:             log.With(zap.String("url", url)),
		met:             met,
		inbox:           make(chan connMsg, 64),
		events:          make(chan Event, 64),
		done:            make(chan struct{}),
		state:           StatusIdle,
		shouldReconnect: true,
	}
	go c.loop()
	return c
}

// Events returns the event stream. The channel closes after Close; consumers
// must keep draining it while the connection lives.
func (c *Conn) Events() <-chan Event { return c.events }

// Connect begins establishing the connection. Calling it while already
// connecting or open is a no-op.
func (c *Conn) Connect() { c.post(connectReq{}) }

// Send marshals v and transmits it if the connection is open, or queues it
// until the connection next opens. Queuing is the success path, not an error.
func (c *Conn) Send(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("dropping unmarshalable outbound message", zap.Error(err))
		return
	}
	c.post(sendReq{payload: payload})
}

// Close permanently ends the lifecycle: no further reconnection, physical
// connection torn down, event channel closed. The only path that does so.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { c.post(closeReq{}) })
}

func (c *Conn) post(m connMsg) {
	select {
	case c.inbox <- m:
	case <-c.done:
	}
}

func (c *Conn) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Conn) loop() {
	for m := range c.inbox {
		switch msg := m.(type) {
		case connectReq:
			c.startDial()

		case retryTick:
			if !c.shouldReconnect {
				break
			}
			c.startDial()

		case dialDone:
			c.handleDialDone(msg)

		case sendReq:
			c.handleSend(msg.payload)

		case inboundFrame:
			if msg.gen != c.gen {
				break
			}
			c.handleInbound(msg.data)

		case readerStopped:
			if msg.gen != c.gen {
				break
			}
			c.handleDisconnect(msg.err)

		case closeReq:
			c.shutdown()
			return
		}
	}
}

func (c *Conn) startDial() {
	if c.state == StatusConnecting || c.state == StatusOpen {
		c.log.Debug("connect ignored", zap.Stringer("state", c.state))
		return
	}
	c.state = StatusConnecting
	c.gen++
	gen := c.gen
	c.log.Debug("connecting")
	c.met.ConnectAttempt()
	c.emit(StatusEvent{Status: StatusConnecting})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.DialTimeout)
		defer cancel()
		t, err := c.opts.Dial(ctx, c.url)
		select {
		case c.inbox <- dialDone{gen: gen, t: t, err: err}:
		case <-c.done:
			if t != nil {
				t.Close()
			}
		}
	}()
}

func (c *Conn) handleDialDone(msg dialDone) {
	if msg.gen != c.gen {
		// superseded attempt
		if msg.t != nil {
			msg.t.Close()
		}
		return
	}
	if msg.err != nil {
		c.log.Debug("dial failed", zap.Error(msg.err))
		c.state = StatusClosed
		c.emit(StatusEvent{Status: StatusError, Err: msg.err})
		if c.shouldReconnect {
			c.scheduleReconnect()
		}
		return
	}

	c.transport = msg.t
	c.state = StatusOpen
	c.attempts = 0
	c.stopRetryTimer()
	c.log.Debug("connected")
	c.emit(StatusEvent{Status: StatusOpen})

	// flush the queue strictly FIFO; a failed write is logged and does not
	// block the remainder
	flushed := 0
	for _, payload := range c.queue {
		if err := c.write(payload); err != nil {
			c.log.Warn("failed to flush queued message", zap.Error(err))
			continue
		}
		flushed++
	}
	if flushed > 0 {
		c.log.Debug("flushed outbound queue", zap.Int("messages", flushed))
	}
	c.queue = nil

	go c.readPump(msg.t, c.gen)
}

func (c *Conn) handleSend(payload []byte) {
	if c.state == StatusOpen && c.transport != nil {
		if err := c.write(payload); err != nil {
			// the read pump will observe the broken connection and trigger
			// reconnect; this message is lost (at-most-once per message)
			c.log.Warn("send failed", zap.Error(err))
		}
		return
	}
	c.queue = append(c.queue, payload)
	c.met.MessageQueued()
	c.log.Debug("queued message, connection not open", zap.Int("queue_len", len(c.queue)))
}

func (c *Conn) handleInbound(data []byte) {
	var msg protocol.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.met.InboundDropped()
		c.log.Warn("dropping non-parseable inbound frame", zap.Error(err))
		return
	}
	c.emit(MessageEvent{Msg: msg, Raw: data})
}

func (c *Conn) handleDisconnect(err error) {
	if c.transport != nil {
		c.transport.Close()
		c.transport = nil
	}
	c.state = StatusClosed
	c.log.Debug("connection lost", zap.Error(err))
	c.emit(StatusEvent{Status: StatusClosed, Err: err})
	if c.shouldReconnect {
		c.scheduleReconnect()
	}
}

func (c *Conn) scheduleReconnect() {
	c.attempts++
	delay := backoffDelay(c.opts.BackoffBase, c.opts.BackoffMax, c.attempts)
	c.stopRetryTimer()
	c.log.Debug("scheduling reconnect",
		zap.Int("attempt", c.attempts),
		zap.Duration("delay", delay))
	c.met.ReconnectScheduled()
	c.retryTimer = time.AfterFunc(delay, func() { c.post(retryTick{}) })
}

func (c *Conn) stopRetryTimer() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Conn) shutdown() {
	c.shouldReconnect = false
	c.stopRetryTimer()
	c.state = StatusClosing
	select {
	case c.events <- StatusEvent{Status: StatusClosing}:
	default:
	}
	if c.transport != nil {
		c.transport.Close()
		c.transport = nil
	}
	c.state = StatusClosed
	select {
	case c.events <- StatusEvent{Status: StatusClosed}:
	default:
	}
	close(c.done)
	close(c.events)
}

func (c *Conn) write(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.WriteTimeout)
	defer cancel()
	if err := c.transport.Write(ctx, payload); err != nil {
		return err
	}
	c.met.MessageSent()
	return nil
}

// readPump feeds inbound frames into the actor until the transport fails.
func (c *Conn) readPump(t Transport, gen int) {
	for {
		data, err := t.Read(context.Background())
		if err != nil {
			c.post(readerStopped{gen: gen, err: err})
			return
		}
		c.post(inboundFrame{gen: gen, data: data})
	}
}

// backoffDelay grows linearly with the attempt count and is capped: strictly
// non-decreasing until the ceiling, then constant. Deliberately not
// exponential; a dead server gets probed at a gentle, bounded rate.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base * time.Duration(attempt)
	if d > max || d < 0 {
		return max
	}
	return d
}
