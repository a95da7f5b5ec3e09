package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second

	handshakeTimeout = 10 * time.Second

	// The server pings well inside this window; silence past it means the
	// connection is gone.
	defaultReadWait = 60 * time.Second
	writeWait       = 10 * time.Second
)

// SocketNotifier listens on the portal websocket and reconnects with
// jittered exponential backoff until closed.
type SocketNotifier struct {
	url    string
	token  func() string
	dialer *websocket.Dialer
	logger *slog.Logger
	reg    *registry

	readWait time.Duration

	connected *atomic.Bool
	received  *atomic.Int64

	mu       sync.Mutex
	conn     *websocket.Conn
	watchers []func(connected bool)

	cancel context.CancelFunc
	done   chan struct{}
}

var _ ChangeNotifier = (*SocketNotifier)(nil)

type SocketOption func(*SocketNotifier)

func WithDialer(d *websocket.Dialer) SocketOption {
	return func(s *SocketNotifier) { s.dialer = d }
}

// WithReadWait sets how long the socket may stay silent before it is
// treated as dropped.
func WithReadWait(d time.Duration) SocketOption {
	return func(s *SocketNotifier) { s.readWait = d }
}

func WithSocketLogger(l *slog.Logger) SocketOption {
	return func(s *SocketNotifier) { s.logger = l }
}

// NewSocketNotifier connects to url in the background. token is read on
// every dial so a refreshed login is picked up on reconnect.
func NewSocketNotifier(url string, token func() string, opts ...SocketOption) *SocketNotifier {
	s := &SocketNotifier{
		url:       url,
		token:     token,
		dialer:    &websocket.Dialer{HandshakeTimeout: handshakeTimeout, Proxy: http.ProxyFromEnvironment},
		logger:    slog.Default(),
		reg:       newRegistry(),
		readWait:  defaultReadWait,
		connected: atomic.NewBool(false),
		received:  atomic.NewInt64(0),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
	return s
}

func (s *SocketNotifier) Subscribe(scope Scope, events []string, fn func(Event)) func() {
	return s.reg.subscribe(scope, events, fn)
}

func (s *SocketNotifier) Connected() bool { return s.connected.Load() }

func (s *SocketNotifier) Received() int64 { return s.received.Load() }

// Watch registers fn for connection state changes.
func (s *SocketNotifier) Watch(fn func(connected bool)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

func (s *SocketNotifier) Close() error {
	s.cancel()
	s.mu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.mu.Unlock()
	<-s.done
	s.reg.clear()
	return nil
}

func (s *SocketNotifier) setState(up bool) {
	if s.connected.Swap(up) == up {
		return
	}
	s.mu.Lock()
	watchers := append([]func(bool){}, s.watchers...)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(up)
	}
}

func newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = minBackoff
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (s *SocketNotifier) run(ctx context.Context) {
	defer close(s.done)
	retry := newBackoff()
	for {
		conn, err := s.dial(ctx)
		if err == nil {
			retry.Reset()
			s.setState(true)
			s.read(conn)
			s.setState(false)
		}
		wait := retry.NextBackOff()
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("socket dial failed", "url", s.url, "retryIn", wait, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (s *SocketNotifier) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if tok := s.token(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}
	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		_ = conn.Close()
		return nil, ctx.Err()
	}
	s.conn = conn
	s.mu.Unlock()
	return conn, nil
}

func (s *SocketNotifier) read(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(s.readWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(s.readWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.logger.Debug("socket closed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.readWait))
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Name == "" {
			s.logger.Debug("ignoring socket frame", "frame", string(msg))
			continue
		}
		s.received.Inc()
		s.reg.dispatch(ev)
	}
}
