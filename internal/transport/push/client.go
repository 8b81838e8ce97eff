package push

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"

	"github.com/yndnr/hallwatch-go/internal/backend"
	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// Event names emitted by the backend.
const (
	EventCount     = "count"
	EventVideoFeed = "video_feed"
)

// Defaults.
const (
	DefaultNamespace      = "/video"
	DefaultRedialInterval = 2 * time.Second
	defaultPingInterval   = 25 * time.Second
	defaultPingTimeout    = 20 * time.Second
	handshakeTimeout      = 10 * time.Second
)

var (
	errServerClosed  = errors.New("server closed the connection")
	errNamespaceLeft = errors.New("server disconnected the namespace")
)

// Publisher accepts push fragments into the update stream.
type Publisher interface {
	Publish(ctx context.Context, source domain.UpdateSource, kind domain.UpdateKind, snap domain.Snapshot) error
}

// FrameSink receives decoded video frames.
type FrameSink interface {
	Put(f domain.Frame)
}

// Client maintains a Socket.IO subscription and reconnects on loss.
type Client struct {
	endpoint    string
	origin      string
	namespace   string
	defaultHall string
	out         Publisher
	frames      FrameSink
	limiter     *rate.Limiter
	logger      logger.Logger
	onState     func(connected bool)
	now         func() time.Time

	mu        sync.Mutex
	connected bool
	sessions  int
}

// Option configures a Client.
type Option func(*Client)

// WithNamespace sets the Socket.IO namespace.
func WithNamespace(ns string) Option {
	return func(c *Client) {
		if ns != "" {
			if !strings.HasPrefix(ns, "/") {
				ns = "/" + ns
			}
			c.namespace = ns
		}
	}
}

// WithRedialInterval sets the minimum delay between connection attempts.
func WithRedialInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithDefaultHall sets the hall single-hall count payloads belong to.
func WithDefaultHall(id string) Option {
	return func(c *Client) {
		c.defaultHall = id
	}
}

// WithFrameSink routes video_feed frames to sink.
func WithFrameSink(sink FrameSink) Option {
	return func(c *Client) {
		c.frames = sink
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithStateHook is called whenever the namespace connection goes up or down.
func WithStateHook(fn func(connected bool)) Option {
	return func(c *Client) {
		c.onState = fn
	}
}

// WithClock overrides the clock used to stamp frames.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a push client for the backend at baseURL.
func NewClient(baseURL string, out Publisher, opts ...Option) (*Client, error) {
	endpoint, origin, err := socketURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:    endpoint,
		origin:      origin,
		namespace:   DefaultNamespace,
		defaultHall: "default",
		out:         out,
		limiter:     rate.NewLimiter(rate.Every(DefaultRedialInterval), 1),
		logger:      logger.Discard(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// socketURL maps an http(s) base URL to the Engine.IO websocket endpoint.
func socketURL(baseURL string) (string, string, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("parse backend url: %w", err)
	}

	origin := u.Scheme + "://" + u.Host
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", "", fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("backend url %q has no host", baseURL)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	return u.String(), origin, nil
}

// Endpoint returns the websocket URL the client dials.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Connected reports whether the namespace is currently joined.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Sessions returns the number of successful namespace joins.
func (c *Client) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions
}

// Run keeps the subscription alive until ctx is done. It returns an error
// only when the update stream stops accepting updates.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil
		}

		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, domain.ErrDashboardClosed) {
			return err
		}
		c.logger.Warn("push disconnected", "endpoint", c.endpoint, "error", err)
	}
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	changed := c.connected != v
	c.connected = v
	if v {
		c.sessions++
	}
	c.mu.Unlock()

	if changed && c.onState != nil {
		c.onState(v)
	}
}

func (c *Client) session(ctx context.Context) error {
	cfg, err := websocket.NewConfig(c.endpoint, c.origin)
	if err != nil {
		return fmt.Errorf("websocket config: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	conn, err := cfg.DialContext(dialCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = conn.Close()
	}()

	timeout, err := c.handshake(conn)
	if err != nil {
		return err
	}

	c.setConnected(true)
	defer c.setConnected(false)
	c.logger.Info("push connected", "endpoint", c.endpoint, "namespace", c.namespace)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}

		var frame string
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if err := c.handle(ctx, conn, frame); err != nil {
			return err
		}
	}
}

// handshake reads the open packet, joins the namespace and returns the read
// timeout derived from the server heartbeat settings.
func (c *Client) handshake(conn *websocket.Conn) (time.Duration, error) {
	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return 0, err
	}

	var frame string
	if err := websocket.Message.Receive(conn, &frame); err != nil {
		return 0, fmt.Errorf("read open packet: %w", err)
	}
	info, err := parseOpen(frame)
	if err != nil {
		return 0, err
	}

	if err := websocket.Message.Send(conn, encodePacket(sioConnect, c.namespace, nil, nil)); err != nil {
		return 0, fmt.Errorf("join namespace: %w", err)
	}

	for {
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			return 0, fmt.Errorf("read connect ack: %w", err)
		}
		if frame == string(eioPing) {
			if err := websocket.Message.Send(conn, string(eioPong)); err != nil {
				return 0, err
			}
			continue
		}
		if len(frame) < 2 || frame[0] != eioMessage {
			continue
		}

		p, err := parsePacket(frame[1:])
		if err != nil || p.Namespace != c.namespace {
			continue
		}
		switch p.Type {
		case sioConnect:
			return heartbeatTimeout(info), nil
		case sioConnectError:
			return 0, fmt.Errorf("namespace %s: %s", c.namespace, connectError(p.Data))
		}
	}
}

func heartbeatTimeout(info openInfo) time.Duration {
	interval := time.Duration(info.PingInterval) * time.Millisecond
	if interval <= 0 {
		interval = defaultPingInterval
	}
	timeout := time.Duration(info.PingTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	return interval + timeout
}

func (c *Client) handle(ctx context.Context, conn *websocket.Conn, frame string) error {
	if frame == "" {
		return nil
	}

	switch frame[0] {
	case eioPing:
		return websocket.Message.Send(conn, string(eioPong)+frame[1:])
	case eioClose:
		return errServerClosed
	case eioMessage:
	default:
		return nil
	}

	p, err := parsePacket(frame[1:])
	if err != nil {
		c.logger.Debug("push packet dropped", "error", err, "frame", truncate(frame))
		return nil
	}
	if p.Namespace != c.namespace {
		return nil
	}

	switch p.Type {
	case sioDisconnect:
		return errNamespaceLeft
	case sioEvent:
		if err := c.dispatch(ctx, p.Data); err != nil {
			return err
		}
		if p.AckID != nil {
			return websocket.Message.Send(conn, encodePacket(sioAck, c.namespace, p.AckID, []byte("[]")))
		}
	}
	return nil
}

type countPayload struct {
	CameraID string          `json:"camera_id"`
	Count    json.RawMessage `json:"count"`
	Counts   json.RawMessage `json:"counts"`
}

type framePayload struct {
	CameraID string `json:"camera_id"`
	Frame    string `json:"frame"`
}

// dispatch routes one event. Only a closed update stream is returned as an
// error; malformed payloads are logged and skipped.
func (c *Client) dispatch(ctx context.Context, data json.RawMessage) error {
	name, args, err := decodeEvent(data)
	if err != nil || len(args) == 0 {
		c.logger.Debug("push event dropped", "error", err)
		return nil
	}

	switch name {
	case EventCount:
		var p countPayload
		if err := json.Unmarshal(args[0], &p); err != nil {
			c.logger.Debug("count payload dropped", "error", err)
			return nil
		}
		raw := p.Count
		if len(raw) == 0 {
			raw = p.Counts
		}
		snap, err := backend.DecodeCounts(raw, c.defaultHall)
		if err != nil {
			c.logger.Debug("count payload dropped", "camera_id", p.CameraID, "error", err)
			return nil
		}
		err = c.out.Publish(ctx, domain.SourcePush, domain.KindFragment, snap)
		if errors.Is(err, domain.ErrDashboardClosed) {
			return err
		}
		return nil

	case EventVideoFeed:
		if c.frames == nil {
			return nil
		}
		var p framePayload
		if err := json.Unmarshal(args[0], &p); err != nil || p.CameraID == "" {
			c.logger.Debug("video_feed payload dropped", "error", err)
			return nil
		}
		img, err := base64.StdEncoding.DecodeString(p.Frame)
		if err != nil {
			c.logger.Debug("video_feed frame dropped", "camera_id", p.CameraID, "error", err)
			return nil
		}
		c.frames.Put(domain.Frame{CameraID: p.CameraID, Data: img, ReceivedAt: c.now()})
	}
	return nil
}
