// Package transport connects the interaction state to the agent backend
// over a WebSocket. Remote commands are routed into the same store
// mutations the local UI uses; conversational messages land in an
// observable log. The connection recovers from failures with a fixed
// reconnect delay until explicitly closed.
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/agentcad/agentcad/internal/state"
	"github.com/agentcad/agentcad/internal/view"
)

// ConnState is the connection lifecycle state.
type ConnState int

// Connection states. Closed/error transitions Connected back to
// Connecting; Close forces Disconnected and suppresses reconnection.
const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// DefaultReconnectDelay is the fixed pause between reconnect attempts.
const DefaultReconnectDelay = 2 * time.Second

// LogEntry is a chat/system/drawing message retained for UI consumption.
type LogEntry struct {
	Type    string
	Role    string
	Content string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the zap logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithReconnectDelay overrides the reconnect delay.
func WithReconnectDelay(delay time.Duration) Option {
	return func(d *Dispatcher) { d.reconnectDelay = delay }
}

// WithScreenshotHandler sets the callback invoked on screenshot_request.
// Capture itself is an external collaborator.
func WithScreenshotHandler(fn func()) Option {
	return func(d *Dispatcher) { d.screenshotFn = fn }
}

// Dispatcher owns the WebSocket connection and routes inbound messages.
type Dispatcher struct {
	url            string
	store          *state.Store
	views          *view.Controller
	log            *zap.Logger
	reconnectDelay time.Duration
	screenshotFn   func()

	mu        sync.Mutex
	connState ConnState
	conn      *websocket.Conn
	reconnect *time.Timer
	closed    bool

	msgMu        sync.Mutex
	messages     []LogEntry
	msgListeners []func(LogEntry)
}

// NewDispatcher creates a dispatcher targeting the given ws:// URL.
func NewDispatcher(url string, store *state.Store, views *view.Controller, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		url:            url,
		store:          store,
		views:          views,
		log:            zap.NewNop(),
		reconnectDelay: DefaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current connection state.
func (d *Dispatcher) State() ConnState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connState
}

// Connect starts connecting asynchronously. Safe to call once; later
// reconnects are scheduled internally.
func (d *Dispatcher) Connect() {
	d.mu.Lock()
	if d.closed || d.connState != Disconnected {
		d.mu.Unlock()
		return
	}
	d.connState = Connecting
	d.mu.Unlock()

	go d.dial()
}

// Close tears the connection down and cancels any pending reconnect. No
// further reconnection is attempted.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.connState = Disconnected
	if d.reconnect != nil {
		d.reconnect.Stop()
		d.reconnect = nil
	}
	conn := d.conn
	d.conn = nil
	d.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// SendChat sends a user chat message to the backend.
func (d *Dispatcher) SendChat(content string) error {
	d.mu.Lock()
	conn := d.conn
	d.mu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}
	return conn.WriteJSON(ChatMessage{Type: TypeChat, Role: "user", Content: content})
}

// OnMessage registers a listener for appended chat/system/drawing log
// entries.
func (d *Dispatcher) OnMessage(fn func(LogEntry)) {
	d.msgMu.Lock()
	d.msgListeners = append(d.msgListeners, fn)
	d.msgMu.Unlock()
}

// Messages returns a copy of the message log.
func (d *Dispatcher) Messages() []LogEntry {
	d.msgMu.Lock()
	defer d.msgMu.Unlock()
	out := make([]LogEntry, len(d.messages))
	copy(out, d.messages)
	return out
}

func (d *Dispatcher) appendMessage(entry LogEntry) {
	d.msgMu.Lock()
	d.messages = append(d.messages, entry)
	listeners := make([]func(LogEntry), len(d.msgListeners))
	copy(listeners, d.msgListeners)
	d.msgMu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
}

func (d *Dispatcher) dial() {
	conn, _, err := websocket.DefaultDialer.Dial(d.url, nil)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		d.mu.Unlock()
		d.log.Warn("connection failed", zap.String("url", d.url), zap.Error(err))
		d.scheduleReconnect()
		return
	}
	d.conn = conn
	d.connState = Connected
	d.mu.Unlock()

	d.log.Info("connected", zap.String("url", d.url))
	d.readLoop(conn)
}

// readLoop runs until the connection drops, then hands control back to
// the reconnect machinery.
func (d *Dispatcher) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		d.handleFrame(data)
	}
	_ = conn.Close()

	d.mu.Lock()
	if d.conn == conn {
		d.conn = nil
	}
	closed := d.closed
	d.mu.Unlock()

	if closed {
		return
	}
	d.log.Info("connection lost, scheduling reconnect")
	d.scheduleReconnect()
}

// scheduleReconnect arms the single reconnect timer. At most one timer
// is pending at a time; Close cancels it.
func (d *Dispatcher) scheduleReconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.reconnect != nil {
		return
	}
	d.connState = Connecting
	d.reconnect = time.AfterFunc(d.reconnectDelay, func() {
		d.mu.Lock()
		d.reconnect = nil
		if d.closed {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		d.dial()
	})
}

// handleFrame decodes and routes one inbound frame. Decode failures and
// unknown variants are logged and dropped, never fatal to the
// connection.
func (d *Dispatcher) handleFrame(data []byte) {
	msg, err := decodeMessage(data)
	if err != nil {
		d.log.Warn("dropping message", zap.Error(err))
		return
	}

	switch m := msg.(type) {
	case ChatMessage:
		d.appendMessage(LogEntry{Type: TypeChat, Role: m.Role, Content: m.Content})
	case SystemMessage:
		d.appendMessage(LogEntry{Type: TypeSystem, Content: m.Content})
	case DrawingMessage:
		d.appendMessage(LogEntry{Type: TypeDrawing, Content: m.Action})
	case CadUpdateMessage:
		if m.Mesh == nil {
			d.log.Warn("dropping cad_update without mesh")
			return
		}
		d.store.Load(m.Mesh, m.Faces, m.Info, m.Filename)
		d.log.Info("model replaced",
			zap.String("filename", m.Filename),
			zap.Int("faces", len(m.Faces)))
	case CadCommandMessage:
		d.handleCommand(m)
	case screenshotRequest:
		if d.screenshotFn != nil {
			d.screenshotFn()
		} else {
			d.log.Warn("screenshot requested but no capture handler installed")
		}
	}
}

// handleCommand routes a cad_command to the same mutation entry points
// the UI uses. Unknown actions are logged and ignored.
func (d *Dispatcher) handleCommand(cmd CadCommandMessage) {
	switch cmd.Action {
	case ActionSelectFaces:
		d.store.SelectFaces(cmd.FaceIDs)
	case ActionClearSelection:
		d.store.ClearSelection()
	case ActionCreateFeature:
		if _, err := d.store.CreateFeature(cmd.Name); err != nil {
			d.log.Warn("create_feature rejected", zap.String("name", cmd.Name), zap.Error(err))
		}
	case ActionDeleteFeature:
		d.store.DeleteFeature(cmd.Name)
	case ActionSetDisplay:
		d.applyDisplay(cmd)
	case ActionSetView:
		zoom := float32(cmd.Zoom)
		if zoom == 0 {
			zoom = 1
		}
		if err := d.views.SetView(cmd.View, zoom); err != nil {
			d.log.Warn("set_view rejected", zap.String("view", cmd.View), zap.Error(err))
		}
	default:
		d.log.Warn("ignoring unknown cad_command action", zap.String("action", cmd.Action))
	}
}

func (d *Dispatcher) applyDisplay(cmd CadCommandMessage) {
	if cmd.XRay != nil {
		d.store.SetXRay(*cmd.XRay)
	}
	if cmd.Wireframe != nil {
		d.store.SetWireframe(*cmd.Wireframe)
	}
	if cmd.Colors != nil {
		d.store.SetColorsVisible(*cmd.Colors)
	}
	switch cmd.ClipPlane {
	case "":
		// untouched
	case "off":
		d.store.SetClipPlane(state.PlaneNone, 0, false)
	case string(state.PlaneXY), string(state.PlaneYZ), string(state.PlaneXZ):
		d.store.SetClipPlane(state.PlaneAxis(cmd.ClipPlane), cmd.ClipOffset, cmd.ClipFlip)
	default:
		d.log.Warn("ignoring unknown clip plane", zap.String("plane", cmd.ClipPlane))
	}
	switch cmd.GridPlane {
	case "":
		// untouched
	case "off":
		d.store.SetGridPlane(state.PlaneNone)
	case string(state.PlaneXY), string(state.PlaneYZ), string(state.PlaneXZ):
		d.store.SetGridPlane(state.PlaneAxis(cmd.GridPlane))
	default:
		d.log.Warn("ignoring unknown grid plane", zap.String("plane", cmd.GridPlane))
	}
	if cmd.FitAll {
		d.views.FitToExtents()
	}
}
