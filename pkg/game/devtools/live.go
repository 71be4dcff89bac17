package devtools

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is the JSON form of a session snapshot sent to live viewers.
type Frame struct {
	Phase         string     `json:"phase"`
	Floor         int64      `json:"floor"`
	Money         int64      `json:"money"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	Status        string     `json:"status"`
	CooldownRatio float64    `json:"cooldown_ratio"`
	Countdown     float64    `json:"countdown"`
	Elapsed       float64    `json:"elapsed"`
	Estimated     float64    `json:"estimated"`
	Progress      float64    `json:"progress"`
	Rooms         []roomView `json:"rooms"`
}

// FrameOf converts a snapshot; rooms are listed in coordinate order.
func FrameOf(snap gameplay.Snapshot) Frame {
	f := Frame{
		Phase:         snap.Phase.String(),
		Floor:         snap.Floor,
		Money:         snap.Money,
		X:             snap.Position.X,
		Y:             snap.Position.Y,
		Status:        snap.Status.String(),
		CooldownRatio: snap.CooldownRatio,
		Countdown:     snap.Countdown,
		Elapsed:       snap.Elapsed,
		Estimated:     snap.Estimated,
		Progress:      snap.Progress,
	}
	coords := make([]world.Coord, 0, len(snap.Rooms))
	for c := range snap.Rooms {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, func(a, b world.Coord) int { return a.Compare(b) })
	for _, c := range coords {
		f.Rooms = append(f.Rooms, roomView{X: c.X, Y: c.Y, Progress: snap.Rooms[c]})
	}
	return f
}

// Live fans frames out to websocket viewers. Slow viewers miss frames rather
// than holding up the simulation.
type Live struct {
	mu      sync.Mutex
	clients map[*liveClient]struct{}
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewLive returns a hub with no viewers.
func NewLive() *Live {
	return &Live{clients: make(map[*liveClient]struct{})}
}

// Clients returns the number of connected viewers.
func (l *Live) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Publish sends v as JSON to every viewer. It never blocks.
func (l *Live) Publish(v any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.clients) == 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.WithError(err).Warn("live frame not encodable")
		return
	}
	for c := range l.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ServeHTTP upgrades the request and streams frames until the viewer leaves.
func (l *Live) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("live upgrade failed")
		return
	}

	c := &liveClient{conn: conn, send: make(chan []byte, sendBuffer)}
	l.mu.Lock()
	l.clients[c] = struct{}{}
	l.mu.Unlock()
	logger.Log.WithField("remote", r.RemoteAddr).Info("live viewer connected")

	go c.writePump()
	c.readPump()

	l.mu.Lock()
	delete(l.clients, c)
	close(c.send)
	l.mu.Unlock()
	logger.Log.WithField("remote", r.RemoteAddr).Info("live viewer disconnected")
}

// readPump discards whatever the viewer sends and returns once it goes away.
func (c *liveClient) readPump() {
	c.conn.SetReadLimit(512)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Debug("live viewer read failed")
			}
			return
		}
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close live connection")
		}
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Log.WithError(err).Debug("live write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
