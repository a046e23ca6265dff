package controller

import (
	"sync"
	"time"

	"coldcommand/middleware"
	"coldcommand/sequencer"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// SequenceEvent is pushed to every editor of a campaign after a save.
type SequenceEvent struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaign_id"`
	Version    int    `json:"version"`
}

const (
	// editorBuffer is how many events an editor may fall behind before it is dropped
	editorBuffer    = 16
	editorWriteWait = 10 * time.Second
)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// editor owns the only goroutine allowed to write to its connection.
type editor struct {
	conn Conn
	send chan SequenceEvent
	done chan struct{}
}

// SequenceHub tracks open sequence editors per campaign.
type SequenceHub struct {
	mu      sync.Mutex
	clients map[string]map[Conn]*editor
	log     *logrus.Entry
}

func NewSequenceHub(log *logrus.Entry) *SequenceHub {
	if log == nil {
		log = utils.Component("sequence_ws")
	}
	return &SequenceHub{
		clients: make(map[string]map[Conn]*editor),
		log:     log,
	}
}

func (h *SequenceHub) Register(campaignID string, conn Conn) {
	h.register(campaignID, conn, nil)
}

// register queues first ahead of any broadcast so a new editor never sees
// an update before its initial state.
func (h *SequenceHub) register(campaignID string, conn Conn, first *SequenceEvent) *editor {
	e := &editor{
		conn: conn,
		send: make(chan SequenceEvent, editorBuffer),
		done: make(chan struct{}),
	}
	if first != nil {
		e.send <- *first
	}

	h.mu.Lock()
	if h.clients[campaignID] == nil {
		h.clients[campaignID] = make(map[Conn]*editor)
	}
	if old, ok := h.clients[campaignID][conn]; ok {
		close(old.send)
	}
	h.clients[campaignID][conn] = e
	h.mu.Unlock()

	go h.writeLoop(campaignID, e)
	return e
}

func (h *SequenceHub) Unregister(campaignID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(campaignID, conn)
}

// remove must be called with h.mu held.
func (h *SequenceHub) remove(campaignID string, conn Conn) {
	e, ok := h.clients[campaignID][conn]
	if !ok {
		return
	}
	close(e.send)
	delete(h.clients[campaignID], conn)
	if len(h.clients[campaignID]) == 0 {
		delete(h.clients, campaignID)
	}
}

// Count returns the number of editors connected to a campaign.
func (h *SequenceHub) Count(campaignID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[campaignID])
}

// Broadcast tells every editor of campaignID that version is now current.
// It never waits on a connection; an editor whose buffer is full is dropped.
func (h *SequenceHub) Broadcast(campaignID string, version int) {
	event := SequenceEvent{Type: "sequence_updated", CampaignID: campaignID, Version: version}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, e := range h.clients[campaignID] {
		select {
		case e.send <- event:
		default:
			h.log.WithField("campaign_id", campaignID).Debug("Dropping slow editor connection")
			h.remove(campaignID, conn)
		}
	}
}

func (h *SequenceHub) writeLoop(campaignID string, e *editor) {
	defer close(e.done)
	for event := range e.send {
		if d, ok := e.conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(editorWriteWait))
		}
		if err := e.conn.WriteJSON(event); err != nil {
			h.log.WithError(err).WithField("campaign_id", campaignID).Debug("Dropping editor connection")
			h.mu.Lock()
			if h.clients[campaignID][e.conn] == e {
				h.remove(campaignID, e.conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// UpgradeSequenceSocket checks ownership before the websocket handshake.
func UpgradeSequenceSocket(manager *sequencer.Manager, log *logrus.Entry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		seq, err := manager.ListSteps(c.UserContext(), middleware.OrgID(c), c.Params("id"))
		if err != nil {
			return respondError(c, log, err)
		}
		c.Locals("campaignID", seq.CampaignID)
		c.Locals("version", seq.Version)
		return c.Next()
	}
}

// HandleSequenceSocket keeps an editor subscribed until the client disconnects.
func (h *SequenceHub) HandleSequenceSocket() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		defer c.Close()

		campaignID, _ := c.Locals("campaignID").(string)
		version, _ := c.Locals("version").(int)

		e := h.register(campaignID, c, &SequenceEvent{Type: "sequence_state", CampaignID: campaignID, Version: version})
		defer func() {
			h.Unregister(campaignID, c)
			// the connection is recycled once this handler returns
			<-e.done
		}()

		for {
			// clients only listen; reading detects the close
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
