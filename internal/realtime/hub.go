package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Party identifies one side of a conversation on the live channel.
type Party struct {
	Role string // "customer" or "merchant"
	ID   string
}

// Conn is the transport a subscription writes to. Send must not block
// indefinitely: implementations fail fast once their outbound budget is spent.
type Conn interface {
	Send(payload []byte) error
	Close(code int, reason string)
}

// Handle is one live subscription of a party to a room. A party may hold
// several handles at once (multiple devices/tabs).
type Handle struct {
	ID     string
	Party  Party
	RoomID uint64
	conn   Conn
}

// Hub tracks which parties are subscribed to which room's live channel.
// It is process-local and shared across all requests handled by this instance;
// in a multi-instance deployment push only reaches subscribers on the same
// instance while durable reads stay globally correct.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint64]map[string]*Handle // roomID -> handleID -> handle
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint64]map[string]*Handle)}
}

// Subscribe registers a live subscription. Repeated calls are not deduplicated.
func (h *Hub) Subscribe(p Party, roomID uint64, conn Conn) *Handle {
	handle := &Handle{
		ID:     uuid.NewString(),
		Party:  p,
		RoomID: roomID,
		conn:   conn,
	}

	h.mu.Lock()
	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]*Handle)
		h.rooms[roomID] = room
	}
	room[handle.ID] = handle
	h.mu.Unlock()

	return handle
}

// Unsubscribe removes a handle. It is a no-op if the handle is already gone.
func (h *Hub) Unsubscribe(handle *Handle) {
	if handle == nil {
		return
	}
	h.mu.Lock()
	h.removeLocked(handle)
	h.mu.Unlock()
}

// HandlesFor returns the active handles held by parties with the given role
// on the room. An empty result means that side is offline for push purposes.
func (h *Hub) HandlesFor(role string, roomID uint64) []*Handle {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Handle
	for _, handle := range h.rooms[roomID] {
		if handle.Party.Role == role {
			out = append(out, handle)
		}
	}
	return out
}

// Publish delivers payload to every handle of targetRole on the room,
// best-effort per handle. A handle whose transport rejects the write is
// dropped and closed; other handles are unaffected. Returns the number of
// successful deliveries.
func (h *Hub) Publish(roomID uint64, targetRole string, payload []byte) int {
	handles := h.HandlesFor(targetRole, roomID)

	delivered := 0
	for _, handle := range handles {
		if err := handle.conn.Send(payload); err != nil {
			h.Unsubscribe(handle)
			handle.conn.Close(closeGoingAway, "send failed")
			continue
		}
		delivered++
	}
	return delivered
}

// Close drops every subscription and closes the underlying transports.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Handle
	for _, room := range h.rooms {
		for _, handle := range room {
			all = append(all, handle)
		}
	}
	h.rooms = make(map[uint64]map[string]*Handle)
	h.mu.Unlock()

	for _, handle := range all {
		handle.conn.Close(closeShutdown, "hub shutdown")
	}
}

func (h *Hub) removeLocked(handle *Handle) {
	room := h.rooms[handle.RoomID]
	if room == nil {
		return
	}
	delete(room, handle.ID)
	if len(room) == 0 {
		delete(h.rooms, handle.RoomID)
	}
}

const (
	closeGoingAway = 1001
	closeShutdown  = 1001
)
