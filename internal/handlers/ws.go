package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kensetsu-dev/kensetsu/internal/filters"
	"github.com/kensetsu-dev/kensetsu/internal/projects"
	"github.com/kensetsu-dev/kensetsu/internal/types"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// wsCommand is a client-driven edit of the live list session.
type wsCommand struct {
	Type    string               `json:"type"`
	Field   string               `json:"field,omitempty"`
	Value   string               `json:"value,omitempty"`
	Filters *types.SearchFilters `json:"filters,omitempty"`
	Sort    *types.SortParams    `json:"sort,omitempty"`
	Page    int                  `json:"page,omitempty"`
	Limit   int                  `json:"limit,omitempty"`
}

type snapshotFrame struct {
	Type  string            `json:"type"`
	State projects.Snapshot `json:"state"`
}

type errorFrame struct {
	Type        string            `json:"type"`
	Error       string            `json:"error"`
	FieldErrors validation.Errors `json:"field_errors,omitempty"`
}

// refreshHub tells every live session to refetch after a successful
// mutation elsewhere.
type refreshHub struct {
	mu      sync.Mutex
	clients map[chan struct{}]bool
}

func newRefreshHub() *refreshHub {
	return &refreshHub{clients: make(map[chan struct{}]bool)}
}

func (h *refreshHub) add(ch chan struct{}) {
	h.mu.Lock()
	h.clients[ch] = true
	h.mu.Unlock()
}

func (h *refreshHub) remove(ch chan struct{}) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *refreshHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
			// A pending refresh already covers this client.
		}
	}
}

// LiveProjects runs one list-view session over a websocket. Each connection
// owns its own data service instance; the client edits filters, sort and
// pagination through commands, and the server pushes a state snapshot on
// every change.
func (h *ProjectHandlers) LiveProjects(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	svc := projects.NewService(h.store, h.notifier)

	frames := make(chan interface{}, 16)
	sendFrame := func(frame interface{}) {
		select {
		case frames <- frame:
		default:
			log.Printf("Dropping websocket frame: client too slow")
		}
	}

	unsubscribe := svc.OnChange(func(snap projects.Snapshot) {
		sendFrame(snapshotFrame{Type: "snapshot", State: snap})
	})
	defer unsubscribe()

	refresh := make(chan struct{}, 1)
	h.hub.add(refresh)
	defer h.hub.remove(refresh)

	done := make(chan struct{})
	defer close(done)

	// Refresh-triggered fetches run off the write loop: a slow select must
	// not hold up ping frames or queued snapshots.
	go func() {
		for {
			select {
			case <-refresh:
				svc.FetchProjects(ctx)
			case <-done:
				return
			}
		}
	}()

	// The filter controller feeds the service: every field edit derives a
	// new filters value, which resets pagination and refetches.
	ctrl := filters.NewController(func(f types.SearchFilters) {
		if errs := validation.ValidateSearchFilters(f); !errs.Empty() {
			sendFrame(errorFrame{Type: "validation_error", Error: "Invalid search filters", FieldErrors: errs})
			return
		}
		svc.SetFilters(ctx, f)
	})

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case frame := <-frames:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					log.Printf("Failed to push frame: %v", err)
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	sendFrame(map[string]string{"type": "connected", "message": "Live project list established"})
	svc.FetchProjects(ctx)

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		switch cmd.Type {
		case "set_field":
			ctrl.SetField(cmd.Field, cmd.Value)
		case "set_filters":
			if cmd.Filters == nil {
				continue
			}
			f := filters.Normalize(*cmd.Filters)
			if errs := validation.ValidateSearchFilters(f); !errs.Empty() {
				sendFrame(errorFrame{Type: "validation_error", Error: "Invalid search filters", FieldErrors: errs})
				continue
			}
			svc.SetFilters(ctx, f)
		case "clear_filters":
			ctrl.Clear()
		case "set_sort":
			if cmd.Sort != nil {
				svc.SetSort(ctx, *cmd.Sort)
			}
		case "set_page":
			svc.SetPage(ctx, cmd.Page)
		case "set_limit":
			svc.SetLimit(ctx, cmd.Limit)
		case "refetch":
			svc.FetchProjects(ctx)
		default:
			// Unknown commands are ignored for forward compatibility.
		}
	}
}
