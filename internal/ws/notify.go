package ws

import (
	"encoding/json"
	"time"

	"hrcore/internal/usecase"

	"go.uber.org/zap"
)

type CatalogChangedEvent struct {
	Type      string `json:"type"`
	Entity    string `json:"entity"`
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes catalog changes to the hub.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifyCatalogChanged(evt usecase.CatalogEvent) {
	if n == nil || n.hub == nil {
		return
	}

	b, err := json.Marshal(CatalogChangedEvent{
		Type:      evt.Type,
		Entity:    evt.Entity,
		ID:        evt.ID,
		Name:      evt.Name,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.hub.logger.Warn("catalog event not encoded", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt.TenantID, b)
}
