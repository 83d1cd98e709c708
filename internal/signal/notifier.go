package signal

import (
	"log/slog"

	"github.com/srs-rtc/signal-server/internal/registry"
	"github.com/srs-rtc/signal-server/pkg/protocol"
	"go.uber.org/fx"
)

// Notifier fans events out to one peer, to the other members of a room, or
// to an entire endpoint class. Delivery is fire-and-forget: a failed write
// is logged and dropped, ordering is only per-connection FIFO.
type Notifier struct {
	logger *slog.Logger
}

func (n *Notifier) Unicast(peer *registry.Peer, event string, payload any) {
	if err := peer.Notify(event, payload); err != nil {
		n.logger.Debug("notify failed",
			slog.String("event", event),
			slog.String("userId", peer.Info.UserID),
			slog.String("err", err.Error()))
	}
}

func (n *Notifier) MulticastRoom(rooms *registry.RoomRegistry, roomID protocol.RoomID, excluding *registry.Peer, event string, payload any) {
	for _, member := range rooms.Members(roomID, excluding) {
		n.Unicast(member, event, payload)
	}
}

func (n *Notifier) BroadcastClass(class *registry.IdentityRegistry, event string, payload any) {
	for _, peer := range class.Peers() {
		n.Unicast(peer, event, payload)
	}
}

type NewNotifierParams struct {
	fx.In

	Logger *slog.Logger
}

func NewNotifier(params NewNotifierParams) *Notifier {
	return &Notifier{logger: params.Logger}
}
