package registry

import (
	"github.com/google/uuid"
	"github.com/srs-rtc/signal-server/pkg/protocol"
)

// CallStatus is the per-peer position in the negotiation state machine.
type CallStatus int

const (
	// CallStatusIdle means not engaged in any call attempt.
	CallStatusIdle CallStatus = 1
	// CallStatusDialing means the peer has joined a room and negotiates in it.
	CallStatusDialing CallStatus = 2
	// CallStatusCalling means the peer was notified of an incoming invite and
	// is deciding; it has not joined the room yet.
	CallStatusCalling CallStatus = 3
)

// Sender is the transport half of a connection. Delivery is fire-and-forget;
// a failed write is the transport's problem, not the engine's.
type Sender interface {
	Notify(event string, payload any) error
	Close() error
}

// Peer is one live signaling connection bound to exactly one identity. The
// identity and sender are immutable; call state is owned by the negotiation
// engine and mutated only under its lock.
type Peer struct {
	ID     string
	Info   protocol.UserInfo
	sender Sender

	callStatus      CallStatus
	currentCallRoom protocol.RoomID
}

func NewPeer(info protocol.UserInfo, sender Sender) *Peer {
	return &Peer{
		ID:         uuid.NewString(),
		Info:       info,
		sender:     sender,
		callStatus: CallStatusIdle,
	}
}

func (p *Peer) Status() CallStatus { return p.callStatus }

func (p *Peer) Idle() bool { return p.callStatus == CallStatusIdle }

// SetStatus transitions the peer; entering idle always drops the room
// reference so idle peers never point at a room.
func (p *Peer) SetStatus(status CallStatus) {
	if status == CallStatusIdle {
		p.currentCallRoom = ""
	}
	p.callStatus = status
}

func (p *Peer) Room() protocol.RoomID { return p.currentCallRoom }

func (p *Peer) SetRoom(roomID protocol.RoomID) { p.currentCallRoom = roomID }

func (p *Peer) Notify(event string, payload any) error {
	return p.sender.Notify(event, payload)
}

func (p *Peer) Close() error {
	return p.sender.Close()
}
