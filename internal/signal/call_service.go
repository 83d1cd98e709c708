package signal

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/srs-rtc/signal-server/internal/registry"
	"github.com/srs-rtc/signal-server/pkg/protocol"
	"github.com/srs-rtc/signal-server/pkg/variables"
	"go.uber.org/fx"
)

const roomPrefix = "srs_rtc_"

func newRoomID() protocol.RoomID {
	return fmt.Sprintf("%s%s", roomPrefix, uuid.NewString())
}

// CallService is the call negotiation engine. One mutex serializes every
// operation that reads or mutates the registries and peer call state, so
// check-then-act sequences stay atomic across interleaved connections.
// Authentication lookups run in the gateway before any lock is taken.
type CallService struct {
	mu sync.Mutex

	clients        *registry.IdentityRegistry
	administrators *registry.IdentityRegistry
	rooms          *registry.RoomRegistry

	notifier *Notifier
	logger   *slog.Logger
}

func newCallService(logger *slog.Logger, notifier *Notifier, maxClientsInRoom int) *CallService {
	return &CallService{
		clients:        registry.NewIdentityRegistry(),
		administrators: registry.NewIdentityRegistry(),
		rooms:          registry.NewRoomRegistry(maxClientsInRoom),
		notifier:       notifier,
		logger:         logger,
	}
}

type NewCallServiceParams struct {
	fx.In

	Logger   *slog.Logger
	Notifier *Notifier
}

func NewCallService(params NewCallServiceParams) *CallService {
	return newCallService(
		params.Logger,
		params.Notifier,
		variables.EnvInt(variables.MAX_CLIENTS_IN_ROOM_NAME, variables.MAX_CLIENTS_IN_ROOM_DEFAULT),
	)
}

// RegisterClient admits a client connection: single-sign-on eviction of any
// previous connection for the same identity, then an online notice to every
// administrator. The evicted peer's room state is cleaned up by its own
// transport teardown once the forced close lands.
func (s *CallService) RegisterClient(peer *registry.Peer) {
	if evicted := s.clients.Register(peer); evicted != nil {
		s.logger.Info("single-sign-on eviction",
			slog.String("userId", peer.Info.UserID),
			slog.String("userType", peer.Info.UserType.String()))
		s.notifier.Unicast(evicted, protocol.NotifyForcedOffline, nil)
		evicted.Close()
	}
	s.notifier.BroadcastClass(s.administrators, protocol.NotifyClientOnline, peer.Info)
}

func (s *CallService) RegisterAdministrator(peer *registry.Peer) {
	if evicted := s.administrators.Register(peer); evicted != nil {
		s.logger.Info("single-sign-on eviction",
			slog.String("userId", peer.Info.UserID),
			slog.String("userType", peer.Info.UserType.String()))
		s.notifier.Unicast(evicted, protocol.NotifyForcedOffline, nil)
		evicted.Close()
	}
}

// DisconnectClient is the unconditional teardown for a client connection:
// leave any occupied room first, then unregister and tell administrators.
// Safe to call more than once.
func (s *CallService) DisconnectClient(peer *registry.Peer) {
	s.HangUp(peer)
	s.clients.Unregister(peer)
	s.notifier.BroadcastClass(s.administrators, protocol.NotifyClientOffline, peer.Info)
}

func (s *CallService) DisconnectAdministrator(peer *registry.Peer) {
	s.administrators.Unregister(peer)
}

// InviteOne starts a one-to-one negotiation. The caller joins a fresh room
// before the invitee is notified, so an accept racing in right after the
// notice always finds a valid room.
func (s *CallService) InviteOne(caller *registry.Peer, targetUserID string) (*protocol.InviteSomeoneData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !caller.Idle() {
		return nil, ErrCallerBusy
	}
	target := s.clients.Lookup(targetUserID, protocol.UserTypeClient)
	if target == nil {
		return nil, ErrInviteeOffline
	}
	// Inviting yourself never makes sense.
	if target == caller {
		return nil, ErrInviteeBusy
	}
	if !target.Idle() {
		return nil, ErrInviteeBusy
	}

	roomID := newRoomID()
	if !s.joinRoomLocked(caller, roomID) {
		return nil, ErrRoomFull
	}

	target.SetStatus(registry.CallStatusCalling)
	s.notifier.Unicast(target, protocol.NotifyRequestCall, protocol.RequestCallData{
		InviteInfo: caller.Info,
		RoomID:     roomID,
	})

	return &protocol.InviteSomeoneData{InviteeInfo: target.Info, RoomID: roomID}, nil
}

// InviteMany starts a group negotiation. Targets are classified as callable,
// busy, or offline/absent; collection of callable targets stops one short of
// the room capacity because the inviter occupies a slot itself.
func (s *CallService) InviteMany(caller *registry.Peer, targetUserIDs []string) (*protocol.InviteSomePeopleData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !caller.Idle() {
		return nil, ErrCallerBusy
	}
	if len(targetUserIDs) == 0 {
		return nil, ErrEmptyInviteList
	}

	var callable []*registry.Peer
	callList := make([]protocol.UserInfo, 0, len(targetUserIDs))
	busyList := make([]protocol.UserInfo, 0)
	offlineOrNotExists := make([]protocol.UserInfo, 0)

	for _, userID := range targetUserIDs {
		if len(callable) >= s.rooms.MaxClientsInRoom()-1 {
			break
		}
		target := s.clients.Lookup(userID, protocol.UserTypeClient)
		switch {
		case target == nil:
			offlineOrNotExists = append(offlineOrNotExists, protocol.UserInfo{UserID: userID})
		case target == caller:
			// inviting yourself never makes sense
		case target.Idle():
			callable = append(callable, target)
			callList = append(callList, target.Info)
		default:
			busyList = append(busyList, target.Info)
		}
	}

	if len(callable) == 0 {
		return nil, ErrNoViableInvitee
	}

	roomID := newRoomID()
	if !s.joinRoomLocked(caller, roomID) {
		return nil, ErrRoomFull
	}

	inviteeData := protocol.RequestCallData{
		InviteInfo: caller.Info,
		CallList:   callList,
		RoomID:     roomID,
	}
	for _, target := range callable {
		target.SetStatus(registry.CallStatusCalling)
		s.notifier.Unicast(target, protocol.NotifyRequestCall, inviteeData)
	}

	return &protocol.InviteSomePeopleData{
		CallList:           callList,
		BusyList:           busyList,
		OfflineOrNotExists: offlineOrNotExists,
		RoomID:             roomID,
	}, nil
}

// AcceptCall joins the callee into the negotiated room and tells the peers
// already there.
func (s *CallService) AcceptCall(callee *registry.Peer, roomID protocol.RoomID) error {
	if roomID == "" {
		return ErrMissingRoomID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A peer occupies one room at a time; accepting while joined would
	// leave a ghost member behind when its room pointer moves on.
	if callee.Room() != "" {
		return ErrAlreadyInRoom
	}
	if !s.joinRoomLocked(callee, roomID) {
		return ErrRoomFull
	}
	return nil
}

// RejectCall declines a pending invite. The rejecter never joined the room,
// so only the room's members are notified and the rejecter goes back to
// idle; membership is untouched. A member of the room cannot reject it —
// leaving is HangUp's job.
func (s *CallService) RejectCall(callee *registry.Peer, roomID protocol.RoomID) error {
	if roomID == "" {
		return ErrMissingRoomID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if callee.Room() == roomID {
		return ErrAlreadyInRoom
	}

	s.notifier.MulticastRoom(s.rooms, roomID, nil, protocol.NotifyRejectCall, protocol.RoomMemberData{
		UserInfo: callee.Info,
		RoomID:   roomID,
	})
	// Only a pending invite resets the rejecter; a peer dialing in its own
	// room keeps that call.
	if callee.Status() == registry.CallStatusCalling {
		callee.SetStatus(registry.CallStatusIdle)
	}
	return nil
}

// HangUp removes the peer from its current room and resets it to idle. When
// a single member remains the call is over for it too: it is reset and the
// room is deleted. Calling HangUp on an idle peer is a no-op.
func (s *CallService) HangUp(peer *registry.Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hangUpLocked(peer)
}

func (s *CallService) hangUpLocked(peer *registry.Peer) {
	roomID := peer.Room()
	if roomID != "" {
		s.rooms.RemoveMember(roomID, peer)
		remaining := s.rooms.Members(roomID, nil)
		for _, member := range remaining {
			s.notifier.Unicast(member, protocol.NotifyLeaveRoom, protocol.RoomMemberData{
				UserInfo: peer.Info,
				RoomID:   roomID,
			})
		}
		if len(remaining) == 1 {
			lone := remaining[0]
			s.rooms.RemoveMember(roomID, lone)
			lone.SetStatus(registry.CallStatusIdle)
		}
	}
	peer.SetStatus(registry.CallStatusIdle)
}

// PublishStream announces that the peer's media is available; the other
// members are told to start playing. Call statuses are left as they are.
func (s *CallService) PublishStream(peer *registry.Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID := peer.Room()
	if roomID == "" {
		return
	}
	s.notifier.MulticastRoom(s.rooms, roomID, peer, protocol.NotifyPlayStream, protocol.RoomMemberData{
		UserInfo: peer.Info,
		RoomID:   roomID,
	})
}

// joinRoomLocked is the single join path shared by invites and accepts:
// atomic capacity check and insert, state transition to dialing, then a join
// notice to the peers already in the room.
func (s *CallService) joinRoomLocked(peer *registry.Peer, roomID protocol.RoomID) bool {
	if !s.rooms.AddMember(roomID, peer) {
		return false
	}
	peer.SetStatus(registry.CallStatusDialing)
	peer.SetRoom(roomID)
	s.notifier.MulticastRoom(s.rooms, roomID, peer, protocol.NotifyJoinRoom, protocol.RoomMemberData{
		UserInfo: peer.Info,
		RoomID:   roomID,
	})
	return true
}
