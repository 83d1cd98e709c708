package registry

import (
	"sync"

	"github.com/srs-rtc/signal-server/pkg/protocol"
)

// RoomRegistry maps room ids to their bounded member sets. Rooms are created
// lazily on the first successful join and removed the moment they turn empty.
type RoomRegistry struct {
	mu         sync.Mutex
	maxClients int
	rooms      map[protocol.RoomID]map[*Peer]struct{}
}

func NewRoomRegistry(maxClientsInRoom int) *RoomRegistry {
	return &RoomRegistry{
		maxClients: maxClientsInRoom,
		rooms:      make(map[protocol.RoomID]map[*Peer]struct{}),
	}
}

func (r *RoomRegistry) MaxClientsInRoom() int { return r.maxClients }

// CanAdmit reports whether a join for roomID could currently succeed. An
// absent room admits (it would be created by the join).
func (r *RoomRegistry) CanAdmit(roomID protocol.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canAdmitLocked(roomID)
}

func (r *RoomRegistry) canAdmitLocked(roomID protocol.RoomID) bool {
	members, exist := r.rooms[roomID]
	return !exist || len(members) < r.maxClients
}

// AddMember re-checks capacity and inserts in one atomic step. Two joins
// racing for the last slot cannot both succeed.
func (r *RoomRegistry) AddMember(roomID protocol.RoomID, peer *Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canAdmitLocked(roomID) {
		return false
	}
	members, exist := r.rooms[roomID]
	if !exist {
		members = make(map[*Peer]struct{})
		r.rooms[roomID] = members
	}
	members[peer] = struct{}{}
	return true
}

// RemoveMember drops the peer; an emptied room is deleted immediately.
func (r *RoomRegistry) RemoveMember(roomID protocol.RoomID, peer *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, exist := r.rooms[roomID]
	if !exist {
		return
	}
	delete(members, peer)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// Members returns a snapshot of the room's member set, excluding the given
// peer when non-nil.
func (r *RoomRegistry) Members(roomID protocol.RoomID, excluding *Peer) []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, exist := r.rooms[roomID]
	if !exist {
		return nil
	}
	result := make([]*Peer, 0, len(members))
	for peer := range members {
		if peer == excluding {
			continue
		}
		result = append(result, peer)
	}
	return result
}

func (r *RoomRegistry) MemberCount(roomID protocol.RoomID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}

func (r *RoomRegistry) RoomExists(roomID protocol.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exist := r.rooms[roomID]
	return exist
}
