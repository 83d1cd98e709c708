package registry

import (
	"sync"

	"github.com/srs-rtc/signal-server/pkg/protocol"
)

type identityKey struct {
	userID   string
	userType protocol.UserType
}

// IdentityRegistry is the directory of currently connected peers for one
// endpoint class. It holds at most one peer per identity.
type IdentityRegistry struct {
	mu    sync.Mutex
	peers map[identityKey]*Peer
}

func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{
		peers: make(map[identityKey]*Peer),
	}
}

func keyOf(info protocol.UserInfo) identityKey {
	return identityKey{userID: info.UserID, userType: info.UserType}
}

// Register makes peer the authoritative connection for its identity and
// returns the previously registered peer, if any. The caller owns evicting
// the returned peer (forced-offline notice, then close).
func (r *IdentityRegistry) Register(peer *Peer) (evicted *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(peer.Info)
	evicted = r.peers[key]
	r.peers[key] = peer
	return evicted
}

func (r *IdentityRegistry) Lookup(userID string, userType protocol.UserType) *Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peers[identityKey{userID: userID, userType: userType}]
}

// Unregister removes the entry only while it still points at this exact
// peer, so teardown of an evicted connection cannot drop its successor.
func (r *IdentityRegistry) Unregister(peer *Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(peer.Info)
	if current, exist := r.peers[key]; !exist || current != peer {
		return false
	}
	delete(r.peers, key)
	return true
}

// Peers returns a snapshot of every registered peer.
func (r *IdentityRegistry) Peers() []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Peer, 0, len(r.peers))
	for _, peer := range r.peers {
		result = append(result, peer)
	}
	return result
}

func (r *IdentityRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}
