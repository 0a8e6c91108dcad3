package identity

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/scene"
	"go.uber.org/zap"
)

type key struct {
	owner ecs.EntityID
	id    int32
}

func keyOf(ident *Identity) key { return key{owner: ident.Owner, id: ident.ID} }

type entry struct {
	ident    *Identity
	category Category
	scene    scene.Handle // last known; refreshed on scene unload
}

// partition keeps entries in registration order.
type partition struct {
	entries []*entry
	index   map[key]*entry
}

func newPartition(capacity int) partition {
	return partition{
		entries: make([]*entry, 0, capacity),
		index:   make(map[key]*entry, capacity),
	}
}

func (p *partition) has(k key) bool {
	_, ok := p.index[k]
	return ok
}

func (p *partition) add(e *entry) {
	p.entries = append(p.entries, e)
	p.index[keyOf(e.ident)] = e
}

func (p *partition) remove(k key) bool {
	e, ok := p.index[k]
	if !ok {
		return false
	}
	delete(p.index, k)
	for i, x := range p.entries {
		if x == e {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			break
		}
	}
	return true
}

func (p *partition) reset() {
	clear(p.index)
	clear(p.entries)
	p.entries = p.entries[:0]
}

// Registry holds the General and UIRetained partitions.
// Single-goroutine access only (game loop). Callers that register from more
// than one goroutine must serialize Register, Unregister and every query.
type Registry struct {
	general  partition
	retained partition
	members  Membership
	objects  Objects
	log      *zap.Logger
}

func NewRegistry(members Membership, objects Objects, log *zap.Logger, capacity int) *Registry {
	if capacity <= 0 {
		capacity = 64
	}
	return &Registry{
		general:  newPartition(capacity),
		retained: newPartition(capacity / 4),
		members:  members,
		objects:  objects,
		log:      log,
	}
}

// Register files the identity under UIRetained when its owner records its
// own state and sits under a persistent UI container, and under General
// otherwise. Registering the same owner and id again is a no-op. Nil
// identities and dead owners are ignored.
func (r *Registry) Register(ident *Identity) {
	if ident == nil || !r.objects.Alive(ident.Owner) {
		return
	}
	k := keyOf(ident)
	if r.retained.has(k) {
		return
	}
	if r.members.HasRecordingCapability(ident.Owner) && r.members.RootIsPersistentUIContainer(ident.Owner) {
		r.general.remove(k)
		r.retained.add(&entry{ident: ident, category: UIRetained, scene: r.members.SceneOf(ident.Owner)})
		r.log.Debug("identity retained", zap.Int32("id", ident.ID), zap.Stringer("owner", ident.Owner))
		return
	}
	if r.general.has(k) {
		return
	}
	r.general.add(&entry{ident: ident, category: General, scene: r.members.SceneOf(ident.Owner)})
	r.log.Debug("identity registered", zap.Int32("id", ident.ID), zap.Stringer("owner", ident.Owner))
}

// Unregister removes a General identity. UIRetained identities stay until
// Reset; unknown identities are ignored.
func (r *Registry) Unregister(ident *Identity) {
	if ident == nil {
		return
	}
	k := keyOf(ident)
	if r.retained.has(k) {
		return
	}
	if r.general.remove(k) {
		r.log.Debug("identity unregistered", zap.Int32("id", ident.ID), zap.Stringer("owner", ident.Owner))
	}
}

// DropScene removes General records that belonged to an unloaded scene.
// Owners that moved to the Persistent scene stay registered under their new
// scene. Returns the number of records removed.
func (r *Registry) DropScene(h scene.Handle) int {
	var drop []key
	for _, e := range r.general.entries {
		live := r.members.SceneOf(e.ident.Owner)
		if e.scene != h && live != h {
			if live != scene.None {
				e.scene = live
			}
			continue
		}
		if r.objects.Alive(e.ident.Owner) && r.members.IsPersistent(e.ident.Owner) {
			e.scene = live
			continue
		}
		drop = append(drop, keyOf(e.ident))
	}
	for _, k := range drop {
		r.general.remove(k)
	}
	if len(drop) > 0 {
		r.log.Debug("scene identities dropped", zap.Int32("scene", int32(h)), zap.Int("count", len(drop)))
	}
	return len(drop)
}

// Reset clears both partitions. Called on world teardown.
func (r *Registry) Reset() {
	n := len(r.general.entries) + len(r.retained.entries)
	r.general.reset()
	r.retained.reset()
	r.log.Debug("identity registry reset", zap.Int("cleared", n))
}

// Len returns the number of General records.
func (r *Registry) Len() int { return len(r.general.entries) }

// RetainedLen returns the number of UIRetained records.
func (r *Registry) RetainedLen() int { return len(r.retained.entries) }

// OwnedBy returns the General identities registered for owner, in
// registration order. Works for owners that are no longer alive.
func (r *Registry) OwnedBy(owner ecs.EntityID) []*Identity {
	var out []*Identity
	for _, e := range r.general.entries {
		if e.ident.Owner == owner {
			out = append(out, e.ident)
		}
	}
	return out
}

// CategoryOf reports which partition holds the identity.
func (r *Registry) CategoryOf(ident *Identity) (Category, bool) {
	if ident == nil {
		return General, false
	}
	k := keyOf(ident)
	if r.retained.has(k) {
		return UIRetained, true
	}
	if r.general.has(k) {
		return General, true
	}
	return General, false
}
