package identity

import (
	"github.com/l1jgo/idreg/internal/core/ecs"
	"github.com/l1jgo/idreg/internal/scene"
)

// Resolver answers read-only queries over a Registry.
//
// Single-result lookups run as an ordered list of passes. Each pass walks the
// General records in registration order and keeps those its filter accepts;
// the first record whose owner satisfies the query wins, and later passes
// only run when an earlier one found nothing. Dead owners are always skipped.
// Set lookups (FindAll and friends) read General only, except
// FindPersistentExcludingPlayer which also reads UIRetained.
type Resolver struct {
	reg *Registry
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// filter decides whether a live record takes part in a pass.
type filter func(e *entry) bool

func anyRecord(*entry) bool { return true }

func (r *Resolver) persistentOrCurrent(e *entry) bool {
	m := r.reg.members
	return m.IsPersistent(e.ident.Owner) || m.SceneOf(e.ident.Owner) == m.CurrentScene()
}

func (r *Resolver) inScene(h scene.Handle) filter {
	return func(e *entry) bool {
		return r.reg.members.SceneOf(e.ident.Owner) == h
	}
}

// authoritativePasses prefers persistent and current-scene owners while more
// than one scene is open.
func (r *Resolver) authoritativePasses(prefer bool) []filter {
	if prefer && r.reg.members.SubScenesOpen() {
		return []filter{r.persistentOrCurrent, anyRecord}
	}
	return []filter{anyRecord}
}

func (r *Resolver) scenePasses(h scene.Handle, sceneOnlyWins bool) []filter {
	if sceneOnlyWins {
		return []filter{r.inScene(h), anyRecord}
	}
	return []filter{anyRecord}
}

// resolve runs passes over General in order and returns the first record
// matching id for which accept returns true. UIRetained records are tried
// last, unfiltered, so retained UI stays addressable after its owner's
// General lifecycle has ended.
func (r *Resolver) resolve(id int32, accept func(*entry) bool, passes []filter) *entry {
	for _, pass := range passes {
		if e := r.scan(&r.reg.general, id, pass, accept); e != nil {
			return e
		}
	}
	return r.scan(&r.reg.retained, id, anyRecord, accept)
}

func (r *Resolver) scan(p *partition, id int32, pass filter, accept func(*entry) bool) *entry {
	for _, e := range p.entries {
		if e.ident.ID != id || !r.reg.objects.Alive(e.ident.Owner) {
			continue
		}
		if pass(e) && accept(e) {
			return e
		}
	}
	return nil
}

func (r *Resolver) record(e *entry) Record {
	owner := e.ident.Owner
	return Record{
		Identity:   e.ident,
		Scene:      r.reg.members.SceneOf(owner),
		Category:   e.category,
		Persistent: r.reg.members.IsPersistent(owner),
	}
}

// FindIdentity returns the first live record with the given id. With
// preferAuthoritative and several scenes open, persistent and current-scene
// owners win over the rest.
func (r *Resolver) FindIdentity(id int32, preferAuthoritative bool) (Record, bool) {
	e := r.resolve(id, anyRecord, r.authoritativePasses(preferAuthoritative))
	if e == nil {
		return Record{}, false
	}
	return r.record(e), true
}

// FindIdentityInScene returns a record for id qualified by scene. With
// sceneOnlyWins, records in the given scene win over the rest. With a single
// scene open the scene is ignored.
func (r *Resolver) FindIdentityInScene(id int32, h scene.Handle, sceneOnlyWins bool) (Record, bool) {
	if !r.reg.members.SubScenesOpen() {
		return r.FindIdentity(id, true)
	}
	e := r.resolve(id, anyRecord, r.scenePasses(h, sceneOnlyWins))
	if e == nil {
		return Record{}, false
	}
	return r.record(e), true
}

// firstOf returns an accept func that captures the first T component of an owner.
func firstOf[T any](objects Objects, out *T) func(*entry) bool {
	return func(e *entry) bool {
		for _, c := range objects.Components(e.ident.Owner) {
			if t, ok := c.(T); ok {
				*out = t
				return true
			}
		}
		return false
	}
}

// FindOne returns the first component implementing T on an owner registered
// under id. See FindIdentity for the preferAuthoritative policy.
func FindOne[T any](r *Resolver, id int32, preferAuthoritative bool) (T, bool) {
	var found T
	e := r.resolve(id, firstOf(r.reg.objects, &found), r.authoritativePasses(preferAuthoritative))
	return found, e != nil
}

// FindOneInScene is FindOne qualified by scene. See FindIdentityInScene.
func FindOneInScene[T any](r *Resolver, id int32, h scene.Handle, sceneOnlyWins bool) (T, bool) {
	if !r.reg.members.SubScenesOpen() {
		return FindOne[T](r, id, true)
	}
	var found T
	e := r.resolve(id, firstOf(r.reg.objects, &found), r.scenePasses(h, sceneOnlyWins))
	return found, e != nil
}

// componentSet collects T components once per owner slot.
type componentSet[T any] struct {
	seen map[slot]struct{}
	out  []T
}

type slot struct {
	owner ecs.EntityID
	index int
}

func newComponentSet[T any]() *componentSet[T] {
	return &componentSet[T]{seen: make(map[slot]struct{})}
}

func (s *componentSet[T]) collect(objects Objects, owner ecs.EntityID) {
	for i, c := range objects.Components(owner) {
		t, ok := c.(T)
		if !ok {
			continue
		}
		k := slot{owner: owner, index: i}
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.out = append(s.out, t)
	}
}

// collect gathers T components from every live record in p that keep accepts.
func collect[T any](r *Resolver, p *partition, set *componentSet[T], keep func(*entry) bool) {
	for _, e := range p.entries {
		if !r.reg.objects.Alive(e.ident.Owner) || !keep(e) {
			continue
		}
		set.collect(r.reg.objects, e.ident.Owner)
	}
}

// FindAll returns every component implementing T on every General owner
// registered under id. Each component appears once; order is unspecified.
func FindAll[T any](r *Resolver, id int32) []T {
	set := newComponentSet[T]()
	collect(r, &r.reg.general, set, func(e *entry) bool { return e.ident.ID == id })
	return set.out
}

// FindAllInScene is FindAll restricted to owners in the given scene. With a
// single scene open the scene is ignored.
func FindAllInScene[T any](r *Resolver, id int32, h scene.Handle) []T {
	if !r.reg.members.SubScenesOpen() {
		return FindAll[T](r, id)
	}
	in := r.inScene(h)
	set := newComponentSet[T]()
	collect(r, &r.reg.general, set, func(e *entry) bool { return e.ident.ID == id && in(e) })
	return set.out
}

// FindAllByScene returns every component implementing T on every General
// owner in the given scene, whatever its id.
func FindAllByScene[T any](r *Resolver, h scene.Handle) []T {
	set := newComponentSet[T]()
	collect(r, &r.reg.general, set, r.inScene(h))
	return set.out
}

// FindPersistentExcludingPlayer returns T components of persistent General
// owners that are not player-owned, plus T components of every UIRetained
// owner regardless of player ownership.
func FindPersistentExcludingPlayer[T any](r *Resolver) []T {
	m := r.reg.members
	set := newComponentSet[T]()
	collect(r, &r.reg.general, set, func(e *entry) bool {
		return m.IsPersistent(e.ident.Owner) && !m.IsPlayerOwned(e.ident.Owner)
	})
	collect(r, &r.reg.retained, set, anyRecord)
	return set.out
}
