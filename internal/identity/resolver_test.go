package identity

import (
	"testing"

	"github.com/l1jgo/idreg/internal/scene"
	"github.com/stretchr/testify/require"
)

// === FindOne ===

func TestFindOne_PersistentWinsPassOne(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	persistentIdent, persistentMarker := f.register(a, 0, 0, 7, "a-persistent")
	f.scenes.DontDestroyOnLoad(persistentIdent.Owner)
	_, bMarker := f.register(b, 0, 0, 7, "b-local")

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, persistentMarker, got)

	got, ok = FindOneInScene[named](f.res, 7, b, true)
	require.True(t, ok)
	require.Same(t, bMarker, got)
}

func TestFindOne_CurrentSceneBeatsEarlierRegistration(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	_, aMarker := f.register(a, 0, 0, 7, "in-a")
	_, bMarker := f.register(b, 0, 0, 7, "in-b")

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, bMarker, got, "current scene b passes the first pass")

	got, ok = FindOne[named](f.res, 7, false)
	require.True(t, ok)
	require.Same(t, aMarker, got, "without preference registration order wins")
}

func TestFindOne_FallsBackWhenNoAuthoritativeMatch(t *testing.T) {
	f := newFixture()
	a, _ := f.twoScenes()
	_, aMarker := f.register(a, 0, 0, 7, "in-a")

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, aMarker, got)
}

func TestFindOne_SingleSceneIgnoresPreference(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	_, first := f.register(a, 0, 0, 7, "first")
	f.register(a, 0, 0, 7, "second")

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, first, got)
}

func TestFindOne_SkipsOwnersWithoutCapability(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	bare := f.scenes.Spawn(a, 0, 0, &unrelated{})
	bareIdent := &Identity{ID: 7, Owner: bare}
	f.world.Attach(bare, bareIdent)
	f.reg.Register(bareIdent)
	_, m := f.register(a, 0, 0, 7, "capable")

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, m, got)

	rec, ok := f.res.FindIdentity(7, true)
	require.True(t, ok)
	require.Same(t, bareIdent, rec.Identity, "identity lookups do not need the capability")
}

func TestFindOne_NotFound(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	f.register(a, 0, 0, 7, "seven")

	got, ok := FindOne[named](f.res, 99, true)
	require.False(t, ok)
	require.Nil(t, got)

	_, ok = FindOne[*unrelated](f.res, 7, true)
	require.False(t, ok)
}

func TestFindOne_SkipsDestroyedOwners(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	stale, _ := f.register(a, 0, 0, 7, "stale")
	_, live := f.register(a, 0, 0, 7, "live")

	f.world.Destroy(stale.Owner)

	got, ok := FindOne[named](f.res, 7, true)
	require.True(t, ok)
	require.Same(t, live, got)
	require.Equal(t, 2, f.reg.Len(), "stale records are skipped, not collected")
}

// === FindOneInScene / FindIdentityInScene ===

func TestFindOneInScene_WithoutSceneOnlyWinsIsUnrestricted(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	_, aMarker := f.register(a, 0, 0, 7, "in-a")
	f.register(b, 0, 0, 7, "in-b")

	got, ok := FindOneInScene[named](f.res, 7, b, false)
	require.True(t, ok)
	require.Same(t, aMarker, got)
}

func TestFindOneInScene_FallsBackOutsideScene(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	_, aMarker := f.register(a, 0, 0, 7, "in-a")

	got, ok := FindOneInScene[named](f.res, 7, b, true)
	require.True(t, ok)
	require.Same(t, aMarker, got)
}

func TestFindOneInScene_SingleSceneDelegates(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	_, m := f.register(a, 0, 0, 7, "seven")

	got, ok := FindOneInScene[named](f.res, 7, scene.Handle(42), true)
	require.True(t, ok)
	require.Same(t, m, got)
}

func TestFindIdentityInScene_ReturnsSnapshot(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	f.register(a, 0, 0, 7, "in-a")
	bIdent, _ := f.register(b, 0, 0, 7, "in-b")

	rec, ok := f.res.FindIdentityInScene(7, b, true)
	require.True(t, ok)
	require.Same(t, bIdent, rec.Identity)
	require.Equal(t, b, rec.Scene)
	require.Equal(t, General, rec.Category)
	require.False(t, rec.Persistent)
}

// === FindAll family ===

func TestFindAll_DeduplicatesComponents(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()

	first := &marker{name: "first"}
	second := &marker{name: "second"}
	owner := f.scenes.Spawn(a, 0, 0, first, second)
	i1 := &Identity{ID: 7, Owner: owner}
	i2 := &Identity{ID: 7, Owner: owner}
	f.world.Attach(owner, i1)
	f.world.Attach(owner, i2)
	f.reg.Register(i1)
	f.reg.Register(i2)
	f.reg.Register(&Identity{ID: 7, Owner: owner})
	_, other := f.register(b, 0, 0, 7, "other")
	f.register(b, 0, 0, 8, "different-id")

	got := FindAll[named](f.res, 7)
	require.ElementsMatch(t, []named{first, second, other}, got)
}

func TestFindAll_NoMatchIsEmpty(t *testing.T) {
	f := newFixture()
	require.Empty(t, FindAll[named](f.res, 7))
}

func TestFindAllInScene_RestrictsToScene(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	_, aMarker := f.register(a, 0, 0, 7, "in-a")
	_, bMarker := f.register(b, 0, 0, 7, "in-b")

	require.ElementsMatch(t, []named{aMarker}, FindAllInScene[named](f.res, 7, a))
	require.ElementsMatch(t, []named{bMarker}, FindAllInScene[named](f.res, 7, b))
}

func TestFindAllInScene_SingleSceneDelegates(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)
	_, m := f.register(a, 0, 0, 7, "seven")

	require.ElementsMatch(t, []named{m}, FindAllInScene[named](f.res, 7, scene.Handle(42)))
}

func TestFindAllByScene_IgnoresID(t *testing.T) {
	f := newFixture()
	a, b := f.twoScenes()
	_, m1 := f.register(a, 0, 0, 1, "one")
	_, m2 := f.register(a, 0, 0, 2, "two")
	f.register(b, 0, 0, 1, "elsewhere")

	require.ElementsMatch(t, []named{m1, m2}, FindAllByScene[named](f.res, a))
}

// === FindPersistentExcludingPlayer ===

func TestFindPersistentExcludingPlayer(t *testing.T) {
	f := newFixture()
	a := f.scenes.Load("a", scene.Single)

	npc, npcMarker := f.register(a, 0, 0, 1, "npc")
	f.scenes.DontDestroyOnLoad(npc.Owner)

	player, _ := f.register(a, 0, scene.FlagPlayer, 2, "player")
	f.scenes.DontDestroyOnLoad(player.Owner)
	f.register(a, player.Owner, 0, 3, "player-child")

	f.register(a, 0, 0, 4, "scene-local")

	canvas := f.persistentCanvas(a)
	_, uiMarker := f.register(a, canvas, scene.FlagRecording|scene.FlagPlayer, 5, "ui")
	require.Equal(t, 1, f.reg.RetainedLen())

	got := FindPersistentExcludingPlayer[named](f.res)
	require.ElementsMatch(t, []named{npcMarker, uiMarker}, got)
}
