package world_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label struct {
	Text string
}

func TestWorld_SpawnDespawn(t *testing.T) {
	w := world.New()
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()

	assert.NotZero(t, a)
	assert.Equal(t, []domain.ObjectID{a, b, c}, w.Objects())

	require.NoError(t, world.Insert(w, b, &label{Text: "b"}))
	assert.True(t, w.Despawn(b))
	assert.False(t, w.Despawn(b), "second despawn should report missing object")
	assert.False(t, w.Exists(b))
	assert.False(t, world.Has[label](w, b))
	assert.Equal(t, []domain.ObjectID{a, c}, w.Objects())
	assert.Equal(t, 2, w.Len())
}

func TestWorld_InsertOnMissingObject(t *testing.T) {
	w := world.New()
	err := world.Insert(w, domain.ObjectID(42), &label{})
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestWorld_WriteModes(t *testing.T) {
	w := world.New()
	id := w.Spawn()

	var events []world.ChangeEvent
	w.Observe(func(ev world.ChangeEvent) { events = append(events, ev) })

	before := w.ChangeTick()
	require.NoError(t, world.Set(w, id, &label{Text: "quiet"}, world.Silent))
	assert.Equal(t, before, w.ChangeTick(), "silent write must not advance the tick")
	assert.False(t, world.ChangedSince[label](w, id, before))
	assert.Empty(t, events)

	got, ok := world.Get[label](w, id)
	require.True(t, ok)
	assert.Equal(t, "quiet", got.Text)

	require.NoError(t, world.Set(w, id, &label{Text: "loud"}, world.Notify))
	assert.True(t, world.ChangedSince[label](w, id, before))
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].Object)
	assert.False(t, events[0].Removed)

	mid := w.ChangeTick()
	got.Text = "edited"
	assert.True(t, world.MarkChanged[label](w, id))
	assert.True(t, world.ChangedSince[label](w, id, mid))
}

func TestWorld_Interaction(t *testing.T) {
	w := world.New()
	id := w.Spawn()

	state, ok := w.InteractionOf(id)
	assert.False(t, ok)
	assert.Equal(t, domain.InteractionNone, state)

	tick := w.ChangeTick()
	require.NoError(t, w.SetInteraction(id, domain.InteractionPressed))
	state, ok = w.InteractionOf(id)
	assert.True(t, ok)
	assert.Equal(t, domain.InteractionPressed, state)
	assert.True(t, world.ChangedSince[domain.Interaction](w, id, tick))

	tick = w.ChangeTick()
	require.NoError(t, w.SetInteraction(id, domain.InteractionPressed))
	assert.False(t, world.ChangedSince[domain.Interaction](w, id, tick), "same state is not a transition")
	assert.Equal(t, tick, w.ChangeTick())

	require.NoError(t, w.Press(id))
	assert.True(t, world.ChangedSince[domain.Interaction](w, id, tick), "a click always transitions")

	assert.ErrorIs(t, w.SetInteraction(domain.ObjectID(99), domain.InteractionPressed), domain.ErrObjectNotFound)
	assert.ErrorIs(t, w.Press(domain.ObjectID(99)), domain.ErrObjectNotFound)

	require.NoError(t, w.Disable(id))
	assert.True(t, w.IsDisabled(id))
	w.Enable(id)
	assert.False(t, w.IsDisabled(id))
}

func TestWorld_QueryOrder(t *testing.T) {
	w := world.New()
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()

	require.NoError(t, world.Insert(w, c, &label{}))
	require.NoError(t, world.Insert(w, a, &label{}))

	assert.Equal(t, []domain.ObjectID{a, c}, world.Query[label](w))
	assert.Nil(t, world.Query[struct{ X int }](w))
	_ = b
}

func TestCommands_ApplyInOrder(t *testing.T) {
	w := world.New()
	victim := w.Spawn()

	var cmds world.Commands
	var spawned domain.ObjectID
	cmds.Despawn(victim)
	cmds.Spawn(func(w *world.World, id domain.ObjectID) {
		spawned = id
		_ = world.Insert(w, id, &label{Text: "new"})
	})
	world.InsertLater(&cmds, victim, &label{Text: "too late"})

	assert.Equal(t, 3, cmds.Len())
	assert.True(t, w.Exists(victim), "nothing is applied before Apply")

	cmds.Apply(w)
	assert.Zero(t, cmds.Len())
	assert.False(t, w.Exists(victim))
	got, ok := world.Get[label](w, spawned)
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)
}

func TestVars(t *testing.T) {
	w := world.New()
	vars := world.VarsOf(w)
	assert.Same(t, vars, world.VarsOf(w))

	assert.Equal(t, int64(0), vars.Int("missing"))
	assert.Equal(t, int64(2), vars.Add("clicks", 2))
	assert.Equal(t, int64(5), vars.Add("clicks", 3))
	vars.Set("name", "start")
	assert.Equal(t, []string{"clicks", "name"}, vars.Keys())

	raw, err := json.Marshal(vars.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored := world.NewVars()
	restored.Restore(decoded)
	v, ok := restored.Get("clicks")
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, "start", func() any { v, _ := restored.Get("name"); return v }())
}
