package action_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter records how often its setup and run were called.
type counter struct {
	setups  int
	runs    int
	failRun error
	failSet error
}

func (c *counter) Initialize(w *world.World) error {
	c.setups++
	return c.failSet
}

func (c *counter) Run(w *world.World, cmds *world.Commands) error {
	c.runs++
	return c.failRun
}

type recordingInterpreter struct {
	commands []string
	ids      []domain.ObjectID
}

func (r *recordingInterpreter) Execute(ctx context.Context, command string, id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	r.commands = append(r.commands, command)
	r.ids = append(r.ids, id)
	return nil
}

func firstSlot(t *testing.T, q *action.OnClick) *action.Slot {
	t.Helper()
	taken := q.Take()
	require.NotEmpty(t, taken.Slots)
	q.Restore(taken)
	return taken.Slots[0]
}

func TestSlot_InitializesOnce(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	c := &counter{}
	slot := firstSlot(t, action.New().System(c))

	assert.False(t, slot.Initialized())
	for i := 0; i < 3; i++ {
		require.NoError(t, slot.Invoke(context.Background(), id, w, nil))
	}

	assert.True(t, slot.Initialized())
	assert.Equal(t, 1, c.setups)
	assert.Equal(t, 3, c.runs)
}

func TestSlot_SetupFailureIsRetried(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	boom := errors.New("setup failed")
	c := &counter{failSet: boom}
	slot := firstSlot(t, action.New().System(c))

	err := slot.Invoke(context.Background(), id, w, nil)
	var slotErr *domain.SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.PhaseInitialize, slotErr.Phase)
	assert.ErrorIs(t, err, boom)
	assert.False(t, slot.Initialized())
	assert.Equal(t, 0, c.runs)

	c.failSet = nil
	require.NoError(t, slot.Invoke(context.Background(), id, w, nil))
	assert.True(t, slot.Initialized())
	assert.Equal(t, 2, c.setups)
	assert.Equal(t, 1, c.runs)
}

func TestSlot_RunFailureKeepsSlotUsable(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	c := &counter{failRun: errors.New("abort")}
	slot := firstSlot(t, action.New().System(c))

	err := slot.Invoke(context.Background(), id, w, nil)
	var slotErr *domain.SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.PhaseRun, slotErr.Phase)
	assert.True(t, slot.Initialized(), "setup succeeded before the run aborted")

	c.failRun = nil
	require.NoError(t, slot.Invoke(context.Background(), id, w, nil))
	assert.Equal(t, 1, c.setups)
	assert.Equal(t, 2, c.runs)
}

func TestSlot_AppliesCommandsAfterRun(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	var seenDuringRun bool
	slot := firstSlot(t, action.New().EntityFunc(func(self domain.ObjectID, w *world.World, cmds *world.Commands) error {
		cmds.Despawn(self)
		seenDuringRun = w.Exists(self)
		return nil
	}))

	require.NoError(t, slot.Invoke(context.Background(), id, w, nil))
	assert.True(t, seenDuringRun, "staged despawn must not apply mid-run")
	assert.False(t, w.Exists(id))
}

func TestSlot_FailedRunDropsStagedCommands(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	slot := firstSlot(t, action.New().EntityFunc(func(self domain.ObjectID, w *world.World, cmds *world.Commands) error {
		world.VarsOf(w).Add("direct", 1)
		cmds.Despawn(self)
		return errors.New("abort")
	}))

	require.Error(t, slot.Invoke(context.Background(), id, w, nil))
	assert.True(t, w.Exists(id))
	assert.Equal(t, int64(1), world.VarsOf(w).Int("direct"), "direct writes are not rolled back")
}

func TestSlot_Delegated(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	slot := firstSlot(t, action.New().Command("score add 1"))
	assert.Equal(t, domain.SlotDelegated, slot.Kind())
	assert.Equal(t, "score add 1", slot.Command())

	err := slot.Invoke(context.Background(), id, w, nil)
	assert.ErrorIs(t, err, domain.ErrNoInterpreter)

	interp := &recordingInterpreter{}
	require.NoError(t, slot.Invoke(context.Background(), id, w, interp))
	assert.Equal(t, []string{"score add 1"}, interp.commands)
	assert.Equal(t, []domain.ObjectID{id}, interp.ids)
}
