/*
Package action defines click actions and the queue that carries them.

An OnClick queue is attached to an object as a world component and built with a
fluent API:

	q := action.New().
		Func(func(w *world.World, cmds *world.Commands) error {
			world.VarsOf(w).Add("clicks", 1)
			return nil
		}).
		EntityFunc(func(id domain.ObjectID, w *world.World, cmds *world.Commands) error {
			cmds.Despawn(id)
			return nil
		}).
		Command("score add 10")

Each entry becomes a Slot. A slot initializes its callable once, on its first
invocation, and applies the callable's staged Commands right after every run.
*/
package action
