/*
Package onclick attaches ordered click behaviors to interactive objects and
runs them, in order, exactly once per fresh press.

# Concept

A host owns a world of objects. Each clickable object carries an action queue
(action.OnClick) holding three kinds of slots:

  - systems, which act on the world without knowing who triggered them
  - entity systems, which also receive the id of the pressed object
  - delegated commands, opaque strings forwarded to an Interpreter

Every frame the host calls App.Tick. The dispatch pass scans for objects whose
interaction changed to Pressed since the previous pass, takes their queues out
of the world, runs every slot of every queue in storage order, and writes the
queues back. A slot may mutate the world freely, including clearing, extending
or replacing the queue it belongs to, or despawning its own object.

Each slot is initialized once, lazily, on its first invocation. Deferred world
changes a slot stages on its command buffer are applied right after that slot
returns, so the next slot observes them.

# Usage

	app, err := onclick.New()
	if err != nil {
		log.Fatal(err)
	}

	button := app.Spawn(action.New().
		Func(func(w *world.World, cmds *world.Commands) error {
			world.VarsOf(w).Add("clicks", 1)
			return nil
		}))

	_ = app.Press(button)
	_ = app.Tick(ctx)

Delegated commands need an interpreter, for example the built-in command
registry, the Lua adapter or the process runner:

	reg := registry.NewRegistry()
	registry.RegisterBuiltins(reg)
	app, _ := onclick.New(onclick.WithInterpreter(reg))
	app.Spawn(action.New().Command("add clicks 1"))
*/
package onclick
