package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// RegisterBuiltins installs the stock commands:
//
//	add <key> [n]        add n (default 1) to an integer var
//	set <key> <value>    store a var; integers are stored as numbers
//	despawn [id|self]    despawn an object after the command returns
//	press <id>           report a press on another object, seen next pass
func RegisterBuiltins(r *Registry) {
	r.Register("add", cmdAdd)
	r.Register("set", cmdSet)
	r.Register("despawn", cmdDespawn)
	r.Register("press", cmdPress)
}

func cmdAdd(ctx context.Context, call Call) error {
	if len(call.Args) < 1 || len(call.Args) > 2 {
		return fmt.Errorf("add: want <key> [n], got %d args", len(call.Args))
	}
	delta := int64(1)
	if len(call.Args) == 2 {
		n, err := strconv.ParseInt(call.Args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("add: invalid amount %q: %w", call.Args[1], err)
		}
		delta = n
	}
	varsOf(call).Add(call.Args[0], delta)
	return nil
}

func cmdSet(ctx context.Context, call Call) error {
	if len(call.Args) != 2 {
		return fmt.Errorf("set: want <key> <value>, got %d args", len(call.Args))
	}
	if n, err := strconv.ParseInt(call.Args[1], 10, 64); err == nil {
		varsOf(call).Set(call.Args[0], n)
		return nil
	}
	varsOf(call).Set(call.Args[0], call.Args[1])
	return nil
}

func cmdDespawn(ctx context.Context, call Call) error {
	target, err := targetOf(call)
	if err != nil {
		return fmt.Errorf("despawn: %w", err)
	}
	call.Commands.Despawn(target)
	return nil
}

func cmdPress(ctx context.Context, call Call) error {
	if len(call.Args) != 1 {
		return fmt.Errorf("press: want <id>, got %d args", len(call.Args))
	}
	target, err := targetOf(call)
	if err != nil {
		return fmt.Errorf("press: %w", err)
	}
	call.Commands.Press(target)
	return nil
}

func targetOf(call Call) (domain.ObjectID, error) {
	if len(call.Args) == 0 || call.Args[0] == "self" {
		return call.Object, nil
	}
	return domain.ParseObjectID(call.Args[0])
}

func varsOf(call Call) *world.Vars {
	return world.VarsOf(call.World)
}
