package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/onclick/internal/presentation/graph"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(w *world.World, cmds *world.Commands) error { return nil }

func TestGenerateMermaid(t *testing.T) {
	w := world.New()
	play := w.Spawn()
	relay := w.Spawn()
	empty := w.Spawn()
	locked := w.Spawn()
	w.Spawn() // no queue, not drawn

	require.NoError(t, world.Insert(w, play, action.New().Func(noop).Func(noop)))
	require.NoError(t, world.Insert(w, relay, action.New().Func(noop).Command("press "+play.String()).Command("press obj#99")))
	require.NoError(t, world.Insert(w, empty, action.New()))
	require.NoError(t, world.Insert(w, locked, action.New().Func(noop)))
	require.NoError(t, w.Disable(locked))

	out := graph.GenerateMermaid(w, &graph.Overlay{
		Labels: map[domain.ObjectID]string{play: "play"},
		Fired:  []domain.ObjectID{play, play},
	})

	for _, want := range []string{
		"graph TD\n",
		`obj_1["play <br/> 2x system"]`,
		`obj_2[["obj#2 <br/> system, delegated"]]`,
		`obj_3(("obj#3"))`,
		`obj_2 -. "press" .-> obj_1`,
		"class obj_4 disabled;",
		"class obj_1 fired;",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "obj_5")
	assert.NotContains(t, out, "obj_99", "edges to missing objects are dropped")
	assert.Equal(t, 1, strings.Count(out, "class obj_1 fired;"))
}

func TestGenerateMermaid_NoOverlay(t *testing.T) {
	w := world.New()
	id := w.Spawn()
	require.NoError(t, world.Insert(w, id, action.New().Func(noop)))

	out := graph.GenerateMermaid(w, nil)
	assert.Contains(t, out, `obj_1["obj#1 <br/> system"]`)
	assert.NotContains(t, out, "classDef")
}
