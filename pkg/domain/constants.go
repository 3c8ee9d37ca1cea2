package domain

// SetLabel names an ordering group inside a host schedule.
type SetLabel string

// ClickHandlerSet is the set the click dispatch pass is registered in.
// Host passes that read Interaction or queue-bearing objects order themselves
// relative to it. It carries no runtime state.
const ClickHandlerSet SetLabel = "click_handlers"

// SlotKind discriminates the closed set of slot variants.
type SlotKind string

const (
	SlotSystem       SlotKind = "system"
	SlotEntitySystem SlotKind = "entity_system"
	SlotDelegated    SlotKind = "delegated"
)

// SlotPhase names the step of a slot invocation that failed.
type SlotPhase string

const (
	PhaseInitialize SlotPhase = "initialize"
	PhaseRun        SlotPhase = "run"
	PhaseApply      SlotPhase = "apply"
)
