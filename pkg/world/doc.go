/*
Package world is the shared mutable store every click action runs against.

A World holds objects, type-keyed components attached to them, typed resources and
a monotonic change tick. Writes come in two modes: Notify writes stamp the component
with a fresh change tick and fan out a ChangeEvent to observers, while Silent writes
do neither. The dispatch engine relies on Silent writes to take and restore action
queues without being observed as a change.

A World is not safe for concurrent use. Hosts that drive one world from several
goroutines serialize access through pkg/session.
*/
package world
