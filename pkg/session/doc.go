/*
Package session serializes access to hosted worlds and persists their blackboard.

A Manager keeps one Host per world id. Every operation on a world (a dispatch
tick, an input event, a save or load of its Vars snapshot) runs inside that
world's critical section, which is a ref-counted local mutex optionally backed
by a ports.DistributedLocker so replicas sharing a snapshot store never tick
the same world concurrently.
*/
package session
