/*
Package ports defines the driven ports (interfaces) of the onclick host.

These interfaces decouple the dispatch core and the session manager from external
implementations, allowing worlds to be persisted and coordinated through various
backends.

# Key Interfaces

  - SnapshotStore: Persists and restores a world's blackboard between runs.
  - DistributedLocker: Provides distributed locking so only one replica ticks a world at a time.
*/
package ports
