/*
Package ports defines the driven ports (interfaces) of the canopy engine.

These interfaces decouple the actor tree from external implementations, so that
flows can be loaded from any source and scope snapshots kept in any backend.

# Key Interfaces

  - FlowLoader: materializes an actor tree from a flow reference (e.g. a YAML file).
  - ScopeStore: persists the root scope (variables and storage) of a session.
  - DistributedLocker: serializes runs of the same session across instances.
*/
package ports
