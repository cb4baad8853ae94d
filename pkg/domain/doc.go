/*
Package domain contains the core value types shared by every layer of the canopy engine.

It is kept free of I/O and of the actor tree itself, so that storage, variables,
adapters and the tree model can all depend on it without cycles.

# Key Entities

  - Token: the envelope carrying one unit of data between actors.
  - StorageName: a validated key into a scope's storage.
  - ScopeSnapshot: the persisted form of a root scope (variables and storage).
  - LifecycleHooks: observability callbacks fired by the execution director.
*/
package domain
