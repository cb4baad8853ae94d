/*
Package control provides the actor handlers that give a flow its structure.

Handlers differ in how they are classified and what they may contain:

  - Flow: the root scope. Standalones followed by a source-driven pipeline.
  - Sequence, SubProcess, SequenceSource: sequential pipelines acting as sink,
    transformer and source respectively.
  - Standalones: a list of standalone actors.
  - Branch: forwards each token to all of its children in parallel.
  - LocalScopeTrigger: runs a sub-flow inside its own variables and storage
    scope and optionally propagates selected values back to the parent scope.
  - CallableActors and the Callable* users: named actors referenced from elsewhere.
  - External*: actors loaded lazily from another flow file.
  - Tee: forwards a copy of each token to a privately owned actor.

CreateExternalActor picks the wrapper matching a run of sibling actors, and
Validate checks a whole tree structurally before it runs.
*/
package control
