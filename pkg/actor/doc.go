/*
Package actor defines the actor tree and the stateless algorithms that operate on it.

An Actor is a node with a name, a parent and an enable flag. What an actor can
do is expressed through small capability interfaces (InputConsumer,
OutputProducer, ActorHandler, CallableActorUser, ExternalActorHandler,
InternalActorHandler) and classified structurally as standalone, source,
transformer or sink.

Cross-tree references (callable, external and internal actors) are resolved on
demand and are never stored as owning pointers. All traversal goes through
References, so every algorithm sees the same notion of "children".

Lookups that find nothing return nil or an empty slice. Structural problems are
reported as *domain.StructureError values. Only broken preconditions produce
errors wrapping the domain sentinels.
*/
package actor
