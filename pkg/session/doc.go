/*
Package session coordinates access to persisted scopes.

A Manager serializes operations on the same session ID inside a process and,
when given a ports.DistributedLocker, across replicas sharing a store.
*/
package session
