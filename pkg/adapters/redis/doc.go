// Package redis provides a Redis-backed ScopeStore and DistributedLocker.
package redis
