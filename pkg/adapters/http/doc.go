// Package http serves a canopy Engine over HTTP with a chi router.
package http
