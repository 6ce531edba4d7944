// Package modules contains one data module per application section. Each
// wraps the gateway with that section's endpoint knowledge, decodes typed
// entities, hands them to a renderer callback and invalidates its cache
// tag after every mutation.
package modules

import "context"

// Module is the capability interface the navigation controller dispatches
// to. Every section module implements it uniformly.
type Module interface {
	// Nombre returns the section identifier this module serves.
	Nombre() string

	// Load fetches the section's data and hands it to the renderer.
	Load(ctx context.Context) error

	// Invalidate purges the module's cached reads.
	Invalidate()
}
