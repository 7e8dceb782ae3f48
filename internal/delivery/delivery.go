// Package delivery defines the contract implemented by every transport
// front-end of the service.
package delivery

import "context"

// Delivery is a long-running transport (e.g. the HTTP server) started by the
// composition root and stopped through its lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
