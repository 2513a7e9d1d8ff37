package gitops

import (
	"fmt"

	"github.com/cj3636/gtaz/internal/repo"
)

// Dispatcher maps a tool id to its catalog entry and runs it through
// the gateway. Each call is independent: no state carries over between
// invocations, and no error leaves this boundary outside a Result.
type Dispatcher struct {
	gateway *Gateway
}

// NewDispatcher wraps a gateway.
func NewDispatcher(gateway *Gateway) *Dispatcher {
	return &Dispatcher{gateway: gateway}
}

// Gateway exposes the wrapped gateway for callers that need the
// non-tool operations (history, checkout).
func (d *Dispatcher) Gateway() *Gateway {
	return d.gateway
}

// Run executes the tool named by id against the repository snapshot.
// Ids not present in the catalog produce a failed Result; under normal
// operation ids always originate from the catalog, so that path is
// defensive only.
func (d *Dispatcher) Run(id ToolID, r repo.Repository) Result {
	tool, ok := Lookup(id)
	if !ok {
		return failure(id, fmt.Sprintf("unknown tool: %s", id))
	}
	return d.gateway.Execute(tool, r)
}
