// Package module wires callouts into the API using modkit
package module

import (
	"net/http"

	"raidcall/internal/core/raidday"
	modkit "raidcall/internal/modkit"
	"raidcall/internal/modkit/httpkit"

	chttp "raidcall/internal/services/callouts/http"
	crepo "raidcall/internal/services/callouts/repo"
	csvc "raidcall/internal/services/callouts/service"
)

// Module implements the callouts API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc csvc.Service
}

// Ports declares dependencies injected by the composition root
type Ports struct {
	// Days is required
	Days *raidday.Resolver
}

// New constructs the callouts module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("callouts"),
		modkit.WithPrefix("/callouts"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Days == nil {
		panic("callouts module requires a day resolver port")
	}

	svc := csvc.New(deps.PG, crepo.NewPG(), csvc.Options{Days: injected.Days})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the service port for cross-module wiring
func (m *Module) Service() csvc.Service { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module's exposed port set
func (m *Module) Ports() any { return m.svc }
