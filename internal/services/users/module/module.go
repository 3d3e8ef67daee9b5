// Package module wires the users roster and admin surface into the API
package module

import (
	"net/http"

	"raidcall/internal/core/raidday"
	modkit "raidcall/internal/modkit"
	"raidcall/internal/modkit/httpkit"
	"raidcall/internal/modkit/repokit"

	crepo "raidcall/internal/services/callouts/repo"
	uhttp "raidcall/internal/services/users/http"
	urepo "raidcall/internal/services/users/repo"
	usvc "raidcall/internal/services/users/service"
)

// Module implements the users API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc usvc.Service
}

// Ports declares dependencies injected by the composition root
type Ports struct {
	// Days is required
	Days *raidday.Resolver

	// Callouts binds the callout repo for cascade deletes and info counts
	Callouts repokit.Binder[crepo.Repo]
}

// New constructs the users module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("users"),
		modkit.WithPrefix("/admin"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Days == nil {
		panic("users module requires a day resolver port")
	}
	if injected.Callouts == nil {
		panic("users module requires a callouts repo port")
	}

	svc := usvc.New(deps.PG, urepo.NewPG(), usvc.Options{
		Callouts: injected.Callouts,
		Days:     injected.Days,
	})

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
		uhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the service port for cross-module wiring
func (m *Module) Service() usvc.Service { return m.svc }

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
