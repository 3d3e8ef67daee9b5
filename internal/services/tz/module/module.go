// Package module wires the timezone endpoints into the API
package module

import (
	"net/http"

	"raidcall/internal/core/raidday"
	modkit "raidcall/internal/modkit"
	"raidcall/internal/modkit/httpkit"

	tzhttp "raidcall/internal/services/tz/http"
)

// Module implements the tz API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// Ports declares dependencies injected by the composition root
type Ports struct {
	// Days is required
	Days *raidday.Resolver
}

// New constructs the tz module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tz"),
		modkit.WithPrefix("/tz"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Days == nil {
		panic("tz module requires a day resolver port")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		tzhttp.Register(r, injected.Days)
		if external != nil {
			external(r)
		}
	}
	return m
}

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
func (m *Module) Ports() any { return nil }
