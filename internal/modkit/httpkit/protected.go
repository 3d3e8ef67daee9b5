package httpkit

import (
	phttp "raidcall/internal/platform/net/http"
	"raidcall/internal/platform/net/middleware"
)

// Protected groups routes under bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

// AdminOnly groups routes under bearer auth plus the admin gate
func AdminOnly(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		gr.Use(middleware.AdminOnly(phttp.JSON))
		fn(gr)
	})
}
