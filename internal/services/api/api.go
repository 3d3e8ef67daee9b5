// Package api provides the HTTP API for the application
package api

import (
	"context"

	"raidcall/internal/platform/config"
	"raidcall/internal/platform/logger"
	phttp "raidcall/internal/platform/net/http"
	"raidcall/internal/platform/net/middleware"
	"raidcall/internal/platform/store"

	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit"
	"raidcall/internal/modkit/httpkit"
	"raidcall/internal/modkit/module"

	metamod "raidcall/internal/services/api/meta/module"
	chttp "raidcall/internal/services/callouts/http"
	calloutsmod "raidcall/internal/services/callouts/module"
	crepo "raidcall/internal/services/callouts/repo"
	csvc "raidcall/internal/services/callouts/service"
	tzmod "raidcall/internal/services/tz/module"
	uhttp "raidcall/internal/services/users/http"
	usersmod "raidcall/internal/services/users/module"
	usvc "raidcall/internal/services/users/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Days           *raidday.Resolver
	BotSecret      string
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// the users service backs token auth for everything else
	// the port closure runs per request, after the module below assigns it
	var usersSvc usvc.Service
	authPort := httpkit.NewPortFunc(func(token string) (string, bool, error) {
		u, err := usersSvc.Resolve(context.Background(), token)
		if err != nil {
			return "", false, err
		}
		return u.ID, u.IsAdmin, nil
	})
	users := usersmod.New(deps,
		modkit.WithPorts(usersmod.Ports{
			Days:     opt.Days,
			Callouts: crepo.NewPG(),
		}),
	)
	usersSvc = module.MustPortsOf[usvc.Service](users)

	callouts := calloutsmod.New(deps,
		modkit.WithPorts(calloutsmod.Ports{Days: opt.Days}),
	)
	calloutsSvc := module.MustPortsOf[csvc.Service](callouts)

	open := []module.Module{
		metamod.New(deps),
		tzmod.New(deps, modkit.WithPorts(tzmod.Ports{Days: opt.Days})),
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range open {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}

		// members need a token; the admin surface additionally gates on the flag
		module.Register(callouts.Name(), callouts.Ports())
		httpkit.Protected(api, authPort, callouts.MountRoutes)

		module.Register(users.Name(), users.Ports())
		httpkit.AdminOnly(api, authPort, users.MountRoutes)

		// bot commit and roster sighting paths guarded by the shared secret
		api.Route("/bot", func(bot httpkit.Router) {
			bot.Use(middleware.BotSecret(opt.BotSecret, phttp.JSON))
			chttp.RegisterBot(bot, calloutsSvc)
			uhttp.RegisterBot(bot, usersSvc)
		})
	})
}
