package main

import (
	"context"
	"time"

	"raidcall/internal/platform/config"
	"raidcall/internal/platform/logger"
	phttp "raidcall/internal/platform/net/http"
	"raidcall/internal/platform/net/middleware"

	"raidcall/internal/adapters/oracle"
	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit/httpkit"
	cservice "raidcall/internal/services/confirm/service"
	ghttp "raidcall/internal/services/gateway/http"
	"raidcall/internal/services/gateway/notify"
	"raidcall/internal/services/gateway/recorder"
	iservice "raidcall/internal/services/interpret/service"
)

func main() {
	root := config.New()
	botCfg := root.Prefix("BOT_")
	oracleCfg := root.Prefix("ORACLE_")

	l := logger.Get()

	days, err := raidday.NewResolver(root.MayString("RAID_TZ", "America/New_York"))
	if err != nil {
		l.Panic().Err(err).Msg("invalid RAID_TZ")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	oc, err := oracle.New(ctx, oracle.Config{
		Project:  oracleCfg.MustString("PROJECT"),
		Location: oracleCfg.MustString("LOCATION"),
		Model:    oracleCfg.MayString("MODEL", ""),
	})
	if err != nil {
		l.Panic().Err(err).Msg("oracle dial failed")
	}

	interp := iservice.New(iservice.Options{Oracle: oc})

	ledger := cservice.NewLedger()
	notifier := notify.NewLog(*logger.Named("notify"))
	rec := recorder.New(
		botCfg.MustString("API_URL"),
		botCfg.MustString("SECRET"),
	)

	ttl := botCfg.MayDuration("CONFIRM_TTL", 10*time.Minute)
	wf := cservice.NewWorkflow(cservice.WorkflowOptions{
		Interpreter: interp,
		Ledger:      ledger,
		Notifier:    notifier,
		Recorder:    rec,
		Days:        days,
		TTL:         ttl,
	})

	// sweeper is authoritative for expiry; per-entry timers are best effort
	sweeper := &cservice.Sweeper{
		Ledger:   ledger,
		Notifier: notifier,
		TTL:      ttl,
		Every:    botCfg.MayDuration("SWEEP_EVERY", time.Minute),
	}
	go func() {
		if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("sweeper stopped")
		}
	}()

	// gateway server (reads BOT_API_PORT)
	srv := phttp.NewServer(botCfg)
	r := srv.Router()
	for _, mw := range httpkit.CommonStack() {
		r.Use(mw)
	}
	r.Group(func(gr phttp.Router) {
		gr.Use(middleware.BotSecret(botCfg.MustString("SECRET"), phttp.JSON))
		ghttp.Register(gr, wf)
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("gateway server stopped")
	}
}
