package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/transitbot/bot/flow"
	"github.com/m3rciful/transitbot/bot/health"
	"github.com/m3rciful/transitbot/bot/pass"
	"github.com/m3rciful/transitbot/bot/qr"
	"github.com/m3rciful/transitbot/bot/session"
	"github.com/m3rciful/transitbot/bot/ticket"
	"github.com/m3rciful/transitbot/core/bootstrap"
	"github.com/m3rciful/transitbot/core/logger"
	coretelegram "github.com/m3rciful/transitbot/core/telegram"
	"github.com/m3rciful/transitbot/core/telegram/router"
)

// App holds the assembled application.
type App struct {
	cfg    *Config
	db     *sqlx.DB
	engine *flow.Engine
	health *health.Server
}

// New runs the bootstrap pipeline and wires the services behind the engine.
func New(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	gen := qr.NewGenerator()
	tickets := ticket.NewService(ticket.NewPostgresStore(res.DB), gen, ticket.Pacing{
		Processing: time.Duration(cfg.Payment.ProcessingMS) * time.Millisecond,
		Generation: time.Duration(cfg.Payment.GenerationMS) * time.Millisecond,
	})
	passes := pass.NewService(pass.NewPostgresStore(res.DB), gen, pass.Pacing{
		Processing: time.Duration(cfg.Payment.ProcessingMS) * time.Millisecond,
		Generation: time.Duration(cfg.Payment.GenerationMS) * time.Millisecond,
	})
	sessions := session.NewPostgresStore(res.DB)

	engine := flow.NewEngine(sessions, tickets, passes, flow.Config{
		RouteDocPath:    cfg.Routes.DocPath,
		MenuReturnDelay: time.Duration(cfg.Menu.ReturnDelayMS) * time.Millisecond,
	})

	return &App{
		cfg:    cfg,
		db:     res.DB,
		engine: engine,
		health: health.NewServer(cfg.Health.Listen),
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the core Telegram runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	tr := newTransport(a.engine)
	tr.register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(nil, reg, router.TextOptions{
		UnknownDocument: tr.onDocument,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			a.health.Start()
			probeBotAPI(ctx, a.cfg.Core.Telegram.Token)
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := a.health.Shutdown(shutdownCtx); err != nil {
				logger.L.With("component", "health").Warn("health shutdown failed",
					slog.String("event", "shutdown"),
					slog.String("err", err.Error()),
				)
			}
			return a.db.Close()
		},
	}, nil
}

// probeBotAPI verifies the token against getMe with a single retry. A failed
// probe is logged but does not abort startup: the poller surfaces hard
// authentication errors on its own.
func probeBotAPI(ctx context.Context, token string) {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/getMe", token)
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(2 * time.Second)
		}
		reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			cancel()
			lastErr = err
			continue
		}
		resp, err := http.DefaultClient.Do(req)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			logger.TG.Info("bot api probe ok",
				slog.String("event", "probe"),
				slog.Int("attempt", attempt+1),
			)
			return
		}
		lastErr = fmt.Errorf("getMe status: %s", resp.Status)
	}
	logger.TG.Warn("bot api probe failed",
		slog.String("event", "probe"),
		slog.String("err", lastErr.Error()),
	)
}
