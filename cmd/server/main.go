package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"nexus-chat/internal/app"
	"nexus-chat/internal/chat"
	"nexus-chat/internal/config"
	"nexus-chat/internal/httputil"
	"nexus-chat/internal/render"
	"nexus-chat/internal/retry"
)

type sendRequest struct {
	Text string `json:"text" validate:"max=8000"`
}

type messageView struct {
	chat.Message
	HTML string `json:"html"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	r := httputil.NewRouter(deps.Log, requestBudget(deps.Config))
	routes(r, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("chat server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

// requestBudget is the longest a send can take: every call hitting its timeout plus all
// backoff waits, with headroom for the cache and event publishing.
func requestBudget(cfg config.Config) time.Duration {
	perCall := cfg.RequestTimeout
	if perCall <= 0 {
		perCall = 60 * time.Second
	}
	budget := time.Duration(cfg.RetryMax+1) * perCall
	for _, d := range retry.Schedule(cfg.RetryMax, cfg.RetryBase) {
		budget += d
	}
	return budget + 30*time.Second
}

func routes(r chi.Router, deps app.Deps) {
	r.Post("/api/messages", sendHandler(deps))
	r.Get("/api/messages", listHandler(deps))
	r.Delete("/api/messages", clearHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))
	if deps.Config.MetricsEnable && deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}

func sendHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		// A pending request cannot be aborted: the client going away does not cancel it.
		reply, ok := deps.Session.Send(context.WithoutCancel(r.Context()), req.Text)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"message": view(reply),
		})
	}
}

func listHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"messages": views(deps.Session.Messages()),
			"typing":   deps.Session.Typing(),
		})
	}
}

func clearHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		if !deps.Session.Clear(r.Context(), func() bool { return confirmed }) {
			httputil.Fail(deps.Log, w, "confirmation required (confirm=true)", nil, http.StatusBadRequest)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"messages": views(deps.Session.Messages()),
		})
	}
}

func view(m chat.Message) messageView {
	return messageView{Message: m, HTML: render.HTML(m.Text)}
}

func views(msgs []chat.Message) []messageView {
	out := make([]messageView, len(msgs))
	for i, m := range msgs {
		out[i] = view(m)
	}
	return out
}
