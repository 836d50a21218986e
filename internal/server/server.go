// Package server orchestrates all components: NATS client, recognizer,
// registry, queue, dispatch loop, optional audit DB, HTTP health.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/intent-router/internal/config"
	"github.com/morezero/intent-router/pkg/audit"
	"github.com/morezero/intent-router/pkg/commsutil"
	"github.com/morezero/intent-router/pkg/dispatch"
	"github.com/morezero/intent-router/pkg/events"
	"github.com/morezero/intent-router/pkg/handlers"
	"github.com/morezero/intent-router/pkg/intents"
	"github.com/morezero/intent-router/pkg/nlu"
)

const logPrefix = "server:server"

// Server is the intent-router orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	pool       *pgxpool.Pool
	httpServer *http.Server
	engine     *nlu.Engine
	registry   *dispatch.Registry
	queue      *dispatch.Queue
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - Starting intent-router", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Load the intent vocabulary
	manifest := intents.LoadManifest(cfg.IntentsFile)
	responses := intents.LoadResponses(cfg.ResponsesFile)

	engine := nlu.NewEngine(nlu.EngineOpts{})
	engine.Load(manifest.Intents)
	resolver := nlu.NewAliasResolver(manifest.Aliases)
	s.engine = engine

	routeSubject := cfg.RouteSubject
	if routeSubject == "" {
		routeSubject = commsutil.SubjectRoute
	}
	reloadSubject := cfg.ReloadSubject
	if reloadSubject == "" {
		reloadSubject = commsutil.SubjectReload
	}
	slog.Info(fmt.Sprintf("%s - Route subject: %s", logPrefix, routeSubject))

	// Step 2: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	s.nc = nc
	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, cfg.COMMSURL))

	// Step 3: Optional audit database
	var recorder audit.Recorder = &audit.NoOpRecorder{}
	if cfg.DatabaseURL != "" {
		pool, err := audit.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			nc.Close()
			return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
		}
		s.pool = pool
		if cfg.RunMigrations {
			if err := audit.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to ensure audit schema: %w", logPrefix, err)
			}
		}
		recorder = audit.NewRepository(pool)
		slog.Info(fmt.Sprintf("%s - Dispatch audit log enabled", logPrefix))
	}

	// Step 4: Queue, registry, and the built-in handler table
	queue := dispatch.NewQueue()
	registry := dispatch.NewRegistry()
	s.queue = queue
	s.registry = registry

	if err := registerBuiltins(registry, queue, engine, resolver, responses); err != nil {
		if s.pool != nil {
			s.pool.Close()
		}
		nc.Close()
		return fmt.Errorf("%s - failed to register handlers: %w", logPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Registered handlers: %v", logPrefix, registry.Names()))

	// Step 5: Dispatch loop
	publisher := events.NewCommsPublisher(nc, &events.CommsPublisherOpts{})
	loop := dispatch.NewLoop(dispatch.NewLoopParams{
		Queue:        queue,
		Registry:     registry,
		Publisher:    publisher,
		Recorder:     recorder,
		PollInterval: cfg.PollInterval,
	})
	loopDone := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(loopDone)
	}()

	// Step 6: Ingress subscription
	sub, err := nc.Subscribe(routeSubject, func(msg *comms.Msg) {
		ack := s.handleRoute(msg.Data, resolver)
		data, err := json.Marshal(ack)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode ack: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	})
	if err != nil {
		cancel()
		<-loopDone
		if s.pool != nil {
			s.pool.Close()
		}
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, routeSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, routeSubject))

	// Step 6b: Reload subscription. Re-reads the manifest and swaps the
	// recognizer snapshot in place; alias table changes need a restart.
	reloadSub, err := nc.Subscribe(reloadSubject, func(msg *comms.Msg) {
		m := intents.LoadManifest(cfg.IntentsFile)
		engine.Load(m.Intents)
		if !reflect.DeepEqual(m.Aliases, manifest.Aliases) {
			slog.Warn(fmt.Sprintf("%s - Alias table changed on disk; alias changes take effect on restart", logPrefix))
		}
		intentCount, exampleCount := engine.Stats()
		slog.Info(fmt.Sprintf("%s - Reloaded %d intent(s), %d example(s)", logPrefix, intentCount, exampleCount))
		if msg.Reply != "" {
			ack, _ := json.Marshal(map[string]interface{}{"ok": true, "intents": intentCount, "examples": exampleCount})
			msg.Respond(ack)
		}
	})
	if err != nil {
		sub.Unsubscribe()
		cancel()
		<-loopDone
		if s.pool != nil {
			s.pool.Close()
		}
		nc.Close()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, reloadSubject, err)
	}
	defer reloadSub.Unsubscribe()
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, reloadSubject))

	// Step 7: HTTP health server
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/health", s.handleHealth())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = fmt.Sprintf(":%d", cfg.HTTPPort)
	}
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP health server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Intent-router is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown: stop taking requests, let the loop finish its
	// current envelope, then close everything.
	sub.Unsubscribe()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	s.httpServer.Shutdown(shutdownCtx)
	cancel()
	<-loopDone
	nc.Drain()
	if s.pool != nil {
		s.pool.Close()
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

// setupLogging installs the default slog handler at the configured level.
func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

// registerBuiltins fills the registry with the built-in handler table. The
// table is explicit: adding a handler means adding a line here.
func registerBuiltins(registry *dispatch.Registry, queue *dispatch.Queue, engine *nlu.Engine, resolver *nlu.AliasResolver, responses map[string][]string) error {
	recognize := handlers.NewRecognizeHandler(handlers.NewRecognizeHandlerParams{
		Engine:   engine,
		Resolver: resolver,
		Checker:  registry,
		Queue:    queue,
	})
	table := map[string]dispatch.Handler{
		handlers.IntentRecognize: recognize,
		handlers.IntentTimeNow:   handlers.NewTimeNowHandler(),
	}
	for _, intent := range []string{"chat.greet", "chat.bye", "chat.reply"} {
		table[intent] = handlers.NewReplyHandler(handlers.NewReplyHandlerParams{
			Intent:    intent,
			Responses: responses,
			Resolver:  resolver,
		})
	}
	for intent, h := range table {
		if err := registry.Register(intent, h); err != nil {
			return err
		}
	}
	return nil
}

// handleRoute validates one ingress request and queues an envelope for it.
// Validation happens here, before enqueueing: a request for an intent with no
// handler is rejected synchronously rather than queued and dropped later.
func (s *Server) handleRoute(data []byte, resolver *nlu.AliasResolver) *RouteAck {
	var req RouteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to decode route request: %v", logPrefix, err))
		return &RouteAck{
			Ok:    false,
			Error: &ErrorDetail{Code: "INVALID_REQUEST", Message: "Failed to decode request"},
		}
	}

	intent := req.Intent
	payload := req.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}

	if intent == "" {
		if req.Text == "" {
			return &RouteAck{
				ID:    req.ID,
				Ok:    false,
				Error: &ErrorDetail{Code: "BAD_REQUEST", Message: "Either intent or text is required"},
			}
		}
		intent = handlers.IntentRecognize
	} else {
		intent = resolver.Canonicalize(intent)
	}
	if req.Text != "" {
		if _, ok := payload["text"]; !ok {
			payload["text"] = req.Text
		}
	}

	if _, ok := s.registry.Resolve(intent); !ok {
		return &RouteAck{
			ID:     req.ID,
			Ok:     false,
			Intent: intent,
			Error:  &ErrorDetail{Code: "UNKNOWN_INTENT", Message: fmt.Sprintf("No handler registered for intent %s", intent)},
		}
	}

	priority := dispatch.DefaultPriority
	if req.Priority != nil {
		priority = dispatch.ClampPriority(*req.Priority)
	}

	env := dispatch.NewEnvelope(intent, priority, req.CorrelationID, payload)
	s.queue.Enqueue(env)
	slog.Debug(fmt.Sprintf("%s - Queued intent=%s priority=%d correlationId=%s", logPrefix, intent, priority, env.CorrelationID))

	return &RouteAck{
		ID:            req.ID,
		Ok:            true,
		EnvelopeID:    env.ID,
		Intent:        intent,
		CorrelationID: env.CorrelationID,
		QueueDepth:    s.queue.Len(),
	}
}

// handleHealth reports NATS connectivity and, when enabled, audit DB health.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]bool{"comms": s.nc != nil && s.nc.IsConnected()}
		if s.pool != nil {
			checks["database"] = s.pool.Ping(healthCtx) == nil
		}

		status := "healthy"
		for _, ok := range checks {
			if !ok {
				status = "unhealthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// homePageTemplate is the HTML for the router home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Intent Router</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2 { color: #0066cc; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .stat { font-weight: bold; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
  </style>
</head>
<body>
  <h1>Intent Router</h1>
  <p class="meta">Queue state, recognizer vocabulary, and registered handlers.</p>

  <section>
    <h2>Queue</h2>
    <p>Depth: <span class="stat">{{.QueueDepth}}</span></p>
  </section>

  <section>
    <h2>Recognizer</h2>
    <p>Intents: <span class="stat">{{.IntentCount}}</span></p>
    <p>Examples: <span class="stat">{{.ExampleCount}}</span></p>
  </section>

  <section>
    <h2>Registered handlers</h2>
    {{if not .Handlers}}
    <p>No handlers registered.</p>
    {{else}}
    <table>
      <thead><tr><th>Intent</th></tr></thead>
      <tbody>
        {{range .Handlers}}<tr><td>{{.}}</td></tr>{{end}}
      </tbody>
    </table>
    {{end}}
  </section>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	QueueDepth   int
	IntentCount  int
	ExampleCount int
	Handlers     []string
}

// handleHome returns an HTTP handler for the router home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		intentCount, exampleCount := s.engine.Stats()
		data := homeData{
			QueueDepth:   s.queue.Len(),
			IntentCount:  intentCount,
			ExampleCount: exampleCount,
			Handlers:     s.registry.Names(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
