package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Module names the component a log line comes from.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type Config struct {
	ServiceInfo   ServiceInfo
	Environment   Environment
	Level         slog.Level
	Format        string // json or text
	GCPProjectID  string
	DefaultModule Module
}

type moduleKey struct{}

// WithModule overrides the module attribute for logs written with ctx.
func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func moduleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey{}).(Module)
	return m, ok
}

func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	return slog.New(NewHandler(w, cfg))
}

func NewHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceAttr,
	}

	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", cfg.ServiceInfo.Name),
		slog.String("env", string(cfg.Environment)),
	}
	if cfg.ServiceInfo.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceInfo.Version))
	}
	if cfg.ServiceInfo.Revision != "" {
		attrs = append(attrs, slog.String("revision", cfg.ServiceInfo.Revision))
	}

	return &contextHandler{
		next:          base.WithAttrs(attrs),
		projectID:     cfg.GCPProjectID,
		defaultModule: cfg.DefaultModule,
	}
}

// contextHandler adds trace correlation and the module to every record.
type contextHandler struct {
	next          slog.Handler
	projectID     string
	defaultModule Module
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	module := h.defaultModule
	if m, ok := moduleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
			r.AddAttrs(attrs...)
		} else {
			r.AddAttrs(
				slog.String("trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
			)
		}
	}

	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		next:          h.next.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		next:          h.next.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
