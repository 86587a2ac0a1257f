package logger

import (
	"Kindred/internal/api/config"
	"context"
	"io"
	log "log/slog"
	"net"
	"os"
)

var LogWriter io.Writer

func InitLogger() {
	cfg := config.Cfg.Logstash

	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})

	var finalHandler log.Handler = hStdout

	if cfg.Address != "" {
		conn, err := net.Dial("tcp", cfg.Address)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: log.LevelInfo}).
				WithAttrs([]log.Attr{
					log.String("target_index", cfg.Index),
					log.String("log_token", cfg.Token),
				})

			finalHandler = &teeHandler{local: hStdout, remote: hRemote}
			LogWriter = conn
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		}
	}
	if LogWriter == nil {
		LogWriter = os.Stdout
	}

	logger := log.New(&ContextHandler{finalHandler})
	log.SetDefault(logger)
}

// teeHandler 本地与远端双写，远端只收带 trace_id 的业务日志
type teeHandler struct {
	local  log.Handler
	remote log.Handler
}

func (s *teeHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.local.Enabled(ctx, level)
}

func (s *teeHandler) Handle(ctx context.Context, r log.Record) error {
	if err := s.local.Handle(ctx, r.Clone()); err != nil {
		return err
	}
	traced := false
	r.Attrs(func(a log.Attr) bool {
		if a.Key == TraceIDKey && a.Value.String() != "" {
			traced = true
			return false
		}
		return true
	})
	if !traced {
		return nil
	}
	return s.remote.Handle(ctx, r)
}

func (s *teeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &teeHandler{local: s.local.WithAttrs(attrs), remote: s.remote.WithAttrs(attrs)}
}

func (s *teeHandler) WithGroup(name string) log.Handler {
	return &teeHandler{local: s.local.WithGroup(name), remote: s.remote.WithGroup(name)}
}
