package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const otelName = "github.com/hyperledger-labs/yui-relay-core/log"

type RelayLogger struct {
	*slog.Logger
}

var relayLogger *RelayLogger

func InitLogger(logLevel, format, output string, enableTelemetry bool) error {
	// output
	var writer io.Writer
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		return errors.New("invalid log output")
	}

	return InitLoggerWithWriter(logLevel, format, writer, enableTelemetry)
}

func InitLoggerWithWriter(logLevel, format string, writer io.Writer, enableTelemetry bool) error {
	// level
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return errors.Wrapf(err, "invalid log level: %s", logLevel)
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: true,
	}

	// format
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(writer, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		return errors.New("invalid log format")
	}

	if enableTelemetry {
		handler = slogmulti.Fanout(
			handler,
			&levelHandler{level: slogLevel, Handler: otelslog.NewHandler(otelName)},
		)
	}

	// set global logger
	relayLogger = &RelayLogger{slog.New(handler)}
	return nil
}

// GetLogger returns the global logger.
// If InitLogger has not been called, it falls back to the default logger of slog.
func GetLogger() *RelayLogger {
	if relayLogger == nil {
		return &RelayLogger{slog.Default()}
	}
	return relayLogger
}

func (rl *RelayLogger) Error(msg string, err error, otherArgs ...any) {
	rl.log(context.Background(), slog.LevelError, 1, msg, withErrorArgs(err, otherArgs)...)
}

func (rl *RelayLogger) ErrorContext(ctx context.Context, msg string, err error, otherArgs ...any) {
	rl.log(ctx, slog.LevelError, 1, msg, withErrorArgs(err, otherArgs)...)
}

func (rl *RelayLogger) Fatal(msg string, err error, otherArgs ...any) {
	rl.log(context.Background(), slog.LevelError+4, 1, msg, withErrorArgs(err, otherArgs)...)
	os.Exit(1)
}

func (rl *RelayLogger) FatalContext(ctx context.Context, msg string, err error, otherArgs ...any) {
	rl.log(ctx, slog.LevelError+4, 1, msg, withErrorArgs(err, otherArgs)...)
	os.Exit(1)
}

func withErrorArgs(err error, otherArgs []any) []any {
	if err == nil {
		return otherArgs
	}
	stack := errors.WithStackDepth(err, 2)
	args := []any{
		"error", err,
		"stack", fmt.Sprintf("%+v", stack),
	}
	return append(args, otherArgs...)
}

// log records a message with the source of the caller `depth` frames above log's caller
func (rl *RelayLogger) log(ctx context.Context, level slog.Level, depth int, msg string, args ...any) {
	if !rl.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(2+depth, pcs[:]) // skip [Callers, log]
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = rl.Handler().Handle(ctx, r)
}

func (rl *RelayLogger) WithChain(chainID string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"chain_id", chainID,
		),
	}
}

func (rl *RelayLogger) WithChainPair(srcChainID, dstChainID string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"src_chain_id", srcChainID,
			"dst_chain_id", dstChainID,
		),
	}
}

func (rl *RelayLogger) WithClient(chainID, clientID string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"chain_id", chainID,
			"client_id", clientID,
		),
	}
}

func (rl *RelayLogger) WithChannelPair(
	srcChainID, srcPortID, srcChannelID string,
	dstChainID, dstPortID, dstChannelID string,
) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"src_chain_id", srcChainID,
			"src_port_id", srcPortID,
			"src_channel_id", srcChannelID,
			"dst_chain_id", dstChainID,
			"dst_port_id", dstPortID,
			"dst_channel_id", dstChannelID,
		),
	}
}

func (rl *RelayLogger) WithModule(moduleName string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"module", moduleName,
		),
	}
}

// TimeTrack logs the time elapsed since `start` at the debug level.
//
//	defer logger.TimeTrack(time.Now(), "relay_packets")
func (rl *RelayLogger) TimeTrack(start time.Time, name string, otherArgs ...any) {
	elapsed := time.Since(start)
	args := append([]any{"name", name, "elapsed", elapsed.Nanoseconds()}, otherArgs...)
	rl.log(context.Background(), slog.LevelDebug, 1, "time track", args...)
}

// levelHandler drops records below `level` before they reach the wrapped handler.
type levelHandler struct {
	level slog.Level
	slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, Handler: h.Handler.WithGroup(name)}
}
