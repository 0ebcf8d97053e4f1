package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultOutput keeps logs off stdout, which belongs to the MCP protocol and the console.
const DefaultOutput = "stderr"

// Options tunes the logger built by NewLogger.
type Options struct {
	// Level overrides the env default: debug, info, warn, error.
	Level string
	// Output is "stderr", "stdout" or a file path. Empty means DefaultOutput.
	Output string
}

// NewLogger creates a zap logger for the given environment.
// prod uses JSON output, local/dev/docker use console output.
func NewLogger(env string, opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if opts.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	out := opts.Output
	if out == "" {
		out = DefaultOutput
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
