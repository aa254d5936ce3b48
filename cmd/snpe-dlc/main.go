package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/snpe-runtime/config"
	"github.com/wippyai/snpe-runtime/native"
)

// Version is the application version (set via ldflags).
var Version = "dev"

// Run runs the application with the given arguments and streams.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	app := kingpin.New("snpe-dlc", "Inspect and copy SNPE model containers.")
	app.Version(Version)
	root := newRootCommand(app)

	cmds := []command{
		newVersionCommand(root, app),
		newDevicesCommand(root, app),
		newCatalogCommand(root, app),
		newDumpCommand(root, app),
		newCopyCommand(root, app),
		newBrowseCommand(root, app),
	}
	byName := make(map[string]command, len(cmds))
	for _, c := range cmds {
		byName[c.Name()] = c
	}

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	root.stdin = stdin
	root.stdout = stdout
	root.stderr = stderr

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	root.cfg = cfg
	root.logger = newLogger(cfg, stderr)
	defer func() { _ = root.logger.Sync() }()
	native.SetLogger(root.logger.Named("native"))
	defer root.close()

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				root.logger.Debug("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				if err := byName[cmdName].Run(ctx); err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// newLogger builds the CLI logger. Logs go to stderr so they never mix
// with command output.
func newLogger(cfg config.Config, w io.Writer) *zap.Logger {
	var enc zapcore.Encoder
	switch cfg.Log.Format {
	case config.FormatJSON:
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), cfg.Level())
	return zap.New(core).With(zap.String("version", Version))
}

func main() {
	ctx := context.Background()
	if err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
