package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/config"
	"github.com/wippyai/snpe-runtime/native"
	"github.com/wippyai/snpe-runtime/runtime"
)

// command is a CLI subcommand.
type command interface {
	Name() string
	Run(ctx context.Context) error
}

// loadAPI resolves the SDK. Tests replace it with an in-memory SDK.
var loadAPI = func(path string) (native.API, func(), error) {
	lib, err := native.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return lib, func() { _ = lib.Close() }, nil
}

// rootCommand holds global flags and the state shared by all commands.
type rootCommand struct {
	configPath string
	library    string
	logLevel   string
	logFormat  string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger *zap.Logger

	rt     *runtime.Runtime
	unload func()
}

func newRootCommand(app *kingpin.Application) *rootCommand {
	c := &rootCommand{}

	app.Flag("config", "Path to a YAML configuration file.").Envar("SNPE_DLC_CONFIG").StringVar(&c.configPath)
	app.Flag("library", "Path to the SNPE shared library.").Envar(native.LibraryPathEnv).StringVar(&c.library)
	app.Flag("log-level", "Log level (debug, info, warn, error).").StringVar(&c.logLevel)
	app.Flag("log-format", "Log format.").EnumVar(&c.logFormat, config.FormatConsole, config.FormatJSON)

	return c
}

// loadConfig reads the configuration file, if any, and applies flags on top.
func (c *rootCommand) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, fmt.Errorf("could not load configuration: %w", err)
		}
	}

	if c.library != "" {
		cfg.Library = c.library
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runtime loads the SDK on first use.
func (c *rootCommand) runtime() (*runtime.Runtime, error) {
	if c.rt != nil {
		return c.rt, nil
	}

	path := c.cfg.Library
	if path == "" {
		path = native.LibraryPath()
	}
	api, unload, err := loadAPI(path)
	if err != nil {
		return nil, fmt.Errorf("could not load SNPE library: %w", err)
	}
	c.logger.Debug("SNPE library loaded", zap.String("path", path))

	rt, err := runtime.New(runtime.WithAPI(api), runtime.WithLogger(c.logger.Named("runtime")))
	if err != nil {
		unload()
		return nil, err
	}
	c.rt = rt
	c.unload = unload
	return rt, nil
}

func (c *rootCommand) close() {
	if c.rt != nil {
		c.rt.Close()
		c.rt = nil
	}
	if c.unload != nil {
		c.unload()
		c.unload = nil
	}
}

// openContainer opens a model file the way the flags ask for.
func (c *rootCommand) openContainer(path string, mapped bool) (*runtime.Container, error) {
	format, err := runtime.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("opening container",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Stringer("compression", runtime.CompressionOf(path)),
		zap.Bool("mmap", mapped),
	)
	if mapped {
		if runtime.CompressionOf(path) != runtime.CompressionNone {
			return nil, fmt.Errorf("--mmap cannot be used with compressed file %s", path)
		}
		return rt.OpenMapped(path)
	}
	return rt.Load(path)
}

type versionCommand struct {
	cmd  *kingpin.CmdClause
	root *rootCommand
}

func newVersionCommand(root *rootCommand, app *kingpin.Application) *versionCommand {
	c := &versionCommand{root: root}
	c.cmd = app.Command("version", "Show the SNPE library version.")
	return c
}

func (c *versionCommand) Name() string { return c.cmd.FullCommand() }

func (c *versionCommand) Run(_ context.Context) error {
	rt, err := c.root.runtime()
	if err != nil {
		return err
	}
	v, err := rt.Version()
	if err != nil {
		return fmt.Errorf("could not get version: %w", err)
	}
	printVersion(c.root.stdout, v)

	if want := c.root.cfg.MinSDKVersion; want != "" {
		ok, err := v.AtLeast(want)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("SNPE %s is older than the required %s", v, want)
		}
	}
	return nil
}

type devicesCommand struct {
	cmd  *kingpin.CmdClause
	root *rootCommand
}

func newDevicesCommand(root *rootCommand, app *kingpin.Application) *devicesCommand {
	c := &devicesCommand{root: root}
	c.cmd = app.Command("devices", "List devices and whether the SDK can use them.")
	return c
}

func (c *devicesCommand) Name() string { return c.cmd.FullCommand() }

func (c *devicesCommand) Run(_ context.Context) error {
	rt, err := c.root.runtime()
	if err != nil {
		return err
	}
	filter, err := c.root.cfg.DeviceFilter()
	if err != nil {
		return err
	}

	var rows []deviceRow
	for _, d := range runtime.Devices {
		if filter != nil && !filter[d.Kind] {
			continue
		}
		rows = append(rows, deviceRow{Device: d, Available: rt.IsAvailable(d)})
	}
	return printDevices(c.root.stdout, rows)
}

type catalogCommand struct {
	cmd    *kingpin.CmdClause
	root   *rootCommand
	file   string
	mapped bool
}

func newCatalogCommand(root *rootCommand, app *kingpin.Application) *catalogCommand {
	c := &catalogCommand{root: root}
	c.cmd = app.Command("catalog", "List the records of a container.")
	c.cmd.Arg("file", "Container file (.dlc, optionally .zst or .lz4).").Required().StringVar(&c.file)
	c.cmd.Flag("mmap", "Memory-map the file instead of letting the SDK read it.").BoolVar(&c.mapped)
	return c
}

func (c *catalogCommand) Name() string { return c.cmd.FullCommand() }

func (c *catalogCommand) Run(_ context.Context) error {
	cont, err := c.root.openContainer(c.file, c.mapped)
	if err != nil {
		return fmt.Errorf("could not open container: %w", err)
	}
	defer cont.Close()

	records, err := cont.Catalog()
	if err != nil {
		return fmt.Errorf("could not read catalog: %w", err)
	}

	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow{Name: r.Name(), Size: r.Size()})
		r.Close()
	}
	return printCatalog(c.root.stdout, rows)
}

type dumpCommand struct {
	cmd    *kingpin.CmdClause
	root   *rootCommand
	file   string
	record string
	out    string
}

func newDumpCommand(root *rootCommand, app *kingpin.Application) *dumpCommand {
	c := &dumpCommand{root: root}
	c.cmd = app.Command("dump", "Write the raw bytes of one record.")
	c.cmd.Arg("file", "Container file.").Required().StringVar(&c.file)
	c.cmd.Arg("record", "Record name.").Required().StringVar(&c.record)
	c.cmd.Flag("output", "Output file (default stdout).").Short('o').StringVar(&c.out)
	return c
}

func (c *dumpCommand) Name() string { return c.cmd.FullCommand() }

func (c *dumpCommand) Run(_ context.Context) error {
	cont, err := c.root.openContainer(c.file, false)
	if err != nil {
		return fmt.Errorf("could not open container: %w", err)
	}
	defer cont.Close()

	rec, err := cont.Record(c.record)
	if err != nil {
		return fmt.Errorf("could not get record: %w", err)
	}
	defer rec.Close()

	data, err := rec.Data()
	if err != nil {
		return fmt.Errorf("could not read record: %w", err)
	}

	if c.out == "" {
		_, err = c.root.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.out, data, 0o644); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	c.root.logger.Info("record written",
		zap.String("record", c.record),
		zap.String("path", c.out),
		zap.Int("bytes", len(data)),
	)
	return nil
}

type copyCommand struct {
	cmd  *kingpin.CmdClause
	root *rootCommand
	src  string
	dst  string
}

func newCopyCommand(root *rootCommand, app *kingpin.Application) *copyCommand {
	c := &copyCommand{root: root}
	c.cmd = app.Command("copy", "Re-save a container through the SDK, decompressing it if needed.")
	c.cmd.Arg("src", "Source container file.").Required().StringVar(&c.src)
	c.cmd.Arg("dst", "Destination .dlc file.").Required().StringVar(&c.dst)
	return c
}

func (c *copyCommand) Name() string { return c.cmd.FullCommand() }

func (c *copyCommand) Run(_ context.Context) error {
	cont, err := c.root.openContainer(c.src, false)
	if err != nil {
		return fmt.Errorf("could not open container: %w", err)
	}
	defer cont.Close()

	if err := cont.SaveAtomic(c.dst); err != nil {
		return fmt.Errorf("could not save container: %w", err)
	}
	c.root.logger.Info("container saved", zap.String("src", c.src), zap.String("dst", c.dst))
	return nil
}

type browseCommand struct {
	cmd  *kingpin.CmdClause
	root *rootCommand
	file string
}

func newBrowseCommand(root *rootCommand, app *kingpin.Application) *browseCommand {
	c := &browseCommand{root: root}
	c.cmd = app.Command("browse", "Browse the records of a container interactively.")
	c.cmd.Arg("file", "Container file.").Required().StringVar(&c.file)
	return c
}

func (c *browseCommand) Name() string { return c.cmd.FullCommand() }

func (c *browseCommand) Run(ctx context.Context) error {
	if !isTerminal(c.root.stdout) {
		return fmt.Errorf("browse needs an interactive terminal; use catalog instead")
	}

	cont, err := c.root.openContainer(c.file, false)
	if err != nil {
		return fmt.Errorf("could not open container: %w", err)
	}
	defer cont.Close()

	return runBrowser(ctx, c.file, cont, c.root.stdin, c.root.stdout)
}
