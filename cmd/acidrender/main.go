// Command acidrender runs audio files through the oversampled acid filter,
// renders a demo bass line and reports the chain's frequency response.
//
// Usage:
//
//	acidrender render [flags] <input> ...
//	acidrender demo [flags]
//	acidrender response [flags]
//
// Examples:
//
//	acidrender render --out-dir out --cutoff 200 --env-mod 4 loop.wav
//	acidrender render -j 4 --progress --res-lfo 0.25 *.mp3
//	acidrender demo --tempo 128 --bars 8 --resonance 0.9
//	acidrender response --cutoff 800 --resonance 0.5 --freqs 100,800,5000
//	acidrender --config acid.json render take1.ogg
package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-acid/internal/ui"
)

var version = "0.1.0"

// Globals are flags shared by every subcommand.
type Globals struct {
	Version  versionFlag     `short:"v" help:"Show version information and exit."`
	Config   kong.ConfigFlag `short:"c" help:"Load flag defaults from a JSON file."`
	DebugLog string          `name:"debug-log" type:"path" help:"Append trace lines to this file."`

	stdout io.Writer
	trace  *tracer
}

// CLI is the command-line grammar.
type CLI struct {
	Globals

	Render   RenderCmd   `cmd:"" help:"Filter audio files (WAV, MP3, Ogg Vorbis) into WAV files."`
	Demo     DemoCmd     `cmd:"" help:"Synthesise and render a saw bass line."`
	Response ResponseCmd `cmd:"" help:"Print the magnitude response of the filter chain."`
}

type versionFlag bool

// BeforeReset prints the version before required arguments are checked.
func (versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	ui.PrintVersion(app.Stdout, vars["version"])
	app.Exit(0)

	return nil
}

func main() {
	cli := &CLI{}

	ctx := kong.Parse(cli,
		kong.Name("acidrender"),
		kong.Description("Oversampled TB-303 style resonant lowpass renderer"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Configuration(kong.JSON),
	)

	if err := run(ctx, &cli.Globals); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx *kong.Context, globals *Globals) error {
	trace, err := openTracer(globals.DebugLog)
	if err != nil {
		return err
	}
	defer trace.Close()

	globals.stdout = ctx.Stdout
	globals.trace = trace

	return ctx.Run(globals)
}

// tracer writes fmt-formatted lines to an optional file. A nil tracer
// discards everything.
type tracer struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func openTracer(path string) (*tracer, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("debug log: %w", err)
	}

	return &tracer{w: f}, nil
}

func (t *tracer) Logf(format string, args ...any) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *tracer) Close() error {
	if t == nil {
		return nil
	}

	return t.w.Close()
}
