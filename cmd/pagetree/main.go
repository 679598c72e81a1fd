// Package main is the entry point for the pagetree command.
//
// pagetree loads a document into a page, optionally with a structure
// stream, applies an action script and/or a Lua script to it and prints
// the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/pagetree/internal/app"
	"github.com/dshills/pagetree/internal/engine"
	"github.com/dshills/pagetree/internal/markup"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Dump formats.
const (
	dumpText      = "text"
	dumpSummary   = "summary"
	dumpElements  = "elements"
	dumpStructure = "structure"
	dumpNone      = "none"
)

var errUsage = errors.New("usage")

type cliOptions struct {
	app app.Options

	document  string
	structure string
	script    string
	luaScript string
	pageID    string
	newline   string
	dump      string
	keepGoing bool
	watch     bool

	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "pagetree %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if opts.app.LogOutput == nil {
		opts.app.LogOutput = stderr
	}
	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, application, opts, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("pagetree", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	fs.BoolVar(&opts.app.Verify, "verify", false, "Validate both trees after every edit")
	fs.StringVar(&opts.structure, "structure", "", "Structure record stream (YAML or JSON)")
	fs.StringVar(&opts.structure, "s", "", "Structure record stream (shorthand)")
	fs.StringVar(&opts.script, "actions", "", "Action script: JSON array or one JSON object per line")
	fs.StringVar(&opts.script, "a", "", "Action script (shorthand)")
	fs.StringVar(&opts.luaScript, "lua", "", "Lua script run against the page")
	fs.StringVar(&opts.pageID, "id", "", "Page id (generated when empty)")
	fs.StringVar(&opts.newline, "newline", "", "Force the newline format (lf or crlf)")
	fs.StringVar(&opts.dump, "dump", dumpText, "Output: text, summary, elements, structure or none")
	fs.BoolVar(&opts.keepGoing, "keep-going", false, "Apply every action even after a failure")
	fs.BoolVar(&opts.watch, "watch-config", false, "Keep running and reapply the config file when it changes")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "pagetree - piece table and structure tree page engine\n\n")
		fmt.Fprintf(stderr, "Usage: pagetree [options] [document]\n\n")
		fmt.Fprintf(stderr, "The document is read from stdin when omitted or \"-\".\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  pagetree -dump summary doc.txt\n")
		fmt.Fprintf(stderr, "  pagetree -s doc.yaml -a edits.jsonl -dump elements doc.txt\n")
		fmt.Fprintf(stderr, "  pagetree -lua fix.lua doc.txt\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.showVersion {
		return opts, nil
	}

	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("%w: invalid log level %q (must be debug, info, warn, or error)", errUsage, opts.app.LogLevel)
	}
	switch opts.dump {
	case dumpText, dumpSummary, dumpElements, dumpStructure, dumpNone:
	default:
		return opts, fmt.Errorf("%w: invalid dump format %q", errUsage, opts.dump)
	}
	if opts.newline != "" {
		if _, err := engine.ParseNewline(opts.newline); err != nil {
			return opts, fmt.Errorf("%w: %w", errUsage, err)
		}
	}
	if opts.watch && opts.app.ConfigPath == "" {
		return opts, fmt.Errorf("%w: -watch-config needs -config", errUsage)
	}

	switch fs.NArg() {
	case 0:
		opts.document = "-"
	case 1:
		opts.document = fs.Arg(0)
	default:
		return opts, fmt.Errorf("%w: expected at most one document, got %d", errUsage, fs.NArg())
	}
	return opts, nil
}

// execute loads the document, applies the scripts and writes the dump.
func execute(ctx context.Context, application *app.Application, opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	log := application.Logger().WithComponent("cli")
	store := application.Store()

	text, err := readInput(opts.document, stdin)
	if err != nil {
		return err
	}

	var records []engine.Record
	if opts.structure != "" {
		if records, err = markup.DecodeFile(opts.structure); err != nil {
			return fmt.Errorf("structure %s: %w", opts.structure, err)
		}
	}

	loaded, err := store.Dispatch(app.Action{
		Type:      app.ActionLoad,
		PageID:    opts.pageID,
		Text:      string(text),
		Structure: records,
		Newline:   opts.newline,
	})
	if err != nil {
		return err
	}
	log.WithField("page", loaded.PageID).Debug("document %s loaded", opts.document)

	if opts.script != "" {
		if err := applyActions(store, loaded.PageID, opts.script, opts.keepGoing); err != nil {
			return err
		}
	}

	if opts.luaScript != "" {
		if err := runLua(ctx, application, loaded.PageID, opts.luaScript, stdout); err != nil {
			return fmt.Errorf("lua %s: %w", opts.luaScript, err)
		}
	}

	if err := dump(store, loaded.PageID, opts.dump, stdout); err != nil {
		return err
	}

	if opts.watch {
		log.Info("watching %s", opts.app.ConfigPath)
		return application.WatchConfig(ctx)
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

// applyActions runs an action script against the loaded page. Actions
// without a pageId target it.
func applyActions(store *app.Store, pageID, path string, keepGoing bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open actions: %w", err)
	}
	defer f.Close()

	actions, err := app.DecodeActions(f)
	if err != nil {
		return fmt.Errorf("actions %s: %w", path, err)
	}
	for k := range actions {
		if actions[k].PageID == "" && actions[k].Type != app.ActionLoad {
			actions[k].PageID = pageID
		}
	}
	if _, err := store.DispatchAll(actions, keepGoing); err != nil {
		return fmt.Errorf("actions %s: %w", path, err)
	}
	return nil
}

func dump(store *app.Store, pageID, format string, w io.Writer) error {
	if format == dumpNone {
		return nil
	}
	snap, err := store.Snapshot(pageID)
	if err != nil {
		return err
	}

	switch format {
	case dumpText:
		_, err = io.WriteString(w, snap.Text())
		return err
	case dumpStructure:
		return markup.Encode(w, markup.Records(snap))
	}

	opts := app.SummaryOptions{Elements: format == dumpElements}
	data, err := app.SummaryJSON(snap, opts)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
