package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/java/codebase"
)

// loadConfig reads --config when given, otherwise looks the file up from
// root. It also returns the directory relative source archives are taken from.
func loadConfig(opts *globalOptions, root string) (*config.Config, string, error) {
	if opts.configPath != "" {
		cfg, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, filepath.Dir(opts.configPath), nil
	}
	cfg, path, err := config.Find(root)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return cfg, root, nil
	}
	return cfg, filepath.Dir(path), nil
}

// openProject scans root, the source archives named by the config and the
// JAVA_SRC environment variable, and the config's classpath.
func openProject(opts *globalOptions, root string) (*codebase.Codebase, *config.Config, error) {
	cfg, cfgDir, err := loadConfig(opts, root)
	if err != nil {
		return nil, nil, err
	}
	cb := codebase.New(root, codebase.WithMarkers(cfg.Markers...), codebase.WithIndent(cfg.Indent))
	if err := cb.ScanAll(); err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}

	archives := cfg.SourcePaths(cfgDir)
	if src := os.Getenv("JAVA_SRC"); src != "" {
		archives = append(archives, src)
	}
	for _, err := range cb.ScanDependencies(archives, cfg.ClasspathPaths(cfgDir)) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err)
	}
	return cb, cfg, nil
}

// requestFlags describe the call a method is generated for.
type requestFlags struct {
	root     string
	at       string
	receiver string
	method   string
	returns  string
	args     []string
}

func (f *requestFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.root, "root", ".", "project root to scan for .java files")
	fs.StringVar(&f.at, "at", "", "call site as FILE:LINE:COL; replaces --receiver, --method, --returns and --arg")
	fs.StringVar(&f.receiver, "receiver", "", "class that receives the generated method")
	fs.StringVar(&f.method, "method", "", "name of the method to generate")
	fs.StringVar(&f.returns, "returns", "", "type the call's result is assigned to")
	fs.StringArrayVar(&f.args, "arg", nil, "argument as expr[:type] (repeatable)")
}

func (f *requestFlags) request(snap *codebase.Snapshot, strict bool) (clone.Request, error) {
	if f.at != "" {
		path, line, col, err := codebase.ParseLocation(f.at)
		if err != nil {
			return clone.Request{}, err
		}
		if path, err = filepath.Abs(path); err != nil {
			return clone.Request{}, err
		}
		call, err := snap.CallAt(path, line, col)
		if err != nil {
			return clone.Request{}, err
		}
		return codebase.RequestFromCall(call, clone.Intention{Strict: strict}), nil
	}
	if f.method == "" {
		return clone.Request{}, fmt.Errorf("either --at or --method is required")
	}
	req := clone.Request{
		Receiver:     f.receiver,
		Method:       f.method,
		ExpectedType: f.returns,
		Strict:       strict,
	}
	for _, raw := range f.args {
		req.Arguments = append(req.Arguments, parseArg(raw))
	}
	return req, nil
}

// parseArg splits expr[:type] at the last colon.
func parseArg(raw string) clone.Argument {
	if i := strings.LastIndexByte(raw, ':'); i > 0 {
		return clone.Argument{Expr: strings.TrimSpace(raw[:i]), Type: strings.TrimSpace(raw[i+1:])}
	}
	return clone.Argument{Expr: strings.TrimSpace(raw)}
}
