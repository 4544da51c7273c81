package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	mantle "github.com/reoring/gomantle"
	"github.com/reoring/gomantle/internal/ctxlog"
	"github.com/reoring/gomantle/transform"
	"github.com/reoring/gomantle/wire"
)

var errUsage = errors.New("invalid usage")

type direction int

const (
	directionDecode direction = iota
	directionEncode
)

type remapConfig struct {
	MapPath    string
	Transforms []string
	Mandatory  []string
	In         string
	From       string
	To         string
	Verbose    bool
}

func remapCmd(ctx context.Context, dir direction, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg := &remapConfig{}
	fs := flag.NewFlagSet("remap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	fs.StringVarP(&cfg.MapPath, "map", "m", "", "YAML key-path map (property: path or [paths])")
	fs.StringArrayVarP(&cfg.Transforms, "transform", "t", nil, "property=transformer (repeatable)")
	fs.StringSliceVar(&cfg.Mandatory, "mandatory", nil, "comma-separated mandatory properties")
	fs.StringVarP(&cfg.In, "in", "i", "-", "input file (- for stdin)")
	fs.StringVar(&cfg.From, "from", "json", "input format: json or yaml")
	fs.StringVar(&cfg.To, "to", "json", "output format: json or yaml")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log recovered properties")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.MapPath == "" {
		fs.Usage()
		return errUsage
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	ctx = ctxlog.WithLogger(ctx, slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	mapped, flat, err := buildTypes(cfg)
	if err != nil {
		return err
	}
	src, dst := mapped, flat
	if dir == directionEncode {
		src, dst = flat, mapped
	}

	raw, err := readInput(cfg.In, stdin)
	if err != nil {
		return err
	}
	tree, err := decodeFormat(cfg.From, raw)
	if err != nil {
		return err
	}
	out, err := remap(ctx, src, dst, tree)
	if err != nil {
		return err
	}
	b, err := encodeFormat(cfg.To, out)
	if err != nil {
		return err
	}
	_, err = stdout.Write(b)
	return err
}

// buildTypes derives two types from the key-path map: one laid out by the map
// and one keyed by property name. Both share transformers and mandatory set.
func buildTypes(cfg *remapConfig) (mapped, flat *mantle.ModelType, err error) {
	data, err := os.ReadFile(cfg.MapPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read key-path map: %w", err)
	}
	km, err := mantle.ParseKeyPathMapYAML(data)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(km))
	for n := range km {
		names = append(names, n)
	}
	sort.Strings(names)

	b := mantle.Type("flat")
	for _, n := range names {
		b.Property(n)
	}
	reg := transform.Predefined()
	for _, spec := range cfg.Transforms {
		prop, name, ok := strings.Cut(spec, "=")
		if !ok || prop == "" || name == "" {
			return nil, nil, fmt.Errorf("transform %q: expected property=transformer", spec)
		}
		t, ok := reg.Lookup(name)
		if !ok {
			return nil, nil, fmt.Errorf("transform %q: unknown transformer %q", spec, name)
		}
		b.Transform(prop, t)
	}
	b.Mandatory(cfg.Mandatory...)
	if flat, err = b.Build(); err != nil {
		return nil, nil, err
	}
	mapped, err = mantle.Type("mapped").Extends(flat).KeyPaths(km).Build()
	if err != nil {
		return nil, nil, err
	}
	return mapped, flat, nil
}

// remap decodes tree with src and re-encodes the values with dst.
func remap(ctx context.Context, src, dst *mantle.ModelType, tree any) (map[string]any, error) {
	d, err := mantle.MustNewAdapter(src).Decode(ctx, tree)
	if err != nil {
		return nil, err
	}
	log := ctxlog.FromContext(ctx)
	for _, w := range d.Warnings {
		log.WarnContext(ctx, "property defaulted", "property", w.Property, "path", w.Path, "code", w.Code)
	}
	m, err := mantle.New(ctx, dst, d.Model.Values())
	if err != nil {
		return nil, err
	}
	return mantle.MustNewAdapter(dst).Encode(ctx, m)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func decodeFormat(format string, data []byte) (any, error) {
	switch format {
	case "json":
		return wire.DecodeJSON(data)
	case "yaml":
		return wire.DecodeYAML(data)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func encodeFormat(format string, tree any) ([]byte, error) {
	switch format {
	case "json":
		b, err := wire.EncodeJSON(tree)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "yaml":
		return wire.EncodeYAML(tree)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func predefinedNames() []string { return transform.Predefined().Names() }
