package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modpack/bundler/internal/logger"
	"github.com/modpack/bundler/internal/options"
	"github.com/modpack/bundler/pkg/bundle"
)

type buildFlags struct {
	target     string
	outfile    string
	sourceMap  bool
	extractCSS bool
	cssImport  string
	inline     int
	postfix    string
	publicPath string
	defines    []string
	aliases    []string
	regions    []string
}

func newBuildCmd() *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build <entry>",
		Short: "Resolve and compose one entry module's full output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.target, "target", "browser", "emission dialect: browser | nodejs | tpack | requirejs")
	flags.StringVarP(&f.outfile, "outfile", "o", "", "write composed output here instead of stdout")
	flags.BoolVar(&f.sourceMap, "sourcemap", false, "emit a .map file alongside the output (only with --outfile)")
	flags.BoolVar(&f.extractCSS, "extract-css", false, "split require()d CSS into a sibling stylesheet")
	flags.StringVar(&f.cssImport, "css-import", "none", "@import disposition: none | url | inline")
	flags.IntVar(&f.inline, "inline", 0, "inline referenced assets up to this many bytes as data URIs")
	flags.StringVar(&f.postfix, "postfix", "", "string appended to every rewritten URL except require() paths")
	flags.StringVar(&f.publicPath, "public-path", "", "prefix every rewritten URL with this path")
	flags.StringArrayVar(&f.defines, "define", nil, "NAME=VALUE pairs available to #if/#elif expressions")
	flags.StringArrayVar(&f.aliases, "alias", nil, "FROM=TO resolve alias pairs, longest prefix wins")
	flags.StringArrayVar(&f.regions, "region", nil, "NAME=true|false #region enablement pairs")
	return cmd
}

func runBuild(entry string, f *buildFlags) error {
	target, ok := options.ParseTarget(f.target)
	if !ok {
		return fmt.Errorf("invalid --target %q", f.target)
	}

	opts := bundle.Defaults(target)
	opts.Output.SourceMap = f.sourceMap
	opts.ExtractCss = f.extractCSS
	opts.URL.Inline = f.inline
	opts.URL.Postfix = f.postfix
	opts.URL.PublicPath = f.publicPath

	switch f.cssImport {
	case "none":
		opts.Css.Import = options.CssImportNone
	case "url":
		opts.Css.Import = options.CssImportURL
	case "inline":
		opts.Css.Import = options.CssImportInline
	default:
		return fmt.Errorf("invalid --css-import %q", f.cssImport)
	}

	opts.Define = map[string]interface{}{}
	for _, kv := range f.defines {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --define %q, want NAME=VALUE", kv)
		}
		opts.Define[k] = v
	}

	opts.Resolve.Alias = map[string]string{}
	for _, kv := range f.aliases {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --alias %q, want FROM=TO", kv)
		}
		opts.Resolve.Alias[k] = v
	}

	opts.Region = map[string]bool{}
	for _, kv := range f.regions {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --region %q, want NAME=true|false", kv)
		}
		opts.Region[k] = v == "true"
	}

	fs := bundle.NewRealFS()
	absEntry, err := fs.Abs(entry)
	if err != nil {
		return fmt.Errorf("could not resolve %q: %w", entry, err)
	}

	sess := bundle.NewSession(fs, opts)
	options.Validate(opts, sess.Log)
	if sess.Log.HasErrors() {
		return reportDiagnostics(sess)
	}
	mod := bundle.GetModule(sess, absEntry)

	w, err := mod.Save()
	if err != nil {
		return err
	}

	if err := reportDiagnostics(sess); err != nil {
		return err
	}

	out := os.Stdout
	if f.outfile != "" {
		file, err := os.Create(f.outfile)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	if _, err := out.Write(w.Bytes()); err != nil {
		return err
	}

	if f.sourceMap && f.outfile != "" {
		mapJSON, err := w.SourceMapJSON(f.outfile)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.outfile+".map", mapJSON, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// reportDiagnostics prints every accumulated message to stderr in the
// teacher's clang-style format and turns the run into a failure if any of
// them was an error (spec.md §7: "All reports ... are captured into the
// host's file diagnostics").
func reportDiagnostics(sess *bundle.Session) error {
	msgs := sess.Log.Done()
	if len(msgs) == 0 {
		return nil
	}
	colors := logger.ColorsFor(logger.GetTerminalInfo(os.Stderr))
	for _, msg := range msgs {
		fmt.Fprint(os.Stderr, logger.MsgString(colors, msg))
	}
	if sess.Log.HasErrors() {
		return fmt.Errorf("build failed with errors")
	}
	return nil
}
