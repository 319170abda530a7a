// Command arbor-shots plays arbor test scripts headlessly against a tree
// loaded from disk and writes the screenshots each script asks for.
//
//	arbor-shots -tree tree.yaml -out shots drag.json collapse.json
//
// Scripts run in parallel, each against its own copy of the tree. With
// -save, the tree as rearranged by each script's drops is written next to
// the screenshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/arbor"
)

type options struct {
	tree       string
	config     string
	out        string
	width      int
	height     int
	save       bool
	debug      bool
	concurrent int
}

func main() {
	var opts options
	flag.StringVar(&opts.tree, "tree", "tree.yaml", "tree nodes file (.json, .yaml or .yml)")
	flag.StringVar(&opts.config, "config", "", "optional YAML config")
	flag.StringVar(&opts.out, "out", "screenshots", "output directory")
	flag.IntVar(&opts.width, "w", 480, "image width")
	flag.IntVar(&opts.height, "h", 640, "image height")
	flag.BoolVar(&opts.save, "save", false, "write the rearranged tree after each script")
	flag.BoolVar(&opts.debug, "debug", false, "print layout timing and warnings")
	flag.IntVar(&opts.concurrent, "j", runtime.NumCPU(), "scripts to run at once")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: arbor-shots [flags] script.json...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(context.Background(), opts, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options, scripts []string) error {
	cfg := arbor.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = arbor.LoadConfig(opts.config); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrent, 1))
	for _, script := range scripts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return play(opts, cfg, script)
		})
	}
	return g.Wait()
}

// play runs one script. The tree is loaded per script so drops in one run
// never leak into another.
func play(opts options, cfg arbor.Config, script string) error {
	roots, err := arbor.LoadTreeNodes[string](opts.tree)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(script)
	if err != nil {
		return fmt.Errorf("read script %s: %w", script, err)
	}
	runner, err := arbor.LoadTestScript(data)
	if err != nil {
		return fmt.Errorf("%s: %w", script, err)
	}

	name := strings.TrimSuffix(filepath.Base(script), filepath.Ext(script))
	dir := filepath.Join(opts.out, name)

	tree := arbor.New(arbor.ToBranches(roots, label)...).
		WithConfig(cfg).
		OnDrop(func(info arbor.DropInfo[string]) {
			if next, ok := arbor.ApplyDrop(roots, info); ok {
				roots = next
			}
		})
	st := arbor.NewState()
	st.SetDebugMode(opts.debug)

	bounds := arbor.Rect{Width: float64(opts.width), Height: float64(opts.height)}
	shots, err := arbor.RunScript(tree, st, bounds, runner, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", script, err)
	}
	for _, p := range shots {
		fmt.Println(p)
	}
	for _, w := range st.Warnings() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", script, w)
	}

	if opts.save {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, "tree"+filepath.Ext(opts.tree))
		if err := arbor.SaveTreeNodes(path, roots); err != nil {
			return err
		}
		if err := arbor.SaveSnapshot(filepath.Join(dir, "state.json"), tree.Snapshot(st)); err != nil {
			return err
		}
	}
	return nil
}

func label(id string) arbor.Content {
	return arbor.NewLabel(id)
}
