// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalzilio/crocopat"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "", "YAML configuration of the BDD engine")
var closure = flag.String("closure", "", "closure strategy, fixpoint or warshall (overrides the configuration)")
var dot = flag.Bool("dot", false, "print the BDD of the closure in the DOT language")
var count = flag.Bool("count", false, "only print the number of tuples of the closure")
var stats = flag.Bool("stats", false, "print statistics on the BDD engine on the standard error")

// mode selects what we print for the closure.
type mode int

const (
	printTuples mode = iota
	printDot
	printCount
)

var attrs = []string{"X", "Y"}

func main() {
	flag.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), usage, name, name)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	if *closure != "" {
		cfg.Closure = *closure
	}
	m := printTuples
	switch {
	case *count:
		m = printCount
	case *dot:
		m = printDot
	}

	var edges [][2]string
	var quoted []string
	if flag.NArg() > 0 {
		edges, quoted, err = readFiles(flag.Args())
	} else {
		edges, quoted, err = readPairs(os.Stdin)
	}
	if err != nil {
		fail(err)
	}
	var statw io.Writer
	if *stats {
		statw = os.Stderr
	}
	if err := run(cfg, edges, quoted, os.Stdout, m, statw); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "crocopat: %v\n", err)
	os.Exit(1)
}

func loadConfig(p string) (crocopat.Config, error) {
	if p == "" {
		return crocopat.DefaultConfig(), nil
	}
	f, err := os.Open(p)
	if err != nil {
		return crocopat.Config{}, err
	}
	defer f.Close()
	return crocopat.LoadConfig(f)
}

// run computes the closure of edges and prints it on w. When statw is not
// nil, we also write engine statistics on it.
func run(cfg crocopat.Config, edges [][2]string, quoted []string, w io.Writer, m mode, statw io.Writer) (err error) {
	env, err := crocopat.NewEnv(cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, env.Close()) }()

	sym := env.SymTab()
	var values []string
	for _, e := range edges {
		values = append(values, e[0], e[1])
	}
	if err := sym.InitValueUniverse(values); err != nil {
		return err
	}
	for _, v := range quoted {
		sym.SetQuoted(v)
	}
	for _, a := range attrs {
		if err := sym.AddAttribute(a); err != nil {
			return err
		}
	}

	rel := env.False().SetArity(len(attrs))
	defer rel.Release()
	for _, e := range edges {
		y := env.MkAttributeValue(attrs[1], e[1])
		xy := env.MkAttributeValue(attrs[0], e[0]).Intersect(y)
		rel.Unite(xy)
		xy.Release()
		y.Release()
	}
	res := env.Closure(rel, attrs)
	defer res.Release()

	switch m {
	case printCount:
		_, err = fmt.Fprintf(w, "%v\n", res.TupleCount(attrs))
	case printDot:
		err = res.WriteDot(w, attrs)
	default:
		err = res.WriteTuples(w, attrs)
	}
	if err != nil || statw == nil {
		return err
	}
	if _, err := io.WriteString(statw, env.Engine().Stats()); err != nil {
		return err
	}
	return res.WriteBDDInfo(statw)
}

// readFiles parses the files in paths concurrently. Pairs are returned in the
// order of the files.
func readFiles(paths []string) ([][2]string, []string, error) {
	edges := make([][][2]string, len(paths))
	quoted := make([][]string, len(paths))
	var g errgroup.Group
	for k, p := range paths {
		k, p := k, p
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer f.Close()
			edges[k], quoted[k], err = readPairs(f)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	var alle [][2]string
	var allq []string
	for k := range paths {
		alle = append(alle, edges[k]...)
		allq = append(allq, quoted[k]...)
	}
	return alle, allq, nil
}

// readPairs returns the pairs of values in r, together with the values that
// were quoted.
func readPairs(r io.Reader) ([][2]string, []string, error) {
	var edges [][2]string
	var quoted []string
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields, q, err := split(text)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(fields) != 2 {
			return nil, nil, fmt.Errorf("line %d: expected 2 values, found %d", line, len(fields))
		}
		edges = append(edges, [2]string{fields[0], fields[1]})
		quoted = append(quoted, q...)
	}
	return edges, quoted, sc.Err()
}

// split cuts a line into values separated by white space. A value enclosed in
// double quotes may contain spaces; the quotes are removed.
func split(text string) ([]string, []string, error) {
	var fields, quoted []string
	for {
		text = strings.TrimLeft(text, " \t")
		if text == "" {
			return fields, quoted, nil
		}
		if text[0] == '"' {
			end := strings.IndexByte(text[1:], '"')
			if end < 0 {
				return nil, nil, fmt.Errorf("unterminated quoted value %s", text)
			}
			v := text[1 : end+1]
			fields = append(fields, v)
			quoted = append(quoted, v)
			text = text[end+2:]
			continue
		}
		end := strings.IndexAny(text, " \t")
		if end < 0 {
			end = len(text)
		}
		fields = append(fields, text[:end])
		text = text[end:]
	}
}
