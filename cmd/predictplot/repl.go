package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	predictplot "github.com/aouyang1/go-predictplot"
	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/store"
)

const replHelp = `commands:
  <number>              add a point
  reset                 clear the series
  methods [name, ...]   enable methods by name, comma separated; no names disables all
  all                   enable every method
  show                  print the dataset
  plot <file>           write the chart as html
  help                  print this help
  quit                  exit
`

// repl runs a single session driven by line commands
func repl(ctx context.Context, opt *predictplot.Options, db *store.Store, stdin io.Reader, stdout io.Writer) error {
	var persister predictplot.Persister
	if db != nil {
		persister = db
	}
	s, err := predictplot.NewSession(opt, persister)
	if err != nil {
		return err
	}
	defer s.Wait()

	fmt.Fprintf(stdout, "methods: %s\n", strings.Join(method.Names(), ", "))
	fmt.Fprint(stdout, replHelp)

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(stdout, replHelp)
		case "reset":
			s.Reset()
			fmt.Fprintln(stdout, "series cleared")
		case "all":
			s.SetSelection(method.SelectAll())
			fmt.Fprintf(stdout, "enabled: %s\n", strings.Join(s.Selection().Names(), ", "))
		case "methods":
			sel, err := method.ParseSelection(splitNames(arg))
			if err != nil {
				fmt.Fprintf(stdout, "error: %s\n", err)
				continue
			}
			s.SetSelection(sel)
			fmt.Fprintf(stdout, "enabled: %s\n", strings.Join(sel.Names(), ", "))
		case "show":
			if err := s.Dataset().TablePrint(stdout, "", "  "); err != nil {
				return err
			}
		case "plot":
			if arg == "" {
				fmt.Fprintln(stdout, "error: plot needs a file name")
				continue
			}
			if err := writePlot(arg, s.Dataset()); err != nil {
				fmt.Fprintf(stdout, "error: %s\n", err)
				continue
			}
			fmt.Fprintf(stdout, "wrote %s\n", arg)
		default:
			value, err := strconv.ParseFloat(line, 64)
			if err != nil {
				fmt.Fprintf(stdout, "error: unknown command %q\n", line)
				continue
			}
			obs, err := s.AddPoint(value)
			if err != nil {
				fmt.Fprintf(stdout, "error: %s\n", err)
				continue
			}
			fmt.Fprintf(stdout, "entry %d: %g\n", obs.Index, obs.Value)
			if err := s.Dataset().TablePrint(stdout, "", "  "); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func splitNames(arg string) []string {
	if arg == "" {
		return nil
	}
	parts := strings.Split(arg, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func writePlot(path string, ds predictplot.ChartDataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := predictplot.PlotDataset(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
