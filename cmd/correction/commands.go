package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cms-nanoAOD/correctionlib/correction"
	"github.com/cms-nanoAOD/correctionlib/registry"
)

func summary(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: correction summary <file> [name]")
	}
	set, err := correction.FromFile(args[0])
	if err != nil {
		return err
	}

	names := set.Names()
	if len(args) > 1 {
		names = []string{args[1]}
	}

	if desc := set.Description(); desc != "" {
		fmt.Printf("%s (schema v%d)\n\n", desc, set.SchemaVersion())
	}
	for _, name := range names {
		corr, err := set.Get(name)
		if err != nil {
			return err
		}
		printCorrection(corr)
	}
	if len(args) == 1 {
		for _, name := range set.CompoundNames() {
			comp, err := set.GetCompound(name)
			if err != nil {
				return err
			}
			fmt.Printf("%s (compound)\n", comp.Name())
			if d := comp.Description(); d != "" {
				fmt.Printf("  %s\n", d)
			}
			fmt.Printf("  inputs: %s\n\n", formatInputs(comp.Inputs()))
		}
	}
	return nil
}

func formatInputs(inputs []correction.Variable) string {
	parts := make([]string, len(inputs))
	for i, v := range inputs {
		parts[i] = fmt.Sprintf("%s (%s)", v.Name(), v.Type())
	}
	return strings.Join(parts, ", ")
}

func printCorrection(corr *correction.Correction) {
	fmt.Printf("%s (v%d)\n", corr.Name(), corr.Version())
	if d := corr.Description(); d != "" {
		fmt.Printf("  %s\n", d)
	}
	s := corr.Summary()
	var counts []string
	for _, node := range []string{"literal", "formula", "formularef", "transform", "hashprng", "binning", "multibinning", "category"} {
		if n := s.NodeCounts[node]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s: %d", node, n))
		}
	}
	fmt.Printf("  nodes: %s\n", strings.Join(counts, ", "))
	for _, v := range corr.Inputs() {
		stats := s.Inputs[v.Name()]
		line := fmt.Sprintf("  input %s (%s)", v.Name(), v.Type())
		if v.Type() == correction.VarReal {
			if !math.IsInf(stats.Min, 1) {
				line += fmt.Sprintf(" range [%g, %g)", stats.Min, stats.Max)
				if stats.Overflow {
					line += ", overflow ok"
				}
			}
			if stats.HasTransform {
				line += ", has transform"
			}
		} else if len(stats.Values) > 0 {
			line += " values: " + strings.Join(stats.Values, ", ")
			if stats.HasDefault {
				line += " (has default)"
			}
		}
		fmt.Println(line)
	}
	fmt.Printf("  output %s (%s)\n\n", corr.Output().Name(), corr.Output().Type())
}

func eval(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: correction eval <file> <name> <values...>")
	}
	set, err := correction.FromFile(args[0])
	if err != nil {
		return err
	}
	name := args[1]
	raw := args[2:]

	corr, err := set.Get(name)
	if err == nil {
		values, perr := parseValues(corr.Inputs(), raw)
		if perr != nil {
			return perr
		}
		result, eerr := corr.Evaluate(values)
		if eerr != nil {
			return eerr
		}
		fmt.Printf("%g\n", result)
		return nil
	}

	comp, cerr := set.GetCompound(name)
	if cerr != nil {
		return err
	}
	values, perr := parseValues(comp.Inputs(), raw)
	if perr != nil {
		return perr
	}
	result, eerr := comp.Evaluate(values)
	if eerr != nil {
		return eerr
	}
	fmt.Printf("%g\n", result)
	return nil
}

func parseValues(inputs []correction.Variable, raw []string) ([]correction.Value, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("expected %d values, got %d", len(inputs), len(raw))
	}
	values := make([]correction.Value, len(raw))
	for i, arg := range raw {
		switch inputs[i].Type() {
		case correction.VarString:
			values[i] = arg
		case correction.VarInt:
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", inputs[i].Name(), err)
			}
			values[i] = n
		default:
			f, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", inputs[i].Name(), err)
			}
			values[i] = f
		}
	}
	return values, nil
}

func validate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: correction validate <file>")
	}
	set, err := correction.FromFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("OK: %d corrections, %d compound\n", set.Len(), len(set.Compound()))
	return nil
}

func registryCmd(args []string) error {
	dbPath := "corrections.db"
	if len(args) >= 2 && args[0] == "-db" {
		dbPath = args[1]
		args = args[2:]
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: correction registry [-db path] add|list|find|rm ...")
	}

	reg, err := registry.Open(dbPath)
	if err != nil {
		return err
	}
	defer reg.Close()
	reg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx := context.Background()
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: correction registry add <file>")
		}
		entry, err := reg.Add(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", entry.ID, entry.Path)
		return nil
	case "list":
		entries, err := reg.List(ctx)
		if err != nil {
			return err
		}
		printEntries(entries)
		return nil
	case "find":
		if len(args) != 2 {
			return fmt.Errorf("usage: correction registry find <name>")
		}
		entries, err := reg.Find(ctx, args[1])
		if err != nil {
			return err
		}
		printEntries(entries)
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: correction registry rm <id-or-path>")
		}
		return reg.Remove(ctx, args[1])
	}
	return fmt.Errorf("unknown registry subcommand: %s", args[0])
}

func printEntries(entries []registry.Entry) {
	for _, e := range entries {
		fmt.Printf("%s  %s (schema v%d, %s)\n", e.ID, e.Path, e.SchemaVersion, e.AddedAt.Format("2006-01-02"))
		for _, c := range e.Corrections {
			if c.Compound {
				fmt.Printf("    %s (compound)\n", c.Name)
			} else {
				fmt.Printf("    %s (v%d)\n", c.Name, c.Version)
			}
		}
	}
}
