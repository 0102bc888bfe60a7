package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tabula/tabula/internal/csvio"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/internal/ops"
	"github.com/tabula/tabula/internal/stats"
	"github.com/tabula/tabula/internal/viewer"
	"github.com/tabula/tabula/pkg/types"
)

// commandFunc handles one shell command with its raw argument string.
type commandFunc func(s *Shell, w io.Writer, arg string) error

var commands = map[string]commandFunc{
	"use":       cmdUse,
	"save":      cmdSave,
	"describe":  cmdDescribe,
	"summarize": cmdSummarize,
	"tabulate":  cmdTabulate,
	"generate":  cmdGenerate,
	"replace":   cmdReplace,
	"drop":      cmdDrop,
	"keep":      cmdKeep,
	"rename":    cmdRename,
	"sort":      cmdSort,
	"group":     cmdGroup,
	"regress":   cmdRegress,
	"index":     cmdIndex,
	"lookup":    cmdLookup,
	"list":      cmdList,
	"undo":      cmdUndo,
	"help":      cmdHelp,
}

func cmdUse(s *Shell, w io.Writer, arg string) error {
	if arg == "" {
		return usage("use <file>")
	}
	if err := s.Load(trimQuotes(arg)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Loaded %d vars and %d observations\n",
		len(s.ds.Columns()), s.ds.RowCount())
	return nil
}

func cmdSave(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	if arg == "" {
		return usage("save <file>")
	}
	path := trimQuotes(arg)
	if err := csvio.WriteFile(ds, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved to %s\n", path)
	return nil
}

func cmdDescribe(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	var vars []string
	if arg != "" {
		vars = splitArgs(arg)
	}
	rows, err := stats.Describe(ds, vars)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "var\tN\tmean\tsd\tmin\tp50\tmax")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Var, r.N, r.Mean, r.SD, r.Min, r.Median, r.Max)
	}
	return tw.Flush()
}

func cmdSummarize(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	var vars []string
	if arg != "" {
		vars = splitArgs(arg)
	}
	rows, err := stats.Summarize(ds, vars, nil)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "var\tN\tmean\tsd\tmin\tmax")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Var, r.N, r.Mean, r.SD, r.Min, r.Max)
	}
	return tw.Flush()
}

func cmdTabulate(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	switch len(parts) {
	case 1:
		entries, err := stats.Tabulate(ds, parts[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\tcount\tpercent\n", parts[0])
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\n", types.FormatValue(e.Key), e.Count, e.Percent)
		}
		return tw.Flush()
	case 2:
		entries, err := stats.Crosstab(ds, parts[0], parts[1])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s\tcount\n", parts[0], parts[1])
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\n",
				types.FormatValue(e.Key1), types.FormatValue(e.Key2), e.Count)
		}
		return tw.Flush()
	default:
		return usage("tabulate <var> [var2]")
	}
}

func cmdGenerate(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	name, expression, ok := strings.Cut(arg, "=")
	if !ok {
		return usage("generate <newvar> = <expression>")
	}
	name = strings.TrimSpace(name)
	if err := ops.Generate(ds, name, strings.TrimSpace(expression)); err != nil {
		return err
	}
	fmt.Fprintf(w, "generated %s\n", name)
	return nil
}

func cmdReplace(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	name, rest, ok := strings.Cut(arg, "=")
	if !ok {
		return usage("replace <var> = <expression> [if <condition>]")
	}
	name = strings.TrimSpace(name)
	expression, cond, _ := strings.Cut(rest, " if ")
	if err := ops.Replace(ds, name, strings.TrimSpace(expression), strings.TrimSpace(cond)); err != nil {
		return err
	}
	fmt.Fprintf(w, "replaced %s\n", name)
	return nil
}

func cmdDrop(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	if cond, ok := strings.CutPrefix(arg, "if "); ok {
		if err := ops.DropIf(ds, cond); err != nil {
			return err
		}
	} else {
		if arg == "" {
			return usage("drop <vars...> | drop if <condition>")
		}
		if err := ops.DropColumns(ds, splitArgs(arg)); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "drop completed")
	return nil
}

func cmdKeep(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	if cond, ok := strings.CutPrefix(arg, "if "); ok {
		if err := ops.KeepIf(ds, cond); err != nil {
			return err
		}
		fmt.Fprintln(w, "filtered dataset")
		return nil
	}
	if arg == "" {
		return usage("keep <vars...> | keep if <condition>")
	}
	kept := splitArgs(arg)
	var drop []string
	for _, name := range ds.Columns() {
		found := false
		for _, k := range kept {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			drop = append(drop, name)
		}
	}
	if err := ops.DropColumns(ds, drop); err != nil {
		return err
	}
	fmt.Fprintln(w, "kept subset of variables")
	return nil
}

func cmdRename(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	if len(parts) != 2 {
		return usage("rename <old> <new>")
	}
	if err := ds.RenameColumn(parts[0], parts[1]); err != nil {
		return err
	}
	fmt.Fprintf(w, "renamed %s to %s\n", parts[0], parts[1])
	return nil
}

func cmdSort(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	if len(parts) == 0 {
		return usage("sort <var> [desc]")
	}
	descending := len(parts) > 1 && parts[1] == "desc"
	if err := ds.SortBy(parts[0], descending); err != nil {
		return err
	}
	fmt.Fprintln(w, "dataset sorted")
	return nil
}

func cmdGroup(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	if len(parts) < 2 {
		return usage("group <byvar> <target> [mean|sum|count]")
	}
	agg := "mean"
	if len(parts) > 2 {
		agg = parts[2]
	}
	results, err := ds.GroupAggregate(parts[0], parts[1], agg)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s(%s)\n", parts[0], agg, parts[1])
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.4f\n", types.FormatValue(r.Key), r.Value)
	}
	return tw.Flush()
}

func cmdRegress(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	if len(parts) < 2 {
		return usage("regress <y> <x1> [x2 ...]")
	}
	result, err := stats.Regress(ds, parts[0], parts[1:])
	if err != nil {
		return err
	}
	for i, name := range result.Variables {
		fmt.Fprintf(w, "%-10s coef=%.4f se=%.4f t=%.2f\n",
			name, result.Coefficients[i], result.StdErrors[i], result.TStats[i])
	}
	fmt.Fprintf(w, "R2=%.4f N=%d\n", result.R2, result.N)
	return nil
}

func cmdIndex(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	if arg == "" {
		return usage("index <var>")
	}
	if err := ds.CreateIndex(arg); err != nil {
		return err
	}
	fmt.Fprintf(w, "indexed %s\n", arg)
	return nil
}

func cmdLookup(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	parts := splitArgs(arg)
	if len(parts) != 2 {
		return usage("lookup <var> <value>")
	}
	rows, err := ds.Lookup(parts[0], parts[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", rows)
	return nil
}

func cmdList(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	maxRows := s.cfg.Viewer.MaxRows
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return usage("list [rows]")
		}
		maxRows = n
	}
	return viewer.Render(w, ds, maxRows)
}

func cmdUndo(s *Shell, w io.Writer, arg string) error {
	ds, err := s.requireDataset()
	if err != nil {
		return err
	}
	if ds.Undo() {
		fmt.Fprintln(w, "undo successful")
	} else {
		fmt.Fprintln(w, "nothing to undo")
	}
	return nil
}

func cmdHelp(s *Shell, w io.Writer, arg string) error {
	fmt.Fprintln(w, `Commands:
  use <file>                          load a CSV file
  save <file>                         write the dataset to CSV
  list [rows]                         show the dataset
  describe [vars...]                  per-variable statistics
  summarize [vars...]                 weighted summary statistics
  tabulate <var> [var2]               frequency table
  generate <newvar> = <expr>          derive a new column
  replace <var> = <expr> [if <cond>]  overwrite column values
  drop <vars...> | drop if <cond>     remove columns or rows
  keep <vars...> | keep if <cond>     keep columns or rows
  rename <old> <new>                  rename a column
  sort <var> [desc]                   sort rows by a column
  group <by> <target> [agg]           grouped aggregation
  regress <y> <x1> [x2 ...]           ordinary least squares
  index <var>                         build an equality index
  lookup <var> <value>                indexed point lookup
  undo                                revert the last mutation
  quit                                leave the shell`)
	return nil
}

func usage(text string) error {
	return errors.Newf(errors.ErrCategoryDataset, errors.CodeInvalidArgument,
		"usage: %s", text)
}
