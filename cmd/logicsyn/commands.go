package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pborges/logicsyn"
	"github.com/pborges/logicsyn/internal/config"
	"github.com/pborges/logicsyn/internal/diag"
	"github.com/pborges/logicsyn/internal/dnf"
	"github.com/pborges/logicsyn/internal/jed"
	"github.com/pborges/logicsyn/internal/kmap"
	"github.com/pborges/logicsyn/internal/parser"
	"github.com/pborges/logicsyn/internal/pld"
	"github.com/pborges/logicsyn/internal/rpn"
	"github.com/pborges/logicsyn/internal/simplify"
	"github.com/pborges/logicsyn/internal/token"
	"github.com/pborges/logicsyn/internal/truth"
	"github.com/pborges/logicsyn/internal/verify"
)

type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *env) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parseFlags marks bad flags as a usage error.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

// options loads path, or the defaults when path is empty.
func options(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func (e *env) logger(opt config.Options, verbose bool) *diag.Logger {
	l := opt.Logger()
	l.Output = e.stderr
	if verbose && l.Level < diag.DebugLevel {
		l.Level = diag.DebugLevel
	}
	return l
}

// isSet reports whether flag name was given on the command line, so that
// it overrides the config file.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// formulaArg joins the remaining arguments so an unquoted formula such as
// `Out = a * b` still reads as one.
func formulaArg(fs *flag.FlagSet) (token.Formula, error) {
	if fs.NArg() == 0 {
		return token.Formula{}, fmt.Errorf("%w: %s needs a formula", errUsage, fs.Name())
	}
	return parser.Parse(strings.Join(fs.Args(), " "))
}

func (e *env) cmdTruth(args []string) error {
	fs := e.flags("truth")
	cfgPath := fs.String("config", "", "YAML options file")
	maxVars := fs.Int("max", 0, "maximum number of variables")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	opt, err := options(*cfgPath)
	if err != nil {
		return err
	}
	if isSet(fs, "max") {
		opt.MaxVariables = *maxVars
	}
	f, err := formulaArg(fs)
	if err != nil {
		return err
	}
	table, err := truth.TableContext(e.ctx, opt.Truth(), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, table)
	return nil
}

func (e *env) cmdPostfix(args []string) error {
	fs := e.flags("postfix")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	f, err := formulaArg(fs)
	if err != nil {
		return err
	}
	postfix := rpn.ToPostfix(f.Expr)
	fmt.Fprintf(e.stdout, "%s = %s\n", f.Output, postfix.Join(" "))
	infix, err := rpn.ToInfix(postfix)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, f.WithExpr(infix))
	return nil
}

func (e *env) cmdKMap(args []string) error {
	fs := e.flags("kmap")
	cfgPath := fs.String("config", "", "YAML options file")
	and := fs.Bool("and", false, "factor a common literal out of the result")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	opt, err := options(*cfgPath)
	if err != nil {
		return err
	}
	if isSet(fs, "and") {
		opt.Optimize.PreferAndGates = *and
	}
	f, err := formulaArg(fs)
	if err != nil {
		return err
	}
	if n := len(truth.Variables(f.Expr)); n > opt.MaxVariables {
		return fmt.Errorf("%w: %d > %d", truth.ErrTooManyVariables, n, opt.MaxVariables)
	}
	m, err := kmap.Build(f.Expr)
	if err != nil {
		return err
	}

	if err := renderMap(e.stdout, m); err != nil {
		return err
	}

	fmt.Fprintln(e.stdout, kmap.Optimize(f, opt.KMap()))
	return nil
}

// renderMap draws the grid, keeping operand names in their own case.
func renderMap(w io.Writer, m *kmap.Map) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	header := []string{varNames(m.RowVars) + `\` + varNames(m.ColVars)}
	for c := 0; c < m.Cols(); c++ {
		header = append(header, m.ColLabel(c))
	}
	table.Header(header)
	for r := 0; r < m.Rows(); r++ {
		row := []string{m.RowLabel(r)}
		for _, cell := range m.Cells[r] {
			row = append(row, cell.String())
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func varNames(vars []token.Token) string {
	return token.Expression(vars).Join("")
}

func (e *env) cmdSynth(args []string) error {
	fs := e.flags("synth")
	cfgPath := fs.String("config", "", "YAML options file")
	simp := fs.Bool("simplify", true, "apply the rewrite rules")
	useKMap := fs.Bool("kmap", true, "minimize with a Karnaugh map")
	check := fs.Bool("verify", false, "prove each result against its table")
	verbose := fs.Bool("v", false, "log every stage")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: synth needs one table file or -", errUsage)
	}
	opt, err := options(*cfgPath)
	if err != nil {
		return err
	}
	if isSet(fs, "simplify") {
		opt.Simplify.Enabled = *simp
	}
	if isSet(fs, "kmap") {
		opt.Optimize.Enabled = *useKMap
	}
	log := e.logger(opt, *verbose).With("synth")

	text, err := e.readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	outs := dnf.Synthesize(dnf.ParseTable(text))
	if len(outs) == 0 {
		return fmt.Errorf("%s: no rows, or rows of differing widths", fs.Arg(0))
	}

	failed := 0
	for i, o := range outs {
		dcs := o.Assignments()
		f := o.Formula
		log.Stage("output %d: dnf %s", i+1, f)
		if opt.Simplify.Enabled {
			f = simplify.Simplify(f, opt.Rules())
			log.Stage("output %d: simplified %s", i+1, f)
		}
		if opt.Optimize.Enabled {
			f = kmap.OptimizeWithDontCares(f, dcs, opt.KMap())
			log.Stage("output %d: optimized %s", i+1, f)
		}
		fmt.Fprintln(e.stdout, f)

		if !*check {
			continue
		}
		ok, err := verify.Implements(o.Formula, f, dcs)
		if err != nil {
			return fmt.Errorf("output %d: %w", i+1, err)
		}
		if ok {
			fmt.Fprintf(e.stdout, "# output %d: verified\n", i+1)
		} else {
			fmt.Fprintf(e.stdout, "# output %d: MISMATCH\n", i+1)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d outputs failed verification", failed, len(outs))
	}
	return nil
}

func (e *env) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(e.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func (e *env) cmdSat(args []string) error {
	fs := e.flags("sat")
	taut := fs.Bool("taut", false, "test for a tautology instead")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	f, err := formulaArg(fs)
	if err != nil {
		return err
	}
	if *taut {
		ok, err := verify.Tautology(f)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(e.stdout, "tautology")
		} else {
			fmt.Fprintln(e.stdout, "not a tautology")
		}
		return nil
	}

	witness, ok, err := verify.Satisfiable(f)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.stdout, "unsatisfiable")
		return nil
	}
	vars := truth.Variables(f.Expr)
	parts := make([]string, len(vars))
	for i, v := range vars {
		bit := "0"
		if witness[v] {
			bit = "1"
		}
		parts[i] = v.Value + "=" + bit
	}
	fmt.Fprintln(e.stdout, strings.Join(parts, " "))
	return nil
}

func (e *env) cmdJED(args []string) error {
	fs := e.flags("jed")
	cfgPath := fs.String("config", "", "YAML options file")
	device := fs.String("device", "", "target device, GAL16V8 or GAL22V10")
	outPath := fs.String("o", "", "output JED file, stdout when empty")
	tablePath := fs.String("table", "", "truth table file adding one formula per output column")
	sig := fs.String("sig", "", "user signature, up to eight characters")
	secure := fs.Bool("secure", false, "set the security fuse")
	verbose := fs.Bool("v", false, "log pin and term placement")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	opt, err := options(*cfgPath)
	if err != nil {
		return err
	}
	if isSet(fs, "device") {
		opt.Device.Name = *device
	}
	if isSet(fs, "sig") {
		opt.Device.Signature = *sig
	}
	if isSet(fs, "secure") {
		opt.Device.SecurityBit = *secure
	}
	log := e.logger(opt, *verbose)

	var formulas []token.Formula
	for _, src := range fs.Args() {
		f, err := parser.Parse(src)
		if err != nil {
			return fmt.Errorf("%q: %w", src, err)
		}
		formulas = append(formulas, f)
	}
	dontCares := map[string][]truth.Assignment{}
	if *tablePath != "" {
		text, err := e.readInput(*tablePath)
		if err != nil {
			return err
		}
		outs := dnf.Synthesize(dnf.ParseTable(text))
		if len(outs) == 0 {
			return fmt.Errorf("%s: no rows, or rows of differing widths", *tablePath)
		}
		for i, o := range outs {
			f := o.Formula
			if len(outs) > 1 {
				f.Output = token.Var(fmt.Sprintf("%s%d", dnf.OutputName, i+1))
			}
			formulas = append(formulas, f)
			dontCares[f.Output.Value] = o.Assignments()
		}
	}
	if len(formulas) == 0 {
		return fmt.Errorf("%w: jed needs a formula or -table", errUsage)
	}

	res, err := pld.Compile(formulas, pld.Options{
		Device:    opt.Device.Name,
		Signature: opt.Device.Signature,
		Pins:      opt.Device.Pins,
		DontCares: dontCares,
		Log:       log,
	})
	if err != nil {
		return err
	}
	if err := res.Check(formulas); err != nil {
		return fmt.Errorf("fitted device disagrees with its formulas: %w", err)
	}
	for _, o := range res.Outputs {
		log.Info("%s on pin %d: %s", o.Name, o.Pin, o.Expression())
	}

	cfg := jed.Config{
		SecurityBit: opt.Device.SecurityBit,
		Header:      headerLines(res),
	}
	if *outPath == "" {
		return jed.Write(e.stdout, cfg, res.GAL)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := jed.Write(f, cfg, res.GAL); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func headerLines(res *pld.Result) []string {
	lines := []string{
		fmt.Sprintf("%-15s %s", "logicsyn", logicsyn.Version()),
		fmt.Sprintf("%-15s %s", "Device", strings.ToLower(strings.TrimPrefix(res.Chip.Name(), "GAL"))),
	}
	return append(lines, res.PinReport()...)
}
