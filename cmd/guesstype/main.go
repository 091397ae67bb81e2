// Command guesstype runs the variable-type guessing pass over a yaml
// fixture and prints every bucket the pass produced. It exists so the
// pass can be exercised end to end without a real parser or symbol
// table: the fixture format stands in for both, the way peac's -root
// flag stands in for a real build system's module loader.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/corelang/typeguess/guess"
	"github.com/corelang/typeguess/resolve"
	"gopkg.in/yaml.v3"
)

var v = flag.Bool("v", false, "print instance_vars_outside and initialize info in addition to guessed types")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		usage("a fixture path is required")
	}
	if err := run(args[0]); err != nil {
		die("%s", err)
	}
}

func usage(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
	fmt.Fprintf(os.Stderr, "guesstype [flags] <fixture.yaml>\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func die(f string, vs ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", vs...)
	os.Exit(1)
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	prog, st, err := fx.build()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	result, err := guess.Run(prog, st)
	if err != nil {
		return err
	}
	printResult(os.Stdout, result, st, *v)
	return nil
}

func printResult(w *os.File, r *guess.Result, st *resolve.StaticTable, verbose bool) {
	names := func(m map[string]*guess.TypeInfo) []string {
		ns := make([]string, 0, len(m))
		for n := range m {
			ns = append(ns, n)
		}
		sort.Strings(ns)
		return ns
	}

	if len(r.Globals) > 0 {
		fmt.Fprintln(w, "globals:")
		for _, n := range names(r.Globals) {
			ti := r.Globals[n]
			fmt.Fprintf(w, "  %s : %s\n", n, ti.Type)
		}
	}

	owners := st.Owners()
	for _, o := range owners {
		cv := r.ClassVars[o]
		iv := r.GuessedInstanceVars[o]
		errs := r.Errors[o]
		if len(cv) == 0 && len(iv) == 0 && len(errs) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", o.OwnerName())
		for _, n := range names(cv) {
			fmt.Fprintf(w, "  @@%s : %s\n", n, cv[n].Type)
		}
		ivNames := make([]string, 0, len(iv))
		for n := range iv {
			ivNames = append(ivNames, n)
		}
		sort.Strings(ivNames)
		for _, n := range ivNames {
			info := iv[n]
			fmt.Fprintf(w, "  @%s :", n)
			for _, e := range info.TypeVars {
				fmt.Fprintf(w, " %s", e)
			}
			fmt.Fprintln(w)
		}
		errNames := make([]string, 0, len(errs))
		for n := range errs {
			errNames = append(errNames, n)
		}
		sort.Strings(errNames)
		for _, n := range errNames {
			fmt.Fprintf(w, "  @%s : error, disallowed type %s\n", n, errs[n].Offending)
		}
		if verbose {
			if s := r.InstanceVarsOutside[o]; s != nil && len(s.Names()) > 0 {
				fmt.Fprintf(w, "  outside: %v\n", s.Names())
			}
			for _, ii := range r.InitializeInfos[o] {
				fmt.Fprintf(w, "  initialize: %v\n", ii.InstanceVars)
			}
		}
	}
}
