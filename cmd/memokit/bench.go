package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"testing"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/equals"
	"github.com/vango-dev/memokit/pkg/hooks"
)

// scenario is one benchmark run by memokit bench.
type scenario struct {
	Name        string
	Description string
	Run         func(b *testing.B)
}

type benchNode struct {
	Name string
	Next *benchNode
}

func benchProps() map[string]any {
	return map[string]any{
		"id":    42,
		"label": "save",
		"tags":  []any{"a", "b", "c"},
		"style": map[string]any{"color": "red", "size": 12},
	}
}

func expectEqual(b *testing.B, cmp equals.Comparator, x, y any) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !cmp(x, y) {
			b.Fatal("expected equal")
		}
	}
}

var scenarios = []scenario{
	{
		Name:        "shallow-deps",
		Description: "Shallow on a four element dependency list",
		Run: func(b *testing.B) {
			expectEqual(b, equals.Shallow, hooks.Deps{1, "a", 2.5, true}, hooks.Deps{1, "a", 2.5, true})
		},
	},
	{
		Name:        "shallow-props",
		Description: "Shallow on a props map with shared nested values",
		Run: func(b *testing.B) {
			x := benchProps()
			y := make(map[string]any, len(x))
			for k, v := range x {
				y[k] = v
			}
			expectEqual(b, equals.Shallow, x, y)
		},
	},
	{
		Name:        "deep-props",
		Description: "Deep on two independently built props maps",
		Run: func(b *testing.B) {
			expectEqual(b, equals.Deep, benchProps(), benchProps())
		},
	},
	{
		Name:        "deep-cycle",
		Description: "Deep on two structurally equal cyclic lists",
		Run: func(b *testing.B) {
			x := &benchNode{Name: "a"}
			x.Next = &benchNode{Name: "b", Next: x}
			y := &benchNode{Name: "a"}
			y.Next = &benchNode{Name: "b", Next: y}
			expectEqual(b, equals.Deep, x, y)
		},
	},
	{
		Name:        "memo-hit",
		Description: "Render pass with one UseMemo whose deps are unchanged",
		Run: func(b *testing.B) {
			inst := hooks.NewInstance(nil)
			defer inst.Dispose()
			deps := hooks.Deps{1, "a"}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				hooks.Render(inst, func() int {
					return hooks.UseMemo(inst, func() int { return 1 }, deps)
				})
			}
		},
	},
	{
		Name:        "pure-skip",
		Description: "Render pass where a Pure child is skipped",
		Run: func(b *testing.B) {
			inst := hooks.NewInstance(nil)
			defer inst.Dispose()
			child := hooks.Pure(func(_ *hooks.Instance, p map[string]any) int { return len(p) })
			props := benchProps()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				hooks.Render(inst, func() int { return child(inst, props) })
			}
		},
	},
}

func benchCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "bench [scenario...]",
		Short: "Benchmark the comparators and memo hooks",
		Long: `Run built-in benchmarks and print ns/op and allocations.

With no arguments every scenario runs.

Examples:
  memokit bench
  memokit bench deep-props deep-cycle
  memokit bench --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				listScenarios(os.Stdout)
				return nil
			}
			selected, err := selectScenarios(args)
			if err != nil {
				return err
			}
			runScenarios(os.Stdout, selected)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List scenarios without running them")

	return cmd
}

func selectScenarios(names []string) ([]scenario, error) {
	if len(names) == 0 {
		return scenarios, nil
	}

	byName := make(map[string]scenario, len(scenarios))
	for _, s := range scenarios {
		byName[s.Name] = s
	}

	selected := make([]scenario, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			known := make([]string, 0, len(byName))
			for k := range byName {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, errors.New("E141").
				WithDetailf("No scenario named %q.", name).
				WithSuggestion("Available: " + strings.Join(known, ", "))
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func listScenarios(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range scenarios {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Name, s.Description)
	}
	tw.Flush()
}

func runScenarios(w io.Writer, selected []scenario) {
	// Benchmark reads the -test.* flags, which exist only after Init.
	testing.Init()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "scenario\tns/op\tB/op\tallocs/op\t")
	for _, s := range selected {
		r := testing.Benchmark(s.Run)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n", s.Name, r.NsPerOp(), r.AllocedBytesPerOp(), r.AllocsPerOp())
	}
	tw.Flush()
}
