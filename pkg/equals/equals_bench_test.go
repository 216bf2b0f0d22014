package equals

import "testing"

func benchProps() map[string]any {
	return map[string]any{
		"id":    42,
		"label": "save",
		"tags":  []any{"a", "b", "c"},
		"style": map[string]any{"color": "red", "size": 12},
	}
}

func BenchmarkShallowDeps(b *testing.B) {
	x, y := []any{1, "a", 2.5, true}, []any{1, "a", 2.5, true}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !Shallow(x, y) {
			b.Fatal("expected equal")
		}
	}
}

func BenchmarkShallowMap(b *testing.B) {
	x := benchProps()
	y := make(map[string]any, len(x))
	for k, v := range x {
		y[k] = v
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !Shallow(x, y) {
			b.Fatal("expected equal")
		}
	}
}

func BenchmarkDeepMap(b *testing.B) {
	x, y := benchProps(), benchProps()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !Deep(x, y) {
			b.Fatal("expected equal")
		}
	}
}

func BenchmarkDeepCycle(b *testing.B) {
	x := &node{Name: "a"}
	x.Next = &node{Name: "b", Next: x}
	y := &node{Name: "a"}
	y.Next = &node{Name: "b", Next: y}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !Deep(x, y) {
			b.Fatal("expected equal")
		}
	}
}
