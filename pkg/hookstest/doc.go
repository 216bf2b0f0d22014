// Package hookstest provides helpers for testing components built on hooks.
//
// A Harness owns one instance and renders a component against it, so tests
// can drive several passes and assert what was reused:
//
//	h := hookstest.New(t, Counter)
//	calls := &hookstest.Counter{}
//
//	h.Render(Props{ID: 1})
//	h.Render(Props{ID: 1})
//	hookstest.ExpectCount(t, "compute", calls, 1)
//
// ExpectPanicCode checks that hook misuse panics with a given error code.
package hookstest
