package hooks

import (
	"reflect"
	"sync"

	"github.com/vango-dev/memokit/internal/errors"
)

// autoCallback holds the latest closure behind a stable forwarder.
type autoCallback struct {
	mu      sync.RWMutex
	current reflect.Value
	forward any
}

func (a *autoCallback) set(fn reflect.Value) {
	a.mu.Lock()
	a.current = fn
	a.mu.Unlock()
}

func (a *autoCallback) latest() reflect.Value {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// UseAutoCallback returns a function that stays the same for the whole life
// of the instance and always calls the fn passed on the most recent pass.
//
// Unlike UseCallback there are no dependencies: the returned reference never
// changes, yet the closure it forwards to always sees current render values.
// F must be a func type. A nil fn makes the forwarder return zero values.
//
//	onClick := hooks.UseAutoCallback(inst, func() { log.Println(count) })
func UseAutoCallback[F any](inst *Instance, fn F) F {
	slot := inst.NextSlot(HookAutoCallback)
	current := reflect.ValueOf(&fn).Elem()

	if !slot.Empty() {
		cb := slot.Value().(*autoCallback)
		cb.set(current)
		inst.hookEvaluated(HookAutoCallback, true)
		return cb.forward.(F)
	}

	ft := reflect.TypeOf((*F)(nil)).Elem()
	if ft.Kind() != reflect.Func {
		panic(errors.New("E006").WithDetailf("UseAutoCallback called with %s.", ft))
	}

	cb := &autoCallback{current: current}
	forward := reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		target := cb.latest()
		if target.IsNil() {
			out := make([]reflect.Value, ft.NumOut())
			for idx := range out {
				out[idx] = reflect.Zero(ft.Out(idx))
			}
			return out
		}
		if ft.IsVariadic() {
			return target.CallSlice(args)
		}
		return target.Call(args)
	})
	cb.forward = forward.Interface()

	slot.Store(cb, nil)
	inst.hookEvaluated(HookAutoCallback, false)
	return cb.forward.(F)
}
