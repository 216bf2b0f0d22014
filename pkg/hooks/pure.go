package hooks

import "github.com/vango-dev/memokit/pkg/equals"

// pureCell is the slot value of a Pure wrapper: the wrapped component's own
// instance plus the props and output of its last render.
type pureCell[P, R any] struct {
	child    *Instance
	props    P
	out      R
	rendered bool
}

// Pure wraps a component so that it renders only when its props change by
// shallow comparison. See PureWith.
func Pure[P, R any](render func(*Instance, P) R) func(*Instance, P) R {
	return PureWith(render, equals.Shallow)
}

// PureWith wraps a component with a custom props comparator, e.g.
// equals.Deep for stricter memoization at a higher comparison cost.
//
// The wrapped component runs on its own child instance, created on the first
// pass of the parent. On later passes the cached output is returned without
// invoking render when cmp(previous, props) holds and the child has no
// pending state update. A nil cmp means equals.Shallow.
func PureWith[P, R any](render func(*Instance, P) R, cmp equals.Comparator) func(*Instance, P) R {
	if cmp == nil {
		cmp = equals.Shallow
	}

	return func(inst *Instance, props P) R {
		slot := inst.NextSlot(HookPure)

		if slot.Empty() {
			slot.Store(&pureCell[P, R]{child: NewInstance(inst)}, nil)
		}
		cell := slot.Value().(*pureCell[P, R])

		if cell.rendered && !cell.child.Dirty() && cmp(cell.props, props) {
			inst.hookEvaluated(HookPure, true)
			return cell.out
		}

		cell.out = Render(cell.child, func() R {
			return render(cell.child, props)
		})
		cell.props = props
		cell.rendered = true
		inst.hookEvaluated(HookPure, false)
		return cell.out
	}
}
