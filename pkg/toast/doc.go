// Package toast provides a single-slot notification widget built on the
// memokit hooks.
//
// A Provider holds the current toast (a message and a Type) and hides it
// automatically after a delay. Its render function is an ordinary hooks
// component:
//
//   - UseReducer holds the State.
//   - UseCallback turns the reducer's dispatch into a stable hide function.
//   - UseMemo builds the debounced hide once, keyed on that function.
//   - UseAutoCallback wraps show-then-schedule-hide behind one stable
//     reference.
//
// # Usage
//
//	p := toast.NewProvider(toast.WithDelay(5 * time.Second))
//	defer p.Close()
//
//	p.Success("Project deleted")
//	p.State() // {Message: "Project deleted", Type: "success"}
//
// Components rendering on their own instance get stable commands with
// UseCommands:
//
//	cmds := toast.UseCommands(inst, p)
//	onSave := hooks.UseCallback(inst, func() { cmds.Show("Saved", toast.TypeSuccess) }, nil)
//
// # Remote Clients
//
// Subscribe delivers a snapshot after every render. Package toasthttp
// exposes a Provider over HTTP and streams snapshots over WebSocket as
// EventName messages.
package toast
