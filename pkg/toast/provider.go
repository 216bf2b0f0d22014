package toast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/memokit/pkg/hooks"
)

// DefaultDelay is how long a toast stays visible.
const DefaultDelay = 3 * time.Second

// Commands are the stable show and hide functions of a Provider.
type Commands struct {
	Show func(message string, t Type)
	Hide func()
}

// Option configures a Provider.
type Option func(*Provider)

// WithDelay sets how long a toast stays visible. Non-positive values are
// ignored.
func WithDelay(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithLogger sets the logger for the provider and its instance.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInstanceOptions passes options to the provider's hooks.Instance,
// e.g. hooks.WithObserver for telemetry.
func WithInstanceOptions(opts ...hooks.Option) Option {
	return func(p *Provider) {
		p.instOpts = append(p.instOpts, opts...)
	}
}

// Provider owns the toast state. Show and Hide may be called from any
// goroutine; each state change renders the provider synchronously on the
// calling goroutine.
type Provider struct {
	inst     *hooks.Instance
	logger   *slog.Logger
	delay    time.Duration
	instOpts []hooks.Option

	// mu serializes render passes and guards state and version.
	mu      sync.Mutex
	state   State
	version uint64

	cmdsOnce sync.Once
	cmds     Commands

	subsMu sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	mu      sync.Mutex
	fn      func(State)
	version uint64
}

// deliver calls fn unless a newer snapshot was already delivered.
func (s *subscriber) deliver(state State, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version <= s.version {
		return
	}
	s.version = version
	s.fn(state)
}

// NewProvider creates a provider and runs its first render.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		logger: slog.Default(),
		delay:  DefaultDelay,
		subs:   make(map[uint64]*subscriber),
	}
	for _, opt := range opts {
		opt(p)
	}

	instOpts := []hooks.Option{hooks.WithLogger(p.logger)}
	instOpts = append(instOpts, p.instOpts...)
	instOpts = append(instOpts, hooks.WithScheduler(func(*hooks.Instance) { p.render() }))
	p.inst = hooks.NewInstance(nil, instOpts...)

	p.render()
	return p
}

// component is the provider's render function.
func (p *Provider) component(inst *hooks.Instance) State {
	state, dispatch := hooks.UseReducer(inst, Reduce, State{})

	hide := hooks.UseCallback(inst, func() {
		dispatch(HideAction())
	}, hooks.Deps{dispatch})

	hideAfter := hooks.UseMemo(inst, func() *Debouncer {
		d := NewDebouncer(p.delay, hide)
		inst.OnCleanup(d.Stop)
		return d
	}, hooks.Deps{hide})

	show := hooks.UseAutoCallback(inst, func(message string, t Type) {
		dispatch(ShowAction(message, t))
		hideAfter.Trigger()
	})

	cmds := hooks.UseMemo(inst, func() Commands {
		return Commands{Show: show, Hide: hide}
	}, nil)
	p.cmdsOnce.Do(func() { p.cmds = cmds })

	return state
}

// render runs a pass and notifies subscribers when the state changed.
func (p *Provider) render() {
	p.mu.Lock()
	if p.inst.IsDisposed() {
		p.mu.Unlock()
		return
	}
	state := hooks.Render(p.inst, func() State {
		return p.component(p.inst)
	})
	changed := p.version == 0 || state != p.state
	if changed {
		p.state = state
		p.version++
	}
	version := p.version
	p.mu.Unlock()

	if !changed {
		return
	}
	p.logger.Debug("toast rendered",
		"instance", p.inst.ID(),
		"visible", state.Visible(),
		"type", string(state.Type),
	)

	for _, sub := range p.subscribers() {
		sub.deliver(state, version)
	}
}

func (p *Provider) subscribers() []*subscriber {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	list := make([]*subscriber, 0, len(p.subs))
	for _, sub := range p.subs {
		list = append(list, sub)
	}
	return list
}

// Commands returns the provider's stable show and hide functions.
func (p *Provider) Commands() Commands {
	return p.cmds
}

// Show displays message and schedules it to be hidden after the delay.
// Showing again restarts the delay.
func (p *Provider) Show(message string, t Type) {
	if p.inst.IsDisposed() {
		p.logger.Debug("toast provider closed, dropping show", "type", string(t))
		return
	}
	p.cmds.Show(message, t)
}

// Hide clears the toast immediately.
func (p *Provider) Hide() {
	p.cmds.Hide()
}

// Success shows a success toast.
//
//	p.Success("Changes saved!")
func (p *Provider) Success(message string) {
	p.Show(message, TypeSuccess)
}

// Error shows an error toast.
//
//	p.Error("Failed to delete item")
func (p *Provider) Error(message string) {
	p.Show(message, TypeError)
}

// Warning shows a warning toast.
//
//	p.Warning("This action cannot be undone")
func (p *Provider) Warning(message string) {
	p.Show(message, TypeWarning)
}

// Info shows an info toast.
//
//	p.Info("New features available")
func (p *Provider) Info(message string) {
	p.Show(message, TypeInfo)
}

// State returns the state of the latest render.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Delay returns the auto-hide delay.
func (p *Provider) Delay() time.Duration {
	return p.delay
}

// Instance returns the hooks instance the provider renders on.
func (p *Provider) Instance() *hooks.Instance {
	return p.inst
}

// Subscribe registers fn to receive the state after every render that
// changed it. fn runs on the goroutine that caused the change and must not
// block or call back into the provider. The returned function unsubscribes.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.subsMu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[id] = &subscriber{fn: fn}
	p.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subsMu.Lock()
			delete(p.subs, id)
			p.subsMu.Unlock()
		})
	}
}

// Close stops the auto-hide timer and disposes the provider's instance.
// Subscribers receive nothing further. Close is idempotent.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inst.Dispose()

	p.subsMu.Lock()
	clear(p.subs)
	p.subsMu.Unlock()
}
