package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/memokit/internal/errors"
)

// hookRecord records a single hook call for order validation.
type hookRecord struct {
	Type HookType
	File string
	Line int
}

// Instance is one mounted occurrence of a component. It owns an ordered list
// of slots that survive across render passes, and a cursor that is reset at
// the start of every pass.
//
// Instances form a tree mirroring the component tree. Disposing an instance
// disposes its children and discards its slots.
type Instance struct {
	id     uint64
	parent *Instance

	ctx       context.Context
	logger    *slog.Logger
	observer  Observer
	scheduler func(*Instance)

	children   []*Instance
	childrenMu sync.Mutex

	cleanups   []func()
	cleanupsMu sync.Mutex

	disposed atomic.Bool

	// Slot storage, touched only by the instance's own render pass.
	slots     []*Slot
	cursor    int
	rendering atomic.Bool
	dirty     atomic.Bool
	passes    int

	// Per-pass bookkeeping.
	digest    *xxhash.Digest
	kindBuf   [1]byte
	reused    int
	started   time.Time
	finish    func(RenderStats)
	reported  bool
	lastStats RenderStats

	// Order established by the first pass.
	fingerprint   uint64
	hookOrder     []hookRecord
	orderRecorded bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithLogger sets the logger used for hook order warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Instance) {
		i.logger = logger
	}
}

// WithObserver sets the observer notified about render passes and hook
// evaluations.
func WithObserver(o Observer) Option {
	return func(i *Instance) {
		i.observer = o
	}
}

// WithScheduler sets the function called when a state update outside a
// render pass needs the instance to render again.
func WithScheduler(fn func(*Instance)) Option {
	return func(i *Instance) {
		i.scheduler = fn
	}
}

// WithContext sets the context handed to observers, e.g. as the parent of
// render spans.
func WithContext(ctx context.Context) Option {
	return func(i *Instance) {
		i.ctx = ctx
	}
}

// NewInstance creates an instance. A non-nil parent registers the new
// instance as its child; the child inherits the parent's logger, observer,
// scheduler and context unless options override them.
func NewInstance(parent *Instance, opts ...Option) *Instance {
	i := &Instance{
		id:     nextID(),
		parent: parent,
		digest: xxhash.New(),
	}

	if parent != nil {
		i.ctx = parent.ctx
		i.logger = parent.logger
		i.observer = parent.observer
		i.scheduler = parent.scheduler
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.ctx == nil {
		i.ctx = context.Background()
	}
	if i.logger == nil {
		i.logger = slog.Default()
	}
	if i.observer == nil {
		i.observer = nopObserver{}
	}

	if parent != nil {
		parent.addChild(i)
	}

	return i
}

// ID returns the unique identifier for this instance.
func (i *Instance) ID() uint64 {
	return i.id
}

// Parent returns the parent instance, or nil for a root.
func (i *Instance) Parent() *Instance {
	return i.parent
}

// Context returns the context configured for this instance.
func (i *Instance) Context() context.Context {
	return i.ctx
}

// Logger returns the instance logger.
func (i *Instance) Logger() *slog.Logger {
	return i.logger
}

// IsDisposed returns true if the instance has been disposed.
func (i *Instance) IsDisposed() bool {
	return i.disposed.Load()
}

// Rendering reports whether a render pass is in progress.
func (i *Instance) Rendering() bool {
	return i.rendering.Load()
}

// Dirty reports whether state changed since the last pass started.
func (i *Instance) Dirty() bool {
	return i.dirty.Load()
}

// Passes returns the number of completed render passes.
func (i *Instance) Passes() int {
	return i.passes
}

// SlotCount returns the number of slots allocated so far.
func (i *Instance) SlotCount() int {
	return len(i.slots)
}

// Fingerprint returns the xxhash of the hook sequence established by the
// first render pass, or 0 before it completes.
func (i *Instance) Fingerprint() uint64 {
	return i.fingerprint
}

// LastStats returns the statistics of the most recent completed pass.
func (i *Instance) LastStats() RenderStats {
	return i.lastStats
}

func (i *Instance) addChild(child *Instance) {
	i.childrenMu.Lock()
	defer i.childrenMu.Unlock()
	i.children = append(i.children, child)
}

func (i *Instance) removeChild(child *Instance) {
	i.childrenMu.Lock()
	defer i.childrenMu.Unlock()

	for idx, c := range i.children {
		if c == child {
			i.children = append(i.children[:idx], i.children[idx+1:]...)
			return
		}
	}
}

// OnCleanup registers a function to run when the instance is disposed.
// On an already disposed instance fn runs immediately.
func (i *Instance) OnCleanup(fn func()) {
	if i.disposed.Load() {
		fn()
		return
	}

	i.cleanupsMu.Lock()
	defer i.cleanupsMu.Unlock()
	i.cleanups = append(i.cleanups, fn)
}

// Dispose unmounts the instance: children are disposed in reverse order,
// cleanups run in reverse order and the slot list is discarded.
// Calling Dispose more than once is a no-op.
func (i *Instance) Dispose() {
	if i.disposed.Swap(true) {
		return
	}

	if i.parent != nil {
		i.parent.removeChild(i)
	}

	i.childrenMu.Lock()
	children := make([]*Instance, len(i.children))
	copy(children, i.children)
	i.children = nil
	i.childrenMu.Unlock()

	for idx := len(children) - 1; idx >= 0; idx-- {
		children[idx].Dispose()
	}

	i.cleanupsMu.Lock()
	cleanups := i.cleanups
	i.cleanups = nil
	i.cleanupsMu.Unlock()

	for idx := len(cleanups) - 1; idx >= 0; idx-- {
		cleanups[idx]()
	}

	if !i.rendering.Load() {
		i.slots = nil
	}
}

// =============================================================================
// Render passes
// =============================================================================

// StartRender begins a render pass: the slot cursor goes back to zero and
// the dirty flag is cleared.
func (i *Instance) StartRender() {
	if i.disposed.Load() {
		panic(errors.New("E004").WithDetailf("StartRender called on disposed instance %d.", i.id))
	}
	if i.rendering.Swap(true) {
		panic(errors.New("E005").WithDetailf("Instance %d is already rendering.", i.id))
	}

	i.dirty.Store(false)
	i.cursor = 0
	if i.passes == 0 {
		// A first pass that panicked left a partial sequence behind.
		i.hookOrder = i.hookOrder[:0]
	}
	i.reused = 0
	i.reported = false
	i.digest.Reset()
	i.started = time.Now()
	i.finish = i.observer.BeginRender(i)
}

// EndRender closes the current render pass. After the first pass the hook
// sequence is fixed; with order checking enabled a later pass that called a
// different sequence is reported.
func (i *Instance) EndRender() {
	i.endRender(false)
}

func (i *Instance) endRender(aborted bool) {
	if !i.rendering.Load() {
		return
	}

	sum := i.digest.Sum64()
	switch {
	case i.passes == 0 && !aborted:
		i.fingerprint = sum
		i.orderRecorded = orderCheck() != HookOrderOff
	case i.passes > 0 && !aborted && i.orderRecorded && !i.reported && sum != i.fingerprint:
		i.reportOrder(errors.New("E002").WithDetailf(
			"Instance %d: expected %d hooks (fingerprint %016x), got %d (fingerprint %016x).",
			i.id, len(i.hookOrder), i.fingerprint, i.cursor, sum))
	}

	stats := RenderStats{
		Pass:        i.passes,
		Hooks:       i.cursor,
		Reused:      i.reused,
		Fingerprint: sum,
		Duration:    time.Since(i.started),
		Aborted:     aborted,
	}
	if !aborted {
		i.passes++
	}
	i.lastStats = stats

	finish := i.finish
	i.finish = nil
	i.rendering.Store(false)

	if i.disposed.Load() {
		i.slots = nil
	}
	if finish != nil {
		finish(stats)
	}
}

// NextSlot acquires the next slot for the current render pass.
//
// On the first pass a new empty slot is appended and returned. On later
// passes the slot at the same ordinal position is returned. Hook
// implementations call this exactly once per hook call.
func (i *Instance) NextSlot(kind HookType) *Slot {
	if i.disposed.Load() {
		panic(errors.New("E004").WithDetailf("%s hook called on disposed instance %d.", kind, i.id))
	}
	if !i.rendering.Load() {
		panic(errors.New("E001").WithDetailf("%s hook called on instance %d with no active render pass.", kind, i.id))
	}

	idx := i.cursor
	i.cursor++

	i.kindBuf[0] = byte(kind)
	_, _ = i.digest.Write(i.kindBuf[:])

	i.trackHook(idx, kind)

	if idx < len(i.slots) {
		s := i.slots[idx]
		if s.kind != kind {
			panic(errors.New("E003").WithDetailf(
				"Slot %d of instance %d was created by a %s hook and is now requested by a %s hook.",
				idx, i.id, s.kind, kind))
		}
		return s
	}

	s := &Slot{kind: kind}
	i.slots = append(i.slots, s)
	return s
}

// hookEvaluated records whether a hook reused its cached value this pass.
func (i *Instance) hookEvaluated(kind HookType, reused bool) {
	if reused {
		i.reused++
	}
	i.observer.HookEvaluated(i, kind, reused)
}

// markDirty flags the instance for another pass. Outside a render pass the
// scheduler is asked to render; during one, Render re-runs the pass.
func (i *Instance) markDirty() {
	if i.disposed.Load() {
		return
	}
	i.dirty.Store(true)
	if i.rendering.Load() || i.scheduler == nil {
		return
	}
	i.scheduler(i)
}

// =============================================================================
// Dev-mode Hook Order Validation
// =============================================================================

func (i *Instance) trackHook(idx int, kind HookType) {
	mode := orderCheck()
	if mode == HookOrderOff {
		return
	}

	if i.passes == 0 {
		file, line := callSite()
		i.hookOrder = append(i.hookOrder, hookRecord{Type: kind, File: file, Line: line})
		return
	}
	if !i.orderRecorded || i.reported {
		return
	}

	if idx >= len(i.hookOrder) {
		file, line := callSite()
		i.reportOrder(errors.New("E002").
			WithDetailf("Instance %d: extra %s hook at index %d.", i.id, kind, idx).
			WithLocation(file, line, 0))
		return
	}

	expected := i.hookOrder[idx]
	if expected.Type != kind {
		file, line := callSite()
		i.reportOrder(errors.New("E002").
			WithDetailf("Instance %d at index %d: expected %s (first called at %s:%d), got %s.",
				i.id, idx, expected.Type, expected.File, expected.Line, kind).
			WithLocation(file, line, 0).
			WithSuggestion("Call hooks unconditionally and in the same order on every render"))
	}
}

func (i *Instance) reportOrder(err *errors.Error) {
	i.reported = true
	switch orderCheck() {
	case HookOrderWarn:
		i.logger.Warn("hook order changed",
			"error", err.FormatCompact(),
			"instance", i.id,
			"detail", err.Detail,
		)
	case HookOrderPanic:
		// Close the pass so the instance can render again.
		i.endRender(true)
		panic(err)
	}
}

const packagePrefix = "github.com/vango-dev/memokit/pkg/hooks."

// callSite returns the first caller outside this package.
func callSite() (string, int) {
	var pcs [16]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, packagePrefix) {
			return frame.File, frame.Line
		}
		if !more {
			return frame.File, frame.Line
		}
	}
}

// String implements fmt.Stringer for log output.
func (i *Instance) String() string {
	return fmt.Sprintf("Instance(%d)", i.id)
}
