package hooks

// DevMode enables development-time checks.
// When true and HookOrderCheck is HookOrderOff, hook order violations panic.
//
// Set this at application startup:
//
//	func main() {
//	    hooks.DevMode = os.Getenv("MEMOKIT_DEV") == "1"
//	}
var DevMode = false

// HookOrderMode controls how hook order violations are reported.
type HookOrderMode int

const (
	// HookOrderOff disables order recording. Only slot type mismatches
	// (E003) are caught.
	HookOrderOff HookOrderMode = iota

	// HookOrderWarn logs violations through the instance logger.
	HookOrderWarn

	// HookOrderPanic panics with an E002 error pointing at the call site.
	HookOrderPanic
)

// String returns the mode name as used in configuration files.
func (m HookOrderMode) String() string {
	switch m {
	case HookOrderOff:
		return "off"
	case HookOrderWarn:
		return "warn"
	case HookOrderPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ParseHookOrderMode parses "off", "warn" or "panic".
func ParseHookOrderMode(s string) (HookOrderMode, bool) {
	switch s {
	case "off", "":
		return HookOrderOff, true
	case "warn":
		return HookOrderWarn, true
	case "panic":
		return HookOrderPanic, true
	}
	return HookOrderOff, false
}

// HookOrderCheck is the global hook order validation mode.
// Set it at startup, not while instances are rendering.
var HookOrderCheck = HookOrderOff

// MaxRenderPasses bounds how many times Render re-runs a pass whose own
// state updates keep marking the instance dirty.
const MaxRenderPasses = 25

func orderCheck() HookOrderMode {
	if HookOrderCheck == HookOrderOff && DevMode {
		return HookOrderPanic
	}
	return HookOrderCheck
}
