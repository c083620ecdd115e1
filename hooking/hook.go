// Package hooking lets diagnostics observe the search without the search
// knowing about them.
package hooking

// HookPos names the site where a hook is invoked.
type HookPos struct {
	Name string
}

// HookCtx describes one invocation of a hook. Item is the main subject, such
// as a mapping ID, and Detail carries extras.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is implemented by search workers and searches that expose hook
// positions.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// NamedHookable is a Hookable with a name, such as a search worker.
type NamedHookable interface {
	Hookable
	Name() string
}

// A Hook observes a Hookable. It must not change the state of the search.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc turns a function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls the function.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase keeps the hook list of a Hookable. Embed it and call
// InvokeHook at each hook position.
type HookableBase struct {
	hookList []Hook
}

func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook appends a hook. Registering the same hook value twice panics.
// HookFuncs are not comparable and are exempt.
func (h *HookableBase) AcceptHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); !isFunc {
		h.mustNotHaveDuplicatedHook(hook)
	}

	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, registered := range h.hookList {
		_, isFunc := registered.(HookFunc)
		if !isFunc && registered == hook {
			panic("hook registered twice")
		}
	}
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
