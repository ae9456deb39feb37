package runtime

// Names of the helpers exported by the runtime module. The compiler emits
// calls to these by name; the wire contract with the runtime is exactly
// these strings.
const (
	Fragment           = "Fragment"
	Teleport           = "Teleport"
	Suspense           = "Suspense"
	OpenBlock          = "openBlock"
	CreateBlock        = "createBlock"
	CreateElementBlock = "createElementBlock"
	CreateVNode        = "createVNode"
	CreateElementVNode = "createElementVNode"
	CreateComment      = "createCommentVNode"
	CreateText         = "createTextVNode"
	CreateStatic       = "createStaticVNode"
	ResolveComponent   = "resolveComponent"
	ResolveDirective   = "resolveDirective"
	WithDirectives     = "withDirectives"
	RenderList         = "renderList"
	ToDisplayString    = "toDisplayString"
	NormalizeClass     = "normalizeClass"
	SetBlockTracking   = "setBlockTracking"
)

// VNodeHelper picks the creation helper for a non-block vnode.
func VNodeHelper(ssr, isComponent bool) string {
	if ssr || isComponent {
		return CreateVNode
	}
	return CreateElementVNode
}

// VNodeBlockHelper picks the creation helper for a block vnode.
func VNodeBlockHelper(ssr, isComponent bool) string {
	if ssr || isComponent {
		return CreateBlock
	}
	return CreateElementBlock
}

// A HelperSet is an ordered multiset of helper names. Insertion preserves
// first-seen order, which later becomes the import / destructuring order in
// generated code. Counts exist so a rewrite (e.g. converting a vnode to a
// block) can retract a use without disturbing other users of the same
// helper.
type HelperSet struct {
	counts map[string]int
	order  []string
}

func NewHelperSet() *HelperSet {
	return &HelperSet{counts: make(map[string]int)}
}

// Helper records a use of name and returns it for convenient inline use.
func (s *HelperSet) Helper(name string) string {
	if _, ok := s.counts[name]; !ok {
		s.order = append(s.order, name)
	}
	s.counts[name]++
	return name
}

// RemoveHelper retracts one use of name, dropping it from the set entirely
// when the count reaches zero.
func (s *HelperSet) RemoveHelper(name string) {
	count, ok := s.counts[name]
	if !ok {
		return
	}
	if count--; count == 0 {
		delete(s.counts, name)
		for i, n := range s.order {
			if n == name {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	} else {
		s.counts[name] = count
	}
}

func (s *HelperSet) Contains(name string) bool {
	_, ok := s.counts[name]
	return ok
}

// Names returns the helper names in first-insertion order.
func (s *HelperSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *HelperSet) Len() int {
	return len(s.order)
}
