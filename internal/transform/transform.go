package transform

import (
	"strconv"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/handler"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

// A NodeTransform fires when the walker enters a node. It may mutate,
// replace or remove the node; the returned exit function (may be nil) runs
// after all children have been processed, in reverse registration order.
type NodeTransform func(n vuego.Node, cx *Context) ExitFn

// ExitFn is a NodeTransform's deferred exit phase.
type ExitFn func()

// A DirectiveTransform lowers one directive on an element into zero or more
// vnode props.
type DirectiveTransform func(dir *vuego.DirectiveNode, node *vuego.ElementNode, cx *Context) DirectiveTransformResult

type DirectiveTransformResult struct {
	Props []*vuego.Property
	// NeedRuntime keeps the directive around for a runtime counterpart
	// resolved with resolveDirective.
	NeedRuntime bool
}

// Options configure the transform phase.
type Options struct {
	NodeTransforms      []NodeTransform
	DirectiveTransforms map[string]DirectiveTransform
	SSR                 bool
	InSSR               bool
	PrefixIdentifiers   bool
	Flags               vuego.GlobalFlags

	OnError func(*loc.CompilerError)
	OnWarn  func(*loc.CompilerError)
}

// Context is the walker state shared by every transform during one pass
// over the tree.
type Context struct {
	Options
	Root *vuego.RootNode

	helpers    *runtime.HelperSet
	h          *handler.Handler
	components []string
	directives []string
	hoists     []vuego.Node
	cached     []*vuego.CacheExpression
	temps      int

	// positional cursor: the walker holds the parent on an explicit stack
	// and reaches siblings through the parent's child vector.
	parent        vuego.Node
	childIndex    int
	currentNode   vuego.Node
	onNodeRemoved func()
}

func newContext(root *vuego.RootNode, options Options) *Context {
	cx := &Context{
		Options: options,
		Root:    root,
		helpers: runtime.NewHelperSet(),
		h:       handler.NewHandler(root.Source, ""),
	}
	cx.h.Hook(options.OnError, options.OnWarn)
	return cx
}

// Helper records a use of a runtime helper and returns its name.
func (cx *Context) Helper(name string) string {
	return cx.helpers.Helper(name)
}

// RemoveHelper retracts a helper use recorded by a rewrite that has been
// superseded (e.g. converting a vnode call into a block).
func (cx *Context) RemoveHelper(name string) {
	cx.helpers.RemoveHelper(name)
}

// Error reports a transform-time logic error; like parse errors these are
// non-fatal.
func (cx *Context) Error(code loc.ErrorCode, l loc.SourceLocation) {
	cx.h.AppendError(loc.NewError(code, &l))
}

// ReplaceNode swaps the node currently being transformed for another, in
// place in the parent's child vector.
func (cx *Context) ReplaceNode(n vuego.Node) {
	children := childrenOf(cx.parent)
	(*children)[cx.childIndex] = n
	cx.currentNode = n
}

// RemoveNode deletes a node from the current parent: the given one, or the
// current node when nil. The walker will not descend into a removed node.
func (cx *Context) RemoveNode(n vuego.Node) {
	children := childrenOf(cx.parent)
	removalIndex := -1
	if n == nil {
		removalIndex = cx.childIndex
	} else {
		for i, c := range *children {
			if c == n {
				removalIndex = i
				break
			}
		}
	}
	if removalIndex < 0 {
		return
	}
	if n == nil || removalIndex == cx.childIndex {
		// current node removed
		cx.currentNode = nil
		if cx.onNodeRemoved != nil {
			cx.onNodeRemoved()
		}
	} else if cx.childIndex > removalIndex {
		// sibling before the current node removed
		cx.childIndex--
		if cx.onNodeRemoved != nil {
			cx.onNodeRemoved()
		}
	}
	*children = append((*children)[:removalIndex], (*children)[removalIndex+1:]...)
}

// Hoist lifts an expression out of the render function; it is constructed
// once per module load.
func (cx *Context) Hoist(exp vuego.Node) *vuego.SimpleExpressionNode {
	cx.hoists = append(cx.hoists, exp)
	identifier := vuego.NewSimpleExpression(
		"_hoisted_"+strconv.Itoa(len(cx.hoists)), false, loc.StubLoc(), vuego.CanStringify)
	return identifier
}

// Cache wraps an expression in a render-cache slot.
func (cx *Context) Cache(exp vuego.Node, needPauseTracking bool) *vuego.CacheExpression {
	c := &vuego.CacheExpression{
		Index:             len(cx.cached),
		Value:             exp,
		NeedPauseTracking: needPauseTracking,
	}
	cx.cached = append(cx.cached, c)
	return c
}

// childrenOf returns the mutable child vector of nodes that have one.
func childrenOf(n vuego.Node) *[]vuego.Node {
	switch n := n.(type) {
	case *vuego.RootNode:
		return &n.Children
	case *vuego.ElementNode:
		return &n.Children
	case *vuego.IfBranchNode:
		return &n.Children
	case *vuego.ForNode:
		return &n.Children
	}
	return nil
}

// Transform runs the registered transforms over the tree, then finalizes
// the root: codegen node, helper order, asset lists.
func Transform(root *vuego.RootNode, options Options) {
	cx := newContext(root, options)
	cx.traverseNode(root)
	if !options.SSR {
		createRootCodegen(root, cx)
	}
	root.Helpers = cx.helpers.Names()
	root.Components = cx.components
	root.Directives = cx.directives
	root.Hoists = cx.hoists
	root.Cached = cx.cached
	root.Temps = cx.temps
	root.Transformed = true
}

func (cx *Context) traverseNode(node vuego.Node) {
	cx.currentNode = node
	// apply transform plugins
	var exitFns []ExitFn
	for _, t := range cx.NodeTransforms {
		if exit := t(node, cx); exit != nil {
			exitFns = append(exitFns, exit)
		}
		if cx.currentNode == nil {
			// node was removed
			return
		}
		// node may have been replaced
		node = cx.currentNode
	}

	switch node.Kind() {
	case vuego.NodeComment:
		if !cx.SSR {
			// inject import for the Comment symbol, which is needed for
			// creating comment nodes with `createVNode`
			cx.Helper(runtime.CreateComment)
		}
	case vuego.NodeInterpolation:
		// no need to traverse, but we need to inject the toString helper
		if !cx.SSR {
			cx.Helper(runtime.ToDisplayString)
		}
	case vuego.NodeIf:
		// each branch is traversed as its own child
		for _, branch := range node.(*vuego.IfNode).Branches {
			cx.traverseNode(branch)
		}
	case vuego.NodeIfBranch, vuego.NodeFor, vuego.NodeElement, vuego.NodeRoot:
		cx.traverseChildren(node)
	}

	// exit transforms run in reverse order after the children
	cx.currentNode = node
	for i := len(exitFns) - 1; i >= 0; i-- {
		exitFns[i]()
	}
}

func (cx *Context) traverseChildren(parent vuego.Node) {
	children := childrenOf(parent)
	if children == nil {
		return
	}
	i := 0
	for ; i < len(*children); i++ {
		cx.parent = parent
		cx.childIndex = i
		cx.onNodeRemoved = func() { i-- }
		cx.traverseNode((*children)[i])
	}
}

// createStructuralDirectiveTransform builds a NodeTransform that drains the
// directives it matches off the bearing element and rewrites the parent's
// child vector.
func createStructuralDirectiveTransform(
	matches func(name string) bool,
	fn func(node *vuego.ElementNode, dir *vuego.DirectiveNode, cx *Context) ExitFn,
) NodeTransform {
	return func(n vuego.Node, cx *Context) ExitFn {
		el, ok := n.(*vuego.ElementNode)
		if !ok {
			return nil
		}
		// structural directives are consumed; slot templates are handled by
		// their parent component
		var exitFns []ExitFn
		props := el.Props[:0]
		for _, prop := range el.Props {
			if dir, ok := prop.(*vuego.DirectiveNode); ok && matches(dir.Name) {
				if exit := fn(el, dir, cx); exit != nil {
					exitFns = append(exitFns, exit)
				}
				continue
			}
			props = append(props, prop)
		}
		el.Props = props
		if len(exitFns) == 0 {
			return nil
		}
		return func() {
			for _, exit := range exitFns {
				exit()
			}
		}
	}
}

func createRootCodegen(root *vuego.RootNode, cx *Context) {
	children := root.Children
	if len(children) == 1 {
		child := children[0]
		if el, ok := child.(*vuego.ElementNode); ok && el.TagType != vuego.TagSlot && el.CodegenNode != nil {
			// single element root is turned into a block
			if call, ok := el.CodegenNode.(*vuego.VNodeCall); ok {
				convertToBlock(call, cx)
			}
			root.CodegenNode = el.CodegenNode
		} else {
			// single <slot/>, IfNode, ForNode: already blocks.
			// single text node: always patched.
			root.CodegenNode = child
		}
	} else if len(children) > 1 {
		// root has multiple nodes: return a fragment block
		patchFlag := shared.StableFragment
		if cx.Flags.Dev {
			// check if the fragment actually contains a single valid child
			// with the rest being comments
			nonComment := 0
			for _, c := range children {
				if c.Kind() != vuego.NodeComment {
					nonComment++
				}
			}
			if nonComment == 1 {
				patchFlag |= shared.DevRootFragment
			}
		}
		root.CodegenNode = cx.createVNodeCall(
			cx.Helper(runtime.Fragment), nil, children, nil,
			patchFlag, true, false, false, root.Loc)
	}
	// no children: codegen returns null
}

// createVNodeCall builds a vnode call and registers the creation helpers it
// will print with.
func (cx *Context) createVNodeCall(
	tag string, props vuego.Node, children []vuego.Node, child vuego.Node,
	patchFlag shared.PatchFlags, isBlock, disableTracking, isComponent bool,
	l loc.SourceLocation,
) *vuego.VNodeCall {
	if !cx.InSSR {
		if isBlock {
			cx.Helper(runtime.OpenBlock)
			cx.Helper(runtime.VNodeBlockHelper(cx.InSSR, isComponent))
		} else {
			cx.Helper(runtime.VNodeHelper(cx.InSSR, isComponent))
		}
	}
	call := &vuego.VNodeCall{
		Tag:             tag,
		Props:           props,
		Children:        children,
		Child:           child,
		PatchFlag:       patchFlag,
		IsBlock:         isBlock,
		DisableTracking: disableTracking,
		IsComponent:     isComponent,
	}
	call.Loc = l
	return call
}

// convertToBlock upgrades a plain vnode call to a block: the non-block
// creation helper is retracted and the block pair recorded instead.
func convertToBlock(call *vuego.VNodeCall, cx *Context) {
	if call.IsBlock {
		return
	}
	call.IsBlock = true
	cx.RemoveHelper(runtime.VNodeHelper(cx.InSSR, call.IsComponent))
	cx.Helper(runtime.OpenBlock)
	cx.Helper(runtime.VNodeBlockHelper(cx.InSSR, call.IsComponent))
}

// injectProp prepends a synthetic property (e.g. an if-branch key) to a
// vnode call's props.
func injectProp(call *vuego.VNodeCall, prop *vuego.Property, cx *Context) {
	if call.Props == nil {
		obj := vuego.NewObjectExpression([]*vuego.Property{prop}, loc.StubLoc())
		call.Props = obj
		return
	}
	if obj, ok := call.Props.(*vuego.ObjectExpression); ok {
		obj.Properties = append([]*vuego.Property{prop}, obj.Properties...)
	}
}

// getConstantType evaluates how static a node is. Without a hoisting pass
// elements always count as dynamic; expressions carry their own lattice
// value.
func getConstantType(node vuego.Node, cx *Context) vuego.ConstantType {
	switch n := node.(type) {
	case *vuego.TextNode, *vuego.CommentNode:
		return vuego.CanStringify
	case *vuego.SimpleExpressionNode:
		return n.ConstType
	case *vuego.InterpolationNode:
		return getConstantType(n.Content, cx)
	case *vuego.CompoundExpressionNode:
		returnType := vuego.CanStringify
		for _, child := range n.Children {
			if child.Kind() == vuego.NodeRaw {
				// raw source fragments stringify trivially
				continue
			}
			childType := getConstantType(child, cx)
			if childType == vuego.NotConstant {
				return vuego.NotConstant
			}
			if childType < returnType {
				returnType = childType
			}
		}
		return returnType
	}
	return vuego.NotConstant
}
