package vuego

import (
	"strconv"

	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/shared"
)

// A NodeType tags every node of the template AST and the codegen IR. The set
// is closed; consumers dispatch with a type switch and treat unknown kinds
// as a bug.
type NodeType uint32

const (
	NodeRoot NodeType = iota
	NodeElement
	NodeText
	NodeComment
	NodeSimpleExpression
	NodeInterpolation
	NodeAttribute
	NodeDirective
	NodeCompoundExpression
	NodeIf
	NodeIfBranch
	NodeFor
	NodeTextCall

	// codegen
	NodeVNodeCall
	NodeCallExpression
	NodeObjectExpression
	NodeProperty
	NodeArrayExpression
	NodeFunctionExpression
	NodeConditionalExpression
	NodeCacheExpression
	NodeTemplateLiteral
	NodeRaw
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "Root"
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeComment:
		return "Comment"
	case NodeSimpleExpression:
		return "SimpleExpression"
	case NodeInterpolation:
		return "Interpolation"
	case NodeAttribute:
		return "Attribute"
	case NodeDirective:
		return "Directive"
	case NodeCompoundExpression:
		return "CompoundExpression"
	case NodeIf:
		return "If"
	case NodeIfBranch:
		return "IfBranch"
	case NodeFor:
		return "For"
	case NodeTextCall:
		return "TextCall"
	case NodeVNodeCall:
		return "VNodeCall"
	case NodeCallExpression:
		return "CallExpression"
	case NodeObjectExpression:
		return "ObjectExpression"
	case NodeProperty:
		return "Property"
	case NodeArrayExpression:
		return "ArrayExpression"
	case NodeFunctionExpression:
		return "FunctionExpression"
	case NodeConditionalExpression:
		return "ConditionalExpression"
	case NodeCacheExpression:
		return "CacheExpression"
	case NodeTemplateLiteral:
		return "TemplateLiteral"
	case NodeRaw:
		return "Raw"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Namespace of an element, switching per the host document language rules.
type Namespace uint32

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMathML
)

// ElementTagType is the classification assigned to an element when its close
// tag (or implied close) is processed.
type ElementTagType uint32

const (
	TagElement ElementTagType = iota
	TagComponent
	TagSlot
	TagTemplate
)

// ConstantType is the static-ness lattice used to decide caching and
// stringification eligibility. Higher values strictly imply lower ones.
type ConstantType int

const (
	NotConstant ConstantType = iota
	CanSkipPatch
	CanCache
	CanStringify
)

// Node is the closed union over template AST and codegen IR nodes.
type Node interface {
	Kind() NodeType
	Location() *loc.SourceLocation
}

// baseNode carries the source range every node has.
type baseNode struct {
	Loc loc.SourceLocation
}

func (n *baseNode) Location() *loc.SourceLocation { return &n.Loc }

// RootNode owns the tree plus everything the transforms accumulate for the
// code generator: helper order, asset lists, hoists, cache slots and temps.
type RootNode struct {
	baseNode
	Children []Node
	Source   string

	// populated by the transform phase
	Helpers     []string
	Components  []string
	Directives  []string
	Hoists      []Node
	Cached      []*CacheExpression
	Temps       int
	CodegenNode Node
	Transformed bool
}

func (n *RootNode) Kind() NodeType { return NodeRoot }

type ElementNode struct {
	baseNode
	NS          Namespace
	Tag         string
	TagType     ElementTagType
	Props       []Node // *AttributeNode | *DirectiveNode
	Children    []Node
	SelfClosing bool

	CodegenNode    Node
	SSRCodegenNode Node
}

func (n *ElementNode) Kind() NodeType { return NodeElement }

type TextNode struct {
	baseNode
	Content string
}

func (n *TextNode) Kind() NodeType { return NodeText }

type CommentNode struct {
	baseNode
	Content string
}

func (n *CommentNode) Kind() NodeType { return NodeComment }

type InterpolationNode struct {
	baseNode
	Content Node // *SimpleExpressionNode | *CompoundExpressionNode
}

func (n *InterpolationNode) Kind() NodeType { return NodeInterpolation }

// SimpleExpressionNode is an opaque expression string. AST optionally holds
// a parsed form attached by the expression layer; the compiler itself never
// evaluates it.
type SimpleExpressionNode struct {
	baseNode
	Content      string
	Static       bool
	ConstType    ConstantType
	IsHandlerKey bool
	AST          interface{}
}

func (n *SimpleExpressionNode) Kind() NodeType { return NodeSimpleExpression }

// CompoundExpressionNode concatenates expressions, text, interpolations and
// raw source fragments (RawNode) into one expression.
type CompoundExpressionNode struct {
	baseNode
	Children []Node
}

func (n *CompoundExpressionNode) Kind() NodeType { return NodeCompoundExpression }

// RawNode is a fragment of output emitted verbatim: the ` + ` joiners of
// compound expressions, patch flag arguments, pre-rendered literals.
type RawNode struct {
	baseNode
	Text string
}

func (n *RawNode) Kind() NodeType { return NodeRaw }

type AttributeNode struct {
	baseNode
	Name    string
	NameLoc loc.SourceLocation
	Value   *TextNode
}

func (n *AttributeNode) Kind() NodeType { return NodeAttribute }

type DirectiveNode struct {
	baseNode
	// Name is the normalized directive name without the `v-` prefix; the
	// shorthands `:` `@` `#` `.` normalize to bind/on/slot/bind.
	Name    string
	RawName string
	Exp     Node // *SimpleExpressionNode | *CompoundExpressionNode
	Arg     Node
	// Modifiers after the argument; `.prop` shorthand injects "prop".
	Modifiers []*SimpleExpressionNode

	ForParseResult *ForParseResult
}

func (n *DirectiveNode) Kind() NodeType { return NodeDirective }

type IfNode struct {
	baseNode
	Branches    []*IfBranchNode
	CodegenNode Node
}

func (n *IfNode) Kind() NodeType { return NodeIf }

type IfBranchNode struct {
	baseNode
	Condition    Node // nil for v-else
	Children     []Node
	UserKey      Node // *AttributeNode | *DirectiveNode
	IsTemplateIf bool
}

func (n *IfBranchNode) Kind() NodeType { return NodeIfBranch }

type ForNode struct {
	baseNode
	Source      Node
	ValueAlias  Node
	KeyAlias    Node
	IndexAlias  Node
	ParseResult *ForParseResult
	Children    []Node
	CodegenNode *VNodeCall
}

func (n *ForNode) Kind() NodeType { return NodeFor }

// ForParseResult is the decomposition of a `v-for` attribute value. Aliases
// are positional; absent positions stay nil.
type ForParseResult struct {
	Source    Node
	Value     Node
	Key       Node
	Index     Node
	Finalized bool
}

// TextCallNode replaces a text-ish child lowered to createTextVNode(...).
type TextCallNode struct {
	baseNode
	Content     Node // *TextNode | *InterpolationNode | *CompoundExpressionNode
	CodegenNode Node
}

func (n *TextCallNode) Kind() NodeType { return NodeTextCall }

// VNodeCall is the codegen shape of one vnode creation. Tag is a quoted
// string literal (`"div"`), a resolved asset id (`_component_foo`), or the
// name of a runtime helper symbol.
// Exactly one of Children (printed as an array) and Child (printed inline:
// text fast path, renderList call) is set, or neither.
type VNodeCall struct {
	baseNode
	Tag             string
	Props           Node
	Children        []Node
	Child           Node
	PatchFlag       shared.PatchFlags
	Directives      *ArrayExpression
	IsBlock         bool
	DisableTracking bool
	IsComponent     bool
}

func (n *VNodeCall) Kind() NodeType { return NodeVNodeCall }

// CallExpression calls either a runtime helper (Callee resolved through the
// helper alias table) or a plain identifier.
type CallExpression struct {
	baseNode
	Callee       string
	CalleeHelper bool
	Args         []Node
}

func (n *CallExpression) Kind() NodeType { return NodeCallExpression }

type ObjectExpression struct {
	baseNode
	Properties []*Property
}

func (n *ObjectExpression) Kind() NodeType { return NodeObjectExpression }

type Property struct {
	baseNode
	Key   Node // *SimpleExpressionNode | *CompoundExpressionNode
	Value Node
}

func (n *Property) Kind() NodeType { return NodeProperty }

type ArrayExpression struct {
	baseNode
	Elements []Node
}

func (n *ArrayExpression) Kind() NodeType { return NodeArrayExpression }

// FunctionExpression is an arrow function: the v-for iterator, or a slot
// body. With Newline set the body prints as a block with an explicit
// return; otherwise it prints inline.
type FunctionExpression struct {
	baseNode
	Params  []Node
	Returns Node
	Newline bool
}

func (n *FunctionExpression) Kind() NodeType { return NodeFunctionExpression }

type ConditionalExpression struct {
	baseNode
	Test       Node
	Consequent Node
	Alternate  Node
	Newline    bool
}

func (n *ConditionalExpression) Kind() NodeType { return NodeConditionalExpression }

type CacheExpression struct {
	baseNode
	Index             int
	Value             Node
	NeedPauseTracking bool
	InVOnce           bool
	NeedArraySpread   bool
}

func (n *CacheExpression) Kind() NodeType { return NodeCacheExpression }

// TemplateLiteral is SSR-only output: elements are RawNode strings and
// interpolated JS children.
type TemplateLiteral struct {
	baseNode
	Elements []Node
}

func (n *TemplateLiteral) Kind() NodeType { return NodeTemplateLiteral }

// NewRoot builds a root owning children parsed from source.
func NewRoot(children []Node, source string) *RootNode {
	root := &RootNode{
		Children:   children,
		Source:     source,
		Components: []string{},
		Directives: []string{},
		Hoists:     []Node{},
		Cached:     []*CacheExpression{},
	}
	root.Loc = loc.StubLoc()
	return root
}

// NewSimpleExpression builds an expression node; most call sites want a
// stub location for synthesized expressions.
func NewSimpleExpression(content string, static bool, l loc.SourceLocation, constType ConstantType) *SimpleExpressionNode {
	n := &SimpleExpressionNode{Content: content, Static: static, ConstType: constType}
	n.Loc = l
	return n
}

// NewRaw wraps a verbatim output fragment.
func NewRaw(text string) *RawNode {
	n := &RawNode{Text: text}
	n.Loc = loc.StubLoc()
	return n
}

// NewProperty pairs a key expression with a value.
func NewProperty(key Node, value Node) *Property {
	p := &Property{Key: key, Value: value}
	p.Loc = loc.StubLoc()
	return p
}

// NewObjectExpression builds an object literal node.
func NewObjectExpression(properties []*Property, l loc.SourceLocation) *ObjectExpression {
	n := &ObjectExpression{Properties: properties}
	n.Loc = l
	return n
}

// NewCallExpression builds a call to a runtime helper.
func NewCallExpression(callee string, args []Node, l loc.SourceLocation) *CallExpression {
	n := &CallExpression{Callee: callee, CalleeHelper: true, Args: args}
	n.Loc = l
	return n
}

// IsText reports whether a node participates in text merging.
func IsText(n Node) bool {
	switch n.Kind() {
	case NodeText, NodeInterpolation:
		return true
	}
	return false
}

// IsStaticExp reports whether n is a static simple expression.
func IsStaticExp(n Node) bool {
	exp, ok := n.(*SimpleExpressionNode)
	return ok && exp.Static
}

// FindProp looks up a prop by its final key name: attributes by name,
// bind directives by static argument. allowEmpty additionally accepts
// value-less attributes and expression-less directives.
func FindProp(el *ElementNode, name string, dynamicOK, allowEmpty bool) Node {
	for _, p := range el.Props {
		switch p := p.(type) {
		case *AttributeNode:
			if p.Name == name && (p.Value != nil || allowEmpty) {
				return p
			}
		case *DirectiveNode:
			if p.Name != "bind" {
				continue
			}
			if p.Exp == nil && !allowEmpty {
				continue
			}
			if arg, ok := p.Arg.(*SimpleExpressionNode); ok {
				if arg.Static && arg.Content == name {
					return p
				}
				if !arg.Static && dynamicOK {
					return p
				}
			}
		}
	}
	return nil
}

// FindDir returns the first directive named name on el, if any.
func FindDir(el *ElementNode, name string) *DirectiveNode {
	for _, p := range el.Props {
		if dir, ok := p.(*DirectiveNode); ok && dir.Name == name {
			return dir
		}
	}
	return nil
}

// IsCoreComponent maps the always-available component tags to their runtime
// helper names. Only Teleport and Suspense resolve to importable helpers;
// KeepAlive and BaseTransition classify the element as a component but are
// resolved by the host at runtime.
func IsCoreComponent(tag string) (string, bool) {
	switch tag {
	case "Teleport", "teleport":
		return "Teleport", true
	case "Suspense", "suspense":
		return "Suspense", true
	case "KeepAlive", "keep-alive", "BaseTransition", "base-transition":
		return "", true
	}
	return "", false
}
