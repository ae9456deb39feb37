package printer

import (
	"strconv"
	"strings"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
)

func (p *printer) genNode(node vuego.Node) {
	switch n := node.(type) {
	case *vuego.ElementNode:
		if n.CodegenNode == nil {
			p.warnMissingCodegen(n)
			return
		}
		p.genNode(n.CodegenNode)
	case *vuego.IfNode:
		if n.CodegenNode == nil {
			p.warnMissingCodegen(n)
			return
		}
		p.genNode(n.CodegenNode)
	case *vuego.ForNode:
		if n.CodegenNode == nil {
			p.warnMissingCodegen(n)
			return
		}
		p.genNode(n.CodegenNode)
	case *vuego.TextCallNode:
		p.genNode(n.CodegenNode)
	case *vuego.TextNode:
		p.printNode(quoteJSON(n.Content), n)
	case *vuego.SimpleExpressionNode:
		p.genExpression(n)
	case *vuego.InterpolationNode:
		p.genInterpolation(n)
	case *vuego.CompoundExpressionNode:
		p.genCompoundExpression(n)
	case *vuego.CommentNode:
		p.genComment(n)
	case *vuego.VNodeCall:
		p.genVNodeCall(n)
	case *vuego.CallExpression:
		p.genCallExpression(n)
	case *vuego.ObjectExpression:
		p.genObjectExpression(n)
	case *vuego.ArrayExpression:
		p.genNodeListAsArray(n.Elements)
	case *vuego.FunctionExpression:
		p.genFunctionExpression(n)
	case *vuego.ConditionalExpression:
		p.genConditionalExpression(n)
	case *vuego.CacheExpression:
		p.genCacheExpression(n)
	case *vuego.TemplateLiteral:
		p.genTemplateLiteral(n)
	case *vuego.RawNode:
		p.print(n.Text)
	case *vuego.IfBranchNode:
		// noop: branches are printed through the If codegen node
	}
}

// The generator never signals errors; a malformed tree emits nothing for
// that subtree and reports on the warn channel in dev.
func (p *printer) warnMissingCodegen(node vuego.Node) {
	if p.opts.Flags.Dev {
		p.h.Warnf(loc.W_CODEGEN_NODE_MISSING,
			"codegen node is missing for %s node; apply the appropriate transforms first", node.Kind())
	}
}

func (p *printer) genExpression(node *vuego.SimpleExpressionNode) {
	if node.Static {
		p.printNode(quoteJSON(node.Content), node)
	} else {
		p.printNode(node.Content, node)
	}
}

func (p *printer) genInterpolation(node *vuego.InterpolationNode) {
	if p.pure {
		p.print(pureAnnotation)
	}
	p.print(helperAlias(runtime.ToDisplayString) + "(")
	p.genNode(node.Content)
	p.print(")")
}

func (p *printer) genCompoundExpression(node *vuego.CompoundExpressionNode) {
	for _, child := range node.Children {
		if raw, ok := child.(*vuego.RawNode); ok {
			p.print(raw.Text)
		} else {
			p.genNode(child)
		}
	}
}

func (p *printer) genExpressionAsPropertyKey(node vuego.Node) {
	switch n := node.(type) {
	case *vuego.CompoundExpressionNode:
		p.print("[")
		p.genCompoundExpression(n)
		p.print("]")
	case *vuego.SimpleExpressionNode:
		if n.Static {
			// only quote keys if necessary
			if vuego.IsSimpleIdentifier(n.Content) {
				p.printNode(n.Content, n)
			} else {
				p.printNode(quoteJSON(n.Content), n)
			}
		} else {
			p.printNode("["+n.Content+"]", n)
		}
	default:
		p.genNode(node)
	}
}

func (p *printer) genComment(node *vuego.CommentNode) {
	if p.pure {
		p.print(pureAnnotation)
	}
	p.printNode(helperAlias(runtime.CreateComment)+"("+quoteJSON(node.Content)+")", node)
}

// genTag prints a vnode tag: string literals and resolved asset ids print
// verbatim, runtime symbols print through their helper alias.
func (p *printer) genTag(tag string) {
	if strings.HasPrefix(tag, `"`) || strings.HasPrefix(tag, "_") {
		p.print(tag)
		return
	}
	p.print(helperAlias(tag))
}

func (p *printer) genVNodeCall(node *vuego.VNodeCall) {
	if node.Directives != nil {
		p.print(helperAlias(runtime.WithDirectives) + "(")
	}
	if node.IsBlock {
		if node.DisableTracking {
			p.print("(" + helperAlias(runtime.OpenBlock) + "(true), ")
		} else {
			p.print("(" + helperAlias(runtime.OpenBlock) + "(), ")
		}
	}
	if p.pure {
		p.print(pureAnnotation)
	}
	var callHelper string
	if node.IsBlock {
		callHelper = runtime.VNodeBlockHelper(p.opts.InSSR, node.IsComponent)
	} else {
		callHelper = runtime.VNodeHelper(p.opts.InSSR, node.IsComponent)
	}
	p.printNode(helperAlias(callHelper)+"(", node)

	// arguments are emitted right-to-left conceptually: trailing nulls are
	// omitted, intermediate nulls are kept
	patchFlagText := ""
	if node.PatchFlag != 0 {
		if p.opts.Flags.Dev {
			patchFlagText = node.PatchFlag.String() + " /* " + node.PatchFlag.Names() + " */"
		} else {
			patchFlagText = node.PatchFlag.String()
		}
	}
	hasChildren := node.Child != nil || len(node.Children) > 0
	hasProps := node.Props != nil

	p.genTag(node.Tag)
	if hasProps || hasChildren || patchFlagText != "" {
		p.print(", ")
		if hasProps {
			p.genNode(node.Props)
		} else {
			p.print("null")
		}
	}
	if hasChildren || patchFlagText != "" {
		p.print(", ")
		if node.Child != nil {
			p.genNode(node.Child)
		} else if len(node.Children) > 0 {
			p.genNodeListAsArray(node.Children)
		} else {
			p.print("null")
		}
	}
	if patchFlagText != "" {
		p.print(", " + patchFlagText)
	}
	p.print(")")
	if node.IsBlock {
		p.print(")")
	}
	if node.Directives != nil {
		p.print(", ")
		p.genNode(node.Directives)
		p.print(")")
	}
}

func (p *printer) genCallExpression(node *vuego.CallExpression) {
	callee := node.Callee
	if node.CalleeHelper {
		callee = helperAlias(node.Callee)
	}
	if p.pure {
		p.print(pureAnnotation)
	}
	p.printNode(callee+"(", node)
	p.genNodeList(node.Args, false)
	p.print(")")
}

func (p *printer) genNodeListAsArray(nodes []vuego.Node) {
	multilines := len(nodes) > 3 || p.hasNonTrivial(nodes)
	p.print("[")
	if multilines {
		p.indent()
	}
	p.genNodeList(nodes, multilines)
	if multilines {
		p.deindent(false)
	}
	p.print("]")
}

func (p *printer) hasNonTrivial(nodes []vuego.Node) bool {
	if !p.opts.Flags.Dev && p.opts.Flags.Browser {
		return false
	}
	for _, n := range nodes {
		switch n.Kind() {
		case vuego.NodeText, vuego.NodeSimpleExpression, vuego.NodeRaw:
		default:
			return true
		}
	}
	return false
}

func (p *printer) genNodeList(nodes []vuego.Node, multilines bool) {
	for i, node := range nodes {
		p.genNode(node)
		if i < len(nodes)-1 {
			if multilines {
				p.print(",")
				p.printNewline()
			} else {
				p.print(", ")
			}
		}
	}
}

func (p *printer) genObjectExpression(node *vuego.ObjectExpression) {
	properties := node.Properties
	if len(properties) == 0 {
		p.printNode("{}", node)
		return
	}
	// inline when there is at most one property or every value is a simple
	// expression; multi-line otherwise
	multilines := len(properties) > 1 && p.hasNonSimpleValue(properties)
	if multilines {
		p.print("{")
		p.indent()
	} else {
		p.print("{ ")
	}
	for i, prop := range properties {
		p.genExpressionAsPropertyKey(prop.Key)
		p.print(": ")
		p.genNode(prop.Value)
		if i < len(properties)-1 {
			// will only reach this when multiline
			p.print(",")
			p.printNewline()
		}
	}
	if multilines {
		p.deindent(false)
		p.print("}")
	} else {
		p.print(" }")
	}
}

func (p *printer) hasNonSimpleValue(properties []*vuego.Property) bool {
	for _, prop := range properties {
		if prop.Value.Kind() != vuego.NodeSimpleExpression {
			return true
		}
	}
	return false
}

func (p *printer) genFunctionExpression(node *vuego.FunctionExpression) {
	p.print("(")
	p.genNodeList(node.Params, false)
	p.print(") => ")
	if node.Newline {
		p.print("{")
		p.indent()
		p.print("return ")
	}
	if node.Returns != nil {
		p.genNode(node.Returns)
	}
	if node.Newline {
		p.deindent(false)
		p.print("}")
	}
}

func (p *printer) genConditionalExpression(node *vuego.ConditionalExpression) {
	if test, ok := node.Test.(*vuego.SimpleExpressionNode); ok {
		// unwrap redundant parens around a plain identifier test
		needsParens := !vuego.IsSimpleIdentifier(test.Content)
		if needsParens {
			p.print("(")
		}
		p.genExpression(test)
		if needsParens {
			p.print(")")
		}
	} else {
		p.print("(")
		p.genNode(node.Test)
		p.print(")")
	}
	needNewline := node.Newline
	if needNewline {
		p.indent()
	}
	p.indentLevel++
	if !needNewline {
		p.print(" ")
	}
	p.print("? ")
	p.genNode(node.Consequent)
	p.indentLevel--
	if needNewline {
		p.printNewline()
	} else {
		p.print(" ")
	}
	p.print(": ")
	// chained alternates align at the same indent column instead of
	// stacking ever deeper
	_, isNested := node.Alternate.(*vuego.ConditionalExpression)
	if !isNested {
		p.indentLevel++
	}
	p.genNode(node.Alternate)
	if !isNested {
		p.indentLevel--
	}
	if needNewline {
		p.deindent(true)
	}
}

func (p *printer) genCacheExpression(node *vuego.CacheExpression) {
	index := strconv.Itoa(node.Index)
	if node.NeedArraySpread {
		p.print("[...(")
	}
	p.print("_cache[" + index + "] || (")
	if node.NeedPauseTracking {
		p.indent()
		p.print(helperAlias(runtime.SetBlockTracking) + "(-1")
		if node.InVOnce {
			p.print(", true")
		}
		p.print("),")
		p.printNewline()
		p.print("(")
	}
	p.print("_cache[" + index + "] = ")
	p.genNode(node.Value)
	if node.NeedPauseTracking {
		p.print(").cacheIndex = " + index + ",")
		p.printNewline()
		p.print(helperAlias(runtime.SetBlockTracking) + "(1),")
		p.printNewline()
		p.print("_cache[" + index + "]")
		p.deindent(false)
	}
	p.print(")")
	if node.NeedArraySpread {
		p.print(")]")
	}
}

func (p *printer) genTemplateLiteral(node *vuego.TemplateLiteral) {
	p.print("`")
	multilines := len(node.Elements) > 3
	for _, e := range node.Elements {
		if raw, ok := e.(*vuego.RawNode); ok {
			p.print(escapeTemplateString(raw.Text))
			continue
		}
		p.print("${")
		if multilines {
			p.indent()
		}
		p.genNode(e)
		if multilines {
			p.deindent(false)
		}
		p.print("}")
	}
	p.print("`")
}
