package transform

import (
	"strings"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

// TransformFor consumes a v-for bearing element into a For node rendering a
// fragment block around renderList.
var TransformFor = createStructuralDirectiveTransform(
	func(name string) bool { return name == "for" },
	func(node *vuego.ElementNode, dir *vuego.DirectiveNode, cx *Context) ExitFn {
		if dir.Exp == nil {
			cx.Error(loc.X_V_FOR_NO_EXPRESSION, dir.Loc)
			return nil
		}
		parseResult := dir.ForParseResult
		if parseResult == nil {
			cx.Error(loc.X_V_FOR_MALFORMED_EXPRESSION, dir.Loc)
			return nil
		}
		parseResult.Finalized = true

		isTemplate := node.TagType == vuego.TagTemplate
		forNode := &vuego.ForNode{
			Source:      parseResult.Source,
			ValueAlias:  parseResult.Value,
			KeyAlias:    parseResult.Key,
			IndexAlias:  parseResult.Index,
			ParseResult: parseResult,
		}
		forNode.Loc = dir.Loc
		if isTemplate {
			forNode.Children = node.Children
		} else {
			forNode.Children = []vuego.Node{node}
		}
		cx.ReplaceNode(forNode)

		// create the loop render function expression now, and add the
		// iterator on exit after all children have been traversed
		renderExp := vuego.NewCallExpression(cx.Helper(runtime.RenderList),
			[]vuego.Node{forNode.Source}, forNode.Loc)

		keyProp := vuego.FindProp(node, "key", false, true)
		var keyProperty *vuego.Property
		if keyProp != nil {
			switch keyProp := keyProp.(type) {
			case *vuego.AttributeNode:
				content := ""
				if keyProp.Value != nil {
					content = keyProp.Value.Content
				}
				keyProperty = vuego.NewProperty(
					vuego.NewSimpleExpression("key", true, loc.StubLoc(), vuego.CanStringify),
					vuego.NewSimpleExpression(content, true, loc.StubLoc(), vuego.CanStringify))
			case *vuego.DirectiveNode:
				keyProperty = vuego.NewProperty(
					vuego.NewSimpleExpression("key", true, loc.StubLoc(), vuego.CanStringify),
					keyProp.Exp)
			}
		}

		isStableFragment := false
		if src, ok := forNode.Source.(*vuego.SimpleExpressionNode); ok {
			isStableFragment = src.ConstType > vuego.NotConstant
		}
		fragmentFlag := shared.UnkeyedFragment
		if isStableFragment {
			fragmentFlag = shared.StableFragment
		} else if keyProp != nil {
			fragmentFlag = shared.KeyedFragment
		}

		forNode.CodegenNode = cx.createVNodeCall(
			cx.Helper(runtime.Fragment), nil, nil, renderExp,
			fragmentFlag, true, !isStableFragment, false, node.Loc)

		return func() {
			// finish the codegen now that the children have been traversed
			var childBlock *vuego.VNodeCall
			children := forNode.Children
			needFragmentWrapper := len(children) != 1 || children[0].Kind() != vuego.NodeElement

			if needFragmentWrapper {
				// <template v-for> with multiple or non-element children:
				// a fragment block per iteration
				var props vuego.Node
				if keyProperty != nil {
					props = vuego.NewObjectExpression([]*vuego.Property{keyProperty}, loc.StubLoc())
				}
				childBlock = cx.createVNodeCall(
					cx.Helper(runtime.Fragment), props, children, nil,
					shared.StableFragment, true, false, false, node.Loc)
			} else {
				// normal element v-for: directly use the child's codegen
				// node, but mark it as a block
				el := children[0].(*vuego.ElementNode)
				call, ok := el.CodegenNode.(*vuego.VNodeCall)
				if !ok {
					return
				}
				childBlock = call
				if isTemplate && keyProperty != nil {
					injectProp(childBlock, keyProperty, cx)
				}
				if childBlock.IsBlock != !isStableFragment {
					if childBlock.IsBlock {
						cx.RemoveHelper(runtime.OpenBlock)
						cx.RemoveHelper(runtime.VNodeBlockHelper(cx.InSSR, childBlock.IsComponent))
					} else {
						cx.RemoveHelper(runtime.VNodeHelper(cx.InSSR, childBlock.IsComponent))
					}
					childBlock.IsBlock = !isStableFragment
					if childBlock.IsBlock {
						cx.Helper(runtime.OpenBlock)
						cx.Helper(runtime.VNodeBlockHelper(cx.InSSR, childBlock.IsComponent))
					} else {
						cx.Helper(runtime.VNodeHelper(cx.InSSR, childBlock.IsComponent))
					}
				}
			}

			fn := &vuego.FunctionExpression{
				Params:  createForLoopParams(forNode.ParseResult),
				Returns: childBlock,
			}
			fn.Loc = forNode.Loc
			renderExp.Args = append(renderExp.Args, fn)
		}
	},
)

// createForLoopParams synthesizes the loop function parameter list:
// trailing unused alias positions collapse away, and skipped-over absent
// positions turn into underscore placeholders of increasing length.
func createForLoopParams(res *vuego.ForParseResult) []vuego.Node {
	args := []vuego.Node{res.Value, res.Key, res.Index}
	last := -1
	for i, arg := range args {
		if arg != nil {
			last = i
		}
	}
	args = args[:last+1]
	for i, arg := range args {
		if arg == nil {
			args[i] = vuego.NewSimpleExpression(
				strings.Repeat("_", i+1), false, loc.StubLoc(), vuego.NotConstant)
		}
	}
	return args
}
