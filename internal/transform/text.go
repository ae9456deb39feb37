package transform

import (
	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

// TransformText merges adjacent text nodes and expressions into a single
// compound expression, e.g. <div>abc {{ d }} {{ e }}</div> ends with one
// expression child. The merge runs on exit so all inner expressions have
// already been processed.
func TransformText(n vuego.Node, cx *Context) ExitFn {
	switch n.Kind() {
	case vuego.NodeRoot, vuego.NodeElement, vuego.NodeFor, vuego.NodeIfBranch:
	default:
		return nil
	}
	return func() {
		children := childrenOf(n)
		if children == nil {
			return
		}
		hasText := false

		for i := 0; i < len(*children); i++ {
			if !vuego.IsText((*children)[i]) {
				continue
			}
			hasText = true
			for j := i + 1; j < len(*children); j++ {
				next := (*children)[j]
				if !vuego.IsText(next) {
					break
				}
				// merge the adjacent text node into the current one
				compound, ok := (*children)[i].(*vuego.CompoundExpressionNode)
				if !ok {
					compound = &vuego.CompoundExpressionNode{
						Children: []vuego.Node{(*children)[i]},
					}
					compound.Loc = *(*children)[i].Location()
					(*children)[i] = compound
				}
				compound.Children = append(compound.Children, vuego.NewRaw(" + "), next)
				*children = append((*children)[:j], (*children)[j+1:]...)
				j--
			}
		}

		if !hasText {
			return
		}
		if len(*children) == 1 {
			if n.Kind() == vuego.NodeRoot {
				return
			}
			// A plain element with a single text child is left as-is: the
			// runtime has a fast path setting textContent directly. Custom
			// directives can add DOM elements arbitrarily, in which case
			// textContent would wipe them, so bail out of the fast path when
			// one is present.
			if el, ok := n.(*vuego.ElementNode); ok && el.TagType == vuego.TagElement {
				hasCustomDir := false
				for _, prop := range el.Props {
					if dir, ok := prop.(*vuego.DirectiveNode); ok {
						if _, builtin := cx.DirectiveTransforms[dir.Name]; !builtin {
							hasCustomDir = true
							break
						}
					}
				}
				if !hasCustomDir {
					return
				}
			}
		}

		// pre-convert text nodes into createTextVNode(text) calls to avoid
		// runtime normalization
		for i, child := range *children {
			if !vuego.IsText(child) && child.Kind() != vuego.NodeCompoundExpression {
				continue
			}
			var callArgs []vuego.Node
			// createTextVNode defaults to a single whitespace, so a lone
			// space becomes an empty call to save bytes
			if text, ok := child.(*vuego.TextNode); !ok || text.Content != " " {
				callArgs = append(callArgs, child)
			}
			// mark dynamic text with a flag so it gets patched inside a block
			if !cx.SSR && getConstantType(child, cx) == vuego.NotConstant {
				flagText := shared.Text.String()
				if cx.Flags.Dev {
					flagText += " /* " + shared.Text.Names() + " */"
				}
				callArgs = append(callArgs, vuego.NewRaw(flagText))
			}
			textCall := &vuego.TextCallNode{
				Content: child,
				CodegenNode: vuego.NewCallExpression(
					cx.Helper(runtime.CreateText), callArgs, *child.Location()),
			}
			textCall.Loc = *child.Location()
			(*children)[i] = textCall
		}
	}
}
