package transform

import (
	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
)

// TransformBind lowers v-bind:arg / :arg into a single vnode prop.
func TransformBind(dir *vuego.DirectiveNode, _ *vuego.ElementNode, cx *Context) DirectiveTransformResult {
	arg := dir.Arg
	exp := dir.Exp

	if simple, ok := exp.(*vuego.SimpleExpressionNode); exp == nil || (ok && simple.Content == "") {
		cx.Error(loc.X_V_BIND_NO_EXPRESSION, dir.Loc)
		exp = vuego.NewSimpleExpression("", true, dir.Loc, vuego.CanStringify)
	}

	// .prop and .attr modifiers force the binding kind with a sigil the
	// runtime strips off the key
	if argExp, ok := arg.(*vuego.SimpleExpressionNode); ok && argExp.Static {
		for _, mod := range dir.Modifiers {
			switch mod.Content {
			case "prop":
				argExp.Content = "." + argExp.Content
			case "attr":
				argExp.Content = "^" + argExp.Content
			}
		}
	}

	return DirectiveTransformResult{
		Props: []*vuego.Property{vuego.NewProperty(arg, exp)},
	}
}
