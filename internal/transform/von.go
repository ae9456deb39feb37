package transform

import (
	"github.com/iancoleman/strcase"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
)

// TransformOn lowers v-on:event / @event into a single onXxx handler prop.
// Key casing for static arguments goes through the camelizer; dynamic
// arguments build a computed "on" + (arg) key. Modifier policy is
// host-specific and left to wrapping transforms.
func TransformOn(dir *vuego.DirectiveNode, _ *vuego.ElementNode, cx *Context) DirectiveTransformResult {
	var key vuego.Node
	switch arg := dir.Arg.(type) {
	case *vuego.SimpleExpressionNode:
		if arg.Static {
			handlerKey := toHandlerKey(arg.Content)
			exp := vuego.NewSimpleExpression(handlerKey, true, arg.Loc, vuego.CanStringify)
			exp.IsHandlerKey = true
			key = exp
		} else {
			compound := &vuego.CompoundExpressionNode{
				Children: []vuego.Node{vuego.NewRaw(`"on" + (`), arg, vuego.NewRaw(`)`)},
			}
			compound.Loc = arg.Loc
			key = compound
		}
	default:
		key = dir.Arg
	}

	exp := dir.Exp
	if simple, ok := exp.(*vuego.SimpleExpressionNode); exp == nil || (ok && simple.Content == "") {
		cx.Error(loc.X_V_ON_NO_EXPRESSION, dir.Loc)
		exp = vuego.NewSimpleExpression("() => {}", false, dir.Loc, vuego.NotConstant)
	}

	return DirectiveTransformResult{
		Props: []*vuego.Property{vuego.NewProperty(key, exp)},
	}
}

// toHandlerKey turns an event name into its handler prop: click becomes
// onClick, my-event becomes onMyEvent.
func toHandlerKey(event string) string {
	return "on" + strcase.ToCamel(event)
}
