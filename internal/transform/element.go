package transform

import (
	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

// TransformElement generates the JavaScript AST for an element's vnode
// creation. The work happens on exit, after all child expressions have been
// processed and merged.
func TransformElement(n vuego.Node, cx *Context) ExitFn {
	node, ok := n.(*vuego.ElementNode)
	if !ok {
		return nil
	}
	return func() {
		if node.TagType != vuego.TagElement && node.TagType != vuego.TagComponent {
			return
		}
		isComponent := node.TagType == vuego.TagComponent

		var vnodeTag string
		if isComponent {
			vnodeTag = resolveComponentType(node, cx)
		} else {
			vnodeTag = `"` + node.Tag + `"`
		}

		// <svg> and <foreignObject> must be forced into blocks so that block
		// updates inside get proper isSVG flag at runtime. (#639, #643)
		// This is technically web-specific, but splitting the logic out of
		// core leads to too much unnecessary complexity.
		shouldUseBlock := !isComponent &&
			(node.Tag == "svg" || node.Tag == "foreignObject" || node.Tag == "math")

		var vnodeProps vuego.Node
		var patchFlag shared.PatchFlags
		var runtimeDirs *vuego.ArrayExpression
		if len(node.Props) > 0 {
			result := buildProps(node, cx, isComponent)
			vnodeProps = result.Props
			patchFlag = result.PatchFlag
			if result.ShouldUseBlock {
				shouldUseBlock = true
			}
			if len(result.Directives) > 0 {
				runtimeDirs = buildDirectiveArgs(result.Directives, cx)
			}
		}

		// children
		var childList []vuego.Node
		var textChild vuego.Node
		if len(node.Children) == 1 {
			child := node.Children[0]
			// pass directly if the only child is a text node
			// (plain / interpolation / expression)
			switch child.Kind() {
			case vuego.NodeInterpolation, vuego.NodeCompoundExpression:
				textChild = child
				// dynamic textContent uses the runtime fast path and needs
				// the TEXT patch flag to be diffed inside a block
				if getConstantType(child, cx) == vuego.NotConstant {
					patchFlag |= shared.Text
				}
			case vuego.NodeText:
				textChild = child
			default:
				childList = node.Children
			}
		} else if len(node.Children) > 1 {
			childList = node.Children
		}

		call := cx.createVNodeCall(
			vnodeTag, vnodeProps, childList, textChild,
			patchFlag, shouldUseBlock, false, isComponent, node.Loc)
		call.Directives = runtimeDirs
		if runtimeDirs != nil {
			cx.Helper(runtime.WithDirectives)
		}
		node.CodegenNode = call
	}
}

// resolveComponentType maps a component element to the expression its vnode
// call uses as a tag: a core component helper, or a resolveComponent'd
// asset id.
func resolveComponentType(node *vuego.ElementNode, cx *Context) string {
	if helperName, ok := vuego.IsCoreComponent(node.Tag); ok && helperName != "" {
		return cx.Helper(helperName)
	}
	// user component: resolve at render time
	cx.Helper(runtime.ResolveComponent)
	found := false
	for _, c := range cx.components {
		if c == node.Tag {
			found = true
			break
		}
	}
	if !found {
		cx.components = append(cx.components, node.Tag)
	}
	return shared.ToValidAssetID(node.Tag, "component")
}

type propsBuildResult struct {
	Props          vuego.Node
	Directives     []*vuego.DirectiveNode
	PatchFlag      shared.PatchFlags
	ShouldUseBlock bool
}

func buildProps(node *vuego.ElementNode, cx *Context, isComponent bool) propsBuildResult {
	var properties []*vuego.Property
	var runtimeDirectives []*vuego.DirectiveNode
	var dynamicPropNames []string

	hasClassBinding := false
	hasStyleBinding := false
	hasDynamicKeys := false

	analyzeProp := func(prop *vuego.Property) {
		key, ok := prop.Key.(*vuego.SimpleExpressionNode)
		if !ok || !key.Static {
			hasDynamicKeys = true
			return
		}
		switch {
		case key.Content == "class" && !isComponent:
			hasClassBinding = true
		case key.Content == "style" && !isComponent:
			hasStyleBinding = true
		case key.Content != "key":
			for _, n := range dynamicPropNames {
				if n == key.Content {
					return
				}
			}
			dynamicPropNames = append(dynamicPropNames, key.Content)
		}
	}

	for _, raw := range node.Props {
		switch prop := raw.(type) {
		case *vuego.AttributeNode:
			value := ""
			valueLoc := prop.Loc
			if prop.Value != nil {
				value = prop.Value.Content
				valueLoc = prop.Value.Loc
			}
			properties = append(properties, vuego.NewProperty(
				vuego.NewSimpleExpression(prop.Name, true, prop.NameLoc, vuego.CanStringify),
				vuego.NewSimpleExpression(value, true, valueLoc, vuego.CanStringify)))
		case *vuego.DirectiveNode:
			// structural directives were drained before this point; v-slot
			// belongs to the parent component
			if prop.Name == "slot" {
				continue
			}
			// argument-less v-bind/v-on spread an unknown key set over the
			// element; the runtime merges them, the compiler only records
			// that the keys are dynamic
			if (prop.Name == "bind" || prop.Name == "on") && prop.Arg == nil {
				hasDynamicKeys = true
				continue
			}
			dt, ok := cx.DirectiveTransforms[prop.Name]
			if !ok {
				// no built-in transform: a user directive with a runtime
				// counterpart
				runtimeDirectives = append(runtimeDirectives, prop)
				continue
			}
			result := dt(prop, node, cx)
			if !cx.SSR {
				for _, p := range result.Props {
					analyzeProp(p)
				}
			}
			properties = append(properties, result.Props...)
			if result.NeedRuntime {
				runtimeDirectives = append(runtimeDirectives, prop)
			}
		}
	}

	var propsExpression vuego.Node
	if len(properties) > 0 {
		propsExpression = vuego.NewObjectExpression(dedupeProperties(properties), node.Loc)
	}

	// patchFlag analysis
	var patchFlag shared.PatchFlags
	if hasDynamicKeys {
		patchFlag |= shared.FullProps
	} else {
		if hasClassBinding {
			patchFlag |= shared.Class
		}
		if hasStyleBinding {
			patchFlag |= shared.Style
		}
		if len(dynamicPropNames) > 0 {
			patchFlag |= shared.Props
		}
	}

	// wrap a dynamic class in the normalize helper so the runtime receives
	// the canonical form
	if obj, ok := propsExpression.(*vuego.ObjectExpression); ok && !cx.InSSR && !hasDynamicKeys {
		for _, p := range obj.Properties {
			key, ok := p.Key.(*vuego.SimpleExpressionNode)
			if !ok || !key.Static || key.Content != "class" {
				continue
			}
			if !vuego.IsStaticExp(p.Value) {
				p.Value = vuego.NewCallExpression(
					cx.Helper(runtime.NormalizeClass), []vuego.Node{p.Value}, loc.StubLoc())
			}
		}
	}

	return propsBuildResult{
		Props:      propsExpression,
		Directives: runtimeDirectives,
		PatchFlag:  patchFlag,
	}
}

// dedupeProperties merges duplicate static keys; class, style and event
// handlers merge their values into an array, other duplicates keep the
// first occurrence. Duplicates only happen when a static attribute and a
// bind coexist, e.g. class="a" :class="b".
func dedupeProperties(properties []*vuego.Property) []*vuego.Property {
	known := make(map[string]*vuego.Property)
	deduped := make([]*vuego.Property, 0, len(properties))
	for _, prop := range properties {
		key, ok := prop.Key.(*vuego.SimpleExpressionNode)
		if !ok || !key.Static {
			deduped = append(deduped, prop)
			continue
		}
		name := key.Content
		existing, seen := known[name]
		if !seen {
			known[name] = prop
			deduped = append(deduped, prop)
			continue
		}
		if name == "class" || name == "style" || key.IsHandlerKey {
			mergeAsArray(existing, prop)
		}
		// unexpected duplicate, should have emitted an error already
	}
	return deduped
}

func mergeAsArray(existing, incoming *vuego.Property) {
	if arr, ok := existing.Value.(*vuego.ArrayExpression); ok {
		arr.Elements = append(arr.Elements, incoming.Value)
		return
	}
	arr := &vuego.ArrayExpression{Elements: []vuego.Node{existing.Value, incoming.Value}}
	arr.Loc = *existing.Value.Location()
	existing.Value = arr
}

// buildDirectiveArgs assembles the withDirectives argument array:
// [_directive_foo, exp, arg, { modifiers }] with trailing absent parts
// omitted.
func buildDirectiveArgs(dirs []*vuego.DirectiveNode, cx *Context) *vuego.ArrayExpression {
	elements := make([]vuego.Node, 0, len(dirs))
	for _, dir := range dirs {
		cx.Helper(runtime.ResolveDirective)
		found := false
		for _, d := range cx.directives {
			if d == dir.Name {
				found = true
				break
			}
		}
		if !found {
			cx.directives = append(cx.directives, dir.Name)
		}

		args := []vuego.Node{
			vuego.NewRaw(shared.ToValidAssetID(dir.Name, "directive")),
		}
		if dir.Exp != nil {
			args = append(args, dir.Exp)
		}
		if dir.Arg != nil {
			if dir.Exp == nil {
				args = append(args, vuego.NewRaw("void 0"))
			}
			args = append(args, dir.Arg)
		}
		if len(dir.Modifiers) > 0 {
			if dir.Arg == nil {
				if dir.Exp == nil {
					args = append(args, vuego.NewRaw("void 0"))
				}
				args = append(args, vuego.NewRaw("void 0"))
			}
			props := make([]*vuego.Property, len(dir.Modifiers))
			trueExp := vuego.NewSimpleExpression("true", false, loc.StubLoc(), vuego.NotConstant)
			for i, mod := range dir.Modifiers {
				props[i] = vuego.NewProperty(mod, trueExp)
			}
			args = append(args, vuego.NewObjectExpression(props, loc.StubLoc()))
		}
		entry := &vuego.ArrayExpression{Elements: args}
		entry.Loc = dir.Loc
		elements = append(elements, entry)
	}
	arr := &vuego.ArrayExpression{Elements: elements}
	arr.Loc = loc.StubLoc()
	return arr
}
