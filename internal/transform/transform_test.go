package transform

import (
	"testing"

	"gotest.tools/v3/assert"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

func transformSource(t *testing.T, source string, options Options) *vuego.RootNode {
	t.Helper()
	root := vuego.BaseParse(source, vuego.ParserOptions{Flags: options.Flags})
	if options.NodeTransforms == nil {
		options.NodeTransforms = []NodeTransform{
			TransformIf, TransformFor, TransformElement, TransformText,
		}
	}
	if options.DirectiveTransforms == nil {
		options.DirectiveTransforms = map[string]DirectiveTransform{
			"bind": TransformBind,
			"on":   TransformOn,
		}
	}
	Transform(root, options)
	return root
}

func TestTransformMarksRoot(t *testing.T) {
	root := transformSource(t, `<div/>`, Options{})
	assert.Assert(t, root.Transformed)
	assert.Assert(t, root.CodegenNode != nil)
}

func TestTransformSingleElementRootIsBlock(t *testing.T) {
	root := transformSource(t, `<div/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Assert(t, call.IsBlock)
	assert.DeepEqual(t, root.Helpers, []string{runtime.OpenBlock, runtime.CreateElementBlock})
}

func TestTransformMultiRootFragment(t *testing.T) {
	root := transformSource(t, `<div/><p/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Equal(t, call.Tag, runtime.Fragment)
	assert.Assert(t, call.IsBlock)
	assert.Equal(t, call.PatchFlag, shared.StableFragment)
	assert.Equal(t, len(call.Children), 2)
}

func TestTransformDevRootFragmentFlag(t *testing.T) {
	options := Options{Flags: vuego.GlobalFlags{Dev: true}}
	root := vuego.BaseParse(`<!-- note --><div/>`, vuego.ParserOptions{Flags: options.Flags})
	options.NodeTransforms = []NodeTransform{TransformIf, TransformFor, TransformElement, TransformText}
	options.DirectiveTransforms = map[string]DirectiveTransform{"bind": TransformBind, "on": TransformOn}
	Transform(root, options)
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Equal(t, call.PatchFlag, shared.StableFragment|shared.DevRootFragment)
}

func TestTransformIfStructure(t *testing.T) {
	root := transformSource(t, `<div v-if="a"/><p v-else-if="b"/><span v-else/>`, Options{})
	assert.Equal(t, len(root.Children), 1)
	ifNode := root.Children[0].(*vuego.IfNode)
	assert.Equal(t, len(ifNode.Branches), 3)
	assert.Equal(t, ifNode.Branches[0].Condition.(*vuego.SimpleExpressionNode).Content, "a")
	assert.Equal(t, ifNode.Branches[1].Condition.(*vuego.SimpleExpressionNode).Content, "b")
	assert.Assert(t, ifNode.Branches[2].Condition == nil)

	// the codegen is a right-associated conditional chain ending in the
	// v-else branch's block
	cond := ifNode.CodegenNode.(*vuego.ConditionalExpression)
	nested := cond.Alternate.(*vuego.ConditionalExpression)
	elseBlock := nested.Alternate.(*vuego.VNodeCall)
	assert.Equal(t, elseBlock.Tag, `"span"`)
}

func TestTransformIfBranchKeys(t *testing.T) {
	root := transformSource(t, `<div v-if="a"/><p v-else/><i v-if="c"/>`, Options{})
	assert.Equal(t, len(root.Children), 2)
	second := root.Children[1].(*vuego.IfNode)
	cond := second.CodegenNode.(*vuego.ConditionalExpression)
	call := cond.Consequent.(*vuego.VNodeCall)
	props := call.Props.(*vuego.ObjectExpression)
	// two branches precede it, so its key offset is 2
	assert.Equal(t, props.Properties[0].Value.(*vuego.SimpleExpressionNode).Content, "2")
}

func TestTransformIfSingleElementBranchReuse(t *testing.T) {
	root := transformSource(t, `<div v-if="ok"/>`, Options{})
	ifNode := root.Children[0].(*vuego.IfNode)
	cond := ifNode.CodegenNode.(*vuego.ConditionalExpression)
	call := cond.Consequent.(*vuego.VNodeCall)
	assert.Equal(t, call.Tag, `"div"`)
	assert.Assert(t, call.IsBlock)
	key := call.Props.(*vuego.ObjectExpression).Properties[0]
	assert.Equal(t, key.Key.(*vuego.SimpleExpressionNode).Content, "key")
}

func TestTransformTemplateIfFragment(t *testing.T) {
	root := transformSource(t, `<template v-if="ok"><div/>hi<p/></template>`, Options{})
	ifNode := root.Children[0].(*vuego.IfNode)
	assert.Assert(t, ifNode.Branches[0].IsTemplateIf)
	cond := ifNode.CodegenNode.(*vuego.ConditionalExpression)
	frag := cond.Consequent.(*vuego.VNodeCall)
	assert.Equal(t, frag.Tag, runtime.Fragment)
	assert.Equal(t, frag.PatchFlag, shared.StableFragment)
	assert.Equal(t, len(frag.Children), 3)
}

func TestTransformElseWithoutIf(t *testing.T) {
	var errs []*loc.CompilerError
	options := Options{OnError: func(err *loc.CompilerError) { errs = append(errs, err) }}
	transformSource(t, `<div v-else/>`, options)
	assert.Equal(t, len(errs), 1)
	assert.Equal(t, errs[0].Code, loc.X_V_ELSE_NO_ADJACENT_IF)
}

func TestTransformIfWithoutExpression(t *testing.T) {
	var errs []*loc.CompilerError
	options := Options{OnError: func(err *loc.CompilerError) { errs = append(errs, err) }}
	root := transformSource(t, `<div v-if/>`, options)
	assert.Equal(t, len(errs), 1)
	assert.Equal(t, errs[0].Code, loc.X_V_IF_NO_EXPRESSION)
	// recovers with a literal true condition
	ifNode := root.Children[0].(*vuego.IfNode)
	assert.Equal(t, ifNode.Branches[0].Condition.(*vuego.SimpleExpressionNode).Content, "true")
}

func TestTransformForStructure(t *testing.T) {
	root := transformSource(t, `<div v-for="(v, k, i) in list"/>`, Options{})
	forNode := root.Children[0].(*vuego.ForNode)
	assert.Equal(t, forNode.Source.(*vuego.SimpleExpressionNode).Content, "list")
	assert.Equal(t, forNode.ValueAlias.(*vuego.SimpleExpressionNode).Content, "v")
	assert.Equal(t, forNode.KeyAlias.(*vuego.SimpleExpressionNode).Content, "k")
	assert.Equal(t, forNode.IndexAlias.(*vuego.SimpleExpressionNode).Content, "i")
	assert.Assert(t, forNode.ParseResult.Finalized)

	call := forNode.CodegenNode
	assert.Equal(t, call.Tag, runtime.Fragment)
	assert.Assert(t, call.IsBlock)
	assert.Assert(t, call.DisableTracking)
	assert.Equal(t, call.PatchFlag, shared.UnkeyedFragment)
}

func TestTransformForKeyedFragment(t *testing.T) {
	root := transformSource(t, `<div v-for="v in list" :key="v.id"/>`, Options{})
	forNode := root.Children[0].(*vuego.ForNode)
	assert.Equal(t, forNode.CodegenNode.PatchFlag, shared.KeyedFragment)
}

func TestTransformForLoopParams(t *testing.T) {
	contents := func(params []vuego.Node) []string {
		out := make([]string, len(params))
		for i, p := range params {
			out[i] = p.(*vuego.SimpleExpressionNode).Content
		}
		return out
	}

	res := &vuego.ForParseResult{
		Value: vuego.NewSimpleExpression("v", false, loc.StubLoc(), vuego.NotConstant),
	}
	assert.DeepEqual(t, contents(createForLoopParams(res)), []string{"v"})

	res = &vuego.ForParseResult{
		Index: vuego.NewSimpleExpression("i", false, loc.StubLoc(), vuego.NotConstant),
	}
	assert.DeepEqual(t, contents(createForLoopParams(res)), []string{"_", "__", "i"})

	res = &vuego.ForParseResult{
		Key: vuego.NewSimpleExpression("k", false, loc.StubLoc(), vuego.NotConstant),
	}
	assert.DeepEqual(t, contents(createForLoopParams(res)), []string{"_", "k"})
}

func TestTransformForNoExpression(t *testing.T) {
	var errs []*loc.CompilerError
	options := Options{OnError: func(err *loc.CompilerError) { errs = append(errs, err) }}
	transformSource(t, `<div v-for="items"/>`, options)
	assert.Equal(t, len(errs), 1)
	assert.Equal(t, errs[0].Code, loc.X_V_FOR_MALFORMED_EXPRESSION)
}

func TestTransformTextMergesSiblings(t *testing.T) {
	root := transformSource(t, `a {{b}} c`, Options{})
	assert.Equal(t, len(root.Children), 1)
	compound := root.Children[0].(*vuego.CompoundExpressionNode)
	// text + interpolation + text joined by raw " + " fragments
	assert.Equal(t, len(compound.Children), 5)
}

func TestTransformTextCallsInMixedChildren(t *testing.T) {
	root := transformSource(t, `<div><p/>hi {{ n }}</div>`, Options{})
	el := root.Children[0].(*vuego.ElementNode)
	assert.Equal(t, len(el.Children), 2)
	textCall := el.Children[1].(*vuego.TextCallNode)
	call := textCall.CodegenNode.(*vuego.CallExpression)
	assert.Equal(t, call.Callee, runtime.CreateText)
	// dynamic text carries the TEXT patch flag argument
	assert.Equal(t, len(call.Args), 2)
}

func TestTransformElementPatchFlags(t *testing.T) {
	root := transformSource(t, `<div id="a" :class="c" :style="s" :other="o">{{ t }}</div>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	want := shared.Class | shared.Style | shared.Props | shared.Text
	assert.Equal(t, call.PatchFlag, want)
}

func TestTransformElementFullProps(t *testing.T) {
	root := transformSource(t, `<div :[key]="v" :class="c"/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Equal(t, call.PatchFlag, shared.FullProps)
	// FULL_PROPS excludes the per-kind bits
	assert.Equal(t, call.PatchFlag&(shared.Class|shared.Style|shared.Props), shared.PatchFlags(0))
}

func TestTransformElementClassNormalization(t *testing.T) {
	root := transformSource(t, `<div :class="c"/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	props := call.Props.(*vuego.ObjectExpression)
	value := props.Properties[0].Value.(*vuego.CallExpression)
	assert.Equal(t, value.Callee, runtime.NormalizeClass)
}

func TestTransformElementSVGBlock(t *testing.T) {
	root := transformSource(t, `<div><svg/></div>`, Options{})
	el := root.Children[0].(*vuego.ElementNode)
	svg := el.Children[0].(*vuego.ElementNode)
	assert.Assert(t, svg.CodegenNode.(*vuego.VNodeCall).IsBlock)
}

func TestTransformComponent(t *testing.T) {
	root := vuego.BaseParse(`<MyWidget/>`, vuego.ParserOptions{})
	Transform(root, Options{
		NodeTransforms:      []NodeTransform{TransformIf, TransformFor, TransformElement, TransformText},
		DirectiveTransforms: map[string]DirectiveTransform{"bind": TransformBind, "on": TransformOn},
	})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Assert(t, call.IsComponent)
	assert.Equal(t, call.Tag, "_component_MyWidget")
	assert.DeepEqual(t, root.Components, []string{"MyWidget"})
	assert.Assert(t, containsHelper(root.Helpers, runtime.ResolveComponent))
}

func TestTransformCoreComponent(t *testing.T) {
	root := transformSource(t, `<Teleport to="body"><div/></Teleport>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Equal(t, call.Tag, runtime.Teleport)
	assert.Equal(t, len(root.Components), 0)
}

func TestTransformCustomDirective(t *testing.T) {
	root := transformSource(t, `<div v-focus/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	assert.Assert(t, call.Directives != nil)
	assert.DeepEqual(t, root.Directives, []string{"focus"})
	assert.Assert(t, containsHelper(root.Helpers, runtime.ResolveDirective))
	assert.Assert(t, containsHelper(root.Helpers, runtime.WithDirectives))
}

func TestTransformOnHandlerKey(t *testing.T) {
	root := transformSource(t, `<div @my-event="go"/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	props := call.Props.(*vuego.ObjectExpression)
	key := props.Properties[0].Key.(*vuego.SimpleExpressionNode)
	assert.Equal(t, key.Content, "onMyEvent")
	assert.Assert(t, key.IsHandlerKey)
}

func TestTransformBindMergesWithStaticClass(t *testing.T) {
	root := transformSource(t, `<div class="a" :class="b"/>`, Options{})
	call := root.CodegenNode.(*vuego.VNodeCall)
	props := call.Props.(*vuego.ObjectExpression)
	assert.Equal(t, len(props.Properties), 1)
	merged, ok := props.Properties[0].Value.(*vuego.CallExpression)
	assert.Assert(t, ok)
	assert.Equal(t, merged.Callee, runtime.NormalizeClass)
	_, isArray := merged.Args[0].(*vuego.ArrayExpression)
	assert.Assert(t, isArray)
}

func TestHelperClosureOverEmittedCode(t *testing.T) {
	root := transformSource(t, `<div v-if="ok"><span v-for="i in xs">{{ i }}</span></div>`, Options{})
	for _, h := range []string{
		runtime.OpenBlock, runtime.CreateElementBlock, runtime.Fragment,
		runtime.RenderList, runtime.ToDisplayString, runtime.CreateComment,
	} {
		assert.Assert(t, containsHelper(root.Helpers, h), "missing helper %s", h)
	}
}

func containsHelper(helpers []string, name string) bool {
	for _, h := range helpers {
		if h == name {
			return true
		}
	}
	return false
}
