package printer

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
)

func simple(content string, static bool) *vuego.SimpleExpressionNode {
	return vuego.NewSimpleExpression(content, static, loc.StubLoc(), vuego.NotConstant)
}

func genOne(node vuego.Node, opts Options) string {
	p := newPrinter(opts)
	p.genNode(node)
	return string(p.output)
}

func TestQuoteJSON(t *testing.T) {
	assert.Equal(t, quoteJSON("hi"), `"hi"`)
	assert.Equal(t, quoteJSON(`a "b"`), `"a \"b\""`)
	assert.Equal(t, quoteJSON("a\nb"), `"a\nb"`)
}

func TestEscapeTemplateString(t *testing.T) {
	assert.Equal(t, escapeTemplateString("a`b"), "a\\`b")
	assert.Equal(t, escapeTemplateString(`a\b`), `a\\b`)
	assert.Equal(t, escapeTemplateString("${x}"), `\${x}`)
}

func TestGenText(t *testing.T) {
	text := &vuego.TextNode{Content: `say "hi"`}
	assert.Equal(t, genOne(text, Options{}), `"say \"hi\""`)
}

func TestGenExpressionStaticVsDynamic(t *testing.T) {
	assert.Equal(t, genOne(simple("foo", true), Options{}), `"foo"`)
	assert.Equal(t, genOne(simple("foo.bar", false), Options{}), "foo.bar")
}

func TestGenInterpolation(t *testing.T) {
	node := &vuego.InterpolationNode{Content: simple("msg", false)}
	assert.Equal(t, genOne(node, Options{}), "_toDisplayString(msg)")
}

func TestGenObjectKeys(t *testing.T) {
	obj := vuego.NewObjectExpression([]*vuego.Property{
		vuego.NewProperty(vuego.NewSimpleExpression("key", true, loc.StubLoc(), vuego.CanStringify), simple("0", false)),
	}, loc.StubLoc())
	assert.Equal(t, genOne(obj, Options{}), "{ key: 0 }")

	// non-identifier static keys are quoted
	obj = vuego.NewObjectExpression([]*vuego.Property{
		vuego.NewProperty(vuego.NewSimpleExpression("data-x", true, loc.StubLoc(), vuego.CanStringify), simple(`"v"`, false)),
	}, loc.StubLoc())
	assert.Equal(t, genOne(obj, Options{}), `{ "data-x": "v" }`)

	// computed keys are bracketed
	obj = vuego.NewObjectExpression([]*vuego.Property{
		vuego.NewProperty(simple("dyn", false), simple("v", false)),
	}, loc.StubLoc())
	assert.Equal(t, genOne(obj, Options{}), "{ [dyn]: v }")
}

func TestGenConditionalInline(t *testing.T) {
	cond := &vuego.ConditionalExpression{
		Test:       simple("ok", false),
		Consequent: simple("a", false),
		Alternate:  simple("b", false),
	}
	assert.Equal(t, genOne(cond, Options{}), "ok ? a : b")
}

func TestGenConditionalParenthesizesComplexTest(t *testing.T) {
	cond := &vuego.ConditionalExpression{
		Test:       simple("a && b", false),
		Consequent: simple("x", false),
		Alternate:  simple("y", false),
	}
	assert.Equal(t, genOne(cond, Options{}), "(a && b) ? x : y")
}

func TestGenConditionalNewlineAlignment(t *testing.T) {
	inner := &vuego.ConditionalExpression{
		Test:       simple("b", false),
		Consequent: simple("y", false),
		Alternate:  simple("z", false),
		Newline:    true,
	}
	outer := &vuego.ConditionalExpression{
		Test:       simple("a", false),
		Consequent: simple("x", false),
		Alternate:  inner,
		Newline:    true,
	}
	want := "a\n  ? x\n  : b\n    ? y\n    : z"
	assert.Equal(t, genOne(outer, Options{}), want)
}

func TestGenCacheExpression(t *testing.T) {
	cache := &vuego.CacheExpression{Index: 1, Value: simple("exp", false)}
	assert.Equal(t, genOne(cache, Options{}), "_cache[1] || (_cache[1] = exp)")
}

func TestGenCacheExpressionWithPauseTracking(t *testing.T) {
	cache := &vuego.CacheExpression{
		Index:             0,
		Value:             simple("exp", false),
		NeedPauseTracking: true,
		InVOnce:           true,
	}
	got := genOne(cache, Options{})
	assert.Assert(t, strings.Contains(got, "_setBlockTracking(-1, true),"))
	assert.Assert(t, strings.Contains(got, "(_cache[0] = exp).cacheIndex = 0,"))
	assert.Assert(t, strings.Contains(got, "_setBlockTracking(1),"))
	assert.Assert(t, strings.HasSuffix(got, "_cache[0]\n)"))
}

func TestGenCacheExpressionArraySpread(t *testing.T) {
	cache := &vuego.CacheExpression{Index: 2, Value: simple("exp", false), NeedArraySpread: true}
	got := genOne(cache, Options{})
	assert.Assert(t, strings.HasPrefix(got, "[...("))
	assert.Assert(t, strings.HasSuffix(got, ")]"))
}

func TestGenTemplateLiteral(t *testing.T) {
	lit := &vuego.TemplateLiteral{Elements: []vuego.Node{
		vuego.NewRaw("<div>"),
		&vuego.InterpolationNode{Content: simple("msg", false)},
		vuego.NewRaw("</div>"),
	}}
	assert.Equal(t, genOne(lit, Options{}), "`<div>${_toDisplayString(msg)}</div>`")
}

func TestGenTemplateLiteralEscapes(t *testing.T) {
	lit := &vuego.TemplateLiteral{Elements: []vuego.Node{vuego.NewRaw("a`b${c}")}}
	assert.Equal(t, genOne(lit, Options{}), "`a\\`b\\${c}`")
}

func TestGenVNodeCallArgumentTrimming(t *testing.T) {
	// trailing nulls are omitted entirely
	call := &vuego.VNodeCall{Tag: `"div"`}
	assert.Equal(t, genOne(call, Options{}), `_createElementVNode("div")`)

	// intermediate nulls are kept
	call = &vuego.VNodeCall{Tag: `"div"`, Child: &vuego.TextNode{Content: "x"}}
	assert.Equal(t, genOne(call, Options{}), `_createElementVNode("div", null, "x")`)

	call = &vuego.VNodeCall{Tag: `"div"`, PatchFlag: 1}
	assert.Equal(t, genOne(call, Options{}), `_createElementVNode("div", null, null, 1)`)
}

func TestGenVNodeCallBlock(t *testing.T) {
	call := &vuego.VNodeCall{Tag: `"div"`, IsBlock: true}
	assert.Equal(t, genOne(call, Options{}), `(_openBlock(), _createElementBlock("div"))`)

	call = &vuego.VNodeCall{Tag: `"div"`, IsBlock: true, DisableTracking: true}
	assert.Equal(t, genOne(call, Options{}), `(_openBlock(true), _createElementBlock("div"))`)
}

func TestGenVNodeCallComponent(t *testing.T) {
	call := &vuego.VNodeCall{Tag: "_component_Foo", IsComponent: true}
	assert.Equal(t, genOne(call, Options{}), "_createVNode(_component_Foo)")
}

func TestGenFunctionExpression(t *testing.T) {
	fn := &vuego.FunctionExpression{
		Params:  []vuego.Node{simple("v", false), simple("k", false)},
		Returns: simple("v", false),
	}
	assert.Equal(t, genOne(fn, Options{}), "(v, k) => v")
}

func TestGeneratePreservesHelperOrder(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Helpers = []string{runtime.CreateVNode, runtime.ResolveDirective}
	result := Generate(ast, Options{Mode: ModuleMode})
	assert.Assert(t, strings.Contains(result.Code,
		`import { createVNode as _createVNode, resolveDirective as _resolveDirective } from "vue"`))
}

func TestGenerateOptimizeImports(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Helpers = []string{runtime.CreateVNode}
	result := Generate(ast, Options{Mode: ModuleMode, OptimizeImports: true})
	assert.Assert(t, strings.Contains(result.Code, `import { createVNode } from "vue"`))
	assert.Assert(t, strings.Contains(result.Code, "const _createVNode = createVNode"))
}

func TestGenerateCustomRuntimeModule(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Helpers = []string{runtime.CreateVNode}
	result := Generate(ast, Options{Mode: ModuleMode, RuntimeModuleName: "@acme/runtime"})
	assert.Assert(t, strings.Contains(result.Code, `from "@acme/runtime"`))
}

func TestGenerateAssets(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Components = []string{"MyComp", "Other__self"}
	ast.Directives = []string{"focus"}
	result := Generate(ast, Options{})
	assert.Assert(t, strings.Contains(result.Code,
		`const _component_MyComp = _resolveComponent("MyComp")`))
	// the __self suffix is stripped and flips the self-reference flag
	assert.Assert(t, strings.Contains(result.Code,
		`const _component_Other = _resolveComponent("Other", true)`))
	assert.Assert(t, strings.Contains(result.Code,
		`const _directive_focus = _resolveDirective("focus")`))
}

func TestGenerateAssetsTS(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Components = []string{"MyComp"}
	result := Generate(ast, Options{IsTS: true})
	assert.Assert(t, strings.Contains(result.Code,
		`const _component_MyComp = _resolveComponent("MyComp")!`))
	assert.Assert(t, strings.Contains(result.Code, "_ctx: any,_cache: any"))
}

func TestGenerateBindingMetadataSignature(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	result := Generate(ast, Options{BindingMetadata: map[string]string{"msg": "setup"}})
	assert.Assert(t, strings.Contains(result.Code,
		"function render(_ctx, _cache, $props, $setup, $data, $options)"))
}

func TestGenerateTemps(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Temps = 3
	result := Generate(ast, Options{})
	assert.Assert(t, strings.Contains(result.Code, "let _temp0, _temp1, _temp2"))
}

func TestGenerateHoistsArePure(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	ast.Helpers = []string{runtime.CreateElementVNode}
	ast.Hoists = []vuego.Node{
		&vuego.VNodeCall{Tag: `"div"`},
	}
	result := Generate(ast, Options{})
	assert.Assert(t, strings.Contains(result.Code,
		`const _hoisted_1 = /*@__PURE__*/_createElementVNode("div")`))
	// hoisted creators must be surfaced outside the with block
	assert.Assert(t, strings.Contains(result.Code,
		"const { createElementVNode: _createElementVNode } = _Vue"))
}

func TestGenerateEmptyRootReturnsNull(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	result := Generate(ast, Options{})
	assert.Assert(t, strings.Contains(result.Code, "return null"))
}

func TestGenerateSSRSignature(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	result := Generate(ast, Options{SSR: true})
	assert.Assert(t, strings.Contains(result.Code,
		"function ssrRender(_ctx, _push, _parent, _attrs)"))
}

func TestGenerateInlineArrow(t *testing.T) {
	ast := vuego.NewRoot(nil, "")
	result := Generate(ast, Options{Inline: true, Mode: ModuleMode})
	assert.Assert(t, strings.Contains(result.Code, "(_ctx, _cache) => {"))
	assert.Assert(t, !strings.Contains(result.Code, "export "))
}

func TestGenerateMissingCodegenWarns(t *testing.T) {
	var warnings []*loc.CompilerError
	ast := vuego.NewRoot(nil, "")
	el := &vuego.ElementNode{Tag: "div"}
	ast.CodegenNode = el
	Generate(ast, Options{
		Flags:  vuego.GlobalFlags{Dev: true},
		OnWarn: func(err *loc.CompilerError) { warnings = append(warnings, err) },
	})
	assert.Equal(t, len(warnings), 1)
	assert.Equal(t, warnings[0].Code, loc.W_CODEGEN_NODE_MISSING)
}

func TestPrintToJSON(t *testing.T) {
	root := vuego.BaseParse(`<div id="a">hi {{ b }}</div>`, vuego.ParserOptions{})
	out, err := PrintToJSON(root)
	assert.NilError(t, err)
	s := string(out)
	assert.Assert(t, strings.Contains(s, `"type":"element"`))
	assert.Assert(t, strings.Contains(s, `"name":"div"`))
	assert.Assert(t, strings.Contains(s, `"type":"interpolation"`))
}
