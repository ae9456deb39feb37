package printer

import (
	"fmt"
	"strings"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/handler"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

const pureAnnotation = "/*@__PURE__*/"

// Mode selects the shape of the emitted module.
type Mode uint32

const (
	// FunctionMode wraps the render function in a plain function statement,
	// reading helpers off a runtime global.
	FunctionMode Mode = iota
	// ModuleMode emits an ES module importing its helpers.
	ModuleMode
)

// SourceMapSink receives a {code, offset, node} triple on every emit.
// Implementations build whatever map format they need; the generator does
// not hard-code one.
type SourceMapSink interface {
	Emit(code string, offset int, node vuego.Node)
}

// Options configure code generation.
type Options struct {
	Mode              Mode
	PrefixIdentifiers bool
	SSR               bool
	InSSR             bool
	IsTS              bool
	ScopeID           string
	OptimizeImports   bool
	RuntimeModuleName string
	RuntimeGlobalName string
	Inline            bool
	// BindingMetadata carries SFC binding kinds; its presence extends the
	// render signature with the binding optimization arguments.
	BindingMetadata map[string]string
	SourceMap       SourceMapSink
	Flags           vuego.GlobalFlags

	OnError func(*loc.CompilerError)
	OnWarn  func(*loc.CompilerError)
}

// Result is what one Generate call produces.
type Result struct {
	Code     string
	Preamble string
	AST      *vuego.RootNode
}

// printer is the codegen context: a growing output buffer plus indentation
// and annotation state.
type printer struct {
	opts              Options
	prefixIdentifiers bool
	runtimeModuleName string
	runtimeGlobalName string

	output      []byte
	indentLevel int
	pure        bool

	h *handler.Handler
}

func newPrinter(opts Options) *printer {
	p := &printer{
		opts:              opts,
		prefixIdentifiers: opts.PrefixIdentifiers || opts.Mode == ModuleMode,
		runtimeModuleName: opts.RuntimeModuleName,
		runtimeGlobalName: opts.RuntimeGlobalName,
		h:                 handler.NewHandler("", ""),
	}
	if p.runtimeModuleName == "" {
		p.runtimeModuleName = "vue"
	}
	if p.runtimeGlobalName == "" {
		p.runtimeGlobalName = "Vue"
	}
	p.h.Hook(opts.OnError, opts.OnWarn)
	return p
}

// helperAlias returns the aliased identifier a runtime helper is bound to in the
// generated code.
func helperAlias(name string) string {
	return "_" + name
}

func (p *printer) print(text string) {
	p.output = append(p.output, text...)
	if p.opts.SourceMap != nil {
		p.opts.SourceMap.Emit(text, -1, nil)
	}
}

func (p *printer) printf(format string, a ...interface{}) {
	p.print(fmt.Sprintf(format, a...))
}

// printNode emits text attributed to a node for source map consumers.
func (p *printer) printNode(text string, node vuego.Node) {
	p.output = append(p.output, text...)
	if p.opts.SourceMap != nil {
		offset := -1
		if node != nil {
			offset = node.Location().Start.Offset
		}
		p.opts.SourceMap.Emit(text, offset, node)
	}
}

func (p *printer) indent() {
	p.indentLevel++
	p.printNewline()
}

func (p *printer) deindent(withoutNewline bool) {
	p.indentLevel--
	if !withoutNewline {
		p.printNewline()
	}
}

func (p *printer) printNewline() {
	p.print("\n" + strings.Repeat("  ", p.indentLevel))
}

// Generate prints a transformed AST to JavaScript source.
func Generate(ast *vuego.RootNode, opts Options) Result {
	p := newPrinter(opts)
	useWithBlock := !p.prefixIdentifiers && opts.Mode != ModuleMode

	if opts.Mode == ModuleMode {
		p.genModulePreamble(ast)
	} else {
		p.genFunctionPreamble(ast)
	}

	// enter render function
	functionName := "render"
	args := []string{"_ctx", "_cache"}
	if opts.SSR {
		functionName = "ssrRender"
		args = []string{"_ctx", "_push", "_parent", "_attrs"}
	}
	if opts.BindingMetadata != nil && !opts.Inline {
		// binding optimization args
		args = append(args, "$props", "$setup", "$data", "$options")
	}
	signature := strings.Join(args, ", ")
	if opts.IsTS {
		annotated := make([]string, len(args))
		for i, a := range args {
			annotated[i] = a + ": any"
		}
		signature = strings.Join(annotated, ",")
	}

	if opts.Inline {
		p.printf("(%s) => {", signature)
	} else {
		p.printf("function %s(%s) {", functionName, signature)
	}
	p.indent()

	if useWithBlock {
		p.print("with (_ctx) {")
		p.indent()
		// function mode const declarations should be inside the with block,
		// and renamed to avoid collision with user properties
		if len(ast.Helpers) > 0 {
			p.printf("const { %s } = _Vue\n", strings.Join(aliasHelpers(ast.Helpers), ", "))
			p.printNewline()
		}
	}

	// asset resolution statements
	if len(ast.Components) > 0 {
		p.genAssets(ast.Components, "component")
		if len(ast.Directives) > 0 || ast.Temps > 0 {
			p.printNewline()
		}
	}
	if len(ast.Directives) > 0 {
		p.genAssets(ast.Directives, "directive")
		if ast.Temps > 0 {
			p.printNewline()
		}
	}
	if ast.Temps > 0 {
		p.print("let ")
		for i := 0; i < ast.Temps; i++ {
			if i > 0 {
				p.print(", ")
			}
			p.printf("_temp%d", i)
		}
	}
	if len(ast.Components) > 0 || len(ast.Directives) > 0 || ast.Temps > 0 {
		p.print("\n")
		p.printNewline()
	}

	// the VNode tree expression
	if !opts.SSR {
		p.print("return ")
	}
	if ast.CodegenNode != nil {
		p.genNode(ast.CodegenNode)
	} else {
		p.print("null")
	}

	if useWithBlock {
		p.deindent(false)
		p.print("}")
	}
	p.deindent(false)
	p.print("}")

	return Result{Code: string(p.output), AST: ast}
}

func aliasHelpers(helpers []string) []string {
	out := make([]string, len(helpers))
	for i, h := range helpers {
		out[i] = h + ": " + helperAlias(h)
	}
	return out
}

func (p *printer) genFunctionPreamble(ast *vuego.RootNode) {
	vueBinding := p.runtimeGlobalName
	if p.opts.SSR {
		vueBinding = "require(" + quoteJSON(p.runtimeModuleName) + ")"
	}

	// In prefix mode the const declaration sits at the top so it runs only
	// once. Without prefixing, helpers are declared inside the with block
	// to avoid the `in` check cost for every helper access; hoists are
	// lifted out of the function, so their creators still have to be
	// surfaced here.
	if len(ast.Helpers) > 0 {
		if p.prefixIdentifiers {
			p.printf("const { %s } = %s\n", strings.Join(aliasHelpers(ast.Helpers), ", "), vueBinding)
		} else {
			// save Vue in a separate variable to avoid collision
			p.printf("const _Vue = %s\n", vueBinding)
			if len(ast.Hoists) > 0 {
				staticHelpers := make([]string, 0, 5)
				for _, h := range []string{
					runtime.CreateVNode, runtime.CreateElementVNode, runtime.CreateComment,
					runtime.CreateText, runtime.CreateStatic,
				} {
					if containsString(ast.Helpers, h) {
						staticHelpers = append(staticHelpers, h+": "+helperAlias(h))
					}
				}
				p.printf("const { %s } = _Vue\n", strings.Join(staticHelpers, ", "))
			}
		}
	}
	p.genHoists(ast.Hoists)
	p.printNewline()
	p.print("return ")
}

func (p *printer) genModulePreamble(ast *vuego.RootNode) {
	if len(ast.Helpers) > 0 {
		if p.opts.OptimizeImports {
			// when bundled with webpack with code-split, calling an import
			// binding as a function leads to it being wrapped with
			// `Object(a.b)` or `(0,a.b)`, incurring both payload size
			// increase and potential perf overhead. Assigning the imports to
			// variables is a constant ~50b cost per component instead of
			// scaling with template size.
			p.printf("import { %s } from %s\n",
				strings.Join(ast.Helpers, ", "), quoteJSON(p.runtimeModuleName))
			assignments := make([]string, len(ast.Helpers))
			for i, h := range ast.Helpers {
				assignments[i] = helperAlias(h) + " = " + h
			}
			p.printf("\n// Binding optimization for webpack code-split\nconst %s\n",
				strings.Join(assignments, ", "))
		} else {
			imports := make([]string, len(ast.Helpers))
			for i, h := range ast.Helpers {
				imports[i] = h + " as " + helperAlias(h)
			}
			p.printf("import { %s } from %s\n",
				strings.Join(imports, ", "), quoteJSON(p.runtimeModuleName))
		}
	}
	p.genHoists(ast.Hoists)
	p.printNewline()
	if !p.opts.Inline {
		p.print("export ")
	}
}

func (p *printer) genAssets(assets []string, assetType string) {
	resolver := helperAlias(runtime.ResolveComponent)
	if assetType == "directive" {
		resolver = helperAlias(runtime.ResolveDirective)
	}
	for i, id := range assets {
		// potential component implicit self-reference inferred from the SFC
		// filename
		maybeSelfReference := strings.HasSuffix(id, "__self")
		if maybeSelfReference {
			id = strings.TrimSuffix(id, "__self")
		}
		selfArg := ""
		if maybeSelfReference {
			selfArg = ", true"
		}
		bang := ""
		if p.opts.IsTS {
			bang = "!"
		}
		p.printf("const %s = %s(%s%s)%s",
			shared.ToValidAssetID(id, assetType), resolver, quoteJSON(id), selfArg, bang)
		if i < len(assets)-1 {
			p.printNewline()
		}
	}
}

func (p *printer) genHoists(hoists []vuego.Node) {
	if len(hoists) == 0 {
		return
	}
	p.pure = true
	p.printNewline()
	for i, exp := range hoists {
		if exp == nil {
			continue
		}
		p.printf("const _hoisted_%d = ", i+1)
		p.genNode(exp)
		p.printNewline()
	}
	p.pure = false
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
