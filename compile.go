// Package compiler compiles an HTML-like component template language into
// JavaScript render functions. The pipeline is tokenizer, tree builder,
// transform passes and code generator; each stage is configurable through
// its own option bag.
package compiler

import (
	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/printer"
	"github.com/vuego/compiler/internal/transform"
)

// Re-exported stage types so callers never import internal packages.
type (
	ParserOptions    = vuego.ParserOptions
	TransformOptions = transform.Options
	CodegenOptions   = printer.Options
	GlobalFlags      = vuego.GlobalFlags
	RootNode         = vuego.RootNode
	CompilerError    = loc.CompilerError
	ErrorCode        = loc.ErrorCode
	CodegenResult    = printer.Result

	NodeTransform      = transform.NodeTransform
	DirectiveTransform = transform.DirectiveTransform
)

// Codegen output modes.
const (
	FunctionMode = printer.FunctionMode
	ModuleMode   = printer.ModuleMode
)

// Parse modes.
const (
	ParseModeBase = vuego.ParseModeBase
	ParseModeHTML = vuego.ParseModeHTML
	ParseModeSFC  = vuego.ParseModeSFC
)

// CompilerOptions is the union of the three per-stage option bags plus the
// compile-time flags shared by the whole pipeline.
type CompilerOptions struct {
	Parser    ParserOptions
	Transform TransformOptions
	Codegen   CodegenOptions
	Flags     GlobalFlags
}

// getBaseTransformPreset returns the node and directive transforms every
// compile runs with; callers append their own through TransformOptions.
func getBaseTransformPreset() ([]transform.NodeTransform, map[string]transform.DirectiveTransform) {
	return []transform.NodeTransform{
			transform.TransformIf,
			transform.TransformFor,
			transform.TransformElement,
			transform.TransformText,
		}, map[string]transform.DirectiveTransform{
			"bind": transform.TransformBind,
			"on":   transform.TransformOn,
		}
}

// BaseParse parses a template without transforming it.
func BaseParse(source string, options ParserOptions) *RootNode {
	return vuego.BaseParse(source, options)
}

// BaseCompile runs the full pipeline over a template source.
//
// It is named baseCompile in spirit: higher order compilers layer platform
// presets (see the dom package) on top and export their own compile.
func BaseCompile(source string, options CompilerOptions) CodegenResult {
	prepare(&options)
	ast := vuego.BaseParse(source, options.Parser)
	return BaseCompileAST(ast, options)
}

// BaseCompileAST runs the transform and codegen stages over an already
// parsed (or synthesized) tree. The root is mutated in place.
func BaseCompileAST(ast *RootNode, options CompilerOptions) CodegenResult {
	prepare(&options)

	nodeTransforms, directiveTransforms := getBaseTransformPreset()
	nodeTransforms = append(nodeTransforms, options.Transform.NodeTransforms...)
	for name, dt := range options.Transform.DirectiveTransforms {
		directiveTransforms[name] = dt
	}
	transformOptions := options.Transform
	transformOptions.NodeTransforms = nodeTransforms
	transformOptions.DirectiveTransforms = directiveTransforms

	transform.Transform(ast, transformOptions)
	return printer.Generate(ast, options.Codegen)
}

// prepare propagates the shared knobs into each stage bag: compile-time
// flags, error hooks, and the module-mode identifier-prefixing rule.
func prepare(options *CompilerOptions) {
	options.Parser.Flags = options.Flags
	options.Transform.Flags = options.Flags
	options.Codegen.Flags = options.Flags

	// modules are strict by default and cannot use with
	if options.Codegen.Mode == ModuleMode {
		options.Parser.PrefixIdentifiers = true
		options.Codegen.PrefixIdentifiers = true
		options.Transform.PrefixIdentifiers = true
	}

	if options.Transform.OnError == nil {
		options.Transform.OnError = options.Parser.OnError
	}
	if options.Transform.OnWarn == nil {
		options.Transform.OnWarn = options.Parser.OnWarn
	}
	if options.Codegen.OnError == nil {
		options.Codegen.OnError = options.Parser.OnError
	}
	if options.Codegen.OnWarn == nil {
		options.Codegen.OnWarn = options.Parser.OnWarn
	}
	ssr := options.Codegen.SSR || options.Transform.SSR
	options.Transform.SSR = ssr
	options.Codegen.SSR = ssr
	inSSR := options.Codegen.InSSR || options.Transform.InSSR
	options.Transform.InSSR = inSSR
	options.Codegen.InSSR = inSSR
}
