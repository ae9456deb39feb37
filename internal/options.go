package vuego

import (
	"github.com/vuego/compiler/internal/loc"
)

// ParseMode selects tag-level parsing behavior.
//
// Base mode is platform agnostic and only parses the template syntax,
// treating all tags the same way. HTML mode adds the special raw-text
// handling of <script>, <style>, <title> and <textarea> plus CDATA in
// foreign namespaces. SFC mode treats the content of all root-level tags
// except <template> as plain text.
type ParseMode uint32

const (
	ParseModeBase ParseMode = iota
	ParseModeHTML
	ParseModeSFC
)

// Whitespace strategy for text children.
type Whitespace uint32

const (
	WhitespaceCondense Whitespace = iota
	WhitespacePreserve
)

// GlobalFlags are the compile-time constants selecting between dev/prod and
// browser/node behaviors. They are passed by value and never mutated.
type GlobalFlags struct {
	Dev     bool
	Browser bool
	Test    bool
}

// ParserOptions configure one parse call. Predicates the host platform
// contributes (native tags, namespaces, entity decoding) are injected here;
// nil predicates fall back to base-mode defaults.
type ParserOptions struct {
	ParseMode ParseMode
	// Root namespace for the template, NamespaceHTML unless overridden.
	NS Namespace

	// Platform native elements, e.g. <div> for browsers.
	IsNativeTag func(tag string) bool
	// Native elements that cannot have children, e.g. <img>, <br>.
	IsVoidTag func(tag string) bool
	// Elements that preserve whitespace inside, e.g. <pre>.
	IsPreTag func(tag string) bool
	// Platform built-in components, e.g. <Transition>. The returned name is
	// unused by core; a true second return classifies the tag as component.
	IsBuiltInComponent func(tag string) (string, bool)
	// User-extended native element list. Returns (isCustom, known).
	IsCustomElement func(tag string) (bool, bool)
	// Tag namespace resolution; parent is nil for root-level tags.
	GetNamespace func(tag string, parent *ElementNode, rootNS Namespace) Namespace
	// Entity decoder for text and attribute values containing '&'. asAttr is
	// true when decoding attribute values.
	DecodeEntities func(text string, asAttr bool) string

	Whitespace Whitespace
	// Keep comments in the AST. Defaults to the Dev flag.
	Comments *bool
	// Interpolation delimiters, `{{` / `}}` unless overridden.
	Delimiters [2]string
	// Identifier prefixing mode; force-enabled in module mode. When set
	// (outside browser builds) non-static expressions get a parsed form
	// attached. Expression text is not rewritten: {{ foo }} stays `foo`, it
	// does not become `_ctx.foo`.
	PrefixIdentifiers bool

	OnError func(*loc.CompilerError)
	OnWarn  func(*loc.CompilerError)

	Flags GlobalFlags
}

// withDefaults fills nil hooks so the parser can call them unconditionally.
func (o ParserOptions) withDefaults() ParserOptions {
	if o.IsVoidTag == nil {
		o.IsVoidTag = func(string) bool { return false }
	}
	if o.IsPreTag == nil {
		o.IsPreTag = func(string) bool { return false }
	}
	if o.GetNamespace == nil {
		o.GetNamespace = func(_ string, parent *ElementNode, rootNS Namespace) Namespace {
			if parent != nil {
				return parent.NS
			}
			return rootNS
		}
	}
	if o.DecodeEntities == nil {
		o.DecodeEntities = defaultDecodeEntities
	}
	if o.Delimiters[0] == "" || o.Delimiters[1] == "" {
		o.Delimiters = [2]string{"{{", "}}"}
	}
	return o
}
