// Package dom supplies the parser configuration for compiling templates
// that target the browser DOM: HTML parse mode, the HTML/SVG/MathML
// namespace switching rules, native and void tag tables, and the built-in
// transition components.
package dom

import (
	"strings"

	"golang.org/x/net/html/atom"

	vuego "github.com/vuego/compiler/internal"
)

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsNativeTag reports whether a tag is a platform element. Known HTML, SVG
// and MathML-adjacent names resolve through the shared atom table.
func IsNativeTag(tag string) bool {
	return atom.Lookup([]byte(strings.ToLower(tag))) != 0
}

func IsVoidTag(tag string) bool { return voidTags[tag] }

func IsPreTag(tag string) bool { return tag == "pre" }

// IsBuiltInComponent reports the platform components that are always
// registered.
func IsBuiltInComponent(tag string) (string, bool) {
	switch tag {
	case "Transition", "transition":
		return "Transition", true
	case "TransitionGroup", "transition-group":
		return "TransitionGroup", true
	}
	return "", false
}

// mathmlTextIntegration lists the MathML elements whose children parse as
// HTML, except for mglyph and malignmark.
var mathmlTextIntegration = map[string]bool{
	"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true,
}

// GetNamespace implements the tree-construction dispatcher rules:
// https://html.spec.whatwg.org/multipage/parsing.html#tree-construction-dispatcher
func GetNamespace(tag string, parent *vuego.ElementNode, rootNS vuego.Namespace) vuego.Namespace {
	ns := rootNS
	if parent != nil {
		ns = parent.NS
	}
	if parent != nil && ns == vuego.NamespaceMathML {
		if parent.Tag == "annotation-xml" {
			if tag == "svg" {
				return vuego.NamespaceSVG
			}
			for _, prop := range parent.Props {
				attr, ok := prop.(*vuego.AttributeNode)
				if ok && attr.Name == "encoding" && attr.Value != nil &&
					(attr.Value.Content == "text/html" || attr.Value.Content == "application/xhtml+xml") {
					ns = vuego.NamespaceHTML
					break
				}
			}
		} else if mathmlTextIntegration[parent.Tag] && tag != "mglyph" && tag != "malignmark" {
			ns = vuego.NamespaceHTML
		}
	} else if parent != nil && ns == vuego.NamespaceSVG {
		if parent.Tag == "foreignObject" || parent.Tag == "desc" || parent.Tag == "title" {
			ns = vuego.NamespaceHTML
		}
	}
	if ns == vuego.NamespaceHTML {
		if tag == "svg" {
			return vuego.NamespaceSVG
		}
		if tag == "math" {
			return vuego.NamespaceMathML
		}
	}
	return ns
}

// ParserOptions returns the parser configuration for DOM templates. Callers
// layer their own hooks (errors, custom elements, delimiters) on top.
func ParserOptions() vuego.ParserOptions {
	return vuego.ParserOptions{
		ParseMode:          vuego.ParseModeHTML,
		IsNativeTag:        IsNativeTag,
		IsVoidTag:          IsVoidTag,
		IsPreTag:           IsPreTag,
		IsBuiltInComponent: IsBuiltInComponent,
		GetNamespace:       GetNamespace,
	}
}
