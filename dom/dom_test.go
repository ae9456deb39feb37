package dom

import (
	"testing"

	"gotest.tools/v3/assert"

	vuego "github.com/vuego/compiler/internal"
)

func TestIsNativeTag(t *testing.T) {
	assert.Assert(t, IsNativeTag("div"))
	assert.Assert(t, IsNativeTag("svg"))
	assert.Assert(t, IsNativeTag("textarea"))
	assert.Assert(t, !IsNativeTag("MyComponent"))
	assert.Assert(t, !IsNativeTag("custom-thing"))
}

func TestIsVoidTag(t *testing.T) {
	for _, tag := range []string{"br", "img", "input", "meta", "hr"} {
		assert.Assert(t, IsVoidTag(tag), "%s should be void", tag)
	}
	assert.Assert(t, !IsVoidTag("div"))
	assert.Assert(t, !IsVoidTag("title"))
}

func TestBuiltInComponents(t *testing.T) {
	_, ok := IsBuiltInComponent("Transition")
	assert.Assert(t, ok)
	_, ok = IsBuiltInComponent("transition-group")
	assert.Assert(t, ok)
	_, ok = IsBuiltInComponent("Teleport")
	assert.Assert(t, !ok)
}

func element(tag string, ns vuego.Namespace, attrs ...*vuego.AttributeNode) *vuego.ElementNode {
	el := &vuego.ElementNode{Tag: tag, NS: ns}
	for _, a := range attrs {
		el.Props = append(el.Props, a)
	}
	return el
}

func attr(name, value string) *vuego.AttributeNode {
	a := &vuego.AttributeNode{Name: name}
	a.Value = &vuego.TextNode{Content: value}
	return a
}

func TestGetNamespaceRootSwitches(t *testing.T) {
	assert.Equal(t, GetNamespace("svg", nil, vuego.NamespaceHTML), vuego.NamespaceSVG)
	assert.Equal(t, GetNamespace("math", nil, vuego.NamespaceHTML), vuego.NamespaceMathML)
	assert.Equal(t, GetNamespace("div", nil, vuego.NamespaceHTML), vuego.NamespaceHTML)
}

func TestGetNamespaceInheritance(t *testing.T) {
	svg := element("svg", vuego.NamespaceSVG)
	assert.Equal(t, GetNamespace("circle", svg, vuego.NamespaceHTML), vuego.NamespaceSVG)
}

func TestGetNamespaceSVGIntegrationPoints(t *testing.T) {
	for _, tag := range []string{"foreignObject", "desc", "title"} {
		parent := element(tag, vuego.NamespaceSVG)
		assert.Equal(t, GetNamespace("div", parent, vuego.NamespaceHTML), vuego.NamespaceHTML)
	}
}

func TestGetNamespaceMathMLTextIntegration(t *testing.T) {
	mi := element("mi", vuego.NamespaceMathML)
	assert.Equal(t, GetNamespace("span", mi, vuego.NamespaceHTML), vuego.NamespaceHTML)
	// mglyph and malignmark stay in MathML
	assert.Equal(t, GetNamespace("mglyph", mi, vuego.NamespaceHTML), vuego.NamespaceMathML)
}

func TestGetNamespaceAnnotationXML(t *testing.T) {
	plain := element("annotation-xml", vuego.NamespaceMathML)
	assert.Equal(t, GetNamespace("div", plain, vuego.NamespaceHTML), vuego.NamespaceMathML)
	assert.Equal(t, GetNamespace("svg", plain, vuego.NamespaceHTML), vuego.NamespaceSVG)

	htmlEncoded := element("annotation-xml", vuego.NamespaceMathML, attr("encoding", "text/html"))
	assert.Equal(t, GetNamespace("div", htmlEncoded, vuego.NamespaceHTML), vuego.NamespaceHTML)

	xhtmlEncoded := element("annotation-xml", vuego.NamespaceMathML, attr("encoding", "application/xhtml+xml"))
	assert.Equal(t, GetNamespace("div", xhtmlEncoded, vuego.NamespaceHTML), vuego.NamespaceHTML)
}

func TestParserOptionsPreset(t *testing.T) {
	options := ParserOptions()
	assert.Equal(t, options.ParseMode, vuego.ParseModeHTML)
	assert.Assert(t, options.IsPreTag("pre"))
	assert.Assert(t, !options.IsPreTag("div"))
}
