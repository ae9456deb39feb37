package printer

import (
	"github.com/go-json-experiment/json"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
)

// ASTNode is the JSON projection of a template AST node, used by editor
// tooling and tests to inspect parse results without walking Go structs.
type ASTNode struct {
	Type       string      `json:"type"`
	Name       string      `json:"name,omitempty"`
	Value      string      `json:"value,omitempty"`
	Attributes []ASTNode   `json:"attributes,omitempty"`
	Children   []ASTNode   `json:"children,omitempty"`
	Position   ASTPosition `json:"position"`

	// attributes only
	Kind string `json:"kind,omitempty"`
}

type ASTPosition struct {
	Start loc.Position `json:"start"`
	End   loc.Position `json:"end"`
}

// PrintToJSON serializes a parsed (not necessarily transformed) AST.
func PrintToJSON(root *vuego.RootNode) ([]byte, error) {
	doc := ASTNode{
		Type:     "root",
		Children: childrenToJSON(root.Children),
		Position: ASTPosition{Start: root.Loc.Start, End: root.Loc.End},
	}
	return json.Marshal(doc)
}

func childrenToJSON(children []vuego.Node) []ASTNode {
	out := make([]ASTNode, 0, len(children))
	for _, c := range children {
		out = append(out, nodeToJSON(c))
	}
	return out
}

func nodeToJSON(node vuego.Node) ASTNode {
	pos := ASTPosition{Start: node.Location().Start, End: node.Location().End}
	switch n := node.(type) {
	case *vuego.ElementNode:
		kind := "element"
		switch n.TagType {
		case vuego.TagComponent:
			kind = "component"
		case vuego.TagSlot:
			kind = "slot"
		case vuego.TagTemplate:
			kind = "template"
		}
		return ASTNode{
			Type:       kind,
			Name:       n.Tag,
			Attributes: propsToJSON(n.Props),
			Children:   childrenToJSON(n.Children),
			Position:   pos,
		}
	case *vuego.TextNode:
		return ASTNode{Type: "text", Value: n.Content, Position: pos}
	case *vuego.CommentNode:
		return ASTNode{Type: "comment", Value: n.Content, Position: pos}
	case *vuego.InterpolationNode:
		value := ""
		if exp, ok := n.Content.(*vuego.SimpleExpressionNode); ok {
			value = exp.Content
		}
		return ASTNode{Type: "interpolation", Value: value, Position: pos}
	}
	return ASTNode{Type: "unknown", Position: pos}
}

func propsToJSON(props []vuego.Node) []ASTNode {
	out := make([]ASTNode, 0, len(props))
	for _, prop := range props {
		pos := ASTPosition{Start: prop.Location().Start, End: prop.Location().End}
		switch prop := prop.(type) {
		case *vuego.AttributeNode:
			value := ""
			if prop.Value != nil {
				value = prop.Value.Content
			}
			out = append(out, ASTNode{
				Type: "attribute", Kind: "static", Name: prop.Name, Value: value, Position: pos,
			})
		case *vuego.DirectiveNode:
			value := ""
			if exp, ok := prop.Exp.(*vuego.SimpleExpressionNode); ok {
				value = exp.Content
			}
			out = append(out, ASTNode{
				Type: "attribute", Kind: "directive", Name: prop.RawName, Value: value, Position: pos,
			})
		}
	}
	return out
}
