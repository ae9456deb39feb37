package transform

import (
	"strconv"

	vuego "github.com/vuego/compiler/internal"
	"github.com/vuego/compiler/internal/loc"
	"github.com/vuego/compiler/internal/runtime"
	"github.com/vuego/compiler/internal/shared"
)

// TransformIf rewrites v-if / v-else-if / v-else siblings into a single If
// node whose codegen is a right-associated conditional chain.
var TransformIf = createStructuralDirectiveTransform(
	func(name string) bool {
		return name == "if" || name == "else" || name == "else-if"
	},
	func(node *vuego.ElementNode, dir *vuego.DirectiveNode, cx *Context) ExitFn {
		return processIf(node, dir, cx, func(ifNode *vuego.IfNode, branch *vuego.IfBranchNode, isRoot bool) ExitFn {
			// #1587: the key has to be dynamically incremented based on the
			// current node's sibling if-chains, since chained branches render
			// at the same depth
			siblings := *childrenOf(cx.parent)
			pos := len(siblings) - 1
			for i, s := range siblings {
				if s == vuego.Node(ifNode) {
					pos = i
					break
				}
			}
			key := 0
			for i := pos - 1; i >= 0; i-- {
				if sibling, ok := siblings[i].(*vuego.IfNode); ok {
					key += len(sibling.Branches)
				}
			}

			// exit callback: complete the codegen node once all children
			// have been transformed
			return func() {
				if isRoot {
					ifNode.CodegenNode = createCodegenNodeForBranch(branch, key, cx)
				} else {
					// attach this branch's codegen node to the v-if root,
					// retracting the placeholder comment it replaces
					parentCondition := getParentCondition(ifNode.CodegenNode)
					if call, ok := parentCondition.Alternate.(*vuego.CallExpression); ok &&
						call.Callee == runtime.CreateComment {
						cx.RemoveHelper(runtime.CreateComment)
					}
					parentCondition.Alternate = createCodegenNodeForBranch(
						branch, key+len(ifNode.Branches)-1, cx)
				}
			}
		})
	},
)

func processIf(
	node *vuego.ElementNode, dir *vuego.DirectiveNode, cx *Context,
	processCodegen func(ifNode *vuego.IfNode, branch *vuego.IfBranchNode, isRoot bool) ExitFn,
) ExitFn {
	if dir.Name != "else" {
		if exp, ok := dir.Exp.(*vuego.SimpleExpressionNode); !ok || exp.Content == "" {
			var l loc.SourceLocation
			if dir.Exp != nil {
				l = *dir.Exp.Location()
			} else {
				l = dir.Loc
			}
			cx.Error(loc.X_V_IF_NO_EXPRESSION, l)
			dir.Exp = vuego.NewSimpleExpression("true", false, loc.StubLoc(), vuego.NotConstant)
		}
	}

	if dir.Name == "if" {
		branch := createIfBranch(node, dir)
		ifNode := &vuego.IfNode{Branches: []*vuego.IfBranchNode{branch}}
		ifNode.Loc = node.Loc
		cx.ReplaceNode(ifNode)
		return processCodegen(ifNode, branch, true)
	}

	// locate the adjacent v-if, walking back over comments and
	// whitespace-only text
	siblings := childrenOf(cx.parent)
	var comments []*vuego.CommentNode
	i := cx.childIndex - 1
loop:
	for i >= 0 {
		switch sibling := (*siblings)[i].(type) {
		case *vuego.CommentNode:
			cx.RemoveNode(sibling)
			comments = append([]*vuego.CommentNode{sibling}, comments...)
			i--
			continue
		case *vuego.TextNode:
			if isBlankText(sibling.Content) {
				cx.RemoveNode(sibling)
				i--
				continue
			}
			break loop
		case *vuego.IfNode:
			// move the node to the if node's branches
			cx.RemoveNode(nil)
			branch := createIfBranch(node, dir)
			if cx.Flags.Dev && len(comments) > 0 {
				prefix := make([]vuego.Node, 0, len(comments)+len(branch.Children))
				for _, c := range comments {
					prefix = append(prefix, c)
				}
				branch.Children = append(prefix, branch.Children...)
			}
			sibling.Branches = append(sibling.Branches, branch)
			onExit := processCodegen(sibling, branch, false)
			// since the branch was removed, it will not be traversed;
			// make sure to traverse here
			cx.traverseNode(branch)
			if onExit != nil {
				onExit()
			}
			// reset currentNode after traversal to indicate this node has
			// been removed
			cx.currentNode = nil
			return nil
		default:
			break loop
		}
	}
	cx.Error(loc.X_V_ELSE_NO_ADJACENT_IF, dir.Loc)
	return nil
}

func isBlankText(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

func createIfBranch(node *vuego.ElementNode, dir *vuego.DirectiveNode) *vuego.IfBranchNode {
	isTemplateIf := node.TagType == vuego.TagTemplate && vuego.FindDir(node, "for") == nil
	branch := &vuego.IfBranchNode{
		UserKey:      vuego.FindProp(node, "key", false, false),
		IsTemplateIf: isTemplateIf,
	}
	branch.Loc = node.Loc
	if dir.Name != "else" {
		branch.Condition = dir.Exp
	}
	if isTemplateIf {
		branch.Children = node.Children
	} else {
		branch.Children = []vuego.Node{node}
	}
	return branch
}

func createCodegenNodeForBranch(branch *vuego.IfBranchNode, keyIndex int, cx *Context) vuego.Node {
	if branch.Condition == nil {
		return createChildrenCodegenNode(branch, keyIndex, cx)
	}
	consequent := createChildrenCodegenNode(branch, keyIndex, cx)
	commentContent := `""`
	if cx.Flags.Dev {
		commentContent = `"v-if"`
	}
	alternate := vuego.NewCallExpression(cx.Helper(runtime.CreateComment), []vuego.Node{
		vuego.NewRaw(commentContent),
		vuego.NewRaw("true"),
	}, loc.StubLoc())
	cond := &vuego.ConditionalExpression{
		Test:       branch.Condition,
		Consequent: consequent,
		Alternate:  alternate,
		Newline:    true,
	}
	cond.Loc = branch.Loc
	return cond
}

func createChildrenCodegenNode(branch *vuego.IfBranchNode, keyIndex int, cx *Context) vuego.Node {
	keyProperty := vuego.NewProperty(
		vuego.NewSimpleExpression("key", true, loc.StubLoc(), vuego.CanStringify),
		vuego.NewSimpleExpression(strconv.Itoa(keyIndex), false, loc.StubLoc(), vuego.CanCache),
	)
	children := branch.Children
	firstChild := children[0]

	needFragmentWrapper := len(children) != 1 || firstChild.Kind() != vuego.NodeElement
	if needFragmentWrapper {
		if len(children) == 1 && firstChild.Kind() == vuego.NodeFor {
			// optimize away nested fragments when the child is a ForNode
			call := firstChild.(*vuego.ForNode).CodegenNode
			injectProp(call, keyProperty, cx)
			return call
		}
		patchFlag := shared.StableFragment
		if cx.Flags.Dev && !branch.IsTemplateIf {
			nonComment := 0
			for _, c := range children {
				if c.Kind() != vuego.NodeComment {
					nonComment++
				}
			}
			if nonComment == 1 {
				patchFlag |= shared.DevRootFragment
			}
		}
		return cx.createVNodeCall(
			cx.Helper(runtime.Fragment),
			vuego.NewObjectExpression([]*vuego.Property{keyProperty}, loc.StubLoc()),
			children, nil, patchFlag, true, false, false, branch.Loc)
	}

	// a single element branch reuses the element's own vnode call,
	// upgraded to a block and keyed
	el := firstChild.(*vuego.ElementNode)
	if call, ok := el.CodegenNode.(*vuego.VNodeCall); ok {
		convertToBlock(call, cx)
		injectProp(call, keyProperty, cx)
	}
	return el.CodegenNode
}

func getParentCondition(node vuego.Node) *vuego.ConditionalExpression {
	for {
		cond, ok := node.(*vuego.ConditionalExpression)
		if !ok {
			return nil
		}
		if alt, ok := cond.Alternate.(*vuego.ConditionalExpression); ok {
			node = alt
			continue
		}
		return cond
	}
}
