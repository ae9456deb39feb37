package vuego

import (
	"strings"

	"github.com/dlclark/regexp2"
	xhtml "golang.org/x/net/html"

	"github.com/vuego/compiler/internal/handler"
	"github.com/vuego/compiler/internal/loc"
)

// Template directives that turn a <template> into a compiled-away fragment.
var specialTemplateDir = map[string]bool{
	"if": true, "else": true, "else-if": true, "for": true, "slot": true,
}

// The v-for value shape: `alias in source` / `alias of source`, with a lazy
// LHS so the first ` in ` / ` of ` wins. Backtracking-style patterns, so
// regexp2 rather than the stdlib matcher.
var (
	forAliasRE    = regexp2.MustCompile(`([\s\S]*?)\s+(?:in|of)\s+(\S[\s\S]*)`, regexp2.None)
	forIteratorRE = regexp2.MustCompile(`,([^,\}\]]*)(?:,([^,\}\]]*))?$`, regexp2.None)
)

func defaultDecodeEntities(text string, _ bool) string {
	return xhtml.UnescapeString(text)
}

// expParseMode selects how a directive expression should be wrapped when a
// parsed form is attached.
type expParseMode uint32

const (
	expParseNormal expParseMode = iota
	expParseParams
	expParseStatements
	expParseSkip
)

// parser assembles the AST from tokenizer events. One instance exists per
// BaseParse call; it owns the input buffer, the element stack and the
// per-attribute scratch state.
type parser struct {
	options ParserOptions
	root    *RootNode
	input   string
	tk      *Tokenizer
	h       *handler.Handler

	currentOpenTag        *ElementNode
	currentProp           Node // *AttributeNode | *DirectiveNode
	currentAttrValue      string
	currentAttrStartIndex int
	currentAttrEndIndex   int
	inPre                 int
	inVPre                bool
	currentVPreBoundary   *ElementNode
	// stack of open elements, innermost first
	stack []*ElementNode
}

// BaseParse parses a template into a root AST node. Errors are non-fatal:
// the parser recovers, reports through the OnError hook and keeps going.
func BaseParse(input string, options ParserOptions) *RootNode {
	options = options.withDefaults()

	p := &parser{
		options:               options,
		root:                  NewRoot(nil, input),
		input:                 input,
		h:                     handler.NewHandler(input, ""),
		currentAttrStartIndex: -1,
		currentAttrEndIndex:   -1,
	}
	p.h.Hook(options.OnError, options.OnWarn)

	p.tk = NewTokenizer(p, options.Flags, p.atSFCRoot)
	p.tk.SetMode(options.ParseMode)
	p.tk.SetDelimiters(options.Delimiters[0], options.Delimiters[1])
	if options.NS == NamespaceSVG || options.NS == NamespaceMathML {
		p.tk.SetInXML(true)
	}

	p.tk.Parse(input)

	p.root.Loc = p.getLoc(0, len(input))
	p.root.Children = condenseWhitespace(
		p.root.Children, p.options.Whitespace != WhitespacePreserve, p.inPre)
	return p.root
}

func (p *parser) atSFCRoot() bool {
	return p.options.ParseMode == ParseModeSFC && len(p.stack) == 0
}

func (p *parser) getSlice(start, end int) string {
	return p.input[start:end]
}

func (p *parser) getPos(index int) loc.Position {
	return p.tk.Newlines().Pos(index)
}

func (p *parser) getLoc(start, end int) loc.SourceLocation {
	if end < 0 {
		end = start
	}
	return loc.SourceLocation{
		Start:  p.getPos(start),
		End:    p.getPos(end),
		Source: p.getSlice(start, end),
	}
}

func (p *parser) setLocEnd(l *loc.SourceLocation, end int) {
	l.End = p.getPos(end)
	l.Source = p.getSlice(l.Start.Offset, end)
}

// lookAhead returns the index of the next occurrence of c at or after
// index, or the last buffer index if there is none.
func (p *parser) lookAhead(index int, c byte) int {
	i := index
	for i < len(p.input)-1 && p.input[i] != c {
		i++
	}
	return i
}

// backTrack returns the index of the closest occurrence of c at or before
// index.
func (p *parser) backTrack(index int, c byte) int {
	i := index
	for i >= 0 && p.input[i] != c {
		i--
	}
	if i < 0 {
		i = index
	}
	return i
}

func (p *parser) emitError(code loc.ErrorCode, index int) {
	l := p.getLoc(index, index)
	p.h.AppendError(loc.NewError(code, &l))
}

func (p *parser) addNode(node Node) {
	if len(p.stack) > 0 {
		parent := p.stack[0]
		parent.Children = append(parent.Children, node)
	} else {
		p.root.Children = append(p.root.Children, node)
	}
}

func (p *parser) isComponent(el *ElementNode) bool {
	if p.options.IsCustomElement != nil {
		if isCustom, known := p.options.IsCustomElement(el.Tag); known && isCustom {
			return false
		}
	}
	if el.Tag == "component" || isUpperCase(el.Tag) {
		return true
	}
	if _, ok := IsCoreComponent(el.Tag); ok {
		return true
	}
	if p.options.IsBuiltInComponent != nil {
		if _, ok := p.options.IsBuiltInComponent(el.Tag); ok {
			return true
		}
	}
	if p.options.IsNativeTag != nil && !p.options.IsNativeTag(el.Tag) {
		return true
	}
	// at this point the tag should be a native tag, but check for potential
	// "is" casting
	for _, prop := range el.Props {
		if attr, ok := prop.(*AttributeNode); ok && attr.Name == "is" && attr.Value != nil {
			if strings.HasPrefix(attr.Value.Content, "vue:") {
				return true
			}
		}
	}
	return false
}

func isUpperCase(tag string) bool {
	return len(tag) > 0 && tag[0] >= 'A' && tag[0] <= 'Z'
}

func isFragmentTemplate(el *ElementNode) bool {
	if el.Tag != "template" {
		return false
	}
	for _, prop := range el.Props {
		if dir, ok := prop.(*DirectiveNode); ok && specialTemplateDir[dir.Name] {
			return true
		}
	}
	return false
}

func (p *parser) endOpenTag(end int) {
	el := p.currentOpenTag
	p.currentOpenTag = nil

	if el.NS == NamespaceHTML && p.options.IsPreTag(el.Tag) {
		p.inPre++
	}
	if p.options.IsVoidTag(el.Tag) {
		p.closeElement(el, end, false)
		p.addNode(el)
	} else {
		if el.NS == NamespaceSVG || el.NS == NamespaceMathML {
			p.tk.SetInXML(true)
		}
		p.stack = append([]*ElementNode{el}, p.stack...)
	}
}

// closeElement attaches the end position, reclassifies the tag and
// normalizes whitespace among the children.
func (p *parser) closeElement(el *ElementNode, end int, isImplied bool) {
	if isImplied {
		// implied close, end should be backtracked to the opener of the tag
		// that implied it
		p.setLocEnd(&el.Loc, p.backTrack(end, '<'))
	} else {
		p.setLocEnd(&el.Loc, p.lookAhead(end, '>')+1)
	}

	if !p.inVPre {
		if el.Tag == "slot" {
			el.TagType = TagSlot
		} else if isFragmentTemplate(el) {
			el.TagType = TagTemplate
		} else if p.isComponent(el) {
			el.TagType = TagComponent
		}
	}

	// whitespace management outside of raw-text content
	if !p.tk.inRCData {
		el.Children = condenseWhitespace(
			el.Children, p.options.Whitespace != WhitespacePreserve, p.inPre)
	}

	if el.NS == NamespaceHTML && p.options.IsPreTag(el.Tag) {
		p.inPre--
	}
	if p.currentVPreBoundary == el {
		p.inVPre = false
		p.currentVPreBoundary = nil
		p.tk.SetInVPre(false)
	}
	if p.tk.inXML {
		ns := p.options.NS
		if len(p.stack) > 0 {
			ns = p.stack[0].NS
		}
		if ns == NamespaceHTML {
			p.tk.SetInXML(false)
		}
	}
}

func (p *parser) createExp(content string, static bool, l loc.SourceLocation, constType ConstantType, mode expParseMode) *SimpleExpressionNode {
	exp := NewSimpleExpression(content, static, l, constType)
	p.attachParsedExpression(exp, mode)
	return exp
}

func (p *parser) createAliasExpression(base *loc.SourceLocation, content string, offset int, asParam bool) *SimpleExpressionNode {
	start := base.Start.Offset + offset
	mode := expParseNormal
	if asParam {
		mode = expParseParams
	}
	return p.createExp(content, false, p.getLoc(start, start+len(content)), NotConstant, mode)
}

// parseForExpression decomposes a v-for value into source and positional
// aliases, each carrying its character offset within the attribute value.
func (p *parser) parseForExpression(input *SimpleExpressionNode) *ForParseResult {
	exp := input.Content
	m, err := forAliasRE.FindStringMatch(exp)
	if err != nil || m == nil {
		return nil
	}
	lhs := m.GroupByNumber(1).String()
	rhs := m.GroupByNumber(2).String()

	result := &ForParseResult{
		Source: p.createAliasExpression(
			&input.Loc,
			strings.TrimSpace(rhs),
			indexFrom(exp, strings.TrimSpace(rhs), len(lhs)),
			false,
		),
	}

	valueContent := strings.TrimSpace(lhs)
	valueContent = strings.TrimPrefix(valueContent, "(")
	valueContent = strings.TrimSuffix(valueContent, ")")
	valueContent = strings.TrimSpace(valueContent)
	trimmedOffset := strings.Index(lhs, valueContent)

	if im, _ := forIteratorRE.FindStringMatch(valueContent); im != nil {
		valueContent = strings.TrimSpace(valueContent[:im.Index])

		keyContent := strings.TrimSpace(im.GroupByNumber(1).String())
		keyOffset := -1
		if keyContent != "" {
			keyOffset = indexFrom(exp, keyContent, trimmedOffset+len(valueContent))
			result.Key = p.createAliasExpression(&input.Loc, keyContent, keyOffset, true)
		}
		if g := im.GroupByNumber(2); g != nil && len(g.Captures) > 0 {
			indexContent := strings.TrimSpace(g.String())
			if indexContent != "" {
				from := trimmedOffset + len(valueContent)
				if result.Key != nil {
					from = keyOffset + len(keyContent)
				}
				result.Index = p.createAliasExpression(
					&input.Loc, indexContent, indexFrom(exp, indexContent, from), true)
			}
		}
	}

	if valueContent != "" {
		result.Value = p.createAliasExpression(&input.Loc, valueContent, trimmedOffset, true)
	}
	return result
}

func indexFrom(s, substr string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		from = len(s)
	}
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return strings.Index(s, substr)
	}
	return from + i
}

// dirToAttr demotes a directive inside a v-pre subtree to a plain attribute.
func (p *parser) dirToAttr(dir *DirectiveNode) *AttributeNode {
	attr := &AttributeNode{
		Name:    dir.RawName,
		NameLoc: p.getLoc(dir.Loc.Start.Offset, dir.Loc.Start.Offset+len(dir.RawName)),
	}
	attr.Loc = dir.Loc
	if exp, ok := dir.Exp.(*SimpleExpressionNode); ok && exp != nil {
		// account for quotes
		l := exp.Loc
		if l.End.Offset < dir.Loc.End.Offset {
			l.Start.Offset--
			l.Start.Column--
			l.End.Offset++
			l.End.Column++
		}
		value := &TextNode{Content: exp.Content}
		value.Loc = l
		attr.Value = value
	}
	return attr
}

// --- tokenizer callbacks ---

func (p *parser) OnErr(code loc.ErrorCode, index int) {
	p.emitError(code, index)
}

func (p *parser) OnText(start, end int) {
	content := p.getSlice(start, end)
	if strings.ContainsRune(content, '&') && !p.inRawTextElement() {
		content = p.options.DecodeEntities(content, false)
	}
	p.onText(content, start, end)
}

func (p *parser) inRawTextElement() bool {
	if len(p.stack) == 0 {
		return false
	}
	tag := p.stack[0].Tag
	return tag == "script" || tag == "style"
}

func (p *parser) onText(content string, start, end int) {
	var siblings *[]Node
	if len(p.stack) > 0 {
		siblings = &p.stack[0].Children
	} else {
		siblings = &p.root.Children
	}
	if n := len(*siblings); n > 0 {
		if last, ok := (*siblings)[n-1].(*TextNode); ok {
			// merge with the previous text node
			last.Content += content
			p.setLocEnd(&last.Loc, end)
			return
		}
	}
	text := &TextNode{Content: content}
	text.Loc = p.getLoc(start, end)
	*siblings = append(*siblings, text)
}

func (p *parser) OnInterpolation(start, end int) {
	if p.inVPre {
		p.onText(p.getSlice(start, end), start, end)
		return
	}
	openLen, closeLen := p.tk.DelimiterLengths()
	innerStart := start + openLen
	for innerStart < end && isWhitespace(p.input[innerStart]) {
		innerStart++
	}
	innerEnd := end - closeLen
	for innerEnd > innerStart && isWhitespace(p.input[innerEnd-1]) {
		innerEnd--
	}
	exp := p.getSlice(innerStart, innerEnd)
	// decode entities for backwards compat
	if strings.ContainsRune(exp, '&') {
		exp = p.options.DecodeEntities(exp, false)
	}

	node := &InterpolationNode{
		Content: p.createExp(exp, false, p.getLoc(innerStart, innerEnd), NotConstant, expParseNormal),
	}
	node.Loc = p.getLoc(start, end)
	p.addNode(node)
}

func (p *parser) OnOpenTagName(start, end int) {
	name := p.getSlice(start, end)
	var parent *ElementNode
	if len(p.stack) > 0 {
		parent = p.stack[0]
	}
	el := &ElementNode{
		NS:      p.options.GetNamespace(name, parent, p.options.NS),
		Tag:     name,
		TagType: TagElement,
	}
	el.Loc = p.getLoc(start-1, end)
	p.currentOpenTag = el
}

func (p *parser) OnOpenTagEnd(end int) {
	p.endOpenTag(end)
}

func (p *parser) OnCloseTag(start, end int) {
	name := p.getSlice(start, end)
	if p.options.IsVoidTag(name) {
		return
	}
	found := false
	index := 0
	for i, e := range p.stack {
		if strings.EqualFold(e.Tag, name) {
			found = true
			if i > 0 {
				p.emitError(loc.X_MISSING_END_TAG, p.stack[0].Loc.Start.Offset)
			}
			index = i
			break
		}
	}
	if !found {
		p.emitError(loc.X_INVALID_END_TAG, p.backTrack(start, '<'))
		return
	}
	for j := 0; j <= index; j++ {
		el := p.stack[0]
		p.stack = p.stack[1:]
		p.closeElement(el, end, j < index)
		p.addNode(el)
	}
}

func (p *parser) OnSelfClosingTag(end int) {
	el := p.currentOpenTag
	el.SelfClosing = true
	p.endOpenTag(end)
	if len(p.stack) > 0 && p.stack[0] == el {
		p.stack = p.stack[1:]
		p.closeElement(el, end, false)
		p.addNode(el)
	}
}

func (p *parser) OnAttribName(start, end int) {
	// plain attribute
	attr := &AttributeNode{
		Name:    p.getSlice(start, end),
		NameLoc: p.getLoc(start, end),
	}
	attr.Loc = p.getLoc(start, -1)
	p.currentProp = attr
}

func (p *parser) OnDirName(start, end int) {
	raw := p.getSlice(start, end)
	var name string
	switch raw {
	case ".", ":":
		name = "bind"
	case "@":
		name = "on"
	case "#":
		name = "slot"
	default:
		if len(raw) > 2 {
			name = raw[2:]
		}
	}

	if !p.inVPre && name == "" {
		p.emitError(loc.X_MISSING_DIRECTIVE_NAME, start)
	}

	if p.inVPre || name == "" {
		attr := &AttributeNode{
			Name:    raw,
			NameLoc: p.getLoc(start, end),
		}
		attr.Loc = p.getLoc(start, -1)
		p.currentProp = attr
		return
	}

	dir := &DirectiveNode{
		Name:    name,
		RawName: raw,
	}
	if raw == "." {
		dir.Modifiers = append(dir.Modifiers,
			NewSimpleExpression("prop", true, loc.StubLoc(), NotConstant))
	}
	dir.Loc = p.getLoc(start, -1)
	p.currentProp = dir

	if name == "pre" {
		p.inVPre = true
		p.tk.SetInVPre(true)
		p.currentVPreBoundary = p.currentOpenTag
		// convert dirs before this one to attributes
		if p.currentOpenTag != nil {
			props := p.currentOpenTag.Props
			for i, prop := range props {
				if d, ok := prop.(*DirectiveNode); ok {
					props[i] = p.dirToAttr(d)
				}
			}
		}
	}
}

func (p *parser) OnDirArg(start, end int) {
	if start == end {
		return
	}
	arg := p.getSlice(start, end)
	if p.inVPre {
		if attr, ok := p.currentProp.(*AttributeNode); ok {
			attr.Name += arg
			p.setLocEnd(&attr.NameLoc, end)
		}
		return
	}
	dir, ok := p.currentProp.(*DirectiveNode)
	if !ok {
		return
	}
	isStatic := !strings.HasPrefix(arg, "[")
	content := arg
	constType := CanStringify
	if !isStatic {
		content = strings.TrimSuffix(strings.TrimPrefix(arg, "["), "]")
		constType = NotConstant
	}
	dir.Arg = p.createExp(content, isStatic, p.getLoc(start, end), constType, expParseNormal)
}

func (p *parser) OnDirModifier(start, end int) {
	mod := p.getSlice(start, end)
	if p.inVPre {
		if attr, ok := p.currentProp.(*AttributeNode); ok {
			attr.Name += "." + mod
			p.setLocEnd(&attr.NameLoc, end)
		}
		return
	}
	dir, ok := p.currentProp.(*DirectiveNode)
	if !ok {
		return
	}
	if dir.Name == "slot" {
		// slot has no modifiers; the dot is part of dynamic slot names
		if arg, ok := dir.Arg.(*SimpleExpressionNode); ok {
			arg.Content += "." + mod
			p.setLocEnd(&arg.Loc, end)
		}
		return
	}
	dir.Modifiers = append(dir.Modifiers,
		NewSimpleExpression(mod, true, p.getLoc(start, end), NotConstant))
}

func (p *parser) OnAttribData(start, end int) {
	p.currentAttrValue += p.getSlice(start, end)
	if p.currentAttrStartIndex < 0 {
		p.currentAttrStartIndex = start
	}
	p.currentAttrEndIndex = end
}

func (p *parser) OnAttribNameEnd(end int) {
	if p.currentProp == nil || p.currentOpenTag == nil {
		return
	}
	start := p.currentProp.Location().Start.Offset
	name := p.getSlice(start, end)
	if dir, ok := p.currentProp.(*DirectiveNode); ok {
		dir.RawName = name
	}
	// check duplicate attrs
	for _, prop := range p.currentOpenTag.Props {
		var existing string
		switch prop := prop.(type) {
		case *AttributeNode:
			existing = prop.Name
		case *DirectiveNode:
			existing = prop.RawName
		}
		if existing == name {
			p.emitError(loc.DUPLICATE_ATTRIBUTE, start)
			break
		}
	}
}

func (p *parser) OnAttribEnd(quote QuoteType, end int) {
	if p.currentOpenTag != nil && p.currentProp != nil {
		// finalize end pos
		p.setLocEnd(p.currentProp.Location(), end)

		if quote != QuoteNone {
			if strings.ContainsRune(p.currentAttrValue, '&') {
				p.currentAttrValue = p.options.DecodeEntities(p.currentAttrValue, true)
			}

			switch prop := p.currentProp.(type) {
			case *AttributeNode:
				// condense whitespace in class
				if prop.Name == "class" {
					p.currentAttrValue = strings.TrimSpace(condense(p.currentAttrValue))
				}
				if quote == QuoteUnquoted && p.currentAttrValue == "" {
					p.emitError(loc.MISSING_ATTRIBUTE_VALUE, end)
				}
				var valueLoc loc.SourceLocation
				if quote == QuoteUnquoted {
					valueLoc = p.getLoc(p.currentAttrStartIndex, p.currentAttrEndIndex)
				} else {
					valueLoc = p.getLoc(p.currentAttrStartIndex-1, p.currentAttrEndIndex+1)
				}
				value := &TextNode{Content: p.currentAttrValue}
				value.Loc = valueLoc
				prop.Value = value

				if p.atSFCRoot() && p.currentOpenTag.Tag == "template" &&
					prop.Name == "lang" && p.currentAttrValue != "" && p.currentAttrValue != "html" {
					// SFC root template with a preprocessor lang: raw text
					p.tk.EnterRCData([]byte("</template"), 0)
				}
			case *DirectiveNode:
				mode := expParseNormal
				switch {
				case prop.Name == "for":
					mode = expParseSkip
				case prop.Name == "slot":
					mode = expParseParams
				case prop.Name == "on" && strings.ContainsRune(p.currentAttrValue, ';'):
					mode = expParseStatements
				}
				exp := p.createExp(p.currentAttrValue, false,
					p.getLoc(p.currentAttrStartIndex, p.currentAttrEndIndex), NotConstant, mode)
				prop.Exp = exp
				if prop.Name == "for" {
					prop.ForParseResult = p.parseForExpression(exp)
				}
			}
		}

		// v-pre itself is consumed; everything else lands on the open tag
		if dir, ok := p.currentProp.(*DirectiveNode); !ok || dir.Name != "pre" {
			p.currentOpenTag.Props = append(p.currentOpenTag.Props, p.currentProp)
		}
	}
	p.currentProp = nil
	p.currentAttrValue = ""
	p.currentAttrStartIndex = -1
	p.currentAttrEndIndex = -1
}

func (p *parser) OnComment(start, end int) {
	keep := p.options.Flags.Dev
	if p.options.Comments != nil {
		keep = *p.options.Comments
	}
	if !keep {
		return
	}
	node := &CommentNode{Content: p.getSlice(start, end)}
	node.Loc = p.getLoc(start-4, end+3)
	p.addNode(node)
}

func (p *parser) OnCDATA(start, end int) {
	if len(p.stack) > 0 && p.stack[0].NS != NamespaceHTML {
		p.onText(p.getSlice(start, end), start, end)
	} else {
		p.emitError(loc.CDATA_IN_HTML_CONTENT, start-9)
	}
}

func (p *parser) OnProcessingInstruction(start, end int) {
	// ignore: there is no runtime handling for these, only the error check
	ns := p.options.NS
	if len(p.stack) > 0 {
		ns = p.stack[0].NS
	}
	if ns == NamespaceHTML {
		p.emitError(loc.UNEXPECTED_QUESTION_MARK_INSTEAD_OF_TAG_NAME, start-1)
	}
}

func (p *parser) OnEnd() {
	end := len(p.input)
	// EOF errors
	if (p.options.Flags.Dev || !p.options.Flags.Browser) && p.tk.State() != StateText {
		switch p.tk.State() {
		case StateBeforeTagName, StateBeforeClosingTagName:
			p.emitError(loc.EOF_BEFORE_TAG_NAME, end)
		case StateInterpolation, StateInterpolationClose:
			p.emitError(loc.X_MISSING_INTERPOLATION_END, p.tk.SectionStart())
		case StateInCommentLike:
			if p.tk.InCDATA() {
				p.emitError(loc.EOF_IN_CDATA, end)
			} else {
				p.emitError(loc.EOF_IN_COMMENT, end)
			}
		case StateInTagName, StateInSelfClosingTag, StateInClosingTagName,
			StateBeforeAttrName, StateInAttrName, StateInDirName, StateInDirArg,
			StateInDirDynamicArg, StateInDirModifier, StateAfterAttrName,
			StateBeforeAttrValue, StateInAttrValueDq, StateInAttrValueSq,
			StateInAttrValueNq:
			p.emitError(loc.EOF_IN_TAG, end)
		}
	}

	for len(p.stack) > 0 {
		el := p.stack[0]
		p.stack = p.stack[1:]
		p.closeElement(el, end-1, false)
		p.emitError(loc.X_MISSING_END_TAG, el.Loc.Start.Offset)
		p.addNode(el)
	}
}

// --- whitespace management ---

func hasNewlineChar(s string) bool {
	return strings.ContainsAny(s, "\n\r")
}

func isAllWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWhitespace(s[i]) {
			return false
		}
	}
	return true
}

// condense collapses any run of whitespace down to a single space.
func condense(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevIsWhitespace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isWhitespace(c) {
			if !prevIsWhitespace {
				b.WriteByte(' ')
				prevIsWhitespace = true
			}
		} else {
			b.WriteByte(c)
			prevIsWhitespace = false
		}
	}
	return b.String()
}

// condenseWhitespace applies the whitespace strategy to a freshly closed
// element's (or the root's) children.
func condenseWhitespace(nodes []Node, shouldCondense bool, inPre int) []Node {
	removed := false
	for i := 0; i < len(nodes); i++ {
		text, ok := nodes[i].(*TextNode)
		if !ok {
			continue
		}
		if inPre > 0 {
			// normalize windows newlines in <pre>: browsers normalize
			// server-rendered \r\n into a single \n in the DOM
			text.Content = strings.ReplaceAll(text.Content, "\r\n", "\n")
			continue
		}
		if !isAllWhitespace(text.Content) {
			if shouldCondense {
				// consecutive whitespace in text is condensed down to a
				// single space
				text.Content = condense(text.Content)
			}
			continue
		}
		var prev, next Node
		if i > 0 {
			prev = nodes[i-1]
		}
		if i < len(nodes)-1 {
			next = nodes[i+1]
		}
		// Remove if:
		// - the whitespace is the first or last node, or:
		// - (condense mode) the whitespace is between two comments, or:
		// - (condense mode) the whitespace is between comment and element, or:
		// - (condense mode) the whitespace is between two elements AND contains newline
		if prev == nil || next == nil {
			nodes[i] = nil
			removed = true
		} else if shouldCondense &&
			((prev.Kind() == NodeComment && (next.Kind() == NodeComment || next.Kind() == NodeElement)) ||
				(prev.Kind() == NodeElement && (next.Kind() == NodeComment ||
					(next.Kind() == NodeElement && hasNewlineChar(text.Content))))) {
			nodes[i] = nil
			removed = true
		} else {
			// otherwise the whitespace is condensed into a single space
			text.Content = " "
		}
	}
	if !removed {
		return nodes
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
