package vuego

import (
	"strconv"

	"github.com/vuego/compiler/internal/loc"
)

// State enumerates every state of the tokenizer's character-driven machine.
type State uint32

const (
	StateText State = iota + 1

	// interpolation
	StateInterpolationOpen
	StateInterpolation
	StateInterpolationClose

	// tags
	StateBeforeTagName // after <
	StateInTagName
	StateInSelfClosingTag
	StateBeforeClosingTagName
	StateInClosingTagName
	StateAfterClosingTagName

	// attrs
	StateBeforeAttrName
	StateInAttrName
	StateInDirName
	StateInDirArg
	StateInDirDynamicArg
	StateInDirModifier
	StateAfterAttrName
	StateBeforeAttrValue
	StateInAttrValueDq // "
	StateInAttrValueSq // '
	StateInAttrValueNq

	// declarations
	StateBeforeDeclaration // !
	StateInDeclaration

	// processing instructions
	StateInProcessingInstruction // ?

	// comments & CDATA
	StateBeforeComment
	StateCDATASequence
	StateInSpecialComment
	StateInCommentLike

	// special tags
	StateBeforeSpecialS // decide if we deal with <script or <style
	StateBeforeSpecialT // decide if we deal with <title or <textarea
	StateSpecialStartSequence
	StateInRCDATA

	// Entity decoding is delegated to the injected decoder, so the machine
	// never dwells in this state; it exists to keep the state space closed.
	StateInEntity

	StateInSFCRootTagName
)

// QuoteType describes how an attribute value was delimited, or that the
// attribute had no value at all.
type QuoteType uint32

const (
	QuoteNone QuoteType = iota
	QuoteUnquoted
	QuoteSingle
	QuoteDouble
)

func (q QuoteType) String() string {
	switch q {
	case QuoteNone:
		return "no-value"
	case QuoteUnquoted:
		return "unquoted"
	case QuoteSingle:
		return "single"
	case QuoteDouble:
		return "double"
	}
	return "Invalid(" + strconv.Itoa(int(q)) + ")"
}

// TokenSink receives the tokenizer's lexical events. All callbacks fire
// synchronously on the tokenizer's stack; [start, end) ranges are byte
// offsets into the input.
type TokenSink interface {
	OnText(start, end int)
	OnInterpolation(start, end int)
	OnOpenTagName(start, end int)
	OnOpenTagEnd(end int)
	OnSelfClosingTag(end int)
	OnCloseTag(start, end int)
	OnAttribName(start, end int)
	OnAttribNameEnd(end int)
	OnDirName(start, end int)
	OnDirArg(start, end int)
	OnDirModifier(start, end int)
	OnAttribData(start, end int)
	OnAttribEnd(quote QuoteType, end int)
	OnComment(start, end int)
	OnCDATA(start, end int)
	OnProcessingInstruction(start, end int)
	OnErr(code loc.ErrorCode, index int)
	OnEnd()
}

// Multi-character sequences used to terminate special sections. Script,
// style, title and textarea re-use their end sequences with an increased
// offset when matching the opening tag name.
var (
	seqCDATA       = []byte("CDATA[")
	seqCDATAEnd    = []byte("]]>")
	seqCommentEnd  = []byte("-->")
	seqScriptEnd   = []byte("</script")
	seqStyleEnd    = []byte("</style")
	seqTitleEnd    = []byte("</title")
	seqTextareaEnd = []byte("</textarea")
)

func isTagStartChar(c byte) bool {
	// HTML only allows ASCII alpha characters at the beginning of a tag name.
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\f' || c == '\r'
}

func isEndOfTagSection(c byte) bool {
	return c == '/' || c == '>' || isWhitespace(c)
}

// A Tokenizer drives the state machine over one input buffer, emitting
// lexical events into its sink. It lives for exactly one parse call.
type Tokenizer struct {
	state State
	buf   string
	// start of the section that is currently being collected; -1 when no
	// section is open.
	sectionStart int
	// index within buf currently being looked at.
	index int
	// special parsing behavior inside raw-text elements.
	inRCData bool
	// disables raw-text tag handling inside SVG/MathML content.
	inXML bool
	// disables interpolation parsing inside v-pre subtrees.
	inVPre bool
	// newline offsets for fast line/column calculation.
	newlines loc.NewlineIndex

	mode ParseMode

	delimiterOpen  []byte
	delimiterClose []byte
	delimiterIndex int

	currentSequence []byte
	sequenceIndex   int

	flags GlobalFlags
	sink  TokenSink
	// reports whether the parser's element stack is empty in SFC mode.
	inSFCRoot func() bool
}

// NewTokenizer wires a tokenizer to its sink. inSFCRoot is consulted when
// deciding raw-text behavior for root-level tags in SFC mode.
func NewTokenizer(sink TokenSink, flags GlobalFlags, inSFCRoot func() bool) *Tokenizer {
	return &Tokenizer{
		state:          StateText,
		sectionStart:   0,
		delimiterOpen:  []byte("{{"),
		delimiterClose: []byte("}}"),
		delimiterIndex: -1,
		flags:          flags,
		sink:           sink,
		inSFCRoot:      inSFCRoot,
	}
}

// SetMode selects the parse mode before Parse is called.
func (z *Tokenizer) SetMode(mode ParseMode) { z.mode = mode }

// SetDelimiters overrides the interpolation delimiters.
func (z *Tokenizer) SetDelimiters(open, close string) {
	z.delimiterOpen = []byte(open)
	z.delimiterClose = []byte(close)
}

// SetInXML toggles foreign-content behavior (no raw-text tags, CDATA text).
func (z *Tokenizer) SetInXML(inXML bool) { z.inXML = inXML }

// SetInVPre toggles interpolation scanning off inside v-pre subtrees.
func (z *Tokenizer) SetInVPre(inVPre bool) { z.inVPre = inVPre }

// State exposes the machine state for EOF error reporting.
func (z *Tokenizer) State() State { return z.state }

// SectionStart exposes the pending section for EOF error reporting.
func (z *Tokenizer) SectionStart() int { return z.sectionStart }

// InCDATA reports whether the comment-like section being read is CDATA.
func (z *Tokenizer) InCDATA() bool {
	return z.state == StateInCommentLike && sameSeq(z.currentSequence, seqCDATAEnd)
}

// DelimiterLengths returns the configured delimiter lengths so the parser
// can strip them off interpolation tokens.
func (z *Tokenizer) DelimiterLengths() (int, int) {
	return len(z.delimiterOpen), len(z.delimiterClose)
}

// Newlines exposes the newline index for position resolution.
func (z *Tokenizer) Newlines() *loc.NewlineIndex { return &z.newlines }

// EnterRCData puts the machine into raw-text mode looking for sequence; the
// parser uses it for SFC root blocks with a non-html lang.
func (z *Tokenizer) EnterRCData(sequence []byte, offset int) {
	z.inRCData = true
	z.currentSequence = sequence
	z.sequenceIndex = offset
}

func (z *Tokenizer) peek() byte {
	if z.index+1 >= len(z.buf) {
		return 0
	}
	return z.buf[z.index+1]
}

func (z *Tokenizer) errOn(code loc.ErrorCode, index int) {
	if z.flags.Dev || !z.flags.Browser {
		z.sink.OnErr(code, index)
	}
}

func (z *Tokenizer) stateText(c byte) {
	if c == '<' {
		if z.index > z.sectionStart {
			z.sink.OnText(z.sectionStart, z.index)
		}
		z.state = StateBeforeTagName
		z.sectionStart = z.index
	} else if !z.inVPre && c == z.delimiterOpen[0] {
		z.state = StateInterpolationOpen
		z.delimiterIndex = 0
		z.stateInterpolationOpen(c)
	}
}

func (z *Tokenizer) stateInterpolationOpen(c byte) {
	if c == z.delimiterOpen[z.delimiterIndex] {
		if z.delimiterIndex == len(z.delimiterOpen)-1 {
			start := z.index + 1 - len(z.delimiterOpen)
			if start > z.sectionStart {
				z.sink.OnText(z.sectionStart, start)
			}
			z.state = StateInterpolation
			z.sectionStart = start
		} else {
			z.delimiterIndex++
		}
	} else if z.inRCData {
		z.state = StateInRCDATA
		z.stateInRCData(c)
	} else {
		z.state = StateText
		z.stateText(c)
	}
}

func (z *Tokenizer) stateInterpolation(c byte) {
	if c == z.delimiterClose[0] {
		z.state = StateInterpolationClose
		z.delimiterIndex = 0
		z.stateInterpolationClose(c)
	}
}

func (z *Tokenizer) stateInterpolationClose(c byte) {
	if c == z.delimiterClose[z.delimiterIndex] {
		if z.delimiterIndex == len(z.delimiterClose)-1 {
			z.sink.OnInterpolation(z.sectionStart, z.index+1)
			if z.inRCData {
				z.state = StateInRCDATA
			} else {
				z.state = StateText
			}
			z.sectionStart = z.index + 1
		} else {
			z.delimiterIndex++
		}
	} else {
		z.state = StateInterpolation
		z.stateInterpolation(c)
	}
}

func (z *Tokenizer) stateSpecialStartSequence(c byte) {
	isEnd := z.sequenceIndex == len(z.currentSequence)
	var isMatch bool
	if isEnd {
		// at the end of the sequence, make sure the tag name has ended
		isMatch = isEndOfTagSection(c)
	} else {
		// case-insensitive comparison
		isMatch = c|0x20 == z.currentSequence[z.sequenceIndex]
	}

	if !isMatch {
		z.inRCData = false
	} else if !isEnd {
		z.sequenceIndex++
		return
	}

	z.sequenceIndex = 0
	z.state = StateInTagName
	z.stateInTagName(c)
}

// Look for an end tag. For <title> and <textarea>, also scan interpolation.
func (z *Tokenizer) stateInRCData(c byte) {
	if z.sequenceIndex == len(z.currentSequence) {
		if c == '>' || isWhitespace(c) {
			endOfText := z.index - len(z.currentSequence)
			if z.sectionStart < endOfText {
				z.sink.OnText(z.sectionStart, endOfText)
			}
			// skip over the `</`
			z.sectionStart = endOfText + 2
			z.stateInClosingTagName(c)
			z.inRCData = false
			return
		}
		z.sequenceIndex = 0
	}

	if c|0x20 == z.currentSequence[z.sequenceIndex] {
		z.sequenceIndex++
	} else if z.sequenceIndex == 0 {
		if sameSeq(z.currentSequence, seqTitleEnd) ||
			(sameSeq(z.currentSequence, seqTextareaEnd) && !z.inSFCRoot()) {
			// interpolation is live inside <title> and <textarea>
			if !z.inVPre && c == z.delimiterOpen[0] {
				z.state = StateInterpolationOpen
				z.delimiterIndex = 0
				z.stateInterpolationOpen(c)
			}
		} else if z.fastForwardTo('<') {
			// outside of <title> and <textarea> we can fast-forward
			z.sequenceIndex = 1
		}
	} else {
		// if we see a `<`, set the sequence index to 1; useful for eg. `<</script>`
		if c == '<' {
			z.sequenceIndex = 1
		} else {
			z.sequenceIndex = 0
		}
	}
}

func (z *Tokenizer) stateCDATASequence(c byte) {
	if c == seqCDATA[z.sequenceIndex] {
		z.sequenceIndex++
		if z.sequenceIndex == len(seqCDATA) {
			z.state = StateInCommentLike
			z.currentSequence = seqCDATAEnd
			z.sequenceIndex = 0
			z.sectionStart = z.index + 1
		}
	} else {
		z.sequenceIndex = 0
		z.state = StateInDeclaration
		// reconsume the character
		z.stateInDeclaration(c)
	}
}

// fastForwardTo skips through the buffer until it finds c, recording any
// newlines on the way so source positions stay exact. Returns whether the
// character was found.
func (z *Tokenizer) fastForwardTo(c byte) bool {
	for {
		z.index++
		if z.index >= len(z.buf) {
			break
		}
		cc := z.buf[z.index]
		if cc == '\n' {
			z.newlines.Push(z.index)
		}
		if cc == c {
			return true
		}
	}
	// the driver increments index at the end of the loop, so park it at the
	// last buffer position here.
	z.index = len(z.buf) - 1
	return false
}

// Comments and CDATA end with `-->` and `]]>`.
//
// Their common qualities are:
//   - their end sequences have a distinct character they start with
//   - that character is then repeated, so we have to check multiple repeats
//   - all characters but the start character of the sequence can be skipped
func (z *Tokenizer) stateInCommentLike(c byte) {
	if c == z.currentSequence[z.sequenceIndex] {
		z.sequenceIndex++
		if z.sequenceIndex == len(z.currentSequence) {
			if sameSeq(z.currentSequence, seqCDATAEnd) {
				z.sink.OnCDATA(z.sectionStart, z.index-2)
			} else {
				z.sink.OnComment(z.sectionStart, z.index-2)
			}
			z.sequenceIndex = 0
			z.sectionStart = z.index + 1
			z.state = StateText
		}
	} else if z.sequenceIndex == 0 {
		// fast-forward to the first character of the sequence
		if z.fastForwardTo(z.currentSequence[0]) {
			z.sequenceIndex = 1
		}
	} else if c != z.currentSequence[z.sequenceIndex-1] {
		// allow long sequences, eg. --->, ]]]>
		z.sequenceIndex = 0
	}
}

func (z *Tokenizer) startSpecial(sequence []byte, offset int) {
	z.EnterRCData(sequence, offset)
	z.state = StateSpecialStartSequence
}

func (z *Tokenizer) stateBeforeTagName(c byte) {
	if c == '!' {
		z.state = StateBeforeDeclaration
		z.sectionStart = z.index + 1
	} else if c == '?' {
		z.state = StateInProcessingInstruction
		z.sectionStart = z.index + 1
	} else if isTagStartChar(c) {
		z.sectionStart = z.index
		if z.mode == ParseModeBase {
			// no special tags in base mode
			z.state = StateInTagName
		} else if z.inSFCRoot() {
			// SFC mode + root level: everything except <template> is raw
			// text, and so is <template> with a non-html lang.
			z.state = StateInSFCRootTagName
		} else if !z.inXML {
			// HTML mode: <script>, <style> are raw text; <title> and
			// <textarea> are RCDATA.
			if c == 't' {
				z.state = StateBeforeSpecialT
			} else if c == 's' {
				z.state = StateBeforeSpecialS
			} else {
				z.state = StateInTagName
			}
		} else {
			z.state = StateInTagName
		}
	} else if c == '/' {
		z.state = StateBeforeClosingTagName
	} else {
		z.state = StateText
		z.stateText(c)
	}
}

func (z *Tokenizer) stateInTagName(c byte) {
	if isEndOfTagSection(c) {
		z.handleTagName(c)
	}
}

func (z *Tokenizer) stateInSFCRootTagName(c byte) {
	if isEndOfTagSection(c) {
		tag := z.buf[z.sectionStart:z.index]
		if tag != "template" {
			z.EnterRCData([]byte("</"+tag), 0)
		}
		z.handleTagName(c)
	}
}

func (z *Tokenizer) handleTagName(c byte) {
	z.sink.OnOpenTagName(z.sectionStart, z.index)
	z.sectionStart = -1
	z.state = StateBeforeAttrName
	z.stateBeforeAttrName(c)
}

func (z *Tokenizer) stateBeforeClosingTagName(c byte) {
	if isWhitespace(c) {
		// ignore
	} else if c == '>' {
		z.errOn(loc.MISSING_END_TAG_NAME, z.index)
		z.state = StateText
		// ignore
		z.sectionStart = z.index + 1
	} else {
		if isTagStartChar(c) {
			z.state = StateInClosingTagName
		} else {
			z.state = StateInSpecialComment
		}
		z.sectionStart = z.index
	}
}

func (z *Tokenizer) stateInClosingTagName(c byte) {
	if c == '>' || isWhitespace(c) {
		z.sink.OnCloseTag(z.sectionStart, z.index)
		z.sectionStart = -1
		z.state = StateAfterClosingTagName
		z.stateAfterClosingTagName(c)
	}
}

func (z *Tokenizer) stateAfterClosingTagName(c byte) {
	// skip everything until ">"
	if c == '>' {
		z.state = StateText
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateBeforeAttrName(c byte) {
	if c == '>' {
		z.sink.OnOpenTagEnd(z.index)
		if z.inRCData {
			z.state = StateInRCDATA
		} else {
			z.state = StateText
		}
		z.sectionStart = z.index + 1
	} else if c == '/' {
		z.state = StateInSelfClosingTag
		if z.peek() != '>' {
			z.errOn(loc.UNEXPECTED_SOLIDUS_IN_TAG, z.index)
		}
	} else if c == '<' && z.peek() == '/' {
		// special handling for </ appearing in open tag state. This is
		// different from standard HTML parsing but makes practical sense,
		// especially for parsing intermediate input state in IDEs.
		z.sink.OnOpenTagEnd(z.index)
		z.state = StateBeforeTagName
		z.sectionStart = z.index
	} else if !isWhitespace(c) {
		if c == '=' {
			z.errOn(loc.UNEXPECTED_EQUALS_SIGN_BEFORE_ATTRIBUTE_NAME, z.index)
		}
		z.handleAttrStart(c)
	}
}

func (z *Tokenizer) handleAttrStart(c byte) {
	if c == 'v' && z.peek() == '-' {
		z.state = StateInDirName
		z.sectionStart = z.index
	} else if c == '.' || c == ':' || c == '@' || c == '#' {
		// shorthand sigils emit the one-byte sigil itself as the directive
		// name; the parser normalizes it
		z.sink.OnDirName(z.index, z.index+1)
		z.state = StateInDirArg
		z.sectionStart = z.index + 1
	} else {
		z.state = StateInAttrName
		z.sectionStart = z.index
	}
}

func (z *Tokenizer) stateInSelfClosingTag(c byte) {
	if c == '>' {
		z.sink.OnSelfClosingTag(z.index)
		z.state = StateText
		z.sectionStart = z.index + 1
		// reset special state, in case of self-closing special tags
		z.inRCData = false
	} else if !isWhitespace(c) {
		z.state = StateBeforeAttrName
		z.stateBeforeAttrName(c)
	}
}

func (z *Tokenizer) stateInAttrName(c byte) {
	if c == '=' || isEndOfTagSection(c) {
		z.sink.OnAttribName(z.sectionStart, z.index)
		z.handleAttrNameEnd(c)
	} else if c == '"' || c == '\'' || c == '<' {
		z.errOn(loc.UNEXPECTED_CHARACTER_IN_ATTRIBUTE_NAME, z.index)
	}
}

func (z *Tokenizer) stateInDirName(c byte) {
	if c == '=' || isEndOfTagSection(c) {
		z.sink.OnDirName(z.sectionStart, z.index)
		z.handleAttrNameEnd(c)
	} else if c == ':' {
		z.sink.OnDirName(z.sectionStart, z.index)
		z.state = StateInDirArg
		z.sectionStart = z.index + 1
	} else if c == '.' {
		z.sink.OnDirName(z.sectionStart, z.index)
		z.state = StateInDirModifier
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateInDirArg(c byte) {
	if c == '=' || isEndOfTagSection(c) {
		z.sink.OnDirArg(z.sectionStart, z.index)
		z.handleAttrNameEnd(c)
	} else if c == '[' {
		z.state = StateInDirDynamicArg
	} else if c == '.' {
		z.sink.OnDirArg(z.sectionStart, z.index)
		z.state = StateInDirModifier
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateInDynamicDirArg(c byte) {
	if c == ']' {
		z.state = StateInDirArg
	} else if c == '=' || isEndOfTagSection(c) {
		z.sink.OnDirArg(z.sectionStart, z.index+1)
		z.handleAttrNameEnd(c)
		z.errOn(loc.X_MISSING_DYNAMIC_DIRECTIVE_ARGUMENT_END, z.index)
	}
}

func (z *Tokenizer) stateInDirModifier(c byte) {
	if c == '=' || isEndOfTagSection(c) {
		z.sink.OnDirModifier(z.sectionStart, z.index)
		z.handleAttrNameEnd(c)
	} else if c == '.' {
		z.sink.OnDirModifier(z.sectionStart, z.index)
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) handleAttrNameEnd(c byte) {
	z.sectionStart = z.index
	z.state = StateAfterAttrName
	z.sink.OnAttribNameEnd(z.index)
	z.stateAfterAttrName(c)
}

func (z *Tokenizer) stateAfterAttrName(c byte) {
	if c == '=' {
		z.state = StateBeforeAttrValue
	} else if c == '/' || c == '>' {
		z.sink.OnAttribEnd(QuoteNone, z.sectionStart)
		z.sectionStart = -1
		z.state = StateBeforeAttrName
		z.stateBeforeAttrName(c)
	} else if !isWhitespace(c) {
		z.sink.OnAttribEnd(QuoteNone, z.sectionStart)
		z.handleAttrStart(c)
	}
}

func (z *Tokenizer) stateBeforeAttrValue(c byte) {
	if c == '"' {
		z.state = StateInAttrValueDq
		z.sectionStart = z.index + 1
	} else if c == '\'' {
		z.state = StateInAttrValueSq
		z.sectionStart = z.index + 1
	} else if !isWhitespace(c) {
		z.sectionStart = z.index
		z.state = StateInAttrValueNq
		// reconsume the character
		z.stateInAttrValueNoQuotes(c)
	}
}

func (z *Tokenizer) handleInAttrValue(c, quote byte) {
	if c == quote {
		z.sink.OnAttribData(z.sectionStart, z.index)
		z.sectionStart = -1
		if quote == '"' {
			z.sink.OnAttribEnd(QuoteDouble, z.index+1)
		} else {
			z.sink.OnAttribEnd(QuoteSingle, z.index+1)
		}
		z.state = StateBeforeAttrName
	}
}

func (z *Tokenizer) stateInAttrValueDoubleQuotes(c byte) {
	z.handleInAttrValue(c, '"')
}

func (z *Tokenizer) stateInAttrValueSingleQuotes(c byte) {
	z.handleInAttrValue(c, '\'')
}

func (z *Tokenizer) stateInAttrValueNoQuotes(c byte) {
	if isWhitespace(c) || c == '>' {
		z.sink.OnAttribData(z.sectionStart, z.index)
		z.sectionStart = -1
		z.sink.OnAttribEnd(QuoteUnquoted, z.index)
		z.state = StateBeforeAttrName
		z.stateBeforeAttrName(c)
	} else if c == '"' || c == '\'' || c == '<' || c == '=' || c == '`' {
		z.errOn(loc.UNEXPECTED_CHARACTER_IN_UNQUOTED_ATTRIBUTE_VALUE, z.index)
	}
}

func (z *Tokenizer) stateBeforeDeclaration(c byte) {
	if c == '[' {
		z.state = StateCDATASequence
		z.sequenceIndex = 0
	} else if c == '-' {
		z.state = StateBeforeComment
	} else {
		z.state = StateInDeclaration
	}
}

func (z *Tokenizer) stateInDeclaration(c byte) {
	if c == '>' || z.fastForwardTo('>') {
		z.state = StateText
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateInProcessingInstruction(c byte) {
	if c == '>' || z.fastForwardTo('>') {
		z.sink.OnProcessingInstruction(z.sectionStart, z.index)
		z.state = StateText
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateBeforeComment(c byte) {
	if c == '-' {
		z.state = StateInCommentLike
		z.currentSequence = seqCommentEnd
		// allow short comments (eg. <!-->)
		z.sequenceIndex = 2
		z.sectionStart = z.index + 1
	} else {
		z.state = StateInDeclaration
	}
}

func (z *Tokenizer) stateInSpecialComment(c byte) {
	if c == '>' || z.fastForwardTo('>') {
		z.sink.OnComment(z.sectionStart, z.index)
		z.state = StateText
		z.sectionStart = z.index + 1
	}
}

func (z *Tokenizer) stateBeforeSpecialS(c byte) {
	if c == seqScriptEnd[3] {
		z.startSpecial(seqScriptEnd, 4)
	} else if c == seqStyleEnd[3] {
		z.startSpecial(seqStyleEnd, 4)
	} else {
		z.state = StateInTagName
		// reconsume the character
		z.stateInTagName(c)
	}
}

func (z *Tokenizer) stateBeforeSpecialT(c byte) {
	if c == seqTitleEnd[3] {
		z.startSpecial(seqTitleEnd, 4)
	} else if c == seqTextareaEnd[3] {
		z.startSpecial(seqTextareaEnd, 4)
	} else {
		z.state = StateInTagName
		// reconsume the character
		z.stateInTagName(c)
	}
}

// Parse iterates through the buffer, dispatching on the current state. The
// callbacks fire synchronously as sections complete.
func (z *Tokenizer) Parse(input string) {
	z.buf = input

	for z.index < len(z.buf) {
		c := z.buf[z.index]
		if c == '\n' {
			z.newlines.Push(z.index)
		}

		switch z.state {
		case StateText:
			z.stateText(c)
		case StateInterpolationOpen:
			z.stateInterpolationOpen(c)
		case StateInterpolation:
			z.stateInterpolation(c)
		case StateInterpolationClose:
			z.stateInterpolationClose(c)
		case StateSpecialStartSequence:
			z.stateSpecialStartSequence(c)
		case StateInRCDATA:
			z.stateInRCData(c)
		case StateCDATASequence:
			z.stateCDATASequence(c)
		case StateInAttrValueDq:
			z.stateInAttrValueDoubleQuotes(c)
		case StateInAttrName:
			z.stateInAttrName(c)
		case StateInDirName:
			z.stateInDirName(c)
		case StateInDirArg:
			z.stateInDirArg(c)
		case StateInDirDynamicArg:
			z.stateInDynamicDirArg(c)
		case StateInDirModifier:
			z.stateInDirModifier(c)
		case StateInCommentLike:
			z.stateInCommentLike(c)
		case StateInSpecialComment:
			z.stateInSpecialComment(c)
		case StateBeforeAttrName:
			z.stateBeforeAttrName(c)
		case StateInTagName:
			z.stateInTagName(c)
		case StateInSFCRootTagName:
			z.stateInSFCRootTagName(c)
		case StateInClosingTagName:
			z.stateInClosingTagName(c)
		case StateBeforeTagName:
			z.stateBeforeTagName(c)
		case StateAfterAttrName:
			z.stateAfterAttrName(c)
		case StateInAttrValueSq:
			z.stateInAttrValueSingleQuotes(c)
		case StateBeforeAttrValue:
			z.stateBeforeAttrValue(c)
		case StateBeforeClosingTagName:
			z.stateBeforeClosingTagName(c)
		case StateAfterClosingTagName:
			z.stateAfterClosingTagName(c)
		case StateBeforeSpecialS:
			z.stateBeforeSpecialS(c)
		case StateBeforeSpecialT:
			z.stateBeforeSpecialT(c)
		case StateInAttrValueNq:
			z.stateInAttrValueNoQuotes(c)
		case StateInSelfClosingTag:
			z.stateInSelfClosingTag(c)
		case StateInDeclaration:
			z.stateInDeclaration(c)
		case StateInProcessingInstruction:
			z.stateInProcessingInstruction(c)
		case StateBeforeDeclaration:
			z.stateBeforeDeclaration(c)
		case StateBeforeComment:
			z.stateBeforeComment(c)
		}

		z.index++
	}

	z.finish()
}

func (z *Tokenizer) finish() {
	z.handleTrailingData()
	z.sink.OnEnd()
}

func (z *Tokenizer) handleTrailingData() {
	endIndex := len(z.buf)

	// if there is no remaining data, we are done
	if z.sectionStart < 0 || z.sectionStart >= endIndex {
		return
	}

	switch z.state {
	case StateInCommentLike:
		if sameSeq(z.currentSequence, seqCDATAEnd) {
			z.sink.OnCDATA(z.sectionStart, endIndex)
		} else {
			z.sink.OnComment(z.sectionStart, endIndex)
		}
	case StateInTagName, StateBeforeAttrName, StateBeforeAttrValue,
		StateAfterAttrName, StateInAttrName, StateInDirName, StateInDirArg,
		StateInDirDynamicArg, StateInDirModifier, StateInAttrValueSq,
		StateInAttrValueDq, StateInAttrValueNq, StateInClosingTagName:
		// If we are currently in an opening or closing tag, not calling the
		// respective callback signals that the tag should be ignored.
	default:
		z.sink.OnText(z.sectionStart, endIndex)
	}
}

func sameSeq(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
