package loc

import "strconv"

// ErrorCode identifies a compiler diagnostic. Codes are the authoritative
// identity of an error; message strings are advisory.
type ErrorCode int

const (
	// parse errors
	CDATA_IN_HTML_CONTENT ErrorCode = iota
	DUPLICATE_ATTRIBUTE
	EOF_BEFORE_TAG_NAME
	EOF_IN_CDATA
	EOF_IN_COMMENT
	EOF_IN_TAG
	MISSING_ATTRIBUTE_VALUE
	MISSING_END_TAG_NAME
	UNEXPECTED_CHARACTER_IN_ATTRIBUTE_NAME
	UNEXPECTED_CHARACTER_IN_UNQUOTED_ATTRIBUTE_VALUE
	UNEXPECTED_EQUALS_SIGN_BEFORE_ATTRIBUTE_NAME
	UNEXPECTED_QUESTION_MARK_INSTEAD_OF_TAG_NAME
	UNEXPECTED_SOLIDUS_IN_TAG

	// template-specific parse errors
	X_INVALID_END_TAG
	X_MISSING_END_TAG
	X_MISSING_INTERPOLATION_END
	X_MISSING_DIRECTIVE_NAME
	X_MISSING_DYNAMIC_DIRECTIVE_ARGUMENT_END
	X_INVALID_EXPRESSION

	// transform errors
	X_V_IF_NO_EXPRESSION
	X_V_ELSE_NO_ADJACENT_IF
	X_V_FOR_NO_EXPRESSION
	X_V_FOR_MALFORMED_EXPRESSION
	X_V_BIND_NO_EXPRESSION
	X_V_ON_NO_EXPRESSION

	// codegen diagnostics (warn channel only)
	W_CODEGEN_NODE_MISSING
)

var errorLabels = map[ErrorCode]string{
	CDATA_IN_HTML_CONTENT:                  "CDATA_IN_HTML_CONTENT",
	DUPLICATE_ATTRIBUTE:                    "DUPLICATE_ATTRIBUTE",
	EOF_BEFORE_TAG_NAME:                    "EOF_BEFORE_TAG_NAME",
	EOF_IN_CDATA:                           "EOF_IN_CDATA",
	EOF_IN_COMMENT:                         "EOF_IN_COMMENT",
	EOF_IN_TAG:                             "EOF_IN_TAG",
	MISSING_ATTRIBUTE_VALUE:                "MISSING_ATTRIBUTE_VALUE",
	MISSING_END_TAG_NAME:                   "MISSING_END_TAG_NAME",
	UNEXPECTED_CHARACTER_IN_ATTRIBUTE_NAME: "UNEXPECTED_CHARACTER_IN_ATTRIBUTE_NAME",
	UNEXPECTED_CHARACTER_IN_UNQUOTED_ATTRIBUTE_VALUE: "UNEXPECTED_CHARACTER_IN_UNQUOTED_ATTRIBUTE_VALUE",
	UNEXPECTED_EQUALS_SIGN_BEFORE_ATTRIBUTE_NAME:     "UNEXPECTED_EQUALS_SIGN_BEFORE_ATTRIBUTE_NAME",
	UNEXPECTED_QUESTION_MARK_INSTEAD_OF_TAG_NAME:     "UNEXPECTED_QUESTION_MARK_INSTEAD_OF_TAG_NAME",
	UNEXPECTED_SOLIDUS_IN_TAG:                        "UNEXPECTED_SOLIDUS_IN_TAG",
	X_INVALID_END_TAG:                                "X_INVALID_END_TAG",
	X_MISSING_END_TAG:                                "X_MISSING_END_TAG",
	X_MISSING_INTERPOLATION_END:                      "X_MISSING_INTERPOLATION_END",
	X_MISSING_DIRECTIVE_NAME:                         "X_MISSING_DIRECTIVE_NAME",
	X_MISSING_DYNAMIC_DIRECTIVE_ARGUMENT_END:         "X_MISSING_DYNAMIC_DIRECTIVE_ARGUMENT_END",
	X_INVALID_EXPRESSION:                             "X_INVALID_EXPRESSION",
	X_V_IF_NO_EXPRESSION:                             "X_V_IF_NO_EXPRESSION",
	X_V_ELSE_NO_ADJACENT_IF:                          "X_V_ELSE_NO_ADJACENT_IF",
	X_V_FOR_NO_EXPRESSION:                            "X_V_FOR_NO_EXPRESSION",
	X_V_FOR_MALFORMED_EXPRESSION:                     "X_V_FOR_MALFORMED_EXPRESSION",
	X_V_BIND_NO_EXPRESSION:                           "X_V_BIND_NO_EXPRESSION",
	X_V_ON_NO_EXPRESSION:                             "X_V_ON_NO_EXPRESSION",
	W_CODEGEN_NODE_MISSING:                           "W_CODEGEN_NODE_MISSING",
}

func (c ErrorCode) String() string {
	if label, ok := errorLabels[c]; ok {
		return label
	}
	return "Invalid(" + strconv.Itoa(int(c)) + ")"
}

// CompilerError is a non-fatal diagnostic. The parser recovers and keeps
// going; callers receive these through the OnError/OnWarn hooks.
type CompilerError struct {
	Code    ErrorCode
	Loc     *SourceLocation
	Message string
}

func (e *CompilerError) Error() string {
	if e.Message != "" {
		return e.Code.String() + ": " + e.Message
	}
	return e.Code.String()
}

// NewError builds an error value for a code at a location.
func NewError(code ErrorCode, l *SourceLocation) *CompilerError {
	return &CompilerError{Code: code, Loc: l}
}
