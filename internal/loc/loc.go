package loc

// Loc points at a single byte in the source text.
type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int
}

// Span is a range of bytes in a Tokenizer's buffer. The start is inclusive,
// the end is exclusive.
type Span struct {
	Start, End int
}

// Position is a resolved source position. Offset is 0-based; Line and Column
// are 1-based, the way editors report them.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceLocation is the [start, end) range a node was parsed from, together
// with the source text it covers.
type SourceLocation struct {
	Start  Position `json:"start"`
	End    Position `json:"end"`
	Source string   `json:"source,omitempty"`
}

// StubLoc marks synthetic nodes that have no counterpart in the source.
func StubLoc() SourceLocation {
	return SourceLocation{
		Start: Position{Offset: 0, Line: 1, Column: 1},
		End:   Position{Offset: 0, Line: 1, Column: 1},
	}
}

// NewlineIndex records the offsets of newline characters in a source text,
// in increasing order, for O(log n) line/column resolution.
type NewlineIndex struct {
	offsets []int
}

// Push records a newline at the given byte offset. Offsets must arrive in
// increasing order; repeats of the last offset are ignored.
func (ix *NewlineIndex) Push(offset int) {
	if n := len(ix.offsets); n > 0 && ix.offsets[n-1] >= offset {
		return
	}
	ix.offsets = append(ix.offsets, offset)
}

// Pos resolves a byte offset into a Position using the recorded newlines.
// The tokenizer only asks about offsets it has already scanned past, so all
// relevant newlines are guaranteed to be in the index.
func (ix *NewlineIndex) Pos(offset int) Position {
	// binary search for the count of newlines strictly before offset
	lo, hi := 0, len(ix.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if ix.offsets[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return Position{Offset: offset, Line: 1, Column: offset + 1}
	}
	return Position{Offset: offset, Line: lo + 1, Column: offset - ix.offsets[lo-1]}
}
