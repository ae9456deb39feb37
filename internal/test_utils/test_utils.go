package test_utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
	"github.com/pkg/diff"
)

func RemoveNewlines(input string) string {
	return strings.ReplaceAll(input, "\n", "")
}

func Dedent(input string) string {
	return dedent.Dedent( // removes any leading whitespace
		strings.ReplaceAll( // compress linebreaks to 1 or 2 lines max
			strings.TrimLeft(
				strings.TrimRight(input, " \n\r"), // remove any trailing whitespace
				" \t\r\n"),                        // remove leading whitespace
			"\n\n\n", "\n\n"),
	)
}

func ANSIDiff(x, y interface{}, opts ...cmp.Option) string {
	escapeCode := func(code int) string {
		return fmt.Sprintf("\x1b[%dm", code)
	}
	d := cmp.Diff(x, y, opts...)
	if d == "" {
		return ""
	}
	ss := strings.Split(d, "\n")
	for i, s := range ss {
		switch {
		case strings.HasPrefix(s, "-"):
			ss[i] = escapeCode(31) + s + escapeCode(0)
		case strings.HasPrefix(s, "+"):
			ss[i] = escapeCode(32) + s + escapeCode(0)
		}
	}
	return strings.Join(ss, "\n")
}

// UnifiedDiff renders a line-level unified diff of want vs got, for test
// failure output on larger code blobs.
func UnifiedDiff(want, got string) string {
	var b strings.Builder
	if err := diff.Text("want", "got", want, got, &b); err != nil {
		return ANSIDiff(want, got)
	}
	return b.String()
}

// RedactTestName removes characters the snapshot file naming cannot carry.
func RedactTestName(testCaseName string) string {
	replacer := strings.NewReplacer(
		"#", "_", "<", "_", ">", "_", "(", "_", ")", "_", ":", "_",
		" ", "_", "'", "_", `"`, "_", "@", "_", "`", "_", "+", "_", "/", "_",
	)
	return replacer.Replace(testCaseName)
}

type OutputKind int

const (
	JsOutput OutputKind = iota
	JsonOutput
	HtmlOutput
)

var outputKind = map[OutputKind]string{
	JsOutput:   "js",
	JsonOutput: "json",
	HtmlOutput: "html",
}

type SnapshotOptions struct {
	Testing      *testing.T
	TestCaseName string
	Input        string
	Output       string
	Kind         OutputKind
	FolderName   string
}

// MakeSnapshot records a markdown snapshot pairing the input template with
// the generated output.
func MakeSnapshot(options *SnapshotOptions) {
	t := options.Testing

	folderName := "__snapshots__"
	if options.FolderName != "" {
		folderName = options.FolderName
	}
	snapshotName := RedactTestName(options.TestCaseName)

	s := snaps.WithConfig(
		snaps.Filename(snapshotName),
		snaps.Dir(folderName),
	)

	snapshot := "## Input\n\n```\n"
	snapshot += Dedent(options.Input)
	snapshot += "\n```\n\n## Output\n\n"
	snapshot += "```" + outputKind[options.Kind] + "\n"
	snapshot += Dedent(options.Output)
	snapshot += "\n```"

	s.MatchSnapshot(t, snapshot)
}
