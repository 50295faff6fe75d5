// Package textnorm canonicalizes raw exam text before segmentation.
package textnorm

import (
	"regexp"
	"strings"
)

var thaiDigits = strings.NewReplacer(
	"๐", "0",
	"๑", "1",
	"๒", "2",
	"๓", "3",
	"๔", "4",
	"๕", "5",
	"๖", "6",
	"๗", "7",
	"๘", "8",
	"๙", "9",
)

var (
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
	choiceDotRe     = regexp.MustCompile(`([ก-งA-D])\s*\.`)
	numberDotRe     = regexp.MustCompile(`(\d+)\s*\.`)
	questionStartRe = regexp.MustCompile(`\s+(\(?\d+[.)])\s`)
	blankLinesRe    = regexp.MustCompile(`\n{2,}`)
	answerKeyRe     = regexp.MustCompile(`(?is)={10,}\s*(?:เฉลย|answer\s*key)\s*={10,}`)
)

// Normalize canonicalizes raw extracted text: Thai digits become Arabic,
// whitespace runs collapse, choice and number markers are glued to their
// periods, and question starts buried inside wrapped paragraphs are pushed
// onto their own lines. It always returns a string and is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = thaiDigits.Replace(text)

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\r", "")

	// Glue markers to their trailing period: "ก ." -> "ก.", "1 ." -> "1."
	text = choiceDotRe.ReplaceAllString(text, "$1.")
	text = numberDotRe.ReplaceAllString(text, "$1.")

	// Recover question boundaries lost to paragraph wrapping:
	// "text. 2. text" -> "text.\n2. text"
	text = questionStartRe.ReplaceAllString(text, "\n$1 ")

	text = blankLinesRe.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// StripAnswerKey drops everything from the answer-key delimiter onwards.
// The delimiter is a row of >=10 '=' characters around the word เฉลย
// (or "answer key").
func StripAnswerKey(text string) string {
	loc := answerKeyRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]]
}
