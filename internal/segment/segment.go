// Package segment encodes and decodes the MORT multi-segment text format.
//
// MORT payloads concatenate independent localization strings with a literal
// separator token (default "//////"). Engines translate the joined payload in
// one call; the response must re-split into exactly as many segments as went
// in, because each segment maps back to one string in the client's table.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultSeparator is the MORT separator token used when none is configured.
const DefaultSeparator = "//////"

// MismatchError reports a segment-count asymmetry between a request and an
// engine response. It is terminal: drift is surfaced, never padded or
// truncated away.
type MismatchError struct {
	Want int
	Got  int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("segment: count mismatch: sent %d segments, engine returned %d", e.Want, e.Got)
}

// Decode splits text on every literal occurrence of sep, preserving empty
// boundary segments. A text with no separator decodes to a single segment.
func Decode(text, sep string) []string {
	if sep == "" {
		return []string{text}
	}
	return strings.Split(text, sep)
}

// Encode rejoins segments in order with the literal separator between them.
// Segment text is preserved exactly; Decode(Encode(s, sep), sep) == s.
func Encode(segments []string, sep string) string {
	return strings.Join(segments, sep)
}

// Validate checks segment-count symmetry between request and response and
// returns a *MismatchError when they differ.
func Validate(inputCount, outputCount int) error {
	if inputCount != outputCount {
		return &MismatchError{Want: inputCount, Got: outputCount}
	}
	return nil
}

// Normalize rewrites text into canonical MORT form for the wire: CRLF line
// endings, no stray separator at either boundary, no doubled separators, and
// each remaining segment framed as "<sep>\r\n<text>\r\n". Empty input or
// input with no surviving segments normalizes to "".
//
// Normalize is cosmetic output formatting only. It runs after Validate has
// already accepted the response; it must never be used to repair a count
// mismatch.
func Normalize(text, sep string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\n", "\r\n")
	text = strings.ReplaceAll(text, "\r\r\n", "\r\n")
	cleaned := strings.TrimSpace(text)

	pats := patternsFor(sep)
	cleaned = pats.leading.ReplaceAllString(cleaned, "")
	cleaned = pats.trailing.ReplaceAllString(cleaned, "")
	cleaned = pats.doubled.ReplaceAllString(cleaned, sep+"\r\n")

	var segments []string
	for _, s := range strings.Split(cleaned, sep) {
		if t := strings.TrimSpace(s); t != "" {
			segments = append(segments, t)
		}
	}
	if len(segments) == 0 {
		return ""
	}
	return sep + "\r\n" + strings.Join(segments, "\r\n"+sep+"\r\n") + "\r\n"
}

// sepPatterns holds the separator-cleanup expressions compiled for one
// separator token.
type sepPatterns struct {
	leading  *regexp.Regexp
	trailing *regexp.Regexp
	doubled  *regexp.Regexp
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*sepPatterns{}
)

// patternsFor returns the compiled cleanup patterns for sep, compiling them
// on first use. A process sees one separator in practice, so the cache stays
// a single entry.
func patternsFor(sep string) *sepPatterns {
	patternMu.Lock()
	defer patternMu.Unlock()

	if p, ok := patternCache[sep]; ok {
		return p
	}
	quoted := regexp.QuoteMeta(sep)
	p := &sepPatterns{
		leading:  regexp.MustCompile(`^\s*` + quoted + `\s*\r\n`),
		trailing: regexp.MustCompile(`\r\n\s*` + quoted + `\s*$`),
		doubled:  regexp.MustCompile(`(` + quoted + `\s*){2,}`),
	}
	patternCache[sep] = p
	return p
}
