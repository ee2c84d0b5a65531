package parser

import (
	"regexp"
	"strings"
)

// scrubRule is one deterministic noise-removal transform. The list is
// fixed and each rule is named so a new model dialect's quirks get a new
// rule and a new test, never a tweak to shared logic.
type scrubRule struct {
	name  string
	apply func(string) string
}

var (
	orphanFragmentPattern = regexp.MustCompile(`(?m)^[ \t]*[{}\[\],:"]+[ \t]*$\n?`)
	preamblePattern       = regexp.MustCompile(`^(?:(?:Sure|Certainly|Okay|Of course|Alright)[,.!]?\s+)?Let me [^\n]*[.:!]\s*\n?`)
	emptyTagPattern       = regexp.MustCompile(`<(tool_call|tool_response|think|thinking|scratchpad)>\s*</(?:tool_call|tool_response|think|thinking|scratchpad)>`)
	strayTagPattern       = regexp.MustCompile(`</?(?:tool_call|tool_response)>`)
)

var scrubRules = []scrubRule{
	{
		// Stray C0 control characters models occasionally leak.
		name: "control_chars",
		apply: func(s string) string {
			return strings.Map(func(r rune) rune {
				if r < 0x20 && r != '\n' && r != '\t' {
					return -1
				}
				return r
			}, s)
		},
	},
	{
		// Lines made only of JSON punctuation, left behind after a tool
		// call was cut out of the middle of a sentence.
		name: "orphan_json_fragment",
		apply: func(s string) string {
			return orphanFragmentPattern.ReplaceAllString(s, "")
		},
	},
	{
		// Leading "Let me..." filler before the actual content.
		name: "boilerplate_preamble",
		apply: func(s string) string {
			return preamblePattern.ReplaceAllString(s, "")
		},
	},
	{
		// Wrapper tags whose payload has already been extracted.
		name: "empty_tag_litter",
		apply: func(s string) string {
			s = emptyTagPattern.ReplaceAllString(s, "")
			return strayTagPattern.ReplaceAllString(s, "")
		},
	},
}

// scrub applies every rule in order.
func scrub(text string) string {
	for _, r := range scrubRules {
		text = r.apply(text)
	}
	return text
}

// scrubRuleNames returns the fixed rule list, in application order.
func scrubRuleNames() []string {
	names := make([]string, len(scrubRules))
	for i, r := range scrubRules {
		names[i] = r.name
	}
	return names
}
