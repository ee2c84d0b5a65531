package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubControlChars(t *testing.T) {
	assert.Equal(t, "abc", scrub("a\x00b\x01c"))
	assert.Equal(t, "keep\nnewlines\tand tabs", scrub("keep\nnewlines\tand tabs"))
}

func TestScrubOrphanJSONFragment(t *testing.T) {
	in := "Before the call.\n}},\nAfter the call."
	assert.Equal(t, "Before the call.\nAfter the call.", scrub(in))
}

func TestScrubBoilerplatePreamble(t *testing.T) {
	cases := map[string]string{
		"Let me check the file.\nThe content follows.":       "The content follows.",
		"Sure, Let me look at that.\nHere it is.":            "Here it is.",
		"Certainly! Let me run the tests:\nAll green.":       "All green.",
		"The file is ready. Let me know if it works.":         "The file is ready. Let me know if it works.",
	}
	for in, want := range cases {
		assert.Equal(t, want, scrub(in), "input %q", in)
	}
}

func TestScrubEmptyTagLitter(t *testing.T) {
	assert.Equal(t, "ok", scrub("<think></think>ok"))
	assert.Equal(t, "ok ", scrub("ok <tool_call>  </tool_call>"))
	assert.Equal(t, "before  after", scrub("before </tool_call> after"))
}

func TestScrubKeepsOrdinaryProse(t *testing.T) {
	in := "Nothing here needs cleaning: {\"a\": 1} is inline JSON."
	assert.Equal(t, in, scrub(in))
}

func TestScrubRuleNamesFixedOrder(t *testing.T) {
	want := []string{"control_chars", "orphan_json_fragment", "boilerplate_preamble", "empty_tag_litter"}
	assert.Equal(t, want, scrubRuleNames())
}
