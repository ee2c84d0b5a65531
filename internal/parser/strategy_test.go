package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForModelSelection(t *testing.T) {
	cases := []struct {
		provider string
		model    string
		want     string
	}{
		{"ollama", "qwen2.5-coder:32b", "tag_dialect"},
		{"openrouter", "deepseek-chat", "tag_dialect"},
		{"zai", "glm-4.6", "tag_dialect"},
		{"zai", "some-future-model", "tag_dialect"},
		{"ollama-qwen", "", "tag_dialect"},
		{"anthropic", "claude-sonnet", "generic"},
		{"openai", "gpt-4o", "generic"},
		{"", "", "generic"},
	}
	for _, tc := range cases {
		t.Run(tc.provider+"/"+tc.model, func(t *testing.T) {
			s := ForModel(tc.provider, tc.model)
			assert.Equal(t, tc.want, s.Name())
		})
	}
}

func TestRegisterRuleTakesPrecedence(t *testing.T) {
	RegisterRule("lab_override",
		func(provider, model string) bool { return provider == "lab-internal" },
		func() Strategy { return NewTagDialect() })

	s := ForModel("lab-internal", "qwen-lab")
	assert.Equal(t, "tag_dialect", s.Name())

	// Unrelated providers still fall through the table.
	assert.Equal(t, "generic", ForModel("openai", "gpt-4o").Name())
}

func TestCapabilities(t *testing.T) {
	tag := NewTagDialect().Capabilities()
	assert.True(t, tag.TagDialect)
	assert.True(t, tag.ToolCalls)

	gen := NewGenericDialect().Capabilities()
	assert.False(t, gen.TagDialect)
	assert.True(t, gen.ToolCalls)
	assert.True(t, gen.CodeBlocks)
}
