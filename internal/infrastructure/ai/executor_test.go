package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastPrompt = userPrompt
	return s.response, s.err
}

func validResponse() string {
	return `{
		"fit_summary": {
			"overall_fit_rating": "MODERATE",
			"subscores": {"eligibility": 100, "alignment": 60, "readiness": 55},
			"primary_rationale": "Thematic match on education. Geography partially covered."
		},
		"risk_flags": []
	}`
}

func testInputs() map[string]any {
	return map[string]any{
		"prompt_inputs": map[string]any{
			"ngo":         map[string]any{"organization_name": "Hope Foundation"},
			"opportunity": map[string]any{"title": "Community Education Fund"},
			"derived":     map[string]any{"selected_variant_id": "v-ngo-ke"},
		},
	}
}

func newTestExecutor(gen contentGenerator) *Executor {
	return NewExecutor(gen, 0, logger.NewLogger())
}

func TestExecute_Success(t *testing.T) {
	gen := &stubGenerator{response: validResponse()}
	executor := newTestExecutor(gen)

	payload, err := executor.Execute(context.Background(), testInputs())
	require.NoError(t, err)

	fitSummary := payload["fit_summary"].(map[string]any)
	assert.Equal(t, "MODERATE", fitSummary["overall_fit_rating"])
}

func TestExecute_PromptContainsInputsAndVariant(t *testing.T) {
	gen := &stubGenerator{response: validResponse()}
	executor := newTestExecutor(gen)

	_, err := executor.Execute(context.Background(), testInputs())
	require.NoError(t, err)

	compact, err := json.Marshal(testInputs())
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, string(compact))
	assert.Contains(t, gen.lastPrompt, "SELECTED VARIANT: v-ngo-ke")
	assert.NotContains(t, gen.lastPrompt, "{{PROMPT_INPUTS_JSON}}")
	assert.Contains(t, gen.lastSystem, "You are GrantPilot")
}

func TestExecute_CodeFencedResponse(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + validResponse() + "\n```"}
	executor := newTestExecutor(gen)

	_, err := executor.Execute(context.Background(), testInputs())
	assert.NoError(t, err)
}

func TestExecute_GeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	executor := newTestExecutor(gen)

	_, err := executor.Execute(context.Background(), testInputs())
	require.Error(t, err)
	assert.True(t, apperrors.IsAssessmentFailedError(err))
}

func TestExecute_FailClosedMatrix(t *testing.T) {
	mutate := func(change func(map[string]any)) string {
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(validResponse()), &payload))
		change(payload)
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		return string(raw)
	}

	tests := []struct {
		name     string
		response string
	}{
		{"not json", "this is not json"},
		{"json array", `[1, 2, 3]`},
		{"missing fit_summary", `{"other": true}`},
		{"fit_summary not object", `{"fit_summary": "yes"}`},
		{
			"invalid rating",
			mutate(func(p map[string]any) {
				p["fit_summary"].(map[string]any)["overall_fit_rating"] = "EXCELLENT"
			}),
		},
		{
			"missing subscores",
			mutate(func(p map[string]any) {
				delete(p["fit_summary"].(map[string]any), "subscores")
			}),
		},
		{
			"non-integer subscore",
			mutate(func(p map[string]any) {
				p["fit_summary"].(map[string]any)["subscores"].(map[string]any)["alignment"] = 60.5
			}),
		},
		{
			"subscore out of range",
			mutate(func(p map[string]any) {
				p["fit_summary"].(map[string]any)["subscores"].(map[string]any)["readiness"] = 101
			}),
		},
		{
			"subscore as string",
			mutate(func(p map[string]any) {
				p["fit_summary"].(map[string]any)["subscores"].(map[string]any)["eligibility"] = "100"
			}),
		},
		{
			"missing rationale",
			mutate(func(p map[string]any) {
				delete(p["fit_summary"].(map[string]any), "primary_rationale")
			}),
		},
		{
			"blank rationale",
			mutate(func(p map[string]any) {
				p["fit_summary"].(map[string]any)["primary_rationale"] = "   "
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{response: tt.response}
			executor := newTestExecutor(gen)

			_, err := executor.Execute(context.Background(), testInputs())
			require.Error(t, err)
			assert.True(t, apperrors.IsAssessmentFailedError(err))
		})
	}
}

func TestExecute_BoundarySubscores(t *testing.T) {
	response := strings.Replace(validResponse(),
		`{"eligibility": 100, "alignment": 60, "readiness": 55}`,
		`{"eligibility": 0, "alignment": 100, "readiness": 0}`, 1)
	gen := &stubGenerator{response: response}
	executor := newTestExecutor(gen)

	_, err := executor.Execute(context.Background(), testInputs())
	assert.NoError(t, err)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
