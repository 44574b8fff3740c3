package ai

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	_ "embed"

	"github.com/ngoinfo/grantpilot/internal/shared/errors"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

// PromptLibraryVersion is stamped onto every scan so a stored result
// can always be traced back to the rubric that produced it.
const PromptLibraryVersion = "1.0.1"

//go:embed rubric_system.txt
var systemPrompt string

//go:embed rubric_user.txt
var userPromptTemplate string

const defaultTimeout = 60 * time.Second

// contentGenerator abstracts the model call so the executor can be
// tested with a stub.
type contentGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Executor runs the rubric against an assembled prompt input document
// and validates the response contract. Any deviation fails the scan;
// a malformed model response never becomes a stored assessment.
type Executor struct {
	generator contentGenerator
	timeout   time.Duration
	logger    logger.Interface
}

func NewExecutor(generator contentGenerator, timeout time.Duration, log logger.Interface) *Executor {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Executor{generator: generator, timeout: timeout, logger: log}
}

// Execute sends the document to the model and returns the validated
// result payload.
func (e *Executor) Execute(ctx context.Context, promptInputs map[string]any) (map[string]any, error) {
	compact, err := json.Marshal(promptInputs)
	if err != nil {
		e.logger.Errorw("failed to encode prompt inputs", "error", err)
		return nil, errors.NewAssessmentFailedError("Invalid Fit Scan response payload").WithCause(err)
	}

	selectedVariantID := selectedVariantIDOf(promptInputs)
	userPrompt := strings.ReplaceAll(userPromptTemplate, "{{PROMPT_INPUTS_JSON}}", string(compact))
	userPrompt = strings.ReplaceAll(userPrompt, "{{SELECTED_VARIANT_ID}}", selectedVariantID)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.generator.GenerateJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		e.logger.Errorw("fit assessment model call failed", "error", err)
		return nil, errors.NewAssessmentFailedError("Invalid Fit Scan response payload").WithCause(err)
	}

	payload, err := extractJSONPayload(raw)
	if err != nil {
		e.logger.Errorw("fit assessment response is not a JSON object", "error", err)
		return nil, errors.NewAssessmentFailedError("Invalid Fit Scan response payload").WithCause(err)
	}

	if appErr := validatePayload(payload); appErr != nil {
		e.logger.Errorw("fit assessment response failed validation", "reason", appErr.Message)
		return nil, appErr
	}

	return payload, nil
}

func selectedVariantIDOf(promptInputs map[string]any) string {
	inner, _ := promptInputs["prompt_inputs"].(map[string]any)
	derived, _ := inner["derived"].(map[string]any)
	id, _ := derived["selected_variant_id"].(string)
	return id
}

// extractJSONPayload parses the response, tolerating a code-fenced
// body, and requires a top-level object.
func extractJSONPayload(raw string) (map[string]any, error) {
	cleaned := stripCodeFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func validatePayload(payload map[string]any) *errors.AppError {
	fitSummary, ok := payload["fit_summary"].(map[string]any)
	if !ok {
		return errors.NewAssessmentFailedError("Missing fit_summary")
	}

	overall, _ := fitSummary["overall_fit_rating"].(string)
	switch overall {
	case "STRONG", "MODERATE", "WEAK":
	default:
		return errors.NewAssessmentFailedError("Invalid overall_fit_rating")
	}

	subscores, ok := fitSummary["subscores"].(map[string]any)
	if !ok {
		return errors.NewAssessmentFailedError("Missing subscores")
	}
	for _, key := range []string{"eligibility", "alignment", "readiness"} {
		value, ok := subscores[key].(float64)
		if !ok || math.Trunc(value) != value || value < 0 || value > 100 {
			return errors.NewAssessmentFailedError("Invalid subscore " + key)
		}
	}

	rationale, _ := fitSummary["primary_rationale"].(string)
	if strings.TrimSpace(rationale) == "" {
		return errors.NewAssessmentFailedError("Missing primary_rationale")
	}

	return nil
}
