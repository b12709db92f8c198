package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Compose builds a complete agent prompt for a stage: effective
// instructions, the stage's output specification, and an optional
// context payload serialized as indented JSON.
func Compose(ctx context.Context, sys System, stage Stage, payload any) (string, error) {
	instructions, err := sys.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := sys.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != nil {
		payloadJSON, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize prompt context: %w", err)
		}

		sb.WriteString("\n\nContext:\n\n")
		sb.WriteString(string(payloadJSON))
	}

	return sb.String(), nil
}
