// Package analyses stores versioned agent analysis artifacts for a
// case: strength evaluation, gap analysis, case strategy, the
// consolidated narrative with its deterministic criteria ranking, and
// the streamed denial-probability assessment. Artifacts are immutable
// snapshots; readers only see the latest of each kind.
package analyses

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/advocate-project/advocate/internal/prompts"
)

// Kind identifies an analysis artifact type.
type Kind string

// Valid artifact kinds.
const (
	KindStrengthEvaluation Kind = "strength_evaluation"
	KindGapAnalysis        Kind = "gap_analysis"
	KindCaseStrategy       Kind = "case_strategy"
	KindConsolidation      Kind = "consolidation"
	KindDenialProbability  Kind = "denial_probability"
)

var kinds = []Kind{
	KindStrengthEvaluation,
	KindGapAnalysis,
	KindCaseStrategy,
	KindConsolidation,
	KindDenialProbability,
}

// Kinds returns the list of valid artifact kinds.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// ParseKind validates a string as a known artifact kind.
// Returns ErrInvalidKind if the value is not recognized.
func ParseKind(s string) (Kind, error) {
	v := Kind(s)
	if !slices.Contains(kinds, v) {
		return "", ErrInvalidKind
	}
	return v, nil
}

// stageFor maps each artifact kind to the agent stage that produces it.
var stageFor = map[Kind]prompts.Stage{
	KindStrengthEvaluation: prompts.StageEvaluate,
	KindGapAnalysis:        prompts.StageGapAnalysis,
	KindCaseStrategy:       prompts.StageStrategize,
	KindConsolidation:      prompts.StageConsolidate,
	KindDenialProbability:  prompts.StageAssess,
}

// Artifact is one immutable analysis snapshot.
type Artifact struct {
	ID        uuid.UUID       `json:"id"`
	CaseID    uuid.UUID       `json:"case_id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Model     string          `json:"model"`
	Provider  string          `json:"provider"`
	CreatedAt time.Time       `json:"created_at"`
}
