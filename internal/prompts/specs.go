package prompts

const verifySpec = `Respond with a JSON object matching this exact structure:

{
  "tier": 3,
  "score": 5.5,
  "indicators": [true, false, true, false, false],
  "verified_claims": ["<claim1>", "<claim2>"],
  "unverified_claims": ["<claim1>"],
  "red_flags": ["<flag1>"],
  "missing_documents": ["<document1>"],
  "recommendation": "INCLUDE_WITH_SUPPORT"
}

Field constraints:
- tier: Integer 1-5 mapped from the count of true indicators per the
  rubric's tier table. 1 is strongest, 5 is disqualifying.
- score: Number in [0, 10] reflecting overall evidentiary strength for
  this criterion. Must be consistent with the tier: a Tier 1 verdict
  scores high, a Tier 5 verdict scores near 0.
- indicators: Boolean array with one entry per rubric indicator, in the
  exact order the rubric lists them. True only when the document itself
  substantiates the indicator.
- verified_claims: Claims the document substantiates with specifics
  (names, dates, amounts, citations).
- unverified_claims: Claims asserted without substantiation.
- red_flags: Inconsistencies, unsupported superlatives, or content that
  undercuts the petition. Prefix disqualifying findings with "CRITICAL:".
- missing_documents: Specific supporting documents that would strengthen
  this criterion.
- recommendation: One of STRONG, INCLUDE_WITH_SUPPORT, NEEDS_MORE_DOCS,
  EXCLUDE, consistent with the tier.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Evaluate exactly one criterion per response
- Report only what the provided document text supports
- Empty arrays are valid; never invent claims or flags to fill them`

const evaluateSpec = `Respond with a JSON object matching this exact structure:

{
  "overall_rating": "<STRONG|PROMISING|WEAK|NOT_READY>",
  "criteria_met": 3,
  "criterion_assessments": {
    "<criterion>": {"met": true, "strength": "<STRONG|MODERATE|WEAK>", "basis": "<explanation>"}
  },
  "summary": "<narrative>"
}

Field constraints:
- overall_rating: STRONG = clearly filable. PROMISING = filable with
  targeted additions. WEAK = material work required. NOT_READY = the
  record cannot support a filing.
- criteria_met: Count of criteria whose met flag is true. Must equal
  the number of true met flags in criterion_assessments.
- criterion_assessments: One entry per criterion that has verification
  results, keyed by criterion identifier. basis must cite verified
  claims from the context.
- summary: Assessment of the record against the three-criterion
  threshold and overall acclaim.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Assess only criteria present in the supplied verification results`

const gapAnalysisSpec = `Respond with a JSON object matching this exact structure:

{
  "gaps": [
    {
      "criterion": "<criterion>",
      "description": "<what is missing>",
      "suggested_evidence": ["<document or action>"],
      "priority": "<HIGH|MEDIUM|LOW>"
    }
  ],
  "summary": "<narrative>"
}

Field constraints:
- gaps: Ordered highest priority first. criterion identifies the
  affected criterion; suggested_evidence lists specific obtainable
  documents, not categories.
- summary: Which gaps block filing versus merely strengthen the case.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- An empty gaps array is valid when the record is complete
- Suggest only evidence consistent with the supplied profile`

const strategizeSpec = `Respond with a JSON object matching this exact structure:

{
  "lead_criteria": ["<criterion1>", "<criterion2>", "<criterion3>"],
  "reserve_criteria": ["<criterion>"],
  "action_plan": [
    {"action": "<step>", "criterion": "<criterion>", "timeframe": "<IMMEDIATE|SHORT_TERM|LONG_TERM>"}
  ],
  "filing_posture": "<FILE_NOW|STRENGTHEN_FIRST|GATHER_EVIDENCE>",
  "rationale": "<narrative>"
}

Field constraints:
- lead_criteria: The criteria the petition should argue first, strongest
  first. At least three when the evidence supports it.
- reserve_criteria: Criteria held back as supporting material.
- action_plan: Concrete steps ordered by timeframe; each tied to one
  criterion.
- filing_posture: The single recommended posture.
- rationale: Why this strategy, citing the strength evaluation and gap
  analysis supplied in the context.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Every action must address a gap or reinforce a lead criterion from
  the supplied context`

const consolidateSpec = `Respond with a JSON object matching this exact structure:

{
  "executive_summary": "<narrative>",
  "criteria_narratives": {
    "<criterion>": "<narrative for this criterion>"
  },
  "cross_criterion_themes": ["<theme1>", "<theme2>"],
  "filing_recommendation": "<narrative>"
}

Field constraints:
- executive_summary: Two to four paragraphs summarizing overall case
  strength, anchored to the PRIMARY criteria in the provided ranking.
- criteria_narratives: One entry per criterion in the provided ranking,
  keyed by criterion identifier. Each narrative must reference at least
  one verified claim from the verification results and must be consistent
  with the criterion's PRIMARY/BACKUP/DROP classification.
- cross_criterion_themes: Themes that span multiple criteria and support
  a finding of sustained acclaim.
- filing_recommendation: Whether to file now, strengthen first, or
  gather specific additional evidence.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The provided criteria ranking is authoritative; never reclassify
- Ground every narrative in the supplied verification results`

const assessSpec = `Respond with a JSON object matching this exact structure:

{
  "denial_probability": 0.35,
  "confidence": "<HIGH|MEDIUM|LOW>",
  "strongest_criteria": ["<criterion1>", "<criterion2>"],
  "weakest_criteria": ["<criterion1>"],
  "risk_factors": [
    {"factor": "<description>", "severity": "<HIGH|MEDIUM|LOW>", "mitigation": "<action>"}
  ],
  "rationale": "<explanation>"
}

Field constraints:
- denial_probability: Number in [0, 1] estimating the likelihood of
  denial on the current record.
- confidence: Categorical certainty of the estimate. HIGH = evidence is
  complete and consistent. MEDIUM = material gaps remain. LOW = the
  record is too thin to assess reliably.
- strongest_criteria: Criterion identifiers carrying the petition,
  strongest first.
- weakest_criteria: Criterion identifiers most likely to draw a request
  for evidence or denial finding.
- risk_factors: Concrete risks with severity and a specific mitigation
  for each.
- rationale: Explanation of the estimate citing specific verified claims
  and red flags from the supplied results.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- When streaming, emit progressively complete versions of this same
  object; each emitted line must be independently parseable
- Base the estimate only on the supplied evidence`

const mapColumnsSpec = `Respond with a JSON object matching this exact structure:

{
  "mappings": [
    {"column": "<header>", "field": "<name|title|organization|email|phone|relationship|notes|criteria_keys>"}
  ],
  "unmapped": ["<header>"]
}

Field constraints:
- mappings: One entry per mapped column, in the same order the columns
  appear in the input header row. field must be one of the listed
  recommender fields; never map two columns to the same field.
- unmapped: Header names for columns that match no recommender field.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Preserve input column order in mappings
- Leave a column unmapped rather than guessing between two fields`

var specs = map[Stage]string{
	StageVerify:      verifySpec,
	StageEvaluate:    evaluateSpec,
	StageGapAnalysis: gapAnalysisSpec,
	StageStrategize:  strategizeSpec,
	StageConsolidate: consolidateSpec,
	StageAssess:      assessSpec,
	StageMapColumns:  mapColumnsSpec,
}

// Spec returns the hardcoded specification for an agent stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
