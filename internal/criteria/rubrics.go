package criteria

// Rubric enumerates the boolean significance indicators for one criterion.
// Tier placement is a function of how many indicators the evidence satisfies,
// never of weighted scores.
type Rubric struct {
	Criterion  Criterion `json:"criterion"`
	Indicators []string  `json:"indicators"`
}

var rubrics = map[Criterion]Rubric{
	Awards: {
		Criterion: Awards,
		Indicators: []string{
			"award is granted at national or international level",
			"selection pool extends beyond a single employer or school",
			"award recognizes excellence in the field of endeavor",
			"selection criteria and judging process are documented",
			"award has documented press or independent coverage",
			"prior recipients are recognized leaders in the field",
		},
	},
	Membership: {
		Criterion: Membership,
		Indicators: []string{
			"association requires outstanding achievement for admission",
			"admission is judged by recognized national or international experts",
			"membership level held is above the base tier",
			"bylaws or admission standards are documented",
			"association is prominent in the field of endeavor",
		},
	},
	PublishedMaterial: {
		Criterion: PublishedMaterial,
		Indicators: []string{
			"coverage is about the beneficiary, not merely quoting them",
			"outlet qualifies as professional or major trade media",
			"coverage relates to the beneficiary's work in the field",
			"author, title, and date of the material are documented",
			"outlet circulation or audience is documented",
			"coverage is independent of the beneficiary or employer",
		},
	},
	Judging: {
		Criterion: Judging,
		Indicators: []string{
			"judging was of the work of others in the same field",
			"invitation or assignment to judge is documented",
			"judging body is a recognized publication, conference, or panel",
			"judging was completed, not merely invited",
			"judging was recurring or substantial rather than one-off",
		},
	},
	OriginalContributions: {
		Criterion: OriginalContributions,
		Indicators: []string{
			"contribution is original to the beneficiary",
			"contribution has been adopted or relied upon by others in the field",
			"independent experts attest to the contribution's significance",
			"citations, licensing, or usage metrics are documented",
			"contribution influenced the direction of the field",
			"contribution has documented commercial or clinical application",
		},
	},
	ScholarlyArticles: {
		Criterion: ScholarlyArticles,
		Indicators: []string{
			"beneficiary is an author of the article",
			"venue is a professional publication or major trade outlet",
			"venue applies editorial or peer review",
			"article is scholarly in nature, directed at field experts",
			"citation record or readership is documented",
		},
	},
	Exhibitions: {
		Criterion: Exhibitions,
		Indicators: []string{
			"work was displayed at an artistic exhibition or showcase",
			"beneficiary is the creator of the displayed work",
			"venue is recognized in the artistic field",
			"exhibition details (venue, dates, curation) are documented",
			"exhibition was selective or curated",
		},
	},
	LeadingRole: {
		Criterion: LeadingRole,
		Indicators: []string{
			"role is leading or critical for the organization",
			"organization has a distinguished reputation",
			"role and its impact are documented by the organization",
			"organizational standing is documented independently",
			"role contribution is attested by people with direct knowledge",
		},
	},
	HighSalary: {
		Criterion: HighSalary,
		Indicators: []string{
			"remuneration is documented with pay records or contracts",
			"comparative wage data for the field and region is provided",
			"remuneration is high relative to others in the field",
			"comparison uses an appropriate occupational baseline",
			"remuneration is for work in the field of endeavor",
		},
	},
	CommercialSuccess: {
		Criterion: CommercialSuccess,
		Indicators: []string{
			"success is in the performing arts",
			"box office, sales, or streaming figures are documented",
			"figures come from independent or auditable sources",
			"success is attributable to the beneficiary",
			"success is significant relative to comparable works",
		},
	},
}

// RubricFor returns the rubric for a criterion.
func RubricFor(c Criterion) (Rubric, error) {
	r, ok := rubrics[c]
	if !ok {
		return Rubric{}, ErrInvalidCriterion
	}
	return r, nil
}

// IndicatorCount returns the number of indicators a criterion's rubric defines.
func IndicatorCount(c Criterion) int {
	return len(rubrics[c].Indicators)
}
