package documents

import (
	"path/filepath"
	"slices"
	"strings"
)

// Kind identifies the document file format.
type Kind string

// Valid document kinds.
const (
	KindMarkdown Kind = "markdown"
	KindDocx     Kind = "docx"
	KindPDF      Kind = "pdf"
)

// KindForContentType maps an HTTP content type to a document kind.
// Unrecognized types default to markdown, matching the treatment of
// plain-text uploads.
func KindForContentType(contentType string) Kind {
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return KindPDF
	case strings.Contains(contentType, "wordprocessingml"),
		strings.Contains(contentType, "msword"):
		return KindDocx
	default:
		return KindMarkdown
	}
}

// Source identifies how a document entered the case.
type Source string

// Valid document sources.
const (
	SourceSystemGenerated Source = "system_generated"
	SourceUserUploaded    Source = "user_uploaded"
)

// Status identifies the document editing state.
type Status string

// Valid document statuses.
const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

// ParseStatus validates a string as a document status.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if v != StatusDraft && v != StatusFinal {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusDraft {
		return StatusFinal
	}
	return StatusDraft
}

// SignatureStatus tracks e-signature progress for a document.
type SignatureStatus string

// Valid signature statuses.
const (
	SignatureUnsigned SignatureStatus = "unsigned"
	SignatureSent     SignatureStatus = "sent"
	SignatureSigned   SignatureStatus = "signed"
)

// Category classifies a document's role within the petition.
type Category string

// Valid document categories.
const (
	CategoryResume                 Category = "resume"
	CategoryPersonalStatement      Category = "personal_statement"
	CategoryRecommendationLetter   Category = "recommendation_letter"
	CategoryAward                  Category = "award"
	CategoryMembershipProof        Category = "membership_proof"
	CategoryPublishedMaterial      Category = "published_material"
	CategoryJudgingEvidence        Category = "judging_evidence"
	CategoryOriginalContribution   Category = "original_contribution"
	CategoryScholarlyArticle       Category = "scholarly_article"
	CategoryExhibitionEvidence     Category = "exhibition_evidence"
	CategoryLeadingRoleEvidence    Category = "leading_role_evidence"
	CategorySalaryEvidence         Category = "salary_evidence"
	CategoryCommercialSuccess      Category = "commercial_success"
	CategoryMediaCoverage          Category = "media_coverage"
	CategoryCitationRecord         Category = "citation_record"
	CategoryPatent                 Category = "patent"
	CategoryEmploymentVerification Category = "employment_verification"
	CategoryExpertOpinion          Category = "expert_opinion"
	CategoryOther                  Category = "other"
)

var categories = []Category{
	CategoryResume,
	CategoryPersonalStatement,
	CategoryRecommendationLetter,
	CategoryAward,
	CategoryMembershipProof,
	CategoryPublishedMaterial,
	CategoryJudgingEvidence,
	CategoryOriginalContribution,
	CategoryScholarlyArticle,
	CategoryExhibitionEvidence,
	CategoryLeadingRoleEvidence,
	CategorySalaryEvidence,
	CategoryCommercialSuccess,
	CategoryMediaCoverage,
	CategoryCitationRecord,
	CategoryPatent,
	CategoryEmploymentVerification,
	CategoryExpertOpinion,
	CategoryOther,
}

// Categories returns the list of valid document categories.
func Categories() []Category {
	return categories
}

// ParseCategory validates a string as a document category. Empty input
// defaults to other.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	v := Category(s)
	if !slices.Contains(categories, v) {
		return "", ErrInvalidCategory
	}
	return v, nil
}

// BaseName strips the extension from a filename for version grouping.
func BaseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
