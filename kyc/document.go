package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentKind names what a document claims to be.
type DocumentKind string

const (
	DocPassport      DocumentKind = "passport"
	DocIDCard        DocumentKind = "id_card"
	DocDriverLicense DocumentKind = "driver_license"
	DocUtilityBill   DocumentKind = "utility_bill"
	DocBankStatement DocumentKind = "bank_statement"
	DocSelfie        DocumentKind = "selfie"
)

// AnalysisStatus is the processing state of an extraction run.
type AnalysisStatus string

const (
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Document is a file uploaded for an applicant. Analysis is nil until an
// extraction run has been requested.
type Document struct {
	ID          string
	ApplicantID string
	Kind        DocumentKind
	FileName    string
	UploadedAt  time.Time
	Analysis    *DocumentAnalysis
}

// DocumentAnalysis is the outcome of automated field extraction over one
// document.
type DocumentAnalysis struct {
	Status          AnalysisStatus
	ExtractedFields map[string]string
	Warnings        []string
	CompletedAt     *time.Time
}

// Terminal reports whether the analysis will never change again. It is the
// predicate convergence polls stop on.
func (a DocumentAnalysis) Terminal() bool {
	return a.Status == AnalysisCompleted || a.Status == AnalysisFailed
}

// Validate checks the document schema.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.ApplicantID, validation.Required),
		validation.Field(&d.Kind, validation.Required, validation.In(
			DocPassport, DocIDCard, DocDriverLicense, DocUtilityBill, DocBankStatement, DocSelfie,
		)),
		validation.Field(&d.FileName, validation.Required),
		validation.Field(&d.Analysis),
	)
}

// Validate checks the analysis schema.
func (a DocumentAnalysis) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Status, validation.Required, validation.In(
			AnalysisQueued, AnalysisProcessing, AnalysisCompleted, AnalysisFailed,
		)),
	)
}
