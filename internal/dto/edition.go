package dto

// CreateEditionRequest creates a new edition.
type CreateEditionRequest struct {
	Name         string `json:"name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	Semester     string `json:"semester" validate:"required,oneof=S1 S2"`
	Active       bool   `json:"active"`
}

// UpdateEditionRequest updates edition metadata. Nil fields are left
// untouched.
type UpdateEditionRequest struct {
	Name         *string `json:"name"`
	AcademicYear *string `json:"academic_year"`
	Semester     *string `json:"semester" validate:"omitempty,oneof=S1 S2"`
	Active       *bool   `json:"active"`
}

// EditionSummary is an edition with its applicant count for listings.
type EditionSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AcademicYear     string `json:"academic_year"`
	Semester         string `json:"semester"`
	Active           bool   `json:"active"`
	ApplicationCount int    `json:"application_count"`
}
