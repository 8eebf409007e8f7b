package dto

// StartSessionRequest opens a review session over one edition.
type StartSessionRequest struct {
	EditionID string `json:"edition_id" validate:"required"`
}

// JumpRequest targets an absolute queue position.
type JumpRequest struct {
	Index int `json:"index"`
}
