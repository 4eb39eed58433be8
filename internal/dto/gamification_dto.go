package dto

// UpdateChallengeProgressRequest reports progress on a joined challenge.
type UpdateChallengeProgressRequest struct {
	Progress int `json:"progress" binding:"required,min=1"`
}
