package dto

type EventFilter struct {
	Type string `form:"type" binding:"omitempty,oneof=reunion webinar hackathon networking"`
}

type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=attending maybe not-attending"`
}
