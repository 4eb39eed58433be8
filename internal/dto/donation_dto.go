package dto

type CauseFilter struct {
	Category string `form:"category" binding:"omitempty,oneof=infrastructure scholarships research events"`
}

// DonateRequest records a contribution in rupees.
type DonateRequest struct {
	Amount    int64  `json:"amount" binding:"required,min=1"`
	Anonymous bool   `json:"anonymous"`
	Message   string `json:"message" binding:"omitempty,max=500"`
}
