package dto

type SendMentorshipRequest struct {
	MentorID  string `json:"mentor_id" binding:"required,uuid"`
	Subject   string `json:"subject" binding:"required,min=3,max=200"`
	Message   string `json:"message" binding:"required,max=2000"`
	Expertise string `json:"expertise" binding:"omitempty,max=200"`
}

type RespondMentorshipRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}
