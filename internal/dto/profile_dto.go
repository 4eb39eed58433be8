package dto

// UpdateProfileRequest carries the editable profile fields. Absent fields
// are left untouched.
type UpdateProfileRequest struct {
	Name              *string `json:"name" form:"name" binding:"omitempty,min=2,max=100"`
	GraduationYear    *int    `json:"graduation_year" form:"graduation_year" binding:"omitempty,min=1950,max=2100"`
	Department        *string `json:"department" form:"department" binding:"omitempty,max=100"`
	CurrentCompany    *string `json:"current_company" form:"current_company" binding:"omitempty,max=200"`
	Position          *string `json:"position" form:"position" binding:"omitempty,max=200"`
	Skills            *string `json:"skills" form:"skills" binding:"omitempty,max=500"`
	Bio               *string `json:"bio" form:"bio" binding:"omitempty,max=2000"`
	Location          *string `json:"location" form:"location" binding:"omitempty,max=200"`
	ContactPreference *string `json:"contact_preference" form:"contact_preference" binding:"omitempty,oneof=email phone linkedin"`
}

type AlumniSearchRequest struct {
	Query          string `form:"q"`
	GraduationYear int    `form:"graduation_year"`
	Department     string `form:"department"`
	Company        string `form:"company"`
	Limit          int64  `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}
