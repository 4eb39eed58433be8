package dto

type IDParam struct {
	ID string `uri:"id" binding:"required"`
}

type PaginationQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

func (p PaginationQuery) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PerPage()
}

func (p PaginationQuery) PerPage() int {
	if p.Limit < 1 {
		return 20
	}
	return p.Limit
}
