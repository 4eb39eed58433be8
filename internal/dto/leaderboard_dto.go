package dto

type LeaderboardQuery struct {
	Category   string `form:"category,default=overall" binding:"omitempty,oneof=overall monthly mentorship events donations"`
	Department string `form:"department"`
	Limit      int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}
