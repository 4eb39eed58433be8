package service

import (
	"math"

	"github.com/BLUETOID/RIMAP/internal/model"
)

// LevelStatus is the derived level view for a point total.
type LevelStatus struct {
	Level            model.UserLevel `json:"level"`
	NextLevel        model.UserLevel `json:"next_level"` // empty at the top tier
	CurrentPoints    int             `json:"current_points"`
	PointsToNext     int             `json:"points_to_next"` // 0 at the top tier
	Progress         float64         `json:"progress"`       // percentage toward the next tier (0-100)
}

// Level thresholds. A level holds from its threshold up to (not including)
// the next one; Diamond has no upper bound.
const (
	PointsDiamond  = 2000
	PointsPlatinum = 1000
	PointsGold     = 500
	PointsSilver   = 200
	PointsBronze   = 0
)

// LevelForPoints returns the highest level whose threshold is met.
func LevelForPoints(points int) model.UserLevel {
	switch {
	case points >= PointsDiamond:
		return model.LevelDiamond
	case points >= PointsPlatinum:
		return model.LevelPlatinum
	case points >= PointsGold:
		return model.LevelGold
	case points >= PointsSilver:
		return model.LevelSilver
	default:
		return model.LevelBronze
	}
}

// GetLevelStatus computes the full level view for a point total.
func GetLevelStatus(points int) LevelStatus {
	var status LevelStatus
	status.CurrentPoints = points

	switch {
	case points >= PointsDiamond:
		status.Level = model.LevelDiamond
		status.NextLevel = ""
		status.PointsToNext = 0
		status.Progress = 100

	case points >= PointsPlatinum:
		status.Level = model.LevelPlatinum
		status.NextLevel = model.LevelDiamond
		status.PointsToNext = PointsDiamond - points
		status.Progress = (float64(points) / float64(PointsDiamond)) * 100

	case points >= PointsGold:
		status.Level = model.LevelGold
		status.NextLevel = model.LevelPlatinum
		status.PointsToNext = PointsPlatinum - points
		status.Progress = (float64(points) / float64(PointsPlatinum)) * 100

	case points >= PointsSilver:
		status.Level = model.LevelSilver
		status.NextLevel = model.LevelGold
		status.PointsToNext = PointsGold - points
		status.Progress = (float64(points) / float64(PointsGold)) * 100

	default:
		status.Level = model.LevelBronze
		status.NextLevel = model.LevelSilver
		status.PointsToNext = PointsSilver - points
		if points == 0 {
			status.Progress = 0
		} else {
			status.Progress = (float64(points) / float64(PointsSilver)) * 100
		}
	}

	status.Progress = math.Round(status.Progress*100) / 100

	return status
}

// PointsToNextLevel returns how many points remain until the next tier, or 0
// if the total already sits at the top tier.
func PointsToNextLevel(points int) int {
	return GetLevelStatus(points).PointsToNext
}
