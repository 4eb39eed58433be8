package service

import (
	"testing"

	"github.com/BLUETOID/RIMAP/internal/model"
)

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   model.UserLevel
	}{
		{0, model.LevelBronze},
		{199, model.LevelBronze},
		{200, model.LevelSilver},
		{499, model.LevelSilver},
		{500, model.LevelGold},
		{999, model.LevelGold},
		{1000, model.LevelPlatinum},
		{1999, model.LevelPlatinum},
		{2000, model.LevelDiamond},
		{1000000, model.LevelDiamond},
	}

	for _, tc := range cases {
		if got := LevelForPoints(tc.points); got != tc.want {
			t.Errorf("LevelForPoints(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}

func TestGetLevelStatus(t *testing.T) {
	cases := []struct {
		points       int
		level        model.UserLevel
		nextLevel    model.UserLevel
		pointsToNext int
		progress     float64
	}{
		{0, model.LevelBronze, model.LevelSilver, 200, 0},
		{50, model.LevelBronze, model.LevelSilver, 150, 25},
		{200, model.LevelSilver, model.LevelGold, 300, 40},
		{450, model.LevelSilver, model.LevelGold, 50, 90},
		{500, model.LevelGold, model.LevelPlatinum, 500, 50},
		{1000, model.LevelPlatinum, model.LevelDiamond, 1000, 50},
		{1500, model.LevelPlatinum, model.LevelDiamond, 500, 75},
		{2000, model.LevelDiamond, "", 0, 100},
		{9999, model.LevelDiamond, "", 0, 100},
	}

	for _, tc := range cases {
		status := GetLevelStatus(tc.points)
		if status.Level != tc.level {
			t.Errorf("%d points: level = %s, want %s", tc.points, status.Level, tc.level)
		}
		if status.NextLevel != tc.nextLevel {
			t.Errorf("%d points: next level = %q, want %q", tc.points, status.NextLevel, tc.nextLevel)
		}
		if status.PointsToNext != tc.pointsToNext {
			t.Errorf("%d points: points to next = %d, want %d", tc.points, status.PointsToNext, tc.pointsToNext)
		}
		if status.Progress != tc.progress {
			t.Errorf("%d points: progress = %.2f, want %.2f", tc.points, status.Progress, tc.progress)
		}
		if status.CurrentPoints != tc.points {
			t.Errorf("%d points: current points = %d", tc.points, status.CurrentPoints)
		}
	}
}

func TestPointsToNextLevel(t *testing.T) {
	if got := PointsToNextLevel(0); got != 200 {
		t.Errorf("PointsToNextLevel(0) = %d, want 200", got)
	}
	if got := PointsToNextLevel(1999); got != 1 {
		t.Errorf("PointsToNextLevel(1999) = %d, want 1", got)
	}
	if got := PointsToNextLevel(2000); got != 0 {
		t.Errorf("PointsToNextLevel(2000) = %d, want 0", got)
	}
}
