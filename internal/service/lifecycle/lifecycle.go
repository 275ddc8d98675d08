// Package lifecycle derives crop growth progress from a farm's sowing date.
package lifecycle

import (
	"time"

	"khetibook/internal/domain/models"
)

// Stage is a display label for elapsed growth time.
type Stage string

const (
	StageSeedling       Stage = "Seedling"
	StageVegetative     Stage = "Vegetative"
	StageFlowering      Stage = "Flowering"
	StageMaturity       Stage = "Maturity"
	StageReadyToHarvest Stage = "Ready to Harvest"
)

// CycleDays is the assumed full crop cycle. The thresholds below are fixed
// constants shared by every farm and crop; a known simplification.
const CycleDays = 120

var stageThresholds = []struct {
	days  int
	stage Stage
}{
	{30, StageVegetative},
	{60, StageFlowering},
	{90, StageMaturity},
	{110, StageReadyToHarvest},
}

// Progress describes how far a crop has advanced through its cycle.
// DaysPassed is negative when the sowing date lies in the future; the
// percentage is clamped to [0, 100] so a future sowing renders as an
// unstarted Seedling bar rather than a negative width.
type Progress struct {
	DaysPassed int     `json:"daysPassed"`
	Percentage float64 `json:"percentage"`
	Stage      Stage   `json:"stage"`
}

// Calculator computes lifecycle progress relative to the current day.
type Calculator struct {
	now func() time.Time
}

// NewCalculator constructs a calculator using the wall clock.
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// Progress maps a sowing date to elapsed days, a capped completion percentage
// and a named stage. A nil sowing date yields ok=false: "no progress
// available" is a distinct state from 0%, rendered differently by consumers.
func (c *Calculator) Progress(sowing *models.Date) (Progress, bool) {
	if sowing == nil || sowing.IsZero() {
		return Progress{}, false
	}

	daysPassed := models.DateOf(c.now()).DaysSince(*sowing)

	percentage := float64(daysPassed) / CycleDays * 100
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	stage := StageSeedling
	for _, threshold := range stageThresholds {
		if daysPassed > threshold.days {
			stage = threshold.stage
		}
	}

	return Progress{DaysPassed: daysPassed, Percentage: percentage, Stage: stage}, true
}
