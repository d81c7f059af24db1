package service

import (
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

// Snapshot is the page-level state at one point in time.
type Snapshot struct {
	Current     *model.CurrentConditions `json:"current,omitempty"`
	Hourly      []model.HourlyPoint      `json:"hourly"`
	Daily       []model.DailyPoint       `json:"daily"`
	AirQuality  *model.AirQuality        `json:"air_quality,omitempty"`
	Alerts      []model.Alert            `json:"alerts"`
	Monsoon     *model.MonsoonStatus     `json:"monsoon,omitempty"`
	LastUpdated *time.Time               `json:"last_updated,omitempty"`
	Loading     bool                     `json:"loading"`
	// Failures maps each slice that failed in the last cycle to its error.
	Failures map[model.Slice]string `json:"failures,omitempty"`
}

// Stale reports whether slice failed to refresh in the last cycle.
func (s Snapshot) Stale(slice model.Slice) bool {
	_, ok := s.Failures[slice]
	return ok
}

// clone copies the mutable parts. Records are replaced wholesale on refresh
// and never mutated, so the slices themselves can be shared.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Failures != nil {
		out.Failures = make(map[model.Slice]string, len(s.Failures))
		for k, v := range s.Failures {
			out.Failures[k] = v
		}
	}
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		out.LastUpdated = &t
	}
	return out
}
