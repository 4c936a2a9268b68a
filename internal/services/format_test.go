package services

import (
	"testing"

	"github.com/appleboy/strava-relay/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatActivityMessage(t *testing.T) {
	tests := []struct {
		name     string
		activity models.Activity
		fallback string
		want     string
	}{
		{
			name: "run with athlete name",
			activity: models.Activity{
				Distance:           10000,
				MovingTime:         3600,
				TotalElevationGain: 120,
				SportType:          "Run",
				Athlete:            models.Athlete{Firstname: "Kim"},
			},
			want: "Kim just completed a run: 10.00km in 01:00:00 with 120m of elevation gain. " +
				"https://www.strava.com/activities/999",
		},
		{
			name: "falls back to stored display name and rounds elevation",
			activity: models.Activity{
				Distance:           42200,
				MovingTime:         3*3600 + 25*60 + 7,
				TotalElevationGain: 88.5,
				Type:               "Ride",
			},
			fallback: "Kim Lee",
			want: "Kim Lee just completed a ride: 42.20km in 03:25:07 with 89m of elevation gain. " +
				"https://www.strava.com/activities/999",
		},
		{
			name: "generic label without any name",
			activity: models.Activity{
				Distance:   1234,
				MovingTime: 59,
				SportType:  "EBikeRide",
			},
			want: "Someone just completed an ebikeride: 1.23km in 00:00:59 with 0m of elevation gain. " +
				"https://www.strava.com/activities/999",
		},
		{
			name:     "unknown type",
			activity: models.Activity{MovingTime: 25 * 3600},
			fallback: "  ",
			want: "Someone just completed an activity: 0.00km in 25:00:00 with 0m of elevation gain. " +
				"https://www.strava.com/activities/999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatActivityMessage(&tt.activity, tt.fallback, "https://www.strava.com/activities/999")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", formatClock(0))
	assert.Equal(t, "00:00:00", formatClock(-5))
	assert.Equal(t, "01:01:01", formatClock(3661))
	assert.Equal(t, "100:00:00", formatClock(360000))
}
