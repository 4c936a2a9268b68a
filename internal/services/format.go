package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/appleboy/strava-relay/internal/models"
)

// fallbackAthleteName is used when neither the activity nor the stored
// credential carries a name.
const fallbackAthleteName = "Someone"

// FormatActivityMessage renders the chat message for a finished activity.
// The athlete name comes from the activity, then fallbackName, then a
// generic label.
func FormatActivityMessage(activity *models.Activity, fallbackName, activityURL string) string {
	name := activity.Athlete.FullName()
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}
	if name == "" {
		name = fallbackAthleteName
	}

	kind := strings.ToLower(activity.Kind())
	if kind == "" {
		kind = "activity"
	}

	return fmt.Sprintf(
		"%s just completed %s %s: %.2fkm in %s with %dm of elevation gain. %s",
		name,
		article(kind),
		kind,
		activity.Distance/1000,
		formatClock(activity.MovingTime),
		int64(math.Round(activity.TotalElevationGain)),
		activityURL,
	)
}

// formatClock renders seconds as HH:MM:SS; hours are not wrapped at 24.
func formatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func article(word string) string {
	switch word[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	default:
		return "a"
	}
}
