package models

import "strings"

// TokenSet is the token triple issued by the platform's token endpoint.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // unix seconds
}

// Authorization is the outcome of a successful authorization-code exchange.
type Authorization struct {
	AthleteID   int64
	DisplayName string
	Tokens      TokenSet
}

// Athlete is the athlete summary embedded in activity and token payloads.
type Athlete struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// FullName joins first and last name, skipping empty parts.
func (a Athlete) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.Firstname) + " " + strings.TrimSpace(a.Lastname))
}

// Activity is the subset of the detailed activity representation the relay uses.
type Activity struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Distance           float64 `json:"distance"`    // meters
	MovingTime         int64   `json:"moving_time"` // seconds
	ElapsedTime        int64   `json:"elapsed_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"` // meters
	Type               string  `json:"type"`
	SportType          string  `json:"sport_type"`
	Athlete            Athlete `json:"athlete"`
}

// Kind returns the most specific activity type available.
func (a *Activity) Kind() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}

// Subscription is a push subscription registered with the platform.
type Subscription struct {
	ID            int64  `json:"id"`
	ApplicationID int64  `json:"application_id"`
	CallbackURL   string `json:"callback_url"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}
