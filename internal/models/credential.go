package models

import (
	"time"
)

// Credential is the persisted OAuth state for one Strava athlete.
// The athlete id is the only key; re-authorization overwrites the row.
type Credential struct {
	AthleteID    int64     `gorm:"primaryKey;autoIncrement:false" toml:"athlete_id"`
	DisplayName  string    `gorm:"not null;default:''" toml:"display_name"`
	AccessToken  string    `gorm:"type:text;not null" toml:"access_token"`
	RefreshToken string    `gorm:"type:text;not null" toml:"refresh_token"`
	ExpiresAt    int64     `gorm:"not null" toml:"expires_at"` // unix seconds
	CreatedAt    time.Time `toml:"created_at"`
	UpdatedAt    time.Time `toml:"updated_at"`
}

// TableName overrides the table name used by Credential to `credentials`
func (Credential) TableName() string {
	return "credentials"
}

// ExpiresIn returns the remaining lifetime of the access token at now.
func (c *Credential) ExpiresIn(now time.Time) time.Duration {
	return time.Duration(c.ExpiresAt-now.Unix()) * time.Second
}

// WithTokens returns a copy of c carrying the token triple from ts.
// The three fields are always replaced together.
func (c Credential) WithTokens(ts TokenSet) Credential {
	c.AccessToken = ts.AccessToken
	c.RefreshToken = ts.RefreshToken
	c.ExpiresAt = ts.ExpiresAt
	return c
}
