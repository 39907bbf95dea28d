package models

import "time"

// SheetsConfig holds the Google Sheets integration credentials and target
// sheet. One logical config is active at a time.
type SheetsConfig struct {
	ID            int64      `json:"id"`
	ClientID      string     `json:"clientId"`
	ClientSecret  string     `json:"clientSecret"`
	AccessToken   string     `json:"accessToken"`
	RefreshToken  string     `json:"refreshToken"`
	TokenExpiry   time.Time  `json:"tokenExpiry"`
	SpreadsheetID string     `json:"spreadsheetId"`
	SheetName     string     `json:"sheetName"`
	LastSync      *time.Time `json:"lastSync"`
}

// CloudDBConfig is the saved connection info for the remote backend, persisted
// client-side so the app can reconnect without re-entering credentials.
type CloudDBConfig struct {
	ID        int64     `json:"id"`
	Provider  string    `json:"provider"`
	URL       string    `json:"url"`
	AuthToken string    `json:"authToken"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Valid reports whether the config carries a usable URL and token pair.
func (c *CloudDBConfig) Valid() bool {
	return c != nil && c.URL != "" && c.AuthToken != ""
}
