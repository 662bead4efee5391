package models

type Settings struct {
	DarkMode      bool `json:"darkMode" db:"dark_mode"`
	Notifications bool `json:"notifications" db:"notifications"`
	PublicProfile bool `json:"publicProfile" db:"public_profile"`
	TwoFactor     bool `json:"twoFactor" db:"two_factor"`
}

// DefaultSettings is returned for users who never saved settings.
func DefaultSettings() Settings {
	return Settings{DarkMode: true, Notifications: true}
}
