package calendar

import (
	"os"
)

type Config struct {
	Disabled        bool
	CredentialsFile string
	CalendarID      string
	TimeZone        string
}

func LoadConfig() *Config {
	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	if calendarID == "" {
		calendarID = "primary"
	}

	timeZone := os.Getenv("GOOGLE_CALENDAR_TIMEZONE")
	if timeZone == "" {
		timeZone = "UTC"
	}

	return &Config{
		Disabled:        os.Getenv("CALENDAR_MIRROR_DISABLED") == "true",
		CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		CalendarID:      calendarID,
		TimeZone:        timeZone,
	}
}
