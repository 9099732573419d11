package utils

import (
	"log"
	"time"
)

// GetMarketTimeLocation returns the exchange's local time zone (NEPSE trades in Kathmandu).
func GetMarketTimeLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kathmandu")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

// TimeNowMarket returns the current time in the exchange's local time zone.
func TimeNowMarket() time.Time {
	return time.Now().In(GetMarketTimeLocation())
}

// DateNowMarket returns today's trading date (midnight UTC) in the exchange's time zone.
func DateNowMarket() time.Time {
	now := TimeNowMarket()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
