package summary

import (
	"fmt"
	"strings"
	"time"

	"leavetrack/internal/holiday"
)

// Greeting is the personalized dashboard header.
type Greeting struct {
	Greeting       string `json:"greeting"`
	HolidayMessage string `json:"holiday_message"`
}

// GreetingLookaheadDays bounds the holiday window the greeting considers.
const GreetingLookaheadDays = 90

// BuildGreeting composes the dashboard greeting from the user's display name
// and the next (at most two) upcoming non-critical holidays within 90 days,
// ordered nearest first. The critical-day clause on the single-holiday branch
// is unreachable through the non-critical filter but kept as documented
// behavior of the greeting.
func BuildGreeting(name string, upcoming []holiday.Holiday, today time.Time) Greeting {
	first := name
	if fields := strings.Fields(name); len(fields) > 0 {
		first = fields[0]
	}
	greeting := fmt.Sprintf("Welcome back, %s!", first)

	var holidayMessage string
	switch {
	case len(upcoming) == 0:
		holidayMessage = "No holidays in the next 90 days. Keep up the great work!"

	case len(upcoming) == 1:
		h := upcoming[0]
		daysUntil := daysBetween(today, h.Date)
		switch daysUntil {
		case 0:
			holidayMessage = fmt.Sprintf("Just a heads up, today is %s!", h.Name)
		case 1:
			holidayMessage = fmt.Sprintf("Don't forget, %s is tomorrow!", h.Name)
		default:
			holidayMessage = fmt.Sprintf("Looking ahead, %s is coming up in %d days on %s. ",
				h.Name, daysUntil, h.Date.Format("January 02"))
			if h.IsCritical {
				holidayMessage += "This is marked as a critical day, so plan accordingly."
			}
		}

	default:
		h1, h2 := upcoming[0], upcoming[1]
		daysUntil1 := daysBetween(today, h1.Date)

		var firstPart string
		switch daysUntil1 {
		case 0:
			firstPart = fmt.Sprintf("The next holiday is %s, which is today!", h1.Name)
		case 1:
			firstPart = fmt.Sprintf("The next holiday is %s, which is tomorrow.", h1.Name)
		default:
			firstPart = fmt.Sprintf("The next holiday is %s in %d days.", h1.Name, daysUntil1)
		}

		secondPart := fmt.Sprintf("After that, we have %s on %s.", h2.Name, h2.Date.Format("January 02"))
		holidayMessage = firstPart + " " + secondPart
	}

	return Greeting{
		Greeting:       greeting,
		HolidayMessage: holidayMessage,
	}
}

// daysBetween counts whole calendar days from a to b, ignoring clock time.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
