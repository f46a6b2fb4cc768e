package reservations

import (
	"fmt"
	"regexp"
	"strings"
)

// Reservation is the intake payload. It is never persisted; it exists for
// one submit→send round trip.
type Reservation struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ResidenceID string `json:"residenceId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Message     string `json:"message"`
}

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// TimeSlots is the fixed half-hour grid offered by the picker.
var TimeSlots = buildTimeSlots()

func buildTimeSlots() []string {
	var slots []string
	for h := 9; h <= 18; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
		if h < 18 {
			slots = append(slots, fmt.Sprintf("%02d:30", h))
		}
	}
	return slots
}

func validTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ValidEmail reports whether s matches the intake email pattern.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks a reservation payload. Every intake path shares this;
// there is no second copy of the rules.
func (res Reservation) Validate() error {
	if strings.TrimSpace(res.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !ValidEmail(res.Email) {
		return fmt.Errorf("invalid email address")
	}
	if res.ResidenceID == "" {
		return fmt.Errorf("residence is required")
	}
	if res.Date == "" {
		return fmt.Errorf("date is required")
	}
	if !validTimeSlot(res.Time) {
		return fmt.Errorf("time must be one of the offered slots")
	}
	return nil
}
