// Package delay parses the free-form delay text reported by the transit service.
package delay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stoplens.dev/internal/models"
)

var delayPattern = regexp.MustCompile(`(?i)^(\d{1,3}):([0-5]\d)\s+(ahead|behind)$`)

// Parse reads text of the form "<H:MM> ahead" or "<H:MM> behind".
//
// A nil or blank input has no delay and returns false. Text that does not
// match the grammar is kept verbatim with Parsed unset so it can still be
// shown. A zero duration is on time whatever the direction word says.
func Parse(raw *string) (models.Delay, bool) {
	if raw == nil {
		return models.Delay{}, false
	}
	text := strings.TrimSpace(*raw)
	if text == "" {
		return models.Delay{}, false
	}

	m := delayPattern.FindStringSubmatch(text)
	if m == nil {
		return models.Delay{Raw: text}, true
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return models.Delay{Raw: text}, true
	}
	d := models.Delay{
		Magnitude: fmt.Sprintf("%d:%s", hours, m[2]),
		Raw:       text,
		Parsed:    true,
	}
	if hours == 0 && m[2] == "00" {
		return d, true
	}
	if strings.EqualFold(m[3], "ahead") {
		d.Sign = 1
	} else {
		d.Sign = -1
	}
	return d, true
}

// ParseString is Parse for a plain string.
func ParseString(raw string) (models.Delay, bool) {
	return Parse(&raw)
}
