package fixture

import "strings"

// ScoreWeight ranks score descriptions so the most final one wins when a
// fixture carries several.
func ScoreWeight(description string) int {
	value := strings.ToLower(strings.TrimSpace(description))
	switch {
	case value == "current":
		return 6
	case strings.Contains(value, "normal_time"), strings.Contains(value, "90"):
		return 5
	case strings.Contains(value, "extra_time"):
		return 4
	case strings.Contains(value, "penalt"):
		return 3
	case value == "1st_half", value == "2nd_half":
		return 2
	default:
		return 1
	}
}
