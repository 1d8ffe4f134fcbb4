package bidding

import "strings"

// MaskName returns the privacy-preserving display form of a bidder:
// first name plus last-initial, e.g. "Giulia R.".  When the last name is
// empty only the first name is returned, and a fully empty name becomes
// "Anonymous" so broadcast events never carry an empty bidder field.
func MaskName(firstName, lastName string) string {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return "Anonymous"
	}
	if lastName == "" {
		return firstName
	}
	initial := string([]rune(lastName)[0])
	if firstName == "" {
		return initial + "."
	}
	return firstName + " " + initial + "."
}
