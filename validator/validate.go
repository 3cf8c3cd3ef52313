// Package validator enforces the hard preconditions of an allocation run:
// a non-empty contact set, a non-empty agent set, and center consistency
// (within each set, either every record has a center or none does).
// Results come back as (ok, message) so callers can branch without error
// plumbing; recoverable data-quality issues are not this package's concern.
package validator

import (
	"fmt"
	"strings"

	"contact-allocator/models"
)

// Validate runs all fatal checks in order and returns the first failure.
func Validate(contacts []models.Contact, agents []models.Agent) (bool, string) {
	if len(contacts) == 0 {
		return false, "no contacts found in sheet"
	}
	if len(agents) == 0 {
		return false, "no agents found in sheet"
	}

	if ok, msg := checkContactCenters(contacts); !ok {
		return false, msg
	}
	if ok, msg := checkAgentCenters(agents); !ok {
		return false, msg
	}
	return true, ""
}

func checkContactCenters(contacts []models.Contact) (bool, string) {
	var withCenter, withoutCenter []string
	for _, c := range contacts {
		if c.Center != "" {
			withCenter = append(withCenter, c.Name)
		} else {
			withoutCenter = append(withoutCenter, c.Name)
		}
	}
	if len(withCenter) > 0 && len(withoutCenter) > 0 {
		return false, fmt.Sprintf(
			"center validation failed for contacts: %d have center, %d missing center. "+
				"Either ALL contacts must have center or NONE. "+
				"With center e.g. [%s]; without e.g. [%s]",
			len(withCenter), len(withoutCenter),
			examples(withCenter), examples(withoutCenter))
	}
	return true, ""
}

func checkAgentCenters(agents []models.Agent) (bool, string) {
	var withCenter, withoutCenter []string
	for _, a := range agents {
		if a.Center != "" {
			withCenter = append(withCenter, a.Name)
		} else {
			withoutCenter = append(withoutCenter, a.Name)
		}
	}
	if len(withCenter) > 0 && len(withoutCenter) > 0 {
		return false, fmt.Sprintf(
			"center validation failed for agents: %d have center, %d missing center. "+
				"Either ALL agents must have center or NONE. "+
				"With center e.g. [%s]; without e.g. [%s]",
			len(withCenter), len(withoutCenter),
			examples(withCenter), examples(withoutCenter))
	}
	return true, ""
}

// examples returns up to three names for the failure message.
func examples(names []string) string {
	if len(names) > 3 {
		names = names[:3]
	}
	return strings.Join(names, ", ")
}
