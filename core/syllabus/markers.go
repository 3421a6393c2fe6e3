package syllabus

import (
	"regexp"
	"strings"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

// Role tells whether a deliverable title marks the day it is due or the day it is handed out.
type Role int

const (
	RoleNone Role = iota
	RoleDue
	RoleHandedOut
)

func (r Role) String() string {
	switch r {
	case RoleDue:
		return "Due"
	case RoleHandedOut:
		return "Handed Out"
	default:
		return ""
	}
}

var (
	leadingLabelRegex    = regexp.MustCompile(`(?i)^(activity|assignment|quiz)\s*:\s*`)
	trailingMarkerRegex  = regexp.MustCompile(`(?i)\s+(Due|Handed Out)\s*$`)
	dueRegex             = regexp.MustCompile(`(?i)\bDue\b$`)
	handedOutRegex       = regexp.MustCompile(`(?i)\bHanded\s+Out\b$`)
	anyLabelRegex        = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ]*\s*:\s*`)
	activityPrefixRegex  = regexp.MustCompile(`(?i)^(?:activity\s*:\s*)+`)
	absoluteURLRegex     = regexp.MustCompile(`(?i)^https?://`)
)

// Norm collapses whitespace, trims and lowers s.
func Norm(s string) string {
	return strings.ToLower(core.CollapseSpaces(s))
}

// StripMarkers drops one leading Activity:/Assignment:/Quiz: label and a trailing Due or Handed Out marker.
//	"Activity: Warmup Due"      -> "Warmup"
//	"assignment: Project 1 Due" -> "Project 1"
func StripMarkers(title string) string {
	s := strings.TrimSpace(title)
	s = leadingLabelRegex.ReplaceAllString(s, "")
	s = trailingMarkerRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// BaseKey is the normalized name used to match a deliverable with an LMS assignment.
func BaseKey(title string) string {
	return Norm(StripMarkers(title))
}

// RoleOf classifies a deliverable title by its trailing marker.
func RoleOf(title string) Role {
	s := strings.TrimSpace(title)
	switch {
	case dueRegex.MatchString(s):
		return RoleDue
	case handedOutRegex.MatchString(s):
		return RoleHandedOut
	default:
		return RoleNone
	}
}

// HasLabel reports whether s starts with a "<label>:" prefix.
func HasLabel(s string) bool {
	return anyLabelRegex.MatchString(strings.TrimSpace(s))
}

// ActivityLabel gives title exactly one leading "Activity:" label.
//	"Introduction: Tools"   -> "Activity: Introduction: Tools"
//	"Activity: Activity: X" -> "Activity: X"
func ActivityLabel(title string) string {
	s := strings.TrimSpace(title)
	s = strings.TrimSpace(activityPrefixRegex.ReplaceAllString(s, ""))
	if s == "" {
		return "Activity:"
	}
	return "Activity: " + s
}

// ResolveURL keeps absolute URLs and appends anything else verbatim to base with a single '/'.
// "../" segments are kept. ok is false when url is empty, or relative with no base.
func ResolveURL(url, base string) (string, bool) {
	s := strings.TrimSpace(url)
	if s == "" {
		return "", false
	}
	if absoluteURLRegex.MatchString(s) {
		return s, true
	}
	if base == "" {
		return "", false
	}
	return strings.TrimRight(base, "/") + "/" + s, true
}
