package syllabus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Activity: Warmup Due", "Warmup"},
		{"assignment: Project 1 Due", "Project 1"},
		{"Quiz: Intro Handed Out", "Intro"},
		{"Warmup Due", "Warmup"},
		{"  Lab: Sorting due  ", "Lab: Sorting"},
		{"Written Assignment: Warmup Due", "Written Assignment: Warmup"},
		{"Residue", "Residue"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkers(tt.in))
		})
	}
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleDue, RoleOf("Quiz 1 Due"))
	assert.Equal(t, RoleDue, RoleOf("project due "))
	assert.Equal(t, RoleHandedOut, RoleOf("Project Handed  Out"))
	assert.Equal(t, RoleNone, RoleOf("Residue"))
	assert.Equal(t, RoleNone, RoleOf("Due Tomorrow"))
}

func TestActivityLabel(t *testing.T) {
	assert.Equal(t, "Activity: Introduction: Tools", ActivityLabel("Introduction: Tools"))
	assert.Equal(t, "Activity: Tools", ActivityLabel("Activity: Tools"))
	assert.Equal(t, "Activity: X", ActivityLabel("Activity: activity : X"))
	assert.Equal(t, "Activity:", ActivityLabel("  "))
}

func TestHasLabel(t *testing.T) {
	assert.True(t, HasLabel("Lab 2: Sorting"))
	assert.False(t, HasLabel("Sorting"))
	assert.False(t, HasLabel("2: Sorting"))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		url, base string
		want      string
		wantOK    bool
	}{
		{"https://x.edu/a", "https://site.edu", "https://x.edu/a", true},
		{"../Ursinus-CS357-Overview", "https://site.edu/course/", "https://site.edu/course/../Ursinus-CS357-Overview", true},
		{"./Activities/a.html", "https://site.edu/course", "https://site.edu/course/./Activities/a.html", true},
		{"./Activities/a.html", "", "", false},
		{"  ", "https://site.edu", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveURL(tt.url, tt.base)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}
