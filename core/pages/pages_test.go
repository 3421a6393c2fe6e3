package pages

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

const scheduleCSV = `Week,Day,Title,Link,dtitle1,dlink1,dpoints1,drubric1,dtype1,dtitle2,dlink2,dpoints2,drubric2,dtype2
0,0,Shell Basics,./Activities/Shell Basics.html,Assignment: Warmup Handed Out,./Assignments/warmup.html,,,,,,,,
0,2,Version Control,https://git-scm.com,Assignment: Warmup Due,./Assignments/warmup.html,10,,,Lab: Git Lab Due,./Labs/git-lab.html,20,,
1,0,Projects,,Project: Proposal Due,./Project/proposal.html,50,,,Quiz 1 Due,,5,,
`

func TestFileName(t *testing.T) {
	tests := []struct {
		kind Kind
		link string
		want string
	}{
		{Activity, "./Activities/Shell Basics.html", "activity-shellbasicshtml.md"},
		{Assignment, "./Assignments/warmup.html", "assignment-warmuphtml.md"},
		{Lab, "./Labs/git-lab.html", "lab-gitlabhtml.md"},
		{Project, "./Project/proposal", "project-proposal.md"},
		{Lab, "https://example.edu/Labs/x.html", "lab-httpsexampleedulabsxhtml.md"},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.FileName(tt.link))
		})
	}
}

func TestPageTitle(t *testing.T) {
	tests := map[string]string{
		"Assignment: Warmup Due": "Warmup",
		"Lab: Git: Advanced Due": "Git: Advanced",
		"Final Project Due":      "Final Project",
		"Reading Notes":          "Reading Notes",
	}
	for in, want := range tests {
		assert.Equal(t, want, PageTitle(in), in)
	}
}

func TestGenerate(t *testing.T) {
	entries, err := syllabus.ReadScheduleCSV(strings.NewReader(scheduleCSV))
	require.NoError(t, err)

	stubs, err := Generate(entries, Course{Number: "CS173", Title: "Intro to CS"})
	require.NoError(t, err)

	var names []string
	for _, s := range stubs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"activity-shellbasicshtml.md",
		"assignment-warmuphtml.md",
		"lab-gitlabhtml.md",
		"project-proposalhtml.md",
	}, names)

	activity := string(stubs[0].Content)
	assert.True(t, strings.HasPrefix(activity, "---\r\nlayout: activity\r\npermalink: /Activities/Shell Basics.html\r\n"))
	assert.Contains(t, activity, "title: \"CS173: Intro to CS - Shell Basics\"\r\n")
	assert.True(t, strings.HasSuffix(activity, "\r\n---\r\n\r\n"))
	assert.NotContains(t, strings.ReplaceAll(activity, "\r\n", ""), "\n")

	lab := string(stubs[2].Content)
	assert.Contains(t, lab, "layout: assignment\r\npermalink: /Labs/git-lab.html\r\n")
	assert.Contains(t, lab, "excerpt: \"CS173: Intro to CS - Git Lab\"\r\n")
	assert.Contains(t, lab, "  coursenum: CS173\r\n  points: 20\r\n")
	assert.Contains(t, lab, "  rubric:\r\n  - weight: 100\r\n")
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	stubs := []Stub{{Name: "lab-one.md", Content: []byte("---\r\n")}}
	require.NoError(t, Write(dir, stubs))

	data, err := ioutil.ReadFile(filepath.Join(dir, "lab-one.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\r\n", string(data))
}
