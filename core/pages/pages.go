// Package pages generates the Markdown stubs of the activity, assignment, lab
// and project pages referenced by a schedule.
package pages

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

var nonWordRegex = regexp.MustCompile(`\W+`)

// Kind is a family of generated pages, keyed by the site folder their links point into.
type Kind struct {
	Folder string // Activities, Assignments, Labs, Project
	Prefix string // file name prefix
	Layout string
}

var (
	Activity   = Kind{Folder: "Activities", Prefix: "activity", Layout: "activity"}
	Assignment = Kind{Folder: "Assignments", Prefix: "assignment", Layout: "assignment"}
	Lab        = Kind{Folder: "Labs", Prefix: "lab", Layout: "assignment"}
	Project    = Kind{Folder: "Project", Prefix: "project", Layout: "assignment"}

	// deliverableKinds are checked in this order against each Due deliverable link.
	deliverableKinds = []Kind{Assignment, Lab, Project}
)

// FileName derives the stub file name from a page link: the `./<Folder>/` part is removed,
// then spaces and every non-word character, and the result is lowercased.
func (k Kind) FileName(link string) string {
	name := strings.ReplaceAll(link, "./"+k.Folder+"/", "")
	name = strings.ToLower(strings.ReplaceAll(name, " ", ""))
	name = nonWordRegex.ReplaceAllString(name, "")
	return k.Prefix + "-" + name + ".md"
}

// Permalink is the site path of the page.
func (k Kind) Permalink(link string) string {
	return strings.ReplaceAll(link, "./"+k.Folder, "/"+k.Folder)
}

// PageTitle is the deliverable title without its label and trailing " Due":
// everything up to the first colon is dropped.
func PageTitle(title string) string {
	if i := strings.Index(title, ":"); i > -1 {
		title = title[i+1:]
	}
	title = strings.TrimSuffix(title, " Due")
	return strings.TrimSpace(title)
}

// Stub is a generated page.
type Stub struct {
	Name    string
	Content []byte
}

// Course identifies the course in page titles.
type Course struct {
	Number string
	Title  string
}

type stubData struct {
	Layout    string
	Permalink string
	Title     string
	CourseNum string
	Points    string
}

var (
	activityTemplate = template.Must(template.New("activity").Parse(`---
layout: {{.Layout}}
permalink: {{.Permalink}}
title: "{{.Title}}"
excerpt: "{{.Title}}"

info:
  goals:
    - xxx

  models:
    - model: |
        xxx
      title: xxx
      questions:
        - xxx

  additional_reading:
    - link: xxx
      title: xxx

  additional_practice:
    - link: xxx
      title: xxx

tags:
  - xxx

---

`))

	deliverableTemplate = template.Must(template.New("deliverable").Parse(`---
layout: {{.Layout}}
permalink: {{.Permalink}}
title: "{{.Title}}"
excerpt: "{{.Title}}"

info:
  coursenum: {{.CourseNum}}
  points: {{.Points}}
  goals:
    - xxx

  rubric:
  - weight: 100
    description: xxx
    preemerging: xxx
    beginning: xxx
    progressing: xxx
    proficient: xxx

  readings:
    - rlink: xxx
      rtitle: xxx

  questions:
    - xxx

tags:
  - xxx

---

`))
)

// Generate builds the stubs for a schedule: one activity page per entry whose link points
// into Activities, and one page per Due deliverable whose link points into Assignments,
// Labs or Project. Only the first syllabus.MaxCSVDeliverables deliverables of an entry are read.
func Generate(entries []syllabus.Entry, course Course) ([]Stub, error) {
	var stubs []Stub
	for _, e := range entries {
		link := e.Link.String()
		if strings.Contains(link, Activity.Folder) {
			stub, err := render(activityTemplate, Activity, link, stubData{
				Title: course.Number + ": " + course.Title + " - " + e.Title,
			})
			if err != nil {
				return nil, err
			}
			stubs = append(stubs, stub)
		}

		for _, kind := range deliverableKinds {
			for i, d := range e.Deliverables {
				if i == syllabus.MaxCSVDeliverables {
					break
				}
				dlink := d.DLink.String()
				if !strings.Contains(dlink, kind.Folder) || !strings.Contains(d.DTitle, "Due") {
					continue
				}
				stub, err := render(deliverableTemplate, kind, dlink, stubData{
					Title:     course.Number + ": " + course.Title + " - " + PageTitle(d.DTitle),
					CourseNum: course.Number,
					Points:    d.Points.String(),
				})
				if err != nil {
					return nil, err
				}
				stubs = append(stubs, stub)
			}
		}
	}
	return stubs, nil
}

func render(tmpl *template.Template, kind Kind, link string, data stubData) (Stub, error) {
	data.Layout = kind.Layout
	data.Permalink = kind.Permalink(link)
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Stub{}, errors.Wrapf(err, "rendering %s page for %s", kind.Prefix, link)
	}
	content := strings.ReplaceAll(buf.String(), "\n", "\r\n")
	return Stub{Name: kind.FileName(link), Content: []byte(content)}, nil
}

// Write saves the stubs into dir, overwriting existing files of the same name.
func Write(dir string, stubs []Stub) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	for _, s := range stubs {
		path := filepath.Join(dir, s.Name)
		if err := ioutil.WriteFile(path, s.Content, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}
