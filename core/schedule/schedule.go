// Package schedule is the editable view of a syllabus schedule: one Day per
// class meeting, each holding readings, deliverables and lectures.
package schedule

import (
	"strings"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

// Category is one of the three item lists of a day.
type Category int

const (
	Readings Category = iota
	Deliverables
	Lectures
)

// Categories lists the categories in display order.
var Categories = [...]Category{Readings, Deliverables, Lectures}

func (c Category) String() string {
	switch c {
	case Readings:
		return "readings"
	case Deliverables:
		return "deliverables"
	case Lectures:
		return "lectures"
	}
	return "unknown"
}

// Label is the heading shown for the category.
func (c Category) Label() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

type (
	// Item is a reading, a deliverable or a lecture. Extra holds every other key of the
	// original YAML mapping (points, rubricpath, ...) and is written back untouched.
	Item struct {
		Title string                 `json:"title"`
		Link  string                 `json:"link,omitempty"`
		Extra map[string]interface{} `json:"-"`
	}

	// Day is one schedule entry. The entry keeps the fields the editor does not touch
	// (date passthrough keys, activities) so that saving does not lose them.
	Day struct {
		Week         syllabus.Flex
		Slot         syllabus.Flex
		Readings     []Item
		Deliverables []Item
		Lectures     []Item

		entry syllabus.Entry
	}
)

// Items returns the list of the given category.
func (d *Day) Items(c Category) []Item {
	switch c {
	case Readings:
		return d.Readings
	case Deliverables:
		return d.Deliverables
	default:
		return d.Lectures
	}
}

func (d *Day) setItems(c Category, items []Item) {
	switch c {
	case Readings:
		d.Readings = items
	case Deliverables:
		d.Deliverables = items
	default:
		d.Lectures = items
	}
}

// FromEntries turns schedule entries into days. The entry title and link become the day's lecture.
func FromEntries(entries []syllabus.Entry) []Day {
	days := make([]Day, 0, len(entries))
	for _, e := range entries {
		d := Day{Week: e.Week, Slot: e.Date, entry: e}
		if title := strings.TrimSpace(e.Title); title != "" || e.Link != "" {
			d.Lectures = []Item{{Title: title, Link: e.Link.String()}}
		}
		for _, r := range e.Readings {
			d.Readings = append(d.Readings, Item{Title: r.RTitle, Link: r.RLink.String(), Extra: copyMap(r.Extra)})
		}
		for _, spec := range e.Deliverables {
			d.Deliverables = append(d.Deliverables, fromDeliverable(spec))
		}
		days = append(days, d)
	}
	return days
}

// ToEntries writes days back as schedule entries. Only the first lecture is kept as the entry
// title and link; empty reading and deliverable links are written as `false`.
func ToEntries(days []Day) []syllabus.Entry {
	entries := make([]syllabus.Entry, 0, len(days))
	for _, d := range days {
		e := d.entry
		e.Week, e.Date = d.Week, d.Slot
		e.Title, e.Link = "", ""
		if len(d.Lectures) > 0 {
			e.Title = d.Lectures[0].Title
			e.Link = syllabus.Link(d.Lectures[0].Link)
		}

		e.Readings = nil
		for _, it := range d.Readings {
			e.Readings = append(e.Readings, syllabus.Reading{
				RTitle: it.Title,
				RLink:  syllabus.Link(it.Link),
				Extra:  copyMap(it.Extra),
			})
		}
		e.Deliverables = nil
		for _, it := range d.Deliverables {
			e.Deliverables = append(e.Deliverables, toDeliverable(it))
		}
		entries = append(entries, e)
	}
	return entries
}

func fromDeliverable(spec syllabus.DeliverableSpec) Item {
	extra := copyMap(spec.Extra)
	if !spec.Points.IsZero() {
		extra = put(extra, "points", spec.Points)
	}
	if spec.SubmissionTypes != "" {
		extra = put(extra, "submission_types", spec.SubmissionTypes)
	}
	if spec.RubricPath != "" {
		extra = put(extra, "rubricpath", spec.RubricPath)
	}
	return Item{Title: spec.DTitle, Link: spec.DLink.String(), Extra: extra}
}

func toDeliverable(it Item) syllabus.DeliverableSpec {
	spec := syllabus.DeliverableSpec{DTitle: it.Title, DLink: syllabus.Link(it.Link)}
	extra := copyMap(it.Extra)
	if p, ok := extra["points"].(syllabus.Flex); ok {
		spec.Points = p
		delete(extra, "points")
	}
	if s, ok := extra["submission_types"].(string); ok {
		spec.SubmissionTypes = s
		delete(extra, "submission_types")
	}
	if s, ok := extra["rubricpath"].(string); ok {
		spec.RubricPath = s
		delete(extra, "rubricpath")
	}
	if len(extra) > 0 {
		spec.Extra = extra
	}
	return spec
}

func put(m map[string]interface{}, key string, v interface{}) map[string]interface{} {
	if m == nil {
		m = map[string]interface{}{}
	}
	m[key] = v
	return m
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
