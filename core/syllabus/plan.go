package syllabus

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

var (
	ErrNoMeetingDays = errors.New("no active meeting days found in info.class_meets_days")

	validate, translator = core.NewValidator()
)

type (
	// Item is an activity or reading reference; URL may be empty.
	Item struct {
		Title string
		URL   string
	}

	Meeting struct {
		Week       int
		Ordinal    int
		Date       time.Time
		Title      string
		Link       string
		Activities []Item
		Readings   []Item
	}

	Deliverable struct {
		Title           string
		Week            int
		Ordinal         int
		Date            time.Time
		Role            Role
		Points          float64
		HasPoints       bool
		Link            string
		SubmissionTypes string
		RubricPath      string
	}

	// Plan is the resolved schedule of one course offering.
	Plan struct {
		Start     time.Time
		End       time.Time
		Meetings  []Meeting
		Due       []Deliverable
		HandedOut []Deliverable
		// All holds every titled deliverable in schedule order, whatever its role.
		All []Deliverable
	}
)

// Decode reads the info and schedule keys of doc and validates them.
func Decode(doc *Document) (*Syllabus, error) {
	var s Syllabus
	if err := doc.Decode("info", &s.Info); err != nil {
		return nil, err
	}
	if err := doc.Decode("schedule", &s.Schedule); err != nil {
		return nil, err
	}
	if err := validate.Struct(s); err != nil {
		return nil, core.TranslateErrors(err, translator)
	}
	return &s, nil
}

// LoadPlan loads the syllabus at path and resolves its plan.
func LoadPlan(path string) (*Plan, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return ExtractPlan(s)
}

// ExtractPlan resolves every schedule entry to its calendar date. Entries whose week or date
// is not an integer, or whose ordinal exceeds the number of meeting days, are skipped.
func ExtractPlan(s *Syllabus) (*Plan, error) {
	start, err := ParseDate(s.Info.CourseStartDate)
	if err != nil {
		return nil, err
	}
	active := ActiveDays(s.Info.ClassMeetsDays)
	if len(active) == 0 {
		return nil, ErrNoMeetingDays
	}
	plan := &Plan{Start: start}
	if s.Info.CourseEndDate != "" {
		if plan.End, err = ParseDate(s.Info.CourseEndDate); err != nil {
			return nil, err
		}
	}

	for _, e := range s.Schedule {
		week, ok := e.Week.Int()
		if !ok {
			continue
		}
		ordinal, ok := e.Date.Int()
		if !ok {
			continue
		}
		when, ok := CourseDate(start, active, week, ordinal)
		if !ok {
			continue
		}

		mtg := Meeting{
			Week:    week,
			Ordinal: ordinal,
			Date:    when,
			Title:   strings.TrimSpace(e.Title),
			Link:    strings.TrimSpace(e.Link.String()),
		}
		for _, act := range e.ActivityList() {
			title := act.Title
			if !HasLabel(title) {
				title = "Activity: " + title
			}
			mtg.Activities = append(mtg.Activities, Item{Title: title, URL: act.URL})
		}
		for _, r := range e.Readings {
			if r.RTitle == "" {
				continue
			}
			mtg.Readings = append(mtg.Readings, Item{Title: r.RTitle, URL: r.RLink.String()})
		}
		plan.Meetings = append(plan.Meetings, mtg)

		for _, ds := range e.Deliverables {
			if ds.DTitle == "" {
				continue
			}
			d := Deliverable{
				Title:           ds.DTitle,
				Week:            week,
				Ordinal:         ordinal,
				Date:            when,
				Role:            RoleOf(ds.DTitle),
				Link:            ds.DLink.String(),
				SubmissionTypes: ds.SubmissionTypes,
				RubricPath:      strings.TrimSpace(ds.RubricPath),
			}
			d.Points, d.HasPoints = ds.Points.Float()
			plan.All = append(plan.All, d)
			switch d.Role {
			case RoleDue:
				plan.Due = append(plan.Due, d)
			case RoleHandedOut:
				plan.HandedOut = append(plan.HandedOut, d)
			}
		}
	}

	sort.SliceStable(plan.Meetings, func(i, j int) bool {
		a, b := plan.Meetings[i], plan.Meetings[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Ordinal < b.Ordinal
	})
	sortDeliverables(plan.Due)
	sortDeliverables(plan.HandedOut)
	return plan, nil
}

func sortDeliverables(ds []Deliverable) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return Norm(a.Title) < Norm(b.Title)
	})
}

// MeetingDate returns the date of the meeting at (week, ordinal).
func (p *Plan) MeetingDate(week, ordinal int) (time.Time, bool) {
	for _, m := range p.Meetings {
		if m.Week == week && m.Ordinal == ordinal {
			return m.Date, true
		}
	}
	return time.Time{}, false
}

// MeetingDates returns the distinct meeting dates in ascending order.
func (p *Plan) MeetingDates() []time.Time {
	seen := make(map[time.Time]bool, len(p.Meetings))
	dates := make([]time.Time, 0, len(p.Meetings))
	for _, m := range p.Meetings {
		if !seen[m.Date] {
			seen[m.Date] = true
			dates = append(dates, m.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// NextMeetingOnOrAfter returns the first meeting date that is not before d.
func (p *Plan) NextMeetingOnOrAfter(d time.Time) (time.Time, bool) {
	for _, md := range p.MeetingDates() {
		if !md.Before(d) {
			return md, true
		}
	}
	return time.Time{}, false
}
