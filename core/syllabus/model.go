package syllabus

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Syllabus is the part of the front matter the course tools read.
	Syllabus struct {
		Info     Info    `yaml:"info"`
		Schedule []Entry `yaml:"schedule"`
	}

	Info struct {
		CourseStartDate string                 `yaml:"course_start_date" validate:"required,coursedate"`
		CourseEndDate   string                 `yaml:"course_end_date,omitempty" validate:"omitempty,coursedate"`
		ClassMeetsDays  MeetsDays              `yaml:"class_meets_days"`
		Extra           map[string]interface{} `yaml:",inline"`
	}

	MeetsDays struct {
		IsM bool `yaml:"isM"`
		IsT bool `yaml:"isT"`
		IsW bool `yaml:"isW"`
		IsR bool `yaml:"isR"`
		IsF bool `yaml:"isF"`
		IsS bool `yaml:"isS"`
		IsU bool `yaml:"isU"`
	}

	// Entry is one row of the schedule: a class meeting identified by week and intra-week ordinal.
	Entry struct {
		Week         Flex                   `yaml:"week"`
		Date         Flex                   `yaml:"date"`
		Title        string                 `yaml:"title,omitempty"`
		Link         Link                   `yaml:"link,omitempty"`
		Activities   Activities             `yaml:"activities,omitempty"`
		Activity     Activities             `yaml:"activity,omitempty"`
		InClass      Activities             `yaml:"in_class,omitempty"`
		Readings     []Reading              `yaml:"readings,omitempty"`
		Deliverables []DeliverableSpec      `yaml:"deliverables,omitempty"`
		Extra        map[string]interface{} `yaml:",inline"`
	}

	Reading struct {
		RTitle string                 `yaml:"rtitle"`
		RLink  Link                   `yaml:"rlink"`
		Extra  map[string]interface{} `yaml:",inline"`
	}

	DeliverableSpec struct {
		DTitle          string                 `yaml:"dtitle"`
		DLink           Link                   `yaml:"dlink"`
		Points          Flex                   `yaml:"points,omitempty"`
		SubmissionTypes string                 `yaml:"submission_types,omitempty"`
		RubricPath      string                 `yaml:"rubricpath,omitempty"`
		Extra           map[string]interface{} `yaml:",inline"`
	}

	// Activity is an in-class activity reference.
	Activity struct {
		Title string `yaml:"title"`
		URL   string `yaml:"url,omitempty"`
	}
)

// Days returns the meeting flags in Monday to Sunday order.
func (d MeetsDays) Days() [7]bool {
	return [7]bool{d.IsM, d.IsT, d.IsW, d.IsR, d.IsF, d.IsS, d.IsU}
}

// ActivityList returns the first non-empty of activities, activity and in_class.
func (e Entry) ActivityList() []Activity {
	for _, acts := range []Activities{e.Activities, e.Activity, e.InClass} {
		if len(acts.Items) > 0 {
			return acts.Items
		}
	}
	return nil
}

// Flex is a scalar written either as a bare number or as a quoted string (week, date, points).
// Any other YAML value decodes to an invalid Flex that keeps the original node.
type Flex struct {
	Value  string
	Quoted bool

	raw *yaml.Node
}

func FlexInt(n int) Flex { return Flex{Value: strconv.Itoa(n)} }

func FlexString(s string) Flex { return Flex{Value: s, Quoted: true} }

func (f Flex) String() string { return f.Value }

func (f Flex) IsZero() bool { return f.Value == "" && f.raw == nil }

// Valid is false when the value was neither a number nor a string.
func (f Flex) Valid() bool { return f.raw == nil }

// Int accepts integers and integral floats such as 1.0.
func (f Flex) Int() (int, bool) {
	v := strings.TrimSpace(f.Value)
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n != math.Trunc(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return int(n), true
}

func (f Flex) Float() (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	return n, err == nil
}

func (f *Flex) UnmarshalYAML(node *yaml.Node) error {
	*f = Flex{}
	switch {
	case node.Kind != yaml.ScalarNode:
		f.raw = node
	case node.ShortTag() != "!!null":
		f.Value = node.Value
		f.Quoted = node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0
	}
	return nil
}

func (f Flex) MarshalYAML() (interface{}, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value}
	switch {
	case f.Quoted:
		node.Style = yaml.DoubleQuotedStyle
	case isInt(f.Value):
		node.Tag = "!!int"
	case isFloat(f.Value):
		node.Tag = "!!float"
	}
	return node, nil
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Link is a URL that syllabi set to `false` when there is none.
type Link string

func (l Link) String() string { return string(l) }

func (l Link) IsZero() bool { return l == "" }

func (l *Link) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a link", node.Line)
	}
	switch node.ShortTag() {
	case "!!bool", "!!null":
		*l = ""
	default:
		*l = Link(strings.TrimSpace(node.Value))
	}
	return nil
}

func (l Link) MarshalYAML() (interface{}, error) {
	if l == "" {
		return false, nil
	}
	return string(l), nil
}

// Activities accepts a single string, a list of strings, or a list of maps
// with title|name|rtitle and url|link|rlink keys. The original node is written back unchanged.
type Activities struct {
	Items []Activity
	raw   *yaml.Node
}

func (a Activities) IsZero() bool { return a.raw == nil && len(a.Items) == 0 }

func (a *Activities) UnmarshalYAML(node *yaml.Node) error {
	a.raw = node
	a.Items = nil
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != "!!null" {
			a.add(node.Value, "")
		}
	case yaml.SequenceNode:
		for _, it := range node.Content {
			switch it.Kind {
			case yaml.ScalarNode:
				a.add(it.Value, "")
			case yaml.MappingNode:
				var m map[string]interface{}
				if err := it.Decode(&m); err != nil {
					return err
				}
				a.add(firstString(m, "title", "name", "rtitle"), firstString(m, "url", "link", "rlink"))
			}
		}
	default:
		return errors.Errorf("line %d: expected activities as a string or a list", node.Line)
	}
	return nil
}

func (a *Activities) add(title, url string) {
	if title = strings.TrimSpace(title); title != "" {
		a.Items = append(a.Items, Activity{Title: title, URL: strings.TrimSpace(url)})
	}
}

func (a Activities) MarshalYAML() (interface{}, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	return a.Items, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// UnmarshalYAML accepts bare strings and the title/link (or url) spellings of a reading.
func (r *Reading) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = Reading{RTitle: strings.TrimSpace(node.Value)}
		return nil
	}
	type plain Reading
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Reading(p)
	r.RTitle = strings.TrimSpace(r.RTitle)
	if r.RTitle == "" {
		r.RTitle = strings.TrimSpace(takeString(r.Extra, "title"))
	}
	if r.RLink == "" {
		if s := takeString(r.Extra, "link"); s != "" {
			r.RLink = Link(strings.TrimSpace(s))
		} else if s := takeString(r.Extra, "url"); s != "" {
			r.RLink = Link(strings.TrimSpace(s))
		}
	}
	return nil
}

// UnmarshalYAML accepts bare strings and the title/link spellings of a deliverable.
func (d *DeliverableSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = DeliverableSpec{DTitle: strings.TrimSpace(node.Value)}
		return nil
	}
	type plain DeliverableSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = DeliverableSpec(p)
	d.DTitle = strings.TrimSpace(d.DTitle)
	if d.DTitle == "" {
		d.DTitle = strings.TrimSpace(takeString(d.Extra, "title"))
	}
	if d.DLink == "" {
		if s := takeString(d.Extra, "link"); s != "" {
			d.DLink = Link(strings.TrimSpace(s))
		}
	}
	return nil
}

// takeString removes key from m and returns its value when it is a string.
func takeString(m map[string]interface{}, key string) string {
	s, ok := m[key].(string)
	if ok {
		delete(m, key)
	}
	return s
}
