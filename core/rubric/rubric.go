// Package rubric reads rubric definitions and turns them into LMS rubric payloads.
package rubric

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

var (
	ErrNoCriteria = errors.New("rubric file has no info.rubric criteria")

	validate, translator = core.NewValidator()
)

// Tier is a qualitative rating level worth Share of its criterion's points.
type Tier struct {
	Name  string
	Share float64
}

// Tiers are the rating levels of every criterion, lowest first.
var Tiers = [4]Tier{
	{Name: "Pre-Emerging", Share: 0.25},
	{Name: "Beginning", Share: 0.50},
	{Name: "Progressing", Share: 0.85},
	{Name: "Proficient", Share: 1.00},
}

type (
	Criterion struct {
		Weight      float64 `yaml:"weight" validate:"gt=0,lte=100"`
		Description string  `yaml:"description" validate:"required"`
		PreEmerging string  `yaml:"preemerging"`
		Beginning   string  `yaml:"beginning"`
		Progressing string  `yaml:"progressing"`
		Proficient  string  `yaml:"proficient"`
	}

	// Definition is the `info.rubric` list of a rubric Markdown file.
	Definition struct {
		Criteria []Criterion `yaml:"rubric" validate:"dive"`
	}
)

func (c Criterion) levels() [4]string {
	return [4]string{c.PreEmerging, c.Beginning, c.Progressing, c.Proficient}
}

// Load reads the rubric definition from the front matter of the file at path.
func Load(path string) (*Definition, error) {
	doc, err := syllabus.Load(path)
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

// Parse reads a rubric definition from Markdown text.
func Parse(text string) (*Definition, error) {
	doc, err := syllabus.Parse(text)
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

func decode(doc *syllabus.Document) (*Definition, error) {
	var def Definition
	if err := doc.Decode("info", &def); err != nil {
		return nil, err
	}
	if len(def.Criteria) == 0 {
		return nil, ErrNoCriteria
	}
	if err := validate.Struct(def); err != nil {
		return nil, core.TranslateErrors(err, translator)
	}
	return &def, nil
}

type (
	Rating struct {
		Description     string  `json:"description"`
		LongDescription string  `json:"long_description"`
		Points          float64 `json:"points"`
	}

	CriterionPayload struct {
		Description       string            `json:"description"`
		LongDescription   string            `json:"long_description"`
		CriterionUseRange bool              `json:"criterion_use_range"`
		Points            float64           `json:"points"`
		Ratings           map[string]Rating `json:"ratings"`
	}

	RubricPayload struct {
		Title                      string                      `json:"title"`
		PointsPossible             float64                     `json:"points_possible"`
		FreeFormCriterionComments  bool                        `json:"free_form_criterion_comments"`
		SkipUpdatingPointsPossible bool                        `json:"skip_updating_points_possible"`
		ReadOnly                   bool                        `json:"read_only"`
		Reusable                   bool                        `json:"reusable"`
		Criteria                   map[string]CriterionPayload `json:"criteria"`
	}

	AssociationPayload struct {
		UseForGrading   bool   `json:"use_for_grading"`
		Purpose         string `json:"purpose"`
		AssociationID   int64  `json:"association_id"`
		AssociationType string `json:"association_type"`
		Bookmarked      bool   `json:"bookmarked"`
	}

	// Payload creates a rubric and associates it with an assignment in a single call.
	Payload struct {
		RubricAssociationID int64              `json:"rubric_association_id"`
		Rubric              RubricPayload      `json:"rubric"`
		RubricAssociation   AssociationPayload `json:"rubric_association"`
	}
)

// BuildPayload grades the assignment out of points: each criterion is worth points*weight/100,
// and its ratings are the Tiers shares of that.
func BuildPayload(def *Definition, assignmentID int64, name string, points float64) Payload {
	p := Payload{
		RubricAssociationID: assignmentID,
		Rubric: RubricPayload{
			Title:          name + " Rubric",
			PointsPossible: points,
			Reusable:       true,
			Criteria:       make(map[string]CriterionPayload, len(def.Criteria)),
		},
		RubricAssociation: AssociationPayload{
			UseForGrading:   true,
			Purpose:         "grading",
			AssociationID:   assignmentID,
			AssociationType: "Assignment",
			Bookmarked:      true,
		},
	}
	for i, c := range def.Criteria {
		cp := CriterionPayload{
			Description:       c.Description,
			LongDescription:   c.Description,
			CriterionUseRange: true,
			Points:            points * c.Weight / 100,
			Ratings:           make(map[string]Rating, len(Tiers)),
		}
		for j, tier := range Tiers {
			cp.Ratings[strconv.Itoa(j)] = Rating{
				Description:     tier.Name,
				LongDescription: c.levels()[j],
				Points:          cp.Points * tier.Share,
			}
		}
		p.Rubric.Criteria[strconv.Itoa(i)] = cp
	}
	return p
}
