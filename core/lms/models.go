// Package lms holds the learning management system resources the course tools read and write.
// Only the handful of fields the tools use are mapped.
package lms

import "time"

type (
	User struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		SortableName string `json:"sortable_name,omitempty"`
		LoginID      string `json:"login_id,omitempty"`
	}

	RubricSettings struct {
		ID                  int64   `json:"id,omitempty"`
		RubricAssociationID int64   `json:"rubric_association_id,omitempty"`
		Title               string  `json:"title,omitempty"`
		PointsPossible      float64 `json:"points_possible,omitempty"`
	}

	Assignment struct {
		ID                int64           `json:"id"`
		Name              string          `json:"name"`
		DueAt             string          `json:"due_at"`
		LockAt            string          `json:"lock_at,omitempty"`
		HTMLURL           string          `json:"html_url,omitempty"`
		URL               string          `json:"url,omitempty"`
		Description       string          `json:"description,omitempty"`
		PointsPossible    float64         `json:"points_possible,omitempty"`
		SubmissionTypes   []string        `json:"submission_types,omitempty"`
		AllowedExtensions []string        `json:"allowed_extensions,omitempty"`
		Published         bool            `json:"published"`
		RubricSettings    *RubricSettings `json:"rubric_settings,omitempty"`
	}

	// AssignmentInput is the body of an assignment create or update; zero fields are not sent.
	AssignmentInput struct {
		Name              string   `json:"name,omitempty"`
		Description       string   `json:"description,omitempty"`
		DueAt             string   `json:"due_at,omitempty"`
		LockAt            string   `json:"lock_at,omitempty"`
		PointsPossible    float64  `json:"points_possible,omitempty"`
		SubmissionTypes   []string `json:"submission_types,omitempty"`
		AllowedExtensions []string `json:"allowed_extensions,omitempty"`
		Position          int      `json:"position,omitempty"`
		NotifyOfUpdate    bool     `json:"notify_of_update,omitempty"`
		Published         *bool    `json:"published,omitempty"`
	}

	Module struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Position   int    `json:"position"`
		Published  bool   `json:"published"`
		ItemsCount int    `json:"items_count"`
	}

	ModuleInput struct {
		Name      string `json:"name,omitempty"`
		Position  int    `json:"position,omitempty"`
		Published *bool  `json:"published,omitempty"`
	}

	ModuleItem struct {
		ID          int64  `json:"id"`
		ModuleID    int64  `json:"module_id"`
		Title       string `json:"title"`
		Type        string `json:"type"`
		ContentID   int64  `json:"content_id,omitempty"`
		PageURL     string `json:"page_url,omitempty"`
		ExternalURL string `json:"external_url,omitempty"`
		NewTab      bool   `json:"new_tab,omitempty"`
		Published   bool   `json:"published"`
	}

	ModuleItemInput struct {
		Type        string `json:"type,omitempty"`
		ContentID   int64  `json:"content_id,omitempty"`
		PageURL     string `json:"page_url,omitempty"`
		ExternalURL string `json:"external_url,omitempty"`
		NewTab      bool   `json:"new_tab,omitempty"`
		Title       string `json:"title,omitempty"`
		Published   *bool  `json:"published,omitempty"`
	}

	// CreatedRubric is the answer to a rubric creation.
	CreatedRubric struct {
		Rubric struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"rubric"`
		RubricAssociation struct {
			ID int64 `json:"id"`
		} `json:"rubric_association"`
	}

	Page struct {
		PageID    int64  `json:"page_id"`
		URL       string `json:"url"`
		Title     string `json:"title"`
		Published bool   `json:"published"`
	}

	Attachment struct {
		ID          int64  `json:"id"`
		DisplayName string `json:"display_name"`
		Filename    string `json:"filename"`
		URL         string `json:"url"`
		ContentType string `json:"content-type,omitempty"`
		Size        int64  `json:"size,omitempty"`
	}

	Submission struct {
		ID          int64        `json:"id"`
		UserID      int64        `json:"user_id"`
		User        *User        `json:"user,omitempty"`
		Attachments []Attachment `json:"attachments,omitempty"`
		SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
	}
)

// Module item types.
const (
	ItemAssignment  = "Assignment"
	ItemPage        = "Page"
	ItemExternalURL = "ExternalUrl"
	ItemSubHeader   = "SubHeader"
)

// Bool returns a pointer to b, for the optional flags of the input types.
func Bool(b bool) *bool { return &b }

// Link is the student-facing URL of the assignment.
func (a Assignment) Link() string {
	if a.HTMLURL != "" {
		return a.HTMLURL
	}
	return a.URL
}

// UserName is the submitter's display name, "unknown_user" when the user was not included.
func (s Submission) UserName() string {
	if s.User == nil || s.User.Name == "" {
		return "unknown_user"
	}
	return s.User.Name
}
