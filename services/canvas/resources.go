package canvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/rubric"
)

// Self returns the user the token belongs to.
func (c *Client) Self(ctx context.Context) (*lms.User, error) {
	var u lms.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/self", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Assignments

func (c *Client) ListAssignments(ctx context.Context) ([]lms.Assignment, error) {
	var all []lms.Assignment
	err := c.list(ctx, c.coursePath("/assignments"), nil, func(dec *json.Decoder) error {
		var page []lms.Assignment
		if err := dec.Decode(&page); err != nil {
			return err
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

// GetAssignment returns one assignment, including its rubric settings.
func (c *Client) GetAssignment(ctx context.Context, id int64) (*lms.Assignment, error) {
	var a lms.Assignment
	if err := c.do(ctx, http.MethodGet, c.coursePath("/assignments/%d", id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAssignment(ctx context.Context, id int64, in lms.AssignmentInput) (*lms.Assignment, error) {
	var a lms.Assignment
	body := map[string]interface{}{"assignment": in}
	if err := c.do(ctx, http.MethodPut, c.coursePath("/assignments/%d", id), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateAssignment(ctx context.Context, in lms.AssignmentInput) (*lms.Assignment, error) {
	var a lms.Assignment
	body := map[string]interface{}{"assignment": in}
	if err := c.do(ctx, http.MethodPost, c.coursePath("/assignments"), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Modules

func (c *Client) ListModules(ctx context.Context) ([]lms.Module, error) {
	var all []lms.Module
	err := c.list(ctx, c.coursePath("/modules"), nil, func(dec *json.Decoder) error {
		var page []lms.Module
		if err := dec.Decode(&page); err != nil {
			return err
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

func (c *Client) CreateModule(ctx context.Context, in lms.ModuleInput) (*lms.Module, error) {
	var m lms.Module
	if err := c.do(ctx, http.MethodPost, c.coursePath("/modules"), map[string]interface{}{"module": in}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateModule(ctx context.Context, id int64, in lms.ModuleInput) (*lms.Module, error) {
	var m lms.Module
	if err := c.do(ctx, http.MethodPut, c.coursePath("/modules/%d", id), map[string]interface{}{"module": in}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteModule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.coursePath("/modules/%d", id), nil, nil)
}

// Module items

func (c *Client) ListModuleItems(ctx context.Context, moduleID int64) ([]lms.ModuleItem, error) {
	var all []lms.ModuleItem
	err := c.list(ctx, c.coursePath("/modules/%d/items", moduleID), nil, func(dec *json.Decoder) error {
		var page []lms.ModuleItem
		if err := dec.Decode(&page); err != nil {
			return err
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

func (c *Client) CreateModuleItem(ctx context.Context, moduleID int64, in lms.ModuleItemInput) (*lms.ModuleItem, error) {
	var it lms.ModuleItem
	body := map[string]interface{}{"module_item": in}
	if err := c.do(ctx, http.MethodPost, c.coursePath("/modules/%d/items", moduleID), body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) UpdateModuleItem(ctx context.Context, moduleID, itemID int64, in lms.ModuleItemInput) (*lms.ModuleItem, error) {
	var it lms.ModuleItem
	body := map[string]interface{}{"module_item": in}
	if err := c.do(ctx, http.MethodPut, c.coursePath("/modules/%d/items/%d", moduleID, itemID), body, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) DeleteModuleItem(ctx context.Context, moduleID, itemID int64) error {
	return c.do(ctx, http.MethodDelete, c.coursePath("/modules/%d/items/%d", moduleID, itemID), nil, nil)
}

// Pages

func (c *Client) ListPages(ctx context.Context) ([]lms.Page, error) {
	var all []lms.Page
	err := c.list(ctx, c.coursePath("/pages"), nil, func(dec *json.Decoder) error {
		var page []lms.Page
		if err := dec.Decode(&page); err != nil {
			return err
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

// Rubrics

func (c *Client) DeleteRubricAssociation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.coursePath("/rubric_associations/%d", id), nil, nil)
}

func (c *Client) DeleteRubric(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.coursePath("/rubrics/%d", id), nil, nil)
}

// CreateRubric creates a rubric together with its association to an assignment.
func (c *Client) CreateRubric(ctx context.Context, payload rubric.Payload) (*lms.CreatedRubric, error) {
	var out lms.CreatedRubric
	if err := c.do(ctx, http.MethodPost, c.coursePath("/rubrics"), payload, &out); err != nil {
		return nil, errors.Wrap(err, "creating rubric")
	}
	return &out, nil
}

// Submissions

// ListSubmissions returns the submissions of an assignment in any course, with
// the submitting user and history included.
func (c *Client) ListSubmissions(ctx context.Context, courseID string, assignmentID int64) ([]lms.Submission, error) {
	if courseID == "" {
		courseID = c.opts.CourseID
	}
	path := "/api/v1/courses/" + url.PathEscape(courseID) + "/assignments/" + itoa(assignmentID) + "/submissions"
	query := url.Values{"include[]": {"user", "submission_history"}}

	var all []lms.Submission
	err := c.list(ctx, path, query, func(dec *json.Decoder) error {
		var page []lms.Submission
		if err := dec.Decode(&page); err != nil {
			return err
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

// GetCourseAssignment fetches an assignment of any course.
func (c *Client) GetCourseAssignment(ctx context.Context, courseID string, id int64) (*lms.Assignment, error) {
	var a lms.Assignment
	path := "/api/v1/courses/" + url.PathEscape(courseID) + "/assignments/" + itoa(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
