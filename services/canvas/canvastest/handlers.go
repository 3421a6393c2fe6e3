package canvastest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/rubric"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token.")
	errNotFound     = echo.NewHTTPError(http.StatusNotFound, "The specified resource does not exist.")
)

// httpErrorHandler answers with Canvas' {"errors":[{"message":...}]} body.
func httpErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	message := err.Error()
	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		code = herr.Code
		if m, ok := herr.Message.(string); ok {
			message = m
		}
	}
	if !ctx.Response().Committed {
		_ = ctx.JSON(code, echo.Map{"errors": []echo.Map{{"message": message}}})
	}
}

func bind(ctx echo.Context, key string, out interface{}) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(ctx.Request().Body).Decode(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	raw, ok := body[key]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "missing "+key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (s *Server) getSelf(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.Self)
}

func (s *Server) getFile(ctx echo.Context) error {
	s.mu.Lock()
	data, ok := s.Files[ctx.Param("name")]
	s.mu.Unlock()
	if !ok {
		return errNotFound
	}
	return ctx.Blob(http.StatusOK, "application/octet-stream", data)
}

// Assignments

func (s *Server) listAssignments(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]interface{}, len(s.Assignments))
	for i, a := range s.Assignments {
		items[i] = a
	}
	return s.paginate(ctx, items)
}

func (s *Server) getAssignment(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(id)
	if i < 0 {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, s.Assignments[i])
}

func (s *Server) createAssignment(ctx echo.Context) error {
	var in lms.AssignmentInput
	if err := bind(ctx, "assignment", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := lms.Assignment{
		ID:                s.id(),
		Name:              in.Name,
		Description:       in.Description,
		DueAt:             in.DueAt,
		LockAt:            in.LockAt,
		PointsPossible:    in.PointsPossible,
		SubmissionTypes:   in.SubmissionTypes,
		AllowedExtensions: in.AllowedExtensions,
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	a.HTMLURL = fmt.Sprintf("%s/courses/%s/assignments/%d", s.URL, CourseID, a.ID)
	s.Assignments = append(s.Assignments, a)
	return ctx.JSON(http.StatusOK, a)
}

func (s *Server) updateAssignment(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var in lms.AssignmentInput
	if err := bind(ctx, "assignment", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(id)
	if i < 0 {
		return errNotFound
	}
	a := &s.Assignments[i]
	if in.Name != "" {
		a.Name = in.Name
	}
	if in.DueAt != "" {
		a.DueAt = in.DueAt
	}
	if in.PointsPossible != 0 {
		a.PointsPossible = in.PointsPossible
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	return ctx.JSON(http.StatusOK, *a)
}

func (s *Server) listSubmissions(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignmentIndex(id) < 0 {
		return errNotFound
	}
	subs := s.Submissions[id]
	items := make([]interface{}, len(subs))
	for i, sub := range subs {
		items[i] = sub
	}
	return s.paginate(ctx, items)
}

// Modules

func (s *Server) listModules(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortModules()
	items := make([]interface{}, len(s.Modules))
	for i, m := range s.Modules {
		m.ItemsCount = len(s.Items[m.ID])
		items[i] = m
	}
	return s.paginate(ctx, items)
}

func (s *Server) createModule(ctx echo.Context) error {
	var in lms.ModuleInput
	if err := bind(ctx, "module", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := lms.Module{ID: s.id(), Name: in.Name, Position: in.Position}
	if m.Position <= 0 {
		m.Position = len(s.Modules) + 1
	}
	if in.Published != nil {
		m.Published = *in.Published
	}
	s.Modules = append(s.Modules, m)
	s.sortModules()
	return ctx.JSON(http.StatusOK, m)
}

func (s *Server) updateModule(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var in lms.ModuleInput
	if err := bind(ctx, "module", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.moduleIndex(id)
	if i < 0 {
		return errNotFound
	}
	m := &s.Modules[i]
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.Position > 0 {
		m.Position = in.Position
	}
	if in.Published != nil {
		m.Published = *in.Published
	}
	out := *m
	s.sortModules()
	return ctx.JSON(http.StatusOK, out)
}

func (s *Server) deleteModule(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.moduleIndex(id)
	if i < 0 {
		return errNotFound
	}
	m := s.Modules[i]
	s.Modules = append(s.Modules[:i], s.Modules[i+1:]...)
	delete(s.Items, id)
	return ctx.JSON(http.StatusOK, m)
}

// Module items

func (s *Server) listItems(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.moduleIndex(id) < 0 {
		return errNotFound
	}
	its := s.Items[id]
	items := make([]interface{}, len(its))
	for i, it := range its {
		items[i] = it
	}
	return s.paginate(ctx, items)
}

func (s *Server) createItem(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var in lms.ModuleItemInput
	if err := bind(ctx, "module_item", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.moduleIndex(id) < 0 {
		return errNotFound
	}
	it := lms.ModuleItem{
		ID:          s.id(),
		ModuleID:    id,
		Title:       in.Title,
		Type:        in.Type,
		ContentID:   in.ContentID,
		PageURL:     in.PageURL,
		ExternalURL: in.ExternalURL,
		NewTab:      in.NewTab,
	}
	if in.Published != nil {
		it.Published = *in.Published
	}
	if it.Title == "" {
		switch it.Type {
		case lms.ItemAssignment:
			if i := s.assignmentIndex(it.ContentID); i >= 0 {
				it.Title = s.Assignments[i].Name
			}
		case lms.ItemPage:
			for _, p := range s.Pages {
				if p.URL == it.PageURL {
					it.Title = p.Title
				}
			}
		}
	}
	s.Items[id] = append(s.Items[id], it)
	return ctx.JSON(http.StatusOK, it)
}

func (s *Server) updateItem(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(ctx, "item")
	if err != nil {
		return err
	}
	var in lms.ModuleItemInput
	if err := bind(ctx, "module_item", &in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items[id] {
		it := &s.Items[id][i]
		if it.ID != itemID {
			continue
		}
		if in.Title != "" {
			it.Title = in.Title
		}
		if in.Published != nil {
			it.Published = *in.Published
		}
		return ctx.JSON(http.StatusOK, *it)
	}
	return errNotFound
}

func (s *Server) deleteItem(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(ctx, "item")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.Items[id]
	for i, it := range items {
		if it.ID == itemID {
			s.Items[id] = append(items[:i], items[i+1:]...)
			return ctx.JSON(http.StatusOK, it)
		}
	}
	return errNotFound
}

func (s *Server) listPages(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]interface{}, len(s.Pages))
	for i, p := range s.Pages {
		items[i] = p
	}
	return s.paginate(ctx, items)
}

// Rubrics

func (s *Server) createRubric(ctx echo.Context) error {
	var p rubric.Payload
	if err := json.NewDecoder(ctx.Request().Body).Decode(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.assignmentIndex(p.RubricAssociation.AssociationID)
	if i < 0 {
		return errNotFound
	}
	rubricID, assocID := s.id(), s.id()
	s.Rubrics = append(s.Rubrics, p)
	s.Assignments[i].RubricSettings = &lms.RubricSettings{
		ID:                  rubricID,
		RubricAssociationID: assocID,
		Title:               p.Rubric.Title,
		PointsPossible:      p.Rubric.PointsPossible,
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"rubric":             echo.Map{"id": rubricID, "title": p.Rubric.Title},
		"rubric_association": echo.Map{"id": assocID},
	})
}

func (s *Server) deleteRubric(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedRubrics = append(s.DeletedRubrics, id)
	for i := range s.Assignments {
		if rs := s.Assignments[i].RubricSettings; rs != nil && rs.ID == id {
			s.Assignments[i].RubricSettings = nil
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"id": id})
}

func (s *Server) deleteAssociation(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeletedAssociations = append(s.DeletedAssociations, id)
	for i := range s.Assignments {
		if rs := s.Assignments[i].RubricSettings; rs != nil && rs.RubricAssociationID == id {
			rs.RubricAssociationID = 0
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"id": id})
}
