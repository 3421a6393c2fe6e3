package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/schedule"
)

type (
	// NodeView is the JSON rendering of a board node and its subtree.
	NodeView struct {
		ID       int        `json:"id"`
		Kind     string     `json:"kind"`
		Category string     `json:"category,omitempty"`
		Label    string     `json:"label,omitempty"`
		Title    string     `json:"title,omitempty"`
		Link     string     `json:"link,omitempty"`
		Week     string     `json:"week,omitempty"`
		Slot     string     `json:"slot,omitempty"`
		Conflict bool       `json:"conflict,omitempty"`
		Children []NodeView `json:"children,omitempty"`
	}

	BoardView struct {
		Days      []NodeView `json:"days"`
		Conflicts []int      `json:"conflicts"`
	}

	EditNode struct {
		Title *string `json:"title" validate:"omitempty,min=1"`
		Link  *string `json:"link"`
	}

	NewItem struct {
		Title string `json:"title" validate:"required"`
	}

	MoveNode struct {
		Target int  `json:"target" validate:"required,gt=0"`
		After  bool `json:"after"`
	}
)

// Validate requires a title or a link; a title cannot be blank.
func (data EditNode) Validate(validate *validator.Validate) error {
	if data.Title == nil && data.Link == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: "title or link is required"})
	}
	return validate.Struct(data)
}

type boardApi struct {
	s *server
}

func registerBoardAPI(g *echo.Group, s *server) {
	api := boardApi{s: s}

	g.GET("/board", api.retrieve)
	g.GET("/conflicts", api.conflicts)
	g.POST("/save", api.save)

	ng := g.Group("/nodes/:id")
	ng.PUT("", api.update)
	ng.DELETE("", api.destroy)
	ng.POST("/items", api.addItem)
	ng.POST("/move", api.move)
}

func (api *boardApi) validate(data interface{}) error {
	if err := api.s.validate.Struct(data); err != nil {
		return core.TranslateErrors(err, api.s.translator)
	}
	return nil
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// view renders a node; conflicting items are flagged.
func view(b *schedule.Board, id int, conflicts map[int]bool) NodeView {
	n, _ := b.Node(id)
	v := NodeView{ID: n.ID, Kind: n.Kind.String()}
	switch n.Kind {
	case schedule.KindDay:
		d, _ := b.Day(id)
		v.Week, v.Slot = d.Week.String(), d.Slot.String()
		v.Label = "Week " + v.Week + ", Day " + v.Slot
	case schedule.KindCategory:
		v.Category = n.Category.String()
		v.Label = n.Category.Label()
	case schedule.KindItem:
		v.Category = n.Category.String()
		v.Title, v.Link = n.Item.Title, n.Item.Link
		v.Conflict = conflicts[n.ID]
	}
	for _, child := range n.Children {
		v.Children = append(v.Children, view(b, child, conflicts))
	}
	return v
}

func conflictSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Handlers

func (api *boardApi) retrieve(ctx echo.Context) error {
	api.s.mu.Lock()
	defer api.s.mu.Unlock()

	b := api.s.board
	conflicts := b.Conflicts()
	if conflicts == nil {
		conflicts = []int{}
	}
	set := conflictSet(conflicts)
	res := BoardView{Days: make([]NodeView, 0, len(b.DayIDs())), Conflicts: conflicts}
	for _, id := range b.DayIDs() {
		res.Days = append(res.Days, view(b, id, set))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *boardApi) conflicts(ctx echo.Context) error {
	api.s.mu.Lock()
	defer api.s.mu.Unlock()

	conflicts := api.s.board.Conflicts()
	set := conflictSet(conflicts)
	items := make([]NodeView, 0, len(conflicts))
	for _, id := range conflicts {
		items = append(items, view(api.s.board, id, set))
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *boardApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data EditNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditNode")
	}
	if err := data.Validate(api.s.validate); err != nil {
		return core.TranslateErrors(err, api.s.translator)
	}

	api.s.mu.Lock()
	defer api.s.mu.Unlock()
	b := api.s.board
	if data.Title != nil {
		if err := b.EditTitle(id, *data.Title); err != nil {
			return err
		}
	}
	if data.Link != nil {
		if err := b.EditLink(id, *data.Link); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, view(b, id, conflictSet(b.Conflicts())))
}

func (api *boardApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	api.s.mu.Lock()
	defer api.s.mu.Unlock()
	if err := api.s.board.Delete(id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *boardApi) addItem(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := api.validate(data); err != nil {
		return err
	}

	api.s.mu.Lock()
	defer api.s.mu.Unlock()
	b := api.s.board
	n, err := b.Add(id, data.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, view(b, n.ID, conflictSet(b.Conflicts())))
}

func (api *boardApi) move(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data MoveNode
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveNode")
	}
	if err := api.validate(data); err != nil {
		return err
	}

	api.s.mu.Lock()
	defer api.s.mu.Unlock()
	b := api.s.board
	if err := b.Move(id, data.Target, data.After); err != nil {
		return err
	}
	n, _ := b.Node(id)
	return ctx.JSON(http.StatusOK, view(b, n.Parent, conflictSet(b.Conflicts())))
}

// save writes the schedule back into the syllabus. Conflicts are reported, never blocking.
func (api *boardApi) save(ctx echo.Context) error {
	api.s.mu.Lock()
	defer api.s.mu.Unlock()

	b := api.s.board
	doc := api.s.opts.Doc
	if err := doc.Set("schedule", schedule.ToEntries(b.Days())); err != nil {
		return err
	}
	if err := doc.Save(api.s.opts.Path); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"saved":     api.s.opts.Path,
		"conflicts": len(b.Conflicts()),
	})
}
