// Package canvastest provides an in-memory Canvas server for tests.
package canvastest

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/rubric"
)

const (
	Token    = "test-token"
	CourseID = "101"
)

// Request is what the server recorded of one API call.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

func (r Request) String() string { return r.Method + " " + r.Path }

type failure struct {
	status  int
	message string
}

// Server fakes the subset of the Canvas API used by the course tools.
// All the exported fields may be read once the requests under test are done.
type Server struct {
	*httptest.Server
	app *echo.Echo

	mu       sync.Mutex
	nextID   int64
	failures map[string]failure

	// PageSize > 0 splits list answers into pages linked by rel="next".
	PageSize int

	Self        lms.User
	Assignments []lms.Assignment
	Modules     []lms.Module
	Items       map[int64][]lms.ModuleItem
	Pages       []lms.Page
	Submissions map[int64][]lms.Submission
	Files       map[string][]byte

	Rubrics             []rubric.Payload
	DeletedRubrics      []int64
	DeletedAssociations []int64
	Requests            []Request
}

// NewServer starts a fake Canvas for course CourseID authenticated by Token.
// Callers must Close it.
func NewServer() *Server {
	s := &Server{
		app:         echo.New(),
		nextID:      1000,
		failures:    make(map[string]failure),
		Self:        lms.User{ID: 1, Name: "Test Instructor"},
		Items:       make(map[int64][]lms.ModuleItem),
		Submissions: make(map[int64][]lms.Submission),
		Files:       make(map[string][]byte),
	}
	s.setup()
	s.Server = httptest.NewServer(s.app)
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HTTPErrorHandler = httpErrorHandler
	s.app.Use(s.record)

	s.app.GET("/files/:name", s.getFile)

	api := s.app.Group("/api/v1", s.authenticate)
	api.GET("/users/self", s.getSelf)

	course := api.Group("/courses/:course", s.checkCourse)
	course.GET("/assignments", s.listAssignments)
	course.POST("/assignments", s.createAssignment)
	course.GET("/assignments/:id", s.getAssignment)
	course.PUT("/assignments/:id", s.updateAssignment)
	course.GET("/assignments/:id/submissions", s.listSubmissions)

	course.GET("/modules", s.listModules)
	course.POST("/modules", s.createModule)
	course.PUT("/modules/:id", s.updateModule)
	course.DELETE("/modules/:id", s.deleteModule)
	course.GET("/modules/:id/items", s.listItems)
	course.POST("/modules/:id/items", s.createItem)
	course.PUT("/modules/:id/items/:item", s.updateItem)
	course.DELETE("/modules/:id/items/:item", s.deleteItem)

	course.GET("/pages", s.listPages)

	course.POST("/rubrics", s.createRubric)
	course.DELETE("/rubrics/:id", s.deleteRubric)
	course.DELETE("/rubric_associations/:id", s.deleteAssociation)
}

// FailOn makes every request matching method and path answer with status.
func (s *Server) FailOn(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: http.StatusText(status)}
}

// CoursePath is the API path of a course resource, for FailOn.
func CoursePath(format string, args ...interface{}) string {
	return "/api/v1/courses/" + CourseID + fmt.Sprintf(format, args...)
}

// Seeding helpers

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) AddAssignment(a lms.Assignment) lms.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	if a.HTMLURL == "" {
		a.HTMLURL = fmt.Sprintf("%s/courses/%s/assignments/%d", s.URL, CourseID, a.ID)
	}
	s.Assignments = append(s.Assignments, a)
	return a
}

func (s *Server) AddPage(title, slug string) lms.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := lms.Page{PageID: s.id(), URL: slug, Title: title, Published: true}
	s.Pages = append(s.Pages, p)
	return p
}

func (s *Server) AddModule(name string, items ...lms.ModuleItem) lms.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := lms.Module{ID: s.id(), Name: name, Position: len(s.Modules) + 1, Published: true}
	for _, it := range items {
		it.ID = s.id()
		it.ModuleID = m.ID
		s.Items[m.ID] = append(s.Items[m.ID], it)
	}
	m.ItemsCount = len(items)
	s.Modules = append(s.Modules, m)
	return m
}

func (s *Server) AddSubmission(assignmentID int64, sub lms.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == 0 {
		sub.ID = s.id()
	}
	s.Submissions[assignmentID] = append(s.Submissions[assignmentID], sub)
}

// AddFile serves content at the returned URL.
func (s *Server) AddFile(name string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[name] = content
	return s.URL + "/files/" + name
}

// Assignment returns the current state of an assignment.
func (s *Server) Assignment(id int64) (lms.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.assignmentIndex(id); i >= 0 {
		return s.Assignments[i], true
	}
	return lms.Assignment{}, false
}

// RequestsMatching returns the recorded requests with the given method and a path containing part.
func (s *Server) RequestsMatching(method, part string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.Requests {
		if r.Method == method && strings.Contains(r.Path, part) {
			out = append(out, r)
		}
	}
	return out
}

// Middleware

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		var body []byte
		if req.Body != nil {
			body, _ = ioutil.ReadAll(req.Body)
			req.Body = ioutil.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.Requests = append(s.Requests, Request{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.RawQuery,
			Body:   string(body),
		})
		f, failed := s.failures[req.Method+" "+req.URL.Path]
		s.mu.Unlock()

		if failed {
			return echo.NewHTTPError(f.status, f.message)
		}
		return next(ctx)
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Header.Get("Authorization") != "Bearer "+Token {
			return errUnauthorized
		}
		return next(ctx)
	}
}

func (s *Server) checkCourse(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Param("course") != CourseID {
			return errNotFound
		}
		return next(ctx)
	}
}

// paginate answers with one page of items and the Link header to the next one.
func (s *Server) paginate(ctx echo.Context, items []interface{}) error {
	if s.PageSize <= 0 || len(items) <= s.PageSize {
		return ctx.JSON(http.StatusOK, items)
	}
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * s.PageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + s.PageSize
	if end >= len(items) {
		end = len(items)
	} else {
		next := fmt.Sprintf("%s%s?page=%d&per_page=%d", s.URL, ctx.Request().URL.Path, page+1, s.PageSize)
		ctx.Response().Header().Set("Link", fmt.Sprintf(`<%s>; rel="current", <%s>; rel="next"`, ctx.Request().URL.String(), next))
	}
	return ctx.JSON(http.StatusOK, items[start:end])
}

func paramID(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, errNotFound
	}
	return id, nil
}

func (s *Server) assignmentIndex(id int64) int {
	for i, a := range s.Assignments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) moduleIndex(id int64) int {
	for i, m := range s.Modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) sortModules() {
	sort.SliceStable(s.Modules, func(i, j int) bool { return s.Modules[i].Position < s.Modules[j].Position })
}
