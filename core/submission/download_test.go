package submission_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/submission"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/services/canvas"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/services/canvas/canvastest"
)

var _ submission.Source = (*canvas.Client)(nil)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lab 1: Shell/Git", "Lab 1_ Shell_Git"},
		{"report-final_v2.pdf", "report-final_v2.pdf"},
		{"Zoë O'Neil", "Zoë O_Neil"},
		{"a*b?c", "a_b_c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, submission.Sanitize(tt.in))
		})
	}
	assert.Equal(t, "course_101_assignment_7_HW_ 1", submission.DirName("101", 7, "HW: 1"))
}

func TestDescriptionText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"plain", "Just text", "Just text"},
		{
			"blocks",
			`<p>Write a <b>parser</b>.</p><ul><li>Part 1</li><li>Part 2</li></ul><p>See <a href="https://x.edu/spec?a=1&amp;b=2">the notes</a></p>`,
			"Write a parser.\n- Part 1\n- Part 2\nSee the notes (https://x.edu/spec?a=1&b=2)",
		},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"scripts", "<p>keep</p><script>drop()</script>", "keep"},
		{"bare link", `<a href="https://x.edu">https://x.edu</a>`, "https://x.edu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, submission.DescriptionText(tt.in))
		})
	}
}

func TestDownload(t *testing.T) {
	srv := canvastest.NewServer()
	defer srv.Close()
	client := canvas.NewClient(canvas.Options{BaseURL: srv.URL, Token: canvastest.Token, CourseID: canvastest.CourseID})

	a := srv.AddAssignment(lms.Assignment{
		Name:        "Lab 1: Shell",
		DueAt:       "2025-09-02T03:59:59Z",
		Description: "<p>Submit your <b>script</b>.</p>",
	})
	txtURL := srv.AddFile("notes.txt", []byte("hello"))
	zipURL := srv.AddFile("code.zip", zipBytes(t, map[string]string{"main.go": "package main", "lib/util.go": "package lib"}))
	srv.AddSubmission(a.ID, lms.Submission{
		User: &lms.User{Name: "Ada Lovelace"},
		Attachments: []lms.Attachment{
			{Filename: "notes.txt", URL: txtURL},
			{Filename: "code.zip", URL: zipURL},
		},
	})
	srv.AddSubmission(a.ID, lms.Submission{User: &lms.User{Name: "Bob"}})
	srv.AddSubmission(a.ID, lms.Submission{
		User:        &lms.User{Name: "Cy"},
		Attachments: []lms.Attachment{{Filename: "gone.pdf", URL: srv.URL + "/files/gone.pdf"}},
	})
	srv.FailOn(http.MethodGet, "/files/gone.pdf", http.StatusNotFound)

	root := t.TempDir()
	res, err := submission.Download(context.Background(), client, canvastest.CourseID, a.ID, submission.Options{Root: root})
	require.NoError(t, err)

	dir := filepath.Join(root, "course_101_assignment_"+itoa(a.ID)+"_Lab 1_ Shell")
	assert.Equal(t, dir, res.Dir)
	assert.Equal(t, "Assignment Name: Lab 1: Shell\nDue At: 2025-09-02T03:59:59Z\nDescription:\nSubmit your script.\n",
		readFile(t, filepath.Join(dir, submission.PromptFile)))

	assert.Equal(t, "hello", readFile(t, filepath.Join(dir, "Ada Lovelace_notes.txt")))
	assert.FileExists(t, filepath.Join(dir, "Ada Lovelace_code.zip"))
	assert.Equal(t, "package main", readFile(t, filepath.Join(dir, "Ada Lovelace_code", "main.go")))
	assert.Equal(t, "package lib", readFile(t, filepath.Join(dir, "Ada Lovelace_code", "lib", "util.go")))
	assert.NoFileExists(t, filepath.Join(dir, "Cy_gone.pdf"))

	assert.Equal(t, 3, res.Actions.Count(core.TagAdd))
	assert.Equal(t, []string{"No attachments found for Bob."}, messages(res.Actions, core.TagSkip))
	errs := messages(res.Actions, core.TagError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Failed to handle attachment for Cy")
}

func TestDownload_NoDescription(t *testing.T) {
	srv := canvastest.NewServer()
	defer srv.Close()
	client := canvas.NewClient(canvas.Options{BaseURL: srv.URL, Token: canvastest.Token, CourseID: canvastest.CourseID})
	a := srv.AddAssignment(lms.Assignment{Name: "Quiz"})

	res, err := submission.Download(context.Background(), client, canvastest.CourseID, a.ID, submission.Options{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "Assignment Name: Quiz\nDue At: none\nDescription:\n[No description]\n",
		readFile(t, filepath.Join(res.Dir, submission.PromptFile)))
	assert.Empty(t, res.Actions)
}

func TestDownload_MissingAssignment(t *testing.T) {
	srv := canvastest.NewServer()
	defer srv.Close()
	client := canvas.NewClient(canvas.Options{BaseURL: srv.URL, Token: canvastest.Token, CourseID: canvastest.CourseID})

	root := t.TempDir()
	_, err := submission.Download(context.Background(), client, canvastest.CourseID, 42, submission.Options{Root: root})
	require.Error(t, err)
	entries, _ := ioutil.ReadDir(root)
	assert.Empty(t, entries)
}

func TestExtract_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	require.NoError(t, ioutil.WriteFile(archive, zipBytes(t, map[string]string{"../evil.txt": "x"}), 0o644))

	assert.True(t, submission.IsZip(archive))
	_, err := submission.Extract(archive, filepath.Join(dir, "out"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "evil.txt"))

	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, ioutil.WriteFile(plain, []byte("PK"), 0o644))
	assert.False(t, submission.IsZip(plain))
	assert.False(t, submission.IsZip(filepath.Join(dir, "missing")))
}

func TestExtract_RootEntry(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"./", "./src/", "./src/main.go", "README"} {
		f, err := w.Create(name)
		require.NoError(t, err)
		if !strings.HasSuffix(name, "/") {
			_, err = f.Write([]byte(name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	archive := filepath.Join(dir, "project.zip")
	require.NoError(t, ioutil.WriteFile(archive, buf.Bytes(), 0o644))

	out := filepath.Join(dir, "out")
	n, err := submission.Extract(archive, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "./src/main.go", readFile(t, filepath.Join(out, "src", "main.go")))
	assert.Equal(t, "README", readFile(t, filepath.Join(out, "README")))
}

func messages(actions core.Actions, tag string) []string {
	var out []string
	for _, a := range actions {
		if a.Tag == tag {
			out = append(out, a.Message)
		}
	}
	return out
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
