// Package canvas is a small client for the Canvas LMS REST API, limited to the
// resources the course tools reconcile.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

var (
	ErrNotFound = errors.New("canvas: resource not found")

	nextLinkRegex = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="next"`)
)

const maxErrorBody = 200

// APIError is returned for any response with a status >= 400.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", err.Method, err.URL, err.StatusCode, err.Body)
}

type Options struct {
	BaseURL  string
	Token    string
	CourseID string
	PerPage  int
	// A random pause in [MinDelay, MaxDelay] precedes every request; MaxDelay 0 disables it.
	MinDelay   time.Duration
	MaxDelay   time.Duration
	HTTPClient *http.Client
	Logger     core.Logger
}

type Client struct {
	opts  Options
	http  *http.Client
	rand  *rand.Rand
	sleep func(time.Duration)
}

func NewClient(opts Options) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.PerPage <= 0 {
		opts.PerPage = 100
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		opts:  opts,
		http:  hc,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
	}
}

// CourseID is the id of the course every call is scoped to.
func (c *Client) CourseID() string { return c.opts.CourseID }

func (c *Client) coursePath(format string, args ...interface{}) string {
	return "/api/v1/courses/" + url.PathEscape(c.opts.CourseID) + fmt.Sprintf(format, args...)
}

func (c *Client) pause() {
	if c.opts.MaxDelay <= 0 {
		return
	}
	d := c.opts.MinDelay
	if spread := c.opts.MaxDelay - c.opts.MinDelay; spread > 0 {
		d += time.Duration(c.rand.Int63n(int64(spread) + 1))
	}
	c.sleep(d)
}

// send performs one request. The target is absolute or relative to the API base URL.
func (c *Client) send(ctx context.Context, method, target string, in interface{}) (*http.Response, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.opts.BaseURL + target
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.pause()
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(fmt.Sprintf("canvas: %s %s", method, target))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, target)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		data, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(data)}
		if resp.StatusCode == http.StatusNotFound {
			return nil, errors.Wrap(ErrNotFound, apiErr.Error())
		}
		return nil, errors.WithStack(apiErr)
	}
	return resp, nil
}

// do sends a request and decodes the JSON response into out, when out is not nil.
func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) error {
	resp, err := c.send(ctx, method, target, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(ioutil.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, target)
	}
	return nil
}

// list follows the rel="next" links of a paginated GET. per_page (and query) are only
// sent on the first request; the next links already carry them.
func (c *Client) list(ctx context.Context, path string, query url.Values, page func(dec *json.Decoder) error) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", fmt.Sprint(c.opts.PerPage))
	target := path + "?" + query.Encode()

	for target != "" {
		resp, err := c.send(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		err = page(json.NewDecoder(resp.Body))
		resp.Body.Close()
		if err != nil {
			return errors.Wrapf(err, "decoding %s", target)
		}
		target = nextLink(resp.Header.Get("Link"))
	}
	return nil
}

func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if m := nextLinkRegex.FindStringSubmatch(strings.TrimSpace(part)); m != nil {
			return m[1]
		}
	}
	return ""
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// Download streams the file at an attachment URL into w.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	n, err := io.Copy(w, resp.Body)
	return n, errors.Wrap(err, "downloading file")
}
