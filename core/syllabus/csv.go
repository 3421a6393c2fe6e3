package syllabus

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	MaxCSVDeliverables = 3
	MaxCSVReadings     = 5
)

// CSVHeader is the column order of the schedule spreadsheet.
var CSVHeader = func() []string {
	h := []string{"Week", "Day", "Title", "Link"}
	for i := 1; i <= MaxCSVDeliverables; i++ {
		n := strconv.Itoa(i)
		h = append(h, "dtitle"+n, "dlink"+n, "dpoints"+n, "drubric"+n, "dtype"+n)
	}
	for i := 1; i <= MaxCSVReadings; i++ {
		n := strconv.Itoa(i)
		h = append(h, "rtitle"+n, "rlink"+n)
	}
	return h
}()

// ReadScheduleCSV reads schedule entries from the spreadsheet layout. Missing columns read as empty.
func ReadScheduleCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading schedule csv")
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	entries := make([]Entry, 0, len(records)-1)
	for _, rec := range records[1:] {
		col := func(name string) string {
			if i, ok := index[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		e := Entry{
			Week:  FlexString(col("Week")),
			Date:  FlexString(col("Day")),
			Title: col("Title"),
			Link:  Link(col("Link")),
		}
		for i := 1; i <= MaxCSVDeliverables; i++ {
			n := strconv.Itoa(i)
			title := col("dtitle" + n)
			if title == "" {
				continue
			}
			e.Deliverables = append(e.Deliverables, DeliverableSpec{
				DTitle:          title,
				DLink:           Link(col("dlink" + n)),
				Points:          Flex{Value: col("dpoints" + n)},
				SubmissionTypes: col("dtype" + n),
				RubricPath:      col("drubric" + n),
			})
		}
		for i := 1; i <= MaxCSVReadings; i++ {
			n := strconv.Itoa(i)
			title := col("rtitle" + n)
			if title == "" {
				continue
			}
			e.Readings = append(e.Readings, Reading{RTitle: title, RLink: Link(col("rlink" + n))})
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteScheduleCSV writes entries in the spreadsheet layout, keeping at most
// MaxCSVDeliverables deliverables and MaxCSVReadings readings per entry.
func WriteScheduleCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "writing schedule csv")
	}
	for _, e := range entries {
		row := []string{e.Week.String(), e.Date.String(), e.Title, e.Link.String()}
		for i := 0; i < MaxCSVDeliverables; i++ {
			if i < len(e.Deliverables) {
				d := e.Deliverables[i]
				row = append(row, d.DTitle, d.DLink.String(), d.Points.String(), d.RubricPath, d.SubmissionTypes)
			} else {
				row = append(row, "", "", "", "", "")
			}
		}
		for i := 0; i < MaxCSVReadings; i++ {
			if i < len(e.Readings) {
				r := e.Readings[i]
				row = append(row, r.RTitle, r.RLink.String())
			} else {
				row = append(row, "", "")
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "writing schedule csv")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "writing schedule csv")
}

// EncodeSchedule writes entries as a `schedule:` YAML block, ready to paste into front matter.
func EncodeSchedule(w io.Writer, entries []Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Schedule []Entry `yaml:"schedule"`
	}{entries}
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding schedule")
	}
	return errors.Wrap(enc.Close(), "encoding schedule")
}
