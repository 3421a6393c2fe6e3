package schedule

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

func testDays() []Day {
	return []Day{
		{
			Week: syllabus.FlexInt(1), Slot: syllabus.FlexInt(0),
			Readings:     []Item{{Title: "R1"}, {Title: "R2"}, {Title: "R3"}},
			Deliverables: []Item{{Title: "D1"}},
			Lectures:     []Item{{Title: "L1"}},
		},
		{
			Week: syllabus.FlexInt(1), Slot: syllabus.FlexInt(1),
			Readings: []Item{{Title: "R4"}},
		},
	}
}

// find returns the id of the item with the given title.
func find(t *testing.T, b *Board, title string) int {
	t.Helper()
	for _, dayID := range b.DayIDs() {
		day, _ := b.Node(dayID)
		for _, catID := range day.Children {
			cat, _ := b.Node(catID)
			for _, id := range cat.Children {
				if n, _ := b.Node(id); n.Item.Title == title {
					return id
				}
			}
		}
	}
	t.Fatalf("no item %q", title)
	return 0
}

func categoryID(t *testing.T, b *Board, day int, c Category) int {
	t.Helper()
	n, ok := b.Node(b.DayIDs()[day])
	require.True(t, ok)
	return n.Children[int(c)]
}

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestNewBoard(t *testing.T) {
	b := NewBoard(testDays())
	require.Len(t, b.DayIDs(), 2)

	day, ok := b.Node(b.DayIDs()[0])
	require.True(t, ok)
	assert.Equal(t, KindDay, day.Kind)
	require.Len(t, day.Children, 3)
	for i, id := range day.Children {
		cat, _ := b.Node(id)
		assert.Equal(t, KindCategory, cat.Kind)
		assert.Equal(t, Categories[i], cat.Category)
		assert.Equal(t, day.ID, cat.Parent)
	}

	r2, _ := b.Node(find(t, b, "R2"))
	assert.Equal(t, KindItem, r2.Kind)
	assert.Equal(t, Readings, r2.Category)

	d, ok := b.Day(day.ID)
	require.True(t, ok)
	assert.Equal(t, "1", d.Week.String())
	_, ok = b.Day(r2.ID)
	assert.False(t, ok)
}

func TestBoard_Move(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target func(t *testing.T, b *Board) int
		after  bool
		want   [2][]string // readings of day 0 and day 1
	}{
		{
			name:   "before a later item",
			src:    "R1",
			target: func(t *testing.T, b *Board) int { return find(t, b, "R3") },
			want:   [2][]string{{"R2", "R1", "R3"}, {"R4"}},
		},
		{
			name:   "after a later item",
			src:    "R1",
			target: func(t *testing.T, b *Board) int { return find(t, b, "R3") },
			after:  true,
			want:   [2][]string{{"R2", "R3", "R1"}, {"R4"}},
		},
		{
			name:   "before an earlier item",
			src:    "R3",
			target: func(t *testing.T, b *Board) int { return find(t, b, "R1") },
			want:   [2][]string{{"R3", "R1", "R2"}, {"R4"}},
		},
		{
			name:   "onto an item of another day",
			src:    "R2",
			target: func(t *testing.T, b *Board) int { return find(t, b, "R4") },
			after:  true,
			want:   [2][]string{{"R1", "R3"}, {"R4", "R2"}},
		},
		{
			name:   "onto a category",
			src:    "R4",
			target: func(t *testing.T, b *Board) int { return categoryID(t, b, 0, Readings) },
			want:   [2][]string{{"R1", "R2", "R3", "R4"}, nil},
		},
		{
			name:   "onto a day",
			src:    "R1",
			target: func(t *testing.T, b *Board) int { return b.DayIDs()[1] },
			want:   [2][]string{{"R2", "R3"}, {"R4", "R1"}},
		},
		{
			name:   "onto itself",
			src:    "R2",
			target: func(t *testing.T, b *Board) int { return find(t, b, "R2") },
			want:   [2][]string{{"R1", "R2", "R3"}, {"R4"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(testDays())
			src := find(t, b, tt.src)
			require.NoError(t, b.Move(src, tt.target(t, b), tt.after))

			days := b.Days()
			assert.Equal(t, tt.want[0], nilIfEmpty(titles(days[0].Readings)))
			assert.Equal(t, tt.want[1], nilIfEmpty(titles(days[1].Readings)))

			n, _ := b.Node(src)
			parent, _ := b.Node(n.Parent)
			assert.Contains(t, parent.Children, src)
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestBoard_MoveAcrossCategories(t *testing.T) {
	b := NewBoard(testDays())
	before := b.Days()

	err := b.Move(find(t, b, "R1"), find(t, b, "D1"), false)
	assert.Equal(t, ErrCrossCategory, errors.Cause(err))
	err = b.Move(find(t, b, "L1"), categoryID(t, b, 1, Readings), false)
	assert.Equal(t, ErrCrossCategory, errors.Cause(err))
	assert.Equal(t, before, b.Days())

	// a day target picks the item's own category
	require.NoError(t, b.Move(find(t, b, "D1"), b.DayIDs()[1], false))
	days := b.Days()
	assert.Empty(t, days[0].Deliverables)
	assert.Equal(t, []string{"D1"}, titles(days[1].Deliverables))
}

func TestBoard_Edit(t *testing.T) {
	b := NewBoard(testDays())
	id := find(t, b, "R1")

	require.NoError(t, b.EditTitle(id, "  Chapter 1  "))
	require.NoError(t, b.EditLink(id, " https://example.edu/ch1 "))
	assert.Equal(t, Item{Title: "Chapter 1", Link: "https://example.edu/ch1"}, b.Days()[0].Readings[0])

	require.NoError(t, b.EditLink(id, "   "))
	assert.Equal(t, "", b.Days()[0].Readings[0].Link)

	for _, blank := range []string{"", "  ", "\t\n"} {
		err := b.EditTitle(id, blank)
		assert.Equal(t, ErrEmptyTitle, errors.Cause(err), "%q", blank)
	}
	assert.Equal(t, "Chapter 1", b.Days()[0].Readings[0].Title)

	err := b.EditTitle(categoryID(t, b, 0, Readings), "x")
	assert.Equal(t, ErrNotItem, errors.Cause(err))
	err = b.EditLink(9999, "x")
	assert.Equal(t, ErrNodeNotFound, errors.Cause(err))
}

func TestBoard_AddDelete(t *testing.T) {
	b := NewBoard(testDays())
	cat := categoryID(t, b, 1, Deliverables)

	n, err := b.Add(cat, "  Project Due ")
	require.NoError(t, err)
	assert.Equal(t, KindItem, n.Kind)
	assert.Equal(t, Deliverables, n.Category)
	assert.Equal(t, cat, n.Parent)
	assert.Equal(t, []string{"Project Due"}, titles(b.Days()[1].Deliverables))

	_, err = b.Add(cat, "   ")
	assert.Equal(t, ErrEmptyTitle, err)
	_, err = b.Add(b.DayIDs()[0], "x")
	assert.Equal(t, ErrNotCategory, errors.Cause(err))

	require.NoError(t, b.Delete(find(t, b, "R2")))
	assert.Equal(t, []string{"R1", "R3"}, titles(b.Days()[0].Readings))
	_, ok := b.Node(n.ID + 1)
	assert.False(t, ok)

	// ids stay stable after a delete
	r3 := find(t, b, "R3")
	require.NoError(t, b.Delete(n.ID))
	assert.Equal(t, r3, find(t, b, "R3"))
	assert.Empty(t, b.Days()[1].Deliverables)

	err = b.Delete(n.ID)
	assert.Equal(t, ErrNodeNotFound, errors.Cause(err))
}
