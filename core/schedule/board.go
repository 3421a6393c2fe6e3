package schedule

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrNotItem       = errors.New("node is not an item")
	ErrNotCategory   = errors.New("node is not a category")
	ErrEmptyTitle    = errors.New("title is empty")
	ErrCrossCategory = errors.New("items can only move within the same category")
)

// Kind tells days, categories and items apart.
type Kind int

const (
	KindDay Kind = iota
	KindCategory
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindDay:
		return "day"
	case KindCategory:
		return "category"
	default:
		return "item"
	}
}

// Node is one row of the board tree. Ids are stable for the lifetime of the board.
type Node struct {
	ID       int
	Kind     Kind
	Parent   int
	Children []int
	Category Category
	Item     *Item

	day *Day
}

// Board is the schedule as an arena of typed nodes: days hold one node per category,
// categories hold items.
type Board struct {
	nodes  map[int]*Node
	days   []int
	nextID int
}

// NewBoard lays out the days as a tree.
func NewBoard(days []Day) *Board {
	b := &Board{nodes: map[int]*Node{}}
	for i := range days {
		d := days[i]
		dayNode := b.newNode(KindDay, 0)
		dayNode.day = &d
		b.days = append(b.days, dayNode.ID)
		for _, c := range Categories {
			cat := b.newNode(KindCategory, dayNode.ID)
			cat.Category = c
			dayNode.Children = append(dayNode.Children, cat.ID)
			for _, it := range d.Items(c) {
				b.addItem(cat, it)
			}
		}
		d.Readings, d.Deliverables, d.Lectures = nil, nil, nil
	}
	return b
}

func (b *Board) newNode(kind Kind, parent int) *Node {
	b.nextID++
	n := &Node{ID: b.nextID, Kind: kind, Parent: parent}
	b.nodes[n.ID] = n
	return n
}

func (b *Board) addItem(cat *Node, it Item) *Node {
	n := b.newNode(KindItem, cat.ID)
	n.Category = cat.Category
	item := it
	n.Item = &item
	cat.Children = append(cat.Children, n.ID)
	return n
}

// Node returns the node with the given id.
func (b *Board) Node(id int) (*Node, bool) {
	n, ok := b.nodes[id]
	return n, ok
}

// DayIDs returns the day nodes in schedule order.
func (b *Board) DayIDs() []int { return b.days }

// Day returns the week and slot of a day node.
func (b *Board) Day(id int) (Day, bool) {
	n, ok := b.nodes[id]
	if !ok || n.Kind != KindDay {
		return Day{}, false
	}
	return *n.day, true
}

func (b *Board) item(id int) (*Node, error) {
	n, ok := b.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	if n.Kind != KindItem {
		return nil, errors.Wrapf(ErrNotItem, "node %d", id)
	}
	return n, nil
}

// EditTitle sets the trimmed title of an item. A blank title is rejected.
func (b *Board) EditTitle(id int, title string) error {
	n, err := b.item(id)
	if err != nil {
		return err
	}
	if title = strings.TrimSpace(title); title == "" {
		return errors.Wrapf(ErrEmptyTitle, "node %d", id)
	}
	n.Item.Title = title
	return nil
}

// EditLink sets the link of an item. A blank link removes it.
func (b *Board) EditLink(id int, link string) error {
	n, err := b.item(id)
	if err != nil {
		return err
	}
	n.Item.Link = strings.TrimSpace(link)
	return nil
}

// Delete removes an item.
func (b *Board) Delete(id int) error {
	n, err := b.item(id)
	if err != nil {
		return err
	}
	b.detach(n)
	delete(b.nodes, id)
	return nil
}

// Add appends a new item with the given title under a category node and returns it.
func (b *Board) Add(categoryID int, title string) (*Node, error) {
	cat, ok := b.nodes[categoryID]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", categoryID)
	}
	if cat.Kind != KindCategory {
		return nil, errors.Wrapf(ErrNotCategory, "node %d", categoryID)
	}
	if title = strings.TrimSpace(title); title == "" {
		return nil, ErrEmptyTitle
	}
	return b.addItem(cat, Item{Title: title}), nil
}

// Move drops the item src on target. On an item it lands right before it, or right
// after it when after is set; on a category it is appended; on a day it is appended
// to that day's list of the item's own category. Items never change category.
func (b *Board) Move(src, target int, after bool) error {
	n, err := b.item(src)
	if err != nil {
		return err
	}
	t, ok := b.nodes[target]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %d", target)
	}
	if src == target {
		return nil
	}

	var cat *Node
	switch t.Kind {
	case KindItem:
		cat = b.nodes[t.Parent]
	case KindCategory:
		cat = t
	case KindDay:
		cat = b.category(t, n.Category)
	}
	if cat.Category != n.Category {
		return errors.Wrapf(ErrCrossCategory, "%s onto %s", n.Category, cat.Category)
	}

	b.detach(n)
	pos := len(cat.Children)
	if t.Kind == KindItem {
		pos = indexOf(cat.Children, t.ID)
		if after {
			pos++
		}
	}
	cat.Children = insertAt(cat.Children, pos, n.ID)
	n.Parent = cat.ID
	return nil
}

func (b *Board) category(day *Node, c Category) *Node {
	for _, id := range day.Children {
		if cat := b.nodes[id]; cat.Category == c {
			return cat
		}
	}
	return nil
}

func (b *Board) detach(n *Node) {
	parent := b.nodes[n.Parent]
	if i := indexOf(parent.Children, n.ID); i >= 0 {
		parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	}
}

// Days rebuilds the day list from the tree.
func (b *Board) Days() []Day {
	days := make([]Day, 0, len(b.days))
	for _, id := range b.days {
		dayNode := b.nodes[id]
		d := *dayNode.day
		for _, catID := range dayNode.Children {
			cat := b.nodes[catID]
			var items []Item
			for _, itemID := range cat.Children {
				items = append(items, *b.nodes[itemID].Item)
			}
			d.setItems(cat.Category, items)
		}
		days = append(days, d)
	}
	return days
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []int, pos int, id int) []int {
	ids = append(ids, 0)
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	return ids
}
