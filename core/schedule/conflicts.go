package schedule

import (
	"sort"
	"strings"
)

// Role of a deliverable title.
const (
	RoleNone      = ""
	RoleHandedOut = "Handed Out"
	RoleDue       = "Due"
)

// dateKey orders days by (week, slot); unparsable parts count as 0.
type dateKey struct{ week, slot int }

func (k dateKey) less(o dateKey) bool {
	if k.week != o.week {
		return k.week < o.week
	}
	return k.slot < o.slot
}

func keyOf(d *Day) dateKey {
	w, _ := d.Week.Int()
	s, _ := d.Slot.Int()
	return dateKey{w, s}
}

// DeliverableBase splits a deliverable title into its base and its role
// ("Handed Out", "Due" or none). The base keeps its case.
func DeliverableBase(title string) (string, string) {
	t := strings.TrimSpace(title)
	if strings.HasSuffix(t, "[link]") {
		t = strings.TrimRight(strings.TrimSuffix(t, "[link]"), " \t\r\n")
	}
	low := strings.ToLower(t)
	for _, suffix := range []string{"handed out", "due"} {
		if strings.HasSuffix(low, suffix) {
			base := strings.TrimRight(t[:len(t)-len(suffix)], " -–:•")
			role := RoleDue
			if suffix == "handed out" {
				role = RoleHandedOut
			}
			return strings.TrimSpace(base), role
		}
	}
	return t, RoleNone
}

type placed struct {
	id  int
	key dateKey
}

// Conflicts returns the ids of the items that are flagged, in ascending order:
// every lecture after the first on a day, and the deliverables of a base title whose
// Due lands before or on the same meeting as its earliest Handed Out.
func (b *Board) Conflicts() []int {
	flagged := map[int]bool{}
	handed := map[string][]placed{}
	due := map[string][]placed{}

	for _, dayID := range b.days {
		dayNode := b.nodes[dayID]
		key := keyOf(dayNode.day)
		for _, catID := range dayNode.Children {
			cat := b.nodes[catID]
			switch cat.Category {
			case Lectures:
				for i, id := range cat.Children {
					if i > 0 {
						flagged[id] = true
					}
				}
			case Deliverables:
				for _, id := range cat.Children {
					base, role := DeliverableBase(b.nodes[id].Item.Title)
					switch role {
					case RoleHandedOut:
						handed[base] = append(handed[base], placed{id, key})
					case RoleDue:
						due[base] = append(due[base], placed{id, key})
					}
				}
			}
		}
	}

	for base, ds := range due {
		hs := handed[base]
		if len(hs) == 0 {
			continue
		}
		earliest := hs[0].key
		for _, h := range hs[1:] {
			if h.key.less(earliest) {
				earliest = h.key
			}
		}
		for _, d := range ds {
			if d.key.less(earliest) {
				flagged[d.id] = true
				for _, h := range hs {
					flagged[h.id] = true
				}
				continue
			}
			for _, h := range hs {
				if h.key == d.key {
					flagged[d.id] = true
					flagged[h.id] = true
				}
			}
		}
	}

	ids := make([]int, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
