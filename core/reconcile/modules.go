package reconcile

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/lms"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/syllabus"
)

var doubledActivityRegex = regexp.MustCompile(`(?i)^(?:activity\s*:\s*){2,}`)

type (
	// moduleKey identifies a piece of content attached to a module during one rebuild.
	moduleKey struct {
		module  int64
		content string
	}

	builder struct {
		*run
		plan *syllabus.Plan

		modules      map[string]int64 // by meeting day
		assignByBase map[string]lms.Assignment
		pagesByTitle map[string]lms.Page
		attached     map[string]map[moduleKey]bool
	}
)

func dayKey(d time.Time) string { return d.Format("2006-01-02") }

func moduleName(m syllabus.Meeting) string {
	return syllabus.DateHeader(m.Date) + " - " + strings.TrimSpace(m.Title)
}

// RebuildModules deletes every module of the course and rebuilds one module per meeting from
// the plan: the meeting link, activities and readings, handed-out assignment links on their
// meeting day and due assignments on the meeting day they are due. Modules left empty are
// unpublished. Only failing to list the course modules, assignments or pages fails the call.
func RebuildModules(ctx context.Context, course Course, plan *syllabus.Plan, opts Options) (core.Actions, error) {
	b := &builder{
		run:     newRun(ctx, course, opts),
		plan:    plan,
		modules: make(map[string]int64, len(plan.Meetings)),
		attached: map[string]map[moduleKey]bool{
			"assignment": {}, "link": {}, "page": {}, "note": {}, "handout": {},
		},
	}

	if err := b.deleteModules(); err != nil {
		return b.actions, err
	}
	b.createModules()
	if err := b.loadLookups(); err != nil {
		return b.actions, err
	}

	for _, m := range plan.Meetings {
		modID, ok := b.modules[dayKey(m.Date)]
		if !ok {
			continue
		}
		if m.Link != "" {
			b.addPageOrURL(modID, syllabus.ActivityLabel(m.Title), m.Link)
		}
		for _, act := range m.Activities {
			b.addPageOrURL(modID, syllabus.ActivityLabel(act.Title), act.URL)
		}
		for _, rd := range m.Readings {
			if rd.URL != "" {
				b.addPageOrURL(modID, strings.TrimSpace(rd.Title), rd.URL)
			} else {
				b.addNote(modID, rd.Title)
			}
		}
	}
	for _, d := range plan.HandedOut {
		b.addHandout(d)
	}
	for _, d := range plan.Due {
		b.addDue(d)
	}
	if opts.Apply {
		b.unpublishEmpty()
	}
	return b.actions, nil
}

func (b *builder) deleteModules() error {
	existing, err := b.course.ListModules(b.ctx)
	if err != nil {
		return errors.Wrap(err, "listing modules")
	}
	for _, mod := range existing {
		items, err := b.course.ListModuleItems(b.ctx, mod.ID)
		if err != nil {
			b.add(core.TagError, "Failed to list items of module id=%d: %v", mod.ID, err)
		}
		for _, it := range items {
			if !b.opts.Apply {
				b.planned(core.TagDelItem, "'%s' from '%s'", it.Title, mod.Name)
				continue
			}
			if err := b.course.DeleteModuleItem(b.ctx, mod.ID, it.ID); err != nil {
				b.add(core.TagError, "Failed to delete module item id=%d in module id=%d: %v", it.ID, mod.ID, err)
				continue
			}
			b.add(core.TagDelItem, "'%s' from '%s'", it.Title, mod.Name)
			b.record(core.TagDelete, "module_item", it.ID, it.Title, it)
		}

		if !b.opts.Apply {
			b.planned(core.TagDelModule, "'%s'", mod.Name)
			continue
		}
		if err := b.course.DeleteModule(b.ctx, mod.ID); err != nil {
			b.add(core.TagError, "Failed to delete module id=%d: %v", mod.ID, err)
			continue
		}
		b.add(core.TagDelModule, "'%s'", mod.Name)
		b.record(core.TagDelete, "module", mod.ID, mod.Name, mod)
	}
	return nil
}

// createModules creates one published module per meeting, in order. Dry-run mode
// uses -position as a placeholder id.
func (b *builder) createModules() {
	position := 1
	for _, m := range b.plan.Meetings {
		name := moduleName(m)
		modID := int64(-position)
		if b.opts.Apply {
			in := lms.ModuleInput{Name: name, Position: position, Published: lms.Bool(true)}
			mod, err := b.course.CreateModule(b.ctx, in)
			if err != nil {
				b.add(core.TagError, "Failed to create module '%s' at pos %d: %v", name, position, err)
				continue
			}
			modID = mod.ID
			b.record(core.TagCreate, "module", mod.ID, name, in)

			if _, err := b.course.UpdateModule(b.ctx, modID, lms.ModuleInput{Published: lms.Bool(true)}); err != nil {
				b.add(core.TagWarn, "Could not re-publish module '%s': %v", name, err)
			} else {
				b.add(core.TagPublish, "Module '%s' explicitly set to published", name)
			}
		}
		b.add(core.TagCreateModule, "'%s' at position %d", name, position)
		b.modules[dayKey(m.Date)] = modID
		position++
	}
}

func (b *builder) loadLookups() error {
	assignments, err := b.course.ListAssignments(b.ctx)
	if err != nil {
		return errors.Wrap(err, "listing assignments")
	}
	b.assignByBase = make(map[string]lms.Assignment, len(assignments))
	for _, a := range assignments {
		b.assignByBase[syllabus.BaseKey(a.Name)] = a
	}

	pages, err := b.course.ListPages(b.ctx)
	if err != nil {
		return errors.Wrap(err, "listing pages")
	}
	b.pagesByTitle = make(map[string]lms.Page, len(pages))
	for _, p := range pages {
		b.pagesByTitle[syllabus.Norm(p.Title)] = p
	}
	return nil
}

// seen reports whether key was already attached in this run under kind.
func (b *builder) seen(kind string, key moduleKey) bool {
	return b.attached[kind][key]
}

// createItem adds a published item to a module, then explicitly publishes it.
func (b *builder) createItem(modID int64, in lms.ModuleItemInput, logTitle string) (*lms.ModuleItem, error) {
	in.Published = lms.Bool(true)
	it, err := b.course.CreateModuleItem(b.ctx, modID, in)
	if err != nil {
		return nil, err
	}
	b.record(core.TagCreate, "module_item", it.ID, logTitle, in)

	if _, err := b.course.UpdateModuleItem(b.ctx, modID, it.ID, lms.ModuleItemInput{Published: lms.Bool(true)}); err != nil {
		b.add(core.TagWarn, "Could not publish item '%s' in module id=%d: %v", logTitle, modID, err)
	} else {
		b.add(core.TagPublish, "Item '%s' in module id=%d", logTitle, modID)
	}
	return it, nil
}

// addPageOrURL attaches the course page titled title, else an external link to url.
func (b *builder) addPageOrURL(modID int64, title, url string) {
	title = doubledActivityRegex.ReplaceAllString(strings.TrimSpace(title), "Activity: ")

	if p, ok := b.pagesByTitle[syllabus.Norm(title)]; ok {
		key := moduleKey{modID, p.URL}
		if b.seen("page", key) {
			b.add(core.TagSkip, "Page '%s' already in module id=%d", title, modID)
			return
		}
		if !b.opts.Apply {
			b.planned(core.TagAdd, "Page '%s' -> module id=%d", title, modID)
			return
		}
		if _, err := b.createItem(modID, lms.ModuleItemInput{Type: lms.ItemPage, PageURL: p.URL}, title); err != nil {
			b.add(core.TagError, "Failed to add page '%s' to module id=%d: %v", title, modID, err)
			return
		}
		b.attached["page"][key] = true
		b.add(core.TagAdd, "Page '%s' -> module id=%d", title, modID)
		return
	}

	resolved, ok := syllabus.ResolveURL(url, b.opts.BaseURL)
	if !ok {
		b.add(core.TagSkip, "No Canvas page and no URL found for '%s'", title)
		return
	}
	label := title
	if label == "" {
		label = resolved
	}
	key := moduleKey{modID, resolved}
	if b.seen("link", key) {
		b.add(core.TagSkip, "Link '%s' already in module id=%d", label, modID)
		return
	}
	if !b.opts.Apply {
		b.planned(core.TagAdd, "Link '%s' -> module id=%d", label, modID)
		return
	}
	in := lms.ModuleItemInput{Type: lms.ItemExternalURL, ExternalURL: resolved, NewTab: true, Title: title}
	if _, err := b.createItem(modID, in, label); err != nil {
		b.add(core.TagError, "Failed to add link '%s' to module id=%d: %v", label, modID, err)
		return
	}
	b.attached["link"][key] = true
	b.add(core.TagAdd, "Link '%s' -> module id=%d", label, modID)
}

// addNote attaches a text-only SubHeader for a reading without a link.
func (b *builder) addNote(modID int64, title string) {
	t := strings.TrimSpace(title)
	if t == "" {
		return
	}
	key := moduleKey{modID, t}
	if b.seen("note", key) {
		b.add(core.TagSkip, "Note '%s' already in module id=%d", t, modID)
		return
	}
	if !b.opts.Apply {
		b.planned(core.TagAdd, "Note '%s' -> module id=%d", t, modID)
		return
	}
	if _, err := b.createItem(modID, lms.ModuleItemInput{Type: lms.ItemSubHeader, Title: t}, t); err != nil {
		b.add(core.TagError, "Failed to add note '%s' to module id=%d: %v", t, modID, err)
		return
	}
	b.attached["note"][key] = true
	b.add(core.TagAdd, "Note '%s' -> module id=%d", t, modID)
}

// addHandout links the assignment of a handed-out deliverable from its meeting day.
func (b *builder) addHandout(d syllabus.Deliverable) {
	header := syllabus.DateHeader(d.Date)
	modID, ok := b.modules[dayKey(d.Date)]
	if !ok {
		b.add(core.TagWarn, "No date module exists for handout day %s for '%s'", dayKey(d.Date), d.Title)
		return
	}
	base := syllabus.BaseKey(d.Title)
	a, ok := b.assignByBase[base]
	if !ok {
		b.add(core.TagWarn, "No assignment found to link for handout '%s' (base='%s')", d.Title, base)
		return
	}
	url, ok := syllabus.ResolveURL(a.Link(), b.opts.BaseURL)
	if !ok {
		b.add(core.TagWarn, "Assignment has no html_url for handout '%s'", a.Name)
		return
	}
	key := moduleKey{modID, url}
	if b.seen("handout", key) {
		b.add(core.TagSkip, "Handout link already present for '%s' in module id=%d", a.Name, modID)
		return
	}

	title := syllabus.StripMarkers(d.Title) + " Handed Out"
	if !b.opts.Apply {
		b.planned(core.TagAdd, "Handout link '%s' -> module '%s'", title, header)
		return
	}
	in := lms.ModuleItemInput{Type: lms.ItemExternalURL, ExternalURL: url, NewTab: true, Title: title}
	if _, err := b.createItem(modID, in, title); err != nil {
		b.add(core.TagError, "Failed to add handout link '%s' to module '%s': %v", title, header, err)
		return
	}
	b.attached["handout"][key] = true
	b.add(core.TagAdd, "Handout link '%s' -> module '%s'", title, header)
}

// addDue attaches a due assignment to the module of the day students see it due: the
// meeting day itself (the cutoff falls early the next morning), else the next meeting.
func (b *builder) addDue(d syllabus.Deliverable) {
	day := d.Date
	if _, ok := b.modules[dayKey(day)]; !ok {
		next, found := b.plan.NextMeetingOnOrAfter(day)
		if !found {
			b.add(core.TagWarn, "No meeting on/after student-facing due day %s for '%s'", dayKey(day), d.Title)
			return
		}
		day = next
	}
	modID, ok := b.modules[dayKey(day)]
	if !ok {
		b.add(core.TagWarn, "No module exists for resolved day %s for '%s'", dayKey(day), d.Title)
		return
	}

	base := syllabus.BaseKey(d.Title)
	a, ok := b.assignByBase[base]
	if !ok {
		b.add(core.TagWarn, "No assignment object found for base '%s' to attach (due)", base)
		return
	}
	key := moduleKey{modID, itoa(a.ID)}
	if b.seen("assignment", key) {
		b.add(core.TagSkip, "Assignment '%s' already in module id=%d", a.Name, modID)
		return
	}
	if !b.opts.Apply {
		b.planned(core.TagAdd, "Assignment '%s' -> module id=%d", a.Name, modID)
		return
	}
	if _, err := b.createItem(modID, lms.ModuleItemInput{Type: lms.ItemAssignment, ContentID: a.ID}, a.Name); err != nil {
		b.add(core.TagError, "Failed to add assignment '%s' to module id=%d: %v", a.Name, modID, err)
		return
	}
	b.attached["assignment"][key] = true
	b.add(core.TagAdd, "Assignment '%s' -> module id=%d", a.Name, modID)
}

func (b *builder) unpublishEmpty() {
	done := make(map[int64]bool, len(b.modules))
	for _, m := range b.plan.Meetings {
		modID, ok := b.modules[dayKey(m.Date)]
		if !ok || modID < 0 || done[modID] {
			continue
		}
		done[modID] = true

		items, err := b.course.ListModuleItems(b.ctx, modID)
		if err != nil {
			b.add(core.TagWarn, "Failed to list items of module id=%d: %v", modID, err)
			continue
		}
		if len(items) > 0 {
			continue
		}
		in := lms.ModuleInput{Published: lms.Bool(false)}
		if _, err := b.course.UpdateModule(b.ctx, modID, in); err != nil {
			b.add(core.TagWarn, "Failed to unpublish empty module id=%d: %v", modID, err)
			continue
		}
		b.add(core.TagUnpublish, "Module '%s' (empty)", moduleName(m))
		b.record(core.TagUnpublish, "module", modID, moduleName(m), in)
	}
}
