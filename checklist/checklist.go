package checklist

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

const (
	uncheckedPrefix = "- [ ]"
	checkedPrefix   = "- [x]"

	completedHeading = "## Completed Tasks"
	pendingHeading   = "## Pending Tasks"
)

// itemPattern captures indent, checkbox state, and text.
// Example: "- [x] Installed dependencies" -> ["", "x", "Installed dependencies"]
var itemPattern = regexp.MustCompile(`^(\s*)- \[([ xX])\] (.+)$`)

var headingPattern = regexp.MustCompile(`^#{1,6}\s+(.+)$`)

// Item is a single tracked unit of work.
type Item struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Document is a two-section task checklist. The completed section holds
// only done items and the pending section only not-done items; item
// order within a section is preserved across edits. A Document is safe
// for concurrent use; the chat turn loop, the checklist tool, and the
// HTTP API all share one instance.
type Document struct {
	mtx       sync.RWMutex
	preamble  string
	completed []Item
	pending   []Item
}

// Stats is the document's progress summary.
type Stats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Pending   int     `json:"pending"`
	Progress  float64 `json:"progress"`
}

// Parse reads the plain-text checklist form. Section membership follows
// the checkbox state, not the heading an item appears under, so a stray
// `- [ ]` under Completed lands in Pending.
func Parse(content string) (*Document, error) {
	doc := &Document{}

	var preamble []string
	inBody := false

	for _, line := range strings.Split(content, "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil && isSectionHeading(m[1]) {
			inBody = true
			continue
		}

		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			if !inBody {
				preamble = append(preamble, line)
			}
			continue
		}

		item := Item{
			Text: strings.TrimSpace(m[3]),
			Done: strings.EqualFold(m[2], "x"),
		}

		if item.Done {
			doc.completed = append(doc.completed, item)
		} else {
			doc.pending = append(doc.pending, item)
		}
	}

	doc.preamble = strings.TrimRight(strings.Join(preamble, "\n"), "\n")

	return doc, nil
}

func isSectionHeading(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "completed task") || strings.HasPrefix(lower, "pending task")
}

// Preamble returns any text above the first section heading, verbatim.
func (d *Document) Preamble() string {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.preamble
}

// CompletedItems returns a copy of the completed section in order.
func (d *Document) CompletedItems() []Item {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return copyItems(d.completed)
}

// PendingItems returns a copy of the pending section in order.
func (d *Document) PendingItems() []Item {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return copyItems(d.pending)
}

func copyItems(items []Item) []Item {
	cpy := make([]Item, len(items))
	copy(cpy, items)
	return cpy
}

// Render is the inverse of Parse. Parsing the result yields the same
// items, statuses, and per-section order.
func (d *Document) Render() string {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	var sb strings.Builder

	if len(d.preamble) > 0 {
		sb.WriteString(d.preamble)
		sb.WriteString("\n\n")
	}

	sb.WriteString(completedHeading + "\n")
	for _, item := range d.completed {
		sb.WriteString(fmt.Sprintf("%s %s\n", checkedPrefix, item.Text))
	}

	sb.WriteString("\n" + pendingHeading + "\n")
	for _, item := range d.pending {
		sb.WriteString(fmt.Sprintf("%s %s\n", uncheckedPrefix, item.Text))
	}

	return sb.String()
}

// Add appends a new pending item.
func (d *Document) Add(text string) error {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return fmt.Errorf("item text is required")
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	if _, _, ok := d.find(text); ok {
		return fmt.Errorf("item matching %q already exists", text)
	}
	d.pending = append(d.pending, Item{Text: text})
	return nil
}

// Check marks the first pending item whose text contains the given text
// (case-insensitive) and moves it to the end of the completed section.
func (d *Document) Check(text string) (Item, error) {
	return d.move(text, true)
}

// Uncheck marks the first completed item matching the given text and
// moves it to the end of the pending section.
func (d *Document) Uncheck(text string) (Item, error) {
	return d.move(text, false)
}

func (d *Document) move(text string, done bool) (Item, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	from, to := &d.pending, &d.completed
	if !done {
		from, to = &d.completed, &d.pending
	}

	idx := matchIndex(*from, text)
	if idx < 0 {
		state := "pending"
		if !done {
			state = "completed"
		}
		return Item{}, fmt.Errorf("no %s item matches %q", state, text)
	}

	item := (*from)[idx]
	item.Done = done

	*from = append((*from)[:idx], (*from)[idx+1:]...)
	*to = append(*to, item)

	return item, nil
}

// Status reports whether an item matching the given text exists and
// whether it is done.
func (d *Document) Status(text string) (done bool, ok bool) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	item, _, ok := d.find(text)
	return item.Done, ok
}

func (d *Document) find(text string) (Item, int, bool) {
	if idx := matchIndex(d.completed, text); idx >= 0 {
		return d.completed[idx], idx, true
	}
	if idx := matchIndex(d.pending, text); idx >= 0 {
		return d.pending[idx], idx, true
	}
	return Item{}, -1, false
}

func matchIndex(items []Item, text string) int {
	needle := strings.ToLower(strings.TrimSpace(text))
	if len(needle) == 0 {
		return -1
	}
	for i, item := range items {
		if strings.Contains(strings.ToLower(item.Text), needle) {
			return i
		}
	}
	return -1
}

// Items returns all items, completed first, in section order.
func (d *Document) Items() []Item {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	items := make([]Item, 0, len(d.completed)+len(d.pending))
	items = append(items, d.completed...)
	items = append(items, d.pending...)
	return items
}

// Stats summarizes progress across both sections.
func (d *Document) Stats() Stats {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	stats := Stats{
		Completed: len(d.completed),
		Pending:   len(d.pending),
	}
	stats.Total = stats.Completed + stats.Pending
	if stats.Total > 0 {
		stats.Progress = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

// Load reads and parses a checklist file.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist %s: %w", path, err)
	}
	return Parse(string(content))
}

// Save writes the rendered document to a file.
func (d *Document) Save(path string) error {
	if err := os.WriteFile(path, []byte(d.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write checklist %s: %w", path, err)
	}
	return nil
}
