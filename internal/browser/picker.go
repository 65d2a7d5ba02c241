package browser

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/model"
)

type pickerKind int

const (
	pickClass pickerKind = iota
	pickUnit
	pickStatus
)

// picker is the open multi-select modal. Selection lives in the criteria,
// the picker only tracks which option the cursor is on.
type picker struct {
	kind   pickerKind
	cursor int
}

func (k pickerKind) label() string {
	switch k {
	case pickClass:
		return "Class"
	case pickUnit:
		return "Units"
	default:
		return "Status"
	}
}

func (k pickerKind) options(opts catalog.Options) []string {
	switch k {
	case pickClass:
		return opts.Classes
	case pickUnit:
		return opts.Units
	default:
		return opts.Statuses
	}
}

func (k pickerKind) selected(c model.Criteria) []string {
	switch k {
	case pickClass:
		return c.Classes
	case pickUnit:
		return c.Units
	default:
		return c.Statuses
	}
}

func (k pickerKind) toggle(value string) catalog.Action {
	switch k {
	case pickClass:
		return catalog.ToggleClass(value)
	case pickUnit:
		return catalog.ToggleUnit(value)
	default:
		return catalog.ToggleStatus(value)
	}
}

func (p *picker) move(delta, count int) {
	if count == 0 {
		p.cursor = 0
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = count - 1
	}
	if p.cursor >= count {
		p.cursor = 0
	}
}

func (p *picker) lines(opts catalog.Options, c model.Criteria, height int) []string {
	options := p.kind.options(opts)
	selected := p.kind.selected(c)
	title := p.kind.label()
	if len(selected) > 0 {
		title = fmt.Sprintf("%s (%d selected)", title, len(selected))
	}
	lines := []string{cardValueStyle.Render(title), ""}
	if len(options) == 0 {
		return append(lines, headerStyle.Render("No options"))
	}

	start, end := visibleRange(p.cursor, len(options), height)
	for i := start; i < end; i++ {
		box := "[ ]"
		if contains(selected, options[i]) {
			box = "[x]"
		}
		line := fmt.Sprintf("  %s %s", box, options[i])
		if i == p.cursor {
			line = selectedStyle.Render(fmt.Sprintf("> %s %s", box, options[i]))
		}
		lines = append(lines, line)
	}
	if end-start < len(options) {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("%d/%d", p.cursor+1, len(options))))
	}
	return lines
}

// visibleRange keeps the cursor inside a window of at most height rows.
func visibleRange(cursor, count, height int) (int, int) {
	if height <= 0 || count <= height {
		return 0, count
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > count {
		start = count - height
	}
	return start, start + height
}

func filterLabel(label string, selected []string) string {
	if len(selected) == 0 {
		return label
	}
	return fmt.Sprintf("%s (%d)", label, len(selected))
}

func toggleLabel(label string, on bool) string {
	box := "[ ]"
	if on {
		box = "[x]"
	}
	return box + " " + label
}

func sortLabel(dir model.SortDirection) string {
	if dir == model.SortDesc {
		return "Sort: Z-A"
	}
	return "Sort: A-Z"
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func joinFilters(parts []string) string {
	return strings.Join(parts, "  ")
}
