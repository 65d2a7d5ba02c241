// Package browser provides the Bubble Tea chapter browser.
package browser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/pyqs/internal/catalog"
	"github.com/verte-zerg/pyqs/internal/model"
	"github.com/verte-zerg/pyqs/internal/report"
)

var subjectAccent = map[model.Subject]lipgloss.Color{
	model.Physics:     lipgloss.Color("#C89A3A"),
	model.Chemistry:   lipgloss.Color("#3AA8C8"),
	model.Mathematics: lipgloss.Color("#9A6AD8"),
}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true)
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeFilterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	tableMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				Padding(1, 2)
)

// Model implements the Bubble Tea chapter browser. All filter state lives in
// criteria and changes only through catalog.Reduce.
type Model struct {
	catalog  *catalog.Catalog
	criteria model.Criteria
	result   catalog.Result
	log      *logrus.Logger

	keys       keyMap
	pickerKeys pickerKeyMap
	help       help.Model
	table      table.Model
	detail     viewport.Model

	width  int
	height int

	showHelp   bool
	picker     *picker
	detailOpen bool
}

// NewModel constructs a browser over cat starting from criteria.
// A nil logger discards output.
func NewModel(cat *catalog.Catalog, criteria model.Criteria, log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if criteria.Subject == "" {
		criteria.Subject = model.Subjects[0]
	}
	if criteria.Sort == "" {
		criteria.Sort = model.SortAsc
	}
	m := &Model{
		catalog:    cat,
		criteria:   criteria,
		log:        log,
		keys:       defaultKeys(),
		pickerKeys: defaultPickerKeys(),
		help:       help.New(),
		detail:     viewport.New(0, 0),
	}
	m.initTable()
	m.refresh()
	return m
}

// Criteria returns the current filter state.
func (m *Model) Criteria() model.Criteria {
	return m.criteria
}

// Result returns the last query result.
func (m *Model) Result() catalog.Result {
	return m.result
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.showHelp:
			if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
				m.setHelp(false)
			}
			return m, nil
		case m.picker != nil:
			return m.updatePicker(msg)
		case m.detailOpen:
			return m.updateDetail(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PrevSubject):
		m.moveSubject(-1)
	case key.Matches(msg, m.keys.NextSubject):
		m.moveSubject(1)
	case key.Matches(msg, m.keys.JumpSubject):
		idx, err := strconv.Atoi(msg.String())
		if err == nil && idx >= 1 && idx <= len(model.Subjects) {
			m.dispatch(catalog.SelectSubject(model.Subjects[idx-1]))
		}
	case key.Matches(msg, m.keys.ClassPicker):
		m.picker = &picker{kind: pickClass}
	case key.Matches(msg, m.keys.UnitPicker):
		m.picker = &picker{kind: pickUnit}
	case key.Matches(msg, m.keys.StatusPicker):
		m.picker = &picker{kind: pickStatus}
	case key.Matches(msg, m.keys.NotStarted):
		m.dispatch(catalog.ToggleNotStartedOnly())
	case key.Matches(msg, m.keys.Weak):
		m.dispatch(catalog.ToggleWeakOnly())
	case key.Matches(msg, m.keys.Sort):
		m.dispatch(catalog.ToggleSort())
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(catalog.ClearFilters())
	case key.Matches(msg, m.keys.Detail):
		m.openDetail()
	case key.Matches(msg, m.keys.Help):
		m.setHelp(true)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := m.picker.kind.options(m.result.Options)
	switch {
	case key.Matches(msg, m.pickerKeys.Close):
		m.picker = nil
	case key.Matches(msg, m.pickerKeys.Up):
		m.picker.move(-1, len(options))
	case key.Matches(msg, m.pickerKeys.Down):
		m.picker.move(1, len(options))
	case key.Matches(msg, m.pickerKeys.Toggle):
		if m.picker.cursor < len(options) {
			m.dispatch(m.picker.kind.toggle(options[m.picker.cursor]))
		}
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.detailOpen = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch {
	case m.picker != nil:
		return fitLines(m.renderPickerModal(), m.width, m.height)
	case m.detailOpen:
		return fitLines(m.renderDetailModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) dispatch(a catalog.Action) {
	m.criteria = catalog.Reduce(m.criteria, a)
	m.refresh()
}

func (m *Model) refresh() {
	m.result = m.catalog.Query(m.criteria)
	m.log.WithFields(logrus.Fields{
		"subject":  m.criteria.Subject,
		"classes":  len(m.criteria.Classes),
		"units":    len(m.criteria.Units),
		"statuses": len(m.criteria.Statuses),
		"weak":     m.criteria.WeakOnly,
		"new":      m.criteria.NotStartedOnly,
		"sort":     m.criteria.Sort,
		"matches":  len(m.result.Rows),
	}).Debug("catalogue query")
	m.applyTable()
	if m.picker != nil {
		count := len(m.picker.kind.options(m.result.Options))
		if m.picker.cursor >= count {
			m.picker.cursor = maxInt(0, count-1)
		}
	}
}

func (m *Model) moveSubject(delta int) {
	count := len(model.Subjects)
	current := 0
	for i, s := range model.Subjects {
		if s == m.criteria.Subject {
			current = i
			break
		}
	}
	next := (current + delta + count) % count
	m.dispatch(catalog.SelectSubject(model.Subjects[next]))
}

func (m *Model) narrow() bool {
	return report.IsNarrow(m.width)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	// tabs, summary, filters, count
	headerHeight = tabsHeight + 3
	footerHeight = 1
	if m.showHelp {
		footerHeight = lipgloss.Height(m.help.View(m.keys))
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.applyTable()
}

// setHelp toggles the full key listing, which takes rows from the table.
func (m *Model) setHelp(on bool) {
	m.showHelp = on
	m.help.ShowAll = on
	m.updateLayout()
}

func (m *Model) renderTabs() string {
	accent := subjectAccent[m.criteria.Subject]
	parts := make([]string, 0, len(model.Subjects))
	for _, s := range model.Subjects {
		label := fmt.Sprintf("%s PYQs", s)
		if m.narrow() {
			label = s.ShortLabel()
		}
		if s == m.criteria.Subject {
			parts = append(parts, activeNavStyle.BorderForeground(accent).Render(label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := headerStyle.Render(truncateLine(report.SummaryLine(m.result.Summary), m.width))
	filters := m.renderFilterBar()
	count := truncateLine(report.ShowingLine(len(m.result.Rows)), m.width)
	return strings.Join([]string{tabs, summary, filters, count}, "\n")
}

func (m *Model) renderFilterBar() string {
	c := m.criteria
	items := []struct {
		text   string
		active bool
	}{
		{filterLabel("Class", c.Classes), len(c.Classes) > 0},
		{filterLabel("Units", c.Units), len(c.Units) > 0},
		{filterLabel("Status", c.Statuses), len(c.Statuses) > 0},
		{toggleLabel("Not Started", c.NotStartedOnly), c.NotStartedOnly},
		{toggleLabel("Weak Chapters", c.WeakOnly), c.WeakOnly},
		{sortLabel(c.Sort), c.Sort == model.SortDesc},
	}
	parts := make([]string, 0, len(items))
	plain := make([]string, 0, len(items))
	for _, it := range items {
		plain = append(plain, it.text)
		if it.active {
			parts = append(parts, activeFilterStyle.Render(it.text))
		} else {
			parts = append(parts, filterStyle.Render(it.text))
		}
	}
	if lipgloss.Width(joinFilters(plain)) > m.width {
		return filterStyle.Render(truncateLine(joinFilters(plain), m.width))
	}
	return joinFilters(parts)
}

func (m *Model) renderBody() string {
	if len(m.result.Rows) == 0 {
		lines := []string{"", report.EmptyMessage}
		if catalog.IsFiltered(m.criteria) {
			lines = append(lines, headerStyle.Render("Press x to clear filters."))
		}
		return strings.Join(lines, "\n")
	}
	return tableMutedStyle.Render(m.table.View())
}

func (m *Model) renderFooter() string {
	return m.help.View(m.keys)
}

func (m *Model) renderPickerModal() string {
	innerHeight := maxInt(3, m.height-12)
	body := m.picker.lines(m.result.Options, m.criteria, innerHeight)
	body = append(body, "", m.help.ShortHelpView(m.pickerKeys.ShortHelp()))
	box := modalStyle.
		BorderForeground(subjectAccent[m.criteria.Subject]).
		Width(modalWidth(m.width)).
		Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) openDetail() {
	if len(m.result.Rows) == 0 {
		return
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.result.Rows) {
		idx = 0
	}
	ch := m.result.Rows[idx].Chapter
	var buf bytes.Buffer
	if err := report.RenderChapter(&buf, ch, modalInnerWidth(m.width)); err != nil {
		m.log.WithError(err).Warn("failed to render chapter detail")
		return
	}
	content := strings.TrimRight(buf.String(), "\n")
	m.detail.Width = modalInnerWidth(m.width)
	m.detail.Height = maxInt(3, minInt(lipgloss.Height(content), m.height-8))
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.detailOpen = true
	m.log.WithField("chapter", ch.Chapter).Debug("opened chapter detail")
}

func (m *Model) renderDetailModal() string {
	body := []string{
		m.detail.View(),
		"",
		headerStyle.Render("↑/↓ scroll  esc close"),
	}
	box := modalStyle.
		BorderForeground(subjectAccent[m.criteria.Subject]).
		Width(modalWidth(m.width)).
		Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) initTable() {
	m.table = table.New(
		table.WithColumns(m.columns(80)),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
}

func (m *Model) applyTable() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	// Columns must be set before rows whose length depends on them.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns(width))
	m.table.SetRows(m.rows())
	m.table.SetWidth(width)
	m.table.SetHeight(maxInt(2, bodyHeight))
	if m.table.Cursor() >= len(m.result.Rows) {
		m.table.SetCursor(maxInt(0, len(m.result.Rows)-1))
	}
}

func (m *Model) columns(width int) []table.Column {
	recent := strconv.Itoa(int(model.RecentYear))
	previous := strconv.Itoa(int(model.PreviousYear))
	if report.IsNarrow(width) {
		stats := len("2025: 999Qs ↑ | 2024: 999Qs")
		fixed := []table.Column{
			{Title: recent + " | " + previous, Width: stats},
			{Title: "Total", Width: 7},
		}
		return withChapterColumn(fixed, width)
	}
	fixed := []table.Column{
		{Title: "Class", Width: 9},
		{Title: "Unit", Width: 20},
		{Title: "Status", Width: 11},
		{Title: "Weak", Width: 4},
		{Title: recent, Width: 4},
		{Title: "", Width: 1},
		{Title: previous, Width: 4},
		{Title: "Total", Width: 7},
	}
	return withChapterColumn(fixed, width)
}

// withChapterColumn gives the chapter name all width the fixed columns leave.
func withChapterColumn(fixed []table.Column, width int) []table.Column {
	used := 0
	for _, c := range fixed {
		used += c.Width + 1 // cell padding
	}
	chapterWidth := maxInt(12, width-used-1)
	return append([]table.Column{{Title: "Chapter", Width: chapterWidth}}, fixed...)
}

func (m *Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.result.Rows))
	narrow := report.IsNarrow(m.width)
	for _, r := range m.result.Rows {
		name := r.Chapter.Chapter
		total := fmt.Sprintf("%d Qs", r.Stats.TotalQuestions)
		if narrow {
			if r.Chapter.IsWeakChapter {
				name = "! " + name
			}
			rows = append(rows, table.Row{name, report.CompactStats(r.Stats), total})
			continue
		}
		weak := ""
		if r.Chapter.IsWeakChapter {
			weak = "yes"
		}
		rows = append(rows, table.Row{
			name,
			r.Chapter.Class,
			r.Chapter.Unit,
			r.Chapter.Status,
			weak,
			strconv.Itoa(r.Stats.RecentYearCount),
			report.TrendArrow(r.Stats.Trend),
			strconv.Itoa(r.Stats.PreviousYearCount),
			total,
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
