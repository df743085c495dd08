package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

// propertyRow is either a section heading (key empty) or one key/value pair
type propertyRow struct {
	section string
	key     string
	value   string
}

func (r propertyRow) isHeading() bool { return r.key == "" }

// PropertiesView lists the property file and edits single values in place
type PropertiesView struct {
	props  *config.Properties
	rows   []propertyRow
	cursor int
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	editing bool
	input   textinput.Model

	notice string
	err    error
}

func NewPropertiesView(props *config.Properties) *PropertiesView {
	ti := textinput.New()
	ti.CharLimit = 500

	v := &PropertiesView{
		props:  props,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		input:  ti,
	}
	v.reload()
	return v
}

func (v *PropertiesView) Init() tea.Cmd {
	return nil
}

func (v *PropertiesView) reload() {
	v.rows = v.rows[:0]
	for _, sec := range v.props.Sections() {
		v.rows = append(v.rows, propertyRow{section: sec})
		for _, item := range v.props.SectionItems(sec) {
			v.rows = append(v.rows, propertyRow{section: sec, key: item.Key, value: item.Value})
		}
	}
	if v.cursor >= len(v.rows) || v.rows[v.cursor].isHeading() {
		v.cursor = v.nextItem(-1, 1)
	}
}

// nextItem returns the index of the next key/value row after i in
// direction dir, or i when there is none
func (v *PropertiesView) nextItem(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(v.rows); j += dir {
		if !v.rows[j].isHeading() {
			return j
		}
	}
	return i
}

// Update handles messages
func (v *PropertiesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.input.Width = clamp(styles.ContentWidth(msg.Width)-10, 20, 80)
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.updateEditing(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.Up):
			v.cursor = v.nextItem(v.cursor, -1)
			return v, nil
		case key.Matches(msg, v.keys.Down):
			v.cursor = v.nextItem(v.cursor, 1)
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if row, ok := v.selected(); ok {
				v.editing = true
				v.notice = ""
				v.err = nil
				v.input.SetValue(row.value)
				v.input.CursorEnd()
				v.input.Focus()
				return v, textinput.Blink
			}
		}
		return v, nil
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *PropertiesView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.input.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Save):
		row, ok := v.selected()
		v.editing = false
		v.input.Blur()
		if !ok {
			return v, nil
		}
		value := strings.TrimSpace(v.input.Value())
		if err := v.props.Set(row.section, row.key, value); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s.%s", row.section, row.key)
		v.reload()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *PropertiesView) selected() (propertyRow, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) || v.rows[v.cursor].isHeading() {
		return propertyRow{}, false
	}
	return v.rows[v.cursor], true
}

// View renders the view
func (v *PropertiesView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	lines := []string{
		s.Title.Render("Properties"),
		s.TitleMuted.Render(v.props.Path()),
		"",
	}
	for i, row := range v.rows {
		if row.isHeading() {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, s.Phase.Render("["+row.section+"]"))
			continue
		}
		line := fmt.Sprintf("%s = %s", row.key, row.value)
		if i == v.cursor {
			if v.editing {
				lines = append(lines, s.Label.Render(row.key+" =")+" "+s.InputFocused.Render(v.input.View()))
				continue
			}
			lines = append(lines, s.ListSelected.Width(max(contentWidth-4, 20)).Render(line))
			continue
		}
		lines = append(lines, s.ListItem.Render(line))
	}

	lines = append(lines, "")
	switch {
	case v.err != nil:
		lines = append(lines, s.ErrorText.Render(v.err.Error()))
	case v.notice != "":
		lines = append(lines, s.Notice.Render(v.notice))
	}
	if v.editing {
		lines = append(lines, s.TitleMuted.Render("enter: save • esc: cancel"))
	} else {
		lines = append(lines, s.TitleMuted.Render("↑/↓: move • enter: edit • esc: back"))
	}

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width, v.height)
}
