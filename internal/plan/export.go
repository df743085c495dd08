package plan

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tgienger/planner/internal/models"
)

// WriteYAML encodes the whole tree as a YAML document
func WriteYAML(w io.Writer, tree *models.PlanTree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}

// WriteText renders the tree as an indented outline, one node per line
func WriteText(w io.Writer, tree *models.PlanTree) error {
	p := &printer{w: w}
	proj := tree.Project
	p.line(0, "%s [%s] %s -> %s", proj.Name, proj.Status, proj.StartDate, proj.TargetEndDate)

	if len(tree.Phases) == 0 {
		p.line(1, "(no phases)")
	}
	for _, ph := range tree.Phases {
		p.line(1, "#%d %s  (%s -> %s)", ph.ID, ph.Name,
			models.FormatDate(ph.StartDate, "N/A"), models.FormatDate(ph.EndDate, "N/A"))
		if ph.Description != "" {
			p.line(2, "%s", ph.Description)
		}
		for _, ep := range ph.Epics {
			p.line(2, "#%d %s [%s]", ep.ID, ep.Name, ep.Status)
			for _, tk := range ep.Tasks {
				p.line(3, "#%d %s | %s | %s | %s | due %s", tk.ID, tk.Name,
					dash(tk.AssignedTo), tk.Priority, tk.Status, models.FormatDate(tk.DueDate, "N/A"))
				for _, st := range tk.SubTasks {
					p.line(4, "#%d %s | %s | %s", st.ID, st.Name, dash(st.AssignedTo), st.Status)
				}
			}
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
