package dump

import (
	"fmt"
	"io"
	"strings"

	"deluge-submit/core/reconcile"

	"github.com/charmbracelet/lipgloss"
)

const (
	ruleWidth = 48
	keyWidth  = 7
)

// Options selects what Dump prints.
type Options struct {
	// TitleOnly prints only the title field of each item.
	TitleOnly bool

	// States limits the output to these groups. Empty prints every group.
	States []reconcile.Status
}

// group is one status section of the output.
type group struct {
	name   string
	status []reconcile.Status
	color  lipgloss.Color
}

var groups = []group{
	{name: "Unresolved", status: []reconcile.Status{reconcile.StatusPending, reconcile.StatusSubmitted}, color: lipgloss.Color("#6C7086")},
	{name: "Confirmed", status: []reconcile.Status{reconcile.StatusConfirmed}, color: lipgloss.Color("#A6E3A1")},
	{name: "Duplicate", status: []reconcile.Status{reconcile.StatusDuplicate}, color: lipgloss.Color("#F9E2AF")},
	{name: "Failed", status: []reconcile.Status{reconcile.StatusFailed}, color: lipgloss.Color("#F38BA8")},
}

// ParseOptions builds Options from the values of the --dump flag.
// Accepted values are "all", "title" and the state names pending, confirmed,
// duplicate and failed.
func ParseOptions(values []string) (Options, error) {
	var opts Options
	for _, raw := range values {
		for _, v := range strings.Split(raw, ",") {
			switch v = strings.ToLower(strings.TrimSpace(v)); v {
			case "", "all":
			case "title":
				opts.TitleOnly = true
			case "pending":
				opts.States = append(opts.States, reconcile.StatusPending)
			case "confirmed":
				opts.States = append(opts.States, reconcile.StatusConfirmed)
			case "duplicate":
				opts.States = append(opts.States, reconcile.StatusDuplicate)
			case "failed":
				opts.States = append(opts.States, reconcile.StatusFailed)
			default:
				return Options{}, fmt.Errorf("unknown dump option %q", v)
			}
		}
	}
	return opts, nil
}

// Dump writes the items of result to w.
func Dump(w io.Writer, result *reconcile.BatchResult, opts Options) error {
	if result == nil {
		return nil
	}
	r := lipgloss.NewRenderer(w)
	p := &printer{
		w:      w,
		key:    r.NewStyle().Bold(true),
		italic: r.NewStyle().Italic(true),
		opts:   opts,
	}

	for _, g := range groups {
		if !p.selected(g) {
			continue
		}
		rule := r.NewStyle().Foreground(g.color)
		if err := p.line(rule.Render(ruleText(g.name))); err != nil {
			return err
		}

		var items []*reconcile.StagedItem
		for _, item := range result.Items {
			if g.has(item.Status) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			if len(opts.States) > 0 {
				if err := p.line(p.italic.Render(fmt.Sprintf("No %s items", strings.ToLower(g.name)))); err != nil {
					return err
				}
			}
			continue
		}
		for _, item := range items {
			if err := p.item(item); err != nil {
				return err
			}
		}
	}
	return nil
}

type printer struct {
	w      io.Writer
	key    lipgloss.Style
	italic lipgloss.Style
	opts   Options
}

func (p *printer) selected(g group) bool {
	if len(p.opts.States) == 0 {
		return true
	}
	for _, s := range p.opts.States {
		if g.has(s) {
			return true
		}
	}
	return false
}

func (p *printer) item(item *reconcile.StagedItem) error {
	fields := [][2]string{{"title", item.Title}}
	if !p.opts.TitleOnly {
		fields = append(fields,
			[2]string{"status", item.Status.String()},
			[2]string{"id", item.ID},
			[2]string{"file", item.File},
			[2]string{"reason", item.Reason},
		)
		fields = append(fields, entryFields(item, fields)...)
	}

	width := keyWidth
	for _, f := range fields {
		if len(f[0]) > width {
			width = len(f[0])
		}
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		// Values are single-line in the output.
		value := strings.NewReplacer("\r", "", "\n", "").Replace(f[1])
		if err := p.line(p.key.Render(f[0]) + strings.Repeat(" ", width-len(f[0])) + ": " + value); err != nil {
			return err
		}
	}
	if !p.opts.TitleOnly {
		return p.line("")
	}
	return nil
}

// entryFields lists the remaining entry fields of item. Fields starting with an
// underscore are internal and skipped.
func entryFields(item *reconcile.StagedItem, seen [][2]string) [][2]string {
	if item.Entry == nil {
		return nil
	}
	var out [][2]string
	for _, k := range item.Entry.Keys() {
		if strings.HasPrefix(k, "_") || shown(seen, k) {
			continue
		}
		v, _ := item.Entry.Get(k)
		out = append(out, [2]string{k, fmt.Sprint(v)})
	}
	return out
}

func shown(fields [][2]string, key string) bool {
	for _, f := range fields {
		if f[0] == key {
			return true
		}
	}
	return false
}

func (p *printer) line(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (g group) has(s reconcile.Status) bool {
	for _, st := range g.status {
		if st == s {
			return true
		}
	}
	return false
}

func ruleText(name string) string {
	head := "── " + name + " "
	n := ruleWidth - lipgloss.Width(head)
	if n < 0 {
		n = 0
	}
	return head + strings.Repeat("─", n)
}
