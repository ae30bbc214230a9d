package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"deluge-submit/core/deluge"
	"deluge-submit/core/entry"
)

// NewItem builds a staged item from an entry. Entry fields path, movedone, label and
// queuetotop override the configured values.
func NewItem(e *entry.Entry, cfg deluge.Config) *StagedItem {
	return &StagedItem{
		Entry:      e,
		Title:      e.Title(),
		File:       e.String("file", ""),
		Path:       e.String("path", cfg.Path),
		MoveDone:   e.String("movedone", cfg.MoveDone),
		Label:      e.String("label", cfg.Label),
		QueueToTop: e.Bool("queuetotop", cfg.QueueToTop),
	}
}

// Render substitutes entry fields into a path template and expands a leading ~.
// Templates use text/template syntax over the entry fields, e.g. "/tv/{{.series_name}}".
// Referencing a field the entry does not have is an error.
func Render(tmpl string, e *entry.Entry) (string, error) {
	if tmpl == "" {
		return "", nil
	}

	out := tmpl
	if strings.Contains(tmpl, "{{") {
		t, err := template.New("path").Option("missingkey=error").Parse(tmpl)
		if err != nil {
			return "", fmt.Errorf("invalid template %q: %w", tmpl, err)
		}
		fields := map[string]any{}
		if e != nil {
			fields = e.Fields()
		}
		var sb strings.Builder
		if err := t.Execute(&sb, fields); err != nil {
			return "", fmt.Errorf("failed to render %q: %w", tmpl, err)
		}
		out = sb.String()
	}

	return expandHome(out)
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// addOptions renders the options sent with the add call.
func addOptions(item *StagedItem) (deluge.AddOptions, error) {
	location, err := Render(item.Path, item.Entry)
	if err != nil {
		return deluge.AddOptions{}, err
	}
	return deluge.AddOptions{DownloadLocation: location}, nil
}

// postAddOptions renders the options applied once the item's id is known.
func postAddOptions(item *StagedItem) (PostAddOptions, error) {
	moveDone, err := Render(item.MoveDone, item.Entry)
	if err != nil {
		return PostAddOptions{}, err
	}
	return PostAddOptions{
		MoveDone:   moveDone,
		Label:      strings.ToLower(item.Label),
		QueueToTop: item.QueueToTop,
	}, nil
}

// staged reports whether the item's staged file exists.
func staged(item *StagedItem) bool {
	if item.File == "" {
		return false
	}
	_, err := os.Stat(item.File)
	return err == nil
}

// stagingListing returns the file names in dir for diagnostics.
func stagingListing(dir string) string {
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("<unreadable: %v>", err)
	}
	names := make([]string, 0, len(entries))
	for _, de := range entries {
		names = append(names, de.Name())
	}
	return strings.Join(names, ", ")
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
