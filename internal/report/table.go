package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/repodist/internal/model"
	"github.com/klauern/repodist/internal/ui"
)

var tableColumns = []string{"repo", "created", "overwritten", "deleted", "conflicts", "failed", "status"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders the per-repo counts of a run.
func Table(s model.RunSummary) string {
	caser := cases.Title(language.English)
	headers := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		headers[i] = caser.String(col)
	}

	rows := make([][]string, 0, len(s.Repos))
	for _, r := range s.Repos {
		rows = append(rows, []string{
			r.Name,
			count(r.Counts[model.EffectCreated]),
			count(r.Counts[model.EffectOverwritten]),
			count(r.Counts[model.EffectDeleted]),
			count(r.Conflicts()),
			count(r.Counts[model.EffectFailed]),
			status(r),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func status(r model.RepoStatus) string {
	switch {
	case r.Skipped:
		return ui.Warning("not found")
	case r.Counts[model.EffectFatal] > 0:
		return ui.Error("aborted")
	case r.Counts[model.EffectFailed] > 0 || r.Conflicts() > 0:
		return ui.Warning("attention")
	case r.Modified() > 0:
		return ui.Success("updated")
	default:
		return ui.Dim("up to date")
	}
}
