package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// PreviewRows caps how many rows of a long table are rendered
const PreviewRows = 10

// Markdown renders the report
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Toll dataset report\n\n")

	b.WriteString("## Car matrix\n\n")
	b.WriteString(matrixTable(r.CarMatrix, "id_1"))

	b.WriteString("\n## Car matrix, scaled\n\n")
	b.WriteString(matrixTable(r.ScaledMatrix, "id_1"))

	b.WriteString("\n## Car types\n\n")
	rows := make([][]string, 0, len(r.TypeCounts))
	for _, k := range r.TypeCounts.Keys() {
		rows = append(rows, []string{k, strconv.Itoa(r.TypeCounts[k])})
	}
	b.WriteString(table([]string{"type", "count"}, rows))

	b.WriteString("\n## Bus rows above twice the mean\n\n")
	idx := make([]string, len(r.BusIndexes))
	for i, v := range r.BusIndexes {
		idx[i] = strconv.Itoa(v)
	}
	b.WriteString(list(idx))

	b.WriteString("\n## Routes with mean truck above 7\n\n")
	b.WriteString(list(r.Routes))

	b.WriteString("\n## Weekly coverage\n\n")
	rows = make([][]string, 0, len(r.Coverage))
	for _, c := range r.Coverage {
		rows = append(rows, []string{c.ID, c.ID2, strconv.FormatBool(c.Incomplete)})
	}
	b.WriteString(table([]string{"id", "id_2", "incomplete"}, rows))

	b.WriteString("\n## Distance matrix\n\n")
	b.WriteString(matrixTable(r.DistanceMatrix, "id"))
	fmt.Fprintf(&b, "\nMatrix total %s, unrolled total %s, conserved: %t\n",
		formatCell(r.MatrixMass), formatCell(r.UnrolledMass), r.MassConserved())

	fmt.Fprintf(&b, "\n## Ids within 10%% of %s\n\n", r.ReferenceID)
	b.WriteString(list(r.NearReference))

	b.WriteString("\n## Toll rates\n\n")
	b.WriteString(frameTable(r.TollRates, PreviewRows))

	b.WriteString("\n## Time-based toll rates\n\n")
	b.WriteString(frameTable(r.TimeBasedRates, PreviewRows))

	return b.String()
}

// HTML renders the markdown report as a standalone HTML page
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Toll dataset report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}

func table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return "_none_\n"
	}
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

func list(items []string) string {
	if len(items) == 0 {
		return "_none_\n"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	return b.String()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func matrixTable(m *frame.Matrix, indexName string) string {
	headers := append([]string{indexName}, m.ColKeys...)
	rows := make([][]string, 0, len(m.RowKeys))
	for _, rk := range m.RowKeys {
		row := []string{rk}
		for _, ck := range m.ColKeys {
			v, _ := m.At(rk, ck)
			row = append(row, formatCell(v))
		}
		rows = append(rows, row)
	}
	return table(headers, rows)
}

func frameTable(df dataframe.DataFrame, limit int) string {
	records := df.Records()
	if len(records) == 0 {
		return "_none_\n"
	}
	body := records[1:]
	shown := body
	if len(body) > limit {
		shown = body[:limit]
	}
	out := table(records[0], shown)
	if len(body) > limit {
		out += fmt.Sprintf("\n_%d of %d rows shown_\n", limit, len(body))
	}
	return out
}
