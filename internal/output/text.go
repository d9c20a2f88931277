package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

const boxWidth = 72

func (r *TextRenderer) RenderRecord(sql string, rec *classifier.Record) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.recordBox("sqlclass: Classification", sql, rec))
	fmt.Fprintln(r.w)
}

func (r *TextRenderer) recordBox(title, sql string, rec *classifier.Record) string {
	lines := []string{
		codeText.Render(truncate(oneLine(sql), boxWidth-4)),
		"",
		r.labelValue("Status:", colorStatus(rec.Status())),
		r.labelValue("Operation:", rec.Operation().String()),
		r.labelValue("Types:", rec.TypeMask().String()),
		r.labelValue("Routing:", formatRouting(rec)),
	}
	if tables := rec.TableNames(true); len(tables) > 0 {
		lines = append(lines, r.labelValue("Tables:", strings.Join(tables, ", ")))
	}
	if dbs := rec.DatabaseNames(); len(dbs) > 0 {
		lines = append(lines, r.labelValue("Databases:", strings.Join(dbs, ", ")))
	}
	if name := rec.CreatedTableName(); name != "" {
		lines = append(lines, r.labelValue("Creates:", name))
	}
	if rec.IsDropTable() {
		lines = append(lines, r.labelValue("Drops table:", invalidText.Render("yes")))
	}
	if name := rec.PrepareName(); name != "" {
		lines = append(lines, r.labelValue("Prepared as:", fmt.Sprintf("%s (%s)", name, rec.PrepareOperation())))
	}
	if fields := rec.FieldInfos(); len(fields) > 0 {
		lines = append(lines, "", titleText.Render("Fields"))
		for _, f := range fields {
			lines = append(lines, r.labelValue(f.String(), mutedText.Render(f.Usage.String())))
		}
	}

	style := styleFor(rec.Status())
	return style.Width(boxWidth).Render(titleText.Render(title) + "\n" + strings.Join(lines, "\n"))
}

func (r *TextRenderer) RenderBatch(results []Result) {
	fmt.Fprintln(r.w)
	for i, res := range results {
		title := fmt.Sprintf("Statement %d of %d", i+1, len(results))
		fmt.Fprintln(r.w, r.recordBox(title, res.SQL, res.Record))
	}

	s := Summarize(results)
	lines := []string{
		r.labelValue("Statements:", formatNumber(int64(s.Total))),
		r.labelValue("Replica safe:", formatNumber(int64(s.ReplicaSafe))),
	}
	for _, st := range s.Statuses() {
		lines = append(lines, r.labelValue(st.String()+":", formatNumber(int64(s.ByStatus[st]))))
	}
	for _, op := range s.Operations() {
		lines = append(lines, r.labelValue(op.String()+":", formatNumber(int64(s.ByOperation[op]))))
	}
	summary := summaryBox.Width(boxWidth).Render(titleText.Render("Summary") + "\n" + strings.Join(lines, "\n"))
	fmt.Fprintln(r.w, summary)
	fmt.Fprintln(r.w)
}

func (r *TextRenderer) RenderDigests(server *mysql.ServerInfo, reports []DigestReport) {
	fmt.Fprintln(r.w)

	lines := []string{
		r.labelValue("MySQL version:", server.Version.String()),
		r.labelValue("Role:", formatRole(server)),
		r.labelValue("Read only:", fmt.Sprintf("%v", server.ReadOnly)),
	}
	if server.ReplicaLag != nil {
		lines = append(lines, r.labelValue("Replica lag:", fmt.Sprintf("%ds", *server.ReplicaLag)))
	}
	style := parsedBox
	if !server.Writable() {
		style = partialBox
	}
	fmt.Fprintln(r.w, style.Width(boxWidth).Render(titleText.Render("sqlclass: Server")+"\n"+strings.Join(lines, "\n")))

	if len(reports) == 0 {
		fmt.Fprintln(r.w, mutedText.Render("No statement digests found."))
		fmt.Fprintln(r.w)
		return
	}

	for i, rep := range reports {
		d := rep.Digest
		title := fmt.Sprintf("#%d  %s  %sx  %s", i+1, shortDigest(d.Digest), formatNumber(d.Count), formatLatency(d.TotalLatency))
		card := r.recordBox(title, d.Statement(), rep.Record)
		fmt.Fprintln(r.w, card)
		if rep.Warning != "" {
			warnBox := partialBox.Width(boxWidth).Render(
				partialText.Render(iconPartial+" Warning") + "\n" + rep.Warning,
			)
			fmt.Fprintln(r.w, warnBox)
		}
	}
	fmt.Fprintln(r.w)
}

// helpers

func (r *TextRenderer) labelValue(label, value string) string {
	return labelText.Render(label) + " " + value
}

func formatRouting(rec *classifier.Record) string {
	if rec.ReplicaSafe() {
		return "replica"
	}
	return "primary"
}

func formatRole(server *mysql.ServerInfo) string {
	switch {
	case server.IsReplica:
		return "Replica"
	case !server.Writable():
		return "Primary (read only)"
	default:
		return "Primary"
	}
}

func formatLatency(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func formatNumber(n int64) string {
	if n >= 1_000_000_000 {
		return fmt.Sprintf("%.0f,000,000,000+", float64(n)/1_000_000_000)
	}
	// Simple comma formatting
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
