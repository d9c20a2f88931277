package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

// MarkdownRenderer produces markdown output for documentation/tickets.
type MarkdownRenderer struct {
	w io.Writer
}

func (r *MarkdownRenderer) RenderRecord(sql string, rec *classifier.Record) {
	fmt.Fprintf(r.w, "# sqlclass: Classification\n\n")
	r.writeRecord("##", sql, rec)
}

func (r *MarkdownRenderer) writeRecord(heading, sql string, rec *classifier.Record) {
	fmt.Fprintf(r.w, "**Statement:** `%s`\n\n", oneLine(sql))
	fmt.Fprintf(r.w, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Status | **%s** |\n", rec.Status())
	fmt.Fprintf(r.w, "| Operation | %s |\n", rec.Operation())
	fmt.Fprintf(r.w, "| Types | %s |\n", escapePipes(rec.TypeMask().String()))
	fmt.Fprintf(r.w, "| Routing | %s |\n", formatRouting(rec))
	if tables := rec.TableNames(true); len(tables) > 0 {
		fmt.Fprintf(r.w, "| Tables | %s |\n", codeList(tables))
	}
	if dbs := rec.DatabaseNames(); len(dbs) > 0 {
		fmt.Fprintf(r.w, "| Databases | %s |\n", codeList(dbs))
	}
	if name := rec.CreatedTableName(); name != "" {
		fmt.Fprintf(r.w, "| Creates | `%s` |\n", name)
	}
	if rec.IsDropTable() {
		fmt.Fprintf(r.w, "| Drops table | yes |\n")
	}
	if name := rec.PrepareName(); name != "" {
		fmt.Fprintf(r.w, "| Prepared as | `%s` (%s) |\n", name, rec.PrepareOperation())
	}
	fmt.Fprintln(r.w)

	if fields := rec.FieldInfos(); len(fields) > 0 {
		fmt.Fprintf(r.w, "%s Fields\n\n", heading)
		fmt.Fprintf(r.w, "| Field | Usage |\n|---|---|\n")
		for _, f := range fields {
			fmt.Fprintf(r.w, "| `%s` | %s |\n", f.String(), strings.Join(f.Usage.Names(), ", "))
		}
		fmt.Fprintln(r.w)
	}
}

func (r *MarkdownRenderer) RenderBatch(results []Result) {
	fmt.Fprintf(r.w, "# sqlclass: %d Statements\n\n", len(results))

	s := Summarize(results)
	fmt.Fprintf(r.w, "## Summary\n\n")
	fmt.Fprintf(r.w, "| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(r.w, "| Statements | %d |\n", s.Total)
	fmt.Fprintf(r.w, "| Replica safe | %d |\n", s.ReplicaSafe)
	for _, st := range s.Statuses() {
		fmt.Fprintf(r.w, "| %s | %d |\n", st, s.ByStatus[st])
	}
	for _, op := range s.Operations() {
		fmt.Fprintf(r.w, "| %s | %d |\n", op, s.ByOperation[op])
	}
	fmt.Fprintln(r.w)

	for i, res := range results {
		fmt.Fprintf(r.w, "## Statement %d\n\n", i+1)
		r.writeRecord("###", res.SQL, res.Record)
	}
}

func (r *MarkdownRenderer) RenderDigests(server *mysql.ServerInfo, reports []DigestReport) {
	fmt.Fprintf(r.w, "# sqlclass: Statement Digests\n\n")
	fmt.Fprintf(r.w, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(r.w, "| MySQL version | %s |\n", server.Version.String())
	fmt.Fprintf(r.w, "| Role | %s |\n", formatRole(server))
	fmt.Fprintf(r.w, "| Read only | %v |\n", server.ReadOnly)
	if server.ReplicaLag != nil {
		fmt.Fprintf(r.w, "| Replica lag | %ds |\n", *server.ReplicaLag)
	}
	fmt.Fprintln(r.w)

	for i, rep := range reports {
		d := rep.Digest
		fmt.Fprintf(r.w, "## #%d `%s`\n\n", i+1, shortDigest(d.Digest))
		fmt.Fprintf(r.w, "%s executions, %s total latency, %s rows examined\n\n",
			formatNumber(d.Count), formatLatency(d.TotalLatency), formatNumber(d.RowsExamined))
		if rep.Warning != "" {
			fmt.Fprintf(r.w, "> ⚠️ %s\n\n", rep.Warning)
		}
		r.writeRecord("###", d.Statement(), rep.Record)
	}
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}
