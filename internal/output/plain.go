package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

// PlainRenderer produces unformatted text output safe for piping.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) RenderRecord(sql string, rec *classifier.Record) {
	fmt.Fprintf(r.w, "=== sqlclass: Classification ===\n\n")
	r.writeRecord(sql, rec)
}

func (r *PlainRenderer) writeRecord(sql string, rec *classifier.Record) {
	fmt.Fprintf(r.w, "Statement:     %s\n", oneLine(sql))
	fmt.Fprintf(r.w, "Status:        %s\n", rec.Status())
	fmt.Fprintf(r.w, "Operation:     %s\n", rec.Operation())
	fmt.Fprintf(r.w, "Types:         %s\n", rec.TypeMask())
	fmt.Fprintf(r.w, "Routing:       %s\n", formatRouting(rec))
	if tables := rec.TableNames(true); len(tables) > 0 {
		fmt.Fprintf(r.w, "Tables:        %s\n", strings.Join(tables, ", "))
	}
	if dbs := rec.DatabaseNames(); len(dbs) > 0 {
		fmt.Fprintf(r.w, "Databases:     %s\n", strings.Join(dbs, ", "))
	}
	if name := rec.CreatedTableName(); name != "" {
		fmt.Fprintf(r.w, "Creates:       %s\n", name)
	}
	if rec.IsDropTable() {
		fmt.Fprintf(r.w, "Drops table:   yes\n")
	}
	if name := rec.PrepareName(); name != "" {
		fmt.Fprintf(r.w, "Prepared as:   %s (%s)\n", name, rec.PrepareOperation())
	}
	if fields := rec.FieldInfos(); len(fields) > 0 {
		fmt.Fprintf(r.w, "--- Fields ---\n")
		for _, f := range fields {
			fmt.Fprintf(r.w, "%-30s %s\n", f.String(), f.Usage)
		}
	}
	fmt.Fprintln(r.w)
}

func (r *PlainRenderer) RenderBatch(results []Result) {
	fmt.Fprintf(r.w, "=== sqlclass: %d Statements ===\n\n", len(results))
	for i, res := range results {
		fmt.Fprintf(r.w, "--- Statement %d ---\n", i+1)
		r.writeRecord(res.SQL, res.Record)
	}

	s := Summarize(results)
	fmt.Fprintf(r.w, "--- Summary ---\n")
	fmt.Fprintf(r.w, "Statements:    %d\n", s.Total)
	fmt.Fprintf(r.w, "Replica safe:  %d\n", s.ReplicaSafe)
	for _, st := range s.Statuses() {
		fmt.Fprintf(r.w, "%-15s%d\n", st.String()+":", s.ByStatus[st])
	}
	for _, op := range s.Operations() {
		fmt.Fprintf(r.w, "%-15s%d\n", op.String()+":", s.ByOperation[op])
	}
}

func (r *PlainRenderer) RenderDigests(server *mysql.ServerInfo, reports []DigestReport) {
	fmt.Fprintf(r.w, "=== sqlclass: Statement Digests ===\n\n")
	fmt.Fprintf(r.w, "MySQL version: %s\n", server.Version.String())
	fmt.Fprintf(r.w, "Role:          %s\n", formatRole(server))
	fmt.Fprintf(r.w, "Read only:     %v\n", server.ReadOnly)
	if server.ReplicaLag != nil {
		fmt.Fprintf(r.w, "Replica lag:   %ds\n", *server.ReplicaLag)
	}
	fmt.Fprintln(r.w)

	for i, rep := range reports {
		d := rep.Digest
		fmt.Fprintf(r.w, "--- #%d %s ---\n", i+1, shortDigest(d.Digest))
		fmt.Fprintf(r.w, "Executions:    %s\n", formatNumber(d.Count))
		fmt.Fprintf(r.w, "Total latency: %s\n", formatLatency(d.TotalLatency))
		fmt.Fprintf(r.w, "Rows examined: %s\n", formatNumber(d.RowsExamined))
		if rep.Warning != "" {
			fmt.Fprintf(r.w, "WARNING: %s\n", rep.Warning)
		}
		r.writeRecord(d.Statement(), rep.Record)
	}
}
