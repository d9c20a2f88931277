package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
)

// JSONRenderer produces machine-readable JSON output.
type JSONRenderer struct {
	w io.Writer
}

// RecordJSON is the wire form of a classification, shared with the HTTP
// service.
type RecordJSON struct {
	Statement        string      `json:"statement"`
	Status           string      `json:"status"`
	Types            []string    `json:"types"`
	Operation        string      `json:"operation"`
	RealQuery        bool        `json:"is_real_query"`
	HasClause        bool        `json:"has_clause"`
	ReplicaSafe      bool        `json:"replica_safe"`
	Tables           []string    `json:"tables,omitempty"`
	FullTables       []string    `json:"table_fullnames,omitempty"`
	Databases        []string    `json:"databases,omitempty"`
	CreatedTable     string      `json:"created_table,omitempty"`
	DropTable        bool        `json:"is_drop_table,omitempty"`
	PrepareName      string      `json:"prepare_name,omitempty"`
	PrepareOperation string      `json:"prepare_operation,omitempty"`
	Fields           []FieldJSON `json:"fields,omitempty"`
}

// FieldJSON is one column reference.
type FieldJSON struct {
	Database string   `json:"database,omitempty"`
	Table    string   `json:"table,omitempty"`
	Column   string   `json:"column"`
	Usage    []string `json:"usage,omitempty"`
}

type jsonBatch struct {
	Summary jsonSummary  `json:"summary"`
	Results []RecordJSON `json:"results"`
}

type jsonSummary struct {
	Total       int            `json:"total"`
	ReplicaSafe int            `json:"replica_safe"`
	ByStatus    map[string]int `json:"by_status"`
	ByOperation map[string]int `json:"by_operation"`
}

type jsonServer struct {
	Version       string `json:"mysql_version"`
	ReadOnly      bool   `json:"read_only"`
	SuperReadOnly bool   `json:"super_read_only"`
	IsReplica     bool   `json:"is_replica"`
	ReplicaLag    *int64 `json:"replica_lag_seconds,omitempty"`
}

type jsonDigest struct {
	Schema         string     `json:"schema,omitempty"`
	Digest         string     `json:"digest"`
	Count          int64      `json:"count"`
	TotalLatencyMS float64    `json:"total_latency_ms"`
	RowsExamined   int64      `json:"rows_examined"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	Warning        string     `json:"warning,omitempty"`
	Record         RecordJSON `json:"classification"`
}

type jsonDigestReport struct {
	Server  jsonServer   `json:"server"`
	Digests []jsonDigest `json:"digests"`
}

// NewRecordJSON converts a classification to its wire form.
func NewRecordJSON(sql string, rec *classifier.Record) RecordJSON {
	out := RecordJSON{
		Statement:    sql,
		Status:       rec.Status().String(),
		Types:        rec.TypeMask().Names(),
		Operation:    rec.Operation().String(),
		RealQuery:    rec.IsRealQuery(),
		HasClause:    rec.HasClause(),
		ReplicaSafe:  rec.ReplicaSafe(),
		Tables:       rec.TableNames(false),
		FullTables:   rec.TableNames(true),
		Databases:    rec.DatabaseNames(),
		CreatedTable: rec.CreatedTableName(),
		DropTable:    rec.IsDropTable(),
		PrepareName:  rec.PrepareName(),
	}
	if out.Types == nil {
		out.Types = []string{}
	}
	if rec.PrepareOperation() != classifier.OpUndefined {
		out.PrepareOperation = rec.PrepareOperation().String()
	}
	for _, fi := range rec.FieldInfos() {
		out.Fields = append(out.Fields, FieldJSON{
			Database: fi.Database,
			Table:    fi.Table,
			Column:   fi.Column,
			Usage:    fi.Usage.Names(),
		})
	}
	return out
}

func (r *JSONRenderer) encode(v any) {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (r *JSONRenderer) RenderRecord(sql string, rec *classifier.Record) {
	r.encode(NewRecordJSON(sql, rec))
}

func (r *JSONRenderer) RenderBatch(results []Result) {
	s := Summarize(results)
	out := jsonBatch{
		Summary: jsonSummary{
			Total:       s.Total,
			ReplicaSafe: s.ReplicaSafe,
			ByStatus:    make(map[string]int),
			ByOperation: make(map[string]int),
		},
		Results: make([]RecordJSON, 0, len(results)),
	}
	for st, n := range s.ByStatus {
		out.Summary.ByStatus[st.String()] = n
	}
	for op, n := range s.ByOperation {
		out.Summary.ByOperation[op.String()] = n
	}
	for _, res := range results {
		out.Results = append(out.Results, NewRecordJSON(res.SQL, res.Record))
	}
	r.encode(out)
}

func (r *JSONRenderer) RenderDigests(server *mysql.ServerInfo, reports []DigestReport) {
	out := jsonDigestReport{
		Server: jsonServer{
			Version:       server.Version.String(),
			ReadOnly:      server.ReadOnly,
			SuperReadOnly: server.SuperReadOnly,
			IsReplica:     server.IsReplica,
			ReplicaLag:    server.ReplicaLag,
		},
		Digests: make([]jsonDigest, 0, len(reports)),
	}
	for _, rep := range reports {
		d := jsonDigest{
			Schema:         rep.Digest.Schema,
			Digest:         rep.Digest.Digest,
			Count:          rep.Digest.Count,
			TotalLatencyMS: float64(rep.Digest.TotalLatency) / float64(time.Millisecond),
			RowsExamined:   rep.Digest.RowsExamined,
			Warning:        rep.Warning,
			Record:         NewRecordJSON(rep.Digest.Statement(), rep.Record),
		}
		if !rep.Digest.LastSeen.IsZero() {
			seen := rep.Digest.LastSeen
			d.LastSeen = &seen
		}
		out.Digests = append(out.Digests, d)
	}
	r.encode(out)
}
