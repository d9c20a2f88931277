package classifier

import (
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"
)

type keywordClass struct {
	types TypeMask
	op    Operation
	real  bool
}

// firstKeywords classifies a statement by its first keyword alone.
var firstKeywords = map[string]keywordClass{
	"ALTER":    {types: TypeWrite | TypeCommit, op: OpAlter},
	"CALL":     {types: TypeWrite},
	"CREATE":   {types: TypeWrite | TypeCommit, op: OpCreate},
	"DELETE":   {types: TypeWrite, op: OpDelete, real: true},
	"DESC":     {types: TypeRead},
	"DESCRIBE": {types: TypeRead},
	"DROP":     {types: TypeWrite | TypeCommit, op: OpDrop},
	"EXECUTE":  {types: TypeWrite, real: true},
	"EXPLAIN":  {types: TypeRead},
	"GRANT":    {types: TypeWrite | TypeCommit, op: OpGrant},
	"HANDLER":  {types: TypeWrite},
	"INSERT":   {types: TypeWrite, op: OpInsert, real: true},
	"LOCK":     {types: TypeWrite},
	"PREPARE":  {types: TypePrepareNamedStmt, real: true},
	"REPLACE":  {types: TypeWrite, op: OpInsert, real: true},
	"REVOKE":   {types: TypeWrite | TypeCommit, op: OpRevoke},
	"SELECT":   {types: TypeRead, op: OpSelect},
	"SET":      {types: TypeGlobalSysVarWrite},
	"SHOW":     {types: TypeWrite},
	"START":    {types: TypeWrite},
	"UNLOCK":   {types: TypeWrite},
	"UPDATE":   {types: TypeWrite, op: OpUpdate, real: true},
	"TRUNCATE": {types: TypeWrite | TypeCommit, real: true},
}

// secondKeywords classifies a statement by its first two keywords.
var secondKeywords = map[[2]string]keywordClass{
	{"CHECK", "TABLE"}:        {types: TypeWrite | TypeCommit},
	{"DEALLOCATE", "PREPARE"}: {types: TypeSessionWrite},
	{"LOAD", "DATA"}:          {types: TypeWrite, op: OpLoad},
	{"RENAME", "TABLE"}:       {types: TypeWrite | TypeCommit},
	{"START", "TRANSACTION"}:  {types: TypeBeginTrx},
	{"SHOW", "DATABASES"}:     {types: TypeShowDatabases},
	{"SHOW", "TABLES"}:        {types: TypeShowTables},
}

// extraKeywords are words the grammar does not reserve but which still
// count as keywords for classification.
var extraKeywords = toSet("CHECK", "DATA", "DEALLOCATE", "HANDLER", "LOAD", "RENAME", "DATABASES", "TABLES", "TRANSACTION")

// keyword returns the upper-cased keyword for a scanned token, or "".
func keyword(typ int, val string) string {
	if typ == sqlparser.ID {
		upper := strings.ToUpper(val)
		if _, ok := extraKeywords[upper]; ok {
			return upper
		}
		if _, ok := firstKeywords[upper]; ok {
			return upper
		}
		return ""
	}
	if kw := sqlparser.KeywordString(typ); kw != "" {
		return strings.ToUpper(kw)
	}
	return ""
}

// scanKeywords runs the tokenizer over sql and applies the keyword tables
// to the first two keywords. Tokens after the second keyword are not
// looked at.
func scanKeywords(parser *sqlparser.Parser, sql string, rec *Record) {
	tkn := parser.NewStringTokenizer(sql)
	for rec.keyword2 == "" {
		typ, val := tkn.Scan()
		if typ == 0 || typ == sqlparser.LEX_ERROR {
			return
		}
		if typ == sqlparser.COMMENT {
			continue
		}
		kw := keyword(typ, val)
		if kw == "" {
			continue
		}

		if rec.keyword1 == "" {
			rec.keyword1 = kw
			if class, ok := firstKeywords[kw]; ok {
				rec.tokenize(class.types, class.op, class.real)
			}
			continue
		}

		rec.keyword2 = kw
		if class, ok := secondKeywords[[2]string{rec.keyword1, kw}]; ok {
			rec.tokenize(class.types, class.op, class.real)
		}
	}
}
