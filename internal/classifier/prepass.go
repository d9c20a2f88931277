package classifier

import (
	"regexp"
	"strings"
)

const (
	identPattern = "(?:`(?:[^`]|``)+`|[A-Za-z0-9_$]+)"
	namePattern  = identPattern + `(?:\s*\.\s*` + identPattern + `)?`
	listPattern  = namePattern + `(?:\s*,\s*` + namePattern + `)*`
)

// Statements the grammar rejects, or parses without the details the hooks
// need, are recognised up front.
var (
	reLoadData      = regexp.MustCompile(`(?is)^LOAD\s+DATA\b.*?\bINTO\s+TABLE\s+(` + namePattern + `)`)
	rePrivileges    = regexp.MustCompile(`(?i)^(GRANT|REVOKE)\b`)
	reTableMaint    = regexp.MustCompile(`(?i)^(CHECK|ANALYZE|OPTIMIZE|REPAIR)\s+(?:(?:NO_WRITE_TO_BINLOG|LOCAL)\s+)?TABLES?\s+(` + listPattern + `)`)
	reCreateTrigger = regexp.MustCompile(`(?is)^CREATE\s+(?:DEFINER\s*=\s*\S+\s+)?TRIGGER\s+(?:IF\s+NOT\s+EXISTS\s+)?` + namePattern + `\s+(?:BEFORE|AFTER)\s+(?:INSERT|UPDATE|DELETE)\s+ON\s+(` + namePattern + `)`)
	reDropTrigger   = regexp.MustCompile(`(?i)^DROP\s+TRIGGER\b`)
	reHandlerOpen   = regexp.MustCompile(`(?i)^HANDLER\s+(` + namePattern + `)\s+OPEN\b`)
	reHandlerClose  = regexp.MustCompile(`(?i)^HANDLER\s+(` + identPattern + `)\s+CLOSE\b`)
	reDo            = regexp.MustCompile(`(?i)^DO\s`)
	reCreateTable   = regexp.MustCompile(`(?i)^CREATE\s+(TEMPORARY\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(` + namePattern + `)\s*`)
	reCreateSelect  = regexp.MustCompile(`(?is)^(?:[^()'"]*?\s)?(?:IGNORE\s+|REPLACE\s+)?(?:AS\s+)?((?:\(\s*)*(?:SELECT|WITH)\b.*)$`)
	reSetTrx        = regexp.MustCompile(`(?i)^SET\s+(?:(GLOBAL|SESSION|LOCAL)\s+)?TRANSACTION\b`)
	reShowMaster    = regexp.MustCompile(`(?i)^SHOW\s+(?:MASTER|BINARY\s+LOG)\s+STATUS\b`)
	reShowReplica   = regexp.MustCompile(`(?i)^SHOW\s+(?:ALL\s+)?(?:SLAVE|REPLICA)S?\s+STATUS\b`)
	reShowWarnings  = regexp.MustCompile(`(?i)^SHOW\s+(?:COUNT\s*\(\s*\*\s*\)\s+)?WARNINGS\b`)
)

// prepass classifies the statements recognised by pattern. It reports
// whether one matched; a match acts as the statement hook.
func (c *Classifier) prepass(sql string, w *walker) bool {
	rec := w.rec
	text := stripLeadingComments(sql)

	switch {
	case reLoadData.MatchString(text):
		m := reLoadData.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite
		rec.operation = OpLoad
		rec.addTable(splitQualified(m[1]))

	case rePrivileges.MatchString(text):
		m := rePrivileges.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite | TypeCommit
		if strings.EqualFold(m[1], "GRANT") {
			rec.operation = OpGrant
		} else {
			rec.operation = OpRevoke
		}

	case reTableMaint.MatchString(text):
		m := reTableMaint.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite | TypeCommit
		for _, name := range splitNameList(m[2]) {
			rec.addTable(splitQualified(name))
		}

	case reCreateTrigger.MatchString(text):
		m := reCreateTrigger.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite | TypeCommit
		rec.operation = OpCreate
		rec.addTable(splitQualified(m[1]))

	case reDropTrigger.MatchString(text):
		rec.setStatus(Parsed)
		rec.types = TypeWrite | TypeCommit
		rec.operation = OpDrop

	case reHandlerOpen.MatchString(text):
		m := reHandlerOpen.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite
		rec.addTable(splitQualified(m[1]))

	case reHandlerClose.MatchString(text):
		m := reHandlerClose.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		rec.types = TypeWrite
		rec.addTable("*any*", m[1])

	case reDo.MatchString(text):
		rec.setStatus(Parsed)
		rec.types = TypeRead | TypeWrite

	case reSetTrx.MatchString(text):
		m := reSetTrx.FindStringSubmatch(text)
		rec.setStatus(Parsed)
		if m[1] != "" {
			rec.types = TypeGlobalSysVarWrite
		} else {
			rec.types = TypeWrite
		}

	case reShowMaster.MatchString(text):
		rec.setStatus(Parsed)
		rec.types = TypeWrite

	case reShowReplica.MatchString(text):
		rec.setStatus(Parsed)
		rec.types = TypeRead

	case reShowWarnings.MatchString(text):
		rec.setStatus(Parsed)
		rec.types = TypeWrite

	default:
		return c.prepassCreateSelect(text, w)
	}

	return true
}

// prepassCreateSelect handles CREATE TABLE ... [AS] SELECT. The created
// table is registered first, then the select is parsed on its own and
// walked.
func (c *Classifier) prepassCreateSelect(text string, w *walker) bool {
	loc := reCreateTable.FindStringSubmatchIndex(text)
	if loc == nil {
		return false
	}
	temporary := loc[2] >= 0
	name := text[loc[4]:loc[5]]

	rest := text[loc[1]:]
	if strings.HasPrefix(rest, "(") && !startsWithSelect(rest) {
		end := matchingParen(rest)
		if end < 0 {
			return false
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	m := reCreateSelect.FindStringSubmatch(rest)
	if m == nil {
		return false
	}

	rec := w.rec
	rec.setStatus(Parsed)
	rec.operation = OpCreate
	rec.types = TypeWrite
	if temporary {
		rec.types |= TypeCreateTmpTable
	} else {
		rec.types |= TypeCommit
	}
	rec.addTable(splitQualified(name))
	rec.createdTableName = rec.tableNames[0]

	stmt, err := c.parser.Parse(m[1])
	if err != nil {
		c.log.Debug().Err(err).Msg("select of CREATE TABLE not understood")
		rec.setStatus(PartiallyParsed)
		return true
	}
	w.walkSelect(stmt, UsedInSelect, nil)
	rec.isRealQuery = false
	return true
}

func startsWithSelect(s string) bool {
	s = strings.TrimLeft(s, "( \t\r\n")
	upper := strings.ToUpper(s)
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}

// matchingParen returns the index of the parenthesis closing s[0], skipping
// quoted strings and identifiers, or -1.
func matchingParen(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch {
			case ch == '\\' && quote != '`':
				i++
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitNameList splits a comma separated list of names, ignoring commas
// inside backquotes.
func splitNameList(list string) []string {
	var names []string
	quoted := false
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '`':
			quoted = !quoted
		case ',':
			if !quoted {
				names = append(names, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(names, strings.TrimSpace(list[start:]))
}

// stripLeadingComments removes whitespace and comments in front of the
// first token.
func stripLeadingComments(sql string) string {
	for {
		sql = strings.TrimLeft(sql, " \t\r\n\f")
		switch {
		case strings.HasPrefix(sql, "/*!"):
			// MySQL executable comment: its body is statement text.
			return sql
		case strings.HasPrefix(sql, "/*"):
			end := strings.Index(sql[2:], "*/")
			if end < 0 {
				return ""
			}
			sql = sql[end+4:]
		case strings.HasPrefix(sql, "-- "), strings.HasPrefix(sql, "--\t"), strings.HasPrefix(sql, "#"):
			end := strings.IndexByte(sql, '\n')
			if end < 0 {
				return ""
			}
			sql = sql[end+1:]
		default:
			return sql
		}
	}
}

// isCommentOnly reports whether sql holds nothing but comments.
func isCommentOnly(sql string) bool {
	return strings.TrimSpace(sql) != "" && stripLeadingComments(sql) == ""
}
