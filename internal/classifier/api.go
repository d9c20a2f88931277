package classifier

import (
	"github.com/nethalo/sqlclass/internal/buffer"
)

// GetCachedOrClassify returns the classification attached to buf,
// classifying and attaching it first if needed. Buffers that carry no
// statement text get an Invalid record.
func (c *Classifier) GetCachedOrClassify(buf *buffer.Buffer) *Record {
	if data, ok := buf.Attached(buffer.SlotClassification); ok {
		if rec, ok := data.(*Record); ok {
			return rec
		}
	}

	var rec *Record
	if buf.IsSQL() {
		rec = c.Classify(buf.SQL)
	} else {
		c.log.Error().Uint8("command", buf.Command).
			Msg("The provided buffer does not contain a COM_QUERY or COM_STMT_PREPARE")
		rec = newRecord()
	}

	if !buf.Attach(buffer.SlotClassification, rec, nil) {
		// Another goroutine won the race; use its record.
		if data, ok := buf.Attached(buffer.SlotClassification); ok {
			if attached, ok := data.(*Record); ok {
				return attached
			}
		}
	}
	return rec
}

// record returns the classification of buf, or nil after logging when the
// statement could not be parsed.
func (c *Classifier) record(buf *buffer.Buffer, what string) *Record {
	rec := c.GetCachedOrClassify(buf)
	if rec.status == Invalid {
		c.log.Debug().Str("statement", preview(buf.SQL)).
			Msgf("Parsing the query failed, cannot report %s", what)
		return nil
	}
	return rec
}

// Status returns how much of the statement in buf was understood.
func (c *Classifier) Status(buf *buffer.Buffer) Status {
	return c.GetCachedOrClassify(buf).status
}

// TypeMask returns the type flags of the statement in buf, or 0 when it is invalid.
func (c *Classifier) TypeMask(buf *buffer.Buffer) TypeMask {
	if rec := c.record(buf, "query type"); rec != nil {
		return rec.types
	}
	return 0
}

// Operation returns the main operation of the statement in buf.
func (c *Classifier) Operation(buf *buffer.Buffer) Operation {
	if rec := c.record(buf, "query operation"); rec != nil {
		return rec.operation
	}
	return OpUndefined
}

// CreatedTableName returns the table a CREATE TABLE in buf creates.
func (c *Classifier) CreatedTableName(buf *buffer.Buffer) string {
	if rec := c.record(buf, "created table name"); rec != nil {
		return rec.createdTableName
	}
	return ""
}

// IsDropTable reports whether buf holds a DROP TABLE.
func (c *Classifier) IsDropTable(buf *buffer.Buffer) bool {
	if rec := c.record(buf, "whether query is drop table"); rec != nil {
		return rec.isDropTable
	}
	return false
}

// IsRealQuery reports whether the statement in buf touches table data.
func (c *Classifier) IsRealQuery(buf *buffer.Buffer) bool {
	if rec := c.record(buf, "whether query is a real query"); rec != nil {
		return rec.isRealQuery
	}
	return false
}

// HasClause reports whether the statement in buf has a WHERE or HAVING clause.
func (c *Classifier) HasClause(buf *buffer.Buffer) bool {
	if rec := c.record(buf, "whether the query has a where clause"); rec != nil {
		return rec.hasClause
	}
	return false
}

// TableNames returns a copy of the table names; see Record.TableNames.
func (c *Classifier) TableNames(buf *buffer.Buffer, fullnames bool) []string {
	if rec := c.record(buf, "what tables are accessed"); rec != nil {
		return rec.TableNames(fullnames)
	}
	return nil
}

// DatabaseNames returns a copy of the databases that qualify tables in buf.
func (c *Classifier) DatabaseNames(buf *buffer.Buffer) []string {
	if rec := c.record(buf, "what databases are accessed"); rec != nil {
		return rec.DatabaseNames()
	}
	return nil
}

// PrepareName returns the prepared statement name used by buf.
func (c *Classifier) PrepareName(buf *buffer.Buffer) string {
	if rec := c.record(buf, "the prepared statement name"); rec != nil {
		return rec.prepareName
	}
	return ""
}

// PrepareOperation returns the operation of the statement text prepared by buf.
func (c *Classifier) PrepareOperation(buf *buffer.Buffer) Operation {
	if rec := c.record(buf, "the operation of the prepared statement"); rec != nil {
		return rec.prepareOperation
	}
	return OpUndefined
}

// FieldInfos returns the column references. The slice belongs to the
// record attached to buf.
func (c *Classifier) FieldInfos(buf *buffer.Buffer) []FieldInfo {
	if rec := c.record(buf, "field information"); rec != nil {
		return rec.fieldInfos
	}
	return nil
}
