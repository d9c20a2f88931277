package classifier

// Record is the classification of one statement. It is filled in by a single
// call to Classifier.Classify and must be treated as read-only afterwards.
type Record struct {
	status      Status
	types       TypeMask
	operation   Operation
	isRealQuery bool
	hasClause   bool

	tableNames     []string
	tableFullnames []string
	databaseNames  []string

	createdTableName string
	isDropTable      bool

	fieldInfos []FieldInfo

	prepareName      string
	prepareOperation Operation
	preparableStmt   string

	// First and second keyword seen while scanning. Only used while the
	// record is being built.
	keyword1 string
	keyword2 string
}

func newRecord() *Record {
	return &Record{}
}

// Status returns how much of the statement was understood.
func (r *Record) Status() Status { return r.status }

// TypeMask returns the statement type flags.
func (r *Record) TypeMask() TypeMask { return r.types }

// Operation returns the principal operation.
func (r *Record) Operation() Operation { return r.operation }

// IsRealQuery reports whether the statement reads or writes row data.
func (r *Record) IsRealQuery() bool { return r.isRealQuery }

// HasClause reports whether a WHERE or HAVING clause restricts the statement.
func (r *Record) HasClause() bool { return r.hasClause }

// CreatedTableName returns the table created by CREATE TABLE/VIEW, or "".
func (r *Record) CreatedTableName() string { return r.createdTableName }

// IsDropTable reports whether the statement is DROP TABLE.
func (r *Record) IsDropTable() bool { return r.isDropTable }

// TableNames returns a copy of the referenced table names, one entry per
// textual reference. With fullnames set, qualified references are returned
// as "db.table".
func (r *Record) TableNames(fullnames bool) []string {
	src := r.tableNames
	if fullnames {
		src = r.tableFullnames
	}
	return append([]string(nil), src...)
}

// DatabaseNames returns a copy of the databases that qualified a table.
func (r *Record) DatabaseNames() []string {
	return append([]string(nil), r.databaseNames...)
}

// FieldInfos returns the column references. The slice is shared with the
// record and must not be modified.
func (r *Record) FieldInfos() []FieldInfo { return r.fieldInfos }

// PrepareName returns the statement name of PREPARE, EXECUTE and DEALLOCATE.
func (r *Record) PrepareName() string { return r.prepareName }

// PrepareOperation returns the operation of the statement text given to PREPARE.
func (r *Record) PrepareOperation() Operation { return r.prepareOperation }

// PreparableStatement returns the unquoted statement text given to PREPARE.
func (r *Record) PreparableStatement() string { return r.preparableStmt }

// replicaTypes are the flags a statement may carry and still be served by
// a read-only replica.
const replicaTypes = TypeRead | TypeUserVarRead | TypeSysVarRead | TypeGlobalSysVarRead |
	TypeShowDatabases | TypeShowTables

// ReplicaSafe reports whether the statement may be sent to a read-only
// replica. Anything not fully parsed goes to the primary.
func (r *Record) ReplicaSafe() bool {
	return r.status == Parsed && r.types != 0 && r.types&^replicaTypes == 0
}

func (r *Record) setStatus(s Status) {
	r.status = s
}

// tokenize records a keyword-based classification.
func (r *Record) tokenize(types TypeMask, op Operation, real bool) {
	r.status = Tokenized
	r.types = types
	if op != OpUndefined {
		r.operation = op
	}
	if real {
		r.isRealQuery = true
	}
}

// hasNamesOrFields reports whether any table or column was recorded.
func (r *Record) hasNamesOrFields() bool {
	return len(r.tableNames) > 0 || len(r.fieldInfos) > 0
}
