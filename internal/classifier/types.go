package classifier

import "strings"

// Status describes how much of a statement was understood. The ordering is
// significant: Invalid < Tokenized < PartiallyParsed < Parsed.
type Status int

const (
	Invalid Status = iota
	Tokenized
	PartiallyParsed
	Parsed
)

func (s Status) String() string {
	switch s {
	case Tokenized:
		return "TOKENIZED"
	case PartiallyParsed:
		return "PARTIALLY_PARSED"
	case Parsed:
		return "PARSED"
	default:
		return "INVALID"
	}
}

// TypeMask is a set of statement type flags. Flags are only ever OR'd in,
// except for the reset performed by the SET statement hook.
type TypeMask uint32

const (
	TypeUnknown TypeMask = 1 << iota
	TypeRead
	TypeWrite
	TypeMasterRead
	TypeSessionWrite
	TypeUserVarWrite
	TypeUserVarRead
	TypeSysVarRead
	TypeSysVarWrite
	TypeGlobalSysVarRead
	TypeGlobalSysVarWrite
	TypeBeginTrx
	TypeEnableAutocommit
	TypeDisableAutocommit
	TypeRollback
	TypeCommit
	TypePrepareNamedStmt
	TypeCreateTmpTable
	TypeShowDatabases
	TypeShowTables
)

var typeNames = []struct {
	bit  TypeMask
	name string
}{
	{TypeUnknown, "Unknown"},
	{TypeRead, "Read"},
	{TypeWrite, "Write"},
	{TypeMasterRead, "MasterRead"},
	{TypeSessionWrite, "SessionWrite"},
	{TypeUserVarWrite, "UserVarWrite"},
	{TypeUserVarRead, "UserVarRead"},
	{TypeSysVarRead, "SysVarRead"},
	{TypeSysVarWrite, "SysVarWrite"},
	{TypeGlobalSysVarRead, "GlobalSysVarRead"},
	{TypeGlobalSysVarWrite, "GlobalSysVarWrite"},
	{TypeBeginTrx, "BeginTrx"},
	{TypeEnableAutocommit, "EnableAutocommit"},
	{TypeDisableAutocommit, "DisableAutocommit"},
	{TypeRollback, "Rollback"},
	{TypeCommit, "Commit"},
	{TypePrepareNamedStmt, "PrepareNamedStmt"},
	{TypeCreateTmpTable, "CreateTmpTable"},
	{TypeShowDatabases, "ShowDatabases"},
	{TypeShowTables, "ShowTables"},
}

// Has reports whether every flag in other is set.
func (m TypeMask) Has(other TypeMask) bool {
	return other != 0 && m&other == other
}

// Names returns the names of the set flags in declaration order.
func (m TypeMask) Names() []string {
	var names []string
	for _, t := range typeNames {
		if m&t.bit != 0 {
			names = append(names, t.name)
		}
	}
	return names
}

func (m TypeMask) String() string {
	if m == 0 {
		return "None"
	}
	return strings.Join(m.Names(), "|")
}

// Operation is the principal operation a statement performs.
type Operation int

const (
	OpUndefined Operation = iota
	OpSelect
	OpInsert
	OpUpdate
	OpDelete
	OpCreate
	OpAlter
	OpDrop
	OpTruncate
	OpGrant
	OpRevoke
	OpLoad
	OpChangeDB
)

var operationNames = map[Operation]string{
	OpUndefined: "UNDEFINED",
	OpSelect:    "SELECT",
	OpInsert:    "INSERT",
	OpUpdate:    "UPDATE",
	OpDelete:    "DELETE",
	OpCreate:    "CREATE",
	OpAlter:     "ALTER",
	OpDrop:      "DROP",
	OpTruncate:  "TRUNCATE",
	OpGrant:     "GRANT",
	OpRevoke:    "REVOKE",
	OpLoad:      "LOAD",
	OpChangeDB:  "CHANGE_DB",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "UNDEFINED"
}

// Usage records the syntactic contexts a column was referenced in.
type Usage uint32

const (
	UsedInSelect Usage = 1 << iota
	UsedInSubselect
	UsedInWhere
	UsedInSet
	UsedInGroupBy
)

var usageNames = []struct {
	bit  Usage
	name string
}{
	{UsedInSelect, "SELECT"},
	{UsedInSubselect, "SUBSELECT"},
	{UsedInWhere, "WHERE"},
	{UsedInSet, "SET"},
	{UsedInGroupBy, "GROUP_BY"},
}

// Names returns the names of the set bits in declaration order.
func (u Usage) Names() []string {
	var names []string
	for _, n := range usageNames {
		if u&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (u Usage) String() string {
	return strings.Join(u.Names(), "|")
}

// FieldInfo is one column reference. Database and Table are empty when the
// reference was not qualified.
type FieldInfo struct {
	Database string
	Table    string
	Column   string
	Usage    Usage
}

// String renders the reference the way it would be written in SQL.
func (f FieldInfo) String() string {
	switch {
	case f.Database != "":
		return f.Database + "." + f.Table + "." + f.Column
	case f.Table != "":
		return f.Table + "." + f.Column
	default:
		return f.Column
	}
}
