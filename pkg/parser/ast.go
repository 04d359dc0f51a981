package parser

import "github.com/leapstack-labs/leapdb/pkg/token"

// Statement represents one validated command.
type Statement interface {
	stmtNode()
	// Kind names the statement category (USE, CREATE, ...).
	Kind() string
	// GetSpan returns the statement's source span, ';' included.
	GetSpan() token.Span
}

// NodeInfo provides common fields for all statement nodes.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// ObjectType distinguishes DATABASE and TABLE targets.
type ObjectType string

// ObjectType constants for CREATE and DROP.
const (
	ObjectDatabase ObjectType = "DATABASE"
	ObjectTable    ObjectType = "TABLE"
)

// AlterAction distinguishes ALTER TABLE ... ADD and ... DROP.
type AlterAction string

// AlterAction constants.
const (
	AlterAdd  AlterAction = "ADD"
	AlterDrop AlterAction = "DROP"
)

// Value is a literal cell value. Text is the stored representation.
type Value struct {
	Token token.Token
	Text  string
}

// NewValue builds a Value from a literal token.
func NewValue(tok token.Token) Value {
	return Value{Token: tok, Text: tok.ValueText()}
}

// Condition is a validated boolean expression. The raw token span is kept so
// the evaluator can apply its own splitting rules.
type Condition struct {
	Tokens []token.Token
}

// Assignment is one "attr = value" pair of an UPDATE.
type Assignment struct {
	Attribute string
	Value     Value
}

// ---------- Statement Types ----------

// UseStmt selects the session database.
type UseStmt struct {
	NodeInfo
	Database string
}

// CreateDatabaseStmt creates a database.
type CreateDatabaseStmt struct {
	NodeInfo
	Name string
}

// CreateTableStmt creates a table, optionally with attributes.
type CreateTableStmt struct {
	NodeInfo
	Name       string
	Attributes []string
}

// DropStmt drops a database or table.
type DropStmt struct {
	NodeInfo
	Object ObjectType
	Name   string
}

// AlterStmt adds or drops one attribute.
type AlterStmt struct {
	NodeInfo
	Table     string
	Action    AlterAction
	Attribute string
}

// InsertStmt appends one row.
type InsertStmt struct {
	NodeInfo
	Table  string
	Values []Value
}

// SelectStmt projects attributes of a table, optionally filtered.
type SelectStmt struct {
	NodeInfo
	Wildcard   bool
	Attributes []string
	Table      string
	Where      *Condition // nil when unconditioned
}

// UpdateStmt reassigns cells of matching rows.
type UpdateStmt struct {
	NodeInfo
	Table       string
	Assignments []Assignment
	Where       *Condition
}

// DeleteStmt removes matching rows.
type DeleteStmt struct {
	NodeInfo
	Table string
	Where *Condition
}

// JoinStmt inner-joins two tables on value equality.
type JoinStmt struct {
	NodeInfo
	LeftTable      string
	RightTable     string
	LeftAttribute  string
	RightAttribute string
}

func (*UseStmt) stmtNode()            {}
func (*CreateDatabaseStmt) stmtNode() {}
func (*CreateTableStmt) stmtNode()    {}
func (*DropStmt) stmtNode()           {}
func (*AlterStmt) stmtNode()          {}
func (*InsertStmt) stmtNode()         {}
func (*SelectStmt) stmtNode()         {}
func (*UpdateStmt) stmtNode()         {}
func (*DeleteStmt) stmtNode()         {}
func (*JoinStmt) stmtNode()           {}

// Kind implementations.
func (*UseStmt) Kind() string            { return "USE" }
func (*CreateDatabaseStmt) Kind() string { return "CREATE" }
func (*CreateTableStmt) Kind() string    { return "CREATE" }
func (*DropStmt) Kind() string           { return "DROP" }
func (*AlterStmt) Kind() string          { return "ALTER" }
func (*InsertStmt) Kind() string         { return "INSERT" }
func (*SelectStmt) Kind() string         { return "SELECT" }
func (*UpdateStmt) Kind() string         { return "UPDATE" }
func (*DeleteStmt) Kind() string         { return "DELETE" }
func (*JoinStmt) Kind() string           { return "JOIN" }
