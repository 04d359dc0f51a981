package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// Statement rules. Each rule starts on its leading keyword and stops in
// front of the terminating ";", which parseStatement consumes.

// parseUse parses: USE name
func (p *Parser) parseUse() Statement {
	p.expect(token.USE)
	name, ok := p.parseName()
	if !ok {
		return nil
	}
	return &UseStmt{Database: name}
}

// parseCreate parses: CREATE DATABASE name | CREATE TABLE name [attr_list]
func (p *Parser) parseCreate() Statement {
	p.expect(token.CREATE)

	switch {
	case p.match(token.DATABASE):
		name, ok := p.parseName()
		if !ok {
			return nil
		}
		return &CreateDatabaseStmt{Name: name}

	case p.match(token.TABLE):
		name, ok := p.parseName()
		if !ok {
			return nil
		}
		stmt := &CreateTableStmt{Name: name}
		if p.match(token.LPAREN) {
			attrs, ok := p.parseNameList()
			if !ok || !p.expect(token.RPAREN) {
				return nil
			}
			stmt.Attributes = attrs
		}
		return stmt
	}

	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), "DATABASE or TABLE"))
	return nil
}

// parseDrop parses: DROP (DATABASE | TABLE) name
func (p *Parser) parseDrop() Statement {
	p.expect(token.DROP)

	var object ObjectType
	switch {
	case p.match(token.DATABASE):
		object = ObjectDatabase
	case p.match(token.TABLE):
		object = ObjectTable
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), "DATABASE or TABLE"))
		return nil
	}

	name, ok := p.parseName()
	if !ok {
		return nil
	}
	return &DropStmt{Object: object, Name: name}
}

// parseAlter parses: ALTER TABLE name (ADD | DROP) name
func (p *Parser) parseAlter() Statement {
	p.expect(token.ALTER)
	if !p.expect(token.TABLE) {
		return nil
	}
	table, ok := p.parseName()
	if !ok {
		return nil
	}

	var action AlterAction
	switch {
	case p.match(token.ADD):
		action = AlterAdd
	case p.match(token.DROP):
		action = AlterDrop
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), "ADD or DROP"))
		return nil
	}

	attr, ok := p.parseName()
	if !ok {
		return nil
	}
	return &AlterStmt{Table: table, Action: action, Attribute: attr}
}

// parseInsert parses: INSERT INTO name VALUES "(" value ("," value)* ")"
func (p *Parser) parseInsert() Statement {
	p.expect(token.INSERT)
	if !p.expect(token.INTO) {
		return nil
	}
	table, ok := p.parseName()
	if !ok {
		return nil
	}
	if !p.expect(token.VALUES) || !p.expect(token.LPAREN) {
		return nil
	}

	stmt := &InsertStmt{Table: table}
	for {
		v, ok := p.parseValue()
		if !ok {
			return nil
		}
		stmt.Values = append(stmt.Values, v)
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return stmt
}

// parseSelect parses: SELECT ("*" | name_list) FROM name [WHERE condition]
func (p *Parser) parseSelect() Statement {
	p.expect(token.SELECT)

	stmt := &SelectStmt{}
	if p.match(token.STAR) {
		stmt.Wildcard = true
	} else {
		attrs, ok := p.parseNameList()
		if !ok {
			return nil
		}
		stmt.Attributes = attrs
	}

	if !p.expect(token.FROM) {
		return nil
	}
	table, ok := p.parseName()
	if !ok {
		return nil
	}
	stmt.Table = table

	if p.match(token.WHERE) {
		stmt.Where = p.parseCondition()
		if stmt.Where == nil {
			return nil
		}
	}
	return stmt
}

// parseUpdate parses: UPDATE name SET name "=" value ("," name "=" value)* WHERE condition
func (p *Parser) parseUpdate() Statement {
	p.expect(token.UPDATE)
	table, ok := p.parseName()
	if !ok {
		return nil
	}
	if !p.expect(token.SET) {
		return nil
	}

	stmt := &UpdateStmt{Table: table}
	for {
		attr, ok := p.parseName()
		if !ok || !p.expect(token.ASSIGN) {
			return nil
		}
		v, ok := p.parseValue()
		if !ok {
			return nil
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Attribute: attr, Value: v})
		if !p.match(token.COMMA) {
			break
		}
	}

	if !p.expect(token.WHERE) {
		return nil
	}
	stmt.Where = p.parseCondition()
	if stmt.Where == nil {
		return nil
	}
	return stmt
}

// parseDelete parses: DELETE FROM name WHERE condition
func (p *Parser) parseDelete() Statement {
	p.expect(token.DELETE)
	if !p.expect(token.FROM) {
		return nil
	}
	table, ok := p.parseName()
	if !ok {
		return nil
	}
	if !p.expect(token.WHERE) {
		return nil
	}
	where := p.parseCondition()
	if where == nil {
		return nil
	}
	return &DeleteStmt{Table: table, Where: where}
}

// parseJoin parses: JOIN name AND name ON name AND name
func (p *Parser) parseJoin() Statement {
	p.expect(token.JOIN)

	var names [4]string
	for i, sep := range []token.TokenType{token.AND, token.ON, token.AND, token.EOF} {
		name, ok := p.parseName()
		if !ok {
			return nil
		}
		names[i] = name
		if sep != token.EOF && !p.expect(sep) {
			return nil
		}
	}
	return &JoinStmt{
		LeftTable:      names[0],
		RightTable:     names[1],
		LeftAttribute:  names[2],
		RightAttribute: names[3],
	}
}

// ---------- Shared Rules ----------

// parseNameList parses: name ("," name)*
func (p *Parser) parseNameList() ([]string, bool) {
	var names []string
	for {
		name, ok := p.parseName()
		if !ok {
			return nil, false
		}
		names = append(names, name)
		if !p.match(token.COMMA) {
			return names, true
		}
	}
}

// parseValue parses: string | number | TRUE | FALSE | NULL
func (p *Parser) parseValue() (Value, bool) {
	tok := p.token()
	if !tok.IsValue() {
		p.addError(fmt.Sprintf(ErrInvalidValue, tok))
		return Value{}, false
	}
	if tok.Type == token.STRING && !validStringLiteral(tok.Literal) {
		p.addError(ErrTabInString)
		return Value{}, false
	}
	p.advance()
	return NewValue(tok), true
}

func validStringLiteral(lit string) bool {
	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '\t', '\n', '\r':
			return false
		}
	}
	return true
}
