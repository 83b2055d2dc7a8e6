// Package sql is a deliberately minimal single-table SQL frontend over the
// engine package, translating a small subset of SELECT/INSERT/DELETE
// statements into engine operator trees. It exists to give
// github.com/xwb1989/sqlparser a genuine caller, not to be a general query
// planner -- anything beyond one table with simple WHERE/ORDER BY/LIMIT
// clauses is rejected with a ParseError rather than half-translated.
package sql

import (
	"strconv"

	"github.com/xwb1989/sqlparser"

	"heapdb/engine"
)

// Translate parses one SQL statement and returns the engine Operator (or,
// for INSERT/DELETE, the Insert/Delete operator) that executes it. A bare
// CREATE TABLE is handled directly against the catalog and returns a nil
// Operator -- there is nothing to iterate.
func Translate(ctx *engine.Context, tid engine.TransactionID, query string) (engine.Operator, error) {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return nil, engine.GoDBError{Code: parseErrCode(), Msg: err.Error()}
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		return translateSelect(ctx, s)
	case *sqlparser.Insert:
		return translateInsert(ctx, tid, s)
	case *sqlparser.Delete:
		return translateDelete(ctx, tid, s)
	case *sqlparser.DDL:
		return nil, translateCreateTable(ctx, s)
	default:
		return nil, parseErr("unsupported statement type")
	}
}

func translateCreateTable(ctx *engine.Context, ddl *sqlparser.DDL) error {
	if ddl.Action != sqlparser.CreateStr || ddl.TableSpec == nil {
		return parseErr("only CREATE TABLE is supported")
	}
	tableName := ddl.NewName.Name.CompliantName()

	var types []engine.Type
	var names []string
	var pk string
	for _, col := range ddl.TableSpec.Columns {
		names = append(names, col.Name.CompliantName())
		switch col.Type.Type {
		case "int", "integer", "bigint":
			types = append(types, engine.IntType)
		case "varchar", "char", "text", "string":
			types = append(types, engine.StringType)
		default:
			return parseErr("unsupported column type: " + col.Type.Type)
		}
		if col.Type.KeyOpt == sqlparser.ColKeyPrimary {
			pk = col.Name.CompliantName()
		}
	}
	desc, err := engine.NewTupleDesc(types, names)
	if err != nil {
		return err
	}
	return ctx.Catalog.CreateTable(tableName, desc, pk)
}

func parseErrCode() engine.ErrorCode { return engine.ParseError }

func parseErr(msg string) error {
	return engine.GoDBError{Code: engine.ParseError, Msg: msg}
}

func singleTableName(from sqlparser.TableExprs) (string, error) {
	if len(from) != 1 {
		return "", parseErr("only single-table queries are supported")
	}
	aliased, ok := from[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", parseErr("unsupported FROM clause")
	}
	tn, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", parseErr("unsupported FROM clause")
	}
	return tn.Name.CompliantName(), nil
}

func translateSelect(ctx *engine.Context, s *sqlparser.Select) (engine.Operator, error) {
	tableName, err := singleTableName(s.From)
	if err != nil {
		return nil, err
	}
	file, err := ctx.Catalog.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	var op engine.Operator = engine.NewSeqScan(file, tableName)

	if s.Where != nil {
		op, err = applyWhere(op, s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	if len(s.OrderBy) > 0 {
		exprs := make([]engine.Expr, 0, len(s.OrderBy))
		asc := make([]bool, 0, len(s.OrderBy))
		for _, o := range s.OrderBy {
			col, ok := o.Expr.(*sqlparser.ColName)
			if !ok {
				return nil, parseErr("unsupported ORDER BY expression")
			}
			fe, err := fieldExprFor(op, col)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, fe)
			asc = append(asc, o.Direction != sqlparser.DescScr)
		}
		op, err = engine.NewOrderBy(exprs, op, asc)
		if err != nil {
			return nil, err
		}
	}

	if s.Limit != nil && s.Limit.Rowcount != nil {
		n, err := literalInt(s.Limit.Rowcount)
		if err != nil {
			return nil, err
		}
		op = engine.NewLimitOp(n, op)
	}

	return projectSelectExprs(op, s.SelectExprs)
}

func projectSelectExprs(child engine.Operator, exprs sqlparser.SelectExprs) (engine.Operator, error) {
	for _, se := range exprs {
		if _, ok := se.(*sqlparser.StarExpr); ok {
			return child, nil
		}
	}
	var outExprs []engine.Expr
	var names []string
	for _, se := range exprs {
		ae, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, parseErr("unsupported select expression")
		}
		col, ok := ae.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, parseErr("only plain column references are supported in SELECT")
		}
		fe, err := fieldExprFor(child, col)
		if err != nil {
			return nil, err
		}
		outExprs = append(outExprs, fe)
		if ae.As.String() != "" {
			names = append(names, ae.As.String())
		} else {
			names = append(names, col.Name.CompliantName())
		}
	}
	return engine.NewProjector(outExprs, names, child, false)
}

func fieldExprFor(op engine.Operator, col *sqlparser.ColName) (engine.Expr, error) {
	desc := op.Descriptor()
	idx, err := desc.FieldNameToIndex(col.Name.CompliantName())
	if err != nil {
		return nil, err
	}
	return &engine.FieldExpr{Field: desc.Fields[idx]}, nil
}

func applyWhere(child engine.Operator, expr sqlparser.Expr) (engine.Operator, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := applyWhere(child, e.Left)
		if err != nil {
			return nil, err
		}
		return applyWhere(left, e.Right)
	case *sqlparser.ComparisonExpr:
		return applyComparison(child, e)
	default:
		return nil, parseErr("unsupported WHERE expression")
	}
}

func applyComparison(child engine.Operator, e *sqlparser.ComparisonExpr) (engine.Operator, error) {
	col, ok := e.Left.(*sqlparser.ColName)
	if !ok {
		return nil, parseErr("WHERE comparisons must be column op literal")
	}
	lit, ok := e.Right.(*sqlparser.SQLVal)
	if !ok {
		return nil, parseErr("WHERE comparisons must be column op literal")
	}

	desc := child.Descriptor()
	idx, err := desc.FieldNameToIndex(col.Name.CompliantName())
	if err != nil {
		return nil, err
	}
	field := desc.Fields[idx]

	op, err := translateOp(e.Operator)
	if err != nil {
		return nil, err
	}

	var operand engine.DBValue
	switch field.Ftype {
	case engine.IntType:
		n, err := literalInt(lit)
		if err != nil {
			return nil, err
		}
		operand = engine.IntField{Value: n}
	case engine.StringType:
		operand = engine.StringField{Value: string(lit.Val)}
	default:
		return nil, parseErr("unsupported field type in WHERE")
	}

	f, err := engine.NewFieldFilter(idx, op, operand, child)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func translateOp(op string) (engine.BoolOp, error) {
	switch op {
	case sqlparser.EqualStr:
		return engine.OpEq, nil
	case sqlparser.NotEqualStr:
		return engine.OpNeq, nil
	case sqlparser.LessThanStr:
		return engine.OpLt, nil
	case sqlparser.LessEqualStr:
		return engine.OpLe, nil
	case sqlparser.GreaterThanStr:
		return engine.OpGt, nil
	case sqlparser.GreaterEqualStr:
		return engine.OpGe, nil
	case sqlparser.LikeStr:
		return engine.OpLike, nil
	default:
		return 0, parseErr("unsupported comparison operator: " + op)
	}
}

func literalInt(v *sqlparser.SQLVal) (int64, error) {
	n, err := strconv.ParseInt(string(v.Val), 10, 64)
	if err != nil {
		return 0, parseErr("expected an integer literal")
	}
	return n, nil
}

func translateInsert(ctx *engine.Context, tid engine.TransactionID, s *sqlparser.Insert) (engine.Operator, error) {
	tableName := s.Table.Name.CompliantName()
	file, err := ctx.Catalog.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	desc := file.Descriptor()

	rows, ok := s.Rows.(sqlparser.Values)
	if !ok {
		return nil, parseErr("only VALUES inserts are supported")
	}

	var tuples []*engine.Tuple
	for _, row := range rows {
		if len(row) != len(desc.Fields) {
			return nil, parseErr("insert value count does not match table schema")
		}
		fields := make([]engine.DBValue, len(row))
		for i, valExpr := range row {
			lit, ok := valExpr.(*sqlparser.SQLVal)
			if !ok {
				return nil, parseErr("only literal insert values are supported")
			}
			switch desc.Fields[i].Ftype {
			case engine.IntType:
				n, err := literalInt(lit)
				if err != nil {
					return nil, err
				}
				fields[i] = engine.IntField{Value: n}
			case engine.StringType:
				fields[i] = engine.StringField{Value: string(lit.Val)}
			}
		}
		tup, err := engine.NewTuple(*desc, fields)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tup)
	}

	child := &literalSource{desc: desc, tuples: tuples}
	return engine.NewInsertOp(ctx.BP, tid, file, child), nil
}

func translateDelete(ctx *engine.Context, tid engine.TransactionID, s *sqlparser.Delete) (engine.Operator, error) {
	tableName, err := singleTableName(s.TableExprs)
	if err != nil {
		return nil, err
	}
	file, err := ctx.Catalog.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	var op engine.Operator = engine.NewSeqScan(file, tableName)
	if s.Where != nil {
		op, err = applyWhere(op, s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}
	return engine.NewDeleteOp(ctx.BP, tid, file, op), nil
}
