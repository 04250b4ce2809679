package repository

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/spec-kit/employee-directory/internal/directory"
)

const dialectPostgres = "postgres"

var (
	employeesTable = goqu.T("employees").As("e")
	usersTable     = goqu.T("users").As("u")

	colID          = goqu.I("e.id")
	colName        = goqu.I("e.name")
	colEmail       = goqu.I("e.email")
	colPhone       = goqu.I("e.phone")
	colDesignation = goqu.I("e.designation")
	colSalary      = goqu.I("e.salary")
	colCreatedBy   = goqu.I("e.created_by")
	colCreatedAt   = goqu.I("e.created_at")
	colUpdatedAt   = goqu.I("e.updated_at")
	colCreatorName = goqu.I("u.name")
	colCreatorMail = goqu.I("u.email")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchFilter matches the term as a case-insensitive substring of name,
// email or designation. Wildcards inside the term are matched literally.
func searchFilter(search string) exp.Expression {
	if search == "" {
		return nil
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"
	return goqu.Or(
		colName.ILike(pattern),
		colEmail.ILike(pattern),
		colDesignation.ILike(pattern),
	)
}

// orderBy mirrors directory.Compare: strings by their lowercased byte order,
// salary numerically, then id ascending.
func orderBy(key directory.SortKey, dir directory.SortDirection) []exp.OrderedExpression {
	var sortExpr exp.Orderable
	switch key {
	case directory.SortBySalary:
		sortExpr = colSalary
	case directory.SortByEmail:
		sortExpr = goqu.L(`lower(?) COLLATE "C"`, colEmail)
	case directory.SortByDesignation:
		sortExpr = goqu.L(`lower(?) COLLATE "C"`, colDesignation)
	default:
		sortExpr = goqu.L(`lower(?) COLLATE "C"`, colName)
	}

	primary := sortExpr.Asc()
	if dir == directory.Desc {
		primary = sortExpr.Desc()
	}
	return []exp.OrderedExpression{primary, colID.Asc()}
}

func entrySelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(employeesTable).
		LeftJoin(usersTable, goqu.On(goqu.I("u.id").Eq(colCreatedBy))).
		Select(
			colID, colName, colEmail, colPhone, colDesignation, colSalary,
			colCreatedBy, colCreatedAt, colUpdatedAt, colCreatorName, colCreatorMail,
		).
		Prepared(true)
}

func buildListQuery(p directory.Params) (string, []any, error) {
	ds := entrySelect()
	if filter := searchFilter(p.Search); filter != nil {
		ds = ds.Where(filter)
	}
	ds = ds.Order(orderBy(p.SortKey, p.SortDirection)...).
		Limit(uint(p.PageSize)).
		Offset(uint(p.Offset()))
	return ds.ToSQL()
}

func buildCountQuery(p directory.Params) (string, []any, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(employeesTable).
		Select(goqu.COUNT(goqu.Star())).
		Prepared(true)
	if filter := searchFilter(p.Search); filter != nil {
		ds = ds.Where(filter)
	}
	return ds.ToSQL()
}

func buildEntryQuery(id string) (string, []any, error) {
	return entrySelect().Where(colID.Eq(id)).ToSQL()
}
