package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/proposaldesk/docstore/internal/model"
)

// colKind drives conversion of dynamic filter values into typed SQL
// parameters, so comparisons happen on the column's native type.
type colKind int

const (
	colText colKind = iota
	colInt
	colBool
	colTime
)

// column maps an exposed field name to a real column. Only whitelisted
// fields ever reach SQL; everything else is dropped on the floor.
type column struct {
	name string
	kind colKind
}

func (c column) convert(v string) (any, error) {
	switch c.kind {
	case colInt:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case colBool:
		return strconv.ParseBool(strings.TrimSpace(v))
	case colTime:
		return time.Parse(time.RFC3339, strings.TrimSpace(v))
	default:
		return v, nil
	}
}

// whereBuilder accumulates WHERE conditions with positional parameters.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(format string, args ...any) {
	placeholders := make([]any, 0, len(args))
	for _, a := range args {
		b.args = append(b.args, a)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(b.args)))
	}
	b.conds = append(b.conds, fmt.Sprintf(format, placeholders...))
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// applyListQuery translates the structural part of a ListQuery into WHERE
// conditions. Visibility "all" adds no condition; deleted rows are excluded
// unless the query explicitly includes them.
func applyListQuery(b *whereBuilder, q model.ListQuery) {
	if q.OwnerUUID != "" {
		b.add("owner_uuid = %s", q.OwnerUUID)
	}
	if q.UploaderUUID != "" {
		b.add("uploader_uuid = %s", q.UploaderUUID)
	}
	if q.DirectoryUUID != "" {
		b.add("directory_uuid = %s", q.DirectoryUUID)
	}
	if len(q.UUIDs) > 0 {
		b.add("uuid = ANY(%s)", q.UUIDs)
	}
	switch q.Visibility {
	case model.VisibilityVisible:
		b.add("visible = %s", true)
	case model.VisibilityInvisible:
		b.add("visible = %s", false)
	}
	if !q.IncludeDeleted {
		b.add("deleted = %s", false)
	}
}

// applyFilters translates the dynamic filter set. Unknown fields and values
// that do not parse into the column's type are skipped, never an error.
func applyFilters(b *whereBuilder, columns map[string]column, items []model.FilterItem) {
	for _, f := range items {
		col, ok := columns[f.Field]
		if !ok {
			continue
		}

		switch f.Op {
		case model.FilterOpEq, model.FilterOpNe, model.FilterOpGt, model.FilterOpLt, model.FilterOpGe, model.FilterOpLe:
			v, err := col.convert(f.Value)
			if err != nil {
				continue
			}
			b.add(col.name+" "+sqlOperator(f.Op)+" %s", v)
		case model.FilterOpLike:
			b.add(col.name+"::text ILIKE %s", "%"+f.Value+"%")
		case model.FilterOpIn:
			parts := strings.Split(f.Value, ",")
			values := make([]string, 0, len(parts))
			for _, p := range parts {
				values = append(values, strings.TrimSpace(p))
			}
			b.add(col.name+"::text = ANY(%s)", values)
		}
	}
}

func sqlOperator(op model.FilterOp) string {
	switch op {
	case model.FilterOpEq:
		return "="
	case model.FilterOpNe:
		return "<>"
	case model.FilterOpGt:
		return ">"
	case model.FilterOpLt:
		return "<"
	case model.FilterOpGe:
		return ">="
	case model.FilterOpLe:
		return "<="
	}
	return "="
}

// orderClause builds ORDER BY from the dynamic sort set, dropping unknown
// fields. Nulls sort last; the numeric id is always the final tiebreak, which
// is also the default order.
func orderClause(columns map[string]column, sorts []model.SortItem) string {
	var parts []string
	for _, s := range sorts {
		col, ok := columns[s.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s NULLS LAST", col.name, dir))
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// pageClause appends LIMIT/OFFSET for a normalized page.
func pageClause(b *whereBuilder, page model.Page) string {
	page = page.Normalize()
	b.args = append(b.args, page.Size)
	limit := len(b.args)
	b.args = append(b.args, (page.Number-1)*page.Size)
	offset := len(b.args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", limit, offset)
}
