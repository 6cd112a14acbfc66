package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyhub-backend/internal/models"
)

// selectBuilder accumulates positional WHERE conditions for a single SELECT.
type selectBuilder struct {
	base       string
	conditions []string
	args       []interface{}
	orderBy    string
	limit      int
}

func newSelect(base string) *selectBuilder {
	return &selectBuilder{base: base}
}

// where appends a condition; each "?" in cond is replaced by the next $n.
func (b *selectBuilder) where(cond string, args ...interface{}) *selectBuilder {
	for _, arg := range args {
		b.args = append(b.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conditions = append(b.conditions, cond)
	return b
}

func (b *selectBuilder) order(column string, order models.SortOrder) *selectBuilder {
	dir := "ASC"
	if order == models.Descending {
		dir = "DESC"
	}
	b.orderBy = column + " " + dir
	return b
}

func (b *selectBuilder) withLimit(n int) *selectBuilder {
	b.limit = n
	return b
}

func (b *selectBuilder) build() (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(b.base)
	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit > 0 {
		b.args = append(b.args, b.limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(b.args))
	}
	return sb.String(), b.args
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
