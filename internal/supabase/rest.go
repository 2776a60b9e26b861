package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/supabase-community/postgrest-go"
)

// Query is a PostgREST request against one table, built fluently:
//
//	c.From("tasks").Select("id,title").Order("created_at", true).Limit(10).Get(ctx, &rows)
//
// A Query is not safe for concurrent use; build one per call.
type Query struct {
	c       *Client
	table   string
	columns string
	eq      [][2]string
	order   string
	desc    bool
	limit   int
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table}
}

// Select sets the projected columns, e.g. "id,title" or "*".
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column, value string) *Query {
	q.eq = append(q.eq, [2]string{column, value})
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, desc bool) *Query {
	q.order, q.desc = column, desc
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Get runs the select and decodes the rows into dest (a pointer to a slice).
func (q *Query) Get(ctx context.Context, dest any) error {
	return q.run(ctx, "select", dest, func(b *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		f := b.Select(q.columns, "", false)
		if q.order != "" {
			f = f.Order(q.order, &postgrest.OrderOpts{Ascending: !q.desc})
		}
		if q.limit > 0 {
			f = f.Limit(q.limit, "")
		}
		return f
	})
}

// Insert writes row (a struct or a slice of structs) and decodes the stored
// representation into dest.
func (q *Query) Insert(ctx context.Context, row any, dest any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", q.table, err)
	}
	return q.run(ctx, "insert", dest, func(b *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		return b.Insert(json.RawMessage(body), false, "", "representation", "")
	})
}

// Update patches every row matching the filters with values and decodes the
// updated rows into dest. No matching rows yields an empty slice.
func (q *Query) Update(ctx context.Context, values any, dest any) error {
	body, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s update: %w", q.table, err)
	}
	return q.run(ctx, "update", dest, func(b *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		return b.Update(json.RawMessage(body), "representation", "")
	})
}

// run executes one PostgREST call bounded by the table timeout.
func (q *Query) run(ctx context.Context, op string, dest any, build func(*postgrest.QueryBuilder) *postgrest.FilterBuilder) error {
	ctx, cancel := context.WithTimeout(ctx, q.c.timeout)
	defer cancel()

	pc := postgrest.NewClient(q.c.baseURL+restPath, "public", map[string]string{
		"apikey":        q.c.apiKey,
		"Authorization": "Bearer " + q.c.apiKey,
	})
	if pc.ClientError != nil {
		return upstream(op+" "+q.table, pc.ClientError)
	}
	pc.Transport.Parent = q.c.bind(ctx)

	f := build(pc.From(q.table))
	for _, kv := range q.eq {
		f = f.Eq(kv[0], kv[1])
	}

	if _, err := f.ExecuteTo(dest); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return upstream(op+" "+q.table, fmt.Errorf("malformed response: %w", err))
		}
		return upstream(op+" "+q.table, err)
	}
	return nil
}
