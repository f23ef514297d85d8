package foreign

import (
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"tan/internal/object"
)

var drivers = []string{"sqlite3", "mysql", "postgres"}

func (r *Registry) fnDbOpen() *object.Native {
	return &object.Native{
		Name:   "dbOpen",
		Params: 2,
		Fn: func(args []object.Object) (object.Object, error) {
			driver, err := unpackString(args[0], "dbOpen", "driver")
			if err != nil {
				return nil, err
			}
			dsn, err := unpackString(args[1], "dbOpen", "dsn")
			if err != nil {
				return nil, err
			}
			if !slices.Contains(drivers, driver) {
				return nil, fmt.Errorf("dbOpen: unsupported driver '%s'.", driver)
			}

			db, err := sql.Open(driver, dsn)
			if err != nil {
				return nil, fmt.Errorf("dbOpen: %w", err)
			}
			if driver == "sqlite3" {
				// every connection to :memory: is a separate database
				db.SetMaxOpenConns(1)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return nil, fmt.Errorf("dbOpen: %w", err)
			}

			r.nextHandle++
			r.connections[r.nextHandle] = db
			r.logger.Debug("database opened",
				slog.String("driver", driver),
				slog.Int64("handle", r.nextHandle))

			return &object.Number{Value: float64(r.nextHandle)}, nil
		},
	}
}

func (r *Registry) fnDbExec() *object.Native {
	return &object.Native{
		Name:   "dbExec",
		Params: 2,
		Fn: func(args []object.Object) (object.Object, error) {
			db, err := r.connection(args[0], "dbExec")
			if err != nil {
				return nil, err
			}
			query, err := unpackString(args[1], "dbExec", "sql")
			if err != nil {
				return nil, err
			}

			result, err := db.Exec(query)
			if err != nil {
				return nil, fmt.Errorf("dbExec: %w", err)
			}

			affected, _ := result.RowsAffected()
			return &object.Number{Value: float64(affected)}, nil
		},
	}
}

// fnDbQuery returns the first column of the first row, or nil when the
// query produced no rows.
func (r *Registry) fnDbQuery() *object.Native {
	return &object.Native{
		Name:   "dbQuery",
		Params: 2,
		Fn: func(args []object.Object) (object.Object, error) {
			db, err := r.connection(args[0], "dbQuery")
			if err != nil {
				return nil, err
			}
			query, err := unpackString(args[1], "dbQuery", "sql")
			if err != nil {
				return nil, err
			}

			rows, err := db.Query(query)
			if err != nil {
				return nil, fmt.Errorf("dbQuery: %w", err)
			}
			defer rows.Close()

			if !rows.Next() {
				return object.NIL, rows.Err()
			}

			columns, err := rows.Columns()
			if err != nil {
				return nil, fmt.Errorf("dbQuery: %w", err)
			}
			values := make([]any, len(columns))
			pointers := make([]any, len(columns))
			for i := range values {
				pointers[i] = &values[i]
			}
			if err := rows.Scan(pointers...); err != nil {
				return nil, fmt.Errorf("dbQuery: %w", err)
			}
			if len(values) == 0 {
				return object.NIL, nil
			}

			return mapValue(values[0]), nil
		},
	}
}

func (r *Registry) fnDbClose() *object.Native {
	return &object.Native{
		Name:   "dbClose",
		Params: 1,
		Fn: func(args []object.Object) (object.Object, error) {
			id, err := unpackHandle(args[0], "dbClose")
			if err != nil {
				return nil, err
			}
			db, ok := r.connections[id]
			if !ok {
				return nil, fmt.Errorf("dbClose: invalid handle %d.", id)
			}
			delete(r.connections, id)
			if err := db.Close(); err != nil {
				return nil, fmt.Errorf("dbClose: %w", err)
			}
			return object.NIL, nil
		},
	}
}

func (r *Registry) connection(arg object.Object, fnName string) (*sql.DB, error) {
	id, err := unpackHandle(arg, fnName)
	if err != nil {
		return nil, err
	}
	db, ok := r.connections[id]
	if !ok {
		return nil, fmt.Errorf("%s: invalid handle %d.", fnName, id)
	}
	return db, nil
}

func mapValue(v any) object.Object {
	switch x := v.(type) {
	case nil:
		return object.NIL
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NativeBool(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	}
	return &object.String{Value: fmt.Sprintf("%v", v)}
}
