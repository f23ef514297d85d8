package foreign

import (
	"strings"
	"testing"
	"time"

	"tan/internal/object"
)

func natives(r *Registry) map[string]*object.Native {
	byName := map[string]*object.Native{}
	for _, n := range r.Natives() {
		byName[n.Name] = n
	}
	return byName
}

func call(t *testing.T, n *object.Native, args ...object.Object) object.Object {
	t.Helper()
	if len(args) != n.Arity() {
		t.Fatalf("%s: expected %d arguments, got %d", n.Name, n.Arity(), len(args))
	}
	result, err := n.Call(nil, args)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", n.Name, err)
	}
	return result
}

func str(s string) *object.String  { return &object.String{Value: s} }
func num(v float64) *object.Number { return &object.Number{Value: v} }

func TestNativesAvailable(t *testing.T) {
	tests := []struct {
		opts     []Option
		expected []string
		missing  []string
	}{
		{nil, []string{"clock", "str"}, []string{"dbOpen", "dbExec", "dbQuery", "dbClose"}},
		{[]Option{WithDatabase(true)}, []string{"clock", "str", "dbOpen", "dbExec", "dbQuery", "dbClose"}, nil},
	}

	for _, tt := range tests {
		byName := natives(NewRegistry(tt.opts...))
		for _, name := range tt.expected {
			if _, ok := byName[name]; !ok {
				t.Errorf("native %q missing", name)
			}
		}
		for _, name := range tt.missing {
			if _, ok := byName[name]; ok {
				t.Errorf("native %q must not be defined", name)
			}
		}
	}
}

func TestClock(t *testing.T) {
	fixed := time.Unix(1700000000, 500000000)
	r := NewRegistry(WithClock(func() time.Time { return fixed }))

	result := call(t, natives(r)["clock"])
	if object.Stringify(result) != "1700000000.5" {
		t.Errorf("clock returned %s", object.Stringify(result))
	}
}

func TestStr(t *testing.T) {
	fn := natives(NewRegistry())["str"]

	tests := []struct {
		input    object.Object
		expected string
	}{
		{num(3), "3"},
		{num(0.5), "0.5"},
		{object.NIL, "nil"},
		{object.TRUE, "true"},
		{str("x"), "x"},
	}

	for _, tt := range tests {
		result, ok := call(t, fn, tt.input).(*object.String)
		if !ok || result.Value != tt.expected {
			t.Errorf("str(%s) = %v, expected %q", object.Stringify(tt.input), result, tt.expected)
		}
	}
}

func TestDatabaseArgumentErrors(t *testing.T) {
	byName := natives(NewRegistry(WithDatabase(true)))

	tests := []struct {
		native  string
		args    []object.Object
		message string
	}{
		{"dbOpen", []object.Object{num(1), str("")}, "dbOpen: driver must be a string."},
		{"dbOpen", []object.Object{str("oracle"), str("")}, "dbOpen: unsupported driver 'oracle'."},
		{"dbExec", []object.Object{num(99), str("select 1")}, "dbExec: invalid handle 99."},
		{"dbQuery", []object.Object{num(1.5), str("select 1")}, "dbQuery: handle must be an integer."},
		{"dbClose", []object.Object{str("h")}, "dbClose: handle must be an integer."},
	}

	for _, tt := range tests {
		_, err := byName[tt.native].Call(nil, tt.args)
		if err == nil {
			t.Errorf("%s: expected an error", tt.native)
			continue
		}
		if err.Error() != tt.message {
			t.Errorf("%s: expected %q, got %q", tt.native, tt.message, err.Error())
		}
	}
}

func TestSqliteRoundTrip(t *testing.T) {
	r := NewRegistry(WithDatabase(true))
	defer r.Close()
	byName := natives(r)

	handle, err := byName["dbOpen"].Call(nil, []object.Object{str("sqlite3"), str(":memory:")})
	if err != nil {
		// go-sqlite3 needs cgo
		t.Skipf("sqlite3 unavailable: %v", err)
	}

	call(t, byName["dbExec"], handle, str("create table people (name text, age integer)"))
	affected := call(t, byName["dbExec"], handle,
		str("insert into people values ('ada', 36), ('alan', 41)"))
	if object.Stringify(affected) != "2" {
		t.Errorf("expected 2 rows affected, got %s", object.Stringify(affected))
	}

	tests := []struct {
		query    string
		expected string
	}{
		{"select count(*) from people", "2"},
		{"select name from people where age > 40", "alan"},
		{"select age from people where name = 'ada'", "36"},
		{"select name from people where age > 100", "nil"},
	}

	for _, tt := range tests {
		result := call(t, byName["dbQuery"], handle, str(tt.query))
		if object.Stringify(result) != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.query, tt.expected, object.Stringify(result))
		}
	}

	if result := call(t, byName["dbClose"], handle); result != object.NIL {
		t.Errorf("dbClose must return nil")
	}
	_, err = byName["dbQuery"].Call(nil, []object.Object{handle, str("select 1")})
	if err == nil || !strings.Contains(err.Error(), "invalid handle") {
		t.Errorf("closed handle must be rejected, got %v", err)
	}
}
