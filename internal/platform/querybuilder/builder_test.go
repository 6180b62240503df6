package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("fixtures").
		Where(Eq("league_id", int64(8)), Expr("(home_id = ? OR away_id = ?)", int64(1), int64(1))).
		OrderBy("starting_at DESC", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM fixtures WHERE league_id = ? AND (home_id = ? OR away_id = ?) ORDER BY starting_at DESC, id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(8) || args[2] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	query, args, err := Select("id").From("scores").Where(In("fixture_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM scores WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("id", "name").
		Values(int64(1), "Arsenal").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES (?, ?) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(1) || args[1] != "Arsenal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("id", "name").Values(int64(1)).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("odds").Where(Eq("fixture_id", int64(42))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM odds WHERE fixture_id = ?" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(42) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("odds").ToSQL(); err == nil {
		t.Fatalf("expected unscoped delete to be rejected")
	}
}
