package repository

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"hrcore/internal/database"
	"hrcore/internal/domain"
	"hrcore/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if i >= len(r.vals) || r.vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

type scripted struct {
	contains string
	row      fakeRow
}

// fakeStore answers QueryRow by the first script whose fragment appears in
// the SQL and records every Exec.
type fakeStore struct {
	script  []scripted
	execErr map[string]error

	execs      []string
	began      int
	committed  bool
	rolledBack bool
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }
func (f *fakeStore) SQLDB() *sql.DB             { return nil }

func (f *fakeStore) Exec(_ context.Context, query string, _ ...any) (int64, error) {
	f.execs = append(f.execs, query)
	for frag, err := range f.execErr {
		if strings.Contains(query, frag) {
			return 0, err
		}
	}
	return 1, nil
}

func (f *fakeStore) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeStore) QueryRow(_ context.Context, query string, _ ...any) database.Row {
	for _, s := range f.script {
		if strings.Contains(query, s.contains) {
			return s.row
		}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (f *fakeStore) Begin(context.Context) (database.Tx, error) {
	f.began++
	return f, nil
}

func (f *fakeStore) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeStore) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"fk", &pgconn.PgError{Code: "23503"}, domain.ErrConflict},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrValidation},
		{"other", errors.New("conn reset"), domain.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate("op", tc.err); !errors.Is(got, tc.want) {
				t.Fatalf("translate(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
	if translate("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	dup := translateCreate("insert", "sub-role", "X", &pgconn.PgError{Code: "23505", ConstraintName: "sub_roles_name_tenant_uq"})
	var de *domain.DuplicateError
	if !errors.As(dup, &de) || de.Scope != domain.ScopeTenant || !errors.Is(dup, domain.ErrDuplicate) {
		t.Fatalf("unexpected duplicate translation: %v", dup)
	}
}

func TestDeleteCustomSubRole_Ownership(t *testing.T) {
	cases := []struct {
		name string
		row  fakeRow
		want error
	}{
		{"missing", fakeRow{err: pgx.ErrNoRows}, domain.ErrNotFound},
		{"global", fakeRow{vals: []any{nil, false}}, domain.ErrAuthorization},
		{"other tenant", fakeRow{vals: []any{strPtr("t2"), true}}, domain.ErrAuthorization},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{script: []scripted{{"FROM sub_roles WHERE id", tc.row}}}
			err := NewPostgresSubRoleRepository(store).DeleteCustom(context.Background(), 9, "t1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if len(store.execs) != 0 || store.committed || !store.rolledBack {
				t.Fatalf("nothing may be written: execs=%v committed=%v", store.execs, store.committed)
			}
		})
	}
}

func TestDeleteCustomSubRole_ReferencedIsConflict(t *testing.T) {
	store := &fakeStore{script: []scripted{
		{"FROM sub_roles WHERE id", fakeRow{vals: []any{strPtr("t1"), true}}},
		{"FROM employee_roles", fakeRow{vals: []any{true}}},
	}}
	err := NewPostgresSubRoleRepository(store).DeleteCustom(context.Background(), 9, "t1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestDeleteCustomSubRole_UnlinksThenDeletes(t *testing.T) {
	store := &fakeStore{script: []scripted{
		{"FROM sub_roles WHERE id", fakeRow{vals: []any{strPtr("t1"), true}}},
		{"FROM employee_roles", fakeRow{vals: []any{false}}},
	}}
	if err := NewPostgresSubRoleRepository(store).DeleteCustom(context.Background(), 9, "t1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(store.execs) != 2 ||
		!strings.Contains(store.execs[0], "DELETE FROM role_sub_roles") ||
		!strings.Contains(store.execs[1], "DELETE FROM sub_roles") {
		t.Fatalf("unexpected statements: %v", store.execs)
	}
	if !store.committed {
		t.Fatalf("expected commit")
	}
}

func TestDeleteCustomSubRole_FailedDeleteRollsBack(t *testing.T) {
	store := &fakeStore{
		script: []scripted{
			{"FROM sub_roles WHERE id", fakeRow{vals: []any{strPtr("t1"), true}}},
			{"FROM employee_roles", fakeRow{vals: []any{false}}},
		},
		execErr: map[string]error{"DELETE FROM sub_roles": errors.New("boom")},
	}
	err := NewPostgresSubRoleRepository(store).DeleteCustom(context.Background(), 9, "t1")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
	if store.committed || !store.rolledBack {
		t.Fatalf("unlink must be rolled back")
	}
}

func TestCreateCustomSubRole_LinkFailureRollsBack(t *testing.T) {
	store := &fakeStore{
		script:  []scripted{{"INSERT INTO sub_roles", fakeRow{vals: []any{int64(31), nil}}}},
		execErr: map[string]error{"INSERT INTO role_sub_roles": &pgconn.PgError{Code: "23503"}},
	}
	_, err := NewPostgresSubRoleRepository(store).CreateCustom(context.Background(), catalog.NewCustomSubRole{
		TenantID: "t1", ActorID: uuid.New(), CanonicalName: "React Native Developer", ParentRoleID: 404,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if store.committed || !store.rolledBack {
		t.Fatalf("sub-role insert must be rolled back")
	}
}

func TestCreateCustomSubRole_Success(t *testing.T) {
	store := &fakeStore{script: []scripted{{"INSERT INTO sub_roles", fakeRow{vals: []any{int64(31), nil}}}}}
	actor := uuid.New()
	sr, err := NewPostgresSubRoleRepository(store).CreateCustom(context.Background(), catalog.NewCustomSubRole{
		TenantID: "t1", ActorID: actor, CanonicalName: "React Native Developer", ParentRoleID: 4,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sr.ID != 31 || !sr.IsCustom || sr.TenantID == nil || *sr.TenantID != "t1" || sr.ParentRoleID != 4 {
		t.Fatalf("unexpected sub-role: %+v", sr)
	}
	if sr.Synonyms == nil || sr.CreatedBy == nil || *sr.CreatedBy != actor {
		t.Fatalf("synonyms and creator must be set: %+v", sr)
	}
	if !store.committed {
		t.Fatalf("expected commit")
	}
}

func TestSoftDeleteCustomSkill(t *testing.T) {
	cases := []struct {
		name string
		row  fakeRow
		want error
	}{
		{"inactive", fakeRow{vals: []any{strPtr("t1"), true, false}}, domain.ErrNotFound},
		{"global", fakeRow{vals: []any{nil, false, true}}, domain.ErrAuthorization},
		{"owned", fakeRow{vals: []any{strPtr("t1"), true, true}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{script: []scripted{{"FROM skills WHERE id", tc.row}}}
			err := NewPostgresSkillRepository(store).SoftDeleteCustom(context.Background(), 3, "t1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if tc.want == nil && (len(store.execs) != 1 || !strings.Contains(store.execs[0], "is_active = FALSE")) {
				t.Fatalf("expected deactivation, got %v", store.execs)
			}
		})
	}
}

func TestFindNameScope(t *testing.T) {
	store := &fakeStore{script: []scripted{{"FROM sub_roles", fakeRow{vals: []any{nil}}}}}
	scope, found, err := NewPostgresSubRoleRepository(store).FindNameScope(context.Background(), "Backend Developer", "t1")
	if err != nil || !found || scope != domain.ScopeGlobal {
		t.Fatalf("got scope=%q found=%v err=%v", scope, found, err)
	}

	store = &fakeStore{}
	_, found, err = NewPostgresSkillRepository(store).FindNameScope(context.Background(), "Go", "t1")
	if err != nil || found {
		t.Fatalf("expected no hit, found=%v err=%v", found, err)
	}
}

func TestSQLFragments(t *testing.T) {
	if got := visibleTo("sr", 2); got != "(sr.tenant_id IS NULL OR sr.tenant_id = $2)" {
		t.Fatalf("visibleTo = %q", got)
	}
	order := rankOrder("s", 6)
	for _, want := range []string{"= $6 THEN 1", "THEN 2", "ELSE 3", "s.is_custom", `COLLATE "C"`, "s.id"} {
		if !strings.Contains(order, want) {
			t.Fatalf("rank order missing %q:\n%s", want, order)
		}
	}
}
