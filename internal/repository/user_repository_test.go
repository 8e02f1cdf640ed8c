package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/storage"
	"github.com/iliyamo/lab-lighting/internal/utils"
)

const testCost = 4 // bcrypt.MinCost keeps tests fast

func newRepo(t *testing.T, backend storage.Backend) *UserRepo {
	t.Helper()
	r, err := NewUserRepo(context.Background(), backend, "test")
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return r
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, storage.NewMemory())
	u, err := r.Create(ctx, " Ana@Lab.Local ", "Ana", "secret", model.RoleTeacher, testCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ana@lab.local" || u.ID == "" {
		t.Fatalf("unexpected user %+v", u)
	}
	if !utils.VerifyPassword(u.PasswordHash, "secret") {
		t.Fatalf("password hash does not verify")
	}
	got, err := r.GetByEmail("ANA@lab.local")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup by email: %+v %v", got, err)
	}
	if _, err := r.GetByID(u.ID); err != nil {
		t.Fatalf("lookup by id: %v", err)
	}
	if _, err := r.Create(ctx, "ana@lab.local", "Dup", "x", model.RoleTeacher, testCost); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUsersSurviveReload(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	r := newRepo(t, backend)
	if _, err := r.Create(ctx, "t@lab.local", "T", "pw", model.RoleTeacher, testCost); err != nil {
		t.Fatal(err)
	}
	again := newRepo(t, backend)
	if len(again.ListByRole(model.RoleTeacher)) != 1 {
		t.Fatalf("teacher not persisted")
	}
}

func TestCreateRollsBackOnWriteFailure(t *testing.T) {
	backend := storage.NewMemory()
	r := newRepo(t, backend)
	backend.FailPut = errors.New("down")
	if _, err := r.Create(context.Background(), "x@lab.local", "X", "pw", model.RoleTeacher, testCost); err == nil {
		t.Fatalf("expected write failure")
	}
	if _, err := r.GetByEmail("x@lab.local"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("failed create left an account behind")
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, storage.NewMemory())
	if _, err := r.EnsureAdmin(ctx, "admin@lab.local", "", testCost); err == nil {
		t.Fatalf("expected error without password")
	}
	created, err := r.EnsureAdmin(ctx, "admin@lab.local", "pw", testCost)
	if err != nil || !created {
		t.Fatalf("first ensure: %v %v", created, err)
	}
	created, err = r.EnsureAdmin(ctx, "admin@lab.local", "", testCost)
	if err != nil || created {
		t.Fatalf("second ensure should be a no-op: %v %v", created, err)
	}
}

func TestDeleteAndListByRole(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, storage.NewMemory())
	b, _ := r.Create(ctx, "b@lab.local", "B", "pw", model.RoleTeacher, testCost)
	_, _ = r.Create(ctx, "a@lab.local", "A", "pw", model.RoleTeacher, testCost)
	_, _ = r.Create(ctx, "root@lab.local", "R", "pw", model.RoleAdmin, testCost)

	teachers := r.ListByRole(model.RoleTeacher)
	if len(teachers) != 2 || teachers[0].Email != "a@lab.local" {
		t.Fatalf("unexpected teachers %+v", teachers)
	}
	if err := r.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(ctx, b.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(r.ListByRole(model.RoleTeacher)) != 1 {
		t.Fatalf("teacher not deleted")
	}
}
