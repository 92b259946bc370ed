package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

type userFixture struct {
	users    *stubUserRepo
	perms    *stubPermRepo
	sessions *stubSessionRepo
	data     *stubDataRepo
	svc      *UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:    newStubUserRepo(),
		perms:    newStubPermRepo(),
		sessions: newStubSessionRepo(),
		data:     newStubDataRepo(),
	}
	f.svc = NewUserService(f.users, f.perms, f.sessions, f.data, zerolog.Nop())
	return f
}

func TestUserService_Create_ProvisionsPermission(t *testing.T) {
	f := newUserFixture()

	dash := true
	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name:        "Alice",
		Email:       "alice@example.com",
		Password:    "s3cret",
		Role:        domain.RoleUser,
		Permissions: &ports.PermissionUpdate{Dashboard: &dash},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	perm, err := f.perms.FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected seeded permission: %v", err)
	}
	if !perm.Dashboard {
		t.Fatalf("expected dashboard enabled in seeded profile")
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	f := newUserFixture()

	if _, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "pass",
		Role:     "superuser",
	}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for bad role, got %v", err)
	}
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	role := "root"
	if _, err := f.svc.Update(context.Background(), user.ID, ports.UpdateUserInput{
		Role: &role,
	}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for bad role, got %v", err)
	}
	if f.users.users[user.ID].Role != domain.RoleUser {
		t.Fatalf("role must be unchanged after rejected update, got %q", f.users.users[user.ID].Role)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	f := newUserFixture()

	in := ports.CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "pass", Role: domain.RoleUser}
	if _, err := f.svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_BlankPasswordIgnored(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	originalHash := f.users.users[user.ID].PasswordHash

	blank := ""
	name := "Alice B"
	if _, err := f.svc.Update(context.Background(), user.ID, ports.UpdateUserInput{
		Name:     &name,
		Password: &blank,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if f.users.users[user.ID].PasswordHash != originalHash {
		t.Fatalf("blank password must not change the stored hash")
	}
	if f.users.users[user.ID].Name != "Alice B" {
		t.Fatalf("name not updated")
	}

	newPass := "n3wpass"
	if _, err := f.svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Password: &newPass}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(f.users.users[user.ID].PasswordHash), []byte("n3wpass")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestUserService_Update_AppliesPermissions(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tools := true
	detail, err := f.svc.Update(context.Background(), user.ID, ports.UpdateUserInput{
		Permissions: &ports.PermissionUpdate{Tools: &tools},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if detail.Permission == nil || !detail.Permission.Tools {
		t.Fatalf("expected tools enabled, got %+v", detail.Permission)
	}
}

func TestUserService_Delete_Cascades(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.sessions.Replace(context.Background(), &domain.Session{
		UserID: user.ID, Token: "tok", IsActive: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	out, err := f.svc.Delete(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !out.UserDeleted || !out.PermissionsDeleted || !out.SessionsDeleted {
		t.Fatalf("expected full cascade, got %+v", out)
	}
	if _, err := f.users.FindByID(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("user should be gone, got %v", err)
	}
	if _, err := f.perms.FindByUserID(context.Background(), user.ID); err != domain.ErrPermissionNotFound {
		t.Fatalf("permission should be gone, got %v", err)
	}
	if sessions, _ := f.sessions.ListByUser(context.Background(), user.ID); len(sessions) != 0 {
		t.Fatalf("sessions should be gone, got %d", len(sessions))
	}
}

func TestUserService_Delete_UnknownUser(t *testing.T) {
	f := newUserFixture()

	out, err := f.svc.Delete(context.Background(), "missing")
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if out.UserDeleted {
		t.Fatalf("nothing should be reported deleted")
	}
}

func TestUserService_CreatePermission_Duplicate(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Create already seeded a profile; a second one is a conflict.
	if _, err := f.svc.CreatePermission(context.Background(), user.ID, ports.PermissionUpdate{}); err != domain.ErrPermissionExists {
		t.Fatalf("expected ErrPermissionExists, got %v", err)
	}
	if _, err := f.svc.CreatePermission(context.Background(), "missing", ports.PermissionUpdate{}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_JoinsProfileAndAccount(t *testing.T) {
	f := newUserFixture()

	ds, err := f.data.Create(context.Background(), &domain.DataSession{Name: "acct", Proxy: "10.0.0.1:8080"})
	if err != nil {
		t.Fatalf("seed data session: %v", err)
	}
	user, err := f.svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret", Role: domain.RoleUser,
		Permissions: &ports.PermissionUpdate{DataSessionID: &ds.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// A user without a profile still appears.
	hash, _ := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	if _, err := f.users.Create(context.Background(), &domain.User{
		Email: "bare@example.com", PasswordHash: string(hash), Role: domain.RoleUser,
	}); err != nil {
		t.Fatalf("seed bare user: %v", err)
	}

	details, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 users, got %d", len(details))
	}
	for _, d := range details {
		switch d.User.ID {
		case user.ID:
			if d.Permission == nil || d.DataAccount == nil || d.DataAccount.ID != ds.ID {
				t.Fatalf("expected joined profile and account, got %+v", d)
			}
		default:
			if d.Permission != nil {
				t.Fatalf("bare user should have no profile")
			}
		}
	}
}

func TestUserService_EnsureAdmin_Idempotent(t *testing.T) {
	f := newUserFixture()

	created, err := f.svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if !created {
		t.Fatalf("expected admin created")
	}

	admin, err := f.users.FindByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	perm, err := f.perms.FindByUserID(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("find admin permission: %v", err)
	}
	if !perm.Dashboard || !perm.Tools || !perm.Profile {
		t.Fatalf("expected full-access profile, got %+v", perm)
	}

	created, err = f.svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "other")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if created {
		t.Fatalf("second ensure must be a no-op")
	}
}
