package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func joinRow(userID, roleID uuid.UUID, roleType string) userRoleRow {
	return userRoleRow{
		UserID:           userID,
		Username:         "Mr Smith",
		Email:            "agent.smith@matrix.com",
		PasswordHash:     "123456789",
		ConcurrencyToken: uuid.New(),
		RoleID:           roleID,
		RoleType:         roleType,
	}
}

func TestCollateUserRowsEmpty(t *testing.T) {
	if _, err := collateUserRows(nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("collateUserRows(nil) error = %v, want ErrNotFound", err)
	}
}

func TestCollateUserRowsPreservesOrder(t *testing.T) {
	userID := uuid.New()
	admin := uuid.New()
	viewer := uuid.New()

	user, err := collateUserRows([]userRoleRow{
		joinRow(userID, admin, "Admin"),
		joinRow(userID, viewer, "Viewer"),
	})
	if err != nil {
		t.Fatalf("collateUserRows() unexpected error: %v", err)
	}

	if user.UserID != userID {
		t.Fatalf("user id = %s, want %s", user.UserID, userID)
	}
	if len(user.Roles) != 2 {
		t.Fatalf("roles = %d, want 2", len(user.Roles))
	}
	if user.Roles[0].RoleID != admin || user.Roles[0].Type != "Admin" {
		t.Fatalf("first role = %+v, want Admin %s", user.Roles[0], admin)
	}
	if user.Roles[1].RoleID != viewer || user.Roles[1].Type != "Viewer" {
		t.Fatalf("second role = %+v, want Viewer %s", user.Roles[1], viewer)
	}
}

func TestCollateUserRowsSkipsForeignRows(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()

	user, err := collateUserRows([]userRoleRow{
		joinRow(userID, uuid.New(), "Admin"),
		joinRow(other, uuid.New(), "Viewer"),
	})
	if err != nil {
		t.Fatalf("collateUserRows() unexpected error: %v", err)
	}
	if len(user.Roles) != 1 {
		t.Fatalf("roles = %d, want 1", len(user.Roles))
	}
}

func TestSplitJoinRow(t *testing.T) {
	row := joinRow(uuid.New(), uuid.New(), "Operator")

	user, role := row.split()
	if user.UserID != row.UserID || user.Username != row.Username || user.ConcurrencyToken != row.ConcurrencyToken {
		t.Fatalf("split() user = %+v does not match row %+v", user, row)
	}
	if len(user.Roles) != 0 {
		t.Fatalf("split() user carries roles: %+v", user.Roles)
	}
	if role.RoleID != row.RoleID || role.Type != "Operator" {
		t.Fatalf("split() role = %+v does not match row %+v", role, row)
	}
}

func TestNewUserAssignsIdentity(t *testing.T) {
	u1 := NewUser("a", "a@example.com", "hash")
	u2 := NewUser("b", "b@example.com", "hash")

	if u1.UserID == uuid.Nil || u2.UserID == uuid.Nil {
		t.Fatal("NewUser returned a nil identity")
	}
	if u1.UserID == u2.UserID {
		t.Fatal("NewUser returned duplicate identities")
	}
	if u1.ConcurrencyToken != uuid.Nil {
		t.Fatal("NewUser assigned a concurrency token before insert")
	}
}

func TestNewRoleAssignsIdentity(t *testing.T) {
	r := NewRole("Admin")
	if r.RoleID == uuid.Nil {
		t.Fatal("NewRole returned a nil identity")
	}
	if r.Type != "Admin" {
		t.Fatalf("NewRole type = %q, want Admin", r.Type)
	}
}
