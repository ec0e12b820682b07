package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{" Staff ", RoleStaff},
		{"tenant", RoleTenant},
		{"landlord", RoleLandlord},
		{"", RoleGuest},
		{"superuser", RoleGuest},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdentityRoles(t *testing.T) {
	admin := Identity{UserID: "a", Role: RoleAdmin}
	staff := Identity{UserID: "s", Role: RoleStaff}
	tenant := Identity{UserID: "t", Role: RoleTenant}

	if !admin.IsAdmin() || !admin.IsStaff() {
		t.Error("admin should be admin and staff")
	}
	if staff.IsAdmin() || !staff.IsStaff() {
		t.Error("staff should be staff only")
	}
	if tenant.IsAdmin() || tenant.IsStaff() {
		t.Error("tenant should be neither")
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Identity{UserID: "u1", Name: "Dana"}).DisplayName(); got != "Dana" {
		t.Errorf("got %q, want Dana", got)
	}
	if got := (Identity{UserID: "u1"}).DisplayName(); got != "u1" {
		t.Errorf("got %q, want u1", got)
	}
	if got := (Identity{}).DisplayName(); got != "Unknown" {
		t.Errorf("got %q, want Unknown", got)
	}
}

func TestIdentityFromEnv(t *testing.T) {
	t.Setenv("RENTAPP_USER_ID", "staff-1")
	t.Setenv("RENTAPP_ROLE", "staff")
	t.Setenv("RENTAPP_USER_NAME", "Sam")

	id := IdentityFromEnv()
	if id.UserID != "staff-1" || id.Role != RoleStaff || id.Name != "Sam" {
		t.Errorf("identity = %+v", id)
	}
}

func TestIdentityFromEnvAnonymous(t *testing.T) {
	t.Setenv("RENTAPP_USER_ID", "")
	t.Setenv("RENTAPP_ROLE", "admin")

	if id := IdentityFromEnv(); id.Role != RoleGuest {
		t.Errorf("role = %q, want guest without a user id", id.Role)
	}
}
