package service

import (
	"context"
	"errors"
	"testing"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

func newAdminService(m *memStore) *AdminService {
	return NewAdminService(
		&fakeUsers{m},
		&fakeProfiles{m},
		&fakeRoles{m},
		&fakeAudits{m},
		NewAuditor(&fakeAudits{m}),
	)
}

func registerUser(t *testing.T, m *memStore, email, name string) string {
	t.Helper()
	reg, err := newAuthService(m).Register(context.Background(), &model.RegisterRequest{
		Email:       email,
		Password:    "hunter22",
		DisplayName: name,
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg.UserID
}

func TestAssignRoleUpserts(t *testing.T) {
	m := &memStore{}
	admin := newAdminService(m)
	ctx := context.Background()
	userID := registerUser(t, m, "a@b.com", "Ada")

	if err := admin.AssignRole(ctx, "admin-1", userID, model.RoleCreator); err != nil {
		t.Fatal(err)
	}
	// assigning again replaces rather than duplicating
	if err := admin.AssignRole(ctx, "admin-1", userID, model.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if len(m.roles) != 1 || m.roles[0].Role != model.RoleAdmin {
		t.Fatalf("roles = %+v", m.roles)
	}

	if err := admin.AssignRole(ctx, "admin-1", userID, model.Role("owner")); !IsValidation(err) {
		t.Errorf("unknown role: err = %v, want validation error", err)
	}
}

func TestRevokeRoleKeepsProfile(t *testing.T) {
	m := &memStore{}
	admin := newAdminService(m)
	ctx := context.Background()
	userID := registerUser(t, m, "a@b.com", "Ada")

	if err := admin.AssignRole(ctx, "admin-1", userID, model.RoleCreator); err != nil {
		t.Fatal(err)
	}
	if err := admin.RevokeRole(ctx, "admin-1", userID); err != nil {
		t.Fatal(err)
	}
	if len(m.roles) != 0 {
		t.Fatalf("roles = %+v, want none", m.roles)
	}
	if len(m.profiles) != 1 {
		t.Fatalf("profile went with the role: %+v", m.profiles)
	}
}

func TestUpdateUserPatchesAndSetsRole(t *testing.T) {
	m := &memStore{}
	admin := newAdminService(m)
	ctx := context.Background()
	userID := registerUser(t, m, "a@b.com", "Ada")

	name := "Ada Lovelace"
	if err := admin.UpdateUser(ctx, "admin-1", userID, repository.ProfilePatch{DisplayName: &name}, model.RoleCreator); err != nil {
		t.Fatal(err)
	}
	if m.profiles[0].DisplayName != name {
		t.Errorf("display name = %q, want %q", m.profiles[0].DisplayName, name)
	}
	if len(m.roles) != 1 || m.roles[0].Role != model.RoleCreator {
		t.Fatalf("roles = %+v", m.roles)
	}

	// empty role revokes
	if err := admin.UpdateUser(ctx, "admin-1", userID, repository.ProfilePatch{}, ""); err != nil {
		t.Fatal(err)
	}
	if len(m.roles) != 0 {
		t.Fatalf("roles after revoke = %+v", m.roles)
	}

	if err := admin.UpdateUser(ctx, "admin-1", "missing", repository.ProfilePatch{}, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestListUsersJoinsAccounts(t *testing.T) {
	m := &memStore{}
	admin := newAdminService(m)
	ctx := context.Background()

	adaID := registerUser(t, m, "ada@b.com", "Ada")
	registerUser(t, m, "bob@b.com", "Bob")
	if err := admin.AssignRole(ctx, "admin-1", adaID, model.RoleAdmin); err != nil {
		t.Fatal(err)
	}

	accounts, err := admin.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("accounts = %+v", accounts)
	}
	byEmail := make(map[string]model.UserAccount, len(accounts))
	for _, a := range accounts {
		byEmail[a.Email] = a
	}
	if got := byEmail["ada@b.com"]; got.Role != model.RoleAdmin || got.DisplayName != "Ada" {
		t.Errorf("ada = %+v", got)
	}
	if got := byEmail["bob@b.com"]; got.Role != "" {
		t.Errorf("bob = %+v, want no role", got)
	}
}

func TestListRolesCarriesAccountDetails(t *testing.T) {
	m := &memStore{}
	admin := newAdminService(m)
	ctx := context.Background()

	userID := registerUser(t, m, "ada@b.com", "Ada")
	if err := admin.AssignRole(ctx, "admin-1", userID, model.RoleCreator); err != nil {
		t.Fatal(err)
	}

	records, err := admin.ListRoles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %+v", records)
	}
	r := records[0]
	if r.UserID != userID || r.Role != model.RoleCreator || r.Email != "ada@b.com" || r.DisplayName != "Ada" {
		t.Fatalf("record = %+v", r)
	}
}

func TestAuditQueries(t *testing.T) {
	m := &memStore{}
	audits := &fakeAudits{m}
	ctx := context.Background()

	for _, e := range []*model.AuditEntry{
		{ActorID: "u1", Action: model.AuditSurveyCreated, TableName: "surveys"},
		{ActorID: "u1", Action: model.AuditSurveyPublished, TableName: "surveys"},
		{ActorID: "u2", Action: model.AuditRoleAssigned, TableName: "user_roles"},
	} {
		if err := audits.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	admin := NewAdminService(&fakeUsers{m}, &fakeProfiles{m}, &fakeRoles{m}, audits, NewAuditor(audits))

	latest, err := admin.AuditLatest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 3 {
		t.Fatalf("latest = %d entries, want 3", len(latest))
	}

	byActor, err := admin.AuditByActor(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(byActor) != 2 {
		t.Fatalf("by actor = %d entries, want 2", len(byActor))
	}

	byTable, err := admin.AuditByTable(ctx, "user_roles")
	if err != nil {
		t.Fatal(err)
	}
	if len(byTable) != 1 || byTable[0].Action != model.AuditRoleAssigned {
		t.Fatalf("by table = %+v", byTable)
	}
}
