package database

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestCreateGroup(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	group, err := CreateGroup(db, "e1", "Night Owls", "u-creator", []string{"u-2", "u-2", "u-creator", "", "u-3"})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if group.ID == "" {
		t.Errorf("CreateGroup() returned empty id")
	}
	if group.CreatorID() != "u-creator" {
		t.Errorf("CreatorID() = %q, want u-creator", group.CreatorID())
	}
	// Creator first, extras de-duplicated.
	want := []string{"u-creator", "u-2", "u-3"}
	if len(group.Members) != len(want) {
		t.Fatalf("members = %v, want %v", group.Members, want)
	}
	for i, m := range want {
		if group.Members[i] != m {
			t.Errorf("members[%d] = %q, want %q", i, group.Members[i], m)
		}
	}

	stored, err := GetGroup(db, "e1", group.ID)
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	if stored.Name != "Night Owls" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestJoinGroupIsIdempotent(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	group, err := CreateGroup(db, "e1", "Team", "u-1", nil)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	if err := JoinGroup(db, "e1", group.ID, "u-2"); err != nil {
		t.Fatalf("JoinGroup() error = %v", err)
	}
	if err := JoinGroup(db, "e1", group.ID, "u-2"); err != nil {
		t.Fatalf("second JoinGroup() error = %v", err)
	}

	stored, err := GetGroup(db, "e1", group.ID)
	if err != nil {
		t.Fatalf("GetGroup() error = %v", err)
	}
	if len(stored.Members) != 2 {
		t.Errorf("members = %v, want 2 entries", stored.Members)
	}

	if err := JoinGroup(db, "e1", "no-such-group", "u-2"); err != ErrGroupNotFound {
		t.Errorf("JoinGroup(missing) error = %v, want ErrGroupNotFound", err)
	}
}

// The last member leaving takes the group record with them.
func TestLeaveGroupPrunesEmptyGroup(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	group, err := CreateGroup(db, "e1", "Duo", "u-1", []string{"u-2"})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	other, err := CreateGroup(db, "e1", "Survivors", "u-9", nil)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	if err := LeaveGroup(db, "e1", group.ID, "u-2"); err != nil {
		t.Fatalf("LeaveGroup() error = %v", err)
	}
	stored, err := GetGroup(db, "e1", group.ID)
	if err != nil {
		t.Fatalf("GetGroup() after first leave error = %v", err)
	}
	if len(stored.Members) != 1 {
		t.Errorf("members after first leave = %v", stored.Members)
	}

	if err := LeaveGroup(db, "e1", group.ID, "u-1"); err != nil {
		t.Fatalf("LeaveGroup() error = %v", err)
	}
	if _, err := GetGroup(db, "e1", group.ID); err != ErrGroupNotFound {
		t.Errorf("GetGroup() after last leave error = %v, want ErrGroupNotFound", err)
	}

	// The other group under the same event is untouched.
	if _, err := GetGroup(db, "e1", other.ID); err != nil {
		t.Errorf("unrelated group disappeared: %v", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	group, err := CreateGroup(db, "e1", "Doomed", "u-1", nil)
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if err := DeleteGroup(db, "e1", group.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	if _, err := GetGroup(db, "e1", group.ID); err != ErrGroupNotFound {
		t.Errorf("GetGroup() after delete error = %v, want ErrGroupNotFound", err)
	}
	if err := DeleteGroup(db, "e1", group.ID); err != ErrGroupNotFound {
		t.Errorf("second DeleteGroup() error = %v, want ErrGroupNotFound", err)
	}
}

func TestAllGroups(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	if _, err := CreateGroup(db, "e1", "A", "u-1", nil); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if _, err := CreateGroup(db, "e1", "B", "u-2", nil); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if _, err := CreateGroup(db, "e2", "C", "u-3", nil); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	all, err := AllGroups(db)
	if err != nil {
		t.Fatalf("AllGroups() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllGroups() events = %d, want 2", len(all))
	}
	if len(all["e1"]) != 2 || len(all["e2"]) != 1 {
		t.Errorf("AllGroups() = e1:%d e2:%d, want 2 and 1", len(all["e1"]), len(all["e2"]))
	}
}
