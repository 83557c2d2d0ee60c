package menu

import (
	"testing"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
)

func perm(menu, name, path string, sortValue int) models.ClientPermission {
	return models.ClientPermission{Menu: menu, Name: name, Path: path, Sort: sortValue}
}

func TestBuildExcludesHiddenAndProfile(t *testing.T) {
	tree := Build([]models.ClientPermission{
		perm(MenuHidden, "Internal", "/internal", 1),
		perm(MenuProfile, "Profile", "/profile", 2),
		perm(MenuNormal, "Dashboard", "/dashboard", 0),
	})

	if len(tree) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tree))
	}
	if tree[0].Name != "Dashboard" || tree[0].Path != "/dashboard" {
		t.Fatalf("unexpected entry: %+v", tree[0])
	}
	if tree[0].Open != nil || tree[0].Children != nil {
		t.Fatalf("top-level link must not carry open/children: %+v", tree[0])
	}
}

func TestBuildGroupsNamedMenus(t *testing.T) {
	tree := Build([]models.ClientPermission{
		perm("Admin", "Users", "/users", 5),
		perm("Admin", "Roles", "/roles", 3),
		perm(MenuNormal, "Dashboard", "/dashboard", 0),
	})

	if len(tree) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tree))
	}

	parent := tree[1]
	if parent.Name != "Admin" {
		t.Fatalf("expected Admin parent, got %+v", parent)
	}
	if parent.Sort != 3 {
		t.Fatalf("parent sort should be min member sort, got %d", parent.Sort)
	}
	if parent.Open == nil || *parent.Open {
		t.Fatalf("parent must start closed: %+v", parent.Open)
	}
	if len(parent.Children) != 2 || parent.Children[0].Name != "Roles" || parent.Children[1].Name != "Users" {
		t.Fatalf("children must be sorted by sort value: %+v", parent.Children)
	}
	if parent.Path != "" {
		t.Fatalf("parent must not carry a path: %q", parent.Path)
	}
}

func TestBuildIsDeterministicForAnyInputOrder(t *testing.T) {
	forward := []models.ClientPermission{
		perm("Admin", "Users", "/users", 5),
		perm("Reports", "Hours", "/hours", 5),
		perm(MenuNormal, "Dashboard", "/dashboard", 1),
		perm("Admin", "Roles", "/roles", 2),
	}
	reversed := []models.ClientPermission{forward[3], forward[2], forward[1], forward[0]}

	a := Build(forward)
	b := Build(reversed)

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Sort != b[i].Sort {
			t.Fatalf("order differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	if a[0].Name != "Dashboard" {
		t.Fatalf("expected Dashboard first, got %+v", a[0])
	}
	if a[1].Name != "Admin" {
		t.Fatalf("expected Admin second (sort 2), got %+v", a[1])
	}
	if a[2].Name != "Reports" {
		t.Fatalf("expected Reports third, got %+v", a[2])
	}
}

func TestBuildTieBreaksByName(t *testing.T) {
	tree := Build([]models.ClientPermission{
		perm(MenuNormal, "Beta", "/beta", 1),
		perm(MenuNormal, "Alpha", "/alpha", 1),
	})
	if tree[0].Name != "Alpha" || tree[1].Name != "Beta" {
		t.Fatalf("expected lexical tie-break, got %+v", tree)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if tree := Build(nil); len(tree) != 0 {
		t.Fatalf("expected empty tree, got %+v", tree)
	}
}
