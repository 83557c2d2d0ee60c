package menu

import (
	"sort"
	"strings"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
)

// Menu categories with reserved behavior. Entries in MenuHidden and
// MenuProfile never appear in the navigation tree; MenuNormal entries become
// top-level links. Any other value becomes a collapsible parent grouping.
const (
	MenuHidden  = "hidden"
	MenuProfile = "profile"
	MenuNormal  = "normal"
)

// Child is a navigation leaf nested under a parent menu.
type Child struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Entry is one node of the navigation tree. Top-level links carry Path;
// parent groupings carry Open and Children instead.
type Entry struct {
	Name     string  `json:"name"`
	Path     string  `json:"path,omitempty"`
	Sort     int     `json:"sort"`
	Open     *bool   `json:"open,omitempty"`
	Children []Child `json:"children,omitempty"`
}

// Build converts a role's client permissions into the navigation tree the SPA
// renders. The output is deterministic for any input ordering: every level is
// sorted ascending by sort value, ties broken by name.
func Build(perms []models.ClientPermission) []Entry {
	entries := make([]Entry, 0, len(perms))
	groups := make(map[string][]models.ClientPermission)

	for _, perm := range perms {
		menu := strings.TrimSpace(perm.Menu)
		switch menu {
		case MenuHidden, MenuProfile:
			continue
		case MenuNormal:
			entries = append(entries, Entry{
				Name: perm.Name,
				Path: perm.Path,
				Sort: perm.Sort,
			})
		default:
			groups[menu] = append(groups[menu], perm)
		}
	}

	for menu, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			if members[i].Sort != members[j].Sort {
				return members[i].Sort < members[j].Sort
			}
			return members[i].Name < members[j].Name
		})

		parentSort := members[0].Sort
		children := make([]Child, 0, len(members))
		for _, member := range members {
			if member.Sort < parentSort {
				parentSort = member.Sort
			}
			children = append(children, Child{
				Name: member.Name,
				Path: member.Path,
			})
		}

		open := false
		entries = append(entries, Entry{
			Name:     menu,
			Sort:     parentSort,
			Open:     &open,
			Children: children,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Sort != entries[j].Sort {
			return entries[i].Sort < entries[j].Sort
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}
