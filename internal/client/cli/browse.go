package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/common"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		fmt.Println("Please log in first.")
		return errNotLoggedIn
	}
	return nil
}

// findFolder resolves a child folder of the current view by display name.
func (a *App) findFolder(name string) (*media.FolderEntry, bool) {
	for _, f := range a.dir.ChildFolders() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// findFile resolves a file in the current view by display name.
func (a *App) findFile(name string) (*media.FileEntry, bool) {
	for _, f := range a.dir.ChildFiles() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Ls lists the current folder, folders first. Selected entries are
// marked with an asterisk, shared entries with an at sign.
func (a *App) Ls(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	selected := make(map[string]struct{})
	folderIDs, fileIDs := a.sel.IDs()
	for _, id := range folderIDs {
		selected[id] = struct{}{}
	}
	for _, id := range fileIDs {
		selected[id] = struct{}{}
	}

	mark := func(id string, shareID *string) string {
		m := "  "
		if _, ok := selected[id]; ok {
			m = "* "
		}
		if shareID != nil {
			m = m[:1] + "@"
		}
		return m
	}

	for _, f := range a.dir.ChildFolders() {
		fmt.Printf("%s %-30s <dir>\n", mark(f.ID, f.PublicShareID), f.Name+"/")
	}
	for _, f := range a.dir.ChildFiles() {
		size := "?"
		if f.SizeBytes != nil {
			size = fmt.Sprintf("%d", *f.SizeBytes)
		}
		fmt.Printf("%s %-30s %s\n", mark(f.ID, f.PublicShareID), f.Name, size)
	}
	return nil
}

// Cd enters a child folder by name.
func (a *App) Cd(ctx context.Context, name string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	f, ok := a.findFolder(name)
	if !ok {
		fmt.Printf("No such folder: %s\n", name)
		return common.ErrNotFound
	}
	if err := a.dir.EnterFolder(f.ID); err != nil {
		log.Println(err.Error())
		return err
	}
	return nil
}

// Up navigates to the parent folder. At the root it is a no-op.
func (a *App) Up(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.dir.GoUp()
	return nil
}

// Pwd prints the breadcrumb path of the current folder.
func (a *App) Pwd(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	crumbs := a.dir.Breadcrumbs()
	parts := make([]string, 0, len(crumbs)+1)
	parts = append(parts, "")
	for _, c := range crumbs {
		parts = append(parts, c.Name)
	}
	path := strings.Join(parts, "/")
	if path == "" {
		path = "/"
	}
	fmt.Println(path)
	return nil
}

// Mkdir creates a folder in the current view.
func (a *App) Mkdir(ctx context.Context, name string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if _, err := a.dir.CreateFolder(ctx, name); err != nil {
		log.Println(err.Error())
		return err
	}
	return nil
}
