package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/common"
)

// Upload sends local files into the current folder. Failures of
// individual files do not stop the rest of the batch.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	uploads := make([]media.Upload, 0, len(paths))
	for _, p := range paths {
		p := p
		info, err := os.Stat(p)
		if err != nil {
			log.Printf("skipping %s: %s", p, err.Error())
			continue
		}
		uploads = append(uploads, media.Upload{
			Name: filepath.Base(p),
			Size: info.Size(),
			Body: func() (io.Reader, error) { return os.Open(p) },
		})
	}
	if len(uploads) == 0 {
		return nil
	}

	if err := a.dir.UploadAll(ctx, uploads); err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Uploaded %d file(s).\n", len(uploads))
	return nil
}

// Rename renames a file. With an empty name the single selected file is
// renamed instead.
func (a *App) Rename(ctx context.Context, name, newName string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	if name == "" {
		if err := a.sel.RenameSelected(ctx, newName); err != nil {
			log.Println(err.Error())
			return err
		}
		return nil
	}

	f, ok := a.findFile(name)
	if !ok {
		fmt.Printf("No such file: %s\n", name)
		return common.ErrNotFound
	}
	if err := a.dir.RenameFile(ctx, f.ID, newName); err != nil {
		log.Println(err.Error())
		return err
	}
	return nil
}

// confirm asks a yes/no question. Anything but an explicit yes
// declines.
func (a *App) confirm(question string) bool {
	answer, err := getSimpleText(a.reader, question+" [y/N]", os.Stdout)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Remove deletes the named entry, folder or file, after interactive
// confirmation. With an empty name the whole current selection is
// deleted.
func (a *App) Remove(ctx context.Context, name string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	if name == "" {
		n := a.sel.Count()
		if n == 0 {
			fmt.Println("Nothing selected.")
			return nil
		}
		if !a.confirm(fmt.Sprintf("Delete %d selected entries?", n)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := a.sel.DeleteSelected(ctx); err != nil {
			log.Println(err.Error())
			return err
		}
		return nil
	}

	if f, ok := a.findFolder(name); ok {
		if !a.confirm(fmt.Sprintf("Delete folder %q?", f.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := a.dir.DeleteFolder(ctx, f.ID); err != nil {
			log.Println(err.Error())
			return err
		}
		return nil
	}
	if f, ok := a.findFile(name); ok {
		if !a.confirm(fmt.Sprintf("Delete file %q?", f.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := a.dir.DeleteFile(ctx, f.ID); err != nil {
			log.Println(err.Error())
			return err
		}
		return nil
	}

	fmt.Printf("No such entry: %s\n", name)
	return common.ErrNotFound
}
