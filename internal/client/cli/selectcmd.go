package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/wayplan/wayplan/internal/client/media"
	"github.com/wayplan/wayplan/internal/common"
)

// Select toggles an entry in or out of the selection, entering
// selection mode if needed.
func (a *App) Select(ctx context.Context, name string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	if f, ok := a.findFolder(name); ok {
		a.sel.SecondaryClick(f.ID, media.KindFolder)
	} else if f, ok := a.findFile(name); ok {
		a.sel.SecondaryClick(f.ID, media.KindFile)
	} else {
		fmt.Printf("No such entry: %s\n", name)
		return common.ErrNotFound
	}

	fmt.Printf("%d entries selected.\n", a.sel.Count())
	return nil
}

// Share mints a public viewer link for the current selection and
// prints it.
func (a *App) Share(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	link, err := a.issuer.ShareSelection(ctx, a.sel)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	fmt.Printf("Share link: %s\n", link.ViewerURL)
	return nil
}

// Details prints metadata for the selected files.
func (a *App) Details(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	details := a.sel.Details()
	if len(details) == 0 {
		fmt.Println("No files selected.")
		return nil
	}
	for _, d := range details {
		size := "unknown"
		if d.SizeBytes != nil {
			size = fmt.Sprintf("%d bytes", *d.SizeBytes)
		}
		fmt.Printf("%s\n  size: %s\n  owner: %s\n  key: %s\n", d.Name, size, d.Owner, d.StorageKey)
	}
	return nil
}
