package media

import (
	"context"
	"fmt"

	"github.com/wayplan/wayplan/internal/common"
)

// ClipboardFunc copies text to the system clipboard. A nil function
// means no clipboard is available and the link is only returned.
type ClipboardFunc func(text string) error

// ShareIssuer turns the current selection into a public share link.
type ShareIssuer struct {
	backend   Backend
	clipboard ClipboardFunc
}

func NewShareIssuer(backend Backend, clipboard ClipboardFunc) *ShareIssuer {
	return &ShareIssuer{backend: backend, clipboard: clipboard}
}

// ShareSelection mints a link for the selection and clears it. The link
// is copied to the clipboard when one is available; a clipboard failure
// does not fail the share, the caller still gets the URL for manual
// copy.
func (i *ShareIssuer) ShareSelection(ctx context.Context, sel *Selection) (*ShareLink, error) {
	folderIDs, fileIDs := sel.IDs()
	if len(folderIDs) == 0 && len(fileIDs) == 0 {
		return nil, fmt.Errorf("%w: nothing selected to share", common.ErrValidation)
	}

	link, err := i.backend.CreateShare(ctx, folderIDs, fileIDs)
	if err != nil {
		return nil, err
	}

	if i.clipboard != nil {
		// Best effort only.
		_ = i.clipboard(link.ViewerURL)
	}

	sel.Cancel()
	return link, nil
}
