package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan/internal/common"
)

func TestShareSelection_SplitsFoldersAndFiles(t *testing.T) {
	backend := newFakeBackend()
	dir, ids := seedDirectory(t, backend)
	sel, _ := newSelectionWithClock(dir)

	folder, err := dir.CreateFolder(context.Background(), "Docs")
	require.NoError(t, err)

	sel.SecondaryClick(ids[0], KindFile)
	sel.Toggle(folder.ID, KindFolder)

	issuer := NewShareIssuer(backend, nil)
	link, err := issuer.ShareSelection(context.Background(), sel)
	require.NoError(t, err)
	require.Equal(t, "tok-1", link.Token)
	require.NotEmpty(t, link.ViewerURL)

	require.Len(t, backend.shares, 1)
	require.Equal(t, []string{folder.ID}, backend.shares[0][0])
	require.Equal(t, []string{ids[0]}, backend.shares[0][1])

	// Selection cleared after the share completed.
	require.False(t, sel.Active())
}

func TestShareSelection_EmptySelection(t *testing.T) {
	backend := newFakeBackend()
	dir, _ := seedDirectory(t, backend)
	sel, _ := newSelectionWithClock(dir)

	issuer := NewShareIssuer(backend, nil)
	_, err := issuer.ShareSelection(context.Background(), sel)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestShareSelection_CopiesToClipboard(t *testing.T) {
	backend := newFakeBackend()
	dir, ids := seedDirectory(t, backend)
	sel, _ := newSelectionWithClock(dir)
	sel.SecondaryClick(ids[0], KindFile)

	var copied string
	issuer := NewShareIssuer(backend, func(text string) error {
		copied = text
		return nil
	})

	link, err := issuer.ShareSelection(context.Background(), sel)
	require.NoError(t, err)
	require.Equal(t, link.ViewerURL, copied)
}

func TestShareSelection_ClipboardFailureStillReturnsLink(t *testing.T) {
	backend := newFakeBackend()
	dir, ids := seedDirectory(t, backend)
	sel, _ := newSelectionWithClock(dir)
	sel.SecondaryClick(ids[0], KindFile)

	issuer := NewShareIssuer(backend, func(string) error {
		return errors.New("no clipboard")
	})

	link, err := issuer.ShareSelection(context.Background(), sel)
	require.NoError(t, err)
	require.NotEmpty(t, link.ViewerURL)
}

func TestShareSelection_BackendFailureKeepsSelection(t *testing.T) {
	backend := newFakeBackend()
	dir, ids := seedDirectory(t, backend)
	sel, _ := newSelectionWithClock(dir)
	sel.SecondaryClick(ids[0], KindFile)
	backend.shareErr = errors.New("server unavailable")

	issuer := NewShareIssuer(backend, nil)
	_, err := issuer.ShareSelection(context.Background(), sel)
	require.Error(t, err)
	require.True(t, sel.Active())
}
