package media

import (
	"context"

	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/logging"
)

// ApplyEvent folds one feed event into the model. Semantics per event
// kind: inserted appends only when the id is absent; for a present id it
// keeps the local entry and marks it confirmed (the dedup against an
// optimistic local write). Updated replaces a present entry and is a
// no-op otherwise, deleted removes whatever is there. The last event to
// arrive wins.
func (d *Directory) ApplyEvent(e feed.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	switch e.Table {
	case feed.TableFolders:
		switch e.Kind {
		case feed.KindInserted:
			if entry, exists := d.folders[e.ID]; exists {
				entry.Origin = OriginConfirmed
			} else if e.Folder != nil {
				d.folders[e.ID] = &FolderEntry{Folder: *e.Folder, Origin: OriginConfirmed}
			}
		case feed.KindUpdated:
			if _, exists := d.folders[e.ID]; exists && e.Folder != nil {
				d.folders[e.ID] = &FolderEntry{Folder: *e.Folder, Origin: OriginConfirmed}
			}
		case feed.KindDeleted:
			delete(d.folders, e.ID)
		}

	case feed.TableFiles:
		switch e.Kind {
		case feed.KindInserted:
			if entry, exists := d.files[e.ID]; exists {
				entry.Origin = OriginConfirmed
			} else if e.File != nil {
				d.files[e.ID] = &FileEntry{File: *e.File, Origin: OriginConfirmed}
			}
		case feed.KindUpdated:
			if _, exists := d.files[e.ID]; exists && e.File != nil {
				d.files[e.ID] = &FileEntry{File: *e.File, Origin: OriginConfirmed}
			}
		case feed.KindDeleted:
			delete(d.files, e.ID)
		}
	}
}

// Syncer pumps feed events into a Directory until stopped.
type Syncer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartSync subscribes to the backend feed and applies media events to
// the directory in arrival order.
func StartSync(ctx context.Context, backend Backend, dir *Directory, logger logging.Logger) (*Syncer, error) {
	ctx, cancel := context.WithCancel(ctx)

	events, err := backend.SubscribeFeed(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &Syncer{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					logger.Warn(ctx, "change feed closed")
					return
				}
				dir.ApplyEvent(e)
			}
		}
	}()

	return s, nil
}

// Close tears the subscription down and waits for the pump to exit.
func (s *Syncer) Close() {
	s.cancel()
	<-s.done
}
