package progress

import (
	"context"
	"fmt"

	"github.com/carnetlify/carnetlify/internal/catalog"
	"github.com/carnetlify/carnetlify/internal/remote"
)

// SnapshotSource yields the authoritative remote flags.
type SnapshotSource interface {
	ProgressSnapshot(ctx context.Context) (remote.Snapshot, error)
}

// Reconciler folds the remote snapshot into the local cache. The remote
// document is the source of truth for completion; local records it does not
// confirm are left untouched.
type Reconciler struct {
	remote  SnapshotSource
	local   *LocalStore
	catalog *catalog.Catalog
}

// NewReconciler creates a Reconciler.
func NewReconciler(src SnapshotSource, local *LocalStore, cat *catalog.Catalog) *Reconciler {
	return &Reconciler{remote: src, local: local, catalog: cat}
}

// PullResult describes what a Pull changed.
type PullResult struct {
	Snapshot remote.Snapshot
	Marked   []string // lesson ids newly marked completed locally
}

// Pull fetches the snapshot and marks every remotely completed lesson as
// completed locally.
func (r *Reconciler) Pull(ctx context.Context) (*PullResult, error) {
	snap, err := r.remote.ProgressSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch progress snapshot: %w", err)
	}

	done := Completed(r.local.GetAll(ctx))
	res := &PullResult{Snapshot: snap}
	for _, l := range r.catalog.Lessons() {
		if !snap.Has(l.StateKey()) || done[l.ID] {
			continue
		}
		if _, err := r.local.Upsert(ctx, l.ID, true); err != nil {
			return res, fmt.Errorf("mark %s completed: %w", l.ID, err)
		}
		res.Marked = append(res.Marked, l.ID)
	}
	return res, nil
}
