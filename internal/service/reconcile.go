package service

import (
	"context"
	"fmt"
	"time"

	"Gallerist/internal/media"
	"Gallerist/internal/repo"

	"go.uber.org/zap"
)

// SweepReport — итог прохода по media store.
type SweepReport struct {
	Scanned    int      `json:"scanned"`
	Referenced int      `json:"referenced"`
	Young      int      `json:"young"`
	Orphans    []string `json:"orphans"`
	Deleted    []string `json:"deleted"`
	Failed     []string `json:"failed"`
}

// ReconcileService удаляет объекты media store, на которые не ссылается ни один элемент галереи.
type ReconcileService struct {
	items  repo.GalleryRepository
	store  media.Store
	lister media.Lister
	grace  time.Duration
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewReconcileService: объекты моложе grace не трогаются, их загрузка может ещё ждать создания записи.
func NewReconcileService(items repo.GalleryRepository, store media.Store, lister media.Lister, grace time.Duration, logger *zap.SugaredLogger) *ReconcileService {
	return &ReconcileService{items: items, store: store, lister: lister, grace: grace, logger: logger, now: time.Now}
}

func (s *ReconcileService) Sweep(ctx context.Context, dryRun bool) (SweepReport, error) {
	var rep SweepReport

	refs, err := s.items.ListImageRefs(ctx)
	if err != nil {
		return rep, fmt.Errorf("list image refs: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, it := range refs {
		h := it.ImageHandle
		if h == "" {
			if h, err = s.store.DeriveHandle(it.Image); err != nil {
				// без handle нельзя доказать, что объект не используется
				return rep, fmt.Errorf("resolve handle of item %s: %w", it.ID, err)
			}
		}
		referenced[h] = struct{}{}
	}

	objects, err := s.lister.List(ctx)
	if err != nil {
		return rep, fmt.Errorf("list stored objects: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	for _, obj := range objects {
		rep.Scanned++
		if _, ok := referenced[obj.Handle]; ok {
			rep.Referenced++
			continue
		}
		if obj.CreatedAt.After(cutoff) {
			rep.Young++
			continue
		}
		rep.Orphans = append(rep.Orphans, obj.Handle)
		if dryRun {
			continue
		}
		if err := s.store.Delete(ctx, obj.Handle); err != nil {
			s.logger.Warnw("orphan delete failed", "handle", obj.Handle, "error", err)
			rep.Failed = append(rep.Failed, obj.Handle)
			continue
		}
		rep.Deleted = append(rep.Deleted, obj.Handle)
	}
	s.logger.Infow("orphan sweep finished",
		"dry_run", dryRun, "scanned", rep.Scanned, "orphans", len(rep.Orphans), "deleted", len(rep.Deleted), "failed", len(rep.Failed))
	return rep, nil
}
