// Package retention purges what soft deletion and the revision history
// leave behind. A periodic sweep permanently removes rows that have been
// soft-deleted longer than the retention window and trims each post's
// closed revisions down to a configured count. The current revision and
// anything still recoverable inside the window are never touched.
package retention

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/audit"
	"github.com/inkwell-sh/inkwell/pkg/db"
	"github.com/inkwell-sh/inkwell/pkg/model"
	"github.com/inkwell-sh/inkwell/pkg/store"
	storegorm "github.com/inkwell-sh/inkwell/pkg/store/gorm"
)

// Config sets the sweep boundaries.
type Config struct {
	// RetentionDays is how long soft-deleted rows stay recoverable.
	RetentionDays int
	// RevisionKeep is how many closed revisions each post keeps. The
	// current revision doesn't count against it.
	RevisionKeep int
}

// Result counts what one sweep removed.
type Result struct {
	PurgedPosts      int
	PurgedBlogs      int
	TrimmedRevisions int
}

// Sweeper runs retention sweeps.
type Sweeper struct {
	db  *gorm.DB
	cfg Config
}

// NewSweeper creates a Sweeper.
func NewSweeper(db *gorm.DB, cfg Config) *Sweeper {
	return &Sweeper{db: db, cfg: cfg}
}

// RunOnce performs a single sweep and audits the outcome. Serialization
// conflicts with live writers are retried.
func (s *Sweeper) RunOnce(ctx context.Context) (*Result, error) {
	var result *Result
	err := db.WithRetry(ctx, 3, func(ctx context.Context) error {
		var err error
		result, err = s.sweep(ctx)
		return err
	})
	if err != nil {
		audit.Log(audit.SweepEvent{Success: false, ErrorMessage: err.Error()})
		return nil, err
	}

	audit.Log(audit.SweepEvent{
		PurgedPosts:      result.PurgedPosts,
		PurgedBlogs:      result.PurgedBlogs,
		TrimmedRevisions: result.TrimmedRevisions,
		Success:          true,
	})
	return result, nil
}

// sweep runs in one serializable transaction so a failed sweep leaves
// nothing half purged.
func (s *Sweeper) sweep(ctx context.Context) (*Result, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	var result Result

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	err := db.InTransactionWith(s.db.WithContext(ctx), opts, func(tx *gorm.DB) error {
		posts := storegorm.NewPostsStore(tx)
		var expiredPosts []int64
		err := tx.Model(&model.Post{}).Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Pluck("id", &expiredPosts).Error
		if err != nil {
			return fmt.Errorf("find expired posts: %w", err)
		}
		for _, id := range expiredPosts {
			if err := posts.HardDeletePost(id); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("purge post %d: %w", id, err)
			}
			result.PurgedPosts++
		}

		blogs := storegorm.NewBlogsStore(tx)
		var expiredBlogs []int64
		err = tx.Model(&model.Blog{}).Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Pluck("id", &expiredBlogs).Error
		if err != nil {
			return fmt.Errorf("find expired blogs: %w", err)
		}
		for _, id := range expiredBlogs {
			if err := blogs.HardDeleteBlog(id); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("purge blog %d: %w", id, err)
			}
			result.PurgedBlogs++
		}

		trimmed, err := s.trimRevisions(tx)
		if err != nil {
			return err
		}
		result.TrimmedRevisions = trimmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// trimRevisions drops each post's oldest closed revisions beyond the keep
// count. Only rows with valid_to set are candidates; the open revision
// always survives.
func (s *Sweeper) trimRevisions(tx *gorm.DB) (int, error) {
	if s.cfg.RevisionKeep < 0 {
		return 0, nil
	}

	var postIDs []int64
	err := tx.Model(&model.PostRevision{}).
		Where("valid_to IS NOT NULL").
		Distinct().
		Pluck("post_id", &postIDs).Error
	if err != nil {
		return 0, fmt.Errorf("find posts with closed revisions: %w", err)
	}

	trimmed := 0
	for _, postID := range postIDs {
		var keepFloor sql.NullInt64
		err := tx.Model(&model.PostRevision{}).
			Select("revision").
			Where("post_id = ? AND valid_to IS NOT NULL", postID).
			Order("revision DESC").
			Offset(s.cfg.RevisionKeep).
			Limit(1).
			Scan(&keepFloor).Error
		if err != nil {
			return 0, fmt.Errorf("find trim floor for post %d: %w", postID, err)
		}
		if !keepFloor.Valid {
			continue
		}

		res := tx.Where("post_id = ? AND valid_to IS NOT NULL AND revision <= ?", postID, keepFloor.Int64).
			Delete(&model.PostRevision{})
		if res.Error != nil {
			return 0, fmt.Errorf("trim revisions for post %d: %w", postID, res.Error)
		}
		trimmed += int(res.RowsAffected)
	}

	return trimmed, nil
}

// Schedule runs sweeps on an interval until ctx is done. It blocks.
func (s *Sweeper) Schedule(ctx context.Context, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := s.RunOnce(ctx); err != nil {
				log.Error().Err(err).Msg("retention sweep failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Info().Dur("interval", interval).Msg("retention sweeper started")

	<-ctx.Done()
	return scheduler.Shutdown()
}
