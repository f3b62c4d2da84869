package history

import (
	"context"
	"reflect"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/identity"
	"github.com/inkwell-sh/inkwell/pkg/model"
)

type contextKey string

// restoreKey marks a write as a restore so its snapshot is recorded with
// the restore action instead of a plain update.
const restoreKey contextKey = "history:restore"

// MarkRestore returns a context under which post writes snapshot as
// restores.
func MarkRestore(ctx context.Context) context.Context {
	return context.WithValue(ctx, restoreKey, true)
}

func isRestore(ctx context.Context) bool {
	marked, _ := ctx.Value(restoreKey).(bool)
	return marked
}

type options struct {
	clock func() time.Time
}

// ApplyOption applies a given set of supplied options
type ApplyOption func(o *options)

// WithClock overrides the snapshot timestamp source.
func WithClock(clock func() time.Time) ApplyOption {
	return func(o *options) {
		o.clock = clock
	}
}

func defaultOptions() *options {
	return &options{
		clock: func() time.Time { return time.Now().UTC() },
	}
}

type historyPlugin struct {
	opt *options
}

// NewPlugin constructs the temporal history plugin. It snapshots every
// post write into post_revisions: a new numbered revision per create,
// update, soft delete and restore, with the previous revision's validity
// interval closed at the same instant.
func NewPlugin(opts ...ApplyOption) gorm.Plugin {
	dst := defaultOptions()

	for _, apply := range opts {
		apply(dst)
	}

	return historyPlugin{
		opt: dst,
	}
}

func (p historyPlugin) Name() string {
	return "history"
}

func (p historyPlugin) Initialize(db *gorm.DB) (err error) {
	db.Callback().Create().After("gorm:create").Register("history:after_create", p.afterCreate)
	db.Callback().Update().After("gorm:update").Register("history:after_update", p.afterUpdate)
	db.Callback().Delete().After("gorm:delete").Register("history:after_delete", p.afterDelete)

	return
}

func (p historyPlugin) afterCreate(db *gorm.DB) {
	p.record(db, model.RevisionActionCreate)
}

func (p historyPlugin) afterUpdate(db *gorm.DB) {
	action := model.RevisionActionUpdate
	if isRestore(db.Statement.Context) {
		action = model.RevisionActionRestore
	}
	p.record(db, action)
}

func (p historyPlugin) afterDelete(db *gorm.DB) {
	// Unscoped deletes are purges; their history goes with them.
	if db.Statement.Unscoped {
		return
	}
	p.record(db, model.RevisionActionDelete)
}

func (p historyPlugin) record(db *gorm.DB, action string) {
	if db.Error != nil || db.RowsAffected == 0 {
		return
	}
	if db.Statement.Schema == nil || db.Statement.Schema.Table != "posts" {
		return
	}

	for _, id := range postIDs(db) {
		if err := p.snapshot(db, id, action); err != nil {
			db.AddError(err)
			return
		}
	}
}

// postIDs pulls the written post ids off the statement's model value.
func postIDs(db *gorm.DB) []int64 {
	var ids []int64
	collect := func(v reflect.Value) {
		if v.Kind() != reflect.Struct || !v.CanAddr() {
			return
		}
		if post, ok := v.Addr().Interface().(*model.Post); ok && post.ID != 0 {
			ids = append(ids, post.ID)
		}
	}

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		collect(db.Statement.ReflectValue)
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			collect(db.Statement.ReflectValue.Index(i))
		}
	}
	return ids
}

// snapshot reads the post as the write left it and appends the next
// revision, closing the previous one at the same instant. Runs on the
// caller's connection, so it joins any surrounding transaction.
func (p historyPlugin) snapshot(db *gorm.DB, postID int64, action string) error {
	tx := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})

	var post model.Post
	if err := tx.Unscoped().First(&post, postID).Error; err != nil {
		return err
	}

	var next int
	err := tx.Model(&model.PostRevision{}).
		Select("COALESCE(MAX(revision), 0) + 1").
		Where("post_id = ?", postID).
		Scan(&next).Error
	if err != nil {
		return err
	}

	now := p.opt.clock()
	err = tx.Model(&model.PostRevision{}).
		Where("post_id = ? AND valid_to IS NULL", postID).
		Update("valid_to", now).Error
	if err != nil {
		return err
	}

	var editorID *int64
	if id, ok := identity.FromContext(db.Statement.Context); ok {
		editorID = &id.AuthorID
	}

	return tx.Create(&model.PostRevision{
		PostID:    postID,
		Revision:  next,
		Title:     post.Title,
		Content:   post.Content,
		Status:    post.Status,
		EditorID:  editorID,
		Action:    action,
		ValidFrom: now,
	}).Error
}
