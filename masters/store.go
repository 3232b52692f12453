package masters

import (
	"context"
	"time"

	"github.com/opsfloor/mfgops_backend/utils"
	"gorm.io/gorm"
)

// Backing is the store behind the access layer. The production implementation
// sits on GORM/MySQL; tests use an in-memory fake.
type Backing interface {
	FetchAll(ctx context.Context, col Collection) ([]Record, error)
	Insert(ctx context.Context, col Collection, rec Record) (Record, error)
	Replace(ctx context.Context, col Collection, id string, rec Record) (Record, error)
	Remove(ctx context.Context, col Collection, id string) error
}

type gormBacking struct {
	db *gorm.DB
}

func NewGormBacking(db *gorm.DB) Backing {
	return &gormBacking{db: db}
}

func (b *gormBacking) FetchAll(ctx context.Context, col Collection) ([]Record, error) {
	var rows []map[string]interface{}
	err := b.db.WithContext(ctx).Table(col.Table).
		Order(col.KeyField).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record(row))
	}

	if col.Nested != nil {
		if err := b.attachNested(ctx, col, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// attachNested loads all sub-records for the collection in one query and
// groups them under the parent's nested field.
func (b *gormBacking) attachNested(ctx context.Context, col Collection, records []Record) error {
	var rows []map[string]interface{}
	err := b.db.WithContext(ctx).Table(col.Nested.Table).Find(&rows).Error
	if err != nil {
		return err
	}

	grouped := make(map[string][]Record)
	for _, row := range rows {
		child := Record(row)
		parentId := child.StringField(col.Nested.ForeignKey)
		grouped[parentId] = append(grouped[parentId], child)
	}
	for _, rec := range records {
		children := grouped[rec.Id(col.KeyField)]
		if children == nil {
			children = []Record{}
		}
		rec[col.Nested.Field] = children
	}
	return nil
}

func (b *gormBacking) Insert(ctx context.Context, col Collection, rec Record) (Record, error) {
	parent, children := splitNested(col, rec)
	now := time.Now().UTC()
	parent["created_at"] = now
	parent["updated_at"] = now

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := map[string]interface{}(parent)
		if err := tx.Table(col.Table).Create(&row).Error; err != nil {
			return err
		}
		// MySQL assigns the key; read it back for the nested rows.
		if _, ok := parent[col.KeyField]; !ok {
			var id int64
			if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&id).Error; err != nil {
				return err
			}
			parent[col.KeyField] = id
		}
		return b.insertNested(tx, col, parent, children)
	})
	if err != nil {
		return nil, err
	}
	return parent, nil
}

func (b *gormBacking) Replace(ctx context.Context, col Collection, id string, rec Record) (Record, error) {
	parent, children := splitNested(col, rec)
	delete(parent, col.KeyField)
	delete(parent, "created_at")
	parent["updated_at"] = time.Now().UTC()

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(col.Table).
			Where(col.KeyField+" = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.ErrorRecordNotFound
		}
		if err := tx.Table(col.Table).
			Where(col.KeyField+" = ?", id).Updates(map[string]interface{}(parent)).Error; err != nil {
			return err
		}
		if col.Nested != nil {
			// whole-record replace: nested rows are rewritten from the input
			if err := tx.Exec("DELETE FROM "+col.Nested.Table+" WHERE "+col.Nested.ForeignKey+" = ?", id).Error; err != nil {
				return err
			}
			parent[col.KeyField] = id
			return b.insertNested(tx, col, parent, children)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	parent[col.KeyField] = id
	return parent, nil
}

func (b *gormBacking) Remove(ctx context.Context, col Collection, id string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if col.Nested != nil {
			if err := tx.Exec("DELETE FROM "+col.Nested.Table+" WHERE "+col.Nested.ForeignKey+" = ?", id).Error; err != nil {
				return err
			}
		}
		// deleting a missing id is a no-op
		return tx.Exec("DELETE FROM "+col.Table+" WHERE "+col.KeyField+" = ?", id).Error
	})
}

func (b *gormBacking) insertNested(tx *gorm.DB, col Collection, parent Record, children []Record) error {
	if col.Nested == nil || len(children) == 0 {
		return nil
	}
	for _, child := range children {
		row := map[string]interface{}(child.Clone())
		row[col.Nested.ForeignKey] = parent[col.KeyField]
		if err := tx.Table(col.Nested.Table).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// splitNested separates the nested field (and any other non-column shapes)
// from the writable parent row.
func splitNested(col Collection, rec Record) (Record, []Record) {
	parent := rec.Clone()
	var children []Record
	if col.Nested != nil {
		children = toRecords(parent[col.Nested.Field])
		delete(parent, col.Nested.Field)
	}
	for k, v := range parent {
		switch v.(type) {
		case []any, []Record, map[string]any, Record:
			delete(parent, k)
		}
	}
	return parent, children
}

func toRecords(v any) []Record {
	switch vv := v.(type) {
	case []Record:
		return vv
	case []any:
		out := make([]Record, 0, len(vv))
		for _, item := range vv {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
		return out
	default:
		return nil
	}
}
