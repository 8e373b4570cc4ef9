package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormStore implements RecordStore on a Postgres database. Field and table
// names in queries come from compile-time whitelists, never from user input.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Select(ctx context.Context, q Query, dest interface{}) (int64, error) {
	filtered := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Table(q.Table)
		for _, c := range q.Clauses {
			switch c.Op {
			case OpEq:
				tx = tx.Where(c.Field+" = ?", c.Value)
			case OpContains:
				pattern := "%" + likeEscape(fmt.Sprint(c.Value)) + "%"
				tx = tx.Where("CAST("+c.Field+" AS TEXT) ILIKE ?", pattern)
			case OpGte:
				tx = tx.Where(c.Field+" >= ?", c.Value)
			case OpLte:
				tx = tx.Where(c.Field+" <= ?", c.Value)
			}
		}
		return tx
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return 0, normalizeError(err)
	}

	tx := filtered()
	if q.OrderField != "" {
		direction := "DESC"
		if q.OrderAscending {
			direction = "ASC"
		}
		tx = tx.Order(q.OrderField + " " + direction)
	}
	if q.To >= 0 {
		tx = tx.Offset(q.From).Limit(q.To - q.From + 1)
	}
	if err := tx.Find(dest).Error; err != nil {
		return 0, normalizeError(err)
	}

	return count, nil
}

func (s *GormStore) Get(ctx context.Context, table, id string, dest interface{}) error {
	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Take(dest).Error
	return normalizeError(err)
}

func (s *GormStore) Insert(ctx context.Context, table string, record interface{}) error {
	return normalizeError(s.db.WithContext(ctx).Table(table).Create(record).Error)
}

func (s *GormStore) Update(ctx context.Context, table, id string, updates map[string]interface{}) error {
	// updated_at is owned by the store, never by callers.
	patched := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		patched[k] = v
	}
	patched["updated_at"] = time.Now()

	result := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(patched)
	if result.Error != nil {
		return normalizeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, table, id string) error {
	result := s.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if result.Error != nil {
		return normalizeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func likeEscape(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// normalizeError maps driver errors to the human-readable strings the
// service layer surfaces verbatim.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return errors.New("a record with the same value already exists")
		case "foreign_key_violation":
			return errors.New("the record is referenced by other data")
		case "not_null_violation", "check_violation":
			return fmt.Errorf("the record is not consistent: %s", pqErr.Message)
		}
		return errors.New(pqErr.Message)
	}
	return err
}
