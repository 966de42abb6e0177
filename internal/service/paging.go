package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paging holds the page size policy shared by list operations.
type Paging struct {
	Default int
	Max     int
}

// DefaultPaging returns the stock page size policy.
func DefaultPaging() Paging {
	return Paging{Default: 10, Max: 50}
}

// resolve validates page and pageSize and clamps pageSize to the maximum.
func (p Paging) resolve(page, pageSize int) (int, int, error) {
	fields := map[string]string{}
	if page < 1 {
		fields["page"] = "must be at least 1"
	}
	if pageSize < 1 {
		fields["limit"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return 0, 0, validationFailed("invalid pagination", fields)
	}
	if p.Max > 0 && pageSize > p.Max {
		pageSize = p.Max
	}
	return page, pageSize, nil
}

func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// forUpdate takes a row lock on postgres. SQLite serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if isPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func forShare(tx *gorm.DB) *gorm.DB {
	if isPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "SHARE"})
	}
	return tx
}
