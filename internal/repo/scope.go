package repo

import (
	"gorm.io/gorm"

	"realestate-crm/internal/domain"
)

// ownedLists 所有权谓词：admin 不过滤，否则 owner_id = actor
func ownedLists(a domain.Actor, table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if a.IsAdmin() {
			return db
		}
		return db.Where(table+".owner_id = ?", a.ID)
	}
}

// ownedLeads 线索的所有权由所属 list 传递
func ownedLeads(a domain.Actor, db *gorm.DB) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if a.IsAdmin() {
			return q
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&domain.List{}).Select("id").Where("owner_id = ?", a.ID)
		return q.Where("leads.list_id IN (?)", sub)
	}
}
