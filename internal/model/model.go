package model

import (
	"gorm.io/gorm"
)

// Tables 全部数据表，按迁移顺序排列
var Tables = []string{"User", "StoredBlob", "File", "ShareLink"}

// AutoMigrate 按名称迁移单个表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "User":
		return db.AutoMigrate(User{})

	case "StoredBlob":
		return db.AutoMigrate(StoredBlob{})

	case "File":
		return db.AutoMigrate(File{})

	case "ShareLink":
		return db.AutoMigrate(ShareLink{})
	}
	return nil
}

// AutoMigrateAll 迁移全部数据表
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range Tables {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}
