package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection for the given DSN. TranslateError is
// enabled so unique-index violations surface as gorm.ErrDuplicatedKey
// regardless of driver.
func InitDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
}
