package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

type widget struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"uniqueIndex"`
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	if err := db.Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err = db.Create(&widget{Name: "a"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestConnect(t *testing.T) {
	if err := Connect(DriverSQLite, ":memory:"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if GetDB() == nil {
		t.Error("Expected GetDB to return the connected database")
	}
}
