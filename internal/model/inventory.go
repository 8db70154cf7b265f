package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntityType distinguishes raw materials from finished goods in stock moves
type EntityType string

const (
	EntityTypeItem    EntityType = "ITEM"
	EntityTypeProduct EntityType = "PRODUCT"
)

// Item is a raw material held in stock. Quantity is mutated exclusively
// through the stock ledger, never written by handlers or lifecycle services.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse   *Warehouse      `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UnitID      *uuid.UUID      `gorm:"type:uuid" json:"unit_id"`
	Unit        *Unit           `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"quantity"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Product is a finished good produced from items. Same stock contract as Item.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category       *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	WarehouseID    *uuid.UUID      `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse      *Warehouse      `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UnitID         *uuid.UUID      `gorm:"type:uuid" json:"unit_id"`
	Unit           *Unit           `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	TotalCostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_cost_price"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"sale_price"`
	Description    string          `gorm:"type:text" json:"description"`
	Quantity       decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"quantity"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Sequence backs sequential document and reference numbers. Rows are
// incremented under a Postgres advisory lock, one row per prefix+day.
type Sequence struct {
	Name  string `gorm:"type:varchar(100);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}
