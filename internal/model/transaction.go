package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock movement
type TransactionType string

const (
	TxTypeInbound    TransactionType = "INBOUND"
	TxTypeOutbound   TransactionType = "OUTBOUND"
	TxTypeProduction TransactionType = "PRODUCTION"
	TxTypeTransfer   TransactionType = "TRANSFER"
	TxTypeAdjustment TransactionType = "ADJUSTMENT"
)

// TransactionStatus reflects the settlement state of a recorded movement
type TransactionStatus string

const (
	TxStatusCompleted TransactionStatus = "COMPLETED"
	TxStatusPending   TransactionStatus = "PENDING"
	TxStatusCancelled TransactionStatus = "CANCELLED"
	TxStatusReturned  TransactionStatus = "RETURNED"
)

// Transaction is the immutable audit record justifying a stock mutation.
// Rows are append-only: no service exposes update or delete.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionType TransactionType   `gorm:"type:varchar(20);not null;index" json:"transaction_type"`
	EntityType      EntityType        `gorm:"type:varchar(20);not null;index" json:"entity_type"`
	ItemID          *uuid.UUID        `gorm:"type:uuid;index" json:"item_id"`
	Item            *Item             `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	ProductID       *uuid.UUID        `gorm:"type:uuid;index" json:"product_id"`
	Product         *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	WarehouseID     *uuid.UUID        `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse       *Warehouse        `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UserID          *uuid.UUID        `gorm:"type:uuid;index" json:"user_id"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Quantity        decimal.Decimal   `gorm:"type:decimal(10,3);not null" json:"quantity"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	TotalPrice      decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	StockAfter      decimal.Decimal   `gorm:"type:decimal(10,3);not null;default:0" json:"stock_after"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'COMPLETED'" json:"status"`
	TransactionDate time.Time         `gorm:"not null;index" json:"transaction_date"`
	ReferenceNumber string            `gorm:"type:varchar(100);index;not null" json:"reference_number"`
	Notes           string            `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
}
