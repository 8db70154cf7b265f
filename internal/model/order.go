package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// Order is a purchase order header. Line items are editable only while
// PENDING; receiving credits item stock and stamps ReceivedDate.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber  string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_number"`
	WarehouseID  *uuid.UUID      `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse    *Warehouse      `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UserID       *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	OrderDate    time.Time       `gorm:"not null" json:"order_date"`
	ReceivedDate *time.Time      `json:"received_date"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Notes        string          `gorm:"type:text" json:"notes"`
	Supplier     string          `gorm:"type:varchar(200)" json:"supplier"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem is one ordered line. ReceivedQuantity is written only by the
// receive transition (full receipt), never by the line-item API.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item             *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"received_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
