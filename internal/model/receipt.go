package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptStatus is the closed set of material-receipt states. The receipt
// flow is the two-state variant of the order flow: no confirmation
// handshake between creation and receiving.
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "PENDING"
	ReceiptStatusReceived  ReceiptStatus = "RECEIVED"
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status
func (s ReceiptStatus) Terminal() bool {
	return s == ReceiptStatusReceived || s == ReceiptStatusCancelled
}

// MaterialReceipt is a lightweight receiving document crediting item stock
type MaterialReceipt struct {
	ID            uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiptNumber string                `gorm:"type:varchar(100);uniqueIndex;not null" json:"receipt_number"`
	WarehouseID   *uuid.UUID            `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse     *Warehouse            `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UserID        *uuid.UUID            `gorm:"type:uuid;index" json:"user_id"`
	User          *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status        ReceiptStatus         `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ReceiptDate   time.Time             `gorm:"not null" json:"receipt_date"`
	ReceivedDate  *time.Time            `json:"received_date"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Notes         string                `gorm:"type:text" json:"notes"`
	Supplier      string                `gorm:"type:varchar(200)" json:"supplier"`
	Items         []MaterialReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`
	CreatedAt     time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

// MaterialReceiptItem is one expected delivery line
type MaterialReceiptItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiptID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item             *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"received_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
