package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionStatus is the closed set of production lifecycle states
type ProductionStatus string

const (
	ProductionStatusPlanned    ProductionStatus = "PLANNED"
	ProductionStatusInProgress ProductionStatus = "IN_PROGRESS"
	ProductionStatusOnHold     ProductionStatus = "ON_HOLD"
	ProductionStatusCompleted  ProductionStatus = "COMPLETED"
	ProductionStatusCancelled  ProductionStatus = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status
func (s ProductionStatus) Terminal() bool {
	return s == ProductionStatusCompleted || s == ProductionStatusCancelled
}

// Debited reports whether raw materials have been consumed and a
// cancellation must compensate the debit.
func (s ProductionStatus) Debited() bool {
	return s == ProductionStatusInProgress || s == ProductionStatusOnHold
}

// Production is a manufacturing run: raw items are debited at start,
// the finished product is credited at completion.
type Production struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductionNumber string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"production_number"`
	ProductID        *uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Product          *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	WarehouseID      *uuid.UUID       `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse        *Warehouse       `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	UserID           *uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	User             *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlannedQuantity  decimal.Decimal  `gorm:"type:decimal(10,3);not null" json:"planned_quantity"`
	ProducedQuantity decimal.Decimal  `gorm:"type:decimal(10,3);not null;default:0" json:"produced_quantity"`
	Status           ProductionStatus `gorm:"type:varchar(20);not null;default:'PLANNED'" json:"status"`
	PlannedDate      *time.Time       `json:"planned_date"`
	StartDate        *time.Time       `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	TotalCost        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
	Notes            string           `gorm:"type:text" json:"notes"`
	Items            []ProductionItem `gorm:"foreignKey:ProductionID" json:"items"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductionItem is one raw-material requirement line. UsedQuantity is
// written by start (debit) and reset by a compensating cancel.
type ProductionItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductionID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"production_id"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item             *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	RequiredQuantity decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"required_quantity"`
	UsedQuantity     decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"used_quantity"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
