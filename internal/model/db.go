package model

import "time"

type OrderStatus int32

const (
	OrderStatusPlaced         OrderStatus = 0
	OrderStatusPaid           OrderStatus = 1
	OrderStatusPendingPayment OrderStatus = 2
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodPayPal = "PayPal"
	PaymentMethodVnPay  = "VNPay"
)

const (
	RoleCustomer int32 = 0
	RoleAdmin    int32 = 1
)

type Customer struct {
	Username     string `gorm:"primaryKey;size:32;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	FullName     string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	Phone        string `gorm:"size:32"`
	Address      string `gorm:"size:256"`
	Gender       bool
	BirthDate    *time.Time
	Active       bool   `gorm:"not null;default:true"`
	Role         int32  `gorm:"not null;default:0"`
	Image        string `gorm:"size:128"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"size:256"`
}

type Merchandise struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128;index;not null"`
	CategoryID  uint   `gorm:"index;not null"`
	UnitPrice   float64
	Image       string `gorm:"size:128"`
	Unit        string `gorm:"size:64"`
	Discount    float64
	Description string `gorm:"size:1024"`
	CreatedAt   time.Time
}

// CartItem belongs to exactly one owner: a customer (CustomerID set) or an
// anonymous browser session (CustomerID nil, SessionID set). One row per
// (owner, merchandise).
type CartItem struct {
	ID            uint    `gorm:"primaryKey"`
	CustomerID    *string `gorm:"size:32;index"`
	SessionID     string  `gorm:"size:64;index;not null"`
	MerchandiseID uint    `gorm:"index;not null"`
	Quantity      int32   `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CartOwner is the discriminated cart key. A non-empty CustomerID always
// takes precedence over the session id.
type CartOwner struct {
	CustomerID string
	SessionID  string
}

func (o CartOwner) Anonymous() bool { return o.CustomerID == "" }

type Order struct {
	ID             uint   `gorm:"primaryKey"`
	CustomerID     string `gorm:"size:32;index;not null"`
	PlacedAt       time.Time
	ShipName       string `gorm:"size:128;not null"`
	ShipAddress    string `gorm:"size:256"`
	ShipPhone      string `gorm:"size:32"`
	PaymentMethod  string `gorm:"size:32;not null"`
	ShippingMethod string `gorm:"size:32"`
	ShippingFee    float64
	Status         OrderStatus `gorm:"index;not null"`
	Note           string      `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem snapshots the cart price at order time so later merchandise
// price changes never touch historical orders.
type OrderItem struct {
	ID            uint `gorm:"primaryKey"`
	OrderID       uint `gorm:"index;not null"`
	MerchandiseID uint `gorm:"index;not null"`
	UnitPrice     float64
	Quantity      int32 `gorm:"not null"`
	Discount      float64
	CreatedAt     time.Time
}
