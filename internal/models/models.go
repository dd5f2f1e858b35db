package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Jewelry types
const (
	JewelryTypeRing     = "RING"
	JewelryTypeNecklace = "NECKLACE"
	JewelryTypeBracelet = "BRACELET"
	JewelryTypeEarring  = "EARRING"
	JewelryTypeWatch    = "WATCH"
)

// User represents a registered customer or admin. Registration and credential
// handling live outside this service; the checkout flow only reads users to
// resolve notification recipients.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserName  string    `db:"user_name" json:"user_name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Jewelry represents a catalog item. StockQuantity never goes below zero and
// AvailableStatus must equal stock_quantity > 0 after every mutation.
type Jewelry struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ModelNumber     string          `db:"model_number" json:"model_number"`
	Name            string          `db:"name" json:"name"`
	Type            string          `db:"type" json:"type"`
	StockQuantity   int             `db:"stock_quantity" json:"stock_quantity"`
	Price           decimal.Decimal `db:"price" json:"price"`
	AvailableStatus bool            `db:"available_status" json:"available_status"`
	DateOfArrival   time.Time       `db:"date_of_arrival" json:"date_of_arrival"`
	UploadedBy      uuid.UUID       `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// CartItem represents one line of a user's cart. There is at most one line per
// (user, jewelry) pair; re-adding an item increments the quantity instead.
type CartItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	JewelryID uuid.UUID `db:"jewelry_id" json:"jewelry_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartItemDetail is a cart line joined with its jewelry data for display.
type CartItemDetail struct {
	CartItem
	JewelryName     string          `db:"jewelry_name" json:"jewelry_name"`
	ModelNumber     string          `db:"model_number" json:"model_number"`
	Price           decimal.Decimal `db:"price" json:"price"`
	StockQuantity   int             `db:"stock_quantity" json:"stock_quantity"`
	AvailableStatus bool            `db:"available_status" json:"available_status"`
}

// Address is a user's saved, mutable address.
type Address struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Street    string    `db:"street" json:"street"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Country   string    `db:"country" json:"country"`
	Pincode   string    `db:"pincode" json:"pincode"`
	Landmark  string    `db:"landmark" json:"landmark"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DeliveryAddress is an immutable copy of a saved address taken when an order
// is placed. Later edits or deletion of the source address never touch it.
type DeliveryAddress struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Street    string    `db:"street" json:"street"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Country   string    `db:"country" json:"country"`
	Pincode   string    `db:"pincode" json:"pincode"`
	Landmark  string    `db:"landmark" json:"landmark"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order is the durable record of a placed order. Amount is frozen at creation
// time; it is never recomputed from the live catalog price.
type Order struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	JewelryID         uuid.UUID       `db:"jewelry_id" json:"jewelry_id"`
	UserID            uuid.UUID       `db:"user_id" json:"user_id"`
	DeliveryAddressID uuid.UUID       `db:"delivery_address_id" json:"delivery_address_id"`
	Quantity          int             `db:"quantity" json:"quantity"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Status            string          `db:"status" json:"status"`
	StatusTimestamp   time.Time       `db:"status_timestamp" json:"status_timestamp"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// PincodeEntry is the database tier of the pincode lookup cache.
type PincodeEntry struct {
	Pincode   string    `db:"pincode" json:"pincode"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Country   string    `db:"country" json:"country"`
	FetchedAt time.Time `db:"fetched_at" json:"fetched_at"`
}
