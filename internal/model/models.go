package model

import (
	"regexp"
	"time"
)

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusVerified ListingStatus = "verified"
)

var AllListingStatus = []ListingStatus{
	ListingStatusPending,
	ListingStatusVerified,
}

func (e ListingStatus) IsValid() bool {
	switch e {
	case ListingStatusPending, ListingStatusVerified:
		return true
	}
	return false
}

func (e ListingStatus) String() string {
	return string(e)
}

// VerificationOutcome решение верификатора по объявлению
type VerificationOutcome string

const (
	VerificationOutcomeVerified VerificationOutcome = "verified"
	VerificationOutcomeFlagged  VerificationOutcome = "flagged"
	VerificationOutcomeReturned VerificationOutcome = "returned"
)

var AllVerificationOutcome = []VerificationOutcome{
	VerificationOutcomeVerified,
	VerificationOutcomeFlagged,
	VerificationOutcomeReturned,
}

func (e VerificationOutcome) IsValid() bool {
	switch e {
	case VerificationOutcomeVerified, VerificationOutcomeFlagged, VerificationOutcomeReturned:
		return true
	}
	return false
}

func (e VerificationOutcome) String() string {
	return string(e)
}

// TransactionStatus статус эскроу-сделки
type TransactionStatus string

const (
	TransactionStatusInProgress TransactionStatus = "In Progress"
	TransactionStatusCompleted  TransactionStatus = "Completed"
)

var AllTransactionStatus = []TransactionStatus{
	TransactionStatusInProgress,
	TransactionStatusCompleted,
}

func (e TransactionStatus) IsValid() bool {
	switch e {
	case TransactionStatusInProgress, TransactionStatusCompleted:
		return true
	}
	return false
}

func (e TransactionStatus) String() string {
	return string(e)
}

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

var AllAlertSeverity = []AlertSeverity{
	AlertSeverityInfo,
	AlertSeverityWarning,
	AlertSeverityCritical,
}

func (e AlertSeverity) IsValid() bool {
	switch e {
	case AlertSeverityInfo, AlertSeverityWarning, AlertSeverityCritical:
		return true
	}
	return false
}

func (e AlertSeverity) String() string {
	return string(e)
}

type Property struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	Location    string        `json:"location"`
	Bedrooms    int           `json:"bedrooms"`
	Bathrooms   int           `json:"bathrooms"`
	Area        float64       `json:"area"`
	Images      []string      `json:"images"`
	Zone        string        `json:"zone"`
	Description *string       `json:"description,omitempty"`
	YearBuilt   *int          `json:"year_built,omitempty"`
	Amenities   []string      `json:"amenities,omitempty"`
	OwnerWallet string        `json:"owner_wallet"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PropertyFilter все поля необязательные; nil/пустое значение не фильтрует
type PropertyFilter struct {
	Zone         string         `json:"zone,omitempty"`
	MinPrice     *float64       `json:"min_price,omitempty"`
	MaxPrice     *float64       `json:"max_price,omitempty"`
	MinBedrooms  *int           `json:"bedrooms,omitempty"`
	MinBathrooms *int           `json:"bathrooms,omitempty"`
	Location     string         `json:"location,omitempty"`
	Status       *ListingStatus `json:"status,omitempty"`
	OwnerWallet  string         `json:"owner_wallet,omitempty"`
	Query        string         `json:"q,omitempty"`
}

type PendingVerification struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	SubmittedAt  time.Time `json:"submitted_at"`
	OwnerWallet  string    `json:"owner_wallet"`
	OwnerShort   string    `json:"owner_short"`
}

type VerificationHistoryItem struct {
	ID             string              `json:"id"`
	PropertyID     string              `json:"property_id"`
	Property       string              `json:"property"`
	Location       string              `json:"location"`
	Status         VerificationOutcome `json:"status"`
	Date           time.Time           `json:"date"`
	Note           *string             `json:"note,omitempty"`
	VerifierWallet string              `json:"verifier_wallet,omitempty"`
}

type Transaction struct {
	ID          string            `json:"id"`
	PropertyID  string            `json:"property_id"`
	Property    string            `json:"property"`
	Status      TransactionStatus `json:"status"`
	Amount      float64           `json:"amount"`
	BuyerWallet string            `json:"buyer_wallet"`
	OwnerWallet string            `json:"owner_wallet"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Alert struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Severity  AlertSeverity `json:"severity"`
	CreatedAt time.Time     `json:"created_at"`
	Read      bool          `json:"read"`
}

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}

type Document struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	ContentHash string    `json:"content_hash"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// VerificationReview то, что видит верификатор при разборе заявки
type VerificationReview struct {
	Pending   *PendingVerification `json:"pending"`
	Property  *Property            `json:"property"`
	Documents []*Document          `json:"documents"`
}

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsWalletAddress проверяет формат EVM адреса (0x + 40 hex)
func IsWalletAddress(s string) bool {
	return walletPattern.MatchString(s)
}

// ShortWallet сокращает адрес до вида 0x1234...abcd
func ShortWallet(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
