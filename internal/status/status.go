package status

import "propchain/internal/model"

// Presentation то, как статус отображается в интерфейсе
type Presentation struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var fallback = Presentation{Label: "Unknown", Icon: "help-circle", Color: "gray"}

var outcomes = map[model.VerificationOutcome]Presentation{
	model.VerificationOutcomeVerified: {Label: "Verified", Icon: "check-circle", Color: "green"},
	model.VerificationOutcomeFlagged:  {Label: "Flagged", Icon: "alert-triangle", Color: "red"},
	model.VerificationOutcomeReturned: {Label: "Returned", Icon: "rotate-ccw", Color: "amber"},
}

var transactions = map[model.TransactionStatus]Presentation{
	model.TransactionStatusInProgress: {Label: "In Progress", Icon: "clock", Color: "blue"},
	model.TransactionStatusCompleted:  {Label: "Completed", Icon: "check-circle", Color: "green"},
}

var listings = map[model.ListingStatus]Presentation{
	model.ListingStatusPending:  {Label: "Pending", Icon: "hourglass", Color: "amber"},
	model.ListingStatusVerified: {Label: "Verified", Icon: "shield-check", Color: "green"},
}

var severities = map[model.AlertSeverity]Presentation{
	model.AlertSeverityInfo:     {Label: "Info", Icon: "info", Color: "blue"},
	model.AlertSeverityWarning:  {Label: "Warning", Icon: "alert-triangle", Color: "amber"},
	model.AlertSeverityCritical: {Label: "Critical", Icon: "alert-octagon", Color: "red"},
}

func lookup[K ~string](table map[K]Presentation, v K) (Presentation, bool) {
	p, ok := table[v]
	if !ok {
		p = fallback
	}
	p.Value = string(v)
	return p, ok
}

func Outcome(v model.VerificationOutcome) (Presentation, bool) { return lookup(outcomes, v) }

func Transaction(v model.TransactionStatus) (Presentation, bool) { return lookup(transactions, v) }

func Listing(v model.ListingStatus) (Presentation, bool) { return lookup(listings, v) }

func Severity(v model.AlertSeverity) (Presentation, bool) { return lookup(severities, v) }

// Table полная таблица отображения всех перечислений, отдается фронтенду целиком
type Table struct {
	Verification []Presentation `json:"verification"`
	Transaction  []Presentation `json:"transaction"`
	Listing      []Presentation `json:"listing"`
	Severity     []Presentation `json:"severity"`
}

func All() Table {
	t := Table{}
	for _, v := range model.AllVerificationOutcome {
		p, _ := Outcome(v)
		t.Verification = append(t.Verification, p)
	}
	for _, v := range model.AllTransactionStatus {
		p, _ := Transaction(v)
		t.Transaction = append(t.Transaction, p)
	}
	for _, v := range model.AllListingStatus {
		p, _ := Listing(v)
		t.Listing = append(t.Listing, p)
	}
	for _, v := range model.AllAlertSeverity {
		p, _ := Severity(v)
		t.Severity = append(t.Severity, p)
	}
	return t
}
