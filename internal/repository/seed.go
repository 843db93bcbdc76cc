package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"propchain/internal/model"
)

type SeedData struct {
	Properties    []*model.Property
	Pending       []*model.PendingVerification
	History       []*model.VerificationHistoryItem
	Transactions  []*model.Transaction
	Alerts        []*model.Alert
	Announcements []*model.Announcement
	Documents     []*model.Document
	// Contents содержимое документов по sha256 хэшу
	Contents map[string]string
}

const (
	seedOwnerWallet    = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	seedOwnerWallet2   = "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	seedVerifierWallet = "0xbDA5747bFD65F08deb54cb465eB87D40e51B197E"
	seedBuyerWallet    = "0xdD2FD4581271e230360230F9337D5c0430Bf44C0"
)

func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// DefaultSeed демо-данные маркетплейса, с которыми стартует in-memory хранилище
func DefaultSeed() *SeedData {
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	properties := []*model.Property{
		{
			ID: "prop-001", Title: "Modern Family Home", Price: 450000, Currency: "USD",
			Location: "Lekki Phase 1, Lagos", Bedrooms: 4, Bathrooms: 3, Area: 2500,
			Images: []string{"/images/property-1.jpg", "/images/property-1b.jpg"}, Zone: "residential",
			Description: strPtr("Spacious family home with a private garden and smart locks."),
			YearBuilt:   intPtr(2019), Amenities: []string{"garden", "parking", "security"},
			OwnerWallet: seedOwnerWallet, Status: model.ListingStatusVerified, CreatedAt: base,
		},
		{
			ID: "prop-002", Title: "Luxury Waterfront Villa", Price: 1250000, Currency: "USD",
			Location: "Banana Island, Lagos", Bedrooms: 6, Bathrooms: 5, Area: 5200,
			Images: []string{"/images/property-2.jpg"}, Zone: "residential",
			Description: strPtr("Waterfront villa with pool and private jetty."),
			YearBuilt:   intPtr(2021), Amenities: []string{"pool", "jetty", "gym"},
			OwnerWallet: seedOwnerWallet, Status: model.ListingStatusPending, CreatedAt: base.Add(2 * day),
		},
		{
			ID: "prop-003", Title: "Downtown Office Suite", Price: 780000, Currency: "USD",
			Location: "Victoria Island, Lagos", Bedrooms: 0, Bathrooms: 2, Area: 3100,
			Images: []string{"/images/property-3.jpg"}, Zone: "commercial",
			Description: strPtr("Open-plan office floor close to the business district."),
			YearBuilt:   intPtr(2015), Amenities: []string{"elevator", "parking"},
			OwnerWallet: seedOwnerWallet2, Status: model.ListingStatusVerified, CreatedAt: base.Add(3 * day),
		},
		{
			ID: "prop-004", Title: "Cozy Studio Apartment", Price: 95000, Currency: "USD",
			Location: "Yaba, Lagos", Bedrooms: 1, Bathrooms: 1, Area: 550,
			Images: []string{"/images/property-4.jpg"}, Zone: "residential",
			OwnerWallet: seedOwnerWallet2, Status: model.ListingStatusPending, CreatedAt: base.Add(4 * day),
		},
		{
			ID: "prop-005", Title: "Farmland Plot", Price: 60000, Currency: "USD",
			Location: "Epe, Lagos", Bedrooms: 0, Bathrooms: 0, Area: 43560,
			Images: []string{"/images/property-5.jpg"}, Zone: "agricultural",
			Description: strPtr("One acre of arable land with road access."),
			OwnerWallet: seedOwnerWallet, Status: model.ListingStatusPending, CreatedAt: base.Add(5 * day),
		},
		{
			ID: "prop-006", Title: "Suburban Duplex", Price: 320000, Currency: "USD",
			Location: "Ikeja GRA, Lagos", Bedrooms: 3, Bathrooms: 3, Area: 1900,
			Images: []string{"/images/property-6.jpg"}, Zone: "residential",
			YearBuilt:   intPtr(2012),
			OwnerWallet: seedOwnerWallet, Status: model.ListingStatusVerified, CreatedAt: base.Add(6 * day),
		},
		{
			ID: "prop-007", Title: "Warehouse Unit", Price: 540000, Currency: "USD",
			Location: "Apapa, Lagos", Bedrooms: 0, Bathrooms: 1, Area: 12000,
			Images: []string{"/images/property-7.jpg"}, Zone: "industrial",
			OwnerWallet: seedOwnerWallet2, Status: model.ListingStatusPending, CreatedAt: base.Add(7 * day),
		},
	}

	pending := []*model.PendingVerification{
		{
			ID: "pv-001", PropertyID: "prop-002", PropertyName: "Luxury Waterfront Villa",
			SubmittedAt: base.Add(2*day + time.Hour), OwnerWallet: seedOwnerWallet,
		},
		{
			ID: "pv-002", PropertyID: "prop-004", PropertyName: "Cozy Studio Apartment",
			SubmittedAt: base.Add(4*day + time.Hour), OwnerWallet: seedOwnerWallet2,
		},
		{
			ID: "pv-003", PropertyID: "prop-007", PropertyName: "Warehouse Unit",
			SubmittedAt: base.Add(7*day + time.Hour), OwnerWallet: seedOwnerWallet2,
		},
	}
	for _, p := range pending {
		p.OwnerShort = model.ShortWallet(p.OwnerWallet)
	}

	history := []*model.VerificationHistoryItem{
		{
			ID: "vh-001", PropertyID: "prop-001", Property: "Modern Family Home", Location: "Lekki Phase 1, Lagos",
			Status: model.VerificationOutcomeVerified, Date: base.Add(day), VerifierWallet: seedVerifierWallet,
		},
		{
			ID: "vh-002", PropertyID: "prop-003", Property: "Downtown Office Suite", Location: "Victoria Island, Lagos",
			Status: model.VerificationOutcomeVerified, Date: base.Add(3*day + 2*time.Hour), VerifierWallet: seedVerifierWallet,
		},
		{
			ID: "vh-003", PropertyID: "prop-005", Property: "Farmland Plot", Location: "Epe, Lagos",
			Status: model.VerificationOutcomeReturned, Date: base.Add(5*day + 3*time.Hour),
			Note: strPtr("Survey plan is missing the registered coordinates."), VerifierWallet: seedVerifierWallet,
		},
		{
			ID: "vh-004", PropertyID: "prop-006", Property: "Suburban Duplex", Location: "Ikeja GRA, Lagos",
			Status: model.VerificationOutcomeVerified, Date: base.Add(6*day + 2*time.Hour), VerifierWallet: seedVerifierWallet,
		},
	}

	transactions := []*model.Transaction{
		{
			ID: "tx-001", PropertyID: "prop-001", Property: "Modern Family Home", Status: model.TransactionStatusCompleted,
			Amount: 450000, BuyerWallet: seedBuyerWallet, OwnerWallet: seedOwnerWallet, CreatedAt: base.Add(8 * day),
		},
		{
			ID: "tx-002", PropertyID: "prop-006", Property: "Suburban Duplex", Status: model.TransactionStatusInProgress,
			Amount: 320000, BuyerWallet: seedBuyerWallet, OwnerWallet: seedOwnerWallet, CreatedAt: base.Add(9 * day),
		},
		{
			ID: "tx-003", PropertyID: "prop-003", Property: "Downtown Office Suite", Status: model.TransactionStatusCompleted,
			Amount: 780000, BuyerWallet: seedBuyerWallet, OwnerWallet: seedOwnerWallet2, CreatedAt: base.Add(10 * day),
		},
	}

	alerts := []*model.Alert{
		{
			ID: "al-001", Title: "Duplicate title deed", Message: "Title deed hash for Farmland Plot matches another submission.",
			Severity: model.AlertSeverityCritical, CreatedAt: base.Add(5 * day),
		},
		{
			ID: "al-002", Title: "Verification backlog", Message: "Three properties are waiting for review.",
			Severity: model.AlertSeverityWarning, CreatedAt: base.Add(7*day + 2*time.Hour),
		},
		{
			ID: "al-003", Title: "Scheduled maintenance", Message: "Document storage will be read-only on Sunday.",
			Severity: model.AlertSeverityInfo, CreatedAt: base.Add(day), Read: true,
		},
	}

	announcements := []*model.Announcement{
		{
			ID: "an-001", Title: "Core Testnet 2 support",
			Body:        "Listings are now tokenized on Core Testnet 2 (chain id 1114).",
			PublishedAt: base,
		},
		{
			ID: "an-002", Title: "Faster verification",
			Body:        "Verifiers can now review title documents directly in the dashboard.",
			PublishedAt: base.Add(6 * day),
		},
	}

	contents := map[string]string{}
	var documents []*model.Document
	addDoc := func(id, propertyID, name, kind, content string, uploaded time.Time) {
		hash := ContentHash(content)
		contents[hash] = content
		documents = append(documents, &model.Document{
			ID: id, PropertyID: propertyID, Name: name, Kind: kind,
			ContentHash: hash, URL: "/api/documents/" + hash, UploadedAt: uploaded,
		})
	}
	addDoc("doc-001", "prop-002", "Certificate of Occupancy", "title_deed",
		`{"registry":"Lagos State Lands Bureau","number":"CO-2021-04417","holder":"0x71C7...976F"}`, base.Add(2*day))
	addDoc("doc-002", "prop-002", "Survey Plan", "survey",
		`{"surveyor":"A. Bello","plan":"LA-SV-88120","area_sqft":5200}`, base.Add(2*day+time.Minute))
	addDoc("doc-003", "prop-004", "Deed of Assignment", "title_deed",
		`{"registry":"Lagos State Lands Bureau","number":"DA-2020-11873"}`, base.Add(4*day))
	addDoc("doc-004", "prop-007", "Tax Clearance", "tax",
		`{"authority":"LIRS","year":2024,"status":"cleared"}`, base.Add(7*day))

	return &SeedData{
		Properties:    properties,
		Pending:       pending,
		History:       history,
		Transactions:  transactions,
		Alerts:        alerts,
		Announcements: announcements,
		Documents:     documents,
		Contents:      contents,
	}
}
