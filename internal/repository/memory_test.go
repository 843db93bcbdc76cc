package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"propchain/internal/model"

	"go.uber.org/zap/zaptest"
)

func newSeededMemory(t *testing.T) Repositories {
	t.Helper()
	return NewMemory(DefaultSeed(), zaptest.NewLogger(t)).Repositories()
}

func TestMemoryPropertyList(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	all, total, err := repos.Properties.List(ctx, model.PropertyFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int(total) != len(all) || total != 7 {
		t.Fatalf("expected 7 properties, but got %d (total %d)", len(all), total)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt.Before(all[i].CreatedAt) {
			t.Errorf("properties not ordered newest first at index %d", i)
		}
	}

	page, total, err := repos.Properties.List(ctx, model.PropertyFilter{Zone: "residential"}, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 residential properties, but got %d", total)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, but got %d", len(page))
	}

	negative, _, err := repos.Properties.List(ctx, model.PropertyFilter{}, 3, -10)
	if err != nil || len(negative) != 3 || negative[0].ID != all[0].ID {
		t.Errorf("expected negative offset to start at the first item, got %d items, err %v", len(negative), err)
	}

	empty, total, _ := repos.Properties.List(ctx, model.PropertyFilter{Zone: "residential"}, 2, 10)
	if len(empty) != 0 || total != 4 {
		t.Errorf("expected empty page with total 4, but got %d items, total %d", len(empty), total)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	p, err := repos.Properties.GetByID(ctx, "prop-001")
	if err != nil || p == nil {
		t.Fatalf("expected property, got %v, %v", p, err)
	}
	p.Title = "changed"
	p.Images[0] = "changed"

	again, _ := repos.Properties.GetByID(ctx, "prop-001")
	if again.Title == "changed" || again.Images[0] == "changed" {
		t.Error("store state was modified through a returned record")
	}

	missing, err := repos.Properties.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing property, got %v, %v", missing, err)
	}
}

func TestMemoryUpdateStatus(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	if err := repos.Properties.UpdateStatus(ctx, "prop-002", model.ListingStatusVerified); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := repos.Properties.GetByID(ctx, "prop-002")
	if p.Status != model.ListingStatusVerified {
		t.Errorf("expected verified status, but got %s", p.Status)
	}

	if err := repos.Properties.UpdateStatus(ctx, "nope", model.ListingStatusVerified); err == nil {
		t.Error("expected error for missing property")
	}
}

func TestMemoryResolve(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	before, _ := repos.Verifications.CountHistory(ctx)

	item := &model.VerificationHistoryItem{
		ID: "vh-new", PropertyID: "prop-002", Property: "Luxury Waterfront Villa",
		Status: model.VerificationOutcomeFlagged, Date: time.Now(),
	}
	if err := repos.Verifications.Resolve(ctx, "pv-001", item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, _ := repos.Verifications.GetPending(ctx, "pv-001")
	if pending != nil {
		t.Error("expected pending verification to be removed")
	}

	after, _ := repos.Verifications.CountHistory(ctx)
	if after[model.VerificationOutcomeFlagged] != before[model.VerificationOutcomeFlagged]+1 {
		t.Errorf("expected flagged count to grow by one, before %v after %v", before, after)
	}

	flagged := model.VerificationOutcomeFlagged
	history, total, _ := repos.Verifications.ListHistory(ctx, &flagged, 10, 0)
	if total != 1 || history[0].ID != "vh-new" {
		t.Errorf("expected only the new flagged item, but got %d items", total)
	}

	if err := repos.Verifications.Resolve(ctx, "pv-001", item); err == nil {
		t.Error("expected error when resolving twice")
	}
}

func TestMemoryResolveVerifiedMarksProperty(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	item := &model.VerificationHistoryItem{
		ID: "vh-new", PropertyID: "prop-004", Property: "Cozy Studio Apartment",
		Status: model.VerificationOutcomeVerified, Date: time.Now(),
	}
	if err := repos.Verifications.Resolve(ctx, "pv-002", item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := repos.Properties.GetByID(ctx, "prop-004")
	if p.Status != model.ListingStatusVerified {
		t.Errorf("expected property verified together with the decision, but got %s", p.Status)
	}

	if err := repos.Verifications.Resolve(ctx, "pv-missing", &model.VerificationHistoryItem{
		ID: "vh-x", PropertyID: "prop-007", Status: model.VerificationOutcomeVerified,
	}); err == nil {
		t.Fatal("expected error for missing pending verification")
	}
	p, _ = repos.Properties.GetByID(ctx, "prop-007")
	if p.Status != model.ListingStatusPending {
		t.Errorf("failed resolve must not change the property, got %s", p.Status)
	}
}

func TestMemoryCreatePendingOnePerProperty(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	err := repos.Verifications.CreatePending(ctx, &model.PendingVerification{ID: "pv-new", PropertyID: "prop-002"})
	if !errors.Is(err, ErrPendingExists) {
		t.Errorf("expected ErrPendingExists for second pending on prop-002, but got %v", err)
	}

	err = repos.Verifications.CreatePending(ctx, &model.PendingVerification{ID: "pv-001", PropertyID: "prop-005"})
	if !errors.Is(err, ErrPendingExists) {
		t.Errorf("expected ErrPendingExists for a reused id, but got %v", err)
	}

	if err := repos.Verifications.CreatePending(ctx, &model.PendingVerification{ID: "pv-new", PropertyID: "prop-005"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMemoryPendingOrder(t *testing.T) {
	repos := newSeededMemory(t)
	items, total, err := repos.Verifications.ListPending(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || items[0].ID != "pv-003" {
		t.Errorf("expected newest pending first, got %d items starting with %s", total, items[0].ID)
	}
	if items[0].OwnerShort != "0x2546...Ec30" {
		t.Errorf("unexpected short wallet %s", items[0].OwnerShort)
	}

	byProperty, _ := repos.Verifications.GetPendingByProperty(context.Background(), "prop-004")
	if byProperty == nil || byProperty.ID != "pv-002" {
		t.Errorf("expected pv-002 for prop-004, got %+v", byProperty)
	}
}

func TestMemoryNoticesAndDocuments(t *testing.T) {
	repos := newSeededMemory(t)
	ctx := context.Background()

	unread, _ := repos.Notices.ListAlerts(ctx, true)
	all, _ := repos.Notices.ListAlerts(ctx, false)
	if len(unread) != 2 || len(all) != 3 {
		t.Errorf("expected 2 unread of 3 alerts, got %d of %d", len(unread), len(all))
	}

	docs, _ := repos.Documents.ListByProperty(ctx, "prop-002")
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	content, err := repos.Documents.GetContentByHash(ctx, docs[0].ContentHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ContentHash(content) != docs[0].ContentHash {
		t.Error("content does not match its hash")
	}

	if _, err := repos.Documents.GetContentByHash(ctx, "missing"); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("expected ErrContentNotFound, got %v", err)
	}

	txs, _ := repos.Transactions.ListByOwner(ctx, "0x71c7656ec7ab88b098defb751b7401b5f6d8976f")
	if len(txs) != 2 {
		t.Errorf("expected 2 transactions for owner, got %d", len(txs))
	}
}
