package service

import (
	"context"
	"fmt"

	"propchain/internal/model"
	"propchain/internal/pagination"
	"propchain/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentHistoryLimit = 5

type OwnerStats struct {
	TotalListings int `json:"total_listings"`
	Verified      int `json:"verified"`
	Pending       int `json:"pending"`
	ActiveEscrows int `json:"active_escrows"`
}

type OwnerDashboard struct {
	Wallet       string               `json:"wallet"`
	Stats        OwnerStats           `json:"stats"`
	Balance      float64              `json:"balance"`
	Listings     []*model.Property    `json:"listings"`
	Transactions []*model.Transaction `json:"transactions"`
}

type VerifierCounts struct {
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Flagged  int64 `json:"flagged"`
	Returned int64 `json:"returned"`
}

type VerifierDashboard struct {
	Counts        VerifierCounts                    `json:"counts"`
	Pending       *Page[*model.PendingVerification] `json:"pending"`
	RecentHistory []*model.VerificationHistoryItem  `json:"recent_history"`
	Alerts        []*model.Alert                    `json:"alerts"`
}

type DashboardService interface {
	Owner(ctx context.Context, wallet string) (*OwnerDashboard, error)
	Verifier(ctx context.Context) (*VerifierDashboard, error)
}

type dashboardService struct {
	repos  repository.Repositories
	logger *zap.Logger
}

func NewDashboardService(repos repository.Repositories, logger *zap.Logger) DashboardService {
	return &dashboardService{
		repos:  repos,
		logger: logger,
	}
}

func (s *dashboardService) Owner(ctx context.Context, wallet string) (*OwnerDashboard, error) {
	if !model.IsWalletAddress(wallet) {
		return nil, fmt.Errorf("%w: wallet %q is not a valid address", ErrInvalidArgument, wallet)
	}

	var listings []*model.Property
	var transactions []*model.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listings, _, err = s.repos.Properties.List(gctx, model.PropertyFilter{OwnerWallet: wallet}, 0, 0)
		if err != nil {
			return fmt.Errorf("failed to list owner properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.repos.Transactions.ListByOwner(gctx, wallet)
		if err != nil {
			return fmt.Errorf("failed to list owner transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load owner dashboard", zap.Error(err), zap.String("wallet", wallet))
		return nil, err
	}

	d := &OwnerDashboard{
		Wallet:       wallet,
		Listings:     listings,
		Transactions: transactions,
	}
	if d.Listings == nil {
		d.Listings = []*model.Property{}
	}
	if d.Transactions == nil {
		d.Transactions = []*model.Transaction{}
	}

	d.Stats.TotalListings = len(listings)
	for _, p := range listings {
		switch p.Status {
		case model.ListingStatusVerified:
			d.Stats.Verified++
		case model.ListingStatusPending:
			d.Stats.Pending++
		}
	}
	for _, tx := range transactions {
		switch tx.Status {
		case model.TransactionStatusInProgress:
			d.Stats.ActiveEscrows++
		case model.TransactionStatusCompleted:
			d.Balance += tx.Amount
		}
	}
	return d, nil
}

func (s *dashboardService) Verifier(ctx context.Context) (*VerifierDashboard, error) {
	d := &VerifierDashboard{}
	var counts map[model.VerificationOutcome]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := fetchPage(gctx, pagination.Request{Page: 1}, s.repos.Verifications.ListPending)
		if err != nil {
			return fmt.Errorf("failed to list pending verifications: %w", err)
		}
		d.Pending = page
		return nil
	})
	g.Go(func() error {
		items, _, err := s.repos.Verifications.ListHistory(gctx, nil, recentHistoryLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to list recent history: %w", err)
		}
		d.RecentHistory = items
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = s.repos.Verifications.CountHistory(gctx)
		if err != nil {
			return fmt.Errorf("failed to count verification history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		alerts, err := s.repos.Notices.ListAlerts(gctx, true)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}
		d.Alerts = alerts
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load verifier dashboard", zap.Error(err))
		return nil, err
	}

	d.Counts = VerifierCounts{
		Pending:  d.Pending.Meta.Total,
		Verified: counts[model.VerificationOutcomeVerified],
		Flagged:  counts[model.VerificationOutcomeFlagged],
		Returned: counts[model.VerificationOutcomeReturned],
	}
	if d.RecentHistory == nil {
		d.RecentHistory = []*model.VerificationHistoryItem{}
	}
	if d.Alerts == nil {
		d.Alerts = []*model.Alert{}
	}
	return d, nil
}
