package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pabloubeiracarramal/factor-back/internal/caching"
	"github.com/pabloubeiracarramal/factor-back/internal/models"
	"github.com/pabloubeiracarramal/factor-back/internal/money"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
)

const topClientCount = 5

type DashboardService interface {
	GetStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error)
	// RefreshStats recomputes and re-caches the stats, bypassing the cache.
	RefreshStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error)
}

type dashboardService struct {
	invoiceRepo    repositories.InvoiceRepository
	clientRepo     repositories.ClientRepository
	userRepo       repositories.UserRepository
	invitationRepo repositories.InvitationRepository
	cache          caching.CacheService
}

func NewDashboardService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, userRepo repositories.UserRepository, invitationRepo repositories.InvitationRepository, cache caching.CacheService) DashboardService {
	return &dashboardService{
		invoiceRepo:    invoiceRepo,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		cache:          cache,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDashboardStats(ctx, companyID)
		if err != nil {
			log.Printf("Dashboard cache read failed for company %s: %v", companyID, err)
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.RefreshStats(ctx, companyID)
}

func (s *dashboardService) RefreshStats(ctx context.Context, companyID uuid.UUID) (*models.DashboardStats, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, companyID, repositories.InvoiceFilter{})
	if err != nil {
		return nil, err
	}

	stats := s.aggregate(ctx, companyID, invoices, time.Now())

	members, err := s.userRepo.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	invites, err := s.invitationRepo.CountPending(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stats.TeamMembers = members
	stats.PendingInvites = invites

	if s.cache != nil {
		if err := s.cache.SetDashboardStats(ctx, companyID, stats, caching.StatsTTL); err != nil {
			log.Printf("Dashboard cache write failed for company %s: %v", companyID, err)
		}
	}
	return stats, nil
}

// aggregate folds a company's invoices into the dashboard roll-up. Overdue
// is tallied independently of the stored status buckets: an overdue
// invoice still counts as pending (or draft), so the buckets are not a
// strict partition.
func (s *dashboardService) aggregate(ctx context.Context, companyID uuid.UUID, invoices []*models.Invoice, now time.Time) *models.DashboardStats {
	stats := &models.DashboardStats{}

	byClient := map[uuid.UUID]float64{}
	byMonth := map[string]float64{}

	for _, invoice := range invoices {
		total := money.ComputeTotals(invoice.Items).TotalWithTax
		overdue := invoice.Status != models.StatusPaid && invoice.DueDate.Before(now)

		switch invoice.Status {
		case models.StatusPaid:
			stats.PaidCount++
			stats.TotalRevenue += total
			byClient[invoice.ClientID] += total
			byMonth[invoice.CreatedAt.Format("2006-01")] += total
		case models.StatusDraft:
			stats.DraftCount++
			stats.OutstandingAmount += total
		case models.StatusPending:
			stats.PendingCount++
			stats.OutstandingAmount += total
		}
		if overdue {
			stats.OverdueCount++
		}
	}

	stats.TopClients = s.topClients(ctx, companyID, byClient)
	stats.MonthlyRevenue = monthlySeries(byMonth)
	return stats
}

func (s *dashboardService) topClients(ctx context.Context, companyID uuid.UUID, byClient map[uuid.UUID]float64) []models.ClientRevenue {
	if len(byClient) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(byClient))
	for id := range byClient {
		ids = append(ids, id)
	}
	clients, err := s.clientRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		log.Printf("Failed to resolve client names for company %s: %v", companyID, err)
		clients = nil
	}

	// Revenue is ranked by client name, so two records resolving to the
	// same name merge into one row.
	byName := map[string]float64{}
	for id, total := range byClient {
		name := "Unknown"
		if client, ok := clients[id]; ok {
			name = client.Name
		}
		byName[name] += total
	}

	ranking := make([]models.ClientRevenue, 0, len(byName))
	for name, total := range byName {
		ranking = append(ranking, models.ClientRevenue{Name: name, Total: total})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Total != ranking[j].Total {
			return ranking[i].Total > ranking[j].Total
		}
		return ranking[i].Name < ranking[j].Name
	})
	if len(ranking) > topClientCount {
		ranking = ranking[:topClientCount]
	}
	return ranking
}

func monthlySeries(byMonth map[string]float64) []models.MonthlyRevenue {
	if len(byMonth) == 0 {
		return nil
	}
	series := make([]models.MonthlyRevenue, 0, len(byMonth))
	for month, total := range byMonth {
		series = append(series, models.MonthlyRevenue{Month: month, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}
