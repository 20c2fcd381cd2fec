package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/model"
	"github.com/skulkarni3/energy-insights/internal/repository"
	"github.com/skulkarni3/energy-insights/internal/utils"
)

// InsightService orchestrates one insight lookup: resolve billed consumption
// when a utility customer is connected, run the energy model, evaluate the
// recommendation rules, and record history. Stateless between requests apart
// from the response cache.
type InsightService struct {
	energy      EnergyAPI
	utility     UtilityAPI
	recommender *Recommender
	repo        *repository.PostgresRepository // nil when history is disabled
	cache       *lru.Cache                     // nil when caching is disabled
	logger      *logrus.Logger
}

// NewInsightService creates a new insight service. repo and cache may be nil.
func NewInsightService(
	energy EnergyAPI,
	utility UtilityAPI,
	recommender *Recommender,
	repo *repository.PostgresRepository,
	cache *lru.Cache,
	logger *logrus.Logger,
) *InsightService {
	return &InsightService{
		energy:      energy,
		utility:     utility,
		recommender: recommender,
		repo:        repo,
		cache:       cache,
		logger:      logger,
	}
}

// cacheEntry is what one successful lookup leaves behind for identical
// resubmissions of the same address.
type cacheEntry struct {
	metrics         *model.EnergyMetrics
	recommendations []model.Recommendation
	lookupID        string
}

// Lookup performs a complete insight lookup for an address.
func (s *InsightService) Lookup(ctx context.Context, req *model.InsightRequest) (*model.InsightResponse, error) {
	startTime := time.Now()

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	// Billed consumption from a connected utility customer refines the
	// model but never fails the lookup: we wait a bounded time for the
	// bills, then fall back to a pure prediction.
	var actuals []model.ConsumptionActual
	if req.UtilityCustomerID != "" && s.utility != nil && s.utility.IsEnabled() {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := s.utility.WaitForBills(waitCtx, req.UtilityCustomerID)
		cancel()
		if err == nil {
			actuals, _, err = s.utility.GetConsumption(ctx, req.UtilityCustomerID)
		}
		if err != nil {
			s.logger.WithError(err).WithField("customer_id", req.UtilityCustomerID).
				Warn("Could not fetch utility consumption, falling back to prediction")
			actuals = nil
		}
	}

	cacheKey := fmt.Sprintf("%s|%s", utils.NormalizeAddress(address), req.UtilityCustomerID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			entry := cached.(*cacheEntry)
			return &model.InsightResponse{
				LookupID:        entry.lookupID,
				Address:         address,
				Metrics:         entry.metrics,
				Recommendations: entry.recommendations,
				Cached:          true,
				Took:            time.Since(startTime).Milliseconds(),
			}, nil
		}
	}

	metrics, err := s.energy.Calculate(ctx, address, actuals)
	if err != nil {
		s.logLookup(model.LookupRecord{
			LookupID: uuid.NewString(),
			Address:  address,
			Status:   Category(err),
			Took:     time.Since(startTime).Milliseconds(),
		})
		return nil, err
	}

	recommendations := s.recommender.Evaluate(metrics)
	lookupID := uuid.NewString()
	took := time.Since(startTime).Milliseconds()

	if s.cache != nil {
		s.cache.Add(cacheKey, &cacheEntry{
			metrics:         metrics,
			recommendations: recommendations,
			lookupID:        lookupID,
		})
	}

	record := model.LookupRecord{
		LookupID:        lookupID,
		Address:         address,
		AnnualUsageKWh:  metrics.AnnualUsageKWh,
		SolarPotential:  metrics.SolarPotential,
		Recommendations: len(recommendations),
		Status:          "ok",
		Took:            took,
	}
	s.logLookup(record)

	return &model.InsightResponse{
		LookupID:        lookupID,
		Address:         address,
		Metrics:         metrics,
		Recommendations: recommendations,
		Took:            took,
	}, nil
}

// logLookup records history without blocking the response path.
func (s *InsightService) logLookup(rec model.LookupRecord) {
	if s.repo == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.LogLookup(ctx, rec); err != nil {
			s.logger.WithError(err).Warn("Failed to log lookup history")
		}
	}()
}

// CheckServiceArea reports whether the energy provider services a location.
func (s *InsightService) CheckServiceArea(ctx context.Context, lat, lon float64, postalCode string) (*model.ServiceArea, error) {
	return s.energy.CheckServiceArea(ctx, lat, lon, postalCode)
}

// LogFeedback records user feedback on a recommendation. Requires the
// history repository.
func (s *InsightService) LogFeedback(ctx context.Context, lookupID, recommendation, action string) error {
	if s.repo == nil {
		return ErrDisabled
	}
	return s.repo.LogFeedback(ctx, lookupID, recommendation, action)
}

// HistoryEnabled reports whether lookup history and feedback are available.
func (s *InsightService) HistoryEnabled() bool {
	return s.repo != nil
}

// RecentLookups returns the most recent lookup history rows.
func (s *InsightService) RecentLookups(ctx context.Context, limit int) ([]model.LookupRecord, error) {
	if s.repo == nil {
		return nil, ErrDisabled
	}
	return s.repo.RecentLookups(ctx, limit)
}
