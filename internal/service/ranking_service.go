package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/dto"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/scoring"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/export"
)

type rankingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheLookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// RankingService derives the live ranking of an edition from its
// reviews. Results are cached per edition; review saves invalidate the
// cache so the ranking is never stale longer than the TTL.
type RankingService struct {
	applications sessionApplicationLister
	reviews      sessionReviewReader
	cache        rankingCache
	cacheTTL     time.Duration
	metrics      cacheLookupRecorder
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewRankingService builds a RankingService.
func NewRankingService(
	applications sessionApplicationLister,
	reviews sessionReviewReader,
	cache rankingCache,
	cacheTTL time.Duration,
	metrics cacheLookupRecorder,
	logger *zap.Logger,
) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{
		applications: applications,
		reviews:      reviews,
		cache:        cache,
		cacheTTL:     cacheTTL,
		metrics:      metrics,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		logger:       logger,
	}
}

// Ranking returns the edition's applications ordered by total score,
// highest first. Ties keep import order. Discarded applications are
// excluded.
func (s *RankingService) Ranking(ctx context.Context, editionID string) ([]dto.RankingEntry, error) {
	if editionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "editionId is required")
	}

	cacheKey := fmt.Sprintf("ranking:%s", editionID)
	if s.cache != nil {
		var cached []dto.RankingEntry
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			s.recordLookup(true)
			return cached, nil
		}
		s.recordLookup(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("ranking cache read failed", zap.String("edition_id", editionID), zap.Error(err))
		}
	}

	entries, err := s.compute(ctx, editionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.logger.Warn("ranking cache write failed", zap.String("edition_id", editionID), zap.Error(err))
		}
	}
	return entries, nil
}

// ExportCSV renders the ranking as a CSV download.
func (s *RankingService) ExportCSV(ctx context.Context, editionID string) ([]byte, error) {
	entries, err := s.Ranking(ctx, editionID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(rankingDataset(entries))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// ExportPDF renders the ranking as a PDF download.
func (s *RankingService) ExportPDF(ctx context.Context, editionID string) ([]byte, error) {
	entries, err := s.Ranking(ctx, editionID)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Scholarship ranking %s", editionID)
	data, err := s.pdf.Render(rankingDataset(entries), title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

func (s *RankingService) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func (s *RankingService) compute(ctx context.Context, editionID string) ([]dto.RankingEntry, error) {
	applications, err := s.applications.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	reviews, err := s.reviews.MapByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}

	entries := make([]dto.RankingEntry, 0, len(applications))
	for _, app := range applications {
		review := reviews[app.ID]
		status := models.ReviewNotStarted
		if review != nil {
			status = review.Status
		}
		if status == models.ReviewDiscarded {
			continue
		}
		criteria := make(map[string]float64, len(models.Criteria))
		if review != nil {
			for _, criterion := range models.Criteria {
				criteria[string(criterion)] = scoring.CriterionValue(review.Scores, criterion)
			}
		}
		entries = append(entries, dto.RankingEntry{
			ApplicationID: app.ID,
			Name:          app.Name,
			University:    app.University,
			Destination:   destination(app),
			Status:        status,
			Total:         scoring.Total(review),
			Criteria:      criteria,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func rankingDataset(entries []dto.RankingEntry) export.Dataset {
	headers := []string{"Rank", "Name", "University", "Destination", "Status", "Total"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"Rank":        strconv.Itoa(entry.Rank),
			"Name":        entry.Name,
			"University":  entry.University,
			"Destination": entry.Destination,
			"Status":      string(entry.Status),
			"Total":       strconv.FormatFloat(entry.Total, 'f', 2, 64),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func destination(app models.Application) string {
	if app.DestinationCity == "" {
		return app.DestinationCountry
	}
	if app.DestinationCountry == "" {
		return app.DestinationCity
	}
	return app.DestinationCity + ", " + app.DestinationCountry
}
