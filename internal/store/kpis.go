package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// KPIStore owns the append-only daily KPI and sentiment fact tables.
type KPIStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewKPIStore(db *sql.DB, log logger.Logger) *KPIStore {
	return &KPIStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "kpi-store"}),
	}
}

// InsertDaily appends one daily KPI fact row.
func (s *KPIStore) InsertDaily(ctx context.Context, row models.DailyKPI) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_kpis (
			property_id, date, revenue, bookings, rooms_sold, rooms_available,
			occupancy_rate, adr, revpar
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.PropertyID, row.Date, row.Revenue, row.Bookings, row.RoomsSold,
		row.RoomsAvailable, row.OccupancyRate, row.ADR, row.RevPAR,
	)
	if err != nil {
		return errors.NewKPIIngestionError(fmt.Errorf("insert daily kpi for %s: %w", row.PropertyID, err))
	}
	return nil
}

// DailyRange returns the daily fact rows for a property within [from, to].
func (s *KPIStore) DailyRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.DailyKPI, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, date, revenue, bookings, rooms_sold, rooms_available,
		       occupancy_rate, adr, revpar
		FROM daily_kpis
		WHERE property_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`,
		propertyID, from, to,
	)
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("query daily kpis for %s", propertyID), err)
	}
	defer rows.Close()

	var out []models.DailyKPI
	for rows.Next() {
		var row models.DailyKPI
		if err := rows.Scan(
			&row.ID, &row.PropertyID, &row.Date, &row.Revenue, &row.Bookings,
			&row.RoomsSold, &row.RoomsAvailable, &row.OccupancyRate, &row.ADR, &row.RevPAR,
		); err != nil {
			return nil, errors.NewPersistenceError(fmt.Sprintf("scan daily kpi for %s", propertyID), err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("iterate daily kpis for %s", propertyID), err)
	}
	return out, nil
}

// InsertSentiment appends one sentiment topic fact row.
func (s *KPIStore) InsertSentiment(ctx context.Context, row models.SentimentTopic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sentiment_topics (property_id, platform, topic, date, score, mentions)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		row.PropertyID, row.Platform, row.Topic, row.Date, row.Score, row.Mentions,
	)
	if err != nil {
		return errors.NewKPIIngestionError(fmt.Errorf("insert sentiment for %s: %w", row.PropertyID, err))
	}
	return nil
}

// SentimentRange returns the sentiment fact rows for a property within
// [from, to].
func (s *KPIStore) SentimentRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.SentimentTopic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, platform, topic, date, score, mentions
		FROM sentiment_topics
		WHERE property_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`,
		propertyID, from, to,
	)
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("query sentiment for %s", propertyID), err)
	}
	defer rows.Close()

	var out []models.SentimentTopic
	for rows.Next() {
		var row models.SentimentTopic
		if err := rows.Scan(
			&row.ID, &row.PropertyID, &row.Platform, &row.Topic, &row.Date, &row.Score, &row.Mentions,
		); err != nil {
			return nil, errors.NewPersistenceError(fmt.Sprintf("scan sentiment for %s", propertyID), err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("iterate sentiment for %s", propertyID), err)
	}
	return out, nil
}
