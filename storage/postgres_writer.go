package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"card-arbitrage/models"
)

// PostgresWriter persists scored results to PostgreSQL for the dashboard
// and longer-term querying.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS assessments (
			id                 SERIAL PRIMARY KEY,
			search_term        TEXT          NOT NULL,
			title              TEXT          NOT NULL,
			price_yen          INTEGER       NOT NULL DEFAULT 0,
			price_usd          NUMERIC(12,2) NOT NULL DEFAULT 0,
			condition          TEXT          NOT NULL DEFAULT '',
			image_url          TEXT          NOT NULL DEFAULT '',
			listing_url        TEXT          UNIQUE NOT NULL,
			yahoo_url          TEXT          NOT NULL DEFAULT '',
			card_name          TEXT          NOT NULL DEFAULT '',
			set_code           VARCHAR(8)    NOT NULL DEFAULT '',
			card_number        VARCHAR(8)    NOT NULL DEFAULT '',
			edition            VARCHAR(20)   NOT NULL DEFAULT 'unknown',
			rarity             VARCHAR(30)   NOT NULL DEFAULT '',
			region             VARCHAR(20)   NOT NULL DEFAULT 'unknown',
			screening_score    INTEGER       NOT NULL DEFAULT 0,
			screening_reasons  TEXT          NOT NULL DEFAULT '',
			target_price       NUMERIC(12,2),
			estimated_profit   NUMERIC(12,2),
			profit_margin_pct  NUMERIC(10,2),
			score              INTEGER       NOT NULL DEFAULT 0,
			recommendation     VARCHAR(20)   NOT NULL DEFAULT 'PASS',
			created_at         TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_assessments_score          ON assessments(score);
		CREATE INDEX IF NOT EXISTS idx_assessments_recommendation ON assessments(recommendation);
		CREATE INDEX IF NOT EXISTS idx_assessments_search_term    ON assessments(search_term);
	`)
	return err
}

// Write batch-inserts the results; re-listed URLs are skipped.
func (pw *PostgresWriter) Write(term string, results []*models.Result) error {
	if len(results) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(results); i += batchSize {
		end := i + batchSize
		if end > len(results) {
			end = len(results)
		}
		if err := pw.insertBatch(term, results[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(term string, batch []*models.Result) error {
	const cols = 22
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		valueArgs = append(valueArgs,
			term, r.Title, r.PriceYen, r.PriceUSD, r.ConditionText,
			r.ImageURL, r.ListingURL, r.YahooURL,
			r.Card.CardName, r.Card.SetCode, r.Card.CardNumber,
			string(r.Card.Edition), r.Card.Rarity, string(r.Card.Region),
			r.Screening.Score, strings.Join(r.Screening.Reasons, "; "),
			nullableArg(r.Assessment.TargetPrice),
			nullableArg(r.Assessment.EstimatedProfit),
			nullableArg(r.Assessment.ProfitMarginPct),
			r.Assessment.Score, r.Assessment.Recommendation.String(),
			r.ScrapedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO assessments (
			search_term, title, price_yen, price_usd, condition,
			image_url, listing_url, yahoo_url,
			card_name, set_code, card_number, edition, rarity, region,
			screening_score, screening_reasons,
			target_price, estimated_profit, profit_margin_pct,
			score, recommendation, created_at
		)
		VALUES %s
		ON CONFLICT (listing_url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// CountByRecommendation reports how many stored assessments carry each
// recommendation, for the end-of-run log line.
func (pw *PostgresWriter) CountByRecommendation() (map[string]int, error) {
	rows, err := pw.db.Query(`
		SELECT recommendation, COUNT(*)
		FROM assessments
		GROUP BY recommendation
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: count by recommendation: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var rec string
		var n int
		if err := rows.Scan(&rec, &n); err != nil {
			return nil, fmt.Errorf("postgres: scan count row: %w", err)
		}
		counts[rec] = n
	}
	return counts, rows.Err()
}

func nullableArg(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
