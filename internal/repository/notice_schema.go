package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eboard-api/internal/models"
)

const postgresNoticeSchema = `CREATE TABLE IF NOT EXISTS notices (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    title_ta TEXT,
    content TEXT NOT NULL,
    content_ta TEXT,
    category VARCHAR(50) NOT NULL,
    priority BOOLEAN NOT NULL DEFAULT FALSE,
    date_posted DATE NOT NULL,
    expiry_date DATE NOT NULL,
    link VARCHAR(255),
    file_path VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_archived BOOLEAN NOT NULL DEFAULT FALSE
)`

const postgresNoticeIndexes = `CREATE INDEX IF NOT EXISTS idx_notices_listing ON notices (is_archived, priority, date_posted)`

const mysqlNoticeSchema = `CREATE TABLE IF NOT EXISTS notices (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(255) NOT NULL,
    title_ta TEXT,
    content TEXT NOT NULL,
    content_ta TEXT,
    category VARCHAR(50) NOT NULL,
    priority BOOLEAN NOT NULL DEFAULT FALSE,
    date_posted DATE NOT NULL,
    expiry_date DATE NOT NULL,
    link VARCHAR(255),
    file_path VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_archived BOOLEAN NOT NULL DEFAULT FALSE,
    INDEX idx_notices_listing (is_archived, priority, date_posted)
) DEFAULT CHARSET = utf8mb4`

// EnsureSchema creates the notices table when it is missing.
func (r *NoticeRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{postgresNoticeSchema, postgresNoticeIndexes}
	if sqlx.BindType(r.db.DriverName()) == sqlx.QUESTION {
		statements = []string{mysqlNoticeSchema}
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure notices schema: %w", err)
		}
	}
	return nil
}

// DefaultSeedNotices are loaded into an empty board so the public view is
// never blank on first start.
func DefaultSeedNotices() []models.Notice {
	ta := func(v string) *string { return &v }
	return []models.Notice{
		{
			Title:      "Tender Notice - Road Maintenance Project",
			TitleTA:    ta("டெண்டர் அறிவிப்பு - சாலை பராமரிப்பு திட்டம்"),
			Content:    "Sealed tenders are invited for the road maintenance project in Blocks 1-5. Interested contractors should submit their bids before the deadline.",
			ContentTA:  ta("பிளாக் 1-5 இல் சாலை பராமரிப்பு திட்டத்திற்கு சீல் செய்யப்பட்ட டெண்டர்கள் அழைக்கப்படுகின்றன."),
			Category:   models.NoticeCategoryTender,
			Priority:   true,
			DatePosted: models.MustParseDate("2025-06-14"),
			ExpiryDate: models.MustParseDate("2025-06-25"),
		},
		{
			Title:      "Water Supply Maintenance Notice",
			TitleTA:    ta("நீர் வழங்கல் பராமரிப்பு அறிவிப்பு"),
			Content:    "Water supply will be temporarily suspended in Blocks 6-10 on August 16, 2025, from 9:00 AM to 5:00 PM for routine maintenance work.",
			ContentTA:  ta("வழக்கமான பராமரிப்பு வேலைகளுக்காக ஆகஸ்ட் 16, 2025 அன்று காலை 9:00 முதல் மாலை 5:00 வரை பிளாக் 6-10 இல் நீர் வழங்கல் நிறுத்தப்படும்."),
			Category:   models.NoticeCategoryGeneral,
			Priority:   true,
			DatePosted: models.MustParseDate("2025-08-13"),
			ExpiryDate: models.MustParseDate("2025-08-17"),
		},
		{
			Title:      "Community Health Camp - August 2025",
			TitleTA:    ta("சமூக சுகாதார முகாம் - ஆகஸ்ட் 2025"),
			Content:    "A free health camp will be organized at the Community Center from August 20-22, 2025. All residents are welcome to participate.",
			ContentTA:  ta("ஆகஸ்ட் 20-22, 2025 வரை சமூக மையத்தில் இலவச சுகாதார முகாம் ஏற்பாடு செய்யப்படும்."),
			Category:   models.NoticeCategoryEvent,
			Priority:   false,
			DatePosted: models.MustParseDate("2025-08-12"),
			ExpiryDate: models.MustParseDate("2025-08-23"),
		},
		{
			Title:      "Electricity Bill Payment Circular",
			TitleTA:    ta("மின்சாரம் கட்டணம் செலுத்துதல் சுற்றறிக்கை"),
			Content:    "All residents are reminded to pay their electricity bills before the due date to avoid disconnection.",
			ContentTA:  ta("துண்டிக்கப்படுவதைத் தவிர்க்க அனைத்து குடியிருப்பாளர்களும் குறிப்பிட்ட தேதிக்கு முன் மின்சாரக் கட்டணத்தைச் செலுத்த நினைவூட்டப்படுகிறார்கள்."),
			Category:   models.NoticeCategoryCircular,
			Priority:   false,
			DatePosted: models.MustParseDate("2025-08-10"),
			ExpiryDate: models.MustParseDate("2025-09-10"),
		},
	}
}
