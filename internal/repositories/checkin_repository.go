package repositories

import (
	"database/sql"
	"fmt"

	"rollcall/internal/models"
)

type CheckinRepository interface {
	Create(ch *models.Checkin) error
	// GetFirstWithImage — есть ли у пользователя чекин с изображением.
	GetFirstWithImage(userID int) (*models.Checkin, error)
	// GetByDate ищет чекин на дату по ВСЕЙ таблице, без фильтра по
	// пользователю. Так работала исходная проверка "уже отмечался сегодня".
	GetByDate(date string) (*models.Checkin, error)
	ListByUser(userID int) ([]*models.Checkin, error)
}

type checkinRepository struct {
	DB *sql.DB
}

func NewCheckinRepository(db *sql.DB) CheckinRepository {
	return &checkinRepository{DB: db}
}

func (r *checkinRepository) Create(ch *models.Checkin) error {
	const q = `
		INSERT INTO checkins (user_id, date, time, location, image_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var imageID, imageURL sql.NullString
	if ch.Image != nil {
		imageID = sql.NullString{String: ch.Image.PublicID, Valid: true}
		imageURL = sql.NullString{String: ch.Image.URL, Valid: true}
	}
	if err := r.DB.QueryRow(q,
		ch.UserID, ch.Date, ch.Time, ch.Location, imageID, imageURL,
	).Scan(&ch.ID, &ch.CreatedAt); err != nil {
		return fmt.Errorf("checkin create: %w", err)
	}
	return nil
}

func (r *checkinRepository) GetFirstWithImage(userID int) (*models.Checkin, error) {
	const q = `
		SELECT id, user_id, date, time, location, image_id, image_url, created_at
		FROM checkins
		WHERE user_id = $1 AND image_id IS NOT NULL
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRow(q, userID))
}

func (r *checkinRepository) GetByDate(date string) (*models.Checkin, error) {
	const q = `
		SELECT id, user_id, date, time, location, image_id, image_url, created_at
		FROM checkins
		WHERE date = $1
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRow(q, date))
}

func (r *checkinRepository) ListByUser(userID int) ([]*models.Checkin, error) {
	const q = `
		SELECT id, user_id, date, time, location, image_id, image_url, created_at
		FROM checkins
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("checkin list: %w", err)
	}
	defer rows.Close()

	var out []*models.Checkin
	for rows.Next() {
		ch, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *checkinRepository) scanOne(row *sql.Row) (*models.Checkin, error) {
	ch, err := scanCheckin(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return ch, nil
}

func scanCheckin(row rowScanner) (*models.Checkin, error) {
	ch := &models.Checkin{}
	var imageID, imageURL sql.NullString
	err := row.Scan(
		&ch.ID, &ch.UserID, &ch.Date, &ch.Time, &ch.Location,
		&imageID, &imageURL, &ch.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("checkin scan: %w", err)
	}
	if imageID.Valid {
		ch.Image = &models.ImageRef{PublicID: imageID.String, URL: imageURL.String}
	}
	return ch, nil
}
