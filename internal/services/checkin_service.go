package services

import (
	"errors"
	"strings"
	"time"

	"rollcall/internal/models"
	"rollcall/internal/repositories"
)

// ErrAlreadyCheckedIn — на сегодняшнюю дату запись уже есть.
var ErrAlreadyCheckedIn = errors.New("already entered data for today")

const (
	// формат даты/времени исходного мобильного клиента (en-US locale)
	checkinDateFormat = "1/2/2006"
	checkinTimeFormat = "3:04:05 PM"
)

type CheckinService interface {
	// HasImageOnFile reports whether the user already has a checkin
	// carrying a media reference.
	HasImageOnFile(userID int) (bool, error)

	// CreateForToday performs the daily-duplicate lookup and inserts the
	// record. The date lookup is deliberately global rather than scoped to
	// the user; see the repository. Between lookup and insert there is no
	// transaction, so concurrent submissions can race.
	CreateForToday(userID int, location string, image *models.ImageRef) (*models.Checkin, error)

	ListByUser(userID int) ([]*models.Checkin, error)
}

type checkinService struct {
	repo repositories.CheckinRepository
	now  func() time.Time
}

func NewCheckinService(repo repositories.CheckinRepository) CheckinService {
	return &checkinService{repo: repo, now: time.Now}
}

func (s *checkinService) HasImageOnFile(userID int) (bool, error) {
	ch, err := s.repo.GetFirstWithImage(userID)
	if err != nil {
		return false, err
	}
	return ch != nil, nil
}

func (s *checkinService) CreateForToday(userID int, location string, image *models.ImageRef) (*models.Checkin, error) {
	now := s.now()
	date := now.Format(checkinDateFormat)

	existing, err := s.repo.GetByDate(date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedIn
	}

	ch := &models.Checkin{
		UserID:   userID,
		Date:     date,
		Time:     now.Format(checkinTimeFormat),
		Location: strings.ToLower(strings.TrimSpace(location)),
		Image:    image,
	}
	if err := s.repo.Create(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *checkinService) ListByUser(userID int) ([]*models.Checkin, error) {
	return s.repo.ListByUser(userID)
}
