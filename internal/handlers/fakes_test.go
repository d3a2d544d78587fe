package handlers

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"rollcall/internal/models"
)

// In-memory двойники сервисов для тестов хендлеров.

type fakeUserStore struct {
	mu    sync.Mutex
	seq   int
	users map[int]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int]*models.User{}}
}

func (f *fakeUserStore) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u.ID = f.seq
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if strings.ToLower(u.Email) == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateToken(userID int, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.Token = token
	return nil
}

func (f *fakeUserStore) MarkVerified(userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.IsVerified = true
	return nil
}

func (f *fakeUserStore) UpdatePassword(userID int, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

// mustGet — прямой доступ к состоянию для assert'ов.
func (f *fakeUserStore) mustGet(id int) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.users[id]
}

type fakeEmailSender struct {
	mu             sync.Mutex
	verification   []string
	reverification []string
	reset          []string
}

func (f *fakeEmailSender) SendVerificationEmail(email, firstName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verification = append(f.verification, email)
	return nil
}

func (f *fakeEmailSender) SendReVerificationEmail(email, firstName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverification = append(f.reverification, email)
	return nil
}

func (f *fakeEmailSender) SendPasswordResetEmail(email, firstName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset = append(f.reset, email)
	return nil
}

func (f *fakeEmailSender) counts() (verification, reverification, reset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verification), len(f.reverification), len(f.reset)
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeUploader) UploadImage(ctx context.Context, localPath string) (*models.ImageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.ImageRef{
		PublicID: "checkins/2024/3/7/fake-object",
		URL:      "https://cdn.example/checkins/2024/3/7/fake-object",
	}, nil
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
