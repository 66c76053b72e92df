package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"doganjib/internal/models"
)

// Store is the client's local persistence: the token pair, the cached user
// profile and voice-session transcripts.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// credential is the single-row token record. ID is always 1.
type credential struct {
	ID           uint `gorm:"primary_key"`
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

// cachedProfile mirrors the last /api/auth/me response.
type cachedProfile struct {
	ID              uint `gorm:"primary_key"`
	UserID          int64
	Email           string
	Name            string
	Address         string
	Phone           string
	Grade           string
	DiscountPercent int
	Role            string
	UpdatedAt       time.Time
}

// transcript is one finished voice-ordering session.
type transcript struct {
	ID        uint   `gorm:"primary_key"`
	SessionID string `gorm:"index"`
	Outcome   string
	Turns     string `gorm:"type:text"` // JSON-encoded []TranscriptTurn
	CreatedAt time.Time
}

// TranscriptTurn is one utterance in a stored transcript.
type TranscriptTurn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is a stored voice session as returned to callers.
type Transcript struct {
	SessionID string
	Outcome   string
	Turns     []TranscriptTurn
	CreatedAt time.Time
}

// Open initializes the SQLite store at path, creating the directory and
// schema as needed.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	db.LogMode(false)

	if err := db.AutoMigrate(&credential{}, &cachedProfile{}, &transcript{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AccessToken implements api.TokenStore. Read errors degrade to an empty
// token; the request layer then behaves as if logged out.
func (s *Store) AccessToken() string {
	return s.loadCredential().AccessToken
}

// RefreshToken implements api.TokenStore.
func (s *Store) RefreshToken() string {
	return s.loadCredential().RefreshToken
}

// SetTokens implements api.TokenStore.
func (s *Store) SetTokens(access, refresh string) error {
	cred := credential{ID: 1, AccessToken: access, RefreshToken: refresh, UpdatedAt: time.Now()}
	if err := s.db.Save(&cred).Error; err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	return nil
}

// Clear implements api.TokenStore. It also drops the cached profile, since a
// cleared session invalidates it.
func (s *Store) Clear() error {
	if err := s.db.Delete(&credential{}, "id = 1").Error; err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	if err := s.db.Delete(&cachedProfile{}, "id = 1").Error; err != nil {
		return fmt.Errorf("failed to clear cached profile: %w", err)
	}
	return nil
}

func (s *Store) loadCredential() credential {
	var cred credential
	if err := s.db.First(&cred, "id = 1").Error; err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			s.log.Warn("failed to load credentials", zap.Error(err))
		}
		return credential{}
	}
	return cred
}

// SaveProfile caches the user profile for offline display.
func (s *Store) SaveProfile(p *models.UserProfile) error {
	rec := cachedProfile{
		ID:              1,
		UserID:          p.ID,
		Email:           p.Email,
		Name:            p.Name,
		Address:         p.Address,
		Phone:           p.Phone,
		Grade:           string(p.Grade),
		DiscountPercent: p.DiscountPercent,
		Role:            p.Role,
		UpdatedAt:       time.Now(),
	}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// Profile returns the cached profile, or nil when none is stored.
func (s *Store) Profile() (*models.UserProfile, error) {
	var rec cachedProfile
	if err := s.db.First(&rec, "id = 1").Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cached profile: %w", err)
	}
	return &models.UserProfile{
		ID:              rec.UserID,
		Email:           rec.Email,
		Name:            rec.Name,
		Address:         rec.Address,
		Phone:           rec.Phone,
		Grade:           models.MemberGrade(rec.Grade),
		DiscountPercent: rec.DiscountPercent,
		Role:            rec.Role,
	}, nil
}

// SaveTranscript records a finished voice session.
func (s *Store) SaveTranscript(sessionID, outcome string, turns []TranscriptTurn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	rec := transcript{SessionID: sessionID, Outcome: outcome, Turns: string(data), CreatedAt: time.Now()}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// Transcripts returns the most recent stored sessions, newest first.
func (s *Store) Transcripts(limit int) ([]Transcript, error) {
	var recs []transcript
	if err := s.db.Order("created_at desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load transcripts: %w", err)
	}

	out := make([]Transcript, 0, len(recs))
	for _, rec := range recs {
		var turns []TranscriptTurn
		if err := json.Unmarshal([]byte(rec.Turns), &turns); err != nil {
			s.log.Warn("skipping corrupt transcript", zap.String("session_id", rec.SessionID), zap.Error(err))
			continue
		}
		out = append(out, Transcript{
			SessionID: rec.SessionID,
			Outcome:   rec.Outcome,
			Turns:     turns,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}
