package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/model"
)

const (
	maxKeyHintLength    = 32
	keyHintSuffixLength = 6
)

var scannerKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

type scannerRepo interface {
	FindActiveScanner(ctx context.Context, gymID int64, scannerID, keyHash string) (*model.Scanner, error)
	CreateScanner(ctx context.Context, gymID int64, scannerID, keyHash string, keyHint *string) (*model.Scanner, error)
	ListScanners(ctx context.Context, gymID int64) ([]model.Scanner, error)
	RevokeScanners(ctx context.Context, gymID int64, scannerID string) (int64, error)
}

// ScannerService authenticates scanning devices and provisions their keys.
type ScannerService struct {
	repo scannerRepo
}

func NewScannerService(repo scannerRepo) *ScannerService {
	return &ScannerService{repo: repo}
}

// HashScannerKey is a plain SHA-256 hex digest. Scanner keys are provisioned
// 256-bit random values, not user passwords, so no work factor is applied.
func HashScannerKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}

// Authenticate returns the active scanner matching (gym, scanner id, key) or ErrUnauthorized.
func (s *ScannerService) Authenticate(ctx context.Context, gymID int64, scannerID, key string) (*model.Scanner, error) {
	key = strings.TrimSpace(key)
	scannerID = strings.TrimSpace(scannerID)
	if key == "" || scannerID == "" || gymID <= 0 {
		return nil, ErrUnauthorized
	}

	scanner, err := s.repo.FindActiveScanner(ctx, gymID, scannerID, HashScannerKey(key))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, storeError("load scanner", err)
	}
	return scanner, nil
}

// Provision registers a scanner and returns the plaintext key. The key is
// generated when empty; a supplied key must be 64 hex characters. An empty
// hint defaults to the key's last six characters.
func (s *ScannerService) Provision(ctx context.Context, gymID int64, scannerID, key, hint string) (string, *model.Scanner, error) {
	scannerID = strings.TrimSpace(scannerID)
	if gymID <= 0 || scannerID == "" {
		return "", nil, fmt.Errorf("%w: gym_id and scanner_id are required", ErrInvalidInput)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		generated, err := NewScannerKey()
		if err != nil {
			return "", nil, err
		}
		key = generated
	} else if !scannerKeyPattern.MatchString(key) {
		return "", nil, fmt.Errorf("%w: scanner key must be 64 hex characters", ErrInvalidInput)
	}
	if strings.TrimSpace(hint) == "" {
		hint = key[len(key)-keyHintSuffixLength:]
	}

	scanner, err := s.repo.CreateScanner(ctx, gymID, scannerID, HashScannerKey(key), NormalizeKeyHint(hint))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", nil, fmt.Errorf("%w: scanner %q already exists for gym %d", ErrConflict, scannerID, gymID)
		}
		return "", nil, storeError("create scanner", err)
	}
	return key, scanner, nil
}

func (s *ScannerService) List(ctx context.Context, gymID int64) ([]model.Scanner, error) {
	if gymID <= 0 {
		return nil, fmt.Errorf("%w: gym_id is required", ErrInvalidInput)
	}
	list, err := s.repo.ListScanners(ctx, gymID)
	if err != nil {
		return nil, storeError("list scanners", err)
	}
	return list, nil
}

// Revoke deactivates one scanner, or all scanners of the gym when scannerID is empty.
func (s *ScannerService) Revoke(ctx context.Context, gymID int64, scannerID string) (int64, error) {
	if gymID <= 0 {
		return 0, fmt.Errorf("%w: gym_id is required", ErrInvalidInput)
	}
	n, err := s.repo.RevokeScanners(ctx, gymID, strings.TrimSpace(scannerID))
	if err != nil {
		return 0, storeError("revoke scanners", err)
	}
	if n == 0 && strings.TrimSpace(scannerID) != "" {
		return 0, ErrNotFound
	}
	return n, nil
}

// NewScannerKey returns 32 random bytes as 64 lowercase hex characters.
func NewScannerKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// NormalizeKeyHint trims the hint, flattens newlines and caps it at 32 runes.
func NormalizeKeyHint(hint string) *string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return nil
	}
	hint = strings.NewReplacer("\r", " ", "\n", " ").Replace(hint)
	if r := []rune(hint); len(r) > maxKeyHintLength {
		hint = string(r[:maxKeyHintLength])
	}
	return &hint
}

var _ scannerRepo = (*db.Postgres)(nil)
