package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
)

// PinService issues, retrieves and verifies the stable 4-digit delivery PIN
// per customer phone. Matching tolerates formatting and country-code drift by
// comparing only the last 8 digits of the normalized number.
type PinService struct {
	repo   *repository.PinRepository
	secret string
}

func NewPinService(repo *repository.PinRepository, secret string) *PinService {
	return &PinService{repo: repo, secret: secret}
}

// NormalizePhone strips everything that is not a digit.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ShortKey is the last 8 digits of the normalized phone, the fuzzy matching
// key across records.
func ShortKey(phone string) string {
	n := NormalizePhone(phone)
	if len(n) > 8 {
		return n[len(n)-8:]
	}
	return n
}

func (s *PinService) hash(phone, pin string) string {
	sum := sha256.Sum256([]byte(s.secret + ":" + phone + ":" + pin))
	return fmt.Sprintf("%x", sum)
}

func randomPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// PinResult reports the outcome of a provisioning call. Pin is populated only
// when the caller asked to expose it.
type PinResult struct {
	Created bool   `json:"created"`
	Pin     string `json:"pin,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// EnsurePin guarantees a PIN row exists for the phone. Existing rows keep
// their PIN for the customer's lifetime; legacy hash-only rows get a fresh
// PIN so staff lookup works again.
func (s *PinService) EnsurePin(ctx context.Context, phone string, expose bool) (*PinResult, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return &PinResult{}, nil
	}

	existing, err := s.repo.FindByShortKey(ctx, ShortKey(normalized))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.PinPlain != "" {
			res := &PinResult{Phone: NormalizePhone(existing.Phone)}
			if expose {
				res.Pin = existing.PinPlain
			}
			return res, nil
		}

		// Legacy row with only a hash: regenerate so the PIN can be looked up.
		pin, err := randomPin()
		if err != nil {
			return nil, err
		}
		rowPhone := NormalizePhone(existing.Phone)
		if err := s.repo.UpdatePin(ctx, existing.Phone, s.hash(rowPhone, pin), pin); err != nil {
			return nil, err
		}
		res := &PinResult{Created: true, Phone: rowPhone}
		if expose {
			res.Pin = pin
		}
		return res, nil
	}

	pin, err := randomPin()
	if err != nil {
		return nil, err
	}
	row := &entity.CustomerPin{
		Phone:    normalized,
		PinHash:  s.hash(normalized, pin),
		PinPlain: pin,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	res := &PinResult{Created: true, Phone: normalized}
	if expose {
		res.Pin = pin
	}
	return res, nil
}

// VerifyPin reports whether the candidate matches the PIN stored for any
// phone sharing the short key. A plaintext match or a hash match both count;
// the hash path keeps rows from before plaintext retention verifiable.
func (s *PinService) VerifyPin(ctx context.Context, phone, candidate string) (bool, error) {
	normalized := NormalizePhone(phone)
	pin := NormalizePhone(candidate)
	if normalized == "" || pin == "" {
		return false, nil
	}

	row, err := s.repo.FindByShortKey(ctx, ShortKey(normalized))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if strings.TrimSpace(row.PinPlain) == pin {
		return true, nil
	}
	return s.hash(NormalizePhone(row.Phone), pin) == row.PinHash, nil
}
