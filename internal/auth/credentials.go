// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCredentials covers unknown users and wrong passwords
	// alike, so a caller can't probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned when registering a taken username or email.
	ErrUserExists = errors.New("user already exists")

	// ErrTOTPRequired means the password was correct but the account has
	// a second factor enrolled; retry with a code.
	ErrTOTPRequired = errors.New("one-time code required")

	// ErrInvalidTOTP is returned for a wrong or expired one-time code.
	ErrInvalidTOTP = errors.New("invalid one-time code")

	// ErrWeakPassword is returned when a registration password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// MinPasswordLength is the minimum accepted registration password length.
const MinPasswordLength = 8

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// credentialRecord is one persisted account.
type credentialRecord struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	TOTPSecret   string `json:"totp_secret,omitempty"`
}

// credentialFile is the on-disk envelope.
type credentialFile struct {
	Version int                `json:"version"`
	Users   []credentialRecord `json:"users"`
}

// CredentialStore manages local accounts backed by a JSON file.
// Safe for concurrent use.
type CredentialStore struct {
	mu    sync.Mutex
	path  string
	users []credentialRecord
}

// NewCredentialStore loads the credential file at path, which need not
// exist yet.
func NewCredentialStore(path string) (*CredentialStore, error) {
	s := &CredentialStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var file credentialFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	s.users = file.Users
	return s, nil
}

// DemoMode reports whether no accounts are registered yet.
func (s *CredentialStore) DemoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users) == 0
}

// =============================================================================
// REGISTRATION
// =============================================================================

// Register creates a new account and persists it.
func (s *CredentialStore) Register(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) || u.Email == email {
			return nil, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.users = append(s.users, credentialRecord{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err := s.persistLocked(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return nil, err
	}

	return &model.User{Username: username, Email: email}, nil
}

// =============================================================================
// LOGIN
// =============================================================================

// Login authenticates by username or email. In demo mode (no accounts
// registered) any identifier with a non-empty password succeeds, and
// the resulting user is named from the email's local part.
//
// Accounts with an enrolled second factor fail with ErrTOTPRequired;
// use LoginTOTP for those.
func (s *CredentialStore) Login(identifier, password string) (*model.User, error) {
	return s.login(identifier, password, "")
}

// LoginTOTP authenticates an account with an enrolled second factor.
func (s *CredentialStore) LoginTOTP(identifier, password, code string) (*model.User, error) {
	return s.login(identifier, password, code)
}

func (s *CredentialStore) login(identifier, password, code string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		return demoUser(identifier), nil
	}

	rec := s.findLocked(identifier)
	if rec == nil {
		// Burn a hash comparison anyway so lookups take constant time.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv"), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if rec.TOTPSecret != "" {
		if code == "" {
			return nil, ErrTOTPRequired
		}
		if !totp.Validate(code, rec.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	return &model.User{Username: rec.Username, Email: rec.Email}, nil
}

// demoUser builds the mock-mode user from the supplied identifier.
func demoUser(identifier string) *model.User {
	name := identifier
	if at := strings.Index(identifier, "@"); at > 0 {
		name = identifier[:at]
	}
	return &model.User{Username: name, Email: identifier}
}

// findLocked matches an account by username or email. Caller holds mu.
func (s *CredentialStore) findLocked(identifier string) *credentialRecord {
	lowered := strings.ToLower(identifier)
	for i := range s.users {
		if strings.EqualFold(s.users[i].Username, identifier) || s.users[i].Email == lowered {
			return &s.users[i]
		}
	}
	return nil
}

// =============================================================================
// TOTP ENROLLMENT
// =============================================================================

// EnrollTOTP generates and stores a TOTP secret for an account. The
// returned URL can be rendered as a QR code or entered manually.
func (s *CredentialStore) EnrollTOTP(identifier, password string) (secret, url string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findLocked(identifier)
	if rec == nil {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Aetheris",
		AccountName: rec.Email,
		Period:      30,
	})
	if err != nil {
		return "", "", err
	}

	prev := rec.TOTPSecret
	rec.TOTPSecret = key.Secret()
	if err := s.persistLocked(); err != nil {
		rec.TOTPSecret = prev
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked writes the credential file. Caller holds mu.
func (s *CredentialStore) persistLocked() error {
	data, err := json.MarshalIndent(credentialFile{Version: 1, Users: s.users}, "", "  ")
	if err != nil {
		return err
	}
	// SECURITY: Credential file is owner-readable only.
	return util.AtomicWriteFile(s.path, data, 0600)
}
