// Package preferences keeps a client's theme and language choice.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storage"
	pkgerrors "github.com/luxeshop/storefront/pkg/errors"
)

// Snapshot is the serialisable view of the preferences
type Snapshot struct {
	DarkMode  bool            `json:"dark_mode"`
	Language  domain.Language `json:"language"`
	Direction string          `json:"direction"`
}

type Preferences struct {
	store  storage.Store
	logger *zap.Logger

	mu       sync.Mutex
	darkMode bool
	language domain.Language
}

func New(store storage.Store, logger *zap.Logger) *Preferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preferences{store: store, logger: logger, language: domain.LanguageEnglish}
}

// Load reads both keys; unreadable values fall back to light mode and English
func (p *Preferences) Load(ctx context.Context) error {
	var dark bool
	if _, err := storage.LoadJSON(ctx, p.store, storage.KeyDarkMode, &dark); err != nil {
		if !errors.Is(err, storage.ErrCorrupt) {
			return fmt.Errorf("load preferences: %w", err)
		}
		dark = false
	}

	// language is stored as a bare string
	lang := domain.LanguageEnglish
	raw, ok, err := p.store.Get(ctx, storage.KeyLanguage)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if ok && domain.Language(raw).IsValid() {
		lang = domain.Language(raw)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.darkMode = dark
	p.language = lang
	return nil
}

// ToggleDarkMode flips the theme and persists it
func (p *Preferences) ToggleDarkMode(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := !p.darkMode
	if err := storage.SaveJSON(ctx, p.store, storage.KeyDarkMode, next); err != nil {
		return p.darkMode, err
	}
	p.darkMode = next
	return next, nil
}

// SetLanguage persists one of en, ar or fr
func (p *Preferences) SetLanguage(ctx context.Context, lang domain.Language) error {
	if !lang.IsValid() {
		return &pkgerrors.ErrValidation{
			Message: "unsupported language",
			Fields:  map[string]string{"language": "must be one of en, ar, fr"},
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Set(ctx, storage.KeyLanguage, string(lang)); err != nil {
		return err
	}
	p.language = lang
	return nil
}

func (p *Preferences) DarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.darkMode
}

func (p *Preferences) Language() domain.Language {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.language
}

// Direction is "rtl" for Arabic and "ltr" otherwise
func (p *Preferences) Direction() string {
	return p.Language().Direction()
}

func (p *Preferences) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{DarkMode: p.darkMode, Language: p.language, Direction: p.language.Direction()}
}
