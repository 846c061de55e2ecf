package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tasktracker/tasktracker-api/internal/models"
	"github.com/tasktracker/tasktracker-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken       = errors.New("an account already exists for this email")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNotAuthenticated = errors.New("no identity is signed in")
	ErrEmailRequired    = errors.New("email is required")
)

// Provider manages the identity directory and the current-identity pointer.
// The pointer is process-wide, survives restarts through the store, and every
// change to it is pushed to subscribers. This is a convenience layer, not an
// authentication boundary: passwords are hashed at signup but never verified.
type Provider struct {
	store  storage.Store
	logger *zap.Logger

	mu          sync.Mutex
	current     *models.Identity
	subscribers []func(*models.Identity)
}

// NewProvider restores the persisted current identity, if any.
func NewProvider(store storage.Store, logger *zap.Logger) (*Provider, error) {
	p := &Provider{store: store, logger: logger}

	var current models.Identity
	found, err := store.Load(storage.KeyCurrentIdentity, &current)
	if err != nil {
		return nil, fmt.Errorf("failed to restore current identity: %w", err)
	}
	if found {
		p.current = &current
	}
	return p, nil
}

// Subscribe registers a callback invoked whenever the current identity
// changes, including when it becomes absent on logout.
func (p *Provider) Subscribe(fn func(*models.Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Current returns a copy of the current identity, or nil when signed out.
func (p *Provider) Current() *models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	idt := *p.current
	return &idt
}

// Signup creates a new identity and makes it current. It fails when an
// account already exists for the email.
func (p *Provider) Signup(email, password, name string) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signupLocked(email, password, name)
}

func (p *Provider) signupLocked(email, password, name string) (*models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	dir, err := p.loadDirectory()
	if err != nil {
		return nil, err
	}
	if _, exists := dir[email]; exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	idt := models.Identity{
		ID:           email, // the email is the stable id
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	dir[email] = idt
	if err := p.store.Save(storage.KeyDirectory, dir); err != nil {
		return nil, err
	}
	if err := p.setCurrentLocked(&idt); err != nil {
		return nil, err
	}

	p.logger.Info("identity created", zap.String("id", idt.ID))
	out := idt
	return &out, nil
}

// Login makes the identity for the email current. When no such account
// exists it falls through to signup, defaulting the name to the email's
// local part. The password is accepted but never checked.
func (p *Provider) Login(email, password string) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	email = strings.TrimSpace(email)
	dir, err := p.loadDirectory()
	if err != nil {
		return nil, err
	}

	if idt, ok := dir[email]; ok {
		if err := p.setCurrentLocked(&idt); err != nil {
			return nil, err
		}
		out := idt
		return &out, nil
	}

	name, _, _ := strings.Cut(email, "@")
	return p.signupLocked(email, password, name)
}

// Logout clears the current identity. Stored data is untouched.
func (p *Provider) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setCurrentLocked(nil)
}

// Activate makes the identity with the given id current, reloading it from
// the directory. A no-op when it already is current.
func (p *Provider) Activate(id string) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.current.ID == id {
		out := *p.current
		return &out, nil
	}

	dir, err := p.loadDirectory()
	if err != nil {
		return nil, err
	}
	idt, ok := dir[id]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	if err := p.setCurrentLocked(&idt); err != nil {
		return nil, err
	}
	out := idt
	return &out, nil
}

// UpdateProfile shallow-merges the patch into the current identity and
// persists both the directory entry and the current pointer. The directory
// key stays pinned to the identity id even when the email changes.
func (p *Provider) UpdateProfile(patch models.IdentityPatch) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, ErrNotAuthenticated
	}

	updated := *p.current
	updated.Apply(patch)

	dir, err := p.loadDirectory()
	if err != nil {
		return nil, err
	}
	dir[updated.ID] = updated
	if err := p.store.Save(storage.KeyDirectory, dir); err != nil {
		return nil, err
	}
	if err := p.store.Save(storage.KeyCurrentIdentity, updated); err != nil {
		return nil, err
	}

	p.current = &updated
	out := updated
	return &out, nil
}

func (p *Provider) loadDirectory() (map[string]models.Identity, error) {
	dir := make(map[string]models.Identity)
	found, err := p.store.Load(storage.KeyDirectory, &dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity directory: %w", err)
	}
	// A failed decode can leave entries behind; a directory that did not load
	// cleanly reads as empty.
	if !found {
		return make(map[string]models.Identity), nil
	}
	return dir, nil
}

func (p *Provider) setCurrentLocked(idt *models.Identity) error {
	if idt == nil {
		if err := p.store.Delete(storage.KeyCurrentIdentity); err != nil {
			return err
		}
	} else {
		if err := p.store.Save(storage.KeyCurrentIdentity, idt); err != nil {
			return err
		}
	}

	p.current = idt
	for _, fn := range p.subscribers {
		if idt == nil {
			fn(nil)
			continue
		}
		copied := *idt
		fn(&copied)
	}
	return nil
}
