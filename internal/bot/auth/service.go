package auth

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/cryptox"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// Gate decides who may use the bot. Two ways in: being on the fixed operator
// allow-list (config-supplied usernames, always authorized, may rotate the
// secret), or having presented the current shared secret once, which puts the
// user id into the persisted verified list.
//
// The document is reloaded from the store before every check so that several
// bot processes sharing one store see each other's changes. Store failures
// degrade to an in-memory default document: availability wins over strict
// durability for this metadata.
type Gate struct {
	mu            sync.Mutex
	store         Store
	operators     map[string]struct{}
	defaultSecret string
	fallback      *Document
	logger        logging.Logger
}

func NewGate(store Store, operators []string, defaultSecret string, logger logging.Logger) *Gate {
	ops := make(map[string]struct{}, len(operators))
	for _, name := range operators {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			ops[name] = struct{}{}
		}
	}
	return &Gate{
		store:         store,
		operators:     ops,
		defaultSecret: defaultSecret,
		logger:        logger.With("module", "auth"),
	}
}

func (g *Gate) defaultDocument() *Document {
	salt := common.GenerateRandByteArray(16)
	return &Document{
		PasswordHash:  hex.EncodeToString(cryptox.DeriveSecretHash([]byte(g.defaultSecret), salt)),
		PasswordSalt:  hex.EncodeToString(salt),
		VerifiedUsers: []int64{},
	}
}

// load fetches the current document, falling back to (and trying to persist)
// the default one when the store is empty or unavailable.
func (g *Gate) load(ctx context.Context) *Document {
	doc, err := g.store.Load(ctx)
	if err == nil {
		return doc
	}
	if g.fallback == nil {
		g.fallback = g.defaultDocument()
		if saveErr := g.store.Save(ctx, g.fallback); saveErr != nil {
			g.logger.Warn(ctx, "auth store unavailable, using in-memory defaults", "error", saveErr)
		}
	}
	return g.fallback
}

func (g *Gate) save(ctx context.Context, doc *Document) {
	if err := g.store.Save(ctx, doc); err != nil {
		// keep serving from memory; next successful save catches up
		g.fallback = doc
		g.logger.Error(ctx, "auth store save failed", "error", err)
	}
}

// IsOperator reports whether username is on the fixed operator list.
// Matching is case-insensitive, as Telegram usernames are.
func (g *Gate) IsOperator(username string) bool {
	_, ok := g.operators[strings.ToLower(strings.TrimSpace(username))]
	return ok
}

// IsAuthorized reports whether the user may run privileged operations.
// Operators are always authorized and are added to the persisted verified
// list as a side effect, so they keep access even if later removed from the
// operator list.
func (g *Gate) IsAuthorized(ctx context.Context, userID int64, username string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := g.load(ctx)
	if g.IsOperator(username) {
		if doc.AddUser(userID) {
			g.save(ctx, doc)
		}
		return true
	}
	return doc.HasUser(userID)
}

// CheckSecret compares candidate against the currently persisted secret.
// The document is reloaded at call time so a rotation by another process is
// picked up immediately.
func (g *Gate) CheckSecret(ctx context.Context, candidate string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := g.load(ctx)
	salt, err := hex.DecodeString(doc.PasswordSalt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(doc.PasswordHash)
	if err != nil {
		return false
	}
	return cryptox.VerifySecret(want, []byte(candidate), salt)
}

// Grant idempotently adds userID to the persisted verified list.
func (g *Gate) Grant(ctx context.Context, userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := g.load(ctx)
	if doc.AddUser(userID) {
		g.save(ctx, doc)
	}
}

// Revoke idempotently removes userID from the verified list (logout).
func (g *Gate) Revoke(ctx context.Context, userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := g.load(ctx)
	if doc.RemoveUser(userID) {
		g.save(ctx, doc)
	}
}

// SetSecret rotates the shared secret, effective for every subsequent
// CheckSecret call in any process sharing the store. Already-verified users
// keep their access.
func (g *Gate) SetSecret(ctx context.Context, newSecret string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := g.load(ctx)
	salt := common.GenerateRandByteArray(16)
	doc.PasswordSalt = hex.EncodeToString(salt)
	doc.PasswordHash = hex.EncodeToString(cryptox.DeriveSecretHash([]byte(newSecret), salt))
	g.save(ctx, doc)
}
