// Package token maps arbitrary-length object paths to short fixed-width
// tokens that fit inside Telegram's 64-byte callback payload limit.
//
// Tokens are pure truncated hashes, so the registry keeps no reverse map and
// cannot grow: resolution re-lists the live objects and matches recomputed
// tokens. That costs one list call per button press but survives process
// restarts and concurrent deletions for free.
package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// Width is the token length in hex characters (64 bits of the subject hash).
const Width = 16

// Lister supplies the current object listing for resolution. The storage
// repository satisfies it.
type Lister interface {
	List(ctx context.Context, prefix string) ([]models.StoredObject, error)
}

type Registry struct {
	lister Lister
}

func NewRegistry(l Lister) *Registry {
	return &Registry{lister: l}
}

// Register returns the fixed-width token for subject. Deterministic and
// stateless: calling it any number of times allocates nothing persistent.
func Register(subject string) string {
	sum := sha256.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])[:Width]
}

// Register is the method form of the package-level function, for callers
// holding a *Registry.
func (r *Registry) Register(subject string) string {
	return Register(subject)
}

// Resolve finds the live object whose recomputed token equals tok.
// A token that matches nothing yields common.ErrStaleToken; the caller is
// expected to prompt the user to refresh the list, never to crash.
func (r *Registry) Resolve(ctx context.Context, tok string) (string, error) {
	objects, err := r.lister.List(ctx, "")
	if err != nil {
		return "", err
	}
	for _, obj := range objects {
		if Register(obj.Path) == tok {
			return obj.Path, nil
		}
	}
	return "", common.ErrStaleToken
}
