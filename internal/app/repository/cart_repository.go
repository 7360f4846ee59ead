package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/pkg/logger"
)

// CartRepository persists full cart snapshots under a session-scoped
// key. Load never fails on a missing or unparsable snapshot: that
// state is an empty cart, not an error.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (model.Cart, error)
	Save(ctx context.Context, sessionID string, cart model.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// FileCartRepository stores one JSON snapshot file per session. This
// is the durable storage for single-node deployments.
type FileCartRepository struct {
	dir string
}

func NewFileCartRepository(dir string) (*FileCartRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart storage dir: %w", err)
	}
	return &FileCartRepository{dir: dir}, nil
}

func (r *FileCartRepository) path(sessionID string) string {
	// Session ids are uuids issued by us; Base guards against anything else.
	return filepath.Join(r.dir, "cart-"+filepath.Base(sessionID)+".json")
}

func (r *FileCartRepository) Load(_ context.Context, sessionID string) (model.Cart, error) {
	data, err := os.ReadFile(r.path(sessionID))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Cart snapshot unreadable, starting empty", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return model.Cart{}, nil
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		logger.Warn("Cart snapshot unparsable, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return model.Cart{}, nil
	}
	return cart, nil
}

func (r *FileCartRepository) Save(_ context.Context, sessionID string, cart model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	if err := os.WriteFile(r.path(sessionID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	return nil
}

func (r *FileCartRepository) Delete(_ context.Context, sessionID string) error {
	err := os.Remove(r.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
