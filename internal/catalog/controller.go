// Package catalog merges the remote and the local product collections
// into one filtered view and is the only place either collection changes.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/talkincode/productdesk/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RemoteCatalog is the network side of the catalog
type RemoteCatalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, id int64, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// LocalStore persists the locally owned collection
type LocalStore interface {
	Load(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, products []domain.Product) error
}

// Controller owns both collections. Mutations are serialized by mu;
// network round trips run outside the lock and their results are applied
// afterwards, so when two edits of one product overlap the last response
// wins.
type Controller struct {
	remote   RemoteCatalog
	store    LocalStore
	ids      IDGenerator
	notifier Notifier

	mu          sync.RWMutex
	remoteItems []domain.Product
	localItems  []domain.Product
	filtered    []domain.Product
	searchTerm  string
	pendingEdit *domain.Product
}

func NewController(remote RemoteCatalog, store LocalStore, ids IDGenerator, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Controller{
		remote:      remote,
		store:       store,
		ids:         ids,
		notifier:    notifier,
		remoteItems: []domain.Product{},
		localItems:  []domain.Product{},
		filtered:    []domain.Product{},
	}
}

// Initialize fetches the remote collection and loads the local one.
func (c *Controller) Initialize(ctx context.Context) error {
	var remoteItems, localItems []domain.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.remote.List(gctx)
		if err != nil {
			return err
		}
		remoteItems = items
		return nil
	})
	g.Go(func() error {
		items, err := c.store.Load(gctx)
		if err != nil {
			return err
		}
		localItems = items
		return nil
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("catalog initialization failed", zap.Error(err))
		return c.fail(err)
	}

	for i := range remoteItems {
		remoteItems[i].Origin = domain.OriginRemote
	}
	for i := range localItems {
		localItems[i].Origin = domain.OriginLocal
	}

	c.mu.Lock()
	c.remoteItems = remoteItems
	c.localItems = localItems
	c.pendingEdit = nil
	c.refreshLocked()
	c.mu.Unlock()

	zap.L().Info("catalog initialized",
		zap.Int("remote", len(remoteItems)),
		zap.Int("local", len(localItems)),
	)
	return nil
}

// Create adds a locally owned product. When persisting hits the storage
// quota the product stays in memory and is returned together with the
// quota error.
func (c *Controller) Create(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return domain.Product{}, c.fail(err)
	}

	c.mu.Lock()
	p := draft.Apply(domain.Product{ID: c.nextIDLocked(), Origin: domain.OriginLocal})
	c.localItems = append([]domain.Product{p}, c.localItems...)
	c.refreshLocked()
	err := c.store.Save(ctx, c.localSnapshotLocked())
	c.mu.Unlock()

	if err != nil {
		zap.L().Warn("local product kept in memory only", zap.Int64("id", p.ID), zap.Error(err))
		return p, c.fail(err)
	}
	zap.L().Info("local product created", zap.Int64("id", p.ID), zap.String("title", p.Title))
	c.notifier.Notify(success("Product added successfully"))
	return p, nil
}

// BeginEdit switches to edit mode for p. Collections are not touched.
func (c *Controller) BeginEdit(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := p
	c.pendingEdit = &cp
}

// BeginEditByID looks the product up and starts editing it.
func (c *Controller) BeginEditByID(id int64) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.findLocked(id)
	if !ok {
		return domain.Product{}, c.fail(notFound(id))
	}
	cp := p
	c.pendingEdit = &cp
	return p, nil
}

// CancelEdit leaves edit mode.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingEdit = nil
}

// PendingEdit returns the product being edited, if any.
func (c *Controller) PendingEdit() (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pendingEdit == nil {
		return domain.Product{}, false
	}
	return *c.pendingEdit, true
}

// Update replaces every editable field of the pending edit target.
// Remote products change only after the remote update succeeded.
func (c *Controller) Update(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	c.mu.RLock()
	pending := c.pendingEdit
	var (
		target domain.Product
		found  bool
	)
	if pending != nil {
		// origin comes from the owning collection, never from the caller
		target, found = c.findLocked(pending.ID)
	}
	c.mu.RUnlock()
	if pending == nil {
		return domain.Product{}, c.fail(domain.NewError(domain.CodeNoPendingEdit, "No product is being edited", nil))
	}
	if !found {
		return domain.Product{}, c.fail(notFound(pending.ID))
	}
	return c.update(ctx, target, draft)
}

// UpdateByID replaces the product with id without going through the
// pending edit, so concurrent callers cannot redirect each other.
func (c *Controller) UpdateByID(ctx context.Context, id int64, draft domain.ProductDraft) (domain.Product, error) {
	c.mu.RLock()
	target, found := c.findLocked(id)
	c.mu.RUnlock()
	if !found {
		return domain.Product{}, c.fail(notFound(id))
	}
	return c.update(ctx, target, draft)
}

func (c *Controller) update(ctx context.Context, target domain.Product, draft domain.ProductDraft) (domain.Product, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return domain.Product{}, c.fail(err)
	}
	updated := draft.Apply(target)

	if target.Origin == domain.OriginRemote {
		if _, err := c.remote.Update(ctx, target.ID, updated); err != nil {
			zap.L().Warn("remote product update failed", zap.Int64("id", target.ID), zap.Error(err))
			return domain.Product{}, c.fail(err)
		}
	}

	c.mu.Lock()
	var saveErr error
	switch target.Origin {
	case domain.OriginRemote:
		if !replaceByID(c.remoteItems, updated) {
			c.mu.Unlock()
			return domain.Product{}, c.fail(notFound(target.ID))
		}
	default:
		if !replaceByID(c.localItems, updated) {
			c.mu.Unlock()
			return domain.Product{}, c.fail(notFound(target.ID))
		}
		saveErr = c.store.Save(ctx, c.localSnapshotLocked())
	}
	if c.pendingEdit != nil && c.pendingEdit.ID == target.ID {
		c.pendingEdit = nil
	}
	c.refreshLocked()
	c.mu.Unlock()

	if saveErr != nil {
		return updated, c.fail(saveErr)
	}
	zap.L().Info("product updated", zap.Int64("id", updated.ID), zap.String("origin", string(updated.Origin)))
	c.notifier.Notify(success("Product updated successfully"))
	return updated, nil
}

// Delete removes the product with id from whichever collection owns it.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	c.mu.RLock()
	target, ok := c.findLocked(id)
	c.mu.RUnlock()
	if !ok {
		return c.fail(notFound(id))
	}

	if target.Origin == domain.OriginRemote {
		if err := c.remote.Delete(ctx, id); err != nil {
			zap.L().Warn("remote product delete failed", zap.Int64("id", id), zap.Error(err))
			return c.fail(err)
		}
	}

	c.mu.Lock()
	var (
		removed bool
		saveErr error
	)
	if target.Origin == domain.OriginRemote {
		c.remoteItems, removed = removeByID(c.remoteItems, id)
	} else {
		c.localItems, removed = removeByID(c.localItems, id)
		if removed {
			saveErr = c.store.Save(ctx, c.localSnapshotLocked())
		}
	}
	if c.pendingEdit != nil && c.pendingEdit.ID == id {
		c.pendingEdit = nil
	}
	c.refreshLocked()
	c.mu.Unlock()

	if !removed {
		// removed by an overlapping request while the remote call ran
		return c.fail(notFound(id))
	}
	if saveErr != nil {
		return c.fail(saveErr)
	}
	zap.L().Info("product deleted", zap.Int64("id", id), zap.String("origin", string(target.Origin)))
	c.notifier.Notify(success("Product deleted successfully"))
	return nil
}

// Search sets the filter term and returns the new view.
func (c *Controller) Search(term string) []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
	c.refreshLocked()
	return clone(c.filtered)
}

// SearchTerm returns the current filter term.
func (c *Controller) SearchTerm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchTerm
}

// View returns the filtered view.
func (c *Controller) View() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.filtered)
}

// Merged returns remote followed by local, unfiltered.
func (c *Controller) Merged() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mergedLocked()
}

func (c *Controller) Remote() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.remoteItems)
}

func (c *Controller) Local() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.localItems)
}

// Get finds a product in either collection.
func (c *Controller) Get(id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(id)
}

func (c *Controller) fail(err error) error {
	c.notifier.Notify(failure(err))
	return err
}

func (c *Controller) refreshLocked() {
	c.filtered = Filter(c.mergedLocked(), c.searchTerm)
}

func (c *Controller) mergedLocked() []domain.Product {
	merged := make([]domain.Product, 0, len(c.remoteItems)+len(c.localItems))
	merged = append(merged, c.remoteItems...)
	return append(merged, c.localItems...)
}

func (c *Controller) localSnapshotLocked() []domain.Product {
	return clone(c.localItems)
}

// nextIDLocked skips ids that already exist in either collection.
func (c *Controller) nextIDLocked() int64 {
	for {
		id := c.ids.NextID()
		if _, taken := c.findLocked(id); !taken {
			return id
		}
	}
}

func (c *Controller) findLocked(id int64) (domain.Product, bool) {
	for _, p := range c.remoteItems {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range c.localItems {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func replaceByID(items []domain.Product, p domain.Product) bool {
	for i := range items {
		if items[i].ID == p.ID {
			items[i] = p
			return true
		}
	}
	return false
}

func removeByID(items []domain.Product, id int64) ([]domain.Product, bool) {
	for i := range items {
		if items[i].ID == id {
			out := make([]domain.Product, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

func clone(items []domain.Product) []domain.Product {
	return append(make([]domain.Product, 0, len(items)), items...)
}

func notFound(id int64) *domain.Error {
	return domain.NewError(domain.CodeNotFound, "Product not found", fmt.Errorf("product %d", id))
}
