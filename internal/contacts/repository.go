package contacts

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Repository defines the interface for contact storage
type Repository interface {
	Insert(ctx context.Context, c *Contact) (primitive.ObjectID, error)
	Find(ctx context.Context, f Filter, page Page) ([]*Contact, error)
	Count(ctx context.Context, f Filter) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Contact, error)
	Update(ctx context.Context, id primitive.ObjectID, p Patch) (UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	// Documents returns every stored document in natural order.
	Documents(ctx context.Context) ([]bson.D, error)
}

// InMemoryRepository keeps contacts in process memory, for tests and local runs
type InMemoryRepository struct {
	mu       sync.RWMutex
	contacts map[primitive.ObjectID]*Contact
	order    []primitive.ObjectID
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		contacts: make(map[primitive.ObjectID]*Contact),
	}
}

// Insert stores a copy of c under a fresh ObjectID
func (r *InMemoryRepository) Insert(ctx context.Context, c *Contact) (primitive.ObjectID, error) {
	stored := *c
	stored.ID = primitive.NewObjectID()

	r.mu.Lock()
	r.contacts[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	return stored.ID, nil
}

// Find returns one page of matching contacts, newest first
func (r *InMemoryRepository) Find(ctx context.Context, f Filter, page Page) ([]*Contact, error) {
	matches, err := r.matching(f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return a.ID.Hex() > b.ID.Hex()
	})

	skip := int(page.Skip())
	if skip >= len(matches) {
		return []*Contact{}, nil
	}
	end := skip + page.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[skip:end], nil
}

// Count returns the number of matching contacts
func (r *InMemoryRepository) Count(ctx context.Context, f Filter) (int64, error) {
	matches, err := r.matching(f)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (r *InMemoryRepository) matching(f Filter) ([]*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Contact
	for _, id := range r.order {
		c := r.contacts[id]
		ok, err := f.Matches(c)
		if err != nil {
			return nil, err
		}
		if ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// FindByID retrieves a contact by ID
func (r *InMemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

// Update merges p into the stored contact
func (r *InMemoryRepository) Update(ctx context.Context, id primitive.ObjectID, p Patch) (UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return UpdateResult{}, nil
	}
	res := UpdateResult{Matched: 1}
	if p.Apply(c) {
		res.Modified = 1
	}
	return res, nil
}

// Delete removes a contact and reports how many were removed
func (r *InMemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return 0, nil
	}
	delete(r.contacts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Documents renders every contact the way the driver would decode it
func (r *InMemoryRepository) Documents(ctx context.Context) ([]bson.D, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]bson.D, 0, len(r.order))
	for _, id := range r.order {
		raw, err := bson.Marshal(r.contacts[id])
		if err != nil {
			return nil, err
		}
		var doc bson.D
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
