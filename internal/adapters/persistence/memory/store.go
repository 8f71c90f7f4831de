// Package memory provides an in-memory implementation of the persistence
// store. It backs the service tests: transactions are serialized by a mutex
// and roll back by restoring a snapshot, which models the all-or-nothing
// visibility the database gives the coordinator in production.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/adapters/persistence/repositories"
	"lendtrack/internal/core/domain"
)

type data struct {
	laptops   map[uint]models.Laptop
	dists     map[uint]models.Distribution
	laptopSeq uint
	distSeq   uint
}

func (d *data) clone() *data {
	c := &data{
		laptops:   make(map[uint]models.Laptop, len(d.laptops)),
		dists:     make(map[uint]models.Distribution, len(d.dists)),
		laptopSeq: d.laptopSeq,
		distSeq:   d.distSeq,
	}
	for id, l := range d.laptops {
		c.laptops[id] = l
	}
	for id, dist := range d.dists {
		if dist.DateReturned != nil {
			returned := *dist.DateReturned
			dist.DateReturned = &returned
		}
		c.dists[id] = dist
	}
	return c
}

// Store is an in-memory repositories.Store. The injected error queue lives on
// the store itself rather than in data: a rolled back transaction must not
// resurrect errors it already consumed.
type Store struct {
	mu        sync.Mutex
	data      *data
	writeErrs []error
}

func (s *Store) popWriteErr() error {
	if len(s.writeErrs) == 0 {
		return nil
	}
	err := s.writeErrs[0]
	s.writeErrs = s.writeErrs[1:]
	return err
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: &data{
			laptops: make(map[uint]models.Laptop),
			dists:   make(map[uint]models.Distribution),
		},
	}
}

// InjectWriteErrors queues errors to be returned by the next guarded writes
// (laptop status CAS and versioned distribution updates), one per call.
func (s *Store) InjectWriteErrors(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErrs = append(s.writeErrs, errs...)
}

// Laptops returns the laptop repository.
func (s *Store) Laptops() repositories.LaptopRepository {
	return &laptopRepo{store: s, locked: false}
}

// Distributions returns the distribution repository.
func (s *Store) Distributions() repositories.DistributionRepository {
	return &distRepo{store: s, locked: false}
}

// InTransaction serializes the transaction under the store mutex, snapshots
// the data first and restores the snapshot when fn fails, so a failed attempt
// leaves the pre-transaction state in place.
func (s *Store) InTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := fn(&txStore{store: s})
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// txStore is the view handed to transaction callbacks. The outer transaction
// already holds the mutex, so its repositories skip locking.
type txStore struct {
	store *Store
}

func (t *txStore) Laptops() repositories.LaptopRepository {
	return &laptopRepo{store: t.store, locked: true}
}

func (t *txStore) Distributions() repositories.DistributionRepository {
	return &distRepo{store: t.store, locked: true}
}

func (t *txStore) InTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	// already inside a transaction scope
	return fn(t)
}

// ============================================================
// Laptop repository
// ============================================================

type laptopRepo struct {
	store  *Store
	locked bool
}

func (r *laptopRepo) acquire() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *laptopRepo) Create(_ context.Context, laptop *models.Laptop) error {
	defer r.acquire()()
	d := r.store.data
	d.laptopSeq++
	laptop.ID = d.laptopSeq
	laptop.CreatedAt = time.Now()
	laptop.UpdatedAt = laptop.CreatedAt
	d.laptops[laptop.ID] = *laptop
	return nil
}

func (r *laptopRepo) GetByID(_ context.Context, id uint) (*models.Laptop, error) {
	defer r.acquire()()
	laptop, ok := r.store.data.laptops[id]
	if !ok {
		return nil, domain.ErrLaptopNotFound
	}
	return &laptop, nil
}

func (r *laptopRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Laptop, error) {
	// transactions are fully serialized, the plain read is already exclusive
	return r.GetByID(ctx, id)
}

func (r *laptopRepo) GetBySerialNumber(_ context.Context, serial string) (*models.Laptop, error) {
	defer r.acquire()()
	for _, laptop := range r.store.data.laptops {
		if laptop.SerialNumber == serial {
			l := laptop
			return &l, nil
		}
	}
	return nil, domain.ErrLaptopNotFound
}

func (r *laptopRepo) List(_ context.Context) ([]*models.Laptop, error) {
	defer r.acquire()()
	laptops := make([]*models.Laptop, 0, len(r.store.data.laptops))
	for _, laptop := range r.store.data.laptops {
		l := laptop
		laptops = append(laptops, &l)
	}
	sort.Slice(laptops, func(i, j int) bool { return laptops[i].ID > laptops[j].ID })
	return laptops, nil
}

func (r *laptopRepo) Update(_ context.Context, laptop *models.Laptop) error {
	defer r.acquire()()
	d := r.store.data
	if _, ok := d.laptops[laptop.ID]; !ok {
		return domain.ErrLaptopNotFound
	}
	laptop.UpdatedAt = time.Now()
	d.laptops[laptop.ID] = *laptop
	return nil
}

func (r *laptopRepo) UpdateStatus(_ context.Context, id uint, from, to domain.LaptopStatus) error {
	defer r.acquire()()
	d := r.store.data
	if err := r.store.popWriteErr(); err != nil {
		return err
	}
	laptop, ok := d.laptops[id]
	if !ok || laptop.Status != from {
		return domain.ErrWriteConflict
	}
	laptop.Status = to
	laptop.UpdatedAt = time.Now()
	d.laptops[id] = laptop
	return nil
}

func (r *laptopRepo) Delete(_ context.Context, id uint) error {
	defer r.acquire()()
	delete(r.store.data.laptops, id)
	return nil
}

// ============================================================
// Distribution repository
// ============================================================

type distRepo struct {
	store  *Store
	locked bool
}

func (r *distRepo) acquire() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *distRepo) Create(_ context.Context, dist *models.Distribution) error {
	defer r.acquire()()
	d := r.store.data
	d.distSeq++
	dist.ID = d.distSeq
	if dist.Version == 0 {
		dist.Version = 1
	}
	dist.CreatedAt = time.Now()
	dist.UpdatedAt = dist.CreatedAt
	d.dists[dist.ID] = *dist
	return nil
}

func (r *distRepo) GetByID(_ context.Context, id uint) (*models.Distribution, error) {
	defer r.acquire()()
	dist, ok := r.store.data.dists[id]
	if !ok {
		return nil, domain.ErrDistributionNotFound
	}
	return &dist, nil
}

func (r *distRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Distribution, error) {
	return r.GetByID(ctx, id)
}

func (r *distRepo) CountOpenByLaptopID(_ context.Context, laptopID uint) (int64, error) {
	defer r.acquire()()
	var n int64
	for _, dist := range r.store.data.dists {
		if dist.LaptopID == laptopID && dist.DateReturned == nil {
			n++
		}
	}
	return n, nil
}

func (r *distRepo) List(_ context.Context) ([]*models.Distribution, error) {
	defer r.acquire()()
	return sortedDists(r.store.data.dists, func(models.Distribution) bool { return true }), nil
}

func (r *distRepo) ListByLaptopID(_ context.Context, laptopID uint) ([]*models.Distribution, error) {
	defer r.acquire()()
	return sortedDists(r.store.data.dists, func(d models.Distribution) bool { return d.LaptopID == laptopID }), nil
}

func (r *distRepo) ListOverdueOpen(_ context.Context, asOf time.Time) ([]*models.Distribution, error) {
	defer r.acquire()()
	dists := sortedDists(r.store.data.dists, func(d models.Distribution) bool {
		return d.DateReturned == nil && d.ExpectedReturnDate.Before(asOf)
	})
	sort.Slice(dists, func(i, j int) bool {
		return dists[i].ExpectedReturnDate.Before(dists[j].ExpectedReturnDate)
	})
	return dists, nil
}

func (r *distRepo) UpdateVersioned(_ context.Context, dist *models.Distribution) error {
	defer r.acquire()()
	d := r.store.data
	if err := r.store.popWriteErr(); err != nil {
		return err
	}
	stored, ok := d.dists[dist.ID]
	if !ok || stored.Version != dist.Version {
		return domain.ErrWriteConflict
	}
	dist.Version++
	dist.UpdatedAt = time.Now()
	d.dists[dist.ID] = *dist
	return nil
}

func (r *distRepo) Delete(_ context.Context, id uint) error {
	defer r.acquire()()
	delete(r.store.data.dists, id)
	return nil
}

func sortedDists(all map[uint]models.Distribution, match func(models.Distribution) bool) []*models.Distribution {
	dists := make([]*models.Distribution, 0, len(all))
	for _, dist := range all {
		if match(dist) {
			d := dist
			dists = append(dists, &d)
		}
	}
	sort.Slice(dists, func(i, j int) bool {
		if !dists[i].DateDistributed.Equal(dists[j].DateDistributed) {
			return dists[i].DateDistributed.After(dists[j].DateDistributed)
		}
		return dists[i].ID > dists[j].ID
	})
	return dists
}
