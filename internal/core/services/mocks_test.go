package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
)

// mockStore is an in-memory ReviewStore with the same dual-write and
// duplicate-key behaviour as the real adapters, plus error injection.
type mockStore struct {
	tables map[string][]domain.Review
	keys   map[string]struct{}
	meta   *domain.Metadata

	persistCalls int
	resetCalls   int

	insertErr  error
	persistErr error
}

var _ driven.ReviewStore = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		tables: make(map[string][]domain.Review),
		keys:   make(map[string]struct{}),
	}
}

func (m *mockStore) CreateTable(_ context.Context, name string) error {
	if _, ok := m.tables[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrTableExists, name)
	}
	m.tables[name] = nil
	return nil
}

func (m *mockStore) Insert(_ context.Context, table string, review domain.Review) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, name := range []string{table, domain.MasterTable} {
		if _, ok := m.tables[name]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrTableNotFound, name)
		}
	}
	if _, dup := m.keys[review.Key()]; dup {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, review.Key())
	}
	m.keys[review.Key()] = struct{}{}
	m.tables[table] = append(m.tables[table], review)
	m.tables[domain.MasterTable] = append(m.tables[domain.MasterTable], review)
	return nil
}

func (m *mockStore) GetAll(_ context.Context, table string) ([]domain.Review, error) {
	reviews, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}
	return reviews, nil
}

func (m *mockStore) Query(ctx context.Context, table string, conditions []domain.Condition) ([]domain.Review, error) {
	all, err := m.GetAll(ctx, table)
	if err != nil {
		return nil, err
	}
	var out []domain.Review
	for i := range all {
		if domain.MatchesAll(&all[i], conditions) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (m *mockStore) Tables(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	if m.meta != nil {
		names = append(names, domain.MetadataTable)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockStore) PutMetadata(_ context.Context, meta domain.Metadata) error {
	m.meta = &meta
	return nil
}

func (m *mockStore) GetMetadata(_ context.Context) (*domain.Metadata, error) {
	if m.meta == nil {
		return nil, domain.ErrNoMetadata
	}
	return m.meta, nil
}

func (m *mockStore) Persist(_ context.Context) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	m.persistCalls++
	return nil
}

func (m *mockStore) Load(_ context.Context) error { return nil }

func (m *mockStore) Reset(_ context.Context) error {
	m.resetCalls++
	m.tables = make(map[string][]domain.Review)
	m.keys = make(map[string]struct{})
	m.meta = nil
	return nil
}

func (m *mockStore) Close() error { return nil }

// mockSource streams a fixed batch of records, then any injected
// source errors, over the port's channel pair.
type mockSource struct {
	category string
	records  []domain.RawRecord
	errs     []error
	closed   bool
}

var _ driven.RecordSource = (*mockSource)(nil)

func (m *mockSource) Category() string { return m.category }

func (m *mockSource) Records(ctx context.Context) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error)
	go func() {
		defer close(records)
		defer close(errs)
		for _, rec := range m.records {
			select {
			case records <- rec:
			case <-ctx.Done():
				return
			}
		}
		for _, err := range m.errs {
			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}
		}
	}()
	return records, errs
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}
