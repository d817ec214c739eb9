// Package memory implementa los puertos de persistencia en memoria de proceso.
// Sirve para desarrollo local y tests; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ marketplace.TxRunner = (*Store)(nil)

// state contenido de la "base de datos". Las entidades guardadas nunca se mutan en sitio:
// cada escritura reemplaza el puntero por una copia nueva, así clone puede ser superficial.
type state struct {
	users    map[string]*entity.User
	listings map[string]*entity.Listing
	sales    []*entity.Sale
	messages []*entity.Message
}

func newState() *state {
	return &state{
		users:    make(map[string]*entity.User),
		listings: make(map[string]*entity.Listing),
	}
}

func (s *state) clone() *state {
	return &state{
		users:    maps.Clone(s.users),
		listings: maps.Clone(s.listings),
		sales:    slices.Clone(s.sales),
		messages: slices.Clone(s.messages),
	}
}

// handle acceso al estado: el Store bloquea; un estado de transacción ya está bajo el lock del Store.
type handle interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store base de datos en memoria segura para uso concurrente.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// txState estado aislado de una transacción en curso.
type txState struct {
	st *state
}

func (t *txState) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txState) write(fn func(st *state) error) error { return fn(t.st) }

// Run ejecuta fn de forma serializable: bloquea el Store, trabaja sobre una copia del estado
// y solo la publica si fn termina sin error. Un error descarta todos los cambios.
func (s *Store) Run(ctx context.Context, fn func(
	listingRepo repository.ListingRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{st: s.st.clone()}
	if err := fn(&ListingRepository{h: tx}, &SaleRepository{h: tx}); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

// Users repositorio de usuarios sobre el Store.
func (s *Store) Users() *UserRepository { return &UserRepository{h: s} }

// Listings repositorio de cultivos sobre el Store.
func (s *Store) Listings() *ListingRepository { return &ListingRepository{h: s} }

// Sales repositorio de ventas sobre el Store.
func (s *Store) Sales() *SaleRepository { return &SaleRepository{h: s} }

// Messages repositorio de mensajes sobre el Store.
func (s *Store) Messages() *MessageRepository { return &MessageRepository{h: s} }

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func nowUTC() time.Time { return time.Now().UTC() }
