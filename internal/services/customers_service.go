package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/normalize"
	"github.com/agamariel/annetom/internal/store"
)

var (
	ErrMissingCustomerID = errors.New("customer id is required")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrMissingPhone      = errors.New("customer phone is required")
)

// CustomersService определяет фасад работы с клиентами.
type CustomersService interface {
	FetchCustomers(ctx context.Context) []*models.Customer
	SaveCustomer(ctx context.Context, record map[string]any) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
}

// CustomersServiceImpl реализует CustomersService.
type CustomersServiceImpl struct {
	store  store.Store
	logger *log.Logger
}

// NewCustomersService создаёт новый фасад клиентов.
func NewCustomersService(st store.Store, logger *log.Logger) *CustomersServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &CustomersServiceImpl{store: st, logger: logger}
}

// FetchCustomers возвращает не удалённых клиентов в канонической форме.
// Сбой чтения логируется и даёт пустой срез.
func (s *CustomersServiceImpl) FetchCustomers(ctx context.Context) []*models.Customer {
	if s.store == nil {
		s.logger.Printf("fetch customers: store is not available")
		return []*models.Customer{}
	}

	data, err := s.store.Get(ctx, store.CollectionCustomers)
	if err != nil {
		s.logger.Printf("fetch customers: %v", err)
		return []*models.Customer{}
	}

	items := store.Items(data)
	customers := make([]*models.Customer, 0, len(items))
	for _, raw := range items {
		if cast.ToBool(raw["deleted"]) {
			continue
		}
		if c := normalize.Customer(raw); c != nil {
			customers = append(customers, c)
		}
	}
	return customers
}

// SaveCustomer добавляет либо обновляет запись клиента.
func (s *CustomersServiceImpl) SaveCustomer(ctx context.Context, record map[string]any) (*models.Customer, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if record == nil {
		return nil, fmt.Errorf("%w: customer record is required", ErrInvalidPayload)
	}

	now := nowISO()
	id := cast.ToString(record["id"])

	if id == "" {
		draft := make(map[string]any, len(record)+2)
		for k, v := range record {
			draft[k] = v
		}
		draft["createdAt"] = now
		draft["updatedAt"] = now

		created, err := s.store.AddItem(ctx, store.CollectionCustomers, draft)
		if err != nil {
			return nil, fmt.Errorf("save customer: %w", err)
		}
		return normalize.Customer(created), nil
	}

	changes := make(map[string]any, len(record))
	for k, v := range record {
		if k == "id" {
			continue
		}
		changes[k] = v
	}
	changes["updatedAt"] = now

	updated, err := updateCollectionItem(ctx, s.store, store.CollectionCustomers, id, changes)
	if err != nil {
		return nil, fmt.Errorf("save customer %s: %w", id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
	}
	return normalize.Customer(updated), nil
}

// DeleteCustomer удаляет запись клиента.
func (s *CustomersServiceImpl) DeleteCustomer(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if id == "" {
		return ErrMissingCustomerID
	}

	if err := removeCollectionItem(ctx, s.store, store.CollectionCustomers, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

// FindByPhone ищет клиента по телефону, сравнивая только цифры.
func (s *CustomersServiceImpl) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	wanted := digitsOnly(phone)
	if wanted == "" {
		return nil, ErrMissingPhone
	}

	for _, c := range s.FetchCustomers(ctx) {
		if digitsOnly(c.Phone) == wanted {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: phone %s", ErrCustomerNotFound, phone)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
