package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spicemart/spicesite/internal/domain"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist. It is an
// expected outcome, not a storage fault.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

// Store handles persistence of the product catalog and customer inquiries.
type Store interface {
	// ListProducts returns every product ordered by id
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProduct returns ErrNotFound when no product has the given id
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// CreateProduct validates and inserts a catalog entry
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)

	// CreateInquiry validates, stamps and inserts a contact form submission
	CreateInquiry(ctx context.Context, input domain.InquiryInput) (*domain.Inquiry, error)

	CountProducts(ctx context.Context) (int64, error)
	CountInquiries(ctx context.Context) (int64, error)
}

// GormStore is the GORM implementation of Store
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-based store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (r *GormStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, storageError("list products", err)
	}
	return products, nil
}

func (r *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, storageError("get product", err)
	}
	return &p, nil
}

func (r *GormStore) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := domain.ValidateProduct(&input); err != nil {
		return nil, err
	}
	p := input.Product()
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, storageError("create product", err)
	}
	return &p, nil
}

func (r *GormStore) CreateInquiry(ctx context.Context, input domain.InquiryInput) (*domain.Inquiry, error) {
	if err := domain.ValidateInquiry(&input); err != nil {
		return nil, err
	}
	inq := input.Inquiry(r.now())
	if err := r.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return nil, storageError("create inquiry", err)
	}
	return &inq, nil
}

func (r *GormStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, storageError("count products", err)
	}
	return count, nil
}

func (r *GormStore) CountInquiries(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Inquiry{}).Count(&count).Error; err != nil {
		return 0, storageError("count inquiries", err)
	}
	return count, nil
}

// ListInquiries returns stored inquiries, newest first. It is not exposed over
// HTTP.
func (r *GormStore) ListInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	inquiries := make([]domain.Inquiry, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&inquiries).Error; err != nil {
		return nil, storageError("list inquiries", err)
	}
	return inquiries, nil
}
