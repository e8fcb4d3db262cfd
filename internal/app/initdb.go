package app

import (
	"context"

	"github.com/spicemart/spicesite/internal/domain"
	"github.com/spicemart/spicesite/internal/repository"
	"go.uber.org/zap"
)

// DefaultCatalog is inserted when the product table is empty.
func DefaultCatalog() []domain.ProductInput {
	return []domain.ProductInput{
		{
			Name:        "Teja Mirchi (S-17)",
			Description: "Known for its high pungency and bright red color. Ideal for spice extraction and oleoresin.",
			Type:        "Whole Dried",
			SpiceLevel:  "High",
			Image:       "/images/teja.webp",
			Features:    []string{"High Heat", "Glossy Finish", "Export Quality"},
		},
		{
			Name:        "Kashmiri Mirchi",
			Description: "Famous for its deep red color and mild taste. Perfect for adding color to dishes without excessive heat.",
			Type:        "Whole Dried",
			SpiceLevel:  "Low",
			Image:       "/images/kashmiri.webp",
			Features:    []string{"Vibrant Color", "Low Heat", "Premium Grade"},
		},
		{
			Name:        "Byadgi Mirchi",
			Description: "Characterized by its wrinkled skin and deep red color. Offers a unique flavor profile.",
			Type:        "Whole Dried",
			SpiceLevel:  "Medium",
			Image:       "/images/byadgi.jpg",
			Features:    []string{"Wrinkled Skin", "Rich Flavor", "Natural Color"},
		},
		{
			Name:        "Guntur Sannam",
			Description: "One of the most popular varieties. Hot and spicy with a distinct aroma.",
			Type:        "Whole Dried",
			SpiceLevel:  "High",
			Image:       "/images/guntur.jpg",
			Features:    []string{"Spicy", "Aromatic", "Traditional"},
		},
	}
}

// SeedCatalog inserts DefaultCatalog when no product exists and returns the
// number of products created.
//
// The emptiness check and the inserts are not atomic: two processes cold
// starting against the same empty database can both seed. Startup runs it
// once before serving, which is enough for a single instance.
func (a *Application) SeedCatalog(ctx context.Context) (int, error) {
	return seedCatalog(ctx, a.store, DefaultCatalog())
}

func seedCatalog(ctx context.Context, store repository.Store, catalog []domain.ProductInput) (int, error) {
	count, err := store.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, p := range catalog {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			return created, err
		}
		created++
		zap.L().Info("initialized default product", zap.String("name", p.Name))
	}
	return created, nil
}
