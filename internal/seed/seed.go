// Package seed provides the startup product catalog.
package seed

import (
	"fmt"

	"asicshop/internal/models"
	"asicshop/internal/repositories"

	"go.uber.org/zap"
)

const (
	imageA = "https://images.unsplash.com/photo-1639762681485-074b7f938ba0?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=300"
	imageB = "https://images.unsplash.com/photo-1640340434855-6084b1f4901c?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&h=300"
)

func ptr[T any](v T) *T { return &v }

func sha256Specs(hashrate, power, efficiency string) models.Specifications {
	return models.Specifications{
		"algorithm":        "SHA-256",
		"hashrate":         hashrate,
		"powerConsumption": power,
		"powerEfficiency":  efficiency,
	}
}

// Products returns a fresh copy of the default catalog.
func Products() []models.Product {
	return []models.Product{
		{
			Name: "Bitmain Antminer L9 17 GH/s", Brand: "Bitmain", Model: "Antminer L9",
			Algorithm: "Scrypt", Hashrate: "17 GH/s", PowerConsumption: 3360,
			Price: "2549.00", OldPrice: ptr("3186.00"), ImageURL: imageA,
			Description: ptr("Professional ASIC miner for Litecoin and other Scrypt coins"),
			Badge:       ptr(models.BadgeSale),
			Specifications: models.Specifications{
				"algorithm":            "Scrypt",
				"hashrate":             "17 GH/s ±5%",
				"powerConsumption":     "3360W ±5%",
				"powerEfficiency":      "0.19 J/MH ±5%",
				"operatingTemperature": "0°C to 40°C",
				"networkConnection":    "Ethernet",
				"dimensions":           "430×195.5×290.5 mm",
			},
			InStock: true,
		},
		{
			Name: "Bitmain Antminer S19 Pro 110 TH/s", Brand: "Bitmain", Model: "Antminer S19 Pro",
			Algorithm: "SHA-256", Hashrate: "110 TH/s", PowerConsumption: 3250,
			Price: "3299.00", ImageURL: imageB,
			Description:    ptr("High-performance ASIC miner for Bitcoin"),
			Specifications: sha256Specs("110 TH/s ±5%", "3250W ±5%", "29.5 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "WhatsMiner M50 118 TH/s", Brand: "MicroBT", Model: "WhatsMiner M50",
			Algorithm: "SHA-256", Hashrate: "118 TH/s", PowerConsumption: 3276,
			Price: "3499.00", ImageURL: imageA,
			Description:    ptr("Powerful MicroBT ASIC miner for Bitcoin"),
			Specifications: sha256Specs("118 TH/s ±5%", "3276W ±5%", "27.8 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "Avalon A1246 90 TH/s", Brand: "Canaan", Model: "Avalon A1246",
			Algorithm: "SHA-256", Hashrate: "90 TH/s", PowerConsumption: 3420,
			Price: "2899.00", ImageURL: imageB,
			Description:    ptr("Reliable ASIC miner from Canaan"),
			Badge:          ptr(models.BadgeNew),
			Specifications: sha256Specs("90 TH/s ±5%", "3420W ±5%", "38 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "Bitmain Antminer S19j Pro 104 TH/s", Brand: "Bitmain", Model: "Antminer S19j Pro",
			Algorithm: "SHA-256", Hashrate: "104 TH/s", PowerConsumption: 3068,
			Price: "3199.00", ImageURL: imageA,
			Description:    ptr("Energy-efficient ASIC miner for Bitcoin"),
			Specifications: sha256Specs("104 TH/s ±5%", "3068W ±5%", "29.5 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "WhatsMiner M31S+ 80 TH/s", Brand: "MicroBT", Model: "WhatsMiner M31S+",
			Algorithm: "SHA-256", Hashrate: "80 TH/s", PowerConsumption: 3472,
			Price: "2699.00", ImageURL: imageB,
			Description:    ptr("Stable ASIC miner built for long runs"),
			Specifications: sha256Specs("80 TH/s ±5%", "3472W ±5%", "43.4 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "Bitmain Antminer T19 84 TH/s", Brand: "Bitmain", Model: "Antminer T19",
			Algorithm: "SHA-256", Hashrate: "84 TH/s", PowerConsumption: 3150,
			Price: "2399.00", OldPrice: ptr("2822.00"), ImageURL: imageA,
			Description:    ptr("Affordable ASIC miner with a good price to performance ratio"),
			Badge:          ptr(models.BadgeSale),
			Specifications: sha256Specs("84 TH/s ±5%", "3150W ±5%", "37.5 J/TH ±5%"),
			InStock:        true,
		},
		{
			Name: "Avalon A1166 Pro 75 TH/s", Brand: "Canaan", Model: "Avalon A1166 Pro",
			Algorithm: "SHA-256", Hashrate: "75 TH/s", PowerConsumption: 3250,
			Price: "2599.00", ImageURL: imageB,
			Description:    ptr("Professional ASIC miner from Canaan"),
			Specifications: sha256Specs("75 TH/s ±5%", "3250W ±5%", "43.3 J/TH ±5%"),
			InStock:        true,
		},
	}
}

// Load inserts the default catalog when repo holds no products and returns
// the number of products created.
func Load(repo repositories.ProductRepository, log *zap.Logger) (int, error) {
	count, err := repo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		log.Debug("catalog already populated, skipping seed", zap.Int64("products", count))
		return 0, nil
	}

	products := Products()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
		log.Debug("seeded product", zap.Uint("id", products[i].ID), zap.String("name", products[i].Name))
	}
	log.Info("seeded catalog", zap.Int("products", len(products)))
	return len(products), nil
}
