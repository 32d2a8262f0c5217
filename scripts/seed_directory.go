package main

import (
	"fmt"
	"log"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"

	"gorm.io/datatypes"
)

// Seeds the town directory, the default map overlays, and the legal
// buying guides. Safe to re-run: existing slugs are left untouched.
func main() {
	storage.InitializeDB()

	if err := seedTowns(); err != nil {
		log.Fatalf("Error seeding towns: %v", err)
	}
	if err := seedOverlays(); err != nil {
		log.Fatalf("Error seeding overlays: %v", err)
	}
	if err := seedArticles(); err != nil {
		log.Fatalf("Error seeding articles: %v", err)
	}

	fmt.Println("Directory seed completed successfully!")
}

func seedTowns() error {
	towns := []models.Town{
		{Name: "Tamarindo", Slug: "tamarindo", Blurb: "Surf town with the busiest expat market on the coast.", Lat: 10.2993, Lng: -85.8371, Beach: true},
		{Name: "Nosara", Slug: "nosara", Blurb: "Yoga and surf community around Playa Guiones.", Lat: 9.9794, Lng: -85.6530, Beach: true},
		{Name: "Playa Flamingo", Slug: "playa-flamingo", Blurb: "Marina town with high-end hillside homes.", Lat: 10.4320, Lng: -85.7858, Beach: true},
		{Name: "Playas del Coco", Slug: "playas-del-coco", Blurb: "Established beach town close to the Liberia airport.", Lat: 10.5500, Lng: -85.7000, Beach: true},
		{Name: "Samara", Slug: "samara", Blurb: "Quiet bay town popular with families.", Lat: 9.8816, Lng: -85.5281, Beach: true},
		{Name: "Potrero", Slug: "potrero", Blurb: "Low-key beach community north of Flamingo.", Lat: 10.4461, Lng: -85.7800, Beach: true},
		{Name: "Liberia", Slug: "liberia", Blurb: "Provincial capital and gateway airport city.", Lat: 10.6340, Lng: -85.4377, Inland: true},
		{Name: "Nicoya", Slug: "nicoya", Blurb: "Historic inland town serving the peninsula.", Lat: 10.1483, Lng: -85.4520, Inland: true},
		{Name: "Tilaran", Slug: "tilaran", Blurb: "Highland town near Lake Arenal's windsurf coast.", Lat: 10.4622, Lng: -84.9684, Inland: true},
	}

	for _, town := range towns {
		var existing models.Town
		res := storage.DB.Where("slug = ?", town.Slug).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			continue
		}
		if err := storage.DB.Create(&town).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedOverlays() error {
	overlays := []models.Overlay{
		{
			Slug:        "maritime-zone",
			Name:        "Maritime Terrestrial Zone",
			Kind:        "maritime_zone",
			Description: "First 200m from the high tide line. The first 50m is public; the next 150m is concession land that cannot be titled.",
			GeoJSON:     datatypes.JSON([]byte(`{"type":"FeatureCollection","features":[]}`)),
			Enabled:     true,
		},
		{
			Slug:        "nicoya-aquifers",
			Name:        "Protected Aquifer Recharge Areas",
			Kind:        "aquifer",
			Description: "Recharge zones where municipal water letters are routinely denied.",
			GeoJSON:     datatypes.JSON([]byte(`{"type":"FeatureCollection","features":[]}`)),
			Enabled:     true,
		},
	}

	for _, overlay := range overlays {
		var existing models.Overlay
		res := storage.DB.Where("slug = ?", overlay.Slug).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			continue
		}
		if err := storage.DB.Create(&overlay).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedArticles() error {
	now := time.Now()
	articles := []models.Article{
		{
			Kind:        "legal-guide",
			Slug:        "titled-vs-concession",
			Title:       "Titled Land vs Maritime Concessions",
			Summary:     "What fee-simple title means in Costa Rica and why beachfront 'ownership' is usually a concession.",
			Body:        "Most land in Guanacaste is held in fee simple and registered at the Registro Nacional...",
			Published:   true,
			PublishedAt: &now,
		},
		{
			Kind:        "legal-guide",
			Slug:        "buying-process",
			Title:       "The Buying Process for Foreigners",
			Summary:     "Offer, due diligence, escrow and closing: the standard path to a Guanacaste purchase.",
			Body:        "Foreigners have the same property rights as citizens for titled land...",
			Published:   true,
			PublishedAt: &now,
		},
		{
			Kind:        "kb",
			Slug:        "water-letters",
			Title:       "Water Letters and Why They Matter",
			Summary:     "No carta de agua, no building permit. How to verify water availability before you buy.",
			Body:        "A water availability letter from the local ASADA or AyA is required for construction permits...",
			Published:   true,
			PublishedAt: &now,
		},
	}

	for _, article := range articles {
		var existing models.Article
		res := storage.DB.Where("slug = ?", article.Slug).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			continue
		}
		if err := storage.DB.Create(&article).Error; err != nil {
			return err
		}
	}
	return nil
}
