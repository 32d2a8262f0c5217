package routes

import (
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/services"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"

	"github.com/kataras/iris/v12"
)

// HomePayload is what the home screen renders: a featured carousel, the
// town directory, and the latest published articles.
type HomePayload struct {
	Featured []models.Property `json:"featured"`
	Towns    []models.Town     `json:"towns"`
	Articles []models.Article  `json:"articles"`
}

// homeFetcher is remembered when the home route is mounted so admin
// writes that change the payload can drop the cached copy.
var homeFetcher *services.ResilientFetcher

func invalidateHomeCache() {
	if homeFetcher != nil {
		homeFetcher.Invalidate("home")
	}
}

// GetHomeScreen serves the aggregate home payload through the given
// fetcher so a database outage degrades to cached or static data
// instead of a blank screen. The response carries the source tag.
func GetHomeScreen(fetcher *services.ResilientFetcher) iris.Handler {
	homeFetcher = fetcher
	return func(ctx iris.Context) {
		res, err := fetcher.FetchWithFallback("home",
			loadHomePayload,
			staticHomePayload,
			nil)
		if err != nil {
			ctx.StatusCode(iris.StatusServiceUnavailable)
			ctx.JSON(iris.Map{"message": "Home data unavailable"})
			return
		}

		ctx.JSON(iris.Map{
			"source": res.Source,
			"data":   res.Data,
		})
	}
}

func loadHomePayload() (interface{}, error) {
	var payload HomePayload

	err := storage.DB.Preload("Owner").
		Where("featured = true AND COALESCE(is_active, true) = true AND status = ?", "approved").
		Order("created_at DESC").
		Limit(10).
		Find(&payload.Featured).Error
	if err != nil {
		return nil, err
	}

	if err := storage.DB.Order("name ASC").Find(&payload.Towns).Error; err != nil {
		return nil, err
	}

	err = storage.DB.
		Where("published = true").
		Order("published_at DESC").
		Limit(5).
		Find(&payload.Articles).Error
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// staticHomePayload is the last-resort content shipped with the binary.
// It keeps the town directory browsable when both the database and the
// cache are unavailable.
func staticHomePayload() (interface{}, error) {
	return HomePayload{
		Featured: []models.Property{},
		Towns: []models.Town{
			{Name: "Tamarindo", Slug: "tamarindo", Beach: true},
			{Name: "Nosara", Slug: "nosara", Beach: true},
			{Name: "Playa Flamingo", Slug: "playa-flamingo", Beach: true},
			{Name: "Playas del Coco", Slug: "playas-del-coco", Beach: true},
			{Name: "Samara", Slug: "samara", Beach: true},
			{Name: "Liberia", Slug: "liberia", Inland: true},
			{Name: "Nicoya", Slug: "nicoya", Inland: true},
			{Name: "Tilaran", Slug: "tilaran", Inland: true},
		},
		Articles: []models.Article{},
	}, nil
}
