package routes

import (
	"strings"
	"time"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/models"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"
	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetArticles lists published articles, optionally filtered by kind
// (legal-guide, blog, kb).
func GetArticles(ctx iris.Context) {
	q := storage.DB.Model(&models.Article{}).Where("published = true")

	if kind := strings.TrimSpace(ctx.URLParam("kind")); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var articles []models.Article
	if err := q.Select("id, created_at, updated_at, kind, slug, title, summary, published, published_at").
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(articles)
}

// GetArticleBySlug returns one published article with its full body
func GetArticleBySlug(ctx iris.Context) {
	slug := ctx.Params().GetString("slug")

	var article models.Article
	articleExists := storage.DB.Preload("Author").
		Where("slug = ? AND published = true", slug).
		Limit(1).Find(&article)

	if articleExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if articleExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(article)
}

// CreateArticle is admin-only; the route party enforces the role
func CreateArticle(ctx iris.Context) {
	var input ArticleInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	article := models.Article{
		Kind:    input.Kind,
		Slug:    input.Slug,
		Title:   input.Title,
		Summary: input.Summary,
		Body:    input.Body,
	}
	if input.AuthorID != nil {
		article.AuthorID = input.AuthorID
	}
	if input.Published {
		now := time.Now()
		article.Published = true
		article.PublishedAt = &now
	}

	if err := storage.DB.Create(&article).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "article.create", "article", article.ID, nil, &article)
	invalidateHomeCache()
	ctx.JSON(article)
}

func UpdateArticle(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var article models.Article
	articleExists := storage.DB.Find(&article, id)
	if articleExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if articleExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input ArticleInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := article

	article.Kind = input.Kind
	article.Slug = input.Slug
	article.Title = input.Title
	article.Summary = input.Summary
	article.Body = input.Body
	if input.Published && !article.Published {
		now := time.Now()
		article.Published = true
		article.PublishedAt = &now
	} else if !input.Published {
		article.Published = false
	}

	if err := storage.DB.Save(&article).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "article.update", "article", article.ID, &before, &article)
	invalidateHomeCache()
	ctx.JSON(article)
}

func DeleteArticle(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var article models.Article
	articleExists := storage.DB.Find(&article, id)
	if articleExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Article{}, id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "article.delete", "article", article.ID, &article, nil)
	invalidateHomeCache()
	ctx.StatusCode(iris.StatusNoContent)
}

type ArticleInput struct {
	Kind      string `json:"kind" validate:"required,oneof=legal-guide blog kb"`
	Slug      string `json:"slug" validate:"required,max=160"`
	Title     string `json:"title" validate:"required,max=200"`
	Summary   string `json:"summary" validate:"max=500"`
	Body      string `json:"body" validate:"required"`
	AuthorID  *uint  `json:"authorID"`
	Published bool   `json:"published"`
}
