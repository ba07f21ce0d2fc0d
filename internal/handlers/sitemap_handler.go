package handlers

import (
	"encoding/xml"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/models"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapHandler renders the search-engine sitemap: static pages, category
// browse pages, and every approved listing.
type SitemapHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSitemapHandler(db *gorm.DB, cfg *config.Config) *SitemapHandler {
	return &SitemapHandler{db: db, cfg: cfg}
}

func (h *SitemapHandler) Sitemap(c *fiber.Ctx) error {
	base := h.cfg.SiteURL

	urls := []sitemapURL{
		{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: base + "/apps", ChangeFreq: "daily", Priority: "0.9"},
		{Loc: base + "/submit", ChangeFreq: "monthly", Priority: "0.5"},
	}

	var categories []models.Category
	if err := h.db.WithContext(c.Context()).Order("display_order ASC").Find(&categories).Error; err == nil {
		for _, category := range categories {
			urls = append(urls, sitemapURL{
				Loc:        base + "/apps?category=" + category.Slug,
				ChangeFreq: "daily",
				Priority:   "0.7",
			})
		}
	}

	var apps []models.App
	err := h.db.WithContext(c.Context()).
		Select("slug", "updated_at").
		Where("status = ?", models.StatusApproved).
		Order("created_at DESC").
		Find(&apps).Error
	if err == nil {
		for _, app := range apps {
			urls = append(urls, sitemapURL{
				Loc:        base + "/apps/" + app.Slug,
				LastMod:    app.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}
	}

	body, err := xml.MarshalIndent(sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(xml.Header + string(body))
}
