package handlers

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"strings"

	"menu-api/apperr"
	"menu-api/config"
	"menu-api/models"
	"menu-api/resilience"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// sortColumns is the allow-list of sortable fields; anything else falls
// back to creation time.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"category":  "category",
}

// safeFields is the allow-list for the fields projection parameter.
var safeFields = map[string]bool{
	"id": true, "name": true, "price": true, "description": true,
	"featuredImage": true, "images": true, "isAvailable": true,
	"ingredients": true, "category": true, "preparationTime": true,
	"nutritionalInfo": true, "allergens": true, "spicyLevel": true,
	"createdAt": true, "updatedAt": true,
}

type priceStats struct {
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	AvgPrice float64 `json:"avgPrice"`
}

type listParams struct {
	q           string
	category    string
	isAvailable *bool
	minPrice    *float64
	maxPrice    *float64
	sortBy      string
	sortOrder   string
	page        int
	limit       int
	fields      []string
	includeMeta bool
}

func parseListParams(c *gin.Context) (*listParams, error) {
	p := &listParams{
		q:           strings.TrimSpace(c.Query("q")),
		sortBy:      "createdAt",
		sortOrder:   "desc",
		page:        1,
		limit:       defaultLimit,
		includeMeta: c.Query("includeMeta") == "true",
	}
	var errs []string

	if raw := c.Query("category"); raw != "" {
		// Canonicalized so ?category=special matches stored SPECIAL.
		cat, _ := models.ParseCategory(raw)
		p.category = string(cat)
	}
	if raw := c.Query("isAvailable"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, "isAvailable must be true or false")
		} else {
			p.isAvailable = &b
		}
	}
	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, "minPrice must be a number")
		} else {
			p.minPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, "maxPrice must be a number")
		} else {
			p.maxPrice = &v
		}
	}
	if len(errs) > 0 {
		return nil, apperr.InvalidInput("Invalid query parameters", errs...)
	}

	if _, ok := sortColumns[c.Query("sortBy")]; ok {
		p.sortBy = c.Query("sortBy")
	}
	if c.Query("sortOrder") == "asc" {
		p.sortOrder = "asc"
	}

	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 1 {
		p.page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		switch {
		case n < 1:
			p.limit = 1
		case n > maxLimit:
			p.limit = maxLimit
		default:
			p.limit = n
		}
	}

	if raw := c.Query("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if safeFields[f] {
				p.fields = append(p.fields, f)
			}
		}
	}

	return p, nil
}

func (p *listParams) filtered(ctx context.Context) *gorm.DB {
	db := config.DB.WithContext(ctx).Model(&models.MenuItem{})
	if p.q != "" {
		pat := "%" + p.q + "%"
		db = db.Where("name LIKE ? OR description LIKE ? OR ingredients LIKE ?", pat, pat, pat)
	}
	if p.category != "" {
		db = db.Where("category = ?", p.category)
	}
	if p.isAvailable != nil {
		db = db.Where("is_available = ?", *p.isAvailable)
	}
	if p.minPrice != nil {
		db = db.Where("price >= ?", *p.minPrice)
	}
	if p.maxPrice != nil {
		db = db.Where("price <= ?", *p.maxPrice)
	}
	return db
}

func (p *listParams) echo() gin.H {
	filters := gin.H{
		"sortBy":    p.sortBy,
		"sortOrder": p.sortOrder,
	}
	if p.q != "" {
		filters["q"] = p.q
	}
	if p.category != "" {
		filters["category"] = p.category
	}
	if p.isAvailable != nil {
		filters["isAvailable"] = *p.isAvailable
	}
	if p.minPrice != nil {
		filters["minPrice"] = *p.minPrice
	}
	if p.maxPrice != nil {
		filters["maxPrice"] = *p.maxPrice
	}
	return filters
}

// ListMenu serves the filtered, sorted, paginated catalog listing with
// optional full-text search, field projection and aggregate metadata.
func ListMenu(c *gin.Context) {
	p, err := parseListParams(c)
	if err != nil {
		fail(c, err)
		return
	}

	items := []models.MenuItem{}
	var (
		total int64
		cats  []string
		stats priceStats
	)

	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		if err := p.filtered(ctx).Count(&total).Error; err != nil {
			return err
		}

		q := p.filtered(ctx)
		if p.q != "" {
			// Relevance first: a name hit outranks a hit in the
			// description or ingredients. Ties break on recency.
			pat := "%" + p.q + "%"
			q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "CASE WHEN name LIKE ? THEN 0 WHEN description LIKE ? THEN 1 ELSE 2 END, created_at DESC",
				Vars:               []interface{}{pat, pat},
				WithoutParentheses: true,
			}})
		} else {
			q = q.Order(sortColumns[p.sortBy] + " " + p.sortOrder)
		}
		if err := q.Offset((p.page - 1) * p.limit).Limit(p.limit).Find(&items).Error; err != nil {
			return err
		}

		if !p.includeMeta {
			return nil
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cats, err = fetchCategories(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			stats, err = fetchPriceStats(gctx)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		fail(c, err)
		return
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(p.limit) - 1) / int64(p.limit))
	}

	body := gin.H{
		"data": projectItems(items, p.fields),
		"pagination": gin.H{
			"currentPage":  p.page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": p.limit,
			"hasNextPage":  p.page < totalPages,
			"hasPrevPage":  p.page > 1,
		},
		"filters": p.echo(),
	}
	if p.q != "" {
		body["search"] = gin.H{"query": p.q, "resultsFound": total}
	}
	if p.includeMeta {
		body["meta"] = gin.H{"categories": cats, "priceRange": stats}
	}

	respond(c, 200, body)
}

// GetCategories returns the sorted distinct category list.
func GetCategories(c *gin.Context) {
	var cats []string
	err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		var err error
		cats, err = fetchCategories(ctx)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, 200, gin.H{"data": cats})
}

// GetPriceRange returns aggregate price statistics for the catalog.
func GetPriceRange(c *gin.Context) {
	var stats priceStats
	err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		var err error
		stats, err = fetchPriceStats(ctx)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, 200, gin.H{"data": stats})
}

func fetchCategories(ctx context.Context) ([]string, error) {
	cats := []string{}
	err := config.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Distinct().Order("category asc").Pluck("category", &cats).Error
	return cats, err
}

func fetchPriceStats(ctx context.Context) (priceStats, error) {
	var row struct {
		Min sql.NullFloat64
		Max sql.NullFloat64
		Avg sql.NullFloat64
	}
	err := config.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Select("MIN(price) AS min, MAX(price) AS max, AVG(price) AS avg").
		Scan(&row).Error
	if err != nil {
		return priceStats{}, err
	}

	// Zeros on an empty catalog.
	var stats priceStats
	if row.Min.Valid {
		stats.MinPrice = math.Floor(row.Min.Float64)
	}
	if row.Max.Valid {
		stats.MaxPrice = math.Ceil(row.Max.Float64)
	}
	if row.Avg.Valid {
		stats.AvgPrice = math.Round(row.Avg.Float64*100) / 100
	}
	return stats, nil
}

// projectItems narrows records to the requested safe fields. An empty
// field list means full records.
func projectItems(items []models.MenuItem, fields []string) interface{} {
	if len(fields) == 0 {
		return items
	}

	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		row := gin.H{}
		for _, f := range fields {
			switch f {
			case "id":
				row[f] = it.ID
			case "name":
				row[f] = it.Name
			case "price":
				row[f] = it.Price
			case "description":
				row[f] = it.Description
			case "featuredImage":
				row[f] = it.FeaturedImage
			case "images":
				row[f] = it.Images
			case "isAvailable":
				row[f] = it.IsAvailable
			case "ingredients":
				row[f] = it.Ingredients
			case "category":
				row[f] = it.Category
			case "preparationTime":
				row[f] = it.PreparationTime
			case "nutritionalInfo":
				row[f] = it.NutritionalInfo
			case "allergens":
				row[f] = it.Allergens
			case "spicyLevel":
				row[f] = it.SpicyLevel
			case "createdAt":
				row[f] = it.CreatedAt
			case "updatedAt":
				row[f] = it.UpdatedAt
			}
		}
		out = append(out, row)
	}
	return out
}
