package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"menu-api/apperr"
	"menu-api/config"
	"menu-api/models"
	"menu-api/resilience"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuItemRequest struct {
	Name            string                  `json:"name"`
	Price           *float64                `json:"price"`
	Description     string                  `json:"description"`
	FeaturedImage   string                  `json:"featuredImage"`
	Images          []string                `json:"images"`
	IsAvailable     *bool                   `json:"isAvailable"`
	Ingredients     string                  `json:"ingredients"`
	Category        string                  `json:"category"`
	PreparationTime *int                    `json:"preparationTime"`
	NutritionalInfo *models.NutritionalInfo `json:"nutritionalInfo"`
	Allergens       []string                `json:"allergens"`
	SpicyLevel      *int                    `json:"spicyLevel"`
}

var errItemNotFound = apperr.NotFound("Menu item not found")

const errDuplicateItemName = "A menu item with this name already exists"

// CreateMenuItem adds a new item to the catalog. Admin only.
func CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	if req.Price == nil {
		fail(c, apperr.InvalidInput("Validation failed", "price is required"))
		return
	}

	category, _ := models.ParseCategory(req.Category)
	item := models.MenuItem{
		Name:            strings.TrimSpace(req.Name),
		Price:           *req.Price,
		Description:     req.Description,
		FeaturedImage:   req.FeaturedImage,
		Images:          req.Images,
		IsAvailable:     true,
		Ingredients:     req.Ingredients,
		Category:        category,
		PreparationTime: req.PreparationTime,
		NutritionalInfo: req.NutritionalInfo,
		Allergens:       req.Allergens,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.SpicyLevel != nil {
		item.SpicyLevel = *req.SpicyLevel
	}

	if errs := item.Validate(); len(errs) > 0 {
		fail(c, apperr.InvalidInput("Validation failed", errs...))
		return
	}

	err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		var existing models.MenuItem
		if err := config.DB.WithContext(ctx).Where("name = ?", item.Name).First(&existing).Error; err == nil {
			return apperr.Conflict(errDuplicateItemName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return asConflict(config.DB.WithContext(ctx).Create(&item).Error, errDuplicateItemName)
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 201, gin.H{"message": "Menu item created", "data": item})
}

// GetMenuItem returns a single item by id.
func GetMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	var item models.MenuItem
	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		return notFound(config.DB.WithContext(ctx).First(&item, id).Error, errItemNotFound)
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 200, gin.H{"data": item})
}

// Immutable fields are silently stripped from update payloads; any
// other key outside the schema is rejected.
var immutableFields = map[string]bool{"id": true, "createdAt": true, "updatedAt": true}

// UpdateMenuItem applies a partial update. Admin only. Unknown fields
// are rejected rather than written through, and the merged record must
// satisfy the same constraints as creation.
func UpdateMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, bindError(err))
		return
	}

	var item models.MenuItem
	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		return notFound(config.DB.WithContext(ctx).First(&item, id).Error, errItemNotFound)
	})
	if err != nil {
		fail(c, err)
		return
	}

	previousName := item.Name
	if errs := applyPatch(&item, patch); len(errs) > 0 {
		fail(c, apperr.InvalidInput("Validation failed", errs...))
		return
	}
	item.Name = strings.TrimSpace(item.Name)

	if errs := item.Validate(); len(errs) > 0 {
		fail(c, apperr.InvalidInput("Validation failed", errs...))
		return
	}

	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		if item.Name != previousName {
			var existing models.MenuItem
			if err := config.DB.WithContext(ctx).Where("name = ?", item.Name).First(&existing).Error; err == nil {
				return apperr.Conflict(errDuplicateItemName)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return asConflict(config.DB.WithContext(ctx).Save(&item).Error, errDuplicateItemName)
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 200, gin.H{"message": "Menu item updated", "data": item})
}

// DeleteMenuItem removes an item and returns the deleted record. Admin only.
func DeleteMenuItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	var item models.MenuItem
	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		if err := config.DB.WithContext(ctx).First(&item, id).Error; err != nil {
			return notFound(err, errItemNotFound)
		}
		return config.DB.WithContext(ctx).Delete(&item).Error
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 200, gin.H{"message": "Menu item deleted", "data": item})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.InvalidInput("Invalid menu item id")
	}
	return uint(id), nil
}

// applyPatch writes recognized fields onto the item. It returns one
// message per unknown field or per value of the wrong type.
func applyPatch(item *models.MenuItem, patch map[string]json.RawMessage) []string {
	var errs []string

	setField := func(key string, raw json.RawMessage, dst interface{}) {
		if err := json.Unmarshal(raw, dst); err != nil {
			errs = append(errs, fmt.Sprintf("field %q has an invalid value", key))
		}
	}

	for key, raw := range patch {
		if immutableFields[key] {
			continue
		}
		switch key {
		case "name":
			setField(key, raw, &item.Name)
		case "price":
			setField(key, raw, &item.Price)
		case "description":
			setField(key, raw, &item.Description)
		case "featuredImage":
			setField(key, raw, &item.FeaturedImage)
		case "images":
			setField(key, raw, &item.Images)
		case "isAvailable":
			setField(key, raw, &item.IsAvailable)
		case "ingredients":
			setField(key, raw, &item.Ingredients)
		case "category":
			var s string
			setField(key, raw, &s)
			item.Category, _ = models.ParseCategory(s)
		case "preparationTime":
			setField(key, raw, &item.PreparationTime)
		case "nutritionalInfo":
			setField(key, raw, &item.NutritionalInfo)
		case "allergens":
			setField(key, raw, &item.Allergens)
		case "spicyLevel":
			setField(key, raw, &item.SpicyLevel)
		default:
			errs = append(errs, fmt.Sprintf("unknown field %q", key))
		}
	}

	return errs
}
