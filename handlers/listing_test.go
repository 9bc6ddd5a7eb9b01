package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"legal_connect_go/db"
	"legal_connect_go/models"
	"legal_connect_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateListingHandler_SanitizesInput(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleStudent)

	body := `{"kind":"housing","title":"Room near campus <script>alert(1)</script>","description":"Quiet street","city":"Prague","amount":450,"currency":"EUR"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/listings", strings.NewReader(body))
	authenticateAs(c, user)

	assert.NoError(t, CreateListingHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var listing models.Listing
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, models.ListingKindHousing, listing.Kind)
	assert.NotContains(t, listing.Title, "<script>")
	assert.Equal(t, user.ID, listing.OwnerID)
	assert.True(t, listing.IsActive)
}

func TestCreateListingHandler_RejectsInvalidKind(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleStudent)

	body := `{"kind":"car","title":"Old bike","description":"Works","city":"Prague"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/listings", strings.NewReader(body))
	authenticateAs(c, user)

	assert.NoError(t, CreateListingHandler(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var count int64
	db.DB.Model(&models.Listing{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetListingsHandler_FiltersByKind(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleStudent)

	listings := []models.Listing{
		{Kind: models.ListingKindHousing, Title: "Studio flat", Description: "d", City: "Prague", OwnerID: user.ID, IsActive: true},
		{Kind: models.ListingKindJob, Title: "Barista wanted", Description: "d", City: "Prague", OwnerID: user.ID, IsActive: true},
		{Kind: models.ListingKindHousing, Title: "Hidden", Description: "d", City: "Prague", OwnerID: user.ID, IsActive: false},
	}
	for i := range listings {
		assert.NoError(t, db.DB.Create(&listings[i]).Error)
	}

	_, c, rec := setupEcho(http.MethodGet, "/api/listings?kind=housing", nil)

	assert.NoError(t, GetListingsHandler(c))

	var response struct {
		Data []models.Listing `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "Studio flat", response.Data[0].Title)
}

func TestDeactivateListingHandler_StrangerGets404(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, models.RoleStudent)
	stranger := createUser(t, models.RoleStudent)

	listing := models.Listing{Kind: models.ListingKindJob, Title: "Tutoring", Description: "d", City: "Brno", OwnerID: owner.ID, IsActive: true}
	assert.NoError(t, db.DB.Create(&listing).Error)

	_, c, _ := setupEcho(http.MethodDelete, "/api/listings/"+listing.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(listing.ID)
	authenticateAs(c, stranger)

	err := DeactivateListingHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)

	var fresh models.Listing
	assert.NoError(t, db.DB.First(&fresh, "id = ?", listing.ID).Error)
	assert.True(t, fresh.IsActive)
}

func TestDeactivateListingHandler_AdminCanDeactivate(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, models.RoleStudent)
	admin := createUser(t, models.RoleAdmin)

	listing := models.Listing{Kind: models.ListingKindHousing, Title: "Loft", Description: "d", City: "Kyiv", OwnerID: owner.ID, IsActive: true}
	assert.NoError(t, db.DB.Create(&listing).Error)

	_, c, rec := setupEcho(http.MethodDelete, "/api/listings/"+listing.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(listing.ID)
	authenticateAs(c, admin)

	assert.NoError(t, DeactivateListingHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var fresh models.Listing
	assert.NoError(t, db.DB.First(&fresh, "id = ?", listing.ID).Error)
	assert.False(t, fresh.IsActive)
}

func TestSubscribeHandler(t *testing.T) {
	setupTestDB(t)
	assert.NoError(t, services.SeedPlans(db.DB))
	user := createUser(t, models.RoleStudent)

	_, c, rec := setupEcho(http.MethodPost, "/api/subscriptions", strings.NewReader(`{"plan_slug":"premium"}`))
	authenticateAs(c, user)

	assert.NoError(t, SubscribeHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// second subscription attempt conflicts
	_, c2, _ := setupEcho(http.MethodPost, "/api/subscriptions", strings.NewReader(`{"plan_slug":"free"}`))
	authenticateAs(c2, user)

	err := SubscribeHandler(c2)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestGetMySubscriptionHandler_FreeFallback(t *testing.T) {
	setupTestDB(t)
	assert.NoError(t, services.SeedPlans(db.DB))
	user := createUser(t, models.RoleStudent)

	_, c, rec := setupEcho(http.MethodGet, "/api/subscriptions/me", nil)
	authenticateAs(c, user)

	assert.NoError(t, GetMySubscriptionHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Plan *models.Plan `json:"plan"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotNil(t, response.Plan)
	assert.Equal(t, models.PlanFree, response.Plan.Slug)
}
