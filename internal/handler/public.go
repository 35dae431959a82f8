package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/match-ticket-reservation/internal/model"
)

const maxListingAge = time.Hour

// PublicHandler serves the unauthenticated catalogue.
type PublicHandler struct {
    Catalog CatalogAPI
}

func NewPublicHandler(catalog CatalogAPI) *PublicHandler {
    return &PublicHandler{Catalog: catalog}
}

// ListProgrammes handles GET /api/programmes: programmes dated after now,
// soonest first.
func (h *PublicHandler) ListProgrammes(c echo.Context) error {
    ctx, cancel := withTimeout(c, requestTimeout)
    defer cancel()

    list, err := h.Catalog.ListUpcoming(ctx)
    if err != nil {
        return writeError(c, err, "Erreur lors de la récupération des programmes")
    }
    if list == nil {
        list = []model.Programme{}
    }
    c.Response().Header().Set(echo.HeaderCacheControl, listingCacheControl(list, time.Now()))
    return c.JSON(http.StatusOK, list)
}

// listingCacheControl keeps a cached listing from outliving its soonest
// programme, which must drop out once it starts.
func listingCacheControl(list []model.Programme, now time.Time) string {
    if len(list) == 0 {
        return "public, max-age=" + strconv.Itoa(int(maxListingAge/time.Second))
    }
    soonest := list[0].Date
    for _, p := range list[1:] {
        if p.Date.Before(soonest) {
            soonest = p.Date
        }
    }
    secs := int(soonest.Sub(now) / time.Second)
    if secs <= 0 {
        return "no-store"
    }
    return "public, max-age=" + strconv.Itoa(min(secs, int(maxListingAge/time.Second)))
}
