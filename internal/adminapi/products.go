package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/productdesk/internal/domain"
	"github.com/talkincode/productdesk/internal/view"
	"github.com/talkincode/productdesk/internal/webserver"
	"go.uber.org/zap"
)

// ViewportHeader is the client hint carrying the viewport width in CSS pixels
const ViewportHeader = "Sec-CH-Viewport-Width"

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPOST("/products/:id/edit", beginEdit)
	webserver.ApiDELETE("/products/edit", cancelEdit)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

type listResponse struct {
	Layout     view.Mode  `json:"layout"`
	Search     string     `json:"search"`
	Count      int        `json:"count"`
	CountLabel string     `json:"count_label"`
	Items      []view.Row `json:"items"`
}

// listProducts returns the filtered view. A q parameter, even an empty
// one, replaces the search term first.
func listProducts(c echo.Context) error {
	ctl := GetController(c)
	var products []domain.Product
	if _, has := c.QueryParams()["q"]; has {
		products = ctl.Search(strings.TrimSpace(c.QueryParam("q")))
	} else {
		products = ctl.View()
	}

	width := cast.ToInt(c.Request().Header.Get(ViewportHeader))
	if w := c.QueryParam("width"); w != "" {
		width = cast.ToInt(w)
	}
	layout := view.ModeTable
	if width > 0 {
		layout = view.Layout(width, GetConfig(c).UI.WebBreakpoint)
	}
	c.Response().Header().Add("Vary", ViewportHeader)

	return ok(c, listResponse{
		Layout:     layout,
		Search:     ctl.SearchTerm(),
		Count:      len(products),
		CountLabel: view.CountLabel(len(products)),
		Items:      view.Rows(products),
	})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func getProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, found := GetController(c).Get(id)
	if !found {
		return fail(c, http.StatusNotFound, string(domain.CodeNotFound), "Product not found", nil)
	}
	return ok(c, p)
}

func bindDraft(c echo.Context) (domain.ProductDraft, error) {
	var draft domain.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return draft, err
	}
	return draft, nil
}

func createProduct(c echo.Context) error {
	draft, err := bindDraft(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p, err := GetController(c).Create(c.Request().Context(), draft)
	if err != nil {
		if domain.IsCode(err, domain.CodeStorageQuota) {
			// kept in memory, report it alongside the error
			return failErr(c, err, p)
		}
		return failErr(c, err, nil)
	}
	return created(c, p)
}

func beginEdit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetController(c).BeginEditByID(id)
	if err != nil {
		return failErr(c, err, nil)
	}
	return ok(c, p)
}

func cancelEdit(c echo.Context) error {
	GetController(c).CancelEdit()
	return ok(c, map[string]interface{}{"editing": false})
}

func updateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	draft, err := bindDraft(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	p, err := GetController(c).UpdateByID(c.Request().Context(), id, draft)
	if err != nil {
		if domain.IsCode(err, domain.CodeStorageQuota) {
			return failErr(c, err, p)
		}
		zap.L().Warn("adminapi: update failed", zap.Int64("id", id), zap.Error(err))
		return failErr(c, err, nil)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetController(c).Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err, nil)
	}
	return ok(c, map[string]interface{}{"id": id, "deleted": true})
}
