package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/internal/app/service"
	"github.com/heladeria/flavor-catalog/internal/middleware"
	"github.com/heladeria/flavor-catalog/internal/session"
	"github.com/heladeria/flavor-catalog/internal/spreadsheet"
)

const (
	adminFlavorsPath = "/admin/flavors"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PageController serves the server-rendered catalog and the admin forms.
type PageController struct {
	flavorService service.FlavorService
	flashes       *session.FlashStore
}

func NewPageController(flavorService service.FlavorService, flashes *session.FlashStore) *PageController {
	return &PageController{
		flavorService: flavorService,
		flashes:       flashes,
	}
}

// FlavorForm is the admin form as submitted. Values stay strings so a bad
// submission can be re-rendered exactly as typed.
type FlavorForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Available   string `form:"available"`
	ImagePath   string `form:"image_path"`
}

// formValues is what flavor_form.html renders.
type formValues struct {
	Name        string
	Description string
	Price       string
	Available   bool
	ImagePath   string
}

func (f FlavorForm) values() formValues {
	return formValues{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Available:   f.Available != "",
		ImagePath:   f.ImagePath,
	}
}

// input converts the form into the same FlavorInput the JSON API uses. Every
// field is present: an unchecked box means unavailable and an empty image path
// falls back to the default image.
func (f FlavorForm) input() (service.FlavorInput, error) {
	name := f.Name
	description := f.Description
	available := f.Available != ""
	imagePath := strings.TrimSpace(f.ImagePath)
	if imagePath == "" {
		imagePath = model.DefaultImagePath
	}

	in := service.FlavorInput{
		Name:        &name,
		Description: &description,
		Available:   &available,
		ImagePath:   &imagePath,
	}

	priceStr := strings.TrimSpace(f.Price)
	if priceStr == "" {
		return in, &service.ValidationError{Field: "price", Message: "name and price are required, and price must be positive"}
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return in, &service.ValidationError{Field: "price", Message: "price must be a positive number"}
	}
	in.Price = &price
	return in, nil
}

func flavorFormValues(f *model.Flavor) formValues {
	return formValues{
		Name:        f.Name,
		Description: f.DescriptionText(),
		Price:       strconv.FormatFloat(f.Price, 'f', -1, 64),
		Available:   f.Available,
		ImagePath:   f.ImagePath,
	}
}

func (ctrl *PageController) render(c *gin.Context, status int, name string, data gin.H) {
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = ctrl.flashes.Pop(c)
	}
	c.HTML(status, name, data)
}

func (ctrl *PageController) notFound(c *gin.Context, message string) {
	ctrl.render(c, http.StatusNotFound, "not_found.html", gin.H{
		"Title":   "Not found",
		"Message": message,
	})
}

func (ctrl *PageController) serverError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Error("Failed to render page", err, nil)
	c.String(http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// NotFound renders the 404 page for unknown paths.
func (ctrl *PageController) NotFound(c *gin.Context) {
	ctrl.notFound(c, "")
}

// pageFlavorID parses :id; anything unparsable is treated as a missing page.
func (ctrl *PageController) pageFlavorID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ctrl.notFound(c, "")
		return 0, false
	}
	return uint(id), true
}

// Home renders the landing page
// GET /
func (ctrl *PageController) Home(c *gin.Context) {
	ctrl.render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Heladería",
	})
}

// Catalog lists available flavors sorted by name
// GET /catalog
func (ctrl *PageController) Catalog(c *gin.Context) {
	flavors, err := ctrl.flavorService.ListFlavors(c.Request.Context(), service.AvailableOnly())
	if err != nil {
		ctrl.serverError(c, err)
		return
	}
	ctrl.render(c, http.StatusOK, "catalog.html", gin.H{
		"Title":   "Catalog",
		"Flavors": flavors,
	})
}

// FlavorDetail shows one flavor
// GET /catalog/:id
func (ctrl *PageController) FlavorDetail(c *gin.Context) {
	id, ok := ctrl.pageFlavorID(c)
	if !ok {
		return
	}

	flavor, err := ctrl.flavorService.GetFlavor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFlavorNotFound) {
			ctrl.notFound(c, "That flavor does not exist.")
			return
		}
		ctrl.serverError(c, err)
		return
	}
	ctrl.render(c, http.StatusOK, "flavor_detail.html", gin.H{
		"Title":  flavor.Name,
		"Flavor": flavor,
	})
}

// AdminFlavors lists every flavor for management
// GET /admin/flavors
func (ctrl *PageController) AdminFlavors(c *gin.Context) {
	flavors, err := ctrl.flavorService.ListFlavors(c.Request.Context(), service.ListOptions{})
	if err != nil {
		ctrl.serverError(c, err)
		return
	}
	ctrl.render(c, http.StatusOK, "admin_flavors.html", gin.H{
		"Title":   "Manage flavors",
		"Flavors": flavors,
	})
}

func (ctrl *PageController) renderForm(c *gin.Context, status int, title, action string, values formValues, flashes []session.Flash) {
	data := gin.H{
		"Title":  title,
		"Action": action,
		"Form":   values,
	}
	if flashes != nil {
		data["Flashes"] = flashes
	}
	ctrl.render(c, status, "flavor_form.html", data)
}

// NewFlavorForm renders an empty form
// GET /admin/flavors/new
func (ctrl *PageController) NewFlavorForm(c *gin.Context) {
	ctrl.renderForm(c, http.StatusOK, "Add flavor", adminFlavorsPath+"/new", formValues{
		Available: true,
		ImagePath: model.DefaultImagePath,
	}, nil)
}

// CreateFlavorForm validates the form and creates the flavor
// POST /admin/flavors/new
func (ctrl *PageController) CreateFlavorForm(c *gin.Context) {
	var form FlavorForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.renderForm(c, http.StatusBadRequest, "Add flavor", adminFlavorsPath+"/new", form.values(),
			[]session.Flash{{Category: session.CategoryDanger, Message: "Error: the form could not be read."}})
		return
	}

	in, err := form.input()
	if err == nil {
		_, err = ctrl.flavorService.CreateFlavor(c.Request.Context(), in)
	}
	if err != nil {
		ctrl.renderForm(c, flavorErrorStatus(err), "Add flavor", adminFlavorsPath+"/new", form.values(),
			[]session.Flash{{Category: session.CategoryDanger, Message: flavorErrorMessage(err)}})
		return
	}

	ctrl.flashes.Add(c, session.CategorySuccess, fmt.Sprintf("Flavor %q added successfully.", strings.TrimSpace(form.Name)))
	c.Redirect(http.StatusFound, adminFlavorsPath)
}

// EditFlavorForm renders the form filled with the stored flavor
// GET /admin/flavors/:id/edit
func (ctrl *PageController) EditFlavorForm(c *gin.Context) {
	id, ok := ctrl.pageFlavorID(c)
	if !ok {
		return
	}

	flavor, err := ctrl.flavorService.GetFlavor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFlavorNotFound) {
			ctrl.notFound(c, "That flavor does not exist.")
			return
		}
		ctrl.serverError(c, err)
		return
	}

	ctrl.renderForm(c, http.StatusOK, "Edit "+flavor.Name, editAction(id), flavorFormValues(flavor), nil)
}

// UpdateFlavorForm validates the form and saves the flavor
// POST /admin/flavors/:id/edit
func (ctrl *PageController) UpdateFlavorForm(c *gin.Context) {
	id, ok := ctrl.pageFlavorID(c)
	if !ok {
		return
	}

	var form FlavorForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.renderForm(c, http.StatusBadRequest, "Edit flavor", editAction(id), form.values(),
			[]session.Flash{{Category: session.CategoryDanger, Message: "Error: the form could not be read."}})
		return
	}

	in, err := form.input()
	if err == nil {
		_, err = ctrl.flavorService.UpdateFlavor(c.Request.Context(), id, in)
	}
	if err != nil {
		if errors.Is(err, service.ErrFlavorNotFound) {
			ctrl.notFound(c, "That flavor does not exist.")
			return
		}
		ctrl.renderForm(c, flavorErrorStatus(err), "Edit flavor", editAction(id), form.values(),
			[]session.Flash{{Category: session.CategoryDanger, Message: flavorErrorMessage(err)}})
		return
	}

	ctrl.flashes.Add(c, session.CategorySuccess, fmt.Sprintf("Flavor %q updated successfully.", strings.TrimSpace(form.Name)))
	c.Redirect(http.StatusFound, adminFlavorsPath)
}

// DeleteFlavorForm deletes the flavor and returns to the admin list
// POST /admin/flavors/:id/delete
func (ctrl *PageController) DeleteFlavorForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ctrl.flashes.Add(c, session.CategoryDanger, "Error: invalid flavor id.")
		c.Redirect(http.StatusFound, adminFlavorsPath)
		return
	}

	deleted, err := ctrl.flavorService.DeleteFlavor(c.Request.Context(), uint(id))
	if err != nil {
		ctrl.flashes.Add(c, session.CategoryDanger, flavorErrorMessage(err))
		c.Redirect(http.StatusFound, adminFlavorsPath)
		return
	}

	ctrl.flashes.Add(c, session.CategoryInfo, fmt.Sprintf("Flavor %q deleted.", deleted.Name))
	c.Redirect(http.StatusFound, adminFlavorsPath)
}

// ExportFlavors downloads the whole catalog as a spreadsheet
// GET /admin/flavors/export.xlsx
func (ctrl *PageController) ExportFlavors(c *gin.Context) {
	flavors, err := ctrl.flavorService.ListFlavors(c.Request.Context(), service.ListOptions{})
	if err != nil {
		ctrl.serverError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteFlavors(&buf, flavors); err != nil {
		ctrl.serverError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="flavors.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func editAction(id uint) string {
	return fmt.Sprintf("%s/%d/edit", adminFlavorsPath, id)
}
