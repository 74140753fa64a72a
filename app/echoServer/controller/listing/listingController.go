package listing

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"campuscloset/app/echoServer/jwtx"
	"campuscloset/app/echoServer/respond"
	"campuscloset/model"
	listingsvc "campuscloset/service/listing"

	"github.com/labstack/echo/v4"
)

// MaxImageBytes caps a single listing photo.
const MaxImageBytes = 10 << 20

type Controller struct {
	Svc listingsvc.Service
	Log *slog.Logger
}

// Create
// @Summary      Post a listing
// @Description  Multipart form with the listing fields and one image file
// @Tags         listings
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title             formData  string  true  "Title"
// @Param        size              formData  string  true  "XS, S, M, L, XL or XXL"
// @Param        itemType          formData  string  true  "Item type"
// @Param        condition         formData  string  true  "Condition"
// @Param        washInstructions  formData  string  true  "Wash instructions"
// @Param        startDate         formData  string  true  "YYYY-MM-DD or RFC3339"
// @Param        endDate           formData  string  true  "YYYY-MM-DD or RFC3339"
// @Param        pricePerDay       formData  number  true  "Price per day"
// @Param        image             formData  file    true  "Photo"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any "user not found"
// @Failure      500  {object}  map[string]any
// @Router       /listings [post]
func (h *Controller) Create(c echo.Context) error {
	email := jwtx.EmailFromContext(c)
	if email == "" {
		return respond.Error(c, http.StatusUnauthorized, "User authentication required")
	}

	var form CreateListingForm
	if err := c.Bind(&form); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, "invalid form")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "Image is required")
	}
	if fh.Size > MaxImageBytes {
		return respond.Error(c, http.StatusBadRequest, "Image must be 10MB or smaller")
	}
	img, err := readUpload(fh)
	if err != nil {
		h.Log.Warn("read upload failed", "path", c.Path(), "err", err)
		return respond.Error(c, http.StatusBadRequest, "Could not read image")
	}

	fields, msg := form.fields()
	if msg != "" {
		return respond.Error(c, http.StatusBadRequest, msg)
	}

	l, err := h.Svc.Create(c.Request().Context(), email, fields, img)
	if err != nil {
		return respond.Fail(c, h.Log, "create listing", err)
	}
	return respond.OK(c, echo.Map{"message": "Listing posted successfully", "listing": l})
}

// Search
// @Summary      Search listings
// @Description  Case-insensitive substring match on title, size, item type and condition. Empty query lists everything.
// @Tags         listings
// @Produce      json
// @Param        query  query  string  false  "Search text"
// @Param        sort   query  string  false  "newest, price_asc or price_desc"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /search [get]
func (h *Controller) Search(c echo.Context) error {
	sort := model.ListingSort(strings.ToLower(strings.TrimSpace(c.QueryParam("sort"))))
	out, err := h.Svc.Search(c.Request().Context(), c.QueryParam("query"), sort)
	if err != nil {
		return respond.Fail(c, h.Log, "search listings", err)
	}
	return respond.OK(c, echo.Map{"listings": out})
}

// Detail
// @Summary      Get listing
// @Tags         listings
// @Produce      json
// @Param        id  path  int  true  "Listing ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /listings/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return respond.Error(c, http.StatusBadRequest, "invalid id")
	}
	l, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return respond.Fail(c, h.Log, "get listing", err)
	}
	return respond.OK(c, echo.Map{"listing": l})
}

func (f CreateListingForm) fields() (listingsvc.Fields, string) {
	start, err := model.ParseDate(f.StartDate)
	if err != nil {
		return listingsvc.Fields{}, "Invalid start date"
	}
	end, err := model.ParseDate(f.EndDate)
	if err != nil {
		return listingsvc.Fields{}, "Invalid end date"
	}
	var price float64
	if p := strings.TrimSpace(f.PricePerDay); p != "" {
		if price, err = strconv.ParseFloat(p, 64); err != nil {
			return listingsvc.Fields{}, "Invalid price per day"
		}
	}
	return listingsvc.Fields{
		Title:            f.Title,
		Size:             f.Size,
		ItemType:         f.ItemType,
		Condition:        f.Condition,
		WashInstructions: f.WashInstructions,
		StartDate:        start,
		EndDate:          end,
		PricePerDay:      price,
	}, ""
}

func readUpload(fh *multipart.FileHeader) (*listingsvc.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	mime := fh.Header.Get(echo.HeaderContentType)
	if mime == "" || mime == echo.MIMEOctetStream {
		mime = http.DetectContentType(data)
	}
	return &listingsvc.Upload{Data: data, Name: fh.Filename, MimeType: mime}, nil
}
