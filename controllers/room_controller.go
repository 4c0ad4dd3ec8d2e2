package controllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"
)

// RoomTypePayload is the JSON form of a room type. Images may hold existing
// "/uploads/..." references or base64 data URLs to store.
type RoomTypePayload struct {
	Name               string           `json:"name" binding:"required"`
	Description        string           `json:"description"`
	Dimensions         string           `json:"dimensions"`
	Size               int              `json:"size"`
	BasePrice          decimal.Decimal  `json:"basePrice"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	TotalStock         int              `json:"totalStock"`
	MaxAdults          int              `json:"maxAdults"`
	MaxChildren        int              `json:"maxChildren"`
	MaxOccupancy       int              `json:"maxOccupancy"`
	BaseCapacity       int              `json:"baseCapacity"`
	MinOccupancy       int              `json:"minOccupancy"`
	ExtraAdultPrice    decimal.Decimal  `json:"extraAdultPrice"`
	ExtraChildPrice    decimal.Decimal  `json:"extraChildPrice"`
	Amenities          []models.Amenity `json:"amenities"`
	Furniture          []string         `json:"furniture"`
	Images             []string         `json:"images"`
	ExistingImages     []string         `json:"existingImages"`
	RemoveImages       []string         `json:"removeImages"`
}

type RoomController struct {
	RoomSvc        *services.RoomTypeService
	Inventory      *services.InventoryLedger
	Log            *zap.Logger
	MaxUploadBytes int64
}

func NewRoomController(svc *services.RoomTypeService, inventory *services.InventoryLedger, log *zap.Logger, maxUploadBytes int64) *RoomController {
	return &RoomController{RoomSvc: svc, Inventory: inventory, Log: log, MaxUploadBytes: maxUploadBytes}
}

// ----------------------------------------------------
// GET /api/admin/rooms
// ----------------------------------------------------

func (ctrl *RoomController) ListRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	rt, err := ctrl.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// ----------------------------------------------------
// GET /api/admin/rooms/:id/availability?checkIn=&checkOut=
// ----------------------------------------------------

func (ctrl *RoomController) Availability(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	checkIn, err := utils.ParseDate(c.Query("checkIn"))
	if err != nil {
		respondBadRequest(c, "checkIn: "+err.Error())
		return
	}
	checkOut, err := utils.ParseDate(c.Query("checkOut"))
	if err != nil {
		respondBadRequest(c, "checkOut: "+err.Error())
		return
	}

	avail, err := ctrl.Inventory.CheckAvailability(c.Request.Context(), id, checkIn, checkOut)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, avail)
}

// ----------------------------------------------------
// POST /api/admin/rooms  (multipart or JSON)
// ----------------------------------------------------

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	in, saved, ok := ctrl.bindRoomInput(c)
	if !ok {
		return
	}
	rt, err := ctrl.RoomSvc.Create(c.Request.Context(), in)
	if err != nil {
		ctrl.discard(saved)
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

// ----------------------------------------------------
// PUT /api/admin/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, saved, ok := ctrl.bindRoomInput(c)
	if !ok {
		return
	}
	rt, err := ctrl.RoomSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		ctrl.discard(saved)
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// ----------------------------------------------------
// DELETE /api/admin/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Room type deleted")
}

// bindRoomInput reads either body shape, stores new images and returns their references
// so they can be discarded if the service rejects the input.
func (ctrl *RoomController) bindRoomInput(c *gin.Context) (services.RoomTypeInput, []string, bool) {
	if ctrl.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.MaxUploadBytes)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return ctrl.bindMultipart(c)
	}

	var p RoomTypePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBadRequest(c, "invalid payload: "+err.Error())
		return services.RoomTypeInput{}, nil, false
	}

	in := services.RoomTypeInput{
		Name:               p.Name,
		Description:        p.Description,
		Dimensions:         p.Dimensions,
		Size:               p.Size,
		BasePrice:          p.BasePrice,
		DiscountPercentage: p.DiscountPercentage,
		TotalStock:         p.TotalStock,
		MaxAdults:          p.MaxAdults,
		MaxChildren:        p.MaxChildren,
		MaxOccupancy:       p.MaxOccupancy,
		BaseCapacity:       p.BaseCapacity,
		MinOccupancy:       p.MinOccupancy,
		ExtraAdultPrice:    p.ExtraAdultPrice,
		ExtraChildPrice:    p.ExtraChildPrice,
		Amenities:          p.Amenities,
		Furniture:          p.Furniture,
		KeepImages:         p.ExistingImages,
		RemoveImages:       p.RemoveImages,
	}

	var saved []string
	for _, img := range p.Images {
		img = strings.TrimSpace(img)
		switch {
		case img == "":
			continue
		case strings.HasPrefix(img, "/uploads/"), strings.HasPrefix(img, "http://"), strings.HasPrefix(img, "https://"):
			in.NewImages = append(in.NewImages, img)
		default:
			ref, err := ctrl.RoomSvc.Images.SaveBase64(img)
			if err != nil {
				ctrl.discard(saved)
				respondError(c, ctrl.Log, err)
				return services.RoomTypeInput{}, nil, false
			}
			saved = append(saved, ref)
			in.NewImages = append(in.NewImages, ref)
		}
	}
	return in, saved, true
}

func (ctrl *RoomController) bindMultipart(c *gin.Context) (services.RoomTypeInput, []string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "invalid multipart form: "+err.Error())
		return services.RoomTypeInput{}, nil, false
	}

	f := formReader{values: form.Value}
	in := services.RoomTypeInput{
		Name:               f.str("name"),
		Description:        f.str("description"),
		Dimensions:         f.str("dimensions"),
		Size:               f.number("size"),
		BasePrice:          f.dec("basePrice"),
		DiscountPercentage: f.dec("discountPercentage"),
		TotalStock:         f.number("totalStock"),
		MaxAdults:          f.number("maxAdults"),
		MaxChildren:        f.number("maxChildren"),
		MaxOccupancy:       f.number("maxOccupancy"),
		BaseCapacity:       f.number("baseCapacity"),
		MinOccupancy:       f.number("minOccupancy"),
		ExtraAdultPrice:    f.dec("extraAdultPrice"),
		ExtraChildPrice:    f.dec("extraChildPrice"),
		Furniture:          splitCSV(f.str("furniture")),
		KeepImages:         f.list("existingImages"),
		RemoveImages:       f.list("removeImages"),
	}
	if raw := f.str("amenities"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Amenities); err != nil {
			f.fail("amenities", err)
		}
	}
	if f.err != nil {
		respondBadRequest(c, f.err.Error())
		return services.RoomTypeInput{}, nil, false
	}

	saved, err := ctrl.saveUploads(form.File["images"])
	if err != nil {
		respondError(c, ctrl.Log, err)
		return services.RoomTypeInput{}, nil, false
	}
	in.NewImages = saved
	return in, saved, true
}

func (ctrl *RoomController) saveUploads(files []*multipart.FileHeader) ([]string, error) {
	saved := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := ctrl.RoomSvc.Images.SaveUpload(fh)
		if err != nil {
			ctrl.discard(saved)
			return nil, err
		}
		saved = append(saved, ref)
	}
	return saved, nil
}

func (ctrl *RoomController) discard(refs []string) {
	for _, ref := range refs {
		if err := ctrl.RoomSvc.Images.Remove(ref); err != nil {
			ctrl.Log.Warn("failed to discard upload", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// formReader collects the first parse error so handlers report one message.
type formReader struct {
	values map[string][]string
	err    error
}

func (f *formReader) fail(key string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("%s: %v", key, err)
	}
}

func (f *formReader) str(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (f *formReader) number(key string) int {
	raw := f.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.fail(key, err)
	}
	return n
}

func (f *formReader) dec(key string) decimal.Decimal {
	raw := f.str(key)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.fail(key, err)
	}
	return d
}

// list accepts a JSON array or repeated form fields. Absent means nil, not empty.
func (f *formReader) list(key string) []string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	if len(v) == 1 && strings.HasPrefix(strings.TrimSpace(v[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(v[0]), &out); err != nil {
			f.fail(key, err)
		}
		if out == nil {
			out = []string{}
		}
		return out
	}
	out := make([]string, 0, len(v))
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitCSV(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
