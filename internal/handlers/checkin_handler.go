package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rollcall/internal/models"
	"rollcall/internal/services"
)

// расширения, которые принимаем как изображение
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type CheckinHandler struct {
	users    services.UserService
	checkins services.CheckinService
	uploader services.UploadService
	tmpDir   string
}

func NewCheckinHandler(users services.UserService, checkins services.CheckinService, uploader services.UploadService, tmpDir string) *CheckinHandler {
	return &CheckinHandler{
		users:    users,
		checkins: checkins,
		uploader: uploader,
		tmpDir:   tmpDir,
	}
}

// @Summary      Submit the daily check-in
// @Description  Records today's location; the first check-ins also require exactly one image file
// @Tags         Checkin
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        location  formData  string  true   "Location"
// @Param        image     formData  file    false  "Image (required until one is on file)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /checkin [post]
func (h *CheckinHandler) Submit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req models.CheckinRequest
	if err := c.ShouldBind(&req); err != nil {
		// контракт исходного API: ошибки валидатора уходят как 500
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		internalError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	hasImage, err := h.checkins.HasImageOnFile(userID)
	if err != nil {
		internalError(c, err)
		return
	}

	var image *models.ImageRef
	if !hasImage {
		// первый чекин: изображение обязательно и загружается до
		// проверки на дубль даты
		image, err = h.receiveAndUploadImage(c)
		if err != nil {
			return // ответ уже отправлен
		}
	}

	ch, err := h.checkins.CreateForToday(userID, req.Location, image)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyCheckedIn) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already enter data for today"})
			return
		}
		internalError(c, err)
		return
	}

	log.Printf("[checkin][submit] userID=%d date=%s location=%q image=%v",
		userID, ch.Date, ch.Location, ch.Image != nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "User data created successfully",
		"Data":    ch,
	})
}

// receiveAndUploadImage валидирует multipart-файл, складывает его во
// временный каталог, грузит в хранилище и удаляет временный файл на любом
// исходе. При ошибке ответ клиенту уже отправлен, возвращается (nil, err).
func (h *CheckinHandler) receiveAndUploadImage(c *gin.Context) (*models.ImageRef, error) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No logo image provided"})
		return nil, err
	}
	files := form.File["image"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No logo image provided"})
		return nil, errors.New("no image file")
	}
	if len(files) > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please upload only one image file"})
		return nil, errors.New("more than one image file")
	}

	ext := strings.ToLower(filepath.Ext(files[0].Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only image files are allowed."})
		return nil, errors.New("disallowed extension")
	}

	tmpPath := filepath.Join(h.tmpDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(files[0], tmpPath); err != nil {
		internalError(c, err)
		return nil, err
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("[checkin][upload] remove temp file %s: %v", tmpPath, err)
		}
	}()

	image, err := h.uploader.UploadImage(c.Request.Context(), tmpPath)
	if err != nil {
		internalError(c, err)
		return nil, err
	}
	return image, nil
}

// @Summary      List own check-ins
// @Tags         Checkin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /checkins [get]
func (h *CheckinHandler) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	list, err := h.checkins.ListByUser(userID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
