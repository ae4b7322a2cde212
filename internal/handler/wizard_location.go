package handler

// Location capture and prescription upload endpoints for the wizard. The
// client device owns the platform permission prompt; it reports the outcome
// here. A denied permission is surfaced as a response the client can show
// with a retry option instead of being absorbed silently.

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/location"
	"github.com/labcare/booking-gateway/internal/model"
)

// locationReport is the body of POST .../location: the outcome of the
// device's own location acquisition.
type locationReport struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"denied"`
}

// ReportLocation handles POST /v1/booking/session/:sessionID/location. On a
// granted fix the coordinate is written into the draft; on a denial the
// request fails with a retryable error and the draft stays unchanged.
func (h *WizardHandler) ReportLocation(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	var body locationReport
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	provider := location.DeviceReport{Denied: body.Denied}
	if body.Latitude != nil && body.Longitude != nil {
		provider.Coordinate = &model.Location{Latitude: *body.Latitude, Longitude: *body.Longitude}
	}

	ctx := c.Request().Context()
	coord, err := provider.AcquireCurrentLocation(ctx)
	if err != nil {
		if errors.Is(err, location.ErrPermissionDenied) {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "location permission denied",
				"retry": true,
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no location fix available", "retry": true})
	}

	sess.Draft.Location = &coord
	if err := h.Drafts.Save(ctx, sess); err != nil {
		h.Log.Error("could not save booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
	}
	return c.JSON(http.StatusOK, h.view(ctx, sess))
}

// ManualLocation handles PUT /v1/booking/session/:sessionID/location. A
// manual pin (map tap) is accepted unconditionally; no bounds or geocoding
// validation is performed.
func (h *WizardHandler) ManualLocation(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	coord := location.ManualPin(body.Latitude, body.Longitude)
	sess.Draft.Location = &coord

	ctx := c.Request().Context()
	if err := h.Drafts.Save(ctx, sess); err != nil {
		h.Log.Error("could not save booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
	}
	return c.JSON(http.StatusOK, h.view(ctx, sess))
}

// UploadPrescription handles POST /v1/booking/session/:sessionID/prescription.
// The multipart "file" part is stored under UploadDir with a generated name
// and the draft's prescription fields are set in one patch. Uploading also
// flips hasPrescription on, as attaching a file implies the declaration.
func (h *WizardHandler) UploadPrescription(c echo.Context) error {
	sess, errResp := h.loadSession(c)
	if sess == nil {
		return errResp
	}
	fileHdr, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file part is required"})
	}

	src, err := fileHdr.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read uploaded file"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Log.Error("could not create upload dir", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store prescription"})
	}
	stored := filepath.Join(h.UploadDir, uuid.New().String()+filepath.Ext(fileHdr.Filename))
	dst, err := os.Create(stored)
	if err != nil {
		h.Log.Error("could not create prescription file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store prescription"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		h.Log.Error("could not write prescription file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store prescription"})
	}

	mimeType := fileHdr.Header.Get("Content-Type")
	sess.Draft.HasPrescription = true
	sess.Draft.PrescriptionFile = &model.PrescriptionFile{
		URI:      stored,
		Name:     fileHdr.Filename,
		MimeType: mimeType,
	}

	ctx := c.Request().Context()
	if err := h.Drafts.Save(ctx, sess); err != nil {
		h.Log.Error("could not save booking session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save booking session"})
	}
	return c.JSON(http.StatusOK, h.view(ctx, sess))
}
