package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"personafeedback/internal/delivery/http/helpers"
	"personafeedback/internal/delivery/http/middleware"
	"personafeedback/internal/domain"
)

// UpsertMessageRequest is the request body for PUT /admin/messages
type UpsertMessageRequest struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Text   string `json:"text"`
}

// Validate implements Validator.
func (u UpsertMessageRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Locale) == "" {
		errs = append(errs, "locale is required")
	}
	if strings.TrimSpace(u.Key) == "" {
		errs = append(errs, "key is required")
	}
	return errs
}

// UpsertLanguageRequest is the request body for PUT /admin/languages
type UpsertLanguageRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Validate implements Validator.
func (u UpsertLanguageRequest) Validate() []string {
	if strings.TrimSpace(u.Code) == "" {
		return []string{"code is required"}
	}
	return nil
}

// AdminController handles the admin-only message and language endpoints.
type AdminController struct {
	Logger  *slog.Logger
	Service domain.MessageService
}

// NewAdminController creates an AdminController.
func NewAdminController(logger *slog.Logger, svc domain.MessageService) *AdminController {
	return &AdminController{Logger: logger, Service: svc}
}

// UpsertMessage godoc
// @Summary Create or update a localized message
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpsertMessageRequest true "Message"
// @Success 200 {object} helpers.APIResponse "data contains the message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/messages [put]
func (c *AdminController) UpsertMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpsertMessageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	msg := &domain.UIMessage{Locale: req.Locale, Key: req.Key, Text: req.Text}
	if err := c.Service.UpsertMessage(r.Context(), userID, msg); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}

// ListMessages godoc
// @Summary List localized messages for a locale
// @Tags admin
// @Produce json
// @Param locale query string true "Locale code, e.g. en"
// @Success 200 {object} helpers.APIResponse "data contains the messages"
// @Router /admin/messages [get]
func (c *AdminController) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := c.Service.ListMessages(r.Context(), r.URL.Query().Get("locale"))
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msgs)
}

// DeleteMessage godoc
// @Summary Delete a localized message
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param locale path string true "Locale code"
// @Param key path string true "Message key"
// @Success 204 "deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/messages/{locale}/{key} [delete]
func (c *AdminController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteMessage(r.Context(), userID, r.PathValue("locale"), r.PathValue("key")); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertLanguage godoc
// @Summary Create or update a language
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpsertLanguageRequest true "Language"
// @Success 200 {object} helpers.APIResponse "data contains the language"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/languages [put]
func (c *AdminController) UpsertLanguage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpsertLanguageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	lang := &domain.Language{Code: req.Code, Name: req.Name, Enabled: req.Enabled}
	if err := c.Service.UpsertLanguage(r.Context(), userID, lang); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, lang)
}

// ListLanguages godoc
// @Summary List languages
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the languages"
// @Router /admin/languages [get]
func (c *AdminController) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := c.Service.ListLanguages(r.Context())
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, langs)
}
