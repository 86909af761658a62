package certificates

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
	"campus-connect/event-portal/event-portal-backend/internal/exports"
	"campus-connect/event-portal/event-portal-backend/internal/render"
	"campus-connect/event-portal/event-portal-backend/internal/templates"
)

type Handler struct {
	service   Service
	artifacts artifacts.Service
	templates *templates.AdminStore
	logger    *zap.Logger
}

func NewHandler(service Service, arts artifacts.Service, tmpl *templates.AdminStore, logger *zap.Logger) *Handler {
	return &Handler{service: service, artifacts: arts, templates: tmpl, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	certs := rg.Group("/certificates")
	{
		certs.POST("/generate", h.Generate)
		certs.GET("", h.List)
		certs.GET("/export", h.Export)
		certs.GET("/:id", h.GetMetadata)
		certs.GET("/:id/download", h.Download)
		certs.POST("/cache/clear", h.ClearTemplateCache)
	}

	tmpl := rg.Group("/templates")
	{
		tmpl.POST("", h.UploadTemplate)
		tmpl.DELETE("", h.DeleteTemplate)
	}
}

type generateBody struct {
	RegistrationID  uuid.UUID `json:"registration_id" binding:"required"`
	EventID         uuid.UUID `json:"event_id" binding:"required"`
	CertificateType string    `json:"certificate_type" binding:"required"`
	TemplateURL     string    `json:"template_url"`
	Strategy        string    `json:"strategy"`
	UserAgent       string    `json:"user_agent"`
}

func (h *Handler) Generate(c *gin.Context) {
	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A caller generating on another device's behalf passes that device's
	// user agent in the body; the transport header is only a fallback.
	userAgent := body.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	result := h.service.Generate(c.Request.Context(), GenerateRequest{
		RegistrationID:  body.RegistrationID,
		EventID:         body.EventID,
		CertificateType: body.CertificateType,
		TemplateURL:     body.TemplateURL,
		Strategy:        render.Strategy(body.Strategy),
		UserAgent:       userAgent,
	})

	c.JSON(statusForResult(result), result)
}

func statusForResult(result *GenerateResult) int {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeIneligible:
		return http.StatusUnprocessableEntity
	case CodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) List(c *gin.Context) {
	var eventID, registrationID *uuid.UUID
	if s := c.Query("event_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		eventID = &id
	}
	if s := c.Query("registration_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration_id"})
			return
		}
		registrationID = &id
	}

	certs, err := h.artifacts.ListCertificates(c.Request.Context(), eventID, registrationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *Handler) GetMetadata(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	cert, err := h.artifacts.GetCertificate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	reader, cert, err := h.artifacts.DownloadCertificate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.Filename))
	c.DataFromReader(http.StatusOK, cert.FileSize, "application/pdf", reader, nil)
}

func (h *Handler) Export(c *gin.Context) {
	var eventID *uuid.UUID
	if s := c.Query("event_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		eventID = &id
	}

	certs, err := h.artifacts.ListCertificates(c.Request.Context(), eventID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="certificates.csv"`)
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		err = exports.WriteCSV(c.Writer, certs)
	case "xlsx":
		c.Header("Content-Disposition", `attachment; filename="certificates.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		err = exports.WriteExcel(c.Writer, certs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		h.logger.Error("Issuance export failed", zap.Error(err))
	}
}

func (h *Handler) ClearTemplateCache(c *gin.Context) {
	if err := h.service.InvalidateTemplateCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template cache cleared"})
}

type uploadTemplateBody struct {
	Name string `json:"name" binding:"required"`
	HTML string `json:"html" binding:"required"`
}

func (h *Handler) UploadTemplate(c *gin.Context) {
	var body uploadTemplateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.templates.Upload(c.Request.Context(), body.Name, body.HTML)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template_url": url})
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if err := h.templates.Delete(c.Request.Context(), url); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
