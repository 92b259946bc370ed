package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// updateFields are the multipart fields accepted on an update-artifact
// upload. Each present field is stored under its original filename, which
// the update client treats as contractual.
var updateFields = []string{"setup", "blockmap", "latest"}

// FileHandler exposes bundle and update-artifact transfer.
type FileHandler struct {
	sessions ports.DataSessionService
	files    ports.FileStore
	log      zerolog.Logger
}

func NewFileHandler(sessions ports.DataSessionService, files ports.FileStore, log zerolog.Logger) *FileHandler {
	return &FileHandler{sessions: sessions, files: files, log: log}
}

// UploadBundle attaches an uploaded bundle to a data session, replacing any
// previously attached file.
//
// @Summary      Upload bundle
// @Tags         file
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        dataSessionId  path      string  true  "Data session ID"
// @Param        file           formData  file    true  "Bundle file"
// @Success      200            {object}  domain.DataSession
// @Failure      400            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Router       /file/upload/{dataSessionId} [post]
func (h *FileHandler) UploadBundle(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ds, err := h.sessions.AttachBundle(c.Request().Context(), c.Param("dataSessionId"), fh.Filename, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds)
}

// DeleteBundle removes a data session's attached bundle.
//
// @Summary      Delete bundle
// @Tags         file
// @Produce      json
// @Security     BearerAuth
// @Param        dataSessionId  path      string  true  "Data session ID"
// @Success      200            {object}  domain.DataSession
// @Failure      404            {object}  map[string]string
// @Router       /file/{dataSessionId} [delete]
func (h *FileHandler) DeleteBundle(c echo.Context) error {
	ds, err := h.sessions.DetachBundle(c.Request().Context(), c.Param("dataSessionId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ds)
}

// DownloadBundle streams a data session's attached bundle.
//
// @Summary      Download bundle
// @Tags         file
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        dataSessionId  path  string  true  "Data session ID"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /file/download/{dataSessionId} [get]
func (h *FileHandler) DownloadBundle(c echo.Context) error {
	ctx := c.Request().Context()

	ds, err := h.sessions.Get(ctx, c.Param("dataSessionId"))
	if err != nil {
		return err
	}
	if ds.FileName == "" {
		return domain.ErrFileNotFound
	}

	rc, err := h.files.Open(ctx, ports.NamespaceBundles, ds.FileName)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", ds.FileName))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}

// UploadUpdate stores application update artifacts under their original
// filenames. At least one of the known fields must be present.
//
// @Summary      Upload update artifacts
// @Tags         file
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        setup     formData  file  false  "Installer executable"
// @Param        blockmap  formData  file  false  "Installer blockmap"
// @Param        latest    formData  file  false  "latest.yaml manifest"
// @Success      200       {object}  map[string][]string
// @Failure      400       {object}  map[string]string
// @Router       /file/update [post]
func (h *FileHandler) UploadUpdate(c echo.Context) error {
	var stored []string
	for _, field := range updateFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		if err := h.saveUpdateArtifact(c, fh); err != nil {
			return err
		}
		stored = append(stored, fh.Filename)
	}
	if len(stored) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no update artifacts in request")
	}

	h.log.Info().Strs("files", stored).Msg("update artifacts stored")
	return c.JSON(http.StatusOK, map[string][]string{"stored": stored})
}

func (h *FileHandler) saveUpdateArtifact(c echo.Context, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return h.files.SaveAs(c.Request().Context(), ports.NamespaceUpdates, fh.Filename, src)
}

// DownloadUpdate streams an update artifact by name. The update client hits
// this without a session, so the route is public.
//
// @Summary      Download update artifact
// @Tags         file
// @Produce      octet-stream
// @Param        name  path  string  true  "Artifact filename"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /file/update/{name} [get]
func (h *FileHandler) DownloadUpdate(c echo.Context) error {
	name := c.Param("name")

	rc, err := h.files.Open(c.Request().Context(), ports.NamespaceUpdates, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}
