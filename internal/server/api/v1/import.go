package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"wkmetrics/internal/server/api/response"
	"wkmetrics/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImportSize bounds the accepted CSV payload
const maxImportSize = 10 << 20 // 10 MiB

// importValues handles bulk CSV import. The payload is either a raw
// CSV body or a multipart upload under the "file" field.
func (api *API) importValues(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	raw, filename, err := readImportPayload(c)
	if err != nil {
		resp.BadRequest(err)
		return
	}

	report, err := api.service.ImportValues(ctx, raw, filename, c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, types.ErrNothingToImport) {
			resp.ErrorWithData(http.StatusBadRequest, err, report)
			return
		}

		api.logger.Error("Failed to import values",
			zap.Error(err),
			zap.String("filename", filename))
		api.respondError(resp, err)
		return
	}

	resp.Success(report)
}

// readImportPayload extracts the CSV content and source filename
func readImportPayload(c *gin.Context) (string, string, error) {
	contentType := c.GetHeader("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			return "", "", errors.New("file field is required")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			return "", "", errors.New("failed to read upload")
		}
		return string(data), header.Filename, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		return "", "", errors.New("failed to read request body")
	}
	return string(data), "", nil
}

// importTemplate handles downloading the CSV import template
func (api *API) importTemplate(c *gin.Context) {
	resp := response.New(c, api.logger)

	resp.CSV("import-template.csv", api.service.ImportTemplate())
}

// listImportBatches handles retrieving recent import batches
func (api *API) listImportBatches(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	limit, _ := strconv.Atoi(c.Query("limit"))

	batches, err := api.service.ListImportBatches(ctx, limit)
	if err != nil {
		api.logger.Error("Failed to list import batches", zap.Error(err))
		api.respondError(resp, err)
		return
	}

	resp.Success(batches)
}

// getImportBatch handles retrieving a single import batch
func (api *API) getImportBatch(c *gin.Context) {
	resp := response.New(c, api.logger)

	ctx, cancel := requestContext(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		resp.BadRequest(errors.New("batch id is required"))
		return
	}

	batch, err := api.service.GetImportBatch(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrBatchNotFound) {
			api.logger.Error("Failed to get import batch",
				zap.Error(err),
				zap.String("batch_id", id))
		}
		api.respondError(resp, err)
		return
	}

	resp.Success(batch)
}
