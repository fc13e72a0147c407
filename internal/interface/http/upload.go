package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pulse-backoffice/internal/application"
)

const maxUploadBytes = 25 << 20

// limitBody caps multipart uploads; call it before anything parses the form.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
}

// formFile opens the multipart "file" field. The caller must close the returned reader.
func formFile(c *gin.Context) (application.FileUpload, io.Closer, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return application.FileUpload{}, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return application.FileUpload{}, nil, err
	}
	return application.FileUpload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
