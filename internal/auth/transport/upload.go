package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"

	"authsession/internal/auth/models"
	"authsession/internal/platform/tracer"
	apierrors "authsession/pkg/api-errors"
	httpErrors "authsession/pkg/http-errors"
)

// AvatarUploadPath is the REST endpoint for avatar uploads.
const AvatarUploadPath = "/api/users/avatar/upload"

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateAvatar checks the file before anything is sent and returns its
// sniffed content type.
func ValidateAvatar(file AvatarFile, maxBytes int64) (string, error) {
	if len(file.Content) == 0 {
		return "", apierrors.New(apierrors.CodeValidation, "the selected file is empty").WithDetail("field", "file")
	}
	if maxBytes > 0 && int64(len(file.Content)) > maxBytes {
		return "", apierrors.New(apierrors.CodeValidation,
			fmt.Sprintf("the image must be at most %d bytes", maxBytes)).WithDetail("field", "file")
	}
	contentType := http.DetectContentType(file.Content)
	if !allowedAvatarTypes[contentType] {
		return "", apierrors.New(apierrors.CodeValidation,
			"only JPEG, PNG, GIF and WebP images are supported").
			WithDetail("field", "file").
			WithDetail("content_type", contentType)
	}
	return contentType, nil
}

// UploadAvatar posts a multipart body with the fields file and replaceExisting,
// reporting progress as the body is consumed.
func (c *Client) UploadAvatar(ctx context.Context, file AvatarFile, progress ProgressFunc) (models.AvatarUpload, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanAvatarUpload,
		tracer.Int64(tracer.AttrUploadBytes, int64(len(file.Content))))
	result, err := c.uploadAvatar(ctx, span, file, progress)
	span.End(err)
	return result, err
}

func (c *Client) uploadAvatar(ctx context.Context, span tracer.Span, file AvatarFile, progress ProgressFunc) (models.AvatarUpload, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, contentType, err := encodeAvatar(file)
	if err != nil {
		return models.AvatarUpload{}, apierrors.Wrap(err, apierrors.CodeValidation, "failed to encode upload")
	}

	var reader io.Reader = bytes.NewReader(body)
	if progress != nil {
		reader = newProgressReader(reader, int64(len(body)), progress)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restBase+AvatarUploadPath, reader)
	if err != nil {
		return models.AvatarUpload{}, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	span.SetAttributes(tracer.String(tracer.AttrRequestID, c.authorize(req)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.AvatarUpload{}, err
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(resp.StatusCode)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.AvatarUpload{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.AvatarUpload{}, &httpErrors.StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	var result models.AvatarUpload
	if err := json.Unmarshal(respBody, &result); err != nil {
		return models.AvatarUpload{}, apierrors.Wrap(err, apierrors.CodeInternal, "the server returned a malformed response")
	}
	if result.AvatarURL == "" {
		return models.AvatarUpload{}, apierrors.New(apierrors.CodeInternal, "the server did not return an avatar URL")
	}
	c.cache.purge()
	return result, nil
}

func encodeAvatar(file AvatarFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", http.DetectContentType(file.Content))
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("replaceExisting", strconv.FormatBool(file.ReplaceExisting)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// progressReader reports each whole-percent step of a body of known size once.
type progressReader struct {
	r      io.Reader
	total  int64
	mu     sync.Mutex
	read   int64
	last   int
	report ProgressFunc
}

func newProgressReader(r io.Reader, total int64, report ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.advance(int64(n))
	}
	return n, err
}

func (p *progressReader) advance(n int64) {
	p.mu.Lock()
	p.read += n
	pct := 100
	if p.total > 0 {
		pct = int(p.read * 100 / p.total)
	}
	if pct <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = pct
	p.mu.Unlock()
	p.report(pct)
}
