package usecases

import (
	"encoding/base64"
	"strings"

	domainerrors "citizen-portal.backend/internal/domain/errors"
)

const defaultContentType = "application/octet-stream"

// DecodeDownload decodes a stored base64 document for re-serving as an attachment. data may
// be a bare base64 body or a data URL; an explicit contentType wins over the URL header.
func DecodeDownload(data, contentType string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", domainerrors.ValidationFailed([]string{"data is required"})
	}

	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 || !strings.HasSuffix(data[:comma], ";base64") {
			return nil, "", domainerrors.ValidationFailed([]string{"data must be base64 encoded"})
		}
		if contentType == "" {
			contentType = strings.TrimSuffix(strings.TrimPrefix(data[:comma], "data:"), ";base64")
		}
		data = data[comma+1:]
	}

	body, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", domainerrors.ValidationFailed([]string{"data must be base64 encoded"})
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = defaultContentType
	}
	return body, contentType, nil
}
