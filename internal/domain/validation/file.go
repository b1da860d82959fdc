package validation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"citizen-portal.backend/internal/domain/entities"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimePDF  = "application/pdf"
)

// FilePolicy bounds the decoded size and content type of a slot.
type FilePolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

var (
	// DocumentPolicy applies to identity, address and supporting proofs.
	DocumentPolicy = FilePolicy{MaxBytes: 5 * 1024 * 1024, AllowedTypes: []string{MimeJPEG, MimePNG, MimePDF}}
	// ImagePolicy applies to signatures and scanned images.
	ImagePolicy = FilePolicy{MaxBytes: 5 * 1024 * 1024, AllowedTypes: []string{MimeJPEG, MimePNG}}
	// PhotoPolicy applies to passport-size identity photos.
	PhotoPolicy = FilePolicy{MaxBytes: 100 * 1024, AllowedTypes: []string{MimeJPEG}}
)

// Slot is a named document attachment point.
type Slot struct {
	Name     string
	Policy   FilePolicy
	Optional bool
}

// EstimatedSize approximates the decoded byte length of a base64 body.
func EstimatedSize(body string) int64 {
	n := int64(len(body))
	return (n*3 + 3) / 4
}

func humanSize(n int64) string {
	switch {
	case n >= 1024*1024 && n%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", n/(1024*1024))
	case n >= 1024 && n%1024 == 0:
		return fmt.Sprintf("%dKB", n/1024)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// splitPayload accepts a data URL string or a {data, contentType} object and returns the
// declared header and the base64 body.
func splitPayload(payload any) (header, body string, ok bool) {
	switch v := payload.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", "", false
		}
		idx := strings.Index(s, ",")
		if idx < 0 {
			return "", s, true
		}
		return s[:idx], s[idx+1:], true
	case map[string]any:
		data, _ := v["data"].(string)
		contentType, _ := v["contentType"].(string)
		if strings.TrimSpace(data) == "" {
			return "", "", false
		}
		if strings.HasPrefix(data, "data:") {
			return splitPayload(data)
		}
		return "data:" + contentType + ";base64", data, true
	case entities.File:
		if v.Data == "" {
			return "", "", false
		}
		return "data:" + v.ContentType + ";base64", v.Data, true
	default:
		return "", "", false
	}
}

// DecodeFile validates an encoded payload and returns the File to persist. The returned
// message is empty when the payload is acceptable.
func DecodeFile(payload any, slot string, policy FilePolicy) (entities.File, string) {
	header, body, ok := splitPayload(payload)
	if !ok {
		return entities.File{}, slot + " is required"
	}
	if !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return entities.File{}, slot + " must be a base64 encoded file"
	}
	if EstimatedSize(body) > policy.MaxBytes {
		return entities.File{}, fmt.Sprintf("%s exceeds the maximum size of %s", slot, humanSize(policy.MaxBytes))
	}
	if _, err := base64.StdEncoding.DecodeString(body); err != nil {
		return entities.File{}, slot + " must be a base64 encoded file"
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	for _, allowed := range policy.AllowedTypes {
		if mime == allowed {
			return entities.File{Data: body, ContentType: mime}, ""
		}
	}
	return entities.File{}, fmt.Sprintf("%s must be one of: %s", slot, strings.Join(policy.AllowedTypes, ", "))
}

// DecodeFiles validates every declared slot and collects all failures.
func DecodeFiles(slots []Slot, files map[string]any) (map[string]entities.File, []string) {
	out := make(map[string]entities.File, len(slots))
	var errs []string
	for _, s := range slots {
		payload, present := files[s.Name]
		if s.Optional && (!present || payload == nil || payload == "") {
			continue
		}
		file, msg := DecodeFile(payload, s.Name, s.Policy)
		if msg != "" {
			errs = append(errs, msg)
			continue
		}
		out[s.Name] = file
	}
	return out, errs
}
