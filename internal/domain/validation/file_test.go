package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-portal.backend/internal/domain/entities"
)

const tinyJPEG = "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAAgGBgcGBQgHBwcJCQgKDBQNDAsLDBkSEw8U"

func TestDecodeFile_Accepts(t *testing.T) {
	file, msg := DecodeFile(tinyJPEG, "photo", DocumentPolicy)
	require.Empty(t, msg)
	assert.Equal(t, MimeJPEG, file.ContentType)
	assert.True(t, strings.HasPrefix(file.Data, "/9j/"))

	obj, msg := DecodeFile(map[string]any{"data": "JVBERi0xLjQK", "contentType": MimePDF}, "idProof", DocumentPolicy)
	require.Empty(t, msg)
	assert.Equal(t, entities.File{Data: "JVBERi0xLjQK", ContentType: MimePDF}, obj)
}

func TestDecodeFile_Rejects(t *testing.T) {
	_, msg := DecodeFile(nil, "photo", DocumentPolicy)
	assert.Equal(t, "photo is required", msg)

	_, msg = DecodeFile("", "photo", DocumentPolicy)
	assert.Equal(t, "photo is required", msg)

	_, msg = DecodeFile("data:image/jpeg,notbase64", "photo", DocumentPolicy)
	assert.Equal(t, "photo must be a base64 encoded file", msg)

	_, msg = DecodeFile("/9j/4AAQ", "photo", DocumentPolicy)
	assert.Equal(t, "photo must be a base64 encoded file", msg)

	_, msg = DecodeFile("data:image/jpeg;base64,@@@@not*base64!!", "photo", ImagePolicy)
	assert.Equal(t, "photo must be a base64 encoded file", msg)

	_, msg = DecodeFile("data:image/jpeg;base64,/9j/4AA", "photo", ImagePolicy)
	assert.Equal(t, "photo must be a base64 encoded file", msg)

	_, msg = DecodeFile(map[string]any{"data": "not base64", "contentType": MimePDF}, "idProof", DocumentPolicy)
	assert.Equal(t, "idProof must be a base64 encoded file", msg)

	_, msg = DecodeFile("data:image/gif;base64,R0lGODlh", "photo", DocumentPolicy)
	assert.Equal(t, "photo must be one of: image/jpeg, image/png, application/pdf", msg)

	_, msg = DecodeFile("data:image/png;base64,iVBORw0KGgo=", "photo", PhotoPolicy)
	assert.Equal(t, "photo must be one of: image/jpeg", msg)
}

func TestDecodeFile_SizeCeiling(t *testing.T) {
	atLimit := "data:application/pdf;base64," + strings.Repeat("A", 6990504) + "=="
	_, msg := DecodeFile(atLimit, "idProof", DocumentPolicy)
	assert.Empty(t, msg)

	overLimit := "data:application/pdf;base64," + strings.Repeat("A", 6990508)
	_, msg = DecodeFile(overLimit, "idProof", DocumentPolicy)
	assert.Equal(t, "idProof exceeds the maximum size of 5MB", msg)

	photoAtLimit := "data:image/jpeg;base64," + strings.Repeat("A", 136532)
	_, msg = DecodeFile(photoAtLimit, "photo", PhotoPolicy)
	assert.Empty(t, msg)

	photoOver := "data:image/jpeg;base64," + strings.Repeat("A", 136534)
	_, msg = DecodeFile(photoOver, "photo", PhotoPolicy)
	assert.Equal(t, "photo exceeds the maximum size of 100KB", msg)
}

func TestEstimatedSize(t *testing.T) {
	assert.Equal(t, int64(0), EstimatedSize(""))
	assert.Equal(t, int64(1), EstimatedSize("A"))
	assert.Equal(t, int64(3), EstimatedSize("AAAA"))
	assert.Equal(t, int64(4), EstimatedSize("AAAAA"))
}

func TestDecodeFiles(t *testing.T) {
	slots := []Slot{
		{Name: "photo", Policy: PhotoPolicy},
		{Name: "idProof", Policy: DocumentPolicy},
		{Name: "extra", Policy: DocumentPolicy, Optional: true},
	}

	files, errs := DecodeFiles(slots, map[string]any{"photo": tinyJPEG})
	assert.Equal(t, []string{"idProof is required"}, errs)
	assert.Contains(t, files, "photo")
	assert.NotContains(t, files, "extra")

	files, errs = DecodeFiles(slots, map[string]any{
		"photo":   tinyJPEG,
		"idProof": "data:application/pdf;base64,JVBERi0xLjQK",
		"extra":   "data:image/png;base64,iVBORw0KGgo=",
	})
	assert.Empty(t, errs)
	assert.Len(t, files, 3)
}
