package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	domainerrors "citizen-portal.backend/internal/domain/errors"
)

const (
	maxAssistInput     = 5000
	defaultDocumentTag = "application"
)

var (
	codeFencePattern = regexp.MustCompile("(?m)^[ \t]*```[\\w-]*[ \t]*\n?")
	headingPattern   = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	bulletPattern    = regexp.MustCompile(`(?m)^([ \t]*)(?:[-*+]|\d+[.)])[ \t]+`)
	emphasisPattern  = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes the formatting artifacts generated text tends to carry so the
// result can be shown in a plain text field.
func StripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = codeFencePattern.ReplaceAllString(s, "")
	s = headingPattern.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "$1")
	s = emphasisPattern.ReplaceAllString(s, "$2")
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// AssistUsecase rewrites applicant text and answers portal questions
type AssistUsecase struct {
	gen         TextGenerator
	temperature float64
}

// NewAssistUsecase creates a new assist usecase
func NewAssistUsecase(gen TextGenerator, temperature float64) *AssistUsecase {
	return &AssistUsecase{gen: gen, temperature: temperature}
}

func checkAssistInput(name, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domainerrors.ValidationFailed([]string{name + " is required"})
	}
	if len([]rune(text)) > maxAssistInput {
		return "", domainerrors.ValidationFailed([]string{fmt.Sprintf("%s must be at most %d characters", name, maxAssistInput)})
	}
	return text, nil
}

// Enhance rewrites text in a formal register suitable for the given document type.
func (u *AssistUsecase) Enhance(ctx context.Context, text, documentType string) (string, error) {
	text, err := checkAssistInput("text", text)
	if err != nil {
		return "", err
	}
	documentType = strings.TrimSpace(documentType)
	if documentType == "" {
		documentType = defaultDocumentTag
	}

	prompt := fmt.Sprintf(
		"Rewrite the following text for a government %s. Keep every fact, use a formal and "+
			"concise tone, and return only the rewritten text without commentary.\n\n%s",
		documentType, text,
	)
	out, err := u.gen.Generate(ctx, prompt, u.temperature)
	if err != nil {
		return "", domainerrors.InternalError(err)
	}
	return StripMarkdown(out), nil
}

// Chat answers a citizen's question about the portal's services.
func (u *AssistUsecase) Chat(ctx context.Context, message string) (string, error) {
	message, err := checkAssistInput("message", message)
	if err != nil {
		return "", err
	}

	prompt := "You are the help assistant of a citizen services portal that accepts applications " +
		"for certificates, identity documents, business registrations and lawyer or CA " +
		"consultations. Answer briefly in plain text.\n\nQuestion: " + message
	out, err := u.gen.Generate(ctx, prompt, u.temperature)
	if err != nil {
		return "", domainerrors.InternalError(err)
	}
	return StripMarkdown(out), nil
}
