package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	maxNameLength    = 200
	maxTitleLength   = 255
	maxAccountLength = 200
	maxURLLength     = 500
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCandidate acumula TODAS as violações do registro em vez de parar
// na primeira — o relatório lista cada campo ofensor de uma vez.
func ValidateCandidate(c *CandidateRecord) []ValidationError {
	var errors []ValidationError

	if c.Name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(c.Name) > maxNameLength {
		errors = append(errors, ValidationError{"name", fmt.Sprintf("must not exceed %d characters", maxNameLength)})
	}

	if c.OwnerCRMID == "" {
		errors = append(errors, ValidationError{"owner_id", "is required"})
	}

	if c.ExternalID == "" {
		errors = append(errors, ValidationError{"external_id", "is required"})
	}

	if c.Title != "" && len(c.Title) > maxTitleLength {
		errors = append(errors, ValidationError{"title", fmt.Sprintf("must not exceed %d characters", maxTitleLength)})
	}

	if c.AccountName != "" && len(c.AccountName) > maxAccountLength {
		errors = append(errors, ValidationError{"account", fmt.Sprintf("must not exceed %d characters", maxAccountLength)})
	}

	if c.LinkedIn != "" {
		if len(c.LinkedIn) > maxURLLength {
			errors = append(errors, ValidationError{"linkedin", fmt.Sprintf("must not exceed %d characters", maxURLLength)})
		} else if !isValidLinkedInURL(c.LinkedIn) {
			errors = append(errors, ValidationError{"linkedin", "must be a valid LinkedIn profile URL"})
		}
	}

	for _, e := range c.Emails {
		if !isValidEmail(e.Email) {
			errors = append(errors, ValidationError{"email", fmt.Sprintf("%q is invalid", e.Email)})
		}
	}

	for _, p := range c.Phones {
		if !isValidPhoneNumber(p.Phone) {
			errors = append(errors, ValidationError{"phone", fmt.Sprintf("%q must be a valid phone number", p.Phone)})
		}
	}

	return errors
}

// validationReason condensa as violações numa razão legível única.
func validationReason(errors []ValidationError) string {
	parts := make([]string, 0, len(errors))
	for _, e := range errors {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress aceita "a@b"; exigimos domínio com ponto.
	at := strings.LastIndex(addr.Address, "@")
	return at > 0 && strings.Contains(addr.Address[at+1:], ".")
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}

var linkedinRe = regexp.MustCompile(`^(https?://)?([a-z]{2,3}\.)?linkedin\.com/(in|pub|company)/[A-Za-z0-9\-_%\.]+/?$`)

func isValidLinkedInURL(url string) bool {
	return linkedinRe.MatchString(strings.ToLower(url))
}
