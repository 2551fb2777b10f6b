// ABOUTME: Field-level validation of server drafts using go-playground/validator
// ABOUTME: Maps rule failures to the user-facing messages shown next to each form field

package validation

import (
	"net"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
)

var (
	// markdownImagePattern matches ![alt](https:....ext) image references
	markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(https:[/|.\w\s-]*\.(?:jpg|png|svg|gif)\)`)

	// coverPattern matches https image links ending in jpg or png
	coverPattern = regexp.MustCompile(`^https:[/|.\w\s-]*\.(?:jpg|png)$`)
)

// messages holds the message for each field and failing rule
var messages = map[string]map[string]string{
	"title": {
		"required": "Devi aggiungere il nome del server.",
		"min":      "Il titolo deve essere almeno 10 caratteri.",
		"max":      "Il titolo deve essere meno di 200 caratteri.",
	},
	"content": {
		"required":  "Devi aggiungere una descrizione.",
		"min":       "La descrizione deve essere almeno 280 caratteri.",
		"max":       "La descrizione deve essere meno di 10000 caratteri.",
		"md_images": "Assicurati di aggiungere almeno due immagini alla tua descrizione. ![](<immagine>)",
	},
	"ip": {
		"required":       "Devi aggiungere l'ip del server.",
		"server_address": "L'ip del server non è valido.",
	},
	"cover": {
		"required":    "Devi aggiungere un'immagine per il tuo server.",
		"cover_image": "Il link non è un'immagine valida.",
	},
	"tags": {
		"max":      "Puoi scegliere al massimo 10 tag.",
		"required": "Tag non valido.",
	},
}

// CoverInvalidMessage is reported when a cover does not resolve to an image
const CoverInvalidMessage = "Il link non è un'immagine valida."

// Validator checks server drafts. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the draft rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors line up with form and API fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("md_images", validateMarkdownImages)
	_ = v.RegisterValidation("cover_image", validateCover)
	_ = v.RegisterValidation("server_address", func(fl validator.FieldLevel) bool {
		return isServerAddress(v, fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateDraft checks every field of the draft and returns one error per
// invalid field, or nil.
func (v *Validator) ValidateDraft(draft domain.ServerDraft) error {
	err := v.validate.Struct(draft)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(coreerrors.ValidationErrors, 0, len(fieldErrs))
	seen := make(map[string]bool)
	for _, fe := range fieldErrs {
		field := fieldName(fe.Field())
		if seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, &coreerrors.ValidationError{
			Field:   field,
			Message: message(field, fe.Tag()),
		})
	}
	return out
}

// CountImages returns the number of markdown image references in content
func CountImages(content string) int {
	return len(markdownImagePattern.FindAllStringIndex(content, -1))
}

// IsCoverURL reports whether u looks like a cover image link
func IsCoverURL(u string) bool {
	return coverPattern.MatchString(u)
}

func validateMarkdownImages(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		min = 2
	}
	return CountImages(fl.Field().String()) >= min
}

func validateCover(fl validator.FieldLevel) bool {
	return IsCoverURL(fl.Field().String())
}

// isServerAddress accepts host or host:port where host is an IP or an
// RFC 1123 hostname
func isServerAddress(v *validator.Validate, addr string) bool {
	host := addr
	if h, port, err := net.SplitHostPort(addr); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return false
		}
		host = h
	}

	if net.ParseIP(host) != nil {
		return true
	}
	if !strings.Contains(host, ".") && host != "localhost" {
		return false
	}
	return v.Var(host, "hostname_rfc1123") == nil
}

// fieldName strips slice indexes, so tags[2] reports as tags
func fieldName(f string) string {
	if i := strings.IndexByte(f, '['); i >= 0 {
		return f[:i]
	}
	return f
}

func message(field, tag string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	return "Valore non valido."
}
