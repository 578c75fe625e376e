package genai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
)

type Category int

const (
	CategoryOther Category = iota
	CategoryAuth
	CategoryPermission
	CategoryQuota
)

func (c Category) String() string {
	switch c {
	case CategoryAuth:
		return "auth"
	case CategoryPermission:
		return "permission"
	case CategoryQuota:
		return "quota"
	default:
		return "other"
	}
}

// Classify maps a provider failure to a category. The HTTP status wins when
// the error carries one; otherwise the message is inspected.
func Classify(err error) Category {
	if err == nil {
		return CategoryOther
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return CategoryAuth
		case http.StatusForbidden:
			return CategoryPermission
		case http.StatusTooManyRequests:
			return CategoryQuota
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return CategoryAuth
	case strings.Contains(msg, "permission"):
		return CategoryPermission
	case strings.Contains(msg, "quota"):
		return CategoryQuota
	}
	return CategoryOther
}
