package site

import (
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/five82/wpstores/internal/wpcom"
)

// NewSiteResponsePayload is the outcome of one sites/new call.
type NewSiteResponsePayload struct {
	ErrorType    NewSiteErrorType
	ErrorMessage string
	IsError      bool
	DryRun       bool
}

// ClassifyNewSiteError reads {"error": code, "message": text} from a failed
// sites/new body. Anything unreadable yields GenericError with no message.
// DryRun is left for the caller to set from the request.
func ClassifyNewSiteError(body []byte) NewSiteResponsePayload {
	payload := NewSiteResponsePayload{IsError: true, ErrorType: GenericError}
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return payload
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return payload
	}
	code := root.Get("error")
	if code.Type != gjson.String {
		return payload
	}
	payload.ErrorType = ErrorTypeFromString(code.Str)
	if msg := root.Get("message"); msg.Type == gjson.String {
		payload.ErrorMessage = msg.Str
	}
	return payload
}

func classifyFetchError(err *wpcom.NetworkError) *SiteError {
	if err == nil {
		return &SiteError{Type: SiteErrorGeneric}
	}
	siteErr := &SiteError{Type: SiteErrorGeneric, Message: err.Error()}
	switch {
	case !err.HasResponse():
		siteErr.Type = SiteErrorNetwork
	case err.StatusCode < 400:
		siteErr.Type = SiteErrorInvalidResponse
	case err.StatusCode == http.StatusUnauthorized || err.StatusCode == http.StatusForbidden:
		siteErr.Type = SiteErrorUnauthorized
	case err.StatusCode == http.StatusNotFound:
		siteErr.Type = SiteErrorUnknownSite
	}
	if err.HasResponse() && gjson.ValidBytes(err.Body) {
		if msg := gjson.GetBytes(err.Body, "message"); msg.Type == gjson.String && msg.Str != "" {
			siteErr.Message = msg.Str
		}
	}
	return siteErr
}
