package site

import "fmt"

// NewSiteErrorType is the closed set of site-creation failures. The zero
// value is GenericError.
type NewSiteErrorType int

const (
	GenericError NewSiteErrorType = iota
	SiteNameRequired
	SiteNameNotAllowed
	SiteNameMustBeAtLeastFourCharacters
	SiteNameMustBeLessThanSixtyFourCharacters
	SiteNameContainsInvalidCharacters
	SiteNameCantBeUsed
	SiteNameOnlyLowercaseLettersAndNumbers
	SiteNameMustIncludeLetters
	SiteNameExists
	SiteNameReserved
	SiteNameReservedButMayBeAvailable
	SiteNameInvalid
	SiteTitleInvalid
)

var newSiteErrorNames = [...]string{
	GenericError:                              "GENERIC_ERROR",
	SiteNameRequired:                          "SITE_NAME_REQUIRED",
	SiteNameNotAllowed:                        "SITE_NAME_NOT_ALLOWED",
	SiteNameMustBeAtLeastFourCharacters:       "SITE_NAME_MUST_BE_AT_LEAST_FOUR_CHARACTERS",
	SiteNameMustBeLessThanSixtyFourCharacters: "SITE_NAME_MUST_BE_LESS_THAN_SIXTY_FOUR_CHARACTERS",
	SiteNameContainsInvalidCharacters:         "SITE_NAME_CONTAINS_INVALID_CHARACTERS",
	SiteNameCantBeUsed:                        "SITE_NAME_CANT_BE_USED",
	SiteNameOnlyLowercaseLettersAndNumbers:    "SITE_NAME_ONLY_LOWERCASE_LETTERS_AND_NUMBERS",
	SiteNameMustIncludeLetters:                "SITE_NAME_MUST_INCLUDE_LETTERS",
	SiteNameExists:                            "SITE_NAME_EXISTS",
	SiteNameReserved:                          "SITE_NAME_RESERVED",
	SiteNameReservedButMayBeAvailable:         "SITE_NAME_RESERVED_BUT_MAY_BE_AVAILABLE",
	SiteNameInvalid:                           "SITE_NAME_INVALID",
	SiteTitleInvalid:                          "SITE_TITLE_INVALID",
}

// wireErrorCodes maps the "error" field of a failed sites/new response.
var wireErrorCodes = map[string]NewSiteErrorType{
	"blog_name_required":                                SiteNameRequired,
	"blog_name_not_allowed":                             SiteNameNotAllowed,
	"blog_name_must_be_at_least_four_characters":        SiteNameMustBeAtLeastFourCharacters,
	"blog_name_must_be_less_than_sixty_four_characters": SiteNameMustBeLessThanSixtyFourCharacters,
	"blog_name_contains_invalid_characters":             SiteNameContainsInvalidCharacters,
	"blog_name_cant_be_used":                            SiteNameCantBeUsed,
	"blog_name_only_lowercase_letters_and_numbers":      SiteNameOnlyLowercaseLettersAndNumbers,
	"blog_name_must_include_letters":                    SiteNameMustIncludeLetters,
	"blog_name_exists":                                  SiteNameExists,
	"blog_name_reserved":                                SiteNameReserved,
	"blog_name_reserved_but_may_be_available":           SiteNameReservedButMayBeAvailable,
	"blog_name_invalid":                                 SiteNameInvalid,
	"blog_title_invalid":                                SiteTitleInvalid,
}

// String returns the upper-snake name of the error type.
func (t NewSiteErrorType) String() string {
	if t < 0 || int(t) >= len(newSiteErrorNames) {
		return fmt.Sprintf("NewSiteErrorType(%d)", int(t))
	}
	return newSiteErrorNames[t]
}

// ErrorTypeFromString maps a wire error code. Unknown codes are GenericError.
func ErrorTypeFromString(code string) NewSiteErrorType {
	if t, ok := wireErrorCodes[code]; ok {
		return t
	}
	return GenericError
}

// SiteErrorType classifies failures of the fetch operations.
type SiteErrorType string

const (
	SiteErrorGeneric         SiteErrorType = "GENERIC_ERROR"
	SiteErrorNetwork         SiteErrorType = "NETWORK_ERROR"
	SiteErrorUnauthorized    SiteErrorType = "UNAUTHORIZED"
	SiteErrorUnknownSite     SiteErrorType = "UNKNOWN_SITE"
	SiteErrorInvalidResponse SiteErrorType = "INVALID_RESPONSE"
)

// SiteError is carried by UpdateSites and UpdateSite when a fetch fails.
type SiteError struct {
	Type    SiteErrorType
	Message string
}

func (e *SiteError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}
