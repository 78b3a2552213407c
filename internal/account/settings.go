package account

import "github.com/tidwall/gjson"

// applySettings copies every me/settings key present in raw onto dst and
// reports whether any value changed. Push responses only echo the changed
// keys, and numeric fields sometimes arrive as strings, so values are read
// leniently.
func applySettings(dst *AccountModel, raw []byte) bool {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return false
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return false
	}
	before := *dst
	setString := func(key string, field *string) {
		if v := root.Get(key); v.Exists() && v.Type != gjson.Null {
			*field = v.String()
		}
	}
	setString("user_login", &dst.UserName)
	setString("display_name", &dst.DisplayName)
	setString("first_name", &dst.FirstName)
	setString("last_name", &dst.LastName)
	setString("description", &dst.AboutMe)
	setString("user_URL", &dst.UserURL)
	setString("user_email", &dst.Email)
	if v := root.Get("primary_site_ID"); v.Exists() && v.Type != gjson.Null {
		dst.PrimarySiteID = v.Int()
	}
	return *dst != before
}
