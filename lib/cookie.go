package lib

import (
	"net/http"
	"opsdesk_server/config"
	"time"
)

// cookiePolicy derives the SameSite/Secure/Domain triple for auth cookies.
// Cross-subdomain usage (app <-> api) requires SameSite=None in production.
func cookiePolicy() (http.SameSite, bool, string) {
	if config.IsProduction() {
		return http.SameSiteNoneMode, true, config.GetConfig().Auth.CookieDomain
	}
	return http.SameSiteLaxMode, false, ""
}

// SetCookie sets a secure, HttpOnly cookie for authentication/session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	sameSite, secure, domain := cookiePolicy()

	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    val,
		Expires:  expiry,
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	sameSite, secure, domain := cookiePolicy()

	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	sameSite, secure, domain := cookiePolicy()

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    val,
		Expires:  expiry,
		MaxAge:   int(time.Until(expiry).Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: false, // Must be readable by JS
	})
}
