package recorder

import (
	"strings"

	"github.com/vedsharma/resterx/internal/model"
)

// ParseSetCookie parses a Set-Cookie header value. Several cookies may be
// given on separate lines; each line yields at most one cookie.
func ParseSetCookie(header string) []model.Cookie {
	var cookies []model.Cookie
	for _, line := range strings.Split(header, "\n") {
		if c, ok := parseCookieLine(line); ok {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

func parseCookieLine(line string) (model.Cookie, bool) {
	segments := strings.Split(line, ";")
	name, value, found := strings.Cut(strings.TrimSpace(segments[0]), "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return model.Cookie{}, false
	}

	c := model.Cookie{Name: name, Value: strings.TrimSpace(value)}
	for _, seg := range segments[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(seg), "=")
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "domain":
			c.Domain = val
		case "path":
			c.Path = val
		case "expires":
			c.Expires = val
		case "httponly":
			c.HTTPOnly = true
		case "secure":
			c.Secure = true
		}
	}
	return c, true
}
