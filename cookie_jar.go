package bclient

import (
	"net/http"
	"slices"
	"sync"

	"github.com/advdv/bclient/transport"
	"github.com/samber/lo"
)

// CookieJar holds the cookies received by one client and sends all of them with every
// request. A cookie replaces an earlier one with the same domain, path and name; there
// is no expiry and no persistence. Safe for concurrent use.
type CookieJar struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

// NewCookieJar returns an empty jar.
func NewCookieJar() *CookieJar {
	return &CookieJar{}
}

// Apply adds every cookie to b, in jar order.
func (j *CookieJar) Apply(b *transport.Builder) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, c := range j.cookies {
		b.AddCookie(c)
	}
}

// Update stores cookies in order. An existing cookie with the same identity is removed
// and the new one appended, so the jar is ordered by recency. When cookies holds the
// same identity twice, the last one wins. It returns how many cookies were replaced.
func (j *CookieJar) Update(cookies []*http.Cookie) (replaced int) {
	if len(cookies) == 0 {
		return 0
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, rc := range cookies {
		if _, idx, ok := lo.FindIndexOf(j.cookies, func(c *http.Cookie) bool {
			return sameCookie(rc, c)
		}); ok {
			j.cookies = slices.Delete(j.cookies, idx, idx+1)
			replaced++
		}

		j.cookies = append(j.cookies, rc)
	}

	return replaced
}

// Cookies returns a copy of the held cookies in jar order.
func (j *CookieJar) Cookies() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	return lo.Map(j.cookies, func(c *http.Cookie, _ int) *http.Cookie {
		cp := *c
		return &cp
	})
}

// Len returns the number of held cookies.
func (j *CookieJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}

// Clear drops every cookie.
func (j *CookieJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = nil
}

// sameCookie compares the identity (domain, path, name). An unset domain or path only
// equals another unset one.
func sameCookie(a, b *http.Cookie) bool {
	return a.Domain == b.Domain && a.Path == b.Path && a.Name == b.Name
}
