package portal

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// recordingJar is a cookie jar that additionally keeps track of every cookie it accepted, regardless of the path or
// host it is scoped to.
// Cookies are kept in the order they were first set; setting a known cookie again only replaces its value.
type recordingJar struct {
	*cookiejar.Jar

	mtx     sync.Mutex
	cookies []Cookie
}

var _ http.CookieJar = (*recordingJar)(nil)

func newRecordingJar() *recordingJar {
	// cookiejar.New never returns an error
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &recordingJar{Jar: jar}
}

// SetCookies hands the cookies over to the underlying jar and records them
func (jar *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	jar.Jar.SetCookies(u, cookies)

	jar.mtx.Lock()
	defer jar.mtx.Unlock()
	now := time.Now()
	for _, cookie := range cookies {
		if cookie == nil || cookie.Name == "" || !domainMatches(u, cookie.Domain) {
			continue
		}
		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && !cookie.Expires.After(now)) {
			jar.forget(cookie.Name)
			continue
		}
		jar.remember(cookie.Name, cookie.Value)
	}
}

// session returns every recorded cookie as a session
func (jar *recordingJar) session() *Session {
	jar.mtx.Lock()
	defer jar.mtx.Unlock()
	return &Session{Cookies: append([]Cookie{}, jar.cookies...)}
}

func (jar *recordingJar) remember(name, value string) {
	for i := range jar.cookies {
		if jar.cookies[i].Name == name {
			jar.cookies[i].Value = value
			return
		}
	}
	jar.cookies = append(jar.cookies, Cookie{Name: name, Value: value})
}

func (jar *recordingJar) forget(name string) {
	for i := range jar.cookies {
		if jar.cookies[i].Name == name {
			jar.cookies = append(jar.cookies[:i], jar.cookies[i+1:]...)
			return
		}
	}
}

// domainMatches mirrors the jar's check whether a host may set a cookie for the given domain attribute
func domainMatches(u *url.URL, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	if domain == "" {
		return true
	}
	host := strings.ToLower(u.Hostname())
	if host == domain {
		return true
	}
	return strings.HasSuffix(host, "."+domain) && publicsuffix.List.PublicSuffix(domain) != domain
}
