package bclient

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser keeps track of named request patterns on a base url and builds requests
// from them. Patterns look like those of [http.ServeMux]: an optional method, then a
// path with {name} wildcards, an optional trailing {name...} wildcard and an optional
// {$} end marker, for example "GET /items/{id}".
type Reverser struct {
	base *url.URL

	mu   sync.RWMutex
	pats map[string]*pattern
}

// NewReverser inits the reverser for urls below base.
func NewReverser(base string) (*Reverser, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", base)
	}

	return &Reverser{base: u, pats: map[string]*pattern{}}, nil
}

// Named is a convenience method that panics if naming the pattern fails.
func (r *Reverser) Named(name, str string) string {
	str, err := r.NamedPattern(name, str)
	if err != nil {
		panic("bclient: " + err.Error())
	}

	return str
}

// NamedPattern will parse 'str' as a request pattern while returning it as well.
func (r *Reverser) NamedPattern(name, str string) (string, error) {
	pat, err := parsePattern(str)
	if err != nil {
		return str, errors.Wrap(err, "failed to parse pattern")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pats[name]; exists {
		return str, errors.Newf("pattern with name %q already exists", name)
	}

	r.pats[name] = pat

	return str, nil
}

// Reverse builds the absolute url of the named pattern, substituting vals for its
// wildcards in order. Values are path escaped; the value of a {name...} wildcard may
// span several segments.
func (r *Reverser) Reverse(name string, vals ...string) (string, error) {
	pat, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	p, err := pat.build(vals...)
	if err != nil {
		return "", errors.Wrap(err, "failed to build")
	}

	return r.base.JoinPath(p).String(), nil
}

// Request builds a request for the named pattern with the pattern's method, or GET
// when the pattern has none.
func (r *Reverser) Request(name string, entity any, vals ...string) (*Request, error) {
	pat, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	u, err := r.Reverse(name, vals...)
	if err != nil {
		return nil, err
	}

	return NewRequest(lo.Ternary(pat.method == "", http.MethodGet, pat.method), u, entity)
}

func (r *Reverser) lookup(name string) (*pattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pat, ok := r.pats[name]
	if !ok {
		names := lo.Keys(r.pats)
		slices.Sort(names)
		return nil, errors.Newf("no pattern named: %q, got: %v", name, names)
	}

	return pat, nil
}

type segment struct {
	lit   string
	wild  string
	multi bool
}

type pattern struct {
	method   string
	segments []segment
	trailing bool
}

func parsePattern(str string) (*pattern, error) {
	if str == "" {
		return nil, errors.New("empty pattern")
	}

	pat := &pattern{}
	method, rest, found := strings.Cut(str, " ")
	if found {
		pat.method, str = method, strings.TrimLeft(rest, " ")
	}
	if !strings.HasPrefix(str, "/") {
		return nil, errors.Newf("pattern %q must start with a path", str)
	}

	str = strings.TrimPrefix(str, "/")
	if str == "" {
		pat.trailing = true
		return pat, nil
	}

	parts := strings.Split(str, "/")
	for i, part := range parts {
		last := i == len(parts)-1

		switch {
		case part == "" && last:
			pat.trailing = true
		case part == "{$}" && last:
			pat.trailing = true
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			multi := strings.HasSuffix(name, "...")
			name = strings.TrimSuffix(name, "...")

			if name == "" || (multi && !last) {
				return nil, errors.Newf("bad wildcard segment %q", part)
			}
			pat.segments = append(pat.segments, segment{wild: name, multi: multi})
		case strings.ContainsAny(part, "{}"):
			return nil, errors.Newf("bad wildcard segment %q", part)
		default:
			pat.segments = append(pat.segments, segment{lit: part})
		}
	}

	return pat, nil
}

// build returns the escaped path with vals substituted.
func (p *pattern) build(vals ...string) (string, error) {
	numWild := lo.CountBy(p.segments, func(s segment) bool { return s.wild != "" })
	if len(vals) < numWild {
		return "", errors.Newf("not enough values for %d wildcards, got: %d", numWild, len(vals))
	}
	if len(vals) > numWild {
		return "", errors.Newf("too many values for %d wildcards, got: %d", numWild, len(vals))
	}

	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')

		switch {
		case s.wild == "":
			b.WriteString(s.lit)
		case s.multi:
			b.WriteString(strings.Join(lo.Map(strings.Split(vals[0], "/"), func(v string, _ int) string {
				return url.PathEscape(v)
			}), "/"))
			vals = vals[1:]
		default:
			b.WriteString(url.PathEscape(vals[0]))
			vals = vals[1:]
		}
	}

	if p.trailing {
		b.WriteByte('/')
	}

	return b.String(), nil
}
