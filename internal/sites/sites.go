package sites

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"ticketbooker/internal/browser"
	"ticketbooker/lib/configutil"

	"dario.cat/mergo"
)

var ErrUnsupportedSite = errors.New("unsupported website")

// Site describes one ticketing website. Selector values are opaque, how a
// value is interpreted is decided by Kinds (xpath when absent).
type Site struct {
	ID               string               `json:"-"`
	BaseURL          string               `json:"base_url"`
	DisplayName      string               `json:"name"`
	LoginSelectors   map[string]string    `json:"login_selectors"`
	BookingSelectors map[string]string    `json:"booking_selectors"`
	Kinds            map[string]browser.By `json:"kinds"`
}

// Selector returns the selector stored under key, login selectors take
// precedence over booking selectors.
func (s Site) Selector(key string) (browser.Selector, bool) {
	value, ok := s.LoginSelectors[key]
	if !ok {
		value, ok = s.BookingSelectors[key]
	}
	if !ok || value == "" {
		return browser.Selector{}, false
	}
	return browser.Selector{By: s.Kinds[key], Value: value}, true
}

// Registry is the read-only set of supported sites.
type Registry struct {
	sites map[string]Site
}

func NewRegistry(sites map[string]Site) Registry {
	out := make(map[string]Site, len(sites))
	for id, site := range sites {
		site.ID = id
		out[id] = site
	}
	return Registry{sites: out}
}

// Default returns a registry holding the built-in sites.
func Default() Registry {
	return NewRegistry(defaults())
}

// Load returns the built-in sites with the contents of `path` (and its
// .local variant) merged over them. Sites that only exist in the file are
// added as is.
func Load(path string) (Registry, error) {
	builtin := defaults()
	layers, err := configutil.ReadLayers[map[string]Site](path)
	if err != nil {
		return Registry{}, fmt.Errorf("read sites config: %w", err)
	}

	for _, overrides := range layers {
		for id, override := range overrides {
			id = strings.ToLower(id)
			base, ok := builtin[id]
			if !ok {
				builtin[id] = override.clone()
				continue
			}
			base = base.clone()
			err := mergo.Merge(&base, override, mergo.WithOverride)
			if err != nil {
				return Registry{}, fmt.Errorf("merge site %s: %w", id, err)
			}
			builtin[id] = base
		}
	}

	registry := NewRegistry(builtin)
	for _, site := range registry.sites {
		err := site.validate()
		if err != nil {
			return Registry{}, err
		}
	}
	return registry, nil
}

func (s Site) clone() Site {
	s.LoginSelectors = maps.Clone(s.LoginSelectors)
	s.BookingSelectors = maps.Clone(s.BookingSelectors)
	s.Kinds = maps.Clone(s.Kinds)
	return s
}

var requiredLogin = []string{"login_button", "username_field", "password_field", "submit_button"}

func (s Site) validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("site %s: base_url is empty", s.ID)
	}
	for _, key := range requiredLogin {
		if s.LoginSelectors[key] == "" {
			return fmt.Errorf("site %s: login selector %s is empty", s.ID, key)
		}
	}
	return nil
}

// Lookup returns the site with the given id, ids are case-insensitive.
func (r Registry) Lookup(id string) (Site, error) {
	site, ok := r.sites[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Site{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedSite, id, strings.Join(r.IDs(), ", "))
	}
	return site, nil
}

// IDs returns the ids of every site in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r.sites))
	for id := range r.sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every site sorted by id.
func (r Registry) All() []Site {
	out := make([]Site, 0, len(r.sites))
	for _, id := range r.IDs() {
		out = append(out, r.sites[id])
	}
	return out
}
