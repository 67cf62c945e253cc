// Package fixture loads departments, vendors, requests and user personas
// from YAML.
package fixture

import (
	"context"
	"embed"
	"fmt"

	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/model"
	"gopkg.in/yaml.v3"
)

// DefaultURL locates the embedded mock fixture.
const DefaultURL = "embed:///data/mock.yaml"

//go:embed data/*
var dataFS embed.FS

// Fixture is a dataset describing an organisation.
type Fixture struct {
	Users       []*model.Principal `json:"users,omitempty" yaml:"users,omitempty"`
	Departments []*model.Budget    `json:"departments,omitempty" yaml:"departments,omitempty"`
	Vendors     []*model.Vendor    `json:"vendors,omitempty" yaml:"vendors,omitempty"`
	Requests    []*model.Request   `json:"requests,omitempty" yaml:"requests,omitempty"`
}

// Load downloads and decodes the fixture at URL.  options are passed to the
// storage manager, e.g. an *embed.FS for embed:// URLs.
func Load(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Fixture, error) {
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download fixture %s: %w", URL, err)
	}
	ret, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", URL, err)
	}
	return ret, nil
}

// Default loads the embedded mock fixture.
func Default(ctx context.Context) (*Fixture, error) {
	return Load(ctx, afs.New(), DefaultURL, &dataFS)
}

// Decode parses YAML fixture data and validates it.
func Decode(data []byte) (*Fixture, error) {
	ret := &Fixture{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate checks identifiers are present and unique and amounts are sane.
func (f *Fixture) Validate() error {
	departments := map[string]bool{}
	for i, b := range f.Departments {
		switch {
		case b == nil || b.Department == "":
			return fmt.Errorf("departments[%d]: department is required", i)
		case departments[b.Department]:
			return fmt.Errorf("departments[%d]: duplicate department %s", i, b.Department)
		case b.Total < 0 || b.Spent < 0:
			return fmt.Errorf("departments[%d]: total and spent must be >= 0", i)
		}
		departments[b.Department] = true
	}
	vendors := map[string]bool{}
	for i, v := range f.Vendors {
		switch {
		case v == nil || v.ID == "":
			return fmt.Errorf("vendors[%d]: id is required", i)
		case vendors[v.ID]:
			return fmt.Errorf("vendors[%d]: duplicate vendor %s", i, v.ID)
		}
		vendors[v.ID] = true
	}
	requests := map[string]bool{}
	for i, r := range f.Requests {
		switch {
		case r == nil || r.ID == "":
			return fmt.Errorf("requests[%d]: id is required", i)
		case requests[r.ID]:
			return fmt.Errorf("requests[%d]: duplicate request %s", i, r.ID)
		}
		if err := r.ValidateAmount(); err != nil {
			return fmt.Errorf("requests[%d]: %w", i, err)
		}
		requests[r.ID] = true
	}
	for i, u := range f.Users {
		if u == nil || u.UserID == "" || !u.Role.Valid() {
			return fmt.Errorf("users[%d]: userId and a known role are required", i)
		}
	}
	return nil
}

// User returns the persona with userID, nil when absent.
func (f *Fixture) User(userID string) *model.Principal {
	for _, u := range f.Users {
		if u.UserID == userID {
			return u
		}
	}
	return nil
}
