// Package store holds the typed view over a store's configuration properties.
package store

import (
	"strconv"

	"github.com/unkn0wn-root/graphcache/properties"
	"github.com/unkn0wn-root/graphcache/reflection"
)

// Well-known property keys.
const (
	KeyStoreID               = "gaffer.store.id"
	KeyStoreClass            = "gaffer.store.class"
	KeyOperationDeclarations = "gaffer.store.operation.declarations"
	KeyReflectionPackages    = "gaffer.store.reflection.packages"
	KeyJSONSerialiserModules = "gaffer.serialiser.json.modules"
	KeyAdminAuth             = "gaffer.store.admin.auth"
	KeyJobTrackerEnabled     = "gaffer.store.job.tracker.enabled"
	KeyCacheBackend          = "gaffer.cache.service.class"
	KeyCacheSerialiser       = "gaffer.cache.serialiser"
)

// PackageRegistry receives reflection packages set through Properties.
type PackageRegistry interface {
	AddPackages(pkgs ...string)
}

// Properties is a store's configuration. The embedded property set is plain
// data; only SetReflectionPackages reaches out to the package registry.
type Properties struct {
	*properties.Properties
	packages PackageRegistry
}

// New returns empty store properties bound to the process-wide reflection registry.
func New() *Properties { return Wrap(properties.New()) }

// Wrap views p as store properties. p is shared, not copied.
func Wrap(p *properties.Properties) *Properties {
	if p == nil {
		p = properties.New()
	}
	return &Properties{Properties: p, packages: reflection.Default()}
}

// Load merges the files in order (see properties.LoadFiles).
func Load(paths ...string) (*Properties, error) {
	p, err := properties.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	return Wrap(p), nil
}

// WithPackageRegistry swaps the registry SetReflectionPackages reports to.
func (p *Properties) WithPackageRegistry(r PackageRegistry) *Properties {
	p.packages = r
	return p
}

// MergeStore merges other into p; other wins on conflicts.
func (p *Properties) MergeStore(other *Properties) {
	if other == nil {
		return
	}
	p.Merge(other.Properties)
}

func (p *Properties) StoreID() string        { return p.GetOr(KeyStoreID, "") }
func (p *Properties) SetStoreID(id string)   { p.Set(KeyStoreID, id) }
func (p *Properties) StoreClass() string     { return p.GetOr(KeyStoreClass, "") }
func (p *Properties) SetStoreClass(c string) { p.Set(KeyStoreClass, c) }

// OperationDeclarationPaths returns the comma-joined declaration paths, or ""
// when unset.
func (p *Properties) OperationDeclarationPaths() string {
	return p.GetOr(KeyOperationDeclarations, "")
}

func (p *Properties) OperationDeclarationPathList() []string {
	return p.List(KeyOperationDeclarations)
}

func (p *Properties) SetOperationDeclarationPaths(paths ...string) {
	p.SetList(KeyOperationDeclarations, paths...)
}

func (p *Properties) AddOperationDeclarationPaths(paths ...string) {
	p.AddToList(KeyOperationDeclarations, paths...)
}

func (p *Properties) ReflectionPackages() string { return p.GetOr(KeyReflectionPackages, "") }

// SetReflectionPackages stores pkgs and then registers every listed package
// with the package registry.
func (p *Properties) SetReflectionPackages(pkgs ...string) {
	p.SetList(KeyReflectionPackages, pkgs...)
	if p.packages != nil {
		p.packages.AddPackages(p.List(KeyReflectionPackages)...)
	}
}

// JSONSerialiserModules returns the comma-joined module names. Registering
// them with a JSON codec is the caller's business.
func (p *Properties) JSONSerialiserModules() string {
	return p.GetOr(KeyJSONSerialiserModules, "")
}

func (p *Properties) SetJSONSerialiserModules(modules ...string) {
	p.SetList(KeyJSONSerialiserModules, modules...)
}

func (p *Properties) AddJSONSerialiserModules(modules ...string) {
	p.AddToList(KeyJSONSerialiserModules, modules...)
}

func (p *Properties) AdminAuth() string           { return p.GetOr(KeyAdminAuth, "") }
func (p *Properties) SetAdminAuth(auth string)    { p.Set(KeyAdminAuth, auth) }
func (p *Properties) CacheBackend() string        { return p.GetOr(KeyCacheBackend, "") }
func (p *Properties) SetCacheBackend(n string)    { p.Set(KeyCacheBackend, n) }
func (p *Properties) CacheSerialiser() string     { return p.GetOr(KeyCacheSerialiser, "") }
func (p *Properties) SetCacheSerialiser(n string) { p.Set(KeyCacheSerialiser, n) }

// JobTrackerEnabled is false unless the property parses as true.
func (p *Properties) JobTrackerEnabled() bool {
	b, _ := strconv.ParseBool(p.GetOr(KeyJobTrackerEnabled, "false"))
	return b
}

func (p *Properties) SetJobTrackerEnabled(on bool) {
	p.Set(KeyJobTrackerEnabled, strconv.FormatBool(on))
}
