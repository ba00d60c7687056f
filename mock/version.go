package mock

import (
	"context"

	"github.com/schedulelua/luabot"
)

var (
	_ luabot.PackageRegistry = (*PackageRegistry)(nil)
	_ luabot.VersionStore    = (*VersionStore)(nil)
	_ luabot.Notifier        = (*Notifier)(nil)
)

// PackageRegistry is a mock implementation of luabot.PackageRegistry.
type PackageRegistry struct {
	PackageFn   func(ctx context.Context) (*luabot.Package, error)
	VersionFn   func(ctx context.Context, version string) (*luabot.PackageVersion, error)
	ChangelogFn func(ctx context.Context, version string) (string, error)
}

func (r *PackageRegistry) Package(ctx context.Context) (*luabot.Package, error) {
	return r.PackageFn(ctx)
}

func (r *PackageRegistry) Version(ctx context.Context, version string) (*luabot.PackageVersion, error) {
	return r.VersionFn(ctx, version)
}

func (r *PackageRegistry) Changelog(ctx context.Context, version string) (string, error) {
	return r.ChangelogFn(ctx, version)
}

// VersionStore is a mock implementation of luabot.VersionStore.
type VersionStore struct {
	LoadVersionRecordFn func(ctx context.Context) (*luabot.VersionRecord, error)
	SaveVersionRecordFn func(ctx context.Context, rec *luabot.VersionRecord) error
}

func (s *VersionStore) LoadVersionRecord(ctx context.Context) (*luabot.VersionRecord, error) {
	return s.LoadVersionRecordFn(ctx)
}

func (s *VersionStore) SaveVersionRecord(ctx context.Context, rec *luabot.VersionRecord) error {
	return s.SaveVersionRecordFn(ctx, rec)
}

// Notifier is a mock implementation of luabot.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, release *luabot.Release) error
}

func (n *Notifier) Notify(ctx context.Context, release *luabot.Release) error {
	return n.NotifyFn(ctx, release)
}
