package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"safetyhub/internal/types"
)

var validSourceTypes = map[types.SourceType]struct{}{
	types.SourceTypeDynamic:   {},
	types.SourceTypeStatic:    {},
	types.SourceTypeIssueOnly: {},
}

var validGroupKinds = map[types.GroupKind]struct{}{
	types.GroupKindCollapsible: {},
	types.GroupKindRigid:       {},
	types.GroupKindHidden:      {},
}

// Registry is the compiled, immutable description of all known sources.
type Registry struct {
	Groups []types.SourceGroup
	byID   map[string]types.SourceDescriptor
}

// CompileRegistry validates a raw registry config and compiles it. Any
// malformed descriptor is fatal here so that view computation never has to
// deal with invalid configuration.
func CompileRegistry(ctx context.Context, cfg types.RegistryConfig) (Registry, error) {
	registry := Registry{byID: map[string]types.SourceDescriptor{}}
	for _, group := range cfg.Groups {
		assert.NotEmpty(ctx, group.ID, "group id must be set")
		if _, ok := validGroupKinds[group.Kind]; !ok {
			return Registry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("group %s: unknown kind %q", group.ID, group.Kind))
		}
		if group.Kind != types.GroupKindHidden && group.Title == "" {
			return Registry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("group %s: title is required", group.ID))
		}
		for _, source := range group.Sources {
			if err := validateSource(ctx, group, source); err != nil {
				return Registry{}, err
			}
			if _, dup := registry.byID[source.ID]; dup {
				return Registry{}, errbuilder.New().
					WithCode(errbuilder.CodeAlreadyExists).
					WithMsg(fmt.Sprintf("duplicate source id %s", source.ID))
			}
			registry.byID[source.ID] = source
		}
		registry.Groups = append(registry.Groups, group)
	}
	return registry, nil
}

func validateSource(ctx context.Context, group types.SourceGroup, source types.SourceDescriptor) error {
	assert.NotEmpty(ctx, source.ID, "source id must be set")
	if _, ok := validSourceTypes[source.Type]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s: unknown type %q", source.ID, source.Type))
	}
	if !source.MaxSeverity.Valid() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s: invalid max severity", source.ID))
	}
	switch source.Type {
	case types.SourceTypeIssueOnly:
		if group.Kind == types.GroupKindRigid {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("source %s: issue-only sources cannot be in a rigid group", source.ID))
		}
	case types.SourceTypeStatic:
		if source.DefaultAction == "" && !source.HiddenByDefault {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("source %s: static sources need a default action", source.ID))
		}
	case types.SourceTypeDynamic:
		if source.Title == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("source %s: dynamic sources need a title", source.ID))
		}
	}
	return nil
}

func (r Registry) Source(id string) (types.SourceDescriptor, bool) {
	source, ok := r.byID[id]
	return source, ok
}

// ExternalKeys expands every reporting source over the applicable users of
// the profile group: the primary user always, running managed profiles for
// sources that support them.
func (r Registry) ExternalKeys(group types.UserProfileGroup) []types.SourceKey {
	var keys []types.SourceKey
	for _, sourceGroup := range r.Groups {
		for _, source := range sourceGroup.Sources {
			if !source.External() {
				continue
			}
			keys = append(keys, types.KeyOf(source.ID, group.Primary))
			if !source.ManagedProfiles {
				continue
			}
			for _, userID := range group.RunningManaged() {
				keys = append(keys, types.KeyOf(source.ID, userID))
			}
		}
	}
	return keys
}
