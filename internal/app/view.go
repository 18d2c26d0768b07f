package app

import (
	"safetyhub/internal/types"
)

// View computes the aggregated view for the profile group.
func (s *Service) View(user string, managed []types.ManagedProfile) types.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.View(types.UserProfileGroup{Primary: user, Managed: managed})
}
