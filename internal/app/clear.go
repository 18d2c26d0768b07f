package app

import (
	"github.com/rs/zerolog/log"
)

// ClearData wipes all runtime state: reports, dismissals and any refresh
// in progress. The persisted dismissal store is emptied as well.
func (s *Service) ClearData() error {
	s.mu.Lock()
	s.store.Clear()
	s.cache.Clear()
	s.tracker.Clear()
	s.mu.Unlock()

	log.Info().Msg("cleared all data")
	return s.dismissals.Save(nil)
}

// ClearForUser drops every trace of one user: their reports, their
// dismissal records and their share of any ongoing refresh. Removing the
// primary owner of a refresh clears the whole session.
func (s *Service) ClearForUser(userID string) error {
	s.mu.Lock()
	s.store.ClearForUser(userID)
	s.cache.ClearForUser(userID)
	s.tracker.ClearForUser(userID)
	export := s.cache.Export()
	s.mu.Unlock()

	log.Info().Str("user", userID).Msg("cleared data for user")
	return s.dismissals.Save(export)
}
