package core

import (
	"fmt"

	"safetyhub/internal/types"
)

// Status text lives inline: resource loading and localization belong to
// the presentation layer, the engine only picks the phrasing tier.

const (
	scanningTitle  = "Scanning device settings"
	loadingSummary = "Checking device settings…"

	okTitle         = "Looks good"
	okReviewTitle   = "Review your settings"
	okSummary       = "No problems found"
	okReviewSummary = "Some settings need your review"

	profilePausedSummary = "Work profile is paused"
	groupUnknownSummary  = "No info yet"
)

var recommendationTitles = map[types.IssueCategory]string{
	types.IssueCategoryDevice:  "Device recommendation",
	types.IssueCategoryAccount: "Account recommendation",
	types.IssueCategoryGeneral: "Safety recommendation",
}

var criticalTitles = map[types.IssueCategory]string{
	types.IssueCategoryDevice:  "Your device is at risk",
	types.IssueCategoryAccount: "Your account is at risk",
	types.IssueCategoryGeneral: "Your safety is at risk",
}

func alertsSummary(count int) string {
	if count == 1 {
		return "1 alert"
	}
	return fmt.Sprintf("%d alerts", count)
}

func refreshErrorSummary(count int) string {
	if count == 1 {
		return "Couldn’t refresh 1 setting"
	}
	return fmt.Sprintf("Couldn’t refresh %d settings", count)
}
