package types

import (
	"fmt"
	"strings"
)

// Severity is the scale sources report on. Unknown is deliberately not part
// of this scale: a source that has not reported has no severity at all.
type Severity int

const (
	SeverityUnspecified Severity = iota
	SeverityInformation
	SeverityRecommendation
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityUnspecified:
		return "unspecified"
	case SeverityInformation:
		return "information"
	case SeverityRecommendation:
		return "recommendation"
	case SeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) Valid() bool {
	return s >= SeverityUnspecified && s <= SeverityCritical
}

func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "unspecified", "":
		return SeverityUnspecified, nil
	case "information", "info":
		return SeverityInformation, nil
	case "recommendation":
		return SeverityRecommendation, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityUnspecified, fmt.Errorf("unknown severity %q", value)
}

func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// EntrySeverity is the scale an individual entry is displayed at. Unknown
// sorts below everything else so a plain max never prefers it.
type EntrySeverity int

const (
	EntrySeverityUnknown EntrySeverity = iota
	EntrySeverityUnspecified
	EntrySeverityOK
	EntrySeverityRecommendation
	EntrySeverityCritical
)

func (s EntrySeverity) String() string {
	switch s {
	case EntrySeverityUnknown:
		return "unknown"
	case EntrySeverityUnspecified:
		return "unspecified"
	case EntrySeverityOK:
		return "ok"
	case EntrySeverityRecommendation:
		return "recommendation"
	case EntrySeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("entry-severity(%d)", int(s))
}

// OverallSeverity is the aggregate scale of the whole view.
type OverallSeverity int

const (
	OverallSeverityUnknown OverallSeverity = iota
	OverallSeverityOK
	OverallSeverityRecommendation
	OverallSeverityCritical
)

func (s OverallSeverity) String() string {
	switch s {
	case OverallSeverityUnknown:
		return "unknown"
	case OverallSeverityOK:
		return "ok"
	case OverallSeverityRecommendation:
		return "recommendation"
	case OverallSeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("overall-severity(%d)", int(s))
}
