package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"safetyhub/internal/types"
)

// CannedReport is one file-provided answer for the in-process transport:
// what a source reports for one user, or for every user when User is
// empty. Fail simulates a source that cannot answer.
type CannedReport struct {
	Source string             `yaml:"source"`
	User   string             `yaml:"user"`
	Fail   bool               `yaml:"fail"`
	Report types.SourceReport `yaml:"report"`
}

type cannedReportsFile struct {
	Reports []CannedReport `yaml:"reports"`
}

func LoadCannedReports(path string) ([]CannedReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("reports file not found").
			WithCause(err)
	}
	var file cannedReportsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse reports yaml").
			WithCause(err)
	}
	return file.Reports, nil
}

// RegisterCannedReports wires the reports into the transport, one reporter
// per source. A user-specific report wins over the source's catch-all.
func RegisterCannedReports(transport *InprocTransport, reports []CannedReport) {
	bySource := map[string][]CannedReport{}
	for _, report := range reports {
		bySource[report.Source] = append(bySource[report.Source], report)
	}
	for sourceID, canned := range bySource {
		canned := canned
		transport.Register(sourceID, func(_ context.Context, userID string) (types.SourceReport, error) {
			var fallback *CannedReport
			for i, report := range canned {
				if report.User == userID {
					return report.answer()
				}
				if report.User == "" && fallback == nil {
					fallback = &canned[i]
				}
			}
			if fallback != nil {
				return fallback.answer()
			}
			return types.SourceReport{}, fmt.Errorf("no canned report for user %s", userID)
		})
	}
}

func (r CannedReport) answer() (types.SourceReport, error) {
	if r.Fail {
		return types.SourceReport{}, fmt.Errorf("source %s configured to fail", r.Source)
	}
	return r.Report, nil
}
