package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunGolden loads a scenario file, runs it, and compares the rendered trace
// against testdata/golden/{name}.golden.
//
// To regenerate golden files after an intentional behavior change:
//
//	go test ./internal/harness -update
func RunGolden(t *testing.T, scenarioPath string) error {
	t.Helper()

	scn, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	res, err := Run(scn)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scn.Name, res.RenderText())
	return nil
}
