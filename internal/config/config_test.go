package config

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (ts *ConfigTestSuite) TestValidatePasses() {
	ts.NoError(Validate())
}

func (ts *ConfigTestSuite) TestIDsMatchSliceIndex() {
	for i, p := range Procs {
		ts.EqualValues(i, p.ID)
	}
}

func (ts *ConfigTestSuite) TestExactlyOneIdlePerCore() {
	for _, core := range CoreIDs() {
		idleCount := 0
		for _, p := range OnCore(core) {
			if p.Kind.String() == "idle" {
				idleCount++
			}
		}
		ts.Equal(1, idleCount, "core %d must have exactly one idle task", core)
	}
}

func (ts *ConfigTestSuite) TestByNameLooksUpProcSpec() {
	p, ok := ByName["TaskAlpha"]
	ts.True(ok)
	ts.EqualValues(10, p.BasePriority)
}

func (ts *ConfigTestSuite) TestMaxPriorityCoversResourceCeilings() {
	max := MaxPriority()
	for _, p := range Procs {
		ts.LessOrEqual(p.BasePriority, max)
		ts.LessOrEqual(p.ResourceCeiling, max)
	}
}
