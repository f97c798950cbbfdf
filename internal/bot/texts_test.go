package bot

import (
	"testing"

	coreconfig "github.com/chathandevog-hash/Malti-Function-Bot/core/config"
	"github.com/stretchr/testify/assert"
)

func TestProgressLabelKnownSteps(t *testing.T) {
	assert.Contains(t, progressLabel(0), "0%")
	assert.Contains(t, progressLabel(40), "40%")
	assert.Contains(t, progressLabel(65), "65%")
	assert.Contains(t, progressLabel(100), "100%")
	assert.Contains(t, progressLabel(33), "33%")
}

func TestBuildMilestonesPrefersConfiguredLabels(t *testing.T) {
	in := []coreconfig.Milestone{
		{Percent: 0},
		{Percent: 50, Label: "halfway there"},
		{Percent: 100},
	}
	out := buildMilestones(in)

	assert.Len(t, out, 3)
	assert.Contains(t, out[0].Label, "0%")
	assert.Equal(t, "halfway there", out[1].Label)
	assert.Contains(t, out[2].Label, "100%")
}
