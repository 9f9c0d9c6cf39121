package shaders

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/stretchr/testify/assert"
)

func TestEmitterCapacityMatchesHost(t *testing.T) {
	assert.Contains(t, CommonWGSL, fmt.Sprintf("const MAX_EMITTERS: u32 = %du;", core.MaxEmitters))
	assert.Contains(t, CommonWGSL, fmt.Sprintf("emitters: array<vec4<f32>, %d>", core.MaxEmitters))
}

func TestStagesIncludeCommon(t *testing.T) {
	for name, src := range map[string]string{
		"update":    ParticleUpdateWGSL,
		"particles": ParticleRenderWGSL,
		"field":     FieldRenderWGSL,
	} {
		assert.True(t, strings.HasPrefix(src, CommonWGSL), name)
		assert.Greater(t, len(src), len(CommonWGSL), name)
	}
	assert.Contains(t, ParticleUpdateWGSL, "@workgroup_size(64)")
}
