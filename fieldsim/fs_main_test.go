package main

import (
	"testing"

	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldsim/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cfg := particlefield.DefaultConfig()
	applyFlags(&cfg, "", 0, 0, false, "", 0)
	assert.Equal(t, particlefield.DefaultConfig(), cfg, "zero flags keep the config")

	applyFlags(&cfg, "headless", 500, 9, true, ":9100", 30)
	assert.Equal(t, particlefield.FrontendHeadless, cfg.Frontend)
	assert.Equal(t, 500, cfg.Particles)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, 30, cfg.Headless.Frames)
}

func TestNewContext(t *testing.T) {
	cfg := particlefield.DefaultConfig()
	cfg.EmitterPolicy = "always"
	cfg.Velocity = "constant"
	cfg.Params.Invert = true
	cfg.Params.LifeMin, cfg.Params.LifeMax = 12, 3

	ctx, err := newContext(cfg)
	require.NoError(t, err)
	assert.Equal(t, core.CommitAlways, ctx.Emitters.Policy())
	assert.Equal(t, core.VelocityConstant, ctx.Velocity)
	assert.Equal(t, float32(-1), ctx.Params.Invert)
	assert.LessOrEqual(t, ctx.Params.LifeMin, ctx.Params.LifeMax, "parameters are normalized")
	assert.Equal(t, cfg.Field.Gravity, ctx.Field.G)

	cfg.Velocity = "warp"
	_, err = newContext(cfg)
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	cfg := particlefield.DefaultConfig()
	cfg.Frontend = particlefield.FrontendHeadless
	cfg.Particles = 64
	cfg.Headless.Frames = 120

	ctx, err := newContext(cfg)
	require.NoError(t, err)
	assert.NoError(t, runHeadless(cfg, ctx, nil, particlefield.NewNopLogger()))
}
