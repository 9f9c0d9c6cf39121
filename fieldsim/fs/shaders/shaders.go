package shaders

import (
	_ "embed"
)

//go:embed common.wgsl
var CommonWGSL string

//go:embed particle_update.wgsl
var particleUpdateBody string

//go:embed particle_render.wgsl
var particleRenderBody string

//go:embed field_render.wgsl
var fieldRenderBody string

// The stage sources share the SimParams uniform and field helpers in common.wgsl.
var (
	ParticleUpdateWGSL = CommonWGSL + particleUpdateBody
	ParticleRenderWGSL = CommonWGSL + particleRenderBody
	FieldRenderWGSL    = CommonWGSL + fieldRenderBody
)
