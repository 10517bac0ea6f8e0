package ui

import (
	"testing"

	"nescore/emu"
)

func TestShaderNames(t *testing.T) {
	if len(ShaderNames) != len(fragmentShaders) {
		t.Fatalf("%d shader names for %d shaders", len(ShaderNames), len(fragmentShaders))
	}
	for _, name := range ShaderNames {
		if _, err := fragmentSource(name); err != nil {
			t.Errorf("fragmentSource(%q) = %v", name, err)
		}
	}
	if _, err := fragmentSource("bogus"); err == nil {
		t.Errorf("fragmentSource(bogus) succeeded")
	}

	if got := emu.DefaultConfig().Video.Shader; got != ShaderNames[0] {
		t.Errorf("default shader is %q, want %q", got, ShaderNames[0])
	}
}
